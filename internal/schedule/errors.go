package schedule

import "fmt"

// ValidationError reports a malformed time, day or month value.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// DuplicateError reports an Add that collides with an existing
// (day, activity, time) triple.
type DuplicateError struct {
	Activity string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("An activity with the name '%s' already exists", e.Activity)
}

// NotFoundError reports a lookup that matched no schedule.
type NotFoundError struct {
	Activity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("No schedule found with activity: %s", e.Activity)
}
