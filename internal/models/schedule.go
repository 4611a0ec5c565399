package models

// Schedule is one stored activity: a day-of-month, an Indonesian month name
// and a wall-clock time. Records carry no year; see schedule.Store for how
// they are compared against "now".
type Schedule struct {
	ID       int    `json:"id"`
	Time     string `json:"time"`  // HH:MM, 24-hour, zero-padded
	Day      int    `json:"day"`   // 1-31
	Month    string `json:"month"` // lower-case Indonesian month name
	Activity string `json:"activity"`
}

var monthNames = map[int]string{
	1:  "januari",
	2:  "februari",
	3:  "maret",
	4:  "april",
	5:  "mei",
	6:  "juni",
	7:  "juli",
	8:  "agustus",
	9:  "september",
	10: "oktober",
	11: "november",
	12: "desember",
}

var monthIndices = func() map[string]int {
	m := make(map[string]int, len(monthNames))
	for idx, name := range monthNames {
		m[name] = idx
	}
	return m
}()

// MonthName returns the Indonesian name for a 1-12 month index.
func MonthName(index int) string {
	return monthNames[index]
}

// MonthIndex resolves a lower-case Indonesian month name to its 1-12 index.
// ok is false for unrecognized names.
func MonthIndex(name string) (int, bool) {
	idx, ok := monthIndices[name]
	return idx, ok
}
