package schedule

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/bimarsk/jadwalbot/internal/models"
	"github.com/bimarsk/jadwalbot/internal/observability"
	"github.com/bimarsk/jadwalbot/internal/repository"
)

// Repository is the storage contract the store runs on. Implemented by
// repository.ScheduleRepository (Postgres) and
// repository.MemoryScheduleRepository.
type Repository interface {
	Create(ctx context.Context, schedule *models.Schedule) error
	FindByActivity(ctx context.Context, activity string, day int, month string) (*models.Schedule, error)
	UpdateActivity(ctx context.Context, id int, newActivity string) (int64, error)
	UpdateDay(ctx context.Context, id int, newDay int) (int64, error)
	Delete(ctx context.Context, id int) (int64, error)
	GetByDate(ctx context.Context, day int, month string) ([]*models.Schedule, error)
	GetUpcoming(ctx context.Context, day int, month string, after, until string) ([]*models.Schedule, error)
	All(ctx context.Context) ([]*models.Schedule, error)
	DeleteByIDs(ctx context.Context, ids []int) (int64, error)
}

// DefaultLookahead is the due-soon window. It is 5 minutes longer than the
// scan cadence so an activity scheduled exactly on the next tick boundary is
// never skipped.
const DefaultLookahead = 35 * time.Minute

var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Store owns the activity schedules: validation, defaulting, CRUD and the
// due-soon scan. One instance is created at startup and shared by the
// dispatcher and the reminder scanner.
type Store struct {
	repo Repository
	now  func() time.Time
}

func NewStore(repo Repository) *Store {
	return &Store{repo: repo, now: time.Now}
}

func validateTime(timeStr string) error {
	if !timePattern.MatchString(timeStr) {
		return &ValidationError{Message: "Time must be in HH:MM format (e.g., 09:30)"}
	}
	return nil
}

func validateDay(day int) error {
	if day < 1 || day > 31 {
		return &ValidationError{Message: "Date must be an integer between 1 and 31"}
	}
	return nil
}

func validateMonth(month string) error {
	if _, ok := models.MonthIndex(month); !ok {
		return &ValidationError{Message: "Use month names e.g Januari"}
	}
	return nil
}

// Add persists a new schedule. Zero day and empty month default to today.
// Returns the confirmation reply on success.
func (s *Store) Add(ctx context.Context, timeStr string, day int, month string, activity string) (string, error) {
	now := s.now()
	if month == "" {
		month = models.MonthName(int(now.Month()))
	}
	if day == 0 {
		day = now.Day()
	}

	if err := validateTime(timeStr); err != nil {
		return "", err
	}
	if err := validateDay(day); err != nil {
		return "", err
	}
	if err := validateMonth(month); err != nil {
		return "", err
	}

	sched := &models.Schedule{Time: timeStr, Day: day, Month: month, Activity: activity}
	if err := s.repo.Create(ctx, sched); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", &DuplicateError{Activity: activity}
		}
		return "", err
	}

	return fmt.Sprintf("Jadwal '%s' berhasil ditambahkan pada %d %s, pukul %s", activity, day, month, timeStr), nil
}

// FindByActivity matches on the (activity, day, month) triple; time is not
// part of the lookup key.
func (s *Store) FindByActivity(ctx context.Context, activity string, day int, month string) (*models.Schedule, error) {
	sched, err := s.repo.FindByActivity(ctx, activity, day, month)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Activity: activity}
		}
		return nil, err
	}
	return sched, nil
}

// RenameActivity changes the activity text of one schedule. Returns false
// without error when no schedule matches.
func (s *Store) RenameActivity(ctx context.Context, activity string, day int, month string, newActivity string) (bool, error) {
	now := s.now()
	if month == "" {
		month = models.MonthName(int(now.Month()))
	}
	if day == 0 {
		day = now.Day()
	}

	if err := validateDay(day); err != nil {
		return false, err
	}
	if err := validateMonth(month); err != nil {
		return false, err
	}

	sched, err := s.FindByActivity(ctx, activity, day, month)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}

	changed, err := s.repo.UpdateActivity(ctx, sched.ID, newActivity)
	if err != nil {
		return false, err
	}
	return changed == 1, nil
}

// RescheduleActivity moves a schedule from day to newDay. The month is left
// untouched: moving across a month boundary takes a separate rename.
func (s *Store) RescheduleActivity(ctx context.Context, activity string, day, newDay int, month string) (bool, error) {
	if err := validateDay(day); err != nil {
		return false, err
	}
	if err := validateDay(newDay); err != nil {
		return false, err
	}
	if month == "" {
		month = models.MonthName(int(s.now().Month()))
	}

	sched, err := s.FindByActivity(ctx, activity, day, month)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}

	changed, err := s.repo.UpdateDay(ctx, sched.ID, newDay)
	if err != nil {
		return false, err
	}
	return changed == 1, nil
}

// RemoveActivity deletes one schedule. Returns false without error when no
// schedule matches.
func (s *Store) RemoveActivity(ctx context.Context, activity string, day int, month string) (bool, error) {
	now := s.now()
	if month == "" {
		month = models.MonthName(int(now.Month()))
	}
	if day == 0 {
		day = now.Day()
	}

	if err := validateDay(day); err != nil {
		return false, err
	}
	if err := validateMonth(month); err != nil {
		return false, err
	}

	sched, err := s.FindByActivity(ctx, activity, day, month)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}

	removed, err := s.repo.Delete(ctx, sched.ID)
	if err != nil {
		return false, err
	}
	return removed > 0, nil
}

// GetToday returns today's "<day> <month>" label and today's schedules
// ordered by time.
func (s *Store) GetToday(ctx context.Context) (string, []*models.Schedule, error) {
	now := s.now()
	day := now.Day()
	month := models.MonthName(int(now.Month()))

	schedules, err := s.repo.GetByDate(ctx, day, month)
	if err != nil {
		return "", nil, err
	}

	return fmt.Sprintf("%d %s", day, month), schedules, nil
}

// GetWeek returns the schedules of the current Monday-start week, sorted by
// (month index, day, time). The seven days are resolved with AddDate, so
// month boundaries land on real calendar dates.
func (s *Store) GetWeek(ctx context.Context) ([]*models.Schedule, error) {
	now := s.now()
	monday := now.AddDate(0, 0, -((int(now.Weekday()) + 6) % 7))

	var all []*models.Schedule
	for i := 0; i < 7; i++ {
		date := monday.AddDate(0, 0, i)
		schedules, err := s.repo.GetByDate(ctx, date.Day(), models.MonthName(int(date.Month())))
		if err != nil {
			return nil, err
		}
		all = append(all, schedules...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		mi, _ := models.MonthIndex(all[i].Month)
		mj, _ := models.MonthIndex(all[j].Month)
		if mi != mj {
			return mi < mj
		}
		if all[i].Day != all[j].Day {
			return all[i].Day < all[j].Day
		}
		return all[i].Time < all[j].Time
	})

	return all, nil
}

// ScanDueSoon sweeps outdated schedules, then returns today's schedules with
// now < time <= now+lookahead, ordered by time. An empty result is not an
// error.
func (s *Store) ScanDueSoon(ctx context.Context, lookahead time.Duration) ([]*models.Schedule, error) {
	now := s.now()

	if err := s.sweepOutdated(ctx, now); err != nil {
		return nil, err
	}

	after := now.Format("15:04")
	until := now.Add(lookahead).Format("15:04")

	return s.repo.GetUpcoming(ctx, now.Day(), models.MonthName(int(now.Month())), after, until)
}

// sweepOutdated deletes every schedule whose (month, day, time) resolves to
// a moment before now in the current year. A December schedule evaluated in
// January resolves to the December just past and is swept; records carry no
// year, so the current year is the only frame of reference.
func (s *Store) sweepOutdated(ctx context.Context, now time.Time) error {
	schedules, err := s.repo.All(ctx)
	if err != nil {
		return err
	}

	var outdated []int
	for _, sched := range schedules {
		month, ok := models.MonthIndex(sched.Month)
		if !ok {
			continue
		}
		hour, minute, ok := parseClock(sched.Time)
		if !ok {
			continue
		}
		at := time.Date(now.Year(), time.Month(month), sched.Day, hour, minute, 0, 0, now.Location())
		if at.Before(now) {
			outdated = append(outdated, sched.ID)
		}
	}

	purged, err := s.repo.DeleteByIDs(ctx, outdated)
	if err != nil {
		return err
	}
	observability.RecordSchedulesPurged(purged)
	return nil
}

func parseClock(timeStr string) (hour, minute int, ok bool) {
	if !timePattern.MatchString(timeStr) {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(timeStr[:2])
	minute, _ = strconv.Atoi(timeStr[3:])
	return hour, minute, true
}
