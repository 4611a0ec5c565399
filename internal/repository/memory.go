package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/bimarsk/jadwalbot/internal/models"
)

// MemoryScheduleRepository is a mutex-guarded in-memory implementation of the
// schedule storage contract. It backs the unit tests and local development
// without a database; the Postgres repository is the production path.
type MemoryScheduleRepository struct {
	mu        sync.RWMutex
	nextID    int
	schedules []*models.Schedule
}

func NewMemoryScheduleRepository() *MemoryScheduleRepository {
	return &MemoryScheduleRepository{nextID: 1}
}

func (r *MemoryScheduleRepository) Create(_ context.Context, schedule *models.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.schedules {
		if s.Day == schedule.Day && s.Activity == schedule.Activity && s.Time == schedule.Time {
			return ErrDuplicate
		}
	}

	schedule.ID = r.nextID
	r.nextID++
	stored := *schedule
	r.schedules = append(r.schedules, &stored)
	return nil
}

func (r *MemoryScheduleRepository) FindByActivity(_ context.Context, activity string, day int, month string) (*models.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Newest match wins, same as the Postgres ORDER BY id DESC.
	for i := len(r.schedules) - 1; i >= 0; i-- {
		s := r.schedules[i]
		if s.Activity == activity && s.Day == day && s.Month == month {
			found := *s
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryScheduleRepository) UpdateActivity(_ context.Context, id int, newActivity string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var changed int64
	for _, s := range r.schedules {
		if s.ID == id {
			s.Activity = newActivity
			changed++
		}
	}
	return changed, nil
}

func (r *MemoryScheduleRepository) UpdateDay(_ context.Context, id int, newDay int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var changed int64
	for _, s := range r.schedules {
		if s.ID == id {
			s.Day = newDay
			changed++
		}
	}
	return changed, nil
}

func (r *MemoryScheduleRepository) Delete(_ context.Context, id int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.schedules[:0]
	var removed int64
	for _, s := range r.schedules {
		if s.ID == id {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	r.schedules = kept
	return removed, nil
}

func (r *MemoryScheduleRepository) GetByDate(_ context.Context, day int, month string) ([]*models.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Schedule
	for _, s := range r.schedules {
		if s.Day == day && s.Month == month {
			found := *s
			result = append(result, &found)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Time < result[j].Time })
	return result, nil
}

func (r *MemoryScheduleRepository) GetUpcoming(_ context.Context, day int, month string, after, until string) ([]*models.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Schedule
	for _, s := range r.schedules {
		if s.Day == day && s.Month == month && s.Time > after && s.Time <= until {
			found := *s
			result = append(result, &found)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Time < result[j].Time })
	return result, nil
}

func (r *MemoryScheduleRepository) All(_ context.Context) ([]*models.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Schedule, 0, len(r.schedules))
	for _, s := range r.schedules {
		found := *s
		result = append(result, &found)
	}
	return result, nil
}

func (r *MemoryScheduleRepository) DeleteByIDs(_ context.Context, ids []int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doomed := make(map[int]bool, len(ids))
	for _, id := range ids {
		doomed[id] = true
	}

	kept := r.schedules[:0]
	var removed int64
	for _, s := range r.schedules {
		if doomed[s.ID] {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	r.schedules = kept
	return removed, nil
}
