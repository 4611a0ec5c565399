package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bimarsk/jadwalbot/internal/database"
	"github.com/bimarsk/jadwalbot/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no schedule.
	ErrNotFound = errors.New("schedule not found")
	// ErrDuplicate is returned when an insert violates the
	// (day, activity, time) unique index.
	ErrDuplicate = errors.New("schedule already exists")
)

const uniqueViolation = "23505"

type ScheduleRepository struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO schedules (time, day, month, activity)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		schedule.Time, schedule.Day, schedule.Month, schedule.Activity,
	).Scan(&schedule.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// FindByActivity matches on the (activity, day, month) triple. If more than
// one row matches, the most recently created one wins.
func (r *ScheduleRepository) FindByActivity(ctx context.Context, activity string, day int, month string) (*models.Schedule, error) {
	schedule := &models.Schedule{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, time, day, month, activity FROM schedules
		 WHERE activity = $1 AND day = $2 AND month = $3
		 ORDER BY id DESC LIMIT 1`,
		activity, day, month,
	).Scan(&schedule.ID, &schedule.Time, &schedule.Day, &schedule.Month, &schedule.Activity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return schedule, nil
}

func (r *ScheduleRepository) UpdateActivity(ctx context.Context, id int, newActivity string) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE schedules SET activity = $1 WHERE id = $2`,
		newActivity, id,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *ScheduleRepository) UpdateDay(ctx context.Context, id int, newDay int) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE schedules SET day = $1 WHERE id = $2`,
		newDay, id,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *ScheduleRepository) Delete(ctx context.Context, id int) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM schedules WHERE id = $1`,
		id,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// GetByDate returns all schedules for one (day, month) pair ordered by time.
// Times are stored zero-padded, so text ordering is chronological.
func (r *ScheduleRepository) GetByDate(ctx context.Context, day int, month string) ([]*models.Schedule, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, time, day, month, activity FROM schedules
		 WHERE day = $1 AND month = $2 ORDER BY time ASC`,
		day, month,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSchedules(rows)
}

// GetUpcoming returns today's schedules with after < time <= until.
func (r *ScheduleRepository) GetUpcoming(ctx context.Context, day int, month string, after, until string) ([]*models.Schedule, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, time, day, month, activity FROM schedules
		 WHERE day = $1 AND month = $2 AND time > $3 AND time <= $4
		 ORDER BY time ASC`,
		day, month, after, until,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSchedules(rows)
}

func (r *ScheduleRepository) All(ctx context.Context) ([]*models.Schedule, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, time, day, month, activity FROM schedules ORDER BY id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSchedules(rows)
}

func (r *ScheduleRepository) DeleteByIDs(ctx context.Context, ids []int) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM schedules WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanSchedules(rows pgx.Rows) ([]*models.Schedule, error) {
	var schedules []*models.Schedule
	for rows.Next() {
		schedule := &models.Schedule{}
		if err := rows.Scan(&schedule.ID, &schedule.Time, &schedule.Day, &schedule.Month, &schedule.Activity); err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	return schedules, rows.Err()
}
