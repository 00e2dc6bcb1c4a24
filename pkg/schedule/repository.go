package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	WithTransaction(ctx context.Context, fn func(repo Repository) error) error
	ReplaceImported(ctx context.Context, userId string, events []Event) error
	GetEvents(ctx context.Context, userId string) ([]Event, error)
	GetEvent(ctx context.Context, userId string, eventId string) (*Event, error)
	StoreEvent(ctx context.Context, userId string, event Event) error
	UpdateEvent(ctx context.Context, userId string, event Event) error
	UpdateStatus(ctx context.Context, userId string, eventId string, status Status) error
	DeleteEvent(ctx context.Context, userId string, eventId string) error
}

type RepositoryImpl struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db, tx: nil}
}

// getQueryer returns the appropriate database interface for queries (either tx or db)
func (r *RepositoryImpl) getQueryer() interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *RepositoryImpl) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		// The Rollback will be a no-op if the transaction was already committed
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Errorf("rollback error: %v", rbErr)
		}
	}()

	txRepo := &RepositoryImpl{db: r.db, tx: tx}

	if err := fn(txRepo); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

const insertEventQuery = `INSERT INTO schedule_event (
		user_id, id, title, kind,
		due_date, has_time, end_date, recurrence, days_of_week,
		description, location, course_code, points, weight,
		priority, status, is_edited, position
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

// ReplaceImported swaps out the normalizer-produced part of a user's schedule
// while leaving manually added events in place. Manual events are renumbered to
// follow the freshly imported ones so listing order stays stable.
func (r *RepositoryImpl) ReplaceImported(ctx context.Context, userId string, events []Event) error {
	return r.WithTransaction(ctx, func(repo Repository) error {
		txRepo := repo.(*RepositoryImpl)
		q := txRepo.getQueryer()

		_, err := q.ExecContext(ctx,
			`DELETE FROM schedule_event WHERE user_id = $1 AND id NOT LIKE 'manual-%'`, userId)
		if err != nil {
			err := fmt.Errorf("could not clear imported events: %w", err)
			log.Error(err)
			return err
		}

		for i, event := range events {
			if err := txRepo.insertEvent(ctx, userId, event, i); err != nil {
				return err
			}
		}

		rows, err := q.QueryContext(ctx,
			`SELECT id FROM schedule_event WHERE user_id = $1 AND id LIKE 'manual-%' ORDER BY position, id`, userId)
		if err != nil {
			err := fmt.Errorf("could not list manual events: %w", err)
			log.Error(err)
			return err
		}
		manualIds := make([]string, 0, 4)
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return fmt.Errorf("could not scan row: %w", err)
			}
			manualIds = append(manualIds, id)
		}
		rows.Close()

		for i, id := range manualIds {
			_, err := q.ExecContext(ctx,
				`UPDATE schedule_event SET position = $1 WHERE user_id = $2 AND id = $3`,
				len(events)+i, userId, id)
			if err != nil {
				err := fmt.Errorf("could not renumber manual event: %w", err)
				log.Error(err)
				return err
			}
		}

		return nil
	})
}

func (r *RepositoryImpl) insertEvent(ctx context.Context, userId string, event Event, position int) error {
	var endDate sql.NullInt64
	if event.EndDate != nil {
		endDate = sql.NullInt64{Int64: event.EndDate.Unix(), Valid: true}
	}

	_, err := r.getQueryer().ExecContext(ctx, insertEventQuery,
		userId, event.ID, event.Title, string(event.Kind),
		event.DueDate.Unix(), boolToInt(event.HasTime), endDate,
		string(event.Recurrence), weekdaysToNames(event.DaysOfWeek),
		event.Description, event.Location, event.CourseCode,
		floatOrNull(event.Points), floatOrNull(event.Weight),
		string(event.Priority), string(event.Status), boolToInt(event.IsEdited), position)
	if err != nil {
		err := fmt.Errorf("could not store event %s: %w", event.ID, err)
		log.Error(err)
		return err
	}
	return nil
}

// StoreEvent appends a single event at the end of the user's schedule.
func (r *RepositoryImpl) StoreEvent(ctx context.Context, userId string, event Event) error {
	row := r.getQueryer().QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), -1) + 1 FROM schedule_event WHERE user_id = $1`, userId)
	var position int
	if err := row.Scan(&position); err != nil {
		err := fmt.Errorf("could not determine event position: %w", err)
		log.Error(err)
		return err
	}
	return r.insertEvent(ctx, userId, event, position)
}

const selectEventColumns = `id, title, kind, due_date, has_time, end_date, recurrence, days_of_week,
		description, location, course_code, points, weight, priority, status, is_edited`

func (r *RepositoryImpl) GetEvents(ctx context.Context, userId string) ([]Event, error) {
	query := `SELECT ` + selectEventColumns + `
		FROM schedule_event
		WHERE user_id = $1
		ORDER BY position, id`

	rows, err := r.getQueryer().QueryContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query schedule events: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	events := make([]Event, 0, 16)
	for rows.Next() {
		event, err := scanEvent(rows.Scan)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *RepositoryImpl) GetEvent(ctx context.Context, userId string, eventId string) (*Event, error) {
	query := `SELECT ` + selectEventColumns + `
		FROM schedule_event
		WHERE user_id = $1 AND id = $2`

	row := r.getQueryer().QueryRowContext(ctx, query, userId, eventId)
	event, err := scanEvent(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Error(err)
		return nil, err
	}
	return &event, nil
}

func (r *RepositoryImpl) UpdateEvent(ctx context.Context, userId string, event Event) error {
	var endDate sql.NullInt64
	if event.EndDate != nil {
		endDate = sql.NullInt64{Int64: event.EndDate.Unix(), Valid: true}
	}

	query := `UPDATE schedule_event SET
			title = $1, kind = $2, due_date = $3, has_time = $4, end_date = $5,
			recurrence = $6, days_of_week = $7, description = $8, location = $9,
			course_code = $10, points = $11, weight = $12, priority = $13,
			status = $14, is_edited = $15
		WHERE user_id = $16 AND id = $17`
	_, err := r.getQueryer().ExecContext(ctx, query,
		event.Title, string(event.Kind), event.DueDate.Unix(), boolToInt(event.HasTime), endDate,
		string(event.Recurrence), weekdaysToNames(event.DaysOfWeek), event.Description, event.Location,
		event.CourseCode, floatOrNull(event.Points), floatOrNull(event.Weight), string(event.Priority),
		string(event.Status), boolToInt(event.IsEdited),
		userId, event.ID)
	if err != nil {
		err := fmt.Errorf("could not update event %s: %w", event.ID, err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) UpdateStatus(ctx context.Context, userId string, eventId string, status Status) error {
	query := `UPDATE schedule_event SET status = $1 WHERE user_id = $2 AND id = $3`
	_, err := r.getQueryer().ExecContext(ctx, query, string(status), userId, eventId)
	if err != nil {
		err := fmt.Errorf("could not update event status: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) DeleteEvent(ctx context.Context, userId string, eventId string) error {
	query := `DELETE FROM schedule_event WHERE user_id = $1 AND id = $2`
	_, err := r.getQueryer().ExecContext(ctx, query, userId, eventId)
	if err != nil {
		err := fmt.Errorf("could not delete event: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func scanEvent(scan func(dest ...any) error) (Event, error) {
	var event Event
	var kind, recurrence, daysOfWeek, priority, status string
	var dueDateUnix int64
	var hasTime, isEdited int64
	var endDateUnix sql.NullInt64
	var points, weight sql.NullFloat64

	err := scan(&event.ID, &event.Title, &kind, &dueDateUnix, &hasTime, &endDateUnix,
		&recurrence, &daysOfWeek, &event.Description, &event.Location, &event.CourseCode,
		&points, &weight, &priority, &status, &isEdited)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Event{}, err
		}
		return Event{}, fmt.Errorf("could not scan row: %w", err)
	}

	event.Kind = Kind(kind)
	event.DueDate = time.Unix(dueDateUnix, 0).UTC()
	event.HasTime = hasTime != 0
	if endDateUnix.Valid {
		endDate := time.Unix(endDateUnix.Int64, 0).UTC()
		event.EndDate = &endDate
	}
	event.Recurrence = Recurrence(recurrence)
	days, err := namesToWeekdays(daysOfWeek)
	if err != nil {
		return Event{}, err
	}
	event.DaysOfWeek = days
	if points.Valid {
		event.Points = &points.Float64
	}
	if weight.Valid {
		event.Weight = &weight.Float64
	}
	event.Priority = Priority(priority)
	event.Status = Status(status)
	event.IsEdited = isEdited != 0

	return event, nil
}

func weekdaysToNames(days []time.Weekday) string {
	if len(days) == 0 {
		return ""
	}
	names := make([]string, 0, len(days))
	for _, day := range days {
		names = append(names, day.String())
	}
	return strings.Join(names, ",")
}

func namesToWeekdays(s string) ([]time.Weekday, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	days := make([]time.Weekday, 0, len(parts))
	for _, part := range parts {
		day, err := ParseWeekday(part)
		if err != nil {
			return nil, fmt.Errorf("could not decode weekday set: %w", err)
		}
		days = append(days, day)
	}
	return days, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func floatOrNull(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
