package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lwandile/facility-booking/internal/model"
)

// EventRepo provides CRUD operations for hosted events.  Events carry
// a flat per-attendee price and their own capacity, independent of the
// facility's hourly booking capacity.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns an EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

const eventCols = `id, facility_id, name, description, price_cents, start_date, end_date, capacity, is_active, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.FacilityID, &e.Name, &e.Description, &e.PriceCents,
		&e.StartDate, &e.EndDate, &e.Capacity, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new event and assigns the generated ID back to the
// struct.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	const q = `INSERT INTO events (facility_id, name, description, price_cents, start_date, end_date, capacity, is_active)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, e.FacilityID, e.Name, e.Description,
		e.PriceCents, e.StartDate, e.EndDate, e.Capacity, e.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM events WHERE id = ?`, e.ID).
		Scan(&e.CreatedAt, &e.UpdatedAt)
}

// GetByID retrieves an event by its ID.  It returns ErrEventNotFound
// when no matching row exists.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx,
		`SELECT `+eventCols+` FROM events WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

// ListActive returns active events that have not yet ended, soonest
// first.
func (r *EventRepo) ListActive(ctx context.Context, now time.Time) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventCols+` FROM events WHERE is_active = 1 AND end_date > ? ORDER BY start_date ASC`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of an event.
func (r *EventRepo) Update(ctx context.Context, e *model.Event) error {
	const q = `UPDATE events
	           SET facility_id = ?, name = ?, description = ?, price_cents = ?,
	               start_date = ?, end_date = ?, capacity = ?, is_active = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, e.FacilityID, e.Name, e.Description,
		e.PriceCents, e.StartDate, e.EndDate, e.Capacity, e.IsActive, e.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, e.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an event.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}

// DeactivateEnded flips is_active off for every event whose end date
// has passed.  The scheduler calls this on a fixed interval; the
// statement is idempotent so overlapping runs are harmless.  Returns
// the number of events deactivated.
func (r *EventRepo) DeactivateEnded(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET is_active = 0 WHERE is_active = 1 AND end_date <= ?`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
