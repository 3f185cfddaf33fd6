package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lwandile/facility-booking/internal/model"
)

// FacilityRepo provides CRUD operations for facilities.  Facilities
// are created and maintained by admins and read by the booking flow.
// The facility row doubles as the serialization point for admission:
// CreateFacilityBooking (see booking_repository.go) locks it with
// SELECT ... FOR UPDATE before counting overlaps.
type FacilityRepo struct {
	db *sql.DB
}

// NewFacilityRepo returns a FacilityRepo bound to the given database.
func NewFacilityRepo(db *sql.DB) *FacilityRepo { return &FacilityRepo{db: db} }

const facilityCols = `id, name, description, type, address, price_per_hour_cents, capacity, is_no_cost, is_active, created_at, updated_at`

func scanFacility(row interface{ Scan(...any) error }) (*model.Facility, error) {
	var f model.Facility
	err := row.Scan(&f.ID, &f.Name, &f.Description, &f.Type, &f.Address,
		&f.PricePerHourCents, &f.Capacity, &f.IsNoCost, &f.IsActive,
		&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Create inserts a new facility and assigns the generated ID back to
// the struct.
func (r *FacilityRepo) Create(ctx context.Context, f *model.Facility) error {
	const q = `INSERT INTO facilities (name, description, type, address, price_per_hour_cents, capacity, is_no_cost, is_active)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, f.Name, f.Description, f.Type, f.Address,
		f.PricePerHourCents, f.Capacity, f.IsNoCost, f.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM facilities WHERE id = ?`, f.ID).
		Scan(&f.CreatedAt, &f.UpdatedAt)
}

// GetByID retrieves a facility by its ID.  It returns
// ErrFacilityNotFound when no matching row exists.
func (r *FacilityRepo) GetByID(ctx context.Context, id uint64) (*model.Facility, error) {
	f, err := scanFacility(r.db.QueryRowContext(ctx,
		`SELECT `+facilityCols+` FROM facilities WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}
	return f, nil
}

// ListActive returns all active facilities ordered by name.  Used by
// the public browse endpoints; results may be served from the response
// cache and are display-only snapshots, never admission truth.
func (r *FacilityRepo) ListActive(ctx context.Context) ([]model.Facility, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+facilityCols+` FROM facilities WHERE is_active = 1 ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Facility, 0)
	for rows.Next() {
		f, err := scanFacility(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of a facility.  It returns
// ErrFacilityNotFound when the row does not exist.
func (r *FacilityRepo) Update(ctx context.Context, f *model.Facility) error {
	const q = `UPDATE facilities
	           SET name = ?, description = ?, type = ?, address = ?,
	               price_per_hour_cents = ?, capacity = ?, is_no_cost = ?, is_active = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, f.Name, f.Description, f.Type, f.Address,
		f.PricePerHourCents, f.Capacity, f.IsNoCost, f.IsActive, f.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either missing or unchanged; distinguish by existence.
		if _, err := r.GetByID(ctx, f.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a facility.  Bookings reference facilities by ID only,
// so historical bookings survive the deletion.
func (r *FacilityRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM facilities WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrFacilityNotFound
	}
	return nil
}

// LeastBookedTx returns the active facility with the fewest total
// bookings, ties broken by ascending ID for a stable order.  It runs
// inside the caller's transaction so the free-booking flow can pick a
// facility and insert atomically.  Returns ErrNoFacilityAvailable when
// no active facility exists.
func (r *FacilityRepo) LeastBookedTx(ctx context.Context, tx *sql.Tx) (*model.Facility, error) {
	const q = `SELECT f.id, f.name, f.description, f.type, f.address,
	                  f.price_per_hour_cents, f.capacity, f.is_no_cost, f.is_active,
	                  f.created_at, f.updated_at
	           FROM facilities f
	           LEFT JOIN bookings b ON b.facility_id = f.id AND b.status <> 'CANCELLED'
	           WHERE f.is_active = 1
	           GROUP BY f.id
	           ORDER BY COUNT(b.id) ASC, f.id ASC
	           LIMIT 1`
	f, err := scanFacility(tx.QueryRowContext(ctx, q))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoFacilityAvailable
		}
		return nil, err
	}
	return f, nil
}
