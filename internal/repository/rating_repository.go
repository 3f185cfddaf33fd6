package repository

import (
	"context"
	"database/sql"

	"github.com/lwandile/facility-booking/internal/model"
)

// RatingRepo stores customer star ratings of facilities.
type RatingRepo struct {
	db *sql.DB
}

// NewRatingRepo returns a RatingRepo bound to the given database.
func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{db: db} }

// Create inserts a rating and assigns the generated ID back to the
// struct.  Users may rate the same facility more than once; each
// rating is its own row.
func (r *RatingRepo) Create(ctx context.Context, rating *model.Rating) error {
	const q = `INSERT INTO ratings (facility_id, user_id, stars, comment) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		rating.FacilityID, rating.UserID, rating.Stars, rating.Comment)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rating.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at FROM ratings WHERE id = ?`, rating.ID).
		Scan(&rating.CreatedAt)
}

// ListByFacility returns a facility's ratings, newest first.
func (r *RatingRepo) ListByFacility(ctx context.Context, facilityID uint64) ([]model.Rating, error) {
	const q = `SELECT id, facility_id, user_id, stars, comment, created_at
	           FROM ratings WHERE facility_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, facilityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Rating, 0)
	for rows.Next() {
		var rt model.Rating
		if err := rows.Scan(&rt.ID, &rt.FacilityID, &rt.UserID, &rt.Stars, &rt.Comment, &rt.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}
