package repository

import (
	"context"
	"database/sql"

	"github.com/lwandile/facility-booking/internal/model"
)

// LoyaltyRepo manages per-user loyalty point balances.  The balance
// invariant (points never drop below zero) is enforced in SQL: debits
// carry the minimum balance in the WHERE clause so a concurrent debit
// that would overdraw simply matches zero rows.
type LoyaltyRepo struct {
	db *sql.DB
}

// NewLoyaltyRepo returns a LoyaltyRepo bound to the given database.
func NewLoyaltyRepo(db *sql.DB) *LoyaltyRepo { return &LoyaltyRepo{db: db} }

// Balance returns the loyalty account for a user.  Users without a row
// have an implicit zero balance; a zero-valued account is returned
// rather than an error.
func (r *LoyaltyRepo) Balance(ctx context.Context, userID uint64) (*model.LoyaltyAccount, error) {
	const q = `SELECT user_id, points, updated_at FROM user_loyalty WHERE user_id = ?`
	var acc model.LoyaltyAccount
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&acc.UserID, &acc.Points, &acc.UpdatedAt)
	if err == sql.ErrNoRows {
		return &model.LoyaltyAccount{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// EarnTx credits points to a user inside the caller's transaction,
// creating the account row on first use.
func (r *LoyaltyRepo) EarnTx(ctx context.Context, tx *sql.Tx, userID uint64, points int) error {
	const q = `INSERT INTO user_loyalty (user_id, points) VALUES (?, ?)
	           ON DUPLICATE KEY UPDATE points = points + VALUES(points)`
	_, err := tx.ExecContext(ctx, q, userID, points)
	return err
}

// DebitTx removes points from a user inside the caller's transaction.
// The update only matches when the current balance covers the debit,
// so two racing debits can never overdraw the account: one of them
// affects zero rows and gets ErrInsufficientPoints.
func (r *LoyaltyRepo) DebitTx(ctx context.Context, tx *sql.Tx, userID uint64, points int) error {
	const q = `UPDATE user_loyalty SET points = points - ? WHERE user_id = ? AND points >= ?`
	res, err := tx.ExecContext(ctx, q, points, userID, points)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientPoints
	}
	return nil
}
