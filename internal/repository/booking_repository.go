package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lwandile/facility-booking/internal/model"
)

// BookingRepo provides persistence for bookings and their attendees.
// Every admission decision runs inside a single transaction that locks
// the facility (or event) row with SELECT ... FOR UPDATE before
// counting existing bookings, so a check that passed cannot be
// invalidated by a concurrent insert committing in between.  Token
// consumption and payment reconciliation use single-statement
// compare-and-set updates for the same reason.
type BookingRepo struct {
	db         *sql.DB
	facilities *FacilityRepo
	loyalty    *LoyaltyRepo
}

// NewBookingRepo returns a BookingRepo bound to the given database and
// sibling repositories.
func NewBookingRepo(db *sql.DB, facilities *FacilityRepo, loyalty *LoyaltyRepo) *BookingRepo {
	return &BookingRepo{db: db, facilities: facilities, loyalty: loyalty}
}

const bookingCols = `id, facility_id, event_id, user_id, date, start_minute, end_minute,
	total_cost_cents, discount_cents, final_price_cents, status,
	is_free_booking, token, is_used, used_at, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	var eventID sql.NullInt64
	var token sql.NullString
	var usedAt sql.NullTime
	err := row.Scan(&b.ID, &b.FacilityID, &eventID, &b.UserID, &b.Date,
		&b.StartMinute, &b.EndMinute,
		&b.TotalCostCents, &b.DiscountCents, &b.FinalPriceCents, &b.Status,
		&b.IsFreeBooking, &token, &b.IsUsed, &usedAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if eventID.Valid {
		ev := uint64(eventID.Int64)
		b.EventID = &ev
	}
	if token.Valid {
		t := token.String
		b.Token = &t
	}
	if usedAt.Valid {
		u := usedAt.Time
		b.UsedAt = &u
	}
	return &b, nil
}

// countOverlapsTx counts bookings on the same facility and calendar
// date whose window intersects the requested one.  Two windows overlap
// when each starts before the other ends; back-to-back bookings that
// share only a boundary minute do not count.  Cancelled bookings free
// their slot.
func (r *BookingRepo) countOverlapsTx(ctx context.Context, tx *sql.Tx, b *model.Booking) (int, error) {
	const q = `SELECT COUNT(*) FROM bookings
	           WHERE facility_id = ? AND date = ? AND status <> 'CANCELLED'
	             AND start_minute < ? AND end_minute > ?`
	var n int
	err := tx.QueryRowContext(ctx, q, b.FacilityID, b.Date, b.EndMinute, b.StartMinute).Scan(&n)
	return n, err
}

// insertBookingTx inserts the booking row and its attendees, assigning
// the generated IDs back to the structs.
func (r *BookingRepo) insertBookingTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (facility_id, event_id, user_id, date, start_minute, end_minute,
	                                 total_cost_cents, discount_cents, final_price_cents, status, is_free_booking)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var eventID any
	if b.EventID != nil {
		eventID = *b.EventID
	}
	res, err := tx.ExecContext(ctx, q, b.FacilityID, eventID, b.UserID, b.Date,
		b.StartMinute, b.EndMinute,
		b.TotalCostCents, b.DiscountCents, b.FinalPriceCents, b.Status, b.IsFreeBooking)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	if err := r.insertAttendeesTx(ctx, tx, b.ID, b.Attendees); err != nil {
		return err
	}
	return tx.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM bookings WHERE id = ?`, b.ID).
		Scan(&b.CreatedAt, &b.UpdatedAt)
}

// insertAttendeesTx bulk-inserts attendee rows for a booking in a
// single statement.  An empty slice is a no-op.
func (r *BookingRepo) insertAttendeesTx(ctx context.Context, tx *sql.Tx, bookingID uint64, attendees []model.Attendee) error {
	if len(attendees) == 0 {
		return nil
	}
	query := `INSERT INTO attendees (booking_id, name, client_type, email, phone) VALUES `
	args := make([]interface{}, 0, len(attendees)*5)
	for i := range attendees {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		a := &attendees[i]
		a.BookingID = bookingID
		args = append(args, bookingID, a.Name, a.ClientType, a.Email, a.Phone)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// CreateFacilityBooking atomically admits and stores a facility
// booking.  The facility row is locked for the duration of the
// transaction, serializing the overlap count and the insert against
// every other booking attempt on the same facility.  It returns
// ErrFacilityNotFound when the facility is missing or inactive and
// ErrSlotUnavailable when the facility is already at capacity for the
// requested window.
func (r *BookingRepo) CreateFacilityBooking(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var capacity int
	var active bool
	err = tx.QueryRowContext(ctx,
		`SELECT capacity, is_active FROM facilities WHERE id = ? FOR UPDATE`,
		b.FacilityID).Scan(&capacity, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrFacilityNotFound
	}
	if err != nil {
		return err
	}
	if !active {
		return ErrFacilityNotFound
	}
	overlapping, err := r.countOverlapsTx(ctx, tx, b)
	if err != nil {
		return err
	}
	if overlapping >= capacity {
		return ErrSlotUnavailable
	}
	if err := r.insertBookingTx(ctx, tx, b); err != nil {
		return err
	}
	if !b.IsFreeBooking {
		if err := r.loyalty.EarnTx(ctx, tx, b.UserID, model.LoyaltyEarnPoints); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CreateEventBooking atomically admits and stores an event booking.
// Event admission counts attendees rather than bookings: the event row
// is locked, currently booked attendees are summed, and the request is
// refused when admitting its attendees would exceed the event's
// capacity.  Returns ErrEventNotFound for missing or inactive events
// and ErrSlotUnavailable when the event is full.
func (r *BookingRepo) CreateEventBooking(ctx context.Context, b *model.Booking) error {
	if b.EventID == nil {
		return ErrEventNotFound
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var capacity int
	var active bool
	err = tx.QueryRowContext(ctx,
		`SELECT capacity, is_active FROM events WHERE id = ? FOR UPDATE`,
		*b.EventID).Scan(&capacity, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrEventNotFound
	}
	if err != nil {
		return err
	}
	if !active {
		return ErrEventNotFound
	}
	var booked int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attendees a
		 JOIN bookings bk ON bk.id = a.booking_id
		 WHERE bk.event_id = ? AND bk.status <> 'CANCELLED'`,
		*b.EventID).Scan(&booked)
	if err != nil {
		return err
	}
	if booked+len(b.Attendees) > capacity {
		return ErrSlotUnavailable
	}
	if err := r.insertBookingTx(ctx, tx, b); err != nil {
		return err
	}
	if err := r.loyalty.EarnTx(ctx, tx, b.UserID, model.LoyaltyEarnPoints); err != nil {
		return err
	}
	return tx.Commit()
}

// CreateFreeBooking spends loyalty points on a zero-cost booking.  The
// debit, facility selection and insert all happen in one transaction:
// if any step fails (insufficient points, no facility, slot taken) the
// whole operation rolls back and the points are untouched.  The
// conditional debit also closes the double-spend race: two concurrent
// redemptions against a 100-point balance cannot both succeed.  The
// chosen facility is assigned to b.FacilityID on success.
func (r *BookingRepo) CreateFreeBooking(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := r.loyalty.DebitTx(ctx, tx, b.UserID, model.FreeBookingPointsCost); err != nil {
		return err
	}
	f, err := r.facilities.LeastBookedTx(ctx, tx)
	if err != nil {
		return err
	}
	b.FacilityID = f.ID
	// Lock the chosen facility before the overlap count, same as the
	// paid path.
	var capacity int
	if err := tx.QueryRowContext(ctx,
		`SELECT capacity FROM facilities WHERE id = ? FOR UPDATE`, f.ID).Scan(&capacity); err != nil {
		return err
	}
	overlapping, err := r.countOverlapsTx(ctx, tx, b)
	if err != nil {
		return err
	}
	if overlapping >= capacity {
		return ErrSlotUnavailable
	}
	if err := r.insertBookingTx(ctx, tx, b); err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID retrieves a booking and its attendees.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if err := r.loadAttendees(ctx, []*model.Booking{b}); err != nil {
		return nil, err
	}
	return b, nil
}

// ListByUser returns all bookings for a user, newest first, with
// attendees populated in a single follow-up query.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	refs := make([]*model.Booking, len(out))
	for i := range out {
		refs[i] = &out[i]
	}
	if err := r.loadAttendees(ctx, refs); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingRepo) loadAttendees(ctx context.Context, bookings []*model.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	ids := make([]interface{}, 0, len(bookings))
	placeholders := make([]string, 0, len(bookings))
	index := make(map[uint64]*model.Booking, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
		placeholders = append(placeholders, "?")
		index[b.ID] = b
		b.Attendees = []model.Attendee{}
	}
	q := `SELECT id, booking_id, name, client_type, email, phone
	      FROM attendees WHERE booking_id IN (` + strings.Join(placeholders, ",") + `)
	      ORDER BY booking_id, id`
	rows, err := r.db.QueryContext(ctx, q, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var a model.Attendee
		if err := rows.Scan(&a.ID, &a.BookingID, &a.Name, &a.ClientType, &a.Email, &a.Phone); err != nil {
			return err
		}
		if b, ok := index[a.BookingID]; ok {
			b.Attendees = append(b.Attendees, a)
		}
	}
	return rows.Err()
}

// SetToken stores the minted redemption token on a booking.
func (r *BookingRepo) SetToken(ctx context.Context, id uint64, token string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET token = ? WHERE id = ?`, token, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// ConsumeToken marks a booking's token as used exactly once.  The
// update predicates on is_used = 0, so of any number of concurrent
// redemptions precisely one affects a row; the rest get ErrTokenUsed.
// Payment status is not checked here: a token is admissible the day
// it is valid for, paid or not.
func (r *BookingRepo) ConsumeToken(ctx context.Context, id uint64) error {
	const q = `UPDATE bookings SET is_used = 1, used_at = NOW()
	           WHERE id = ? AND is_used = 0`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrTokenUsed
}

// MarkPaid transitions a booking from PENDING to PAID.  The CAS makes
// reconciliation idempotent: replayed payment notifications match zero
// rows and report transitioned = false without touching the booking.
func (r *BookingRepo) MarkPaid(ctx context.Context, id uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = 'PAID' WHERE id = ? AND status = 'PENDING'`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 1 {
		return true, nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

// Cancel marks a booking as cancelled, freeing its slot for admission.
func (r *BookingRepo) Cancel(ctx context.Context, id, userID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = 'CANCELLED' WHERE id = ? AND user_id = ? AND status IN ('PENDING', 'PAID', 'FREE')`,
		id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}
