// Package service contains the booking orchestrator.  It coordinates
// pricing, admission, tokens, loyalty and payments over narrow store
// interfaces so the flow logic can be exercised against in-memory
// stores in tests while production wires in the SQL repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/lwandile/facility-booking/internal/model"
	"github.com/lwandile/facility-booking/internal/payment"
	"github.com/lwandile/facility-booking/internal/pricing"
	"github.com/lwandile/facility-booking/internal/queue"
	"github.com/lwandile/facility-booking/internal/repository"
	"github.com/lwandile/facility-booking/internal/token"
)

// Validation errors returned before any state changes.
var (
	ErrInvalidWindow = errors.New("invalid booking window")
	ErrNoAttendees   = errors.New("at least one attendee required")
	ErrNotOwner      = errors.New("booking belongs to another user")
	ErrEventEnded    = errors.New("event has ended")
)

// FacilityStore is the slice of facility persistence the orchestrator
// needs.
type FacilityStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Facility, error)
}

// EventStore is the slice of event persistence the orchestrator needs.
type EventStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Event, error)
}

// BookingStore persists bookings.  The Create methods are atomic:
// admission check and insert happen in one critical section, so the
// orchestrator never re-checks availability after a successful create.
type BookingStore interface {
	CreateFacilityBooking(ctx context.Context, b *model.Booking) error
	CreateEventBooking(ctx context.Context, b *model.Booking) error
	CreateFreeBooking(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	SetToken(ctx context.Context, id uint64, tok string) error
	ConsumeToken(ctx context.Context, id uint64) error
	MarkPaid(ctx context.Context, id uint64) (bool, error)
	Cancel(ctx context.Context, id, userID uint64) error
}

// LoyaltyStore reads loyalty balances.  Mutation happens inside the
// booking store's transactions.
type LoyaltyStore interface {
	Balance(ctx context.Context, userID uint64) (*model.LoyaltyAccount, error)
}

// UserStore resolves user contact details for notifications.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// EventPublisher announces booking lifecycle events.  Implemented by
// queue.Publisher; tests substitute a recorder.
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, ev queue.BookingCreatedEvent) error
	PublishBookingPaid(ctx context.Context, ev queue.BookingPaidEvent) error
	PublishBookingRedeemed(ctx context.Context, ev queue.BookingRedeemedEvent) error
}

// Free bookings always occupy the standard day window.
const (
	freeBookingStartMinute = 9 * 60
	freeBookingEndMinute   = 17 * 60
)

// BookingService orchestrates the booking lifecycle.
type BookingService struct {
	facilities FacilityStore
	events     EventStore
	bookings   BookingStore
	loyalty    LoyaltyStore
	users      UserStore
	codec      *token.Codec
	publisher  EventPublisher
	gateway    *payment.Gateway
	now        func() time.Time
}

// NewBookingService wires the orchestrator.  gateway may be nil when
// payments are disabled (no checkout URLs are produced).
func NewBookingService(
	facilities FacilityStore,
	events EventStore,
	bookings BookingStore,
	loyalty LoyaltyStore,
	users UserStore,
	codec *token.Codec,
	publisher EventPublisher,
	gateway *payment.Gateway,
) *BookingService {
	return &BookingService{
		facilities: facilities,
		events:     events,
		bookings:   bookings,
		loyalty:    loyalty,
		users:      users,
		codec:      codec,
		publisher:  publisher,
		gateway:    gateway,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateBookingRequest describes a paid (or no-cost facility) booking
// attempt.  Minutes count from midnight on Date, which is a UTC
// calendar date.
type CreateBookingRequest struct {
	UserID      uint64
	FacilityID  uint64
	EventID     *uint64
	Date        time.Time
	StartMinute int
	EndMinute   int
	Attendees   []model.Attendee
}

// BookingResult is the orchestrator's answer to a creation request.
// CheckoutURL is set for bookings awaiting payment; Token is set for
// bookings redeemable immediately (no-cost facilities and free
// bookings).
type BookingResult struct {
	Booking     *model.Booking `json:"booking"`
	CheckoutURL string         `json:"checkout_url,omitempty"`
	Token       string         `json:"token,omitempty"`
}

// CreateReservation prices, admits and stores a booking.  Availability
// is never pre-checked here: the store's create call is the single
// authoritative admission decision, so two racing requests for the
// last slot resolve inside its critical section and exactly one wins.
func (s *BookingService) CreateReservation(ctx context.Context, req CreateBookingRequest) (*BookingResult, error) {
	if req.StartMinute < 0 || req.EndMinute > 24*60 || req.StartMinute >= req.EndMinute {
		return nil, ErrInvalidWindow
	}
	if len(req.Attendees) == 0 {
		return nil, ErrNoAttendees
	}

	b := &model.Booking{
		FacilityID:  req.FacilityID,
		EventID:     req.EventID,
		UserID:      req.UserID,
		Date:        req.Date,
		StartMinute: req.StartMinute,
		EndMinute:   req.EndMinute,
		Attendees:   req.Attendees,
	}

	var baseCents int64
	if req.EventID != nil {
		ev, err := s.events.GetByID(ctx, *req.EventID)
		if err != nil {
			return nil, err
		}
		if !ev.IsActive || !s.now().Before(ev.EndDate) {
			return nil, ErrEventEnded
		}
		b.FacilityID = ev.FacilityID
		baseCents = ev.PriceCents * int64(len(req.Attendees))
	} else {
		f, err := s.facilities.GetByID(ctx, req.FacilityID)
		if err != nil {
			return nil, err
		}
		if !f.IsNoCost {
			minutes := int64(req.EndMinute - req.StartMinute)
			baseCents = f.PricePerHourCents * minutes * int64(len(req.Attendees)) / 60
		}
	}

	clientTypes := make([]string, len(req.Attendees))
	for i, a := range req.Attendees {
		clientTypes[i] = a.ClientType
	}
	discount, final := pricing.FinalPrice(clientTypes, baseCents)
	b.TotalCostCents = baseCents
	b.DiscountCents = discount
	b.FinalPriceCents = final
	if final == 0 {
		b.Status = model.StatusFree
	} else {
		b.Status = model.StatusPending
	}

	var err error
	if req.EventID != nil {
		err = s.bookings.CreateEventBooking(ctx, b)
	} else {
		err = s.bookings.CreateFacilityBooking(ctx, b)
	}
	if err != nil {
		return nil, err
	}

	tok, err := s.mintToken(ctx, b)
	if err != nil {
		return nil, err
	}

	s.announceCreated(ctx, b)

	res := &BookingResult{Booking: b}
	if b.Status == model.StatusFree {
		res.Token = tok
	} else if s.gateway != nil {
		res.CheckoutURL = s.gateway.CheckoutURL(b.ID, b.FinalPriceCents,
			fmt.Sprintf("Booking #%d", b.ID))
	}
	return res, nil
}

// CreateFreeReservation spends 100 loyalty points on a full-day
// booking at the least-booked facility, today.  Debit, facility
// selection and insert are one atomic store operation; a failed step
// refunds nothing because nothing was taken.
func (s *BookingService) CreateFreeReservation(ctx context.Context, userID uint64) (*BookingResult, error) {
	today := s.now().Truncate(24 * time.Hour)
	b := &model.Booking{
		UserID:        userID,
		Date:          today,
		StartMinute:   freeBookingStartMinute,
		EndMinute:     freeBookingEndMinute,
		Status:        model.StatusFree,
		IsFreeBooking: true,
	}
	if err := s.bookings.CreateFreeBooking(ctx, b); err != nil {
		return nil, err
	}
	tok, err := s.mintToken(ctx, b)
	if err != nil {
		return nil, err
	}
	s.announceCreated(ctx, b)
	return &BookingResult{Booking: b, Token: tok}, nil
}

// ReconcilePayment applies a PayFast notification to a booking.  Only
// COMPLETE notifications act; everything else is acknowledged and
// dropped.  The PENDING-to-PAID transition is a compare-and-set in the
// store, so replayed notifications are harmless: the first transitions
// and publishes, the rest observe transitioned = false and do nothing.
func (s *BookingService) ReconcilePayment(ctx context.Context, n payment.Notification) error {
	if n.PaymentStatus != payment.StatusComplete {
		return nil
	}
	id, err := n.BookingID()
	if err != nil {
		return err
	}
	transitioned, err := s.bookings.MarkPaid(ctx, id)
	if err != nil {
		return err
	}
	if !transitioned {
		return nil
	}
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	tok := ""
	if b.Token != nil {
		tok = *b.Token
	}
	email := s.userEmail(ctx, b.UserID)
	if err := s.publisher.PublishBookingPaid(ctx, queue.BookingPaidEvent{
		EventID:     uuid.NewString(),
		BookingID:   b.ID,
		UserID:      b.UserID,
		UserEmail:   email,
		AmountCents: b.FinalPriceCents,
		Token:       tok,
		PaidAt:      s.now().Format(time.RFC3339),
	}); err != nil {
		log.Printf("booking: publish paid event: %v", err)
	}
	return nil
}

// Redeem consumes a redemption token.  Every way a token can be bad
// (garbage ciphertext, unknown booking, facility or date mismatch,
// wrong day, already used) reports the same ErrInvalid so the endpoint
// leaks nothing about which check failed.  The store's compare-and-set
// is what guarantees exactly-once consumption under concurrent
// presentation; everything before it is read-only.
func (s *BookingService) Redeem(ctx context.Context, tok string) (*model.Booking, error) {
	payload, err := s.codec.Decode(tok)
	if err != nil {
		return nil, err
	}
	b, err := s.bookings.GetByID(ctx, payload.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, token.ErrInvalid
		}
		return nil, err
	}
	if b.FacilityID != payload.FacilityID || token.FormatDate(b.Date) != payload.Date {
		return nil, token.ErrInvalid
	}
	if payload.Date != token.FormatDate(s.now()) {
		return nil, token.ErrInvalid
	}
	if err := s.bookings.ConsumeToken(ctx, payload.BookingID); err != nil {
		if errors.Is(err, repository.ErrTokenUsed) || errors.Is(err, repository.ErrBookingNotFound) {
			return nil, token.ErrInvalid
		}
		return nil, err
	}
	b, err = s.bookings.GetByID(ctx, payload.BookingID)
	if err != nil {
		return nil, err
	}
	if err := s.publisher.PublishBookingRedeemed(ctx, queue.BookingRedeemedEvent{
		EventID:    uuid.NewString(),
		BookingID:  b.ID,
		FacilityID: b.FacilityID,
		RedeemedAt: s.now().Format(time.RFC3339),
	}); err != nil {
		log.Printf("booking: publish redeemed event: %v", err)
	}
	return b, nil
}

// GetBooking returns a booking after verifying ownership.
func (s *BookingService) GetBooking(ctx context.Context, id, userID uint64) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrNotOwner
	}
	return b, nil
}

// ListBookings returns all bookings for a user, newest first.
func (s *BookingService) ListBookings(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// CancelBooking cancels a booking owned by the user, freeing its slot.
func (s *BookingService) CancelBooking(ctx context.Context, id, userID uint64) error {
	return s.bookings.Cancel(ctx, id, userID)
}

// LoyaltyBalance returns the user's current point balance.
func (s *BookingService) LoyaltyBalance(ctx context.Context, userID uint64) (*model.LoyaltyAccount, error) {
	return s.loyalty.Balance(ctx, userID)
}

// mintToken encrypts a redemption payload for the booking and stores
// it.  The codec uses a fresh random nonce per call, so reissuing a
// token never reproduces an earlier ciphertext.
func (s *BookingService) mintToken(ctx context.Context, b *model.Booking) (string, error) {
	tok, err := s.codec.Mint(token.Payload{
		BookingID:  b.ID,
		FacilityID: b.FacilityID,
		Date:       token.FormatDate(b.Date),
	})
	if err != nil {
		return "", err
	}
	if err := s.bookings.SetToken(ctx, b.ID, tok); err != nil {
		return "", err
	}
	b.Token = &tok
	return tok, nil
}

func (s *BookingService) userEmail(ctx context.Context, userID uint64) string {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		log.Printf("booking: resolve user %d: %v", userID, err)
		return ""
	}
	return u.Email
}

func (s *BookingService) announceCreated(ctx context.Context, b *model.Booking) {
	ev := queue.BookingCreatedEvent{
		EventID:         uuid.NewString(),
		BookingID:       b.ID,
		UserID:          b.UserID,
		UserEmail:       s.userEmail(ctx, b.UserID),
		FacilityID:      b.FacilityID,
		Date:            token.FormatDate(b.Date),
		StartMinute:     b.StartMinute,
		EndMinute:       b.EndMinute,
		Attendees:       len(b.Attendees),
		FinalPriceCents: b.FinalPriceCents,
		Status:          b.Status,
		CreatedAt:       s.now().Format(time.RFC3339),
	}
	if b.EventID != nil {
		ev.HostedEventID = *b.EventID
	}
	if f, err := s.facilities.GetByID(ctx, b.FacilityID); err == nil {
		ev.FacilityName = f.Name
	}
	if err := s.publisher.PublishBookingCreated(ctx, ev); err != nil {
		log.Printf("booking: publish created event: %v", err)
	}
}
