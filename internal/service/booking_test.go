package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwandile/facility-booking/internal/model"
	"github.com/lwandile/facility-booking/internal/payment"
	"github.com/lwandile/facility-booking/internal/queue"
	"github.com/lwandile/facility-booking/internal/repository"
	"github.com/lwandile/facility-booking/internal/token"
)

// memStore is a mutex-guarded in-memory implementation of the store
// interfaces.  Its critical sections mirror the SQL repositories: one
// lock acquisition covers check plus mutation, so the orchestrator's
// concurrency behaviour can be exercised without a database.
type memStore struct {
	mu         sync.Mutex
	facilities map[uint64]*model.Facility
	events     map[uint64]*model.Event
	bookings   map[uint64]*model.Booking
	points     map[uint64]int
	nextID     uint64
}

func newMemStore() *memStore {
	return &memStore{
		facilities: make(map[uint64]*model.Facility),
		events:     make(map[uint64]*model.Event),
		bookings:   make(map[uint64]*model.Booking),
		points:     make(map[uint64]int),
	}
}

func (m *memStore) addFacility(f model.Facility) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := f
	m.facilities[f.ID] = &cp
}

func (m *memStore) addEvent(e model.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := e
	m.events[e.ID] = &cp
}

func (m *memStore) GetByID(ctx context.Context, id uint64) (*model.Facility, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.facilities[id]
	if !ok {
		return nil, repository.ErrFacilityNotFound
	}
	cp := *f
	return &cp, nil
}

// eventStore adapts memStore to the EventStore interface; both stores
// would otherwise collide on the GetByID method name.
type eventStore struct{ m *memStore }

func (s eventStore) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	e, ok := s.m.events[id]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

type userStore struct{}

func (userStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return model.User{ID: id, Email: "user@example.com"}, nil
}

func (m *memStore) overlapsLocked(b *model.Booking) int {
	n := 0
	for _, ex := range m.bookings {
		if ex.FacilityID == b.FacilityID && ex.Date.Equal(b.Date) &&
			ex.Status != model.StatusCancelled &&
			ex.StartMinute < b.EndMinute && ex.EndMinute > b.StartMinute {
			n++
		}
	}
	return n
}

func (m *memStore) insertLocked(b *model.Booking) {
	m.nextID++
	b.ID = m.nextID
	cp := *b
	m.bookings[b.ID] = &cp
}

func (m *memStore) CreateFacilityBooking(ctx context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.facilities[b.FacilityID]
	if !ok || !f.IsActive {
		return repository.ErrFacilityNotFound
	}
	if m.overlapsLocked(b) >= f.Capacity {
		return repository.ErrSlotUnavailable
	}
	m.insertLocked(b)
	if !b.IsFreeBooking {
		m.points[b.UserID] += model.LoyaltyEarnPoints
	}
	return nil
}

func (m *memStore) CreateEventBooking(ctx context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[*b.EventID]
	if !ok || !e.IsActive {
		return repository.ErrEventNotFound
	}
	booked := 0
	for _, ex := range m.bookings {
		if ex.EventID != nil && *ex.EventID == *b.EventID && ex.Status != model.StatusCancelled {
			booked += len(ex.Attendees)
		}
	}
	if booked+len(b.Attendees) > e.Capacity {
		return repository.ErrSlotUnavailable
	}
	m.insertLocked(b)
	m.points[b.UserID] += model.LoyaltyEarnPoints
	return nil
}

func (m *memStore) CreateFreeBooking(ctx context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.points[b.UserID] < model.FreeBookingPointsCost {
		return repository.ErrInsufficientPoints
	}
	// Least-booked active facility, ties by ascending ID.
	type cand struct {
		id    uint64
		count int
	}
	var cands []cand
	for id, f := range m.facilities {
		if !f.IsActive {
			continue
		}
		n := 0
		for _, ex := range m.bookings {
			if ex.FacilityID == id && ex.Status != model.StatusCancelled {
				n++
			}
		}
		cands = append(cands, cand{id, n})
	}
	if len(cands) == 0 {
		return repository.ErrNoFacilityAvailable
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].count != cands[j].count {
			return cands[i].count < cands[j].count
		}
		return cands[i].id < cands[j].id
	})
	b.FacilityID = cands[0].id
	if m.overlapsLocked(b) >= m.facilities[b.FacilityID].Capacity {
		return repository.ErrSlotUnavailable
	}
	m.points[b.UserID] -= model.FreeBookingPointsCost
	m.insertLocked(b)
	return nil
}

func (m *memStore) GetBookingByID(ctx context.Context, id uint64) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

// bookingStore adapts memStore to BookingStore, renaming GetBookingByID
// back to GetByID.
type bookingStore struct{ m *memStore }

func (s bookingStore) CreateFacilityBooking(ctx context.Context, b *model.Booking) error {
	return s.m.CreateFacilityBooking(ctx, b)
}
func (s bookingStore) CreateEventBooking(ctx context.Context, b *model.Booking) error {
	return s.m.CreateEventBooking(ctx, b)
}
func (s bookingStore) CreateFreeBooking(ctx context.Context, b *model.Booking) error {
	return s.m.CreateFreeBooking(ctx, b)
}
func (s bookingStore) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	return s.m.GetBookingByID(ctx, id)
}

func (s bookingStore) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []model.Booking
	for _, b := range s.m.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s bookingStore) SetToken(ctx context.Context, id uint64, tok string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	b, ok := s.m.bookings[id]
	if !ok {
		return repository.ErrBookingNotFound
	}
	b.Token = &tok
	return nil
}

func (s bookingStore) ConsumeToken(ctx context.Context, id uint64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	b, ok := s.m.bookings[id]
	if !ok {
		return repository.ErrBookingNotFound
	}
	if b.IsUsed {
		return repository.ErrTokenUsed
	}
	now := time.Now().UTC()
	b.IsUsed = true
	b.UsedAt = &now
	return nil
}

func (s bookingStore) MarkPaid(ctx context.Context, id uint64) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	b, ok := s.m.bookings[id]
	if !ok {
		return false, repository.ErrBookingNotFound
	}
	if b.Status != model.StatusPending {
		return false, nil
	}
	b.Status = model.StatusPaid
	return true, nil
}

func (s bookingStore) Cancel(ctx context.Context, id, userID uint64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	b, ok := s.m.bookings[id]
	if !ok || b.UserID != userID {
		return repository.ErrBookingNotFound
	}
	b.Status = model.StatusCancelled
	return nil
}

type loyaltyStore struct{ m *memStore }

func (s loyaltyStore) Balance(ctx context.Context, userID uint64) (*model.LoyaltyAccount, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return &model.LoyaltyAccount{UserID: userID, Points: s.m.points[userID]}, nil
}

// recordingPublisher counts published events.
type recordingPublisher struct {
	mu       sync.Mutex
	created  []queue.BookingCreatedEvent
	paid     []queue.BookingPaidEvent
	redeemed []queue.BookingRedeemedEvent
}

func (p *recordingPublisher) PublishBookingCreated(ctx context.Context, ev queue.BookingCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, ev)
	return nil
}

func (p *recordingPublisher) PublishBookingPaid(ctx context.Context, ev queue.BookingPaidEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paid = append(p.paid, ev)
	return nil
}

func (p *recordingPublisher) PublishBookingRedeemed(ctx context.Context, ev queue.BookingRedeemedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.redeemed = append(p.redeemed, ev)
	return nil
}

func newTestService(t *testing.T) (*BookingService, *memStore, *recordingPublisher) {
	t.Helper()
	m := newMemStore()
	pub := &recordingPublisher{}
	codec, err := token.NewCodec("test-secret")
	require.NoError(t, err)
	gw := payment.NewGateway(payment.Config{
		BaseURL:    "https://sandbox.payfast.co.za/eng/process",
		MerchantID: "10000100", MerchantKey: "key",
		ReturnURL: "http://r", CancelURL: "http://c", NotifyURL: "http://n",
	})
	svc := NewBookingService(m, eventStore{m}, bookingStore{m}, loyaltyStore{m}, userStore{}, codec, pub, gw)
	// Pin the clock to the booking date so same-day redemption checks
	// hold regardless of when the tests actually run.
	svc.now = func() time.Time { return testDate.Add(10 * time.Hour) }
	return svc, m, pub
}

var testDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func basicRequest(userID uint64) CreateBookingRequest {
	return CreateBookingRequest{
		UserID:      userID,
		FacilityID:  1,
		Date:        testDate,
		StartMinute: 10 * 60,
		EndMinute:   12 * 60,
		Attendees:   []model.Attendee{{Name: "A", ClientType: "Adult"}},
	}
}

func TestCreateReservation_PricesAndStoresBooking(t *testing.T) {
	svc, m, pub := newTestService(t)
	m.addFacility(model.Facility{ID: 1, Name: "Hall", PricePerHourCents: 50000, Capacity: 2, IsActive: true})

	req := basicRequest(7)
	req.Attendees = []model.Attendee{
		{Name: "P", ClientType: "Pensioner"},
		{Name: "S", ClientType: "Student"},
	}
	res, err := svc.CreateReservation(context.Background(), req)
	require.NoError(t, err)

	// 2 hours at R500/h for 2 attendees = R2000; Pensioner 25% + Student
	// 15% = 40% beats the 20% family cap, so the family cap applies.
	assert.Equal(t, int64(200000), res.Booking.TotalCostCents)
	assert.Equal(t, int64(40000), res.Booking.DiscountCents)
	assert.Equal(t, int64(160000), res.Booking.FinalPriceCents)
	assert.Equal(t, model.StatusPending, res.Booking.Status)
	assert.Contains(t, res.CheckoutURL, "m_payment_id=1")
	assert.Empty(t, res.Token)
	require.Len(t, pub.created, 1)
	assert.NotEmpty(t, pub.created[0].EventID)

	// Paid-path creation earns loyalty points.
	acc, err := svc.LoyaltyBalance(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, model.LoyaltyEarnPoints, acc.Points)
}

func TestCreateReservation_NoCostFacilityIsFree(t *testing.T) {
	svc, m, _ := newTestService(t)
	m.addFacility(model.Facility{ID: 1, Name: "Park", Capacity: 10, IsNoCost: true, IsActive: true})

	res, err := svc.CreateReservation(context.Background(), basicRequest(1))
	require.NoError(t, err)
	assert.Equal(t, model.StatusFree, res.Booking.Status)
	assert.Zero(t, res.Booking.FinalPriceCents)
	assert.NotEmpty(t, res.Token)
	assert.Empty(t, res.CheckoutURL)
}

func TestCreateReservation_InvalidWindow(t *testing.T) {
	svc, m, _ := newTestService(t)
	m.addFacility(model.Facility{ID: 1, Capacity: 2, IsActive: true})

	req := basicRequest(1)
	req.StartMinute, req.EndMinute = 600, 600
	_, err := svc.CreateReservation(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	req.StartMinute, req.EndMinute = 700, 600
	_, err = svc.CreateReservation(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	req.StartMinute, req.EndMinute = -10, 600
	_, err = svc.CreateReservation(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestCreateReservation_CapacityUnderContention(t *testing.T) {
	svc, m, _ := newTestService(t)
	m.addFacility(model.Facility{ID: 1, PricePerHourCents: 10000, Capacity: 2, IsActive: true})

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.CreateReservation(context.Background(), basicRequest(uint64(i+1)))
			errs[i] = err
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, repository.ErrSlotUnavailable)
		}
	}
	assert.Equal(t, 2, ok, "capacity 2 admits exactly two overlapping bookings")
}

func TestCreateReservation_BackToBackWindowsDoNotOverlap(t *testing.T) {
	svc, m, _ := newTestService(t)
	m.addFacility(model.Facility{ID: 1, PricePerHourCents: 10000, Capacity: 1, IsActive: true})

	first := basicRequest(1)
	_, err := svc.CreateReservation(context.Background(), first)
	require.NoError(t, err)

	second := basicRequest(2)
	second.StartMinute = first.EndMinute
	second.EndMinute = first.EndMinute + 60
	_, err = svc.CreateReservation(context.Background(), second)
	assert.NoError(t, err, "a booking starting when the previous ends shares no minute")
}

func TestCreateReservation_EventCapacityCountsAttendees(t *testing.T) {
	svc, m, _ := newTestService(t)
	m.addFacility(model.Facility{ID: 1, Capacity: 100, IsActive: true})
	m.addEvent(model.Event{ID: 5, FacilityID: 1, PriceCents: 15000, Capacity: 3, IsActive: true, EndDate: testDate.Add(48 * time.Hour)})

	evID := uint64(5)
	req := basicRequest(1)
	req.EventID = &evID
	req.Attendees = []model.Attendee{
		{Name: "A", ClientType: "Adult"},
		{Name: "B", ClientType: "Adult"},
	}
	res, err := svc.CreateReservation(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), res.Booking.TotalCostCents)

	// One seat left; a two-attendee request must be refused.
	req2 := basicRequest(2)
	req2.EventID = &evID
	req2.Attendees = req.Attendees
	_, err = svc.CreateReservation(context.Background(), req2)
	assert.ErrorIs(t, err, repository.ErrSlotUnavailable)
}

func TestCreateReservation_RejectsEndedEvent(t *testing.T) {
	svc, m, _ := newTestService(t)
	m.addFacility(model.Facility{ID: 1, Capacity: 100, IsActive: true})
	m.addEvent(model.Event{ID: 5, FacilityID: 1, PriceCents: 15000, Capacity: 3, IsActive: true, EndDate: testDate.Add(-time.Hour)})

	evID := uint64(5)
	req := basicRequest(1)
	req.EventID = &evID
	_, err := svc.CreateReservation(context.Background(), req)
	assert.ErrorIs(t, err, ErrEventEnded)
}

func TestReconcilePayment_IdempotentOnReplay(t *testing.T) {
	svc, m, pub := newTestService(t)
	m.addFacility(model.Facility{ID: 1, PricePerHourCents: 10000, Capacity: 2, IsActive: true})

	res, err := svc.CreateReservation(context.Background(), basicRequest(1))
	require.NoError(t, err)

	n := payment.Notification{MPaymentID: "1", PaymentStatus: payment.StatusComplete}
	require.NoError(t, svc.ReconcilePayment(context.Background(), n))
	require.NoError(t, svc.ReconcilePayment(context.Background(), n))
	require.NoError(t, svc.ReconcilePayment(context.Background(), n))

	b, err := svc.GetBooking(context.Background(), res.Booking.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, b.Status)
	assert.Len(t, pub.paid, 1, "replayed notifications must not republish")
}

func TestReconcilePayment_IgnoresNonComplete(t *testing.T) {
	svc, m, pub := newTestService(t)
	m.addFacility(model.Facility{ID: 1, PricePerHourCents: 10000, Capacity: 2, IsActive: true})

	res, err := svc.CreateReservation(context.Background(), basicRequest(1))
	require.NoError(t, err)

	n := payment.Notification{MPaymentID: "1", PaymentStatus: "CANCELLED"}
	require.NoError(t, svc.ReconcilePayment(context.Background(), n))

	b, err := svc.GetBooking(context.Background(), res.Booking.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, b.Status)
	assert.Empty(t, pub.paid)
}

func TestRedeem_ExactlyOnceUnderContention(t *testing.T) {
	svc, m, pub := newTestService(t)
	m.addFacility(model.Facility{ID: 1, Capacity: 10, IsNoCost: true, IsActive: true})

	res, err := svc.CreateReservation(context.Background(), basicRequest(1))
	require.NoError(t, err)
	tok := res.Token

	const attempts = 10
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Redeem(context.Background(), tok)
			errs[i] = err
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, token.ErrInvalid)
		}
	}
	assert.Equal(t, 1, ok, "token must redeem exactly once")
	assert.Len(t, pub.redeemed, 1)
}

func TestRedeem_RejectsWrongDay(t *testing.T) {
	svc, m, pub := newTestService(t)
	m.addFacility(model.Facility{ID: 1, Capacity: 10, IsNoCost: true, IsActive: true})

	res, err := svc.CreateReservation(context.Background(), basicRequest(1))
	require.NoError(t, err)

	svc.now = func() time.Time { return testDate.Add(24 * time.Hour) }
	_, err = svc.Redeem(context.Background(), res.Token)
	assert.ErrorIs(t, err, token.ErrInvalid)
	assert.Empty(t, pub.redeemed)

	b, err := svc.GetBooking(context.Background(), res.Booking.ID, 1)
	require.NoError(t, err)
	assert.False(t, b.IsUsed, "a rejected redemption must not consume the token")
}

func TestRedeem_RejectsFacilityMismatch(t *testing.T) {
	svc, m, _ := newTestService(t)
	m.addFacility(model.Facility{ID: 1, Capacity: 10, IsNoCost: true, IsActive: true})

	res, err := svc.CreateReservation(context.Background(), basicRequest(1))
	require.NoError(t, err)

	// Forge a token with the right booking ID but the wrong facility.
	codec, err := token.NewCodec("test-secret")
	require.NoError(t, err)
	forged, err := codec.Mint(token.Payload{
		BookingID:  res.Booking.ID,
		FacilityID: 99,
		Date:       token.FormatDate(testDate),
	})
	require.NoError(t, err)

	_, err = svc.Redeem(context.Background(), forged)
	assert.ErrorIs(t, err, token.ErrInvalid)
}

func TestRedeem_RejectsUnknownBooking(t *testing.T) {
	svc, _, _ := newTestService(t)
	codec, err := token.NewCodec("test-secret")
	require.NoError(t, err)
	tok, err := codec.Mint(token.Payload{BookingID: 42, FacilityID: 1, Date: token.FormatDate(testDate)})
	require.NoError(t, err)

	_, err = svc.Redeem(context.Background(), tok)
	assert.ErrorIs(t, err, token.ErrInvalid)
}

func TestRedeem_RejectsGarbageToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Redeem(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, token.ErrInvalid)
}

func TestRedeem_PaymentStatusDoesNotGate(t *testing.T) {
	svc, m, pub := newTestService(t)
	m.addFacility(model.Facility{ID: 1, PricePerHourCents: 10000, Capacity: 2, IsActive: true})

	res, err := svc.CreateReservation(context.Background(), basicRequest(1))
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, res.Booking.Status)
	require.NotNil(t, res.Booking.Token)

	// A valid, unused, same-day token admits regardless of whether the
	// payment notification has landed yet.
	b, err := svc.Redeem(context.Background(), *res.Booking.Token)
	require.NoError(t, err)
	assert.True(t, b.IsUsed)
	assert.Len(t, pub.redeemed, 1)
}

func TestCreateFreeReservation_DebitsAndPicksLeastBooked(t *testing.T) {
	svc, m, _ := newTestService(t)
	m.addFacility(model.Facility{ID: 1, Capacity: 5, IsActive: true})
	m.addFacility(model.Facility{ID: 2, Capacity: 5, IsActive: true})
	m.points[1] = 100

	// Load facility 1 so the least-booked choice falls on facility 2.
	m.mu.Lock()
	m.insertLocked(&model.Booking{FacilityID: 1, UserID: 9, Date: testDate, StartMinute: 0, EndMinute: 60, Status: model.StatusPaid})
	m.mu.Unlock()

	res, err := svc.CreateFreeReservation(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), res.Booking.FacilityID)
	assert.Equal(t, 9*60, res.Booking.StartMinute)
	assert.Equal(t, 17*60, res.Booking.EndMinute)
	assert.Equal(t, model.StatusFree, res.Booking.Status)
	assert.True(t, res.Booking.IsFreeBooking)
	assert.NotEmpty(t, res.Token)

	acc, err := svc.LoyaltyBalance(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, acc.Points)
}

func TestCreateFreeReservation_DoubleSpendRefused(t *testing.T) {
	svc, m, _ := newTestService(t)
	m.addFacility(model.Facility{ID: 1, Capacity: 50, IsActive: true})
	m.points[1] = 100

	const attempts = 4
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.CreateFreeReservation(context.Background(), 1)
			errs[i] = err
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, repository.ErrInsufficientPoints)
		}
	}
	assert.Equal(t, 1, ok, "100 points fund exactly one free booking")

	acc, err := svc.LoyaltyBalance(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, acc.Points)
}

func TestCreateFreeReservation_NoFacilities(t *testing.T) {
	svc, m, _ := newTestService(t)
	m.points[1] = 100
	_, err := svc.CreateFreeReservation(context.Background(), 1)
	assert.ErrorIs(t, err, repository.ErrNoFacilityAvailable)
}

func TestGetBooking_OwnershipEnforced(t *testing.T) {
	svc, m, _ := newTestService(t)
	m.addFacility(model.Facility{ID: 1, PricePerHourCents: 10000, Capacity: 2, IsActive: true})

	res, err := svc.CreateReservation(context.Background(), basicRequest(1))
	require.NoError(t, err)

	_, err = svc.GetBooking(context.Background(), res.Booking.ID, 2)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestCancelBooking_FreesSlot(t *testing.T) {
	svc, m, _ := newTestService(t)
	m.addFacility(model.Facility{ID: 1, PricePerHourCents: 10000, Capacity: 1, IsActive: true})

	res, err := svc.CreateReservation(context.Background(), basicRequest(1))
	require.NoError(t, err)

	_, err = svc.CreateReservation(context.Background(), basicRequest(2))
	require.ErrorIs(t, err, repository.ErrSlotUnavailable)

	require.NoError(t, svc.CancelBooking(context.Background(), res.Booking.ID, 1))

	_, err = svc.CreateReservation(context.Background(), basicRequest(2))
	assert.NoError(t, err, "cancelled bookings release their window")
}
