package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-booking/internal/ledger"
	"github.com/iliyamo/event-booking/internal/model"
	"github.com/iliyamo/event-booking/internal/queue"
	"github.com/iliyamo/event-booking/internal/repository"
)

// fakeEventStore is an in-memory EventStore and GuardEventStore.
type fakeEventStore struct {
	mu           sync.Mutex
	events       map[string]model.Event
	nextID       int
	incrementErr error
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: map[string]model.Event{}}
}

func (s *fakeEventStore) put(id string, e model.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[id] = e
}

func (s *fakeEventStore) GetByID(_ context.Context, id string) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return model.Event{}, repository.ErrNotFound
	}
	return e, nil
}

func (s *fakeEventStore) Insert(_ context.Context, e *model.Event) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := fmt.Sprintf("ev%d", s.nextID)
	s.events[id] = *e
	return id, nil
}

func (s *fakeEventStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *fakeEventStore) IncrementAttendees(_ context.Context, id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.incrementErr != nil {
		return s.incrementErr
	}
	e, ok := s.events[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.AttendeesCount += delta
	s.events[id] = e
	return nil
}

func (s *fakeEventStore) SetAttendees(_ context.Context, id string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.AttendeesCount = count
	s.events[id] = e
	return nil
}

func (s *fakeEventStore) attendees(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[id].AttendeesCount
}

// fakeBookingStore is an in-memory BookingStore, BookingCounter and
// ledger.BookingSource.
type fakeBookingStore struct {
	mu       sync.Mutex
	bookings map[string]model.Booking
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: map[string]model.Booking{}}
}

func (s *fakeBookingStore) Insert(_ context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID.Hex()] = *b
	return nil
}

func (s *fakeBookingStore) GetByID(_ context.Context, id string) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return model.Booking{}, repository.ErrNotFound
	}
	return b, nil
}

func (s *fakeBookingStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bookings, id)
	return nil
}

func (s *fakeBookingStore) UpdateStatus(_ context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.BookingStatus = status
	s.bookings[id] = b
	return nil
}

func (s *fakeBookingStore) ConfirmedByEvent(_ context.Context, eventID string) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Booking{}
	for _, b := range s.bookings {
		if b.EventID == eventID && b.BookingStatus == model.BookingStatusConfirmed {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeBookingStore) CountConfirmed(_ context.Context, eventID string) (int64, error) {
	bs, _ := s.ConfirmedByEvent(context.Background(), eventID)
	return int64(len(bs)), nil
}

func (s *fakeBookingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

// fakeSeatClaims enforces seat uniqueness under a mutex, mirroring the
// unique (event_id,row,column) index: the whole batch either lands or
// nothing does.
type fakeSeatClaims struct {
	mu     sync.Mutex
	claims map[string]string // "event|row|col" -> booking id
}

func newFakeSeatClaims() *fakeSeatClaims {
	return &fakeSeatClaims{claims: map[string]string{}}
}

func claimKey(eventID string, s model.Seat) string {
	return fmt.Sprintf("%s|%d|%d", eventID, s.Row, s.Column)
}

func (f *fakeSeatClaims) Claim(_ context.Context, eventID, bookingID string, seats []model.Seat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[string]bool{}
	for _, s := range seats {
		k := claimKey(eventID, s)
		if _, taken := f.claims[k]; taken || seen[k] {
			return &ledger.CollisionError{Seat: s}
		}
		seen[k] = true
	}
	for _, s := range seats {
		f.claims[claimKey(eventID, s)] = bookingID
	}
	return nil
}

func (f *fakeSeatClaims) Release(_ context.Context, bookingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, v := range f.claims {
		if v == bookingID {
			delete(f.claims, k)
		}
	}
	return nil
}

func (f *fakeSeatClaims) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.claims)
}

type workflowFixture struct {
	events    *fakeEventStore
	bookings  *fakeBookingStore
	claims    *fakeSeatClaims
	workflow  *BookingWorkflow
	published []queue.BookingConfirmedEvent
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()
	fx := &workflowFixture{
		events:   newFakeEventStore(),
		bookings: newFakeBookingStore(),
		claims:   newFakeSeatClaims(),
	}
	publish := func(_ context.Context, e queue.BookingConfirmedEvent) error {
		fx.published = append(fx.published, e)
		return nil
	}
	fx.workflow = NewBookingWorkflow(fx.events, fx.bookings, fx.claims, ledger.New(fx.bookings), publish)
	fx.events.put("ev1", model.Event{
		Title:     "Go Conference",
		Date:      "2026-10-01",
		Time:      "18:00",
		Location:  "Main Hall",
		CreatedBy: "organizer@example.com",
	})
	return fx
}

func seat(r, c int) model.Seat { return model.Seat{Row: r, Column: c} }

func (fx *workflowFixture) book(t *testing.T, email string, seats ...model.Seat) string {
	t.Helper()
	id, err := fx.workflow.CreateBooking(context.Background(), BookingRequest{
		EventID:    "ev1",
		UserEmail:  email,
		UserName:   "Test User",
		Seats:      seats,
		TotalPrice: float64(len(seats)) * 25,
	})
	require.NoError(t, err)
	return id
}

func TestCreateBooking_RejectsMissingDetails(t *testing.T) {
	fx := newWorkflowFixture(t)

	_, err := fx.workflow.CreateBooking(context.Background(), BookingRequest{
		UserEmail: "a@example.com",
		Seats:     []model.Seat{seat(1, 1)},
	})
	assert.ErrorIs(t, err, ErrMissingDetails)

	_, err = fx.workflow.CreateBooking(context.Background(), BookingRequest{
		EventID:   "ev1",
		UserEmail: "a@example.com",
	})
	assert.ErrorIs(t, err, ErrMissingDetails)
}

func TestCreateBooking_UnknownEvent(t *testing.T) {
	fx := newWorkflowFixture(t)

	_, err := fx.workflow.CreateBooking(context.Background(), BookingRequest{
		EventID:   "missing",
		UserEmail: "a@example.com",
		Seats:     []model.Seat{seat(1, 1)},
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateBooking_RejectsOrganizerSelfBooking(t *testing.T) {
	fx := newWorkflowFixture(t)

	_, err := fx.workflow.CreateBooking(context.Background(), BookingRequest{
		EventID:   "ev1",
		UserEmail: "organizer@example.com",
		Seats:     []model.Seat{seat(1, 1)},
	})
	assert.ErrorIs(t, err, ErrOwnEvent)
	assert.Zero(t, fx.bookings.count())
}

func TestCreateBooking_Success(t *testing.T) {
	fx := newWorkflowFixture(t)

	id := fx.book(t, "alice@example.com", seat(1, 1), seat(1, 2))

	b, err := fx.bookings.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, b.BookingStatus)
	assert.Equal(t, 2, b.NumTickets)
	assert.Equal(t, "Go Conference", b.EventTitle)
	assert.Equal(t, "2026-10-01", b.EventDate)
	assert.Equal(t, "Main Hall", b.EventLocation)
	assert.Equal(t, 2, fx.events.attendees("ev1"))

	require.Len(t, fx.published, 1)
	assert.Equal(t, id, fx.published[0].BookingID)
	assert.Equal(t, []string{"(1,1)", "(1,2)"}, fx.published[0].Seats)
}

func TestCreateBooking_PublishFailureDoesNotFailBooking(t *testing.T) {
	fx := newWorkflowFixture(t)
	fx.workflow = NewBookingWorkflow(fx.events, fx.bookings, fx.claims, ledger.New(fx.bookings),
		func(context.Context, queue.BookingConfirmedEvent) error {
			return fmt.Errorf("broker down")
		})

	id := fx.book(t, "alice@example.com", seat(1, 1))

	assert.NotEmpty(t, id)
	assert.Equal(t, 1, fx.bookings.count())
}

func TestCreateBooking_SeatCollision(t *testing.T) {
	fx := newWorkflowFixture(t)
	fx.book(t, "alice@example.com", seat(2, 2))

	_, err := fx.workflow.CreateBooking(context.Background(), BookingRequest{
		EventID:   "ev1",
		UserEmail: "bob@example.com",
		Seats:     []model.Seat{seat(3, 3), seat(2, 2)},
	})

	var collision *ledger.CollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, seat(2, 2), collision.Seat)

	// The losing request leaves no booking, claim or counter change.
	assert.Equal(t, 1, fx.bookings.count())
	assert.Equal(t, 1, fx.claims.size())
	assert.Equal(t, 1, fx.events.attendees("ev1"))
}

func TestCreateBooking_DuplicateSeatWithinRequest(t *testing.T) {
	fx := newWorkflowFixture(t)

	_, err := fx.workflow.CreateBooking(context.Background(), BookingRequest{
		EventID:   "ev1",
		UserEmail: "alice@example.com",
		Seats:     []model.Seat{seat(4, 4), seat(4, 4)},
	})

	var collision *ledger.CollisionError
	require.ErrorAs(t, err, &collision)
	assert.Zero(t, fx.bookings.count())
	assert.Zero(t, fx.claims.size())
}

func TestCreateBooking_CounterFailureRollsBack(t *testing.T) {
	fx := newWorkflowFixture(t)
	fx.events.incrementErr = fmt.Errorf("write timeout")

	_, err := fx.workflow.CreateBooking(context.Background(), BookingRequest{
		EventID:   "ev1",
		UserEmail: "alice@example.com",
		Seats:     []model.Seat{seat(1, 1)},
	})
	require.Error(t, err)
	assert.Zero(t, fx.bookings.count())
	assert.Zero(t, fx.claims.size())

	// Once the store recovers the same seat is bookable again.
	fx.events.incrementErr = nil
	fx.book(t, "alice@example.com", seat(1, 1))
	assert.Equal(t, 1, fx.events.attendees("ev1"))
}

func TestCreateBooking_AttendeesTrackTicketSum(t *testing.T) {
	fx := newWorkflowFixture(t)

	fx.book(t, "alice@example.com", seat(1, 1))
	fx.book(t, "bob@example.com", seat(2, 1), seat(2, 2))
	fx.book(t, "carol@example.com", seat(3, 1), seat(3, 2), seat(3, 3))

	assert.Equal(t, 6, fx.events.attendees("ev1"))
	assert.Equal(t, 6, fx.claims.size())
}

func TestCreateBooking_ConcurrentSameSeat_ExactlyOneWins(t *testing.T) {
	fx := newWorkflowFixture(t)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, email := range []string{"alice@example.com", "bob@example.com"} {
		wg.Add(1)
		go func(i int, email string) {
			defer wg.Done()
			_, errs[i] = fx.workflow.CreateBooking(context.Background(), BookingRequest{
				EventID:   "ev1",
				UserEmail: email,
				Seats:     []model.Seat{seat(7, 7)},
			})
		}(i, email)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			var collision *ledger.CollisionError
			assert.ErrorAs(t, err, &collision)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, fx.bookings.count())
	assert.Equal(t, 1, fx.events.attendees("ev1"))
}

// counterValue reads a counter from the default prometheus registry.
func counterValue(t *testing.T, name string) float64 {
	t.Helper()
	mfs, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

func TestCreateBooking_CountsBlockedAttempts(t *testing.T) {
	fx := newWorkflowFixture(t)
	before := counterValue(t, "bookings_blocked_total")

	_, err := fx.workflow.CreateBooking(context.Background(), BookingRequest{
		EventID:   "ev1",
		UserEmail: "alice@example.com",
	})
	require.ErrorIs(t, err, ErrMissingDetails)

	_, err = fx.workflow.CreateBooking(context.Background(), BookingRequest{
		EventID:   "ev1",
		UserEmail: "organizer@example.com",
		Seats:     []model.Seat{seat(1, 1)},
	})
	require.ErrorIs(t, err, ErrOwnEvent)

	assert.Equal(t, before+2, counterValue(t, "bookings_blocked_total"))
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	fx := newWorkflowFixture(t)

	err := fx.workflow.UpdateStatus(context.Background(), "whatever", "Archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatus_UnknownBooking(t *testing.T) {
	fx := newWorkflowFixture(t)

	err := fx.workflow.UpdateStatus(context.Background(), "missing", model.BookingStatusCancelled)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateStatus_CancelFreesSeatsWithoutTouchingCounter(t *testing.T) {
	fx := newWorkflowFixture(t)
	id := fx.book(t, "alice@example.com", seat(1, 1))

	require.NoError(t, fx.workflow.UpdateStatus(context.Background(), id, model.BookingStatusCancelled))

	// Counter drift is deliberate; only reconcile repairs it.
	assert.Equal(t, 1, fx.events.attendees("ev1"))
	assert.Zero(t, fx.claims.size())

	// The freed seat is bookable by someone else.
	fx.book(t, "bob@example.com", seat(1, 1))
}

func TestUpdateStatus_ReconfirmCollidesWhenSeatTaken(t *testing.T) {
	fx := newWorkflowFixture(t)
	id := fx.book(t, "alice@example.com", seat(1, 1))
	require.NoError(t, fx.workflow.UpdateStatus(context.Background(), id, model.BookingStatusCancelled))
	fx.book(t, "bob@example.com", seat(1, 1))

	err := fx.workflow.UpdateStatus(context.Background(), id, model.BookingStatusConfirmed)

	var collision *ledger.CollisionError
	require.ErrorAs(t, err, &collision)
	b, _ := fx.bookings.GetByID(context.Background(), id)
	assert.Equal(t, model.BookingStatusCancelled, b.BookingStatus)
}

func TestUpdateStatus_SameStatusIsNoop(t *testing.T) {
	fx := newWorkflowFixture(t)
	id := fx.book(t, "alice@example.com", seat(1, 1))

	require.NoError(t, fx.workflow.UpdateStatus(context.Background(), id, model.BookingStatusConfirmed))
	assert.Equal(t, 1, fx.claims.size())
}

func TestReconcile_RepairsCounterDrift(t *testing.T) {
	fx := newWorkflowFixture(t)
	id := fx.book(t, "alice@example.com", seat(1, 1), seat(1, 2))
	fx.book(t, "bob@example.com", seat(2, 1))
	require.NoError(t, fx.workflow.UpdateStatus(context.Background(), id, model.BookingStatusCancelled))

	// Cancel left the counter at 3 while only 1 confirmed ticket remains.
	assert.Equal(t, 3, fx.events.attendees("ev1"))

	total, err := fx.workflow.Reconcile(context.Background(), "ev1")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, fx.events.attendees("ev1"))
}

func TestReconcile_UnknownEvent(t *testing.T) {
	fx := newWorkflowFixture(t)

	_, err := fx.workflow.Reconcile(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
