package booking

import (
	"context"
	"testing"
	"time"

	"classhub/errs"
	"classhub/models"
	"classhub/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- fakes ---

type fakeCatalogRepo struct {
	items map[string]*models.CatalogItem
}

func (f *fakeCatalogRepo) GetItem(id string) (*models.CatalogItem, error) {
	return f.items[id], nil
}

func (f *fakeCatalogRepo) GetItemsByService(serviceID string) ([]models.CatalogItem, error) {
	return nil, nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func (f *fakeUserRepo) GetByID(id string) (*models.User, error) {
	return f.users[id], nil
}

type fakeActivityRepo struct {
	activities map[string]*models.Activity
}

func (f *fakeActivityRepo) GetByID(id string) (*models.Activity, error) {
	return f.activities[id], nil
}

func (f *fakeActivityRepo) GetAll() ([]models.Activity, error) { return nil, nil }

func (f *fakeActivityRepo) Create(a *models.Activity) error {
	f.activities[a.ID] = a
	return nil
}

func (f *fakeActivityRepo) Update(a *models.Activity) error { return nil }

func (f *fakeActivityRepo) SetStatus(id, status string) error { return nil }

// fakeBookingRepo mirrors the transactional contract: every create and
// delete rewrites the activity's occupancy from a fresh count.
type fakeBookingRepo struct {
	bookings   map[string]*models.Booking
	activities *fakeActivityRepo
}

func (f *fakeBookingRepo) GetByID(id string) (*models.Booking, error) {
	return f.bookings[id], nil
}

func (f *fakeBookingRepo) GetByActivity(activityID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.ActivityID == activityID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) GetByPayer(payerID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.PayerID == payerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ReplaceItems(booking *models.Booking) error {
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeBookingRepo) CountLive(ctx context.Context, activityID string) (int, error) {
	n := 0
	for _, b := range f.bookings {
		if b.ActivityID == activityID && b.Status != models.BookingCancelled {
			n++
		}
	}
	return n, nil
}

func (f *fakeBookingRepo) CreateAndRecount(ctx context.Context, booking *models.Booking) (int, error) {
	f.bookings[booking.ID] = booking
	return f.recount(ctx, booking.ActivityID)
}

func (f *fakeBookingRepo) DeleteAndRecount(ctx context.Context, bookingID, activityID string) (int, error) {
	if _, ok := f.bookings[bookingID]; !ok {
		return 0, errs.NewNotFoundError("booking", bookingID)
	}
	delete(f.bookings, bookingID)
	return f.recount(ctx, activityID)
}

func (f *fakeBookingRepo) recount(ctx context.Context, activityID string) (int, error) {
	n, _ := f.CountLive(ctx, activityID)
	if act, ok := f.activities.activities[activityID]; ok {
		act.Occupancy = n
	}
	return n, nil
}

type fakeBus struct {
	events []realtime.Event
}

func (f *fakeBus) Publish(room, name string, payload any) {
	f.events = append(f.events, realtime.Event{Room: room, Name: name, Payload: payload})
}

func (f *fakeBus) names() []string {
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Name)
	}
	return out
}

type dispatched struct {
	userID       string
	notification models.Notification
}

type fakePush struct {
	sent []dispatched
}

func (f *fakePush) Subscribe(ctx context.Context, userID, endpoint, p256dh, auth string) error {
	return nil
}

func (f *fakePush) Unsubscribe(ctx context.Context, userID, endpoint string) error {
	return nil
}

func (f *fakePush) Dispatch(ctx context.Context, userID string, n models.Notification) error {
	f.sent = append(f.sent, dispatched{userID: userID, notification: n})
	return nil
}

// --- fixture ---

type fixture struct {
	repo       *fakeBookingRepo
	activities *fakeActivityRepo
	catalog    *fakeCatalogRepo
	users      *fakeUserRepo
	bus        *fakeBus
	push       *fakePush
	svc        *DefaultBookingService
}

func newFixture() *fixture {
	activities := &fakeActivityRepo{activities: map[string]*models.Activity{}}
	f := &fixture{
		repo:       &fakeBookingRepo{bookings: map[string]*models.Booking{}, activities: activities},
		activities: activities,
		catalog:    &fakeCatalogRepo{items: map[string]*models.CatalogItem{}},
		users:      &fakeUserRepo{users: map[string]*models.User{}},
		bus:        &fakeBus{},
		push:       &fakePush{},
	}
	f.svc = &DefaultBookingService{
		Repo:         f.repo,
		ActivityRepo: f.activities,
		CatalogRepo:  f.catalog,
		UserRepo:     f.users,
		Bus:          f.bus,
		Push:         f.push,
		Logger:       zap.NewNop(),
	}
	return f
}

func (f *fixture) seedChild(id string, age int) {
	f.users.users[id] = &models.User{
		ID:          id,
		Role:        models.RoleChild,
		DateOfBirth: time.Now().AddDate(-age, -1, 0),
	}
}

func (f *fixture) seedActivity(id string, startsIn time.Duration) {
	f.activities.activities[id] = &models.Activity{
		ID:       id,
		Title:    "Pottery workshop",
		StartsAt: time.Now().Add(startsIn),
		Capacity: 12,
		Status:   models.ActivityScheduled,
	}
}

func (f *fixture) seedItem(item models.CatalogItem) {
	f.catalog.items[item.ID] = &item
}

func (f *fixture) seedDefaults() {
	f.seedChild("child-1", 12)
	f.seedActivity("act-1", 72*time.Hour)
	f.seedItem(models.CatalogItem{ID: "art", Name: "Art supplies", Price: 10})
	f.seedItem(models.CatalogItem{ID: "climb", Name: "Climbing session", Price: 25, MinAge: 10,
		Variants: []models.CatalogVariant{{ID: "climb-pro", Name: "With instructor", Price: 40}}})
}

var parentActor = models.Actor{ID: "parent-1", Role: models.RoleParent}

// --- tests ---

func TestCreateBookingPersistsRecountsAndFansOut(t *testing.T) {
	f := newFixture()
	f.seedDefaults()

	booking, err := f.svc.CreateBooking(context.Background(), "child-1", "parent-1", "act-1",
		[]models.LineItemSelection{{CatalogItemID: "art"}, {CatalogItemID: "climb"}})
	require.NoError(t, err)

	assert.Equal(t, 35.0, booking.Total)
	assert.Len(t, booking.Items, 2)
	assert.Equal(t, models.BookingPending, booking.Status)

	stored, err := f.repo.GetByID(booking.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 1, f.activities.activities["act-1"].Occupancy)

	require.Equal(t, []string{EventBookingCreated, EventOccupancyChanged}, f.bus.names())
	assert.Equal(t, realtime.ActivityRoom("act-1"), f.bus.events[0].Room)

	require.Len(t, f.push.sent, 1)
	assert.Equal(t, "parent-1", f.push.sent[0].userID)
	assert.Equal(t, "booking_created", f.push.sent[0].notification.Type)
}

func TestCreateBookingUnderageLeavesNoTrace(t *testing.T) {
	f := newFixture()
	f.seedDefaults()
	f.seedChild("child-2", 8)

	_, err := f.svc.CreateBooking(context.Background(), "child-2", "parent-1", "act-1",
		[]models.LineItemSelection{{CatalogItemID: "art"}, {CatalogItemID: "climb"}})

	var ineligible *errs.IneligibleItemError
	require.ErrorAs(t, err, &ineligible)
	assert.Equal(t, []string{"Climbing session"}, ineligible.ItemNames)

	assert.Empty(t, f.repo.bookings)
	assert.Equal(t, 0, f.activities.activities["act-1"].Occupancy)
	assert.Empty(t, f.bus.events)
	assert.Empty(t, f.push.sent)
}

func TestCreateBookingSubjectMustBeChild(t *testing.T) {
	f := newFixture()
	f.seedDefaults()
	f.users.users["parent-1"] = &models.User{ID: "parent-1", Role: models.RoleParent}

	_, err := f.svc.CreateBooking(context.Background(), "parent-1", "parent-1", "act-1",
		[]models.LineItemSelection{{CatalogItemID: "art"}})

	var validation *errs.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestCreateBookingUnknownActivity(t *testing.T) {
	f := newFixture()
	f.seedDefaults()

	_, err := f.svc.CreateBooking(context.Background(), "child-1", "parent-1", "nope",
		[]models.LineItemSelection{{CatalogItemID: "art"}})

	var notFound *errs.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "activity", notFound.Resource)
}

func TestOccupancyTracksLiveBookings(t *testing.T) {
	f := newFixture()
	f.seedDefaults()

	var ids []string
	for i := 0; i < 3; i++ {
		b, err := f.svc.CreateBooking(context.Background(), "child-1", "parent-1", "act-1",
			[]models.LineItemSelection{{CatalogItemID: "art"}})
		require.NoError(t, err)
		ids = append(ids, b.ID)
	}
	assert.Equal(t, 3, f.activities.activities["act-1"].Occupancy)

	require.NoError(t, f.svc.CancelBooking(context.Background(), parentActor, ids[1]))
	assert.Equal(t, 2, f.activities.activities["act-1"].Occupancy)

	n, err := f.repo.CountLive(context.Background(), "act-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestEditBookingRepricesLineItems(t *testing.T) {
	f := newFixture()
	f.seedDefaults()

	booking, err := f.svc.CreateBooking(context.Background(), "child-1", "parent-1", "act-1",
		[]models.LineItemSelection{{CatalogItemID: "art"}})
	require.NoError(t, err)
	f.bus.events = nil

	updated, err := f.svc.EditBooking(context.Background(), parentActor, booking.ID,
		[]models.LineItemSelection{{CatalogItemID: "climb", VariantID: "climb-pro"}})
	require.NoError(t, err)

	assert.Equal(t, 40.0, updated.Total)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "climb-pro", updated.Items[0].VariantID)

	// Edits do not change occupancy, so nothing goes out on the live channel.
	assert.Empty(t, f.bus.events)
}

func TestEditBookingWindowCloses24HoursBeforeStart(t *testing.T) {
	f := newFixture()
	f.seedDefaults()

	booking, err := f.svc.CreateBooking(context.Background(), "child-1", "parent-1", "act-1",
		[]models.LineItemSelection{{CatalogItemID: "art"}})
	require.NoError(t, err)

	f.activities.activities["act-1"].StartsAt = time.Now().Add(23 * time.Hour)
	_, err = f.svc.EditBooking(context.Background(), parentActor, booking.ID,
		[]models.LineItemSelection{{CatalogItemID: "climb"}})
	var closed *errs.EditWindowClosedError
	require.ErrorAs(t, err, &closed)

	f.activities.activities["act-1"].StartsAt = time.Now().Add(25 * time.Hour)
	_, err = f.svc.EditBooking(context.Background(), parentActor, booking.ID,
		[]models.LineItemSelection{{CatalogItemID: "climb"}})
	assert.NoError(t, err)

	// A start already in the past is not gated.
	f.activities.activities["act-1"].StartsAt = time.Now().Add(-time.Hour)
	_, err = f.svc.EditBooking(context.Background(), parentActor, booking.ID,
		[]models.LineItemSelection{{CatalogItemID: "art"}})
	assert.NoError(t, err)
}

func TestEditBookingOwnerOrAdminOnly(t *testing.T) {
	f := newFixture()
	f.seedDefaults()

	booking, err := f.svc.CreateBooking(context.Background(), "child-1", "parent-1", "act-1",
		[]models.LineItemSelection{{CatalogItemID: "art"}})
	require.NoError(t, err)

	stranger := models.Actor{ID: "parent-2", Role: models.RoleParent}
	_, err = f.svc.EditBooking(context.Background(), stranger, booking.ID,
		[]models.LineItemSelection{{CatalogItemID: "climb"}})
	var forbidden *errs.ForbiddenError
	require.ErrorAs(t, err, &forbidden)

	admin := models.Actor{ID: "admin-1", Role: models.RoleAdmin}
	_, err = f.svc.EditBooking(context.Background(), admin, booking.ID,
		[]models.LineItemSelection{{CatalogItemID: "climb"}})
	assert.NoError(t, err)
}

func TestCancelBookingFansOut(t *testing.T) {
	f := newFixture()
	f.seedDefaults()

	booking, err := f.svc.CreateBooking(context.Background(), "child-1", "parent-1", "act-1",
		[]models.LineItemSelection{{CatalogItemID: "art"}})
	require.NoError(t, err)
	f.bus.events = nil
	f.push.sent = nil

	require.NoError(t, f.svc.CancelBooking(context.Background(), parentActor, booking.ID))

	require.Equal(t, []string{EventBookingCancelled, EventOccupancyChanged}, f.bus.names())
	require.Len(t, f.push.sent, 1)
	assert.Equal(t, "booking_cancelled", f.push.sent[0].notification.Type)
}

func TestCancelBookingTwiceReportsNotFound(t *testing.T) {
	f := newFixture()
	f.seedDefaults()

	booking, err := f.svc.CreateBooking(context.Background(), "child-1", "parent-1", "act-1",
		[]models.LineItemSelection{{CatalogItemID: "art"}})
	require.NoError(t, err)

	require.NoError(t, f.svc.CancelBooking(context.Background(), parentActor, booking.ID))

	err = f.svc.CancelBooking(context.Background(), parentActor, booking.ID)
	var notFound *errs.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

// racingBookingRepo simulates a concurrent cancel landing between the
// service's read and its delete.
type racingBookingRepo struct {
	*fakeBookingRepo
}

func (r *racingBookingRepo) DeleteAndRecount(ctx context.Context, bookingID, activityID string) (int, error) {
	delete(r.bookings, bookingID)
	return r.fakeBookingRepo.DeleteAndRecount(ctx, bookingID, activityID)
}

func TestCancelBookingLostRaceReportsNotFound(t *testing.T) {
	f := newFixture()
	f.seedDefaults()

	booking, err := f.svc.CreateBooking(context.Background(), "child-1", "parent-1", "act-1",
		[]models.LineItemSelection{{CatalogItemID: "art"}})
	require.NoError(t, err)
	f.bus.events = nil
	f.push.sent = nil

	f.svc.Repo = &racingBookingRepo{fakeBookingRepo: f.repo}
	err = f.svc.CancelBooking(context.Background(), parentActor, booking.ID)

	var notFound *errs.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "booking", notFound.Resource)

	// The failed cancel produces no fan-out.
	assert.Empty(t, f.bus.events)
	assert.Empty(t, f.push.sent)
}

func TestCancelBookingWindowClosed(t *testing.T) {
	f := newFixture()
	f.seedDefaults()

	booking, err := f.svc.CreateBooking(context.Background(), "child-1", "parent-1", "act-1",
		[]models.LineItemSelection{{CatalogItemID: "art"}})
	require.NoError(t, err)

	f.activities.activities["act-1"].StartsAt = time.Now().Add(23 * time.Hour)
	err = f.svc.CancelBooking(context.Background(), parentActor, booking.ID)
	var closed *errs.EditWindowClosedError
	require.ErrorAs(t, err, &closed)

	stored, _ := f.repo.GetByID(booking.ID)
	assert.NotNil(t, stored)
	assert.Equal(t, 1, f.activities.activities["act-1"].Occupancy)
}

func TestGetBookingVisibility(t *testing.T) {
	f := newFixture()
	f.seedDefaults()

	booking, err := f.svc.CreateBooking(context.Background(), "child-1", "parent-1", "act-1",
		[]models.LineItemSelection{{CatalogItemID: "art"}})
	require.NoError(t, err)

	_, err = f.svc.GetBooking(context.Background(), parentActor, booking.ID)
	assert.NoError(t, err)

	_, err = f.svc.GetBooking(context.Background(), models.Actor{ID: "staff-1", Role: models.RoleStaff}, booking.ID)
	assert.NoError(t, err)

	_, err = f.svc.GetBooking(context.Background(), models.Actor{ID: "parent-2", Role: models.RoleParent}, booking.ID)
	var forbidden *errs.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
}

func TestMutationWindowOpen(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name     string
		startsAt time.Time
		want     bool
	}{
		{"well before cutoff", now.Add(48 * time.Hour), true},
		{"exactly at cutoff", now.Add(EditCutoff), true},
		{"inside cutoff", now.Add(12 * time.Hour), false},
		{"already started", now.Add(-time.Hour), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, mutationWindowOpen(tc.startsAt, now))
		})
	}
}
