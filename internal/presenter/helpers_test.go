package presenter_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/listing"
	"github.com/pkordes/tripboard/internal/loop"
	"github.com/pkordes/tripboard/internal/presenter"
	"github.com/pkordes/tripboard/internal/render"
	"github.com/pkordes/tripboard/internal/store"
	"github.com/pkordes/tripboard/testutil"
)

// ---- mock remote -----------------------------------------------------------

// mockRemote is a hand-written test double for store.Remote.
// Unset mutation funcs succeed and echo their input.
type mockRemote struct {
	events     []domain.TripEvent
	loadErr    error
	create     func(ctx context.Context, e domain.TripEvent) (domain.TripEvent, error)
	update     func(ctx context.Context, e domain.TripEvent) (domain.TripEvent, error)
	delete     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockRemote) ListEvents(context.Context) ([]domain.TripEvent, error) {
	return m.events, m.loadErr
}
func (m *mockRemote) ListDestinations(context.Context) ([]domain.Destination, error) {
	return []domain.Destination{geneva}, nil
}
func (m *mockRemote) ListOffers(context.Context) ([]domain.OfferGroup, error) {
	return []domain.OfferGroup{{Type: domain.TypeFlight, Offers: []domain.Offer{luggage}}}, nil
}
func (m *mockRemote) CreateEvent(ctx context.Context, e domain.TripEvent) (domain.TripEvent, error) {
	if m.create != nil {
		return m.create(ctx, e)
	}
	e.ID = uuid.New()
	return e, nil
}
func (m *mockRemote) UpdateEvent(ctx context.Context, e domain.TripEvent) (domain.TripEvent, error) {
	if m.update != nil {
		return m.update(ctx, e)
	}
	return e, nil
}
func (m *mockRemote) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	if m.delete != nil {
		return m.delete(ctx, id)
	}
	return nil
}

// compile-time checks.
var (
	_ store.Remote          = (*mockRemote)(nil)
	_ presenter.EventStore = (*store.Store)(nil)
)

// ---- fixtures --------------------------------------------------------------

var (
	now     = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	geneva  = domain.Destination{ID: uuid.New(), Name: "Geneva"}
	luggage = domain.Offer{ID: uuid.New(), Title: "Add luggage", Price: 30}
)

// tripEvent returns a flight starting dayOffset days from now, lasting an hour.
func tripEvent(dayOffset, price int) domain.TripEvent {
	from := now.AddDate(0, 0, dayOffset)
	return domain.TripEvent{
		ID:            uuid.New(),
		Type:          domain.TypeFlight,
		DateFrom:      from,
		DateTo:        from.Add(time.Hour),
		BasePrice:     price,
		DestinationID: geneva.ID,
	}
}

// ---- harness ---------------------------------------------------------------

// harness wires a real store and orchestrator to a mock remote, an inline
// executor and a fake clock. With queue set, store mutations are held until
// runSpawned so tests can move the clock while a request is in flight.
type harness struct {
	t       *testing.T
	clock   *testutil.FakeClock
	remote  *mockRemote
	store   *store.Store
	sel     *listing.FilterSelection
	o       *presenter.Orchestrator
	queue   bool
	pending []func()
}

func newHarness(t *testing.T, events ...domain.TripEvent) *harness {
	t.Helper()
	h := &harness{
		t:      t,
		clock:  testutil.NewFakeClock(now),
		remote: &mockRemote{events: events},
	}
	h.store = store.New(h.remote, nil)
	h.sel = listing.NewFilterSelection(listing.DefaultFilters())

	o, err := presenter.New(presenter.Options{
		Store:     h.store,
		Selection: h.sel,
		Lower:     350 * time.Millisecond,
		Upper:     1000 * time.Millisecond,
		Clock:     h.clock,
		Executor:  loop.Inline{},
		Spawn:     h.spawn,
	})
	require.NoError(t, err)
	h.o = o
	o.Init()
	t.Cleanup(o.Close)
	return h
}

// loaded returns a harness whose initial load has completed.
func loaded(t *testing.T, events ...domain.TripEvent) *harness {
	t.Helper()
	h := newHarness(t, events...)
	require.NoError(t, h.store.Load(context.Background()))
	return h
}

func (h *harness) spawn(f func()) {
	if h.queue {
		h.pending = append(h.pending, f)
		return
	}
	f()
}

func (h *harness) runSpawned() {
	fns := h.pending
	h.pending = nil
	for _, f := range fns {
		f()
	}
}

func (h *harness) item(id uuid.UUID) *presenter.ItemController {
	h.t.Helper()
	c, ok := h.o.Item(id)
	require.True(h.t, ok, "no controller for %s", id)
	return c
}

// listIDs returns the event ids of the mounted rows, in list order.
func (h *harness) listIDs() []uuid.UUID {
	var out []uuid.UUID
	for _, v := range h.o.List().Views() {
		switch v := v.(type) {
		case render.EventView:
			out = append(out, v.Event.ID)
		case render.EditorView:
			out = append(out, v.Draft.ID)
		}
	}
	return out
}

func itemIDs(ctrls []*presenter.ItemController) []uuid.UUID {
	out := make([]uuid.UUID, len(ctrls))
	for i, c := range ctrls {
		out[i] = c.ID()
	}
	return out
}

func (h *harness) emptyMessage() (string, bool) {
	for _, v := range h.o.List().Views() {
		if e, ok := v.(render.EmptyView); ok {
			return e.Message, true
		}
	}
	return "", false
}
