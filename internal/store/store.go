// Package store holds the canonical trip event collection and the read-only
// destination and offer catalogs. Every mutation goes to the remote first;
// the local collection changes only after the remote succeeds, and observers
// are told about it in the order mutations settle.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/tripboard/internal/domain"
)

// Remote is the persistence backend the store talks to.
// client.Client implements it over HTTP; tests use a hand-written mock.
type Remote interface {
	ListEvents(ctx context.Context) ([]domain.TripEvent, error)
	ListDestinations(ctx context.Context) ([]domain.Destination, error)
	ListOffers(ctx context.Context) ([]domain.OfferGroup, error)

	// CreateEvent persists a new event and returns it with its assigned ID.
	CreateEvent(ctx context.Context, event domain.TripEvent) (domain.TripEvent, error)
	// UpdateEvent replaces the whole event and returns the stored version.
	UpdateEvent(ctx context.Context, event domain.TripEvent) (domain.TripEvent, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
}

// Observer receives every change notification.
type Observer func(domain.Change)

type subscription struct {
	id int
	fn Observer
}

// Store is the single owner of the canonical event list.
type Store struct {
	remote Remote
	log    *slog.Logger

	mu           sync.RWMutex
	events       []domain.TripEvent
	destinations []domain.Destination
	offers       []domain.OfferGroup

	subMu  sync.Mutex
	subs   []subscription
	nextID int

	// notifyMu serializes delivery so observers see changes in settlement order.
	notifyMu sync.Mutex
}

// New constructs a Store backed by remote. A nil logger means slog.Default().
func New(remote Remote, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{remote: remote, log: log}
}

// Events returns a snapshot of the canonical collection.
func (s *Store) Events() []domain.TripEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TripEvent, len(s.events))
	for i, e := range s.events {
		out[i] = e.Clone()
	}
	return out
}

// Event returns the canonical copy of the event with the given id.
func (s *Store) Event(id uuid.UUID) (domain.TripEvent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return domain.TripEvent{}, false
	}
	return s.events[i].Clone(), true
}

// Destinations returns a snapshot of the destination catalog.
func (s *Store) Destinations() []domain.Destination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.destinations)
}

// Offers returns a snapshot of the offer catalog.
func (s *Store) Offers() []domain.OfferGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.offers)
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Observer) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		s.subs = slices.DeleteFunc(s.subs, func(sub subscription) bool { return sub.id == id })
	}
}

// Load fetches events and both catalogs concurrently. On success the store
// contents are replaced; on failure they are cleared. Either way observers get
// a MAJOR notification, with LoadErr set on failure.
func (s *Store) Load(ctx context.Context) error {
	var (
		events       []domain.TripEvent
		destinations []domain.Destination
		offers       []domain.OfferGroup
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		events, err = s.remote.ListEvents(gctx)
		return err
	})
	g.Go(func() (err error) {
		destinations, err = s.remote.ListDestinations(gctx)
		return err
	})
	g.Go(func() (err error) {
		offers, err = s.remote.ListOffers(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		err = fmt.Errorf("store.Store.Load: %w: %w", domain.ErrLoadFailed, err)
		s.log.WarnContext(ctx, "trip data load failed", "error", err)
		s.mu.Lock()
		s.events, s.destinations, s.offers = nil, nil, nil
		s.mu.Unlock()
		s.notify(domain.Change{Type: domain.UpdateMajor, LoadErr: err})
		return err
	}

	s.mu.Lock()
	s.events, s.destinations, s.offers = events, destinations, offers
	s.mu.Unlock()

	s.log.DebugContext(ctx, "trip data loaded",
		"events", len(events), "destinations", len(destinations), "offer_groups", len(offers))
	s.notify(domain.Change{Type: domain.UpdateMajor})
	return nil
}

// Add creates event remotely, appends the stored version and notifies.
func (s *Store) Add(ctx context.Context, update domain.UpdateType, event domain.TripEvent) error {
	created, err := s.remote.CreateEvent(ctx, event)
	if err != nil {
		return s.rejected(ctx, "Add", domain.ActionAdd, event, err)
	}

	s.commit(ctx, domain.Change{Type: update, Action: domain.ActionAdd, Event: created}, func() {
		s.events = append(s.events, created.Clone())
	})
	return nil
}

// Update replaces the whole event remotely and locally, then notifies.
// Returns domain.ErrNotFound if the event is not in the local collection.
func (s *Store) Update(ctx context.Context, update domain.UpdateType, event domain.TripEvent) error {
	if _, ok := s.Event(event.ID); !ok {
		return s.rejected(ctx, "Update", domain.ActionUpdate, event, domain.ErrNotFound)
	}

	stored, err := s.remote.UpdateEvent(ctx, event)
	if err != nil {
		return s.rejected(ctx, "Update", domain.ActionUpdate, event, err)
	}

	s.commit(ctx, domain.Change{Type: update, Action: domain.ActionUpdate, Event: stored}, func() {
		if i := s.indexLocked(stored.ID); i >= 0 {
			s.events[i] = stored.Clone()
		}
	})
	return nil
}

// Delete removes the event remotely and locally, then notifies with the
// removed event. Returns domain.ErrNotFound if the event is not in the local
// collection.
func (s *Store) Delete(ctx context.Context, update domain.UpdateType, event domain.TripEvent) error {
	removed, ok := s.Event(event.ID)
	if !ok {
		return s.rejected(ctx, "Delete", domain.ActionDelete, event, domain.ErrNotFound)
	}

	if err := s.remote.DeleteEvent(ctx, event.ID); err != nil {
		return s.rejected(ctx, "Delete", domain.ActionDelete, event, err)
	}

	s.commit(ctx, domain.Change{Type: update, Action: domain.ActionDelete, Event: removed}, func() {
		if i := s.indexLocked(event.ID); i >= 0 {
			s.events = slices.Delete(s.events, i, i+1)
		}
	})
	return nil
}

// commit applies a settled mutation and notifies observers under the notify
// lock, so the order observers see matches the order changes were applied.
func (s *Store) commit(ctx context.Context, c domain.Change, apply func()) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	apply()
	s.mu.Unlock()

	s.log.DebugContext(ctx, "trip event mutation settled",
		"action", c.Action.String(), "update", c.Type.String(), "event_id", c.Event.ID)
	s.deliverLocked(c)
}

// rejected wraps err so both domain.ErrMutationRejected and the original
// error are reachable with errors.Is. The collection is left untouched.
func (s *Store) rejected(ctx context.Context, op string, action domain.UserAction, event domain.TripEvent, err error) error {
	s.log.WarnContext(ctx, "trip event mutation rejected",
		"action", action.String(), "event_id", event.ID, "error", err)
	return fmt.Errorf("store.Store.%s: %w: %w", op, domain.ErrMutationRejected, err)
}

func (s *Store) notify(c domain.Change) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.deliverLocked(c)
}

func (s *Store) deliverLocked(c domain.Change) {
	s.subMu.Lock()
	subs := slices.Clone(s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(c)
	}
}

func (s *Store) indexLocked(id uuid.UUID) int {
	return slices.IndexFunc(s.events, func(e domain.TripEvent) bool { return e.ID == id })
}
