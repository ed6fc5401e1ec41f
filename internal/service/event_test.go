package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/service"
)

// ---- helpers ---------------------------------------------------------------

var (
	geneva  = domain.Destination{ID: uuid.New(), Name: "Geneva"}
	luggage = domain.Offer{ID: uuid.New(), Title: "Add luggage", Price: 50}
	meal    = domain.Offer{ID: uuid.New(), Title: "Add meal", Price: 15}
)

func validEvent() domain.TripEvent {
	from := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return domain.TripEvent{
		Type:          domain.TypeFlight,
		DateFrom:      from,
		DateTo:        from.Add(3 * time.Hour),
		BasePrice:     300,
		DestinationID: geneva.ID,
		OfferIDs:      []uuid.UUID{luggage.ID},
	}
}

// catalogRepos returns repos that know geneva and offer luggage and meal for flights.
func catalogRepos() (*mockDestinationRepo, *mockOfferRepo) {
	dests := &mockDestinationRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Destination, error) {
			if id == geneva.ID {
				return geneva, nil
			}
			return domain.Destination{}, domain.ErrNotFound
		},
	}
	offers := &mockOfferRepo{
		listByType: func(_ context.Context, t domain.EventType) ([]domain.Offer, error) {
			if t == domain.TypeFlight {
				return []domain.Offer{luggage, meal}, nil
			}
			return []domain.Offer{}, nil
		},
	}
	return dests, offers
}

func newEventService(events *mockEventRepo) *service.EventService {
	dests, offers := catalogRepos()
	return service.NewEventService(events, dests, offers)
}

// ---- Create ----------------------------------------------------------------

func TestEventService_Create_OK(t *testing.T) {
	input := validEvent()
	stored := input
	stored.ID = uuid.New()

	svc := newEventService(&mockEventRepo{
		create: func(_ context.Context, e domain.TripEvent) (domain.TripEvent, error) {
			assert.Equal(t, uuid.Nil, e.ID, "client id is dropped")
			return stored, nil
		},
	})

	input.ID = uuid.New()
	got, err := svc.Create(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestEventService_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *domain.TripEvent)
	}{
		{"unknown type", func(e *domain.TripEvent) { e.Type = "rocket" }},
		{"missing date_from", func(e *domain.TripEvent) { e.DateFrom = time.Time{} }},
		{"from after to", func(e *domain.TripEvent) { e.DateFrom = e.DateTo.Add(time.Minute) }},
		{"negative price", func(e *domain.TripEvent) { e.BasePrice = -1 }},
		{"unknown destination", func(e *domain.TripEvent) { e.DestinationID = uuid.New() }},
		{"offer from another type", func(e *domain.TripEvent) { e.Type = domain.TypeBus }},
		{"unknown offer", func(e *domain.TripEvent) { e.OfferIDs = []uuid.UUID{uuid.New()} }},
		{"duplicate offer", func(e *domain.TripEvent) { e.OfferIDs = []uuid.UUID{meal.ID, meal.ID} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newEventService(&mockEventRepo{})
			input := validEvent()
			tc.mutate(&input)

			_, err := svc.Create(context.Background(), input)

			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestEventService_Create_SameInstantAllowed(t *testing.T) {
	input := validEvent()
	input.DateTo = input.DateFrom
	input.OfferIDs = nil

	svc := newEventService(&mockEventRepo{
		create: func(_ context.Context, e domain.TripEvent) (domain.TripEvent, error) { return e, nil },
	})

	_, err := svc.Create(context.Background(), input)

	assert.NoError(t, err)
}

func TestEventService_Create_DestinationLookupFails(t *testing.T) {
	boom := errors.New("connection reset")
	dests := &mockDestinationRepo{
		getByID: func(context.Context, uuid.UUID) (domain.Destination, error) { return domain.Destination{}, boom },
	}
	_, offers := catalogRepos()
	svc := service.NewEventService(&mockEventRepo{}, dests, offers)

	_, err := svc.Create(context.Background(), validEvent())

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrValidation)
}

// ---- List ------------------------------------------------------------------

func TestEventService_List_NilBecomesEmpty(t *testing.T) {
	svc := newEventService(&mockEventRepo{
		list: func(context.Context) ([]domain.TripEvent, error) { return nil, nil },
	})

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// ---- Update ----------------------------------------------------------------

func TestEventService_Update_OK(t *testing.T) {
	input := validEvent()
	input.ID = uuid.New()
	input.OfferIDs = []uuid.UUID{meal.ID, luggage.ID}

	svc := newEventService(&mockEventRepo{
		update: func(_ context.Context, e domain.TripEvent) (domain.TripEvent, error) { return e, nil },
	})

	got, err := svc.Update(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, input, got)
}

func TestEventService_Update_NotFound(t *testing.T) {
	svc := newEventService(&mockEventRepo{
		update: func(context.Context, domain.TripEvent) (domain.TripEvent, error) {
			return domain.TripEvent{}, domain.ErrNotFound
		},
	})

	_, err := svc.Update(context.Background(), validEvent())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventService_Update_Invalid(t *testing.T) {
	svc := newEventService(&mockEventRepo{})
	input := validEvent()
	input.BasePrice = -5

	_, err := svc.Update(context.Background(), input)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- GetByID / Delete ------------------------------------------------------

func TestEventService_GetByID_NotFound(t *testing.T) {
	svc := newEventService(&mockEventRepo{
		getByID: func(context.Context, uuid.UUID) (domain.TripEvent, error) {
			return domain.TripEvent{}, domain.ErrNotFound
		},
	})

	_, err := svc.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventService_Delete(t *testing.T) {
	id := uuid.New()
	var deleted uuid.UUID
	svc := newEventService(&mockEventRepo{
		delete: func(_ context.Context, got uuid.UUID) error {
			deleted = got
			return nil
		},
	})

	require.NoError(t, svc.Delete(context.Background(), id))
	assert.Equal(t, id, deleted)
}

func TestEventService_Delete_NotFound(t *testing.T) {
	svc := newEventService(&mockEventRepo{
		delete: func(context.Context, uuid.UUID) error { return domain.ErrNotFound },
	})

	err := svc.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
