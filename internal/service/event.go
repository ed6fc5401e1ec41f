// Package service contains the business logic for the Trip Board API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/repo"
)

// EventService implements business logic for trip event operations.
// It reads the catalogs because an event is only valid against them: the
// destination must exist and every offer must belong to the event type's group.
type EventService struct {
	events       repo.EventRepo
	destinations repo.DestinationRepo
	offers       repo.OfferRepo
}

// NewEventService constructs an EventService backed by the provided repos.
func NewEventService(events repo.EventRepo, destinations repo.DestinationRepo, offers repo.OfferRepo) *EventService {
	return &EventService{events: events, destinations: destinations, offers: offers}
}

// Create validates and persists a new event. Any client-supplied ID is ignored.
// Returns domain.ErrValidation if input violates business rules.
func (s *EventService) Create(ctx context.Context, event domain.TripEvent) (domain.TripEvent, error) {
	event.ID = uuid.Nil
	if err := s.validate(ctx, event); err != nil {
		return domain.TripEvent{}, fmt.Errorf("service.EventService.Create: %w", err)
	}
	result, err := s.events.Create(ctx, event)
	if err != nil {
		return domain.TripEvent{}, fmt.Errorf("service.EventService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single event by ID.
func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (domain.TripEvent, error) {
	result, err := s.events.GetByID(ctx, id)
	if err != nil {
		return domain.TripEvent{}, fmt.Errorf("service.EventService.GetByID: %w", err)
	}
	return result, nil
}

// List returns all events. Always returns a non-nil slice so callers can
// safely range over it and JSON encodes it as [].
func (s *EventService) List(ctx context.Context) ([]domain.TripEvent, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.EventService.List: %w", err)
	}
	if events == nil {
		return []domain.TripEvent{}, nil
	}
	return events, nil
}

// Update validates and overwrites an existing event.
// Returns domain.ErrValidation for invalid input, domain.ErrNotFound if the
// event does not exist.
func (s *EventService) Update(ctx context.Context, event domain.TripEvent) (domain.TripEvent, error) {
	if err := s.validate(ctx, event); err != nil {
		return domain.TripEvent{}, fmt.Errorf("service.EventService.Update: %w", err)
	}
	result, err := s.events.Update(ctx, event)
	if err != nil {
		return domain.TripEvent{}, fmt.Errorf("service.EventService.Update: %w", err)
	}
	return result, nil
}

// Delete removes an event by ID.
// Returns domain.ErrNotFound if the event does not exist.
func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.events.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.EventService.Delete: %w", err)
	}
	return nil
}

// validate enforces the rules shared by Create and Update.
//   - Type must be one of the nine known kinds.
//   - Both dates are required and DateFrom must not be after DateTo.
//   - BasePrice must not be negative.
//   - The destination must exist.
//   - Every offer must belong to the offer group of the event's type, once.
func (s *EventService) validate(ctx context.Context, e domain.TripEvent) error {
	if !e.Type.Valid() {
		return fmt.Errorf("%w: unknown event type %q", domain.ErrValidation, e.Type)
	}
	if e.DateFrom.IsZero() || e.DateTo.IsZero() {
		return fmt.Errorf("%w: date_from and date_to are required", domain.ErrValidation)
	}
	if e.DateFrom.After(e.DateTo) {
		return fmt.Errorf("%w: date_from must not be after date_to", domain.ErrValidation)
	}
	if e.BasePrice < 0 {
		return fmt.Errorf("%w: base_price must not be negative", domain.ErrValidation)
	}

	if _, err := s.destinations.GetByID(ctx, e.DestinationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: destination %s does not exist", domain.ErrValidation, e.DestinationID)
		}
		return err
	}

	if len(e.OfferIDs) == 0 {
		return nil
	}
	available, err := s.offers.ListByType(ctx, e.Type)
	if err != nil {
		return err
	}
	known := make(map[uuid.UUID]bool, len(available))
	for _, o := range available {
		known[o.ID] = true
	}
	seen := make(map[uuid.UUID]bool, len(e.OfferIDs))
	for _, id := range e.OfferIDs {
		if !known[id] {
			return fmt.Errorf("%w: offer %s is not available for %s", domain.ErrValidation, id, e.Type)
		}
		if seen[id] {
			return fmt.Errorf("%w: offer %s selected twice", domain.ErrValidation, id)
		}
		seen[id] = true
	}
	return nil
}
