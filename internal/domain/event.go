// Package domain contains the core data types for Trip Board.
// This package is imported by every other internal package (store, listing,
// presenter, repo, service, handler) and depends only on uuid.
package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// EventType is the kind of a trip event. The set is fixed.
type EventType string

const (
	TypeTaxi        EventType = "taxi"
	TypeBus         EventType = "bus"
	TypeTrain       EventType = "train"
	TypeShip        EventType = "ship"
	TypeDrive       EventType = "drive"
	TypeFlight      EventType = "flight"
	TypeCheckIn     EventType = "check-in"
	TypeSightseeing EventType = "sightseeing"
	TypeRestaurant  EventType = "restaurant"
)

var eventTypes = []EventType{
	TypeTaxi, TypeBus, TypeTrain, TypeShip, TypeDrive,
	TypeFlight, TypeCheckIn, TypeSightseeing, TypeRestaurant,
}

// EventTypes returns every known event type in display order.
func EventTypes() []EventType {
	return slices.Clone(eventTypes)
}

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	return slices.Contains(eventTypes, t)
}

// ParseEventType converts s into an EventType.
// Returns ErrValidation if s is not a known type.
func ParseEventType(s string) (EventType, error) {
	t := EventType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown event type %q", ErrValidation, s)
	}
	return t, nil
}

// TripEvent is one schedulable item of an itinerary: a leg, a meal or an activity.
// DateFrom must not be after DateTo; the core assumes well-formed events and
// leaves that check to the service layer.
type TripEvent struct {
	ID            uuid.UUID   `json:"id"`
	Type          EventType   `json:"type"`
	DateFrom      time.Time   `json:"date_from"`
	DateTo        time.Time   `json:"date_to"`
	BasePrice     int         `json:"base_price"`
	DestinationID uuid.UUID   `json:"destination"`
	OfferIDs      []uuid.UUID `json:"offers"`
	IsFavorite    bool        `json:"is_favorite"`
}

// Duration returns how long the event lasts.
func (e TripEvent) Duration() time.Duration {
	return e.DateTo.Sub(e.DateFrom)
}

// Clone returns a deep copy so callers can edit the offer list without
// touching the original.
func (e TripEvent) Clone() TripEvent {
	e.OfferIDs = slices.Clone(e.OfferIDs)
	return e
}

// HasOffer reports whether the event has the offer with the given id selected.
func (e TripEvent) HasOffer(id uuid.UUID) bool {
	return slices.Contains(e.OfferIDs, id)
}
