package domain

import "github.com/google/uuid"

// Picture is an image attached to a destination.
type Picture struct {
	Src         string `json:"src"`
	Description string `json:"description"`
}

// Destination is a read-only catalog entry an event points at.
type Destination struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Pictures    []Picture `json:"pictures"`
}

// Offer is an optional extra that can be selected on an event.
type Offer struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Price int       `json:"price"`
}

// OfferGroup lists the offers available for one event type.
type OfferGroup struct {
	Type   EventType `json:"type"`
	Offers []Offer   `json:"offers"`
}

// OffersFor returns the offers available for t, or nil if the catalog has no
// group for that type.
func OffersFor(groups []OfferGroup, t EventType) []Offer {
	for _, g := range groups {
		if g.Type == t {
			return g.Offers
		}
	}
	return nil
}

// FindDestination looks up a destination by id.
func FindDestination(destinations []Destination, id uuid.UUID) (Destination, bool) {
	for _, d := range destinations {
		if d.ID == id {
			return d, true
		}
	}
	return Destination{}, false
}

// SelectedOffers resolves the offers an event has selected against the offer
// group of its type. Unknown ids are skipped.
func SelectedOffers(groups []OfferGroup, e TripEvent) []Offer {
	var out []Offer
	for _, o := range OffersFor(groups, e.Type) {
		if e.HasOffer(o.ID) {
			out = append(out, o)
		}
	}
	return out
}
