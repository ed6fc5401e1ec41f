package main

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pkordes/tripboard/internal/domain"
)

var timeInputLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"}

// draftOptions are the event fields settable from flags.
type draftOptions struct {
	typ         string
	destination string
	from        string
	to          string
	price       int
	offers      []string
	favorite    bool
}

func addDraftArgs(cmd *cobra.Command, o *draftOptions) {
	cmd.Flags().StringVarP(&o.typ, "type", "t", "", "event type, e.g. flight, taxi, check-in")
	cmd.Flags().StringVarP(&o.destination, "destination", "d", "", "destination name or id")
	cmd.Flags().StringVar(&o.from, "from", "", `start, e.g. "2025-06-10 09:00"`)
	cmd.Flags().StringVar(&o.to, "to", "", `end, e.g. "2025-06-10 11:30"`)
	cmd.Flags().IntVarP(&o.price, "price", "p", 0, "base price in whole euros")
	cmd.Flags().StringSliceVarP(&o.offers, "offer", "o", nil, "offer title or id; repeat or comma-separate")
	cmd.Flags().BoolVar(&o.favorite, "favorite", false, "mark the event as a favorite")
}

// apply copies every flag the user set onto base. changed reports whether a
// flag was given; unset flags keep base's value.
func (o *draftOptions) apply(base domain.TripEvent, changed func(name string) bool,
	destinations []domain.Destination, groups []domain.OfferGroup) (domain.TripEvent, error) {
	e := base.Clone()

	if changed("type") {
		t, err := domain.ParseEventType(o.typ)
		if err != nil {
			return domain.TripEvent{}, err
		}
		if t != e.Type {
			e.Type = t
			e.OfferIDs = keepOffers(e.OfferIDs, domain.OffersFor(groups, t))
		}
	}
	if changed("destination") {
		d, err := findDestination(destinations, o.destination)
		if err != nil {
			return domain.TripEvent{}, err
		}
		e.DestinationID = d.ID
	}
	if changed("from") {
		t, err := parseTime(o.from)
		if err != nil {
			return domain.TripEvent{}, fmt.Errorf("--from: %w", err)
		}
		e.DateFrom = t
	}
	if changed("to") {
		t, err := parseTime(o.to)
		if err != nil {
			return domain.TripEvent{}, fmt.Errorf("--to: %w", err)
		}
		e.DateTo = t
	}
	if changed("price") {
		if o.price < 0 {
			return domain.TripEvent{}, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
		}
		e.BasePrice = o.price
	}
	if changed("offer") {
		ids, err := findOffers(domain.OffersFor(groups, e.Type), o.offers)
		if err != nil {
			return domain.TripEvent{}, err
		}
		e.OfferIDs = ids
	}
	if changed("favorite") {
		e.IsFavorite = o.favorite
	}
	return e, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeInputLayouts {
		if t, err := time.ParseInLocation(layout, strings.TrimSpace(s), time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse %q as a date", domain.ErrValidation, s)
}

// findDestination matches by id or case-insensitive name.
func findDestination(destinations []domain.Destination, ref string) (domain.Destination, error) {
	if id, err := uuid.Parse(ref); err == nil {
		if d, ok := domain.FindDestination(destinations, id); ok {
			return d, nil
		}
	}
	for _, d := range destinations {
		if strings.EqualFold(d.Name, ref) {
			return d, nil
		}
	}
	return domain.Destination{}, fmt.Errorf("%w: unknown destination %q", domain.ErrValidation, ref)
}

// findOffers resolves each ref against the offers of one type, by id or
// case-insensitive title.
func findOffers(available []domain.Offer, refs []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(refs))
	for _, ref := range refs {
		i := slices.IndexFunc(available, func(o domain.Offer) bool {
			return o.ID.String() == ref || strings.EqualFold(o.Title, ref)
		})
		if i < 0 {
			return nil, fmt.Errorf("%w: no offer %q for this event type", domain.ErrValidation, ref)
		}
		if !slices.Contains(ids, available[i].ID) {
			ids = append(ids, available[i].ID)
		}
	}
	return ids, nil
}

func keepOffers(selected []uuid.UUID, available []domain.Offer) []uuid.UUID {
	var out []uuid.UUID
	for _, id := range selected {
		if slices.ContainsFunc(available, func(o domain.Offer) bool { return o.ID == id }) {
			out = append(out, id)
		}
	}
	return out
}

// matchEvent resolves a full id or an unambiguous id prefix, as printed by list.
func matchEvent(events []domain.TripEvent, ref string) (uuid.UUID, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return uuid.Nil, fmt.Errorf("%w: event id is required", domain.ErrValidation)
	}
	var found []uuid.UUID
	for _, e := range events {
		if strings.HasPrefix(e.ID.String(), ref) {
			found = append(found, e.ID)
		}
	}
	switch len(found) {
	case 0:
		return uuid.Nil, fmt.Errorf("event %q: %w", ref, domain.ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return uuid.Nil, fmt.Errorf("%w: id prefix %q matches %d events", domain.ErrValidation, ref, len(found))
	}
}
