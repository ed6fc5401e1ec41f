package listing

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/pkordes/tripboard/internal/domain"
)

// SortName identifies a sort mode.
type SortName string

const (
	SortDay   SortName = "day"
	SortEvent SortName = "event"
	SortTime  SortName = "time"
	SortPrice SortName = "price"
	SortOffer SortName = "offer"
)

// Comparator orders two events. A nil comparator keeps the store order.
type Comparator func(a, b domain.TripEvent) int

// SortDescriptor describes one sort mode.
// Disabled modes are shown in the sort panel but can never be selected.
type SortDescriptor struct {
	Name     SortName
	Disabled bool
	Compare  Comparator
}

// SortRegistry is an immutable table of sort descriptors.
type SortRegistry struct {
	items []SortDescriptor
	def   SortName
}

// DefaultSorts returns the standard sort table. Day is the default.
func DefaultSorts() SortRegistry {
	return SortRegistry{
		def: SortDay,
		items: []SortDescriptor{
			{Name: SortDay, Compare: byDay},
			{Name: SortEvent, Disabled: true},
			{Name: SortTime, Compare: byDuration},
			{Name: SortPrice, Compare: byPrice},
			{Name: SortOffer, Disabled: true},
		},
	}
}

// All returns the descriptors in display order.
func (r SortRegistry) All() []SortDescriptor {
	out := make([]SortDescriptor, len(r.items))
	copy(out, r.items)
	return out
}

// Default returns the sort used after a reset.
func (r SortRegistry) Default() SortName {
	return r.def
}

// Lookup returns the descriptor for name.
func (r SortRegistry) Lookup(name SortName) (SortDescriptor, bool) {
	for _, s := range r.items {
		if s.Name == name {
			return s, true
		}
	}
	return SortDescriptor{}, false
}

// MustLookup is Lookup for names taken from the registry itself.
func (r SortRegistry) MustLookup(name SortName) SortDescriptor {
	s, ok := r.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("listing: sort %q not registered", name))
	}
	return s
}

// Sort returns a sorted copy of events. The sort is stable so modes without a
// comparator, and ties, keep the input order.
func (d SortDescriptor) Sort(events []domain.TripEvent) []domain.TripEvent {
	out := slices.Clone(events)
	if d.Compare != nil {
		slices.SortStableFunc(out, d.Compare)
	}
	return out
}

func byDay(a, b domain.TripEvent) int {
	return a.DateFrom.Compare(b.DateFrom)
}

func byDuration(a, b domain.TripEvent) int {
	return cmp.Compare(a.Duration(), b.Duration())
}

func byPrice(a, b domain.TripEvent) int {
	return cmp.Compare(a.BasePrice, b.BasePrice)
}
