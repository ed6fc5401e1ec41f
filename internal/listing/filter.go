// Package listing holds the derived-view rules for the trip event list:
// the filter and sort tables, the active filter selection, and the
// sort-then-filter pipeline that produces the visible list.
// Filtering is presentation logic; the canonical store stays unfiltered.
package listing

import (
	"fmt"
	"time"

	"github.com/pkordes/tripboard/internal/domain"
)

// FilterName identifies a filter mode.
type FilterName string

const (
	FilterEverything FilterName = "everything"
	FilterFuture     FilterName = "future"
	FilterPresent    FilterName = "present"
	FilterPast       FilterName = "past"
)

// Predicate reports whether an event belongs to a filtered view at time now.
type Predicate func(e domain.TripEvent, now time.Time) bool

// FilterDescriptor describes one filter mode.
type FilterDescriptor struct {
	Name         FilterName
	EmptyMessage string
	Predicate    Predicate
}

// FilterRegistry is an immutable table of filter descriptors.
type FilterRegistry struct {
	items []FilterDescriptor
	def   FilterName
}

// DefaultFilters returns the standard filter table. Everything is the default.
func DefaultFilters() FilterRegistry {
	return FilterRegistry{
		def: FilterEverything,
		items: []FilterDescriptor{
			{
				Name:         FilterEverything,
				EmptyMessage: "Click New Event to create your first point",
				Predicate:    func(domain.TripEvent, time.Time) bool { return true },
			},
			{
				Name:         FilterFuture,
				EmptyMessage: "There are no future events now",
				Predicate:    isFuture,
			},
			{
				Name:         FilterPresent,
				EmptyMessage: "There are no present events now",
				Predicate:    isPresent,
			},
			{
				Name:         FilterPast,
				EmptyMessage: "There are no past events now",
				Predicate:    isPast,
			},
		},
	}
}

// All returns the descriptors in display order.
func (r FilterRegistry) All() []FilterDescriptor {
	out := make([]FilterDescriptor, len(r.items))
	copy(out, r.items)
	return out
}

// Default returns the name the selection resets to.
func (r FilterRegistry) Default() FilterName {
	return r.def
}

// Lookup returns the descriptor for name.
func (r FilterRegistry) Lookup(name FilterName) (FilterDescriptor, bool) {
	for _, f := range r.items {
		if f.Name == name {
			return f, true
		}
	}
	return FilterDescriptor{}, false
}

// MustLookup is Lookup for names taken from the registry itself.
func (r FilterRegistry) MustLookup(name FilterName) FilterDescriptor {
	f, ok := r.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("listing: filter %q not registered", name))
	}
	return f
}

// Counts returns, for every registered filter, how many events it would show.
// The filter bar uses it to disable modes with nothing to show.
func (r FilterRegistry) Counts(events []domain.TripEvent, now time.Time) map[FilterName]int {
	out := make(map[FilterName]int, len(r.items))
	for _, f := range r.items {
		n := 0
		for _, e := range events {
			if f.Predicate(e, now) {
				n++
			}
		}
		out[f.Name] = n
	}
	return out
}

// Comparisons are done at day granularity in now's location.

func isFuture(e domain.TripEvent, now time.Time) bool {
	return day(e.DateFrom, now.Location()).After(day(now, now.Location()))
}

func isPast(e domain.TripEvent, now time.Time) bool {
	return day(e.DateTo, now.Location()).Before(day(now, now.Location()))
}

func isPresent(e domain.TripEvent, now time.Time) bool {
	today := day(now, now.Location())
	return !day(e.DateFrom, now.Location()).After(today) && !day(e.DateTo, now.Location()).Before(today)
}

func day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
