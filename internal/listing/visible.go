package listing

import (
	"time"

	"github.com/pkordes/tripboard/internal/domain"
)

// Visible derives the rendered list: events are sorted first and then
// filtered, so every filtered view keeps the globally chosen order.
// The input slice is not modified.
func Visible(events []domain.TripEvent, sort SortDescriptor, filter FilterDescriptor, now time.Time) []domain.TripEvent {
	sorted := sort.Sort(events)
	out := sorted[:0]
	for _, e := range sorted {
		if filter.Predicate(e, now) {
			out = append(out, e)
		}
	}
	return out
}
