package listing

import (
	"fmt"
	"slices"
	"sync"

	"github.com/pkordes/tripboard/internal/domain"
)

// FilterObserver is notified whenever the active filter is set or reset.
type FilterObserver func(update domain.UpdateType, name FilterName)

type filterSub struct {
	id int
	fn FilterObserver
}

// FilterSelection holds the single active filter name.
type FilterSelection struct {
	registry FilterRegistry

	mu        sync.Mutex
	current   FilterName
	observers []filterSub
	nextID    int
}

// NewFilterSelection returns a selection set to the registry default.
func NewFilterSelection(registry FilterRegistry) *FilterSelection {
	return &FilterSelection{
		registry: registry,
		current:  registry.Default(),
	}
}

// Current returns the active filter name.
func (s *FilterSelection) Current() FilterName {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers fn and returns a function that removes it.
func (s *FilterSelection) Subscribe(fn FilterObserver) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.observers = append(s.observers, filterSub{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.observers = slices.DeleteFunc(s.observers, func(sub filterSub) bool { return sub.id == id })
	}
}

// Set activates name and notifies observers with a MAJOR update.
// Selecting the already active filter is a no-op.
// Returns domain.ErrValidation for names not in the registry.
func (s *FilterSelection) Set(name FilterName) error {
	if _, ok := s.registry.Lookup(name); !ok {
		return fmt.Errorf("listing.FilterSelection.Set: %w: unknown filter %q", domain.ErrValidation, name)
	}
	s.mu.Lock()
	if s.current == name {
		s.mu.Unlock()
		return nil
	}
	s.current = name
	s.mu.Unlock()

	s.notify(name)
	return nil
}

// Reset returns to the default filter and always notifies observers.
func (s *FilterSelection) Reset() {
	name := s.registry.Default()
	s.mu.Lock()
	s.current = name
	s.mu.Unlock()

	s.notify(name)
}

// notify calls observers outside the lock so they may read Current.
func (s *FilterSelection) notify(name FilterName) {
	s.mu.Lock()
	subs := slices.Clone(s.observers)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(domain.UpdateMajor, name)
	}
}
