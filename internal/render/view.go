// Package render holds the presentation primitives the presenter mounts:
// plain view models plus a List container whose Nodes are mount handles.
// Drawing them (terminal, HTML) is up to the caller.
package render

import (
	"github.com/pkordes/tripboard/internal/domain"
)

// View is anything that can be mounted in a List.
type View interface {
	Kind() string
}

// EventView displays one event in read mode.
type EventView struct {
	Event       domain.TripEvent
	Destination domain.Destination
	Offers      []domain.Offer
	// Failed marks a row whose last mutation was rejected.
	Failed bool
}

func (EventView) Kind() string { return "event" }

// EditorMode distinguishes editing an existing event from creating one.
type EditorMode int

const (
	EditorEdit EditorMode = iota
	EditorCreate
)

// EditorView is the open edit or create form.
type EditorView struct {
	Mode         EditorMode
	Draft        domain.TripEvent
	Destinations []domain.Destination
	// Offers is the offer group for the draft's type.
	Offers   []domain.Offer
	Disabled bool
	Saving   bool
	Deleting bool
	// Failed marks the form after a rejected submit; it stays enabled for retry.
	Failed bool
}

func (EditorView) Kind() string { return "editor" }

// EmptyView is the placeholder shown when the visible list is empty.
type EmptyView struct {
	Message string
}

func (EmptyView) Kind() string { return "empty" }

// SortItem is one entry of the sort panel.
type SortItem struct {
	Name     string
	Checked  bool
	Disabled bool
}

// SortPanelView lists the sort modes with the active one checked.
type SortPanelView struct {
	Items []SortItem
}

func (SortPanelView) Kind() string { return "sort" }
