package presenter

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/render"
)

// ErrInvalidState is returned when a controller is asked for a transition its
// current state does not allow (e.g. submitting while already saving).
var ErrInvalidState = errors.New("presenter: invalid state")

// State is the optimistic-action state of a controller.
type State int

const (
	StateIdle State = iota
	StateEditing
	StateSaving
	StateDeleting
	StateAborting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	case StateDeleting:
		return "deleting"
	case StateAborting:
		return "aborting"
	default:
		return "unknown"
	}
}

// Aborter is told when a dispatched mutation was rejected.
type Aborter interface {
	SetAborting(err error)
}

// Dispatch sends a mutation to the store through the concurrency gate.
// On rejection the orchestrator calls target.SetAborting on the executor.
type Dispatch func(action domain.UserAction, event domain.TripEvent, target Aborter)

// ItemController owns the display and edit lifecycle of one event.
type ItemController struct {
	mount        func(render.View) *render.Node
	node         *render.Node
	token        *EditorToken
	dispatch     Dispatch
	enabled      func() bool
	destinations []domain.Destination
	offers       []domain.OfferGroup

	event      domain.TripEvent
	draft      domain.TripEvent
	state      State
	editorOpen bool
	failed     bool
	destroyed  bool
}

// mount places the first rendered view in the list; later renders replace it
// in place. enabled reports whether the gate currently lets the user act.
func newItemController(mount func(render.View) *render.Node, token *EditorToken, dispatch Dispatch,
	enabled func() bool, destinations []domain.Destination, offers []domain.OfferGroup) *ItemController {
	return &ItemController{
		mount:        mount,
		token:        token,
		dispatch:     dispatch,
		enabled:      enabled,
		destinations: destinations,
		offers:       offers,
	}
}

// ID returns the id of the event this controller shows.
func (c *ItemController) ID() uuid.UUID { return c.event.ID }

// Event returns the data currently displayed (never an unsaved draft).
func (c *ItemController) Event() domain.TripEvent { return c.event.Clone() }

// State returns the current state.
func (c *ItemController) State() State { return c.state }

// EditorOpen reports whether the edit form is shown.
func (c *ItemController) EditorOpen() bool { return c.editorOpen }

// View returns the view currently mounted for this item.
func (c *ItemController) View() render.View {
	if c.node == nil {
		return nil
	}
	return c.node.View()
}

// Init mounts the controller with e, or re-initializes it in place with fresh
// data. A pending save or delete completes back to display mode; an open
// editor stays open and picks up the new data.
func (c *ItemController) Init(e domain.TripEvent) {
	c.event = e.Clone()
	c.failed = false
	switch c.state {
	case StateSaving, StateDeleting:
		c.state = StateIdle
		c.closeForm()
	case StateEditing, StateAborting:
		c.draft = c.event.Clone()
	}
	c.render()
}

// OpenEditor switches to the edit form, closing any other open editor first.
// It returns ErrUnavailable while the gate has controls disabled.
func (c *ItemController) OpenEditor() error {
	if c.destroyed || c.state != StateIdle {
		return fmt.Errorf("presenter.ItemController.OpenEditor: %w: %s", ErrInvalidState, c.state)
	}
	if !c.enabled() {
		return fmt.Errorf("presenter.ItemController.OpenEditor: %w", ErrUnavailable)
	}
	c.token.Acquire(c)
	c.state = StateEditing
	c.editorOpen = true
	c.failed = false
	c.draft = c.event.Clone()
	c.render()
	return nil
}

// CloseEditor cancels editing and discards the draft. A disabled editor
// (save or delete in flight) ignores it.
func (c *ItemController) CloseEditor() {
	if c.destroyed || !c.editorOpen || c.state == StateSaving || c.state == StateDeleting {
		return
	}
	c.token.Release(c)
	c.closeEditor()
}

// closeEditor is called through the token when another editor opens. A form
// with a save or delete in flight folds back to its row but keeps the pending
// state, so the result still lands on this controller.
func (c *ItemController) closeEditor() {
	if c.state == StateEditing || c.state == StateAborting {
		c.state = StateIdle
	}
	c.closeForm()
	c.render()
}

// Submit dispatches draft as a whole-object update. The editor stays open and
// disabled until the store settles.
func (c *ItemController) Submit(draft domain.TripEvent) error {
	if c.destroyed || (c.state != StateEditing && c.state != StateAborting) {
		return fmt.Errorf("presenter.ItemController.Submit: %w: %s", ErrInvalidState, c.state)
	}
	if !c.enabled() {
		return fmt.Errorf("presenter.ItemController.Submit: %w", ErrUnavailable)
	}
	draft = draft.Clone()
	draft.ID = c.event.ID
	c.draft = draft
	c.state = StateSaving
	c.failed = false
	c.render()

	c.dispatch(domain.ActionUpdate, draft, c)
	return nil
}

// Delete dispatches removal of the event from an open editor.
func (c *ItemController) Delete() error {
	if c.destroyed || (c.state != StateEditing && c.state != StateAborting) {
		return fmt.Errorf("presenter.ItemController.Delete: %w: %s", ErrInvalidState, c.state)
	}
	if !c.enabled() {
		return fmt.Errorf("presenter.ItemController.Delete: %w", ErrUnavailable)
	}
	c.state = StateDeleting
	c.failed = false
	c.render()

	c.dispatch(domain.ActionDelete, c.event.Clone(), c)
	return nil
}

// ToggleFavorite dispatches an update flipping IsFavorite from display mode.
func (c *ItemController) ToggleFavorite() error {
	if c.destroyed || c.state != StateIdle {
		return fmt.Errorf("presenter.ItemController.ToggleFavorite: %w: %s", ErrInvalidState, c.state)
	}
	if !c.enabled() {
		return fmt.Errorf("presenter.ItemController.ToggleFavorite: %w", ErrUnavailable)
	}
	next := c.event.Clone()
	next.IsFavorite = !next.IsFavorite
	c.state = StateSaving
	c.failed = false

	c.dispatch(domain.ActionUpdate, next, c)
	return nil
}

// SetAborting rolls back after a rejected mutation: the original data is
// shown again and, if the editor is open, it is re-enabled for a retry.
func (c *ItemController) SetAborting(error) {
	if c.destroyed {
		return
	}
	c.failed = true
	c.draft = c.event.Clone()
	if c.editorOpen {
		c.state = StateAborting
	} else {
		c.state = StateIdle
	}
	c.render()
}

// Destroy unmounts the controller. Safe to call more than once.
func (c *ItemController) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.token.Release(c)
	if c.node != nil {
		c.node.Remove()
	}
}

func (c *ItemController) closeForm() {
	c.editorOpen = false
	c.token.Release(c)
	c.draft = domain.TripEvent{}
}

func (c *ItemController) render() {
	if c.destroyed {
		return
	}
	v := c.currentView()
	if c.node == nil {
		c.node = c.mount(v)
		return
	}
	c.node.Replace(v)
}

func (c *ItemController) currentView() render.View {
	if !c.editorOpen {
		dest, _ := domain.FindDestination(c.destinations, c.event.DestinationID)
		return render.EventView{
			Event:       c.event.Clone(),
			Destination: dest,
			Offers:      domain.SelectedOffers(c.offers, c.event),
			Failed:      c.failed,
		}
	}
	pending := c.state == StateSaving || c.state == StateDeleting
	return render.EditorView{
		Mode:         render.EditorEdit,
		Draft:        c.draft.Clone(),
		Destinations: c.destinations,
		Offers:       domain.OffersFor(c.offers, c.draft.Type),
		Disabled:     pending,
		Saving:       c.state == StateSaving,
		Deleting:     c.state == StateDeleting,
		Failed:       c.failed,
	}
}
