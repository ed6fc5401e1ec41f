package presenter

import (
	"fmt"
	"time"

	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/render"
)

// CreationState is the lifecycle of the new-event form.
// There is no deleting state: an unsaved event is simply cancelled.
type CreationState int

const (
	CreationClosed CreationState = iota
	CreationEditing
	CreationSaving
	CreationAborting
)

func (s CreationState) String() string {
	switch s {
	case CreationClosed:
		return "closed"
	case CreationEditing:
		return "editing"
	case CreationSaving:
		return "saving"
	case CreationAborting:
		return "aborting"
	default:
		return "unknown"
	}
}

// CreationController owns the single in-progress new-event form.
type CreationController struct {
	list         *render.List
	node         *render.Node
	token        *EditorToken
	dispatch     Dispatch
	enabled      func() bool
	destinations []domain.Destination
	offers       []domain.OfferGroup
	now          func() time.Time
	// onClose is called once the form goes away because of the user (cancel,
	// rerun is true) or because another editor took the token (rerun is false).
	onClose func(rerun bool)

	draft     domain.TripEvent
	state     CreationState
	failed    bool
	destroyed bool
}

func newCreationController(list *render.List, token *EditorToken, dispatch Dispatch, enabled func() bool,
	destinations []domain.Destination, offers []domain.OfferGroup,
	now func() time.Time, onClose func(rerun bool)) *CreationController {
	return &CreationController{
		list:         list,
		token:        token,
		dispatch:     dispatch,
		enabled:      enabled,
		destinations: destinations,
		offers:       offers,
		now:          now,
		onClose:      onClose,
	}
}

// State returns the current state.
func (c *CreationController) State() CreationState { return c.state }

// Draft returns the form contents.
func (c *CreationController) Draft() domain.TripEvent { return c.draft.Clone() }

// View returns the mounted form view, or nil when closed.
func (c *CreationController) View() render.View {
	if c.node == nil {
		return nil
	}
	return c.node.View()
}

// Open takes the editor token and mounts a blank form at the top of the list.
func (c *CreationController) Open() error {
	if c.destroyed || c.state != CreationClosed {
		return fmt.Errorf("presenter.CreationController.Open: %w: %s", ErrInvalidState, c.state)
	}
	c.token.Acquire(c)
	c.draft = c.blankDraft()
	c.state = CreationEditing
	c.render()
	return nil
}

// Cancel removes the form and asks the orchestrator to reconcile.
// A form with a save in flight ignores it.
func (c *CreationController) Cancel() {
	if c.destroyed || (c.state != CreationEditing && c.state != CreationAborting) {
		return
	}
	c.token.Release(c)
	c.Destroy()
	c.onClose(true)
}

func (c *CreationController) closeEditor() {
	if c.destroyed {
		return
	}
	c.Destroy()
	c.onClose(false)
}

// Submit dispatches draft as a new event. The form stays mounted and
// disabled until the store settles; success removes it through reconciliation.
func (c *CreationController) Submit(draft domain.TripEvent) error {
	if c.destroyed || (c.state != CreationEditing && c.state != CreationAborting) {
		return fmt.Errorf("presenter.CreationController.Submit: %w: %s", ErrInvalidState, c.state)
	}
	if !c.enabled() {
		return fmt.Errorf("presenter.CreationController.Submit: %w", ErrUnavailable)
	}
	c.draft = draft.Clone()
	c.state = CreationSaving
	c.failed = false
	c.render()

	c.dispatch(domain.ActionAdd, c.draft.Clone(), c)
	return nil
}

// SetAborting re-enables the form after a rejected add, keeping the draft so
// the user can retry.
func (c *CreationController) SetAborting(error) {
	if c.destroyed || c.state != CreationSaving {
		return
	}
	c.state = CreationAborting
	c.failed = true
	c.render()
}

// Destroy unmounts the form without notifying the orchestrator.
// Safe to call more than once.
func (c *CreationController) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.state = CreationClosed
	c.token.Release(c)
	if c.node != nil {
		c.node.Remove()
	}
}

func (c *CreationController) blankDraft() domain.TripEvent {
	now := c.now()
	return domain.TripEvent{
		Type:     domain.TypeFlight,
		DateFrom: now,
		DateTo:   now,
	}
}

func (c *CreationController) render() {
	v := render.EditorView{
		Mode:         render.EditorCreate,
		Draft:        c.draft.Clone(),
		Destinations: c.destinations,
		Offers:       domain.OffersFor(c.offers, c.draft.Type),
		Disabled:     c.state == CreationSaving,
		Saving:       c.state == CreationSaving,
		Failed:       c.failed,
	}
	if c.node == nil {
		c.node = c.list.Prepend(v)
		return
	}
	c.node.Replace(v)
}
