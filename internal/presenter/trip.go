package presenter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/gate"
	"github.com/pkordes/tripboard/internal/listing"
	"github.com/pkordes/tripboard/internal/loop"
	"github.com/pkordes/tripboard/internal/render"
	"github.com/pkordes/tripboard/internal/store"
)

// Placeholder messages that do not come from a filter.
const (
	LoadingMessage    = "Loading..."
	LoadFailedMessage = "Failed to load latest route information"
)

// ErrUnavailable is returned by user actions while the gate has controls
// disabled, and by CreateEvent while data is loading or after a failed load.
var ErrUnavailable = errors.New("presenter: action unavailable")

// EventStore defines the store operations the orchestrator depends on.
// *store.Store satisfies it.
type EventStore interface {
	Events() []domain.TripEvent
	Destinations() []domain.Destination
	Offers() []domain.OfferGroup
	Subscribe(fn store.Observer) func()
	Add(ctx context.Context, update domain.UpdateType, event domain.TripEvent) error
	Update(ctx context.Context, update domain.UpdateType, event domain.TripEvent) error
	Delete(ctx context.Context, update domain.UpdateType, event domain.TripEvent) error
}

// Options configures an Orchestrator. Store, Selection and Executor are required.
type Options struct {
	Store     EventStore
	Selection *listing.FilterSelection
	Filters   listing.FilterRegistry
	Sorts     listing.SortRegistry

	// Lower and Upper are the gate bounds; zero means the gate defaults.
	Lower, Upper time.Duration
	Clock        gate.Clock

	// Executor is the single execution context. Timer callbacks, settled
	// mutations and store notifications are all posted to it. Use loop.New in
	// programs; loop.Inline is only safe with a synchronous Spawn and a fake clock.
	Executor loop.Executor
	// Spawn runs a store mutation off the executor; nil means `go f()`.
	Spawn func(f func())

	// Context is passed to every store mutation; nil means context.Background().
	Context context.Context
	Logger  *slog.Logger
}

// Orchestrator derives the visible list, keeps one ItemController per
// visible event, and funnels every mutation through the concurrency gate.
type Orchestrator struct {
	store     EventStore
	selection *listing.FilterSelection
	filters   listing.FilterRegistry
	sorts     listing.SortRegistry
	gate      *gate.Gate
	clock     gate.Clock
	exec      loop.Executor
	spawn     func(func())
	ctx       context.Context
	log       *slog.Logger

	panel *render.List
	list  *render.List

	token     EditorToken
	items     map[uuid.UUID]*ItemController
	order     []uuid.UUID
	creation  *CreationController
	emptyNode *render.Node
	sortNode  *render.Node

	currentSort listing.SortName
	loading     bool
	loadErr     error
	creating    bool
	blocked     int

	inflight    sync.WaitGroup
	unsubscribe []func()
}

// New builds an Orchestrator. Call Init on the executor to subscribe and
// render the first (loading) state.
func New(opts Options) (*Orchestrator, error) {
	if opts.Store == nil || opts.Selection == nil || opts.Executor == nil {
		return nil, fmt.Errorf("presenter.New: %w: store, selection and executor are required", domain.ErrValidation)
	}
	if opts.Filters.Default() == "" {
		opts.Filters = listing.DefaultFilters()
	}
	if opts.Sorts.Default() == "" {
		opts.Sorts = listing.DefaultSorts()
	}
	if opts.Lower == 0 && opts.Upper == 0 {
		opts.Lower, opts.Upper = gate.DefaultLower, gate.DefaultUpper
	}
	if opts.Clock == nil {
		opts.Clock = gate.SystemClock{}
	}
	if opts.Spawn == nil {
		opts.Spawn = func(f func()) { go f() }
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	o := &Orchestrator{
		store:       opts.Store,
		selection:   opts.Selection,
		filters:     opts.Filters,
		sorts:       opts.Sorts,
		clock:       opts.Clock,
		exec:        opts.Executor,
		spawn:       opts.Spawn,
		ctx:         opts.Context,
		log:         opts.Logger,
		panel:       render.NewList(),
		list:        render.NewList(),
		items:       make(map[uuid.UUID]*ItemController),
		currentSort: opts.Sorts.Default(),
		loading:     true,
	}

	g, err := gate.New(opts.Lower, opts.Upper, opts.Clock, gate.Hooks{
		OnBlock: func() { o.blocked++ },
		OnUnblock: func() {
			o.exec.Post(func() { o.blocked-- })
		},
		OnSettleBeforeLower: func() {
			o.log.Debug("mutation settled before lower bound; holding controls")
		},
		OnUpperReached: func() {
			o.log.Debug("mutation still running at upper bound; re-enabling controls")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("presenter.New: %w", err)
	}
	o.gate = g
	return o, nil
}

// Init subscribes to the store and the filter selection and renders the
// current state. Store notifications may arrive on any goroutine and are
// posted to the executor; filter changes are handled synchronously.
func (o *Orchestrator) Init() {
	o.unsubscribe = append(o.unsubscribe,
		o.store.Subscribe(func(c domain.Change) {
			o.exec.Post(func() { o.handleStoreChange(c) })
		}),
		o.selection.Subscribe(o.handleFilterChange),
	)
	o.reconcile(false)
}

// Close unsubscribes from the store and the filter selection.
func (o *Orchestrator) Close() {
	for _, fn := range o.unsubscribe {
		fn()
	}
	o.unsubscribe = nil
}

// Wait blocks until every dispatched mutation has returned from the store.
// Must not be called on the executor.
func (o *Orchestrator) Wait() {
	o.inflight.Wait()
}

// ---- accessors -------------------------------------------------------------

// Panel is the container holding the sort panel.
func (o *Orchestrator) Panel() *render.List { return o.panel }

// List is the container holding the event rows, the creation form and the
// empty placeholder.
func (o *Orchestrator) List() *render.List { return o.list }

// CurrentSort returns the active sort name.
func (o *Orchestrator) CurrentSort() listing.SortName { return o.currentSort }

// Loading reports whether the initial load is still outstanding.
func (o *Orchestrator) Loading() bool { return o.loading }

// LoadErr returns the load failure, if any.
func (o *Orchestrator) LoadErr() error { return o.loadErr }

// Creating reports whether the creation flow is in progress.
func (o *Orchestrator) Creating() bool { return o.creating }

// ControlsEnabled reports whether the gate currently lets the user act.
func (o *Orchestrator) ControlsEnabled() bool { return o.blocked == 0 }

// CanCreate reports whether the new-event button is enabled.
func (o *Orchestrator) CanCreate() bool {
	return o.ControlsEnabled() && !o.creating && !o.loading && o.loadErr == nil
}

// Item returns the controller mounted for id.
func (o *Orchestrator) Item(id uuid.UUID) (*ItemController, bool) {
	c, ok := o.items[id]
	return c, ok
}

// Items returns the mounted controllers in list order.
func (o *Orchestrator) Items() []*ItemController {
	out := make([]*ItemController, 0, len(o.order))
	for _, id := range o.order {
		out = append(out, o.items[id])
	}
	return out
}

// Snapshot returns every mounted view: the sort panel first, then the list.
func (o *Orchestrator) Snapshot() []render.View {
	return append(o.panel.Views(), o.list.Views()...)
}

// Creation returns the open creation controller, or nil.
func (o *Orchestrator) Creation() *CreationController { return o.creation }

// VisibleEvents derives the visible list from the store's current events.
func (o *Orchestrator) VisibleEvents() []domain.TripEvent {
	sort := o.sorts.MustLookup(o.currentSort)
	filter, ok := o.filters.Lookup(o.selection.Current())
	if !ok {
		filter = o.filters.MustLookup(o.filters.Default())
	}
	return listing.Visible(o.store.Events(), sort, filter, o.clock.Now())
}

// FilterCounts returns how many events each filter would show right now.
func (o *Orchestrator) FilterCounts() map[listing.FilterName]int {
	return o.filters.Counts(o.store.Events(), o.clock.Now())
}

// ---- user actions ----------------------------------------------------------

// SetSort changes the active sort and rebuilds the list. The filter is kept.
// Disabled or unknown sorts return domain.ErrValidation.
func (o *Orchestrator) SetSort(name listing.SortName) error {
	d, ok := o.sorts.Lookup(name)
	if !ok || d.Disabled {
		return fmt.Errorf("presenter.Orchestrator.SetSort: %w: sort %q is not selectable", domain.ErrValidation, name)
	}
	if name == o.currentSort {
		return nil
	}
	o.currentSort = name
	o.reconcile(false)
	return nil
}

// SetFilter activates a filter; the selection notifies back and the list is
// rebuilt with the default sort.
func (o *Orchestrator) SetFilter(name listing.FilterName) error {
	if err := o.selection.Set(name); err != nil {
		return fmt.Errorf("presenter.Orchestrator.SetFilter: %w", err)
	}
	return nil
}

// CreateEvent opens the creation flow. The filter is forced back to the
// default so the new event is guaranteed to show up once added.
func (o *Orchestrator) CreateEvent() error {
	if !o.CanCreate() {
		if o.creating {
			return nil
		}
		return fmt.Errorf("presenter.Orchestrator.CreateEvent: %w", ErrUnavailable)
	}
	o.creating = true
	o.selection.Reset()
	o.token.CloseAll()

	o.creation = newCreationController(o.list, &o.token, o.dispatch, o.ControlsEnabled,
		o.store.Destinations(), o.store.Offers(), o.clock.Now, o.creationClosed)
	if err := o.creation.Open(); err != nil {
		return fmt.Errorf("presenter.Orchestrator.CreateEvent: %w", err)
	}
	return nil
}

// ---- notifications ---------------------------------------------------------

func (o *Orchestrator) handleStoreChange(c domain.Change) {
	if c.Type == domain.UpdateMajor {
		o.loading = false
		o.loadErr = c.LoadErr
		o.reconcile(true)
		return
	}

	if c.Structural() {
		o.reconcile(false)
		return
	}

	// A MINOR change touches the controller of c.Event only.
	switch c.Action {
	case domain.ActionUpdate:
		if ctrl, ok := o.items[c.Event.ID]; ok {
			ctrl.Init(c.Event)
			return
		}
		o.insertItem(c.Event)
	case domain.ActionAdd:
		if o.creation != nil && o.creation.State() == CreationSaving {
			o.creation.Destroy()
			o.creation = nil
			o.creating = false
		}
		o.insertItem(c.Event)
	case domain.ActionDelete:
		o.removeItem(c.Event.ID)
	}
	o.syncChrome()
}

func (o *Orchestrator) handleFilterChange(_ domain.UpdateType, name listing.FilterName) {
	o.log.Debug("filter changed", "filter", string(name))
	o.reconcile(true)
}

func (o *Orchestrator) creationClosed(rerun bool) {
	o.creation = nil
	o.creating = false
	if rerun {
		o.reconcile(false)
	}
}

// ---- reconciliation --------------------------------------------------------

// reconcile tears everything down and mounts the visible list again.
// Running it twice with unchanged inputs yields the same controller set.
func (o *Orchestrator) reconcile(resetSort bool) {
	o.teardown()
	if resetSort {
		o.currentSort = o.sorts.Default()
	}

	visible := o.VisibleEvents()
	o.log.Debug("reconcile",
		"sort", string(o.currentSort), "filter", string(o.selection.Current()), "visible", len(visible))

	if len(visible) == 0 {
		if o.creating && !o.loading && o.loadErr == nil {
			return
		}
		o.emptyNode = o.list.Append(render.EmptyView{Message: o.emptyMessage()})
		return
	}

	o.renderSortPanel()
	for _, e := range visible {
		ctrl := o.newItem(o.list.Append)
		o.items[e.ID] = ctrl
		o.order = append(o.order, e.ID)
		ctrl.Init(e)
	}
}

func (o *Orchestrator) newItem(mount func(render.View) *render.Node) *ItemController {
	return newItemController(mount, &o.token, o.dispatch, o.ControlsEnabled,
		o.store.Destinations(), o.store.Offers())
}

// insertItem mounts a controller for e at its place in the visible list,
// ahead of the next mounted row. Events the filter hides are skipped.
func (o *Orchestrator) insertItem(e domain.TripEvent) {
	visible := o.VisibleEvents()
	i := slices.IndexFunc(visible, func(v domain.TripEvent) bool { return v.ID == e.ID })
	if i < 0 {
		return
	}

	var next *render.Node
	pos := len(o.order)
	for _, v := range visible[i+1:] {
		if ctrl, ok := o.items[v.ID]; ok {
			next = ctrl.node
			pos = slices.Index(o.order, v.ID)
			break
		}
	}

	ctrl := o.newItem(func(v render.View) *render.Node { return o.list.InsertBefore(next, v) })
	o.items[e.ID] = ctrl
	o.order = slices.Insert(o.order, pos, e.ID)
	ctrl.Init(visible[i])
}

func (o *Orchestrator) removeItem(id uuid.UUID) {
	ctrl, ok := o.items[id]
	if !ok {
		return
	}
	ctrl.Destroy()
	delete(o.items, id)
	o.order = slices.DeleteFunc(o.order, func(other uuid.UUID) bool { return other == id })
}

// syncChrome shows the sort panel while rows are mounted and the placeholder
// while none are. It never touches item controllers.
func (o *Orchestrator) syncChrome() {
	if len(o.order) > 0 {
		if o.emptyNode != nil {
			o.emptyNode.Remove()
			o.emptyNode = nil
		}
		if o.sortNode == nil {
			o.renderSortPanel()
		}
		return
	}
	if o.sortNode != nil {
		o.sortNode.Remove()
		o.sortNode = nil
	}
	if o.emptyNode == nil && !(o.creating && !o.loading && o.loadErr == nil) {
		o.emptyNode = o.list.Append(render.EmptyView{Message: o.emptyMessage()})
	}
}

// teardown is idempotent and safe with nothing mounted.
func (o *Orchestrator) teardown() {
	for _, ctrl := range o.items {
		ctrl.Destroy()
	}
	clear(o.items)
	o.order = o.order[:0]

	if o.creation != nil {
		o.creation.Destroy()
		o.creation = nil
		o.creating = false
	}
	if o.emptyNode != nil {
		o.emptyNode.Remove()
		o.emptyNode = nil
	}
	if o.sortNode != nil {
		o.sortNode.Remove()
		o.sortNode = nil
	}
}

func (o *Orchestrator) emptyMessage() string {
	switch {
	case o.loadErr != nil:
		return LoadFailedMessage
	case o.loading:
		return LoadingMessage
	}
	f, ok := o.filters.Lookup(o.selection.Current())
	if !ok {
		f = o.filters.MustLookup(o.filters.Default())
	}
	return f.EmptyMessage
}

func (o *Orchestrator) renderSortPanel() {
	all := o.sorts.All()
	items := make([]render.SortItem, len(all))
	for i, s := range all {
		items[i] = render.SortItem{
			Name:     string(s.Name),
			Checked:  s.Name == o.currentSort,
			Disabled: s.Disabled,
		}
	}
	o.sortNode = o.panel.Append(render.SortPanelView{Items: items})
}

// ---- mutations -------------------------------------------------------------

// dispatch brackets one store mutation with a gate ticket. The ticket starts
// on the executor; the store call runs on a spawned goroutine and a rejection
// is posted back to target.
func (o *Orchestrator) dispatch(action domain.UserAction, event domain.TripEvent, target Aborter) {
	ticket := o.gate.Begin()
	o.inflight.Add(1)
	o.spawn(func() {
		defer o.inflight.Done()
		err := o.mutate(action, event)
		ticket.Settle()
		if err != nil {
			o.log.Warn("mutation failed; rolling back",
				"action", action.String(), "event_id", event.ID, "error", err)
			o.exec.Post(func() { target.SetAborting(err) })
		}
	})
}

func (o *Orchestrator) mutate(action domain.UserAction, event domain.TripEvent) error {
	switch action {
	case domain.ActionAdd:
		return o.store.Add(o.ctx, domain.UpdateMinor, event)
	case domain.ActionUpdate:
		return o.store.Update(o.ctx, domain.UpdateMinor, event)
	case domain.ActionDelete:
		return o.store.Delete(o.ctx, domain.UpdateMinor, event)
	default:
		return fmt.Errorf("presenter.Orchestrator.mutate: %w: unknown action %d", domain.ErrValidation, action)
	}
}
