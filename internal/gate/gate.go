// Package gate brackets a mutating action with two timers so the interface
// neither flickers (a disabled state shown for a few milliseconds) nor appears
// frozen (controls disabled for as long as a slow request takes).
//
// Controls are disabled on entry. They come back at the later of the lower
// bound and settlement, but never later than the upper bound. Hitting the
// upper bound does not cancel the action; it keeps running and settles on its own.
package gate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkordes/tripboard/internal/domain"
)

// Default bounds.
const (
	DefaultLower = 350 * time.Millisecond
	DefaultUpper = 1000 * time.Millisecond
)

// Hooks are called as a ticket moves through its lifecycle. Any may be nil.
// They are invoked from the goroutine that triggered them (the caller of
// Begin/Settle, or a timer goroutine), never while the gate holds its lock.
type Hooks struct {
	// OnBlock runs when a ticket begins; controls should be disabled.
	OnBlock func()
	// OnUnblock runs exactly once per ticket; controls should be re-enabled.
	OnUnblock func()
	// OnSettleBeforeLower runs when the action settles before the lower bound.
	OnSettleBeforeLower func()
	// OnUpperReached runs when the upper bound passes with the action still running.
	OnUpperReached func()
}

// Gate creates tickets that share the same bounds, clock and hooks.
type Gate struct {
	lower time.Duration
	upper time.Duration
	clock Clock
	hooks Hooks
}

// New validates the bounds and returns a Gate.
// A nil clock means SystemClock.
func New(lower, upper time.Duration, clock Clock, hooks Hooks) (*Gate, error) {
	if lower < 0 || upper <= lower {
		return nil, fmt.Errorf("gate.New: %w: need 0 <= lower < upper, got lower=%s upper=%s",
			domain.ErrValidation, lower, upper)
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Gate{lower: lower, upper: upper, clock: clock, hooks: hooks}, nil
}

// Bounds returns the lower and upper delays.
func (g *Gate) Bounds() (lower, upper time.Duration) {
	return g.lower, g.upper
}

// Ticket tracks one bracketed action.
type Ticket struct {
	gate *Gate

	mu           sync.Mutex
	lowerElapsed bool
	settled      bool
	unblocked    bool
	lowerTimer   Timer
	upperTimer   Timer
}

// Begin disables controls and starts both timers.
// Re-entrant calls are not queued: each ticket runs independently.
func (g *Gate) Begin() *Ticket {
	t := &Ticket{gate: g}
	call(g.hooks.OnBlock)

	lower := g.clock.AfterFunc(g.lower, t.lowerReached)
	upper := g.clock.AfterFunc(g.upper, t.upperReached)

	t.mu.Lock()
	t.lowerTimer, t.upperTimer = lower, upper
	if t.unblocked {
		t.stopTimersLocked()
	}
	t.mu.Unlock()
	return t
}

// Settle marks the bracketed action as finished, successful or not.
// Calling it more than once has no further effect.
func (t *Ticket) Settle() {
	t.mu.Lock()
	if t.settled {
		t.mu.Unlock()
		return
	}
	t.settled = true
	early := !t.lowerElapsed && !t.unblocked
	unblock := t.lowerElapsed && !t.unblocked
	if unblock {
		t.unblocked = true
		t.stopTimersLocked()
	}
	t.mu.Unlock()

	if early {
		call(t.gate.hooks.OnSettleBeforeLower)
	}
	if unblock {
		call(t.gate.hooks.OnUnblock)
	}
}

// Unblocked reports whether controls have been re-enabled for this ticket.
func (t *Ticket) Unblocked() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.unblocked
}

func (t *Ticket) lowerReached() {
	t.mu.Lock()
	t.lowerElapsed = true
	unblock := t.settled && !t.unblocked
	if unblock {
		t.unblocked = true
		t.stopTimersLocked()
	}
	t.mu.Unlock()

	if unblock {
		call(t.gate.hooks.OnUnblock)
	}
}

func (t *Ticket) upperReached() {
	t.mu.Lock()
	if t.unblocked {
		t.mu.Unlock()
		return
	}
	t.unblocked = true
	t.lowerElapsed = true
	t.stopTimersLocked()
	t.mu.Unlock()

	call(t.gate.hooks.OnUpperReached)
	call(t.gate.hooks.OnUnblock)
}

func (t *Ticket) stopTimersLocked() {
	if t.lowerTimer != nil {
		t.lowerTimer.Stop()
	}
	if t.upperTimer != nil {
		t.upperTimer.Stop()
	}
}

// Run brackets action with a ticket and returns the action's error.
// The action always runs to completion; ctx is passed through untouched.
func (g *Gate) Run(ctx context.Context, action func(ctx context.Context) error) error {
	t := g.Begin()
	defer t.Settle()
	return action(ctx)
}

func call(f func()) {
	if f != nil {
		f()
	}
}
