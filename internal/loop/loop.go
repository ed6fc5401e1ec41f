// Package loop provides the single cooperative execution context that owns
// all presenter state. Work from other goroutines (timer callbacks, settled
// mutations, store notifications) is posted here and runs one func at a time
// in FIFO order.
package loop

import "sync"

// Executor runs funcs on the presenter's execution context.
type Executor interface {
	Post(f func())
}

// Loop is a FIFO executor backed by one goroutine.
type Loop struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	done   chan struct{}
}

// New starts a Loop.
func New() *Loop {
	l := &Loop{done: make(chan struct{})}
	l.cond = sync.NewCond(&l.mu)
	go l.run()
	return l
}

// Post enqueues f. It never blocks, so it is safe to call from a func that is
// itself running on the loop. Posts after Close are dropped.
func (l *Loop) Post(f func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.queue = append(l.queue, f)
	l.cond.Signal()
}

// Do posts f and waits for it to finish. Must not be called from the loop.
func (l *Loop) Do(f func()) {
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		f()
	})
	select {
	case <-done:
	case <-l.done:
	}
}

// Close drains queued funcs and stops the loop.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.cond.Signal()
	l.mu.Unlock()
	<-l.done
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.closed {
			l.cond.Wait()
		}
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		f := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		f()
	}
}

// Inline runs every posted func immediately on the caller's goroutine.
// Tests use it to drive the presenter deterministically.
type Inline struct{}

// Post calls f.
func (Inline) Post(f func()) { f() }
