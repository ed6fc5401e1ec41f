// Package presenter reconciles the visible trip event list against a set of
// per-item controllers and routes every mutation through the concurrency gate.
//
// Nothing in this package is safe for concurrent use. Every exported method
// must be called on the goroutine of the Orchestrator's executor; work that
// settles elsewhere is posted back to it.
package presenter

// editor is a controller that can hold the active-editor token.
type editor interface {
	closeEditor()
}

// EditorToken is the single active-editor token. At most one controller,
// item or creation, holds it at a time.
type EditorToken struct {
	holder editor
}

// Acquire hands the token to e, closing whichever controller held it before.
func (t *EditorToken) Acquire(e editor) {
	if prev := t.holder; prev != nil && prev != e {
		t.holder = nil
		prev.closeEditor()
	}
	t.holder = e
}

// Release gives the token up if e holds it.
func (t *EditorToken) Release(e editor) {
	if t.holder == e {
		t.holder = nil
	}
}

// CloseAll closes the current holder, if any.
func (t *EditorToken) CloseAll() {
	if prev := t.holder; prev != nil {
		t.holder = nil
		prev.closeEditor()
	}
}

// Held reports whether any editor is open.
func (t *EditorToken) Held() bool {
	return t.holder != nil
}
