package render

import (
	"slices"
	"sync"
)

// List is an ordered container of mounted views.
type List struct {
	mu    sync.Mutex
	nodes []*Node
}

// Node is the mount handle of one view inside a List.
type Node struct {
	list *List
	view View
}

// NewList returns an empty container.
func NewList() *List {
	return &List{}
}

// Append mounts v at the end of the list.
func (l *List) Append(v View) *Node {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := &Node{list: l, view: v}
	l.nodes = append(l.nodes, n)
	return n
}

// Prepend mounts v at the start of the list.
func (l *List) Prepend(v View) *Node {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := &Node{list: l, view: v}
	l.nodes = append([]*Node{n}, l.nodes...)
	return n
}

// InsertBefore mounts v right before ref. A nil or unmounted ref appends.
func (l *List) InsertBefore(ref *Node, v View) *Node {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := &Node{list: l, view: v}
	i := -1
	if ref != nil && ref.list == l {
		i = ref.indexLocked()
	}
	if i < 0 {
		l.nodes = append(l.nodes, n)
		return n
	}
	l.nodes = slices.Insert(l.nodes, i, n)
	return n
}

// Views returns the mounted views in order.
func (l *List) Views() []View {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]View, len(l.nodes))
	for i, n := range l.nodes {
		out[i] = n.view
	}
	return out
}

// Len returns the number of mounted views.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.nodes)
}

// View returns the view currently mounted at n.
func (n *Node) View() View {
	n.list.mu.Lock()
	defer n.list.mu.Unlock()
	return n.view
}

// Replace swaps the view in place, keeping its position among siblings.
// Replacing a removed node does nothing.
func (n *Node) Replace(v View) {
	n.list.mu.Lock()
	defer n.list.mu.Unlock()
	n.view = v
}

// Mounted reports whether n is still in its list.
func (n *Node) Mounted() bool {
	n.list.mu.Lock()
	defer n.list.mu.Unlock()
	return n.indexLocked() >= 0
}

// Remove unmounts the node. Calling it again is a no-op.
func (n *Node) Remove() {
	n.list.mu.Lock()
	defer n.list.mu.Unlock()
	if i := n.indexLocked(); i >= 0 {
		n.list.nodes = append(n.list.nodes[:i], n.list.nodes[i+1:]...)
	}
}

func (n *Node) indexLocked() int {
	for i, other := range n.list.nodes {
		if other == n {
			return i
		}
	}
	return -1
}
