package domain

// UpdateType tags every store notification with the refresh granularity the
// observers should apply.
type UpdateType int

const (
	// UpdateMinor refreshes a single item in place.
	UpdateMinor UpdateType = iota
	// UpdateMajor rebuilds the whole list. Used for load completion, load
	// failure and filter resets.
	UpdateMajor
)

func (u UpdateType) String() string {
	switch u {
	case UpdateMinor:
		return "minor"
	case UpdateMajor:
		return "major"
	default:
		return "unknown"
	}
}

// UserAction identifies which mutation a controller dispatched.
type UserAction int

const (
	ActionAdd UserAction = iota
	ActionUpdate
	ActionDelete
)

func (a UserAction) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Change is the payload delivered to store observers.
// Event holds the affected item for Add and Update, the removed item for
// Delete, and the zero value for structural notifications (load).
// LoadErr is set only on the MAJOR notification that reports a failed load.
type Change struct {
	Type    UpdateType
	Action  UserAction
	Event   TripEvent
	LoadErr error
}

// Structural reports whether the change carries no single item.
func (c Change) Structural() bool {
	return c.Event.ID == [16]byte{}
}
