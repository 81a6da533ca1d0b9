package history

import "github.com/nathoo/warcore/engine/fault"

// EntityEventType enumerates the events recorded for one entity.
type EntityEventType string

const (
	EntityCreated  EntityEventType = "create"
	EntityDeleted  EntityEventType = "delete"
	EntitySetClass EntityEventType = "set_class"
	EntitySetName  EntityEventType = "set_name"
)

// EntityEvent is one recorded change to an entity.
type EntityEvent struct {
	Type   EntityEventType
	Turn   int
	Detail string // class ID for set_class, new name for set_name
}

// EntityHistory is the append-only event trail for one entity. Once the
// terminal delete event is recorded no further events may be appended.
type EntityHistory struct {
	ID     string
	Events []EntityEvent

	deleted bool
}

// Append records an event at the given turn.
func (h *EntityHistory) Append(t EntityEventType, turn int, detail string) error {
	if h.deleted {
		return fault.Invariant("entity %q history is terminated", h.ID)
	}
	h.Events = append(h.Events, EntityEvent{Type: t, Turn: turn, Detail: detail})
	if t == EntityDeleted {
		h.deleted = true
	}
	return nil
}

// Deleted reports whether the terminal delete event has been recorded.
func (h *EntityHistory) Deleted() bool { return h.deleted }

func (h *EntityHistory) clone() *EntityHistory {
	out := &EntityHistory{ID: h.ID, deleted: h.deleted}
	out.Events = make([]EntityEvent, len(h.Events))
	copy(out.Events, h.Events)
	return out
}

// FactionEventType enumerates the events recorded for one faction.
type FactionEventType string

const (
	FactionCreated  FactionEventType = "create"
	FactionAdvanced FactionEventType = "advance"
	FactionDeleted  FactionEventType = "delete"
	FactionVictory  FactionEventType = "victory"
)

// FactionEvent is one recorded faction milestone, snapshotting the
// faction's size (entity count) and strength at the time.
type FactionEvent struct {
	Type     FactionEventType
	Turn     int
	Size     int
	Strength int
}

// FactionHistory is the append-only event trail for one faction. The
// delete event is terminal.
type FactionHistory struct {
	ID     string
	Events []FactionEvent

	deleted bool
}

// Append records an event at the given turn with the faction's current
// size and strength.
func (h *FactionHistory) Append(t FactionEventType, turn, size, strength int) error {
	if h.deleted {
		return fault.Invariant("faction %q history is terminated", h.ID)
	}
	h.Events = append(h.Events, FactionEvent{Type: t, Turn: turn, Size: size, Strength: strength})
	if t == FactionDeleted {
		h.deleted = true
	}
	return nil
}

// Deleted reports whether the terminal delete event has been recorded.
func (h *FactionHistory) Deleted() bool { return h.deleted }

func (h *FactionHistory) clone() *FactionHistory {
	out := &FactionHistory{ID: h.ID, deleted: h.deleted}
	out.Events = make([]FactionEvent, len(h.Events))
	copy(out.Events, h.Events)
	return out
}
