package bindz

import "time"

// binding is one event handler recorded in a group.
type binding[T any] struct {
	event    Key
	handler  Handler[T]
	hook     Hook
	attached bool
}

// group is the set of bindings owned by one identifier. The identifier is
// kept apart from the event mapping, so any non-empty event name is valid.
type group[T any, G comparable] struct {
	id       G
	bindings []*binding[T] // bind order; at most one per event
	created  time.Time
}

func newGroup[T any, G comparable](id G, created time.Time) *group[T, G] {
	return &group[T, G]{id: id, created: created}
}

func (g *group[T, G]) lookup(event Key) *binding[T] {
	for _, b := range g.bindings {
		if b.event == event {
			return b
		}
	}
	return nil
}

func (g *group[T, G]) events() []Key {
	events := make([]Key, len(g.bindings))
	for i, b := range g.bindings {
		events[i] = b.event
	}
	return events
}

func (g *group[T, G]) attachedCount() int {
	n := 0
	for _, b := range g.bindings {
		if b.attached {
			n++
		}
	}
	return n
}

// GroupInfo is a read-only view of a group on the stack.
type GroupInfo[G comparable] struct {
	ID      G
	Events  []Key     // Bound event names in bind order
	Active  bool      // Whether the group is on top of the stack
	BoundAt time.Time // When the group was pushed
}
