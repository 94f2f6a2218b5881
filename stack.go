package bindz

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/zoobzio/clockz"
	"go.uber.org/zap"
)

// Stack binds handler groups to a shared target so that only one group is
// attached at a time.
//
// Groups are identified by a caller-chosen id of type G and ordered by the
// time their owner took over. The group on top of the stack is the only
// one whose handlers are attached to the target; every other group keeps
// its bindings detached until it is on top again.
//
// Binding under the top group's id adds or replaces handlers in place.
// Binding under any other id detaches the top group and makes the id's
// group the new top, creating it if needed. UnbindAll removes a group
// from any position and reattaches the group left on top.
//
// Thread Safety:
// All methods are safe for concurrent use. Handlers are never called by
// the stack itself, so a handler may call back into the stack.
type Stack[T any, G comparable] struct {
	target Target[T]
	clock  clockz.Clock
	logger *zap.Logger

	mu     sync.Mutex
	groups []*group[T, G] // top is last

	pushes         int64
	removals       int64
	replacements   int64
	attachFailures int64
}

// NewStack creates an empty stack on top of target.
// Only WithClock and WithLogger apply; other options are ignored.
func NewStack[T any, G comparable](target Target[T], opts ...Option) *Stack[T, G] {
	cfg := buildConfig(opts)
	return &Stack[T, G]{
		target: target,
		clock:  cfg.clock,
		logger: cfg.logger.Named("stack"),
	}
}

// Bind attaches handler for event on behalf of the group id.
//
// If id owns the top group the handler is added to it, replacing the
// group's previous handler for event. Otherwise the top group is detached
// and id's group becomes the new top; it is created if id is unseen.
//
// On error the stack is left as it was before the call.
func (s *Stack[T, G]) Bind(event Key, handler Handler[T], id G) error {
	if event == "" {
		return ErrEmptyEvent
	}
	if handler == nil {
		return ErrNilHandler
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.top()
	if prev != nil && prev.id == id {
		return s.bindInGroup(prev, event, handler)
	}

	if prev != nil {
		if err := s.deactivate(prev); err != nil {
			s.logger.Warn("detach failed", zap.Any("group", prev.id), zap.Error(err))
		}
	}

	pos := s.index(id)
	var g *group[T, G]
	if pos < 0 {
		g = newGroup[T](id, s.clock.Now())
		s.groups = append(s.groups, g)
		s.pushes++
		s.logger.Debug("group pushed", zap.Any("group", id), zap.Int("depth", len(s.groups)))
	} else {
		g = s.groups[pos]
		s.groups = append(slices.Delete(s.groups, pos, pos+1), g)
		s.logger.Debug("group raised", zap.Any("group", id), zap.Int("from", pos))
	}

	err := s.activate(g)
	if err == nil {
		err = s.bindInGroup(g, event, handler)
	}
	if err == nil {
		return nil
	}

	// Roll back to the previous top.
	_ = s.deactivate(g)
	s.groups = s.groups[:len(s.groups)-1]
	if pos < 0 {
		s.pushes--
	} else {
		s.groups = slices.Insert(s.groups, pos, g)
	}
	if prev != nil {
		if rerr := s.activate(prev); rerr != nil {
			s.logger.Warn("restore failed", zap.Any("group", prev.id), zap.Error(rerr))
			err = errors.Join(err, rerr)
		}
	}
	return err
}

// bindInGroup attaches handler for event in g, replacing any handler g
// already holds for event.
func (s *Stack[T, G]) bindInGroup(g *group[T, G], event Key, handler Handler[T]) error {
	b := g.lookup(event)
	if b == nil {
		hook, err := s.target.Hook(event, handler)
		if err != nil {
			s.attachFailures++
			return fmt.Errorf("bind %q: %w", event, err)
		}
		g.bindings = append(g.bindings, &binding[T]{
			event:    event,
			handler:  handler,
			hook:     hook,
			attached: true,
		})
		return nil
	}

	if b.attached {
		if err := detach(&b.hook); err != nil {
			return fmt.Errorf("replace %q: %w", event, err)
		}
		b.attached = false
	}

	hook, err := s.target.Hook(event, handler)
	if err != nil {
		s.attachFailures++
		// Put the previous handler back.
		if restored, rerr := s.target.Hook(event, b.handler); rerr == nil {
			b.hook, b.attached = restored, true
		}
		return fmt.Errorf("replace %q: %w", event, err)
	}
	b.handler, b.hook, b.attached = handler, hook, true
	s.replacements++
	s.logger.Debug("handler replaced", zap.Any("group", g.id), zap.String("event", event))
	return nil
}

// UnbindAll removes the group owned by id, wherever it sits in the stack,
// detaching all of its handlers. The group left on top is then reattached.
//
// An unknown id removes nothing and is not an error. Errors come from the
// target while detaching or reattaching.
func (s *Stack[T, G]) UnbindAll(id G) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if pos := s.index(id); pos >= 0 {
		g := s.groups[pos]
		errs = append(errs, s.deactivate(g))
		s.groups = slices.Delete(s.groups, pos, pos+1)
		s.removals++
		s.logger.Debug("group removed", zap.Any("group", id), zap.Int("depth", len(s.groups)))
	}

	if top := s.top(); top != nil {
		if err := s.activate(top); err != nil {
			s.logger.Warn("reattach failed", zap.Any("group", top.id), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Reset detaches and removes every group, returning how many were removed.
func (s *Stack[T, G]) Reset() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.groups)
	for _, g := range s.groups {
		if err := s.deactivate(g); err != nil {
			s.logger.Warn("detach failed", zap.Any("group", g.id), zap.Error(err))
		}
	}
	s.groups = nil
	s.removals += int64(n)
	return n
}

// deactivate detaches every attached binding of g. Bindings are marked
// detached even when the target reports an error.
func (s *Stack[T, G]) deactivate(g *group[T, G]) error {
	var errs []error
	for _, b := range g.bindings {
		if !b.attached {
			continue
		}
		if err := detach(&b.hook); err != nil {
			errs = append(errs, fmt.Errorf("unbind %q: %w", b.event, err))
		}
		b.attached = false
	}
	return errors.Join(errs...)
}

// activate attaches every binding of g that is not attached yet.
func (s *Stack[T, G]) activate(g *group[T, G]) error {
	var errs []error
	for _, b := range g.bindings {
		if b.attached {
			continue
		}
		hook, err := s.target.Hook(b.event, b.handler)
		if err != nil {
			s.attachFailures++
			errs = append(errs, fmt.Errorf("rebind %q: %w", b.event, err))
			continue
		}
		b.hook, b.attached = hook, true
	}
	return errors.Join(errs...)
}

func (s *Stack[T, G]) top() *group[T, G] {
	if len(s.groups) == 0 {
		return nil
	}
	return s.groups[len(s.groups)-1]
}

func (s *Stack[T, G]) index(id G) int {
	return slices.IndexFunc(s.groups, func(g *group[T, G]) bool {
		return g.id == id
	})
}

// Bound reports whether id owns a group on the stack. It does not modify
// the stack.
func (s *Stack[T, G]) Bound(id G) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index(id) >= 0
}

// Active returns the id of the top group.
func (s *Stack[T, G]) Active() (G, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if top := s.top(); top != nil {
		return top.id, true
	}
	var zero G
	return zero, false
}

// Depth returns the number of groups on the stack.
func (s *Stack[T, G]) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.groups)
}

// Groups returns a snapshot of the stack, bottom first.
func (s *Stack[T, G]) Groups() []GroupInfo[G] {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]GroupInfo[G], len(s.groups))
	for i, g := range s.groups {
		infos[i] = GroupInfo[G]{
			ID:      g.id,
			Events:  g.events(),
			Active:  i == len(s.groups)-1,
			BoundAt: g.created,
		}
	}
	return infos
}

// Metrics returns the current stack metrics.
func (s *Stack[T, G]) Metrics() StackMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	attached := 0
	for _, g := range s.groups {
		attached += g.attachedCount()
	}
	return StackMetrics{
		Groups:         len(s.groups),
		Attached:       attached,
		Pushes:         s.pushes,
		Removals:       s.removals,
		Replacements:   s.replacements,
		AttachFailures: s.attachFailures,
	}
}
