package bindz

// Scope is an owner's handle on a Stack, fixed to one group id.
//
// Example:
//
//	func (d *Dialog) Open() error {
//	    d.scope = d.stack.Scope(d.name)
//	    return d.scope.Bind("keydown", d.onKey)
//	}
//
//	func (d *Dialog) Close() error {
//	    return d.scope.Release()
//	}
type Scope[T any, G comparable] struct {
	stack *Stack[T, G]
	id    G
}

// Scope returns a handle that binds on behalf of id.
func (s *Stack[T, G]) Scope(id G) *Scope[T, G] {
	return &Scope[T, G]{stack: s, id: id}
}

// ID returns the group id of the scope.
func (sc *Scope[T, G]) ID() G {
	return sc.id
}

// Bind attaches handler for event in the scope's group.
func (sc *Scope[T, G]) Bind(event Key, handler Handler[T]) error {
	return sc.stack.Bind(event, handler, sc.id)
}

// Release removes the scope's group. Releasing twice is a no-op.
func (sc *Scope[T, G]) Release() error {
	return sc.stack.UnbindAll(sc.id)
}

// Bound reports whether the scope's group is on the stack.
func (sc *Scope[T, G]) Bound() bool {
	return sc.stack.Bound(sc.id)
}
