package bindz

import "errors"

// Hook is a handle to a handler attached to a target.
//
// Hook handles are the detach half of the Target contract: Stack keeps the
// handle of every binding it attaches and unhooks it when the binding is
// deactivated, replaced or removed.
//
// Example:
//
//	hook, err := target.Hook("keydown", onKey)
//	if err != nil {
//	    return err
//	}
//	defer hook.Unhook()
type Hook struct {
	// unhook performs the removal; cleared after the first call.
	unhook func() error
}

// Unhook removes this hook from its event.
//
// Returns:
//   - nil: Hook successfully removed
//   - ErrAlreadyUnhooked: Hook was already unhooked or is the zero value
//   - ErrHookNotFound: Hook was removed behind the handle's back
func (h *Hook) Unhook() error {
	if h.unhook == nil {
		return ErrAlreadyUnhooked
	}
	err := h.unhook()
	h.unhook = nil
	return err
}

// Active reports whether the handle can still be unhooked.
func (h *Hook) Active() bool {
	return h.unhook != nil
}

// detach unhooks and treats a handle that is already gone as detached.
func detach(h *Hook) error {
	err := h.Unhook()
	if errors.Is(err, ErrAlreadyUnhooked) || errors.Is(err, ErrHookNotFound) {
		return nil
	}
	return err
}
