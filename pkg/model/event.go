package model

// Handler wraps an event callback so it can be identified by pointer.
// Adding the same *Handler twice registers it once.
type Handler[S any, O any] struct {
	fn func(sender S, options O)
}

// NewHandler creates a handler for fn.
func NewHandler[S any, O any](fn func(sender S, options O)) *Handler[S, O] {
	return &Handler[S, O]{fn: fn}
}

// Event is an ordered list of handlers invoked synchronously on Fire.
type Event[S any, O any] struct {
	// OnCallbacksChanged is called after Add or Remove changes the list.
	// Clear does not call it.
	OnCallbacksChanged func()

	callbacks []*Handler[S, O]
}

// NewEvent creates an empty event.
func NewEvent[S any, O any]() *Event[S, O] {
	return &Event[S, O]{}
}

// IsEmpty reports whether no handlers are registered.
func (e *Event[S, O]) IsEmpty() bool {
	return e.Len() == 0
}

// Len returns the number of registered handlers.
func (e *Event[S, O]) Len() int {
	return len(e.callbacks)
}

// Fire invokes every handler in registration order. If a handler clears
// the event, iteration stops.
func (e *Event[S, O]) Fire(sender S, options O) {
	if e.callbacks == nil {
		return
	}
	for i := 0; i < len(e.callbacks); i++ {
		e.callbacks[i].fn(sender, options)
		if e.callbacks == nil {
			return
		}
	}
}

// FireByCreatingOptions is like Fire but builds fresh options for each
// handler, so one handler cannot observe another's mutations.
func (e *Event[S, O]) FireByCreatingOptions(sender S, createOptions func() O) {
	if e.callbacks == nil {
		return
	}
	for i := 0; i < len(e.callbacks); i++ {
		e.callbacks[i].fn(sender, createOptions())
		if e.callbacks == nil {
			return
		}
	}
}

// Clear drops all handlers without calling OnCallbacksChanged.
func (e *Event[S, O]) Clear() {
	e.callbacks = nil
}

// Add registers h. Adding a handler that is already registered is a no-op.
func (e *Event[S, O]) Add(h *Handler[S, O]) {
	if h == nil || e.HasFunc(h) {
		return
	}
	e.callbacks = append(e.callbacks, h)
	e.fireCallbackChanged()
}

// AddFunc wraps fn in a new handler, registers it and returns it so it can
// be removed later.
func (e *Event[S, O]) AddFunc(fn func(sender S, options O)) *Handler[S, O] {
	h := NewHandler(fn)
	e.Add(h)
	return h
}

// Remove unregisters h. Removing an unknown handler is a no-op.
func (e *Event[S, O]) Remove(h *Handler[S, O]) {
	for i, existing := range e.callbacks {
		if existing == h {
			e.callbacks = append(e.callbacks[:i], e.callbacks[i+1:]...)
			e.fireCallbackChanged()
			return
		}
	}
}

// HasFunc reports whether h is registered.
func (e *Event[S, O]) HasFunc(h *Handler[S, O]) bool {
	for _, existing := range e.callbacks {
		if existing == h {
			return true
		}
	}
	return false
}

func (e *Event[S, O]) fireCallbackChanged() {
	if e.OnCallbacksChanged != nil {
		e.OnCallbacksChanged()
	}
}

// clearer is the type-erased view of an Event used by Base to clear all of
// its events on disposal.
type clearer interface {
	Clear()
}
