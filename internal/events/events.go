// Package events holds small helpers for attaching document listeners and
// combining handlers.
package events

import "github.com/idursun/layerkit/internal/dom"

// On attaches h to target and returns the teardown.
func On(target dom.EventTarget, typ string, h dom.Handler, opts ...dom.ListenerOption) func() {
	return target.AddEventListener(typ, h, opts...)
}

// OnAll attaches h for every type in types and returns a single teardown.
func OnAll(target dom.EventTarget, types []string, h dom.Handler, opts ...dom.ListenerOption) func() {
	teardowns := make([]func(), 0, len(types))
	for _, typ := range types {
		teardowns = append(teardowns, target.AddEventListener(typ, h, opts...))
	}
	return Teardown(teardowns...)
}

// Compose calls handlers in order and stops as soon as one of them prevents
// the default action. Nil handlers are skipped.
func Compose(handlers ...dom.Handler) dom.Handler {
	return func(e *dom.Event) {
		for _, h := range handlers {
			if e.DefaultPrevented() {
				return
			}
			if h != nil {
				h(e)
			}
		}
	}
}

// Chain calls every handler in order regardless of default prevention.
func Chain(handlers ...dom.Handler) dom.Handler {
	return func(e *dom.Event) {
		for _, h := range handlers {
			if h != nil {
				h(e)
			}
		}
	}
}

// Teardown returns a function running every fn once, in reverse order.
func Teardown(fns ...func()) func() {
	done := false
	return func() {
		if done {
			return
		}
		done = true
		for i := len(fns) - 1; i >= 0; i-- {
			if fns[i] != nil {
				fns[i]()
			}
		}
	}
}
