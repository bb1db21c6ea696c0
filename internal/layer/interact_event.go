package layer

import "github.com/idursun/layerkit/internal/dom"

// InteractEvent is the snapshot handed to outside-interaction callbacks.
//
// When the live event had not been prevented yet, PreventDefault also
// prevents it. When a nested handler had already prevented it, the snapshot
// is detached: it starts unprevented and only records the callback's own
// decision.
type InteractEvent struct {
	Type          string
	Target        *dom.Node
	CurrentTarget dom.EventTarget
	X, Y          int
	Button        int
	PointerType   dom.PointerType
	Gesture       GestureID

	live      *dom.Event
	prevented bool
}

func NewInteractEvent(e *dom.Event, gesture GestureID) *InteractEvent {
	ie := &InteractEvent{
		Type:          e.Type,
		Target:        e.Target,
		CurrentTarget: e.CurrentTarget(),
		X:             e.X,
		Y:             e.Y,
		Button:        e.Button,
		PointerType:   e.PointerType,
		Gesture:       gesture,
	}
	if !e.DefaultPrevented() {
		ie.live = e
	}
	return ie
}

func (e *InteractEvent) PreventDefault() {
	e.prevented = true
	if e.live != nil {
		e.live.PreventDefault()
	}
}

func (e *InteractEvent) DefaultPrevented() bool {
	return e.prevented
}

// Detached reports whether the snapshot was cut loose from an already
// prevented live event.
func (e *InteractEvent) Detached() bool {
	return e.live == nil
}
