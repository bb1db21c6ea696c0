package dom

const (
	EventPointerDown = "pointerdown"
	EventPointerUp   = "pointerup"
	EventTouchStart  = "touchstart"
	EventTouchEnd    = "touchend"
	EventClick       = "click"
	EventKeyDown     = "keydown"
	EventFocusIn     = "focusin"
	EventFocusOut    = "focusout"
)

const KeyEscape = "Escape"

type PointerType string

const (
	PointerMouse PointerType = "mouse"
	PointerTouch PointerType = "touch"
	PointerPen   PointerType = "pen"
)

// Mouse buttons as reported by pointer events.
const (
	ButtonPrimary   = 0
	ButtonAuxiliary = 1
	ButtonSecondary = 2
)

type Phase int

const (
	PhaseNone Phase = iota
	PhaseCapturing
	PhaseAtTarget
	PhaseBubbling
)

// Event is a single dispatch through the document. The same value is seen
// by every listener along the propagation path.
type Event struct {
	Type          string
	Target        *Node
	RelatedTarget *Node
	X, Y          int
	Button        int
	PointerType   PointerType
	Key           string
	Cancelable    bool

	seq              uint64
	currentTarget    EventTarget
	phase            Phase
	defaultPrevented bool
	inPassive        bool
	stopped          bool
	stoppedNow       bool
}

func NewPointerEvent(typ string, target *Node, x, y, button int, pointer PointerType) *Event {
	return &Event{
		Type:        typ,
		Target:      target,
		X:           x,
		Y:           y,
		Button:      button,
		PointerType: pointer,
		Cancelable:  true,
	}
}

// NewTouchEvent builds a touch event. Touch events carry no button.
func NewTouchEvent(typ string, target *Node, x, y int) *Event {
	return NewPointerEvent(typ, target, x, y, -1, PointerTouch)
}

func NewKeyboardEvent(target *Node, key string) *Event {
	return &Event{
		Type:       EventKeyDown,
		Target:     target,
		Key:        key,
		Cancelable: true,
	}
}

func NewFocusEvent(typ string, target, related *Node) *Event {
	return &Event{
		Type:          typ,
		Target:        target,
		RelatedTarget: related,
	}
}

// Seq identifies the dispatch this event belongs to. It is zero until the
// event has been dispatched.
func (e *Event) Seq() uint64 {
	return e.seq
}

func (e *Event) CurrentTarget() EventTarget {
	return e.currentTarget
}

func (e *Event) Phase() Phase {
	return e.phase
}

// PreventDefault has no effect on non-cancelable events or when called from
// a passive listener.
func (e *Event) PreventDefault() {
	if e.Cancelable && !e.inPassive {
		e.defaultPrevented = true
	}
}

func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

func (e *Event) StopPropagation() {
	e.stopped = true
}

func (e *Event) StopImmediatePropagation() {
	e.stopped = true
	e.stoppedNow = true
}

// IsPointerStart reports whether the event begins a pointer gesture.
func (e *Event) IsPointerStart() bool {
	return e.Type == EventPointerDown || e.Type == EventTouchStart
}
