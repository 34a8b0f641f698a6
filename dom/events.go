package dom

import (
	"sync"

	"golang.org/x/net/html"
)

// EventPhase represents the phase of event dispatch.
type EventPhase int

const (
	PhaseNone      EventPhase = 0
	PhaseCapturing EventPhase = 1
	PhaseAtTarget  EventPhase = 2
	PhaseBubbling  EventPhase = 3
)

// EventKind is the interface an event object was created with.
type EventKind int

const (
	// KindEvent is a plain Event (HTMLEvents).
	KindEvent EventKind = iota
	// KindMouseEvent is a MouseEvent (MouseEvents).
	KindMouseEvent
)

func (k EventKind) String() string {
	switch k {
	case KindMouseEvent:
		return "MouseEvent"
	default:
		return "Event"
	}
}

// MouseData holds the MouseEvent-specific fields.
type MouseData struct {
	ScreenX, ScreenY float64
	ClientX, ClientY float64
	Button           int
	CtrlKey          bool
	AltKey           bool
	ShiftKey         bool
	MetaKey          bool
	RelatedTarget    *Element
}

// Event represents a DOM event. The exported fields are the init
// dictionary; dispatch state is read through methods.
type Event struct {
	Type       string
	Kind       EventKind
	Bubbles    bool
	Cancelable bool
	// Detail is the UIEvent detail, the click count for mouse events.
	Detail int
	// Mouse is non-nil for KindMouseEvent.
	Mouse *MouseData

	target           *Element
	currentTarget    EventTarget
	phase            EventPhase
	defaultPrevented bool
	stopPropagation  bool
	stopImmediate    bool
}

// NewEvent creates a plain event.
func NewEvent(eventType string, bubbles, cancelable bool) *Event {
	return &Event{Type: eventType, Kind: KindEvent, Bubbles: bubbles, Cancelable: cancelable}
}

// NewMouseEvent creates a mouse event.
func NewMouseEvent(eventType string, bubbles, cancelable bool, detail int, m MouseData) *Event {
	return &Event{
		Type:       eventType,
		Kind:       KindMouseEvent,
		Bubbles:    bubbles,
		Cancelable: cancelable,
		Detail:     detail,
		Mouse:      &m,
	}
}

// Target returns the element the event was dispatched to.
func (e *Event) Target() *Element { return e.target }

// CurrentTarget returns the target whose listeners are running.
func (e *Event) CurrentTarget() EventTarget { return e.currentTarget }

// Phase returns the current dispatch phase.
func (e *Event) Phase() EventPhase { return e.phase }

// DefaultPrevented reports whether PreventDefault was called on a cancelable event.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// PreventDefault cancels the event if it is cancelable.
func (e *Event) PreventDefault() {
	if e.Cancelable {
		e.defaultPrevented = true
	}
}

// StopPropagation prevents further propagation after the current target.
func (e *Event) StopPropagation() { e.stopPropagation = true }

// StopImmediatePropagation also skips the remaining listeners of the current target.
func (e *Event) StopImmediatePropagation() {
	e.stopPropagation = true
	e.stopImmediate = true
}

// Listener is a registered event callback. Its pointer is its identity:
// the same *Listener must be passed to remove it.
type Listener struct {
	fn func(*Event)
}

// NewListener wraps fn in a Listener.
func NewListener(fn func(*Event)) *Listener {
	return &Listener{fn: fn}
}

// HandleEvent invokes the callback.
func (l *Listener) HandleEvent(e *Event) {
	if l != nil && l.fn != nil {
		l.fn(e)
	}
}

// EventTarget is implemented by Element and Document.
type EventTarget interface {
	AddEventListener(eventType string, l *Listener, capture bool)
	RemoveEventListener(eventType string, l *Listener, capture bool)
	DispatchEvent(e *Event) bool
}

// registration is one entry of a target's listener list.
type registration struct {
	listener *Listener
	capture  bool
	removed  bool
}

// eventTarget manages event listeners for a target.
type eventTarget struct {
	listeners map[string][]*registration
	mu        sync.Mutex
}

// add registers a listener. Registering the same listener twice with the
// same capture flag is a no-op.
func (et *eventTarget) add(eventType string, l *Listener, capture bool) {
	if l == nil {
		return
	}
	et.mu.Lock()
	defer et.mu.Unlock()

	for _, r := range et.listeners[eventType] {
		if r.listener == l && r.capture == capture {
			return
		}
	}
	if et.listeners == nil {
		et.listeners = make(map[string][]*registration)
	}
	et.listeners[eventType] = append(et.listeners[eventType], &registration{listener: l, capture: capture})
}

// remove unregisters a listener; unknown listeners are ignored.
func (et *eventTarget) remove(eventType string, l *Listener, capture bool) {
	et.mu.Lock()
	defer et.mu.Unlock()

	list := et.listeners[eventType]
	for i, r := range list {
		if r.listener == l && r.capture == capture {
			// Flag it so an in-flight dispatch holding a snapshot skips it.
			r.removed = true
			et.listeners[eventType] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// count returns the number of listeners registered for eventType.
func (et *eventTarget) count(eventType string) int {
	et.mu.Lock()
	defer et.mu.Unlock()
	return len(et.listeners[eventType])
}

// invoke runs the listeners that apply to phase, in registration order.
func (et *eventTarget) invoke(e *Event, phase EventPhase) {
	et.mu.Lock()
	snapshot := make([]*registration, len(et.listeners[e.Type]))
	copy(snapshot, et.listeners[e.Type])
	et.mu.Unlock()

	for _, r := range snapshot {
		if r.removed {
			continue
		}
		if phase == PhaseCapturing && !r.capture {
			continue
		}
		if phase == PhaseBubbling && r.capture {
			continue
		}
		r.listener.HandleEvent(e)
		if e.stopImmediate {
			return
		}
	}
}

// ListenerCount returns the number of listeners registered on e for eventType.
func (e *Element) ListenerCount(eventType string) int {
	return e.state.events.count(eventType)
}

// dispatch runs the capture, target and bubble phases for ev on target.
func dispatch(target *Element, ev *Event) bool {
	ev.target = target
	ev.stopPropagation = false
	ev.stopImmediate = false

	// Propagation path from the parent up to the document, fixed before
	// any listener runs.
	var path []EventTarget
	var pathEvents []*eventTarget
	for n := target.node.Parent; n != nil; n = n.Parent {
		switch {
		case n.Type == html.ElementNode:
			el := target.doc.Wrap(n)
			path = append(path, el)
			pathEvents = append(pathEvents, &el.state.events)
		case n == target.doc.root:
			path = append(path, target.doc)
			pathEvents = append(pathEvents, &target.doc.events)
		}
	}

	for i := len(path) - 1; i >= 0 && !ev.stopPropagation; i-- {
		ev.currentTarget = path[i]
		ev.phase = PhaseCapturing
		pathEvents[i].invoke(ev, PhaseCapturing)
	}

	if !ev.stopPropagation {
		ev.currentTarget = target
		ev.phase = PhaseAtTarget
		target.state.events.invoke(ev, PhaseAtTarget)
	}

	if ev.Bubbles {
		for i := 0; i < len(path) && !ev.stopPropagation; i++ {
			ev.currentTarget = path[i]
			ev.phase = PhaseBubbling
			pathEvents[i].invoke(ev, PhaseBubbling)
		}
	}

	ev.phase = PhaseNone
	ev.currentTarget = nil
	return !(ev.Cancelable && ev.defaultPrevented)
}
