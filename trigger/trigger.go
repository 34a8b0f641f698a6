// Package trigger dispatches synthetic events with browser-like defaults.
package trigger

import (
	"errors"
	"fmt"

	"github.com/stagas/dom-lite/dom"
)

// ErrUnknownEvent is returned for an event name outside the supported table.
var ErrUnknownEvent = errors.New("unknown event type")

var kinds = map[string]dom.EventKind{
	"load":   dom.KindEvent,
	"unload": dom.KindEvent,
	"abort":  dom.KindEvent,
	"error":  dom.KindEvent,
	"select": dom.KindEvent,
	"change": dom.KindEvent,
	"submit": dom.KindEvent,
	"reset":  dom.KindEvent,
	"focus":  dom.KindEvent,
	"blur":   dom.KindEvent,
	"resize": dom.KindEvent,
	"scroll": dom.KindEvent,
	"input":  dom.KindEvent,

	"click":       dom.KindMouseEvent,
	"dblclick":    dom.KindMouseEvent,
	"mousedown":   dom.KindMouseEvent,
	"mouseup":     dom.KindMouseEvent,
	"mouseover":   dom.KindMouseEvent,
	"mousemove":   dom.KindMouseEvent,
	"mouseout":    dom.KindMouseEvent,
	"contextmenu": dom.KindMouseEvent,
}

// Kind reports the event interface used for name.
func Kind(name string) (dom.EventKind, bool) {
	k, ok := kinds[name]
	return k, ok
}

type options struct {
	clientX, clientY float64
	screenX, screenY float64
	screenSet        bool
	button           int
	buttonSet        bool
	detail           int
	detailSet        bool
	ctrl, alt        bool
	shift, meta      bool
	bubbles          bool
	cancelable       bool
	related          *dom.Element
	relatedSet       bool
}

// Option overrides one event property.
type Option func(*options)

// Client sets the viewport coordinates.
func Client(x, y float64) Option {
	return func(o *options) { o.clientX, o.clientY = x, y }
}

// Screen sets the screen coordinates. They default to the client coordinates.
func Screen(x, y float64) Option {
	return func(o *options) {
		o.screenX, o.screenY = x, y
		o.screenSet = true
	}
}

// Button sets the mouse button.
func Button(b int) Option {
	return func(o *options) {
		o.button = b
		o.buttonSet = true
	}
}

// Detail sets the click count.
func Detail(n int) Option {
	return func(o *options) {
		o.detail = n
		o.detailSet = true
	}
}

// Ctrl sets ctrlKey. Modifiers apply to mouse events only.
func Ctrl(on bool) Option { return func(o *options) { o.ctrl = on } }

// Alt sets altKey.
func Alt(on bool) Option { return func(o *options) { o.alt = on } }

// Shift sets shiftKey.
func Shift(on bool) Option { return func(o *options) { o.shift = on } }

// Meta sets metaKey. Like the other modifiers it defaults to false.
func Meta(on bool) Option { return func(o *options) { o.meta = on } }

// Bubbles sets whether the event bubbles. Events bubble by default.
func Bubbles(on bool) Option { return func(o *options) { o.bubbles = on } }

// Cancelable sets whether the event can be canceled. Default true.
func Cancelable(on bool) Option { return func(o *options) { o.cancelable = on } }

// RelatedTarget sets the mouse event's related target. It defaults to the
// element the event is fired on.
func RelatedTarget(el *dom.Element) Option {
	return func(o *options) {
		o.related = el
		o.relatedSet = true
	}
}

// New builds the event Fire would dispatch.
func New(el *dom.Element, name string, opts ...Option) (*dom.Event, error) {
	kind, ok := kinds[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
	o := options{bubbles: true, cancelable: true}
	for _, opt := range opts {
		opt(&o)
	}
	if kind == dom.KindEvent {
		return dom.NewEvent(name, o.bubbles, o.cancelable), nil
	}

	if !o.screenSet {
		o.screenX, o.screenY = o.clientX, o.clientY
	}
	if !o.detailSet {
		o.detail = 1
		if name == "dblclick" {
			o.detail = 2
		}
	}
	if !o.buttonSet && name == "contextmenu" {
		o.button = 2
	}
	if !o.relatedSet {
		o.related = el
	}
	return dom.NewMouseEvent(name, o.bubbles, o.cancelable, o.detail, dom.MouseData{
		ScreenX:       o.screenX,
		ScreenY:       o.screenY,
		ClientX:       o.clientX,
		ClientY:       o.clientY,
		Button:        o.button,
		CtrlKey:       o.ctrl,
		AltKey:        o.alt,
		ShiftKey:      o.shift,
		MetaKey:       o.meta,
		RelatedTarget: o.related,
	}), nil
}

// Fire dispatches the event name on el. It returns false if a listener
// canceled it.
func Fire(el *dom.Element, name string, opts ...Option) (bool, error) {
	if el == nil {
		return false, errors.New("trigger: nil element")
	}
	ev, err := New(el, name, opts...)
	if err != nil {
		return false, err
	}
	return el.DispatchEvent(ev), nil
}
