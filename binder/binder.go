// Package binder binds event handlers to elements directly, by delegation
// to descendants matching a selector, or for a single invocation.
//
// Delegated and one-shot bindings register a listener of their own with the
// host. The Binder keeps a registry from (element, event, handler, capture)
// to those listeners so that unbinding with the caller's handler removes
// them.
package binder

import (
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/stagas/dom-lite/dom"
)

var (
	// ErrNilElement is returned when binding to a nil element.
	ErrNilElement = errors.New("binder: nil element")
	// ErrNilHandler is returned when binding a nil handler.
	ErrNilHandler = errors.New("binder: nil handler")
)

// matchFunc reports whether el matches selector.
type matchFunc func(el *dom.Element, selector string) (bool, error)

// nativeMatch uses the host's Element.Matches.
func nativeMatch(el *dom.Element, selector string) (bool, error) {
	return el.Matches(selector)
}

// scanMatch runs the selector against the candidate's parent and looks for
// the candidate among the results, for hosts without Element.Matches.
func scanMatch(el *dom.Element, selector string) (bool, error) {
	var list *dom.NodeList
	var err error
	switch {
	case el.ParentElement() != nil:
		list, err = el.ParentElement().QuerySelectorAll(selector)
	case el.ParentNode() != nil:
		list, err = el.OwnerDocument().QuerySelectorAll(selector)
	default:
		return false, nil
	}
	if err != nil {
		return false, err
	}
	for i := 0; i < list.Length(); i++ {
		if list.Item(i) == el {
			return true, nil
		}
	}
	return false, nil
}

type key struct {
	el      *dom.Element
	event   string
	handler *dom.Listener
	capture bool
}

// Binder binds handlers with the strategies chosen for one host.
type Binder struct {
	match         matchFunc
	nativeCapture bool
	logger        logrus.FieldLogger

	mu       sync.Mutex
	registry map[key][]*dom.Listener
}

// Option configures a Binder.
type Option func(*Binder)

// WithLogger sets the logger for debug output.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(b *Binder) {
		b.logger = logger
	}
}

// New creates a Binder for a host with the given features. Without
// selector matching, delegation scans the candidate's parent. Without
// capture support, capture flags are ignored and every listener runs at
// target or while bubbling.
func New(features dom.Features, opts ...Option) *Binder {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	b := &Binder{
		match:         nativeMatch,
		nativeCapture: features.Capture,
		logger:        discard,
		registry:      make(map[key][]*dom.Listener),
	}
	if !features.MatchesSelector {
		b.match = scanMatch
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger.WithFields(logrus.Fields{
		"nativeMatch":   features.MatchesSelector,
		"nativeCapture": features.Capture,
	}).Debug("binder ready")
	return b
}

type bindConfig struct {
	selector string
	capture  bool
}

// BindOption configures a single Bind, Unbind or Once call.
type BindOption func(*bindConfig)

// Selector delegates the binding to descendants matching sel.
func Selector(sel string) BindOption {
	return func(c *bindConfig) {
		c.selector = sel
	}
}

// Capture registers the listener for the capture phase.
func Capture(capture bool) BindOption {
	return func(c *bindConfig) {
		c.capture = capture
	}
}

func (b *Binder) resolve(el *dom.Element, h *dom.Listener, opts []BindOption) (bindConfig, error) {
	var cfg bindConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if el == nil {
		return cfg, ErrNilElement
	}
	if h == nil {
		return cfg, ErrNilHandler
	}
	if cfg.selector != "" {
		if err := dom.ValidateSelector(cfg.selector); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// hostCapture is the capture flag actually passed to the host.
func (b *Binder) hostCapture(capture bool) bool {
	return capture && b.nativeCapture
}

// delegate wraps h so it runs only for targets matching selector.
func (b *Binder) delegate(selector string, h *dom.Listener) *dom.Listener {
	return dom.NewListener(func(e *dom.Event) {
		target := e.Target()
		if target == nil {
			return
		}
		ok, err := b.match(target, selector)
		if err != nil {
			b.logger.WithError(err).WithField("selector", selector).Debug("delegate match failed")
			return
		}
		if ok {
			h.HandleEvent(e)
		}
	})
}

func (b *Binder) record(k key, l *dom.Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.registry[k] = append(b.registry[k], l)
}

// take removes and returns the listeners recorded for k.
func (b *Binder) take(k key) []*dom.Listener {
	b.mu.Lock()
	defer b.mu.Unlock()
	ls := b.registry[k]
	delete(b.registry, k)
	return ls
}

// release removes one recorded listener for k. It reports false if l was
// already gone.
func (b *Binder) release(k key, l *dom.Listener) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	ls := b.registry[k]
	for i, x := range ls {
		if x == l {
			ls = append(ls[:i:i], ls[i+1:]...)
			if len(ls) == 0 {
				delete(b.registry, k)
			} else {
				b.registry[k] = ls
			}
			return true
		}
	}
	return false
}

// Bind registers h for event on el. With Selector, h runs only when the
// event's target matches the selector.
func (b *Binder) Bind(el *dom.Element, event string, h *dom.Listener, opts ...BindOption) error {
	cfg, err := b.resolve(el, h, opts)
	if err != nil {
		return err
	}
	log := b.logger.WithFields(logrus.Fields{"event": event, "selector": cfg.selector, "capture": cfg.capture})

	if cfg.selector == "" {
		el.AddEventListener(event, h, b.hostCapture(cfg.capture))
		log.Debug("bind")
		return nil
	}
	l := b.delegate(cfg.selector, h)
	el.AddEventListener(event, l, b.hostCapture(cfg.capture))
	b.record(key{el, event, h, cfg.capture}, l)
	log.Debug("bind delegate")
	return nil
}

// Unbind removes the listeners Bind and Once registered for h. Unbinding a
// handler that is not bound is a no-op.
func (b *Binder) Unbind(el *dom.Element, event string, h *dom.Listener, opts ...BindOption) error {
	cfg, err := b.resolve(el, h, opts)
	if err != nil {
		return err
	}
	capture := b.hostCapture(cfg.capture)
	recorded := b.take(key{el, event, h, cfg.capture})
	for _, l := range recorded {
		el.RemoveEventListener(event, l, capture)
	}
	if len(recorded) == 0 {
		el.RemoveEventListener(event, h, capture)
	}
	b.logger.WithFields(logrus.Fields{"event": event, "capture": cfg.capture, "recorded": len(recorded)}).Debug("unbind")
	return nil
}

// Once registers h to run at most once. The binding removes itself before
// h runs; unbinding h first cancels it.
func (b *Binder) Once(el *dom.Element, event string, h *dom.Listener, opts ...BindOption) error {
	cfg, err := b.resolve(el, h, opts)
	if err != nil {
		return err
	}
	k := key{el, event, h, cfg.capture}
	capture := b.hostCapture(cfg.capture)

	var l *dom.Listener
	wrapper := dom.NewListener(func(e *dom.Event) {
		if !b.release(k, l) {
			return
		}
		el.RemoveEventListener(event, l, capture)
		b.logger.WithField("event", event).Debug("once fired")
		h.HandleEvent(e)
	})
	l = wrapper
	if cfg.selector != "" {
		l = b.delegate(cfg.selector, wrapper)
	}
	el.AddEventListener(event, l, capture)
	b.record(k, l)
	b.logger.WithFields(logrus.Fields{"event": event, "selector": cfg.selector, "capture": cfg.capture}).Debug("once")
	return nil
}

// Len returns the number of listeners held in the registry.
func (b *Binder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, ls := range b.registry {
		n += len(ls)
	}
	return n
}
