// Package lite is a small function surface over a dom.Document: element
// creation and lookup, tree mutation, inline and computed style, class
// lists, event binding and synthetic events.
//
// Every operation taking an element accepts any element-like value and
// normalizes it with Raw first. Strategies that depend on host features
// are chosen once, in New.
package lite

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/stagas/dom-lite/binder"
	"github.com/stagas/dom-lite/classes"
	"github.com/stagas/dom-lite/css"
	"github.com/stagas/dom-lite/dom"
	"github.com/stagas/dom-lite/style"
	"github.com/stagas/dom-lite/trigger"
)

// DOM is the facade bound to one document.
type DOM struct {
	doc      *dom.Document
	logger   logrus.FieldLogger
	resolver *css.Resolver
	binder   *binder.Binder
	classes  classes.Strategy
}

// Option configures a DOM.
type Option func(*DOM)

// WithLogger sets the logger shared by the facade and its binder.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(d *DOM) {
		d.logger = logger
	}
}

// WithResolver sets the resolver used by Style and Rect.
func WithResolver(r *css.Resolver) Option {
	return func(d *DOM) {
		d.resolver = r
	}
}

// New creates a facade for doc.
func New(doc *dom.Document, opts ...Option) *DOM {
	d := &DOM{doc: doc}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		d.logger = l
	}
	if d.resolver == nil {
		d.resolver = css.NewResolver(css.WithLogger(d.logger))
	}
	features := doc.Features()
	d.classes = classes.Detect(features)
	d.binder = binder.New(features, binder.WithLogger(d.logger))
	d.logger.WithField("classes", d.classes).Debug("dom ready")
	return d
}

// Document returns the underlying document.
func (d *DOM) Document() *dom.Document { return d.doc }

// Binder returns the binder behind On, Off and Once.
func (d *DOM) Binder() *binder.Binder { return d.binder }

// Create makes an element from a tag name, or from markup when tagOrHTML
// starts with '<'. For markup the first top-level element is returned.
func (d *DOM) Create(tagOrHTML string) (*dom.Element, error) {
	if !strings.HasPrefix(tagOrHTML, "<") {
		return d.doc.CreateElement(tagOrHTML)
	}
	els, err := d.doc.ParseFragment(tagOrHTML)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: no element in %q", ErrNotElement, tagOrHTML)
	}
	return els[0], nil
}

// Get returns the element with the given id, or nil.
func (d *DOM) Get(id string) *dom.Element {
	return d.doc.GetElementById(id)
}

// Find returns the first element in the body matching sel, or nil.
func (d *DOM) Find(sel string) (*dom.Element, error) {
	return d.FindIn(d.doc.Body(), sel)
}

// FindIn returns the first descendant of scope matching sel, or nil.
func (d *DOM) FindIn(scope any, sel string) (*dom.Element, error) {
	el, err := d.Raw(scope)
	if err != nil {
		return nil, err
	}
	return el.QuerySelector(sel)
}

// FindAll returns the elements in the body matching sel.
func (d *DOM) FindAll(sel string) (*dom.NodeList, error) {
	return d.FindAllIn(d.doc.Body(), sel)
}

// FindAllIn returns the descendants of scope matching sel.
func (d *DOM) FindAllIn(scope any, sel string) (*dom.NodeList, error) {
	el, err := d.Raw(scope)
	if err != nil {
		return nil, err
	}
	return el.QuerySelectorAll(sel)
}

// raw2 normalizes a target and an element.
func (d *DOM) raw2(target, v any) (*dom.Element, *dom.Element, error) {
	t, err := d.Raw(target)
	if err != nil {
		return nil, nil, err
	}
	el, err := d.Raw(v)
	if err != nil {
		return nil, nil, err
	}
	return t, el, nil
}

// Append appends el to the body.
func (d *DOM) Append(el any) (*dom.Element, error) {
	return d.AppendTo(d.doc.Body(), el)
}

// AppendTo appends el to target and returns el.
func (d *DOM) AppendTo(target, el any) (*dom.Element, error) {
	t, e, err := d.raw2(target, el)
	if err != nil {
		return nil, err
	}
	return t.AppendChild(e)
}

// Prepend inserts el as the body's first child.
func (d *DOM) Prepend(el any) (*dom.Element, error) {
	return d.PrependTo(d.doc.Body(), el)
}

// PrependTo inserts el as target's first child and returns el.
func (d *DOM) PrependTo(target, el any) (*dom.Element, error) {
	t, e, err := d.raw2(target, el)
	if err != nil {
		return nil, err
	}
	return t.PrependChild(e)
}

// InsertBefore inserts el immediately before ref in ref's parent.
func (d *DOM) InsertBefore(ref, el any) error {
	r, e, err := d.raw2(ref, el)
	if err != nil {
		return err
	}
	parent := r.ParentElement()
	if parent == nil {
		if r.ParentNode() == nil {
			return dom.ErrNotFound("The reference element has no parent.")
		}
		return dom.ErrHierarchyRequest("Only one element on document allowed.")
	}
	_, err = parent.InsertBefore(e, r)
	return err
}

// Remove detaches el from its parent and returns it. An element without
// a parent is a NotFoundError.
func (d *DOM) Remove(el any) (*dom.Element, error) {
	e, err := d.Raw(el)
	if err != nil {
		return nil, err
	}
	if e.ParentNode() == nil {
		return nil, dom.ErrNotFound("The element to be removed has no parent.")
	}
	e.Remove()
	return e, nil
}

// Replace puts el where target is and removes target. It returns el.
func (d *DOM) Replace(target, el any) (*dom.Element, error) {
	t, e, err := d.raw2(target, el)
	if err != nil {
		return nil, err
	}
	if err := d.InsertBefore(t, e); err != nil {
		return nil, err
	}
	if _, err := d.Remove(t); err != nil {
		return nil, err
	}
	return e, nil
}

// CSS assigns styles to el's inline style.
func (d *DOM) CSS(el any, styles style.Map) (*dom.Element, error) {
	e, err := d.Raw(el)
	if err != nil {
		return nil, err
	}
	return style.Set(e, styles), nil
}

// SetCSS assigns a single inline style property.
func (d *DOM) SetCSS(el any, prop string, value any) (*dom.Element, error) {
	return d.CSS(el, style.Map{prop: value})
}

// GetCSS reads an inline style property. prop may be camelCase or
// kebab-case.
func (d *DOM) GetCSS(el any, prop string) (string, error) {
	e, err := d.Raw(el)
	if err != nil {
		return "", err
	}
	return e.Style().GetPropertyValue(prop), nil
}

// Style computes el's style.
func (d *DOM) Style(el any) (*css.ComputedStyle, error) {
	e, err := d.Raw(el)
	if err != nil {
		return nil, err
	}
	return d.resolver.Compute(e), nil
}

// Rect returns el's bounding box.
func (d *DOM) Rect(el any) (*dom.DOMRect, error) {
	e, err := d.Raw(el)
	if err != nil {
		return nil, err
	}
	return d.resolver.Rect(e), nil
}

// Box is Rect.
func (d *DOM) Box(el any) (*dom.DOMRect, error) {
	return d.Rect(el)
}

// Classes returns el's class list.
func (d *DOM) Classes(el any) (*classes.List, error) {
	e, err := d.Raw(el)
	if err != nil {
		return nil, err
	}
	return d.classes.For(e), nil
}

// HTML serializes el, including its own tag.
func (d *DOM) HTML(el any) (string, error) {
	e, err := d.Raw(el)
	if err != nil {
		return "", err
	}
	return e.OuterHTML(), nil
}

// SetHTML replaces el's children with the parsed markup.
func (d *DOM) SetHTML(el any, markup string) (*dom.Element, error) {
	e, err := d.Raw(el)
	if err != nil {
		return nil, err
	}
	if err := e.SetInnerHTML(markup); err != nil {
		return nil, err
	}
	return e, nil
}

// Hide sets display to none.
func (d *DOM) Hide(el any) (*dom.Element, error) {
	return d.SetCSS(el, "display", "none")
}

// Show sets display to block.
func (d *DOM) Show(el any) (*dom.Element, error) {
	return d.SetCSS(el, "display", "block")
}

// On binds h to event on el. See binder.Binder.Bind.
func (d *DOM) On(el any, event string, h *dom.Listener, opts ...binder.BindOption) (*dom.Element, error) {
	e, err := d.Raw(el)
	if err != nil {
		return nil, err
	}
	if err := d.binder.Bind(e, event, h, opts...); err != nil {
		return nil, err
	}
	return e, nil
}

// Bind is On.
func (d *DOM) Bind(el any, event string, h *dom.Listener, opts ...binder.BindOption) (*dom.Element, error) {
	return d.On(el, event, h, opts...)
}

// Off removes h from event on el.
func (d *DOM) Off(el any, event string, h *dom.Listener, opts ...binder.BindOption) (*dom.Element, error) {
	e, err := d.Raw(el)
	if err != nil {
		return nil, err
	}
	if err := d.binder.Unbind(e, event, h, opts...); err != nil {
		return nil, err
	}
	return e, nil
}

// Unbind is Off.
func (d *DOM) Unbind(el any, event string, h *dom.Listener, opts ...binder.BindOption) (*dom.Element, error) {
	return d.Off(el, event, h, opts...)
}

// Once binds h to run at most once.
func (d *DOM) Once(el any, event string, h *dom.Listener, opts ...binder.BindOption) (*dom.Element, error) {
	e, err := d.Raw(el)
	if err != nil {
		return nil, err
	}
	if err := d.binder.Once(e, event, h, opts...); err != nil {
		return nil, err
	}
	return e, nil
}

// Trigger dispatches a synthetic event on el.
func (d *DOM) Trigger(el any, name string, opts ...trigger.Option) (*dom.Element, error) {
	e, err := d.Raw(el)
	if err != nil {
		return nil, err
	}
	ok, err := trigger.Fire(e, name, opts...)
	if err != nil {
		return nil, err
	}
	d.logger.WithFields(logrus.Fields{"event": name, "tag": e.LocalName(), "notCanceled": ok}).Debug("trigger")
	return e, nil
}

// Closest returns the nearest inclusive ancestor of el matching sel, or nil.
func (d *DOM) Closest(el any, sel string) (*dom.Element, error) {
	e, err := d.Raw(el)
	if err != nil {
		return nil, err
	}
	return e.Closest(sel)
}
