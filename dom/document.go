// Package dom is an in-process HTML document built on x/net/html nodes.
// It provides the host operations the lite facade is written against:
// element identity, attributes, class and style access, selector queries,
// and event dispatch with capture, target and bubble phases.
package dom

import (
	"runtime"
	"strings"
	"sync"
	"weak"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Features advertises which optional host capabilities a Document provides.
// Code layered on top of the document inspects them once and picks a native
// or fallback strategy.
type Features struct {
	// ClassList enables Element.ClassList.
	ClassList bool
	// Capture enables capture-phase listeners. Hosts without it only
	// ever run listeners at target and while bubbling.
	Capture bool
	// MatchesSelector advertises a usable Element.Matches.
	MatchesSelector bool
}

// DefaultFeatures returns the feature set of a modern host.
func DefaultFeatures() Features {
	return Features{ClassList: true, Capture: true, MatchesSelector: true}
}

// Option configures a Document.
type Option func(*Document)

// WithFeatures overrides the advertised host features.
func WithFeatures(f Features) Option {
	return func(d *Document) {
		d.features = f
	}
}

// Document is the root of an HTML tree. While an Element is referenced it
// is the only wrapper of its node, so pointer equality is element identity.
// Wrappers are held weakly. Listeners and geometry belong to the node and
// survive the wrapper; they are dropped when the node itself is collected.
type Document struct {
	root     *html.Node
	features Features
	nodes    map[weak.Pointer[html.Node]]*nodeEntry
	events   eventTarget
}

// nodeEntry is the document's record of a wrapped node. It must not
// reference the node, or the node is never collected.
type nodeEntry struct {
	doc     *Document
	wrapper weak.Pointer[Element]
	state   *elementState
}

// elementState is the per-node state shared by successive wrappers.
type elementState struct {
	events   eventTarget
	geometry *DOMRect
}

// registryMu guards every Document.nodes map and nodeEntry.doc. Cleanups
// run on their own goroutine.
var registryMu sync.Mutex

type cleanupArg struct {
	key   weak.Pointer[html.Node]
	entry *nodeEntry
}

// forget drops the entry of a collected node.
func forget(c cleanupArg) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if d := c.entry.doc; d.nodes[c.key] == c.entry {
		delete(d.nodes, c.key)
	}
}

const blankPage = "<!DOCTYPE html><html><head></head><body></body></html>"

// NewDocument creates an empty HTML document with head and body.
func NewDocument(opts ...Option) *Document {
	doc, err := ParseHTML(blankPage, opts...)
	if err != nil {
		// x/net/html accepts any input; a failure here is a programming error.
		panic(err)
	}
	return doc
}

// ParseHTML parses a complete HTML page into a Document.
func ParseHTML(src string, opts ...Option) (*Document, error) {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	d := &Document{
		root:     root,
		features: DefaultFeatures(),
		nodes:    make(map[weak.Pointer[html.Node]]*nodeEntry),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Features returns the capabilities this document advertises.
func (d *Document) Features() Features {
	return d.features
}

// Node returns the underlying document node.
func (d *Document) Node() *html.Node {
	return d.root
}

// Wrap returns the canonical Element for an element node, creating it when
// no live wrapper exists. It returns nil for nil and for non-element nodes.
func (d *Document) Wrap(n *html.Node) *Element {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	key := weak.Make(n)

	registryMu.Lock()
	defer registryMu.Unlock()
	entry, ok := d.nodes[key]
	if ok {
		if el := entry.wrapper.Value(); el != nil {
			return el
		}
	} else {
		entry = &nodeEntry{doc: d, state: &elementState{}}
		d.nodes[key] = entry
		runtime.AddCleanup(n, forget, cleanupArg{key: key, entry: entry})
	}
	el := &Element{node: n, doc: d, state: entry.state}
	entry.wrapper = weak.Make(el)
	return el
}

// adopt moves the records of el's subtree from its previous document into d.
func (d *Document) adopt(el *Element) {
	from := el.doc
	if from == d {
		return
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	walk(el.node, func(n *html.Node) bool {
		key := weak.Make(n)
		if entry, ok := from.nodes[key]; ok {
			delete(from.nodes, key)
			entry.doc = d
			if w := entry.wrapper.Value(); w != nil {
				w.doc = d
			}
			d.nodes[key] = entry
		}
		return true
	})
}

// DocumentElement returns the root <html> element.
func (d *Document) DocumentElement() *Element {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return d.Wrap(c)
		}
	}
	return nil
}

// Head returns the <head> element.
func (d *Document) Head() *Element {
	return d.rootChild(atom.Head)
}

// Body returns the <body> element.
func (d *Document) Body() *Element {
	return d.rootChild(atom.Body)
}

func (d *Document) rootChild(a atom.Atom) *Element {
	de := d.DocumentElement()
	if de == nil {
		return nil
	}
	for c := de.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return d.Wrap(c)
		}
	}
	return nil
}

// CreateElement creates a new, detached element with the given tag name.
// Returns an InvalidCharacterError if the tag name is not a valid name.
func (d *Document) CreateElement(tagName string) (*Element, error) {
	if !isValidName(tagName) {
		return nil, ErrInvalidCharacter("The string contains invalid characters.")
	}
	localName := strings.ToLower(tagName)
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     localName,
		DataAtom: atom.Lookup([]byte(localName)),
	}
	return d.Wrap(n), nil
}

// isValidName is a conservative approximation of the XML Name production.
func isValidName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == ':', r > 0x7f:
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

// ParseFragment parses markup as if it were the content of a <body> and
// returns the top-level elements, detached. Top-level text is discarded.
func (d *Document) ParseFragment(src string) ([]*Element, error) {
	nodes, err := parseFragment(src, &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body})
	if err != nil {
		return nil, err
	}
	var out []*Element
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			out = append(out, d.Wrap(n))
		}
	}
	return out, nil
}

// GetElementById returns the first element in tree order with the given id.
func (d *Document) GetElementById(id string) *Element {
	if id == "" {
		return nil
	}
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	return d.Wrap(found)
}

// QuerySelector returns the first descendant element matching selector.
func (d *Document) QuerySelector(selector string) (*Element, error) {
	return querySelector(d, d.root, selector)
}

// QuerySelectorAll returns all descendant elements matching selector.
func (d *Document) QuerySelectorAll(selector string) (*NodeList, error) {
	return querySelectorAll(d, d.root, selector)
}

// OuterHTML serializes the whole document.
func (d *Document) OuterHTML() string {
	return render(d.root)
}

// AddEventListener registers a document-level listener.
func (d *Document) AddEventListener(eventType string, l *Listener, capture bool) {
	d.events.add(eventType, l, capture)
}

// RemoveEventListener unregisters a document-level listener.
func (d *Document) RemoveEventListener(eventType string, l *Listener, capture bool) {
	d.events.remove(eventType, l, capture)
}

// DispatchEvent dispatches e with the document as its target's root. Only
// the document's own listeners run.
func (d *Document) DispatchEvent(e *Event) bool {
	e.currentTarget = d
	e.phase = PhaseAtTarget
	d.events.invoke(e, PhaseAtTarget)
	e.phase = PhaseNone
	e.currentTarget = nil
	return !(e.Cancelable && e.defaultPrevented)
}

// walk visits n and its descendants in tree order until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}
