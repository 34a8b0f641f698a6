package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Element is an element node of a Document. Obtain elements from a
// Document (CreateElement, ParseFragment, queries, Wrap); never construct
// one directly.
type Element struct {
	node  *html.Node
	doc   *Document
	state *elementState
}

// Node returns the underlying x/net/html node.
func (e *Element) Node() *html.Node {
	return e.node
}

// OwnerDocument returns the document that owns the element.
func (e *Element) OwnerDocument() *Document {
	return e.doc
}

// TagName returns the upper-cased tag name.
func (e *Element) TagName() string {
	return strings.ToUpper(e.node.Data)
}

// LocalName returns the lower-cased tag name.
func (e *Element) LocalName() string {
	return e.node.Data
}

// Id returns the id attribute value.
func (e *Element) Id() string {
	return e.GetAttribute("id")
}

// SetId sets the id attribute value.
func (e *Element) SetId(id string) {
	e.SetAttribute("id", id)
}

// ClassName returns the class attribute value.
func (e *Element) ClassName() string {
	return e.GetAttribute("class")
}

// SetClassName sets the class attribute value.
func (e *Element) SetClassName(className string) {
	e.SetAttribute("class", className)
}

// ClassList returns a DOMTokenList for the class attribute, or nil when the
// owning document does not advertise class-list support.
func (e *Element) ClassList() *DOMTokenList {
	if !e.doc.features.ClassList {
		return nil
	}
	return newDOMTokenList(e, "class")
}

// Style returns the element's inline style declaration.
func (e *Element) Style() *CSSStyleDeclaration {
	return &CSSStyleDeclaration{element: e}
}

// GetAttribute returns the value of the named attribute, or "" if absent.
func (e *Element) GetAttribute(name string) string {
	return attr(e.node, strings.ToLower(name))
}

// HasAttribute reports whether the element has the named attribute.
func (e *Element) HasAttribute(name string) bool {
	name = strings.ToLower(name)
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return true
		}
	}
	return false
}

// SetAttribute sets the value of the named attribute.
func (e *Element) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	for i := range e.node.Attr {
		if e.node.Attr[i].Namespace == "" && e.node.Attr[i].Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttribute removes the named attribute if present.
func (e *Element) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr = append(e.node.Attr[:i], e.node.Attr[i+1:]...)
			return
		}
	}
}

// AttributeNames returns attribute names in document order.
func (e *Element) AttributeNames() []string {
	names := make([]string, 0, len(e.node.Attr))
	for _, a := range e.node.Attr {
		names = append(names, a.Key)
	}
	return names
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

// ParentNode returns the parent node, which is the document node for the
// root element, or nil for a detached element.
func (e *Element) ParentNode() *html.Node {
	return e.node.Parent
}

// ParentElement returns the parent element, or nil when the parent is the
// document or there is no parent.
func (e *Element) ParentElement() *Element {
	return e.doc.Wrap(e.node.Parent)
}

// IsConnected reports whether the element is in its document's tree.
func (e *Element) IsConnected() bool {
	n := e.node
	for n.Parent != nil {
		n = n.Parent
	}
	return n == e.doc.root
}

// Children returns the element children.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.Wrap(c))
		}
	}
	return out
}

// FirstElementChild returns the first element child.
func (e *Element) FirstElementChild() *Element {
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return e.doc.Wrap(c)
		}
	}
	return nil
}

// NextElementSibling returns the next sibling element.
func (e *Element) NextElementSibling() *Element {
	for c := e.node.NextSibling; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return e.doc.Wrap(c)
		}
	}
	return nil
}

// PreviousElementSibling returns the previous sibling element.
func (e *Element) PreviousElementSibling() *Element {
	for c := e.node.PrevSibling; c != nil; c = c.PrevSibling {
		if c.Type == html.ElementNode {
			return e.doc.Wrap(c)
		}
	}
	return nil
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	if other == nil {
		return false
	}
	for n := other.node; n != nil; n = n.Parent {
		if n == e.node {
			return true
		}
	}
	return false
}

// TextContent returns the concatenated text of all descendant text nodes.
func (e *Element) TextContent() string {
	var sb strings.Builder
	walk(e.node, func(n *html.Node) bool {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		return true
	})
	return sb.String()
}

// SetTextContent replaces all children with a single text node.
func (e *Element) SetTextContent(text string) {
	e.removeAllChildren()
	if text != "" {
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

func (e *Element) removeAllChildren() {
	for c := e.node.FirstChild; c != nil; c = e.node.FirstChild {
		e.node.RemoveChild(c)
	}
}

// AppendChild adds child to the end of e's children, moving it from its
// current parent if necessary.
func (e *Element) AppendChild(child *Element) (*Element, error) {
	return e.InsertBefore(child, nil)
}

// InsertBefore inserts newChild before refChild. If refChild is nil the
// node is appended. Returns a HierarchyRequestError if newChild is an
// inclusive ancestor of e, and a NotFoundError if refChild is not a child
// of e.
func (e *Element) InsertBefore(newChild, refChild *Element) (*Element, error) {
	if newChild == nil {
		return nil, ErrHierarchyRequest("The node to be inserted is null.")
	}
	if newChild.Contains(e) {
		return nil, ErrHierarchyRequest("The new child element contains the parent.")
	}
	if refChild != nil && refChild.node.Parent != e.node {
		return nil, ErrNotFound("The node before which the new node is to be inserted is not a child of this node.")
	}
	// Inserting a node before itself is a no-op.
	if newChild == refChild {
		return newChild, nil
	}
	var ref *html.Node
	if refChild != nil {
		ref = refChild.node
	}
	e.insertNode(newChild, ref)
	return newChild, nil
}

// PrependChild inserts child before e's first child node.
func (e *Element) PrependChild(child *Element) (*Element, error) {
	if child == nil {
		return nil, ErrHierarchyRequest("The node to be inserted is null.")
	}
	if child.Contains(e) {
		return nil, ErrHierarchyRequest("The new child element contains the parent.")
	}
	ref := e.node.FirstChild
	if ref == child.node {
		return child, nil
	}
	e.insertNode(child, ref)
	return child, nil
}

// insertNode detaches child and inserts it before ref (nil appends).
func (e *Element) insertNode(child *Element, ref *html.Node) {
	if p := child.node.Parent; p != nil {
		p.RemoveChild(child.node)
	}
	e.doc.adopt(child)
	if ref == nil {
		e.node.AppendChild(child.node)
	} else {
		e.node.InsertBefore(child.node, ref)
	}
}

// RemoveChild removes child from e's children.
// Returns a NotFoundError if child is not a child of e.
func (e *Element) RemoveChild(child *Element) (*Element, error) {
	if child == nil {
		return nil, ErrNotFound("The node to be removed is null.")
	}
	if child.node.Parent != e.node {
		return nil, ErrNotFound("The node to be removed is not a child of this node.")
	}
	e.node.RemoveChild(child.node)
	return child, nil
}

// ReplaceChild replaces oldChild with newChild and returns oldChild.
func (e *Element) ReplaceChild(newChild, oldChild *Element) (*Element, error) {
	if oldChild == nil || oldChild.node.Parent != e.node {
		return nil, ErrNotFound("The node to be replaced is not a child of this node.")
	}
	if newChild == nil || newChild.Contains(e) {
		return nil, ErrHierarchyRequest("The new child element contains the parent.")
	}
	if newChild == oldChild {
		return oldChild, nil
	}
	ref := oldChild.node.NextSibling
	if ref == newChild.node {
		ref = ref.NextSibling
	}
	e.node.RemoveChild(oldChild.node)
	e.insertNode(newChild, ref)
	return oldChild, nil
}

// Remove detaches e from its parent. It is a no-op for a detached element.
func (e *Element) Remove() {
	if p := e.node.Parent; p != nil {
		p.RemoveChild(e.node)
	}
}

// Geometry returns the layout box set by SetGeometry, or nil.
func (e *Element) Geometry() *DOMRect {
	return e.state.geometry
}

// SetGeometry records the element's layout box.
func (e *Element) SetGeometry(r *DOMRect) {
	e.state.geometry = r
}

// AddEventListener registers l for eventType.
func (e *Element) AddEventListener(eventType string, l *Listener, capture bool) {
	e.state.events.add(eventType, l, capture)
}

// RemoveEventListener unregisters l for eventType.
func (e *Element) RemoveEventListener(eventType string, l *Listener, capture bool) {
	e.state.events.remove(eventType, l, capture)
}

// DispatchEvent dispatches ev with e as its target.
func (e *Element) DispatchEvent(ev *Event) bool {
	return dispatch(e, ev)
}
