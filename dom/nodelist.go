package dom

// NodeList is a static, ordered collection of elements as returned by
// QuerySelectorAll.
type NodeList struct {
	items []*Element
}

// NewNodeList creates a static NodeList from a slice of elements.
func NewNodeList(items []*Element) *NodeList {
	staticCopy := make([]*Element, len(items))
	copy(staticCopy, items)
	return &NodeList{items: staticCopy}
}

// Length returns the number of elements in the collection.
func (nl *NodeList) Length() int {
	if nl == nil {
		return 0
	}
	return len(nl.items)
}

// Item returns the element at the given index, or nil if the index is out of bounds.
func (nl *NodeList) Item(index int) *Element {
	if nl == nil || index < 0 || index >= len(nl.items) {
		return nil
	}
	return nl.items[index]
}

// Slice returns a copy of the elements.
func (nl *NodeList) Slice() []*Element {
	if nl == nil {
		return nil
	}
	out := make([]*Element, len(nl.items))
	copy(out, nl.items)
	return out
}
