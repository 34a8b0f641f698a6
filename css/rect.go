package css

import (
	"github.com/stagas/dom-lite/dom"
)

// Rect returns el's bounding box. A disconnected element, or one inside a
// display: none subtree, has a zero box. Otherwise the geometry a layout
// recorded on the element wins; failing that, left, top, width and height
// are read from the computed style, with percentages resolved against the
// parent's box.
func (r *Resolver) Rect(el *dom.Element) *dom.DOMRect {
	if !el.IsConnected() {
		return &dom.DOMRect{}
	}
	chain := r.chain(el)
	for _, cs := range chain {
		if cs.Display() == "none" {
			return &dom.DOMRect{}
		}
	}
	if g := el.Geometry(); g != nil {
		rect := *g
		return &rect
	}

	var base dom.DOMRect
	if p := el.ParentElement(); p != nil {
		base = *r.Rect(p)
	}
	cs := chain[len(chain)-1]
	x, _ := cs.Length("left", base.Width)
	y, _ := cs.Length("top", base.Height)
	w, _ := cs.Length("width", base.Width)
	h, _ := cs.Length("height", base.Height)
	return dom.NewDOMRect(x, y, w, h)
}
