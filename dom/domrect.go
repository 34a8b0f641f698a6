package dom

// DOMRect is an element's layout box in CSS pixels.
// Negative sizes are allowed; the edge accessors normalize them.
type DOMRect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// NewDOMRect creates a DOMRect.
func NewDOMRect(x, y, width, height float64) *DOMRect {
	return &DOMRect{X: x, Y: y, Width: width, Height: height}
}

func (r *DOMRect) Top() float64 {
	if r.Height < 0 {
		return r.Y + r.Height
	}
	return r.Y
}

func (r *DOMRect) Right() float64 {
	if r.Width < 0 {
		return r.X
	}
	return r.X + r.Width
}

func (r *DOMRect) Bottom() float64 {
	if r.Height < 0 {
		return r.Y
	}
	return r.Y + r.Height
}

func (r *DOMRect) Left() float64 {
	if r.Width < 0 {
		return r.X + r.Width
	}
	return r.X
}

// IsZero reports whether the rect has no position and no size.
func (r *DOMRect) IsZero() bool {
	return r == nil || *r == DOMRect{}
}
