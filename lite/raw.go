package lite

import (
	"errors"

	"github.com/PuerkitoBio/goquery"

	"github.com/stagas/dom-lite/dom"
)

var (
	// ErrNotElement is returned when a value has no recognizable element shape.
	ErrNotElement = errors.New("lite: not an element")
	// ErrEmptyCollection is returned when an element-like collection is empty.
	ErrEmptyCollection = errors.New("lite: empty collection")
)

// Container is a wrapper holding a single element, such as a view or
// component that owns its root element.
type Container interface {
	El() any
}

// Collection is a wrapper holding an ordered list of elements.
type Collection interface {
	Els() []*dom.Element
}

// Raw extracts the element from an element-like value. Accepted shapes, in
// order: a Container (unwrapped once), *dom.Element, *goquery.Selection or
// *goquery.Document, a Collection, *dom.NodeList and []*dom.Element.
// Collections yield their first element.
func (d *DOM) Raw(v any) (*dom.Element, error) {
	if c, ok := v.(Container); ok {
		v = c.El()
	}
	switch x := v.(type) {
	case *dom.Element:
		if x == nil {
			return nil, ErrNotElement
		}
		return x, nil
	case *goquery.Document:
		if x == nil {
			return nil, ErrNotElement
		}
		return d.first(x.Selection)
	case *goquery.Selection:
		return d.first(x)
	case Collection:
		return firstOf(x.Els())
	case *dom.NodeList:
		if x == nil {
			return nil, ErrNotElement
		}
		return firstOf(x.Slice())
	case []*dom.Element:
		return firstOf(x)
	default:
		return nil, ErrNotElement
	}
}

func (d *DOM) first(s *goquery.Selection) (*dom.Element, error) {
	if s == nil || s.Length() == 0 {
		return nil, ErrEmptyCollection
	}
	el := d.doc.Wrap(s.Get(0))
	if el == nil {
		return nil, ErrNotElement
	}
	return el, nil
}

func firstOf(els []*dom.Element) (*dom.Element, error) {
	if len(els) == 0 {
		return nil, ErrEmptyCollection
	}
	if els[0] == nil {
		return nil, ErrNotElement
	}
	return els[0], nil
}

// Select returns a goquery selection holding the element.
func (d *DOM) Select(v any) (*goquery.Selection, error) {
	el, err := d.Raw(v)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromNode(el.Node()).Selection, nil
}
