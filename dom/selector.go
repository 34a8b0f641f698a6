package dom

import (
	"fmt"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Selector groups are immutable once compiled, so one cache serves every
// document.
var selectorCache sync.Map // string -> cascadia.SelectorGroup

// compileSelector parses a selector group, returning a SyntaxError for
// invalid input.
func compileSelector(selector string) (cascadia.SelectorGroup, error) {
	if cached, ok := selectorCache.Load(selector); ok {
		return cached.(cascadia.SelectorGroup), nil
	}
	group, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, ErrSyntax(fmt.Sprintf("'%s' is not a valid selector: %v", selector, err))
	}
	selectorCache.Store(selector, group)
	return group, nil
}

// ValidateSelector reports a SyntaxError for an invalid selector.
func ValidateSelector(selector string) error {
	_, err := compileSelector(selector)
	return err
}

func querySelector(d *Document, scope *html.Node, selector string) (*Element, error) {
	group, err := compileSelector(selector)
	if err != nil {
		return nil, err
	}
	return d.Wrap(cascadia.Query(scope, group)), nil
}

func querySelectorAll(d *Document, scope *html.Node, selector string) (*NodeList, error) {
	group, err := compileSelector(selector)
	if err != nil {
		return nil, err
	}
	nodes := cascadia.QueryAll(scope, group)
	items := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, d.Wrap(n))
	}
	return NewNodeList(items), nil
}

// QuerySelector returns the first descendant element matching selector, or
// nil if none does.
func (e *Element) QuerySelector(selector string) (*Element, error) {
	return querySelector(e.doc, e.node, selector)
}

// QuerySelectorAll returns a static list of descendants matching selector
// in tree order.
func (e *Element) QuerySelectorAll(selector string) (*NodeList, error) {
	return querySelectorAll(e.doc, e.node, selector)
}

// Matches reports whether the element matches selector.
func (e *Element) Matches(selector string) (bool, error) {
	group, err := compileSelector(selector)
	if err != nil {
		return false, err
	}
	return group.Match(e.node), nil
}

// Closest returns the nearest inclusive ancestor matching selector.
func (e *Element) Closest(selector string) (*Element, error) {
	group, err := compileSelector(selector)
	if err != nil {
		return nil, err
	}
	for n := e.node; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && group.Match(n) {
			return e.doc.Wrap(n), nil
		}
	}
	return nil, nil
}
