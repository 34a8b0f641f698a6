package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// render serializes n and its subtree.
func render(n *html.Node) string {
	var sb strings.Builder
	// Render only fails for error nodes or a failing writer; neither
	// occurs for trees built through this package.
	_ = html.Render(&sb, n)
	return sb.String()
}

func parseFragment(src string, context *html.Node) ([]*html.Node, error) {
	return html.ParseFragment(strings.NewReader(src), context)
}

// InnerHTML serializes the element's children.
func (e *Element) InnerHTML() string {
	var sb strings.Builder
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(render(c))
	}
	return sb.String()
}

// SetInnerHTML replaces the element's children with the parsed markup.
func (e *Element) SetInnerHTML(markup string) error {
	nodes, err := parseFragment(markup, e.node)
	if err != nil {
		return err
	}
	e.removeAllChildren()
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	return nil
}

// OuterHTML serializes the element including its own tag.
func (e *Element) OuterHTML() string {
	return render(e.node)
}
