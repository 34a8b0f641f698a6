// Package css computes styles and boxes for elements of a dom.Document.
//
// The cascade has three origins. The built-in user agent sheet, author
// sheets (every <style> element of the document plus sheets added with
// AddStylesheet) and the inline style attribute. Selectors are matched and
// ranked with cascadia; sheets are parsed with douceur.
package css

import (
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"github.com/sirupsen/logrus"

	"github.com/stagas/dom-lite/dom"
)

// cascade layers, lowest precedence first.
const (
	layerUserAgent = iota
	layerAuthor
	layerInline
	layerAuthorImportant
	layerInlineImportant
	layerUserAgentImportant
)

func cascadeLayer(origin int, important bool) int {
	if !important {
		return origin
	}
	switch origin {
	case layerUserAgent:
		return layerUserAgentImportant
	case layerInline:
		return layerInlineImportant
	default:
		return layerAuthorImportant
	}
}

// matchedDeclaration is a declaration that applies to an element, with the
// data used to order it in the cascade.
type matchedDeclaration struct {
	declaration
	layer       int
	specificity cascadia.Specificity
	order       int
}

// Resolver computes styles. It caches parsed <style> sheets by their text,
// so a Resolver can be shared by every element of a document and across
// documents.
type Resolver struct {
	logger logrus.FieldLogger

	mu     sync.Mutex
	sheets map[string][]rule
	extra  [][]rule
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used to report stylesheets that fail to parse.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a Resolver.
func NewResolver(opts ...Option) *Resolver {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	r := &Resolver{
		logger: discard,
		sheets: make(map[string][]rule),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddStylesheet adds an author sheet that applies to every document, ahead
// of the documents' own <style> elements.
func (r *Resolver) AddStylesheet(text string) error {
	rules, err := parseSheet(text)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extra = append(r.extra, rules)
	return nil
}

// authorRules returns the author sheets that apply to doc, in cascade order.
func (r *Resolver) authorRules(doc *dom.Document) [][]rule {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := append([][]rule(nil), r.extra...)
	for _, text := range documentSheets(doc) {
		rules, ok := r.sheets[text]
		if !ok {
			var err error
			rules, err = parseSheet(text)
			if err != nil {
				r.logger.WithError(err).Warn("ignoring unparsable <style> sheet")
			}
			r.sheets[text] = rules
		}
		out = append(out, rules)
	}
	return out
}

// Compute returns the computed style of el. Ancestors are computed first so
// inherited properties and relative font sizes resolve against them.
func (r *Resolver) Compute(el *dom.Element) *ComputedStyle {
	chain := r.chain(el)
	return chain[len(chain)-1]
}

// chain computes the styles of el's ancestors and el, root first.
func (r *Resolver) chain(el *dom.Element) []*ComputedStyle {
	var lineage []*dom.Element
	for a := el; a != nil; a = a.ParentElement() {
		lineage = append(lineage, a)
	}
	author := r.authorRules(el.OwnerDocument())

	styles := make([]*ComputedStyle, 0, len(lineage))
	var parent *ComputedStyle
	for i := len(lineage) - 1; i >= 0; i-- {
		parent = computeStyle(lineage[i], parent, author)
		styles = append(styles, parent)
	}
	return styles
}

func computeStyle(el *dom.Element, parent *ComputedStyle, author [][]rule) *ComputedStyle {
	cs := &ComputedStyle{
		element: el,
		parent:  parent,
		values:  make(map[string]string, len(propertyDefaults)),
	}
	for prop, def := range propertyDefaults {
		if def.inherited && parent != nil {
			cs.values[prop] = parent.values[prop]
		} else {
			cs.values[prop] = def.initial
		}
	}

	matched := collect(el, author)
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.layer != b.layer {
			return a.layer < b.layer
		}
		if a.specificity != b.specificity {
			return a.specificity.Less(b.specificity)
		}
		return a.order < b.order
	})
	for _, m := range matched {
		cs.apply(m.property, m.value)
	}

	cs.resolveFontSize()
	return cs
}

// collect gathers every declaration that applies to el.
func collect(el *dom.Element, author [][]rule) []matchedDeclaration {
	var out []matchedDeclaration
	order := 0
	add := func(rules []rule, origin int) {
		for _, ru := range rules {
			if !ru.selector.Match(el.Node()) {
				continue
			}
			spec := ru.selector.Specificity()
			for _, d := range ru.declarations {
				out = append(out, matchedDeclaration{
					declaration: d,
					layer:       cascadeLayer(origin, d.important),
					specificity: spec,
					order:       order,
				})
				order++
			}
		}
	}

	add(userAgentRules(), layerUserAgent)
	for _, rules := range author {
		add(rules, layerAuthor)
	}

	inline := el.Style()
	for _, name := range inline.PropertyNames() {
		important := inline.GetPropertyPriority(name) == "important"
		for _, lh := range expandShorthand(name, inline.GetPropertyValue(name)) {
			out = append(out, matchedDeclaration{
				declaration: declaration{property: lh.property, value: lh.value, important: important},
				layer:       cascadeLayer(layerInline, important),
				order:       order,
			})
			order++
		}
	}
	return out
}

// apply assigns one cascaded value, handling the CSS-wide keywords.
func (cs *ComputedStyle) apply(prop, value string) {
	def, known := propertyDefaults[prop]
	switch strings.ToLower(value) {
	case "inherit":
		if cs.parent != nil {
			cs.values[prop] = cs.parent.Get(prop)
			return
		}
		value = def.initial
	case "initial":
		value = def.initial
	case "unset", "revert":
		if known && def.inherited && cs.parent != nil {
			value = cs.parent.values[prop]
		} else {
			value = def.initial
		}
	}
	if value == "" {
		delete(cs.values, prop)
		return
	}
	cs.values[prop] = value
}

// ComputedStyle is the resolved style of one element.
type ComputedStyle struct {
	element *dom.Element
	parent  *ComputedStyle
	values  map[string]string
}

// Element returns the element the style belongs to.
func (cs *ComputedStyle) Element() *dom.Element {
	return cs.element
}

// Parent returns the parent element's style, or nil at the root.
func (cs *ComputedStyle) Parent() *ComputedStyle {
	return cs.parent
}

// Get returns the computed value of a property, given in camelCase or
// kebab-case. Four-sided shorthands such as margin are rebuilt from their
// longhands. Unknown properties that were never set return "".
func (cs *ComputedStyle) Get(property string) string {
	prop := dom.NormalizePropertyName(property)
	if v, ok := cs.values[prop]; ok {
		return v
	}
	if v, ok := collapseShorthand(prop, func(side string) string { return cs.values[side] }); ok {
		return v
	}
	return ""
}

// Display returns the computed display value.
func (cs *ComputedStyle) Display() string {
	return cs.values["display"]
}

// Properties returns every property with a computed value, sorted.
func (cs *ComputedStyle) Properties() []string {
	names := make([]string, 0, len(cs.values))
	for name := range cs.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
