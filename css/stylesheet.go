package css

import (
	"strings"

	"github.com/andybalholm/cascadia"
	douceur "github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"

	"github.com/stagas/dom-lite/dom"
)

// declaration is one property assignment after shorthand expansion.
type declaration struct {
	property  string
	value     string
	important bool
}

// rule is a single selector of a qualified rule with its declarations.
// A rule with a selector list becomes one rule per selector so each keeps
// its own specificity.
type rule struct {
	selector     cascadia.Sel
	declarations []declaration
}

// parseSheet parses a stylesheet into rules in source order. At-rules are
// skipped, as are selectors cascadia cannot match (pseudo-elements and
// unsupported syntax).
func parseSheet(text string) ([]rule, error) {
	sheet, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}
	var rules []rule
	for _, r := range sheet.Rules {
		if r.Kind != douceur.QualifiedRule {
			continue
		}
		decls := expandDeclarations(r.Declarations)
		for _, selText := range r.Selectors {
			sel, err := cascadia.Parse(selText)
			if err != nil {
				continue
			}
			rules = append(rules, rule{selector: sel, declarations: decls})
		}
	}
	return rules, nil
}

// expandDeclarations normalizes property names and expands shorthands.
func expandDeclarations(decls []*douceur.Declaration) []declaration {
	out := make([]declaration, 0, len(decls))
	for _, d := range decls {
		name := dom.NormalizePropertyName(d.Property)
		if name == "" || d.Value == "" {
			continue
		}
		for _, lh := range expandShorthand(name, d.Value) {
			out = append(out, declaration{property: lh.property, value: lh.value, important: d.Important})
		}
	}
	return out
}

// documentSheets returns the text of every <style> element in doc, in tree
// order.
func documentSheets(doc *dom.Document) []string {
	list, err := doc.QuerySelectorAll("style")
	if err != nil {
		return nil
	}
	var texts []string
	for _, el := range list.Slice() {
		if text := strings.TrimSpace(el.TextContent()); text != "" {
			texts = append(texts, text)
		}
	}
	return texts
}
