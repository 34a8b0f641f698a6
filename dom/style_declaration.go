package dom

import (
	"strings"

	"github.com/aymerick/douceur/parser"
	"github.com/serenize/snaker"
)

// CSSStyleDeclaration represents an element's inline style. It holds no
// state of its own: every read parses the style attribute and every write
// serializes back to it, so attribute and declaration never disagree.
type CSSStyleDeclaration struct {
	element *Element
}

// styleProperty holds a single CSS property's value and priority.
type styleProperty struct {
	name     string
	value    string
	priority string // "important" or ""
}

// parseDeclarations parses a declaration block ("a: b; c: d") into
// normalized properties in source order. A later declaration of the same
// property replaces the value of the earlier one in place.
func parseDeclarations(text string) []styleProperty {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	// douceur drops a final declaration that is not terminated.
	if !strings.HasSuffix(text, ";") {
		text += ";"
	}
	decls, err := parser.ParseDeclarations(text)
	if err != nil {
		return nil
	}
	var props []styleProperty
	for _, d := range decls {
		name := NormalizePropertyName(d.Property)
		if name == "" || d.Value == "" {
			continue
		}
		sp := styleProperty{name: name, value: d.Value}
		if d.Important {
			sp.priority = "important"
		}
		replaced := false
		for i := range props {
			if props[i].name == name {
				props[i] = sp
				replaced = true
				break
			}
		}
		if !replaced {
			props = append(props, sp)
		}
	}
	return props
}

func (sd *CSSStyleDeclaration) properties() []styleProperty {
	return parseDeclarations(sd.element.GetAttribute("style"))
}

// store serializes props back to the style attribute.
func (sd *CSSStyleDeclaration) store(props []styleProperty) {
	text := serializeDeclarations(props)
	if text == "" {
		sd.element.RemoveAttribute("style")
		return
	}
	sd.element.SetAttribute("style", text)
}

func serializeDeclarations(props []styleProperty) string {
	parts := make([]string, 0, len(props))
	for _, sp := range props {
		part := sp.name + ": " + sp.value
		if sp.priority == "important" {
			part += " !important"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "; ")
}

// CSSText returns the textual representation of the declaration block.
func (sd *CSSStyleDeclaration) CSSText() string {
	return serializeDeclarations(sd.properties())
}

// SetCSSText parses and sets all properties from a CSS text string.
func (sd *CSSStyleDeclaration) SetCSSText(cssText string) {
	sd.store(parseDeclarations(cssText))
}

// Length returns the number of properties set.
func (sd *CSSStyleDeclaration) Length() int {
	return len(sd.properties())
}

// Item returns the property name at the given index.
func (sd *CSSStyleDeclaration) Item(index int) string {
	props := sd.properties()
	if index < 0 || index >= len(props) {
		return ""
	}
	return props[index].name
}

// GetPropertyValue returns the value of a CSS property.
func (sd *CSSStyleDeclaration) GetPropertyValue(property string) string {
	property = NormalizePropertyName(property)
	for _, sp := range sd.properties() {
		if sp.name == property {
			return sp.value
		}
	}
	return ""
}

// GetPropertyPriority returns the priority of a CSS property ("important" or "").
func (sd *CSSStyleDeclaration) GetPropertyPriority(property string) string {
	property = NormalizePropertyName(property)
	for _, sp := range sd.properties() {
		if sp.name == property {
			return sp.priority
		}
	}
	return ""
}

// SetProperty sets a CSS property with an optional priority.
// An empty value removes the property.
func (sd *CSSStyleDeclaration) SetProperty(property, value string, priority ...string) {
	property = NormalizePropertyName(property)
	if property == "" {
		return
	}
	value = strings.TrimSpace(value)
	if value == "" {
		sd.RemoveProperty(property)
		return
	}

	pri := ""
	if len(priority) > 0 && strings.EqualFold(priority[0], "important") {
		pri = "important"
	}

	props := sd.properties()
	for i := range props {
		if props[i].name == property {
			props[i].value = value
			props[i].priority = pri
			sd.store(props)
			return
		}
	}
	sd.store(append(props, styleProperty{name: property, value: value, priority: pri}))
}

// RemoveProperty removes a CSS property and returns its old value.
func (sd *CSSStyleDeclaration) RemoveProperty(property string) string {
	property = NormalizePropertyName(property)
	props := sd.properties()
	for i, sp := range props {
		if sp.name == property {
			sd.store(append(props[:i], props[i+1:]...))
			return sp.value
		}
	}
	return ""
}

// PropertyNames returns all property names in declaration order.
func (sd *CSSStyleDeclaration) PropertyNames() []string {
	props := sd.properties()
	names := make([]string, len(props))
	for i, sp := range props {
		names[i] = sp.name
	}
	return names
}

// NormalizePropertyName converts camelCase to kebab-case and lowercases.
// Examples: "backgroundColor" -> "background-color", "WebkitTransform" -> "-webkit-transform"
func NormalizePropertyName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	// Custom properties are case-sensitive and kept verbatim.
	if strings.HasPrefix(name, "--") {
		return name
	}
	if strings.Contains(name, "-") || strings.ToUpper(name) == name {
		return strings.ToLower(name)
	}
	kebab := strings.ReplaceAll(snaker.CamelToSnake(name), "_", "-")
	if name[0] >= 'A' && name[0] <= 'Z' {
		kebab = "-" + kebab
	}
	return kebab
}

// CamelCasePropertyName converts kebab-case to camelCase.
// Examples: "background-color" -> "backgroundColor", "-webkit-transform" -> "WebkitTransform"
func CamelCasePropertyName(name string) string {
	if !strings.Contains(name, "-") {
		return name
	}
	vendor := strings.HasPrefix(name, "-")
	camel := snaker.SnakeToCamel(strings.ReplaceAll(strings.TrimPrefix(name, "-"), "-", "_"))
	if vendor || camel == "" {
		return camel
	}
	return strings.ToLower(camel[:1]) + camel[1:]
}
