package css

import (
	"strings"
)

type longhand struct {
	property string
	value    string
}

// boxShorthands map a four-sided shorthand to its longhands in
// top, right, bottom, left order.
var boxShorthands = map[string][4]string{
	"margin":       {"margin-top", "margin-right", "margin-bottom", "margin-left"},
	"padding":      {"padding-top", "padding-right", "padding-bottom", "padding-left"},
	"border-width": {"border-top-width", "border-right-width", "border-bottom-width", "border-left-width"},
	"border-style": {"border-top-style", "border-right-style", "border-bottom-style", "border-left-style"},
	"border-color": {"border-top-color", "border-right-color", "border-bottom-color", "border-left-color"},
}

// expandShorthand expands a four-sided shorthand using the usual 1 to 4
// value rules. Anything else, including a shorthand with a value count
// outside 1 to 4, is returned unchanged.
func expandShorthand(property, value string) []longhand {
	sides, ok := boxShorthands[property]
	if !ok {
		return []longhand{{property, value}}
	}
	parts := splitValues(value)
	var top, right, bottom, left string
	switch len(parts) {
	case 1:
		top, right, bottom, left = parts[0], parts[0], parts[0], parts[0]
	case 2:
		top, right, bottom, left = parts[0], parts[1], parts[0], parts[1]
	case 3:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[1]
	case 4:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[3]
	default:
		return []longhand{{property, value}}
	}
	return []longhand{
		{sides[0], top},
		{sides[1], right},
		{sides[2], bottom},
		{sides[3], left},
	}
}

// collapseShorthand rebuilds a four-sided shorthand from its longhands,
// using the shortest equivalent form. It reports false when property is
// not a four-sided shorthand or a side is unset.
func collapseShorthand(property string, get func(string) string) (string, bool) {
	sides, ok := boxShorthands[property]
	if !ok {
		return "", false
	}
	var v [4]string
	for i, side := range sides {
		if v[i] = get(side); v[i] == "" {
			return "", false
		}
	}
	switch {
	case v[0] == v[1] && v[1] == v[2] && v[2] == v[3]:
		return v[0], true
	case v[0] == v[2] && v[1] == v[3]:
		return v[0] + " " + v[1], true
	case v[1] == v[3]:
		return v[0] + " " + v[1] + " " + v[2], true
	}
	return strings.Join(v[:], " "), true
}

// splitValues splits a value on whitespace outside parentheses.
func splitValues(value string) []string {
	var parts []string
	depth, start := 0, -1
	for i, r := range value {
		switch {
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		case depth == 0 && (r == ' ' || r == '\t' || r == '\n'):
			if start >= 0 {
				parts = append(parts, value[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		parts = append(parts, value[start:])
	}
	return parts
}
