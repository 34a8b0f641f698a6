// Package style assigns inline styles from a property map, appending px to
// bare numbers where CSS expects a length.
package style

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/stagas/dom-lite/dom"
)

// Map is a set of properties to assign. Keys may be camelCase or
// kebab-case. Values are strings, numbers or fmt.Stringer values.
type Map map[string]any

// unitless holds the properties whose numeric values are plain numbers.
var unitless = map[string]bool{
	"column-count": true,
	"fill-opacity": true,
	"font-weight":  true,
	"line-height":  true,
	"opacity":      true,
	"orphans":      true,
	"widows":       true,
	"z-index":      true,
	"zoom":         true,
}

// IsUnitless reports whether a numeric value for name is written without a
// unit.
func IsUnitless(name string) bool {
	return unitless[dom.NormalizePropertyName(name)]
}

// Format renders value as the string assigned to property name.
func Format(name string, value any) string {
	var n string
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case int:
		n = strconv.FormatInt(int64(v), 10)
	case int8:
		n = strconv.FormatInt(int64(v), 10)
	case int16:
		n = strconv.FormatInt(int64(v), 10)
	case int32:
		n = strconv.FormatInt(int64(v), 10)
	case int64:
		n = strconv.FormatInt(v, 10)
	case uint:
		n = strconv.FormatUint(uint64(v), 10)
	case uint8:
		n = strconv.FormatUint(uint64(v), 10)
	case uint16:
		n = strconv.FormatUint(uint64(v), 10)
	case uint32:
		n = strconv.FormatUint(uint64(v), 10)
	case uint64:
		n = strconv.FormatUint(v, 10)
	case float32:
		n = strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		n = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
	if IsUnitless(name) {
		return n
	}
	return n + "px"
}

// Set assigns every property in styles to el's inline style, in sorted key
// order, and returns el. An empty formatted value removes the property.
func Set(el *dom.Element, styles Map) *dom.Element {
	keys := make([]string, 0, len(styles))
	for k := range styles {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	decl := el.Style()
	for _, k := range keys {
		decl.SetProperty(k, Format(k, styles[k]))
	}
	return el
}
