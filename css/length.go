package css

import (
	"strconv"
	"strings"
)

const defaultFontSize = 16.0

var fontSizeKeywords = map[string]float64{
	"xx-small": 9,
	"x-small":  10,
	"small":    13,
	"medium":   16,
	"large":    18,
	"x-large":  24,
	"xx-large": 32,
}

// resolveFontSize turns the cascaded font-size into pixels so that
// children inherit an absolute size.
func (cs *ComputedStyle) resolveFontSize() {
	parentSize := defaultFontSize
	if cs.parent != nil {
		parentSize = cs.parent.FontSize()
	}
	value := strings.ToLower(strings.TrimSpace(cs.values["font-size"]))

	var size float64
	switch {
	case fontSizeKeywords[value] > 0:
		size = fontSizeKeywords[value]
	case value == "smaller":
		size = parentSize / 1.2
	case value == "larger":
		size = parentSize * 1.2
	default:
		var ok bool
		// em and % on font-size are relative to the parent's font size.
		if size, ok = parseLength(value, parentSize, parentSize); !ok {
			size = parentSize
		}
	}
	cs.values["font-size"] = formatPx(size)
}

// FontSize returns the computed font size in pixels.
func (cs *ComputedStyle) FontSize() float64 {
	if size, ok := parseLength(cs.values["font-size"], defaultFontSize, defaultFontSize); ok {
		return size
	}
	return defaultFontSize
}

// Length returns a length property in pixels. Percentages resolve against
// percentBase and em against the element's font size. It reports false for
// auto, keywords and unparsable values.
func (cs *ComputedStyle) Length(property string, percentBase float64) (float64, bool) {
	return parseLength(cs.Get(property), cs.FontSize(), percentBase)
}

// parseLength parses px, em, rem, % and unitless numbers.
func parseLength(value string, fontSize, percentBase float64) (float64, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return 0, false
	}
	scale := 1.0
	switch {
	case strings.HasSuffix(value, "px"):
		value = strings.TrimSuffix(value, "px")
	case strings.HasSuffix(value, "rem"):
		value = strings.TrimSuffix(value, "rem")
		scale = defaultFontSize
	case strings.HasSuffix(value, "em"):
		value = strings.TrimSuffix(value, "em")
		scale = fontSize
	case strings.HasSuffix(value, "%"):
		value = strings.TrimSuffix(value, "%")
		scale = percentBase / 100
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return n * scale, true
}

func formatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
