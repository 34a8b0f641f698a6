package classes

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagas/dom-lite/dom"
)

func newElement(t *testing.T, f dom.Features, class string) *dom.Element {
	t.Helper()
	doc := dom.NewDocument(dom.WithFeatures(f))
	el, err := doc.CreateElement("div")
	require.NoError(t, err)
	if class != "" {
		el.SetClassName(class)
	}
	return el
}

func strategies() map[string]dom.Features {
	return map[string]dom.Features{
		"native": dom.DefaultFeatures(),
		"shim":   {},
	}
}

func TestDetect(t *testing.T) {
	assert.Equal(t, Native, Detect(dom.DefaultFeatures()))
	assert.Equal(t, Shim, Detect(dom.Features{}))
	assert.Equal(t, "native", Native.String())
	assert.Equal(t, "shim", Shim.String())
	assert.Equal(t, "unknown", Strategy(9).String())
}

func TestNativeFallsBackWithoutClassList(t *testing.T) {
	el := newElement(t, dom.Features{}, "a")
	l := Native.For(el)
	require.NoError(t, l.Add("b"))
	assert.Equal(t, "a b", el.ClassName())
	assert.Same(t, el, l.Element())
}

func TestAddContainsRemove(t *testing.T) {
	for name, f := range strategies() {
		t.Run(name, func(t *testing.T) {
			el := newElement(t, f, "")
			l := Detect(f).For(el)

			require.NoError(t, l.Add("x"))
			assert.True(t, l.Contains("x"))
			require.NoError(t, l.Add("x"))
			assert.Equal(t, "x", el.ClassName())

			require.NoError(t, l.Remove("x"))
			assert.False(t, l.Contains("x"))
			require.NoError(t, l.Remove("x"))
			assert.Empty(t, el.ClassName())
		})
	}
}

func TestToggle(t *testing.T) {
	for name, f := range strategies() {
		t.Run(name, func(t *testing.T) {
			el := newElement(t, f, "a")
			l := Detect(f).For(el)

			on, err := l.Toggle("b")
			require.NoError(t, err)
			assert.True(t, on)
			assert.Equal(t, "a b", el.ClassName())

			on, err = l.Toggle("a")
			require.NoError(t, err)
			assert.False(t, on)
			assert.Equal(t, "b", el.ClassName())
		})
	}
}

func TestRemoveMatching(t *testing.T) {
	for name, f := range strategies() {
		t.Run(name, func(t *testing.T) {
			el := newElement(t, f, "icon-a keep icon-b icon-c other")
			l := Detect(f).For(el)

			require.NoError(t, l.RemoveMatching(regexp.MustCompile(`^icon-`)))
			assert.Equal(t, []string{"keep", "other"}, l.Array())
			assert.Equal(t, "keep other", l.String())
		})
	}
}

func TestArray(t *testing.T) {
	for name, f := range strategies() {
		t.Run(name, func(t *testing.T) {
			el := newElement(t, f, "  hello   there  hello ")
			assert.Equal(t, []string{"hello", "there"}, Detect(f).For(el).Array())

			assert.Empty(t, Detect(f).For(newElement(t, f, "")).Array())
		})
	}
}

func TestInvalidTokens(t *testing.T) {
	for name, f := range strategies() {
		t.Run(name, func(t *testing.T) {
			el := newElement(t, f, "a")
			l := Detect(f).For(el)

			err := l.Add("b", "")
			assert.True(t, dom.IsName(err, "SyntaxError"))
			err = l.Add("b c")
			assert.True(t, dom.IsName(err, "InvalidCharacterError"))
			err = l.Remove("")
			assert.True(t, dom.IsName(err, "SyntaxError"))
			_, err = l.Toggle("x y")
			assert.True(t, dom.IsName(err, "InvalidCharacterError"))
			assert.Equal(t, "a", el.ClassName())
			assert.False(t, l.Contains(""))
		})
	}
}

func TestStrategiesAgree(t *testing.T) {
	type step func(*List) error
	sequences := map[string][]step{
		"add remove": {
			func(l *List) error { return l.Add("a", "b", "c") },
			func(l *List) error { return l.Remove("b") },
			func(l *List) error { return l.Add("b") },
		},
		"toggle": {
			func(l *List) error { _, err := l.Toggle("a"); return err },
			func(l *List) error { _, err := l.Toggle("z"); return err },
			func(l *List) error { _, err := l.Toggle("a"); return err },
		},
		"noop on absent": {
			func(l *List) error { return l.Remove("q") },
			func(l *List) error { return l.Add() },
		},
		"matching": {
			func(l *List) error { return l.Add("x1", "y", "x2") },
			func(l *List) error { return l.RemoveMatching(regexp.MustCompile(`\d$`)) },
		},
	}
	for _, initial := range []string{"", " a  a ", "x"} {
		for name, seq := range sequences {
			t.Run(name+"/"+initial, func(t *testing.T) {
				var results [2]string
				var present [2]bool
				for i, f := range []dom.Features{dom.DefaultFeatures(), {}} {
					el := newElement(t, f, initial)
					l := Detect(f).For(el)
					for _, s := range seq {
						require.NoError(t, s(l))
					}
					results[i] = el.ClassName()
					present[i] = el.HasAttribute("class")
				}
				assert.Equal(t, results[0], results[1])
				assert.Equal(t, present[0], present[1])
			})
		}
	}
}
