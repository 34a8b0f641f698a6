// Package classes manages an element's class attribute as a set. The Native
// strategy delegates to the host's DOMTokenList; the Shim strategy edits the
// attribute string directly for hosts without one. Both validate and order
// tokens the same way, so callers cannot tell them apart.
package classes

import (
	"regexp"
	"slices"
	"strings"

	"github.com/stagas/dom-lite/dom"
)

// Strategy selects how class lists are manipulated.
type Strategy int

const (
	// Native uses Element.ClassList.
	Native Strategy = iota
	// Shim splits and joins the class attribute.
	Shim
)

// Detect picks the strategy a host supports.
func Detect(f dom.Features) Strategy {
	if f.ClassList {
		return Native
	}
	return Shim
}

func (s Strategy) String() string {
	switch s {
	case Native:
		return "native"
	case Shim:
		return "shim"
	default:
		return "unknown"
	}
}

// For wraps el. Native falls back to Shim for an element whose document
// does not provide a class list.
func (s Strategy) For(el *dom.Element) *List {
	if s == Native {
		if tl := el.ClassList(); tl != nil {
			return &List{el: el, set: nativeSet{tl}}
		}
	}
	return &List{el: el, set: shimSet{el}}
}

// classSet is the per-strategy implementation behind List.
type classSet interface {
	add(names []string) error
	remove(names []string) error
	toggle(name string) (bool, error)
	contains(name string) bool
	values() []string
}

// List is the class set of one element.
type List struct {
	el  *dom.Element
	set classSet
}

// Element returns the wrapped element.
func (l *List) Element() *dom.Element {
	return l.el
}

// Add ensures every name is present. No name is added if any is invalid.
func (l *List) Add(names ...string) error {
	return l.set.add(names)
}

// Remove removes every name that is present.
func (l *List) Remove(names ...string) error {
	return l.set.remove(names)
}

// RemoveMatching removes every present class matching re, left to right.
func (l *List) RemoveMatching(re *regexp.Regexp) error {
	for _, name := range l.Array() {
		if !re.MatchString(name) {
			continue
		}
		if err := l.set.remove([]string{name}); err != nil {
			return err
		}
	}
	return nil
}

// Toggle adds name if absent and removes it if present. It reports whether
// name is present afterwards.
func (l *List) Toggle(name string) (bool, error) {
	return l.set.toggle(name)
}

// Contains reports whether name is present.
func (l *List) Contains(name string) bool {
	return l.set.contains(name)
}

// Array returns the classes in attribute order.
func (l *List) Array() []string {
	return l.set.values()
}

func (l *List) String() string {
	return strings.Join(l.Array(), " ")
}

type nativeSet struct {
	tl *dom.DOMTokenList
}

func (n nativeSet) add(names []string) error    { return n.tl.Add(names...) }
func (n nativeSet) remove(names []string) error { return n.tl.Remove(names...) }
func (n nativeSet) contains(name string) bool   { return n.tl.Contains(name) }
func (n nativeSet) values() []string            { return n.tl.Values() }

func (n nativeSet) toggle(name string) (bool, error) {
	return n.tl.Toggle(name)
}

type shimSet struct {
	el *dom.Element
}

// values splits the attribute on whitespace runs, dropping duplicates.
func (s shimSet) values() []string {
	var out []string
	for _, name := range strings.Fields(s.el.ClassName()) {
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

func (s shimSet) write(names []string) {
	// An absent attribute stays absent when there is nothing to write.
	if len(names) == 0 && !s.el.HasAttribute("class") {
		return
	}
	s.el.SetClassName(strings.Join(names, " "))
}

func validate(names []string) error {
	for _, name := range names {
		if err := dom.ValidateToken(name); err != nil {
			return err
		}
	}
	return nil
}

func (s shimSet) add(names []string) error {
	if err := validate(names); err != nil {
		return err
	}
	current := s.values()
	for _, name := range names {
		if !slices.Contains(current, name) {
			current = append(current, name)
		}
	}
	s.write(current)
	return nil
}

func (s shimSet) remove(names []string) error {
	if err := validate(names); err != nil {
		return err
	}
	current := s.values()
	kept := current[:0]
	for _, name := range current {
		if !slices.Contains(names, name) {
			kept = append(kept, name)
		}
	}
	s.write(kept)
	return nil
}

func (s shimSet) toggle(name string) (bool, error) {
	if err := dom.ValidateToken(name); err != nil {
		return false, err
	}
	if s.contains(name) {
		return false, s.remove([]string{name})
	}
	return true, s.add([]string{name})
}

func (s shimSet) contains(name string) bool {
	return slices.Contains(s.values(), name)
}
