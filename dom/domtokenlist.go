package dom

import (
	"fmt"
	"slices"
	"strings"
)

// ValidateToken checks a token the way DOMTokenList does: an empty token is
// a SyntaxError, a token containing ASCII whitespace is an
// InvalidCharacterError.
func ValidateToken(token string) error {
	if token == "" {
		return ErrSyntax("The token provided must not be empty.")
	}
	if strings.ContainsAny(token, " \t\n\r\f") {
		return ErrInvalidCharacter(fmt.Sprintf("The token provided ('%s') contains HTML space characters, which are not valid in tokens.", token))
	}
	return nil
}

// DOMTokenList represents a set of space-separated tokens.
// It is used for Element.classList.
type DOMTokenList struct {
	element  *Element
	attrName string // The attribute this token list is associated with (e.g., "class")
}

// newDOMTokenList creates a new DOMTokenList for the given element and attribute.
func newDOMTokenList(element *Element, attrName string) *DOMTokenList {
	return &DOMTokenList{
		element:  element,
		attrName: attrName,
	}
}

// tokens returns the current list of tokens (deduplicated, preserving order).
func (dtl *DOMTokenList) tokens() []string {
	value := dtl.element.GetAttribute(dtl.attrName)
	if value == "" {
		return nil
	}
	allTokens := strings.Fields(value)
	result := make([]string, 0, len(allTokens))
	for _, token := range allTokens {
		if !slices.Contains(result, token) {
			result = append(result, token)
		}
	}
	return result
}

// setTokens writes the tokens back to the attribute. An absent attribute
// stays absent when there is nothing to write.
func (dtl *DOMTokenList) setTokens(tokens []string) {
	if len(tokens) > 0 || dtl.element.HasAttribute(dtl.attrName) {
		dtl.element.SetAttribute(dtl.attrName, strings.Join(tokens, " "))
	}
}

func validateTokens(tokens []string) error {
	for _, token := range tokens {
		if err := ValidateToken(token); err != nil {
			return err
		}
	}
	return nil
}

// Length returns the number of tokens.
func (dtl *DOMTokenList) Length() int {
	return len(dtl.tokens())
}

// Item returns the token at the given index, or empty string if out of bounds.
func (dtl *DOMTokenList) Item(index int) string {
	tokens := dtl.tokens()
	if index < 0 || index >= len(tokens) {
		return ""
	}
	return tokens[index]
}

// Contains returns true if the given token is in the list.
// Invalid tokens are never contained.
func (dtl *DOMTokenList) Contains(token string) bool {
	if ValidateToken(token) != nil {
		return false
	}
	return slices.Contains(dtl.tokens(), token)
}

// Add adds one or more tokens to the list.
func (dtl *DOMTokenList) Add(tokens ...string) error {
	if err := validateTokens(tokens); err != nil {
		return err
	}
	current := dtl.tokens()
	for _, token := range tokens {
		if !slices.Contains(current, token) {
			current = append(current, token)
		}
	}
	dtl.setTokens(current)
	return nil
}

// Remove removes one or more tokens from the list.
func (dtl *DOMTokenList) Remove(tokens ...string) error {
	if err := validateTokens(tokens); err != nil {
		return err
	}
	current := dtl.tokens()
	result := current[:0]
	for _, t := range current {
		if !slices.Contains(tokens, t) {
			result = append(result, t)
		}
	}
	dtl.setTokens(result)
	return nil
}

// Toggle toggles the presence of a token.
// If force is provided, it forces add (true) or remove (false).
// Returns true if the token is present after the operation.
func (dtl *DOMTokenList) Toggle(token string, force ...bool) (bool, error) {
	if err := ValidateToken(token); err != nil {
		return false, err
	}
	present := dtl.Contains(token)
	want := !present
	if len(force) > 0 {
		want = force[0]
	}
	switch {
	case want && !present:
		return true, dtl.Add(token)
	case !want && present:
		return false, dtl.Remove(token)
	}
	return present, nil
}

// Replace replaces oldToken with newToken in place.
// Returns true if oldToken was present.
func (dtl *DOMTokenList) Replace(oldToken, newToken string) (bool, error) {
	// Empty-token errors take precedence over whitespace errors.
	if oldToken == "" || newToken == "" {
		return false, ErrSyntax("The token provided must not be empty.")
	}
	if err := validateTokens([]string{oldToken, newToken}); err != nil {
		return false, err
	}
	current := dtl.tokens()
	idx := slices.Index(current, oldToken)
	if idx == -1 {
		return false, nil
	}
	result := make([]string, 0, len(current))
	for i, t := range current {
		switch {
		case i == idx:
			if !slices.Contains(result, newToken) {
				result = append(result, newToken)
			}
		case t == newToken:
			if !slices.Contains(result, newToken) && slices.Index(current, newToken) < idx {
				result = append(result, t)
			}
		default:
			result = append(result, t)
		}
	}
	dtl.setTokens(result)
	return true, nil
}

// Value returns the underlying string value.
func (dtl *DOMTokenList) Value() string {
	return dtl.element.GetAttribute(dtl.attrName)
}

// SetValue sets the underlying string value.
func (dtl *DOMTokenList) SetValue(value string) {
	dtl.element.SetAttribute(dtl.attrName, value)
}

// String returns the string representation (same as Value).
func (dtl *DOMTokenList) String() string {
	return dtl.Value()
}

// Values returns the tokens in order.
func (dtl *DOMTokenList) Values() []string {
	return dtl.tokens()
}
