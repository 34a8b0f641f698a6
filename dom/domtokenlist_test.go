package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDOMTokenList_Basic(t *testing.T) {
	doc := NewDocument()
	el := mustCreate(t, doc, "div")
	el.SetClassName("  a b  a c ")
	cl := el.ClassList()
	require.NotNil(t, cl)

	assert.Equal(t, 3, cl.Length())
	assert.Equal(t, "b", cl.Item(1))
	assert.Empty(t, cl.Item(3))
	assert.Empty(t, cl.Item(-1))
	assert.Equal(t, []string{"a", "b", "c"}, cl.Values())
	assert.True(t, cl.Contains("c"))
	assert.False(t, cl.Contains("d"))
	assert.False(t, cl.Contains("a b"))
	assert.Equal(t, "  a b  a c ", cl.Value())
}

func TestDOMTokenList_AddRemove(t *testing.T) {
	doc := NewDocument()
	el := mustCreate(t, doc, "div")
	cl := el.ClassList()

	require.NoError(t, cl.Remove("x"))
	assert.False(t, el.HasAttribute("class"), "removing from an absent attribute keeps it absent")

	require.NoError(t, cl.Add("a", "b", "a"))
	assert.Equal(t, "a b", el.ClassName())
	require.NoError(t, cl.Add("a"))
	assert.Equal(t, "a b", el.ClassName())

	require.NoError(t, cl.Remove("a", "zz"))
	assert.Equal(t, "b", el.ClassName())
	require.NoError(t, cl.Remove("b"))
	assert.True(t, el.HasAttribute("class"))
	assert.Empty(t, el.ClassName())
}

func TestDOMTokenList_InvalidTokens(t *testing.T) {
	doc := NewDocument()
	el := mustCreate(t, doc, "div")
	cl := el.ClassList()

	err := cl.Add("ok", "")
	assert.True(t, IsName(err, "SyntaxError"))
	err = cl.Add("ok", "a b")
	assert.True(t, IsName(err, "InvalidCharacterError"))
	assert.False(t, el.HasAttribute("class"), "nothing is added when any token is invalid")

	err = cl.Remove("\t")
	assert.True(t, IsName(err, "InvalidCharacterError"))
	_, err = cl.Toggle("")
	assert.True(t, IsName(err, "SyntaxError"))
	_, err = cl.Replace("a", "")
	assert.True(t, IsName(err, "SyntaxError"))
	_, err = cl.Replace("a b", "c")
	assert.True(t, IsName(err, "InvalidCharacterError"))
}

func TestDOMTokenList_Toggle(t *testing.T) {
	doc := NewDocument()
	el := mustCreate(t, doc, "div")
	cl := el.ClassList()

	on, err := cl.Toggle("x")
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, "x", el.ClassName())

	on, err = cl.Toggle("x")
	require.NoError(t, err)
	assert.False(t, on)
	assert.Empty(t, el.ClassName())

	on, err = cl.Toggle("y", true)
	require.NoError(t, err)
	assert.True(t, on)
	on, err = cl.Toggle("y", true)
	require.NoError(t, err)
	assert.True(t, on)
	on, err = cl.Toggle("z", false)
	require.NoError(t, err)
	assert.False(t, on)
	assert.Equal(t, "y", el.ClassName())
}

func TestDOMTokenList_Replace(t *testing.T) {
	doc := NewDocument()
	el := mustCreate(t, doc, "div")
	cl := el.ClassList()
	cl.SetValue("a b c")

	ok, err := cl.Replace("b", "x")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a x c", cl.String())

	ok, err = cl.Replace("x", "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a c", cl.String())

	ok, err = cl.Replace("a", "c")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "c", cl.String())

	ok, err = cl.Replace("missing", "q")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "c", cl.String())
}
