package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectorPage = `<body>
<div id="list" class="list">
  <p class="item first">one</p>
  <p class="item">two <a href="#">link</a></p>
</div>
</body>`

func TestElement_Matches(t *testing.T) {
	doc, err := ParseHTML(selectorPage)
	require.NoError(t, err)
	list := doc.GetElementById("list")

	ok, err := list.Matches("div.list")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = list.Matches("p, #list")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = list.Matches("span")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = list.Matches("p[")
	assert.True(t, IsName(err, "SyntaxError"))
	assert.Error(t, ValidateSelector(""))
	assert.NoError(t, ValidateSelector(".a > .b"))
}

func TestElement_QuerySelector(t *testing.T) {
	doc, err := ParseHTML(selectorPage)
	require.NoError(t, err)
	list := doc.GetElementById("list")

	first, err := list.QuerySelector(".item")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "item first", first.ClassName())

	none, err := list.QuerySelector("span")
	require.NoError(t, err)
	assert.Nil(t, none)

	// The scope element itself is never a result.
	self, err := list.QuerySelector("#list")
	require.NoError(t, err)
	assert.Nil(t, self)

	_, err = doc.QuerySelector("::")
	assert.True(t, IsName(err, "SyntaxError"))
}

func TestElement_QuerySelectorAll(t *testing.T) {
	doc, err := ParseHTML(selectorPage)
	require.NoError(t, err)

	items, err := doc.QuerySelectorAll("p.item")
	require.NoError(t, err)
	require.Equal(t, 2, items.Length())
	assert.Equal(t, "one", items.Item(0).TextContent())
	assert.Nil(t, items.Item(2))

	// The list is static.
	items.Item(0).Remove()
	assert.Equal(t, 2, items.Length())
	again, err := doc.QuerySelectorAll("p.item")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Length())

	var empty *NodeList
	assert.Zero(t, empty.Length())
	assert.Nil(t, empty.Slice())
}

func TestElement_Closest(t *testing.T) {
	doc, err := ParseHTML(selectorPage)
	require.NoError(t, err)
	link, err := doc.QuerySelector("a")
	require.NoError(t, err)

	p, err := link.Closest("p")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "item", p.ClassName())

	self, err := link.Closest("a")
	require.NoError(t, err)
	assert.Same(t, link, self)

	none, err := link.Closest("table")
	require.NoError(t, err)
	assert.Nil(t, none)
}
