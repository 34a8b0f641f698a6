package dom

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCreate(t *testing.T, doc *Document, tag string) *Element {
	t.Helper()
	el, err := doc.CreateElement(tag)
	require.NoError(t, err)
	return el
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument()
	require.NotNil(t, doc.DocumentElement())
	assert.Equal(t, "HTML", doc.DocumentElement().TagName())
	require.NotNil(t, doc.Head())
	require.NotNil(t, doc.Body())
	assert.Equal(t, "body", doc.Body().LocalName())
	assert.Equal(t, DefaultFeatures(), doc.Features())
}

func TestDocument_WithFeatures(t *testing.T) {
	doc := NewDocument(WithFeatures(Features{}))
	assert.Equal(t, Features{}, doc.Features())

	el := mustCreate(t, doc, "div")
	assert.Nil(t, el.ClassList())
}

func TestDocument_CreateElement(t *testing.T) {
	doc := NewDocument()
	el := mustCreate(t, doc, "DiV")

	assert.Equal(t, "DIV", el.TagName())
	assert.Equal(t, "div", el.LocalName())
	assert.Nil(t, el.ParentElement())
	assert.False(t, el.IsConnected())
	assert.Same(t, doc, el.OwnerDocument())
}

func TestDocument_CreateElement_InvalidName(t *testing.T) {
	doc := NewDocument()
	for _, name := range []string{"", "1div", "a b", "<p>"} {
		_, err := doc.CreateElement(name)
		require.Error(t, err, name)
		assert.True(t, IsName(err, "InvalidCharacterError"), name)
	}
}

func TestDocument_WrapIsCanonical(t *testing.T) {
	doc, err := ParseHTML(`<html><body><p id="a">x</p></body></html>`)
	require.NoError(t, err)

	byID := doc.GetElementById("a")
	require.NotNil(t, byID)
	byQuery, err := doc.QuerySelector("#a")
	require.NoError(t, err)
	assert.Same(t, byID, byQuery)
	assert.Same(t, byID, doc.Wrap(byID.Node()))
	assert.Nil(t, doc.Wrap(nil))
	assert.Nil(t, doc.Wrap(byID.Node().FirstChild), "text nodes are not elements")
}

func TestDocument_ParseFragment(t *testing.T) {
	doc := NewDocument()
	els, err := doc.ParseFragment(`text <span class="x">a</span><b>b</b>`)
	require.NoError(t, err)
	require.Len(t, els, 2)
	assert.Equal(t, "SPAN", els[0].TagName())
	assert.Equal(t, "x", els[0].ClassName())
	assert.Equal(t, "B", els[1].TagName())
	assert.Nil(t, els[0].ParentElement())
}

func TestElement_Attributes(t *testing.T) {
	doc := NewDocument()
	el := mustCreate(t, doc, "div")

	assert.False(t, el.HasAttribute("title"))
	el.SetAttribute("Title", "hello")
	assert.True(t, el.HasAttribute("title"))
	assert.Equal(t, "hello", el.GetAttribute("TITLE"))

	el.SetAttribute("title", "again")
	assert.Equal(t, []string{"title"}, el.AttributeNames())
	assert.Equal(t, "again", el.GetAttribute("title"))

	el.SetId("main")
	el.SetClassName("a b")
	assert.Equal(t, "main", el.Id())
	assert.Equal(t, "a b", el.ClassName())

	el.RemoveAttribute("title")
	assert.False(t, el.HasAttribute("title"))
	el.RemoveAttribute("title")
}

func TestNode_AppendChild(t *testing.T) {
	doc := NewDocument()
	parent := mustCreate(t, doc, "ul")
	a := mustCreate(t, doc, "li")
	b := mustCreate(t, doc, "li")

	_, err := parent.AppendChild(a)
	require.NoError(t, err)
	_, err = parent.AppendChild(b)
	require.NoError(t, err)
	assert.Equal(t, []*Element{a, b}, parent.Children())
	assert.Same(t, parent, a.ParentElement())

	// Appending an existing child moves it to the end.
	_, err = parent.AppendChild(a)
	require.NoError(t, err)
	assert.Equal(t, []*Element{b, a}, parent.Children())

	_, err = doc.Body().AppendChild(parent)
	require.NoError(t, err)
	assert.True(t, a.IsConnected())
}

func TestNode_AppendChild_Hierarchy(t *testing.T) {
	doc := NewDocument()
	outer := mustCreate(t, doc, "div")
	inner := mustCreate(t, doc, "div")
	_, err := outer.AppendChild(inner)
	require.NoError(t, err)

	_, err = inner.AppendChild(outer)
	assert.True(t, IsName(err, "HierarchyRequestError"))
	_, err = outer.AppendChild(outer)
	assert.True(t, IsName(err, "HierarchyRequestError"))
	_, err = outer.AppendChild(nil)
	assert.True(t, IsName(err, "HierarchyRequestError"))
}

func TestNode_InsertBefore(t *testing.T) {
	doc := NewDocument()
	parent := mustCreate(t, doc, "div")
	a := mustCreate(t, doc, "a")
	b := mustCreate(t, doc, "b")
	c := mustCreate(t, doc, "i")

	_, err := parent.AppendChild(b)
	require.NoError(t, err)
	_, err = parent.InsertBefore(a, b)
	require.NoError(t, err)
	_, err = parent.InsertBefore(c, nil)
	require.NoError(t, err)
	assert.Equal(t, []*Element{a, b, c}, parent.Children())

	_, err = parent.InsertBefore(b, b)
	require.NoError(t, err)
	assert.Equal(t, []*Element{a, b, c}, parent.Children())

	stranger := mustCreate(t, doc, "span")
	_, err = parent.InsertBefore(a, stranger)
	assert.True(t, IsName(err, "NotFoundError"))
}

func TestNode_RemoveChild(t *testing.T) {
	doc := NewDocument()
	parent := mustCreate(t, doc, "div")
	child := mustCreate(t, doc, "span")
	_, err := parent.AppendChild(child)
	require.NoError(t, err)

	removed, err := parent.RemoveChild(child)
	require.NoError(t, err)
	assert.Same(t, child, removed)
	assert.Nil(t, child.ParentElement())

	_, err = parent.RemoveChild(child)
	assert.True(t, IsName(err, "NotFoundError"))

	// Remove on a detached element is a no-op.
	child.Remove()
}

func TestNode_ReplaceChild(t *testing.T) {
	doc := NewDocument()
	parent := mustCreate(t, doc, "div")
	a := mustCreate(t, doc, "a")
	b := mustCreate(t, doc, "b")
	c := mustCreate(t, doc, "i")
	for _, el := range []*Element{a, b, c} {
		_, err := parent.AppendChild(el)
		require.NoError(t, err)
	}

	// Replacing with the next sibling keeps the remaining order.
	old, err := parent.ReplaceChild(b, a)
	require.NoError(t, err)
	assert.Same(t, a, old)
	assert.Equal(t, []*Element{b, c}, parent.Children())

	fresh := mustCreate(t, doc, "em")
	_, err = parent.ReplaceChild(fresh, c)
	require.NoError(t, err)
	assert.Equal(t, []*Element{b, fresh}, parent.Children())

	_, err = parent.ReplaceChild(fresh, c)
	assert.True(t, IsName(err, "NotFoundError"))
}

func TestNode_MoveBetweenDocuments(t *testing.T) {
	src := NewDocument()
	dst := NewDocument()
	el := mustCreate(t, src, "div")
	inner := mustCreate(t, src, "span")
	_, err := el.AppendChild(inner)
	require.NoError(t, err)

	_, err = dst.Body().AppendChild(el)
	require.NoError(t, err)
	assert.Same(t, dst, el.OwnerDocument())
	assert.Same(t, dst, inner.OwnerDocument())
	assert.Same(t, inner, dst.Wrap(inner.Node()))
}

func TestNode_TextContent(t *testing.T) {
	doc := NewDocument()
	el := mustCreate(t, doc, "p")
	require.NoError(t, el.SetInnerHTML("Hello <b>big</b> world"))
	assert.Equal(t, "Hello big world", el.TextContent())

	el.SetTextContent("<plain>")
	assert.Equal(t, "<plain>", el.TextContent())
	assert.Equal(t, "&lt;plain&gt;", el.InnerHTML())
	assert.Empty(t, el.Children())
}

func TestElement_Traversal(t *testing.T) {
	doc, err := ParseHTML(`<body><ul><li id="a"></li>text<li id="b"></li></ul></body>`)
	require.NoError(t, err)
	a := doc.GetElementById("a")
	b := doc.GetElementById("b")

	assert.Same(t, b, a.NextElementSibling())
	assert.Same(t, a, b.PreviousElementSibling())
	assert.Nil(t, b.NextElementSibling())
	assert.Same(t, a, a.ParentElement().FirstElementChild())
	assert.True(t, doc.Body().Contains(a))
	assert.True(t, a.Contains(a))
	assert.False(t, a.Contains(b))
	assert.False(t, a.Contains(nil))
	assert.Nil(t, doc.DocumentElement().ParentElement())
	assert.NotNil(t, doc.DocumentElement().ParentNode())
}

func TestElement_InnerHTML(t *testing.T) {
	doc := NewDocument()
	el := mustCreate(t, doc, "div")
	require.NoError(t, el.SetInnerHTML(`<span class="x">hi</span>`))

	assert.Equal(t, `<span class="x">hi</span>`, el.InnerHTML())
	assert.Equal(t, `<div><span class="x">hi</span></div>`, el.OuterHTML())
	require.Len(t, el.Children(), 1)
	assert.Equal(t, "SPAN", el.Children()[0].TagName())

	require.NoError(t, el.SetInnerHTML(""))
	assert.Empty(t, el.InnerHTML())
}

func TestDocument_OuterHTML(t *testing.T) {
	doc := NewDocument()
	el := mustCreate(t, doc, "p")
	_, err := doc.Body().AppendChild(el)
	require.NoError(t, err)
	assert.Equal(t, "<!DOCTYPE html><html><head></head><body><p></p></body></html>", doc.OuterHTML())
}

func TestDOMRect_Edges(t *testing.T) {
	rect := NewDOMRect(10, 20, 100, 50)
	assert.Equal(t, 20.0, rect.Top())
	assert.Equal(t, 10.0, rect.Left())
	assert.Equal(t, 110.0, rect.Right())
	assert.Equal(t, 70.0, rect.Bottom())
	assert.False(t, rect.IsZero())

	neg := NewDOMRect(100, 100, -50, -30)
	assert.Equal(t, 50.0, neg.Left())
	assert.Equal(t, 100.0, neg.Right())
	assert.Equal(t, 70.0, neg.Top())
	assert.Equal(t, 100.0, neg.Bottom())

	assert.True(t, (&DOMRect{}).IsZero())
	assert.True(t, (*DOMRect)(nil).IsZero())
}

func TestElement_Geometry(t *testing.T) {
	doc := NewDocument()
	el := mustCreate(t, doc, "div")
	assert.Nil(t, el.Geometry())

	r := NewDOMRect(1, 2, 3, 4)
	el.SetGeometry(r)
	assert.Same(t, r, el.Geometry())
}

func trackedNodes(d *Document) int {
	registryMu.Lock()
	defer registryMu.Unlock()
	return len(d.nodes)
}

func TestDocument_ReleasesDetachedNodes(t *testing.T) {
	doc := NewDocument()
	body := doc.Body()
	for i := 0; i < 10000; i++ {
		el := mustCreate(t, doc, "div")
		_, err := body.AppendChild(el)
		require.NoError(t, err)
		el.Remove()
	}
	require.NoError(t, body.SetInnerHTML("<p>a</p><p>b</p>"))
	require.Len(t, body.Children(), 2)
	require.NoError(t, body.SetInnerHTML("<p>a</p>"))

	assert.Eventually(t, func() bool {
		runtime.GC()
		return trackedNodes(doc) < 10
	}, 5*time.Second, 10*time.Millisecond)
	assert.Len(t, body.Children(), 1)
}

func TestDocument_StateOutlivesWrapper(t *testing.T) {
	doc, err := ParseHTML(`<body><button id="b">go</button></body>`)
	require.NoError(t, err)

	calls := 0
	func() {
		el := doc.GetElementById("b")
		el.AddEventListener("click", NewListener(func(*Event) { calls++ }), false)
		el.SetGeometry(NewDOMRect(1, 2, 3, 4))
	}()
	runtime.GC()
	runtime.GC()

	el := doc.GetElementById("b")
	el.DispatchEvent(NewEvent("click", true, true))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, el.ListenerCount("click"))
	assert.Equal(t, NewDOMRect(1, 2, 3, 4), el.Geometry())
}
