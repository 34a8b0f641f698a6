package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagas/dom-lite/dom"
)

func setup(t *testing.T) (*dom.Element, *dom.Element) {
	t.Helper()
	doc := dom.NewDocument()
	child, err := doc.CreateElement("button")
	require.NoError(t, err)
	_, err = doc.Body().AppendChild(child)
	require.NoError(t, err)
	return doc.Body(), child
}

func capture(el *dom.Element, name string) *[]*dom.Event {
	var got []*dom.Event
	el.AddEventListener(name, dom.NewListener(func(e *dom.Event) {
		got = append(got, e)
	}), false)
	return &got
}

func TestKind(t *testing.T) {
	for _, name := range []string{"load", "unload", "abort", "error", "select", "change", "submit", "reset", "focus", "blur", "resize", "scroll", "input"} {
		k, ok := Kind(name)
		assert.True(t, ok, name)
		assert.Equal(t, dom.KindEvent, k, name)
	}
	for _, name := range []string{"click", "dblclick", "mousedown", "mouseup", "mouseover", "mousemove", "mouseout", "contextmenu"} {
		k, ok := Kind(name)
		assert.True(t, ok, name)
		assert.Equal(t, dom.KindMouseEvent, k, name)
	}
	_, ok := Kind("keydown")
	assert.False(t, ok)
}

func TestUnknownEvent(t *testing.T) {
	_, child := setup(t)
	got := capture(child, "keydown")

	_, err := Fire(child, "keydown")
	require.ErrorIs(t, err, ErrUnknownEvent)
	assert.Contains(t, err.Error(), "keydown")
	assert.Empty(t, *got)
}

func TestClickDefaults(t *testing.T) {
	body, child := setup(t)
	got := capture(body, "click")

	ok, err := Fire(child, "click")
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, *got, 1)

	e := (*got)[0]
	assert.Equal(t, dom.KindMouseEvent, e.Kind)
	assert.True(t, e.Bubbles)
	assert.True(t, e.Cancelable)
	assert.Equal(t, 1, e.Detail)
	require.NotNil(t, e.Mouse)
	assert.Equal(t, dom.MouseData{RelatedTarget: child}, *e.Mouse)
	assert.Same(t, child, e.Target())
}

func TestMouseOptions(t *testing.T) {
	_, child := setup(t)
	got := capture(child, "mousemove")

	_, err := Fire(child, "mousemove", Client(10, 35), Ctrl(true), Shift(true), Button(1))
	require.NoError(t, err)
	m := (*got)[0].Mouse
	assert.Equal(t, 10.0, m.ClientX)
	assert.Equal(t, 35.0, m.ClientY)
	assert.Equal(t, 10.0, m.ScreenX)
	assert.Equal(t, 35.0, m.ScreenY)
	assert.True(t, m.CtrlKey)
	assert.True(t, m.ShiftKey)
	assert.False(t, m.AltKey)
	assert.False(t, m.MetaKey)
	assert.Equal(t, 1, m.Button)

	_, err = Fire(child, "mousemove", Client(1, 2), Screen(100, 200), Alt(true), Meta(true), RelatedTarget(nil))
	require.NoError(t, err)
	m = (*got)[1].Mouse
	assert.Equal(t, 100.0, m.ScreenX)
	assert.Equal(t, 200.0, m.ScreenY)
	assert.True(t, m.AltKey)
	assert.True(t, m.MetaKey)
	assert.Nil(t, m.RelatedTarget)
}

func TestDetail(t *testing.T) {
	_, child := setup(t)

	ev, err := New(child, "dblclick")
	require.NoError(t, err)
	assert.Equal(t, 2, ev.Detail)

	ev, err = New(child, "dblclick", Detail(5))
	require.NoError(t, err)
	assert.Equal(t, 5, ev.Detail)

	ev, err = New(child, "mousedown")
	require.NoError(t, err)
	assert.Equal(t, 1, ev.Detail)
}

func TestContextMenuButton(t *testing.T) {
	_, child := setup(t)

	ev, err := New(child, "contextmenu")
	require.NoError(t, err)
	assert.Equal(t, 2, ev.Mouse.Button)

	ev, err = New(child, "contextmenu", Button(0))
	require.NoError(t, err)
	assert.Equal(t, 0, ev.Mouse.Button)
}

func TestGenericEvent(t *testing.T) {
	body, child := setup(t)
	got := capture(body, "change")

	_, err := Fire(child, "change")
	require.NoError(t, err)
	require.Len(t, *got, 1)
	assert.Equal(t, dom.KindEvent, (*got)[0].Kind)
	assert.Nil(t, (*got)[0].Mouse)

	_, err = Fire(child, "change", Bubbles(false))
	require.NoError(t, err)
	assert.Len(t, *got, 1)

	_, err = Fire(child, "change", Ctrl(true), Alt(true), Shift(true), Meta(true))
	require.NoError(t, err)
	require.Len(t, *got, 2)
	assert.Nil(t, (*got)[1].Mouse)
}

func TestCancel(t *testing.T) {
	_, child := setup(t)
	child.AddEventListener("submit", dom.NewListener(func(e *dom.Event) {
		e.PreventDefault()
	}), false)

	ok, err := Fire(child, "submit")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Fire(child, "submit", Cancelable(false))
	require.NoError(t, err)
	assert.True(t, ok)
}
