package js

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/stagas/dom-lite/dom"
	"github.com/stagas/dom-lite/lite"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newRuntime(t *testing.T, body string, opts ...Option) *Runtime {
	t.Helper()
	doc, err := dom.ParseHTML("<!DOCTYPE html><html><head></head><body>" + body + "</body></html>")
	require.NoError(t, err)
	return NewRuntime(lite.New(doc), opts...)
}

func run(t *testing.T, r *Runtime, src string) any {
	t.Helper()
	v, err := r.RunString(t.Name(), src)
	require.NoError(t, err)
	return v.Export()
}

func TestRunString(t *testing.T) {
	r := newRuntime(t, "")
	assert.EqualValues(t, 3, run(t, r, "1 + 2"))

	_, err := r.RunString("broken.js", "function (")
	require.Error(t, err)
	assert.Len(t, r.Errors(), 1)
}

func TestRunFile(t *testing.T) {
	r := newRuntime(t, "")
	path := filepath.Join(t.TempDir(), "script.js")
	require.NoError(t, os.WriteFile(path, []byte(`dom.append(dom.create('<p id="made">hi</p>'))`), 0o600))

	require.NoError(t, r.RunFile(path))
	el := r.dom.Get("made")
	require.NotNil(t, el)
	assert.Equal(t, "hi", el.TextContent())

	assert.Error(t, r.RunFile(filepath.Join(t.TempDir(), "missing.js")))
}

func TestConsoleLogsThroughLogrus(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	r := newRuntime(t, "", WithLogger(logger))

	run(t, r, `console.log("a", 1, null); console.warn("careful"); console.error("bad")`)

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, "a 1 null", entries[0].Message)
	assert.Equal(t, logrus.InfoLevel, entries[0].Level)
	assert.Equal(t, logrus.WarnLevel, entries[1].Level)
	assert.Equal(t, logrus.ErrorLevel, entries[2].Level)
	assert.Equal(t, "console", entries[2].Data["source"])
}

func TestErrorsAreThrown(t *testing.T) {
	r := newRuntime(t, "")

	assert.Equal(t, "NotFoundError", run(t, r, `
		var name;
		try { dom.remove(dom.create('div')) } catch (e) { name = e.name }
		name`))
	assert.Equal(t, "SyntaxError", run(t, r, `
		try { dom.find('[') } catch (e) { name = e.name }
		name`))
	assert.Equal(t, true, run(t, r, `
		var thrown = false;
		try { dom.trigger(document.body, 'explode') } catch (e) { thrown = /unknown event/.test(e.message) }
		thrown`))

	_, err := r.RunString("raw.js", `dom.raw(42)`)
	assert.ErrorContains(t, err, "not an element")
}

func TestListenerErrorsAreRecorded(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	r := newRuntime(t, `<button>go</button>`, WithLogger(logger))

	run(t, r, `
		var b = dom.find('button');
		dom.on(b, 'click', function () { throw new Error('boom') });
		dom.trigger(b, 'click');`)

	require.Len(t, r.Errors(), 1)
	assert.Contains(t, r.Errors()[0].Error(), "boom")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "listener failed", hook.LastEntry().Message)
}

func cachedElements(r *Runtime) int {
	r.elemMu.Lock()
	defer r.elemMu.Unlock()
	return len(r.elements)
}

func TestRemovedElementsAreReleased(t *testing.T) {
	r := newRuntime(t, `<button id="b">go</button>`)
	run(t, r, `(function () {
		function f() {}
		for (var i = 0; i < 2000; i++) {
			var el = dom.append(dom.create('div'));
			dom.on(el, 'click', f);
			dom.remove(el);
		}
	})()`)

	assert.Eventually(t, func() bool {
		runtime.GC()
		return cachedElements(r) < 10
	}, 5*time.Second, 10*time.Millisecond)

	assert.EqualValues(t, 1, run(t, r, `
		var n = 0;
		dom.on(dom.get('b'), 'click', function () { n++ });
		dom.trigger(dom.get('b'), 'click');
		n`))
}
