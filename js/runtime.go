// Package js exposes a lite.DOM to JavaScript.
// It uses the goja JavaScript engine (pure Go ES5.1+ implementation).
package js

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"weak"

	"github.com/dop251/goja"
	"github.com/sirupsen/logrus"

	"github.com/stagas/dom-lite/dom"
	"github.com/stagas/dom-lite/lite"
)

// Runtime wraps a goja runtime with the dom, document and console globals.
type Runtime struct {
	vm     *goja.Runtime
	dom    *lite.DOM
	logger logrus.FieldLogger

	// One JS object per element while the script holds it. Guarded by
	// elemMu; cleanups delete entries from their own goroutine.
	elemMu   sync.Mutex
	elements map[weak.Pointer[dom.Element]]weak.Pointer[goja.Object]

	listenerSym *goja.Symbol // function property holding its *dom.Listener
	document    *goja.Object

	mu sync.Mutex // serializes script runs

	errMu  sync.Mutex
	errors []error
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger console output and listener failures go to.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// NewRuntime creates a runtime bound to d.
func NewRuntime(d *lite.DOM, opts ...Option) *Runtime {
	r := &Runtime{
		vm:          goja.New(),
		dom:         d,
		elements:    make(map[weak.Pointer[dom.Element]]weak.Pointer[goja.Object]),
		listenerSym: goja.NewSymbol("listener"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		r.logger = l
	}

	r.setupConsole()
	r.setupDocument()
	r.setupDOM()
	return r
}

// cached returns the live JS object for key, or nil.
func (r *Runtime) cached(key weak.Pointer[dom.Element]) *goja.Object {
	r.elemMu.Lock()
	defer r.elemMu.Unlock()
	if wp, ok := r.elements[key]; ok {
		return wp.Value()
	}
	return nil
}

func (r *Runtime) cache(key weak.Pointer[dom.Element], obj *goja.Object) {
	r.elemMu.Lock()
	r.elements[key] = weak.Make(obj)
	r.elemMu.Unlock()
	runtime.AddCleanup(obj, r.uncache, key)
}

// uncache drops the entry of a collected JS object unless a newer object
// replaced it.
func (r *Runtime) uncache(key weak.Pointer[dom.Element]) {
	r.elemMu.Lock()
	defer r.elemMu.Unlock()
	if wp, ok := r.elements[key]; ok && wp.Value() == nil {
		delete(r.elements, key)
	}
}

// VM returns the underlying goja runtime.
func (r *Runtime) VM() *goja.Runtime {
	return r.vm
}

// RunString compiles and runs src. name is used in stack traces.
func (r *Runtime) RunString(name, src string) (result goja.Value, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Recover from panics in the goja parser/compiler
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script panic in %s: %v", name, p)
			r.recordError(err)
		}
	}()

	program, err := goja.Compile(name, src, false)
	if err != nil {
		r.recordError(err)
		return nil, err
	}
	result, err = r.vm.RunProgram(program)
	if err != nil {
		r.recordError(err)
	}
	return result, err
}

// RunFile runs the script at path.
func (r *Runtime) RunFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = r.RunString(path, string(src))
	return err
}

// Errors returns the errors raised by scripts and listeners so far.
func (r *Runtime) Errors() []error {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	return append([]error{}, r.errors...)
}

func (r *Runtime) recordError(err error) {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	r.errors = append(r.errors, err)
}

// throw raises err as a JavaScript exception. DOM errors keep their name.
func (r *Runtime) throw(err error) {
	exc := r.vm.NewGoError(err)
	var de *dom.DOMError
	if errors.As(err, &de) {
		_ = exc.Set("name", de.Name)
	}
	panic(exc)
}

// check throws err if it is not nil.
func (r *Runtime) check(err error) {
	if err != nil {
		r.throw(err)
	}
}

func (r *Runtime) setupConsole() {
	console := r.vm.NewObject()
	levels := map[string]logrus.Level{
		"log":   logrus.InfoLevel,
		"info":  logrus.InfoLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
		"debug": logrus.DebugLevel,
	}
	for name, level := range levels {
		level := level
		_ = console.Set(name, func(call goja.FunctionCall) goja.Value {
			r.logger.WithField("source", "console").Log(level, formatArgs(call.Arguments))
			return goja.Undefined()
		})
	}
	r.vm.Set("console", console)
}

// formatArgs joins console arguments the way browsers print them.
func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		switch {
		case goja.IsUndefined(arg):
			parts[i] = "undefined"
		case goja.IsNull(arg):
			parts[i] = "null"
		default:
			parts[i] = arg.String()
		}
	}
	return strings.Join(parts, " ")
}
