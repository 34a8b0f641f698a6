package js

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/stagas/dom-lite/dom"
)

// funcListener is stored on a function object. fn guards against a value
// inherited through the prototype chain.
type funcListener struct {
	fn       *goja.Object
	listener *dom.Listener
}

// listenerFor returns the listener for the function v, creating it on first
// use. The listener is stored on the function under a runtime-private
// symbol, so passing the same function to off removes what on added and
// both are collected together.
func (r *Runtime) listenerFor(v goja.Value) *dom.Listener {
	fn, ok := goja.AssertFunction(v)
	if !ok {
		panic(r.vm.NewTypeError("handler is not a function"))
	}
	obj := v.(*goja.Object)
	if stored := obj.GetSymbol(r.listenerSym); stored != nil {
		if fl, ok := stored.Export().(*funcListener); ok && fl.fn == obj {
			return fl.listener
		}
	}
	l := dom.NewListener(func(e *dom.Event) {
		this := r.target(e.CurrentTarget())
		if _, err := fn(this, r.eventObject(e)); err != nil {
			r.recordError(err)
			r.logger.WithError(err).WithField("event", e.Type).Error("listener failed")
		}
	})
	// A frozen function cannot carry the listener; off then cannot find it.
	_ = obj.DefineDataPropertySymbol(r.listenerSym, r.vm.ToValue(&funcListener{fn: obj, listener: l}), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_FALSE)
	return l
}

func (r *Runtime) target(t dom.EventTarget) goja.Value {
	switch t := t.(type) {
	case *dom.Element:
		return r.wrap(t)
	case *dom.Document:
		return r.document
	default:
		return goja.Undefined()
	}
}

// eventObject builds the JavaScript view of e. Dispatch state is read
// through accessors so it stays current while the event propagates.
func (r *Runtime) eventObject(e *dom.Event) *goja.Object {
	vm := r.vm
	obj := vm.NewObject()
	_ = obj.Set("type", e.Type)
	_ = obj.Set("bubbles", e.Bubbles)
	_ = obj.Set("cancelable", e.Cancelable)
	_ = obj.Set("detail", e.Detail)
	_ = obj.Set("target", r.wrap(e.Target()))

	getter := func(fn func() any) goja.Value {
		return vm.ToValue(func(goja.FunctionCall) goja.Value { return vm.ToValue(fn()) })
	}
	_ = obj.DefineAccessorProperty("currentTarget", getter(func() any { return r.target(e.CurrentTarget()) }), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	_ = obj.DefineAccessorProperty("eventPhase", getter(func() any { return int(e.Phase()) }), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	_ = obj.DefineAccessorProperty("defaultPrevented", getter(func() any { return e.DefaultPrevented() }), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	_ = obj.Set("preventDefault", func(goja.FunctionCall) goja.Value {
		e.PreventDefault()
		return goja.Undefined()
	})
	_ = obj.Set("stopPropagation", func(goja.FunctionCall) goja.Value {
		e.StopPropagation()
		return goja.Undefined()
	})
	_ = obj.Set("stopImmediatePropagation", func(goja.FunctionCall) goja.Value {
		e.StopImmediatePropagation()
		return goja.Undefined()
	})

	if m := e.Mouse; m != nil {
		_ = obj.Set("clientX", m.ClientX)
		_ = obj.Set("clientY", m.ClientY)
		_ = obj.Set("screenX", m.ScreenX)
		_ = obj.Set("screenY", m.ScreenY)
		_ = obj.Set("button", m.Button)
		_ = obj.Set("ctrlKey", m.CtrlKey)
		_ = obj.Set("altKey", m.AltKey)
		_ = obj.Set("shiftKey", m.ShiftKey)
		_ = obj.Set("metaKey", m.MetaKey)
		_ = obj.Set("relatedTarget", r.wrap(m.RelatedTarget))
	}
	_ = obj.Set("toString", func(goja.FunctionCall) goja.Value {
		return vm.ToValue(fmt.Sprintf("[object %s]", e.Kind))
	})
	return obj
}
