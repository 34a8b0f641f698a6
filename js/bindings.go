package js

import (
	"regexp"
	"strconv"
	"strings"
	"weak"

	"github.com/dop251/goja"

	"github.com/stagas/dom-lite/binder"
	"github.com/stagas/dom-lite/classes"
	"github.com/stagas/dom-lite/css"
	"github.com/stagas/dom-lite/dom"
	"github.com/stagas/dom-lite/style"
	"github.com/stagas/dom-lite/trigger"
)

// wrap returns the JavaScript object for el, or null. The same element
// always yields the same object.
func (r *Runtime) wrap(el *dom.Element) goja.Value {
	if el == nil {
		return goja.Null()
	}
	key := weak.Make(el)
	if obj := r.cached(key); obj != nil {
		return obj
	}
	vm := r.vm
	obj := vm.NewObject()
	r.cache(key, obj)

	// Store reference to the Go element
	_ = obj.Set("_goElement", el)

	accessor := func(name string, get func() any, set func(goja.Value)) {
		g := vm.ToValue(func(goja.FunctionCall) goja.Value { return vm.ToValue(get()) })
		var s goja.Value
		if set != nil {
			s = vm.ToValue(func(call goja.FunctionCall) goja.Value {
				set(call.Argument(0))
				return goja.Undefined()
			})
		}
		_ = obj.DefineAccessorProperty(name, g, s, goja.FLAG_FALSE, goja.FLAG_TRUE)
	}
	accessor("tagName", func() any { return el.TagName() }, nil)
	accessor("localName", func() any { return el.LocalName() }, nil)
	accessor("id", func() any { return el.Id() }, func(v goja.Value) { el.SetId(v.String()) })
	accessor("className", func() any { return el.ClassName() }, func(v goja.Value) { el.SetClassName(v.String()) })
	accessor("textContent", func() any { return el.TextContent() }, func(v goja.Value) { el.SetTextContent(v.String()) })
	accessor("innerHTML", func() any { return el.InnerHTML() }, func(v goja.Value) { r.check(el.SetInnerHTML(v.String())) })
	accessor("outerHTML", func() any { return el.OuterHTML() }, nil)
	accessor("isConnected", func() any { return el.IsConnected() }, nil)
	accessor("parentElement", func() any { return r.wrap(el.ParentElement()) }, nil)
	accessor("firstElementChild", func() any { return r.wrap(el.FirstElementChild()) }, nil)
	accessor("nextElementSibling", func() any { return r.wrap(el.NextElementSibling()) }, nil)
	accessor("previousElementSibling", func() any { return r.wrap(el.PreviousElementSibling()) }, nil)
	accessor("children", func() any { return r.array(el.Children()) }, nil)

	_ = obj.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()
		if !el.HasAttribute(name) {
			return goja.Null()
		}
		return vm.ToValue(el.GetAttribute(name))
	})
	_ = obj.Set("setAttribute", func(call goja.FunctionCall) goja.Value {
		el.SetAttribute(call.Argument(0).String(), call.Argument(1).String())
		return goja.Undefined()
	})
	_ = obj.Set("hasAttribute", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.HasAttribute(call.Argument(0).String()))
	})
	_ = obj.Set("removeAttribute", func(call goja.FunctionCall) goja.Value {
		el.RemoveAttribute(call.Argument(0).String())
		return goja.Undefined()
	})
	_ = obj.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		found, err := el.QuerySelector(call.Argument(0).String())
		r.check(err)
		return r.wrap(found)
	})
	_ = obj.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		list, err := el.QuerySelectorAll(call.Argument(0).String())
		r.check(err)
		return r.array(list.Slice())
	})
	_ = obj.Set("matches", func(call goja.FunctionCall) goja.Value {
		ok, err := el.Matches(call.Argument(0).String())
		r.check(err)
		return vm.ToValue(ok)
	})
	_ = obj.Set("contains", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.Contains(r.element(call.Argument(0))))
	})
	return obj
}

func (r *Runtime) array(els []*dom.Element) *goja.Object {
	items := make([]any, len(els))
	for i, el := range els {
		items[i] = r.wrap(el)
	}
	return r.vm.NewArray(items...)
}

// element returns the Go element behind a wrapped object, or nil.
func (r *Runtime) element(v goja.Value) *dom.Element {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	if g := obj.Get("_goElement"); g != nil {
		if el, ok := g.Export().(*dom.Element); ok {
			return el
		}
	}
	return nil
}

// elementLike converts a script value into a shape lite.DOM.Raw accepts:
// a wrapped element, an array of them, an object with an el or els field,
// or an array-like with a jquery marker. Like Raw, el is unwrapped once.
func (r *Runtime) elementLike(v goja.Value) any {
	if obj, ok := v.(*goja.Object); ok && r.element(v) == nil {
		if inner := obj.Get("el"); inner != nil && !goja.IsUndefined(inner) {
			v = inner
		}
	}
	return r.elementShape(v)
}

// elementShape is elementLike without the el field.
func (r *Runtime) elementShape(v goja.Value) any {
	if el := r.element(v); el != nil {
		return el
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	if obj.ClassName() == "Array" {
		return r.elementList(obj)
	}
	if jq := obj.Get("jquery"); jq != nil && !goja.IsUndefined(jq) {
		return r.elementList(obj)
	}
	if els := obj.Get("els"); els != nil && !goja.IsUndefined(els) {
		if o, ok := els.(*goja.Object); ok {
			return r.elementList(o)
		}
	}
	return nil
}

// elementList reads an array-like of wrapped elements.
func (r *Runtime) elementList(obj *goja.Object) []*dom.Element {
	n := int(obj.Get("length").ToInteger())
	out := make([]*dom.Element, 0, n)
	for i := 0; i < n; i++ {
		if el := r.element(obj.Get(strconv.Itoa(i))); el != nil {
			out = append(out, el)
		}
	}
	return out
}

// raw normalizes an argument to an element, throwing if it has no
// element shape.
func (r *Runtime) raw(v goja.Value) *dom.Element {
	el, err := r.dom.Raw(r.elementLike(v))
	r.check(err)
	return el
}

func (r *Runtime) setupDocument() {
	vm := r.vm
	doc := r.dom.Document()
	obj := vm.NewObject()
	r.document = obj

	getter := func(name string, get func() goja.Value) {
		_ = obj.DefineAccessorProperty(name, vm.ToValue(func(goja.FunctionCall) goja.Value { return get() }), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	}
	getter("body", func() goja.Value { return r.wrap(doc.Body()) })
	getter("head", func() goja.Value { return r.wrap(doc.Head()) })
	getter("documentElement", func() goja.Value { return r.wrap(doc.DocumentElement()) })

	_ = obj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		return r.wrap(doc.GetElementById(call.Argument(0).String()))
	})
	_ = obj.Set("createElement", func(call goja.FunctionCall) goja.Value {
		el, err := doc.CreateElement(call.Argument(0).String())
		r.check(err)
		return r.wrap(el)
	})
	_ = obj.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		el, err := doc.QuerySelector(call.Argument(0).String())
		r.check(err)
		return r.wrap(el)
	})
	_ = obj.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		list, err := doc.QuerySelectorAll(call.Argument(0).String())
		r.check(err)
		return r.array(list.Slice())
	})
	vm.Set("document", obj)
}

// setupDOM installs the dom global. Optional leading targets are detected
// by argument count, as are the selector and capture arguments of the
// binding functions.
func (r *Runtime) setupDOM() {
	vm := r.vm
	d := r.dom
	obj := vm.NewObject()
	fn := func(name string, f func(call goja.FunctionCall) goja.Value) {
		_ = obj.Set(name, f)
	}

	fn("create", func(call goja.FunctionCall) goja.Value {
		el, err := d.Create(call.Argument(0).String())
		r.check(err)
		return r.wrap(el)
	})
	fn("get", func(call goja.FunctionCall) goja.Value {
		return r.wrap(d.Get(call.Argument(0).String()))
	})
	fn("find", func(call goja.FunctionCall) goja.Value {
		scope, sel := r.scoped(call)
		el, err := d.FindIn(scope, sel)
		r.check(err)
		return r.wrap(el)
	})
	fn("findAll", func(call goja.FunctionCall) goja.Value {
		scope, sel := r.scoped(call)
		list, err := d.FindAllIn(scope, sel)
		r.check(err)
		return r.array(list.Slice())
	})
	fn("append", func(call goja.FunctionCall) goja.Value {
		target, el := r.targeted(call)
		got, err := d.AppendTo(target, el)
		r.check(err)
		return r.wrap(got)
	})
	fn("prepend", func(call goja.FunctionCall) goja.Value {
		target, el := r.targeted(call)
		got, err := d.PrependTo(target, el)
		r.check(err)
		return r.wrap(got)
	})
	fn("insertBefore", func(call goja.FunctionCall) goja.Value {
		r.check(d.InsertBefore(r.raw(call.Argument(0)), r.raw(call.Argument(1))))
		return goja.Undefined()
	})
	fn("remove", func(call goja.FunctionCall) goja.Value {
		el, err := d.Remove(r.raw(call.Argument(0)))
		r.check(err)
		return r.wrap(el)
	})
	fn("replace", func(call goja.FunctionCall) goja.Value {
		el, err := d.Replace(r.raw(call.Argument(0)), r.raw(call.Argument(1)))
		r.check(err)
		return r.wrap(el)
	})
	fn("css", func(call goja.FunctionCall) goja.Value {
		el := r.raw(call.Argument(0))
		styles := call.Argument(1)
		if prop, ok := styles.Export().(string); ok {
			if len(call.Arguments) == 2 {
				v, err := d.GetCSS(el, prop)
				r.check(err)
				return vm.ToValue(v)
			}
			_, err := d.SetCSS(el, prop, call.Argument(2).Export())
			r.check(err)
			return r.wrap(el)
		}
		m, _ := styles.Export().(map[string]any)
		_, err := d.CSS(el, style.Map(m))
		r.check(err)
		return r.wrap(el)
	})
	fn("style", func(call goja.FunctionCall) goja.Value {
		cs, err := d.Style(r.raw(call.Argument(0)))
		r.check(err)
		return r.computedStyle(cs)
	})
	rect := func(call goja.FunctionCall) goja.Value {
		rc, err := d.Rect(r.raw(call.Argument(0)))
		r.check(err)
		return r.rect(rc)
	}
	fn("rect", rect)
	fn("box", rect)
	fn("classes", func(call goja.FunctionCall) goja.Value {
		list, err := d.Classes(r.raw(call.Argument(0)))
		r.check(err)
		return r.classList(list)
	})
	fn("html", func(call goja.FunctionCall) goja.Value {
		el := r.raw(call.Argument(0))
		if markup := call.Argument(1); markup.ToBoolean() {
			_, err := d.SetHTML(el, markup.String())
			r.check(err)
			return r.wrap(el)
		}
		s, err := d.HTML(el)
		r.check(err)
		return vm.ToValue(s)
	})
	fn("hide", func(call goja.FunctionCall) goja.Value {
		el, err := d.Hide(r.raw(call.Argument(0)))
		r.check(err)
		return r.wrap(el)
	})
	fn("show", func(call goja.FunctionCall) goja.Value {
		el, err := d.Show(r.raw(call.Argument(0)))
		r.check(err)
		return r.wrap(el)
	})

	on := func(call goja.FunctionCall) goja.Value {
		el, event, h, opts := r.bindArgs(call)
		_, err := d.On(el, event, h, opts...)
		r.check(err)
		return r.wrap(el)
	}
	off := func(call goja.FunctionCall) goja.Value {
		el, event, h, opts := r.bindArgs(call)
		_, err := d.Off(el, event, h, opts...)
		r.check(err)
		return r.wrap(el)
	}
	fn("on", on)
	fn("bind", on)
	fn("off", off)
	fn("unbind", off)
	fn("once", func(call goja.FunctionCall) goja.Value {
		el, event, h, opts := r.bindArgs(call)
		_, err := d.Once(el, event, h, opts...)
		r.check(err)
		return r.wrap(el)
	})
	fn("trigger", func(call goja.FunctionCall) goja.Value {
		el := r.raw(call.Argument(0))
		_, err := d.Trigger(el, call.Argument(1).String(), r.triggerOptions(call.Argument(2))...)
		r.check(err)
		return r.wrap(el)
	})
	fn("closest", func(call goja.FunctionCall) goja.Value {
		el, err := d.Closest(r.raw(call.Argument(0)), call.Argument(1).String())
		r.check(err)
		return r.wrap(el)
	})
	fn("raw", func(call goja.FunctionCall) goja.Value {
		return r.wrap(r.raw(call.Argument(0)))
	})
	vm.Set("dom", obj)
}

// scoped reads ([scope], selector).
func (r *Runtime) scoped(call goja.FunctionCall) (*dom.Element, string) {
	if len(call.Arguments) < 2 {
		return r.dom.Document().Body(), call.Argument(0).String()
	}
	return r.raw(call.Argument(0)), call.Argument(1).String()
}

// targeted reads ([target], element).
func (r *Runtime) targeted(call goja.FunctionCall) (*dom.Element, *dom.Element) {
	if len(call.Arguments) < 2 {
		return r.dom.Document().Body(), r.raw(call.Argument(0))
	}
	return r.raw(call.Argument(0)), r.raw(call.Argument(1))
}

// bindArgs reads (el, event, [selector], handler, [capture]). A string
// third argument is the selector.
func (r *Runtime) bindArgs(call goja.FunctionCall) (*dom.Element, string, *dom.Listener, []binder.BindOption) {
	el := r.raw(call.Argument(0))
	event := call.Argument(1).String()
	rest := call.Arguments[min(2, len(call.Arguments)):]

	var opts []binder.BindOption
	if len(rest) > 0 {
		if sel, ok := rest[0].Export().(string); ok {
			opts = append(opts, binder.Selector(sel))
			rest = rest[1:]
		}
	}
	if len(rest) == 0 {
		panic(r.vm.NewTypeError("handler is not a function"))
	}
	h := r.listenerFor(rest[0])
	if len(rest) > 1 {
		opts = append(opts, binder.Capture(rest[1].ToBoolean()))
	}
	return el, event, h, opts
}

func (r *Runtime) triggerOptions(v goja.Value) []trigger.Option {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	num := func(name string) (float64, bool) {
		x := obj.Get(name)
		if x == nil || goja.IsUndefined(x) {
			return 0, false
		}
		return x.ToFloat(), true
	}
	flag := func(name string) (bool, bool) {
		x := obj.Get(name)
		if x == nil || goja.IsUndefined(x) {
			return false, false
		}
		return x.ToBoolean(), true
	}

	var opts []trigger.Option
	cx, hasCX := num("clientX")
	cy, hasCY := num("clientY")
	if hasCX || hasCY {
		opts = append(opts, trigger.Client(cx, cy))
	}
	sx, hasSX := num("screenX")
	sy, hasSY := num("screenY")
	if hasSX || hasSY {
		if !hasSX {
			sx = cx
		}
		if !hasSY {
			sy = cy
		}
		opts = append(opts, trigger.Screen(sx, sy))
	}
	if b, ok := num("button"); ok {
		opts = append(opts, trigger.Button(int(b)))
	}
	if n, ok := num("detail"); ok {
		opts = append(opts, trigger.Detail(int(n)))
	}
	for name, mk := range map[string]func(bool) trigger.Option{
		"ctrlKey":    trigger.Ctrl,
		"altKey":     trigger.Alt,
		"shiftKey":   trigger.Shift,
		"metaKey":    trigger.Meta,
		"bubbles":    trigger.Bubbles,
		"cancelable": trigger.Cancelable,
	} {
		if on, ok := flag(name); ok {
			opts = append(opts, mk(on))
		}
	}
	if rt := obj.Get("relatedTarget"); rt != nil && !goja.IsUndefined(rt) {
		opts = append(opts, trigger.RelatedTarget(r.element(rt)))
	}
	return opts
}

func (r *Runtime) computedStyle(cs *css.ComputedStyle) *goja.Object {
	vm := r.vm
	obj := vm.NewObject()
	for _, prop := range cs.Properties() {
		_ = obj.Set(dom.CamelCasePropertyName(prop), cs.Get(prop))
	}
	_ = obj.Set("getPropertyValue", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(cs.Get(call.Argument(0).String()))
	})
	return obj
}

func (r *Runtime) rect(rc *dom.DOMRect) *goja.Object {
	obj := r.vm.NewObject()
	_ = obj.Set("x", rc.X)
	_ = obj.Set("y", rc.Y)
	_ = obj.Set("width", rc.Width)
	_ = obj.Set("height", rc.Height)
	_ = obj.Set("top", rc.Top())
	_ = obj.Set("right", rc.Right())
	_ = obj.Set("bottom", rc.Bottom())
	_ = obj.Set("left", rc.Left())
	return obj
}

// regexpFlags maps the i, m and s flags of a script RegExp to a Go
// flag group.
func regexpFlags(flags string) string {
	var out strings.Builder
	for _, f := range flags {
		if strings.ContainsRune("ims", f) {
			out.WriteRune(f)
		}
	}
	if out.Len() == 0 {
		return ""
	}
	return "(?" + out.String() + ")"
}

// classList wraps list. Mutating methods return the wrapper for chaining;
// remove also accepts a RegExp.
func (r *Runtime) classList(list *classes.List) *goja.Object {
	vm := r.vm
	obj := vm.NewObject()
	names := func(call goja.FunctionCall) []string {
		out := make([]string, len(call.Arguments))
		for i, a := range call.Arguments {
			out[i] = a.String()
		}
		return out
	}

	_ = obj.Set("add", func(call goja.FunctionCall) goja.Value {
		r.check(list.Add(names(call)...))
		return obj
	})
	_ = obj.Set("remove", func(call goja.FunctionCall) goja.Value {
		if re, ok := call.Argument(0).(*goja.Object); ok && re.ClassName() == "RegExp" {
			pattern, err := regexp.Compile(regexpFlags(re.Get("flags").String()) + re.Get("source").String())
			r.check(err)
			r.check(list.RemoveMatching(pattern))
			return obj
		}
		r.check(list.Remove(names(call)...))
		return obj
	})
	_ = obj.Set("toggle", func(call goja.FunctionCall) goja.Value {
		_, err := list.Toggle(call.Argument(0).String())
		r.check(err)
		return obj
	})
	_ = obj.Set("has", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(list.Contains(call.Argument(0).String()))
	})
	_ = obj.Set("contains", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(list.Contains(call.Argument(0).String()))
	})
	_ = obj.Set("array", func(goja.FunctionCall) goja.Value {
		items := list.Array()
		out := make([]any, len(items))
		for i, s := range items {
			out[i] = s
		}
		return vm.NewArray(out...)
	})
	_ = obj.Set("toString", func(goja.FunctionCall) goja.Value {
		return vm.ToValue(list.String())
	})
	return obj
}
