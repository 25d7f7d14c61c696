package gojahost

import (
	"github.com/dop251/goja"

	"github.com/GriffinCanCode/scriptbridge/internal/host"
)

// scriptable presents a host.Scriptable to scripts as a dynamic object.
// Methods read as functions; failures are thrown into the script.
type scriptable struct {
	r *Runtime
	s host.Scriptable
}

func (r *Runtime) expose(s host.Scriptable) goja.Value {
	s.Retain()
	r.adopted = append(r.adopted, s)
	obj := r.vm.NewDynamicObject(&scriptable{r: r, s: s})
	r.exposed[obj] = s
	return obj
}

// unwrap returns the scriptable behind an exposed object
func (r *Runtime) unwrap(obj *goja.Object) (host.Scriptable, bool) {
	s, ok := r.exposed[obj]
	return s, ok
}

// throw raises the pending exception inside the running script. The
// exception's object reference, if any, is consumed.
func (r *Runtime) throw(exc *host.Exception) {
	v := exc.Value()
	if v.IsString() {
		panic(r.vm.NewTypeError(v.AsString()))
	}
	val := r.toValue(v)
	if v.IsObject() {
		v.AsObject().Release()
	}
	panic(val)
}

func (d *scriptable) Get(key string) goja.Value {
	name := host.String(key)
	var exc host.Exception

	if d.s.HasMethod(name, &exc) {
		return d.r.vm.ToValue(d.method(key))
	}
	if !d.s.HasProperty(name, &exc) {
		if exc.Pending() {
			d.r.throw(&exc)
		}
		return nil
	}

	v := d.s.GetProperty(name, &exc)
	if exc.Pending() {
		d.r.throw(&exc)
	}
	defer d.r.ReleaseVariant(&v)
	return d.r.toValue(v)
}

func (d *scriptable) Set(key string, val goja.Value) bool {
	v, ok := d.r.toVariant(val)
	if !ok {
		panic(d.r.vm.NewTypeError("cannot pass value to native object"))
	}
	defer d.r.ReleaseVariant(&v)

	var exc host.Exception
	d.s.SetProperty(host.String(key), v, &exc)
	if exc.Pending() {
		d.r.throw(&exc)
	}
	return true
}

func (d *scriptable) Has(key string) bool {
	name := host.String(key)
	var exc host.Exception
	return d.s.HasMethod(name, &exc) || d.s.HasProperty(name, &exc)
}

func (d *scriptable) Delete(string) bool { return false }

func (d *scriptable) Keys() []string {
	var exc host.Exception
	names := d.s.PropertyNames(&exc)
	if exc.Pending() {
		d.r.throw(&exc)
	}
	defer host.ReleaseAll(d.r, names)

	keys := make([]string, 0, len(names))
	for _, n := range names {
		keys = append(keys, n.AsString())
	}
	return keys
}

func (d *scriptable) method(name string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		return d.r.invoke(d.s, host.String(name), call.Arguments)
	}
}

// invoke converts args, calls method on s and converts the result back.
// A Void method requests construction.
func (r *Runtime) invoke(s host.Scriptable, method host.Variant, jsArgs []goja.Value) goja.Value {
	args := make([]host.Variant, 0, len(jsArgs))
	defer func() { host.ReleaseAll(r, args) }()
	for _, a := range jsArgs {
		v, ok := r.toVariant(a)
		if !ok {
			panic(r.vm.NewTypeError("cannot pass argument to native method"))
		}
		args = append(args, v)
	}

	var exc host.Exception
	result := s.Call(method, args, &exc)
	if exc.Pending() {
		r.ReleaseVariant(&result)
		r.throw(&exc)
	}
	defer r.ReleaseVariant(&result)
	return r.toValue(result)
}

// constructFunc implements construct(target, ...args)
func (r *Runtime) constructFunc(call goja.FunctionCall) goja.Value {
	target, ok := call.Argument(0).(*goja.Object)
	if !ok {
		panic(r.vm.NewTypeError("construct: target is not a native object"))
	}
	s, ok := r.unwrap(target)
	if !ok {
		panic(r.vm.NewTypeError("construct: target is not a native object"))
	}
	var rest []goja.Value
	if len(call.Arguments) > 1 {
		rest = call.Arguments[1:]
	}
	return r.invoke(s, host.Void(), rest)
}
