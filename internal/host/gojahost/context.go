package gojahost

import (
	"strconv"

	"github.com/dop251/goja"

	"github.com/GriffinCanCode/scriptbridge/internal/host"
)

// Object is a script object handed to native code
type Object struct {
	host.RefCount
	obj *goja.Object
}

// JS returns the wrapped goja object
func (o *Object) JS() *goja.Object { return o.obj }

func key(id host.Identifier) string {
	if id.IsString() {
		return id.Name()
	}
	return strconv.FormatInt(int64(id.Index()), 10)
}

func (r *Runtime) StringIdentifier(name string) host.Identifier {
	return host.StringIdentifier(name)
}

func (r *Runtime) IntIdentifier(index int32) host.Identifier {
	return host.IntIdentifier(index)
}

func (r *Runtime) HasProperty(obj host.Object, id host.Identifier) bool {
	switch o := obj.(type) {
	case *Object:
		return o.obj.Get(key(id)) != nil
	case host.Scriptable:
		var exc host.Exception
		return o.HasProperty(host.String(key(id)), &exc)
	}
	return false
}

func (r *Runtime) GetProperty(obj host.Object, id host.Identifier) (host.Variant, bool) {
	switch o := obj.(type) {
	case *Object:
		val := o.obj.Get(key(id))
		if val == nil {
			return host.Void(), false
		}
		return r.toVariant(val)
	case host.Scriptable:
		var exc host.Exception
		v := o.GetProperty(host.String(key(id)), &exc)
		if exc.Pending() {
			r.ReleaseVariant(&v)
			return host.Void(), false
		}
		return v, true
	}
	return host.Void(), false
}

func (r *Runtime) SetProperty(obj host.Object, id host.Identifier, value host.Variant) bool {
	switch o := obj.(type) {
	case *Object:
		return o.obj.Set(key(id), r.toValue(value)) == nil
	case host.Scriptable:
		var exc host.Exception
		o.SetProperty(host.String(key(id)), value, &exc)
		return !exc.Pending()
	}
	return false
}

// WindowObject returns the global object
func (r *Runtime) WindowObject() (host.Owned, bool) {
	if r.vm == nil {
		return host.Owned{}, false
	}
	return host.Retain(&Object{obj: r.vm.GlobalObject()}), true
}

// Evaluate runs script in the global scope. Any non-nil scope is
// accepted; goja has a single global scope per runtime.
func (r *Runtime) Evaluate(scope host.Object, script []byte) (host.Variant, bool) {
	if scope == nil || r.vm == nil {
		return host.Void(), false
	}
	val, err := r.vm.RunString(string(script))
	if err != nil {
		return host.Void(), false
	}
	return r.toVariant(val)
}

// MemAlloc hands out buffers within the configured budget
func (r *Runtime) MemAlloc(size int) []byte {
	if size < 0 {
		return nil
	}
	if max := r.config.MaxAllocBytes; max > 0 && r.allocated+size > max {
		return nil
	}
	r.allocated += size
	return make([]byte, size)
}

func (r *Runtime) MemFree(buf []byte) {
	r.allocated -= len(buf)
	if r.allocated < 0 {
		r.allocated = 0
	}
}

func (r *Runtime) ReleaseVariant(v *host.Variant) {
	switch {
	case v.IsString():
		r.MemFree(v.Bytes())
	case v.IsObject():
		v.AsObject().Release()
	}
	*v = host.Void()
}

// toVariant converts a script value into a caller-owned variant
func (r *Runtime) toVariant(val goja.Value) (host.Variant, bool) {
	if val == nil || goja.IsUndefined(val) {
		return host.Void(), true
	}
	if goja.IsNull(val) {
		return host.Null(), true
	}
	if obj, ok := val.(*goja.Object); ok {
		if s, ok := r.unwrap(obj); ok {
			return host.ObjectVariant(host.Retain(s)), true
		}
		return host.ObjectVariant(host.Retain(&Object{obj: obj})), true
	}

	switch x := val.Export().(type) {
	case bool:
		return host.Bool(x), true
	case int64:
		return host.Number(float64(x)), true
	case float64:
		return host.Number(x), true
	case string:
		buf := r.MemAlloc(len(x))
		if buf == nil {
			return host.Void(), false
		}
		copy(buf, x)
		return host.StringBuffer(buf), true
	}
	return host.Void(), false
}

// toValue converts a borrowed variant into a script value. Exposing a
// scriptable object takes a reference the runtime keeps until Reset.
func (r *Runtime) toValue(v host.Variant) goja.Value {
	switch v.Kind() {
	case host.KindVoid:
		return goja.Undefined()
	case host.KindNull:
		return goja.Null()
	case host.KindBool:
		return r.vm.ToValue(v.AsBool())
	case host.KindInt32:
		return r.vm.ToValue(int64(v.AsInt32()))
	case host.KindDouble:
		return r.vm.ToValue(v.AsDouble())
	case host.KindString:
		return r.vm.ToValue(v.AsString())
	case host.KindObject:
		switch o := v.AsObject().(type) {
		case *Object:
			return o.obj
		case host.Scriptable:
			return r.expose(o)
		}
	}
	return goja.Null()
}
