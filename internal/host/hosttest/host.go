// Package hosttest provides an in-memory scripting host for tests.
//
// Host implements host.Context over plain Go objects and arrays, counts
// every primitive it serves, and can be told to misbehave the way real
// hosts do (failing allocations, broken existence checks on indexes,
// failing evaluation).
package hosttest

import (
	"strconv"

	"github.com/GriffinCanCode/scriptbridge/internal/host"
)

// Object is a host-native object or array
type Object struct {
	host.RefCount
	Props map[string]host.Variant
	Elems []host.Variant
	Array bool
}

// NewObject creates an empty plain object
func NewObject() *Object {
	return &Object{Props: make(map[string]host.Variant)}
}

// NewArray creates an array holding vals
func NewArray(vals ...host.Variant) *Object {
	o := NewObject()
	o.Array = true
	o.Elems = append(o.Elems, vals...)
	return o
}

// Host is a fake host.Context
type Host struct {
	Window *Object
	// Scripts maps script text to its evaluation result; "[]" is built in
	Scripts map[string]func() (host.Variant, bool)
	// AllocLimit makes MemAlloc fail for larger requests; 0 means no limit
	AllocLimit int
	// BrokenIndexHas makes HasProperty report false for every integer id
	BrokenIndexHas bool
	// NoWindow makes WindowObject fail
	NoWindow bool

	Calls     map[string]int
	Allocated int
}

// New creates a host with an empty window object
func New() *Host {
	return &Host{
		Window:  NewObject(),
		Scripts: make(map[string]func() (host.Variant, bool)),
		Calls:   make(map[string]int),
	}
}

func (h *Host) count(name string) { h.Calls[name]++ }

func (h *Host) StringIdentifier(name string) host.Identifier {
	h.count("StringIdentifier")
	return host.StringIdentifier(name)
}

func (h *Host) IntIdentifier(index int32) host.Identifier {
	h.count("IntIdentifier")
	return host.IntIdentifier(index)
}

func (h *Host) HasProperty(obj host.Object, id host.Identifier) bool {
	h.count("HasProperty")
	switch o := obj.(type) {
	case *Object:
		if !id.IsString() {
			if h.BrokenIndexHas {
				return false
			}
			return o.Array && id.Index() >= 0 && int(id.Index()) < len(o.Elems)
		}
		if o.Array && id.Name() == "length" {
			return true
		}
		_, ok := o.Props[id.Name()]
		return ok
	case host.Scriptable:
		var exc host.Exception
		return o.HasProperty(host.String(id.String()), &exc)
	}
	return false
}

func (h *Host) GetProperty(obj host.Object, id host.Identifier) (host.Variant, bool) {
	h.count("GetProperty")
	switch o := obj.(type) {
	case *Object:
		if !id.IsString() {
			i := int(id.Index())
			if !o.Array || i < 0 || i >= len(o.Elems) {
				return host.Void(), false
			}
			return h.copyOut(o.Elems[i]), true
		}
		if o.Array && id.Name() == "length" {
			return host.Int32(int32(len(o.Elems))), true
		}
		v, ok := o.Props[id.Name()]
		if !ok {
			return host.Void(), false
		}
		return h.copyOut(v), true
	case host.Scriptable:
		var exc host.Exception
		v := o.GetProperty(host.String(id.String()), &exc)
		if exc.Pending() {
			h.ReleaseVariant(&v)
			return host.Void(), false
		}
		return v, true
	}
	return host.Void(), false
}

func (h *Host) SetProperty(obj host.Object, id host.Identifier, value host.Variant) bool {
	h.count("SetProperty")
	switch o := obj.(type) {
	case *Object:
		v := h.copyOut(value)
		if !id.IsString() {
			i := int(id.Index())
			if !o.Array || i < 0 {
				h.ReleaseVariant(&v)
				return false
			}
			for len(o.Elems) <= i {
				o.Elems = append(o.Elems, host.Void())
			}
			h.ReleaseVariant(&o.Elems[i])
			o.Elems[i] = v
			return true
		}
		if old, ok := o.Props[id.Name()]; ok {
			h.ReleaseVariant(&old)
		}
		o.Props[id.Name()] = v
		return true
	case host.Scriptable:
		var exc host.Exception
		o.SetProperty(host.String(id.String()), value, &exc)
		return !exc.Pending()
	}
	return false
}

func (h *Host) WindowObject() (host.Owned, bool) {
	h.count("WindowObject")
	if h.NoWindow || h.Window == nil {
		return host.Owned{}, false
	}
	return host.Retain(h.Window), true
}

func (h *Host) Evaluate(scope host.Object, script []byte) (host.Variant, bool) {
	h.count("Evaluate")
	if scope == nil {
		return host.Void(), false
	}
	if f, ok := h.Scripts[string(script)]; ok {
		return f()
	}
	if string(script) == "[]" {
		return host.ObjectVariant(host.Retain(NewArray())), true
	}
	return host.Void(), false
}

func (h *Host) MemAlloc(size int) []byte {
	h.count("MemAlloc")
	if size < 0 || (h.AllocLimit > 0 && size > h.AllocLimit) {
		return nil
	}
	h.Allocated += size
	return make([]byte, size)
}

func (h *Host) MemFree(buf []byte) {
	h.count("MemFree")
	h.Allocated -= len(buf)
}

func (h *Host) ReleaseVariant(v *host.Variant) {
	h.count("ReleaseVariant")
	switch {
	case v.IsString():
		h.MemFree(v.Bytes())
	case v.IsObject():
		v.AsObject().Release()
	}
	*v = host.Void()
}

// copyOut returns a caller-owned copy of v: strings get a fresh host
// buffer, objects an extra reference.
func (h *Host) copyOut(v host.Variant) host.Variant {
	switch {
	case v.IsString():
		buf := h.MemAlloc(len(v.Bytes()))
		if buf == nil {
			return host.Void()
		}
		copy(buf, v.Bytes())
		return host.StringBuffer(buf)
	case v.IsObject():
		return host.ObjectVariant(host.Retain(v.AsObject()))
	}
	return v
}

// Elem is a convenience for tests: the element at i rendered as text
func (o *Object) Elem(i int) string {
	if i < 0 || i >= len(o.Elems) {
		return "<missing " + strconv.Itoa(i) + ">"
	}
	return o.Elems[i].String()
}
