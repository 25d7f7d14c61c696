package host

import "sync/atomic"

// Object is anything the host can hold a reference to: objects native to
// the script engine and plugin objects alike.
type Object interface {
	Retain()
	Release()
}

// Scriptable is the generic scriptable-object operation set the host
// invokes on plugin objects. Names arrive as variants because the host
// does not guarantee their type.
type Scriptable interface {
	Object
	HasMethod(name Variant, exc *Exception) bool
	HasProperty(name Variant, exc *Exception) bool
	GetProperty(name Variant, exc *Exception) Variant
	PropertyNames(exc *Exception) []Variant
	SetProperty(name, value Variant, exc *Exception)
	Call(method Variant, args []Variant, exc *Exception) Variant
	Construct(args []Variant, exc *Exception) Variant
}

// RefCount implements Object's reference counting. Embed it and register
// a finalizer with OnFree to learn when the last reference goes away.
type RefCount struct {
	refs atomic.Int32
	free func()
}

// OnFree sets the callback run when the count drops back to zero
func (r *RefCount) OnFree(f func()) { r.free = f }

// Retain adds a reference
func (r *RefCount) Retain() { r.refs.Add(1) }

// Release drops a reference. Releasing more often than retaining panics.
func (r *RefCount) Release() {
	n := r.refs.Add(-1)
	switch {
	case n < 0:
		panic("host: release of unretained object")
	case n == 0 && r.free != nil:
		r.free()
	}
}

// Refs reports the current reference count
func (r *RefCount) Refs() int32 { return r.refs.Load() }

// Owned is a counted reference the holder is responsible for releasing.
type Owned struct {
	obj Object
}

// Retain takes a new reference to obj and returns it as owned
func Retain(obj Object) Owned {
	if obj == nil {
		return Owned{}
	}
	obj.Retain()
	return Owned{obj: obj}
}

// Adopt wraps a reference the caller already holds (for example one
// returned by the host) without retaining again.
func Adopt(obj Object) Owned { return Owned{obj: obj} }

// Object returns the referenced object, nil for the zero Owned
func (o Owned) Object() Object { return o.obj }

// Valid reports whether the reference points at an object
func (o Owned) Valid() bool { return o.obj != nil }

// Release gives the reference back
func (o Owned) Release() {
	if o.obj != nil {
		o.obj.Release()
	}
}
