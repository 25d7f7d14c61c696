package host

// Context is the handle to one host execution context. The bridge
// receives it with every call and never keeps it inside a node.
type Context interface {
	// StringIdentifier interns a string property name
	StringIdentifier(name string) Identifier
	// IntIdentifier interns an integer property index
	IntIdentifier(index int32) Identifier

	// HasProperty reports whether obj has the property
	HasProperty(obj Object, id Identifier) bool
	// GetProperty fetches a property. The returned variant is owned by the
	// caller. ok is false when the host could not fetch it.
	GetProperty(obj Object, id Identifier) (v Variant, ok bool)
	// SetProperty stores value on obj without taking ownership of it
	SetProperty(obj Object, id Identifier, value Variant) bool

	// WindowObject returns the global scope object
	WindowObject() (Owned, bool)
	// Evaluate runs script in the scope of obj. The result is owned by the
	// caller.
	Evaluate(scope Object, script []byte) (Variant, bool)

	// MemAlloc returns a host-owned buffer of size bytes, nil on failure
	MemAlloc(size int) []byte
	// MemFree returns a buffer obtained from MemAlloc
	MemFree(buf []byte)
	// ReleaseVariant frees the string buffer or object reference held by v
	// and resets it to Void.
	ReleaseVariant(v *Variant)
}

// ReleaseAll releases every variant in vs
func ReleaseAll(ctx Context, vs []Variant) {
	for i := range vs {
		ctx.ReleaseVariant(&vs[i])
	}
}
