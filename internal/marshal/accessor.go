package marshal

import (
	"fmt"
	"strings"

	"github.com/GriffinCanCode/scriptbridge/internal/host"
	"github.com/GriffinCanCode/scriptbridge/internal/profile"
)

// MissingIndex decides what a failed indexed fetch turns into when the
// existence check has been skipped. Hosts disagree on what a fetch of a
// missing index reports, so the choice is left to configuration.
type MissingIndex int

const (
	// MissingAbsent reports the property as absent; callers raise an error
	MissingAbsent MissingIndex = iota
	// MissingUndefined returns a present Void value
	MissingUndefined
	// MissingNull returns a present Null value
	MissingNull
)

func (m MissingIndex) String() string {
	switch m {
	case MissingUndefined:
		return "undefined"
	case MissingNull:
		return "null"
	}
	return "absent"
}

// ParseMissingIndex accepts "absent", "undefined" or "null"
func ParseMissingIndex(s string) (MissingIndex, error) {
	switch strings.ToLower(s) {
	case "", "absent", "error":
		return MissingAbsent, nil
	case "undefined", "void":
		return MissingUndefined, nil
	case "null", "default":
		return MissingNull, nil
	}
	return 0, fmt.Errorf("unknown missing-index policy %q", s)
}

// IndexPolicy controls indexed property reads
type IndexPolicy struct {
	// SkipExistenceCheck avoids HasProperty for integer identifiers. Some
	// hosts implement it incorrectly or too slowly for big arrays.
	SkipExistenceCheck bool
	Missing            MissingIndex
}

// Accessor reads and writes properties of host objects. It keeps no host
// state; the context is passed to every call.
type Accessor struct {
	Policy   IndexPolicy
	Profiler profile.Profiler
}

// NewAccessor creates an accessor with the given policy and a no-op
// profiler
func NewAccessor(policy IndexPolicy) *Accessor {
	return &Accessor{Policy: policy, Profiler: profile.Nop{}}
}

func (a *Accessor) prof() profile.Profiler {
	if a == nil || a.Profiler == nil {
		return profile.Nop{}
	}
	return a.Profiler
}

// GetNamedProperty fetches obj[name]. ok is false when the property does
// not exist or cannot be read.
func (a *Accessor) GetNamedProperty(ctx host.Context, obj host.Object, name string) (host.Variant, bool) {
	p := a.prof()

	p.Start("host.StringIdentifier")
	id := ctx.StringIdentifier(name)
	p.Stop("host.StringIdentifier")

	p.Start("host.HasProperty")
	exists := ctx.HasProperty(obj, id)
	p.Stop("host.HasProperty")
	if !exists {
		return host.Void(), false
	}

	p.Start("host.GetProperty")
	v, ok := ctx.GetProperty(obj, id)
	p.Stop("host.GetProperty")
	return v, ok
}

// GetIndexedProperty fetches obj[index] following the accessor's policy
func (a *Accessor) GetIndexedProperty(ctx host.Context, obj host.Object, index int32) (host.Variant, bool) {
	p := a.prof()

	p.Start("host.IntIdentifier")
	id := ctx.IntIdentifier(index)
	p.Stop("host.IntIdentifier")

	if !a.Policy.SkipExistenceCheck {
		p.Start("host.HasProperty")
		exists := ctx.HasProperty(obj, id)
		p.Stop("host.HasProperty")
		if !exists {
			return host.Void(), false
		}
	}

	p.Start("host.GetProperty")
	v, ok := ctx.GetProperty(obj, id)
	p.Stop("host.GetProperty")
	if ok || !a.Policy.SkipExistenceCheck {
		return v, ok
	}

	switch a.Policy.Missing {
	case MissingUndefined:
		return host.Void(), true
	case MissingNull:
		return host.Null(), true
	}
	return host.Void(), false
}

// SetNamedProperty stores value as obj[name]
func (a *Accessor) SetNamedProperty(ctx host.Context, obj host.Object, name string, value host.Variant) bool {
	p := a.prof()
	p.Start("host.StringIdentifier")
	id := ctx.StringIdentifier(name)
	p.Stop("host.StringIdentifier")

	p.Start("host.SetProperty")
	defer p.Stop("host.SetProperty")
	return ctx.SetProperty(obj, id, value)
}

// SetIndexedProperty stores value as obj[index]
func (a *Accessor) SetIndexedProperty(ctx host.Context, obj host.Object, index int32, value host.Variant) bool {
	p := a.prof()
	p.Start("host.IntIdentifier")
	id := ctx.IntIdentifier(index)
	p.Stop("host.IntIdentifier")

	p.Start("host.SetProperty")
	defer p.Stop("host.SetProperty")
	return ctx.SetProperty(obj, id, value)
}

// CreateArray asks the host for a new empty array by evaluating "[]" in
// its global scope. The array is returned owned by the caller.
func (a *Accessor) CreateArray(ctx host.Context) (host.Owned, bool) {
	p := a.prof()
	scope := profile.Scope(p, "CreateArray")
	defer scope.Stop()

	p.Start("host.WindowObject")
	window, ok := ctx.WindowObject()
	p.Stop("host.WindowObject")
	if !ok {
		return host.Owned{}, false
	}
	defer window.Release()

	p.Start("host.Evaluate")
	result, ok := ctx.Evaluate(window.Object(), []byte("[]"))
	p.Stop("host.Evaluate")
	if !ok {
		return host.Owned{}, false
	}

	if !result.IsObject() {
		p.Start("host.ReleaseVariant")
		ctx.ReleaseVariant(&result)
		p.Stop("host.ReleaseVariant")
		return host.Owned{}, false
	}
	return host.Adopt(result.AsObject()), true
}
