package bridge

import (
	"errors"

	"github.com/GriffinCanCode/scriptbridge/internal/host"
)

// Lookup failures at the end of a delegation chain. Their messages are the
// exception strings scripts see.
var (
	ErrUnknownProperty    = errors.New("unknown property")
	ErrMethodNotFound     = errors.New("method does not exist")
	ErrMissingConstructor = errors.New("missing constructor")
	ErrReadOnlyProperty   = errors.New("property is read-only")
)

// Malformed requests rejected by the proxy before any lookup
var (
	ErrMethodNameNotString   = errors.New("method name is not a string")
	ErrPropertyNameNotString = errors.New("property name is not a string")
)

// ErrCyclicBase is returned by CheckAcyclic
var ErrCyclicBase = errors.New("cyclic base chain")

// Thrown raises an arbitrary host value instead of an error message
type Thrown struct {
	Value host.Variant
}

// Throw returns an error that makes the proxy raise v as the exception
func Throw(v host.Variant) error {
	return &Thrown{Value: v}
}

func (t *Thrown) Error() string {
	return t.Value.String()
}

// raise records err in exc unless an exception is already pending.
// A thrown object that loses to an earlier exception is released.
func raise(exc *host.Exception, err error) bool {
	var t *Thrown
	if errors.As(err, &t) {
		if exc.RaiseValue(t.Value) {
			return true
		}
		if t.Value.IsObject() {
			t.Value.AsObject().Release()
		}
		return false
	}
	return exc.Raise(err.Error())
}
