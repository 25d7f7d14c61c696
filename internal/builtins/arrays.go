package builtins

import (
	"errors"
	"fmt"
	"math"

	"github.com/GriffinCanCode/scriptbridge/internal/bridge"
	"github.com/GriffinCanCode/scriptbridge/internal/host"
	"github.com/GriffinCanCode/scriptbridge/internal/plugin"
)

// MaxArrayLength caps the arrays built and read by native methods
const MaxArrayLength = 1 << 16

var (
	errNoArray      = errors.New("could not create array")
	errNotArrayLike = errors.New("argument has no numeric length")
)

// ArraysClass builds and reads host arrays
func ArraysClass() *bridge.Class {
	return &bridge.Class{
		Name: "Arrays",
		Methods: map[string]bridge.Method{
			"range": rangeArray,
			"sum":   sum,
			"at":    at,
		},
	}
}

// range(n) returns the host array [0, 1, ..., n-1]
func rangeArray(ctx host.Context, args []host.Variant) (host.Variant, error) {
	n, err := argNumber("range", args, 0)
	if err != nil {
		return host.Void(), err
	}
	if n < 0 || n > MaxArrayLength || n != math.Trunc(n) {
		return host.Void(), fmt.Errorf("range: length %v out of bounds", n)
	}

	acc := plugin.AccessorFor(ctx)
	arr, ok := acc.CreateArray(ctx)
	if !ok {
		return host.Void(), errNoArray
	}
	for i := int32(0); i < int32(n); i++ {
		if !acc.SetIndexedProperty(ctx, arr.Object(), i, host.Int32(i)) {
			arr.Release()
			return host.Void(), fmt.Errorf("range: could not set index %d", i)
		}
	}
	return host.ObjectVariant(arr), nil
}

// sum(array) adds the numeric elements of a host array
func sum(ctx host.Context, args []host.Variant) (host.Variant, error) {
	arr, err := argObject("sum", args, 0)
	if err != nil {
		return host.Void(), err
	}
	elems, err := readArray(ctx, arr)
	if err != nil {
		return host.Void(), err
	}
	defer host.ReleaseAll(ctx, elems)

	var total float64
	for i, e := range elems {
		if !e.IsNumber() {
			return host.Void(), fmt.Errorf("sum: element %d is not a number", i)
		}
		total += e.AsDouble()
	}
	return host.Number(total), nil
}

// at(array, i) returns one element, subject to the missing-index policy
func at(ctx host.Context, args []host.Variant) (host.Variant, error) {
	arr, err := argObject("at", args, 0)
	if err != nil {
		return host.Void(), err
	}
	i, err := argNumber("at", args, 1)
	if err != nil {
		return host.Void(), err
	}
	if i < math.MinInt32 || i > math.MaxInt32 {
		return host.Void(), fmt.Errorf("at: index %v out of range", i)
	}

	v, ok := plugin.AccessorFor(ctx).GetIndexedProperty(ctx, arr, int32(i))
	if !ok {
		return host.Void(), fmt.Errorf("at: no element %d", int32(i))
	}
	return v, nil
}

// readArray fetches every element of an array-like host object. The
// returned variants are owned by the caller.
func readArray(ctx host.Context, arr host.Object) ([]host.Variant, error) {
	acc := plugin.AccessorFor(ctx)

	length, ok := acc.GetNamedProperty(ctx, arr, "length")
	if !ok || !length.IsNumber() {
		ctx.ReleaseVariant(&length)
		return nil, errNotArrayLike
	}
	n := length.AsDouble()
	if n < 0 || n > MaxArrayLength {
		return nil, fmt.Errorf("array length %v out of bounds", n)
	}

	elems := make([]host.Variant, 0, int(n))
	for i := int32(0); i < int32(n); i++ {
		v, ok := acc.GetIndexedProperty(ctx, arr, i)
		if !ok {
			host.ReleaseAll(ctx, elems)
			return nil, fmt.Errorf("element %d is missing", i)
		}
		elems = append(elems, v)
	}
	return elems, nil
}
