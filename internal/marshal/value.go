package marshal

import (
	"errors"
	"fmt"
	"math"

	"github.com/GriffinCanCode/scriptbridge/internal/host"
)

var (
	ErrAllocation      = errors.New("host allocation failed")
	ErrUnsupportedType = errors.New("unsupported native type")
)

// ValueFromString copies s into a host-owned buffer and returns it as a
// string variant. The host frees the buffer when it releases the variant.
// On allocation failure the result is Void and the error is ErrAllocation.
func ValueFromString(ctx host.Context, s string) (host.Variant, error) {
	if len(s) == 0 {
		return host.StringBuffer(nil), nil
	}
	buf := ctx.MemAlloc(len(s))
	if buf == nil {
		return host.Void(), fmt.Errorf("%w: %d bytes", ErrAllocation, len(s))
	}
	copy(buf, s)
	return host.StringBuffer(buf[:len(s)]), nil
}

// ValueFromWide converts wide text to UTF-8 and hands it to the host
func ValueFromWide(ctx host.Context, c *Codec, w WideText) (host.Variant, error) {
	out, err := c.WideToUTF8(w)
	if err != nil {
		return host.Void(), err
	}
	return ValueFromString(ctx, string(out))
}

// FromNative converts a Go value to a variant. A host.Owned moves its
// reference into the variant.
func FromNative(ctx host.Context, v any) (host.Variant, error) {
	switch x := v.(type) {
	case nil:
		return host.Null(), nil
	case host.Variant:
		return x, nil
	case host.Owned:
		return host.ObjectVariant(x), nil
	case bool:
		return host.Bool(x), nil
	case int:
		return fromInt64(int64(x)), nil
	case int8:
		return host.Int32(int32(x)), nil
	case int16:
		return host.Int32(int32(x)), nil
	case int32:
		return host.Int32(x), nil
	case int64:
		return fromInt64(x), nil
	case uint:
		return fromUint64(uint64(x)), nil
	case uint8:
		return host.Int32(int32(x)), nil
	case uint16:
		return host.Int32(int32(x)), nil
	case uint32:
		return fromUint64(uint64(x)), nil
	case uint64:
		return fromUint64(x), nil
	case float32:
		return host.Double(float64(x)), nil
	case float64:
		return host.Double(x), nil
	case string:
		return ValueFromString(ctx, x)
	case []byte:
		return ValueFromString(ctx, string(x))
	}
	return host.Void(), fmt.Errorf("%w: %T", ErrUnsupportedType, v)
}

func fromInt64(i int64) host.Variant {
	if i >= math.MinInt32 && i <= math.MaxInt32 {
		return host.Int32(int32(i))
	}
	return host.Double(float64(i))
}

func fromUint64(u uint64) host.Variant {
	if u <= math.MaxInt32 {
		return host.Int32(int32(u))
	}
	return host.Double(float64(u))
}

// ToNative converts a variant to the closest Go value. Object variants
// yield the host.Object without touching its reference count.
func ToNative(v host.Variant) any {
	switch v.Kind() {
	case host.KindBool:
		return v.AsBool()
	case host.KindInt32:
		return v.AsInt32()
	case host.KindDouble:
		return v.AsDouble()
	case host.KindString:
		return v.AsString()
	case host.KindObject:
		return v.AsObject()
	}
	return nil
}
