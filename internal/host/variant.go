package host

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the active member of a Variant
type Kind uint8

const (
	KindVoid Kind = iota
	KindNull
	KindBool
	KindInt32
	KindDouble
	KindString
	KindObject
)

var kindNames = [...]string{
	KindVoid:   "void",
	KindNull:   "null",
	KindBool:   "bool",
	KindInt32:  "int32",
	KindDouble: "double",
	KindString: "string",
	KindObject: "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Variant is a value exchanged across the host boundary.
// The zero value is Void.
type Variant struct {
	kind Kind
	b    bool
	i    int32
	d    float64
	s    []byte
	obj  Object
}

// Void returns the void (undefined) variant
func Void() Variant { return Variant{} }

// Null returns the null variant
func Null() Variant { return Variant{kind: KindNull} }

// Bool wraps a boolean
func Bool(b bool) Variant { return Variant{kind: KindBool, b: b} }

// Int32 wraps a 32-bit integer
func Int32(i int32) Variant { return Variant{kind: KindInt32, i: i} }

// Double wraps a float64
func Double(d float64) Variant { return Variant{kind: KindDouble, d: d} }

// String wraps a Go string. The variant gets its own copy of the bytes.
func String(s string) Variant { return Variant{kind: KindString, s: []byte(s)} }

// StringBuffer wraps buf without copying. buf is expected to come from
// Context.MemAlloc so that Context.ReleaseVariant can return it.
func StringBuffer(buf []byte) Variant {
	if buf == nil {
		buf = []byte{}
	}
	return Variant{kind: KindString, s: buf}
}

// ObjectVariant moves the owned reference into a variant. Releasing the
// variant releases the reference.
func ObjectVariant(o Owned) Variant {
	if o.obj == nil {
		return Null()
	}
	return Variant{kind: KindObject, obj: o.obj}
}

// Number wraps f as Int32 when it is integral and fits, Double otherwise
func Number(f float64) Variant {
	if f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32 && !(f == 0 && math.Signbit(f)) {
		return Int32(int32(f))
	}
	return Double(f)
}

func (v Variant) Kind() Kind       { return v.kind }
func (v Variant) IsVoid() bool     { return v.kind == KindVoid }
func (v Variant) IsNull() bool     { return v.kind == KindNull }
func (v Variant) IsBool() bool     { return v.kind == KindBool }
func (v Variant) IsString() bool   { return v.kind == KindString }
func (v Variant) IsObject() bool   { return v.kind == KindObject }
func (v Variant) IsNumber() bool   { return v.kind == KindInt32 || v.kind == KindDouble }
func (v Variant) IsNullish() bool  { return v.kind == KindVoid || v.kind == KindNull }
func (v Variant) AsBool() bool     { return v.b }
func (v Variant) AsInt32() int32   { return v.i }
func (v Variant) AsObject() Object { return v.obj }

// AsDouble returns the numeric payload of Int32 and Double variants
func (v Variant) AsDouble() float64 {
	if v.kind == KindInt32 {
		return float64(v.i)
	}
	return v.d
}

// AsString returns the string payload, or "" for non-string variants
func (v Variant) AsString() string {
	if v.kind != KindString {
		return ""
	}
	return string(v.s)
}

// Bytes returns the UTF-8 payload of a string variant without copying
func (v Variant) Bytes() []byte {
	if v.kind != KindString {
		return nil
	}
	return v.s
}

// String renders the variant for logs and exception messages
func (v Variant) String() string {
	switch v.kind {
	case KindVoid:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt32:
		return strconv.FormatInt(int64(v.i), 10)
	case KindDouble:
		return strconv.FormatFloat(v.d, 'g', -1, 64)
	case KindString:
		return string(v.s)
	case KindObject:
		return fmt.Sprintf("[object %T]", v.obj)
	}
	return v.kind.String()
}
