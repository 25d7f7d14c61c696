package builtins

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/GriffinCanCode/scriptbridge/internal/bridge"
	"github.com/GriffinCanCode/scriptbridge/internal/host"
	"github.com/GriffinCanCode/scriptbridge/internal/marshal"
	"github.com/GriffinCanCode/scriptbridge/internal/plugin"
)

// UtilsClass holds text helpers
func UtilsClass() *bridge.Class {
	return &bridge.Class{
		Name: "Utils",
		Methods: map[string]bridge.Method{
			"upper":     upper,
			"wide":      wide,
			"wideUnits": wideUnits,
			"join":      join,
		},
	}
}

func upper(ctx host.Context, args []host.Variant) (host.Variant, error) {
	s, err := argString("upper", args, 0)
	if err != nil {
		return host.Void(), err
	}
	return marshal.ValueFromString(ctx, cases.Upper(language.Und).String(s))
}

// wide(s) sends s through the native wide representation and back
func wide(ctx host.Context, args []host.Variant) (host.Variant, error) {
	s, err := argString("wide", args, 0)
	if err != nil {
		return host.Void(), err
	}
	codec := plugin.CodecFor(ctx)
	w, err := codec.UTF8ToWide([]byte(s))
	if err != nil {
		return host.Void(), err
	}
	return marshal.ValueFromWide(ctx, codec, w)
}

// wideUnits(s) counts the wide code units s occupies
func wideUnits(ctx host.Context, args []host.Variant) (host.Variant, error) {
	s, err := argString("wideUnits", args, 0)
	if err != nil {
		return host.Void(), err
	}
	w, err := plugin.CodecFor(ctx).UTF8ToWide([]byte(s))
	if err != nil {
		return host.Void(), err
	}
	return host.Int32(int32(len(w))), nil
}

// join(array[, sep]) concatenates the elements of a host array
func join(ctx host.Context, args []host.Variant) (host.Variant, error) {
	arr, err := argObject("join", args, 0)
	if err != nil {
		return host.Void(), err
	}
	sep := ","
	if len(args) > 1 {
		if sep, err = argString("join", args, 1); err != nil {
			return host.Void(), err
		}
	}

	elems, err := readArray(ctx, arr)
	if err != nil {
		return host.Void(), err
	}
	defer host.ReleaseAll(ctx, elems)

	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.String()
	}
	return marshal.ValueFromString(ctx, strings.Join(parts, sep))
}
