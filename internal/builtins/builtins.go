package builtins

import (
	_ "embed"
	"fmt"

	"github.com/GriffinCanCode/scriptbridge/internal/bridge"
	"github.com/GriffinCanCode/scriptbridge/internal/host"
	"github.com/GriffinCanCode/scriptbridge/internal/manifest"
	"github.com/GriffinCanCode/scriptbridge/internal/marshal"
)

//go:embed manifest.yaml
var defaultManifest []byte

// Version is reported by the root object's version property
const Version = "1.0.0"

// Manifest returns a fresh copy of the built-in plugin manifest
func Manifest() (*manifest.Manifest, error) {
	return manifest.Parse(defaultManifest, manifest.FormatYAML)
}

// Classes returns every built-in class
func Classes() []*bridge.Class {
	return []*bridge.Class{
		ObjectClass(),
		PluginClass(),
		UtilsClass(),
		ArraysClass(),
		CounterFactoryClass(),
	}
}

// Register adds the built-in classes to reg
func Register(reg *bridge.Registry) error {
	for _, c := range Classes() {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("register %s: %w", c.Name, err)
		}
	}
	return nil
}

// NewRegistry returns a registry holding the built-in classes
func NewRegistry() *bridge.Registry {
	reg := bridge.NewRegistry()
	reg.MustRegister(Classes()...)
	return reg
}

func argString(method string, args []host.Variant, i int) (string, error) {
	if i >= len(args) || !args[i].IsString() {
		return "", fmt.Errorf("%s: argument %d must be a string", method, i)
	}
	return args[i].AsString(), nil
}

func argNumber(method string, args []host.Variant, i int) (float64, error) {
	if i >= len(args) || !args[i].IsNumber() {
		return 0, fmt.Errorf("%s: argument %d must be a number", method, i)
	}
	return args[i].AsDouble(), nil
}

func argObject(method string, args []host.Variant, i int) (host.Object, error) {
	if i >= len(args) || !args[i].IsObject() {
		return nil, fmt.Errorf("%s: argument %d must be an object", method, i)
	}
	return args[i].AsObject(), nil
}

// copyVariant returns a caller-owned copy of an argument
func copyVariant(ctx host.Context, v host.Variant) (host.Variant, error) {
	switch {
	case v.IsString():
		return marshal.ValueFromString(ctx, v.AsString())
	case v.IsObject():
		return host.ObjectVariant(host.Retain(v.AsObject())), nil
	}
	return v, nil
}
