package builtins

import (
	"errors"

	"github.com/GriffinCanCode/scriptbridge/internal/bridge"
	"github.com/GriffinCanCode/scriptbridge/internal/host"
	"github.com/GriffinCanCode/scriptbridge/internal/marshal"
	"github.com/GriffinCanCode/scriptbridge/internal/plugin"
)

// ObjectClass is the shared base of the demo namespaces
func ObjectClass() *bridge.Class {
	return &bridge.Class{
		Name: "Object",
		Methods: map[string]bridge.Method{
			"toString": func(ctx host.Context, _ []host.Variant) (host.Variant, error) {
				return marshal.ValueFromString(ctx, "[object NativeObject]")
			},
		},
	}
}

// PluginClass is the root object scripts receive
func PluginClass() *bridge.Class {
	return &bridge.Class{
		Name: "Plugin",
		Methods: map[string]bridge.Method{
			"greet": greet,
			"echo":  echo,
			"raise": raise,
		},
		Properties: map[string]bridge.Property{
			"version": {Get: func(ctx host.Context) (host.Variant, error) {
				return marshal.ValueFromString(ctx, Version)
			}},
			"lastError": {Get: lastError},
		},
	}
}

// greet([name]) says hello to name, or to the world
func greet(ctx host.Context, args []host.Variant) (host.Variant, error) {
	if len(args) == 0 || args[0].IsVoid() {
		return marshal.ValueFromString(ctx, "Hello World!")
	}
	name, err := argString("greet", args, 0)
	if err != nil {
		return host.Void(), err
	}
	return marshal.ValueFromString(ctx, "Hello, "+name+"!")
}

// echo(value) returns its argument
func echo(ctx host.Context, args []host.Variant) (host.Variant, error) {
	if len(args) == 0 {
		return host.Void(), nil
	}
	return copyVariant(ctx, args[0])
}

// raise(value) throws value into the script
func raise(ctx host.Context, args []host.Variant) (host.Variant, error) {
	if len(args) == 0 {
		return host.Void(), errors.New("raise: nothing to throw")
	}
	// Exception messages are copied by the host, objects are handed over
	if args[0].IsString() {
		return host.Void(), bridge.Throw(host.String(args[0].AsString()))
	}
	v, err := copyVariant(ctx, args[0])
	if err != nil {
		return host.Void(), err
	}
	return host.Void(), bridge.Throw(v)
}

func lastError(ctx host.Context) (host.Variant, error) {
	inst, ok := plugin.InstanceFor(ctx)
	if !ok || inst.LastError() == "" {
		return host.Null(), nil
	}
	return marshal.ValueFromString(ctx, inst.LastError())
}
