package builtins

import (
	"errors"

	"github.com/GriffinCanCode/scriptbridge/internal/bridge"
	"github.com/GriffinCanCode/scriptbridge/internal/host"
	"github.com/GriffinCanCode/scriptbridge/internal/plugin"
)

// CounterFactoryClass backs the counter namespace. Constructing it
// yields a new counter object; the namespace itself has no state.
func CounterFactoryClass() *bridge.Class {
	return &bridge.Class{
		Name:        "CounterFactory",
		Constructor: newCounter,
	}
}

type counter struct {
	value float64
}

func newCounter(ctx host.Context, args []host.Variant) (host.Variant, error) {
	c := &counter{}
	if len(args) > 0 && !args[0].IsVoid() {
		start, err := argNumber("counter", args, 0)
		if err != nil {
			return host.Void(), err
		}
		c.value = start
	}

	n := bridge.NewNode(c.class())
	if inst, ok := plugin.InstanceFor(ctx); ok {
		if base, ok := inst.Root().Lookup("object"); ok {
			n.SetBase(base)
		}
	}
	return host.ObjectVariant(n.CreateWrapper(ctx)), nil
}

func (c *counter) class() *bridge.Class {
	return &bridge.Class{
		Name: "Counter",
		Methods: map[string]bridge.Method{
			"increment": c.increment,
		},
		Properties: map[string]bridge.Property{
			"value": {Get: c.get, Set: c.set},
		},
	}
}

func (c *counter) get(host.Context) (host.Variant, error) {
	return host.Number(c.value), nil
}

func (c *counter) set(_ host.Context, v host.Variant) error {
	if !v.IsNumber() {
		return errors.New("counter value must be a number")
	}
	c.value = v.AsDouble()
	return nil
}

// increment([by]) adds by (default 1) and returns the new value
func (c *counter) increment(_ host.Context, args []host.Variant) (host.Variant, error) {
	by := 1.0
	if len(args) > 0 {
		n, err := argNumber("increment", args, 0)
		if err != nil {
			return host.Void(), err
		}
		by = n
	}
	c.value += by
	return host.Number(c.value), nil
}
