package bridge

import (
	"sort"

	"github.com/GriffinCanCode/scriptbridge/internal/host"
)

// Method implements a scriptable method. args are borrowed; the returned
// variant is owned by the caller. On error the result is ignored.
type Method func(ctx host.Context, args []host.Variant) (host.Variant, error)

// Getter reads a property. The returned variant is owned by the caller.
type Getter func(ctx host.Context) (host.Variant, error)

// Setter writes a property. value is borrowed.
type Setter func(ctx host.Context, value host.Variant) error

// Property is a class property; a nil Set makes it read-only
type Property struct {
	Get Getter
	Set Setter
}

// Class is the dispatch table giving a node its own methods and
// properties.
type Class struct {
	Name        string
	Methods     map[string]Method
	Properties  map[string]Property
	Constructor Method
}

func (c *Class) method(name string) (Method, bool) {
	if c == nil {
		return nil, false
	}
	m, ok := c.Methods[name]
	return m, ok && m != nil
}

func (c *Class) property(name string) (Property, bool) {
	if c == nil {
		return Property{}, false
	}
	p, ok := c.Properties[name]
	return p, ok
}

// MethodNames returns the method names, sorted
func (c *Class) MethodNames() []string {
	if c == nil {
		return nil
	}
	return sortedKeys(c.Methods)
}

// PropertyNames returns the property names, sorted
func (c *Class) PropertyNames() []string {
	if c == nil {
		return nil
	}
	return sortedKeys(c.Properties)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func className(c *Class) string {
	if c == nil || c.Name == "" {
		return "Namespace"
	}
	return c.Name
}
