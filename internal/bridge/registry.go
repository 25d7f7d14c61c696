package bridge

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps class names to dispatch tables for graph assembly
type Registry struct {
	classes sync.Map
}

// NewRegistry creates an empty class registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a class, replacing any class with the same name
func (r *Registry) Register(c *Class) error {
	if c == nil {
		return fmt.Errorf("class cannot be nil")
	}
	if c.Name == "" {
		return fmt.Errorf("class name cannot be empty")
	}

	r.classes.Store(c.Name, c)
	return nil
}

// MustRegister registers every class and panics on the first error
func (r *Registry) MustRegister(classes ...*Class) {
	for _, c := range classes {
		if err := r.Register(c); err != nil {
			panic(err)
		}
	}
}

// Unregister removes a class
func (r *Registry) Unregister(name string) {
	r.classes.Delete(name)
}

// Get retrieves a class by name
func (r *Registry) Get(name string) (*Class, bool) {
	val, ok := r.classes.Load(name)
	if !ok {
		return nil, false
	}
	return val.(*Class), true
}

// List returns the registered class names, sorted
func (r *Registry) List() []string {
	var names []string
	r.classes.Range(func(key, _ interface{}) bool {
		names = append(names, key.(string))
		return true
	})
	sort.Strings(names)
	return names
}

// Stats returns registry statistics
func (r *Registry) Stats() map[string]interface{} {
	var total, methods, properties, constructors int

	r.classes.Range(func(_, value interface{}) bool {
		c := value.(*Class)
		total++
		methods += len(c.Methods)
		properties += len(c.Properties)
		if c.Constructor != nil {
			constructors++
		}
		return true
	})

	return map[string]interface{}{
		"total_classes":    total,
		"total_methods":    methods,
		"total_properties": properties,
		"constructors":     constructors,
	}
}
