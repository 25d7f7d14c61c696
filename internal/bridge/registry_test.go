package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/scriptbridge/internal/host"
)

func TestRegister(t *testing.T) {
	r := NewRegistry()
	c := &Class{Name: "Utils"}

	require.NoError(t, r.Register(c))

	got, ok := r.Get("Utils")
	require.True(t, ok)
	assert.Same(t, c, got)

	assert.Error(t, r.Register(&Class{}))
	assert.Error(t, r.Register(nil))
}

func TestRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	first, second := &Class{Name: "A"}, &Class{Name: "A"}
	r.MustRegister(first, second)

	got, _ := r.Get("A")
	assert.Same(t, second, got)
	assert.Equal(t, []string{"A"}, r.List())
}

func TestUnregister(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&Class{Name: "B"}, &Class{Name: "A"})
	assert.Equal(t, []string{"A", "B"}, r.List())

	r.Unregister("A")
	_, ok := r.Get("A")
	assert.False(t, ok)
}

func TestMustRegisterPanics(t *testing.T) {
	assert.Panics(t, func() { NewRegistry().MustRegister(&Class{}) })
}

func TestRegistryStats(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(
		&Class{Name: "A", Methods: map[string]Method{"x": constant(host.Void()), "y": constant(host.Void())}},
		&Class{Name: "B", Properties: map[string]Property{"p": {}}, Constructor: constant(host.Void())},
	)

	stats := r.Stats()
	assert.Equal(t, 2, stats["total_classes"])
	assert.Equal(t, 2, stats["total_methods"])
	assert.Equal(t, 1, stats["total_properties"])
	assert.Equal(t, 1, stats["constructors"])
}
