package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/scriptbridge/internal/host"
	"github.com/GriffinCanCode/scriptbridge/internal/host/hosttest"
	"github.com/GriffinCanCode/scriptbridge/internal/marshal"
	"github.com/GriffinCanCode/scriptbridge/internal/profile"
)

// hookedHost is a test host that also carries instance hooks
type hookedHost struct {
	*hosttest.Host
	rec       *profile.Recorder
	lastError string
	created   int
	released  int
}

func newHookedHost() *hookedHost {
	return &hookedHost{Host: hosttest.New(), rec: profile.NewRecorder(nil)}
}

func (h *hookedHost) Profiler() profile.Profiler { return h.rec }
func (h *hookedHost) SetLastError(msg string)    { h.lastError = msg }
func (h *hookedHost) WrapperCreated()            { h.created++ }
func (h *hookedHost) WrapperReleased()           { h.released++ }

func greeterGraph() *Node {
	greeter := NewNode(&Class{
		Name: "Greeter",
		Methods: map[string]Method{
			"greet": func(ctx host.Context, _ []host.Variant) (host.Variant, error) {
				return marshal.ValueFromString(ctx, "Hello World!")
			},
		},
	})
	root := NewNode(nil)
	root.SetBase(greeter)
	return root
}

func TestCallThroughBase(t *testing.T) {
	h := newHookedHost()
	owned := greeterGraph().CreateWrapper(h)
	defer owned.Release()
	proxy := owned.Object().(*Proxy)

	var exc host.Exception
	v := proxy.Call(host.String("greet"), nil, &exc)

	assert.False(t, exc.Pending())
	assert.Equal(t, "Hello World!", v.AsString())
	h.ReleaseVariant(&v)
	assert.Equal(t, 0, h.Allocated)

	keys := map[string]bool{}
	for _, st := range h.rec.Stats() {
		keys[st.Key] = true
	}
	assert.True(t, keys["Namespace::Call(greet)"])
}

func TestNamespaceChildThroughProxy(t *testing.T) {
	h := newHookedHost()
	root := NewNode(nil)
	utils := NewNode(nil)
	root.AddChild("utils", utils)

	owned := root.CreateWrapper(h)
	proxy := owned.Object().(*Proxy)

	var exc host.Exception
	v := proxy.GetProperty(host.String("utils"), &exc)
	require.False(t, exc.Pending())
	require.True(t, v.IsObject())

	child := v.AsObject().(*Proxy)
	assert.Same(t, utils, child.Node())
	assert.NotSame(t, proxy, child)
	assert.True(t, root.HasProperty("utils"))
	assert.Equal(t, 2, h.created)

	h.ReleaseVariant(&v)
	owned.Release()
	assert.Equal(t, 2, h.released)
}

func TestNonStringNamesAreRejected(t *testing.T) {
	h := newHookedHost()
	owned := greeterGraph().CreateWrapper(h)
	defer owned.Release()
	proxy := owned.Object().(*Proxy)

	tests := []struct {
		name string
		op   func(*host.Exception)
		want string
	}{
		{"has method", func(e *host.Exception) { proxy.HasMethod(host.Int32(1), e) }, "method name is not a string"},
		{"call", func(e *host.Exception) { proxy.Call(host.Null(), nil, e) }, "method name is not a string"},
		{"has property", func(e *host.Exception) { proxy.HasProperty(host.Bool(true), e) }, "property name is not a string"},
		{"get property", func(e *host.Exception) { proxy.GetProperty(host.Double(1.5), e) }, "property name is not a string"},
		{"set property", func(e *host.Exception) { proxy.SetProperty(host.Int32(0), host.Int32(1), e) }, "property name is not a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var exc host.Exception
			tt.op(&exc)
			require.True(t, exc.Pending())
			assert.Equal(t, tt.want, exc.Message())
			assert.Equal(t, tt.want, h.lastError)
		})
	}
}

func TestVoidMethodNameConstructs(t *testing.T) {
	h := hosttest.New()
	n := NewNode(&Class{Name: "Made", Constructor: constant(host.Int32(7))})
	owned := n.CreateWrapper(h)
	defer owned.Release()
	proxy := owned.Object().(*Proxy)

	var exc host.Exception
	v := proxy.Call(host.Void(), nil, &exc)
	assert.False(t, exc.Pending())
	assert.EqualValues(t, 7, v.AsInt32())

	plain := NewNode(nil).CreateWrapper(h)
	defer plain.Release()
	exc.Clear()
	plain.Object().(*Proxy).Call(host.Void(), nil, &exc)
	assert.Equal(t, "missing constructor", exc.Message())
}

func TestDefaultFailuresThroughProxy(t *testing.T) {
	h := hosttest.New()
	owned := NewNode(nil).CreateWrapper(h)
	defer owned.Release()
	proxy := owned.Object().(*Proxy)

	var exc host.Exception
	proxy.SetProperty(host.String("x"), host.Int32(1), &exc)
	assert.Equal(t, "unknown property", exc.Message())

	exc.Clear()
	v := proxy.Call(host.String("x"), nil, &exc)
	assert.Equal(t, "method does not exist", exc.Message())
	assert.True(t, v.IsVoid())

	exc.Clear()
	proxy.Construct(nil, &exc)
	assert.Equal(t, "missing constructor", exc.Message())

	exc.Clear()
	assert.False(t, proxy.HasMethod(host.String("x"), &exc))
	assert.False(t, exc.Pending())
}

func TestFirstErrorWins(t *testing.T) {
	h := newHookedHost()
	owned := NewNode(nil).CreateWrapper(h)
	defer owned.Release()
	proxy := owned.Object().(*Proxy)

	var exc host.Exception
	exc.Raise("earlier failure")

	proxy.GetProperty(host.String("missing"), &exc)
	proxy.Construct(nil, &exc)
	proxy.Call(host.Int32(3), nil, &exc)

	assert.Equal(t, "earlier failure", exc.Message())
	assert.Equal(t, "method name is not a string", h.lastError)
}

func TestThrowRaisesValue(t *testing.T) {
	h := hosttest.New()
	n := NewNode(&Class{
		Name: "Thrower",
		Methods: map[string]Method{
			"fail": func(host.Context, []host.Variant) (host.Variant, error) {
				return host.Void(), Throw(host.Int32(42))
			},
		},
	})
	owned := n.CreateWrapper(h)
	defer owned.Release()
	proxy := owned.Object().(*Proxy)

	var exc host.Exception
	proxy.Call(host.String("fail"), nil, &exc)
	require.True(t, exc.Pending())
	assert.EqualValues(t, 42, exc.Value().AsInt32())

	obj := hosttest.NewObject()
	n.Class().Methods["failObject"] = func(host.Context, []host.Variant) (host.Variant, error) {
		return host.Void(), Throw(host.ObjectVariant(host.Retain(obj)))
	}
	proxy.Call(host.String("failObject"), nil, &exc)
	assert.EqualValues(t, 42, exc.Value().AsInt32())
	assert.EqualValues(t, 0, obj.Refs(), "losing thrown object must be released")
}

func TestPropertyNamesAreHostStrings(t *testing.T) {
	h := hosttest.New()
	n := NewNode(&Class{
		Name:       "Listed",
		Methods:    map[string]Method{"b": constant(host.Void())},
		Properties: map[string]Property{"a": {}},
	})
	owned := n.CreateWrapper(h)
	defer owned.Release()

	var exc host.Exception
	names := owned.Object().(*Proxy).PropertyNames(&exc)
	require.False(t, exc.Pending())
	require.Len(t, names, 2)
	assert.Equal(t, "a", names[0].AsString())
	assert.Equal(t, "b", names[1].AsString())
	assert.Equal(t, 2, h.Allocated)

	host.ReleaseAll(h, names)
	assert.Equal(t, 0, h.Allocated)
}

func TestPropertyNamesAllocationFailure(t *testing.T) {
	h := hosttest.New()
	h.AllocLimit = 3
	n := NewNode(&Class{
		Name:    "Listed",
		Methods: map[string]Method{"ab": constant(host.Void()), "toolong": constant(host.Void())},
	})
	owned := n.CreateWrapper(h)
	defer owned.Release()

	var exc host.Exception
	names := owned.Object().(*Proxy).PropertyNames(&exc)
	assert.Nil(t, names)
	assert.True(t, exc.Pending())
	assert.Equal(t, 0, h.Allocated)
}
