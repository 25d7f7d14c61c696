package plugin

import (
	"github.com/GriffinCanCode/scriptbridge/internal/bridge"
	"github.com/GriffinCanCode/scriptbridge/internal/host"
	"github.com/GriffinCanCode/scriptbridge/internal/marshal"
	"github.com/GriffinCanCode/scriptbridge/internal/profile"
)

// instanceContext is the host context handed to the graph. It forwards
// the host primitives and adds the instance hooks proxies look for.
type instanceContext struct {
	host.Context
	inst *Instance
}

var (
	_ bridge.Hooks = (*instanceContext)(nil)
	_ Services     = (*instanceContext)(nil)
)

func (c *instanceContext) Profiler() profile.Profiler  { return c.inst.profiler }
func (c *instanceContext) SetLastError(msg string)     { c.inst.SetLastError(msg) }
func (c *instanceContext) Accessor() *marshal.Accessor { return c.inst.accessor }
func (c *instanceContext) Codec() *marshal.Codec       { return c.inst.codec }
func (c *instanceContext) Instance() *Instance         { return c.inst }

func (c *instanceContext) WrapperCreated() {
	if m := c.inst.plugin.metrics; m != nil {
		m.WrapperCreated()
	}
}

func (c *instanceContext) WrapperReleased() {
	if m := c.inst.plugin.metrics; m != nil {
		m.WrapperReleased()
	}
}

// Services is what native methods can ask of the context they are called
// with
type Services interface {
	Accessor() *marshal.Accessor
	Codec() *marshal.Codec
	Instance() *Instance
}

// AccessorFor returns the instance accessor behind ctx, or one with the
// default policy when ctx does not belong to an instance
func AccessorFor(ctx host.Context) *marshal.Accessor {
	if s, ok := ctx.(Services); ok {
		return s.Accessor()
	}
	return marshal.NewAccessor(marshal.IndexPolicy{})
}

// CodecFor returns the instance codec behind ctx, or the platform codec
func CodecFor(ctx host.Context) *marshal.Codec {
	if s, ok := ctx.(Services); ok {
		return s.Codec()
	}
	return marshal.NewCodec(marshal.PlatformWideEncoding())
}

// InstanceFor returns the instance ctx belongs to
func InstanceFor(ctx host.Context) (*Instance, bool) {
	if s, ok := ctx.(Services); ok {
		return s.Instance(), true
	}
	return nil, false
}
