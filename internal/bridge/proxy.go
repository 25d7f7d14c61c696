package bridge

import (
	"github.com/GriffinCanCode/scriptbridge/internal/host"
	"github.com/GriffinCanCode/scriptbridge/internal/marshal"
	"github.com/GriffinCanCode/scriptbridge/internal/profile"
)

// Hooks is implemented by host contexts that belong to a plugin instance.
// Proxies look for it on the context they were created with.
type Hooks interface {
	Profiler() profile.Profiler
	SetLastError(msg string)
	WrapperCreated()
	WrapperReleased()
}

// Proxy is the host-visible object backed by exactly one node. It checks
// the shape of every request and forwards it to the node together with
// the context it was created for.
type Proxy struct {
	host.RefCount
	ctx   host.Context
	node  *Node
	hooks Hooks
}

var _ host.Scriptable = (*Proxy)(nil)

func newProxy(ctx host.Context, node *Node) *Proxy {
	p := &Proxy{ctx: ctx, node: node}
	if h, ok := ctx.(Hooks); ok {
		p.hooks = h
		h.WrapperCreated()
		p.OnFree(h.WrapperReleased)
	}
	return p
}

// Node returns the backing node
func (p *Proxy) Node() *Node { return p.node }

// Context returns the host context the proxy was created for
func (p *Proxy) Context() host.Context { return p.ctx }

func (p *Proxy) scope(op, name string) *profile.Scoped {
	var prof profile.Profiler = profile.Nop{}
	if p.hooks != nil {
		if hp := p.hooks.Profiler(); hp != nil {
			prof = hp
		}
	}
	return profile.Scope(prof, className(p.node.class)+"::"+op+"("+name+")")
}

func (p *Proxy) fail(exc *host.Exception, err error) {
	raise(exc, err)
	if p.hooks != nil {
		p.hooks.SetLastError(err.Error())
	}
}

func (p *Proxy) methodName(name host.Variant, exc *host.Exception) (string, bool) {
	if !name.IsString() {
		p.fail(exc, ErrMethodNameNotString)
		return "", false
	}
	return name.AsString(), true
}

func (p *Proxy) propertyName(name host.Variant, exc *host.Exception) (string, bool) {
	if !name.IsString() {
		p.fail(exc, ErrPropertyNameNotString)
		return "", false
	}
	return name.AsString(), true
}

func (p *Proxy) HasMethod(name host.Variant, exc *host.Exception) bool {
	method, ok := p.methodName(name, exc)
	if !ok {
		return false
	}
	defer p.scope("HasMethod", method).Stop()
	return p.node.HasMethod(method)
}

func (p *Proxy) HasProperty(name host.Variant, exc *host.Exception) bool {
	prop, ok := p.propertyName(name, exc)
	if !ok {
		return false
	}
	defer p.scope("HasProperty", prop).Stop()
	return p.node.HasProperty(prop)
}

func (p *Proxy) GetProperty(name host.Variant, exc *host.Exception) host.Variant {
	prop, ok := p.propertyName(name, exc)
	if !ok {
		return host.Void()
	}
	defer p.scope("GetProperty", prop).Stop()

	v, err := p.node.GetProperty(p.ctx, prop)
	if err != nil {
		p.fail(exc, err)
		return host.Void()
	}
	return v
}

// PropertyNames returns host-allocated name strings owned by the caller
func (p *Proxy) PropertyNames(exc *host.Exception) []host.Variant {
	defer p.scope("PropertyNames", "").Stop()

	names := p.node.PropertyNames()
	out := make([]host.Variant, 0, len(names))
	for _, name := range names {
		v, err := marshal.ValueFromString(p.ctx, name)
		if err != nil {
			host.ReleaseAll(p.ctx, out)
			p.fail(exc, err)
			return nil
		}
		out = append(out, v)
	}
	return out
}

func (p *Proxy) SetProperty(name, value host.Variant, exc *host.Exception) {
	prop, ok := p.propertyName(name, exc)
	if !ok {
		return
	}
	defer p.scope("SetProperty", prop).Stop()

	if err := p.node.SetProperty(p.ctx, prop, value); err != nil {
		p.fail(exc, err)
	}
}

// Call invokes method. A Void method name is a construction request.
func (p *Proxy) Call(method host.Variant, args []host.Variant, exc *host.Exception) host.Variant {
	if method.IsVoid() {
		return p.Construct(args, exc)
	}
	name, ok := p.methodName(method, exc)
	if !ok {
		return host.Void()
	}
	defer p.scope("Call", name).Stop()

	v, err := p.node.Call(p.ctx, name, args)
	if err != nil {
		p.fail(exc, err)
		return host.Void()
	}
	return v
}

func (p *Proxy) Construct(args []host.Variant, exc *host.Exception) host.Variant {
	defer p.scope("Construct", "").Stop()

	v, err := p.node.Construct(p.ctx, args)
	if err != nil {
		p.fail(exc, err)
		return host.Void()
	}
	return v
}
