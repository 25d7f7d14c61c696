package plugin

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/scriptbridge/internal/bridge"
	"github.com/GriffinCanCode/scriptbridge/internal/host"
	"github.com/GriffinCanCode/scriptbridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/scriptbridge/internal/marshal"
	"github.com/GriffinCanCode/scriptbridge/internal/profile"
	"github.com/GriffinCanCode/scriptbridge/internal/shared/id"
)

// Instance is one embedding of the plugin in a host. It owns its object
// graph and the root proxy handed to the host.
type Instance struct {
	id     id.InstanceID
	plugin *Plugin
	root   *bridge.Node
	ctx    *instanceContext
	log    *logging.Logger

	profiler profile.Profiler
	recorder *profile.Recorder
	accessor *marshal.Accessor
	codec    *marshal.Codec

	mu        sync.Mutex
	scripting host.Owned
	lastError string
	destroyed bool
}

// NewInstance assembles a new graph and wraps its root for hc
func (p *Plugin) NewInstance(hc host.Context) (*Instance, error) {
	root, err := Assemble(p.manifest, p.registry)
	if err != nil {
		return nil, err
	}

	inst := &Instance{
		id:       id.NewInstanceID(),
		plugin:   p,
		root:     root,
		profiler: profile.Nop{},
		codec:    marshal.NewCodec(p.options.Wide),
	}
	inst.log = p.logger.Instance(inst.id.String())

	if p.options.Profile {
		inst.recorder = profile.NewRecorder(p.histogram())
		inst.profiler = inst.recorder
	}
	inst.accessor = &marshal.Accessor{Policy: p.options.Index, Profiler: inst.profiler}
	inst.ctx = &instanceContext{Context: hc, inst: inst}
	inst.scripting = root.CreateWrapper(inst.ctx)

	if p.metrics != nil {
		p.metrics.InstanceCreated()
	}
	inst.log.Info("plugin instance created",
		zap.String("plugin", p.manifest.Name),
		zap.Bool("profile", p.options.Profile),
		zap.String("wide", p.options.Wide.String()))
	return inst, nil
}

// ID returns the instance identifier
func (i *Instance) ID() id.InstanceID { return i.id }

// Root returns the root node of the instance graph
func (i *Instance) Root() *bridge.Node { return i.root }

// Context returns the host context bridge proxies of this instance use
func (i *Instance) Context() host.Context { return i.ctx }

// ScriptableObject returns the root proxy retained for the caller. It is
// invalid once the instance is destroyed.
func (i *Instance) ScriptableObject() host.Owned {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.destroyed || !i.scripting.Valid() {
		return host.Owned{}
	}
	return host.Retain(i.scripting.Object())
}

// Destroy drops the instance's reference to the root proxy. Proxies the
// host still holds stay usable until released, as the graph is only
// reachable through them.
func (i *Instance) Destroy() {
	i.mu.Lock()
	if i.destroyed {
		i.mu.Unlock()
		return
	}
	i.destroyed = true
	scripting := i.scripting
	i.scripting = host.Owned{}
	i.mu.Unlock()

	scripting.Release()
	if i.recorder != nil {
		i.log.Debug("profile", zap.String("report", i.recorder.String()))
	}
	if m := i.plugin.metrics; m != nil {
		m.InstanceDestroyed()
	}
	i.log.Info("plugin instance destroyed")
}

// Destroyed reports whether Destroy has run
func (i *Instance) Destroyed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.destroyed
}

// SetLastError records the most recent exception message
func (i *Instance) SetLastError(msg string) {
	i.mu.Lock()
	i.lastError = msg
	i.mu.Unlock()

	i.log.Debug("exception raised", zap.String("message", msg))
	if m := i.plugin.metrics; m != nil {
		m.RecordException(exceptionLabel(msg))
	}
}

// LastError returns the most recent exception message
func (i *Instance) LastError() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.lastError
}

// Profiler returns the instance profiler, a no-op unless profiling is on
func (i *Instance) Profiler() profile.Profiler { return i.profiler }

// ProfileStats returns the accumulated timings, nil when not profiling
func (i *Instance) ProfileStats() []profile.Stat {
	if i.recorder == nil {
		return nil
	}
	return i.recorder.Stats()
}

// Accessor returns the property accessor configured for this instance
func (i *Instance) Accessor() *marshal.Accessor { return i.accessor }

// Codec returns the wide text codec configured for this instance
func (i *Instance) Codec() *marshal.Codec { return i.codec }

func (p *Plugin) histogram() *prometheus.HistogramVec {
	if p.metrics == nil {
		return nil
	}
	return p.metrics.OperationDuration
}

// exceptionLabel keeps the exception metric's label set bounded
func exceptionLabel(msg string) string {
	for _, err := range []error{
		bridge.ErrUnknownProperty,
		bridge.ErrMethodNotFound,
		bridge.ErrMissingConstructor,
		bridge.ErrReadOnlyProperty,
		bridge.ErrMethodNameNotString,
		bridge.ErrPropertyNameNotString,
	} {
		if msg == err.Error() {
			return msg
		}
	}
	return "other"
}
