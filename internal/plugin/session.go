package plugin

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/scriptbridge/internal/host/gojahost"
)

// Session is a plugin instance living in its own goja runtime, with the
// root object bound as a global. A session is used by one goroutine at a
// time.
type Session struct {
	plugin   *Plugin
	runtime  *gojahost.Runtime
	instance *Instance
}

// NewSession creates a runtime and an instance inside it
func (p *Plugin) NewSession(cfg gojahost.Config) (*Session, error) {
	if cfg.Logger == nil {
		cfg.Logger = p.logger.Component("console").Logger
	}
	rt, err := gojahost.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create runtime: %w", err)
	}

	s := &Session{plugin: p, runtime: rt}
	if err := s.attach(); err != nil {
		rt.Close()
		return nil, err
	}
	return s, nil
}

func (s *Session) attach() error {
	inst, err := s.plugin.NewInstance(s.runtime)
	if err != nil {
		return err
	}
	if err := s.runtime.Bind(s.plugin.options.Global, inst.ScriptableObject()); err != nil {
		inst.Destroy()
		return err
	}
	s.instance = inst
	return nil
}

// Instance returns the current plugin instance
func (s *Session) Instance() *Instance { return s.instance }

// Runtime returns the scripting host
func (s *Session) Runtime() *gojahost.Runtime { return s.runtime }

// Execute runs script with the plugin bound
func (s *Session) Execute(ctx context.Context, script string) (*gojahost.Result, error) {
	return s.runtime.Execute(ctx, script)
}

// Reset destroys the instance, clears the runtime and starts over with a
// new instance
func (s *Session) Reset() error {
	if s.instance != nil {
		s.instance.Destroy()
		s.instance = nil
	}
	if err := s.runtime.Reset(); err != nil {
		return err
	}
	return s.attach()
}

// Close destroys the instance and the runtime
func (s *Session) Close() error {
	if s.instance != nil {
		s.instance.Destroy()
		s.instance = nil
	}
	return s.runtime.Close()
}
