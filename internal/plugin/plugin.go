package plugin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GriffinCanCode/scriptbridge/internal/bridge"
	"github.com/GriffinCanCode/scriptbridge/internal/infrastructure/config"
	"github.com/GriffinCanCode/scriptbridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/scriptbridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/scriptbridge/internal/manifest"
	"github.com/GriffinCanCode/scriptbridge/internal/marshal"
)

// ErrInvalidParam is returned by GetValue for variables the plugin does
// not answer
var ErrInvalidParam = errors.New("invalid parameter")

// Variable names a plugin-level value a host can query
type Variable int

const (
	VariableName Variable = iota
	VariableDescription
)

func (v Variable) String() string {
	switch v {
	case VariableName:
		return "name"
	case VariableDescription:
		return "description"
	}
	return fmt.Sprintf("variable(%d)", int(v))
}

// Options tune marshalling and profiling for every instance
type Options struct {
	Index   marshal.IndexPolicy
	Wide    marshal.WideEncoding
	Profile bool
	// Global is the name the root object is bound to in script sessions
	Global string
}

// DefaultOptions uses the platform wide encoding and no workaround
func DefaultOptions() Options {
	return Options{
		Wide:   marshal.PlatformWideEncoding(),
		Global: "plugin",
	}
}

// OptionsFromConfig translates the GLUE_* settings
func OptionsFromConfig(cfg config.GlueConfig) (Options, error) {
	opts := DefaultOptions()

	missing, err := marshal.ParseMissingIndex(cfg.MissingIndex)
	if err != nil {
		return opts, fmt.Errorf("GLUE_MISSING_INDEX: %w", err)
	}
	wide, err := marshal.ParseWideEncoding(cfg.WideEncoding)
	if err != nil {
		return opts, fmt.Errorf("GLUE_WIDE_ENCODING: %w", err)
	}

	opts.Index = marshal.IndexPolicy{
		SkipExistenceCheck: cfg.HasPropertyWorkaround,
		Missing:            missing,
	}
	opts.Wide = wide
	opts.Profile = cfg.Profile
	return opts, nil
}

// Plugin is the process-wide plugin: its descriptor and the recipe for
// every instance's object graph
type Plugin struct {
	manifest *manifest.Manifest
	registry *bridge.Registry
	options  Options
	logger   *logging.Logger
	metrics  *monitoring.Metrics
}

// Option configures a Plugin
type Option func(*Plugin)

// WithOptions replaces the default options
func WithOptions(opts Options) Option {
	return func(p *Plugin) { p.options = opts }
}

// WithLogger sets the logger instances derive from
func WithLogger(l *logging.Logger) Option {
	return func(p *Plugin) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics reports instances, wrappers and exceptions to m
func WithMetrics(m *monitoring.Metrics) Option {
	return func(p *Plugin) { p.metrics = m }
}

// New validates the manifest against the registry by assembling the
// graph once
func New(m *manifest.Manifest, reg *bridge.Registry, opts ...Option) (*Plugin, error) {
	if m == nil {
		return nil, errors.New("manifest is required")
	}
	if reg == nil {
		return nil, errors.New("class registry is required")
	}

	p := &Plugin{
		manifest: m,
		registry: reg,
		options:  DefaultOptions(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.options.Global == "" {
		p.options.Global = "plugin"
	}

	if _, err := Assemble(m, reg); err != nil {
		return nil, err
	}
	return p, nil
}

// Manifest returns the plugin manifest
func (p *Plugin) Manifest() *manifest.Manifest { return p.manifest }

// Registry returns the class registry
func (p *Plugin) Registry() *bridge.Registry { return p.registry }

// Options returns the instance options
func (p *Plugin) Options() Options { return p.options }

// Metrics returns the metrics sink, possibly nil
func (p *Plugin) Metrics() *monitoring.Metrics { return p.metrics }

// Logger returns the plugin logger
func (p *Plugin) Logger() *logging.Logger { return p.logger }

// GetValue answers plugin-level queries that need no instance
func (p *Plugin) GetValue(v Variable) (string, error) {
	switch v {
	case VariableName:
		return p.manifest.Name, nil
	case VariableDescription:
		return p.manifest.Description, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidParam, v)
}

// MIMEDescription lists the handled MIME types separated by ";"
func (p *Plugin) MIMEDescription() string {
	return strings.Join(p.manifest.MIME, ";")
}
