package gojahost

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/scriptbridge/internal/host"
)

// ErrClosed is returned by Execute after Close
var ErrClosed = errors.New("runtime is closed")

// Runtime is a goja VM acting as a scripting host for bridge objects
type Runtime struct {
	vm     *goja.Runtime
	config Config
	mu     sync.Mutex

	// Console output
	console   []LogEntry
	consoleMu sync.Mutex

	// References held by script-visible objects, released on Reset/Close
	adopted   []host.Object
	exposed   map[*goja.Object]host.Scriptable
	allocated int
}

var _ host.Context = (*Runtime)(nil)

// New creates a new runtime
func New(config Config) (*Runtime, error) {
	r := &Runtime{config: config}
	if err := r.init(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Runtime) init() error {
	r.vm = goja.New()
	if r.config.MaxCallStackSize > 0 {
		r.vm.SetMaxCallStackSize(r.config.MaxCallStackSize)
	}
	r.console = []LogEntry{}
	r.exposed = make(map[*goja.Object]host.Scriptable)
	r.allocated = 0
	return r.setupGlobals()
}

// Execute runs JavaScript code with timeout and cancellation
func (r *Runtime) Execute(ctx context.Context, script string) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.vm == nil {
		return nil, ErrClosed
	}

	start := time.Now()
	result := &Result{Console: []LogEntry{}}

	done := make(chan struct{})
	defer close(done)

	var timeout <-chan time.Time
	if r.config.Timeout > 0 {
		timer := time.NewTimer(r.config.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	vm := r.vm
	go func() {
		select {
		case <-timeout:
			vm.Interrupt("execution timeout exceeded")
		case <-ctx.Done():
			vm.Interrupt("context cancelled")
		case <-done:
		}
	}()

	r.consoleMu.Lock()
	r.console = []LogEntry{}
	r.consoleMu.Unlock()

	val, err := vm.RunString(script)
	vm.ClearInterrupt()

	result.Duration = time.Since(start)

	r.consoleMu.Lock()
	result.Console = append(result.Console, r.console...)
	r.consoleMu.Unlock()

	if err != nil {
		result.Error = err
		return result, err
	}

	result.Value = r.exportValue(val)
	return result, nil
}

// Bind exposes obj as a global named name. The runtime takes over the
// reference and releases it on Reset or Close.
func (r *Runtime) Bind(name string, obj host.Owned) error {
	if !obj.Valid() {
		return fmt.Errorf("bind %s: no object", name)
	}
	val := r.toValue(host.ObjectVariant(obj))
	obj.Release()
	if err := r.vm.Set(name, val); err != nil {
		return fmt.Errorf("bind %s: %w", name, err)
	}
	return nil
}

// setupGlobals configures global objects and security
func (r *Runtime) setupGlobals() error {
	// Remove dangerous globals
	for _, name := range []string{"require", "process", "module", "exports"} {
		if err := r.vm.Set(name, goja.Undefined()); err != nil {
			return err
		}
	}

	if r.config.EnableConsole {
		console := r.vm.NewObject()
		for _, level := range []string{"log", "info", "warn", "error"} {
			if err := console.Set(level, r.makeConsoleFunc(level)); err != nil {
				return err
			}
		}
		if err := r.vm.Set("console", console); err != nil {
			return err
		}
	}

	// Timers are no-ops; scripts run to completion synchronously
	noop := func(goja.FunctionCall) goja.Value { return goja.Undefined() }
	r.vm.Set("setTimeout", noop)
	r.vm.Set("setInterval", noop)

	// construct(target, ...args) invokes a bridge object's constructor
	return r.vm.Set("construct", r.constructFunc)
}

// makeConsoleFunc creates a console function
func (r *Runtime) makeConsoleFunc(level string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		msg := strings.Join(parts, " ")

		r.consoleMu.Lock()
		r.console = append(r.console, LogEntry{
			Level:   level,
			Message: msg,
			Time:    time.Now(),
		})
		r.consoleMu.Unlock()

		if l := r.config.Logger; l != nil {
			field := zap.String("source", "console")
			switch level {
			case "warn":
				l.Warn(msg, field)
			case "error":
				l.Error(msg, field)
			default:
				l.Info(msg, field)
			}
		}
		return goja.Undefined()
	}
}

// exportValue converts goja value to Go value
func (r *Runtime) exportValue(val goja.Value) interface{} {
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil
	}
	if obj, ok := val.(*goja.Object); ok {
		if s, ok := r.unwrap(obj); ok {
			return fmt.Sprintf("[object %T]", s)
		}
	}
	return val.Export()
}

func (r *Runtime) releaseAdopted() {
	for _, obj := range r.adopted {
		obj.Release()
	}
	r.adopted = nil
}

// Reset drops all script state and releases adopted references
func (r *Runtime) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.releaseAdopted()
	return r.init()
}

// Close releases resources
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.releaseAdopted()
	r.vm = nil
	r.console = nil
	r.exposed = nil
	return nil
}

// Allocated reports the bytes handed out by MemAlloc and not yet freed
func (r *Runtime) Allocated() int { return r.allocated }

// VM returns the underlying goja runtime
func (r *Runtime) VM() *goja.Runtime { return r.vm }
