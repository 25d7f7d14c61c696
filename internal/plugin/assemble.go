package plugin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GriffinCanCode/scriptbridge/internal/bridge"
	"github.com/GriffinCanCode/scriptbridge/internal/manifest"
)

// Assembly failures
var (
	ErrUnknownClass = errors.New("unknown class")
	ErrUnknownBase  = errors.New("unknown base")
)

// Assemble builds a fresh object graph from m. Namespaces are created
// first so that bases can refer to any node by its dotted path from the
// root; the finished graph must have terminating base chains.
func Assemble(m *manifest.Manifest, reg *bridge.Registry) (*bridge.Node, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	rootClass, err := classFor(reg, m.Class, "")
	if err != nil {
		return nil, err
	}
	root := bridge.NewNode(rootClass)

	var errs []error
	m.Walk(func(path string, ns *manifest.Namespace) {
		parent, ok := root.Lookup(parentOf(path))
		if !ok {
			errs = append(errs, fmt.Errorf("namespace %q has no parent", path))
			return
		}
		class, err := classFor(reg, ns.Class, path)
		if err != nil {
			errs = append(errs, err)
			return
		}
		parent.AddChild(ns.Name, bridge.NewNode(class))
	})
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := setBase(root, root, m.Base, ""); err != nil {
		errs = append(errs, err)
	}
	m.Walk(func(path string, ns *manifest.Namespace) {
		n, _ := root.Lookup(path)
		if err := setBase(root, n, ns.Base, path); err != nil {
			errs = append(errs, err)
		}
	})
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := bridge.CheckAcyclic(root); err != nil {
		return nil, err
	}
	return root, nil
}

func classFor(reg *bridge.Registry, name, path string) (*bridge.Class, error) {
	if name == "" {
		return nil, nil
	}
	c, ok := reg.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w %q at %q", ErrUnknownClass, name, displayPath(path))
	}
	return c, nil
}

func setBase(root, n *bridge.Node, base, path string) error {
	if base == "" {
		return nil
	}
	b, ok := root.Lookup(base)
	if !ok {
		return fmt.Errorf("%w %q at %q", ErrUnknownBase, base, displayPath(path))
	}
	n.SetBase(b)
	return nil
}

func parentOf(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return ""
}

func displayPath(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}
