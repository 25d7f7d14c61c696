package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Manifest describes a plugin and the namespace graph it exposes
type Manifest struct {
	Name        string      `yaml:"name" toml:"name" json:"name"`
	Description string      `yaml:"description" toml:"description" json:"description"`
	MIME        []string    `yaml:"mime" toml:"mime" json:"mime"`
	Class       string      `yaml:"class" toml:"class" json:"class"`
	Base        string      `yaml:"base" toml:"base" json:"base"`
	Namespaces  []Namespace `yaml:"namespaces" toml:"namespaces" json:"namespaces"`
}

// Namespace is one named entry of a parent's namespace. Base is a dotted
// path from the root node; empty means no base.
type Namespace struct {
	Name       string      `yaml:"name" toml:"name" json:"name"`
	Class      string      `yaml:"class" toml:"class" json:"class"`
	Base       string      `yaml:"base" toml:"base" json:"base"`
	Namespaces []Namespace `yaml:"namespaces" toml:"namespaces" json:"namespaces"`
}

// Format is a manifest encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for unsupported encodings or extensions
var ErrUnknownFormat = errors.New("unknown manifest format")

// FormatFromPath picks the format from a file extension
func FormatFromPath(p string) (Format, error) {
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, p)
}

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

// Parse decodes a manifest. Unknown fields are rejected.
func Parse(data []byte, format Format) (*Manifest, error) {
	var m Manifest
	var err error

	switch format {
	case FormatYAML:
		err = yaml.UnmarshalWithOptions(data, &m, yaml.DisallowUnknownField())
	case FormatTOML:
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&m)
	case FormatJSON:
		err = strictJSON.Unmarshal(data, &m)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s manifest: %w", format, err)
	}
	return &m, nil
}

// Walk visits every namespace depth first in declaration order. path is
// the dotted path from the root.
func (m *Manifest) Walk(fn func(path string, ns *Namespace)) {
	var visit func(prefix string, list []Namespace)
	visit = func(prefix string, list []Namespace) {
		for i := range list {
			ns := &list[i]
			p := ns.Name
			if prefix != "" {
				p = prefix + "." + ns.Name
			}
			fn(p, ns)
			visit(p, ns.Namespaces)
		}
	}
	visit("", m.Namespaces)
}

// Validate checks names and base references
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("manifest name is required")
	}

	var errs []error
	paths := map[string]bool{"": true}
	var check func(prefix string, list []Namespace)
	check = func(prefix string, list []Namespace) {
		seen := make(map[string]bool)
		for _, ns := range list {
			switch {
			case ns.Name == "":
				errs = append(errs, fmt.Errorf("empty namespace name under %q", prefix))
				continue
			case strings.Contains(ns.Name, "."):
				errs = append(errs, fmt.Errorf("namespace name %q contains a dot", ns.Name))
				continue
			case seen[ns.Name]:
				errs = append(errs, fmt.Errorf("duplicate namespace %q under %q", ns.Name, prefix))
				continue
			}
			seen[ns.Name] = true
			p := ns.Name
			if prefix != "" {
				p = prefix + "." + ns.Name
			}
			paths[p] = true
			check(p, ns.Namespaces)
		}
	}
	check("", m.Namespaces)

	if m.Base != "" && !paths[m.Base] {
		errs = append(errs, fmt.Errorf("root base %q is not a namespace path", m.Base))
	}
	m.Walk(func(p string, ns *Namespace) {
		if ns.Base != "" && !paths[ns.Base] {
			errs = append(errs, fmt.Errorf("base %q of %q is not a namespace path", ns.Base, p))
		}
	})
	return errors.Join(errs...)
}

// Merge overlays other onto m. Non-empty scalars of other win, MIME
// entries are appended without duplicates and namespaces with the same
// name are merged recursively.
func (m *Manifest) Merge(other *Manifest) {
	if other.Name != "" {
		m.Name = other.Name
	}
	if other.Description != "" {
		m.Description = other.Description
	}
	if other.Class != "" {
		m.Class = other.Class
	}
	if other.Base != "" {
		m.Base = other.Base
	}
	for _, mime := range other.MIME {
		if !contains(m.MIME, mime) {
			m.MIME = append(m.MIME, mime)
		}
	}
	m.Namespaces = mergeNamespaces(m.Namespaces, other.Namespaces)
}

func mergeNamespaces(dst, src []Namespace) []Namespace {
	for _, ns := range src {
		idx := -1
		for i := range dst {
			if dst[i].Name == ns.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			dst = append(dst, ns)
			continue
		}
		if ns.Class != "" {
			dst[idx].Class = ns.Class
		}
		if ns.Base != "" {
			dst[idx].Base = ns.Base
		}
		dst[idx].Namespaces = mergeNamespaces(dst[idx].Namespaces, ns.Namespaces)
	}
	return dst
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
