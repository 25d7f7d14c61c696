// Package manifest describes plugin namespace graphs declaratively.
//
// A manifest names the plugin, its MIME types and the class of its root
// object, and lists nested namespaces with their classes and bases. Bases
// are dotted paths from the root, so several namespaces can share one
// delegate. YAML, TOML and JSON encodings are accepted; several files can
// be merged with LoadGlob.
//
// Example Usage:
//
//	m, err := manifest.LoadGlob(afero.NewOsFs(), "plugins/**/*.yaml")
//	if err != nil {
//		return err
//	}
//	root, err := plugin.Assemble(m, registry)
package manifest
