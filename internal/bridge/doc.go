// Package bridge exposes a graph of native objects to a scripting host.
//
// A Node is one addressable entity. It may carry a Class (its own methods,
// properties and constructor), owns a namespace of named child nodes and
// may delegate to a single base node. Every lookup checks the node's class,
// then its namespace, then walks the base chain.
//
// A Proxy is what the host actually holds. It validates the shape of each
// request, forwards it to its node and turns errors into host exceptions.
// Reading a namespace child yields a new proxy every time; there is no
// identity cache.
//
// Ownership:
//   - Proxies are returned to the host already retained (host.Owned).
//   - Nodes never own their base and must outlive every proxy.
//   - Base chains must be acyclic; CheckAcyclic enforces it at assembly.
//
// Example Usage:
//
//	shared := bridge.NewNode(&bridge.Class{
//		Name: "Greeter",
//		Methods: map[string]bridge.Method{
//			"greet": func(ctx host.Context, _ []host.Variant) (host.Variant, error) {
//				return marshal.ValueFromString(ctx, "Hello World!")
//			},
//		},
//	})
//	root := bridge.NewNode(nil)
//	root.SetBase(shared)
//	root.AddChild("utils", bridge.NewNode(utilsClass))
//	if err := bridge.CheckAcyclic(root); err != nil {
//		return err
//	}
//	scriptable := root.CreateWrapper(ctx)
package bridge
