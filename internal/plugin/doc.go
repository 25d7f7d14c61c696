/*
Package plugin ties the bridge to a hosting environment.

A Plugin holds the manifest and class registry every instance is built
from and answers instance-free queries (name, description, MIME types).
Each Instance assembles its own object graph, wraps the root node in a
proxy, and hands that proxy to the host through ScriptableObject.

The context an instance gives its proxies carries the instance hooks:
profiling, last-error reporting and wrapper accounting. Native methods
reach the instance's accessor and codec through AccessorFor and CodecFor.

Sessions run an instance inside a goja runtime with the root bound as a
global; a Pool keeps several sessions ready for concurrent callers:

	pool, err := plugin.NewPool(p, gojahost.DefaultConfig(), 4)
	if err != nil {
		return err
	}
	defer pool.Close()

	result, err := pool.Execute(ctx, `plugin.greet("you")`)
*/
package plugin
