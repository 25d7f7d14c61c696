package bridge

import (
	"strings"

	"github.com/GriffinCanCode/scriptbridge/internal/host"
)

// Node is one exposable native entity: an optional class, a namespace of
// named children and an optional base it delegates to for anything it
// cannot resolve itself.
//
// Nodes are built once, before any host interaction, and live as long as
// the graph's owner. They are not safe for concurrent mutation.
type Node struct {
	base     *Node
	class    *Class
	children map[string]*Node
}

// NewNode creates a node backed by class, which may be nil
func NewNode(class *Class) *Node {
	return &Node{class: class, children: make(map[string]*Node)}
}

// SetBase replaces the delegation target. The chain is not checked for
// cycles here; graph builders must call CheckAcyclic.
func (n *Node) SetBase(base *Node) { n.base = base }

// Base returns the delegation target, nil if none
func (n *Node) Base() *Node { return n.base }

// SetClass replaces the node's dispatch table
func (n *Node) SetClass(c *Class) { n.class = c }

// Class returns the node's dispatch table, nil if none
func (n *Node) Class() *Class { return n.class }

// AddChild stores child under name, replacing any previous entry
func (n *Node) AddChild(name string, child *Node) {
	if n.children == nil {
		n.children = make(map[string]*Node)
	}
	n.children[name] = child
}

// Child returns the namespace entry for name
func (n *Node) Child(name string) (*Node, bool) {
	c, ok := n.children[name]
	return c, ok
}

// ChildNames returns the namespace keys, sorted
func (n *Node) ChildNames() []string {
	return sortedKeys(n.children)
}

// Lookup follows a dotted namespace path ("utils.text"). The empty path
// is the node itself. Bases are not consulted.
func (n *Node) Lookup(path string) (*Node, bool) {
	if path == "" {
		return n, true
	}
	cur := n
	for _, part := range strings.Split(path, ".") {
		next, ok := cur.Child(part)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// HasMethod reports whether a class on the chain defines method name.
// Namespace children are never methods.
func (n *Node) HasMethod(name string) bool {
	for cur := n; cur != nil; cur = cur.base {
		if _, ok := cur.class.method(name); ok {
			return true
		}
	}
	return false
}

// HasProperty reports whether name is a class property or a namespace
// child of any node on the chain.
func (n *Node) HasProperty(name string) bool {
	for cur := n; cur != nil; cur = cur.base {
		if _, ok := cur.class.property(name); ok {
			return true
		}
		if _, ok := cur.children[name]; ok {
			return true
		}
	}
	return false
}

// GetProperty resolves name own node first, then along the base chain.
// A namespace child comes back as a new proxy every time, owned by the
// caller.
func (n *Node) GetProperty(ctx host.Context, name string) (host.Variant, error) {
	for cur := n; cur != nil; cur = cur.base {
		if prop, ok := cur.class.property(name); ok {
			if prop.Get == nil {
				return host.Void(), ErrUnknownProperty
			}
			return prop.Get(ctx)
		}
		if child, ok := cur.children[name]; ok {
			return host.ObjectVariant(child.CreateWrapper(ctx)), nil
		}
	}
	return host.Void(), ErrUnknownProperty
}

// PropertyNames lists the class members along the chain, own node first.
// Namespace children are not enumerated.
func (n *Node) PropertyNames() []string {
	var names []string
	seen := make(map[string]bool)
	for cur := n; cur != nil; cur = cur.base {
		if cur.class == nil {
			continue
		}
		for _, group := range [][]string{cur.class.PropertyNames(), cur.class.MethodNames()} {
			for _, name := range group {
				if !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
			}
		}
	}
	return names
}

// SetProperty stores value through the first class on the chain that
// declares name. Nodes without a class never accept a set.
func (n *Node) SetProperty(ctx host.Context, name string, value host.Variant) error {
	for cur := n; cur != nil; cur = cur.base {
		prop, ok := cur.class.property(name)
		if !ok {
			continue
		}
		if prop.Set == nil {
			return ErrReadOnlyProperty
		}
		return prop.Set(ctx, value)
	}
	return ErrUnknownProperty
}

// Call invokes the first definition of method along the chain
func (n *Node) Call(ctx host.Context, method string, args []host.Variant) (host.Variant, error) {
	for cur := n; cur != nil; cur = cur.base {
		if m, ok := cur.class.method(method); ok {
			return m(ctx, args)
		}
	}
	return host.Void(), ErrMethodNotFound
}

// Construct runs the node's own constructor. Constructors are not
// inherited from the base.
func (n *Node) Construct(ctx host.Context, args []host.Variant) (host.Variant, error) {
	if n.class == nil || n.class.Constructor == nil {
		return host.Void(), ErrMissingConstructor
	}
	return n.class.Constructor(ctx, args)
}

// CreateWrapper returns a new proxy for n, already retained for the
// caller.
func (n *Node) CreateWrapper(ctx host.Context) host.Owned {
	return host.Retain(newProxy(ctx, n))
}
