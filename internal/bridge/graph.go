package bridge

import (
	"fmt"
	"strings"
)

// Walk visits root and every namespace descendant depth first, children
// in name order. path is the dotted path from root ("" for root). Nodes
// reachable by more than one path are visited once.
func Walk(root *Node, fn func(path string, n *Node)) {
	seen := make(map[*Node]bool)
	var visit func(path string, n *Node)
	visit = func(path string, n *Node) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		fn(path, n)
		for _, name := range n.ChildNames() {
			visit(join(path, name), n.children[name])
		}
	}
	visit("", root)
}

// CheckAcyclic verifies that every base chain starting in the graph
// under root ends. SetBase accepts anything; this is the check graph
// builders run before the graph is handed to a host.
func CheckAcyclic(root *Node) error {
	var err error
	Walk(root, func(path string, n *Node) {
		if err != nil {
			return
		}
		onChain := make(map[*Node]bool)
		for cur := n; cur != nil; cur = cur.base {
			if onChain[cur] {
				err = fmt.Errorf("%w: reached from %q", ErrCyclicBase, displayPath(path))
				return
			}
			onChain[cur] = true
		}
	})
	return err
}

// Description is a serializable view of a graph node
type Description struct {
	Path        string         `json:"path"`
	Class       string         `json:"class,omitempty"`
	Base        string         `json:"base,omitempty"`
	Methods     []string       `json:"methods,omitempty"`
	Properties  []string       `json:"properties,omitempty"`
	Constructor bool           `json:"constructor,omitempty"`
	Children    []*Description `json:"children,omitempty"`
}

// Describe renders the graph under root. Bases are reported by path when
// they belong to the graph and as "<external>" otherwise. A node shared by
// several parents is described under the first path Walk reaches it by.
func Describe(root *Node) *Description {
	paths := make(map[*Node]string)
	Walk(root, func(path string, n *Node) { paths[n] = path })

	byPath := make(map[string]*Description)
	Walk(root, func(path string, n *Node) {
		d := &Description{Path: displayPath(path)}
		if n.class != nil {
			d.Class = n.class.Name
			d.Methods = n.class.MethodNames()
			d.Properties = n.class.PropertyNames()
			d.Constructor = n.class.Constructor != nil
		}
		if n.base != nil {
			if bp, ok := paths[n.base]; ok {
				d.Base = displayPath(bp)
			} else {
				d.Base = "<external>"
			}
		}
		byPath[path] = d
		if path != "" {
			parent := byPath[parentPath(path)]
			parent.Children = append(parent.Children, d)
		}
	})
	return byPath[""]
}

func parentPath(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return ""
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func displayPath(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}
