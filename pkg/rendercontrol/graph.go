// Package rendercontrol turns a render control expression graph into the
// ordered list of DOF math instructions stored in front of a model's nodes.
package rendercontrol

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/saiko-tech/bml-exporter/pkg/bml"
)

// NodeKind distinguishes operations from DOF references.
type NodeKind int

const (
	// Operation computes a value from up to five inputs.
	Operation NodeKind = iota
	// DofReference reads or writes one DOF of the model. Its single input
	// port is 0.
	DofReference
)

func (k NodeKind) String() string {
	if k == DofReference {
		return "dof"
	}

	return "operation"
}

// Unbound marks a DOF reference that is not attached to a DOF of the model.
const Unbound = -1

// Node is a vertex of the expression graph.
type Node struct {
	Name string
	Kind NodeKind
	Op   bml.MathOp
	// Defaults are the literal values of unconnected input ports.
	Defaults []float32
	// Dof is the DOF number of a reference, or Unbound.
	Dof int
}

// Link connects the output of From to input Port of To.
type Link struct {
	From string
	To   string
	Port int
}

func (l Link) String() string {
	return fmt.Sprintf("%s -> %s[%d]", l.From, l.To, l.Port)
}

// Graph is an expression graph. Node and link order is significant: it
// decides the instruction order among independent nodes.
type Graph struct {
	Nodes []Node
	Links []Link
}

// Empty reports whether g holds no nodes.
func (g *Graph) Empty() bool {
	return g == nil || len(g.Nodes) == 0
}

func (n *Node) ports() int {
	if n.Kind == DofReference {
		return 1
	}

	return len(n.Op.Ports())
}

func (n *Node) literal(port int) float32 {
	if port < len(n.Defaults) {
		return n.Defaults[port]
	}

	return 0
}

func (n *Node) bound() bool {
	return n.Kind == DofReference && n.Dof != Unbound
}

// validate checks names, link endpoints and ports.
func (g *Graph) validate() (map[string]int, error) {
	index := make(map[string]int, len(g.Nodes))

	for i := range g.Nodes {
		n := &g.Nodes[i]

		if _, dup := index[n.Name]; dup {
			return nil, errors.Errorf("duplicate render control node %q", n.Name)
		}

		if n.Kind == Operation {
			if !n.Op.Valid() {
				return nil, errors.Errorf("render control node %q has unknown operation %d", n.Name, n.Op)
			}

			if n.ports() > bml.MaxArguments {
				return nil, errors.Errorf("render control node %q has %d arguments, at most %d are allowed",
					n.Name, n.ports(), bml.MaxArguments)
			}
		}

		index[n.Name] = i
	}

	for _, l := range g.Links {
		if _, ok := index[l.From]; !ok {
			return nil, errors.Errorf("link %s: unknown node %q", l, l.From)
		}

		to, ok := index[l.To]
		if !ok {
			return nil, errors.Errorf("link %s: unknown node %q", l, l.To)
		}

		if l.Port < 0 || l.Port >= g.Nodes[to].ports() {
			return nil, errors.Errorf("link %s: node %q has no input port %d", l, l.To, l.Port)
		}
	}

	return index, nil
}
