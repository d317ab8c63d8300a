package rendercontrol

import (
	"github.com/pkg/errors"

	"github.com/saiko-tech/bml-exporter/pkg/bml"
	"github.com/saiko-tech/bml-exporter/pkg/logging"
)

// Instruction is an encoded render control together with the name of the
// graph node it was generated for.
type Instruction struct {
	Source string
	bml.RenderControl
}

// Linearizer orders expression graphs and assigns result variables.
// A Linearizer is not safe for concurrent use.
type Linearizer struct {
	log logging.Logger
	pad Scratchpad
}

func NewLinearizer(log logging.Logger) *Linearizer {
	return &Linearizer{log: logging.OrNop(log)}
}

type portKey struct {
	node int
	port int
}

type edge struct {
	from, to int
	port     int
}

// Linearize returns the instructions of g in an order in which every
// argument is computed before it is read. Scratch variables are reassigned
// from scratch on every call.
func (l *Linearizer) Linearize(g *Graph) ([]Instruction, error) {
	l.pad.Clear()

	if g.Empty() {
		return nil, nil
	}

	index, err := g.validate()
	if err != nil {
		return nil, err
	}

	edges := l.normalize(g, index)

	for _, e := range edges {
		for _, i := range [2]int{e.from, e.to} {
			if g.Nodes[i].Kind == DofReference && !g.Nodes[i].bound() {
				return nil, errors.Errorf("render control node %q is not linked to a DOF", g.Nodes[i].Name)
			}
		}
	}

	order, err := topologicalOrder(g, edges)
	if err != nil {
		return nil, err
	}

	inputs := make(map[portKey]int, len(edges))
	outputs := make([][]int, len(g.Nodes))

	for _, e := range edges {
		if _, ok := inputs[portKey{e.to, e.port}]; !ok {
			inputs[portKey{e.to, e.port}] = e.from
		}

		outputs[e.from] = appendUnique(outputs[e.from], e.to)
	}

	results := make([]bml.Argument, len(g.Nodes))

	for _, i := range order {
		results[i], err = l.result(g, i, outputs[i])
		if err != nil {
			return nil, err
		}
	}

	var out []Instruction

	for _, i := range order {
		n := &g.Nodes[i]

		switch n.Kind {
		case Operation:
			args := make([]bml.Argument, n.ports())
			for p := range args {
				if from, ok := inputs[portKey{i, p}]; ok {
					args[p] = results[from]
				} else {
					args[p] = bml.FloatArg(n.literal(p))
				}
			}

			out = append(out, Instruction{
				Source:        n.Name,
				RenderControl: bml.RenderControl{Op: n.Op, Arguments: args, Result: results[i]},
			})

		case DofReference:
			from, ok := inputs[portKey{i, 0}]
			if !ok {
				continue
			}

			src := results[from]
			if src.Type == bml.ArgDofID && src.ID == uint32(n.Dof) {
				// written directly by its source
				continue
			}

			out = append(out, Instruction{
				Source: n.Name,
				RenderControl: bml.RenderControl{
					Op:        bml.MathSet,
					Arguments: []bml.Argument{src},
					Result:    bml.DofArg(uint32(n.Dof)),
				},
			})
		}
	}

	for _, ins := range out {
		l.log.Debugf("render control %q: %s %v -> %s", ins.Source, ins.Op, ins.Arguments, ins.Result)
	}

	return out, nil
}

func (l *Linearizer) result(g *Graph, i int, consumers []int) (bml.Argument, error) {
	n := &g.Nodes[i]

	if n.Kind == DofReference {
		return bml.DofArg(uint32(n.Dof)), nil
	}

	if len(consumers) == 0 {
		return bml.Argument{}, nil
	}

	var (
		numbers []int
		allDofs = true
	)

	for _, c := range consumers {
		if g.Nodes[c].Kind != DofReference {
			allDofs = false
			continue
		}

		numbers = appendUnique(numbers, g.Nodes[c].Dof)
	}

	if allDofs && len(numbers) == 1 {
		return bml.DofArg(uint32(numbers[0])), nil
	}

	id, err := l.pad.Alloc()
	if err != nil {
		return bml.Argument{}, errors.Wrapf(err, "failed to allocate result of render control node %q", n.Name)
	}

	return bml.ScratchArg(id), nil
}

// normalize resolves the links of g into the set the engine can express:
// self links are ignored, an operation feeding a DOF feeds every reference
// to the same DOF, and each input keeps a single source.
func (l *Linearizer) normalize(g *Graph, index map[string]int) []edge {
	refs := make(map[int][]int)

	for i := range g.Nodes {
		if g.Nodes[i].bound() {
			refs[g.Nodes[i].Dof] = append(refs[g.Nodes[i].Dof], i)
		}
	}

	var (
		expanded []edge
		seen     = make(map[edge]bool)
	)

	add := func(e edge) {
		if !seen[e] {
			seen[e] = true
			expanded = append(expanded, e)
		}
	}

	for _, link := range g.Links {
		from, to := index[link.From], index[link.To]
		if from == to {
			continue
		}

		if g.Nodes[from].Kind == Operation && g.Nodes[to].bound() {
			for _, ref := range refs[g.Nodes[to].Dof] {
				add(edge{from: from, to: ref})
			}

			continue
		}

		add(edge{from: from, to: to, port: link.Port})
	}

	var (
		kept  []edge
		first = make(map[portKey]int)
	)

	for _, e := range expanded {
		from, to := &g.Nodes[e.from], &g.Nodes[e.to]

		if from.bound() && to.bound() && from.Dof == to.Dof {
			l.log.Debugf("ignoring link %q -> %q between references to DOF %d", from.Name, to.Name, to.Dof)
			continue
		}

		key := portKey{e.to, e.port}

		f, connected := first[key]
		if !connected {
			first[key] = e.from
			kept = append(kept, e)

			continue
		}

		if to.Kind == DofReference && from.bound() && g.Nodes[f].bound() && g.Nodes[f].Dof == from.Dof {
			kept = append(kept, e)
			continue
		}

		l.log.Warnf("dropping link %q -> %q: input %d is already connected to %q",
			from.Name, to.Name, e.port, g.Nodes[f].Name)
	}

	return kept
}

// topologicalOrder returns the node indices of g so that every node follows
// its sources. Among ready nodes the one that comes first in a depth-first
// walk from the graph's roots is taken.
func topologicalOrder(g *Graph, edges []edge) ([]int, error) {
	n := len(g.Nodes)
	outputs := make([][]int, n)
	indegree := make([]int, n)

	for _, e := range edges {
		outputs[e.from] = append(outputs[e.from], e.to)
		indegree[e.to]++
	}

	rank := make([]int, n)
	for i := range rank {
		rank[i] = -1
	}

	next := 0

	var walk func(i int)
	walk = func(i int) {
		if rank[i] >= 0 {
			return
		}

		rank[i] = next
		next++

		for _, j := range outputs[i] {
			walk(j)
		}
	}

	for i := range g.Nodes {
		if indegree[i] == 0 {
			walk(i)
		}
	}

	// only nodes on or behind a cycle are left
	for i := range rank {
		if rank[i] < 0 {
			rank[i] = next + i
		}
	}

	order := make([]int, 0, n)
	done := make([]bool, n)

	for len(order) < n {
		best := -1

		for i := 0; i < n; i++ {
			if !done[i] && indegree[i] == 0 && (best < 0 || rank[i] < rank[best]) {
				best = i
			}
		}

		if best < 0 {
			for i := range done {
				if !done[i] {
					return nil, errors.Errorf("render control graph contains a cycle through node %q", g.Nodes[i].Name)
				}
			}
		}

		done[best] = true
		order = append(order, best)

		for _, j := range outputs[best] {
			indegree[j]--
		}
	}

	return order, nil
}

func appendUnique(s []int, v int) []int {
	for _, x := range s {
		if x == v {
			return s
		}
	}

	return append(s, v)
}
