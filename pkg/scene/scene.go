package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/saiko-tech/bml-exporter/pkg/catalog"
	"github.com/saiko-tech/bml-exporter/pkg/rendercontrol"
)

// Collection groups root objects. The objects of child collections belong
// to the collection as well.
type Collection struct {
	Name     string
	Objects  []*Object
	Children []*Collection
}

// Roots returns the root objects of c and of all of its child collections.
func (c *Collection) Roots() []*Object {
	roots := append([]*Object(nil), c.Objects...)

	for _, child := range c.Children {
		roots = append(roots, child.Roots()...)
	}

	return roots
}

// Walk calls fn for every object of c.
func (c *Collection) Walk(fn func(*Object)) {
	for _, o := range c.Roots() {
		o.Walk(fn)
	}
}

func (c *Collection) Clone() *Collection {
	out := &Collection{Name: c.Name}

	for _, o := range c.Objects {
		out.Objects = append(out.Objects, o.Clone())
	}

	for _, child := range c.Children {
		out.Children = append(out.Children, child.Clone())
	}

	return out
}

func (c *Collection) find(name string) *Collection {
	if c.Name == name {
		return c
	}

	for _, child := range c.Children {
		if found := child.find(name); found != nil {
			return found
		}
	}

	return nil
}

// LOD is one exported level of detail.
type LOD struct {
	Collection string
	// Suffix is appended to the file prefix of the model.
	Suffix string
	// Distance is the viewing distance at which the LOD is used.
	Distance float32
}

// MaterialAlternative maps a base material to its replacement in a set.
type MaterialAlternative struct {
	Base        string
	Alternative string
}

// MaterialSet is an alternative texture set of the model.
type MaterialSet struct {
	Name         string
	Alternatives []MaterialAlternative
}

// Alternative returns the replacement for base.
func (s *MaterialSet) Alternative(base string) (string, bool) {
	for _, a := range s.Alternatives {
		if a.Base == base {
			return a.Alternative, true
		}
	}

	return "", false
}

// Scene is everything an export reads.
type Scene struct {
	Collections []*Collection
	LODs        []LOD
	// MaterialTrees are material libraries. At most one may be defined.
	MaterialTrees [][]Material
	MaterialSets  []MaterialSet
	// DofTrees are render control graphs. At most one may be defined.
	DofTrees []*rendercontrol.Graph
	// Catalog holds entries defined by the scene file itself.
	Catalog *catalog.Catalog
}

// Collection returns the collection called name, searching child
// collections as well.
func (s *Scene) Collection(name string) (*Collection, error) {
	for _, c := range s.Collections {
		if found := c.find(name); found != nil {
			return found, nil
		}
	}

	return nil, errors.Errorf("collection %q not found", name)
}

// Walk calls fn for every object of the scene.
func (s *Scene) Walk(fn func(*Object)) {
	for _, c := range s.Collections {
		c.Walk(fn)
	}
}

// Materials returns the material library.
func (s *Scene) Materials() ([]Material, error) {
	switch len(s.MaterialTrees) {
	case 0:
		return nil, nil
	case 1:
		return s.MaterialTrees[0], nil
	}

	return nil, errors.New("More than one Material Node Tree found, aborting")
}

// DofTree returns the render control graph, or nil.
func (s *Scene) DofTree() (*rendercontrol.Graph, error) {
	switch len(s.DofTrees) {
	case 0:
		return nil, nil
	case 1:
		return s.DofTrees[0], nil
	}

	return nil, errors.New("More than one Dof Node Tree found, aborting")
}

// Clone deep copies the object trees of s. Materials, sets, graphs and the
// catalog are shared since exports never modify them.
func (s *Scene) Clone() *Scene {
	out := *s
	out.Collections = make([]*Collection, len(s.Collections))

	for i, c := range s.Collections {
		out.Collections[i] = c.Clone()
	}

	return &out
}

// Scale multiplies the location and scale of every root object by f and
// updates all world matrices.
func (s *Scene) Scale(f float32) {
	for _, c := range s.Collections {
		for _, o := range c.Roots() {
			o.Location = o.Location.Mul(f)
			o.Scale = o.Scale.Mul(f)
			o.UpdateWorld()
		}
	}
}

// Bounds returns the axis aligned bounds of points.
func Bounds(points []mgl32.Vec3) (lo, hi mgl32.Vec3, ok bool) {
	if len(points) == 0 {
		return lo, hi, false
	}

	lo, hi = points[0], points[0]

	for _, p := range points[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], p[i])
			hi[i] = max(hi[i], p[i])
		}
	}

	return lo, hi, true
}
