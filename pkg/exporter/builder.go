package exporter

import (
	"github.com/saiko-tech/bml-exporter/pkg/bml"
	"github.com/saiko-tech/bml-exporter/pkg/catalog"
	"github.com/saiko-tech/bml-exporter/pkg/logging"
	"github.com/saiko-tech/bml-exporter/pkg/rendercontrol"
	"github.com/saiko-tech/bml-exporter/pkg/scene"
)

// builder accumulates the node list and buffers of one LOD while the object
// tree is flattened. A builder is used for a single LOD only.
type builder struct {
	cat     *catalog.Catalog
	library map[string]scene.Material
	log     logging.Logger

	nodes       []bml.Node
	materials   []string
	indices     []uint32
	vertices    []byte
	vertexCount uint32

	hotspots []Hotspot
	seen     map[string]bool
}

func newBuilder(cat *catalog.Catalog, library map[string]scene.Material, log logging.Logger) *builder {
	return &builder{
		cat:     cat,
		library: library,
		log:     log,
		seen:    make(map[string]bool),
	}
}

// reserve appends a node and returns its index.
func (b *builder) reserve(p bml.Payload) uint32 {
	index := uint32(len(b.nodes))
	b.nodes = append(b.nodes, bml.Node{Index: index, Payload: p})

	return index
}

// close appends the end node of the sub-tree opened at start.
func (b *builder) close(start uint32, p bml.Payload) {
	b.nodes = append(b.nodes, bml.Node{Index: start, Payload: p})
}

// renderControls appends the instructions ahead of any geometry.
func (b *builder) renderControls(instructions []rendercontrol.Instruction) {
	for _, in := range instructions {
		b.reserve(in.RenderControl)
	}
}

// material returns the index of name in the material list, adding it on
// first use.
func (b *builder) material(name string) uint16 {
	for i, m := range b.materials {
		if m == name {
			return uint16(i)
		}
	}

	b.materials = append(b.materials, name)

	return uint16(len(b.materials) - 1)
}

func (b *builder) alphaSort(material string) bool {
	m, ok := b.library[material]

	return ok && m.NeedsAlphaSort()
}

// walk flattens objects and their descendants in order.
func (b *builder) walk(objects []*scene.Object) error {
	for _, o := range objects {
		if err := b.visit(o); err != nil {
			return err
		}
	}

	return nil
}

func (b *builder) visit(o *scene.Object) error {
	switch o.Kind {
	case scene.KindMesh:
		b.log.Debugf("parsing mesh %q", o.Name)

		b.mesh(o)

	case scene.KindLight:
		b.log.Debugf("parsing light %q", o.Name)

		if err := b.light(o); err != nil {
			return err
		}

	case scene.KindSlot:
		b.log.Debugf("parsing slot %q", o.Name)

		if o.Slot == nil || o.Slot.Number < 0 {
			return sceneErrorf(o, "slot without a valid number")
		}

		start := b.reserve(slotNode(o))

		if err := b.walk(o.Children); err != nil {
			return err
		}

		b.close(start, bml.SlotEnd{})

		return nil

	case scene.KindSwitch:
		if len(o.Children) == 0 {
			return nil
		}

		b.log.Debugf("%q is a switch", o.Name)

		number, branch, err := switchNumber(b.cat, o)
		if err != nil {
			return err
		}

		if number < 0 || branch < 0 {
			return sceneErrorf(o, "invalid switch %d branch %d", number, branch)
		}

		start := b.reserve(bml.Switch{
			Number:        uint32(number),
			Branch:        uint32(branch),
			StartsEnabled: o.Switch.DefaultOn,
		})

		if err := b.walk(o.Children); err != nil {
			return err
		}

		b.close(start, bml.SwitchEnd{})

		return nil

	case scene.KindDof:
		if len(o.Children) == 0 {
			return nil
		}

		b.log.Debugf("%q is a DOF", o.Name)

		node, err := b.dofNode(o)
		if err != nil {
			return err
		}

		start := b.reserve(node)

		if err := b.walk(o.Children); err != nil {
			return err
		}

		b.close(start, bml.DofEnd{})

		return nil

	case scene.KindHotspot:
		b.log.Debugf("%q is a hotspot", o.Name)

		b.hotspot(o)

	case scene.KindEmpty, scene.KindBoundingBox:

	default:
		return sceneErrorf(o, "unknown object type %s", o.Kind)
	}

	return b.walk(o.Children)
}

// model returns the flattened LOD as a BML model.
func (b *builder) model(script uint32) *bml.Model {
	return &bml.Model{
		Script:      script,
		Materials:   b.materials,
		Nodes:       b.nodes,
		Indices:     b.indices,
		VertexCount: b.vertexCount,
		Vertices:    b.vertices,
	}
}
