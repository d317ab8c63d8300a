package exporter

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/saiko-tech/bml-exporter/pkg/bml"
	"github.com/saiko-tech/bml-exporter/pkg/catalog"
	"github.com/saiko-tech/bml-exporter/pkg/coords"
	"github.com/saiko-tech/bml-exporter/pkg/scene"
)

// dofNumber resolves the engine DOF number of o, by catalog name if one is
// given.
func dofNumber(cat *catalog.Catalog, o *scene.Object) (int, error) {
	d := o.Dof
	if d == nil {
		return 0, sceneErrorf(o, "DOF without parameters")
	}

	if d.Name == "" {
		return d.Number, nil
	}

	entry, ok := cat.DofByName(d.Name)
	if !ok {
		return 0, sceneErrorf(o, "unknown DOF %q", d.Name)
	}

	return entry.Number, nil
}

// switchNumber resolves the engine switch number and branch of o.
func switchNumber(cat *catalog.Catalog, o *scene.Object) (number, branch int, err error) {
	s := o.Switch
	if s == nil {
		return 0, 0, sceneErrorf(o, "switch without parameters")
	}

	if s.Name == "" {
		return s.Number, s.Branch, nil
	}

	entry, ok := cat.SwitchByName(s.Name)
	if !ok {
		return 0, 0, sceneErrorf(o, "unknown switch %q", s.Name)
	}

	return entry.Number, entry.Branch, nil
}

func identityRows() [3]mgl32.Vec3 {
	return [3]mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// dofNode builds the DOF node of o.
func (b *builder) dofNode(o *scene.Object) (bml.Dof, error) {
	number, err := dofNumber(b.cat, o)
	if err != nil {
		return bml.Dof{}, err
	}

	d := o.Dof

	if number < 0 {
		return bml.Dof{}, sceneErrorf(o, "invalid DOF number %d", number)
	}

	node := bml.Dof{
		Number:     uint32(number),
		DofType:    d.Type,
		Min:        d.MinInput,
		Max:        d.MaxInput,
		Multiplier: d.Multiplier,
		Rotation:   identityRows(),
	}

	switch d.Type {
	case bml.DofTranslate:
		// translating DOFs sit at their parent's origin, the offset is the
		// user supplied vector
		node.Translation = coords.ToEngine(o.ParentInverse.Mat3().Mul3x1(d.Vector))

	case bml.DofRotate, bml.DofScale:
		m := frame(o).Mul4(o.World)
		node.Translation = coords.ToEngine(m.Col(3).Vec3())

		if d.Type == bml.DofRotate {
			r := coords.Mat3ToEngine(rigid(m).Mat3())
			// written row major
			node.Rotation = [3]mgl32.Vec3{r.Col(0), r.Col(1), r.Col(2)}
			node.Min = mgl32.DegToRad(d.Min)
			node.Max = mgl32.DegToRad(d.Max)
		} else {
			node.Scale = coords.ToEngine(d.Vector)
		}

	default:
		return bml.Dof{}, sceneErrorf(o, "unknown DOF type %d", d.Type)
	}

	if d.CheckLimits {
		node.Flags |= bml.DofFlagCheckLimits
	}
	if d.Reverse {
		node.Flags |= bml.DofFlagReverse
	}
	if d.Normalize {
		node.Flags |= bml.DofFlagNormalize
	}

	if !d.MultiplyMinMax {
		if d.Multiplier == 0 {
			return bml.Dof{}, sceneErrorf(o, "DOF multiplier must not be zero")
		}

		node.Min /= d.Multiplier
		node.Max /= d.Multiplier
	}

	return node, nil
}

// slotNode builds the slot node of o.
func slotNode(o *scene.Object) bml.Slot {
	r := coords.EulerMatrix(coords.EulerToEngine(o.Rotation))

	return bml.Slot{
		Number:   uint32(o.Slot.Number),
		Rotation: [3]mgl32.Vec3{r.Row(0), r.Row(1), r.Row(2)},
		Origin:   coords.ToEngine(o.World.Col(3).Vec3()),
	}
}
