package exporter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/saiko-tech/bml-exporter/pkg/catalog"
	"github.com/saiko-tech/bml-exporter/pkg/coords"
	"github.com/saiko-tech/bml-exporter/pkg/scene"
)

// ParentDatFile is the name of the model description file.
const ParentDatFile = "Parent.dat"

// LODEntry is an AddLOD line of Parent.dat.
type LODEntry struct {
	File     string
	Distance float32
}

// ParentDat describes the model as a whole.
type ParentDat struct {
	Radius      float32
	Min         mgl32.Vec3
	Max         mgl32.Vec3
	TextureSets int
	// Switches and Dofs are the highest numbers in use, not counts.
	Switches int
	Dofs     int
	// Slots are engine space positions.
	Slots []mgl32.Vec3
	LODs  []LODEntry
}

// String formats p. Slots are sorted by their Y coordinate and LODs by
// distance.
func (p *ParentDat) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Dimensions = %s %.6f %.6f %.6f %.6f %.6f %.6f\n",
		roundedString(float64(p.Radius), 6), p.Min[0], p.Max[0], p.Min[1], p.Max[1], p.Min[2], p.Max[2])
	fmt.Fprintf(&sb, "TextureSets = %d\n", p.TextureSets)
	fmt.Fprintf(&sb, "Switches = %d\n", p.Switches)
	fmt.Fprintf(&sb, "Dofs = %d\n", p.Dofs)

	slots := append([]mgl32.Vec3(nil), p.Slots...)
	sort.SliceStable(slots, func(i, j int) bool { return slots[i][1] < slots[j][1] })

	for _, s := range slots {
		fmt.Fprintf(&sb, "AddSlot = %.6f %.6f %.6f\n", s[0], s[1], s[2])
	}

	lods := append([]LODEntry(nil), p.LODs...)
	sort.SliceStable(lods, func(i, j int) bool { return lods[i].Distance < lods[j].Distance })

	for _, l := range lods {
		fmt.Fprintf(&sb, "AddLOD = %s %s\n", l.File, formatDistance(l.Distance))
	}

	return sb.String()
}

func formatDistance(d float32) string {
	s := strconv.FormatFloat(float64(d), 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

// highestNumbers returns the highest switch and DOF numbers among the
// switches and DOFs that have children.
func highestNumbers(s *scene.Scene, cat *catalog.Catalog) (switches, dofs int, err error) {
	s.Walk(func(o *scene.Object) {
		if err != nil || len(o.Children) == 0 {
			return
		}

		switch o.Kind {
		case scene.KindSwitch:
			var n int
			if n, _, err = switchNumber(cat, o); err == nil {
				switches = max(switches, n)
			}

		case scene.KindDof:
			var n int
			if n, err = dofNumber(cat, o); err == nil {
				dofs = max(dofs, n)
			}
		}
	})

	return switches, dofs, err
}

// boundingSphere returns the radius of the sphere around the center of the
// bounds of all geometry.
func boundingSphere(points []mgl32.Vec3) float32 {
	lo, hi, ok := scene.Bounds(points)
	if !ok {
		return 0
	}

	center := lo.Add(hi).Mul(0.5)

	var radius float32
	for _, p := range points {
		radius = max(radius, p.Sub(center).Len())
	}

	return radius
}

// parentDat collects the model description from the scaled scene.
func (e *Exporter) parentDat(ss *session, lods []scene.LOD) (*ParentDat, error) {
	s := ss.scene

	var points, slots []mgl32.Vec3

	s.Walk(func(o *scene.Object) {
		switch o.Kind {
		case scene.KindMesh, scene.KindLight, scene.KindBoundingBox:
			points = append(points, o.WorldVertices()...)
		case scene.KindSlot:
			slots = append(slots, coords.ToEngine(o.World.Col(3).Vec3()))
		}
	})

	p := &ParentDat{
		Radius:      boundingSphere(points),
		TextureSets: 1,
		Slots:       slots,
	}

	if boxes := boundingBoxes(s); len(boxes) > 0 {
		p.Min, p.Max = boxes[0].Min, boxes[0].Max
	} else if b, ok := hotspotBounds(points); ok {
		e.log.Warnf("no bounding box defined, using the bounds of the model")
		p.Min, p.Max = b.Min, b.Max
	}

	if e.opts.ExportMaterialSets && len(s.MaterialSets) > 1 {
		p.TextureSets = len(s.MaterialSets)
	}

	var err error
	if p.Switches, p.Dofs, err = highestNumbers(s, ss.cat); err != nil {
		return nil, err
	}

	for _, l := range lods {
		p.LODs = append(p.LODs, LODEntry{File: e.modelFile(l), Distance: l.Distance})
	}

	return p, nil
}

// WriteParentDat writes p to path.
func WriteParentDat(path string, p *ParentDat) error {
	return writeFile(path, []byte(p.String()))
}
