package exporter

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiko-tech/bml-exporter/pkg/bml"
	"github.com/saiko-tech/bml-exporter/pkg/catalog"
	"github.com/saiko-tech/bml-exporter/pkg/logging"
	"github.com/saiko-tech/bml-exporter/pkg/scene"
)

func TestParentDat_String(t *testing.T) {
	t.Parallel()

	p := &ParentDat{
		Radius:      12.5,
		Min:         mgl32.Vec3{-1, -2, -3},
		Max:         mgl32.Vec3{1, 2, 3},
		TextureSets: 2,
		Switches:    7,
		Dofs:        12,
		Slots:       []mgl32.Vec3{{0, 5, 0}, {1, -1, 2}},
		LODs: []LODEntry{
			{File: "f16_1.bml", Distance: 1000},
			{File: "f16_0.bml", Distance: 250},
			{File: "f16_2.bml", Distance: 2500.5},
		},
	}

	expected := "Dimensions = 12.5 -1.000000 1.000000 -2.000000 2.000000 -3.000000 3.000000\n" +
		"TextureSets = 2\n" +
		"Switches = 7\n" +
		"Dofs = 12\n" +
		"AddSlot = 1.000000 -1.000000 2.000000\n" +
		"AddSlot = 0.000000 5.000000 0.000000\n" +
		"AddLOD = f16_0.bml 250.0\n" +
		"AddLOD = f16_1.bml 1000.0\n" +
		"AddLOD = f16_2.bml 2500.5\n"

	assert.Equal(t, expected, p.String())
}

func TestParentDat_RadiusFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		radius   float32
		expected string
	}{
		{2, "2.0"},
		{0.1234567, "0.123457"},
		{0.00001, "1e-05"},
		{0, "0.0"},
	}

	for _, tt := range tests {
		p := &ParentDat{Radius: tt.radius}
		assert.Contains(t, p.String(), "Dimensions = "+tt.expected+" 0.000000 ")
	}
}

func TestFormatDistance(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0.0", formatDistance(0))
	assert.Equal(t, "250.0", formatDistance(250))
	assert.Equal(t, "0.25", formatDistance(0.25))
}

func TestBoundingSphere(t *testing.T) {
	t.Parallel()

	assert.Zero(t, boundingSphere(nil))
	assert.InDelta(t, 5, boundingSphere([]mgl32.Vec3{{-3, -4, 0}, {3, 4, 0}, {0, 0, 0}}), delta)
}

func TestHighestNumbers(t *testing.T) {
	t.Parallel()

	cat := &catalog.Catalog{Dofs: []catalog.Dof{{Number: 40, Name: "RUDDER"}}}

	rudder := object("Rudder", scene.KindDof)
	rudder.Dof = &scene.Dof{Name: "RUDDER", Multiplier: 1}
	rudder.AddChild(meshObject("Fin", ""))

	// childless nodes are not exported and do not count
	unused := object("Unused", scene.KindDof)
	unused.Dof = &scene.Dof{Number: 99, Multiplier: 1}

	gear := switchObject("Gear", 3)
	gear.AddChild(meshObject("Leg", ""))

	switches, dofs, err := highestNumbers(testScene(rudder, unused, gear), cat)
	require.NoError(t, err)
	assert.Equal(t, 3, switches)
	assert.Equal(t, 40, dofs)
}

func TestParentDat_FromScene(t *testing.T) {
	t.Parallel()

	box := meshObject("Box", "M")

	slot := object("Pylon", scene.KindSlot)
	slot.Location = mgl32.Vec3{0, 1, 0}
	slot.Slot = &scene.Slot{Number: 0}

	dof := object("Flap", scene.KindDof)
	dof.Dof = &scene.Dof{Number: 6, Type: bml.DofRotate, Multiplier: 1}
	dof.AddChild(meshObject("Panel", ""))

	s := testScene(box, slot, dof)

	e := New(DefaultOptions(), nil, logging.NewNopLogger())

	ss, err := e.begin(s)
	require.NoError(t, err)

	p, err := e.parentDat(ss, []scene.LOD{{Suffix: "_0", Distance: 100}})
	require.NoError(t, err)

	assert.Equal(t, 1, p.TextureSets)
	assert.Equal(t, 6, p.Dofs)
	require.Len(t, p.Slots, 1)
	assertVec3(t, mgl32.Vec3{0, 0, feet}, p.Slots[0])
	assert.Equal(t, []LODEntry{{File: "_0.bml", Distance: 100}}, p.LODs)

	// without bounding boxes the extents are those of the geometry
	assertVec3(t, mgl32.Vec3{-feet, -feet, 0}, p.Min)
	assertVec3(t, mgl32.Vec3{0, 0, 0}, p.Max)
	assert.InDelta(t, feet*0.70710678, p.Radius, delta)
}
