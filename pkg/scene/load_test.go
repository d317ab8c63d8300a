package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiko-tech/bml-exporter/pkg/bml"
	"github.com/saiko-tech/bml-exporter/pkg/rendercontrol"
)

const cockpitYAML = `
collections:
  - name: Cockpit
    objects:
      - name: Stick
        type: dof
        location: [0, 2, 0]
        rotation: [0, 0, 90]
        dof:
          name: STICK_PITCH
          type: rotate
          min: -15
          max: 15
          check_limits: true
        children:
          - name: Grip
            id: grip-1
            type: mesh
            location: [1, 0, 0]
            materials: [Rubber]
            mesh:
              smooth: true
              vertices: [[0, 0, 0], [1, 0, 0], [1, 1, 0]]
              faces:
                - indices: [0, 1, 2]
                  uvs: [[0, 0], [1, 0], [1, 1]]
      - name: Gear Switch
        type: switch
        switch: {number: 3, branch: 1, default_on: true}
      - name: Buttons
        type: hotspot
        hotspot:
          size: 4
          callbacks:
            - {name: SimGearToggle, sound_id: 1, button_type: push}
            - {name: SimGearUp, mouse_button: 2}
    children:
      - name: Lights
        objects:
          - name: Beacon
            type: light
            light: {color: [1, 0, 0, 1], directional: true}
lods:
  - {collection: Cockpit, suffix: _0, distance: 250}
materials:
  - name: Rubber
    template: {file: PBR, material: PBR}
    blend: {enable: true, src: SRC_ALPHA, dst: INV_SRC_ALPHA}
material_sets:
  - name: Worn
    alternatives:
      - {base: Rubber, alternative: RubberWorn}
dof_tree:
  nodes:
    - {name: Input, dof: 1}
    - {name: Double, op: MULTIPLY, defaults: [0, 2]}
    - {name: Output, dof: 7}
    - {name: Loose}
  links:
    - {from: Input, to: Double, port: 0}
    - {from: Double, to: Output}
catalog:
  dofs:
    - {number: 12, name: STICK_PITCH}
`

func TestParse(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte(cockpitYAML))
	require.NoError(t, err)

	require.Len(t, s.Collections, 1)
	cockpit := s.Collections[0]
	require.Len(t, cockpit.Objects, 3)
	require.Len(t, cockpit.Roots(), 4)

	stick := cockpit.Objects[0]
	assert.Equal(t, KindDof, stick.Kind)
	assert.Equal(t, bml.DofRotate, stick.Dof.Type)
	assert.Equal(t, "STICK_PITCH", stick.Dof.Name)
	assert.Equal(t, float32(1), stick.Dof.Multiplier)
	assert.True(t, stick.Dof.CheckLimits)
	assert.NotEmpty(t, stick.ID)

	grip := stick.Children[0]
	assert.Equal(t, "grip-1", grip.ID)
	assert.Same(t, stick, grip.Parent)
	assert.Equal(t, "Rubber", grip.Material())
	assert.True(t, grip.Mesh.Faces[0].Smooth)
	assert.True(t, grip.Mesh.HasUVs())

	// the stick is rotated a quarter turn about Z, so its local X is world Y
	assertVec3(t, mgl32.Vec3{0, 3, 0}, grip.World.Col(3).Vec3())

	gear := cockpit.Objects[1]
	assert.Equal(t, Switch{Number: 3, Branch: 1, DefaultOn: true}, *gear.Switch)

	buttons := cockpit.Objects[2].Hotspot
	require.NotNil(t, buttons)
	assert.Equal(t, 4, buttons.Size)
	assert.Equal(t, []Callback{
		{Name: "SimGearToggle", SoundID: 1, MouseButton: MouseLeft, ButtonType: ButtonPush},
		{Name: "SimGearUp", MouseButton: MouseRight, ButtonType: ButtonSwitch},
	}, buttons.Callbacks)

	beacon := cockpit.Children[0].Objects[0]
	assert.Equal(t, KindLight, beacon.Kind)
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, beacon.Light.Color)
	assert.True(t, beacon.Light.Directional)
	assert.NotNil(t, beacon.Mesh)

	assert.Equal(t, []LOD{{Collection: "Cockpit", Suffix: "_0", Distance: 250}}, s.LODs)

	materials, err := s.Materials()
	require.NoError(t, err)
	require.Len(t, materials, 1)
	assert.Equal(t, &Template{File: "PBR", Material: "PBR"}, materials[0].Template)
	assert.True(t, materials[0].NeedsAlphaSort())

	alt, ok := s.MaterialSets[0].Alternative("Rubber")
	assert.True(t, ok)
	assert.Equal(t, "RubberWorn", alt)

	g, err := s.DofTree()
	require.NoError(t, err)
	require.Len(t, g.Nodes, 4)
	assert.Equal(t, rendercontrol.Node{Name: "Input", Kind: rendercontrol.DofReference, Dof: 1}, g.Nodes[0])
	assert.Equal(t, bml.MathMultiply, g.Nodes[1].Op)
	assert.Equal(t, []float32{0, 2}, g.Nodes[1].Defaults)
	assert.Equal(t, rendercontrol.Unbound, g.Nodes[3].Dof)
	assert.Equal(t, rendercontrol.Link{From: "Double", To: "Output"}, g.Links[1])

	require.NotNil(t, s.Catalog)
	d, ok := s.Catalog.DofByName("STICK_PITCH")
	assert.True(t, ok)
	assert.Equal(t, 12, d.Number)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{
			name: "unknown type",
			yaml: "collections: [{name: C, objects: [{name: A, type: camera}]}]",
			msg:  `unknown object type "camera"`,
		},
		{
			name: "vertex out of range",
			yaml: "collections: [{name: C, objects: [{name: A, type: mesh, mesh: {vertices: [[0,0,0]], faces: [{indices: [0, 1, 2]}]}}]}]",
			msg:  "face 0 references vertex 1 of 1",
		},
		{
			name: "bad location",
			yaml: "collections: [{name: C, objects: [{name: A, location: [1, 2]}]}]",
			msg:  "location needs 3 values, got 2",
		},
		{
			name: "unknown op",
			yaml: "dof_tree: {nodes: [{name: X, op: POW}]}",
			msg:  `unknown math operation "POW"`,
		},
		{
			name: "bad mouse button",
			yaml: "collections: [{name: C, objects: [{name: A, type: hotspot, hotspot: {callbacks: [{name: X, mouse_button: 3}]}}]}]",
			msg:  "invalid mouse button 3",
		},
		{
			name: "unknown dof type",
			yaml: "collections: [{name: C, objects: [{name: A, type: dof, dof: {type: spin}}]}]",
			msg:  `unknown DOF type "spin"`,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoad_JSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"collections": [{"name": "C", "objects": [{"name": "Box", "type": "mesh"}]}]}`), 0o600))

	s, err := Load(path)
	require.NoError(t, err)

	c, err := s.Collection("C")
	require.NoError(t, err)
	assert.Equal(t, "Box", c.Objects[0].Name)
	assert.NotNil(t, c.Objects[0].Mesh)

	_, err = s.Collection("missing")
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestScene_SingleTrees(t *testing.T) {
	t.Parallel()

	s := &Scene{
		MaterialTrees: [][]Material{{}, {}},
		DofTrees:      []*rendercontrol.Graph{{}, {}},
	}

	_, err := s.Materials()
	assert.EqualError(t, err, "More than one Material Node Tree found, aborting")

	_, err = s.DofTree()
	assert.EqualError(t, err, "More than one Dof Node Tree found, aborting")
}

func TestScene_CloneAndScale(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte(cockpitYAML))
	require.NoError(t, err)

	c := s.Clone()
	c.Scale(2)

	orig := s.Collections[0].Objects[0].Children[0]
	scaled := c.Collections[0].Objects[0].Children[0]

	assert.NotSame(t, orig, scaled)
	assert.Same(t, c.Collections[0].Objects[0], scaled.Parent)
	assertVec3(t, mgl32.Vec3{0, 3, 0}, orig.World.Col(3).Vec3())
	assertVec3(t, mgl32.Vec3{0, 6, 0}, scaled.World.Col(3).Vec3())

	scaled.Mesh.Vertices[1] = mgl32.Vec3{5, 5, 5}
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, orig.Mesh.Vertices[1])
}

func TestObject_WorldCenter(t *testing.T) {
	t.Parallel()

	o := NewObject("Box", KindMesh)
	o.Location = mgl32.Vec3{10, 0, 0}
	o.Mesh = quad()
	o.UpdateWorld()

	assertVec3(t, mgl32.Vec3{10.5, 0.5, 0}, o.WorldCenter())
	assert.Len(t, o.WorldVertices(), 4)

	empty := NewObject("Empty", KindEmpty)
	empty.Location = mgl32.Vec3{1, 2, 3}
	empty.UpdateWorld()
	assertVec3(t, mgl32.Vec3{1, 2, 3}, empty.WorldCenter())
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for k := KindEmpty; k <= KindBoundingBox; k++ {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	k, err := ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, KindEmpty, k)
}
