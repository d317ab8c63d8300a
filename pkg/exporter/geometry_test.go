package exporter

import (
	"encoding/binary"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiko-tech/bml-exporter/pkg/bml"
	"github.com/saiko-tech/bml-exporter/pkg/scene"
)

// lightObject is a 2x1 light quad facing up.
func lightObject(name string, color mgl32.Vec4, directional bool) *scene.Object {
	o := object(name, scene.KindLight)
	o.Light = &scene.Light{Color: color, Directional: directional}
	o.Mesh = &scene.Mesh{
		Vertices: []mgl32.Vec3{{0, 0, 0}, {2, 0, 0}, {2, 1, 0}, {0, 1, 0}},
		Faces: []scene.Face{{
			Indices: []int{0, 1, 2, 3},
			UVs:     []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		}},
	}

	return o
}

type lightVertex struct {
	position mgl32.Vec3
	normal   mgl32.Vec3
	color    uint32
	uv1      mgl32.Vec2
	uv2      mgl32.Vec2
}

func lightVertices(b []byte) []lightVertex {
	out := make([]lightVertex, 0, len(b)/bml.VertexLightSize)

	for ; len(b) >= bml.VertexLightSize; b = b[bml.VertexLightSize:] {
		f := floats(b[:bml.VertexLightSize])
		out = append(out, lightVertex{
			position: vec3(f[0:3]),
			normal:   vec3(f[3:6]),
			color:    binary.LittleEndian.Uint32(b[24:28]),
			uv1:      mgl32.Vec2{f[7], f[8]},
			uv2:      mgl32.Vec2{f[9], f[10]},
		})
	}

	return out
}

func TestBuild_Light(t *testing.T) {
	t.Parallel()

	red := mgl32.Vec4{1, 0, 0, 1}

	m := build(t, testOptions(), testScene(lightObject("Beacon", red, true))).Model

	require.Len(t, m.Nodes, 1)
	assert.Equal(t, []string{scene.DefaultLightMaterial}, m.Materials)

	p := m.Nodes[0].Payload.(bml.Primitive)
	assert.Equal(t, uint32(6), p.IndexCount)
	assert.Equal(t, uint32(bml.VertexLightSize), p.VertexSize)
	assertVec3(t, mgl32.Vec3{feet, 0, feet / 2}, p.ReferencePoint)

	vs := lightVertices(m.Vertices)
	require.Len(t, vs, 6)

	for _, v := range vs {
		assertVec3(t, mgl32.Vec3{feet, 0, feet / 2}, v.position)
		assertVec3(t, mgl32.Vec3{0, 1, 0}, v.normal)
		assert.Equal(t, bml.PackColor(red), v.color)
	}

	// the first vertex is corner 1
	assert.Equal(t, mgl32.Vec2{1, 1}, vs[0].uv1)
	assert.InDelta(t, -feet, vs[0].uv2[0], delta)
	assert.InDelta(t, feet/2, vs[0].uv2[1], delta)

	// followed by corner 0
	assert.Equal(t, mgl32.Vec2{0, 1}, vs[1].uv1)
	assert.InDelta(t, feet, vs[1].uv2[0], delta)
	assert.InDelta(t, feet/2, vs[1].uv2[1], delta)
}

func TestBuild_OmnidirectionalLight(t *testing.T) {
	t.Parallel()

	m := build(t, testOptions(), testScene(lightObject("Lamp", mgl32.Vec4{1, 1, 1, 1}, false))).Model

	for _, v := range lightVertices(m.Vertices) {
		assert.Equal(t, mgl32.Vec3{}, v.normal)
	}
}

func TestBuild_JoinedLightsKeepColors(t *testing.T) {
	t.Parallel()

	red := mgl32.Vec4{1, 0, 0, 1}
	green := mgl32.Vec4{0, 1, 0, 1}

	second := lightObject("Green", green, true)
	second.Location = mgl32.Vec3{0, 0, 1}

	m := build(t, testOptions(), testScene(lightObject("Red", red, true), second)).Model

	require.Len(t, primitives(m), 1)

	vs := lightVertices(m.Vertices)
	require.Len(t, vs, 12)
	assert.Equal(t, bml.PackColor(red), vs[0].color)
	assert.Equal(t, bml.PackColor(green), vs[6].color)
	assert.InDelta(t, feet, vs[6].position[1], delta)
}

func TestBuild_LightsAreNotJoinedWithMeshes(t *testing.T) {
	t.Parallel()

	light := lightObject("Beacon", mgl32.Vec4{1, 1, 1, 1}, false)
	light.Materials = []string{"M"}

	m := build(t, testOptions(), testScene(meshObject("Box", "M"), light)).Model

	prims := primitives(m)
	require.Len(t, prims, 2)
	assert.Equal(t, uint32(bml.VertexPBRSize), prims[0].VertexSize)
	assert.Equal(t, uint32(bml.VertexLightSize), prims[1].VertexSize)
	assert.Equal(t, prims[0].MaterialIndex, prims[1].MaterialIndex)
}

func TestBuild_MalformedLight(t *testing.T) {
	t.Parallel()

	light := lightObject("Beacon", mgl32.Vec4{1, 1, 1, 1}, true)
	light.Mesh.Faces[0].Indices = []int{0, 1, 2}
	light.Mesh.Faces[0].UVs = nil

	_, err := New(testOptions(), nil, nil).Build(testScene(light), "Model")

	var sceneErr *SceneError
	require.ErrorAs(t, err, &sceneErr)
	assert.Equal(t, "Beacon", sceneErr.Object)
	assert.Contains(t, err.Error(), "malformed light")
}

func TestBuild_AlphaSort(t *testing.T) {
	t.Parallel()

	s := testScene(meshObject("Glass", "Glass"), meshObject("Frame", "Metal"))
	s.MaterialTrees = [][]scene.Material{{
		{Name: "Glass", Blend: &scene.Blend{Enable: true, Src: "SRC_ALPHA", Dst: "INV_SRC_ALPHA"}},
		{Name: "Metal"},
	}}

	prims := primitives(build(t, testOptions(), s).Model)
	require.Len(t, prims, 2)
	assert.True(t, prims[0].AlphaSortTriangles)
	assert.False(t, prims[1].AlphaSortTriangles)
}

func TestBuild_EmptyMesh(t *testing.T) {
	t.Parallel()

	o := object("Nothing", scene.KindMesh)

	m := build(t, testOptions(), testScene(o)).Model

	prims := primitives(m)
	require.Len(t, prims, 1)
	assert.Zero(t, prims[0].IndexCount)
	assert.Empty(t, m.Vertices)
}

func TestBuild_TranslateDofKeepsWorldPositions(t *testing.T) {
	t.Parallel()

	dof := object("Slide", scene.KindDof)
	dof.Location = mgl32.Vec3{0, 0, 5}
	dof.Dof = &scene.Dof{Number: 1, Type: bml.DofTranslate, Vector: mgl32.Vec3{0, 1, 0}, Multiplier: 1}
	dof.AddChild(meshObject("Canopy", ""))

	m := build(t, testOptions(), testScene(dof)).Model

	p := m.Nodes[1].Payload.(bml.Primitive)
	assertVec3(t, mgl32.Vec3{feet / 2, 5 * feet, feet / 2}, p.ReferencePoint)

	v := floats(m.Vertices)
	assertVec3(t, mgl32.Vec3{0, 5 * feet, 0}, vec3(v[0:3]))
}

func TestBuild_NestedInsideRotateDof(t *testing.T) {
	t.Parallel()

	dof := object("Hinge", scene.KindDof)
	dof.Location = mgl32.Vec3{0, 0, 1}
	dof.Dof = &scene.Dof{Number: 1, Type: bml.DofRotate, Multiplier: 1}

	group := object("Group", scene.KindEmpty)
	group.Location = mgl32.Vec3{1, 0, 0}
	group.AddChild(meshObject("Panel", ""))
	dof.AddChild(group)

	m := build(t, testOptions(), testScene(dof)).Model

	require.Len(t, m.Nodes, 3)

	// not a direct child of the DOF, so the reference point is kept, in the
	// DOF's frame
	p := m.Nodes[1].Payload.(bml.Primitive)
	assertVec3(t, mgl32.Vec3{1.5 * feet, 0, feet / 2}, p.ReferencePoint)
}
