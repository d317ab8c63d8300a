package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-5

func assertVec3(t *testing.T, expected, actual mgl32.Vec3) {
	t.Helper()

	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], tolerance, "component %d of %v", i, actual)
	}
}

func quad() *Mesh {
	return &Mesh{
		Vertices: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		Faces: []Face{{
			Indices: []int{0, 1, 2, 3},
			UVs:     []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		}},
	}
}

// two faces meeting at a right angle along the edge 1-2
func hinge(smooth, autoSmooth bool) *Mesh {
	return &Mesh{
		Vertices: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}, {1, 0, -1}, {1, 1, -1}},
		Faces: []Face{
			{Indices: []int{0, 1, 2, 3}, Smooth: smooth},
			{Indices: []int{1, 4, 5, 2}, Smooth: smooth},
		},
		AutoSmooth:      autoSmooth,
		AutoSmoothAngle: mgl32.DegToRad(30),
	}
}

func TestMesh_Triangles_Quad(t *testing.T) {
	t.Parallel()

	tris := quad().Triangles()
	require.Len(t, tris, 2)

	assert.Equal(t, []int{0, 1, 2}, []int{tris[0][0].Vertex, tris[0][1].Vertex, tris[0][2].Vertex})
	assert.Equal(t, []int{0, 2, 3}, []int{tris[1][0].Vertex, tris[1][1].Vertex, tris[1][2].Vertex})

	for _, tri := range tris {
		for _, c := range tri {
			assertVec3(t, mgl32.Vec3{0, 0, 1}, c.Normal)
			assertVec3(t, mgl32.Vec3{1, 0, 0}, c.Tangent)
			assert.Equal(t, float32(1), c.Handedness)
		}
	}

	assert.Equal(t, mgl32.Vec2{1, 1}, tris[0][2].UV)
}

func TestMesh_Triangles_MirroredUVs(t *testing.T) {
	t.Parallel()

	m := quad()
	m.Faces[0].UVs = []mgl32.Vec2{{1, 0}, {0, 0}, {0, 1}, {1, 1}}

	for _, c := range m.Triangles()[0] {
		assertVec3(t, mgl32.Vec3{-1, 0, 0}, c.Tangent)
		assert.Equal(t, float32(-1), c.Handedness)
	}
}

func TestMesh_Triangles_WithoutUVs(t *testing.T) {
	t.Parallel()

	m := quad()
	m.Faces[0].UVs = nil

	for _, c := range m.Triangles()[0] {
		assert.Equal(t, mgl32.Vec3{}, c.Tangent)
		assert.Equal(t, float32(0), c.Handedness)
	}
}

func TestMesh_Triangles_Smoothing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		smooth     bool
		autoSmooth bool
		expected   mgl32.Vec3
	}{
		{"flat", false, false, mgl32.Vec3{0, 0, 1}},
		{"smooth", true, false, mgl32.Vec3{0.70710677, 0, 0.70710677}},
		{"auto smooth splits sharp edges", true, true, mgl32.Vec3{0, 0, 1}},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tris := hinge(tt.smooth, tt.autoSmooth).Triangles()
			require.Len(t, tris, 4)

			// corner on the shared edge
			assert.Equal(t, 1, tris[0][1].Vertex)
			assertVec3(t, tt.expected, tris[0][1].Normal)
		})
	}
}

func TestMesh_FaceNormalAndCenter(t *testing.T) {
	t.Parallel()

	m := hinge(false, false)

	assertVec3(t, mgl32.Vec3{0, 0, 1}, m.FaceNormal(0))
	assertVec3(t, mgl32.Vec3{1, 0, 0}, m.FaceNormal(1))
	assertVec3(t, mgl32.Vec3{0.5, 0.5, 0}, m.FaceCenter(0))
	assertVec3(t, mgl32.Vec3{2.0 / 3, 0.5, -1.0 / 3}, m.Center())
}

func TestMesh_Append(t *testing.T) {
	t.Parallel()

	m := quad()
	other := quad()
	other.Faces[0].Light = &FaceLight{Color: mgl32.Vec4{1, 0, 0, 1}, Normal: mgl32.Vec3{0, 0, 1}}

	m.Append(other, mgl32.Translate3D(0, 0, 5).Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(90))))

	require.Len(t, m.Vertices, 8)
	require.Len(t, m.Faces, 2)
	assert.Equal(t, []int{4, 5, 6, 7}, m.Faces[1].Indices)
	assertVec3(t, mgl32.Vec3{1, 0, 6}, m.Vertices[6])
	assertVec3(t, mgl32.Vec3{0, -1, 0}, m.Faces[1].Light.Normal)
	assert.Nil(t, m.Faces[0].Light)

	// the source is left untouched
	assert.Equal(t, []int{0, 1, 2, 3}, other.Faces[0].Indices)
}

func TestMesh_Append_PadsUVs(t *testing.T) {
	t.Parallel()

	bare := quad()
	bare.Faces[0].UVs = nil

	m := quad()
	m.Append(bare, mgl32.Ident4())

	require.True(t, m.HasUVs())
	assert.Equal(t, []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, m.Faces[0].UVs)
	assert.Equal(t, make([]mgl32.Vec2, 4), m.Faces[1].UVs)
	assert.Nil(t, bare.Faces[0].UVs)

	m = quad()
	m.Faces[0].UVs = nil
	m.Append(quad(), mgl32.Ident4())

	require.True(t, m.HasUVs())
	assert.Equal(t, make([]mgl32.Vec2, 4), m.Faces[0].UVs)
	assert.Equal(t, mgl32.Vec2{1, 1}, m.Faces[1].UVs[2])

	m = quad()
	m.Faces[0].UVs = nil
	m.Append(bare, mgl32.Ident4())
	assert.False(t, m.HasUVs())
	assert.Nil(t, m.Faces[1].UVs)
}

func TestMesh_Clone(t *testing.T) {
	t.Parallel()

	m := quad()
	c := m.Clone()

	c.Vertices[0] = mgl32.Vec3{9, 9, 9}
	c.Faces[0].Indices[0] = 3

	assert.Equal(t, mgl32.Vec3{}, m.Vertices[0])
	assert.Equal(t, 0, m.Faces[0].Indices[0])
}

func TestBounds(t *testing.T) {
	t.Parallel()

	_, _, ok := Bounds(nil)
	assert.False(t, ok)

	lo, hi, ok := Bounds([]mgl32.Vec3{{1, -2, 3}, {-1, 2, 0}, {0, 0, 5}})
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{-1, -2, 0}, lo)
	assert.Equal(t, mgl32.Vec3{1, 2, 5}, hi)
}
