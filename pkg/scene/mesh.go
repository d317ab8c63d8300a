package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-12

// FaceLight is the per face light data baked into a light mesh before it is
// joined with other lights.
type FaceLight struct {
	Color  mgl32.Vec4
	Normal mgl32.Vec3
}

// Face is a polygon of a mesh.
type Face struct {
	Indices []int
	// UVs holds one coordinate per corner, or nothing.
	UVs    []mgl32.Vec2
	Smooth bool
	Light  *FaceLight
}

// Mesh is polygonal geometry in object space.
type Mesh struct {
	Vertices   []mgl32.Vec3
	Faces      []Face
	AutoSmooth bool
	// AutoSmoothAngle is in radians.
	AutoSmoothAngle float32
}

// Corner is a triangle corner with its shading attributes.
type Corner struct {
	Vertex     int
	Normal     mgl32.Vec3
	UV         mgl32.Vec2
	Tangent    mgl32.Vec3
	Handedness float32
}

type Triangle [3]Corner

func (m *Mesh) Clone() *Mesh {
	c := *m
	c.Vertices = append([]mgl32.Vec3(nil), m.Vertices...)
	c.Faces = make([]Face, len(m.Faces))

	for i, f := range m.Faces {
		c.Faces[i] = Face{
			Indices: append([]int(nil), f.Indices...),
			UVs:     append([]mgl32.Vec2(nil), f.UVs...),
			Smooth:  f.Smooth,
		}

		if f.Light != nil {
			l := *f.Light
			c.Faces[i].Light = &l
		}
	}

	return &c
}

// HasUVs reports whether every face carries a UV coordinate per corner.
func (m *Mesh) HasUVs() bool {
	if len(m.Faces) == 0 {
		return false
	}

	for _, f := range m.Faces {
		if len(f.UVs) != len(f.Indices) {
			return false
		}
	}

	return true
}

// Center returns the mean of the vertices.
func (m *Mesh) Center() mgl32.Vec3 {
	var sum mgl32.Vec3
	if len(m.Vertices) == 0 {
		return sum
	}

	for _, v := range m.Vertices {
		sum = sum.Add(v)
	}

	return sum.Mul(1 / float32(len(m.Vertices)))
}

// FaceNormal returns the unit normal of face f using Newell's method.
func (m *Mesh) FaceNormal(f int) mgl32.Vec3 {
	var n mgl32.Vec3

	idx := m.Faces[f].Indices
	for i := range idx {
		a := m.Vertices[idx[i]]
		b := m.Vertices[idx[(i+1)%len(idx)]]

		n[0] += (a[1] - b[1]) * (a[2] + b[2])
		n[1] += (a[2] - b[2]) * (a[0] + b[0])
		n[2] += (a[0] - b[0]) * (a[1] + b[1])
	}

	return Normalize(n)
}

// FaceCenter returns the mean of the vertices of face f.
func (m *Mesh) FaceCenter(f int) mgl32.Vec3 {
	var sum mgl32.Vec3

	idx := m.Faces[f].Indices
	for _, i := range idx {
		sum = sum.Add(m.Vertices[i])
	}

	return sum.Mul(1 / float32(len(idx)))
}

// Append adds the geometry of other, transformed by t, to m. Baked light
// normals are transformed with the normal matrix of t. If either mesh has
// UVs, faces of the other one get zero UVs so the UV layer stays complete.
func (m *Mesh) Append(other *Mesh, t mgl32.Mat4) {
	offset := len(m.Vertices)
	normalMatrix := NormalMatrix(t)
	keepUVs := m.HasUVs() || other.HasUVs()

	for _, v := range other.Vertices {
		m.Vertices = append(m.Vertices, t.Mul4x1(v.Vec4(1)).Vec3())
	}

	for _, f := range other.Faces {
		nf := Face{
			Indices: make([]int, len(f.Indices)),
			UVs:     append([]mgl32.Vec2(nil), f.UVs...),
			Smooth:  f.Smooth,
		}

		for i, idx := range f.Indices {
			nf.Indices[i] = idx + offset
		}

		if f.Light != nil {
			nf.Light = &FaceLight{
				Color:  f.Light.Color,
				Normal: Normalize(normalMatrix.Mul3x1(f.Light.Normal)),
			}
		}

		m.Faces = append(m.Faces, nf)
	}

	if keepUVs {
		m.padUVs()
	}
}

// padUVs gives every face without a full set of UVs zero UVs.
func (m *Mesh) padUVs() {
	for i, f := range m.Faces {
		if len(f.UVs) != len(f.Indices) {
			m.Faces[i].UVs = make([]mgl32.Vec2, len(f.Indices))
		}
	}
}

// Triangles splits every face into a fan of triangles and computes the
// shading attributes of their corners. Smooth faces share normals with the
// adjacent smooth faces, limited to AutoSmoothAngle when AutoSmooth is set.
func (m *Mesh) Triangles() []Triangle {
	faceNormals := make([]mgl32.Vec3, len(m.Faces))
	adjacent := make([][]int, len(m.Vertices))

	for f, face := range m.Faces {
		faceNormals[f] = m.FaceNormal(f)

		for _, v := range face.Indices {
			adjacent[v] = append(adjacent[v], f)
		}
	}

	cosLimit := float32(math.Cos(float64(m.AutoSmoothAngle)))
	hasUVs := m.HasUVs()

	cornerNormal := func(f, corner int) mgl32.Vec3 {
		face := m.Faces[f]
		if !face.Smooth {
			return faceNormals[f]
		}

		v := face.Indices[corner]

		var n mgl32.Vec3

		for _, g := range adjacent[v] {
			if !m.Faces[g].Smooth {
				continue
			}

			if m.AutoSmooth && g != f && faceNormals[f].Dot(faceNormals[g]) < cosLimit {
				continue
			}

			n = n.Add(faceNormals[g].Mul(m.cornerAngle(g, v)))
		}

		if n.Len() < epsilon {
			return faceNormals[f]
		}

		return n.Normalize()
	}

	var tris []Triangle

	for f, face := range m.Faces {
		for i := 1; i+1 < len(face.Indices); i++ {
			var tri Triangle

			for k, c := range [3]int{0, i, i + 1} {
				tri[k] = Corner{Vertex: face.Indices[c], Normal: cornerNormal(f, c)}
				if hasUVs {
					tri[k].UV = face.UVs[c]
				}
			}

			if hasUVs {
				m.tangents(&tri)
			}

			tris = append(tris, tri)
		}
	}

	return tris
}

func (m *Mesh) cornerAngle(f, v int) float32 {
	idx := m.Faces[f].Indices

	for i, x := range idx {
		if x != v {
			continue
		}

		a := m.Vertices[idx[(i+len(idx)-1)%len(idx)]].Sub(m.Vertices[v])
		b := m.Vertices[idx[(i+1)%len(idx)]].Sub(m.Vertices[v])

		if a.Len() < epsilon || b.Len() < epsilon {
			return 0
		}

		cos := mgl32.Clamp(a.Normalize().Dot(b.Normalize()), -1, 1)

		return float32(math.Acos(float64(cos)))
	}

	return 0
}

// tangents fills in per corner tangents and handedness from the UV layout
// of the triangle.
func (m *Mesh) tangents(tri *Triangle) {
	p0 := m.Vertices[tri[0].Vertex]
	e1 := m.Vertices[tri[1].Vertex].Sub(p0)
	e2 := m.Vertices[tri[2].Vertex].Sub(p0)

	d1 := tri[1].UV.Sub(tri[0].UV)
	d2 := tri[2].UV.Sub(tri[0].UV)

	var t, b mgl32.Vec3

	if r := d1[0]*d2[1] - d2[0]*d1[1]; math.Abs(float64(r)) > epsilon {
		t = e1.Mul(d2[1]).Sub(e2.Mul(d1[1])).Mul(1 / r)
		b = e2.Mul(d1[0]).Sub(e1.Mul(d2[0])).Mul(1 / r)
	}

	for i := range tri {
		n := tri[i].Normal
		ti := t.Sub(n.Mul(n.Dot(t)))

		if ti.Len() < epsilon {
			ti = Perpendicular(n)
		}

		tri[i].Tangent = ti.Normalize()
		tri[i].Handedness = 1

		if n.Cross(tri[i].Tangent).Dot(b) < 0 {
			tri[i].Handedness = -1
		}
	}
}

// Normalize returns v scaled to unit length, or the zero vector.
func Normalize(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() < epsilon {
		return mgl32.Vec3{}
	}

	return v.Normalize()
}

// Perpendicular returns a unit vector orthogonal to n.
func Perpendicular(n mgl32.Vec3) mgl32.Vec3 {
	axis := mgl32.Vec3{1, 0, 0}
	if math.Abs(float64(n[0])) > 0.9 {
		axis = mgl32.Vec3{0, 1, 0}
	}

	return Normalize(axis.Sub(n.Mul(n.Dot(axis))))
}

// NormalMatrix returns the inverse transpose of the linear part of t.
func NormalMatrix(t mgl32.Mat4) mgl32.Mat3 {
	m := t.Mat3()
	if math.Abs(float64(m.Det())) < epsilon {
		return m
	}

	return m.Inv().Transpose()
}
