package exporter

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/saiko-tech/bml-exporter/pkg/bml"
	"github.com/saiko-tech/bml-exporter/pkg/coords"
	"github.com/saiko-tech/bml-exporter/pkg/scene"
)

// light corners of a quad in emission order, two triangles per face
var lightCorners = [6]int{1, 0, 3, 1, 3, 2}

// lightOffsetSigns extrude the corners of a light quad from its center.
var lightOffsetSigns = [4]mgl32.Vec2{{1, 1}, {-1, 1}, {-1, -1}, {1, -1}}

// primitive appends vertices and a primitive drawing them. Indices are
// absolute into the shared vertex buffer, so StartIndex stays 0.
func (b *builder) primitive(material string, vertices []bml.Vertex, stride uint32, ref mgl32.Vec3) {
	count := uint32(len(vertices))

	p := bml.Primitive{
		IndexCount:         count,
		VertexStartIndex:   b.vertexCount,
		VertexStartOffset:  uint32(len(b.vertices)),
		VertexCount:        count,
		VertexSize:         stride,
		ReferencePoint:     ref,
		UseReferencePoint:  true,
		AlphaSortTriangles: b.alphaSort(material),
		MaterialIndex:      b.material(material),
	}

	for i, v := range vertices {
		b.indices = append(b.indices, b.vertexCount+uint32(i))
		b.vertices = v.Append(b.vertices)
	}

	b.vertexCount += count
	b.reserve(p)
}

// referencePoint is the center of o in its frame, in engine space.
func referencePoint(o *scene.Object, f mgl32.Mat4) mgl32.Vec3 {
	return coords.ToEngine(f.Mul4x1(o.WorldCenter().Vec4(1)).Vec3())
}

func (b *builder) mesh(o *scene.Object) {
	material := o.Material()
	if material == "" {
		material = scene.DefaultMaterial
	}

	f := frame(o)
	m := f.Mul4(o.World)
	linear := m.Mat3()
	normals := scene.NormalMatrix(m)

	var vertices []bml.Vertex

	if o.Mesh != nil {
		hasUVs := o.Mesh.HasUVs()

		for _, tri := range o.Mesh.Triangles() {
			// the change of basis mirrors, so the winding is flipped
			for _, k := range [3]int{0, 2, 1} {
				c := tri[k]

				v := bml.VertexPBR{
					Position:   coords.ToEngine(m.Mul4x1(o.Mesh.Vertices[c.Vertex].Vec4(1)).Vec3()),
					Normal:     scene.Normalize(coords.ToEngine(normals.Mul3x1(c.Normal))),
					Tangent:    scene.Normalize(coords.ToEngine(linear.Mul3x1(c.Tangent))),
					Handedness: c.Handedness,
				}

				if hasUVs {
					v.UV = coords.UVToEngine(c.UV)
				}

				vertices = append(vertices, v)
			}
		}
	}

	var ref mgl32.Vec3
	if !centeredByDof(o) {
		ref = referencePoint(o, f)
	}

	b.primitive(material, vertices, bml.VertexPBRSize, ref)
}

func (b *builder) light(o *scene.Object) error {
	if o.Mesh == nil {
		return sceneErrorf(o, "light without geometry")
	}

	material := o.Material()
	if material == "" {
		material = scene.DefaultLightMaterial
	}

	f := frame(o)
	m := f.Mul4(o.World)
	normals := scene.NormalMatrix(m)
	mesh := o.Mesh

	vertices := make([]bml.Vertex, 0, 6*len(mesh.Faces))

	for i, face := range mesh.Faces {
		if len(face.Indices) != 4 {
			return sceneErrorf(o, "malformed light (needs exactly 4 vertices per face)")
		}

		baked := face.Light
		if baked == nil {
			baked = &scene.FaceLight{}
			if o.Light != nil {
				baked.Color = o.Light.Color
				if o.Light.Directional {
					baked.Normal = mesh.FaceNormal(i)
				}
			}
		}

		var corners [4]mgl32.Vec3
		for k, idx := range face.Indices {
			corners[k] = m.Mul4x1(mesh.Vertices[idx].Vec4(1)).Vec3()
		}

		half := mgl32.Vec2{corners[0].Sub(corners[1]).Len() / 2, corners[1].Sub(corners[2]).Len() / 2}
		center := coords.ToEngine(m.Mul4x1(mesh.FaceCenter(i).Vec4(1)).Vec3())
		normal := scene.Normalize(coords.ToEngine(normals.Mul3x1(baked.Normal)))
		color := bml.PackColor(baked.Color)

		for _, k := range lightCorners {
			v := bml.VertexLight{
				Position: center,
				Normal:   normal,
				Color:    color,
				UV2: mgl32.Vec2{
					lightOffsetSigns[k][0] * half[0],
					lightOffsetSigns[k][1] * half[1],
				},
			}

			if len(face.UVs) == 4 {
				v.UV1 = coords.UVToEngine(face.UVs[k])
			}

			vertices = append(vertices, v)
		}
	}

	b.primitive(material, vertices, bml.VertexLightSize, referencePoint(o, f))

	return nil
}
