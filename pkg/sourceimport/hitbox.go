// Package sourceimport turns the collision hulls of Source engine models and
// maps into bounding box objects.
package sourceimport

import (
	"path"
	"strings"

	"github.com/galaco/studiomodel/phy"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/saiko-tech/bml-exporter/pkg/scene"
)

// InchesToMeters converts Source units into host meters.
const InchesToMeters = 0.0254

// hullVertex converts a collision vertex into host meters. Collision data is
// stored in meters with Y and Z swapped against the model.
func hullVertex(v mgl32.Vec4) mgl32.Vec3 {
	return mgl32.Vec3{v[2], -v[0], -v[1]}
}

func phyFaces(p *phy.Phy) [][3]int {
	faces := make([][3]int, len(p.TriangleFaces))
	for i, f := range p.TriangleFaces {
		faces[i] = [3]int{int(f.V1), int(f.V2), int(f.V3)}
	}

	return faces
}

// hullMesh builds a triangle mesh from collision vertices.
func hullMesh(vertices []mgl32.Vec4, faces [][3]int) (*scene.Mesh, error) {
	m := &scene.Mesh{Vertices: make([]mgl32.Vec3, len(vertices))}

	for i, v := range vertices {
		m.Vertices[i] = hullVertex(v)
	}

	for i, f := range faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(vertices) {
				return nil, errors.Errorf("face %d references vertex %d of %d", i, idx, len(vertices))
			}
		}

		m.Faces = append(m.Faces, scene.Face{Indices: []int{f[0], f[1], f[2]}})
	}

	return m, nil
}

func hitboxObject(name string, mesh *scene.Mesh) *scene.Object {
	o := scene.NewObject(name, scene.KindBoundingBox)
	o.ID = uuid.NewString()
	o.Mesh = mesh

	return o
}

func modelName(p string) string {
	return strings.TrimSuffix(path.Base(p), ".mdl")
}

// LoadModelHitbox loads the collision hull of the model at path as a
// bounding box object at the origin.
func LoadModelHitbox(fs FileSystem, p string) (*scene.Object, error) {
	model, err := LoadModel(fs, p)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load model %q", p)
	}

	if !model.HasCollisionModel() {
		return nil, errors.Errorf("model %q has no collision model", p)
	}

	mesh, err := hullMesh(model.Phy.Vertices, phyFaces(model.Phy))
	if err != nil {
		return nil, errors.Wrapf(err, "malformed collision model %q", p)
	}

	o := hitboxObject(modelName(p), mesh)
	o.UpdateWorld()

	return o, nil
}

// Group returns an empty object holding objects as its children.
func Group(name string, objects []*scene.Object) *scene.Object {
	g := scene.NewObject(name, scene.KindEmpty)
	g.ID = uuid.NewString()

	for _, o := range objects {
		g.AddChild(o)
	}

	return g
}
