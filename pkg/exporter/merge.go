package exporter

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/saiko-tech/bml-exporter/pkg/scene"
)

// Join key prefixes of objects that must never be joined with meshes.
const (
	lightKeyPrefix      = "BML_BBL_"
	boundaryKeyPrefix   = "_DOF_OR_SWITCH_OR_SLOT_OR_HOTSPOT_"
	emptyKeyPrefix      = "_EMPTY_"
	doNotMergeKeyPrefix = "_DO_NOT_MERGE_"
)

// joinKey returns the key by which o is joined with its siblings. Objects
// with equal keys end up as one primitive.
func joinKey(o *scene.Object) string {
	switch o.Kind {
	case scene.KindMesh, scene.KindLight:
	case scene.KindDof, scene.KindSwitch, scene.KindSlot, scene.KindHotspot:
		return boundaryKeyPrefix + o.ID
	default:
		return emptyKeyPrefix + o.ID
	}

	if o.DoNotMerge {
		return doNotMergeKeyPrefix + o.ID
	}

	key := o.Material()
	if key == "" {
		key = scene.DefaultMaterial
	}

	if o.Parent != nil && o.Parent.Kind == scene.KindSwitch {
		key = o.Parent.ID + "_" + key
	}

	if o.Kind == scene.KindLight {
		key = lightKeyPrefix + key
	}

	return key
}

// bakeLight stores the color and normal of light o on each of its faces so
// that they survive joining with other lights.
func bakeLight(o *scene.Object) error {
	if o.Mesh == nil {
		return sceneErrorf(o, "light without geometry")
	}

	if o.Light == nil {
		return sceneErrorf(o, "light without parameters")
	}

	for f := range o.Mesh.Faces {
		if len(o.Mesh.Faces[f].Indices) != 4 {
			return sceneErrorf(o, "malformed light (needs exactly 4 vertices per face)")
		}

		var normal mgl32.Vec3
		if o.Light.Directional {
			normal = o.Mesh.FaceNormal(f)
		}

		o.Mesh.Faces[f].Light = &scene.FaceLight{Color: o.Light.Color, Normal: normal}
	}

	return nil
}

// prepare bakes lights and joins siblings sharing a key, level by level.
// The objects are modified in place, so prepare must run on a copy of the
// scene.
func (e *Exporter) prepare(objects []*scene.Object) ([]*scene.Object, error) {
	for _, o := range objects {
		if o.Kind != scene.KindLight {
			continue
		}

		if err := bakeLight(o); err != nil {
			return nil, err
		}
	}

	if !e.opts.DoNotJoinMaterials {
		objects = e.join(objects)
	}

	for _, o := range objects {
		children, err := e.prepare(o.Children)
		if err != nil {
			return nil, err
		}

		o.Children = children
	}

	return objects, nil
}

// join merges objects sharing a join key into the first of them. The
// returned objects keep the order in which their keys first appeared.
func (e *Exporter) join(objects []*scene.Object) []*scene.Object {
	targets := make(map[string]*scene.Object, len(objects))
	joined := make([]*scene.Object, 0, len(objects))

	for _, o := range objects {
		key := joinKey(o)

		target, ok := targets[key]
		if !ok {
			targets[key] = o
			joined = append(joined, o)

			continue
		}

		e.log.Debugf("joining %q into %q", o.Name, target.Name)
		e.merge(target, o)
	}

	return joined
}

// merge appends the geometry and children of other to target.
func (e *Exporter) merge(target, other *scene.Object) {
	if target.Mesh == nil {
		target.Mesh = &scene.Mesh{}
	}
	if other.Mesh == nil {
		other.Mesh = &scene.Mesh{}
	}

	if target.Mesh.AutoSmooth || other.Mesh.AutoSmooth {
		angle := mgl32.DegToRad(e.opts.AutoSmoothAngle)

		for _, m := range []*scene.Mesh{target.Mesh, other.Mesh} {
			m.AutoSmooth = true
			m.AutoSmoothAngle = angle
		}
	}

	toTarget := target.World.Inv().Mul4(other.World)
	target.Mesh.Append(other.Mesh, toTarget)

	for _, c := range other.Children {
		c.Parent = target
		c.ParentInverse = toTarget.Mul4(c.ParentInverse)
		target.Children = append(target.Children, c)
	}

	other.Children = nil
}
