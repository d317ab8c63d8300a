package exporter

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/saiko-tech/bml-exporter/pkg/bml"
	"github.com/saiko-tech/bml-exporter/pkg/scene"
)

// frameDof returns the nearest rotating or scaling DOF above o. Translating
// DOFs and other objects in between are skipped.
func frameDof(o *scene.Object) *scene.Object {
	for p := o.Parent; p != nil; p = p.Parent {
		if p.IsDof(bml.DofRotate) || p.IsDof(bml.DofScale) {
			return p
		}
	}

	return nil
}

// frame returns the matrix taking world space into the space in which o is
// written. The engine re-applies the transform of rotating and scaling DOFs
// at runtime, so their descendants are written relative to the DOF.
func frame(o *scene.Object) mgl32.Mat4 {
	dof := frameDof(o)
	if dof == nil {
		return mgl32.Ident4()
	}

	return rigid(dof.World).Inv()
}

// rigid removes the scale from m.
func rigid(m mgl32.Mat4) mgl32.Mat4 {
	out := mgl32.Ident4()

	for c := 0; c < 3; c++ {
		out.SetCol(c, scene.Normalize(m.Col(c).Vec3()).Vec4(0))
	}

	out.SetCol(3, m.Col(3))

	return out
}

// centeredByDof reports whether the primitive of o is positioned by the DOF
// it is attached to.
func centeredByDof(o *scene.Object) bool {
	return o.Parent.IsDof(bml.DofRotate) || o.Parent.IsDof(bml.DofScale)
}
