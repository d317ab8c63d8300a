// Package coords converts host-space geometry (right-handed, Z up) into the
// engine's space (Y up) and into the rearward/left/up convention used for
// hotspots and bounding boxes.
package coords

import "github.com/go-gl/mathgl/mgl32"

// Space swaps the Y and Z axes. It is its own inverse.
var Space = mgl32.Mat4{
	1, 0, 0, 0,
	0, 0, 1, 0,
	0, 1, 0, 0,
	0, 0, 0, 1,
}

// SpaceInv is the inverse of Space.
var SpaceInv = Space.Inv()

// Hotspot maps host (right, forward, up) onto (rearward, left, up).
// The result for a vector v is (-v.y, -v.x, v.z).
var Hotspot = mgl32.Mat3{
	0, -1, 0,
	-1, 0, 0,
	0, 0, 1,
}

// HotspotInv is the inverse of Hotspot.
var HotspotInv = Hotspot.Inv()

// ToEngine converts a position or direction into engine space.
func ToEngine(v mgl32.Vec3) mgl32.Vec3 {
	// row vector times matrix
	return Space.Transpose().Mul4x1(v.Vec4(0)).Vec3()
}

// FromEngine is the inverse of ToEngine.
func FromEngine(v mgl32.Vec3) mgl32.Vec3 {
	return SpaceInv.Transpose().Mul4x1(v.Vec4(0)).Vec3()
}

// MatToEngine converts a transform into engine space as Space * m * Space^-1.
func MatToEngine(m mgl32.Mat4) mgl32.Mat4 {
	return Space.Mul4(m).Mul4(SpaceInv)
}

// Mat3ToEngine is MatToEngine for a bare rotation/scale matrix.
func Mat3ToEngine(m mgl32.Mat3) mgl32.Mat3 {
	return MatToEngine(m.Mat4()).Mat3()
}

// QuatToEngine converts a rotation through its matrix form.
func QuatToEngine(q mgl32.Quat) mgl32.Quat {
	return mgl32.Mat4ToQuat(MatToEngine(q.Mat4())).Normalize()
}

// EulerToEngine swaps the Y and Z angles of an XYZ euler triple.
func EulerToEngine(e mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{e[0], e[2], e[1]}
}

// UVToEngine flips the V coordinate.
func UVToEngine(uv mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{uv[0], 1 - uv[1]}
}

// ToHotspot converts a host position into hotspot space.
func ToHotspot(v mgl32.Vec3) mgl32.Vec3 {
	return Hotspot.Mul3x1(v)
}

// FromHotspot is the inverse of ToHotspot.
func FromHotspot(v mgl32.Vec3) mgl32.Vec3 {
	return HotspotInv.Mul3x1(v)
}

// EulerMatrix builds the rotation matrix of an XYZ euler triple, X applied
// first.
func EulerMatrix(e mgl32.Vec3) mgl32.Mat3 {
	return mgl32.Rotate3DZ(e[2]).Mul3(mgl32.Rotate3DY(e[1])).Mul3(mgl32.Rotate3DX(e[0]))
}
