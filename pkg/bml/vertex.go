package bml

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex strides in bytes.
const (
	VertexPBRSize   = 48
	VertexLightSize = 44
)

// Vertex is a vertex buffer element.
type Vertex interface {
	Size() uint32
	Append(b []byte) []byte
}

// VertexPBR is the vertex layout of regular geometry.
type VertexPBR struct {
	Position   mgl32.Vec3
	Normal     mgl32.Vec3
	Tangent    mgl32.Vec3
	UV         mgl32.Vec2
	Handedness float32
}

func (VertexPBR) Size() uint32 { return VertexPBRSize }

func (v VertexPBR) Append(b []byte) []byte {
	b = appendVec3(b, v.Position)
	b = appendVec3(b, v.Normal)
	b = appendVec3(b, v.Tangent)
	b = appendVec2(b, v.UV)

	return appendFloat32(b, v.Handedness)
}

// VertexLight is the vertex layout of billboard lights. All vertices of a
// light face share Position; UV2 holds the corner offset from it.
type VertexLight struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Color    uint32
	UV1      mgl32.Vec2
	UV2      mgl32.Vec2
}

func (VertexLight) Size() uint32 { return VertexLightSize }

func (v VertexLight) Append(b []byte) []byte {
	b = appendVec3(b, v.Position)
	b = appendVec3(b, v.Normal)
	b = appendUint32(b, v.Color)
	b = appendVec2(b, v.UV1)

	return appendVec2(b, v.UV2)
}

// SRGBByte encodes a linear color channel as an 8 bit sRGB value.
func SRGBByte(c float32) uint32 {
	var s float64
	if c < 0.0031308 {
		s = math.Max(0, float64(c)*12.92)
	} else {
		s = 1.055*math.Pow(float64(c), 1/2.4) - 0.055
	}

	v := int(s*255 + 0.5)
	if v > 255 {
		v = 255
	}
	if v < 0 {
		v = 0
	}

	return uint32(v)
}

// PackColor packs a linear RGBA color as a|b|g|r from most to least
// significant byte.
func PackColor(c mgl32.Vec4) uint32 {
	return SRGBByte(c[3])<<24 | SRGBByte(c[2])<<16 | SRGBByte(c[1])<<8 | SRGBByte(c[0])
}
