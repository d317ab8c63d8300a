package bml

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxArguments is the fixed number of argument slots of a render control.
const MaxArguments = 5

// Node is one entry of the node table. Index is the node's position in the
// emitted sequence; End nodes carry the index of their start node.
type Node struct {
	Index   uint32
	Payload Payload
}

// Payload is implemented by the node kinds in this package only.
type Payload interface {
	Type() NodeType
	Version() uint32
}

// Primitive draws a range of the shared index buffer with one material.
type Primitive struct {
	ZBias              float32
	IndexCount         uint32
	StartIndex         uint32
	VertexStartIndex   uint32
	VertexStartOffset  uint32
	VertexCount        uint32
	VertexSize         uint32
	ReferencePoint     mgl32.Vec3
	UseReferencePoint  bool
	AlphaSortTriangles bool
	MaterialIndex      uint16
}

func (Primitive) Type() NodeType  { return NodeTypePrimitive }
func (Primitive) Version() uint32 { return 2 }

// Dof opens an animated sub-tree.
type Dof struct {
	Number      uint32
	DofType     DofType
	Min         float32
	Max         float32
	Multiplier  float32
	Flags       uint32
	Scale       mgl32.Vec3
	Translation mgl32.Vec3
	// Rotation rows, written in order.
	Rotation [3]mgl32.Vec3
}

func (Dof) Type() NodeType { return NodeTypeDof }

// Version is 2 for scale DOFs, which is how the engine knows Scale is set.
func (d Dof) Version() uint32 {
	if d.DofType == DofScale {
		return 2
	}

	return 1
}

type DofEnd struct{}

func (DofEnd) Type() NodeType  { return NodeTypeDofEnd }
func (DofEnd) Version() uint32 { return 1 }

// Switch opens a sub-tree whose visibility is toggled at runtime.
type Switch struct {
	Number        uint32
	Branch        uint32
	StartsEnabled bool
}

func (Switch) Type() NodeType  { return NodeTypeSwitch }
func (Switch) Version() uint32 { return 1 }

type SwitchEnd struct{}

func (SwitchEnd) Type() NodeType  { return NodeTypeSwitchEnd }
func (SwitchEnd) Version() uint32 { return 1 }

// Slot is an attachment point for externally loaded stores.
type Slot struct {
	Number   uint32
	Rotation [3]mgl32.Vec3
	Origin   mgl32.Vec3
}

func (Slot) Type() NodeType  { return NodeTypeSlot }
func (Slot) Version() uint32 { return 1 }

type SlotEnd struct{}

func (SlotEnd) Type() NodeType  { return NodeTypeSlotEnd }
func (SlotEnd) Version() uint32 { return 1 }

// Argument of a render control. ID is used for DOF and scratch references,
// Value for literals.
type Argument struct {
	Type  ArgType
	ID    uint32
	Value float32
}

func FloatArg(v float32) Argument   { return Argument{Type: ArgFloat, Value: v} }
func DofArg(id uint32) Argument     { return Argument{Type: ArgDofID, ID: id} }
func ScratchArg(id uint32) Argument { return Argument{Type: ArgScratch, ID: id} }

func (a Argument) String() string {
	if a.Type == ArgFloat {
		return fmt.Sprintf("%s(%g)", a.Type, a.Value)
	}

	return fmt.Sprintf("%s(%d)", a.Type, a.ID)
}

// RenderControl is a single DOF math instruction. A result of type ArgFloat
// means the result is discarded.
type RenderControl struct {
	Op        MathOp
	Arguments []Argument
	Result    Argument
}

func (RenderControl) Type() NodeType  { return NodeTypeRenderControl }
func (RenderControl) Version() uint32 { return 1 }

// Encoded sizes of each node kind, common prefix included.
const (
	nodePrefixSize    = 12
	PrimitiveSize     = nodePrefixSize + 48
	DofSize           = nodePrefixSize + 24 + 12 + 12 + 36
	SwitchSize        = nodePrefixSize + 9
	SlotSize          = nodePrefixSize + 4 + 36 + 12
	EndSize           = nodePrefixSize
	RenderControlSize = nodePrefixSize + 4 + 2 + MaxArguments + 1 + 4 + 4*MaxArguments
)

// EncodeNode returns the little-endian encoding of n.
func EncodeNode(n Node) []byte {
	return AppendNode(nil, n)
}

// AppendNode appends the encoding of n to b. It panics on payloads that
// cannot be represented, which are programming errors.
func AppendNode(b []byte, n Node) []byte {
	b = appendUint32(b, uint32(n.Payload.Type()))
	b = appendUint32(b, n.Index)
	b = appendUint32(b, n.Payload.Version())

	switch p := n.Payload.(type) {
	case Primitive:
		b = appendUint32(b, uint32(TopologyTriangleList))
		b = appendFloat32(b, p.ZBias)
		b = appendUint32(b, p.IndexCount)
		b = appendUint32(b, p.StartIndex)
		b = appendUint32(b, p.VertexStartIndex)
		b = appendUint32(b, p.VertexStartOffset)
		b = appendUint32(b, p.VertexCount)
		b = appendUint32(b, p.VertexSize)
		b = appendVec3(b, p.ReferencePoint)
		b = appendBool(b, p.UseReferencePoint)
		b = appendBool(b, p.AlphaSortTriangles)
		b = binary.LittleEndian.AppendUint16(b, p.MaterialIndex)

	case Dof:
		b = appendUint32(b, p.Number)
		b = appendUint32(b, uint32(p.DofType))
		b = appendFloat32(b, p.Min)
		b = appendFloat32(b, p.Max)
		b = appendFloat32(b, p.Multiplier)
		b = appendUint32(b, p.Flags)
		b = appendVec3(b, p.Scale)
		b = appendVec3(b, p.Translation)
		for _, row := range p.Rotation {
			b = appendVec3(b, row)
		}

	case Switch:
		b = appendUint32(b, p.Number)
		b = appendUint32(b, p.Branch)
		b = appendBool(b, p.StartsEnabled)

	case Slot:
		b = appendUint32(b, p.Number)
		for _, row := range p.Rotation {
			b = appendVec3(b, row)
		}
		b = appendVec3(b, p.Origin)

	case DofEnd, SwitchEnd, SlotEnd:

	case RenderControl:
		b = appendRenderControl(b, p)

	default:
		panic(fmt.Sprintf("bml: unsupported node payload %T", n.Payload))
	}

	return b
}

func appendRenderControl(b []byte, rc RenderControl) []byte {
	if len(rc.Arguments) > MaxArguments {
		panic(fmt.Sprintf("bml: render control %s has %d arguments, at most %d are allowed",
			rc.Op, len(rc.Arguments), MaxArguments))
	}

	args := make([]Argument, MaxArguments)
	copy(args, rc.Arguments)

	b = appendUint32(b, uint32(ControlDofMath))
	b = binary.LittleEndian.AppendUint16(b, uint16(rc.Op))

	for _, arg := range args {
		b = append(b, byte(arg.Type))
	}

	b = append(b, byte(rc.Result.Type))
	b = appendUint32(b, rc.Result.ID)

	for _, arg := range args {
		switch arg.Type {
		case ArgDofID, ArgScratch:
			b = appendUint32(b, arg.ID)
		case ArgFloat:
			b = appendFloat32(b, arg.Value)
		default:
			panic(fmt.Sprintf("bml: invalid render control argument type %d", arg.Type))
		}
	}

	return b
}

func appendUint32(b []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(b, v)
}

func appendFloat32(b []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
}

func appendVec3(b []byte, v mgl32.Vec3) []byte {
	return appendFloat32(appendFloat32(appendFloat32(b, v[0]), v[1]), v[2])
}

func appendVec2(b []byte, v mgl32.Vec2) []byte {
	return appendFloat32(appendFloat32(b, v[0]), v[1])
}

func appendBool(b []byte, v bool) []byte {
	if v {
		return append(b, 1)
	}

	return append(b, 0)
}
