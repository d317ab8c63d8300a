package bml

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

var errShortPayload = errors.New("payload too short")

type reader struct {
	b   []byte
	off int
	err error
}

func (r *reader) next(n int) []byte {
	if r.err != nil {
		return make([]byte, n)
	}

	if r.off+n > len(r.b) {
		r.err = errors.Wrapf(errShortPayload, "need %d bytes at offset %d, have %d", n, r.off, len(r.b))
		return make([]byte, n)
	}

	p := r.b[r.off : r.off+n]
	r.off += n

	return p
}

func (r *reader) u8() uint8    { return r.next(1)[0] }
func (r *reader) u16() uint16  { return binary.LittleEndian.Uint16(r.next(2)) }
func (r *reader) u32() uint32  { return binary.LittleEndian.Uint32(r.next(4)) }
func (r *reader) f32() float32 { return math.Float32frombits(r.u32()) }
func (r *reader) flag() bool   { return r.u8() != 0 }

func (r *reader) vec3() mgl32.Vec3 {
	return mgl32.Vec3{r.f32(), r.f32(), r.f32()}
}

func (r *reader) mat() (m [3]mgl32.Vec3) {
	for i := range m {
		m[i] = r.vec3()
	}

	return m
}

// DecodePayload parses an uncompressed payload back into a Model.
func DecodePayload(payload []byte) (*Model, error) {
	r := &reader{b: payload}
	m := &Model{Script: r.u32()}

	materialCount := r.u32()
	for i := uint32(0); i < materialCount && r.err == nil; i++ {
		m.Materials = append(m.Materials, string(r.next(int(r.u32()))))
	}

	format := IndexFormat(r.u32())
	indexCount := r.u32()
	m.VertexCount = r.u32()
	nodeCount := r.u32()

	for i := uint32(0); i < nodeCount && r.err == nil; i++ {
		n, err := r.node()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode node %d", i)
		}

		m.Nodes = append(m.Nodes, n)
	}

	indexBytes := r.next(int(r.u32()))
	if r.err == nil {
		var width int

		switch format {
		case IndexFormat16:
			width = 2
		case IndexFormat32:
			width = 4
		default:
			return nil, errors.Errorf("unknown index format %d", format)
		}

		if len(indexBytes) != width*int(indexCount) {
			return nil, errors.Errorf("index buffer holds %d bytes, expected %d", len(indexBytes), width*int(indexCount))
		}

		m.Indices = make([]uint32, indexCount)
		for i := range m.Indices {
			if width == 2 {
				m.Indices[i] = uint32(binary.LittleEndian.Uint16(indexBytes[2*i:]))
			} else {
				m.Indices[i] = binary.LittleEndian.Uint32(indexBytes[4*i:])
			}
		}
	}

	m.Vertices = r.next(int(r.u32()))

	if r.err != nil {
		return nil, r.err
	}

	return m, nil
}

func (r *reader) node() (Node, error) {
	t := NodeType(r.u32())
	n := Node{Index: r.u32()}
	_ = r.u32() // version follows from the payload

	switch t {
	case NodeTypePrimitive:
		p := Primitive{}
		_ = r.u32() // topology
		p.ZBias = r.f32()
		p.IndexCount = r.u32()
		p.StartIndex = r.u32()
		p.VertexStartIndex = r.u32()
		p.VertexStartOffset = r.u32()
		p.VertexCount = r.u32()
		p.VertexSize = r.u32()
		p.ReferencePoint = r.vec3()
		p.UseReferencePoint = r.flag()
		p.AlphaSortTriangles = r.flag()
		p.MaterialIndex = r.u16()
		n.Payload = p

	case NodeTypeDof:
		d := Dof{}
		d.Number = r.u32()
		d.DofType = DofType(r.u32())
		d.Min = r.f32()
		d.Max = r.f32()
		d.Multiplier = r.f32()
		d.Flags = r.u32()
		d.Scale = r.vec3()
		d.Translation = r.vec3()
		d.Rotation = r.mat()
		n.Payload = d

	case NodeTypeSwitch:
		n.Payload = Switch{Number: r.u32(), Branch: r.u32(), StartsEnabled: r.flag()}

	case NodeTypeSlot:
		n.Payload = Slot{Number: r.u32(), Rotation: r.mat(), Origin: r.vec3()}

	case NodeTypeDofEnd:
		n.Payload = DofEnd{}
	case NodeTypeSwitchEnd:
		n.Payload = SwitchEnd{}
	case NodeTypeSlotEnd:
		n.Payload = SlotEnd{}

	case NodeTypeRenderControl:
		if ct := ControlType(r.u32()); ct != ControlDofMath {
			return Node{}, errors.Errorf("unsupported render control type %d", ct)
		}

		rc := RenderControl{Op: MathOp(r.u16())}

		var tags [MaxArguments]ArgType
		for i := range tags {
			tags[i] = ArgType(r.u8())
		}

		rc.Result = Argument{Type: ArgType(r.u8()), ID: r.u32()}

		rc.Arguments = make([]Argument, MaxArguments)
		for i, tag := range tags {
			if tag == ArgFloat {
				rc.Arguments[i] = FloatArg(r.f32())
			} else {
				rc.Arguments[i] = Argument{Type: tag, ID: r.u32()}
			}
		}
		n.Payload = rc

	default:
		return Node{}, errors.Errorf("unknown node type %d", t)
	}

	return n, r.err
}
