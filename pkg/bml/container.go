package bml

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Model is the content of one BML file.
type Model struct {
	Script    uint32
	Materials []string
	Nodes     []Node
	// Indices are absolute into the vertex buffer.
	Indices     []uint32
	VertexCount uint32
	Vertices    []byte
}

// IndexFormat returns the narrowest index width the engine accepts for m.
func (m *Model) IndexFormat() IndexFormat {
	if len(m.Indices) < 256 {
		return IndexFormat16
	}

	return IndexFormat32
}

// Payload returns the uncompressed payload of m.
func (m *Model) Payload() []byte {
	b := make([]byte, 0, 64+len(m.Nodes)*PrimitiveSize+len(m.Indices)*4+len(m.Vertices))

	b = appendUint32(b, m.Script)
	b = appendUint32(b, uint32(len(m.Materials)))

	for _, name := range m.Materials {
		b = appendUint32(b, uint32(len(name)))
		b = append(b, name...)
	}

	format := m.IndexFormat()

	b = appendUint32(b, uint32(format))
	b = appendUint32(b, uint32(len(m.Indices)))
	b = appendUint32(b, m.VertexCount)
	b = appendUint32(b, uint32(len(m.Nodes)))

	for _, n := range m.Nodes {
		b = AppendNode(b, n)
	}

	if format == IndexFormat16 {
		b = appendUint32(b, uint32(2*len(m.Indices)))
		for _, i := range m.Indices {
			b = binary.LittleEndian.AppendUint16(b, uint16(i))
		}
	} else {
		b = appendUint32(b, uint32(4*len(m.Indices)))
		for _, i := range m.Indices {
			b = appendUint32(b, i)
		}
	}

	b = appendUint32(b, uint32(len(m.Vertices)))

	return append(b, m.Vertices...)
}

// Marshal returns the complete file: header followed by the payload
// compressed with c.
func (m *Model) Marshal(c Compression) ([]byte, error) {
	payload := m.Payload()

	compressed, err := Compress(c, payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compress payload")
	}

	h := Header{
		Version:        Version,
		Compression:    c,
		PayloadSize:    uint64(len(payload)),
		CompressedSize: uint64(len(compressed)),
	}

	return append(h.Encode(), compressed...), nil
}

// Unpack returns the header and the decompressed payload of a BML file.
func Unpack(file []byte) (Header, []byte, error) {
	h, err := DecodeHeader(file)
	if err != nil {
		return Header{}, nil, err
	}

	data := file[HeaderSize:]
	if uint64(len(data)) < h.CompressedSize {
		return Header{}, nil, errors.Errorf("payload truncated: header says %d bytes, got %d", h.CompressedSize, len(data))
	}

	payload, err := Decompress(h.Compression, data[:h.CompressedSize], h.PayloadSize)
	if err != nil {
		return Header{}, nil, err
	}

	return h, payload, nil
}

// Uncompressed rewrites a BML file with an uncompressed payload.
func Uncompressed(file []byte) ([]byte, error) {
	h, payload, err := Unpack(file)
	if err != nil {
		return nil, err
	}

	h.Compression = CompressionNone
	h.CompressedSize = h.PayloadSize

	return append(h.Encode(), payload...), nil
}
