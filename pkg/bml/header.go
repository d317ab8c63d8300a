package bml

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// HeaderSize is the size of an encoded Header.
const HeaderSize = 28

// Version written by this package.
const Version = 2

var magic = [4]byte{'B', 'M', 'L', 0}

var (
	ErrInvalidMagic        = errors.New("not a BML file")
	ErrUnknownCompression  = errors.New("unknown compression")
	errTruncatedHeaderData = errors.New("header too short")
)

// Header precedes the (possibly compressed) payload.
type Header struct {
	Version        uint32
	Compression    Compression
	PayloadSize    uint64
	CompressedSize uint64
}

// Encode returns the 28 byte encoding of h.
func (h Header) Encode() []byte {
	b := make([]byte, 0, HeaderSize)
	b = append(b, magic[:]...)
	b = appendUint32(b, h.Version)
	b = appendUint32(b, uint32(h.Compression))
	b = binary.LittleEndian.AppendUint64(b, h.PayloadSize)

	return binary.LittleEndian.AppendUint64(b, h.CompressedSize)
}

// DecodeHeader reads a Header from the first HeaderSize bytes of b.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, errors.Wrapf(errTruncatedHeaderData, "got %d bytes", len(b))
	}

	if !bytes.Equal(b[:4], magic[:]) {
		return Header{}, errors.Wrapf(ErrInvalidMagic, "magic %q", b[:4])
	}

	return Header{
		Version:        binary.LittleEndian.Uint32(b[4:]),
		Compression:    Compression(binary.LittleEndian.Uint32(b[8:])),
		PayloadSize:    binary.LittleEndian.Uint64(b[12:]),
		CompressedSize: binary.LittleEndian.Uint64(b[20:]),
	}, nil
}
