package bml

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz/lzma"
)

// The classic LZMA header is 1 properties byte, a 4 byte dictionary size and
// an 8 byte uncompressed size. The engine expects the size to be missing.
const (
	lzmaSizeOffset = 5
	lzmaSizeLen    = 8
	lzmaHeaderLen  = lzmaSizeOffset + lzmaSizeLen
)

// Compress compresses payload with c.
func Compress(c Compression, payload []byte) ([]byte, error) {
	switch c {
	case CompressionNone:
		return payload, nil
	case CompressionLZ4:
		return compressLZ4(payload)
	case CompressionLZMA:
		return CompressLZMA(payload)
	}

	return nil, errors.Wrapf(ErrUnknownCompression, "compression %d", c)
}

// Decompress reverses Compress. size is the uncompressed payload size.
func Decompress(c Compression, data []byte, size uint64) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		return decompressLZ4(data, size)
	case CompressionLZMA:
		return DecompressLZMA(data, size)
	}

	return nil, errors.Wrapf(ErrUnknownCompression, "compression %d", c)
}

// CompressLZMA produces an LZMA alone stream without the uncompressed size
// field.
func CompressLZMA(payload []byte) ([]byte, error) {
	var buf bytes.Buffer

	w, err := lzma.WriterConfig{
		SizeInHeader: true,
		Size:         int64(len(payload)),
	}.NewWriter(&buf)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create lzma writer")
	}

	if _, err = w.Write(payload); err != nil {
		return nil, errors.Wrap(err, "failed to lzma compress payload")
	}

	if err = w.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to flush lzma stream")
	}

	stream := buf.Bytes()
	if len(stream) < lzmaHeaderLen {
		return nil, errors.Errorf("lzma stream too short (%d bytes)", len(stream))
	}

	return append(stream[:lzmaSizeOffset:lzmaSizeOffset], stream[lzmaHeaderLen:]...), nil
}

// DecompressLZMA re-inserts the uncompressed size into data and inflates it.
func DecompressLZMA(data []byte, size uint64) ([]byte, error) {
	if len(data) < lzmaSizeOffset {
		return nil, errors.Errorf("lzma stream too short (%d bytes)", len(data))
	}

	stream := make([]byte, 0, len(data)+lzmaSizeLen)
	stream = append(stream, data[:lzmaSizeOffset]...)
	stream = binary.LittleEndian.AppendUint64(stream, size)
	stream = append(stream, data[lzmaSizeOffset:]...)

	r, err := lzma.NewReader(bytes.NewReader(stream))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read lzma header")
	}

	out := make([]byte, size)
	if _, err = io.ReadFull(r, out); err != nil {
		return nil, errors.Wrap(err, "failed to lzma decompress payload")
	}

	return out, nil
}

func compressLZ4(payload []byte) ([]byte, error) {
	var buf bytes.Buffer

	w := lz4.NewWriter(&buf)

	if _, err := w.Write(payload); err != nil {
		return nil, errors.Wrap(err, "failed to lz4 compress payload")
	}

	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to flush lz4 frame")
	}

	return buf.Bytes(), nil
}

func decompressLZ4(data []byte, size uint64) ([]byte, error) {
	out := make([]byte, size)

	if _, err := io.ReadFull(lz4.NewReader(bytes.NewReader(data)), out); err != nil {
		return nil, errors.Wrap(err, "failed to lz4 decompress payload")
	}

	return out, nil
}
