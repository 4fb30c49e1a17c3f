package format

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/calvinalkan/docstore/pkg/docstore"
)

// Zstd compresses another formatter's output with zstandard. The file
// extension becomes "<inner>.zst", so compressed and plain repositories
// never read each other's files.
//
// Safe for concurrent use: EncodeAll and DecodeAll share one encoder and
// decoder.
type Zstd struct {
	inner docstore.Formatter
	enc   *zstd.Encoder
	dec   *zstd.Decoder
}

// NewZstd wraps inner.
func NewZstd(inner docstore.Formatter) (*Zstd, error) {
	if inner == nil {
		return nil, errors.New("zstd: inner formatter is nil")
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd: encoder: %w", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = enc.Close()

		return nil, fmt.Errorf("zstd: decoder: %w", err)
	}

	return &Zstd{inner: inner, enc: enc, dec: dec}, nil
}

// Extension returns the inner extension plus ".zst".
func (z *Zstd) Extension() string { return z.inner.Extension() + ".zst" }

// Encode compresses the inner encoding.
func (z *Zstd) Encode(fields *docstore.Fields) ([]byte, error) {
	raw, err := z.inner.Encode(fields)
	if err != nil {
		return nil, err
	}

	return z.enc.EncodeAll(raw, nil), nil
}

// Decode decompresses and hands the result to the inner formatter. An empty
// file decodes to nothing.
func (z *Zstd) Decode(data []byte) (*docstore.Fields, error) {
	if len(data) == 0 {
		return nil, nil
	}

	raw, err := z.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}

	return z.inner.Decode(raw)
}

// Close releases the encoder and decoder. The formatter is unusable after.
func (z *Zstd) Close() error {
	z.dec.Close()

	return z.enc.Close()
}
