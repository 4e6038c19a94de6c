package compress

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
)

// GzipCodec compresses evolution headers at or above the configured
// CompressHeadersAbove threshold (spec section 4.E/6.3), via
// klauspost/compress/gzip rather than stdlib compress/gzip — the
// teacher's compress package already reaches for klauspost's faster
// drop-in implementations throughout, so wyre keeps that convention for
// its one remaining compression algorithm.
type GzipCodec struct{}

var _ Codec = GzipCodec{}

// NewGzipCodec creates a gzip compressor/decompressor pair.
func NewGzipCodec() GzipCodec {
	return GzipCodec{}
}

func (GzipCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (GzipCodec) Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}
