// Package compress implements the evolution header's optional gzip
// compression (spec section 4.E: a 1-byte flag announces whether the
// header that follows is gzip-compressed). The interface shape is kept
// from the teacher's payload-compression package; only the set of
// concrete codecs changes, since wyre has exactly one compression site
// instead of mebo's per-payload algorithm choice.
package compress

import "fmt"

// Compressor compresses a byte slice.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a byte slice previously produced by the
// matching Compressor.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// Algorithm identifies which Codec produced a compressed evolution
// header — only two values exist because the wire format's compression
// flag is a single bit (spec section 6.1).
type Algorithm uint8

const (
	None Algorithm = 0
	Gzip Algorithm = 1
)

func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	default:
		return "unknown"
	}
}

// CreateCodec is a factory function that creates a Codec for algorithm.
func CreateCodec(algorithm Algorithm) (Codec, error) {
	switch algorithm {
	case None:
		return NewNoOpCompressor(), nil
	case Gzip:
		return NewGzipCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", algorithm)
	}
}

var builtinCodecs = map[Algorithm]Codec{
	None: NewNoOpCompressor(),
	Gzip: NewGzipCodec(),
}

// GetCodec retrieves a built-in Codec for algorithm.
func GetCodec(algorithm Algorithm) (Codec, error) {
	if codec, ok := builtinCodecs[algorithm]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression algorithm: %s", algorithm)
}
