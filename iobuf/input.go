package iobuf

import (
	"io"

	"github.com/arloliu/wyre/endian"
	"github.com/arloliu/wyre/errs"
)

// Input is a read cursor over an in-memory byte slice. Every primitive and
// combinator codec reads through it; a read-exact-n call past the end of
// the slice fails with errs.ErrUnexpectedEndOfInput (spec section 4.A).
type Input struct {
	buf    []byte
	pos    int
	engine endian.EndianEngine
}

// NewInput wraps buf in an Input cursor starting at offset 0.
// buf is not copied; the caller must not mutate it while the Input is in use.
func NewInput(buf []byte) *Input {
	return &Input{buf: buf, engine: endian.Engine}
}

// Remaining returns the number of unread bytes.
func (in *Input) Remaining() int { return len(in.buf) - in.pos }

// Pos returns the current read offset.
func (in *Input) Pos() int { return in.pos }

// Peek returns the next n bytes without advancing the cursor. Fails if
// fewer than n bytes remain.
func (in *Input) Peek(n int) ([]byte, error) {
	if in.Remaining() < n {
		return nil, errs.ErrUnexpectedEndOfInput
	}

	return in.buf[in.pos : in.pos+n], nil
}

// ReadExact reads and returns the next n bytes, advancing the cursor.
// The returned slice aliases the Input's backing array.
func (in *Input) ReadExact(n int) ([]byte, error) {
	b, err := in.Peek(n)
	if err != nil {
		return nil, err
	}
	in.pos += n

	return b, nil
}

// Skip advances the cursor by n bytes without returning them, used by the
// evolution engine to skip fields the reader's schema does not know about
// (spec section 4.E).
func (in *Input) Skip(n int) error {
	if in.Remaining() < n {
		return errs.ErrUnexpectedEndOfInput
	}
	in.pos += n

	return nil
}

// ReadByte reads a single byte. Satisfies io.ByteReader.
func (in *Input) ReadByte() (byte, error) {
	b, err := in.ReadExact(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// ReadBool reads the 1-byte boolean encoding (spec section 3).
func (in *Input) ReadBool() (bool, error) {
	b, err := in.ReadByte()
	if err != nil {
		return false, err
	}

	return b != 0, nil
}

// ReadUint8 reads a single unsigned byte.
func (in *Input) ReadUint8() (uint8, error) {
	return in.ReadByte()
}

// ReadUint16 reads a big-endian 16-bit unsigned integer.
func (in *Input) ReadUint16() (uint16, error) {
	b, err := in.ReadExact(2)
	if err != nil {
		return 0, err
	}

	return in.engine.Uint16(b), nil
}

// ReadUint32 reads a big-endian 32-bit unsigned integer.
func (in *Input) ReadUint32() (uint32, error) {
	b, err := in.ReadExact(4)
	if err != nil {
		return 0, err
	}

	return in.engine.Uint32(b), nil
}

// ReadUint64 reads a big-endian 64-bit unsigned integer.
func (in *Input) ReadUint64() (uint64, error) {
	b, err := in.ReadExact(8)
	if err != nil {
		return 0, err
	}

	return in.engine.Uint64(b), nil
}

// ReadUint128 reads a big-endian 128-bit unsigned integer as (hi, lo)
// 64-bit halves.
func (in *Input) ReadUint128() (hi, lo uint64, err error) {
	hi, err = in.ReadUint64()
	if err != nil {
		return 0, 0, err
	}
	lo, err = in.ReadUint64()
	if err != nil {
		return 0, 0, err
	}

	return hi, lo, nil
}

// NewInputFromReader adapts an io.Reader into the Input cursor API by reading the
// entire stream into memory up front (spec section 6.2's streaming input
// cursor variant; the core format is not designed for partial/seekable
// reads, spec section 1, so buffering fully is the correct trade-off).
func NewInputFromReader(r io.Reader) (*Input, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return NewInput(b), nil
}
