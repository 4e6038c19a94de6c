// Package prim implements component B: the on-wire encoding for every
// scalar primitive named in spec section 4.B. Each function is a thin,
// symmetric write/read pair over an *iobuf.Output / *iobuf.Input; nothing
// here allocates beyond what iobuf already pools.
package prim

import (
	"math"
	"math/bits"
	"strconv"

	"github.com/arloliu/wyre/errs"
	"github.com/arloliu/wyre/iobuf"
)

// WriteU8 writes an 8-bit unsigned integer.
func WriteU8(out *iobuf.Output, v uint8) { out.WriteUint8(v) }

// ReadU8 reads an 8-bit unsigned integer.
func ReadU8(in *iobuf.Input) (uint8, error) { return in.ReadUint8() }

// WriteI8 writes an 8-bit signed integer (two's complement on the wire).
func WriteI8(out *iobuf.Output, v int8) { out.WriteUint8(uint8(v)) }

// ReadI8 reads an 8-bit signed integer.
func ReadI8(in *iobuf.Input) (int8, error) {
	v, err := in.ReadUint8()

	return int8(v), err
}

// WriteU16 writes a big-endian 16-bit unsigned integer.
func WriteU16(out *iobuf.Output, v uint16) { out.WriteUint16(v) }

// ReadU16 reads a big-endian 16-bit unsigned integer.
func ReadU16(in *iobuf.Input) (uint16, error) { return in.ReadUint16() }

// WriteI16 writes a big-endian 16-bit signed integer.
func WriteI16(out *iobuf.Output, v int16) { out.WriteUint16(uint16(v)) }

// ReadI16 reads a big-endian 16-bit signed integer.
func ReadI16(in *iobuf.Input) (int16, error) {
	v, err := in.ReadUint16()

	return int16(v), err
}

// WriteU32 writes a big-endian 32-bit unsigned integer.
func WriteU32(out *iobuf.Output, v uint32) { out.WriteUint32(v) }

// ReadU32 reads a big-endian 32-bit unsigned integer.
func ReadU32(in *iobuf.Input) (uint32, error) { return in.ReadUint32() }

// WriteI32 writes a big-endian 32-bit signed integer.
func WriteI32(out *iobuf.Output, v int32) { out.WriteUint32(uint32(v)) }

// ReadI32 reads a big-endian 32-bit signed integer.
func ReadI32(in *iobuf.Input) (int32, error) {
	v, err := in.ReadUint32()

	return int32(v), err
}

// WriteU64 writes a big-endian 64-bit unsigned integer.
func WriteU64(out *iobuf.Output, v uint64) { out.WriteUint64(v) }

// ReadU64 reads a big-endian 64-bit unsigned integer.
func ReadU64(in *iobuf.Input) (uint64, error) { return in.ReadUint64() }

// WriteI64 writes a big-endian 64-bit signed integer.
func WriteI64(out *iobuf.Output, v int64) { out.WriteUint64(uint64(v)) }

// ReadI64 reads a big-endian 64-bit signed integer.
func ReadI64(in *iobuf.Input) (int64, error) {
	v, err := in.ReadUint64()

	return int64(v), err
}

// U128 is an unsigned 128-bit integer, carried as two 64-bit halves
// (spec section 4.B: u128/i128, 16 bytes, big-endian).
type U128 struct{ Hi, Lo uint64 }

// WriteU128 writes a 128-bit unsigned integer.
func WriteU128(out *iobuf.Output, v U128) { out.WriteUint128(v.Hi, v.Lo) }

// ReadU128 reads a 128-bit unsigned integer.
func ReadU128(in *iobuf.Input) (U128, error) {
	hi, lo, err := in.ReadUint128()

	return U128{Hi: hi, Lo: lo}, err
}

// I128 is a signed 128-bit integer in two's complement, carried as two
// 64-bit halves.
type I128 struct{ Hi int64; Lo uint64 }

// WriteI128 writes a 128-bit signed integer.
func WriteI128(out *iobuf.Output, v I128) { out.WriteUint128(uint64(v.Hi), v.Lo) }

// ReadI128 reads a 128-bit signed integer.
func ReadI128(in *iobuf.Input) (I128, error) {
	hi, lo, err := in.ReadUint128()

	return I128{Hi: int64(hi), Lo: lo}, err
}

// WriteF32 writes an IEEE-754 single-precision float.
func WriteF32(out *iobuf.Output, v float32) {
	out.WriteUint32(math.Float32bits(v))
}

// ReadF32 reads an IEEE-754 single-precision float.
func ReadF32(in *iobuf.Input) (float32, error) {
	bits32, err := in.ReadUint32()
	if err != nil {
		return 0, err
	}

	return math.Float32frombits(bits32), nil
}

// WriteF64 writes an IEEE-754 double-precision float.
func WriteF64(out *iobuf.Output, v float64) {
	out.WriteUint64(math.Float64bits(v))
}

// ReadF64 reads an IEEE-754 double-precision float.
func ReadF64(in *iobuf.Input) (float64, error) {
	bits64, err := in.ReadUint64()
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(bits64), nil
}

// WriteBool writes the 1-byte boolean encoding.
func WriteBool(out *iobuf.Output, v bool) { out.WriteBool(v) }

// ReadBool reads the 1-byte boolean encoding.
func ReadBool(in *iobuf.Input) (bool, error) { return in.ReadBool() }

// WriteInt widens a machine-word-sized signed integer to 64 bits on the
// wire (spec section 4.B: "machine-word-sized integers are widened to 64
// bits on the wire to keep the format architecture-independent").
func WriteInt(out *iobuf.Output, v int) { WriteI64(out, int64(v)) }

// ReadInt reads a 64-bit wire integer and narrows it to the host's native
// int width, failing with errs.ErrValueOutOfRange if it does not fit.
func ReadInt(in *iobuf.Input) (int, error) {
	v, err := ReadI64(in)
	if err != nil {
		return 0, err
	}
	if bits.UintSize == 32 && (v < math.MinInt32 || v > math.MaxInt32) {
		return 0, errs.ErrValueOutOfRange
	}

	return int(v), nil
}

// WriteUint widens a machine-word-sized unsigned integer to 64 bits on the wire.
func WriteUint(out *iobuf.Output, v uint) { WriteU64(out, uint64(v)) }

// ReadUint reads a 64-bit wire integer and narrows it to the host's
// native uint width, failing with errs.ErrValueOutOfRange if it does not fit.
func ReadUint(in *iobuf.Input) (uint, error) {
	v, err := ReadU64(in)
	if err != nil {
		return 0, err
	}
	if bits.UintSize == 32 && v > math.MaxUint32 {
		return 0, errs.ErrValueOutOfRange
	}

	return uint(v), nil
}

// NarrowToInt32 checks that a decoded 64-bit value fits an int32 target,
// for codecs that need to report ErrValueOutOfRange explicitly rather
// than relying on Go's implicit truncation.
func NarrowToInt32(v int64) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, errs.ErrValueOutOfRange
	}

	return int32(v), nil
}

// ParseIntSize reports the host's native int bit width, exposed for tests
// that need to assert ReadInt/ReadUint's narrowing behavior deterministically.
func ParseIntSize() int { return strconv.IntSize }
