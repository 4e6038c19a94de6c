package codec

import (
	"github.com/arloliu/wyre/iobuf"
	"github.com/arloliu/wyre/prim"
	"github.com/arloliu/wyre/session"
)

// BitVector is a packed sequence of bits, most-significant-bit first
// within each byte (spec section 4.D's bit vector domain extension: bit
// length prefix + packed bytes).
type BitVector struct {
	bits   []bool
	length int
}

// NewBitVector builds a BitVector from individual bit values.
func NewBitVector(bits []bool) BitVector {
	cp := make([]bool, len(bits))
	copy(cp, bits)

	return BitVector{bits: cp, length: len(cp)}
}

// Len returns the number of bits.
func (v BitVector) Len() int { return v.length }

// Bit returns the bit at index i.
func (v BitVector) Bit(i int) bool { return v.bits[i] }

func (v BitVector) pack() []byte {
	packed := make([]byte, (v.length+7)/8)
	for i, bit := range v.bits {
		if bit {
			packed[i/8] |= 1 << (7 - uint(i%8))
		}
	}

	return packed
}

func unpack(packed []byte, length int) BitVector {
	bits := make([]bool, length)
	for i := range bits {
		bits[i] = packed[i/8]&(1<<(7-uint(i%8))) != 0
	}

	return BitVector{bits: bits, length: length}
}

// bitVectorCodec is the Codec[BitVector] implementation: u32 bit length,
// then ceil(length/8) packed bytes.
type bitVectorCodec struct{}

// BitVectorCodec is the shared BitVector codec.
var BitVectorCodec Codec[BitVector] = bitVectorCodec{}

func (bitVectorCodec) Write(_ *session.Context, out *iobuf.Output, v BitVector) error {
	prim.WriteU32(out, uint32(v.length)) //nolint:gosec
	out.WriteBytes(v.pack())

	return nil
}

func (bitVectorCodec) Read(_ *session.Context, in *iobuf.Input) (BitVector, error) {
	length, err := prim.ReadU32(in)
	if err != nil {
		return BitVector{}, err
	}
	packed, err := in.ReadExact((int(length) + 7) / 8)
	if err != nil {
		return BitVector{}, err
	}

	return unpack(packed, int(length)), nil
}
