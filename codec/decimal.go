package codec

import (
	"math/big"

	"github.com/arloliu/wyre/iobuf"
	"github.com/arloliu/wyre/prim"
	"github.com/arloliu/wyre/session"
)

// Decimal is an arbitrary-precision decimal: sign, scale, and a
// big-endian unscaled integer magnitude (spec section 4.D's big decimal
// domain extension). The represented value is
// (-1)^sign * unscaled * 10^-scale.
type Decimal struct {
	Negative bool
	Scale    int32
	Unscaled *big.Int
}

// DecimalFromBigRat-style helpers are deliberately not provided: callers
// construct a Decimal directly from a big.Int magnitude and a scale,
// mirroring how the wire format itself has no notion of a rational type.

// decimalCodec is the Codec[Decimal] implementation: 1-byte sign, i32
// scale, then the unscaled magnitude as a length-prefixed big-endian byte
// string (spec section 3's byte string category — no UTF-8 validation).
type decimalCodec struct{}

// DecimalCodec is the shared Decimal codec.
var DecimalCodec Codec[Decimal] = decimalCodec{}

func (decimalCodec) Write(_ *session.Context, out *iobuf.Output, v Decimal) error {
	out.WriteBool(v.Negative)
	prim.WriteI32(out, v.Scale)

	unscaled := v.Unscaled
	if unscaled == nil {
		unscaled = new(big.Int)
	}

	return prim.WriteBytes(out, unscaled.Bytes())
}

func (decimalCodec) Read(_ *session.Context, in *iobuf.Input) (Decimal, error) {
	negative, err := in.ReadBool()
	if err != nil {
		return Decimal{}, err
	}
	scale, err := prim.ReadI32(in)
	if err != nil {
		return Decimal{}, err
	}
	magnitude, err := prim.ReadBytes(in)
	if err != nil {
		return Decimal{}, err
	}

	unscaled := new(big.Int).SetBytes(magnitude)

	return Decimal{Negative: negative, Scale: scale, Unscaled: unscaled}, nil
}
