package codec

import (
	"github.com/arloliu/wyre/iobuf"
	"github.com/arloliu/wyre/prim"
	"github.com/arloliu/wyre/session"
)

type charCodec struct{}

func (charCodec) Write(_ *session.Context, out *iobuf.Output, v rune) error {
	return prim.WriteChar(out, v)
}

func (charCodec) Read(_ *session.Context, in *iobuf.Input) (rune, error) {
	return prim.ReadChar(in)
}

// CharCodec is the Codec for the single-character scalar (spec section
// 4.B): a 1-byte width tag followed by a 16- or 32-bit code unit.
var CharCodec Codec[rune] = charCodec{}
