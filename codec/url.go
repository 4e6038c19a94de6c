package codec

import (
	"net/url"

	"github.com/arloliu/wyre/iobuf"
	"github.com/arloliu/wyre/prim"
	"github.com/arloliu/wyre/session"
)

// urlCodec is the Codec[*url.URL] implementation: the URL's normalized
// string form, as dedup-eligible text (spec section 4.D's URL domain
// extension — "encoded as text"). No ecosystem library for a generic
// URL wire type appears anywhere in the retrieved pack, so this is built
// directly on net/url (see DESIGN.md's stdlib justification).
type urlCodec struct{}

// URLCodec is the shared *url.URL codec.
var URLCodec Codec[*url.URL] = urlCodec{}

func (urlCodec) Write(ctx *session.Context, out *iobuf.Output, v *url.URL) error {
	s := ""
	if v != nil {
		s = v.String()
	}

	return prim.WriteText(out, s, ctx.Dedup())
}

func (urlCodec) Read(ctx *session.Context, in *iobuf.Input) (*url.URL, error) {
	s, err := prim.ReadText(in, ctx.Dedup())
	if err != nil {
		return nil, err
	}

	return url.Parse(s)
}
