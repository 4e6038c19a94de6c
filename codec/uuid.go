package codec

import (
	"github.com/google/uuid"

	"github.com/arloliu/wyre/errs"
	"github.com/arloliu/wyre/iobuf"
	"github.com/arloliu/wyre/session"
)

// uuidCodec is the Codec[uuid.UUID] implementation: the raw 16 bytes,
// no length prefix (spec section 4.D's UUID domain extension).
type uuidCodec struct{}

// UUIDCodec is the shared uuid.UUID codec, grounded on google/uuid —
// the one domain extension the retrieved example pack actually supplies
// a library for (see DESIGN.md).
var UUIDCodec Codec[uuid.UUID] = uuidCodec{}

func (uuidCodec) Write(_ *session.Context, out *iobuf.Output, v uuid.UUID) error {
	out.WriteBytes(v[:])

	return nil
}

func (uuidCodec) Read(_ *session.Context, in *iobuf.Input) (uuid.UUID, error) {
	b, err := in.ReadExact(16)
	if err != nil {
		return uuid.UUID{}, err
	}

	var v uuid.UUID
	if copy(v[:], b) != 16 {
		return uuid.UUID{}, errs.ErrUnexpectedEndOfInput
	}

	return v, nil
}
