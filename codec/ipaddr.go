package codec

import (
	"net/netip"

	"github.com/arloliu/wyre/errs"
	"github.com/arloliu/wyre/iobuf"
	"github.com/arloliu/wyre/session"
)

const (
	ipTagV4 uint8 = 0x4
	ipTagV6 uint8 = 0x6
)

// ipAddrCodec is the Codec[netip.Addr] implementation: a 1-byte v4/v6
// tag, then 4 or 16 raw bytes (spec section 4.D's IP address domain
// extension). Built on net/netip directly — no ecosystem IP-address
// wire-codec library appears anywhere in the retrieved pack (see
// DESIGN.md).
type ipAddrCodec struct{}

// IPAddrCodec is the shared netip.Addr codec.
var IPAddrCodec Codec[netip.Addr] = ipAddrCodec{}

func (ipAddrCodec) Write(_ *session.Context, out *iobuf.Output, v netip.Addr) error {
	switch {
	case v.Is4():
		out.WriteUint8(ipTagV4)
		b := v.As4()
		out.WriteBytes(b[:])
	case v.Is6():
		out.WriteUint8(ipTagV6)
		b := v.As16()
		out.WriteBytes(b[:])
	default:
		return errs.ErrValueOutOfRange
	}

	return nil
}

func (ipAddrCodec) Read(_ *session.Context, in *iobuf.Input) (netip.Addr, error) {
	tag, err := in.ReadUint8()
	if err != nil {
		return netip.Addr{}, err
	}

	switch tag {
	case ipTagV4:
		b, err := in.ReadExact(4)
		if err != nil {
			return netip.Addr{}, err
		}

		return netip.AddrFrom4([4]byte(b)), nil
	case ipTagV6:
		b, err := in.ReadExact(16)
		if err != nil {
			return netip.Addr{}, err
		}

		return netip.AddrFrom16([16]byte(b)), nil
	default:
		return netip.Addr{}, errs.ErrMalformedHeader
	}
}
