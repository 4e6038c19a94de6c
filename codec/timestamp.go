package codec

import (
	"time"

	"github.com/arloliu/wyre/iobuf"
	"github.com/arloliu/wyre/prim"
	"github.com/arloliu/wyre/session"
)

// Timestamp is a fixed-width instant: seconds and nanoseconds since the
// Unix epoch, plus the originating timezone's IANA name (spec section
// 4.D's timestamp domain extension). The timezone is carried so a
// roundtrip preserves the zone a value was constructed with, not just
// its instant.
type Timestamp struct {
	Seconds     int64
	Nanoseconds int32
	Zone        string
}

// TimestampFromTime converts a time.Time into the wire Timestamp shape.
func TimestampFromTime(t time.Time) Timestamp {
	name := t.Location().String()

	return Timestamp{
		Seconds:     t.Unix(),
		Nanoseconds: int32(t.Nanosecond()), //nolint:gosec
		Zone:        name,
	}
}

// Time reconstructs a time.Time from ts, loading its zone by name and
// falling back to UTC if the zone is unknown on this host.
func (ts Timestamp) Time() time.Time {
	loc, err := time.LoadLocation(ts.Zone)
	if err != nil {
		loc = time.UTC
	}

	return time.Unix(ts.Seconds, int64(ts.Nanoseconds)).In(loc)
}

// timestampCodec is the Codec[Timestamp] implementation: seconds (i64),
// nanoseconds (i32), then the zone name as dedup-eligible text.
type timestampCodec struct{}

// TimestampCodec is the shared Timestamp codec.
var TimestampCodec Codec[Timestamp] = timestampCodec{}

func (timestampCodec) Write(ctx *session.Context, out *iobuf.Output, v Timestamp) error {
	prim.WriteI64(out, v.Seconds)
	prim.WriteI32(out, v.Nanoseconds)

	return prim.WriteText(out, v.Zone, ctx.Dedup())
}

func (timestampCodec) Read(ctx *session.Context, in *iobuf.Input) (Timestamp, error) {
	seconds, err := prim.ReadI64(in)
	if err != nil {
		return Timestamp{}, err
	}
	nanos, err := prim.ReadI32(in)
	if err != nil {
		return Timestamp{}, err
	}
	zone, err := prim.ReadText(in, ctx.Dedup())
	if err != nil {
		return Timestamp{}, err
	}

	return Timestamp{Seconds: seconds, Nanoseconds: nanos, Zone: zone}, nil
}
