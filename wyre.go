// Package wyre provides a binary serialization format with first-class
// support for backward- and forward-compatible schema evolution.
//
// # Core features
//
//   - Fixed-width primitives, UTF-8 text, and a fixed set of
//     generic combinators (optional, sequence, map, fixed-size array,
//     tuple, either, range) that compose into arbitrary value shapes
//   - A record evolution engine that lets a reader built against an
//     older or newer schema than the writer still decode a value,
//     resolving added/removed/renamed/optional-made fields explicitly
//   - Sum types (tagged unions) with stable constructor tags independent
//     of constructor renames
//   - Opt-in string deduplication and identity-preserving (cycle-safe)
//     reference tracking
//   - A process-wide type registry for heterogeneous payloads
//
// # Basic usage
//
// Encoding a value with a hand-written element codec:
//
//	type point struct{ X, Y int32 }
//
//	pointCodec := codec.Func[point]{
//	    WriteFunc: func(ctx *session.Context, out *iobuf.Output, v point) error {
//	        prim.WriteI32(out, v.X)
//	        prim.WriteI32(out, v.Y)
//	        return nil
//	    },
//	    ReadFunc: func(ctx *session.Context, in *iobuf.Input) (point, error) {
//	        x, err := prim.ReadI32(in)
//	        if err != nil {
//	            return point{}, err
//	        }
//	        y, err := prim.ReadI32(in)
//	        return point{X: x, Y: y}, err
//	    },
//	}
//
//	data, err := wyre.Serialize(point{X: 1, Y: 2}, pointCodec)
//	got, err := wyre.Deserialize(data, pointCodec)
//
// Records with an evolving schema go through the record package
// directly (its EncodeRecord/DecodeRecord and EncodeSum/DecodeSum); this
// package's Serialize/Deserialize
// entry points are the ones that don't need schema evolution — scalars,
// combinators, and registered types.
//
// # Package structure
//
// This package is a thin top-level wrapper, in the spirit of the
// teacher's own top-level package: session carries the per-call state,
// codec holds the generic combinators and domain extensions, record
// holds the evolution engine, registry holds the process-wide type
// table. Advanced use should reach for those packages directly.
package wyre

import (
	"io"

	"github.com/arloliu/wyre/codec"
	"github.com/arloliu/wyre/iobuf"
	"github.com/arloliu/wyre/registry"
	"github.com/arloliu/wyre/session"
)

// Re-export the four session options so callers need only import wyre
// for the common case (spec section 6.3).
var (
	WithVersion              = session.WithVersion
	WithStringDedup          = session.WithStringDedup
	WithRefTracking          = session.WithRefTracking
	WithCompressHeadersAbove = session.WithCompressHeadersAbove
)

// Option configures a serialize or deserialize call.
type Option = session.Option

// Serialize encodes value with c into a freshly allocated byte slice
// (spec section 6.2's serialize(value, options) -> bytes entry point).
func Serialize[T any](value T, c codec.Codec[T], opts ...Option) ([]byte, error) {
	ctx, err := session.NewWriteContext(opts...)
	if err != nil {
		return nil, err
	}

	out := iobuf.GetOutput()
	defer iobuf.PutOutput(out)

	ctx.WriteHeader(out)
	if err := c.Write(ctx, out, value); err != nil {
		return nil, err
	}

	result := make([]byte, out.Len())
	copy(result, out.Bytes())

	return result, nil
}

// Deserialize decodes a value previously produced by Serialize.
func Deserialize[T any](data []byte, c codec.Codec[T], opts ...Option) (T, error) {
	var zero T

	in := iobuf.NewInput(data)
	ctx, err := session.NewReadContext(in, opts...)
	if err != nil {
		return zero, err
	}

	value, err := c.Read(ctx, in)
	if err != nil {
		return zero, err
	}

	if err := ctx.FinishRead(); err != nil {
		return zero, err
	}

	return value, nil
}

// Writer is the streaming counterpart of Serialize: it accumulates
// output in memory (spec section 1 notes the format is not designed for
// partial/seekable I/O) and flushes to an io.Writer on Close.
type Writer struct {
	ctx *session.Context
	out *iobuf.Output
	w   io.Writer
}

// NewWriter creates a Writer that will flush its accumulated bytes to w
// on Close.
func NewWriter(w io.Writer, opts ...Option) (*Writer, error) {
	ctx, err := session.NewWriteContext(opts...)
	if err != nil {
		return nil, err
	}

	out := iobuf.NewOutput(iobuf.DefaultBufferSize)
	ctx.WriteHeader(out)

	return &Writer{ctx: ctx, out: out, w: w}, nil
}

// Close flushes the accumulated bytes to the underlying io.Writer.
func (wtr *Writer) Close() error {
	_, err := wtr.out.WriteTo(wtr.w)

	return err
}

// EncodeTo writes v to wtr using c.
func EncodeTo[T any](wtr *Writer, v T, c codec.Codec[T]) error {
	return c.Write(wtr.ctx, wtr.out, v)
}

// Reader is the streaming counterpart of Deserialize: it buffers r
// fully up front (spec section 6.2), then exposes the same read cursor
// every codec uses.
type Reader struct {
	ctx *session.Context
	in  *iobuf.Input
}

// NewReader creates a Reader over r, parsing the stream header
// immediately.
func NewReader(r io.Reader, opts ...Option) (*Reader, error) {
	in, err := iobuf.NewInputFromReader(r)
	if err != nil {
		return nil, err
	}

	ctx, err := session.NewReadContext(in, opts...)
	if err != nil {
		return nil, err
	}

	return &Reader{ctx: ctx, in: in}, nil
}

// DecodeFrom reads a value from rdr using c.
func DecodeFrom[T any](rdr *Reader, c codec.Codec[T]) (T, error) {
	return c.Read(rdr.ctx, rdr.in)
}

// Finish must be called once the root value has been fully decoded from
// rdr; it fails with errs.ErrUnresolvedReference if any reference was
// left unresolved (spec section 4.F).
func (rdr *Reader) Finish() error {
	return rdr.ctx.FinishRead()
}

// Register associates identifier with codec in the process-wide default
// registry (spec section 4.G).
func Register(identifier string, c registry.Codec[*session.Context]) error {
	return session.DefaultRegistry.Register(identifier, c)
}

// Lookup returns the codec registered for identifier.
func Lookup(identifier string) (registry.Codec[*session.Context], bool) {
	return session.DefaultRegistry.Lookup(identifier)
}

// SerializeValue encodes value polymorphically (spec section 4.G): the
// type identifier's dedup-eligible text, followed by whatever codec was
// registered for it. Use this instead of Serialize when the concrete
// type behind an interface or any value isn't known until identifier is
// looked up — a codec author's own registration-driven entry point,
// rather than one that names a single static T.
func SerializeValue(identifier string, value any, opts ...Option) ([]byte, error) {
	ctx, err := session.NewWriteContext(opts...)
	if err != nil {
		return nil, err
	}

	out := iobuf.GetOutput()
	defer iobuf.PutOutput(out)

	ctx.WriteHeader(out)
	if err := ctx.Registry.WriteValue(ctx, out, ctx.IdentifierDedup(), identifier, value); err != nil {
		return nil, err
	}

	result := make([]byte, out.Len())
	copy(result, out.Bytes())

	return result, nil
}

// DeserializeValue decodes a value previously produced by SerializeValue,
// returning both the type identifier it was registered under and the
// decoded value.
func DeserializeValue(data []byte, opts ...Option) (identifier string, value any, err error) {
	in := iobuf.NewInput(data)
	ctx, err := session.NewReadContext(in, opts...)
	if err != nil {
		return "", nil, err
	}

	identifier, value, err = ctx.Registry.ReadValue(ctx, in, ctx.IdentifierDedup())
	if err != nil {
		return identifier, nil, err
	}

	if err := ctx.FinishRead(); err != nil {
		return identifier, nil, err
	}

	return identifier, value, nil
}
