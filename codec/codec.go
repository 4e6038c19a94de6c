// Package codec implements component D: the generic, type-parameterized
// combinators every composite value is built from (spec section 4.D).
// Each combinator is itself a Codec[T], so they nest arbitrarily —
// Sequence[Optional[Either[int32, string]]] is an ordinary Go type.
//
// Combinators take a *session.Context on every call even though most of
// them never touch it directly, because the element codec they wrap
// might (a reference-tracked record nested inside a Sequence still needs
// the call's tracker).
package codec

import (
	"github.com/arloliu/wyre/errs"
	"github.com/arloliu/wyre/iobuf"
	"github.com/arloliu/wyre/prim"
	"github.com/arloliu/wyre/session"
)

// Codec is the typed write/read pair every combinator and leaf value
// codec implements.
type Codec[T any] interface {
	Write(ctx *session.Context, out *iobuf.Output, v T) error
	Read(ctx *session.Context, in *iobuf.Input) (T, error)
}

// Func adapts a pair of plain functions into a Codec, the way the
// teacher adapts a func into an http.HandlerFunc — for leaf codecs that
// have no state of their own.
type Func[T any] struct {
	WriteFunc func(ctx *session.Context, out *iobuf.Output, v T) error
	ReadFunc  func(ctx *session.Context, in *iobuf.Input) (T, error)
}

func (f Func[T]) Write(ctx *session.Context, out *iobuf.Output, v T) error {
	return f.WriteFunc(ctx, out, v)
}

func (f Func[T]) Read(ctx *session.Context, in *iobuf.Input) (T, error) {
	return f.ReadFunc(ctx, in)
}

// optionalCodec implements Optional[T]: a 1-byte presence tag, then T
// when present (spec section 4.D).
type optionalCodec[T any] struct {
	elem Codec[T]
}

// Optional wraps elem as an Optional[T] combinator.
func Optional[T any](elem Codec[T]) Codec[*T] {
	return optionalCodec[T]{elem: elem}
}

func (c optionalCodec[T]) Write(ctx *session.Context, out *iobuf.Output, v *T) error {
	if v == nil {
		out.WriteBool(false)

		return nil
	}
	out.WriteBool(true)

	return c.elem.Write(ctx, out, *v)
}

func (c optionalCodec[T]) Read(ctx *session.Context, in *iobuf.Input) (*T, error) {
	present, err := in.ReadBool()
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}

	v, err := c.elem.Read(ctx, in)
	if err != nil {
		return nil, err
	}

	return &v, nil
}

// sequenceCodec implements Sequence[T]: a u32 count, then count encoded
// elements in order (spec section 4.D).
type sequenceCodec[T any] struct {
	elem Codec[T]
}

// Sequence wraps elem as a Sequence[T] combinator.
func Sequence[T any](elem Codec[T]) Codec[[]T] {
	return sequenceCodec[T]{elem: elem}
}

func (c sequenceCodec[T]) Write(ctx *session.Context, out *iobuf.Output, v []T) error {
	prim.WriteU32(out, uint32(len(v))) //nolint:gosec
	for _, item := range v {
		if err := c.elem.Write(ctx, out, item); err != nil {
			return err
		}
	}

	return nil
}

func (c sequenceCodec[T]) Read(ctx *session.Context, in *iobuf.Input) ([]T, error) {
	n, err := prim.ReadU32(in)
	if err != nil {
		return nil, err
	}

	result := make([]T, 0, n)
	for range n {
		item, err := c.elem.Read(ctx, in)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}

	return result, nil
}

// Set wraps elem as a Set[T] combinator: identical wire image to
// Sequence, written in the order of the given slice (spec section 4.D).
// Read returns every decoded element, duplicates included; it does not
// collapse duplicates, so keeping the last occurrence is up to the caller
// when building the set from the returned slice.
func Set[T any](elem Codec[T]) Codec[[]T] {
	return sequenceCodec[T]{elem: elem}
}

type mappingCodec[K comparable, V any] struct {
	keyCodec   Codec[K]
	valueCodec Codec[V]
}

// Mapping wraps keyCodec/valueCodec as a Mapping[K,V] combinator: a u32
// count of (K, V) pairs (spec section 4.D).
func Mapping[K comparable, V any](keyCodec Codec[K], valueCodec Codec[V]) Codec[map[K]V] {
	return mappingCodec[K, V]{keyCodec: keyCodec, valueCodec: valueCodec}
}

func (c mappingCodec[K, V]) Write(ctx *session.Context, out *iobuf.Output, v map[K]V) error {
	prim.WriteU32(out, uint32(len(v))) //nolint:gosec
	for k, val := range v {
		if err := c.keyCodec.Write(ctx, out, k); err != nil {
			return err
		}
		if err := c.valueCodec.Write(ctx, out, val); err != nil {
			return err
		}
	}

	return nil
}

func (c mappingCodec[K, V]) Read(ctx *session.Context, in *iobuf.Input) (map[K]V, error) {
	n, err := prim.ReadU32(in)
	if err != nil {
		return nil, err
	}

	result := make(map[K]V, n)
	for range n {
		k, err := c.keyCodec.Read(ctx, in)
		if err != nil {
			return nil, err
		}
		v, err := c.valueCodec.Read(ctx, in)
		if err != nil {
			return nil, err
		}
		result[k] = v
	}

	return result, nil
}

type arrayCodec[T any] struct {
	n    int
	elem Codec[T]
}

// Array wraps elem as a fixed-length array[T, N] combinator: exactly n
// elements, no count prefix (spec section 4.D). Write fails with
// errs.ErrArrayLengthMismatch when len(v) != n, since a caller-supplied
// slice of the wrong length would otherwise silently produce a malformed
// stream. Read always decodes exactly n elements; with no count on the
// wire there is no decoded length to check, so a short input fails with
// the element codec's own error (errs.ErrUnexpectedEndOfInput for the
// fixed-width primitives).
func Array[T any](n int, elem Codec[T]) Codec[[]T] {
	return arrayCodec[T]{n: n, elem: elem}
}

func (c arrayCodec[T]) Write(ctx *session.Context, out *iobuf.Output, v []T) error {
	if len(v) != c.n {
		return errs.ErrArrayLengthMismatch
	}
	for _, item := range v {
		if err := c.elem.Write(ctx, out, item); err != nil {
			return err
		}
	}

	return nil
}

func (c arrayCodec[T]) Read(ctx *session.Context, in *iobuf.Input) ([]T, error) {
	result := make([]T, c.n)
	for i := range c.n {
		item, err := c.elem.Read(ctx, in)
		if err != nil {
			return nil, err
		}
		result[i] = item
	}

	return result, nil
}

// Either holds exactly one of Left or Right, tagged by IsRight (spec
// section 4.D: 1-byte tag, 0 = left, 1 = right).
type Either[L, R any] struct {
	IsRight bool
	Left    L
	Right   R
}

type eitherCodec[L, R any] struct {
	left  Codec[L]
	right Codec[R]
}

// EitherOf wraps left/right as an Either[L,R] combinator.
func EitherOf[L, R any](left Codec[L], right Codec[R]) Codec[Either[L, R]] {
	return eitherCodec[L, R]{left: left, right: right}
}

func (c eitherCodec[L, R]) Write(ctx *session.Context, out *iobuf.Output, v Either[L, R]) error {
	out.WriteBool(v.IsRight)
	if v.IsRight {
		return c.right.Write(ctx, out, v.Right)
	}

	return c.left.Write(ctx, out, v.Left)
}

func (c eitherCodec[L, R]) Read(ctx *session.Context, in *iobuf.Input) (Either[L, R], error) {
	isRight, err := in.ReadBool()
	if err != nil {
		return Either[L, R]{}, err
	}

	var result Either[L, R]
	result.IsRight = isRight
	if isRight {
		result.Right, err = c.right.Read(ctx, in)
	} else {
		result.Left, err = c.left.Read(ctx, in)
	}

	return result, err
}

// Bound is one endpoint of a Range[T]: the boundary value and whether
// that boundary is inclusive (spec section 4.D).
type Bound[T any] struct {
	Value     T
	Inclusive bool
}

// Range is a (start, end) pair each tagged inclusive/exclusive (spec
// section 4.D).
type Range[T any] struct {
	Start Bound[T]
	End   Bound[T]
}

type rangeCodec[T any] struct {
	elem Codec[T]
}

// RangeOf wraps elem as a Range[T] combinator.
func RangeOf[T any](elem Codec[T]) Codec[Range[T]] {
	return rangeCodec[T]{elem: elem}
}

func (c rangeCodec[T]) Write(ctx *session.Context, out *iobuf.Output, v Range[T]) error {
	if err := c.writeBound(ctx, out, v.Start); err != nil {
		return err
	}

	return c.writeBound(ctx, out, v.End)
}

func (c rangeCodec[T]) writeBound(ctx *session.Context, out *iobuf.Output, b Bound[T]) error {
	out.WriteBool(b.Inclusive)

	return c.elem.Write(ctx, out, b.Value)
}

func (c rangeCodec[T]) Read(ctx *session.Context, in *iobuf.Input) (Range[T], error) {
	start, err := c.readBound(ctx, in)
	if err != nil {
		return Range[T]{}, err
	}
	end, err := c.readBound(ctx, in)
	if err != nil {
		return Range[T]{}, err
	}

	return Range[T]{Start: start, End: end}, nil
}

func (c rangeCodec[T]) readBound(ctx *session.Context, in *iobuf.Input) (Bound[T], error) {
	inclusive, err := in.ReadBool()
	if err != nil {
		return Bound[T]{}, err
	}
	value, err := c.elem.Read(ctx, in)
	if err != nil {
		return Bound[T]{}, err
	}

	return Bound[T]{Value: value, Inclusive: inclusive}, nil
}

// Transparent returns a codec with the identical wire image as inner —
// the newtype/transparent-wrapper combinator contributes zero bytes of
// its own (spec section 4.D). Its only purpose is documenting, at the
// call site, that a distinct Go type is being given the same wire shape
// as the type it wraps.
func Transparent[T any](inner Codec[T]) Codec[T] {
	return inner
}
