package codec

import (
	"github.com/arloliu/wyre/iobuf"
	"github.com/arloliu/wyre/session"
)

// Tuple2 is a fixed arity-2 tuple (spec section 4.D: elements
// concatenated, no count, static arity). Go has no variadic generics, so
// higher arities get their own named type, the way the teacher names
// TimestampPayloadOffset/ValuePayloadOffset pairs explicitly rather than
// reaching for a generic N-tuple.
type Tuple2[A, B any] struct {
	First  A
	Second B
}

type tuple2Codec[A, B any] struct {
	first  Codec[A]
	second Codec[B]
}

// Tuple2Of wraps first/second as a Tuple2[A,B] combinator.
func Tuple2Of[A, B any](first Codec[A], second Codec[B]) Codec[Tuple2[A, B]] {
	return tuple2Codec[A, B]{first: first, second: second}
}

func (c tuple2Codec[A, B]) Write(ctx *session.Context, out *iobuf.Output, v Tuple2[A, B]) error {
	if err := c.first.Write(ctx, out, v.First); err != nil {
		return err
	}

	return c.second.Write(ctx, out, v.Second)
}

func (c tuple2Codec[A, B]) Read(ctx *session.Context, in *iobuf.Input) (Tuple2[A, B], error) {
	first, err := c.first.Read(ctx, in)
	if err != nil {
		return Tuple2[A, B]{}, err
	}
	second, err := c.second.Read(ctx, in)
	if err != nil {
		return Tuple2[A, B]{}, err
	}

	return Tuple2[A, B]{First: first, Second: second}, nil
}

// Tuple3 is a fixed arity-3 tuple.
type Tuple3[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

type tuple3Codec[A, B, C any] struct {
	first  Codec[A]
	second Codec[B]
	third  Codec[C]
}

// Tuple3Of wraps first/second/third as a Tuple3[A,B,C] combinator.
func Tuple3Of[A, B, C any](first Codec[A], second Codec[B], third Codec[C]) Codec[Tuple3[A, B, C]] {
	return tuple3Codec[A, B, C]{first: first, second: second, third: third}
}

func (c tuple3Codec[A, B, C]) Write(ctx *session.Context, out *iobuf.Output, v Tuple3[A, B, C]) error {
	if err := c.first.Write(ctx, out, v.First); err != nil {
		return err
	}
	if err := c.second.Write(ctx, out, v.Second); err != nil {
		return err
	}

	return c.third.Write(ctx, out, v.Third)
}

func (c tuple3Codec[A, B, C]) Read(ctx *session.Context, in *iobuf.Input) (Tuple3[A, B, C], error) {
	first, err := c.first.Read(ctx, in)
	if err != nil {
		return Tuple3[A, B, C]{}, err
	}
	second, err := c.second.Read(ctx, in)
	if err != nil {
		return Tuple3[A, B, C]{}, err
	}
	third, err := c.third.Read(ctx, in)
	if err != nil {
		return Tuple3[A, B, C]{}, err
	}

	return Tuple3[A, B, C]{First: first, Second: second, Third: third}, nil
}
