package record

import (
	"github.com/arloliu/wyre/errs"
	"github.com/arloliu/wyre/iobuf"
	"github.com/arloliu/wyre/prim"
	"github.com/arloliu/wyre/session"
)

// Variant is one constructor of a SumType: a stable 32-bit tag (the
// identity that survives a variant rename, spec section 4.E), a current
// name, and the schema for its payload — a regular record, or a
// transparent record with zero or one field for a nullary/unary
// constructor.
type Variant struct {
	Tag    uint32
	Name   string
	Schema *Schema
}

// SumType is a tagged union: exactly one of its Variants is active at a
// time (spec section 4.E).
type SumType struct {
	Variants []Variant
}

func (s *SumType) byTag(tag uint32) (*Variant, bool) {
	for i := range s.Variants {
		if s.Variants[i].Tag == tag {
			return &s.Variants[i], true
		}
	}

	return nil, false
}

func (s *SumType) byName(name string) (*Variant, bool) {
	for i := range s.Variants {
		if s.Variants[i].Name == name {
			return &s.Variants[i], true
		}
	}

	return nil, false
}

// EncodeSum writes the active variant's tag, then its payload (spec
// section 4.E).
func EncodeSum(ctx *session.Context, out *iobuf.Output, sum *SumType, variantName string, values Values) error {
	v, ok := sum.byName(variantName)
	if !ok {
		return errs.ErrUnknownConstructor
	}

	prim.WriteU32(out, v.Tag)

	return EncodeRecord(ctx, out, v.Schema, values)
}

// DecodeSum reads a tag and dispatches to the matching variant's
// payload decoder. An unrecognized tag fails with
// errs.ErrUnknownConstructor (spec section 4.E: a producer adding a
// variant a consumer built before it shipped).
func DecodeSum(ctx *session.Context, in *iobuf.Input, sum *SumType) (string, Values, error) {
	tag, err := prim.ReadU32(in)
	if err != nil {
		return "", nil, err
	}

	v, ok := sum.byTag(tag)
	if !ok {
		return "", nil, errs.ErrUnknownConstructor
	}

	values, err := DecodeRecord(ctx, in, v.Schema)
	if err != nil {
		return "", nil, err
	}

	return v.Name, values, nil
}
