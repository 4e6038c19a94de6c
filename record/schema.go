// Package record implements component E: the evolution engine. A record
// schema declares its own evolution ladder (spec section 4.E) and its
// current field set; EncodeRecord/DecodeRecord read and write the
// resulting chunked wire image, resolving the writer's schema against
// the reader's independently of which side evolved further.
package record

import (
	"github.com/arloliu/wyre/codec"
	"github.com/arloliu/wyre/format"
	"github.com/arloliu/wyre/iobuf"
	"github.com/arloliu/wyre/session"
)

// FieldCodec is the untyped write/read pair a record field uses — a
// record's fields are heterogeneously typed, so they cannot share a
// single type-parameterized codec.Codec[T] the way a Sequence's elements
// can; Typed adapts a codec.Codec[T] into one.
type FieldCodec interface {
	Write(ctx *session.Context, out *iobuf.Output, v any) error
	Read(ctx *session.Context, in *iobuf.Input) (any, error)
}

type typedFieldCodec[T any] struct {
	inner codec.Codec[T]
}

// Typed adapts inner into a FieldCodec for use in a FieldSpec.
func Typed[T any](inner codec.Codec[T]) FieldCodec {
	return typedFieldCodec[T]{inner: inner}
}

func (c typedFieldCodec[T]) Write(ctx *session.Context, out *iobuf.Output, v any) error {
	return c.inner.Write(ctx, out, v.(T)) //nolint:forcetypeassert
}

func (c typedFieldCodec[T]) Read(ctx *session.Context, in *iobuf.Input) (any, error) {
	return c.inner.Read(ctx, in)
}

// Step is one entry of a schema's declared evolution ladder (spec
// section 4.E). Only the fields relevant to Kind are populated.
type Step struct {
	Kind       format.EvolutionStepKind
	FieldCount uint32 // StepInitialVersion
	Name       string // StepFieldAdded / StepFieldMadeOptional / StepFieldRemoved
	OldName    string // StepFieldRenamed
	NewName    string // StepFieldRenamed
	Version    uint32 // StepFieldAdded
}

// InitialVersion declares the initial chunk's field count.
func InitialVersion(fieldCount uint32) Step {
	return Step{Kind: format.StepInitialVersion, FieldCount: fieldCount}
}

// FieldAdded declares a field introduced at version.
func FieldAdded(name string, version uint32) Step {
	return Step{Kind: format.StepFieldAdded, Name: name, Version: version}
}

// FieldMadeOptional declares an existing field made optional.
func FieldMadeOptional(name string) Step {
	return Step{Kind: format.StepFieldMadeOptional, Name: name}
}

// FieldRemoved declares an existing field removed (leaves a tombstone
// chunk on the wire).
func FieldRemoved(name string) Step {
	return Step{Kind: format.StepFieldRemoved, Name: name}
}

// FieldRenamed declares a field rename.
func FieldRenamed(oldName, newName string) Step {
	return Step{Kind: format.StepFieldRenamed, OldName: oldName, NewName: newName}
}

// FieldSpec is one field of a Schema's current shape.
type FieldSpec struct {
	// Name is this schema's current name for the field (post any renames
	// this schema itself declares).
	Name string
	// Codec encodes/decodes the field's value.
	Codec FieldCodec
	// Chunk is the step index (0 = initial version) this field's bytes
	// live in; exactly one field may claim a given chunk index > 0, since
	// each FieldAdded step introduces exactly one field (spec section
	// 4.E). Multiple fields may share chunk 0 (the initial version).
	Chunk int
	// Optional means an absent writer encoding synthesizes nil rather
	// than failing.
	Optional bool
	// Transient fields are never written; on read they are always
	// populated from Default.
	Transient bool
	// Removed marks a field whose data no caller should see anymore,
	// following a FieldRemoved step. The value it decodes to is always
	// discarded rather than placed in Values. For a Chunk 0 field this
	// FieldSpec must still be declared — by every schema version from
	// here on — because chunk 0 has no per-field length prefix: a
	// position can only be skipped by actually decoding it with its
	// original Codec, not by knowing its byte length up front. A Removed
	// chunk 0 field must also supply Default, since EncodeRecord still
	// writes a value for it to hold that position open (spec section
	// 4.E). Chunk >0 fields have no such constraint — each lives in its
	// own length-framed chunk, so a schema can simply stop declaring a
	// removed one.
	Removed bool
	// Default supplies the value used when the writer lacks this field
	// and Optional is false, or when the field is Transient or Removed. A
	// nil Default combined with Optional=false, Transient=false, and
	// Removed=false means a missing writer encoding fails with
	// errs.ErrMissingField.
	Default func() any
}

// Schema describes one record type: the evolution ladder its writer
// declares, and the field set currently known to whichever side (writer
// or reader) holds this Schema value.
type Schema struct {
	// Steps is this schema's own evolution history, in order.
	Steps []Step
	// Fields is this schema's current field list.
	Fields []FieldSpec
	// Transparent marks a record with exactly one non-transient field as
	// a transparent wrapper: the header and chunk map are skipped
	// entirely, and the wire image is just the inner field's bytes (spec
	// section 4.E's byte-for-byte compatibility escape hatch).
	Transparent bool
}

// soleField returns the one non-transient field of a transparent
// Schema, or nil if it has none (a zero-field transparent payload, used
// by nullary sum type constructors).
func (s *Schema) soleField() *FieldSpec {
	for i := range s.Fields {
		if !s.Fields[i].Transient {
			return &s.Fields[i]
		}
	}

	return nil
}
