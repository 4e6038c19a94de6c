package record

import (
	"github.com/arloliu/wyre/compress"
	"github.com/arloliu/wyre/errs"
	"github.com/arloliu/wyre/format"
	"github.com/arloliu/wyre/iobuf"
	"github.com/arloliu/wyre/prim"
	"github.com/arloliu/wyre/session"
)

// Values is the decoded/encoded shape of a record: field name to value,
// the way a schema-driven codec without generated struct bindings
// represents a heterogeneous record (see record_test.go for worked schemas).
type Values map[string]any

// EncodeRecord writes values as schema's wire image: the evolution
// header, then the chunk map (spec section 4.E). schema is the
// *writer's* schema — it declares the evolution ladder and field set
// this particular call encodes.
func EncodeRecord(ctx *session.Context, out *iobuf.Output, schema *Schema, values Values) error {
	if schema.Transparent {
		return encodeTransparent(ctx, out, schema, values)
	}

	if err := writeEvolutionHeader(ctx, out, schema.Steps); err != nil {
		return err
	}

	chunkCount := len(schema.Steps)
	prim.WriteU32(out, uint32(chunkCount)) //nolint:gosec

	lengthOffsets := make([]int, chunkCount)
	for i := range chunkCount {
		lengthOffsets[i] = out.Reserve(4)
	}

	for i := range chunkCount {
		start := out.Offset()
		for fi := range schema.Fields {
			f := &schema.Fields[fi]
			if f.Transient || f.Chunk != i {
				continue
			}

			v, ok := values[f.Name]
			if !ok {
				if f.Default == nil {
					// Chunk 0 has no per-field length prefix: skipping a
					// value here would shift every later chunk-0 field's
					// position, so a missing value with no default is
					// only tolerable in a self-framed chunk >0.
					if i == 0 {
						return errs.WrapField(f.Name, errs.ErrMissingField)
					}

					continue
				}
				v = f.Default()
			}

			if err := f.Codec.Write(ctx, out, v); err != nil {
				return errs.WrapField(f.Name, err)
			}
		}
		length := out.Offset() - start
		out.BackpatchUint32(lengthOffsets[i], uint32(length)) //nolint:gosec
	}

	return nil
}

func encodeTransparent(ctx *session.Context, out *iobuf.Output, schema *Schema, values Values) error {
	field := schema.soleField()
	if field == nil {
		return nil
	}

	v, ok := values[field.Name]
	if !ok && field.Default != nil {
		v = field.Default()
	}

	if err := field.Codec.Write(ctx, out, v); err != nil {
		return errs.WrapField(field.Name, err)
	}

	return nil
}

func writeEvolutionHeader(ctx *session.Context, out *iobuf.Output, steps []Step) error {
	raw, err := encodeSteps(steps)
	if err != nil {
		return err
	}

	algorithm := compress.None
	final := raw
	if threshold := ctx.CompressHeadersAbove(); threshold > 0 && len(raw) >= threshold {
		gzCodec, err := compress.GetCodec(compress.Gzip)
		if err == nil {
			gz, err := gzCodec.Compress(raw)
			if err == nil && len(gz) < len(raw) {
				final = gz
				algorithm = compress.Gzip
			}
		}
	}

	out.WriteBool(algorithm == compress.Gzip)
	prim.WriteU32(out, uint32(len(final))) //nolint:gosec
	out.WriteBytes(final)

	return nil
}

func readEvolutionHeader(in *iobuf.Input) ([]Step, error) {
	compressed, err := in.ReadBool()
	if err != nil {
		return nil, err
	}
	length, err := prim.ReadU32(in)
	if err != nil {
		return nil, err
	}
	raw, err := in.ReadExact(int(length))
	if err != nil {
		return nil, err
	}

	algorithm := compress.None
	if compressed {
		algorithm = compress.Gzip
	}
	codec, err := compress.GetCodec(algorithm)
	if err != nil {
		return nil, err
	}
	raw, err = codec.Decompress(raw)
	if err != nil {
		return nil, err
	}

	return decodeSteps(iobuf.NewInput(raw))
}

// DecodeRecord reads a record written by EncodeRecord. schema is the
// *reader's* schema: the evolution ladder and field set this call
// expects, independent of whatever the writer actually shipped.
func DecodeRecord(ctx *session.Context, in *iobuf.Input, schema *Schema) (Values, error) {
	if schema.Transparent {
		return decodeTransparent(ctx, in, schema)
	}

	writerSteps, err := readEvolutionHeader(in)
	if err != nil {
		return nil, err
	}

	chunkCount, err := prim.ReadU32(in)
	if err != nil {
		return nil, err
	}
	if int(chunkCount) != len(writerSteps) {
		return nil, errs.ErrCorruptedChunkMap
	}

	lengths := make([]uint32, chunkCount)
	for i := range lengths {
		lengths[i], err = prim.ReadU32(in)
		if err != nil {
			return nil, err
		}
	}

	chunks := make([][]byte, chunkCount)
	for i := range chunks {
		chunks[i], err = in.ReadExact(int(lengths[i]))
		if err != nil {
			return nil, err
		}
	}

	resolve := buildRenameResolver(schema.Steps, writerSteps)

	var initialFieldCount uint32
	nameIndex := make(map[string]int)
	for i, s := range writerSteps {
		switch s.Kind {
		case format.StepInitialVersion:
			initialFieldCount = s.FieldCount
		case format.StepFieldAdded:
			nameIndex[resolve(s.Name)] = i
		case format.StepFieldRemoved:
			// The writer added this field in an earlier step (so it has a
			// chunk) and then removed it; that chunk is now an empty
			// tombstone, so the field must resolve as absent rather than
			// through its stale chunk index.
			delete(nameIndex, resolve(s.Name))
		}
	}

	result := make(Values, len(schema.Fields))

	chunk0Pos := 0
	var chunk0In *iobuf.Input
	if len(chunks) > 0 {
		chunk0In = iobuf.NewInput(chunks[0])
	}

	for fi := range schema.Fields {
		f := &schema.Fields[fi]

		if f.Transient {
			result[f.Name] = valueOrNil(f)

			continue
		}

		if f.Chunk == 0 {
			// Chunk 0 carries no per-field length prefix, so a position
			// can only be skipped by decoding it, never by knowing its
			// byte length up front; a Removed field must still consume
			// its slot to keep every later chunk-0 field aligned.
			if uint32(chunk0Pos) >= initialFieldCount {
				v, err := missingFieldValue(f)
				if err != nil {
					return nil, errs.WrapField(f.Name, err)
				}
				if !f.Removed {
					result[f.Name] = v
				}
				chunk0Pos++

				continue
			}

			v, err := f.Codec.Read(ctx, chunk0In)
			if err != nil {
				return nil, errs.WrapField(f.Name, err)
			}
			if !f.Removed {
				result[f.Name] = v
			}
			chunk0Pos++

			continue
		}

		chunkIdx, ok := nameIndex[resolve(f.Name)]
		if !ok {
			// A chunk >0 field lives in its own length-framed chunk, so a
			// Removed one simply has no chunk to read — it is dropped
			// silently instead of projected through missingFieldValue.
			if f.Removed {
				continue
			}

			v, err := missingFieldValue(f)
			if err != nil {
				return nil, errs.WrapField(f.Name, err)
			}
			result[f.Name] = v

			continue
		}

		fieldIn := iobuf.NewInput(chunks[chunkIdx])
		v, err := f.Codec.Read(ctx, fieldIn)
		if err != nil {
			return nil, errs.WrapField(f.Name, err)
		}
		if !f.Removed {
			result[f.Name] = v
		}
	}

	return result, nil
}

func decodeTransparent(ctx *session.Context, in *iobuf.Input, schema *Schema) (Values, error) {
	field := schema.soleField()
	if field == nil {
		return Values{}, nil
	}

	v, err := field.Codec.Read(ctx, in)
	if err != nil {
		return nil, errs.WrapField(field.Name, err)
	}

	return Values{field.Name: v}, nil
}

func valueOrNil(f *FieldSpec) any {
	if f.Default != nil {
		return f.Default()
	}

	return nil
}

func missingFieldValue(f *FieldSpec) (any, error) {
	if f.Optional {
		return nil, nil
	}
	if f.Default != nil {
		return f.Default(), nil
	}

	return nil, errs.ErrMissingField
}
