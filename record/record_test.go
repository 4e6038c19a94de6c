package record_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/wyre/codec"
	"github.com/arloliu/wyre/errs"
	"github.com/arloliu/wyre/iobuf"
	"github.com/arloliu/wyre/prim"
	"github.com/arloliu/wyre/record"
	"github.com/arloliu/wyre/session"
)

var i32Codec = codec.Func[int32]{
	WriteFunc: func(_ *session.Context, out *iobuf.Output, v int32) error {
		prim.WriteI32(out, v)

		return nil
	},
	ReadFunc: func(_ *session.Context, in *iobuf.Input) (int32, error) {
		return prim.ReadI32(in)
	},
}

var textCodec = codec.Func[string]{
	WriteFunc: func(ctx *session.Context, out *iobuf.Output, v string) error {
		return prim.WriteText(out, v, ctx.Dedup())
	},
	ReadFunc: func(ctx *session.Context, in *iobuf.Input) (string, error) {
		return prim.ReadText(in, ctx.Dedup())
	},
}

func newWriteCtx(t *testing.T) *session.Context {
	t.Helper()
	ctx, err := session.NewWriteContext()
	require.NoError(t, err)

	return ctx
}

func v1Schema() *record.Schema {
	return &record.Schema{
		Steps: []record.Step{record.InitialVersion(2)},
		Fields: []record.FieldSpec{
			{Name: "id", Codec: record.Typed(i32Codec), Chunk: 0},
			{Name: "name", Codec: record.Typed(textCodec), Chunk: 0},
		},
	}
}

func TestRecord_RoundTrip(t *testing.T) {
	schema := v1Schema()
	ctx := newWriteCtx(t)
	out := iobuf.NewOutput(64)

	values := record.Values{"id": int32(7), "name": "widget"}
	require.NoError(t, record.EncodeRecord(ctx, out, schema, values))

	in := iobuf.NewInput(out.Bytes())
	got, err := record.DecodeRecord(ctx, in, schema)
	require.NoError(t, err)
	assert.Equal(t, values, got)
}

func TestRecord_ForwardEvolution_FieldAdded(t *testing.T) {
	writerSchema := &record.Schema{
		Steps: []record.Step{
			record.InitialVersion(2),
			record.FieldAdded("email", 2),
		},
		Fields: []record.FieldSpec{
			{Name: "id", Codec: record.Typed(i32Codec), Chunk: 0},
			{Name: "name", Codec: record.Typed(textCodec), Chunk: 0},
			{Name: "email", Codec: record.Typed(textCodec), Chunk: 1},
		},
	}

	ctx := newWriteCtx(t)
	out := iobuf.NewOutput(64)
	values := record.Values{"id": int32(1), "name": "ada", "email": "ada@example.com"}
	require.NoError(t, record.EncodeRecord(ctx, out, writerSchema, values))

	// Older reader schema does not know about "email" yet.
	readerSchema := v1Schema()
	in := iobuf.NewInput(out.Bytes())
	got, err := record.DecodeRecord(ctx, in, readerSchema)
	require.NoError(t, err)
	assert.Equal(t, record.Values{"id": int32(1), "name": "ada"}, got)
}

func TestRecord_BackwardEvolution_FieldAddedMissingOnWriter(t *testing.T) {
	// Writer is on v1 (no "email" field); reader is on v2 and knows
	// "email" was added at version 2, with a default.
	writerSchema := v1Schema()

	ctx := newWriteCtx(t)
	out := iobuf.NewOutput(64)
	values := record.Values{"id": int32(1), "name": "ada"}
	require.NoError(t, record.EncodeRecord(ctx, out, writerSchema, values))

	readerSchema := &record.Schema{
		Steps: []record.Step{
			record.InitialVersion(2),
			record.FieldAdded("email", 2),
		},
		Fields: []record.FieldSpec{
			{Name: "id", Codec: record.Typed(i32Codec), Chunk: 0},
			{Name: "name", Codec: record.Typed(textCodec), Chunk: 0},
			{
				Name: "email", Codec: record.Typed(textCodec), Chunk: 1,
				Default: func() any { return "unknown@example.com" },
			},
		},
	}

	in := iobuf.NewInput(out.Bytes())
	got, err := record.DecodeRecord(ctx, in, readerSchema)
	require.NoError(t, err)
	assert.Equal(t, record.Values{"id": int32(1), "name": "ada", "email": "unknown@example.com"}, got)
}

func TestRecord_MissingRequiredField(t *testing.T) {
	writerSchema := v1Schema()
	ctx := newWriteCtx(t)
	out := iobuf.NewOutput(64)
	require.NoError(t, record.EncodeRecord(ctx, out, writerSchema, record.Values{"id": int32(1), "name": "ada"}))

	readerSchema := &record.Schema{
		Steps: []record.Step{
			record.InitialVersion(2),
			record.FieldAdded("age", 2),
		},
		Fields: []record.FieldSpec{
			{Name: "id", Codec: record.Typed(i32Codec), Chunk: 0},
			{Name: "name", Codec: record.Typed(textCodec), Chunk: 0},
			{Name: "age", Codec: record.Typed(i32Codec), Chunk: 1}, // no default, not optional
		},
	}

	in := iobuf.NewInput(out.Bytes())
	_, err := record.DecodeRecord(ctx, in, readerSchema)
	require.ErrorIs(t, err, errs.ErrMissingField)

	var fe *errs.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{"age"}, fe.Path())
}

func TestRecord_TransientField(t *testing.T) {
	schema := &record.Schema{
		Steps: []record.Step{record.InitialVersion(1)},
		Fields: []record.FieldSpec{
			{Name: "id", Codec: record.Typed(i32Codec), Chunk: 0},
			{
				Name: "cache", Codec: record.Typed(i32Codec), Transient: true,
				Default: func() any { return int32(-1) },
			},
		},
	}

	ctx := newWriteCtx(t)
	out := iobuf.NewOutput(32)
	require.NoError(t, record.EncodeRecord(ctx, out, schema, record.Values{"id": int32(5), "cache": int32(999)}))

	in := iobuf.NewInput(out.Bytes())
	got, err := record.DecodeRecord(ctx, in, schema)
	require.NoError(t, err)
	assert.Equal(t, record.Values{"id": int32(5), "cache": int32(-1)}, got)
}

func TestRecord_Rename(t *testing.T) {
	writerSchema := &record.Schema{
		Steps: []record.Step{record.InitialVersion(1)},
		Fields: []record.FieldSpec{
			{Name: "legacyId", Codec: record.Typed(i32Codec), Chunk: 0},
		},
	}

	ctx := newWriteCtx(t)
	out := iobuf.NewOutput(32)
	require.NoError(t, record.EncodeRecord(ctx, out, writerSchema, record.Values{"legacyId": int32(3)}))

	readerSchema := &record.Schema{
		Steps: []record.Step{
			record.InitialVersion(1),
			record.FieldRenamed("legacyId", "id"),
		},
		Fields: []record.FieldSpec{
			{Name: "id", Codec: record.Typed(i32Codec), Chunk: 0},
		},
	}

	in := iobuf.NewInput(out.Bytes())
	got, err := record.DecodeRecord(ctx, in, readerSchema)
	require.NoError(t, err)
	assert.Equal(t, record.Values{"id": int32(3)}, got)
}

func TestTransparentRecord_RoundTrip(t *testing.T) {
	schema := &record.Schema{
		Transparent: true,
		Fields: []record.FieldSpec{
			{Name: "value", Codec: record.Typed(i32Codec)},
		},
	}

	ctx := newWriteCtx(t)
	out := iobuf.NewOutput(8)
	require.NoError(t, record.EncodeRecord(ctx, out, schema, record.Values{"value": int32(42)}))
	assert.Len(t, out.Bytes(), 4) // exactly the int32 payload, no header/chunk map

	in := iobuf.NewInput(out.Bytes())
	got, err := record.DecodeRecord(ctx, in, schema)
	require.NoError(t, err)
	assert.Equal(t, record.Values{"value": int32(42)}, got)
}

func TestSumType_RoundTrip(t *testing.T) {
	someSchema := &record.Schema{
		Transparent: true,
		Fields:      []record.FieldSpec{{Name: "value", Codec: record.Typed(i32Codec)}},
	}
	noneSchema := &record.Schema{Transparent: true}

	sum := &record.SumType{
		Variants: []record.Variant{
			{Tag: 0, Name: "None", Schema: noneSchema},
			{Tag: 1, Name: "Some", Schema: someSchema},
		},
	}

	ctx := newWriteCtx(t)
	out := iobuf.NewOutput(16)
	require.NoError(t, record.EncodeSum(ctx, out, sum, "Some", record.Values{"value": int32(7)}))

	in := iobuf.NewInput(out.Bytes())
	name, values, err := record.DecodeSum(ctx, in, sum)
	require.NoError(t, err)
	assert.Equal(t, "Some", name)
	assert.Equal(t, record.Values{"value": int32(7)}, values)
}

func TestRecord_FieldRemoved_Chunk0Tombstone(t *testing.T) {
	// "legacyFlag" was part of the initial chunk 0 layout and has since
	// been removed; it must stay declared (as a tombstone) so "name"'s
	// position doesn't shift.
	schema := &record.Schema{
		Steps: []record.Step{
			record.InitialVersion(3),
			record.FieldRemoved("legacyFlag"),
		},
		Fields: []record.FieldSpec{
			{Name: "id", Codec: record.Typed(i32Codec), Chunk: 0},
			{
				Name: "legacyFlag", Codec: record.Typed(i32Codec), Chunk: 0,
				Removed: true, Default: func() any { return int32(0) },
			},
			{Name: "name", Codec: record.Typed(textCodec), Chunk: 0},
		},
	}

	ctx := newWriteCtx(t)
	out := iobuf.NewOutput(64)
	values := record.Values{"id": int32(1), "name": "ada"}
	require.NoError(t, record.EncodeRecord(ctx, out, schema, values))

	in := iobuf.NewInput(out.Bytes())
	got, err := record.DecodeRecord(ctx, in, schema)
	require.NoError(t, err)
	assert.Equal(t, record.Values{"id": int32(1), "name": "ada"}, got)
}

func TestRecord_FieldRemoved_Chunk0MissingDefault(t *testing.T) {
	schema := &record.Schema{
		Steps: []record.Step{
			record.InitialVersion(2),
			record.FieldRemoved("legacyFlag"),
		},
		Fields: []record.FieldSpec{
			{Name: "id", Codec: record.Typed(i32Codec), Chunk: 0},
			{Name: "legacyFlag", Codec: record.Typed(i32Codec), Chunk: 0, Removed: true},
		},
	}

	ctx := newWriteCtx(t)
	out := iobuf.NewOutput(32)
	err := record.EncodeRecord(ctx, out, schema, record.Values{"id": int32(1)})
	require.ErrorIs(t, err, errs.ErrMissingField)
}

func TestRecord_FieldRemoved_LaterChunkResolvesToMissing(t *testing.T) {
	// Writer added "temp" at version 2 and has since removed it; an
	// older reader that still declares "temp" (as optional) must see it
	// resolve to nil instead of erroring on the now-empty chunk.
	writerSchema := &record.Schema{
		Steps: []record.Step{
			record.InitialVersion(2),
			record.FieldAdded("temp", 2),
			record.FieldRemoved("temp"),
		},
		Fields: []record.FieldSpec{
			{Name: "id", Codec: record.Typed(i32Codec), Chunk: 0},
			{Name: "name", Codec: record.Typed(textCodec), Chunk: 0},
		},
	}

	ctx := newWriteCtx(t)
	out := iobuf.NewOutput(64)
	values := record.Values{"id": int32(1), "name": "ada"}
	require.NoError(t, record.EncodeRecord(ctx, out, writerSchema, values))

	readerSchema := &record.Schema{
		Steps: []record.Step{
			record.InitialVersion(2),
			record.FieldAdded("temp", 2),
		},
		Fields: []record.FieldSpec{
			{Name: "id", Codec: record.Typed(i32Codec), Chunk: 0},
			{Name: "name", Codec: record.Typed(textCodec), Chunk: 0},
			{Name: "temp", Codec: record.Typed(i32Codec), Chunk: 1, Optional: true},
		},
	}

	in := iobuf.NewInput(out.Bytes())
	got, err := record.DecodeRecord(ctx, in, readerSchema)
	require.NoError(t, err)
	assert.Equal(t, record.Values{"id": int32(1), "name": "ada", "temp": nil}, got)
}

func TestRecord_CompressedEvolutionHeader(t *testing.T) {
	// A wide enough ladder of distinct-but-repetitive field names, with
	// the compression threshold dropped to 1 byte, exercises the gzip
	// path through the evolution header round trip.
	steps := []record.Step{record.InitialVersion(1)}
	fields := []record.FieldSpec{{Name: "id", Codec: record.Typed(i32Codec), Chunk: 0}}
	values := record.Values{"id": int32(1)}
	for i := 1; i <= 50; i++ {
		name := fmt.Sprintf("field_number_%03d_with_a_fairly_long_repeated_suffix", i)
		steps = append(steps, record.FieldAdded(name, uint32(i+1)))
		fields = append(fields, record.FieldSpec{Name: name, Codec: record.Typed(i32Codec), Chunk: i})
		values[name] = int32(i)
	}
	schema := &record.Schema{Steps: steps, Fields: fields}

	ctx, err := session.NewWriteContext(session.WithCompressHeadersAbove(1))
	require.NoError(t, err)

	out := iobuf.NewOutput(2048)
	require.NoError(t, record.EncodeRecord(ctx, out, schema, values))

	in := iobuf.NewInput(out.Bytes())
	got, err := record.DecodeRecord(ctx, in, schema)
	require.NoError(t, err)
	assert.Equal(t, values, got)
}

func TestSumType_UnknownConstructor(t *testing.T) {
	sum := &record.SumType{
		Variants: []record.Variant{
			{Tag: 5, Name: "Only", Schema: &record.Schema{Transparent: true}},
		},
	}

	ctx := newWriteCtx(t)
	out := iobuf.NewOutput(8)
	prim.WriteU32(out, 99)

	in := iobuf.NewInput(out.Bytes())
	_, _, err := record.DecodeSum(ctx, in, sum)
	require.ErrorIs(t, err, errs.ErrUnknownConstructor)
}
