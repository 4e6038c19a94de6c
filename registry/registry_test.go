package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/wyre/errs"
	"github.com/arloliu/wyre/iobuf"
	"github.com/arloliu/wyre/prim"
	"github.com/arloliu/wyre/registry"
)

// ctx stands in for *session.Context: registry is generic over the
// recursion context, and these tests have no need for the real thing.
type ctx struct{}

type int32Codec struct{}

func (int32Codec) Write(_ ctx, out *iobuf.Output, v any) error {
	prim.WriteI32(out, v.(int32)) //nolint:forcetypeassert

	return nil
}

func (int32Codec) Read(_ ctx, in *iobuf.Input) (any, error) {
	return prim.ReadI32(in)
}

type stringCodec struct{}

func (stringCodec) Write(_ ctx, out *iobuf.Output, v any) error {
	return prim.WriteText(out, v.(string), nil) //nolint:forcetypeassert
}

func (stringCodec) Read(_ ctx, in *iobuf.Input) (any, error) {
	return prim.ReadText(in, nil)
}

func TestRegister_Idempotent(t *testing.T) {
	r := registry.NewRegistry[ctx]()
	require.NoError(t, r.Register("demo.int32", int32Codec{}))
	require.NoError(t, r.Register("demo.int32", int32Codec{}))

	c, ok := r.Lookup("demo.int32")
	require.True(t, ok)
	assert.Equal(t, int32Codec{}, c)
}

func TestRegister_Conflict(t *testing.T) {
	r := registry.NewRegistry[ctx]()
	require.NoError(t, r.Register("demo.value", int32Codec{}))

	err := r.Register("demo.value", stringCodec{})
	require.ErrorIs(t, err, errs.ErrTypeRegistryConflict)
}

func TestLookup_Miss(t *testing.T) {
	r := registry.NewRegistry[ctx]()
	_, ok := r.Lookup("demo.missing")
	assert.False(t, ok)
}

func TestWriteValueReadValue_RoundTrip(t *testing.T) {
	r := registry.NewRegistry[ctx]()
	require.NoError(t, r.Register("demo.int32", int32Codec{}))

	out := iobuf.NewOutput(32)
	require.NoError(t, r.WriteValue(ctx{}, out, prim.NewStringTable(), "demo.int32", int32(42)))

	in := iobuf.NewInput(out.Bytes())
	identifier, value, err := r.ReadValue(ctx{}, in, prim.NewStringTable())
	require.NoError(t, err)
	assert.Equal(t, "demo.int32", identifier)
	assert.Equal(t, int32(42), value)
}

func TestWriteValueReadValue_Dedup(t *testing.T) {
	r := registry.NewRegistry[ctx]()
	require.NoError(t, r.Register("demo.int32", int32Codec{}))

	out := iobuf.NewOutput(64)
	dedup := prim.NewStringTable()
	require.NoError(t, r.WriteValue(ctx{}, out, dedup, "demo.int32", int32(1)))
	require.NoError(t, r.WriteValue(ctx{}, out, dedup, "demo.int32", int32(2)))

	in := iobuf.NewInput(out.Bytes())
	readDedup := prim.NewStringTable()

	id1, v1, err := r.ReadValue(ctx{}, in, readDedup)
	require.NoError(t, err)
	assert.Equal(t, "demo.int32", id1)
	assert.Equal(t, int32(1), v1)

	id2, v2, err := r.ReadValue(ctx{}, in, readDedup)
	require.NoError(t, err)
	assert.Equal(t, "demo.int32", id2)
	assert.Equal(t, int32(2), v2)
}

func TestWriteValue_UnregisteredIdentifier(t *testing.T) {
	r := registry.NewRegistry[ctx]()
	out := iobuf.NewOutput(8)

	err := r.WriteValue(ctx{}, out, nil, "demo.missing", int32(1))
	require.ErrorIs(t, err, errs.ErrTypeRegistryMiss)
}

func TestReadValue_UnregisteredIdentifier(t *testing.T) {
	r := registry.NewRegistry[ctx]()

	out := iobuf.NewOutput(8)
	require.NoError(t, prim.WriteText(out, "demo.missing", nil))

	in := iobuf.NewInput(out.Bytes())
	identifier, _, err := r.ReadValue(ctx{}, in, nil)
	require.ErrorIs(t, err, errs.ErrTypeRegistryMiss)
	assert.Equal(t, "demo.missing", identifier)
}
