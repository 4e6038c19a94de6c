package prim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/wyre/errs"
	"github.com/arloliu/wyre/iobuf"
	"github.com/arloliu/wyre/prim"
)

func TestFixedWidthIntegers_RoundTrip(t *testing.T) {
	out := iobuf.NewOutput(64)
	prim.WriteU8(out, 0xFF)
	prim.WriteI8(out, -1)
	prim.WriteU16(out, 0xBEEF)
	prim.WriteI16(out, -2)
	prim.WriteU32(out, 0xDEADBEEF)
	prim.WriteI32(out, -3)
	prim.WriteU64(out, 0xFFFFFFFFFFFFFFFF)
	prim.WriteI64(out, -4)

	in := iobuf.NewInput(out.Bytes())

	u8, err := prim.ReadU8(in)
	require.NoError(t, err)
	assert.Equal(t, uint8(0xFF), u8)

	i8, err := prim.ReadI8(in)
	require.NoError(t, err)
	assert.Equal(t, int8(-1), i8)

	u16, err := prim.ReadU16(in)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), u16)

	i16, err := prim.ReadI16(in)
	require.NoError(t, err)
	assert.Equal(t, int16(-2), i16)

	u32, err := prim.ReadU32(in)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), u32)

	i32, err := prim.ReadI32(in)
	require.NoError(t, err)
	assert.Equal(t, int32(-3), i32)

	u64, err := prim.ReadU64(in)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), u64)

	i64, err := prim.ReadI64(in)
	require.NoError(t, err)
	assert.Equal(t, int64(-4), i64)
}

func TestU128I128_RoundTrip(t *testing.T) {
	out := iobuf.NewOutput(32)
	prim.WriteU128(out, prim.U128{Hi: 1, Lo: 2})
	prim.WriteI128(out, prim.I128{Hi: -1, Lo: 3})

	in := iobuf.NewInput(out.Bytes())

	u128, err := prim.ReadU128(in)
	require.NoError(t, err)
	assert.Equal(t, prim.U128{Hi: 1, Lo: 2}, u128)

	i128, err := prim.ReadI128(in)
	require.NoError(t, err)
	assert.Equal(t, prim.I128{Hi: -1, Lo: 3}, i128)
}

func TestFloats_RoundTrip(t *testing.T) {
	out := iobuf.NewOutput(16)
	prim.WriteF32(out, 3.14)
	prim.WriteF64(out, 2.71828)

	in := iobuf.NewInput(out.Bytes())

	f32, err := prim.ReadF32(in)
	require.NoError(t, err)
	assert.Equal(t, float32(3.14), f32)

	f64, err := prim.ReadF64(in)
	require.NoError(t, err)
	assert.Equal(t, 2.71828, f64)
}

func TestBool_RoundTrip(t *testing.T) {
	out := iobuf.NewOutput(2)
	prim.WriteBool(out, true)
	prim.WriteBool(out, false)

	in := iobuf.NewInput(out.Bytes())

	got1, err := prim.ReadBool(in)
	require.NoError(t, err)
	assert.True(t, got1)

	got2, err := prim.ReadBool(in)
	require.NoError(t, err)
	assert.False(t, got2)
}

func TestIntUint_WidenedToI64OnWire(t *testing.T) {
	out := iobuf.NewOutput(16)
	prim.WriteInt(out, -42)
	prim.WriteUint(out, 42)

	in := iobuf.NewInput(out.Bytes())

	i, err := prim.ReadInt(in)
	require.NoError(t, err)
	assert.Equal(t, -42, i)

	u, err := prim.ReadUint(in)
	require.NoError(t, err)
	assert.Equal(t, uint(42), u)
}

func TestNarrowToInt32_OutOfRange(t *testing.T) {
	_, err := prim.NarrowToInt32(1 << 40)
	require.ErrorIs(t, err, errs.ErrValueOutOfRange)

	v, err := prim.NarrowToInt32(100)
	require.NoError(t, err)
	assert.Equal(t, int32(100), v)
}
