package prim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/wyre/errs"
	"github.com/arloliu/wyre/iobuf"
	"github.com/arloliu/wyre/prim"
)

func TestWriteChar_16BitRoundTrip(t *testing.T) {
	out := iobuf.NewOutput(8)
	require.NoError(t, prim.WriteChar(out, 'A'))
	assert.Len(t, out.Bytes(), 3) // 1-byte width tag + 2-byte code unit

	in := iobuf.NewInput(out.Bytes())
	got, err := prim.ReadChar(in)
	require.NoError(t, err)
	assert.Equal(t, 'A', got)
}

func TestWriteChar_32BitRoundTrip(t *testing.T) {
	out := iobuf.NewOutput(8)
	r := rune(0x1F600) // outside the BMP, needs the 32-bit width tag
	require.NoError(t, prim.WriteChar(out, r))
	assert.Len(t, out.Bytes(), 5) // 1-byte width tag + 4-byte code unit

	in := iobuf.NewInput(out.Bytes())
	got, err := prim.ReadChar(in)
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestWriteChar_RejectsSurrogate(t *testing.T) {
	out := iobuf.NewOutput(8)
	err := prim.WriteChar(out, rune(0xD800))
	require.ErrorIs(t, err, errs.ErrInvalidCharacter)
}
