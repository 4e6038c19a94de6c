package compress_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/wyre/compress"
)

func TestNoOpCompressor_RoundTrip(t *testing.T) {
	c := compress.NewNoOpCompressor()
	data := []byte("hello world")

	compressed, err := c.Compress(data)
	require.NoError(t, err)
	assert.Equal(t, data, compressed)

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, data, decompressed)
}

func TestGzipCodec_RoundTrip(t *testing.T) {
	c := compress.NewGzipCodec()
	data := []byte("a fairly repetitive evolution header payload that compresses well well well")

	compressed, err := c.Compress(data)
	require.NoError(t, err)
	assert.NotEqual(t, data, compressed)

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, data, decompressed)
}

func TestCreateCodec(t *testing.T) {
	c, err := compress.CreateCodec(compress.Gzip)
	require.NoError(t, err)
	assert.IsType(t, compress.GzipCodec{}, c)

	_, err = compress.CreateCodec(compress.Algorithm(99))
	require.Error(t, err)
}

func TestGetCodec(t *testing.T) {
	c, err := compress.GetCodec(compress.None)
	require.NoError(t, err)
	assert.IsType(t, compress.NoOpCompressor{}, c)
}
