package session

import (
	"github.com/arloliu/wyre/format"
	"github.com/arloliu/wyre/options"
)

// Config holds the four options spec section 6.3 enumerates. Context
// copies the resolved Config's values into its own unexported fields
// rather than exposing it for mutation after construction — options are
// only meaningful before the first byte is written or read.
type Config struct {
	Version               uint8
	StringDedup            bool
	RefTracking            bool
	CompressHeadersAbove   int
}

func defaultConfig() Config {
	return Config{
		Version:              uint8(format.CurrentVersion),
		StringDedup:          false,
		RefTracking:          false,
		CompressHeadersAbove: 0, // 0 means "never compress" (see WithCompressHeadersAbove doc)
	}
}

// Option configures a Config. Construct one with WithVersion,
// WithStringDedup, WithRefTracking, or WithCompressHeadersAbove.
type Option = options.Option[*Config]

// WithVersion overrides the writer's protocol version byte.
func WithVersion(v uint8) Option {
	return options.NoError[*Config](func(c *Config) { c.Version = v })
}

// WithStringDedup enables text deduplication (spec section 4.C).
func WithStringDedup(enabled bool) Option {
	return options.NoError[*Config](func(c *Config) { c.StringDedup = enabled })
}

// WithRefTracking enables identity-preserving references (spec section 4.F).
func WithRefTracking(enabled bool) Option {
	return options.NoError[*Config](func(c *Config) { c.RefTracking = enabled })
}

// WithCompressHeadersAbove sets the minimum evolution-header size in
// bytes at which the writer applies gzip compression (spec section
// 4.E/6.3); the compressed form is kept only when it is smaller than the
// raw header. A value of 0 disables header compression entirely; readers
// always accept both compressed and uncompressed headers regardless of
// this setting (spec section 9's open question, resolved in DESIGN.md).
func WithCompressHeadersAbove(bytes int) Option {
	return options.NoError[*Config](func(c *Config) { c.CompressHeadersAbove = bytes })
}
