// Package session implements component C: the per-call serialization
// context (spec section 4.C). A Context is created fresh at the start of
// a serialize or deserialize call and destroyed at its end (spec
// "Entity lifecycles"); it owns the string dedup table, the reference
// tracker for whichever direction it runs in, and a handle to the
// process-wide type registry.
package session

import (
	"github.com/arloliu/wyre/errs"
	"github.com/arloliu/wyre/format"
	"github.com/arloliu/wyre/iobuf"
	"github.com/arloliu/wyre/options"
	"github.com/arloliu/wyre/prim"
	"github.com/arloliu/wyre/refs"
	"github.com/arloliu/wyre/registry"
)

type mode uint8

const (
	modeWrite mode = iota
	modeRead
)

// Context is the single type threaded through every codec call, in both
// directions — it is the C type parameter registry.Registry is
// instantiated with. Only the fields relevant to its mode are populated;
// a Context is never shared across a write and a read, and never across
// goroutines (spec section 5).
type Context struct {
	mode                 mode
	version              uint8
	stringDedup          bool
	refTracking          bool
	compressHeadersAbove int

	strings     *prim.StringTable
	identifiers *prim.StringTable
	writeRefs   *refs.WriteTracker
	readRefs    *refs.ReadTracker

	Registry *registry.Registry[*Context]
}

// DefaultRegistry is the process-wide type registry every Context uses
// unless told otherwise. It is safe for concurrent registration and
// lookup (spec section 5); callers needing an isolated registry (tests,
// multi-tenant hosts) can construct their own with registry.NewRegistry
// and assign it to Context.Registry after construction.
var DefaultRegistry = registry.NewRegistry[*Context]()

// NewWriteContext creates a Context for a serialize call.
func NewWriteContext(opts ...Option) (*Context, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	ctx := &Context{
		mode:                 modeWrite,
		version:              cfg.Version,
		stringDedup:          cfg.StringDedup,
		refTracking:          cfg.RefTracking,
		compressHeadersAbove: cfg.CompressHeadersAbove,
		identifiers:          prim.NewStringTable(),
		Registry:             DefaultRegistry,
	}
	if cfg.StringDedup {
		ctx.strings = prim.NewStringTable()
	}
	if cfg.RefTracking {
		ctx.writeRefs = refs.NewWriteTracker()
	}

	return ctx, nil
}

// WriteHeader writes the stream header: version byte, then flags byte
// (spec section 6.1).
func (c *Context) WriteHeader(out *iobuf.Output) {
	out.WriteUint8(c.version)

	var flags uint8
	flags = format.FlagStringDedup.Set(flags, c.stringDedup)
	flags = format.FlagRefTracking.Set(flags, c.refTracking)
	flags = format.FlagHeaderCompression.Set(flags, c.compressHeadersAbove > 0)
	out.WriteUint8(flags)
}

// NewReadContext creates a Context for a deserialize call by parsing the
// stream header from in. Options may still be supplied (e.g. a custom
// Registry via a later field assignment), but stringDedup/refTracking are
// always taken from the header's flags byte, never from the caller's
// options — a reader must mirror what the writer actually did.
func NewReadContext(in *iobuf.Input, opts ...Option) (*Context, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	version, err := in.ReadUint8()
	if err != nil {
		return nil, err
	}
	if version > uint8(format.CurrentVersion) {
		return nil, errs.ErrIncompatibleVersion
	}

	flags, err := in.ReadUint8()
	if err != nil {
		return nil, err
	}

	ctx := &Context{
		mode:                 modeRead,
		version:              version,
		stringDedup:          format.FlagStringDedup.Has(flags),
		refTracking:          format.FlagRefTracking.Has(flags),
		compressHeadersAbove: cfg.CompressHeadersAbove,
		identifiers:          prim.NewStringTable(),
		Registry:             DefaultRegistry,
	}
	if ctx.stringDedup {
		ctx.strings = prim.NewStringTable()
	}
	if ctx.refTracking {
		ctx.readRefs = refs.NewReadTracker()
	}

	return ctx, nil
}

// Version returns the protocol version this Context is running.
func (c *Context) Version() uint8 { return c.version }

// StringDedup reports whether text deduplication is active.
func (c *Context) StringDedup() bool { return c.stringDedup }

// RefTracking reports whether reference tracking is active.
func (c *Context) RefTracking() bool { return c.refTracking }

// CompressHeadersAbove returns the configured header-compression
// threshold (0 means disabled on the write side; unused on the read side).
func (c *Context) CompressHeadersAbove() int { return c.compressHeadersAbove }

// Dedup returns the string dedup table for ordinary user text, or nil if
// string_dedup is not active. Field names and type identifiers are
// deduplicated independently of this flag (spec section 4.C): the
// evolution engine keeps its own call-scoped table for field names, and
// IdentifierDedup holds this Context's table for registry type
// identifiers.
func (c *Context) Dedup() *prim.StringTable { return c.strings }

// IdentifierDedup returns the dedup table used for registry.WriteValue /
// registry.ReadValue's type identifier text. Unlike Dedup, this table is
// always present — type identifier dedup does not depend on the
// string_dedup option (spec section 4.C).
func (c *Context) IdentifierDedup() *prim.StringTable { return c.identifiers }

// WriteRefs returns the write-side reference tracker, or nil if
// ref_tracking is not active.
func (c *Context) WriteRefs() *refs.WriteTracker { return c.writeRefs }

// ReadRefs returns the read-side reference tracker, or nil if
// ref_tracking is not active.
func (c *Context) ReadRefs() *refs.ReadTracker { return c.readRefs }

// FinishRead must be called once after a deserialize call's root value
// has been fully decoded. It fails with errs.ErrUnresolvedReference if
// any reserved reference slot was never filled (spec section 4.F).
func (c *Context) FinishRead() error {
	if c.readRefs == nil {
		return nil
	}
	if unresolved := c.readRefs.Unresolved(); len(unresolved) > 0 {
		return errs.ErrUnresolvedReference
	}

	return nil
}
