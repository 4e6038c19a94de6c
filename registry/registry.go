// Package registry implements component G: the process-wide mapping from
// a stable type identifier to a codec for that type (spec section 4.G),
// used when a value's type cannot be determined from context — a
// heterogeneous payload inside an otherwise uniform envelope.
//
// Registry is generic over the context type C a Codec needs to recurse
// into child values (string dedup table, reference tracker, the registry
// itself), so this package never imports the session package that
// defines the concrete context; session instantiates Registry[*session.Context].
package registry

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/arloliu/wyre/errs"
	"github.com/arloliu/wyre/iobuf"
	"github.com/arloliu/wyre/prim"
)

// Codec is the write/read pair a registered type must supply. Write and
// Read recurse through ctx exactly like any other codec in the core —
// the registry does not give them special treatment.
type Codec[C any] interface {
	Write(ctx C, out *iobuf.Output, v any) error
	Read(ctx C, in *iobuf.Input) (any, error)
}

// shardCount controls how many independent RWMutex-protected buckets the
// registry splits its entries across, so registration (which takes an
// exclusive lock, spec section 5) on one identifier blocks only lookups
// of identifiers that hash to the same shard. Sized for the expected register-
// at-startup, read-mostly workload, not for contention at registry scale.
const shardCount = 16

type entry[C any] struct {
	codec Codec[C]
}

type shard[C any] struct {
	mu      sync.RWMutex
	entries map[string]entry[C]
}

// Registry is the process-wide type-identifier-to-codec table.
type Registry[C any] struct {
	shards [shardCount]*shard[C]
}

// NewRegistry creates an empty registry. Registration is expected at
// process startup (spec section 5); runtime registration is permitted
// but may contend on the identifier's shard.
func NewRegistry[C any]() *Registry[C] {
	r := &Registry[C]{}
	for i := range r.shards {
		r.shards[i] = &shard[C]{entries: make(map[string]entry[C])}
	}

	return r
}

func (r *Registry[C]) shardFor(identifier string) *shard[C] {
	idx := xxhash.Sum64String(identifier) % shardCount

	return r.shards[idx]
}

// sameCodec compares two codec values for registration idempotency.
// Codec implementations are expected to be comparable (a pointer or a
// small value type); a non-comparable codec recovers to "different",
// which is the conservative, spec-compliant choice (fail rather than
// silently accept).
func sameCodec(a, b any) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()

	return a == b
}

// Register associates identifier with codec. Registration is idempotent:
// registering the same identifier with an equal codec again is a no-op.
// Registering it again with a different codec fails with
// errs.ErrTypeRegistryConflict (spec section 4.G) — at registration time,
// not at encode/decode time.
func (r *Registry[C]) Register(identifier string, codec Codec[C]) error {
	s := r.shardFor(identifier)
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[identifier]; ok {
		if sameCodec(existing.codec, codec) {
			return nil
		}

		return errs.ErrTypeRegistryConflict
	}

	s.entries[identifier] = entry[C]{codec: codec}

	return nil
}

// Lookup returns the codec registered for identifier, admitting
// concurrent readers (spec section 5).
func (r *Registry[C]) Lookup(identifier string) (Codec[C], bool) {
	s := r.shardFor(identifier)
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[identifier]

	return e.codec, ok
}

// WriteValue writes a polymorphic value: the type identifier (as
// dedup-eligible text, spec section 4.C's policy) followed by the
// registered codec's output (spec section 4.G's wire image).
func (r *Registry[C]) WriteValue(ctx C, out *iobuf.Output, dedup *prim.StringTable, identifier string, v any) error {
	codec, ok := r.Lookup(identifier)
	if !ok {
		return errs.ErrTypeRegistryMiss
	}
	if err := prim.WriteText(out, identifier, dedup); err != nil {
		return err
	}

	return codec.Write(ctx, out, v)
}

// ReadValue reads a polymorphic value written by WriteValue: the type
// identifier, then dispatches to the registered codec.
func (r *Registry[C]) ReadValue(ctx C, in *iobuf.Input, dedup *prim.StringTable) (identifier string, value any, err error) {
	identifier, err = prim.ReadText(in, dedup)
	if err != nil {
		return "", nil, err
	}

	codec, ok := r.Lookup(identifier)
	if !ok {
		return identifier, nil, errs.ErrTypeRegistryMiss
	}

	value, err = codec.Read(ctx, in)

	return identifier, value, err
}
