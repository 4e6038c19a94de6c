// Package refs implements component F: identity-preserving serialization
// of shared and cyclic sub-objects (spec section 4.F). Reference tracking
// keys on object identity, not structural equality, and is opt-in per
// codec — value types never go through a Tracker.
//
// The write side and read side need different shapes (the writer only
// ever looks an object up or allocates an id for it; the reader must
// reserve a slot *before* decoding the payload so a cycle back into the
// object being constructed can still see a valid, if not yet filled,
// slot) so they are two distinct types sharing one id space convention:
// ids are allocated in first-appearance order starting at 1, mirroring
// the teacher's internal/collision.Tracker (track-on-first-sight,
// Reset-for-reuse) adapted from "track a metric name" to "track an
// object's identity".
package refs

import "github.com/arloliu/wyre/errs"

// Marker is the 1-byte tag preceding a reference-tracked value
// (spec section 4.F: disjoint from the string dedup sign trick).
type Marker uint8

const (
	MarkerNewObject   Marker = 0x00
	MarkerBackRef     Marker = 0x01
)

// WriteTracker assigns each distinct object identity an id in
// first-appearance order, so the caller can tell a fresh object from one
// already emitted this call.
type WriteTracker struct {
	ids map[any]uint32
}

// NewWriteTracker creates an empty write-side tracker.
func NewWriteTracker() *WriteTracker {
	return &WriteTracker{ids: make(map[any]uint32)}
}

// CheckOrAllocate looks up obj (which must be a comparable value with
// identity semantics — typically a pointer) in the table. If obj was
// already seen this call, it returns the existing id and isNew=false
// (the caller should emit a back-reference marker). Otherwise it
// allocates the next id and returns isNew=true (the caller should emit a
// new-object marker, then the payload).
func (t *WriteTracker) CheckOrAllocate(obj any) (id uint32, isNew bool) {
	if id, ok := t.ids[obj]; ok {
		return id, false
	}

	id = uint32(len(t.ids)) + 1
	t.ids[obj] = id

	return id, true
}

// Reset clears the tracker for reuse across calls.
func (t *WriteTracker) Reset() {
	for k := range t.ids {
		delete(t.ids, k)
	}
}

// slot holds the read-side state for one reserved reference id: the
// decoded value once filled, and any pending resolvers registered by
// cycle-aware codecs while it was still empty.
type slot struct {
	filled    bool
	value     any
	resolvers []func(any)
}

// ReadTracker mirrors WriteTracker on the decode side. It reserves a slot
// for a new-object marker *before* decoding that object's payload, so a
// back-reference encountered mid-decode (a cycle) can still register
// interest in the slot and be notified once construction completes.
type ReadTracker struct {
	slots []slot
}

// NewReadTracker creates an empty read-side tracker.
func NewReadTracker() *ReadTracker {
	return &ReadTracker{}
}

// Reserve allocates the next id and returns it, before the corresponding
// payload has been decoded.
func (t *ReadTracker) Reserve() uint32 {
	t.slots = append(t.slots, slot{})

	return uint32(len(t.slots))
}

// Fill records the fully decoded value for id and invokes any resolvers
// that registered interest in it while it was still being constructed.
func (t *ReadTracker) Fill(id uint32, value any) {
	idx := int(id) - 1
	t.slots[idx].filled = true
	t.slots[idx].value = value
	resolvers := t.slots[idx].resolvers
	t.slots[idx].resolvers = nil
	for _, r := range resolvers {
		r(value)
	}
}

// Get returns the current value for id and whether it has been filled
// yet. A back-reference to an unfilled slot means the referenced object
// is currently being constructed (spec section 4.F).
func (t *ReadTracker) Get(id uint32) (value any, filled bool, err error) {
	idx := int(id) - 1
	if idx < 0 || idx >= len(t.slots) {
		return nil, false, errs.ErrMalformedHeader
	}

	s := t.slots[idx]

	return s.value, s.filled, nil
}

// OnFilled registers resolver to be called once id's slot is filled. If
// the slot is already filled, resolver is invoked immediately.
func (t *ReadTracker) OnFilled(id uint32, resolver func(any)) error {
	idx := int(id) - 1
	if idx < 0 || idx >= len(t.slots) {
		return errs.ErrMalformedHeader
	}

	if t.slots[idx].filled {
		resolver(t.slots[idx].value)

		return nil
	}

	t.slots[idx].resolvers = append(t.slots[idx].resolvers, resolver)

	return nil
}

// Unresolved returns the ids of slots that were reserved but never
// filled. A non-empty result at the end of a deserialize call means the
// caller should fail with errs.ErrUnresolvedReference (spec section 4.F).
func (t *ReadTracker) Unresolved() []uint32 {
	var ids []uint32
	for i, s := range t.slots {
		if !s.filled {
			ids = append(ids, uint32(i+1))
		}
	}

	return ids
}

// Reset clears the tracker for reuse across calls.
func (t *ReadTracker) Reset() {
	t.slots = t.slots[:0]
}

// Placeholder is a typed handle to a reference slot that may not be
// filled yet, for cycle-aware codecs that decode a field of type T from a
// shared/cyclic sub-object. Resolve registers setter to run once the slot
// is filled, immediately if it already is.
type Placeholder[T any] struct {
	tracker *ReadTracker
	id      uint32
}

// NewPlaceholder wraps id (previously reserved on tracker) as a typed
// handle for a field of type T.
func NewPlaceholder[T any](tracker *ReadTracker, id uint32) Placeholder[T] {
	return Placeholder[T]{tracker: tracker, id: id}
}

// Resolve registers setter to be invoked with the decoded T once the
// placeholder's slot is filled.
func (p Placeholder[T]) Resolve(setter func(T)) error {
	return p.tracker.OnFilled(p.id, func(v any) {
		setter(v.(T))
	})
}
