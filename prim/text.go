package prim

import (
	"math"
	"unicode/utf8"

	"github.com/arloliu/wyre/errs"
	"github.com/arloliu/wyre/iobuf"
)

// StringTable implements the dedup mechanism named by the serialization
// context in spec section 4.C: a write-side map from string to the id it
// was first assigned, and a read-side list indexed by id-1. IDs are
// assigned in first-appearance order starting at 1; id 0 is reserved for
// "none" (spec section 3, invariant 3) and is never assigned here.
//
// A StringTable has no opinion on *which* strings go through it — that
// policy (field names, registered type identifiers, and user text only
// when the session's string_dedup option is set) lives in the session
// and record packages that call WriteText/ReadText.
type StringTable struct {
	writeIndex map[string]uint32
	readList   []string
}

// NewStringTable creates an empty dedup table.
func NewStringTable() *StringTable {
	return &StringTable{writeIndex: make(map[string]uint32)}
}

// InternForWrite returns the id previously assigned to s, or assigns and
// returns the next id if this is the first time s has been seen this call.
func (t *StringTable) InternForWrite(s string) (id uint32, isNew bool) {
	if id, ok := t.writeIndex[s]; ok {
		return id, false
	}

	id = uint32(len(t.writeIndex)) + 1
	t.writeIndex[s] = id

	return id, true
}

// AppendRead assigns the next id (in first-appearance order) to a freshly
// decoded string and returns that id.
func (t *StringTable) AppendRead(s string) uint32 {
	t.readList = append(t.readList, s)

	return uint32(len(t.readList))
}

// ResolveRead returns the string previously assigned id by AppendRead.
func (t *StringTable) ResolveRead(id uint32) (string, bool) {
	if id == 0 || int(id) > len(t.readList) {
		return "", false
	}

	return t.readList[id-1], true
}

// Reset clears the table for reuse across calls.
func (t *StringTable) Reset() {
	for k := range t.writeIndex {
		delete(t.writeIndex, k)
	}
	t.readList = t.readList[:0]
}

// WriteText writes a UTF-8 string (spec section 3: Text). When table is
// non-nil, the length prefix is negated to reference an already-emitted
// string instead of repeating its bytes (spec section 4.C's dedup policy
// is applied by the caller by choosing whether to pass a table at all).
func WriteText(out *iobuf.Output, s string, table *StringTable) error {
	if !utf8.ValidString(s) {
		return errs.ErrInvalidUTF8
	}
	if len(s) > math.MaxInt32 {
		return errs.ErrValueOutOfRange
	}

	if table != nil {
		id, isNew := table.InternForWrite(s)
		if !isNew {
			WriteI32(out, -int32(id)) //nolint:gosec

			return nil
		}
	}

	WriteI32(out, int32(len(s))) //nolint:gosec
	out.WriteBytes([]byte(s))

	return nil
}

// ReadText reads a string written by WriteText. When table is non-nil, a
// negative prefix is resolved against previously-read strings instead of
// being treated as a length.
func ReadText(in *iobuf.Input, table *StringTable) (string, error) {
	prefix, err := ReadI32(in)
	if err != nil {
		return "", err
	}

	if prefix < 0 {
		if table == nil {
			return "", errs.ErrMalformedHeader
		}
		s, ok := table.ResolveRead(uint32(-prefix))
		if !ok {
			return "", errs.ErrMalformedHeader
		}

		return s, nil
	}

	b, err := in.ReadExact(int(prefix))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errs.ErrInvalidUTF8
	}
	s := string(b)

	if table != nil {
		table.AppendRead(s)
	}

	return s, nil
}

// WriteBytes writes a length-prefixed byte string (spec section 3's byte
// string category, distinct from text: no UTF-8 validation, no dedup).
func WriteBytes(out *iobuf.Output, b []byte) error {
	if len(b) > math.MaxInt32 {
		return errs.ErrValueOutOfRange
	}
	WriteU32(out, uint32(len(b)))
	out.WriteBytes(b)

	return nil
}

// ReadBytes reads a length-prefixed byte string.
func ReadBytes(in *iobuf.Input) ([]byte, error) {
	n, err := ReadU32(in)
	if err != nil {
		return nil, err
	}
	b, err := in.ReadExact(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)

	return out, nil
}
