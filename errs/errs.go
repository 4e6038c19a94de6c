// Package errs declares the sentinel errors returned by every wyre
// component. Callers should match them with errors.Is; the evolution
// engine wraps them with a field path (see FieldError) rather than
// replacing them, so errors.Is keeps working through that wrapping too.
package errs

import "errors"

var (
	// ErrUnexpectedEndOfInput is returned when a read-exact-n call runs past
	// the end of the input cursor.
	ErrUnexpectedEndOfInput = errors.New("wyre: unexpected end of input")

	// ErrValueOutOfRange is returned when a decoded machine-word-sized
	// integer does not fit the target width it is being narrowed to.
	ErrValueOutOfRange = errors.New("wyre: value out of range for target width")

	// ErrInvalidCharacter is returned when a decoded character tag carries a
	// surrogate or an out-of-range code point.
	ErrInvalidCharacter = errors.New("wyre: invalid character code point")

	// ErrInvalidUTF8 is returned when a decoded text payload is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("wyre: invalid UTF-8 text payload")

	// ErrArrayLengthMismatch is returned when a fixed-length array's decoded
	// element count does not match the statically declared length.
	ErrArrayLengthMismatch = errors.New("wyre: array length mismatch")

	// ErrMissingField is returned when a reader-required field has neither a
	// writer encoding nor a declared default.
	ErrMissingField = errors.New("wyre: missing required field")

	// ErrUnknownConstructor is returned when a sum type's tag does not match
	// any constructor known to the reader's schema.
	ErrUnknownConstructor = errors.New("wyre: unknown sum type constructor")

	// ErrUnresolvedReference is returned when a back-reference's slot is
	// still unfilled at the end of a deserialize call.
	ErrUnresolvedReference = errors.New("wyre: unresolved reference")

	// ErrTypeRegistryConflict is returned at registration time when an
	// identifier is re-registered with an incompatible codec.
	ErrTypeRegistryConflict = errors.New("wyre: type registry conflict")

	// ErrTypeRegistryMiss is returned when a type identifier has no
	// registered codec.
	ErrTypeRegistryMiss = errors.New("wyre: type registry miss")

	// ErrIncompatibleVersion is returned when a stream's version byte is not
	// one this build of wyre can interpret.
	ErrIncompatibleVersion = errors.New("wyre: incompatible protocol version")

	// ErrMalformedHeader is returned when the stream header or an evolution
	// header cannot be parsed.
	ErrMalformedHeader = errors.New("wyre: malformed header")

	// ErrCorruptedChunkMap is returned when a record's chunk-length table is
	// internally inconsistent (e.g. a chunk's declared length runs past the
	// record's byte image).
	ErrCorruptedChunkMap = errors.New("wyre: corrupted chunk map")
)

// FieldError wraps an inner error with the record field path at which it
// occurred, per spec section 7's propagation policy. Nested record or sum
// decoding prepends its own field name by wrapping an existing FieldError
// rather than flattening the path up front, so the path reads outer-to-inner.
type FieldError struct {
	Field string
	Err   error
}

// WrapField wraps err with field, building up a dotted field path as
// nested records wrap each other's errors.
func WrapField(field string, err error) error {
	if err == nil {
		return nil
	}

	return &FieldError{Field: field, Err: err}
}

func (e *FieldError) Error() string {
	return "field " + e.pathString() + ": " + e.rootError().Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Path returns the field path from outermost to innermost field name.
func (e *FieldError) Path() []string {
	var path []string
	var cur error = e
	for {
		fe, ok := cur.(*FieldError)
		if !ok {
			break
		}
		path = append(path, fe.Field)
		cur = fe.Err
	}

	return path
}

func (e *FieldError) pathString() string {
	path := e.Path()
	s := ""
	for i, p := range path {
		if i > 0 {
			s += "."
		}
		s += p
	}

	return s
}

func (e *FieldError) rootError() error {
	var cur error = e
	for {
		fe, ok := cur.(*FieldError)
		if !ok {
			return cur
		}
		cur = fe.Err
	}
}
