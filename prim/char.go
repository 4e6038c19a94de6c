package prim

import (
	"unicode/utf8"

	"github.com/arloliu/wyre/errs"
	"github.com/arloliu/wyre/format"
	"github.com/arloliu/wyre/iobuf"
)

// isSurrogate reports whether r falls in the UTF-16 surrogate range, which
// is never a valid standalone code point.
func isSurrogate(r rune) bool {
	return r >= 0xD800 && r <= 0xDFFF
}

// WriteChar writes a character as a 1-byte width tag followed by its code
// unit (spec section 3, section 4.B): CharWidth16 for code points that fit
// a 16-bit unit, CharWidth32 for the full 21-bit range. Surrogates and
// code points above utf8.MaxRune fail with errs.ErrInvalidCharacter.
func WriteChar(out *iobuf.Output, r rune) error {
	if isSurrogate(r) || r < 0 || r > utf8.MaxRune {
		return errs.ErrInvalidCharacter
	}

	if r <= 0xFFFF {
		out.WriteUint8(uint8(format.CharWidth16))
		out.WriteUint16(uint16(r))

		return nil
	}

	out.WriteUint8(uint8(format.CharWidth32))
	out.WriteUint32(uint32(r))

	return nil
}

// ReadChar reads a character written by WriteChar, validating that the
// decoded code point is not a surrogate and not out of range.
func ReadChar(in *iobuf.Input) (rune, error) {
	tag, err := in.ReadUint8()
	if err != nil {
		return 0, err
	}

	switch format.CharWidth(tag) {
	case format.CharWidth16:
		u, err := in.ReadUint16()
		if err != nil {
			return 0, err
		}
		r := rune(u)
		if isSurrogate(r) {
			return 0, errs.ErrInvalidCharacter
		}

		return r, nil
	case format.CharWidth32:
		u, err := in.ReadUint32()
		if err != nil {
			return 0, err
		}
		r := rune(u)
		if isSurrogate(r) || r > utf8.MaxRune {
			return 0, errs.ErrInvalidCharacter
		}

		return r, nil
	default:
		return 0, errs.ErrInvalidCharacter
	}
}
