// Package endian provides the byte order engine used by every wire-level
// read and write in wyre.
//
// This package extends Go's standard encoding/binary package by combining
// ByteOrder and AppendByteOrder interfaces into a unified EndianEngine
// interface, giving callers both the indexed Put/Uint accessors and the
// allocation-free Append variants behind one value.
//
// Unlike a format that lets the writer pick a byte order per value, wyre's
// wire format is big-endian only (spec section 3, section 6.1): every
// multi-byte integer and float on the wire uses network byte order so the
// format stays architecture-independent. Engine returns exactly one
// concrete engine, Engine, for that reason; GetLittleEndianEngine and
// GetBigEndianEngine remain exported for components (tests, the
// CheckEndianness helpers) that need to reason about host byte order
// independently of the wire format.
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use. The returned
// EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian
// from the standard library.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	// For a big-endian system, the MSB (0x01) is first.
	var i uint16 = 0x0100

	// Create a byte slice pointing to the memory address of 'i'.
	// We only need the first byte.
	b := (*[2]byte)(unsafe.Pointer(&i))

	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// IsNativeBigEndian reports whether the host is big-endian.
func IsNativeBigEndian() bool {
	return CheckEndianness() == binary.BigEndian
}

// CompareNativeEndian reports whether engine matches the host's byte order.
func CompareNativeEndian(engine EndianEngine) bool {
	return CheckEndianness() == engine
}

// GetLittleEndianEngine returns the little-endian engine. Not used by the
// wire format itself; exists for components that need host-endian
// comparisons.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine. Every wire-level
// read/write in wyre uses this engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// Engine is the engine every wyre codec uses. The wire format has no
// byte-order option (spec section 6.1), so this is the only engine value
// that should reach iobuf.Output/iobuf.Input in production code.
var Engine EndianEngine = binary.BigEndian
