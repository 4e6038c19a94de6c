// Package iobuf implements component A of the core: the byte I/O
// abstraction every codec reads and writes through. Output is a growable
// append buffer with a backpatch primitive (needed by the evolution
// engine to fill in chunk lengths it cannot know until after encoding the
// payload, spec section 4.A/4.E); Input is a read cursor over an
// in-memory byte slice.
package iobuf

import (
	"io"
	"sync"

	"github.com/arloliu/wyre/endian"
)

// Default and max-retained sizes for pooled output buffers. A single call
// writes one value tree; 4KiB covers the common case without reallocating,
// and buffers that grow past the threshold are discarded rather than
// pooled so one outsized call doesn't bloat the pool forever.
const (
	DefaultBufferSize  = 4 * 1024
	MaxPooledThreshold = 256 * 1024
)

// Output is the growable append buffer every Write call targets.
// It is not safe for concurrent use; one Output belongs to one
// serialize call (spec section 5).
type Output struct {
	buf    []byte
	engine endian.EndianEngine
}

// NewOutput creates an Output with the given initial capacity.
func NewOutput(capacity int) *Output {
	return &Output{buf: make([]byte, 0, capacity), engine: endian.Engine}
}

// Bytes returns the accumulated bytes. The returned slice aliases the
// Output's internal buffer and is invalidated by the next write.
func (o *Output) Bytes() []byte { return o.buf }

// Len returns the number of bytes written so far.
func (o *Output) Len() int { return len(o.buf) }

// Offset returns the current write offset, equivalent to Len. Named
// separately because callers reading chunk-table code tend to think in
// terms of "offset into the stream" rather than "buffer length".
func (o *Output) Offset() int { return len(o.buf) }

func (o *Output) grow(n int) {
	if cap(o.buf)-len(o.buf) >= n {
		return
	}

	growBy := DefaultBufferSize
	if cap(o.buf) > 4*DefaultBufferSize {
		growBy = cap(o.buf) / 4
	}
	if growBy < n {
		growBy = n
	}

	newBuf := make([]byte, len(o.buf), len(o.buf)+growBy)
	copy(newBuf, o.buf)
	o.buf = newBuf
}

// WriteBytes appends raw bytes to the buffer.
func (o *Output) WriteBytes(p []byte) {
	o.grow(len(p))
	o.buf = append(o.buf, p...)
}

// WriteByte appends a single byte. Satisfies io.ByteWriter.
func (o *Output) WriteByte(b byte) error {
	o.grow(1)
	o.buf = append(o.buf, b)

	return nil
}

// WriteBool appends a single boolean byte (spec section 3: 0x00/0x01).
func (o *Output) WriteBool(v bool) {
	if v {
		o.buf = append(o.buf, 0x01)
	} else {
		o.buf = append(o.buf, 0x00)
	}
}

// WriteUint8/16/32/64 append big-endian integers of the named width.
func (o *Output) WriteUint8(v uint8)   { o.grow(1); o.buf = append(o.buf, v) }
func (o *Output) WriteUint16(v uint16) { o.grow(2); o.buf = o.engine.AppendUint16(o.buf, v) }
func (o *Output) WriteUint32(v uint32) { o.grow(4); o.buf = o.engine.AppendUint32(o.buf, v) }
func (o *Output) WriteUint64(v uint64) { o.grow(8); o.buf = o.engine.AppendUint64(o.buf, v) }

// WriteUint128 appends a 16-byte big-endian unsigned integer given as
// (high, low) 64-bit halves (spec section 4.B: u128/i128).
func (o *Output) WriteUint128(hi, lo uint64) {
	o.WriteUint64(hi)
	o.WriteUint64(lo)
}

// Reserve appends n zero bytes and returns the offset at which they start,
// for a value the caller cannot compute until after writing more data
// (spec section 4.A's backpatch operation). Call Backpatch with the same
// offset once the value is known.
func (o *Output) Reserve(n int) int {
	offset := len(o.buf)
	o.grow(n)
	o.buf = o.buf[:len(o.buf)+n]

	return offset
}

// Backpatch overwrites the n bytes reserved at offset with data.
// len(data) must equal the n passed to the matching Reserve call.
func (o *Output) Backpatch(offset int, data []byte) {
	copy(o.buf[offset:offset+len(data)], data)
}

// BackpatchUint32 is a convenience wrapper for the common case of
// backpatching a 32-bit chunk length or offset.
func (o *Output) BackpatchUint32(offset int, v uint32) {
	var tmp [4]byte
	o.engine.PutUint32(tmp[:], v)
	o.Backpatch(offset, tmp[:])
}

// WriteTo writes the accumulated bytes to w, satisfying io.WriterTo for
// the streaming output variant (spec section 6.2).
func (o *Output) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(o.buf)

	return int64(n), err
}

// Reset clears the buffer, retaining its backing array for reuse.
func (o *Output) Reset() {
	o.buf = o.buf[:0]
}

var outputPool = sync.Pool{
	New: func() any { return NewOutput(DefaultBufferSize) },
}

// GetOutput retrieves a pooled Output ready for a new serialize call.
func GetOutput() *Output {
	return outputPool.Get().(*Output)
}

// PutOutput returns an Output to the pool. Buffers that grew past
// MaxPooledThreshold are discarded instead, so one outsized value never
// permanently inflates the pool.
func PutOutput(o *Output) {
	if o == nil {
		return
	}
	if cap(o.buf) > MaxPooledThreshold {
		return
	}
	o.Reset()
	outputPool.Put(o)
}
