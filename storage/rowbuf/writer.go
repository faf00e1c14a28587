// Package rowbuf provides the growable big-endian buffer that row encoders write into,
// and the bounds-checked reader that decoders use to walk the result.
package rowbuf

import (
	"bytes"
	"fmt"
	"math"

	"github.com/navijation/njtable/util"
)

// MaxPrefixedLength is the largest payload WriteLengthPrefixed accepts.
const MaxPrefixedLength = math.MaxUint16

// Writer appends fixed-width big-endian integers, floats and raw or length-prefixed
// bytes to an in-memory buffer. Writes cannot fail; running out of memory panics like
// bytes.Buffer does.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns a writer whose buffer is pre-sized to capacity bytes.
func NewWriter(capacity int) *Writer {
	out := &Writer{}
	out.buf.Grow(capacity)
	return out
}

func (me *Writer) Len() int {
	return me.buf.Len()
}

// Bytes returns the written bytes. The slice aliases the writer's buffer until the next
// write.
func (me *Writer) Bytes() []byte {
	return me.buf.Bytes()
}

func (me *Writer) WriteUint8(v uint8) {
	_ = me.buf.WriteByte(v)
}

func (me *Writer) WriteUint16(v uint16) {
	word := util.Uint16ToWord16(v)
	_, _ = me.buf.Write(word[:])
}

func (me *Writer) WriteUint32(v uint32) {
	word := util.Uint32ToWord32(v)
	_, _ = me.buf.Write(word[:])
}

func (me *Writer) WriteUint64(v uint64) {
	word := util.Uint64ToWord64(v)
	_, _ = me.buf.Write(word[:])
}

func (me *Writer) WriteInt16(v int16) {
	me.WriteUint16(uint16(v))
}

func (me *Writer) WriteInt32(v int32) {
	me.WriteUint32(uint32(v))
}

func (me *Writer) WriteInt64(v int64) {
	me.WriteUint64(uint64(v))
}

func (me *Writer) WriteFloat64(v float64) {
	me.WriteUint64(math.Float64bits(v))
}

func (me *Writer) WriteBytes(b []byte) {
	_, _ = me.buf.Write(b)
}

// WritePadded writes b followed by zero bytes up to width. b must not be longer than
// width.
func (me *Writer) WritePadded(b []byte, width int) {
	if len(b) > width {
		panic(fmt.Sprintf("rowbuf: %d bytes do not fit in a %d byte field", len(b), width))
	}
	me.WriteBytes(b)
	for range width - len(b) {
		_ = me.buf.WriteByte(0)
	}
}

// WriteLengthPrefixed writes a u16 length followed by b.
func (me *Writer) WriteLengthPrefixed(b []byte) {
	if len(b) > MaxPrefixedLength {
		panic(fmt.Sprintf("rowbuf: %d bytes exceed length prefix", len(b)))
	}
	me.WriteUint16(uint16(len(b)))
	me.WriteBytes(b)
}
