package rowbuf

import (
	"io"
	"math"

	"github.com/navijation/njtable/util"
)

// Reader consumes what a Writer produced. Every read that would run past the end of
// the buffer returns io.ErrUnexpectedEOF and leaves the position unchanged.
type Reader struct {
	data   []byte
	offset int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (me *Reader) Offset() int {
	return me.offset
}

func (me *Reader) Remaining() int {
	return len(me.data) - me.offset
}

func (me *Reader) next(n int) ([]byte, error) {
	if n < 0 || n > me.Remaining() {
		return nil, io.ErrUnexpectedEOF
	}
	out := me.data[me.offset : me.offset+n]
	me.offset += n
	return out, nil
}

func (me *Reader) ReadUint8() (uint8, error) {
	b, err := me.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (me *Reader) ReadUint16() (uint16, error) {
	b, err := me.next(2)
	if err != nil {
		return 0, err
	}
	return util.Uint16FromWord16(util.Word16(b)), nil
}

func (me *Reader) ReadUint32() (uint32, error) {
	b, err := me.next(4)
	if err != nil {
		return 0, err
	}
	return util.Uint32FromWord32(util.Word32(b)), nil
}

func (me *Reader) ReadUint64() (uint64, error) {
	b, err := me.next(8)
	if err != nil {
		return 0, err
	}
	return util.Uint64FromWord64(util.Word64(b)), nil
}

func (me *Reader) ReadInt16() (int16, error) {
	v, err := me.ReadUint16()
	return int16(v), err
}

func (me *Reader) ReadInt32() (int32, error) {
	v, err := me.ReadUint32()
	return int32(v), err
}

func (me *Reader) ReadInt64() (int64, error) {
	v, err := me.ReadUint64()
	return int64(v), err
}

func (me *Reader) ReadFloat64() (float64, error) {
	v, err := me.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadBytes returns the next n bytes. The result aliases the reader's input.
func (me *Reader) ReadBytes(n int) ([]byte, error) {
	return me.next(n)
}

func (me *Reader) ReadLengthPrefixed() ([]byte, error) {
	start := me.offset
	length, err := me.ReadUint16()
	if err != nil {
		return nil, err
	}
	b, err := me.next(int(length))
	if err != nil {
		me.offset = start
		return nil, err
	}
	return b, nil
}
