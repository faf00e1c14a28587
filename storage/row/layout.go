package row

import (
	"math"
	"slices"

	"github.com/navijation/njtable/storage/catalog"
	"github.com/navijation/njtable/storage/rowbuf"
)

const (
	// NullOffset marks a header slot whose field is NULL.
	NullOffset int16 = -1

	// MaxValueSize is the largest value buffer a 16-bit signed offset can address.
	MaxValueSize = math.MaxInt16
)

// Layout is the result of planning one row: where each non-key field lands in the value
// buffer and how long the key buffer will be.
type Layout struct {
	// Offsets has one slot per non-key column, in schema order, followed by the
	// end-of-record slot holding the total value length.
	Offsets []int16

	keySize int
	codecs  []fieldCodec
}

// HeaderSize is the number of bytes the offset directory occupies.
func (me *Layout) HeaderSize() int {
	return 2 * len(me.Offsets)
}

func (me *Layout) ValueSize() int {
	return int(me.Offsets[len(me.Offsets)-1])
}

func (me *Layout) KeySize() int {
	return me.keySize
}

// Plan validates row against schema and computes the layout of its encoding. Primary key
// columns get no header slot and take no space in the value buffer; they may appear
// anywhere in the schema.
func Plan(schema *catalog.Schema, row Row) (out Layout, _ error) {
	if len(row) != schema.NumColumns() {
		return out, errorf(ErrSchemaMismatch,
			"table %q has %d columns, row has %d values", schema.Name(), schema.NumColumns(), len(row),
		)
	}

	out = Layout{
		Offsets: make([]int16, schema.NumValueColumns()+1),
		codecs:  make([]fieldCodec, len(row)),
	}

	cursor := out.HeaderSize()
	slot := 0
	for ordinal, value := range row {
		column := schema.Column(ordinal)
		codec, err := codecFor(column)
		if err != nil {
			return Layout{}, err
		}
		out.codecs[ordinal] = codec

		if column.PrimaryKey {
			if value.IsNull() {
				return Layout{}, columnError(ErrNullPrimaryKey, column, "key value missing")
			}
			size, err := codec.size(column, value.datum)
			if err != nil {
				return Layout{}, err
			}
			if column.Width() == catalog.VariableWidth && size > rowbuf.MaxPrefixedLength {
				return Layout{}, columnError(ErrRecordTooLarge, column, "%d byte key field", size)
			}
			out.keySize += keySize(column, size)
			continue
		}

		if value.IsNull() {
			out.Offsets[slot] = NullOffset
			slot++
			continue
		}

		size, err := codec.size(column, value.datum)
		if err != nil {
			return Layout{}, err
		}
		if cursor+size > MaxValueSize {
			return Layout{}, columnError(ErrRecordTooLarge, column, "value buffer exceeds %d bytes", MaxValueSize)
		}
		out.Offsets[slot] = int16(cursor)
		cursor += size
		slot++
	}

	if cursor > MaxValueSize {
		return Layout{}, errorf(ErrRecordTooLarge, "header of %d bytes", cursor)
	}
	out.Offsets[slot] = int16(cursor)

	return out, nil
}

// PresentOffsets returns the offsets of non-NULL fields, excluding the end slot.
func (me *Layout) PresentOffsets() []int16 {
	fields := me.Offsets[:len(me.Offsets)-1]
	return slices.DeleteFunc(slices.Clone(fields), func(offset int16) bool {
		return offset == NullOffset
	})
}
