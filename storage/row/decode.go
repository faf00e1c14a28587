package row

import (
	"slices"

	"github.com/navijation/njtable/storage/catalog"
	"github.com/navijation/njtable/storage/rowbuf"
)

// DecodeKey splits a key buffer back into the primary key values, in schema order.
func DecodeKey(schema *catalog.Schema, key []byte) (Row, error) {
	keyColumns := schema.KeyColumns()
	out := make(Row, 0, len(keyColumns))

	r := rowbuf.NewReader(key)
	for _, column := range keyColumns {
		codec, err := codecFor(column)
		if err != nil {
			return nil, err
		}
		datum, err := readKey(r, codec, column)
		if err != nil {
			return nil, err
		}
		out = append(out, Value{datum: datum})
	}

	if r.Remaining() != 0 {
		return nil, errorf(ErrCorruptRecord, "%d trailing key bytes", r.Remaining())
	}
	return out, nil
}

// ValueView gives random access to the fields of a value buffer without decoding the
// ones that are not asked for.
type ValueView struct {
	schema  *catalog.Schema
	data    []byte
	offsets []int16
	// end of each slot's field; equal to its start for NULL slots
	ends []int
}

// NewValueView checks the header of value and returns a view over it. The view aliases
// value.
func NewValueView(schema *catalog.Schema, value []byte) (out ValueView, _ error) {
	numSlots := schema.NumValueColumns() + 1
	headerSize := 2 * numSlots
	if len(value) < headerSize {
		return out, errorf(ErrCorruptRecord, "value is %d bytes, header needs %d", len(value), headerSize)
	}

	r := rowbuf.NewReader(value[:headerSize])
	offsets := make([]int16, numSlots)
	for i := range offsets {
		offsets[i], _ = r.ReadInt16()
	}

	end := int(offsets[numSlots-1])
	if end != len(value) {
		return out, errorf(ErrCorruptRecord, "end slot is %d, value is %d bytes", end, len(value))
	}

	// walk backwards so every present field knows where the next one starts
	ends := make([]int, numSlots-1)
	next := end
	for slot := numSlots - 2; slot >= 0; slot-- {
		offset := int(offsets[slot])
		if offsets[slot] == NullOffset {
			ends[slot] = next
			continue
		}
		if offset < headerSize || offset > next {
			return out, errorf(ErrCorruptRecord, "slot %d offset %d outside [%d, %d]", slot, offset, headerSize, next)
		}
		ends[slot] = next
		next = offset
	}
	if next != headerSize {
		return out, errorf(ErrCorruptRecord, "first field starts at %d, header ends at %d", next, headerSize)
	}

	return ValueView{
		schema:  schema,
		data:    value,
		offsets: offsets,
		ends:    ends,
	}, nil
}

// Offsets returns a copy of the header slots.
func (me *ValueView) Offsets() []int16 {
	return slices.Clone(me.offsets)
}

func (me *ValueView) IsNull(ordinal int) (bool, error) {
	slot, ok := me.schema.ValueSlot(ordinal)
	if !ok {
		return false, errorf(ErrNotValueColumn, "ordinal %d", ordinal)
	}
	return me.offsets[slot] == NullOffset, nil
}

// Field decodes the non-key column at ordinal.
func (me *ValueView) Field(ordinal int) (Value, error) {
	slot, ok := me.schema.ValueSlot(ordinal)
	if !ok {
		return Value{}, errorf(ErrNotValueColumn, "ordinal %d", ordinal)
	}
	if me.offsets[slot] == NullOffset {
		return Null(), nil
	}

	column := me.schema.Column(ordinal)
	codec, err := codecFor(column)
	if err != nil {
		return Value{}, err
	}

	datum, err := codec.get(column, me.data[me.offsets[slot]:me.ends[slot]])
	if err != nil {
		return Value{}, err
	}
	return Value{datum: datum}, nil
}

// Decode reconstructs the row an Encoded was produced from.
func Decode(schema *catalog.Schema, encoded Encoded) (Row, error) {
	keyValues, err := DecodeKey(schema, encoded.Key)
	if err != nil {
		return nil, err
	}
	view, err := NewValueView(schema, encoded.Value)
	if err != nil {
		return nil, err
	}
	return view.assemble(keyValues)
}

// DecodeValue reconstructs a row whose key is not derived from its columns, such as a
// table without a primary key; key columns, if any, are left NULL.
func DecodeValue(schema *catalog.Schema, value []byte) (Row, error) {
	view, err := NewValueView(schema, value)
	if err != nil {
		return nil, err
	}
	return view.assemble(nil)
}

func (me *ValueView) assemble(keyValues Row) (Row, error) {
	out := make(Row, me.schema.NumColumns())
	for ordinal := range out {
		if me.schema.Column(ordinal).PrimaryKey {
			if len(keyValues) > 0 {
				out[ordinal] = keyValues[0]
				keyValues = keyValues[1:]
			}
			continue
		}
		value, err := me.Field(ordinal)
		if err != nil {
			return nil, err
		}
		out[ordinal] = value
	}
	return out, nil
}
