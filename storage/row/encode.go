package row

import (
	"fmt"

	"github.com/navijation/njtable/storage/catalog"
	"github.com/navijation/njtable/storage/rowbuf"
)

// Encoded is the key-value pair one row marshals to. The value buffer is laid out as
//
//	| 2 bytes x (non-key columns + 1)           | field bytes ...                      |
//	|-------------------------------------------|--------------------------------------|
//	| big-endian int16 offsets, -1 for NULL,    | non-key fields in schema order, no   |
//	| last slot = total value length            | gaps between consecutive fields      |
//
// and the key buffer is the concatenation of the primary key fields in schema order,
// variable-width fields prefixed with a big-endian u16 length.
type Encoded struct {
	Key   []byte
	Value []byte
}

// Encode marshals row into its key and value buffers. The row is fully validated
// before any bytes are written; on error the returned Encoded is empty.
func Encode(schema *catalog.Schema, row Row) (Encoded, error) {
	layout, err := Plan(schema, row)
	if err != nil {
		return Encoded{}, err
	}

	return Encoded{
		Key:   encodeKey(schema, row, &layout),
		Value: encodeValue(schema, row, &layout),
	}, nil
}

// EncodeKey builds the key buffer from the primary key values alone, in schema order.
// It is what lookups and deletes use to address a stored row.
func EncodeKey(schema *catalog.Schema, keyValues Row) ([]byte, error) {
	keyColumns := schema.KeyColumns()
	if len(keyValues) != len(keyColumns) {
		return nil, errorf(ErrSchemaMismatch,
			"table %q has %d key columns, got %d values", schema.Name(), len(keyColumns), len(keyValues),
		)
	}

	codecs := make([]fieldCodec, len(keyColumns))
	size := 0
	for i, column := range keyColumns {
		codec, err := codecFor(column)
		if err != nil {
			return nil, err
		}
		if keyValues[i].IsNull() {
			return nil, columnError(ErrNullPrimaryKey, column, "key value missing")
		}
		fieldSize, err := codec.size(column, keyValues[i].datum)
		if err != nil {
			return nil, err
		}
		if column.Width() == catalog.VariableWidth && fieldSize > rowbuf.MaxPrefixedLength {
			return nil, columnError(ErrRecordTooLarge, column, "%d byte key field", fieldSize)
		}
		codecs[i] = codec
		size += keySize(column, fieldSize)
	}

	w := rowbuf.NewWriter(size)
	for i, column := range keyColumns {
		putKey(w, codecs[i], column, keyValues[i].datum)
	}
	return w.Bytes(), nil
}

func encodeKey(schema *catalog.Schema, row Row, layout *Layout) []byte {
	w := rowbuf.NewWriter(layout.KeySize())
	for ordinal, value := range row {
		column := schema.Column(ordinal)
		if !column.PrimaryKey {
			continue
		}
		putKey(w, layout.codecs[ordinal], column, value.datum)
	}

	if w.Len() != layout.KeySize() {
		panic(fmt.Sprintf("row: key encoded to %d bytes, planned %d", w.Len(), layout.KeySize()))
	}
	return w.Bytes()
}

func encodeValue(schema *catalog.Schema, row Row, layout *Layout) []byte {
	w := rowbuf.NewWriter(layout.ValueSize())
	for _, offset := range layout.Offsets {
		w.WriteInt16(offset)
	}

	slot := 0
	for ordinal, value := range row {
		column := schema.Column(ordinal)
		if column.PrimaryKey {
			continue
		}
		if !value.IsNull() {
			if w.Len() != int(layout.Offsets[slot]) {
				panic(fmt.Sprintf(
					"row: column %d starts at %d, planned %d", ordinal, w.Len(), layout.Offsets[slot],
				))
			}
			layout.codecs[ordinal].put(w, column, value.datum)
		}
		slot++
	}

	if w.Len() != layout.ValueSize() {
		panic(fmt.Sprintf("row: value encoded to %d bytes, planned %d", w.Len(), layout.ValueSize()))
	}
	return w.Bytes()
}
