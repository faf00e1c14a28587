package row

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/navijation/njtable/storage/catalog"
	"github.com/navijation/njtable/storage/rowbuf"
)

// fieldCodec encodes the values of one column type.
//
// In the value buffer a field is written without framing: its extent comes from the
// header. In the key buffer, variable-width fields are length-prefixed so that composite
// keys can be split again.
type fieldCodec interface {
	// size validates datum against column and returns its unframed encoded length
	size(column catalog.Column, datum any) (int, error)
	put(w *rowbuf.Writer, column catalog.Column, datum any)
	// get decodes exactly the bytes of one field
	get(column catalog.Column, data []byte) (any, error)
	// parse converts unquoted text into the Go type of the column
	parse(text string) (any, error)
}

var fieldCodecs = map[catalog.ColumnType]fieldCodec{
	catalog.TypeSmallInt:  smallIntCodec{},
	catalog.TypeInteger:   integerCodec{},
	catalog.TypeBigInt:    bigIntCodec{},
	catalog.TypeReal:      realCodec{},
	catalog.TypeBoolean:   booleanCodec{},
	catalog.TypeChar:      charCodec{},
	catalog.TypeUUID:      uuidCodec{},
	catalog.TypeVarChar:   varCharCodec{},
	catalog.TypeVarBinary: varBinaryCodec{},
}

func codecFor(column catalog.Column) (fieldCodec, error) {
	codec, ok := fieldCodecs[column.Type]
	if !ok {
		return nil, columnError(ErrUnsupportedType, column, "no codec")
	}
	return codec, nil
}

// keySize is the encoded length of a key field, including its length prefix if any.
func keySize(column catalog.Column, fieldSize int) int {
	if column.Width() == catalog.VariableWidth {
		return 2 + fieldSize
	}
	return fieldSize
}

func putKey(w *rowbuf.Writer, codec fieldCodec, column catalog.Column, datum any) {
	if column.Width() == catalog.VariableWidth {
		field := rowbuf.NewWriter(0)
		codec.put(field, column, datum)
		w.WriteLengthPrefixed(field.Bytes())
		return
	}
	codec.put(w, column, datum)
}

func readKey(r *rowbuf.Reader, codec fieldCodec, column catalog.Column) (any, error) {
	var (
		data []byte
		err  error
	)
	if length, fixed := column.FixedLength(); fixed {
		data, err = r.ReadBytes(length)
	} else {
		data, err = r.ReadLengthPrefixed()
	}
	if err != nil {
		return nil, columnError(ErrCorruptRecord, column, "key field: %v", err)
	}
	return codec.get(column, data)
}

func mismatch(column catalog.Column, datum any) error {
	return columnError(ErrTypeMismatch, column, "got %T", datum)
}

func checkLength(column catalog.Column, data []byte, expected int) error {
	if len(data) != expected {
		return columnError(ErrCorruptRecord, column, "field is %d bytes, want %d", len(data), expected)
	}
	return nil
}

type smallIntCodec struct{}

func (smallIntCodec) size(column catalog.Column, datum any) (int, error) {
	if _, ok := datum.(int16); !ok {
		return 0, mismatch(column, datum)
	}
	return 2, nil
}

func (smallIntCodec) put(w *rowbuf.Writer, _ catalog.Column, datum any) {
	w.WriteInt16(datum.(int16))
}

func (smallIntCodec) get(column catalog.Column, data []byte) (any, error) {
	if err := checkLength(column, data, 2); err != nil {
		return nil, err
	}
	return rowbuf.NewReader(data).ReadInt16()
}

func (smallIntCodec) parse(text string) (any, error) {
	v, err := strconv.ParseInt(text, 10, 16)
	return int16(v), err
}

type integerCodec struct{}

func (integerCodec) size(column catalog.Column, datum any) (int, error) {
	if _, ok := datum.(int32); !ok {
		return 0, mismatch(column, datum)
	}
	return 4, nil
}

func (integerCodec) put(w *rowbuf.Writer, _ catalog.Column, datum any) {
	w.WriteInt32(datum.(int32))
}

func (integerCodec) get(column catalog.Column, data []byte) (any, error) {
	if err := checkLength(column, data, 4); err != nil {
		return nil, err
	}
	return rowbuf.NewReader(data).ReadInt32()
}

func (integerCodec) parse(text string) (any, error) {
	v, err := strconv.ParseInt(text, 10, 32)
	return int32(v), err
}

type bigIntCodec struct{}

func (bigIntCodec) size(column catalog.Column, datum any) (int, error) {
	if _, ok := datum.(int64); !ok {
		return 0, mismatch(column, datum)
	}
	return 8, nil
}

func (bigIntCodec) put(w *rowbuf.Writer, _ catalog.Column, datum any) {
	w.WriteInt64(datum.(int64))
}

func (bigIntCodec) get(column catalog.Column, data []byte) (any, error) {
	if err := checkLength(column, data, 8); err != nil {
		return nil, err
	}
	return rowbuf.NewReader(data).ReadInt64()
}

func (bigIntCodec) parse(text string) (any, error) {
	return strconv.ParseInt(text, 10, 64)
}

type realCodec struct{}

func (realCodec) size(column catalog.Column, datum any) (int, error) {
	if _, ok := datum.(float64); !ok {
		return 0, mismatch(column, datum)
	}
	return 8, nil
}

func (realCodec) put(w *rowbuf.Writer, _ catalog.Column, datum any) {
	w.WriteFloat64(datum.(float64))
}

func (realCodec) get(column catalog.Column, data []byte) (any, error) {
	if err := checkLength(column, data, 8); err != nil {
		return nil, err
	}
	return rowbuf.NewReader(data).ReadFloat64()
}

func (realCodec) parse(text string) (any, error) {
	return strconv.ParseFloat(text, 64)
}

type booleanCodec struct{}

func (booleanCodec) size(column catalog.Column, datum any) (int, error) {
	if _, ok := datum.(bool); !ok {
		return 0, mismatch(column, datum)
	}
	return 1, nil
}

func (booleanCodec) put(w *rowbuf.Writer, _ catalog.Column, datum any) {
	if datum.(bool) {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
}

func (booleanCodec) get(column catalog.Column, data []byte) (any, error) {
	if err := checkLength(column, data, 1); err != nil {
		return nil, err
	}
	switch data[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return nil, columnError(ErrCorruptRecord, column, "boolean byte %#x", data[0])
}

func (booleanCodec) parse(text string) (any, error) {
	return strconv.ParseBool(text)
}

// CHAR(n) values are stored in exactly n bytes, padded with NULs. Values may therefore
// not contain NUL themselves.
type charCodec struct{}

func (charCodec) size(column catalog.Column, datum any) (int, error) {
	text, ok := datum.(string)
	if !ok {
		return 0, mismatch(column, datum)
	}
	if len(text) > column.Length {
		return 0, columnError(ErrTypeMismatch, column, "%d bytes exceed CHAR(%d)", len(text), column.Length)
	}
	if strings.IndexByte(text, 0) >= 0 {
		return 0, columnError(ErrTypeMismatch, column, "CHAR value contains NUL")
	}
	return column.Length, nil
}

func (charCodec) put(w *rowbuf.Writer, column catalog.Column, datum any) {
	w.WritePadded([]byte(datum.(string)), column.Length)
}

func (charCodec) get(column catalog.Column, data []byte) (any, error) {
	if err := checkLength(column, data, column.Length); err != nil {
		return nil, err
	}
	return string(bytes.TrimRight(data, "\x00")), nil
}

func (charCodec) parse(text string) (any, error) {
	return text, nil
}

type uuidCodec struct{}

func (uuidCodec) size(column catalog.Column, datum any) (int, error) {
	if _, ok := datum.(uuid.UUID); !ok {
		return 0, mismatch(column, datum)
	}
	return 16, nil
}

func (uuidCodec) put(w *rowbuf.Writer, _ catalog.Column, datum any) {
	id := datum.(uuid.UUID)
	w.WriteBytes(id[:])
}

func (uuidCodec) get(column catalog.Column, data []byte) (any, error) {
	if err := checkLength(column, data, 16); err != nil {
		return nil, err
	}
	return uuid.FromBytes(data)
}

func (uuidCodec) parse(text string) (any, error) {
	return uuid.Parse(text)
}

type varCharCodec struct{}

func (varCharCodec) size(column catalog.Column, datum any) (int, error) {
	text, ok := datum.(string)
	if !ok {
		return 0, mismatch(column, datum)
	}
	if column.Length > 0 && len(text) > column.Length {
		return 0, columnError(ErrTypeMismatch, column, "%d bytes exceed VARCHAR(%d)", len(text), column.Length)
	}
	return len(text), nil
}

func (varCharCodec) put(w *rowbuf.Writer, _ catalog.Column, datum any) {
	w.WriteBytes([]byte(datum.(string)))
}

func (varCharCodec) get(_ catalog.Column, data []byte) (any, error) {
	return string(data), nil
}

func (varCharCodec) parse(text string) (any, error) {
	return text, nil
}

type varBinaryCodec struct{}

func (varBinaryCodec) size(column catalog.Column, datum any) (int, error) {
	data, ok := datum.([]byte)
	if !ok {
		return 0, mismatch(column, datum)
	}
	if column.Length > 0 && len(data) > column.Length {
		return 0, columnError(ErrTypeMismatch, column, "%d bytes exceed VARBINARY(%d)", len(data), column.Length)
	}
	return len(data), nil
}

func (varBinaryCodec) put(w *rowbuf.Writer, _ catalog.Column, datum any) {
	w.WriteBytes(datum.([]byte))
}

func (varBinaryCodec) get(_ catalog.Column, data []byte) (any, error) {
	return bytes.Clone(data), nil
}

// VARBINARY text is either 0x-prefixed hex or the raw bytes.
func (varBinaryCodec) parse(text string) (any, error) {
	if hexText, ok := strings.CutPrefix(text, "0x"); ok {
		return hex.DecodeString(hexText)
	}
	return []byte(text), nil
}
