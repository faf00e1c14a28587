package row

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Value is one column datum. The zero Value is NULL.
//
// The Go type held by a Value must match the column it is stored in:
//
//	SMALLINT -> int16     INTEGER -> int32     BIGINT -> int64
//	REAL     -> float64   BOOLEAN -> bool      UUID   -> uuid.UUID
//	CHAR, VARCHAR -> string                    VARBINARY -> []byte
type Value struct {
	datum any
}

// Row is an ordered list of values, one per schema column.
type Row []Value

func Null() Value { return Value{} }
func SmallInt(v int16) Value { return Value{datum: v} }
func Int(v int32) Value { return Value{datum: v} }
func BigInt(v int64) Value { return Value{datum: v} }
func Real(v float64) Value { return Value{datum: v} }
func Bool(v bool) Value { return Value{datum: v} }
func Text(v string) Value { return Value{datum: v} }
func Bytes(v []byte) Value { return Value{datum: v} }
func UUID(v uuid.UUID) Value { return Value{datum: v} }
func ValueOf(v any) Value { return Value{datum: v} }
func (v Value) IsNull() bool { return v.datum == nil }

// RowOf wraps plain Go values; nil becomes NULL.
func RowOf(values ...any) Row {
	out := make(Row, len(values))
	for i, v := range values {
		out[i] = ValueOf(v)
	}
	return out
}

func (v Value) String() string {
	switch datum := v.datum.(type) {
	case nil:
		return "NULL"
	case string:
		return strconv.Quote(datum)
	case []byte:
		return "0x" + hex.EncodeToString(datum)
	case float64:
		return strconv.FormatFloat(datum, 'g', -1, 64)
	default:
		return fmt.Sprint(datum)
	}
}
