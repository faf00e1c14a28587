package row

import (
	"strconv"
	"strings"

	"github.com/navijation/njtable/storage/catalog"
)

// ParseValue converts the text form of a value into the Go type column expects.
//
// NULL (any case) is the null value; "quoted" text is unquoted first, which is the only
// way to spell the string "NULL". VARBINARY accepts 0x-prefixed hex or raw text.
func ParseValue(column catalog.Column, text string) (Value, error) {
	text = strings.TrimSpace(text)
	if strings.EqualFold(text, "NULL") {
		return Null(), nil
	}
	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return Value{}, columnError(ErrTypeMismatch, column, "bad quoted text %s", text)
		}
		text = unquoted
	}

	codec, err := codecFor(column)
	if err != nil {
		return Value{}, err
	}
	datum, err := codec.parse(text)
	if err != nil {
		return Value{}, columnError(ErrTypeMismatch, column, "%v", err)
	}
	if _, err := codec.size(column, datum); err != nil {
		return Value{}, err
	}
	return Value{datum: datum}, nil
}

// ParseRow parses one text field per schema column.
func ParseRow(schema *catalog.Schema, fields []string) (Row, error) {
	if len(fields) != schema.NumColumns() {
		return nil, errorf(ErrSchemaMismatch,
			"table %q has %d columns, got %d fields", schema.Name(), schema.NumColumns(), len(fields),
		)
	}

	out := make(Row, len(fields))
	for ordinal, field := range fields {
		value, err := ParseValue(schema.Column(ordinal), field)
		if err != nil {
			return nil, err
		}
		out[ordinal] = value
	}
	return out, nil
}
