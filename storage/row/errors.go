package row

import (
	"github.com/navijation/njtable/storage/catalog"
	"github.com/pkg/errors"
)

var (
	ErrSchemaMismatch  = errors.New("row does not match schema")
	ErrNullPrimaryKey  = errors.New("primary key value is null")
	ErrTypeMismatch    = errors.New("value does not match column type")
	ErrUnsupportedType = errors.New("unsupported column type")
	ErrRecordTooLarge  = errors.New("record too large")
	ErrCorruptRecord   = errors.New("corrupt record")
	ErrNotValueColumn  = errors.New("column is stored in the key")
)

func columnError(err error, column catalog.Column, format string, args ...any) error {
	return errors.Wrapf(
		errors.Wrapf(err, format, args...),
		"column %d (%s %s)", column.Ordinal, column.Name, column.Type,
	)
}

func errorf(err error, format string, args ...any) error {
	return errors.Wrapf(err, format, args...)
}
