package catalog

import (
	"slices"

	"github.com/pkg/errors"
)

var ErrInvalidSchema = errors.New("invalid schema")

// MaxDeclaredLength bounds CHAR/VARCHAR/VARBINARY declarations; a longer field could
// never fit in a record addressed by 16-bit offsets.
const MaxDeclaredLength = 1<<15 - 1

// Column describes one column of a table. Ordinal is assigned by NewSchema.
type Column struct {
	Name       string
	Ordinal    int
	Type       ColumnType
	Length     int
	PrimaryKey bool
}

// Width is the width capability of the column's type.
func (me Column) Width() Width {
	width, _ := me.Type.Width()
	return width
}

// FixedLength returns the encoded length of a fixed-width column.
func (me Column) FixedLength() (int, bool) {
	if width, ok := me.Type.Width(); !ok || width != FixedWidth {
		return 0, false
	}
	return me.Length, true
}

// Schema is an immutable, ordered list of columns for one table. It is safe to share
// between goroutines.
type Schema struct {
	name    string
	columns []Column

	numKeyColumns int
	// header slot of each column in the value buffer, -1 for primary key columns
	valueSlots []int
}

// NewSchema validates the columns and freezes them into a Schema. Column types the
// catalog does not know are kept as-is; encoders reject them.
func NewSchema(name string, columns []Column) (*Schema, error) {
	if len(columns) == 0 {
		return nil, errors.Wrapf(ErrInvalidSchema, "table %q has no columns", name)
	}

	out := &Schema{
		name:       name,
		columns:    slices.Clone(columns),
		valueSlots: make([]int, len(columns)),
	}

	seen := make(map[string]struct{}, len(columns))
	for i := range out.columns {
		column := &out.columns[i]
		column.Ordinal = i

		if column.Name == "" {
			return nil, errors.Wrapf(ErrInvalidSchema, "table %q: column %d has no name", name, i)
		}
		if _, dup := seen[column.Name]; dup {
			return nil, errors.Wrapf(ErrInvalidSchema, "table %q: duplicate column %q", name, column.Name)
		}
		seen[column.Name] = struct{}{}

		if err := normalizeLength(column); err != nil {
			return nil, errors.Wrapf(err, "table %q", name)
		}

		if column.PrimaryKey {
			out.valueSlots[i] = -1
			out.numKeyColumns++
		} else {
			out.valueSlots[i] = i - out.numKeyColumns
		}
	}

	return out, nil
}

func normalizeLength(column *Column) error {
	if column.Length < 0 || column.Length > MaxDeclaredLength {
		return errors.Wrapf(ErrInvalidSchema, "column %q: length %d out of range", column.Name, column.Length)
	}
	if !column.Type.Known() {
		return nil
	}

	switch {
	case column.Type.needsLength():
		if column.Length == 0 {
			return errors.Wrapf(ErrInvalidSchema, "column %q: %s needs a length", column.Name, column.Type)
		}
	case column.Width() == FixedWidth:
		size := typeTable[column.Type].size
		if column.Length != 0 && column.Length != size {
			return errors.Wrapf(
				ErrInvalidSchema, "column %q: %s is %d bytes, declared %d",
				column.Name, column.Type, size, column.Length,
			)
		}
		column.Length = size
	}
	return nil
}

func (me *Schema) Name() string {
	return me.name
}

func (me *Schema) NumColumns() int {
	return len(me.columns)
}

func (me *Schema) NumKeyColumns() int {
	return me.numKeyColumns
}

func (me *Schema) NumValueColumns() int {
	return len(me.columns) - me.numKeyColumns
}

func (me *Schema) Column(ordinal int) Column {
	return me.columns[ordinal]
}

func (me *Schema) Columns() []Column {
	return slices.Clone(me.columns)
}

// KeyColumns returns the primary key columns in schema order.
func (me *Schema) KeyColumns() []Column {
	out := make([]Column, 0, me.numKeyColumns)
	for _, column := range me.columns {
		if column.PrimaryKey {
			out = append(out, column)
		}
	}
	return out
}

// ValueSlot returns the index of a non-key column's entry in the value header.
func (me *Schema) ValueSlot(ordinal int) (slot int, ok bool) {
	if ordinal < 0 || ordinal >= len(me.valueSlots) || me.valueSlots[ordinal] < 0 {
		return 0, false
	}
	return me.valueSlots[ordinal], true
}
