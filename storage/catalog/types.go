package catalog

import (
	"fmt"
	"strings"
)

// ColumnType is the type discriminant stored in a column definition.
type ColumnType uint8

const (
	TypeInvalid ColumnType = iota
	TypeSmallInt
	TypeInteger
	TypeBigInt
	TypeReal
	TypeBoolean
	TypeChar
	TypeUUID
	TypeVarChar
	TypeVarBinary
)

// Width says whether a type's encoded length is known from the schema alone.
type Width uint8

const (
	FixedWidth Width = iota
	VariableWidth
)

type typeInfo struct {
	name  string
	width Width
	// encoded length of fixed types whose length does not come from the column
	// declaration; zero means "use the declared length"
	size int
}

var typeTable = map[ColumnType]typeInfo{
	TypeSmallInt:  {name: "SMALLINT", width: FixedWidth, size: 2},
	TypeInteger:   {name: "INTEGER", width: FixedWidth, size: 4},
	TypeBigInt:    {name: "BIGINT", width: FixedWidth, size: 8},
	TypeReal:      {name: "REAL", width: FixedWidth, size: 8},
	TypeBoolean:   {name: "BOOLEAN", width: FixedWidth, size: 1},
	TypeChar:      {name: "CHAR", width: FixedWidth},
	TypeUUID:      {name: "UUID", width: FixedWidth, size: 16},
	TypeVarChar:   {name: "VARCHAR", width: VariableWidth},
	TypeVarBinary: {name: "VARBINARY", width: VariableWidth},
}

var typeAliases = map[string]ColumnType{
	"INT":    TypeInteger,
	"INT2":   TypeSmallInt,
	"INT4":   TypeInteger,
	"INT8":   TypeBigInt,
	"DOUBLE": TypeReal,
	"FLOAT":  TypeReal,
	"BOOL":   TypeBoolean,
	"TEXT":   TypeVarChar,
	"BYTES":  TypeVarBinary,
	"BLOB":   TypeVarBinary,
}

// ParseColumnType resolves a type name (case-insensitive, common aliases accepted).
func ParseColumnType(name string) (ColumnType, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if alias, ok := typeAliases[name]; ok {
		return alias, true
	}
	for columnType, info := range typeTable {
		if info.name == name {
			return columnType, true
		}
	}
	return TypeInvalid, false
}

func (me ColumnType) Known() bool {
	_, ok := typeTable[me]
	return ok
}

// Width reports the width capability of the type. Unknown types report
// VariableWidth and false.
func (me ColumnType) Width() (Width, bool) {
	info, ok := typeTable[me]
	if !ok {
		return VariableWidth, false
	}
	return info.width, true
}

// needsLength reports whether a column of this type must declare its length.
func (me ColumnType) needsLength() bool {
	info := typeTable[me]
	return info.width == FixedWidth && info.size == 0
}

func (me ColumnType) String() string {
	if info, ok := typeTable[me]; ok {
		return info.name
	}
	return fmt.Sprintf("ColumnType(%d)", uint8(me))
}

func (me Width) String() string {
	if me == FixedWidth {
		return "fixed"
	}
	return "variable"
}
