package catalog

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Catalog is a read-only set of table schemas, usually loaded from a YAML file:
//
//	tables:
//	  - name: users
//	    columns:
//	      - {name: id, type: INTEGER, primary_key: true}
//	      - {name: name, type: VARCHAR(64)}
type Catalog struct {
	tables map[string]*Schema
	names  []string
}

type catalogFile struct {
	Tables []tableFile `yaml:"tables"`
}

type tableFile struct {
	Name    string       `yaml:"name"`
	Columns []columnFile `yaml:"columns"`
}

type columnFile struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Length     int    `yaml:"length"`
	PrimaryKey bool   `yaml:"primary_key"`
}

func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read catalog file")
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "failed to parse catalog file")
	}

	out := &Catalog{tables: make(map[string]*Schema, len(file.Tables))}
	for _, table := range file.Tables {
		if table.Name == "" {
			return nil, errors.Wrap(ErrInvalidSchema, "table without a name")
		}
		if _, dup := out.tables[table.Name]; dup {
			return nil, errors.Wrapf(ErrInvalidSchema, "duplicate table %q", table.Name)
		}

		columns := make([]Column, 0, len(table.Columns))
		for _, column := range table.Columns {
			columnType, length, err := parseTypeSpec(column.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "table %q column %q", table.Name, column.Name)
			}
			if column.Length != 0 {
				length = column.Length
			}
			columns = append(columns, Column{
				Name:       column.Name,
				Type:       columnType,
				Length:     length,
				PrimaryKey: column.PrimaryKey,
			})
		}

		schema, err := NewSchema(table.Name, columns)
		if err != nil {
			return nil, err
		}
		out.tables[table.Name] = schema
		out.names = append(out.names, table.Name)
	}

	return out, nil
}

// parseTypeSpec accepts "TYPE" or "TYPE(length)".
func parseTypeSpec(spec string) (ColumnType, int, error) {
	name, rest, hasLength := strings.Cut(spec, "(")

	columnType, ok := ParseColumnType(name)
	if !ok {
		return TypeInvalid, 0, errors.Wrapf(ErrInvalidSchema, "unknown type %q", spec)
	}
	if !hasLength {
		return columnType, 0, nil
	}

	lengthText, ok := strings.CutSuffix(strings.TrimSpace(rest), ")")
	if !ok {
		return TypeInvalid, 0, errors.Wrapf(ErrInvalidSchema, "malformed type %q", spec)
	}
	length, err := strconv.Atoi(strings.TrimSpace(lengthText))
	if err != nil {
		return TypeInvalid, 0, errors.Wrapf(ErrInvalidSchema, "malformed length in %q", spec)
	}
	return columnType, length, nil
}

func (me *Catalog) Table(name string) (*Schema, bool) {
	schema, ok := me.tables[name]
	return schema, ok
}

// TableNames lists tables in file order.
func (me *Catalog) TableNames() []string {
	return append([]string(nil), me.names...)
}
