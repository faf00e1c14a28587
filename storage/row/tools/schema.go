package main

import (
	"fmt"
	"strings"

	"github.com/navijation/njtable/storage/catalog"
	"github.com/navijation/njtable/storage/row"
	"github.com/urfave/cli/v3"
)

func loadSchema(cmd *cli.Command) (*catalog.Schema, error) {
	schemaPath, tableName := cmd.String("schema"), cmd.String("table")

	cat, err := catalog.LoadCatalog(schemaPath)
	if err != nil {
		return nil, err
	}
	schema, ok := cat.Table(tableName)
	if !ok {
		return nil, fmt.Errorf(
			"no table %q in %q; have %s", tableName, schemaPath, strings.Join(cat.TableNames(), ", "),
		)
	}
	return schema, nil
}

func parseLine(schema *catalog.Schema, line string) (row.Row, error) {
	fields, err := splitFields(line)
	if err != nil {
		return nil, err
	}
	return row.ParseRow(schema, fields)
}

func encodeLine(schema *catalog.Schema, line string) (row.Encoded, error) {
	r, err := parseLine(schema, line)
	if err != nil {
		return row.Encoded{}, err
	}
	return row.Encode(schema, r)
}

// splitFields splits a row on commas that are not inside double quotes. Quotes and
// escapes are kept so that the value parser can tell "NULL" from NULL.
func splitFields(line string) ([]string, error) {
	var (
		fields   []string
		start    int
		inQuotes bool
		escaped  bool
	)
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case escaped:
			escaped = false
		case inQuotes && c == '\\':
			escaped = true
		case c == '"':
			inQuotes = !inQuotes
		case !inQuotes && c == ',':
			fields = append(fields, line[start:i])
			start = i + 1
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("unterminated quote in %q", line)
	}
	return append(fields, line[start:]), nil
}
