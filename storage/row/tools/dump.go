package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/navijation/njtable/storage/catalog"
	"github.com/navijation/njtable/storage/recordfile"
	"github.com/navijation/njtable/storage/row"
	"github.com/navijation/njtable/util"
	"github.com/urfave/cli/v3"
)

func dumpRecordFile(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("usage: dump --schema catalog.yaml --table name record_file")
	}

	schema, err := loadSchema(cmd)
	if err != nil {
		return err
	}

	path := cmd.Args().First()

	file, err := recordfile.Open(recordfile.OpenArgs{
		Path:  path,
		Table: util.Some(schema.Name()),
	})
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", path, err)
	}

	defer file.Close()

	header := file.Header()
	fmt.Printf(
		"Header\n"+
			"  ID: %s\n"+
			"  Version: %d\n"+
			"  Table: %s\n"+
			"  Size: %d\n"+
			"  Entries: %d\n\n",
		util.UUIDFromBytes(header.ID).String(),
		header.Version,
		header.Table,
		header.FileSize,
		header.NumEntries,
	)

	fmt.Printf("Entries:\n")
	for entry, err := range file.Entries() {
		if err != nil {
			return fmt.Errorf("failed to read record file entry: %w", err)
		}

		fmt.Printf("  - #%d @%d: key %x (%d bytes), value %d bytes\n",
			entry.Location.EntryNumber, entry.Location.Offset,
			entry.Record.Key, len(entry.Record.Key), len(entry.Record.Value),
		)

		view, err := row.NewValueView(schema, entry.Record.Value)
		if err != nil {
			fmt.Printf("      corrupt: %s\n", err.Error())
			continue
		}
		fmt.Printf("      offsets: %v\n", view.Offsets())

		decoded, err := decodeRecord(schema, entry.Record)
		if err != nil {
			fmt.Printf("      corrupt: %s\n", err.Error())
			continue
		}
		fmt.Printf("      row: %s\n", formatRow(schema, decoded))
	}

	return nil
}

func decodeRecord(schema *catalog.Schema, record row.Encoded) (row.Row, error) {
	if schema.NumKeyColumns() == 0 {
		return row.DecodeValue(schema, record.Value)
	}
	return row.Decode(schema, record)
}

func formatRow(schema *catalog.Schema, r row.Row) string {
	parts := make([]string, len(r))
	for ordinal, value := range r {
		parts[ordinal] = fmt.Sprintf("%s=%s", schema.Column(ordinal).Name, value.String())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
