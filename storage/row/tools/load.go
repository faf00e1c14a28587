package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/navijation/njtable/db/table"
	"github.com/navijation/njtable/storage/recordfile"
	"github.com/navijation/njtable/util"
	"github.com/urfave/cli/v3"
)

func loadRecordFile(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("usage: load --schema catalog.yaml --table name --db dir record_file")
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

	backend, err := table.OpenPebble(table.PebbleArgs{
		Path:    cmd.String("db"),
		Options: table.Options{SyncWrites: util.Some(!cmd.Bool("no-sync"))},
	})
	if err != nil {
		return err
	}

	tbl, err := table.Open(table.OpenArgs{Schema: schema, Backend: backend})
	if err != nil {
		_ = backend.Close()
		return err
	}

	defer tbl.Close()

	var loaded int
	for entry, err := range file.Entries() {
		if err != nil {
			return fmt.Errorf("failed to read record file entry: %w", err)
		}
		r, err := decodeRecord(schema, entry.Record)
		if err != nil {
			return fmt.Errorf("record #%d: %w", entry.Location.EntryNumber, err)
		}
		if err := tbl.Upsert(r); err != nil {
			return fmt.Errorf("record #%d: %w", entry.Location.EntryNumber, err)
		}
		loaded++
	}

	fmt.Printf("%d rows loaded into %q\n", loaded, cmd.String("db"))
	return nil
}
