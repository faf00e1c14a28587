package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/navijation/njtable/storage/recordfile"
	"github.com/navijation/njtable/storage/row"
	"github.com/navijation/njtable/util"
	"github.com/urfave/cli/v3"
)

func encodeRows(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("usage: encode --schema catalog.yaml --table name record_file")
	}

	schema, err := loadSchema(cmd)
	if err != nil {
		return err
	}

	path := cmd.Args().First()

	var create bool
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		create = true
	}

	file, err := recordfile.Open(recordfile.OpenArgs{
		Path:   path,
		Create: create,
		Table:  util.Some(schema.Name()),
	})
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", path, err)
	}

	defer file.Close()

	var (
		scanErr error
		skipped int
	)
	err = file.AppendEntries(func(yield func(row.Encoded) bool) {
		scanner := bufio.NewScanner(os.Stdin)
		for lineNumber := 1; scanner.Scan(); lineNumber++ {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			encoded, err := encodeLine(schema, line)
			if err != nil {
				log.Printf("Skipping line %d: %s", lineNumber, err.Error())
				skipped++
				continue
			}

			if !yield(encoded) {
				return
			}
		}
		scanErr = scanner.Err()
	})
	if err != nil {
		return err
	}
	if scanErr != nil {
		return scanErr
	}

	fmt.Printf("%d records in %q, %d lines skipped\n", file.Header().NumEntries, path, skipped)
	return nil
}
