package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/navijation/njtable/storage/row"
	"github.com/urfave/cli/v3"
)

func printLayout(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New(`usage: layout --schema catalog.yaml --table name "v1, v2, ..."`)
	}

	schema, err := loadSchema(cmd)
	if err != nil {
		return err
	}

	r, err := parseLine(schema, cmd.Args().First())
	if err != nil {
		return err
	}

	layout, err := row.Plan(schema, r)
	if err != nil {
		return err
	}

	fmt.Printf(
		"Layout\n"+
			"  Key Size: %d\n"+
			"  Header Size: %d\n"+
			"  Value Size: %d\n"+
			"  Slots:\n",
		layout.KeySize(),
		layout.HeaderSize(),
		layout.ValueSize(),
	)

	slot := 0
	for ordinal, column := range schema.Columns() {
		if column.PrimaryKey {
			fmt.Printf("   - %s: key\n", column.Name)
			continue
		}
		offset := layout.Offsets[slot]
		if offset == row.NullOffset {
			fmt.Printf("   - %s: NULL (%d)\n", column.Name, offset)
		} else {
			fmt.Printf("   - %s: @%d %s\n", column.Name, offset, r[ordinal].String())
		}
		slot++
	}
	fmt.Printf("   - end: @%d\n", layout.Offsets[slot])

	return nil
}
