package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	schemaFlags := []cli.Flag{
		&cli.StringFlag{
			Name:     "schema",
			Usage:    "path of the YAML catalog",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "table",
			Usage:    "table in the catalog the rows belong to",
			Required: true,
		},
	}

	app := &cli.Command{
		Name:  "row_tools",
		Usage: "work with encoded table rows",
		Commands: []*cli.Command{
			{
				Name:      "encode",
				Usage:     "encode comma-separated rows from stdin into a record file",
				ArgsUsage: "record_file",
				Action:    encodeRows,
				Flags:     schemaFlags,
			},
			{
				Name:      "dump",
				Usage:     "print the header and every record of a record file",
				ArgsUsage: "record_file",
				Action:    dumpRecordFile,
				Flags:     schemaFlags,
			},
			{
				Name:      "layout",
				Usage:     "print the planned header slots of one row",
				ArgsUsage: `"v1, v2, ..."`,
				Action:    printLayout,
				Flags:     schemaFlags,
			},
			{
				Name:      "load",
				Usage:     "upsert the rows of a record file into a pebble-backed table",
				ArgsUsage: "record_file",
				Action:    loadRecordFile,
				Flags: append(schemaFlags,
					&cli.StringFlag{
						Name:     "db",
						Usage:    "directory of the pebble database",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "no-sync",
						Usage: "do not sync every write to disk",
					},
				),
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
