// Package recordfile stores encoded rows of one table as a flat, append-only file of
// key-value entries.
package recordfile

import (
	"bufio"
	"iter"
	"os"

	"github.com/navijation/njtable/storage/row"
	"github.com/navijation/njtable/util"
	"github.com/pkg/errors"
)

var ErrTableMismatch = errors.New("record file belongs to another table")

type RecordFile struct {
	path   string
	header Header
	file   *os.File
}

type OpenArgs struct {
	Path   string
	Create bool
	// Table names the table on create, and is checked against the header on open when
	// set.
	Table util.Optional[string]
}

func Open(args OpenArgs) (out RecordFile, err error) {
	flags := os.O_RDWR
	if args.Create {
		flags |= (os.O_CREATE | os.O_EXCL)
	}
	file, err := os.OpenFile(args.Path, flags, 0o644)
	if err != nil {
		return out, err
	}

	out = RecordFile{
		path: args.Path,
		file: file,
	}

	defer func() {
		if err != nil {
			_ = file.Close()
			if args.Create {
				_ = os.Remove(args.Path)
			}
		}
	}()

	table, hasTable := args.Table.Unpack()
	if args.Create {
		out.header = Header{
			ID:      util.NewRandomUUIDBytes(),
			Version: currentVersion,
			Table:   table,
		}
		out.header.FileSize = out.header.SizeOf()
		w := out.fileWrapperAt(0)
		if _, err := out.header.WriteTo(&w); err != nil {
			return out, err
		}
		if err := out.file.Sync(); err != nil {
			return out, err
		}
		return out, nil
	}

	if _, err := out.header.ReadFrom(out.readBufferAt(0)); err != nil {
		return out, errors.Wrapf(err, "failed to read header of %q", args.Path)
	}
	if hasTable && table != out.header.Table {
		return out, errors.Wrapf(ErrTableMismatch, "%q holds %q, not %q", args.Path, out.header.Table, table)
	}

	// a crash between appending entries and updating the header leaves unreferenced
	// bytes at the end; drop them
	_ = out.truncateToHeader()

	return out, nil
}

func (me *RecordFile) Close() error {
	return me.file.Close()
}

func (me *RecordFile) Path() string {
	return me.path
}

func (me *RecordFile) Header() Header {
	return me.header
}

func (me *RecordFile) Entries() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		location := EntryLocation{Offset: me.header.SizeOf()}
		buffer := me.readBufferAt(location.Offset)

		for location.Offset < me.header.FileSize {
			var entry storedEntry
			n, err := entry.readLimited(buffer, me.header.FileSize-location.Offset)
			if err != nil {
				err = errors.Wrapf(err, "entry #%d at %d", location.EntryNumber, location.Offset)
			}

			if !yield(entry.toEntry(location), err) {
				return
			}
			if err != nil {
				return
			}

			location.Offset += uint64(n)
			location.EntryNumber++
		}
	}
}

// AppendEntries writes records after the last entry and then publishes them by
// rewriting the header. Either every record becomes visible or none does.
func (me *RecordFile) AppendEntries(records iter.Seq[row.Encoded]) (err error) {
	fileWrapper := me.fileWrapperAt(me.header.FileSize)

	defer func() {
		if err != nil {
			_ = me.truncateToHeader()
		}
	}()

	var (
		offset       uint64
		entriesAdded uint64
	)
	writer := bufio.NewWriter(&fileWrapper)
	for record := range records {
		entry := storedEntry{Key: record.Key, Value: record.Value}
		n, err := entry.WriteTo(writer)
		if err != nil {
			return err
		}
		offset += uint64(n)
		entriesAdded++
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	// sync contents before the header so the header never points at unwritten entries
	if err := me.file.Sync(); err != nil {
		return err
	}

	return me.writeNewSize(me.header.FileSize+offset, me.header.NumEntries+entriesAdded)
}

func (me *RecordFile) readBufferAt(offset uint64) *bufio.Reader {
	w := me.fileWrapperAt(offset)
	return bufio.NewReader(&w)
}

func (me *RecordFile) fileWrapperAt(offset uint64) util.FileWrapper {
	return util.NewFileWrapperAt(me.file, offset)
}

func (me *RecordFile) truncateToHeader() error {
	return me.file.Truncate(int64(me.header.FileSize))
}

func (me *RecordFile) writeNewSize(size, numEntries uint64) error {
	fileWrapper := me.fileWrapperAt(0)
	newHeader := me.header.WithNewSize(size, numEntries)

	if _, err := newHeader.WriteTo(&fileWrapper); err != nil {
		return err
	}

	if err := me.file.Sync(); err != nil {
		return err
	}

	me.header = newHeader
	return nil
}
