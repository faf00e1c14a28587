package recordfile

import (
	"io"

	"github.com/navijation/njtable/util"
	"github.com/pkg/errors"
)

const (
	currentVersion uint64 = 1

	maxTableNameSize = 1 << 16
)

var ErrBadHeader = errors.New("bad record file header")

// Header sits at the start of every record file.
// _____________________________________________________________________________
// | 16 bytes | 8 bytes | 8 bytes   | 8 bytes     | 8 bytes    | (n) bytes    |
// |----------------------------------------------------------------------------|
// | file ID  | version | file size | num entries | table name | table name   |
// |          |         |           |             | size (n)   |              |
// |----------------------------------------------------------------------------|
type Header struct {
	ID         [16]byte
	Version    uint64
	FileSize   uint64
	NumEntries uint64
	Table      string
}

func (me Header) WithNewSize(fileSize, numEntries uint64) Header {
	me.FileSize = fileSize
	me.NumEntries = numEntries
	return me
}

func (me *Header) WriteTo(writer io.Writer) (n int64, _ error) {
	dn, err := writer.Write(me.ID[:])
	n += int64(dn)
	if err != nil {
		return n, err
	}

	dn, err = util.WriteUint64s(writer, me.Version, me.FileSize, me.NumEntries)
	n += int64(dn)
	if err != nil {
		return n, err
	}

	dn, err = util.WriteSized(writer, []byte(me.Table))
	return n + int64(dn), err
}

func (me *Header) ReadFrom(reader io.Reader) (n int64, _ error) {
	dn, err := io.ReadFull(reader, me.ID[:])
	n += int64(dn)
	if err != nil {
		return n, err
	}

	dn, err = util.ReadUint64s(reader, &me.Version, &me.FileSize, &me.NumEntries)
	n += int64(dn)
	if err != nil {
		return n, err
	}
	if me.Version != currentVersion {
		return n, errors.Wrapf(ErrBadHeader, "unsupported version %d", me.Version)
	}

	table, dn, err := util.ReadSized(reader, maxTableNameSize)
	n += int64(dn)
	if err != nil {
		return n, errors.Wrapf(ErrBadHeader, "table name: %v", err)
	}
	me.Table = string(table)

	if me.FileSize < me.SizeOf() {
		return n, errors.Wrapf(ErrBadHeader, "file size %d smaller than header", me.FileSize)
	}
	return n, nil
}

func (me Header) SizeOf() uint64 {
	return 16 + 3*8 + 8 + uint64(len(me.Table))
}
