package recordfile

import (
	"io"
	"math"

	"github.com/navijation/njtable/storage/row"
	"github.com/navijation/njtable/util"
	"github.com/pkg/errors"
)

const (
	entryFramingSize = 16
	maxEntrySize     = math.MaxUint32
)

type EntryLocation struct {
	EntryNumber uint64
	Offset      uint64
}

type Entry struct {
	Location EntryLocation
	Record   row.Encoded
}

// ___________________________________________________________
// | 8 bytes  | (key size) bytes | 8 bytes    | (value size) |
// |---------------------------------------------------------|
// | key size |     key          | value size |    value     |
// |---------------------------------------------------------|
type storedEntry struct {
	Key   []byte
	Value []byte
}

func (me *storedEntry) WriteTo(writer io.Writer) (n int64, _ error) {
	dn, err := util.WriteSized(writer, me.Key)
	n += int64(dn)
	if err != nil {
		return n, err
	}

	dn, err = util.WriteSized(writer, me.Value)
	return n + int64(dn), err
}

func (me *storedEntry) ReadFrom(reader io.Reader) (n int64, err error) {
	return me.readLimited(reader, maxEntrySize)
}

// readLimited reads an entry that may span at most limit bytes, framing included.
func (me *storedEntry) readLimited(reader io.Reader, limit uint64) (n int64, err error) {
	if limit < entryFramingSize {
		return 0, errors.Wrapf(io.ErrUnexpectedEOF, "%d bytes left for an entry", limit)
	}
	limit -= entryFramingSize

	var dn int

	me.Key, dn, err = util.ReadSized(reader, limit)
	n += int64(dn)
	if err != nil {
		return n, errors.Wrap(err, "entry key")
	}

	me.Value, dn, err = util.ReadSized(reader, limit-uint64(len(me.Key)))
	n += int64(dn)
	if err != nil {
		return n, errors.Wrap(err, "entry value")
	}
	return n, nil
}

func (me *storedEntry) SizeOf() uint64 {
	return entryFramingSize + uint64(len(me.Key)) + uint64(len(me.Value))
}

func (me *storedEntry) toEntry(location EntryLocation) Entry {
	return Entry{
		Location: location,
		Record:   row.Encoded{Key: me.Key, Value: me.Value},
	}
}
