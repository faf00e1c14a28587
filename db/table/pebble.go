package table

import (
	"bytes"
	"iter"

	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"
)

var _ Backend = (*PebbleBackend)(nil)

// PebbleBackend stores pairs in a pebble database.
type PebbleBackend struct {
	db        *pebble.DB
	writeOpts *pebble.WriteOptions
}

type PebbleArgs struct {
	Path    string
	Options Options
	// Pebble overrides the pebble options; tests use it to run on an in-memory FS.
	Pebble *pebble.Options
}

func OpenPebble(args PebbleArgs) (*PebbleBackend, error) {
	options := args.Options
	options.FillDefaults()

	pebbleOptions := args.Pebble
	if pebbleOptions == nil {
		pebbleOptions = &pebble.Options{}
	}

	db, err := pebble.Open(args.Path, pebbleOptions)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open pebble database %q", args.Path)
	}

	writeOpts := pebble.NoSync
	if options.SyncWrites.Or(defaultSyncWrites) {
		writeOpts = pebble.Sync
	}
	return &PebbleBackend{db: db, writeOpts: writeOpts}, nil
}

func (me *PebbleBackend) Put(key, value []byte) error {
	return me.db.Set(key, value, me.writeOpts)
}

func (me *PebbleBackend) Get(key []byte) (value []byte, exists bool, _ error) {
	data, closer, err := me.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer closer.Close()

	// data is only valid until closer is closed
	return bytes.Clone(data), true, nil
}

func (me *PebbleBackend) Delete(key []byte) error {
	return me.db.Delete(key, me.writeOpts)
}

func (me *PebbleBackend) Scan() iter.Seq2[KeyValuePair, error] {
	return func(yield func(KeyValuePair, error) bool) {
		it, err := me.db.NewIter(nil)
		if err != nil {
			yield(KeyValuePair{}, err)
			return
		}
		defer it.Close()

		for valid := it.First(); valid; valid = it.Next() {
			kvp := KeyValuePair{
				Key:   bytes.Clone(it.Key()),
				Value: bytes.Clone(it.Value()),
			}
			if !yield(kvp, nil) {
				return
			}
		}
		if err := it.Error(); err != nil {
			yield(KeyValuePair{}, err)
		}
	}
}

func (me *PebbleBackend) Close() error {
	return me.db.Close()
}
