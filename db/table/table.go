// Package table stores the rows of one schema in a sorted key-value backend, one
// encoded key-value pair per row.
package table

import (
	"iter"
	"log"
	"sync"
	"sync/atomic"

	"github.com/navijation/njtable/storage/catalog"
	"github.com/navijation/njtable/storage/row"
	"github.com/navijation/njtable/util"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
)

var (
	ErrClosed       = errors.New("table is closed")
	ErrDuplicateKey = errors.New("duplicate primary key")
	ErrNoPrimaryKey = errors.New("table has no primary key")
)

type Table struct {
	// immutable config
	schema  *catalog.Schema
	backend Backend
	metrics util.Optional[*Metrics]

	// held across the existence check and write of Insert
	writeLock sync.Mutex
	closed    atomic.Bool
}

type OpenArgs struct {
	Schema  *catalog.Schema
	Backend Backend
	Metrics util.Optional[*Metrics]
}

func Open(args OpenArgs) (*Table, error) {
	if args.Schema == nil {
		return nil, errors.New("table: schema is required")
	}
	if args.Backend == nil {
		return nil, errors.New("table: backend is required")
	}
	return &Table{
		schema:  args.Schema,
		backend: args.Backend,
		metrics: args.Metrics,
	}, nil
}

func (me *Table) Schema() *catalog.Schema {
	return me.schema
}

// Insert stores r, failing with ErrDuplicateKey if a row with the same primary key is
// already present. Rows of a table without a primary key always get a new key.
func (me *Table) Insert(r row.Row) error {
	return me.write(r, false)
}

// Upsert stores r, replacing any row with the same primary key.
func (me *Table) Upsert(r row.Row) error {
	return me.write(r, true)
}

func (me *Table) write(r row.Row, replace bool) error {
	if err := me.checkOpen(); err != nil {
		return err
	}

	encoded, err := row.Encode(me.schema, r)
	if err != nil {
		me.recordEncodeFailure(err)
		return err
	}

	key := me.storageKey(encoded)

	me.writeLock.Lock()
	defer me.writeLock.Unlock()

	if !replace && me.hasPrimaryKey() {
		_, exists, err := me.backend.Get(key)
		if err != nil {
			return err
		}
		if exists {
			err := errors.Wrapf(ErrDuplicateKey, "table %q", me.schema.Name())
			me.recordEncodeFailure(err)
			return err
		}
	}

	if err := me.backend.Put(key, encoded.Value); err != nil {
		return errors.Wrapf(err, "failed to store row in table %q", me.schema.Name())
	}

	if metrics, ok := me.metrics.Unpack(); ok {
		metrics.RecordEncoded(me.schema.Name(), encoded)
	}
	return nil
}

// Lookup finds the row whose primary key columns equal keyValues, given in schema
// order.
func (me *Table) Lookup(keyValues row.Row) (_ row.Row, exists bool, _ error) {
	if err := me.checkOpen(); err != nil {
		return nil, false, err
	}

	key, err := me.encodeKey(keyValues)
	if err != nil {
		return nil, false, err
	}

	value, exists, err := me.backend.Get(key)
	if err != nil || !exists {
		return nil, false, err
	}

	out, err := me.decode(key, value)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// Delete removes the row with the given primary key and reports whether it existed.
func (me *Table) Delete(keyValues row.Row) (existed bool, _ error) {
	if err := me.checkOpen(); err != nil {
		return false, err
	}

	key, err := me.encodeKey(keyValues)
	if err != nil {
		return false, err
	}

	me.writeLock.Lock()
	defer me.writeLock.Unlock()

	_, existed, err = me.backend.Get(key)
	if err != nil || !existed {
		return false, err
	}
	return true, me.backend.Delete(key)
}

// Rows yields every stored row in storage key order. Iteration stops at the first
// record that fails to decode.
func (me *Table) Rows() iter.Seq2[row.Row, error] {
	return func(yield func(row.Row, error) bool) {
		if err := me.checkOpen(); err != nil {
			yield(nil, err)
			return
		}

		for kvp, err := range me.backend.Scan() {
			if err != nil {
				yield(nil, err)
				return
			}

			out, err := me.decode(kvp.Key, kvp.Value)
			if !yield(out, err) || err != nil {
				return
			}
		}
	}
}

func (me *Table) Close() error {
	if !me.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	if err := me.backend.Close(); err != nil {
		log.Printf("Failed to close backend of table %q: %s", me.schema.Name(), err.Error())
		return err
	}
	return nil
}

func (me *Table) checkOpen() error {
	if me.closed.Load() {
		return errors.Wrapf(ErrClosed, "table %q", me.schema.Name())
	}
	return nil
}

func (me *Table) hasPrimaryKey() bool {
	return me.schema.NumKeyColumns() > 0
}

func (me *Table) storageKey(encoded row.Encoded) []byte {
	if me.hasPrimaryKey() {
		return encoded.Key
	}
	return ksuid.New().Bytes()
}

func (me *Table) encodeKey(keyValues row.Row) ([]byte, error) {
	if !me.hasPrimaryKey() {
		return nil, errors.Wrapf(ErrNoPrimaryKey, "table %q", me.schema.Name())
	}
	return row.EncodeKey(me.schema, keyValues)
}

func (me *Table) decode(key, value []byte) (out row.Row, err error) {
	if me.hasPrimaryKey() {
		out, err = row.Decode(me.schema, row.Encoded{Key: key, Value: value})
	} else {
		out, err = row.DecodeValue(me.schema, value)
	}

	if metrics, ok := me.metrics.Unpack(); ok {
		metrics.RecordDecoded(me.schema.Name(), err)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "table %q", me.schema.Name())
	}
	return out, nil
}

func (me *Table) recordEncodeFailure(err error) {
	if metrics, ok := me.metrics.Unpack(); ok {
		metrics.RecordEncodeFailure(me.schema.Name(), err)
	}
}
