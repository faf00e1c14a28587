package table

import (
	"bytes"
	"iter"
	"slices"
	"sync"
)

type KeyValuePair struct {
	Key   []byte
	Value []byte
}

// Backend is a sorted key-value store. Keys compare bytewise; Scan yields pairs in
// ascending key order.
type Backend interface {
	Put(key, value []byte) error
	Get(key []byte) (value []byte, exists bool, _ error)
	Delete(key []byte) error
	Scan() iter.Seq2[KeyValuePair, error]
	Close() error
}

var _ Backend = (*MemoryBackend)(nil)

// MemoryBackend keeps pairs in a sorted slice.
type MemoryBackend struct {
	lock      sync.RWMutex
	keyValues []KeyValuePair
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (me *MemoryBackend) search(key []byte) (int, bool) {
	return slices.BinarySearchFunc(
		me.keyValues, key, func(pair KeyValuePair, target []byte) int {
			return bytes.Compare(pair.Key, target)
		},
	)
}

func (me *MemoryBackend) Put(key, value []byte) error {
	me.lock.Lock()
	defer me.lock.Unlock()

	kvp := KeyValuePair{Key: bytes.Clone(key), Value: bytes.Clone(value)}
	idx, exists := me.search(key)
	if exists {
		me.keyValues[idx] = kvp
	} else {
		me.keyValues = slices.Insert(me.keyValues, idx, kvp)
	}
	return nil
}

func (me *MemoryBackend) Get(key []byte) (value []byte, exists bool, _ error) {
	me.lock.RLock()
	defer me.lock.RUnlock()

	idx, exists := me.search(key)
	if !exists {
		return nil, false, nil
	}
	return bytes.Clone(me.keyValues[idx].Value), true, nil
}

func (me *MemoryBackend) Delete(key []byte) error {
	me.lock.Lock()
	defer me.lock.Unlock()

	if idx, exists := me.search(key); exists {
		me.keyValues = slices.Delete(me.keyValues, idx, idx+1)
	}
	return nil
}

// Scan iterates over a snapshot taken when iteration starts.
func (me *MemoryBackend) Scan() iter.Seq2[KeyValuePair, error] {
	return func(yield func(KeyValuePair, error) bool) {
		me.lock.RLock()
		snapshot := slices.Clone(me.keyValues)
		me.lock.RUnlock()

		for _, kvp := range snapshot {
			if !yield(kvp, nil) {
				return
			}
		}
	}
}

func (me *MemoryBackend) Close() error {
	return nil
}
