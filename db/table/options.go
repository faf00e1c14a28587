package table

import "github.com/navijation/njtable/util"

const defaultSyncWrites = true

// Options tunes a PebbleBackend. Unset fields take their defaults.
type Options struct {
	// SyncWrites makes every Put and Delete wait for the pebble WAL to reach disk.
	SyncWrites util.Optional[bool]
}

func DefaultOptions() Options {
	return Options{
		SyncWrites: util.Some(defaultSyncWrites),
	}
}

// FillDefaults sets unset fields to their defaults.
func (me *Options) FillDefaults() {
	def := DefaultOptions()
	if !me.SyncWrites.IsSome() {
		me.SyncWrites = def.SyncWrites
	}
}
