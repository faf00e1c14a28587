package recordfile

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/navijation/njtable/storage/row"
	"github.com/navijation/njtable/util"
	testing_util "github.com/navijation/njtable/util/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_header_serde(t *testing.T) {
	for _, tc := range []struct {
		name   string
		header Header
	}{
		{
			name: "basic",
			header: Header{
				ID:         util.NewRandomUUIDBytes(),
				Version:    currentVersion,
				FileSize:   500,
				NumEntries: 3,
				Table:      "users",
			},
		},
		{
			name: "empty table name",
			header: Header{
				Version:  currentVersion,
				FileSize: 48,
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer

			n, err := tc.header.WriteTo(&buf)
			require.NoError(t, err)
			assert.Equal(t, tc.header.SizeOf(), uint64(n))

			var deser Header

			n, err = deser.ReadFrom(&buf)
			require.NoError(t, err)
			assert.Equal(t, tc.header.SizeOf(), uint64(n))

			assert.Equal(t, tc.header, deser)
		})
	}

	t.Run("wrong version", func(t *testing.T) {
		var buf bytes.Buffer
		header := Header{Version: 9, FileSize: 100}
		_, err := header.WriteTo(&buf)
		require.NoError(t, err)

		_, err = (&Header{}).ReadFrom(&buf)
		assert.ErrorIs(t, err, ErrBadHeader)
	})

	t.Run("huge table name size", func(t *testing.T) {
		var buf bytes.Buffer
		buf.Write(make([]byte, 16))
		_, err := util.WriteUint64s(&buf, currentVersion, 100, 0, 1<<62)
		require.NoError(t, err)

		_, err = (&Header{}).ReadFrom(&buf)
		assert.ErrorIs(t, err, ErrBadHeader)
	})
}

func Test_storedEntry_serde(t *testing.T) {
	entry := storedEntry{Key: []byte{0, 0, 0, 42}, Value: []byte{0, 6, 0xFF, 0xFF, 0, 8, 'B', 'o'}}

	var buf bytes.Buffer
	n, err := entry.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, entry.SizeOf(), uint64(n))

	var deser storedEntry
	n, err = deser.ReadFrom(&buf)
	require.NoError(t, err)
	assert.Equal(t, entry.SizeOf(), uint64(n))
	assert.Equal(t, entry, deser)

	t.Run("entry longer than limit", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := entry.WriteTo(&buf)
		require.NoError(t, err)

		_, err = (&storedEntry{}).readLimited(&buf, entry.SizeOf()-1)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})
}

func TestRecordFile(t *testing.T) {
	t.Parallel()

	path := testing_util.TempPath(t, "TestRecordFile", "users.rec")

	file, err := Open(OpenArgs{Path: path, Create: true, Table: util.Some("users")})
	require.NoError(t, err)

	records := []row.Encoded{
		{Key: []byte{0, 0, 0, 1}, Value: []byte{0, 4, 0, 6, 'a', 'b'}},
		{Key: []byte{0, 0, 0, 2}, Value: []byte{0xFF, 0xFF, 0, 4}},
	}
	require.NoError(t, file.AppendEntries(util.SeqOf(records[0])))
	require.NoError(t, file.AppendEntries(util.SeqOf(records[1])))

	t.Run("entries", func(t *testing.T) {
		entries, err := util.CollectErr(file.Entries())
		require.NoError(t, err)
		if assert.Len(t, entries, 2) {
			assert.Equal(t, records[0], entries[0].Record)
			assert.Equal(t, records[1], entries[1].Record)
			assert.Equal(t, uint64(1), entries[1].Location.EntryNumber)
			assert.Equal(t, file.Header().SizeOf(), entries[0].Location.Offset)
		}
		assert.Equal(t, uint64(2), file.Header().NumEntries)
	})

	id := file.Header().ID
	require.NoError(t, file.Close())

	t.Run("reopen", func(t *testing.T) {
		// bytes past the recorded size are dropped on open
		raw, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
		require.NoError(t, err)
		_, err = raw.Write([]byte("partial entry"))
		require.NoError(t, err)
		require.NoError(t, raw.Close())

		sameFile, err := Open(OpenArgs{Path: path, Table: util.Some("users")})
		require.NoError(t, err)
		defer sameFile.Close()

		assert.Equal(t, id, sameFile.Header().ID)
		assert.Equal(t, "users", sameFile.Header().Table)

		entries, err := util.CollectErr(sameFile.Entries())
		require.NoError(t, err)
		assert.Len(t, entries, 2)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, int64(sameFile.Header().FileSize), info.Size())
	})

	t.Run("wrong table", func(t *testing.T) {
		_, err := Open(OpenArgs{Path: path, Table: util.Some("orders")})
		assert.ErrorIs(t, err, ErrTableMismatch)
	})

	t.Run("corrupt entry size", func(t *testing.T) {
		corruptPath := testing_util.TempPath(t, "TestRecordFile", "corrupt.rec")

		file, err := Open(OpenArgs{Path: corruptPath, Create: true, Table: util.Some("users")})
		require.NoError(t, err)
		require.NoError(t, file.AppendEntries(util.SeqOf(records[0])))

		// an entry claiming a key far larger than the file, published as if valid
		var garbage bytes.Buffer
		_, err = util.WriteUint64s(&garbage, 1<<62, 0)
		require.NoError(t, err)
		w := file.fileWrapperAt(file.Header().FileSize)
		_, err = w.Write(garbage.Bytes())
		require.NoError(t, err)
		require.NoError(t, file.writeNewSize(
			file.Header().FileSize+uint64(garbage.Len()), file.Header().NumEntries+1,
		))
		require.NoError(t, file.Close())

		reopened, err := Open(OpenArgs{Path: corruptPath})
		require.NoError(t, err)
		defer reopened.Close()

		var (
			read    []row.Encoded
			lastErr error
		)
		for entry, err := range reopened.Entries() {
			if err != nil {
				lastErr = err
				break
			}
			read = append(read, entry.Record)
		}
		assert.Equal(t, records[:1], read)
		assert.ErrorIs(t, lastErr, io.ErrUnexpectedEOF)
	})

	t.Run("create existing", func(t *testing.T) {
		_, err := Open(OpenArgs{Path: path, Create: true})
		assert.ErrorIs(t, err, os.ErrExist)
		assert.FileExists(t, path)
	})
}
