package util

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSized(t *testing.T) {
	for _, tc := range []struct {
		name string
		data []byte
	}{
		{name: "empty", data: []byte{}},
		{name: "some bytes", data: []byte("hello")},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := WriteSized(&buf, tc.data)
			require.NoError(t, err)
			assert.Equal(t, 8+len(tc.data), n)

			out, n, err := ReadSized(&buf, 64)
			require.NoError(t, err)
			assert.Equal(t, 8+len(tc.data), n)
			assert.Equal(t, tc.data, out)
		})
	}

	t.Run("short body", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := WriteUint64s(&buf, 10)
		require.NoError(t, err)
		buf.WriteString("abc")

		_, n, err := ReadSized(&buf, 64)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.Equal(t, 11, n)
	})

	t.Run("size over limit", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := WriteUint64s(&buf, 1<<62)
		require.NoError(t, err)

		out, n, err := ReadSized(&buf, 1024)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.Nil(t, out)
		assert.Equal(t, 8, n)
	})
}

func TestWords(t *testing.T) {
	assert.Equal(t, Word16{0x12, 0x34}, Uint16ToWord16(0x1234))
	assert.Equal(t, uint32(0xDEADBEEF), Uint32FromWord32(Uint32ToWord32(0xDEADBEEF)))
	assert.Equal(t, uint64(1), Uint64FromWord64(Word64{7: 1}))
}

func TestUUIDBytes(t *testing.T) {
	id := NewRandomUUIDBytes()
	assert.Equal(t, id, [16]byte(UUIDFromBytes(id)))
	assert.NotEqual(t, id, NewRandomUUIDBytes())
}
