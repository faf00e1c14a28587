package util

import (
	"encoding/binary"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Word16 [2]byte

func Uint16ToWord16(v uint16) (out Word16) {
	binary.BigEndian.PutUint16(out[:], v)
	return out
}

func Uint16FromWord16(v Word16) uint16 {
	return binary.BigEndian.Uint16(v[:])
}

type Word32 [4]byte

func Uint32ToWord32(v uint32) (out Word32) {
	binary.BigEndian.PutUint32(out[:], v)
	return out
}

func Uint32FromWord32(v Word32) uint32 {
	return binary.BigEndian.Uint32(v[:])
}

type Word64 [8]byte

func Uint64ToWord64(v uint64) (out Word64) {
	binary.BigEndian.PutUint64(out[:], v)
	return out
}

func Uint64FromWord64(v Word64) uint64 {
	return binary.BigEndian.Uint64(v[:])
}

func ReadUint64(reader io.Reader) (value uint64, n int, _ error) {
	var word Word64
	n, err := io.ReadAtLeast(reader, word[:], len(word))
	if err != nil {
		return 0, n, err
	}
	return Uint64FromWord64(word), n, nil
}

func ReadUint64s(reader io.Reader, vs ...*uint64) (n int, _ error) {
	for _, v := range vs {
		value, dn, err := ReadUint64(reader)
		n += dn
		if err != nil {
			return n, err
		}
		*v = value
	}
	return n, nil
}

func WriteUint64(writer io.Writer, v uint64) (n int, _ error) {
	word := Uint64ToWord64(v)
	return writer.Write(word[:])
}

func WriteUint64s(writer io.Writer, vs ...uint64) (n int, _ error) {
	for _, v := range vs {
		dn, err := WriteUint64(writer, v)
		n += dn
		if err != nil {
			return n, err
		}
	}

	return n, nil
}

// ReadSized reads a u64 length followed by that many bytes. Lengths above maxSize are
// rejected with io.ErrUnexpectedEOF before anything is allocated.
func ReadSized(reader io.Reader, maxSize uint64) (out []byte, n int, _ error) {
	size, n, err := ReadUint64(reader)
	if err != nil {
		return nil, n, err
	}
	if size > maxSize {
		return nil, n, errors.Wrapf(io.ErrUnexpectedEOF, "sized field of %d bytes exceeds %d", size, maxSize)
	}

	out = make([]byte, size)
	dn, err := io.ReadFull(reader, out)
	n += dn
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, n, err
	}
	return out, n, nil
}

// WriteSized writes a u64 length followed by b.
func WriteSized(writer io.Writer, b []byte) (n int, _ error) {
	n, err := WriteUint64(writer, uint64(len(b)))
	if err != nil {
		return n, err
	}
	dn, err := writer.Write(b)
	return n + dn, err
}

func NewRandomUUIDBytes() (out [16]byte) {
	uuidBytes, _ := uuid.Must(uuid.NewRandom()).MarshalBinary()
	copy(out[:], uuidBytes)
	return out
}

func UUIDFromBytes(bytes [16]byte) uuid.UUID {
	return uuid.Must(uuid.FromBytes(bytes[:]))
}
