package util

import (
	"errors"
	"io"
	"os"
)

var _ io.ReadWriteSeeker = (*FileWrapper)(nil)

// FileWrapper reads and writes a file starting at an offset. Unlike a plain os.File it
// only uses ReadAt and WriteAt, which do not touch the shared file descriptor position,
// so several wrappers can be used over one file at once.
type FileWrapper struct {
	file   *os.File
	offset uint64
}

func NewFileWrapperAt(file *os.File, offset uint64) FileWrapper {
	return FileWrapper{
		file:   file,
		offset: offset,
	}
}

func (me *FileWrapper) Read(b []byte) (n int, err error) {
	n, err = me.file.ReadAt(b, int64(me.offset))
	me.offset += uint64(n)
	return n, err
}

func (me *FileWrapper) Write(b []byte) (n int, err error) {
	n, err = me.file.WriteAt(b, int64(me.offset))
	me.offset += uint64(n)
	return n, err
}

func (me *FileWrapper) Seek(offset int64, whence int) (ret int64, err error) {
	switch whence {
	case io.SeekCurrent:
		me.offset += uint64(offset)
	case io.SeekStart:
		me.offset = uint64(offset)
	default:
		return -1, errors.New("unsupported operation")
	}
	return int64(me.offset), nil
}

func (me *FileWrapper) Offset() uint64 {
	return me.offset
}
