package wsjtx

import (
	"encoding/binary"
	"math"
)

// MaxStringLength bounds declared string lengths to the largest UDP
// payload; anything longer cannot come from a real datagram.
const MaxStringLength = 65507

// cursor reads big-endian fields without ever indexing past buf.
type cursor struct {
	buf []byte
	off int
	err *DecodeError
}

func (c *cursor) fail(field string, err error) {
	if c.err == nil {
		c.err = &DecodeError{Field: field, Offset: c.off, Err: err}
	}
}

func (c *cursor) take(field string, n int) []byte {
	if c.err != nil {
		return nil
	}
	if n > len(c.buf)-c.off {
		c.fail(field, ErrTruncated)
		return nil
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b
}

func (c *cursor) uint8(field string) uint8 {
	if b := c.take(field, 1); b != nil {
		return b[0]
	}
	return 0
}

func (c *cursor) bool(field string) bool {
	return c.uint8(field) != 0
}

func (c *cursor) uint32(field string) uint32 {
	if b := c.take(field, 4); b != nil {
		return binary.BigEndian.Uint32(b)
	}
	return 0
}

func (c *cursor) uint64(field string) uint64 {
	if b := c.take(field, 8); b != nil {
		return binary.BigEndian.Uint64(b)
	}
	return 0
}

// string reads an int32 length followed by that many bytes. -1 is
// the absent string.
func (c *cursor) string(field string) string {
	b := c.take(field, 4)
	if b == nil {
		return ""
	}
	n := int32(binary.BigEndian.Uint32(b))
	if n == -1 {
		return ""
	}
	if n < -1 || n > MaxStringLength {
		c.off -= 4
		c.fail(field, ErrInvalidLength)
		return ""
	}
	return string(c.take(field, int(n)))
}

// writer is the encoding counterpart of cursor.
type writer struct {
	buf []byte
}

func (w *writer) uint8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *writer) bool(v bool) {
	if v {
		w.uint8(1)
	} else {
		w.uint8(0)
	}
}

func (w *writer) uint32(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

func (w *writer) uint64(v uint64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, v)
}

// string writes "" as absent.
func (w *writer) string(s string) {
	if s == "" {
		w.uint32(math.MaxUint32)
		return
	}
	w.uint32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}
