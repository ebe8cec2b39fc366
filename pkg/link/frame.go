// Package link talks to a companion board over a byte stream, a
// serial line or a TCP socket, using small sequenced frames.
//
// A frame is a sequence byte, a code byte and up to 127 data bytes.
// Bits 4-6 of the code byte carry the data length when it is below 7;
// otherwise they are all set and a length byte follows. Bit 7 marks an
// event, unsolicited by the host. Replies carry the request sequence
// as the first data byte and set bit 0 of the code on failure.
//
// Both ends synchronize by exchanging REQ (0xff) and ACK (0xfe)
// followed by the sender's next sequence; any framing error restarts
// synchronization.
package link

import (
	"errors"
	"io"
	"time"
)

// MaxDataLen is the largest data a frame carries.
const MaxDataLen = 0x7f

// Code bits
const (
	FlagEvent byte = 0x80
	FlagError byte = 0x01

	codeMask byte = 0x8f
	lenMask  byte = 0x70
)

var (
	// ErrNotReady indicates the link is not synchronized.
	ErrNotReady = errors.New("link not ready")
	// ErrFrameTooLong indicates the data exceeds MaxDataLen.
	ErrFrameTooLong = errors.New("frame data too long")
	// ErrNoReply indicates the board replied a later request first.
	ErrNoReply = errors.New("no reply")
)

// Seq is a frame sequence number in [1, 0xf0).
type Seq byte

// NewSeq picks a starting sequence.
func NewSeq() Seq {
	return Seq(byte(time.Now().UnixNano())).Next()
}

// Next returns the sequence following s.
func (s Seq) Next() Seq {
	n := byte(s) + 1
	if n == 0 || n >= 0xf0 {
		n = 1
	}
	return Seq(n)
}

// IsValid reports whether s can appear on the wire.
func (s Seq) IsValid() bool {
	return s > 0 && s < 0xf0
}

// Frame is one unit on the link.
type Frame struct {
	Seq  Seq
	Code byte
	Data []byte
}

// IsEvent reports whether the board sent f unsolicited.
func (f *Frame) IsEvent() bool {
	return f.Code&FlagEvent != 0
}

// AppendTo appends the encoded frame to dst.
func (f *Frame) AppendTo(dst []byte) ([]byte, error) {
	n := len(f.Data)
	if n > MaxDataLen {
		return dst, ErrFrameTooLong
	}
	code := f.Code & codeMask
	if n < 7 {
		dst = append(dst, byte(f.Seq), code|byte(n)<<4)
	} else {
		dst = append(dst, byte(f.Seq), code|lenMask, byte(n))
	}
	return append(dst, f.Data...), nil
}

// WriteTo implements io.WriterTo with a single Write.
func (f *Frame) WriteTo(w io.Writer) (int64, error) {
	b, err := f.AppendTo(make([]byte, 0, len(f.Data)+3))
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}
