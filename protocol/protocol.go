// Package protocol implements the low-level OSC 1.0 wire encoding.
//
// Everything in an OSC packet is built from three primitives, all 32-bit
// aligned:
//
//   - padded strings: the raw bytes followed by 1–4 NUL bytes so the total
//     length is a multiple of four
//   - 32-bit big-endian scalars (int32, float32)
//   - 64-bit big-endian scalars (int64, float64)
//
// A message packet is then:
//
//	┌──────────────┬───────────────┬──────────────────┐
//	│ address      │ ",iifs..."    │ argument data    │
//	│ padded string│ padded string │ per type tag     │
//	└──────────────┴───────────────┴──────────────────┘
//
// The type tag string starts with ',' and has one tag character per
// argument. Boolean arguments are encoded entirely in the tag ('T'/'F')
// and contribute no argument data.
package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Type tag characters from the OSC 1.0 specification, restricted to the
// argument types AbletonOSC exchanges.
const (
	TagInt32   byte = 'i'
	TagInt64   byte = 'h'
	TagFloat32 byte = 'f'
	TagFloat64 byte = 'd'
	TagString  byte = 's'
	TagTrue    byte = 'T'
	TagFalse   byte = 'F'
)

// ErrTruncated reports a packet that ends before a complete primitive.
var ErrTruncated = errors.New("truncated packet")

// WriteString appends s to buf as an OSC padded string.
func WriteString(buf []byte, s string) []byte {
	buf = append(buf, s...)
	// At least one NUL terminator, then pad to a 4-byte boundary.
	for n := 4 - len(s)%4; n > 0; n-- {
		buf = append(buf, 0)
	}
	return buf
}

// ReadString reads an OSC padded string starting at offset.
// Returns the string and the offset of the next primitive.
func ReadString(data []byte, offset int) (string, int, error) {
	if offset < 0 || offset >= len(data) {
		return "", 0, fmt.Errorf("reading string at offset %d: %w", offset, ErrTruncated)
	}
	end := bytes.IndexByte(data[offset:], 0)
	if end < 0 {
		return "", 0, fmt.Errorf("unterminated string at offset %d: %w", offset, ErrTruncated)
	}
	s := string(data[offset : offset+end])
	// Skip the string plus its padding. end+1 accounts for the terminator.
	next := offset + end + 1
	if rem := (next - offset) % 4; rem != 0 {
		next += 4 - rem
	}
	if next > len(data) {
		return "", 0, fmt.Errorf("string padding at offset %d: %w", offset, ErrTruncated)
	}
	return s, next, nil
}

// WriteInt32 appends v big-endian.
func WriteInt32(buf []byte, v int32) []byte {
	return binary.BigEndian.AppendUint32(buf, uint32(v))
}

// ReadInt32 reads a big-endian int32 at offset.
func ReadInt32(data []byte, offset int) (int32, int, error) {
	if offset < 0 || offset+4 > len(data) {
		return 0, 0, fmt.Errorf("reading int32 at offset %d: %w", offset, ErrTruncated)
	}
	return int32(binary.BigEndian.Uint32(data[offset:])), offset + 4, nil
}

// WriteInt64 appends v big-endian.
func WriteInt64(buf []byte, v int64) []byte {
	return binary.BigEndian.AppendUint64(buf, uint64(v))
}

// ReadInt64 reads a big-endian int64 at offset.
func ReadInt64(data []byte, offset int) (int64, int, error) {
	if offset < 0 || offset+8 > len(data) {
		return 0, 0, fmt.Errorf("reading int64 at offset %d: %w", offset, ErrTruncated)
	}
	return int64(binary.BigEndian.Uint64(data[offset:])), offset + 8, nil
}

// WriteFloat32 appends v as its big-endian IEEE 754 bits.
func WriteFloat32(buf []byte, v float32) []byte {
	return binary.BigEndian.AppendUint32(buf, math.Float32bits(v))
}

// ReadFloat32 reads a big-endian float32 at offset.
func ReadFloat32(data []byte, offset int) (float32, int, error) {
	if offset < 0 || offset+4 > len(data) {
		return 0, 0, fmt.Errorf("reading float32 at offset %d: %w", offset, ErrTruncated)
	}
	return math.Float32frombits(binary.BigEndian.Uint32(data[offset:])), offset + 4, nil
}

// WriteFloat64 appends v as its big-endian IEEE 754 bits.
func WriteFloat64(buf []byte, v float64) []byte {
	return binary.BigEndian.AppendUint64(buf, math.Float64bits(v))
}

// ReadFloat64 reads a big-endian float64 at offset.
func ReadFloat64(data []byte, offset int) (float64, int, error) {
	if offset < 0 || offset+8 > len(data) {
		return 0, 0, fmt.Errorf("reading float64 at offset %d: %w", offset, ErrTruncated)
	}
	return math.Float64frombits(binary.BigEndian.Uint64(data[offset:])), offset + 8, nil
}
