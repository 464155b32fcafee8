package common

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ReadUint16LE reads a uint16 in little-endian format
func ReadUint16LE(reader io.Reader) (uint16, error) {
	var value uint16
	err := binary.Read(reader, binary.LittleEndian, &value)
	return value, err
}

// ReadUint32LE reads a uint32 in little-endian format
func ReadUint32LE(reader io.Reader) (uint32, error) {
	var value uint32
	err := binary.Read(reader, binary.LittleEndian, &value)
	return value, err
}

// ReadUint32BE reads a uint32 in big-endian format
func ReadUint32BE(reader io.Reader) (uint32, error) {
	var value uint32
	err := binary.Read(reader, binary.BigEndian, &value)
	return value, err
}

// ReadUint8 reads a single byte
func ReadUint8(reader io.Reader) (uint8, error) {
	var value uint8
	err := binary.Read(reader, binary.LittleEndian, &value)
	return value, err
}

// ReadBytes reads a specified number of bytes
func ReadBytes(reader io.Reader, count int) ([]byte, error) {
	buffer := make([]byte, count)
	n, err := io.ReadFull(reader, buffer)
	if err != nil {
		return nil, err
	}
	if n != count {
		return nil, fmt.Errorf("expected to read %d bytes, got %d", count, n)
	}
	return buffer, nil
}

// SkipBytes skips a specified number of bytes in the reader
func SkipBytes(reader io.Reader, count int) error {
	_, err := io.CopyN(io.Discard, reader, int64(count))
	return err
}

// DivCeil returns the integer ceiling of a/b. A multiple of b yields exactly
// a/b, never one more.
func DivCeil(a, b uint64) uint64 {
	return (a + b - 1) / b
}

// AlignUp rounds value up to the next multiple of alignment
func AlignUp(value, alignment uint64) uint64 {
	return DivCeil(value, alignment) * alignment
}
