// Package god implements the Games on Demand container format: the
// block/subpart/part file layout with its two-level SHA-1 hash tree, the con
// header blob and the output naming policy.
package god

import (
	"crypto/sha1"
	"io"
)

// HashListSize is the on-disk size of every hash list, filled or not
const HashListSize = 0x1000

// HashSize is the size of one SHA-1 digest entry
const HashSize = sha1.Size

// MaxHashesPerList is the number of 20-byte entries a list can hold
const MaxHashesPerList = HashListSize / HashSize

// HashList is a fixed 4096-byte buffer of back-to-back SHA-1 digests,
// zero-padded. Its identity is entirely determined by the padded buffer:
// Digest covers all 4096 bytes, including the padding.
type HashList struct {
	buffer []byte
}

// NewHashList returns an empty hash list
func NewHashList() *HashList {
	return &HashList{buffer: make([]byte, 0, HashListSize)}
}

// ReadHashList reads a hash list from the reader's current position. Entries
// are collected until an all-zero entry or the end of the 4096-byte window is
// reached.
func ReadHashList(reader io.Reader) (*HashList, error) {
	list := NewHashList()
	window := io.LimitReader(reader, HashListSize)

	entry := make([]byte, HashSize)
	for {
		n, err := io.ReadFull(window, entry)
		if n == 0 && (err == io.EOF || err == io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			if err == io.ErrUnexpectedEOF {
				list.buffer = append(list.buffer, entry[:n]...)
				break
			}
			return nil, err
		}
		if isZero(entry) {
			break
		}
		list.buffer = append(list.buffer, entry...)
	}

	return list, nil
}

// Len returns the number of entries currently in the list
func (h *HashList) Len() int {
	return len(h.buffer) / HashSize
}

// AddHash appends one digest entry
func (h *HashList) AddHash(hash [HashSize]byte) {
	h.buffer = append(h.buffer, hash[:]...)
}

// AddBlockHash hashes the given block and appends the digest
func (h *HashList) AddBlockHash(block []byte) {
	h.AddHash(sha1.Sum(block))
}

// Truncate drops all entries past the first n
func (h *HashList) Truncate(n int) {
	if n*HashSize < len(h.buffer) {
		h.buffer = h.buffer[:n*HashSize]
	}
}

// Bytes returns the full 4096-byte buffer, zero-padded past the entries
func (h *HashList) Bytes() []byte {
	padded := make([]byte, HashListSize)
	copy(padded, h.buffer)
	return padded
}

// Digest returns the SHA-1 of the full padded buffer
func (h *HashList) Digest() [HashSize]byte {
	return sha1.Sum(h.Bytes())
}

// WriteTo writes the full padded buffer
func (h *HashList) WriteTo(writer io.Writer) error {
	_, err := writer.Write(h.Bytes())
	return err
}

func isZero(buf []byte) bool {
	for _, b := range buf {
		if b != 0 {
			return false
		}
	}
	return true
}
