package serializer

import (
	"encoding/binary"
	"fmt"
)

// KeySize is the fixed size of every storage key in bytes
const KeySize = 8

// EncodeKey converts an object ID into its fixed 8-byte big-endian
// storage key. Big-endian keeps keys of ascending IDs in lexicographic
// order, which engines with sorted iteration benefit from.
func EncodeKey(id uint64) []byte {
	key := make([]byte, KeySize)
	binary.BigEndian.PutUint64(key, id)
	return key
}

// DecodeKey converts a storage key back into an object ID
func DecodeKey(key []byte) (uint64, error) {
	if len(key) != KeySize {
		return 0, fmt.Errorf("invalid key length: expected %d bytes, got %d", KeySize, len(key))
	}
	return binary.BigEndian.Uint64(key), nil
}
