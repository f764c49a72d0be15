package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash computes the SHA-256 of data and returns the full 64-character hex
// string. Pipeline sources are content-addressed with it, so identical
// inputs share cache keys regardless of where they came from.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds a namespaced key of the form "prefix:sha256(parts)".
// Parts are JSON-encoded first so option structs can participate in keys.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}
