package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// FileKey derives the cache key for a file's extracted include list.
// The key covers path, size, and modification time, so any change to the
// file on disk invalidates the entry without an explicit purge.
func FileKey(path string, size int64, modTime time.Time) string {
	return "scan:" + Hash([]byte(fmt.Sprintf("%s|%d|%d", path, size, modTime.UnixNano())))
}
