// Package checksum fingerprints session files and generated text.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Lines digests lines independent of their order.
func Lines(lines []string) string {
	sorted := slices.Clone(lines)
	slices.Sort(sorted)
	return Sum([]byte(strings.Join(sorted, "\n")))
}
