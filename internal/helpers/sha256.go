package helpers

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256 returns the hex digest of input. Executable unit IDs and loader
// source URLs are prefixes of it.
func SHA256(input string) string {
	return SHA256Bytes([]byte(input))
}

func SHA256Bytes(input []byte) string {
	hash := sha256.Sum256(input)
	return hex.EncodeToString(hash[:])
}
