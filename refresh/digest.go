package refresh

import (
	"crypto/sha256"
	"encoding/hex"
)

// contentDigest returns a stable hex digest of a raw dataset payload.
// It is a change-detection signal, not a security control; SHA-256 is
// used for its availability and collision resistance.
func contentDigest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
