package access

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// MintSessionToken produces an opaque capability token: the hex sha256 of 32
// random bytes concatenated with a per-flow suffix (the accessor email, or
// the passcode salt). The token is a capability marker only; it is never
// verified against a stored value.
func MintSessionToken(suffix string) string {
	b := make([]byte, 32)
	rand.Read(b)
	sum := sha256.Sum256([]byte(hex.EncodeToString(b) + suffix))
	return hex.EncodeToString(sum[:])
}
