package access

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/darkmatter-vc/portal/internal/errors"
)

// VerifyPasscode checks a submitted passcode against the configured shared
// secret. When plaintext is set it is compared directly (development
// convenience); otherwise sha256(passcode+salt) must equal hash. With
// neither configured the check fails closed with ErrPasscodeNotConfigured
// rather than silently granting.
func VerifyPasscode(passcode, plaintext, hash, salt string) (bool, error) {
	if plaintext == "" && (hash == "" || salt == "") {
		return false, errors.ErrPasscodeNotConfigured
	}

	if plaintext != "" {
		return subtle.ConstantTimeCompare([]byte(passcode), []byte(plaintext)) == 1, nil
	}

	sum := sha256.Sum256([]byte(passcode + salt))
	digest := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(digest), []byte(hash)) == 1, nil
}
