// Package auth implements credential hashing and the session token codec.
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// saltBytes is the number of random bytes in a password salt. The salt is
// stored hex-encoded, so the persisted value is twice this length.
const saltBytes = 16

// Credential is the stored form of a password: a per-write random salt and
// the keyed SHA-256 digest of the password under that salt.
type Credential struct {
	Salt   string
	Digest string
}

// HashPassword derives a Credential from a plaintext password. Every call
// generates a fresh salt; a salt is never reused across users or across
// password changes for the same user.
func HashPassword(password string) (Credential, error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return Credential{}, fmt.Errorf("generate salt: %w", err)
	}
	salt := hex.EncodeToString(raw)
	return Credential{Salt: salt, Digest: digest(password, salt)}, nil
}

// VerifyPassword recomputes the keyed hash of password under salt and
// compares it to expectedDigest in constant time.
func VerifyPassword(password, salt, expectedDigest string) bool {
	computed := digest(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(expectedDigest)) == 1
}

func digest(password, salt string) string {
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write([]byte(password))
	return hex.EncodeToString(mac.Sum(nil))
}
