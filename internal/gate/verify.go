package gate

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
)

// Digest returns the base64-encoded SHA-512 digest of password. The stored
// admin secret must be produced with this exact function (see
// `shoplite admin digest`); any other algorithm or encoding at provisioning
// time makes every authentication fail.
func Digest(password string) string {
	sum := sha512.Sum512([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// Verify reports whether password hashes to storedDigest. It is a pure
// function: identical inputs always yield the identical result, and no input
// causes an error. An empty password or digest simply fails the comparison.
func Verify(password, storedDigest string) bool {
	return subtle.ConstantTimeCompare([]byte(Digest(password)), []byte(storedDigest)) == 1
}

// equalConstantTime compares two strings without leaking where they differ.
// Both sides are hashed first so the comparison length is fixed and the
// lengths themselves are not revealed.
func equalConstantTime(a, b string) bool {
	aSum := sha512.Sum512([]byte(a))
	bSum := sha512.Sum512([]byte(b))
	return subtle.ConstantTimeCompare(aSum[:], bSum[:]) == 1
}
