package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// RefreshTokenBytes is the entropy of an opaque refresh token (43 chars
// once encoded).
const RefreshTokenBytes = 32

// RandomString returns n random bytes as unpadded base64url.
func RandomString(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("random string length must be positive, got %d", n)
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// NewRefreshToken returns the opaque token handed to the client and the
// fingerprint the server keeps in its place.
func NewRefreshToken() (opaque, fingerprint string, err error) {
	opaque, err = RandomString(RefreshTokenBytes)
	if err != nil {
		return "", "", err
	}
	return opaque, FingerprintToken(opaque), nil
}

// FingerprintToken is the SHA-256 of token, base64url encoded.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// EqualSecret compares two shared secrets in constant time. Both sides are
// hashed first so a length mismatch returns in the same time as any other.
func EqualSecret(given, want string) bool {
	a := sha256.Sum256([]byte(given))
	b := sha256.Sum256([]byte(want))
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}
