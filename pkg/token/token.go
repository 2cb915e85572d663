package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const (
	// MinTokenLength is the shortest token Check will look up.
	MinTokenLength = 41

	// TokenBytes is the number of random bytes in a token (256 bits, 44
	// characters once encoded).
	TokenBytes = 32
)

// Generate returns a new random base64-URL token of TokenBytes bytes.
func Generate() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Hash returns the hex encoded HMAC-SHA256 of value under secret.
func Hash(value, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(value))
	return hex.EncodeToString(h.Sum(nil))
}

// Validate reports whether provided hashes to storedHash under secret. The
// comparison runs in constant time.
func Validate(provided, secret, storedHash string) bool {
	return hmac.Equal([]byte(Hash(provided, secret)), []byte(storedHash))
}

// ValidateLength rejects values too short to be a generated token.
func ValidateLength(tok string) error {
	if len(tok) < MinTokenLength {
		return fmt.Errorf("%w: got %d characters, need at least %d", ErrInvalidToken, len(tok), MinTokenLength)
	}
	return nil
}
