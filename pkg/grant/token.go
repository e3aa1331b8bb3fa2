package grant

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const tokenEntropyBytes = 32

// NewInviteToken returns a URL-safe random token with 256 bits of entropy,
// used as the invite document id.
func NewInviteToken() (string, error) {
	buf := make([]byte, tokenEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate invite token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
