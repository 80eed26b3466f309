package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateLinkCode mints the single-use code disclosed once to an accepted
// applicant: 4 cryptographically random bytes rendered as 8 hex characters,
// formatted XXXX-XXXX.
func GenerateLinkCode() (string, error) {
	raw := make([]byte, 4)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	hexCode := hex.EncodeToString(raw)
	return fmt.Sprintf("%s-%s", hexCode[:4], hexCode[4:]), nil
}

// HashLinkCode computes the keyed hash persisted in place of the plaintext.
// HMAC rather than bcrypt: re-verification has to be deterministic.
func HashLinkCode(code, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(code))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyLinkCode reports whether code matches the stored keyed hash.
func VerifyLinkCode(code, storedHash, secret string) bool {
	expected := HashLinkCode(code, secret)
	return hmac.Equal([]byte(expected), []byte(storedHash))
}
