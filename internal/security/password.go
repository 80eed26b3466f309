package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is tuned so a verify lands around 100ms on current hardware.
const bcryptCost = 12

const tempPasswordLength = 12

// HashPassword produces a salted adaptive hash of the plaintext.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plaintext matches the stored hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateTempPassword returns an alphanumeric-only temporary credential.
// Random bytes are base64-encoded and stripped of non-alphanumeric
// characters, drawing again until enough survive, then truncated.
func GenerateTempPassword() (string, error) {
	return generateTempPassword(tempPasswordLength)
}

func generateTempPassword(length int) (string, error) {
	var out []byte
	for len(out) < length {
		raw := make([]byte, length)
		if _, err := rand.Read(raw); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		encoded := base64.StdEncoding.EncodeToString(raw)
		for i := 0; i < len(encoded) && len(out) < length; i++ {
			c := encoded[i]
			if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
				out = append(out, c)
			}
		}
	}
	return string(out[:length]), nil
}
