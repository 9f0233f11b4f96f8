package common

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// HashSecret is how OTP codes and refresh tokens are stored: lowercase hex SHA-256.
func HashSecret(v string) string {
	sum := sha256.Sum256([]byte(v))
	return hex.EncodeToString(sum[:])
}

// RandomDigits returns n uniformly random decimal digits from crypto/rand. Used for login OTPs
// and the delivery OTP shown to customers.
func RandomDigits(n int) (string, error) {
	out := make([]byte, 0, n)
	buf := make([]byte, n+4)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			// 250 is the largest multiple of 10 below 256; higher bytes would skew toward 0-5.
			if b >= 250 {
				continue
			}
			out = append(out, '0'+b%10)
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
