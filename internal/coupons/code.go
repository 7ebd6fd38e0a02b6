package coupons

import (
	"crypto/rand"
	"fmt"
)

const (
	codeLength  = 9
	codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateCode returns a 9-character coupon code drawn uniformly from A-Z0-9
// (e.g. "ABC123XYZ"). Uniqueness is not guaranteed here; the store rejects
// duplicates and issuance retries on collision.
func GenerateCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	// 252 is the largest multiple of 36 below 256; resample above it to keep
	// the distribution uniform.
	for i := 0; i < codeLength; i++ {
		for buf[i] >= 252 {
			var b [1]byte
			if _, err := rand.Read(b[:]); err != nil {
				return "", fmt.Errorf("read random: %w", err)
			}
			buf[i] = b[0]
		}
		buf[i] = codeCharset[int(buf[i])%len(codeCharset)]
	}
	return string(buf), nil
}
