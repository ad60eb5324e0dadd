package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Generate returns a random numeric code of the given length, zero-padded.
// Each digit is drawn from crypto/rand.
func Generate(length int) (string, error) {
	if length < 1 {
		length = 6
	}
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generate otp: %w", err)
		}
		digits[i] = '0' + byte(n.Int64())
	}
	return string(digits), nil
}
