package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Codes are uppercase so a case-folded comparison on verification cannot
// reject a correctly transcribed code.
const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength is the fixed length of issued one-time codes.
const CodeLength = 6

// NewCode generates an n-character alphanumeric one-time code from
// crypto/rand.
func NewCode(n int) (string, error) {
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("generate otp: %w", err)
		}
		b[i] = charset[idx.Int64()]
	}
	return string(b), nil
}

// Normalize folds a submitted code to the canonical uppercase form used at
// issue time.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
