package token

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// NewNumeric generates a cryptographically random decimal string of exactly
// n digits. Leading zeros are kept.
func NewNumeric(n int) (string, error) {
	if n <= 0 || n > 18 {
		return "", fmt.Errorf("generate numeric token: invalid length %d", n)
	}
	max := big.NewInt(1)
	for i := 0; i < n; i++ {
		max.Mul(max, big.NewInt(10))
	}
	v, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate numeric token: %w", err)
	}
	return fmt.Sprintf("%0*d", n, v.Int64()), nil
}
