package utils

import (
	"crypto/rand"
	"math/big"
)

// CodeAlphabet is the character set short codes are drawn from.
const CodeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// DefaultCodeLength gives a 36^7 code space, large enough that collisions
// are rare but still possible; callers handle duplicates on insert.
const DefaultCodeLength = 7

// RandomCode returns a securely generated random short code of length n.
// Each character is sampled independently from CodeAlphabet.
func RandomCode(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	out := make([]byte, n)
	max := big.NewInt(int64(len(CodeAlphabet)))
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = CodeAlphabet[num.Int64()]
	}
	return string(out), nil
}
