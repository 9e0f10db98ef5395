package crypto

import (
	"crypto/rand"
	"math/big"
)

// tempAlphabet excludes visually confusable characters (0/O, 1/l/I) so a
// password read off a screen or an email cannot be mistyped.
const tempAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"

const DefaultTempLength = 10

// PasswordGenerator produces one-time temporary passwords for admin-created
// accounts.
type PasswordGenerator interface {
	Generate(length int) string
}

// RandGenerator samples uniformly from tempAlphabet using crypto/rand. It is
// an injected collaborator, not a package-level singleton, so tests can swap
// it for a deterministic source.
type RandGenerator struct{}

func NewRandGenerator() *RandGenerator {
	return &RandGenerator{}
}

func (g *RandGenerator) Generate(length int) string {
	if length <= 0 {
		length = DefaultTempLength
	}
	max := big.NewInt(int64(len(tempAlphabet)))
	out := make([]byte, length)
	for i := range out {
		// crypto/rand.Int is uniform over [0, max); no modulo bias.
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("crypto: system randomness unavailable: " + err.Error())
		}
		out[i] = tempAlphabet[n.Int64()]
	}
	return string(out)
}
