// Package crypto wraps the password primitives the auth flows depend on:
// one-way salted hashing and one-time temp-password generation.
package crypto

import "golang.org/x/crypto/bcrypt"

// VerifyResult is the outcome of comparing a raw password to a stored hash.
type VerifyResult int

const (
	Mismatch VerifyResult = iota
	Match
	// RehashRecommended means the password matched but the stored hash was
	// produced with a weaker cost than the current default.
	RehashRecommended
)

// Hasher is the one-way password hashing contract used by the auth services.
type Hasher interface {
	Hash(raw string) (string, error)
	Verify(hash, raw string) VerifyResult
}

// BcryptHasher implements Hasher with bcrypt. Each Hash call salts
// independently; the cost is embedded in the output.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(raw string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(raw), h.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Verify never fails hard: a blank or structurally invalid stored hash is a
// Mismatch, so a corrupt credential row can never crash the login path.
func (h *BcryptHasher) Verify(hash, raw string) VerifyResult {
	if hash == "" {
		return Mismatch
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)); err != nil {
		return Mismatch
	}
	if cost, err := bcrypt.Cost([]byte(hash)); err == nil && cost < h.cost {
		return RehashRecommended
	}
	return Match
}
