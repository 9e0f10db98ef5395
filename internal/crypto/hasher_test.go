package crypto

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatalf("password stored in plaintext")
	}
	if got := h.Verify(hash, "s3cret-pass"); got == Mismatch {
		t.Fatalf("expected match, got %v", got)
	}
	if got := h.Verify(hash, "s3cret-pasS"); got != Mismatch {
		t.Fatalf("expected mismatch for wrong password, got %v", got)
	}
}

func TestBcryptHasher_SaltsPerCall(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Fatalf("two hashes of the same password are identical; missing per-call salt")
	}
}

func TestBcryptHasher_MalformedHashIsMismatch(t *testing.T) {
	h := NewBcryptHasher(bcrypt.DefaultCost)

	for _, hash := range []string{"", "not-a-bcrypt-hash", "$2a$xx$garbage"} {
		if got := h.Verify(hash, "whatever"); got != Mismatch {
			t.Fatalf("Verify(%q) = %v, want Mismatch", hash, got)
		}
	}
}

func TestBcryptHasher_RehashRecommended(t *testing.T) {
	weak := NewBcryptHasher(bcrypt.MinCost)
	strong := NewBcryptHasher(bcrypt.MinCost + 2)

	hash, err := weak.Hash("pass")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if got := strong.Verify(hash, "pass"); got != RehashRecommended {
		t.Fatalf("expected RehashRecommended for low-cost hash, got %v", got)
	}
}

func TestRandGenerator_AlphabetAndLength(t *testing.T) {
	g := NewRandGenerator()

	pw := g.Generate(0)
	if len(pw) != DefaultTempLength {
		t.Fatalf("default length = %d, want %d", len(pw), DefaultTempLength)
	}

	for i := 0; i < 50; i++ {
		pw := g.Generate(32)
		if len(pw) != 32 {
			t.Fatalf("length = %d, want 32", len(pw))
		}
		for _, c := range pw {
			if !strings.ContainsRune(tempAlphabet, c) {
				t.Fatalf("character %q outside alphabet", c)
			}
			if strings.ContainsRune("0O1lI", c) {
				t.Fatalf("confusable character %q generated", c)
			}
		}
	}
}
