package domain

import (
	"strings"
	"time"
	"unicode"
)

// Tenant is an isolated organizational unit (a restaurant). All non-superadmin
// users belong to exactly one tenant, and every tenant-scoped query filters by
// its id.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CleanName returns the tenant name lowered and stripped to letters and
// digits. Used both for duplicate detection ("Burger Hytten" collides with
// "burgerhytten") and for deriving the tenant admin email address.
func CleanName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
