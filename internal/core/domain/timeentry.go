package domain

import "time"

// TimeEntry records one work interval for one user on one date.
type TimeEntry struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	TenantID string    `json:"tenant_id"`
	Date     time.Time `json:"date"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Note     string    `json:"note,omitempty"`
}

// Hours returns the worked duration in fractional hours.
func (t *TimeEntry) Hours() float64 {
	return t.End.Sub(t.Start).Hours()
}
