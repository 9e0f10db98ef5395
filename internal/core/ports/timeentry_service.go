package ports

import (
	"context"
	"time"

	"github.com/restauranthub/timetracker/internal/core/domain"
)

type CreateEntryInput struct {
	UserID   string
	TenantID string
	Date     time.Time
	Start    time.Time
	End      time.Time
	Note     string
}

type MonthlySummary struct {
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	TotalHours float64 `json:"total_hours"`
	Entries    int     `json:"entries"`
}

// TimeEntryService covers the employee-facing time registration operations,
// always scoped to the calling user.
type TimeEntryService interface {
	List(ctx context.Context, userID string) ([]*domain.TimeEntry, error)
	Create(ctx context.Context, in CreateEntryInput) (*domain.TimeEntry, error)
	Delete(ctx context.Context, userID, entryID string) error
	Summary(ctx context.Context, userID string, year int, month time.Month) (*MonthlySummary, error)
}
