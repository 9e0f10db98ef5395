package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/restauranthub/timetracker/internal/core/domain"
	"github.com/restauranthub/timetracker/internal/core/ports"
)

// TimeEntryService implements the employee-facing time registration. All
// operations are scoped to the calling user's id from session claims; another
// user's entry id does not resolve.
type TimeEntryService struct {
	entries ports.TimeEntryRepository
	log     zerolog.Logger
}

func NewTimeEntryService(entries ports.TimeEntryRepository, log zerolog.Logger) *TimeEntryService {
	return &TimeEntryService{entries: entries, log: log}
}

func (s *TimeEntryService) List(ctx context.Context, userID string) ([]*domain.TimeEntry, error) {
	return s.entries.ListByUser(ctx, userID)
}

func (s *TimeEntryService) Create(ctx context.Context, in ports.CreateEntryInput) (*domain.TimeEntry, error) {
	date := in.Date.UTC().Truncate(24 * time.Hour)
	start := combine(date, in.Start)
	end := combine(date, in.End)
	if !end.After(start) {
		return nil, domain.ErrInvalidInterval
	}

	entry := &domain.TimeEntry{
		UserID:   in.UserID,
		TenantID: in.TenantID,
		Date:     date,
		Start:    start,
		End:      end,
		Note:     in.Note,
	}
	created, err := s.entries.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("user_id", in.UserID).Str("entry_id", created.ID).Msg("time entry created")
	return created, nil
}

func (s *TimeEntryService) Delete(ctx context.Context, userID, entryID string) error {
	return s.entries.DeleteOwned(ctx, userID, entryID)
}

func (s *TimeEntryService) Summary(ctx context.Context, userID string, year int, month time.Month) (*ports.MonthlySummary, error) {
	entries, err := s.entries.ListMonthByUser(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}
	var total float64
	for _, e := range entries {
		total += e.Hours()
	}
	return &ports.MonthlySummary{
		Year:       year,
		Month:      int(month),
		TotalHours: total,
		Entries:    len(entries),
	}, nil
}

// combine anchors a clock time onto the entry's date.
func combine(date, clock time.Time) time.Time {
	c := clock.UTC()
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour(), c.Minute(), 0, 0, time.UTC)
}
