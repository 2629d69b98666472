package wpimport

import (
	"context"
	"log/slog"
	"time"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/domain"
)

// ItemResult is the terminal state of one candidate.
type ItemResult struct {
	Title   string
	Slug    string
	ID      string
	Outcome domain.Outcome
	Reason  string
	Err     error
}

// Summary holds the outcome counts of a job run.
type Summary struct {
	Job        string
	Created    int
	Updated    int
	Skipped    int
	Excluded   int
	Ineligible int
	Deleted    int
	Failed     int
	Duration   time.Duration
	Items      []ItemResult
}

// Record counts r and keeps it.
func (s *Summary) Record(r ItemResult) {
	switch r.Outcome {
	case domain.OutcomeCreated:
		s.Created++
	case domain.OutcomeUpdated:
		s.Updated++
	case domain.OutcomeSkipped:
		s.Skipped++
	case domain.OutcomeExcluded:
		s.Excluded++
	case domain.OutcomeIneligible:
		s.Ineligible++
	case domain.OutcomeDeleted:
		s.Deleted++
	case domain.OutcomeFailed:
		s.Failed++
	}
	s.Items = append(s.Items, r)
}

// Total returns the number of recorded items.
func (s Summary) Total() int { return len(s.Items) }

// HasErrors returns true if any item failed.
func (s Summary) HasErrors() bool { return s.Failed > 0 }

// Count returns how many items ended in outcome o.
func (s Summary) Count(o domain.Outcome) int {
	n := 0
	for _, it := range s.Items {
		if it.Outcome == o {
			n++
		}
	}
	return n
}

// Log writes the summary line.
func (s Summary) Log(ctx context.Context, log *slog.Logger) {
	log.InfoContext(ctx, "job completed",
		slog.String("job", s.Job),
		slog.Int("total", s.Total()),
		slog.Int("created", s.Created),
		slog.Int("updated", s.Updated),
		slog.Int("skipped", s.Skipped),
		slog.Int("excluded", s.Excluded),
		slog.Int("ineligible", s.Ineligible),
		slog.Int("deleted", s.Deleted),
		slog.Int("failed", s.Failed),
		slog.Duration("duration", s.Duration),
	)
}

func logItem(ctx context.Context, log *slog.Logger, r ItemResult) {
	attrs := []any{
		slog.String("title", r.Title),
		slog.String("slug", r.Slug),
		slog.String("outcome", r.Outcome.String()),
	}
	if r.ID != "" {
		attrs = append(attrs, slog.String("id", r.ID))
	}
	if r.Reason != "" {
		attrs = append(attrs, slog.String("reason", r.Reason))
	}

	switch r.Outcome {
	case domain.OutcomeFailed:
		if r.Err != nil {
			attrs = append(attrs, slog.String("error", r.Err.Error()))
		}
		log.ErrorContext(ctx, "item failed", attrs...)
	case domain.OutcomeCreated, domain.OutcomeUpdated, domain.OutcomeDeleted:
		log.InfoContext(ctx, "item written", attrs...)
	default:
		log.DebugContext(ctx, "item passed over", attrs...)
	}
}
