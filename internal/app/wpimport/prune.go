package wpimport

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/domain"
)

// Pruner deletes stored posts whose title matches the denylist.
type Pruner struct {
	log      *slog.Logger
	store    PostStore
	excluded TitleFilter
	dryRun   bool
}

func NewPruner(log *slog.Logger, store PostStore, excluded TitleFilter, dryRun bool) *Pruner {
	return &Pruner{
		log:      log.With("job", "prune"),
		store:    store,
		excluded: excluded,
		dryRun:   dryRun,
	}
}

// Run deletes every match once, even when several patterns match it.
// A failed lookup is recorded against the pattern and the run moves on.
func (p *Pruner) Run(ctx context.Context) (summary Summary, err error) {
	start := time.Now()
	summary = Summary{Job: "prune"}
	defer func() { summary.Duration = time.Since(start) }()

	p.log.InfoContext(ctx, "starting run",
		slog.Int("patterns", len(p.excluded.Patterns())),
		slog.Bool("dry_run", p.dryRun),
	)

	seen := make(map[string]bool)
	for _, pattern := range p.excluded.Patterns() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		posts, err := p.store.ListPosts(ctx, domain.PostFilter{TitleContains: pattern})
		if err != nil {
			res := failed(ItemResult{Title: pattern}, fmt.Errorf("find %q: %w", pattern, err))
			summary.Record(res)
			logItem(ctx, p.log, res)
			continue
		}

		for _, post := range posts {
			if seen[post.ID] {
				continue
			}
			seen[post.ID] = true

			res := ItemResult{
				Title:   post.Title,
				Slug:    post.Slug,
				ID:      post.ID,
				Outcome: domain.OutcomeDeleted,
				Reason:  "title matches " + pattern,
			}
			if !p.dryRun {
				if err := p.store.DeletePost(ctx, post.ID); err != nil {
					res = failed(res, fmt.Errorf("delete: %w", err))
				}
			}
			summary.Record(res)
			logItem(ctx, p.log, res)
		}
	}
	return summary, nil
}
