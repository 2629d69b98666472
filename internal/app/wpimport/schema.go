package wpimport

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/domain"
)

// SchemaMigrator moves stored posts to the current document schema:
// featured, pinned and likes get explicit defaults and the legacy
// category field is removed.
type SchemaMigrator struct {
	log    *slog.Logger
	store  PostStore
	dryRun bool
	unset  []string
}

func NewSchemaMigrator(log *slog.Logger, store PostStore, dryRun bool) *SchemaMigrator {
	return &SchemaMigrator{
		log:    log.With("job", "migrate-schema"),
		store:  store,
		dryRun: dryRun,
		unset:  []string{domain.FieldCategory},
	}
}

// Patch returns the schema patch for one document.
func (m *SchemaMigrator) Patch(id string) domain.PostPatch {
	featured, pinned, likes := false, false, 0
	return domain.PostPatch{
		ID: id,
		Set: domain.PostFields{
			Featured: &featured,
			Pinned:   &pinned,
			Likes:    &likes,
		},
		Unset: m.unset,
	}
}

// Run applies the schema patch to every post, one transaction per post.
func (m *SchemaMigrator) Run(ctx context.Context) (summary Summary, err error) {
	start := time.Now()
	summary = Summary{Job: "migrate-schema"}
	defer func() { summary.Duration = time.Since(start) }()

	refs, err := m.store.ListPostRefs(ctx)
	if err != nil {
		return summary, fmt.Errorf("list posts: %w", err)
	}
	m.log.InfoContext(ctx, "starting run", slog.Int("posts", len(refs)), slog.Bool("dry_run", m.dryRun))

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		res := ItemResult{Title: ref.Title, Slug: ref.Slug, ID: ref.ID, Outcome: domain.OutcomeUpdated}
		if !m.dryRun {
			if err := m.store.Transaction(ctx, m.Patch(ref.ID)); err != nil {
				res = failed(res, fmt.Errorf("migrate: %w", err))
			}
		}
		summary.Record(res)
		logItem(ctx, m.log, res)
	}
	return summary, nil
}
