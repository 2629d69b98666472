package wpimport

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/app/wpimport/clean"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/app/wpimport/compose"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/domain"
)

// RecleanOptions configures a Recleaner run.
type RecleanOptions struct {
	Alphabet clean.Alphabet
	Excluded TitleFilter
	DryRun   bool
	NewKey   compose.KeyFunc
}

// Recleaner rewrites the body of stored posts with freshly cleaned text.
// With export items the source text is the export content matched by
// title; without, or when no item matches, the stored body itself is
// cleaned again.
type Recleaner struct {
	log        *slog.Logger
	store      PostStore
	opts       RecleanOptions
	normalizer *clean.Normalizer
}

func NewRecleaner(log *slog.Logger, store PostStore, opts RecleanOptions) *Recleaner {
	if opts.NewKey == nil {
		opts.NewKey = compose.NewKey
	}
	return &Recleaner{
		log:        log.With("job", "reclean"),
		store:      store,
		opts:       opts,
		normalizer: clean.NewNormalizer(opts.Alphabet),
	}
}

// Run re-cleans every stored post from the export content matched by
// title. An empty export leaves every post on its stored body.
func (r *Recleaner) Run(ctx context.Context, items []domain.ExportItem) (Summary, error) {
	return r.run(ctx, "reclean", exportSources(items))
}

// RunFromStore re-cleans every stored post from its own body.
func (r *Recleaner) RunFromStore(ctx context.Context) (Summary, error) {
	return r.run(ctx, "reclean-store", nil)
}

func (r *Recleaner) run(ctx context.Context, job string, sources map[string]string) (summary Summary, err error) {
	start := time.Now()
	summary = Summary{Job: job}
	defer func() { summary.Duration = time.Since(start) }()

	posts, err := r.store.ListPosts(ctx, domain.PostFilter{})
	if err != nil {
		return summary, fmt.Errorf("list posts: %w", err)
	}

	r.log.InfoContext(ctx, "starting run",
		slog.Int("posts", len(posts)),
		slog.Int("sources", len(sources)),
		slog.String("alphabet", r.opts.Alphabet.Name),
		slog.Bool("dry_run", r.opts.DryRun),
	)

	for _, p := range posts {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		res := r.reclean(ctx, p, sources)
		summary.Record(res)
		logItem(ctx, r.log, res)
	}
	return summary, nil
}

func (r *Recleaner) reclean(ctx context.Context, p domain.Post, sources map[string]string) ItemResult {
	res := ItemResult{Title: p.Title, Slug: p.Slug, ID: p.ID}

	if pattern, ok := r.opts.Excluded.Match(p.Title); ok {
		res.Outcome = domain.OutcomeExcluded
		res.Reason = "title matches " + pattern
		return res
	}

	// Posts without an export source fall back to their stored body.
	source := domain.BodyText(p.Body)
	if raw, ok := sources[clean.StripMarkup(p.Title)]; ok {
		source = raw
	}
	text := r.normalizer.Normalize(source)
	if text == "" {
		res.Outcome = domain.OutcomeSkipped
		res.Reason = "nothing left after cleaning"
		return res
	}

	body := compose.Segment(text, r.opts.NewKey)
	if domain.BodyText(body) == domain.BodyText(p.Body) && len(body) == len(p.Body) {
		res.Outcome = domain.OutcomeSkipped
		res.Reason = "unchanged"
		return res
	}

	if !r.opts.DryRun {
		patch := domain.PostPatch{ID: p.ID, Set: domain.PostFields{Body: body}}
		if err := r.store.PatchPost(ctx, patch); err != nil {
			return failed(res, fmt.Errorf("patch body: %w", err))
		}
	}
	res.Outcome = domain.OutcomeUpdated
	return res
}

// exportSources maps cleaned titles of eligible items to their raw content.
// The first item wins on duplicate titles.
func exportSources(items []domain.ExportItem) map[string]string {
	out := make(map[string]string, len(items))
	for _, it := range items {
		if !it.IsPublishedPost() || !it.HasContent() {
			continue
		}
		title := clean.StripMarkup(it.Title)
		if title == "" {
			continue
		}
		if _, dup := out[title]; !dup {
			out[title] = it.Content
		}
	}
	return out
}
