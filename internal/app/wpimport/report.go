package wpimport

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/domain"
)

// Report is a read-only snapshot of the store.
type Report struct {
	Total         int
	Poems         int
	Stories       int
	Uncategorized int
	Featured      int
	Pinned        int
	Latest        []domain.Post
}

// BuildReport counts posts by category and flag and fetches the latest ones.
func BuildReport(ctx context.Context, store PostStore, latest int) (Report, error) {
	var rep Report
	var err error

	poems, stories := domain.CategoryPoems, domain.CategoryStories
	yes := true

	counts := []struct {
		name   string
		filter domain.PostFilter
		dst    *int
	}{
		{"total", domain.PostFilter{}, &rep.Total},
		{"poems", domain.PostFilter{Category: &poems}, &rep.Poems},
		{"stories", domain.PostFilter{Category: &stories}, &rep.Stories},
		{"featured", domain.PostFilter{Featured: &yes}, &rep.Featured},
		{"pinned", domain.PostFilter{Pinned: &yes}, &rep.Pinned},
	}
	for _, c := range counts {
		if *c.dst, err = store.CountPosts(ctx, c.filter); err != nil {
			return Report{}, fmt.Errorf("count %s: %w", c.name, err)
		}
	}
	rep.Uncategorized = max(rep.Total-rep.Poems-rep.Stories, 0)

	if latest > 0 {
		if rep.Latest, err = store.ListPosts(ctx, domain.PostFilter{Limit: latest}); err != nil {
			return Report{}, fmt.Errorf("list latest: %w", err)
		}
	}
	return rep, nil
}

// Page returns one page of posts, newest first. Pages start at 1.
func Page(ctx context.Context, store PostStore, page, limit int) ([]domain.Post, error) {
	if page < 1 {
		return nil, domain.NewValidationError("page", "must be >= 1")
	}
	if limit < 1 {
		return nil, domain.NewValidationError("limit", "must be >= 1")
	}
	return store.ListPosts(ctx, domain.PostFilter{Limit: limit, Offset: (page - 1) * limit})
}

// Log writes the report counts and one line per latest post.
func (r Report) Log(ctx context.Context, log *slog.Logger) {
	log.InfoContext(ctx, "store report",
		slog.Int("total", r.Total),
		slog.Int("poems", r.Poems),
		slog.Int("stories", r.Stories),
		slog.Int("uncategorized", r.Uncategorized),
		slog.Int("featured", r.Featured),
		slog.Int("pinned", r.Pinned),
	)
	for _, p := range r.Latest {
		log.InfoContext(ctx, "latest post",
			slog.String("id", p.ID),
			slog.String("title", p.Title),
			slog.String("slug", p.Slug),
			slog.String("category", p.Category.String()),
			slog.Time("published_at", p.PublishedAt),
			slog.Int("blocks", len(p.Body)),
		)
	}
}
