package wpimport

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/app/wpimport/compose"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/domain"
)

// UpsertOptions configures an Upserter run.
type UpsertOptions struct {
	Policy           Policy
	Excluded         TitleFilter
	PlaceholderAsset string
	DryRun           bool
	// PreviewCount is how many built records are logged in full.
	PreviewCount int

	Now    func() time.Time
	NewKey compose.KeyFunc
	IntN   func(int) int
}

// Upserter pushes export items into the store according to a Policy.
type Upserter struct {
	log   *slog.Logger
	store PostStore
	opts  UpsertOptions
}

// NewUpserter validates the policy and creates an Upserter.
func NewUpserter(log *slog.Logger, store PostStore, opts UpsertOptions) (*Upserter, error) {
	if err := opts.Policy.Validate(); err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Upserter{
		log:   log.With("job", opts.Policy.Name),
		store: store,
		opts:  opts,
	}, nil
}

// Run processes items sequentially. Per-item failures are recorded and the
// loop continues. An error is returned only when the run cannot start or
// the context is cancelled.
func (u *Upserter) Run(ctx context.Context, items []domain.ExportItem) (summary Summary, err error) {
	start := time.Now()
	summary = Summary{Job: u.opts.Policy.Name}
	defer func() { summary.Duration = time.Since(start) }()

	placeholder := u.opts.PlaceholderAsset
	if u.opts.Policy.EnsurePlaceholder && !u.opts.DryRun {
		placeholder = EnsurePlaceholder(ctx, u.log, u.store, placeholder)
	}

	builder := compose.NewBuilder(compose.Options{
		Alphabet:           u.opts.Policy.Alphabet,
		CategoryFromTags:   u.opts.Policy.CategoryFromTags,
		TitleFromParagraph: u.opts.Policy.TitleFromParagraph,
		UsePostName:        u.opts.Policy.UsePostName,
		PlaceholderAsset:   placeholder,
		NewKey:             u.opts.NewKey,
		Now:                u.opts.Now,
		IntN:               u.opts.IntN,
	})

	idx, err := u.loadIndex(ctx)
	if err != nil {
		return summary, fmt.Errorf("load existing posts: %w", err)
	}
	u.log.InfoContext(ctx, "starting run",
		slog.Int("items", len(items)),
		slog.Int("existing_slugs", idx.slugs.Len()),
		slog.Bool("dry_run", u.opts.DryRun),
	)

	previewed := 0
	for _, it := range items {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if ok, reason := builder.Eligible(it); !ok {
			r := ItemResult{Title: it.Title, Outcome: domain.OutcomeIneligible, Reason: reason}
			summary.Record(r)
			logItem(ctx, u.log, r)
			continue
		}

		post := builder.Build(it)
		if previewed < u.opts.PreviewCount {
			previewPost(u.log, post)
			previewed++
		}

		r := u.upsert(ctx, idx, post)
		summary.Record(r)
		logItem(ctx, u.log, r)
	}

	return summary, nil
}

func (u *Upserter) upsert(ctx context.Context, idx *postIndex, post domain.Post) ItemResult {
	res := ItemResult{Title: post.Title, Slug: post.Slug}

	if pattern, ok := u.opts.Excluded.Match(post.Title); ok {
		res.Outcome = domain.OutcomeExcluded
		res.Reason = "title matches " + pattern
		return res
	}

	if id, found := idx.lookup(post, u.opts.Policy.Match); found {
		res.ID = id
		if u.opts.Policy.OnExisting == ExistingSkip {
			res.Outcome = domain.OutcomeSkipped
			res.Reason = "already exists"
			return res
		}
		return u.patch(ctx, idx, id, post, res)
	}

	slug, ok := idx.slugs.Resolve(post.Slug, u.opts.Policy.OnCollision)
	if !ok {
		res.Outcome = domain.OutcomeSkipped
		res.Reason = "slug taken"
		return res
	}
	post.Slug = slug
	res.Slug = slug

	if err := post.Validate(); err != nil {
		return failed(res, err)
	}

	id := fmt.Sprintf("dry-run-%d", idx.slugs.Len()+1)
	if !u.opts.DryRun {
		var err error
		if id, err = u.store.CreatePost(ctx, post); err != nil {
			return failed(res, fmt.Errorf("create: %w", err))
		}
	}

	idx.add(domain.PostRef{ID: id, Title: post.Title, Slug: post.Slug})
	res.ID = id
	res.Outcome = domain.OutcomeCreated
	return res
}

func (u *Upserter) patch(ctx context.Context, idx *postIndex, id string, post domain.Post, res ItemResult) ItemResult {
	if owner, taken := idx.slugs.Owner(post.Slug); taken && owner != id {
		slug, ok := idx.slugs.Resolve(post.Slug, u.opts.Policy.OnCollision)
		if !ok {
			res.Outcome = domain.OutcomeSkipped
			res.Reason = "slug taken"
			return res
		}
		post.Slug = slug
		res.Slug = slug
	}

	if err := post.Validate(); err != nil {
		return failed(res, err)
	}

	if !u.opts.DryRun {
		if err := u.store.PatchPost(ctx, overwritePatch(id, post)); err != nil {
			return failed(res, fmt.Errorf("patch: %w", err))
		}
	}

	idx.add(domain.PostRef{ID: id, Title: post.Title, Slug: post.Slug})
	res.Outcome = domain.OutcomeUpdated
	return res
}

// overwritePatch sets every mutable field from post, leaving the schema
// counters (featured, pinned, likes) untouched.
func overwritePatch(id string, post domain.Post) domain.PostPatch {
	set := domain.PostFields{
		Title:       &post.Title,
		Slug:        &post.Slug,
		PublishedAt: &post.PublishedAt,
		Body:        post.Body,
		BannerImage: post.BannerImage,
	}
	if post.Category != "" {
		set.Category = &post.Category
	}
	return domain.PostPatch{ID: id, Set: set}
}

func failed(res ItemResult, err error) ItemResult {
	res.Outcome = domain.OutcomeFailed
	res.Err = err
	return res
}

func (u *Upserter) loadIndex(ctx context.Context) (*postIndex, error) {
	idx := newPostIndex(u.opts.Now)
	refs, err := u.store.ListPostRefs(ctx)
	if err != nil {
		return nil, err
	}
	for _, ref := range refs {
		idx.add(ref)
	}
	return idx, nil
}

func previewPost(log *slog.Logger, post domain.Post) {
	first := ""
	if len(post.Body) > 0 {
		first = compose.Truncate(post.Body[0].Text(), 80)
	}
	log.Info("preview",
		slog.String("title", post.Title),
		slog.String("slug", post.Slug),
		slog.String("category", post.Category.String()),
		slog.Time("published_at", post.PublishedAt),
		slog.Int("blocks", len(post.Body)),
		slog.String("first_block", first),
	)
}

// postIndex holds the identities of stored posts plus those written in
// the current run.
type postIndex struct {
	slugs  *compose.SlugRegistry
	titles map[string]string
}

func newPostIndex(now func() time.Time) *postIndex {
	return &postIndex{
		slugs:  compose.NewSlugRegistry(now),
		titles: make(map[string]string),
	}
}

func (x *postIndex) add(ref domain.PostRef) {
	if ref.Slug != "" {
		x.slugs.Add(ref.Slug, ref.ID)
	}
	if ref.Title != "" {
		x.titles[ref.Title] = ref.ID
	}
}

func (x *postIndex) lookup(post domain.Post, key MatchKey) (string, bool) {
	switch key {
	case MatchSlug:
		return x.slugs.Owner(post.Slug)
	case MatchTitle:
		id, ok := x.titles[post.Title]
		return id, ok
	case MatchTitleOrSlug:
		if id, ok := x.titles[post.Title]; ok {
			return id, true
		}
		return x.slugs.Owner(post.Slug)
	}
	return "", false
}
