// Package post implements the post store on PostgreSQL. It is the local
// backend of the import jobs and mirrors the CMS document semantics:
// string ids, sparse patches and atomic multi-patch transactions.
package post

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/bihaanbhojpuri/bihaan-sync/internal/adapter/postgres"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/domain"
)

// Repo provides post persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	txm  *postgres.TxManager
}

// New creates a new post repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool, txm: postgres.NewTxManager(pool)}
}

var postColumns = []string{
	"id::text", "title", "slug", "COALESCE(category, '')", "banner_asset_ref",
	"published_at", "body", "featured", "pinned", "likes",
}

// columnOf maps document field names to table columns.
var columnOf = map[string]string{
	domain.FieldTitle:       "title",
	domain.FieldSlug:        "slug",
	domain.FieldCategory:    "category",
	domain.FieldBannerImage: "banner_asset_ref",
	domain.FieldPublishedAt: "published_at",
	domain.FieldBody:        "body",
	domain.FieldFeatured:    "featured",
	domain.FieldPinned:      "pinned",
	domain.FieldLikes:       "likes",
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListPostRefs returns the identity of every stored post.
func (r *Repo) ListPostRefs(ctx context.Context) ([]domain.PostRef, error) {
	query, args, err := postgres.Builder().
		Select("id::text", "title", "slug").
		From("posts").
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "posts", "list refs")
	}
	defer rows.Close()

	var refs []domain.PostRef
	for rows.Next() {
		var ref domain.PostRef
		if err := rows.Scan(&ref.ID, &ref.Title, &ref.Slug); err != nil {
			return nil, fmt.Errorf("scan post ref: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "posts", "list refs")
	}
	return refs, nil
}

// ListPosts returns posts matching filter, newest first.
func (r *Repo) ListPosts(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	qb := applyFilter(postgres.Builder().Select(postColumns...).From("posts"), filter).
		OrderBy("published_at DESC NULLS LAST", "id")
	if filter.Limit > 0 {
		qb = qb.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		qb = qb.Offset(uint64(filter.Offset))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "posts", "list")
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "posts", "list")
	}
	return posts, nil
}

// CountPosts counts posts matching filter. Limit and Offset are ignored.
func (r *Repo) CountPosts(ctx context.Context, filter domain.PostFilter) (int, error) {
	query, args, err := applyFilter(postgres.Builder().Select("count(*)").From("posts"), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var n int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "posts", "count")
	}
	return n, nil
}

// GetPost returns a post by id.
// Returns domain.ErrNotFound if it does not exist.
func (r *Repo) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}

	query, args, err := postgres.Builder().
		Select(postColumns...).
		From("posts").
		Where(sq.Eq{"id": uid}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	p, err := scanPost(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "post", id)
	}
	return p, nil
}

func applyFilter(qb sq.SelectBuilder, f domain.PostFilter) sq.SelectBuilder {
	if f.Category != nil {
		qb = qb.Where(sq.Eq{"category": string(*f.Category)})
	}
	if f.Featured != nil {
		qb = qb.Where(sq.Eq{"featured": *f.Featured})
	}
	if f.Pinned != nil {
		qb = qb.Where(sq.Eq{"pinned": *f.Pinned})
	}
	if f.TitleContains != "" {
		qb = qb.Where(sq.Expr("strpos(title, ?) > 0", f.TitleContains))
	}
	return qb
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// CreatePost inserts a post and returns its generated id.
// Returns domain.ErrAlreadyExists if the slug is taken.
func (r *Repo) CreatePost(ctx context.Context, p domain.Post) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	body, err := encodeBody(p.Body)
	if err != nil {
		return "", err
	}

	query, args, err := postgres.Builder().
		Insert("posts").
		Columns("title", "slug", "category", "banner_asset_ref", "published_at", "body", "featured", "pinned", "likes").
		Values(p.Title, p.Slug, nullCategory(p.Category), bannerRef(p.BannerImage), nullTime(p.PublishedAt), body, p.Featured, p.Pinned, p.Likes).
		Suffix("RETURNING id::text").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build query: %w", err)
	}

	var id string
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return "", postgres.MapError(err, "post", p.Slug)
	}
	return id, nil
}

// PatchPost applies one sparse patch.
// Returns domain.ErrNotFound if the post does not exist.
func (r *Repo) PatchPost(ctx context.Context, patch domain.PostPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	return r.patch(ctx, patch)
}

// Transaction applies every patch atomically. Nothing is written unless
// all patches are valid and every target exists.
func (r *Repo) Transaction(ctx context.Context, patches ...domain.PostPatch) error {
	if len(patches) == 0 {
		return domain.NewValidationError("patches", "empty transaction")
	}
	for _, p := range patches {
		if err := p.Validate(); err != nil {
			return err
		}
	}

	return r.txm.RunInTx(ctx, func(ctx context.Context) error {
		for _, p := range patches {
			if err := r.patch(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repo) patch(ctx context.Context, patch domain.PostPatch) error {
	uid, err := uuid.Parse(patch.ID)
	if err != nil {
		return fmt.Errorf("post %s: %w", patch.ID, domain.ErrNotFound)
	}

	ub := postgres.Builder().Update("posts").Set("updated_at", sq.Expr("now()"))

	set := patch.Set
	if set.Title != nil {
		ub = ub.Set("title", *set.Title)
	}
	if set.Slug != nil {
		ub = ub.Set("slug", *set.Slug)
	}
	if set.Category != nil {
		ub = ub.Set("category", string(*set.Category))
	}
	if set.BannerImage != nil {
		ub = ub.Set("banner_asset_ref", set.BannerImage.AssetRef)
	}
	if set.PublishedAt != nil {
		ub = ub.Set("published_at", nullTime(*set.PublishedAt))
	}
	if set.Body != nil {
		body, err := encodeBody(set.Body)
		if err != nil {
			return err
		}
		ub = ub.Set("body", body)
	}
	if set.Featured != nil {
		ub = ub.Set("featured", *set.Featured)
	}
	if set.Pinned != nil {
		ub = ub.Set("pinned", *set.Pinned)
	}
	if set.Likes != nil {
		ub = ub.Set("likes", *set.Likes)
	}
	for _, field := range patch.Unset {
		ub = ub.Set(columnOf[field], nil)
	}

	query, args, err := ub.Where(sq.Eq{"id": uid}).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "post", patch.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post %s: %w", patch.ID, domain.ErrNotFound)
	}
	return nil
}

// DeletePost removes a post.
// Returns domain.ErrNotFound if it does not exist.
func (r *Repo) DeletePost(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}

	query, args, err := postgres.Builder().Delete("posts").Where(sq.Eq{"id": uid}).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "post", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*domain.Post, error) {
	var (
		p         domain.Post
		category  string
		banner    *string
		published *time.Time
		body      []byte
	)
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &category, &banner,
		&published, &body, &p.Featured, &p.Pinned, &p.Likes)
	if err != nil {
		return nil, err
	}

	p.Category = domain.Category(category)
	if banner != nil {
		p.BannerImage = &domain.ImageRef{AssetRef: *banner}
	}
	if published != nil {
		p.PublishedAt = published.UTC()
	}
	if p.Body, err = decodeBody(body); err != nil {
		return nil, fmt.Errorf("post %s: %w", p.ID, err)
	}
	return &p, nil
}

// blockRow is the jsonb shape of a body block. It matches the portable
// text layout used by the CMS so bodies can be exported unchanged.
type blockRow struct {
	Key      string    `json:"_key"`
	Type     string    `json:"_type"`
	Style    string    `json:"style"`
	Children []spanRow `json:"children"`
	MarkDefs []string  `json:"markDefs"`
}

type spanRow struct {
	Key   string   `json:"_key"`
	Type  string   `json:"_type"`
	Text  string   `json:"text"`
	Marks []string `json:"marks"`
}

func encodeBody(blocks []domain.Block) ([]byte, error) {
	rows := make([]blockRow, 0, len(blocks))
	for _, b := range blocks {
		row := blockRow{Key: b.Key, Type: "block", Style: b.Style, MarkDefs: []string{}}
		for _, s := range b.Children {
			marks := s.Marks
			if marks == nil {
				marks = []string{}
			}
			row.Children = append(row.Children, spanRow{Key: s.Key, Type: "span", Text: s.Text, Marks: marks})
		}
		rows = append(rows, row)
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return data, nil
}

func decodeBody(data []byte) ([]domain.Block, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var rows []blockRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	blocks := make([]domain.Block, 0, len(rows))
	for _, row := range rows {
		b := domain.Block{Key: row.Key, Style: row.Style}
		for _, s := range row.Children {
			var marks []string
			if len(s.Marks) > 0 {
				marks = s.Marks
			}
			b.Children = append(b.Children, domain.Span{Key: s.Key, Text: s.Text, Marks: marks})
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func nullCategory(c domain.Category) *string {
	if c == "" {
		return nil
	}
	s := string(c)
	return &s
}

func bannerRef(img *domain.ImageRef) *string {
	if img == nil || img.AssetRef == "" {
		return nil
	}
	return &img.AssetRef
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
