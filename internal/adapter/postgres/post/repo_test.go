package post_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/adapter/postgres/post"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/adapter/postgres/testhelper"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/domain"
)

// newRepo sets up a test DB and returns a ready Repo + pool.
func newRepo(t *testing.T) (*post.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return post.New(pool), pool
}

// marker returns a string unique to this test so parallel tests sharing the
// database can filter their own rows.
func marker(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("m%d", time.Now().UnixNano())
}

func newPost(mark, name string) domain.Post {
	return domain.Post{
		Title:       mark + " " + name,
		Slug:        mark + "-" + name,
		Category:    domain.CategoryPoems,
		BannerImage: &domain.ImageRef{AssetRef: "image-abc-800x400-svg"},
		PublishedAt: time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC),
		Body: []domain.Block{
			{Key: "b1", Style: "normal", Children: []domain.Span{{Key: "s1", Text: "पहिला लाइन"}}},
			{Key: "b2", Style: "normal", Children: []domain.Span{{Key: "s2", Text: "दूसरा लाइन"}}},
		},
	}
}

// ---------------------------------------------------------------------------
// Create + Get
// ---------------------------------------------------------------------------

func TestRepo_CreatePost_AndGetPost(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()
	m := marker(t)

	in := newPost(m, "create")
	id, err := repo.CreatePost(ctx, in)
	if err != nil {
		t.Fatalf("CreatePost: unexpected error: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("CreatePost returned non-uuid id %q", id)
	}

	got, err := repo.GetPost(ctx, id)
	if err != nil {
		t.Fatalf("GetPost: unexpected error: %v", err)
	}
	if got.Title != in.Title || got.Slug != in.Slug {
		t.Errorf("identity mismatch: got %q/%q, want %q/%q", got.Title, got.Slug, in.Title, in.Slug)
	}
	if got.Category != domain.CategoryPoems {
		t.Errorf("Category: got %q, want %q", got.Category, domain.CategoryPoems)
	}
	if got.BannerImage == nil || got.BannerImage.AssetRef != "image-abc-800x400-svg" {
		t.Errorf("BannerImage: got %+v", got.BannerImage)
	}
	if !got.PublishedAt.Equal(in.PublishedAt) {
		t.Errorf("PublishedAt: got %v, want %v", got.PublishedAt, in.PublishedAt)
	}
	if len(got.Body) != 2 || got.Body[1].Text() != "दूसरा लाइन" || got.Body[0].Key != "b1" {
		t.Errorf("Body round-trip mismatch: %+v", got.Body)
	}
	if got.Featured || got.Pinned || got.Likes != 0 {
		t.Errorf("schema fields: got featured=%v pinned=%v likes=%d", got.Featured, got.Pinned, got.Likes)
	}
}

func TestRepo_CreatePost_DuplicateSlug(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()
	m := marker(t)

	if _, err := repo.CreatePost(ctx, newPost(m, "dup")); err != nil {
		t.Fatalf("CreatePost: unexpected error: %v", err)
	}
	other := newPost(m, "dup")
	other.Title = m + " another title"

	_, err := repo.CreatePost(ctx, other)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got: %v", err)
	}
}

func TestRepo_CreatePost_Invalid(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.CreatePost(context.Background(), domain.Post{Title: "no slug"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got: %v", err)
	}
}

func TestRepo_CreatePost_NoCategoryNoBanner(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()
	m := marker(t)

	in := newPost(m, "bare")
	in.Category = ""
	in.BannerImage = nil
	in.Body = nil

	id, err := repo.CreatePost(ctx, in)
	if err != nil {
		t.Fatalf("CreatePost: unexpected error: %v", err)
	}
	got, err := repo.GetPost(ctx, id)
	if err != nil {
		t.Fatalf("GetPost: unexpected error: %v", err)
	}
	if got.Category != "" || got.BannerImage != nil || got.Body != nil {
		t.Errorf("expected empty optional fields, got %+v", got)
	}
}

func TestRepo_GetPost_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	for _, id := range []string{uuid.NewString(), "drafts.not-a-uuid"} {
		if _, err := repo.GetPost(ctx, id); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("GetPost(%q): expected ErrNotFound, got: %v", id, err)
		}
	}
}

// ---------------------------------------------------------------------------
// Listing
// ---------------------------------------------------------------------------

func TestRepo_ListPosts_FilterAndPaging(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()
	m := marker(t)

	for i, cat := range []domain.Category{domain.CategoryPoems, domain.CategoryStories, domain.CategoryPoems} {
		p := newPost(m, fmt.Sprintf("list%d", i))
		p.Category = cat
		p.PublishedAt = time.Date(2020, 1, i+1, 0, 0, 0, 0, time.UTC)
		if _, err := repo.CreatePost(ctx, p); err != nil {
			t.Fatalf("CreatePost %d: %v", i, err)
		}
	}

	all, err := repo.ListPosts(ctx, domain.PostFilter{TitleContains: m})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListPosts: got %d posts, want 3", len(all))
	}
	if all[0].Slug != m+"-list2" {
		t.Errorf("expected newest first, got %q", all[0].Slug)
	}

	poems := domain.CategoryPoems
	n, err := repo.CountPosts(ctx, domain.PostFilter{TitleContains: m, Category: &poems})
	if err != nil {
		t.Fatalf("CountPosts: %v", err)
	}
	if n != 2 {
		t.Errorf("CountPosts(poems): got %d, want 2", n)
	}

	page, err := repo.ListPosts(ctx, domain.PostFilter{TitleContains: m, Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("ListPosts page: %v", err)
	}
	if len(page) != 1 || page[0].Slug != m+"-list1" {
		t.Errorf("page 2 of size 1: got %+v", page)
	}
}

func TestRepo_ListPostRefs(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedPost(t, pool, "refs")

	refs, err := repo.ListPostRefs(ctx)
	if err != nil {
		t.Fatalf("ListPostRefs: %v", err)
	}
	found := false
	for _, ref := range refs {
		if ref.ID == seeded.ID {
			found = true
			if ref.Title != seeded.Title || ref.Slug != seeded.Slug {
				t.Errorf("ref mismatch: got %+v, want %+v", ref, seeded)
			}
		}
	}
	if !found {
		t.Errorf("seeded post %s not in refs", seeded.ID)
	}
}

// ---------------------------------------------------------------------------
// Patch + Transaction + Delete
// ---------------------------------------------------------------------------

func TestRepo_PatchPost_SetAndUnset(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()
	m := marker(t)

	id, err := repo.CreatePost(ctx, newPost(m, "patch"))
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	featured, likes := true, 7
	err = repo.PatchPost(ctx, domain.PostPatch{
		ID:    id,
		Set:   domain.PostFields{Featured: &featured, Likes: &likes},
		Unset: []string{domain.FieldCategory},
	})
	if err != nil {
		t.Fatalf("PatchPost: %v", err)
	}

	got, err := repo.GetPost(ctx, id)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if !got.Featured || got.Likes != 7 {
		t.Errorf("patched fields: featured=%v likes=%d", got.Featured, got.Likes)
	}
	if got.Category != "" {
		t.Errorf("category should be unset, got %q", got.Category)
	}
	if got.Title != m+" patch" {
		t.Errorf("untouched title changed: %q", got.Title)
	}
}

func TestRepo_PatchPost_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	pinned := true
	err := repo.PatchPost(context.Background(), domain.PostPatch{
		ID:  uuid.NewString(),
		Set: domain.PostFields{Pinned: &pinned},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestRepo_PatchPost_Invalid(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	err := repo.PatchPost(context.Background(), domain.PostPatch{ID: uuid.NewString(), Unset: []string{domain.FieldTitle}})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got: %v", err)
	}
}

func TestRepo_Transaction_RollsBackOnMissingTarget(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()
	m := marker(t)

	id, err := repo.CreatePost(ctx, newPost(m, "tx"))
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	likes := 3
	err = repo.Transaction(ctx,
		domain.PostPatch{ID: id, Set: domain.PostFields{Likes: &likes}},
		domain.PostPatch{ID: uuid.NewString(), Set: domain.PostFields{Likes: &likes}},
	)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}

	got, err := repo.GetPost(ctx, id)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if got.Likes != 0 {
		t.Errorf("first patch should have been rolled back, likes=%d", got.Likes)
	}
}

func TestRepo_Transaction_Empty(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	if err := repo.Transaction(context.Background()); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got: %v", err)
	}
}

func TestRepo_Transaction_Commits(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()
	m := marker(t)

	a, err := repo.CreatePost(ctx, newPost(m, "txa"))
	if err != nil {
		t.Fatalf("CreatePost a: %v", err)
	}
	b, err := repo.CreatePost(ctx, newPost(m, "txb"))
	if err != nil {
		t.Fatalf("CreatePost b: %v", err)
	}

	pinned := true
	err = repo.Transaction(ctx,
		domain.PostPatch{ID: a, Set: domain.PostFields{Pinned: &pinned}},
		domain.PostPatch{ID: b, Set: domain.PostFields{Pinned: &pinned}},
	)
	if err != nil {
		t.Fatalf("Transaction: %v", err)
	}

	t.Run("both committed", func(t *testing.T) {
		for _, id := range []string{a, b} {
			got, err := repo.GetPost(ctx, id)
			if err != nil {
				t.Fatalf("GetPost(%s): %v", id, err)
			}
			if !got.Pinned {
				t.Errorf("post %s not pinned", id)
			}
		}
	})
}

func TestRepo_DeletePost(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedPost(t, pool, "delete")

	if err := repo.DeletePost(ctx, seeded.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if _, err := repo.GetPost(ctx, seeded.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got: %v", err)
	}
	if err := repo.DeletePost(ctx, seeded.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Assets
// ---------------------------------------------------------------------------

func TestRepo_UploadImage_AndFind(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()
	m := marker(t)

	data := []byte("<svg>" + m + "</svg>")
	filename := m + "-banner.svg"

	if _, err := repo.FindImageAsset(ctx, m); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("FindImageAsset before upload: expected ErrNotFound, got: %v", err)
	}

	id, err := repo.UploadImage(ctx, data, "image/svg+xml", filename)
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if id != post.AssetID(data, filename) {
		t.Errorf("UploadImage id = %q, want %q", id, post.AssetID(data, filename))
	}

	again, err := repo.UploadImage(ctx, data, "image/svg+xml", filename)
	if err != nil {
		t.Fatalf("second UploadImage: %v", err)
	}
	if again != id {
		t.Errorf("re-upload id = %q, want %q", again, id)
	}

	found, err := repo.FindImageAsset(ctx, m)
	if err != nil {
		t.Fatalf("FindImageAsset: %v", err)
	}
	if found != id {
		t.Errorf("FindImageAsset = %q, want %q", found, id)
	}
}

func TestRepo_UploadImage_Empty(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	if _, err := repo.UploadImage(context.Background(), nil, "image/svg+xml", "x.svg"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got: %v", err)
	}
}

func TestAssetID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename string
		wantExt  string
	}{
		{"placeholder-image.svg", "-svg"},
		{"Photo.PNG", "-png"},
		{"noext", "-bin"},
	}
	for _, tt := range tests {
		got := post.AssetID([]byte("data"), tt.filename)
		if len(got) != len("image-")+40+len(tt.wantExt) || got[len(got)-len(tt.wantExt):] != tt.wantExt {
			t.Errorf("AssetID(%q) = %q, want suffix %q", tt.filename, got, tt.wantExt)
		}
	}
}
