// Package wpimport runs the WordPress-to-CMS jobs: import, sync, re-clean,
// schema migration, pruning and inspection.
package wpimport

import (
	"context"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/domain"
)

// PostStore is the document-store contract consumed by the jobs.
// All methods use only domain types. Missing documents are reported as
// domain.ErrNotFound.
// Implemented by sanity.Client and post.Repo.
type PostStore interface {
	// Queries.
	ListPostRefs(ctx context.Context) ([]domain.PostRef, error)
	ListPosts(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error)
	CountPosts(ctx context.Context, filter domain.PostFilter) (int, error)
	GetPost(ctx context.Context, id string) (*domain.Post, error)

	// Mutations.
	CreatePost(ctx context.Context, post domain.Post) (string, error)
	PatchPost(ctx context.Context, patch domain.PostPatch) error
	// Transaction applies every patch atomically. An empty patch list is
	// a domain.ErrValidation error.
	Transaction(ctx context.Context, patches ...domain.PostPatch) error
	DeletePost(ctx context.Context, id string) error

	// Assets.
	FindImageAsset(ctx context.Context, filenamePrefix string) (string, error)
	UploadImage(ctx context.Context, data []byte, contentType, filename string) (string, error)
}
