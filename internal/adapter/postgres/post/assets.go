package post

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"path"
	"strings"

	sq "github.com/Masterminds/squirrel"

	postgres "github.com/bihaanbhojpuri/bihaan-sync/internal/adapter/postgres"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/domain"
)

// FindImageAsset returns the id of the oldest image whose original filename
// starts with filenamePrefix.
// Returns domain.ErrNotFound if there is none.
func (r *Repo) FindImageAsset(ctx context.Context, filenamePrefix string) (string, error) {
	query, args, err := postgres.Builder().
		Select("id").
		From("image_assets").
		Where(sq.Expr("starts_with(original_filename, ?)", filenamePrefix)).
		OrderBy("created_at", "id").
		Limit(1).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build query: %w", err)
	}

	var id string
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return "", postgres.MapError(err, "image_asset", filenamePrefix)
	}
	return id, nil
}

// UploadImage stores data and returns its asset id. Ids are derived from
// the content hash, so uploading the same bytes twice yields the same asset.
func (r *Repo) UploadImage(ctx context.Context, data []byte, contentType, filename string) (string, error) {
	if len(data) == 0 {
		return "", domain.NewValidationError("data", "required")
	}
	if filename == "" {
		return "", domain.NewValidationError("filename", "required")
	}

	id := AssetID(data, filename)

	query, args, err := postgres.Builder().
		Insert("image_assets").
		Columns("id", "original_filename", "content_type", "size_bytes", "data").
		Values(id, filename, contentType, len(data), data).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build query: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return "", postgres.MapError(err, "image_asset", id)
	}
	return id, nil
}

// AssetID builds an image asset id of the form image-<sha1>-<ext>.
func AssetID(data []byte, filename string) string {
	sum := sha1.Sum(data)
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	if ext == "" {
		ext = "bin"
	}
	return "image-" + hex.EncodeToString(sum[:]) + "-" + ext
}
