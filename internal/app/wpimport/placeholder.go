package wpimport

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/domain"
)

const (
	PlaceholderFilename    = "placeholder-image.svg"
	PlaceholderContentType = "image/svg+xml"
	placeholderPrefix      = "placeholder"
)

var placeholderSVG = []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="800" height="400" viewBox="0 0 800 400">
  <rect width="800" height="400" fill="#f3ede2"/>
  <text x="400" y="200" font-family="sans-serif" font-size="32" fill="#6b4f2a" text-anchor="middle" dominant-baseline="middle">Bihaan Bhojpuri Placeholder</text>
</svg>
`)

// PlaceholderSVG returns the banner image uploaded when none exists yet.
func PlaceholderSVG() []byte {
	out := make([]byte, len(placeholderSVG))
	copy(out, placeholderSVG)
	return out
}

// EnsurePlaceholder returns the asset id of the shared banner image,
// uploading it if the store has none. On any failure it logs and returns
// fallback so the job can continue.
func EnsurePlaceholder(ctx context.Context, log *slog.Logger, store PostStore, fallback string) string {
	ref, err := store.FindImageAsset(ctx, placeholderPrefix)
	if err == nil {
		log.Debug("placeholder found", slog.String("asset", ref))
		return ref
	}
	if !errors.Is(err, domain.ErrNotFound) {
		log.Warn("placeholder lookup failed, using fallback",
			slog.String("fallback", fallback),
			slog.String("error", err.Error()),
		)
		return fallback
	}

	ref, err = store.UploadImage(ctx, PlaceholderSVG(), PlaceholderContentType, PlaceholderFilename)
	if err != nil {
		log.Warn("placeholder upload failed, using fallback",
			slog.String("fallback", fallback),
			slog.String("error", err.Error()),
		)
		return fallback
	}
	log.Info("placeholder uploaded", slog.String("asset", ref))
	return ref
}
