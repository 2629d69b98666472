package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/app/wpimport"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/app/wpimport/wxr"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/domain"
)

// LoadExport parses the WordPress export at path.
func (r *Runtime) LoadExport(ctx context.Context, path string) ([]domain.ExportItem, error) {
	items, stats, err := wxr.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse export: %w", err)
	}
	r.Logger.InfoContext(ctx, "export parsed",
		slog.String("path", path),
		slog.Int("items", stats.Items),
		slog.Int("posts", stats.Posts),
		slog.Int("published", stats.Published),
		slog.Int("attachments", stats.Attachment),
	)
	return items, nil
}

// Upsert parses the export at path and runs it through policy.
func (r *Runtime) Upsert(ctx context.Context, policy wpimport.Policy, path string) (wpimport.Summary, error) {
	items, err := r.LoadExport(ctx, path)
	if err != nil {
		return wpimport.Summary{Job: policy.Name}, err
	}

	u, err := wpimport.NewUpserter(r.Logger, r.Store, wpimport.UpsertOptions{
		Policy:           policy,
		Excluded:         r.Excluded(),
		PlaceholderAsset: r.Config.Import.PlaceholderAsset,
		DryRun:           r.Config.Import.DryRun,
		PreviewCount:     r.Config.Import.PreviewCount,
	})
	if err != nil {
		return wpimport.Summary{Job: policy.Name}, err
	}
	return u.Run(ctx, items)
}
