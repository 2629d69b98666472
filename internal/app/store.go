package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/adapter/postgres"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/adapter/postgres/post"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/adapter/sanity"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/app/wpimport"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/config"
)

// Compile-time interface assertions.
var (
	_ wpimport.PostStore = (*sanity.Client)(nil)
	_ wpimport.PostStore = (*post.Repo)(nil)
)

// OpenStore connects the configured backend. The returned func releases
// its resources and is never nil.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (wpimport.PostStore, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendSanity:
		logger.Info("using sanity store",
			slog.String("project", cfg.Sanity.ProjectID),
			slog.String("dataset", cfg.Sanity.Dataset),
		)
		return sanity.New(cfg.Sanity, logger), func() {}, nil

	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, func() {}, fmt.Errorf("connect to database: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, logger); err != nil {
				pool.Close()
				return nil, func() {}, fmt.Errorf("migrate database: %w", err)
			}
		}
		logger.Info("using postgres store", slog.Int("max_conns", int(cfg.Database.MaxConns)))
		return post.New(pool), pool.Close, nil
	}

	return nil, func() {}, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
