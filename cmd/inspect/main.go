// Command inspect is a read-only look at the store: it tests the
// connection, prints counts by category and flag, lists the latest posts
// and previews one page of the listing.
//
// Flags:
//
//	--latest   number of latest posts to show (default 5)
//	--page     page to preview, starting at 1 (default 1)
//	--limit    page size (default 10)
//	--id       also fetch a single post by id
//	--config   path to YAML config file
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/app"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/app/wpimport"
)

func main() {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	flags := app.RegisterFlags(fs)
	latestFlag := fs.Int("latest", 5, "number of latest posts to show")
	pageFlag := fs.Int("page", 1, "page to preview, starting at 1")
	limitFlag := fs.Int("limit", 10, "page size")
	idFlag := fs.String("id", "", "fetch a single post by id")
	_ = fs.Parse(os.Args[1:])

	rt, err := app.Start(context.Background(), fs.Name(), flags)
	if err != nil {
		app.Fatal("startup failed", err)
	}

	ctx, cancel := rt.Context(context.Background())
	code := run(ctx, rt, *latestFlag, *pageFlag, *limitFlag, *idFlag)
	cancel()
	rt.Close()
	os.Exit(code)
}

func run(ctx context.Context, rt *app.Runtime, latest, page, limit int, id string) int {
	log := rt.Logger

	rep, err := wpimport.BuildReport(ctx, rt.Store, latest)
	if err != nil {
		log.ErrorContext(ctx, "connection test failed", slog.String("error", err.Error()))
		return 1
	}
	log.InfoContext(ctx, "connection ok")
	rep.Log(ctx, log)

	posts, err := wpimport.Page(ctx, rt.Store, page, limit)
	if err != nil {
		log.ErrorContext(ctx, "page preview failed", slog.String("error", err.Error()))
		return 1
	}
	log.InfoContext(ctx, "page preview",
		slog.Int("page", page),
		slog.Int("limit", limit),
		slog.Int("offset", (page-1)*limit),
		slog.Int("returned", len(posts)),
	)
	for _, p := range posts {
		log.InfoContext(ctx, "page post", slog.String("title", p.Title), slog.String("slug", p.Slug))
	}

	if id != "" {
		p, err := rt.Store.GetPost(ctx, id)
		if err != nil {
			log.ErrorContext(ctx, "get post failed", slog.String("id", id), slog.String("error", err.Error()))
			return 1
		}
		log.InfoContext(ctx, "post",
			slog.String("id", p.ID),
			slog.String("title", p.Title),
			slog.String("slug", p.Slug),
			slog.String("category", p.Category.String()),
			slog.Bool("featured", p.Featured),
			slog.Bool("pinned", p.Pinned),
			slog.Int("likes", p.Likes),
			slog.Int("blocks", len(p.Body)),
		)
	}
	return 0
}
