// Command prune deletes stored posts whose title matches an entry of
// IMPORT_EXCLUDED_TITLES.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/app"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/app/wpimport"
)

func main() {
	fs := flag.NewFlagSet("prune", flag.ExitOnError)
	flags := app.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	rt, err := app.Start(context.Background(), fs.Name(), flags)
	if err != nil {
		app.Fatal("startup failed", err)
	}

	ctx, cancel := rt.Context(context.Background())
	p := wpimport.NewPruner(rt.Logger, rt.Store, rt.Excluded(), rt.Config.Import.DryRun)
	summary, err := p.Run(ctx)
	code := rt.Finish(ctx, summary, err)
	cancel()
	rt.Close()
	os.Exit(code)
}
