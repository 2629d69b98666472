// Command migrate-schema brings every stored post to the current schema in
// one transaction per post: featured=false, pinned=false, likes=0 and the
// legacy category field removed.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/app"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/app/wpimport"
)

func main() {
	fs := flag.NewFlagSet("migrate-schema", flag.ExitOnError)
	flags := app.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	rt, err := app.Start(context.Background(), fs.Name(), flags)
	if err != nil {
		app.Fatal("startup failed", err)
	}

	ctx, cancel := rt.Context(context.Background())
	m := wpimport.NewSchemaMigrator(rt.Logger, rt.Store, rt.Config.Import.DryRun)
	summary, err := m.Run(ctx)
	code := rt.Finish(ctx, summary, err)
	cancel()
	rt.Close()
	os.Exit(code)
}
