// Command add-missing creates the export posts that are not in the CMS yet.
// A post counts as present when its title or slug is already stored.
// The export path comes from IMPORT_XML_PATH.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/app"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/app/wpimport"
)

func main() {
	fs := flag.NewFlagSet("add-missing", flag.ExitOnError)
	flags := app.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	rt, err := app.Start(context.Background(), fs.Name(), flags)
	if err != nil {
		app.Fatal("startup failed", err)
	}

	ctx, cancel := rt.Context(context.Background())
	summary, err := rt.Upsert(ctx, wpimport.AddMissingPolicy, rt.Config.Import.XMLPath)
	code := rt.Finish(ctx, summary, err)
	cancel()
	rt.Close()
	os.Exit(code)
}
