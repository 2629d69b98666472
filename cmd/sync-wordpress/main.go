// Command sync-wordpress overwrites CMS posts from the WordPress export,
// matching by slug, and creates the ones that are missing. Slug collisions
// with other posts get a timestamp suffix.
//
// Flags:
//
//	--xml       export path (default: IMPORT_XML_PATH)
//	--dry-run   build records and log a preview without writing
//	--config    path to YAML config file
package main

import (
	"context"
	"flag"
	"os"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/app"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/app/wpimport"
)

func main() {
	fs := flag.NewFlagSet("sync-wordpress", flag.ExitOnError)
	flags := app.RegisterFlags(fs)
	xmlFlag := fs.String("xml", "", "export path (default: IMPORT_XML_PATH)")
	_ = fs.Parse(os.Args[1:])

	rt, err := app.Start(context.Background(), fs.Name(), flags)
	if err != nil {
		app.Fatal("startup failed", err)
	}

	path := rt.Config.Import.XMLPath
	if *xmlFlag != "" {
		path = *xmlFlag
	}

	ctx, cancel := rt.Context(context.Background())
	summary, err := rt.Upsert(ctx, wpimport.SyncPolicy, path)
	code := rt.Finish(ctx, summary, err)
	cancel()
	rt.Close()
	os.Exit(code)
}
