// Command import-xml creates CMS posts from a WordPress export. Posts whose
// slug already exists are skipped.
//
// Usage:
//
//	import-xml [--dry-run] [--config path] <export.xml>
//
// Exit codes: 0 = success, 1 = error or any failed item.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/app"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/app/wpimport"
)

func main() {
	fs := flag.NewFlagSet("import-xml", flag.ExitOnError)
	flags := app.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: import-xml [--dry-run] [--config path] <export.xml>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	rt, err := app.Start(context.Background(), fs.Name(), flags)
	if err != nil {
		app.Fatal("startup failed", err)
	}

	ctx, cancel := rt.Context(context.Background())
	summary, err := rt.Upsert(ctx, wpimport.ImportPolicy, path)
	code := rt.Finish(ctx, summary, err)
	cancel()
	rt.Close()
	os.Exit(code)
}
