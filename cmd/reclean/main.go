// Command reclean rewrites the body of every stored post with freshly
// cleaned text.
//
// Flags:
//
//	--source     export (default): re-derive bodies from the export by title;
//	             store: re-clean the stored bodies in place
//	--alphabet   character set override (standard, digits, artifacts)
//	--xml        export path (default: IMPORT_XML_PATH)
//	--dry-run    report changes without writing
//	--config     path to YAML config file
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/app"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/app/wpimport"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/app/wpimport/clean"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/domain"
)

func main() {
	fs := flag.NewFlagSet("reclean", flag.ExitOnError)
	flags := app.RegisterFlags(fs)
	sourceFlag := fs.String("source", "export", "text source: export or store")
	alphabetFlag := fs.String("alphabet", "", "character set: standard, digits or artifacts")
	xmlFlag := fs.String("xml", "", "export path (default: IMPORT_XML_PATH)")
	_ = fs.Parse(os.Args[1:])

	fromStore := false
	switch *sourceFlag {
	case "export":
	case "store":
		fromStore = true
	default:
		fmt.Fprintf(os.Stderr, "reclean: unknown --source %q (want export or store)\n", *sourceFlag)
		os.Exit(1)
	}

	alphabet := clean.StandardAlphabet
	if fromStore {
		alphabet = clean.ArtifactAlphabet
	}
	if *alphabetFlag != "" {
		a, ok := clean.AlphabetByName(*alphabetFlag)
		if !ok {
			fmt.Fprintf(os.Stderr, "reclean: unknown --alphabet %q\n", *alphabetFlag)
			os.Exit(1)
		}
		alphabet = a
	}

	rt, err := app.Start(context.Background(), fs.Name(), flags)
	if err != nil {
		app.Fatal("startup failed", err)
	}

	ctx, cancel := rt.Context(context.Background())

	r := wpimport.NewRecleaner(rt.Logger, rt.Store, wpimport.RecleanOptions{
		Alphabet: alphabet,
		Excluded: rt.Excluded(),
		DryRun:   rt.Config.Import.DryRun,
	})

	var summary wpimport.Summary
	if fromStore {
		summary, err = r.RunFromStore(ctx)
	} else {
		path := rt.Config.Import.XMLPath
		if *xmlFlag != "" {
			path = *xmlFlag
		}
		summary = wpimport.Summary{Job: "reclean"}
		var items []domain.ExportItem
		if items, err = rt.LoadExport(ctx, path); err == nil {
			summary, err = r.Run(ctx, items)
		}
	}
	code := rt.Finish(ctx, summary, err)
	cancel()
	rt.Close()
	os.Exit(code)
}
