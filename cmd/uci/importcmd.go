package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/openuci/uci/pkg/uci"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <pkg>",
		Short: "Import configuration text and commit it under pkg",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := args[0]
			r := os.Stdin
			if a.altFile != "" {
				f, err := os.Open(a.altFile)
				if err != nil {
					return a.fail("import", err)
				}
				defer f.Close()
				data, err := io.ReadAll(f)
				if err != nil {
					return a.fail("import", err)
				}
				return doImport(a, name, string(data))
			}
			data, err := io.ReadAll(r)
			if err != nil {
				return a.fail("import", err)
			}
			return doImport(a, name, string(data))
		},
	}
}

func doImport(a *app, name, text string) error {
	var pkg *uci.Package
	var err error
	if a.merge {
		pkg, err = a.ctx.ImportMerge(name, text, !a.ctx.Strict)
	} else {
		pkg, err = a.ctx.Import(name, text, !a.ctx.Strict)
	}
	if err != nil {
		return a.fail("import", err)
	}
	warnDiagnostics(a)
	if a.noCommit {
		fmt.Printf("(dry run) would commit %d section(s) to %s\n", len(pkg.Sections), name)
		return nil
	}
	// A package with no Path yet (a fresh, non-merged import, or a
	// merge that fell back to one) has nothing on disk to merge with;
	// overwrite is the only option Commit accepts for it.
	if err := a.ctx.Commit(pkg, pkg.Path == ""); err != nil {
		return a.fail("import", err)
	}
	return nil
}
