package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// newBatchCmd reads one command per line from stdin (or -f) and applies
// them in order, stopping at the first failure. Accepted verbs mirror
// the single-shot subcommands: set, add, delete, rename, commit, revert.
func newBatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "batch",
		Short: "Apply a script of uci commands, one per line",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			var r io.Reader = os.Stdin
			if a.altFile != "" {
				f, err := os.Open(a.altFile)
				if err != nil {
					return a.fail("batch", err)
				}
				defer f.Close()
				r = f
			}
			sc := bufio.NewScanner(r)
			lineNo := 0
			for sc.Scan() {
				lineNo++
				line := strings.TrimSpace(sc.Text())
				if line == "" || strings.HasPrefix(line, "#") {
					continue
				}
				if err := runBatchLine(a, line); err != nil {
					return a.fail("batch", fmt.Errorf("line %d: %w", lineNo, err))
				}
			}
			return sc.Err()
		},
	}
}

func runBatchLine(a *app, line string) error {
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch verb {
	case "set":
		if err := a.ctx.Set(rest); err != nil {
			return err
		}
		return saveAfter(a, packageNameFromPointer(rest))
	case "add":
		pkgName, typ, ok := strings.Cut(rest, " ")
		if !ok {
			return fmt.Errorf("add requires <pkg> <type>")
		}
		if _, err := a.ctx.Add(pkgName, strings.TrimSpace(typ)); err != nil {
			return err
		}
		return saveAfter(a, pkgName)
	case "delete", "del":
		if err := a.ctx.Delete(rest); err != nil {
			return err
		}
		return saveAfter(a, packageNameFromPointer(rest))
	case "rename":
		if err := a.ctx.Rename(rest); err != nil {
			return err
		}
		return saveAfter(a, packageNameFromPointer(rest))
	case "revert":
		return a.ctx.Revert(rest)
	case "commit":
		if a.noCommit {
			return nil
		}
		pkg, err := a.ctx.Load(rest)
		if err != nil {
			return err
		}
		warnDiagnostics(a)
		return a.ctx.Commit(pkg, false)
	default:
		return fmt.Errorf("unknown batch verb: %s", verb)
	}
}
