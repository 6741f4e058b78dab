package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCommitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "commit [pkg]",
		Short: "Commit a package's delta log to its canonical file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				var err error
				names, err = a.ctx.ListConfigs()
				if err != nil {
					return a.fail("commit", err)
				}
			}
			for _, name := range names {
				pkg, err := a.ctx.Load(name)
				if err != nil {
					return a.fail("commit", err)
				}
				warnDiagnostics(a)
				if a.noCommit {
					fmt.Printf("(dry run) would commit %s\n", name)
					continue
				}
				if err := a.ctx.Commit(pkg, false); err != nil {
					return a.fail("commit", err)
				}
				color.Green("committed %s", name)
			}
			return nil
		},
	}
}
