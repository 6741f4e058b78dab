package main

import "github.com/spf13/cobra"

func newRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <pkg.section[.option]=newname>",
		Short: "Rename a section or an option",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ctx.Rename(args[0]); err != nil {
				return a.fail("rename", err)
			}
			return a.fail("rename", saveAfter(a, packageNameFromPointer(args[0])))
		},
	}
}
