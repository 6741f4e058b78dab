package main

import "github.com/spf13/cobra"

func newDelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <pkg.section[.option]>",
		Aliases: []string{"del"},
		Short:   "Delete a section or an option",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ctx.Delete(args[0]); err != nil {
				return a.fail("delete", err)
			}
			return a.fail("delete", saveAfter(a, packageNameFromPointer(args[0])))
		},
	}
}
