package main

import "github.com/spf13/cobra"

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <pkg.section[.option]=value>",
		Short: "Set a section's type or an option's value",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ctx.Set(args[0]); err != nil {
				return a.fail("set", err)
			}
			return a.fail("set", saveAfter(a, packageNameFromPointer(args[0])))
		},
	}
}
