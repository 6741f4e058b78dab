package main

import "github.com/spf13/cobra"

func newRevertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "revert <pkg[.section[.option]]>",
		Short: "Discard pending and saved changes under a pointer",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ctx.Revert(args[0]); err != nil {
				return a.fail("revert", err)
			}
			return nil
		},
	}
}
