package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <pkg> <type>",
		Short: "Add a new anonymous section of the given type",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			name, err := a.ctx.Add(args[0], args[1])
			if err != nil {
				return a.fail("add", err)
			}
			if err := saveAfter(a, args[0]); err != nil {
				return a.fail("add", err)
			}
			fmt.Println(name)
			return nil
		},
	}
}
