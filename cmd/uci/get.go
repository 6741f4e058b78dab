package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <pkg.section[.option]>",
		Short: "Print a section's type or an option's value",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			r, err := a.ctx.Get(args[0])
			if err != nil {
				return a.fail("get", err)
			}
			switch {
			case r.Option != nil:
				fmt.Println(optionDisplay(r.Option))
			case r.Section != nil:
				fmt.Println(r.Section.Type)
			default:
				fmt.Println(r.Pkg.Name)
			}
			return nil
		},
	}
}
