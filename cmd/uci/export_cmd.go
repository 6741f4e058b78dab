package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [pkg]",
		Short: "Export configuration in the canonical text format",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				var err error
				names, err = a.ctx.ListConfigs()
				if err != nil {
					return a.fail("export", err)
				}
			}
			for _, name := range names {
				pkg, err := a.ctx.Load(name)
				if err != nil {
					a.warn("%v", err)
					continue
				}
				warnDiagnostics(a)
				fmt.Print(a.ctx.Export(pkg))
			}
			return nil
		},
	}
}
