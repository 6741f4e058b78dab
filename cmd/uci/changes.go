package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/openuci/uci/pkg/uci"
)

func newChangesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "changes [pkg]",
		Short: "List pending (uncommitted) changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				var err error
				names, err = a.ctx.ListConfigs()
				if err != nil {
					return a.fail("changes", err)
				}
			}
			any := false
			for _, name := range names {
				pkg, err := a.ctx.Load(name)
				if err != nil {
					a.warn("%v", err)
					continue
				}
				warnDiagnostics(a)
				if len(pkg.SavedDeltas) == 0 && len(pkg.PendingDeltas) == 0 {
					continue
				}
				any = true
				printChanges(pkg)
			}
			if !any {
				color.Yellow("No pending changes.")
			}
			return nil
		},
	}
}

func printChanges(pkg *uci.Package) {
	color.New(color.Bold).Printf("%s:\n", pkg.Name)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Command", "Section", "Option", "Value"})
	table.SetHeaderColor(
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
	)
	table.SetBorder(false)
	deltas := append(append([]*uci.DeltaEntry{}, pkg.SavedDeltas...), pkg.PendingDeltas...)
	for _, d := range deltas {
		table.Append([]string{deltaCommandName(d.Command), d.Section, d.Option, d.Value})
	}
	table.Render()
}

func deltaCommandName(c uci.DeltaCommand) string {
	switch c {
	case uci.CommandChange:
		return "change"
	case uci.CommandRemove:
		return "remove"
	case uci.CommandRename:
		return "rename"
	case uci.CommandListAdd:
		return "list-add"
	case uci.CommandAdd:
		return "add"
	default:
		return "unknown"
	}
}
