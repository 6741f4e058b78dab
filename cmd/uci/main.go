// Command uci is the end-user CLI for the UCI configuration store: show,
// export, import, get/set/del/rename/add, changes, commit, revert and
// batch, all operating against a pkg/uci.Context.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openuci/uci/internal/buildinfo"
	"github.com/openuci/uci/internal/clog"
	"github.com/openuci/uci/internal/uciconfig"
	"github.com/openuci/uci/pkg/uci"
)

// app bundles the shared Context and the flags every subcommand needs
// to consult, since cobra gives each subcommand its own RunE closure
// rather than a shared receiver.
type app struct {
	ctx      *uci.Context
	quiet    bool
	noCommit bool
	merge    bool
	altFile  string
}

func (a *app) fail(funcName string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", funcName, err)
}

func (a *app) warn(format string, args ...interface{}) {
	if a.quiet {
		return
	}
	fmt.Fprintf(os.Stderr, "uci: "+format+"\n", args...)
}

func main() {
	cfg, err := uciconfig.New().Load()
	if err != nil {
		clog.Debugf("using default CLI preferences: %v", err)
		cfg = uciconfig.Default()
	}

	a := &app{ctx: uci.NewContext()}
	a.ctx.ConfDir = cfg.ConfDir
	a.ctx.SaveDir = cfg.SaveDir
	a.ctx.Strict = cfg.Strict

	var (
		confDirFlag    string
		deltaPaths     []string
		saveDirOverride string
		strictOn       bool
		strictOff      bool
		exportNames    bool
	)

	root := &cobra.Command{
		Use:           "uci",
		Short:         "Unified Configuration Interface",
		Long:          "uci reads and writes OpenWrt-style UCI configuration files and their delta logs.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if confDirFlag != "" {
				a.ctx.ConfDir = confDirFlag
			}
			for _, p := range deltaPaths {
				a.ctx.AddDeltaPath(p)
			}
			if saveDirOverride != "" {
				a.ctx.SaveDir = saveDirOverride
				a.noCommit = true
			}
			if strictOn {
				a.ctx.Strict = true
			}
			if strictOff {
				a.ctx.Strict = false
			}
			if exportNames {
				a.ctx.ExportName = true
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&confDirFlag, "confdir", "c", "", "configuration directory (default /etc/config)")
	flags.StringArrayVarP(&deltaPaths, "path", "p", nil, "additional delta search path, may repeat")
	flags.StringVarP(&saveDirOverride, "savedir", "P", "", "override the save directory and disable real commits")
	flags.BoolVarP(&a.merge, "merge", "m", false, "merge on import instead of replacing the package")
	flags.BoolVarP(&strictOn, "strict", "s", false, "enable strict parsing (abort on the first error)")
	flags.BoolVarP(&strictOff, "lenient", "S", false, "disable strict parsing (skip malformed lines)")
	flags.BoolVarP(&exportNames, "names", "N", false, "print generated names for anonymous sections")
	flags.Bool("noname", false, "suppress generated names for anonymous sections (default)")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "suppress error messages")
	flags.StringVarP(&a.altFile, "file", "f", "", "read input from file instead of stdin")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("version: %s\n", buildinfo.Version)
			fmt.Printf("commit: %s\n", buildinfo.Commit)
		},
	}

	root.AddCommand(
		versionCmd,
		newShowCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newGetCmd(a),
		newSetCmd(a),
		newDelCmd(a),
		newRenameCmd(a),
		newAddCmd(a),
		newChangesCmd(a),
		newCommitCmd(a),
		newRevertCmd(a),
		newBatchCmd(a),
	)

	if err := root.Execute(); err != nil {
		if strings.Contains(err.Error(), "unknown command") {
			a.warn("%v", err)
			os.Exit(255)
		}
		a.warn("%v", err)
		os.Exit(1)
	}
}
