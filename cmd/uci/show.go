package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openuci/uci/pkg/uci"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [pkg[.section[.option]]]",
		Short: "Show configuration in the package.section.option='value' dialect",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				names, err := a.ctx.ListConfigs()
				if err != nil {
					return a.fail("show", err)
				}
				for _, name := range names {
					if err := showPackage(a, name, ""); err != nil {
						a.warn("%v", err)
					}
				}
				return nil
			}
			ptr, err := uci.ParsePointer(args[0])
			if err != nil {
				return a.fail("show", err)
			}
			return showPackage(a, ptr.Package, args[0])
		},
	}
}

func showPackage(a *app, pkgName, pointer string) error {
	pkg, err := a.ctx.Load(pkgName)
	if err != nil {
		return a.fail("show", err)
	}
	warnDiagnostics(a)
	ptr, _ := uci.ParsePointer(pointerOrPkg(pointer, pkgName))

	for _, sec := range pkg.Sections {
		if ptr.Section != "" && sec.Name != ptr.Section {
			continue
		}
		fmt.Printf("%s.%s=%s\n", pkg.Name, sec.Name, sec.Type)
		for _, opt := range sec.Options {
			if ptr.Option != "" && opt.Name != ptr.Option {
				continue
			}
			val := quoteValue(opt.Value)
			if opt.Kind == uci.ListOption {
				quoted := make([]string, len(opt.Items))
				for i, item := range opt.Items {
					quoted[i] = quoteValue(item)
				}
				val = strings.Join(quoted, " ")
			}
			fmt.Printf("%s.%s.%s=%s\n", pkg.Name, sec.Name, opt.Name, val)
		}
	}
	return nil
}

func pointerOrPkg(pointer, pkgName string) string {
	if pointer == "" {
		return pkgName
	}
	return pointer
}
