package main

import (
	"strings"

	"github.com/openuci/uci/pkg/uci"
)

// optionDisplay renders an option's value the way "uci get" does: a
// scalar prints as itself, a list prints as its items joined by a
// single space.
func optionDisplay(o *uci.Option) string {
	if o.Kind == uci.ListOption {
		return strings.Join(o.Items, " ")
	}
	return o.Value
}

// quoteValue wraps v the way "uci show" quotes values in its
// package.section.option='value' dialect.
func quoteValue(v string) string {
	return "'" + strings.ReplaceAll(v, "'", `'\''`) + "'"
}

// packageNameFromPointer extracts the leading package component of a
// pointer string, without the validation ParsePointer performs — used
// only to look up an already-loaded package after a mutation so it can
// be saved.
func packageNameFromPointer(s string) string {
	if i := strings.IndexAny(s, ".="); i >= 0 {
		return s[:i]
	}
	return s
}

// saveAfter flushes pkgName's pending deltas once a mutation on it has
// succeeded, so the change survives this process exiting.
func saveAfter(a *app, pkgName string) error {
	pkg, ok := a.ctx.Package(pkgName)
	if !ok {
		return nil
	}
	return a.ctx.Save(pkg)
}

// warnDiagnostics reports any lenient-parse diagnostics recorded by the
// Load or Import that just ran, without failing the command — a
// recovered parse error is reportable, not fatal.
func warnDiagnostics(a *app) {
	if diags := a.ctx.Diagnostics(); len(diags) > 0 {
		a.warn("%v", a.ctx.DiagnosticsErr())
	}
}
