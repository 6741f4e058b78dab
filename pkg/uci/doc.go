// Package uci implements OpenWrt's Unified Configuration Interface: a
// text-format config store organized as packages of named or anonymous
// sections, each holding scalar or list options.
//
// A Context is the entry point. It tracks loaded packages, an
// append-only per-package delta log for uncommitted changes, and a
// pluggable Backend (the file backend, reading /etc/config/* and
// /tmp/.uci/* by default, is the only one registered out of the box):
//
//	ctx := uci.NewContext()
//	pkg, err := ctx.Load("network")
//	if err != nil {
//		return err
//	}
//	if err := ctx.Set("network.lan.proto=static"); err != nil {
//		return err
//	}
//	if err := ctx.Save(pkg); err != nil {
//		return err
//	}
//	if err := ctx.Commit(pkg, false); err != nil {
//		return err
//	}
//
// Mutations go through a Pointer (package[.section[.option]], with an
// @type[index] form for positional addressing of anonymous sections)
// and are recorded to the delta log before they reach the canonical
// file, so Save can persist work-in-progress independently of Commit.
package uci
