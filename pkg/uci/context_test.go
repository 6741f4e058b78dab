package uci

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ContextTestSuite struct {
	suite.Suite
	confDir string
	saveDir string
	ctx     *Context
}

func (s *ContextTestSuite) SetupTest() {
	s.confDir = s.T().TempDir()
	s.saveDir = s.T().TempDir()
	s.ctx = NewContext()
	s.ctx.ConfDir = s.confDir
	s.ctx.SaveDir = s.saveDir
}

func (s *ContextTestSuite) writeConfig(name, contents string) {
	s.Require().NoError(os.WriteFile(filepath.Join(s.confDir, name), []byte(contents), 0o644))
}

func (s *ContextTestSuite) readConfig(name string) string {
	data, err := os.ReadFile(filepath.Join(s.confDir, name))
	s.Require().NoError(err)
	return string(data)
}

// S1 — basic set/get, save, reload.
func (s *ContextTestSuite) TestSetGetSaveReload() {
	s.writeConfig("net", "config interface 'lan'\n\toption ipaddr '192.168.1.1'\n")

	_, err := s.ctx.Load("net")
	s.Require().NoError(err)

	r, err := s.ctx.Get("net.lan.ipaddr")
	s.Require().NoError(err)
	s.Equal("192.168.1.1", r.Option.Value)

	s.Require().NoError(s.ctx.Set("net.lan.ipaddr=10.0.0.1"))
	pkg, _ := s.ctx.Package("net")
	s.Require().NoError(s.ctx.Save(pkg))

	saveFile := filepath.Join(s.saveDir, "net")
	data, err := os.ReadFile(saveFile)
	s.Require().NoError(err)
	s.Equal("net.lan.ipaddr='10.0.0.1'\n", string(data))

	s.ctx.Unload("net")
	reloaded, err := s.ctx.Load("net")
	s.Require().NoError(err)
	opt, ok := reloaded.Section("lan")
	s.Require().True(ok)
	ip, ok := opt.Option("ipaddr")
	s.Require().True(ok)
	s.Equal("10.0.0.1", ip.Value)
}

// Invariant 4 — idempotent commit: committing twice with no
// intervening mutation leaves the canonical file byte-identical.
func (s *ContextTestSuite) TestCommitIsIdempotent() {
	s.writeConfig("net", "config interface 'lan'\n\toption ipaddr '192.168.1.1'\n")
	pkg, err := s.ctx.Load("net")
	s.Require().NoError(err)

	s.Require().NoError(s.ctx.Commit(pkg, true))
	first := s.readConfig("net")

	s.Require().NoError(s.ctx.Commit(pkg, true))
	second := s.readConfig("net")

	s.Equal(first, second)
}

// Invariant 5 / S5 — commit under contention: two contexts each save a
// different edit to the same package; the second commit must see both.
func (s *ContextTestSuite) TestCommitMergesConcurrentSaves() {
	s.writeConfig("net", "config interface 'lan'\n\toption ipaddr '192.168.1.1'\n")

	ctxA := NewContext()
	ctxA.ConfDir, ctxA.SaveDir = s.confDir, s.saveDir
	ctxB := NewContext()
	ctxB.ConfDir, ctxB.SaveDir = s.confDir, s.saveDir

	pkgA, err := ctxA.Load("net")
	s.Require().NoError(err)
	s.Require().NoError(ctxA.Set("net.lan.ipaddr=10.0.0.1"))
	s.Require().NoError(ctxA.Save(pkgA))

	pkgB, err := ctxB.Load("net")
	s.Require().NoError(err)
	s.Require().NoError(ctxB.Set("net.lan.gateway=10.0.0.2"))
	s.Require().NoError(ctxB.Save(pkgB))
	s.Require().NoError(ctxB.Commit(pkgB, false))

	s.Require().NoError(ctxA.Commit(pkgA, false))

	final := s.readConfig("net")
	s.Contains(final, "10.0.0.1")
	s.Contains(final, "10.0.0.2")
}

// Invariant 6 / revert: reverting a section restores it to the values
// on disk, discarding saved and pending deltas for that subtree.
func (s *ContextTestSuite) TestRevertRestoresSection() {
	s.writeConfig("net", "config interface 'lan'\n\toption ipaddr '192.168.1.1'\n")
	pkg, err := s.ctx.Load("net")
	s.Require().NoError(err)

	s.Require().NoError(s.ctx.Set("net.lan.ipaddr=10.0.0.1"))
	s.Require().NoError(s.ctx.Save(pkg))

	s.Require().NoError(s.ctx.Revert("net.lan"))

	reverted, ok := s.ctx.Package("net")
	s.Require().True(ok)
	sec, ok := reverted.Section("lan")
	s.Require().True(ok)
	ip, ok := sec.Option("ipaddr")
	s.Require().True(ok)
	s.Equal("192.168.1.1", ip.Value)
	s.Empty(reverted.PendingDeltas)
	s.Empty(reverted.SavedDeltas)
}

func (s *ContextTestSuite) TestLoadMissingConfigIsNotFound() {
	_, err := s.ctx.Load("missing")
	s.Require().Error(err)
	e, ok := err.(*Error)
	s.Require().True(ok)
	s.Equal(KindNotFound, e.Kind)
}

func (s *ContextTestSuite) TestListConfigs() {
	s.writeConfig("net", "config interface 'lan'\n")
	s.writeConfig("firewall", "config defaults\n")
	names, err := s.ctx.ListConfigs()
	s.Require().NoError(err)
	s.Equal([]string{"firewall", "net"}, names)
}

// §4.7 confdir-bypass: an absolute path is loaded and saved directly,
// never touching savedir's delta log.
func (s *ContextTestSuite) TestLoadAbsolutePathBypassesDeltaLog() {
	outside := filepath.Join(s.T().TempDir(), "extra")
	s.Require().NoError(os.WriteFile(outside, []byte("config interface 'lan'\n\toption ipaddr '192.168.1.1'\n"), 0o644))

	pkg, err := s.ctx.Load(outside)
	s.Require().NoError(err)
	s.Equal("extra", pkg.Name)
	s.False(pkg.HasDeltaLog)

	s.Require().NoError(s.ctx.Set("extra.lan.ipaddr=10.0.0.1"))
	s.Require().NoError(s.ctx.Save(pkg))

	// Save committed straight to the original file; no save file exists.
	_, err = os.Stat(filepath.Join(s.saveDir, "extra"))
	s.True(os.IsNotExist(err))

	data, err := os.ReadFile(outside)
	s.Require().NoError(err)
	s.Contains(string(data), "10.0.0.1")
}

// A relative path that isn't the explicit "./…" form has no file it
// could mean and is NotFound, matching file.c's uci_load.
func (s *ContextTestSuite) TestLoadBareDotPrefixIsNotFound() {
	_, err := s.ctx.Load(".hidden")
	s.Require().Error(err)
	e, ok := err.(*Error)
	s.Require().True(ok)
	s.Equal(KindNotFound, e.Kind)
}

// §8 testable property 5: an anonymous Add must still export with its
// name suppressed after a save, unload and reload — the delta replay
// that recreates it must not turn it into a named section.
func (s *ContextTestSuite) TestAddAnonymousSectionSurvivesSaveReloadExport() {
	s.writeConfig("net", "config interface 'lan'\n\toption ipaddr '192.168.1.1'\n")
	pkg, err := s.ctx.Load("net")
	s.Require().NoError(err)

	secName, err := s.ctx.Add("net", "route")
	s.Require().NoError(err)
	s.Require().NoError(s.ctx.Set("net." + secName + ".target=10.0.0.0"))

	before := s.ctx.Export(pkg)
	s.Require().NoError(s.ctx.Save(pkg))

	s.ctx.Unload("net")
	reloaded, err := s.ctx.Load("net")
	s.Require().NoError(err)
	after := s.ctx.Export(reloaded)

	s.Equal(before, after)
	sec, ok := reloaded.Section(secName)
	s.Require().True(ok)
	s.True(sec.Anonymous)
}

// Supplemented feature 4 / §4.6: merge-on-import applies each directive
// as a Set against the already-loaded package, leaving sections and
// options the merge text never mentions untouched.
func (s *ContextTestSuite) TestImportMergePreservesUnmentionedOptions() {
	base := "config interface 'lan'\n\toption ipaddr '192.168.1.1'\n\toption proto 'static'\n\nconfig interface 'wan'\n\toption proto 'dhcp'\n"
	_, err := s.ctx.Import("net", base, false)
	s.Require().NoError(err)

	merged, err := s.ctx.ImportMerge("net", "config interface 'lan'\n\toption ipaddr '10.0.0.1'\n", false)
	s.Require().NoError(err)

	lan, ok := merged.Section("lan")
	s.Require().True(ok)
	ip, ok := lan.Option("ipaddr")
	s.Require().True(ok)
	s.Equal("10.0.0.1", ip.Value)
	proto, ok := lan.Option("proto")
	s.Require().True(ok)
	s.Equal("static", proto.Value)

	wan, ok := merged.Section("wan")
	s.Require().True(ok)
	_, ok = wan.Option("proto")
	s.True(ok)
}

// A "package" directive inside merge text carries no information: the
// merge target is already bound, so the keyword is ignored.
func (s *ContextTestSuite) TestImportMergeIgnoresPackageDirective() {
	_, err := s.ctx.Import("net", "config interface 'lan'\n\toption ipaddr '1.2.3.4'\n", false)
	s.Require().NoError(err)

	merged, err := s.ctx.ImportMerge("net", "package other\nconfig interface 'lan'\n\toption ipaddr '5.6.7.8'\n", false)
	s.Require().NoError(err)
	s.Equal("net", merged.Name)
	lan, _ := merged.Section("lan")
	ip, _ := lan.Option("ipaddr")
	s.Equal("5.6.7.8", ip.Value)
}

// With nothing loaded or on disk to merge into, ImportMerge behaves
// like a plain Import.
func (s *ContextTestSuite) TestImportMergeFallsBackToFreshImportWhenAbsent() {
	pkg, err := s.ctx.ImportMerge("brandnew", "config interface 'lan'\n\toption ipaddr '1.1.1.1'\n", false)
	s.Require().NoError(err)
	s.Equal("brandnew", pkg.Name)
	lan, ok := pkg.Section("lan")
	s.Require().True(ok)
	_, ok = lan.Option("ipaddr")
	s.True(ok)
}

// ImportMerge also picks up a package that exists on disk but isn't
// yet loaded into the context, loading it first so the merge applies
// against its real current state.
func (s *ContextTestSuite) TestImportMergeLoadsUnloadedPackageFromDisk() {
	s.writeConfig("net", "config interface 'lan'\n\toption ipaddr '192.168.1.1'\n")

	merged, err := s.ctx.ImportMerge("net", "config interface 'lan'\n\toption ipaddr '10.0.0.1'\n", false)
	s.Require().NoError(err)
	lan, ok := merged.Section("lan")
	s.Require().True(ok)
	ip, ok := lan.Option("ipaddr")
	s.Require().True(ok)
	s.Equal("10.0.0.1", ip.Value)
}

func TestContextSuite(t *testing.T) {
	suite.Run(t, new(ContextTestSuite))
}
