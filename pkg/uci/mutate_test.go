package uci

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type MutateTestSuite struct {
	suite.Suite
	pkg *Package
}

func (s *MutateTestSuite) SetupTest() {
	s.pkg = &Package{Name: "net"}
	sec := allocSection(s.pkg, "interface", "lan")
	allocOptionScalar(sec, "ipaddr", "192.168.1.1")
}

func (s *MutateTestSuite) TestSetSectionTypeCreatesMissingSection() {
	s.Require().NoError(setSectionType(nil, s.pkg, "wan", "interface", false))
	sec, ok := s.pkg.Section("wan")
	s.Require().True(ok)
	s.Equal("interface", sec.Type)
	s.False(sec.Anonymous)
}

func (s *MutateTestSuite) TestSetOptionOverwritesListWithScalar() {
	sec, _ := s.pkg.Section("lan")
	opt := allocOptionList(sec, "dns")
	opt.Items = []string{"8.8.8.8"}

	s.Require().NoError(setOption(nil, s.pkg, "lan", "dns", "1.1.1.1", false))
	got, ok := sec.Option("dns")
	s.Require().True(ok)
	s.Equal(ScalarOption, got.Kind)
	s.Equal("1.1.1.1", got.Value)
	s.Empty(got.Items)
}

// §9 — setting a scalar option to its current value is a no-op: no
// delta is recorded, matching the historical uci_set suppression.
func (s *MutateTestSuite) TestSetOptionSuppressesNoopChange() {
	s.Require().NoError(setOption(nil, s.pkg, "lan", "ipaddr", "192.168.1.1", true))
	s.Empty(s.pkg.PendingDeltas)
}

func (s *MutateTestSuite) TestSetOptionRejectsInvalidValue() {
	err := setOption(nil, s.pkg, "lan", "ipaddr", "bad\nvalue", false)
	s.Require().Error(err)
	e, ok := err.(*Error)
	s.Require().True(ok)
	s.Equal(KindInval, e.Kind)
}

func (s *MutateTestSuite) TestDeleteWholeSection() {
	s.Require().NoError(deleteElement(nil, s.pkg, "lan", "", false))
	_, ok := s.pkg.Section("lan")
	s.False(ok)
}

func (s *MutateTestSuite) TestDeleteSingleOption() {
	s.Require().NoError(deleteElement(nil, s.pkg, "lan", "ipaddr", false))
	sec, ok := s.pkg.Section("lan")
	s.Require().True(ok)
	_, ok = sec.Option("ipaddr")
	s.False(ok)
}

func (s *MutateTestSuite) TestDeleteMissingOptionIsNotFound() {
	err := deleteElement(nil, s.pkg, "lan", "nonexistent", false)
	s.Require().Error(err)
	e, ok := err.(*Error)
	s.Require().True(ok)
	s.Equal(KindNotFound, e.Kind)
}

func (s *MutateTestSuite) TestRenameSectionRejectsDuplicate() {
	sec := allocSection(s.pkg, "interface", "wan")
	_ = sec
	err := renameElement(nil, s.pkg, "lan", "", "wan", false)
	s.Require().Error(err)
	e, ok := err.(*Error)
	s.Require().True(ok)
	s.Equal(KindDuplicate, e.Kind)
}

func (s *MutateTestSuite) TestRenameOptionSucceeds() {
	s.Require().NoError(renameElement(nil, s.pkg, "lan", "ipaddr", "address", false))
	sec, _ := s.pkg.Section("lan")
	_, ok := sec.Option("ipaddr")
	s.False(ok)
	addr, ok := sec.Option("address")
	s.Require().True(ok)
	s.Equal("192.168.1.1", addr.Value)
}

func (s *MutateTestSuite) TestListAddCreatesListOnAbsentOption() {
	s.Require().NoError(listAdd(nil, s.pkg, "lan", "dns", "8.8.8.8", false))
	sec, _ := s.pkg.Section("lan")
	opt, ok := sec.Option("dns")
	s.Require().True(ok)
	s.Equal(ListOption, opt.Kind)
	s.Equal([]string{"8.8.8.8"}, opt.Items)
}

func (s *MutateTestSuite) TestListAddRejectsExistingScalar() {
	err := listAdd(nil, s.pkg, "lan", "ipaddr", "10.0.0.1", false)
	s.Require().Error(err)
	e, ok := err.(*Error)
	s.Require().True(ok)
	s.Equal(KindInval, e.Kind)
}

func (s *MutateTestSuite) TestAddSectionRejectsDuplicateName() {
	err := addSection(nil, s.pkg, "lan", "interface", false, false)
	s.Require().Error(err)
	e, ok := err.(*Error)
	s.Require().True(ok)
	s.Equal(KindDuplicate, e.Kind)
}

func (s *MutateTestSuite) TestAddSectionAnonymousGetsGeneratedName() {
	s.Require().NoError(addSection(nil, s.pkg, "", "rule", true, false))
	sec := s.pkg.Sections[len(s.pkg.Sections)-1]
	s.True(sec.Anonymous)
	s.Regexp(`^cfg[0-9a-f]{6}$`, sec.Name)
}

// Every apply function is given log=true exactly once per call from a
// public Context wrapper, and records exactly one DeltaEntry.
func (s *MutateTestSuite) TestLoggedMutationRecordsOneDelta() {
	s.Require().NoError(setOption(nil, s.pkg, "lan", "ipaddr", "10.0.0.1", true))
	s.Require().Len(s.pkg.PendingDeltas, 1)
	d := s.pkg.PendingDeltas[0]
	s.Equal(CommandChange, d.Command)
	s.Equal("lan", d.Section)
	s.Equal("ipaddr", d.Option)
	s.Equal("10.0.0.1", d.Value)
}

func TestMutateSuite(t *testing.T) {
	suite.Run(t, new(MutateTestSuite))
}
