package uci

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type PointerTestSuite struct {
	suite.Suite
}

func (s *PointerTestSuite) TestParsePackageOnly() {
	p, err := ParsePointer("network")
	s.Require().NoError(err)
	s.Equal("network", p.Package)
	s.Empty(p.Section)
}

func (s *PointerTestSuite) TestParseWithValue() {
	p, err := ParsePointer("network.lan.proto=static")
	s.Require().NoError(err)
	s.Equal("network", p.Package)
	s.Equal("lan", p.Section)
	s.Equal("proto", p.Option)
	s.True(p.HasValue)
	s.Equal("static", p.Value)
}

func (s *PointerTestSuite) TestParseExtended() {
	p, err := ParsePointer("network.@interface[-1].proto")
	s.Require().NoError(err)
	s.True(p.Extended)
	s.Equal("interface", p.Type)
	s.Equal(-1, p.Index)
	s.Equal("proto", p.Option)
}

func (s *PointerTestSuite) TestParseExtendedAnyType() {
	p, err := ParsePointer("network.@[0]")
	s.Require().NoError(err)
	s.True(p.Extended)
	s.Empty(p.Type)
	s.Equal(0, p.Index)
}

func (s *PointerTestSuite) TestParseInvalidPackage() {
	_, err := ParsePointer("bad!name.section")
	s.Require().Error(err)
}

// S4 — extended lookup: with three interface sections, index -1
// resolves to the last one, and an out-of-range index is NotFound.
func (s *PointerTestSuite) TestResolveSectionNegativeIndex() {
	pkg := &Package{Name: "net"}
	for _, name := range []string{"wan", "lan", "guest"} {
		sec := allocSection(pkg, "interface", name)
		allocOptionScalar(sec, "proto", name+"-proto")
	}

	ptr, err := ParsePointer("net.@interface[-1].proto")
	s.Require().NoError(err)
	sec, err := resolveSection(pkg, ptr)
	s.Require().NoError(err)
	s.Equal("guest", sec.Name)

	ptr, err = ParsePointer("net.@interface[5].proto")
	s.Require().NoError(err)
	_, err = resolveSection(pkg, ptr)
	s.Require().Error(err)
	e, ok := err.(*Error)
	s.Require().True(ok)
	s.Equal(KindNotFound, e.Kind)
}

func TestPointerSuite(t *testing.T) {
	suite.Run(t, new(PointerTestSuite))
}
