package uci

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ValidateTestSuite struct {
	suite.Suite
}

func (s *ValidateTestSuite) TestValidateName() {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"empty", "", false},
		{"alnum", "lan0", true},
		{"underscore", "my_section", true},
		{"leading digit", "0foo", true},
		{"dot not allowed", "a.b", false},
		{"space not allowed", "a b", false},
		{"dash not allowed", "a-b", false},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.Equal(tc.want, ValidateName(tc.in))
		})
	}
}

func (s *ValidateTestSuite) TestValidateText() {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"plain", "hello world", true},
		{"tab allowed", "a\tb", true},
		{"newline rejected", "a\nb", false},
		{"cr rejected", "a\rb", false},
		{"control byte rejected", "a\x01b", false},
		{"empty ok", "", true},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.Equal(tc.want, ValidateText(tc.in))
		})
	}
}

// TestAnonymousNameS2 is scenario S2 from the testable-properties list:
// a freshly-parsed anonymous section's generated name is the djb hash
// of its type followed by each option's (name[,value]) pair, folded
// into a "cfg%02x%04x" name.
func (s *ValidateTestSuite) TestAnonymousNameS2() {
	h := djbHash(djbSeed, "interface")
	h = djbHash(h, "proto")
	h = djbHash(h, "static")
	h = djbHash(h, "ipaddr")
	h = djbHash(h, "1.2.3.4")
	want := anonymousName(1, h)

	sec := &Section{Type: "interface"}
	sec.Options = []*Option{
		{Name: "proto", Kind: ScalarOption, Value: "static"},
		{Name: "ipaddr", Kind: ScalarOption, Value: "1.2.3.4"},
	}
	got := anonymousName(1, hashSection(sec))
	s.Equal(want, got)
	s.Regexp(`^cfg01[0-9a-f]{4}$`, got)
}

// A list option only contributes its name to the hash, so appending
// items to an existing list never perturbs a sibling anonymous name.
func (s *ValidateTestSuite) TestHashSectionListContributesNameOnly() {
	base := &Section{Type: "s", Options: []*Option{
		{Name: "foo", Kind: ListOption, Items: []string{"a"}},
	}}
	grown := &Section{Type: "s", Options: []*Option{
		{Name: "foo", Kind: ListOption, Items: []string{"a", "b", "c"}},
	}}
	s.Equal(hashSection(base), hashSection(grown))
}

func TestValidateSuite(t *testing.T) {
	suite.Run(t, new(ValidateTestSuite))
}
