package uci

import "go.uber.org/atomic"

// OptionKind discriminates the two shapes an Option's value can take.
type OptionKind int

const (
	ScalarOption OptionKind = iota
	ListOption
)

// Option is a named value attached to a Section: either a single
// scalar string or an ordered list of strings.
type Option struct {
	Name    string
	Kind    OptionKind
	Value   string   // valid when Kind == ScalarOption
	Items   []string // valid when Kind == ListOption
	section *Section
}

// Section is a typed, ordered collection of options inside a Package.
// Name is either user-supplied or generated by fixupSection; Anonymous
// is true iff the user never supplied one, independent of whether a
// generated name has since been assigned.
type Section struct {
	Name      string
	Type      string
	Anonymous bool
	Options   []*Option
	pkg       *Package
}

// Option looks up a direct child option by name. Lookup is a linear
// scan: section sizes are small (the historical implementation assumes
// at most a few dozen options) and scanning preserves insertion order
// without an auxiliary index to keep in sync.
func (s *Section) Option(name string) (*Option, bool) {
	for _, o := range s.Options {
		if o.Name == name {
			return o, true
		}
	}
	return nil, false
}

func (s *Section) removeOption(name string) bool {
	for i, o := range s.Options {
		if o.Name == name {
			s.Options = append(s.Options[:i], s.Options[i+1:]...)
			return true
		}
	}
	return false
}

// Package is a named configuration file's contents: the unit of load,
// save and commit.
type Package struct {
	Name         string
	Path         string // set iff loaded from or bound to a filesystem path
	Sections     []*Section
	PendingDeltas []*DeltaEntry
	SavedDeltas  []*DeltaEntry
	HasDeltaLog  bool
	Backend      string

	anonCounter atomic.Uint32
	ctx         *Context
}

// Section looks up a direct child section by name.
func (p *Package) Section(name string) (*Section, bool) {
	for _, s := range p.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// sectionsByType returns, in file order, the sections whose Type matches
// typ. An empty typ matches every section, used by the extended @type[]
// pointer form.
func (p *Package) sectionsByType(typ string) []*Section {
	if typ == "" {
		return p.Sections
	}
	var out []*Section
	for _, s := range p.Sections {
		if s.Type == typ {
			out = append(out, s)
		}
	}
	return out
}

func (p *Package) removeSection(name string) bool {
	for i, s := range p.Sections {
		if s.Name == name {
			p.Sections = append(p.Sections[:i], p.Sections[i+1:]...)
			return true
		}
	}
	return false
}

// allocSection appends a new Section to p. A blank name marks the
// section anonymous; its real name is assigned later by fixupSection.
func allocSection(p *Package, typ, name string) *Section {
	s := &Section{Type: typ, Name: name, Anonymous: name == "", pkg: p}
	p.Sections = append(p.Sections, s)
	return s
}

// fixupSection assigns a generated name to an anonymous section once its
// options are complete. Named sections are left untouched. Safe to call
// more than once; subsequent calls are no-ops once Name is non-empty.
func fixupSection(s *Section) {
	if s.Name != "" {
		return
	}
	counter := s.pkg.anonCounter.Inc()
	s.Name = anonymousName(counter, hashSection(s))
}

func allocOptionScalar(s *Section, name, value string) *Option {
	o := &Option{Name: name, Kind: ScalarOption, Value: value, section: s}
	s.Options = append(s.Options, o)
	return o
}

func allocOptionList(s *Section, name string) *Option {
	o := &Option{Name: name, Kind: ListOption, section: s}
	s.Options = append(s.Options, o)
	return o
}
