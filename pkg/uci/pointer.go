package uci

import (
	"strconv"
	"strings"
)

// Pointer is a parsed textual reference of the form
// pkg[.section[.option]][=value], where section may use the extended
// @type[idx] form to select an anonymous-or-typed section by position.
type Pointer struct {
	Package  string
	Section  string // raw section token, name-safe or extended
	Option   string
	Value    string
	HasValue bool

	Extended bool
	Type     string // extended form's type filter ("" matches any)
	Index    int    // extended form's index, negative counts from the end
}

// ParsePointer splits s into a Pointer, validating each name-safe
// component. The last '.'-component is a value iff an '=' was present.
func ParsePointer(s string) (*Pointer, error) {
	p := &Pointer{}
	if eq := strings.IndexByte(s, '='); eq >= 0 {
		p.Value = s[eq+1:]
		s = s[:eq]
		p.HasValue = true
		if !ValidateText(p.Value) {
			return nil, newError(KindParse, "invalid character in value")
		}
	}

	parts := strings.SplitN(s, ".", 3)
	p.Package = parts[0]
	if !ValidateName(p.Package) {
		return nil, newError(KindParse, "invalid package name")
	}
	if len(parts) == 1 {
		return p, nil
	}

	p.Section = parts[1]
	if !ValidateName(p.Section) {
		typ, idx, err := parseExtended(p.Section)
		if err != nil {
			return nil, err
		}
		p.Extended = true
		p.Type = typ
		p.Index = idx
	}
	if len(parts) == 2 {
		return p, nil
	}

	p.Option = parts[2]
	if !ValidateName(p.Option) {
		return nil, newError(KindParse, "invalid option name")
	}
	return p, nil
}

// parseExtended parses the @type[idx] form: a leading '@', an optional
// name-safe type, '[', an optionally-negative integer index, ']', and
// nothing else.
func parseExtended(s string) (typ string, idx int, err error) {
	if len(s) < 4 || s[0] != '@' {
		return "", 0, newError(KindParse, "invalid extended pointer")
	}
	rest := s[1:]
	lb := strings.IndexByte(rest, '[')
	if lb < 0 || rest[len(rest)-1] != ']' {
		return "", 0, newError(KindParse, "invalid extended pointer")
	}
	typ = rest[:lb]
	if typ != "" && !ValidateName(typ) {
		return "", 0, newError(KindParse, "invalid extended pointer")
	}
	n, convErr := strconv.Atoi(rest[lb+1 : len(rest)-1])
	if convErr != nil {
		return "", 0, newError(KindParse, "invalid extended pointer index")
	}
	return typ, n, nil
}

// ref is the result of resolving a Pointer: the fields populated
// reflect how deeply resolution succeeded. A nil Section/Option means
// "not found", distinct from a resolution error (e.g. a malformed
// extended index or a missing package).
type ref struct {
	Pkg     *Package
	Section *Section
	Option  *Option
}

// resolvePointer walks ptr against ctx's loaded packages, optionally
// auto-loading the package through the backend when missing.
func resolvePointer(ctx *Context, ptr *Pointer, autoLoad bool) (*ref, error) {
	pkg, ok := ctx.Package(ptr.Package)
	if !ok {
		if !autoLoad {
			return nil, newError(KindNotFound, "package not found: "+ptr.Package)
		}
		loaded, err := ctx.Load(ptr.Package)
		if err != nil {
			return nil, err
		}
		pkg = loaded
	}
	r := &ref{Pkg: pkg}
	if ptr.Section == "" {
		return r, nil
	}

	sec, err := resolveSection(pkg, ptr)
	if err != nil {
		return nil, err
	}
	r.Section = sec
	if sec == nil || ptr.Option == "" {
		return r, nil
	}
	if opt, ok := sec.Option(ptr.Option); ok {
		r.Option = opt
	}
	return r, nil
}

func resolveSection(pkg *Package, ptr *Pointer) (*Section, error) {
	if !ptr.Extended {
		if s, ok := pkg.Section(ptr.Section); ok {
			return s, nil
		}
		return nil, nil
	}
	candidates := pkg.sectionsByType(ptr.Type)
	idx := ptr.Index
	if idx < 0 {
		idx += len(candidates)
	}
	if idx < 0 || idx >= len(candidates) {
		return nil, newError(KindNotFound, "extended index out of range")
	}
	return candidates[idx], nil
}
