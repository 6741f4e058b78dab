package uci

import (
	"bytes"
	"io"

	"go.uber.org/multierr"
)

// ParseDiagnostic records one recovered error during a lenient import.
type ParseDiagnostic struct {
	Line   int
	Byte   int
	Reason string
}

// diagnosticsErr combines diags into a single error, or nil if there
// were none — the side channel §7 describes is a record plus a
// reportable error, not just the raw slice.
func diagnosticsErr(diags []ParseDiagnostic) error {
	if len(diags) == 0 {
		return nil
	}
	errs := make([]error, len(diags))
	for i, d := range diags {
		errs[i] = &Error{Kind: KindParse, Reason: d.Reason, Line: d.Line, Byte: d.Byte}
	}
	return multierr.Combine(errs...)
}

// discardLine forces the tokenizer past whatever remains of the current
// logical line, used by lenient-mode recovery to resume at the next one.
func (t *tokenizer) discardLine() {
	t.pos = len(t.buf)
}

// importPackage parses data into a single Package named defaultName. If
// the stream contains its own "package <name>" directive, that name
// wins; otherwise defaultName is used. This is the entry point for
// single-file backends (one file, one package).
func importPackage(ctx *Context, defaultName string, data []byte, lenient bool) (*Package, error) {
	pkgs, _, err := importStream(ctx, defaultName, data, lenient)
	if err != nil {
		return nil, err
	}
	if len(pkgs) == 0 {
		return &Package{Name: defaultName}, nil
	}
	return pkgs[0], nil
}

// importStream parses a (possibly multi-package) text stream, following
// the grammar in §4.6. In strict mode the first error aborts; in lenient
// mode the offending logical line — and, if a section was actively
// being populated, that section — is discarded, and parsing resumes at
// the next line. Per §7, the recovered diagnostics are also recorded on
// ctx (if non-nil) as the per-context parse-diagnostic record, so a
// caller that only has a *Package can still retrieve them afterwards.
func importStream(ctx *Context, defaultName string, data []byte, lenient bool) ([]*Package, []ParseDiagnostic, error) {
	pkgs, diags, err := importStreamParse(ctx, defaultName, data, lenient)
	if ctx != nil {
		ctx.diagnostics = diags
	}
	return pkgs, diags, err
}

func importStreamParse(ctx *Context, defaultName string, data []byte, lenient bool) ([]*Package, []ParseDiagnostic, error) {
	tk := newTokenizer(bytes.NewReader(data))

	var pkgs []*Package
	var cur *Package
	var curSection *Section
	var diags []ParseDiagnostic

	finalizeSection := func() {
		if curSection != nil {
			fixupSection(curSection)
			curSection = nil
		}
	}
	finalizePackage := func() {
		finalizeSection()
		if cur != nil {
			pkgs = append(pkgs, cur)
			cur = nil
		}
	}
	discardInProgressSection := func() {
		if curSection != nil && cur != nil && len(cur.Sections) > 0 && cur.Sections[len(cur.Sections)-1] == curSection {
			cur.Sections = cur.Sections[:len(cur.Sections)-1]
		}
		curSection = nil
	}

	for {
		args, lineNo, err := tk.nextLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			if lenient && isParseErr(err) {
				e := err.(*Error)
				diags = append(diags, ParseDiagnostic{Line: e.Line, Byte: e.Byte, Reason: e.Reason})
				discardInProgressSection()
				tk.discardLine()
				continue
			}
			return nil, diags, err
		}
		if len(args) == 0 {
			continue
		}

		lineErr := processDirective(ctx, defaultName, args, lineNo, &cur, &curSection, &pkgs, finalizePackage)
		if lineErr != nil {
			if lenient && isParseErr(lineErr) {
				e := lineErr.(*Error)
				diags = append(diags, ParseDiagnostic{Line: e.Line, Byte: e.Byte, Reason: e.Reason})
				discardInProgressSection()
				continue
			}
			return nil, diags, lineErr
		}
	}
	finalizePackage()
	return pkgs, diags, nil
}

func parseLineErr(line int, reason string) error {
	return &Error{Kind: KindParse, Msg: "parse error", Reason: reason, Line: line}
}

// dupPackageErr reports a repeated "package <name>" directive within one
// stream, or one colliding with a package already loaded into ctx. Not
// a KindParse error: §4.6 treats it as unconditional, not something
// lenient-mode recovery discards.
func dupPackageErr(line int, name string) error {
	return &Error{Kind: KindDuplicate, Msg: "duplicate package", Reason: name, Line: line}
}

// processDirective applies one logical line's grammar rule. cur and
// curSection are threaded through by pointer because "package" and
// "config" directives replace them.
func processDirective(ctx *Context, defaultName string, args []string, lineNo int, cur **Package, curSection **Section, pkgs *[]*Package, finalizePackage func()) error {
	switch args[0] {
	case "package":
		if len(args) < 2 {
			return parseLineErr(lineNo, "package requires a name")
		}
		name := args[1]
		if !ValidateName(name) {
			return parseLineErr(lineNo, "invalid package name")
		}
		// Finalize whatever was accumulating under the previous name
		// first, then check the new name for a collision — against
		// both packages this stream already finished and any already
		// loaded into ctx — matching file.c's uci_switch_config,
		// which performs this check against ctx->root in that order.
		finalizePackage()
		for _, p := range *pkgs {
			if p.Name == name {
				return dupPackageErr(lineNo, name)
			}
		}
		if ctx != nil {
			if _, ok := ctx.Package(name); ok {
				return dupPackageErr(lineNo, name)
			}
		}
		*cur = &Package{Name: name}

	case "config":
		if len(args) < 2 {
			return parseLineErr(lineNo, "config requires a type")
		}
		typ := args[1]
		if !ValidateType(typ) {
			return parseLineErr(lineNo, "invalid section type")
		}
		name := ""
		if len(args) >= 3 {
			name = args[2]
			if !ValidateName(name) {
				return parseLineErr(lineNo, "invalid section name")
			}
		}
		if len(args) > 3 {
			return parseLineErr(lineNo, "too many arguments")
		}
		if *curSection != nil {
			fixupSection(*curSection)
		}
		if *cur == nil {
			*cur = &Package{Name: defaultName}
		}
		*curSection = allocSection(*cur, typ, name)

	case "option":
		if len(args) != 3 {
			return parseLineErr(lineNo, "option requires a name and a value")
		}
		if *curSection == nil {
			return parseLineErr(lineNo, "option without a section")
		}
		name, val := args[1], args[2]
		if !ValidateName(name) {
			return parseLineErr(lineNo, "invalid option name")
		}
		if !ValidateText(val) {
			return parseLineErr(lineNo, "invalid character in value")
		}
		if existing, ok := (*curSection).Option(name); ok {
			if existing.Kind == ListOption {
				return parseLineErr(lineNo, "option collides with list of the same name")
			}
			existing.Value = val
		} else {
			allocOptionScalar(*curSection, name, val)
		}

	case "list":
		if len(args) != 3 {
			return parseLineErr(lineNo, "list requires a name and a value")
		}
		if *curSection == nil {
			return parseLineErr(lineNo, "list without a section")
		}
		name, val := args[1], args[2]
		if !ValidateName(name) {
			return parseLineErr(lineNo, "invalid option name")
		}
		if !ValidateText(val) {
			return parseLineErr(lineNo, "invalid character in value")
		}
		existing, ok := (*curSection).Option(name)
		switch {
		case !ok:
			opt := allocOptionList(*curSection, name)
			opt.Items = append(opt.Items, val)
		case existing.Kind == ListOption:
			existing.Items = append(existing.Items, val)
		default:
			// promote the pre-existing scalar to a list, old value first
			existing.Kind = ListOption
			existing.Items = []string{existing.Value, val}
			existing.Value = ""
		}

	default:
		return parseLineErr(lineNo, "unknown directive: "+args[0])
	}
	return nil
}

// importMergeStream applies data's directives to pkg one Set at a time
// instead of allocating a fresh Section/Option tree, per §4.6's
// single-file merge mode (file.c's pctx->merge branch). A "package"
// directive is ignored outright: the merge target is already pkg, so
// the keyword carries no information here.
func importMergeStream(ctx *Context, pkg *Package, data []byte, lenient bool) ([]ParseDiagnostic, error) {
	tk := newTokenizer(bytes.NewReader(data))
	var diags []ParseDiagnostic
	var curSection string

	recoverLine := func(lineNo int, err error) error {
		if lenient && isParseErr(err) {
			e := err.(*Error)
			diags = append(diags, ParseDiagnostic{Line: e.Line, Byte: e.Byte, Reason: e.Reason})
			return nil
		}
		return err
	}

	for {
		args, lineNo, err := tk.nextLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			if rerr := recoverLine(lineNo, err); rerr != nil {
				return diags, rerr
			}
			tk.discardLine()
			continue
		}
		if len(args) == 0 {
			continue
		}
		if lineErr := mergeDirective(ctx, pkg, args, lineNo, &curSection); lineErr != nil {
			if rerr := recoverLine(lineNo, lineErr); rerr != nil {
				return diags, rerr
			}
		}
	}
	return diags, nil
}

// mergeDirective is importMergeStream's per-line counterpart to
// processDirective: it applies the same grammar rules but routes
// "config"/"option"/"list" through the mutation-layer Set functions
// against the caller-supplied pkg, recording no delta (replay-like,
// not a logged mutation).
func mergeDirective(ctx *Context, pkg *Package, args []string, lineNo int, curSection *string) error {
	switch args[0] {
	case "package":
		// ignored: the merge target is already bound to pkg.

	case "config":
		if len(args) < 2 {
			return parseLineErr(lineNo, "config requires a type")
		}
		typ := args[1]
		if !ValidateType(typ) {
			return parseLineErr(lineNo, "invalid section type")
		}
		name := ""
		if len(args) >= 3 {
			name = args[2]
			if !ValidateName(name) {
				return parseLineErr(lineNo, "invalid section name")
			}
		}
		if len(args) > 3 {
			return parseLineErr(lineNo, "too many arguments")
		}
		if name == "" {
			if err := addSection(ctx, pkg, "", typ, true, false); err != nil {
				return err
			}
			*curSection = pkg.Sections[len(pkg.Sections)-1].Name
			return nil
		}
		if err := setSectionType(ctx, pkg, name, typ, false); err != nil {
			return err
		}
		*curSection = name

	case "option":
		if len(args) != 3 {
			return parseLineErr(lineNo, "option requires a name and a value")
		}
		if *curSection == "" {
			return parseLineErr(lineNo, "option without a section")
		}
		if err := setOption(ctx, pkg, *curSection, args[1], args[2], false); err != nil {
			return err
		}

	case "list":
		if len(args) != 3 {
			return parseLineErr(lineNo, "list requires a name and a value")
		}
		if *curSection == "" {
			return parseLineErr(lineNo, "list without a section")
		}
		if err := listAdd(ctx, pkg, *curSection, args[1], args[2], false); err != nil {
			return err
		}

	default:
		return parseLineErr(lineNo, "unknown directive: "+args[0])
	}
	return nil
}
