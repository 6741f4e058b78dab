package uci

import "strings"

// escapeQuote escapes embedded single quotes the way the historical
// implementation does: close the quote, emit a backslash-escaped quote,
// reopen the quote. The result is always wrapped in single quotes.
func escapeQuote(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	var b strings.Builder
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			b.WriteString(`'\''`)
			continue
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('\'')
	return b.String()
}

// exportPackage renders pkg in the canonical textual form, with a
// leading "package '<name>'" directive. renderPackage's withHeader
// controls whether that directive is emitted — the canonical on-disk
// file omits it (the filename already carries the name); a combined
// multi-package export includes it as a separator.
func exportPackage(ctx *Context, pkg *Package) string {
	return renderPackage(ctx, pkg, true)
}

func renderPackage(ctx *Context, pkg *Package, withHeader bool) string {
	var b strings.Builder
	if withHeader {
		b.WriteString("package ")
		b.WriteString(escapeQuote(pkg.Name))
		b.WriteByte('\n')
	}
	for _, s := range pkg.Sections {
		b.WriteByte('\n')
		b.WriteString("config ")
		b.WriteString(escapeQuote(s.Type))
		if !s.Anonymous || ctx.ExportName {
			b.WriteByte(' ')
			b.WriteString(escapeQuote(s.Name))
		}
		b.WriteByte('\n')
		for _, o := range s.Options {
			switch o.Kind {
			case ScalarOption:
				b.WriteString("\toption ")
				b.WriteString(escapeQuote(o.Name))
				b.WriteByte(' ')
				b.WriteString(escapeQuote(o.Value))
				b.WriteByte('\n')
			case ListOption:
				for _, item := range o.Items {
					b.WriteString("\tlist ")
					b.WriteString(escapeQuote(o.Name))
					b.WriteByte(' ')
					b.WriteString(escapeQuote(item))
					b.WriteByte('\n')
				}
			default:
				b.WriteString("\t# unknown type for option ")
				b.WriteString(escapeQuote(o.Name))
				b.WriteByte('\n')
			}
		}
	}
	b.WriteByte('\n')
	return b.String()
}
