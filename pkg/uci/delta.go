package uci

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/openuci/uci/internal/fsutil"
	"github.com/openuci/uci/internal/lock"
)

// DeltaCommand classifies a recorded mutation.
type DeltaCommand int

const (
	CommandChange DeltaCommand = iota
	CommandRemove
	CommandRename
	CommandListAdd
	CommandAdd
)

func (c DeltaCommand) prefix() byte {
	switch c {
	case CommandRemove:
		return '-'
	case CommandRename:
		return '@'
	case CommandListAdd:
		return '|'
	case CommandAdd:
		return '+'
	default:
		return 0
	}
}

// DeltaEntry is a single recorded mutation, coarse and line-serializable
// so it survives a round trip through the save file.
type DeltaEntry struct {
	Command DeltaCommand
	Section string
	Option  string
	Value   string

	// Anonymous is set on a CommandAdd entry created by an anonymous
	// Add; Section already holds the generated name, but replay must
	// still mark the recreated section Anonymous so a reloaded
	// package exports identically to the one that was saved (§8
	// save/reload/export property 5).
	Anonymous bool
}

func hasDeltaValue(d *DeltaEntry) bool { return d.Command != CommandRemove }

// encodeDeltaLine renders d in the on-disk save-file dialect:
// [prefix]package.section[.option][=value].
func encodeDeltaLine(pkgName string, d *DeltaEntry) string {
	var b strings.Builder
	switch {
	case d.Command == CommandAdd && d.Anonymous:
		b.WriteString("++")
	default:
		if p := d.Command.prefix(); p != 0 {
			b.WriteByte(p)
		}
	}
	b.WriteString(pkgName)
	b.WriteByte('.')
	b.WriteString(d.Section)
	if d.Option != "" {
		b.WriteByte('.')
		b.WriteString(d.Option)
	}
	if hasDeltaValue(d) {
		b.WriteByte('=')
		b.WriteString(escapeQuote(d.Value))
	}
	return b.String()
}

// decodeDeltaLine parses one save-file line back into a package name and
// a DeltaEntry. It tokenizes the line with the same quoting dialect as
// the main config format, so escaped values round-trip exactly.
func decodeDeltaLine(line string) (string, *DeltaEntry, error) {
	if line == "" {
		return "", nil, &Error{Kind: KindParse, Msg: "empty delta line"}
	}
	cmd := CommandChange
	rest := line
	anonymous := false
	switch {
	case strings.HasPrefix(line, "++"):
		cmd, anonymous, rest = CommandAdd, true, line[2:]
	case line[0] == '-':
		cmd, rest = CommandRemove, line[1:]
	case line[0] == '@':
		cmd, rest = CommandRename, line[1:]
	case line[0] == '|':
		cmd, rest = CommandListAdd, line[1:]
	case line[0] == '+':
		cmd, rest = CommandAdd, line[1:]
	}

	tk := newTokenizer(strings.NewReader(rest + "\n"))
	args, _, err := tk.nextLine()
	if err != nil {
		return "", nil, err
	}
	if len(args) != 1 {
		return "", nil, &Error{Kind: KindParse, Msg: "malformed delta line"}
	}
	token := args[0]

	key := token
	value := ""
	if idx := strings.IndexByte(token, '='); idx >= 0 {
		key, value = token[:idx], token[idx+1:]
	} else if cmd != CommandRemove {
		return "", nil, &Error{Kind: KindParse, Msg: "delta line missing value"}
	}

	parts := strings.SplitN(key, ".", 3)
	if len(parts) < 2 || !ValidateName(parts[0]) || !ValidateName(parts[1]) {
		return "", nil, &Error{Kind: KindParse, Msg: "malformed delta key"}
	}
	d := &DeltaEntry{Command: cmd, Section: parts[1], Value: value, Anonymous: anonymous}
	if len(parts) == 3 {
		if !ValidateName(parts[2]) {
			return "", nil, &Error{Kind: KindParse, Msg: "malformed delta key"}
		}
		d.Option = parts[2]
	}
	return parts[0], d, nil
}

// recordDelta appends d to pkg's pending delta queue. Called only from
// the public mutation wrappers (log == true); nested/internal calls
// during replay never reach here.
func recordDelta(pkg *Package, d *DeltaEntry) {
	pkg.PendingDeltas = append(pkg.PendingDeltas, d)
}

// saveFilePath returns the per-package save-file path: the first of
// ctx.DeltaPaths that already has one, otherwise ctx.SaveDir (where a
// new one will be created if needed).
func saveFilePath(ctx *Context, pkgName string) string {
	for _, dir := range ctx.DeltaPaths {
		p := filepath.Join(dir, pkgName)
		if _, err := ctx.fs.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(ctx.SaveDir, pkgName)
}

// flushPending appends pkg's pending deltas to its save file under an
// exclusive lock and clears the in-memory queue. No atomic rename is
// needed: append is sufficiently atomic for this format and the lock
// excludes concurrent writers.
func flushPending(ctx *Context, pkg *Package) error {
	if !pkg.HasDeltaLog || len(pkg.PendingDeltas) == 0 {
		return nil
	}
	path := saveFilePath(ctx, pkg.Name)
	if err := ctx.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return wrapFunc("save", &Error{Kind: KindIO, Msg: err.Error()})
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return wrapFunc("save", &Error{Kind: KindIO, Msg: err.Error()})
	}
	defer f.Close()

	l, err := lock.Acquire(f, lock.Exclusive)
	if err != nil {
		return wrapFunc("save", &Error{Kind: KindIO, Msg: err.Error()})
	}
	defer l.Release()

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return wrapFunc("save", &Error{Kind: KindIO, Msg: err.Error()})
	}
	w := bufio.NewWriter(f)
	for _, d := range pkg.PendingDeltas {
		if _, err := fmt.Fprintln(w, encodeDeltaLine(pkg.Name, d)); err != nil {
			return wrapFunc("save", &Error{Kind: KindIO, Msg: err.Error()})
		}
	}
	if err := w.Flush(); err != nil {
		return wrapFunc("save", &Error{Kind: KindIO, Msg: err.Error()})
	}
	if err := f.Sync(); err != nil {
		return wrapFunc("save", &Error{Kind: KindIO, Msg: err.Error()})
	}
	pkg.SavedDeltas = append(pkg.SavedDeltas, pkg.PendingDeltas...)
	pkg.PendingDeltas = nil
	return nil
}

// loadSavedDeltas reads and decodes every line of pkg's save file.
// Malformed lines are silently skipped: delta-log replay is always
// lenient, matching §4.5.
func loadSavedDeltas(ctx *Context, pkgName string) ([]*DeltaEntry, error) {
	path := saveFilePath(ctx, pkgName)
	f, err := ctx.fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, wrapFunc("load", &Error{Kind: KindIO, Msg: err.Error()})
	}
	defer f.Close()

	var entries []*DeltaEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		name, d, err := decodeDeltaLine(line)
		if err != nil || name != pkgName {
			continue
		}
		entries = append(entries, d)
	}
	return entries, nil
}

// rewriteSaveFile replaces the on-disk save file with exactly pkg's
// current SavedDeltas, used by Revert to drop entries from history
// without leaving the stale lines behind.
func rewriteSaveFile(ctx *Context, pkg *Package) error {
	path := saveFilePath(ctx, pkg.Name)
	if len(pkg.SavedDeltas) == 0 {
		if err := ctx.fs.Remove(path); err != nil && !os.IsNotExist(err) {
			return wrapFunc("revert", &Error{Kind: KindIO, Msg: err.Error()})
		}
		return nil
	}
	var b strings.Builder
	for _, d := range pkg.SavedDeltas {
		b.WriteString(encodeDeltaLine(pkg.Name, d))
		b.WriteByte('\n')
	}
	if err := ctx.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return wrapFunc("revert", &Error{Kind: KindIO, Msg: err.Error()})
	}
	return fsutil.AtomicWrite(ctx.fs, path, []byte(b.String()), 0o644)
}

// replayDeltas applies entries to pkg using the internal (non-logging)
// mutation path, in order. Entries that fail to apply are skipped,
// consistent with always-lenient replay.
func replayDeltas(ctx *Context, pkg *Package, entries []*DeltaEntry) {
	for _, d := range entries {
		_ = applyDelta(ctx, pkg, d, false)
	}
}

// applyDelta dispatches a single DeltaEntry to the corresponding
// mutation-layer operation.
func applyDelta(ctx *Context, pkg *Package, d *DeltaEntry, log bool) error {
	switch d.Command {
	case CommandChange:
		if d.Option == "" {
			return setSectionType(ctx, pkg, d.Section, d.Value, log)
		}
		return setOption(ctx, pkg, d.Section, d.Option, d.Value, log)
	case CommandRemove:
		return deleteElement(ctx, pkg, d.Section, d.Option, log)
	case CommandRename:
		return renameElement(ctx, pkg, d.Section, d.Option, d.Value, log)
	case CommandListAdd:
		return listAdd(ctx, pkg, d.Section, d.Option, d.Value, log)
	case CommandAdd:
		return addSection(ctx, pkg, d.Section, d.Value, d.Anonymous, log)
	default:
		return newError(KindInval, "unknown delta command")
	}
}
