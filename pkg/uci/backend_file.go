package uci

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/openuci/uci/internal/lock"
)

// fileBackend is the default Backend: packages live one-per-file under
// ctx.ConfDir, with a companion append-only delta log under ctx.SaveDir
// (or one of ctx.DeltaPaths).
type fileBackend struct{}

func newFileBackend() Backend { return fileBackend{} }

func (fileBackend) canonicalPath(ctx *Context, name string) string {
	return filepath.Join(ctx.ConfDir, name)
}

// resolveLoadPath implements file.c's uci_load name switch: a bare name
// resolves against ctx.ConfDir and keeps its delta log; an absolute
// (/…) or explicit relative (./…) path is opened as given, named after
// its basename, and bypasses the delta log entirely (confdir == false).
// A name starting with "." that isn't "./…" has no file it could mean.
func (fileBackend) resolveLoadPath(ctx *Context, name string) (path, bareName string, confdir bool, err error) {
	switch {
	case strings.HasPrefix(name, "/"):
		return name, filepath.Base(name), false, nil
	case strings.HasPrefix(name, "."):
		if !strings.HasPrefix(name, "./") {
			return "", "", false, newError(KindNotFound, "no such config: "+name)
		}
		return name, filepath.Base(name), false, nil
	default:
		if !ValidateName(name) {
			return "", "", false, newError(KindInval, "invalid package name")
		}
		return filepath.Join(ctx.ConfDir, name), name, true, nil
	}
}

// Load reads name's canonical file under a shared lock held for the
// duration of the import (§4.7, §5: "readers take a shared lock for the
// duration of an import"), parses it, attaches the delta log, and
// replays any pending save-file entries on top — unless name addressed
// the file by an absolute or explicit relative path, in which case the
// delta log is bypassed entirely (§4.7 confdir-bypass load).
func (b fileBackend) Load(ctx *Context, name string) (*Package, error) {
	path, bareName, confdir, err := b.resolveLoadPath(ctx, name)
	if err != nil {
		return nil, err
	}

	f, err := ctx.fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newError(KindNotFound, "no such config: "+name)
		}
		return nil, &Error{Kind: KindIO, Msg: err.Error()}
	}
	defer f.Close()

	l, err := lock.Acquire(f, lock.Shared)
	if err != nil {
		return nil, &Error{Kind: KindIO, Msg: err.Error()}
	}
	defer l.Release()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &Error{Kind: KindIO, Msg: err.Error()}
	}

	pkg, err := importPackage(ctx, bareName, data, !ctx.Strict)
	if err != nil {
		return nil, err
	}
	pkg.Path = path
	pkg.Backend = "file"
	pkg.HasDeltaLog = confdir && ctx.SavedHistory

	if pkg.HasDeltaLog {
		saved, err := loadSavedDeltas(ctx, bareName)
		if err != nil {
			return nil, err
		}
		pkg.SavedDeltas = saved
		replayDeltas(ctx, pkg, saved)
	}
	return pkg, nil
}

// Commit persists pkg to its canonical file. Per §4.5: the file is
// opened for an exclusive write lock before anything else, so a
// concurrent reader never observes a half-written file and a concurrent
// committer is serialized behind us.
//
// When overwrite is false and pkg has a delta log, any deltas another
// process flushed to the save file since we loaded are merged in first:
// we re-import the now-locked canonical file fresh, replay the saved
// deltas on top of that clean copy, and only then truncate and write —
// so a crash between truncate and write never loses the previous
// contents of a file we failed to fully re-read.
func (b fileBackend) Commit(ctx *Context, pkg *Package, overwrite bool) error {
	path := pkg.Path
	if path == "" {
		if !overwrite {
			return newError(KindInval, "package has no path: load or import it first, or commit with overwrite")
		}
		path = b.canonicalPath(ctx, pkg.Name)
	}
	if err := ctx.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &Error{Kind: KindIO, Msg: err.Error()}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return &Error{Kind: KindIO, Msg: err.Error()}
	}
	defer f.Close()

	l, err := lock.Acquire(f, lock.Exclusive)
	if err != nil {
		return &Error{Kind: KindIO, Msg: err.Error()}
	}
	defer l.Release()

	if !overwrite && pkg.HasDeltaLog {
		if err := flushPending(ctx, pkg); err != nil {
			return err
		}
		diskData, err := os.ReadFile(path)
		if err != nil {
			return &Error{Kind: KindIO, Msg: err.Error()}
		}
		fresh, err := importPackage(ctx, pkg.Name, diskData, true)
		if err != nil {
			return err
		}
		saved, err := loadSavedDeltas(ctx, pkg.Name)
		if err != nil {
			return err
		}
		replayDeltas(ctx, fresh, saved)
		fresh.Path = pkg.Path
		fresh.Backend = pkg.Backend
		fresh.HasDeltaLog = pkg.HasDeltaLog
		fresh.SavedDeltas = saved
		pkg = fresh
		ctx.addPackage(pkg)
	}

	rendered := renderPackage(ctx, pkg, false)
	if err := f.Truncate(0); err != nil {
		return &Error{Kind: KindIO, Msg: err.Error()}
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return &Error{Kind: KindIO, Msg: err.Error()}
	}
	if _, err := f.WriteString(rendered); err != nil {
		return &Error{Kind: KindIO, Msg: err.Error()}
	}
	if err := f.Sync(); err != nil {
		return &Error{Kind: KindIO, Msg: err.Error()}
	}

	if pkg.HasDeltaLog {
		saveFile := saveFilePath(ctx, pkg.Name)
		if err := ctx.fs.Remove(saveFile); err != nil && !os.IsNotExist(err) {
			return &Error{Kind: KindIO, Msg: err.Error()}
		}
		pkg.SavedDeltas = nil
		pkg.PendingDeltas = nil
	}
	return nil
}

// ListConfigs enumerates ctx.ConfDir, validating each entry's name
// concurrently — directory listings can be large on embedded flash, and
// validation is pure CPU work with no shared state, so fanning it out
// costs nothing but buys nothing on a few dozen files either.
func (b fileBackend) ListConfigs(ctx *Context) ([]string, error) {
	entries, err := readDirNames(ctx.fs, ctx.ConfDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &Error{Kind: KindIO, Msg: err.Error()}
	}

	valid := make([]bool, len(entries))
	g := new(errgroup.Group)
	for i, name := range entries {
		i, name := i, name
		g.Go(func() error {
			valid[i] = ValidateName(name) && !strings.HasPrefix(name, ".")
			return nil
		})
	}
	_ = g.Wait()

	var names []string
	for i, name := range entries {
		if valid[i] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func readDirNames(fs fsAccess, dir string) ([]string, error) {
	f, err := fs.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	infos, err := f.Readdir(-1)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		names = append(names, info.Name())
	}
	return names, nil
}
