package uci

import "github.com/openuci/uci/internal/fsutil"

// Context is the unit of isolation: all state — loaded packages, search
// paths, registered backends, flags — lives on a Context, and multiple
// independent contexts may coexist in one process. A single Context is
// not safe for concurrent use; §5 models it as single-threaded
// cooperative.
type Context struct {
	packages []*Package

	ConfDir     string
	SaveDir     string
	DeltaPaths  []string // additional savedir-like search paths, consulted before SaveDir

	Strict       bool
	Perror       bool
	ExportName   bool
	SavedHistory bool

	backends    map[string]Backend
	defaultName string

	fs fsAccess

	// diagnostics holds the recovered errors from the most recent
	// lenient import through this context (§7's per-context
	// parse-diagnostic record). A strict import, or one with no
	// recoverable errors, leaves it empty.
	diagnostics []ParseDiagnostic
}

// fsAccess is the union of the read and atomic-write surfaces the file
// backend and delta log need; OsFS and MockFS both satisfy it.
type fsAccess interface {
	fsutil.ReadWriteFS
	fsutil.FileOps
}

// NewContext returns a Context with the historical defaults: strict
// parsing and delta-log history both on, confdir /etc/config, savedir
// /tmp/.uci, and the file backend registered as default.
func NewContext() *Context {
	ctx := &Context{
		ConfDir:      "/etc/config",
		SaveDir:      "/tmp/.uci",
		Strict:       true,
		SavedHistory: true,
		backends:     make(map[string]Backend),
		fs:           fsutil.OS(),
	}
	ctx.RegisterBackend("file", newFileBackend())
	ctx.defaultName = "file"
	return ctx
}

// RegisterBackend adds (or replaces) a named backend. The shape is kept
// even though only "file" ships, so a future backend can be added
// without touching callers.
func (c *Context) RegisterBackend(name string, b Backend) {
	c.backends[name] = b
}

// SetBackend selects the default backend by name.
func (c *Context) SetBackend(name string) error {
	if _, ok := c.backends[name]; !ok {
		return newError(KindNotFound, "no such backend: "+name)
	}
	c.defaultName = name
	return nil
}

func (c *Context) backend() Backend {
	return c.backends[c.defaultName]
}

// AddDeltaPath registers an extra directory to search for a package's
// save file before falling back to SaveDir, mirroring the CLI's -p flag.
func (c *Context) AddDeltaPath(path string) {
	c.DeltaPaths = append(c.DeltaPaths, path)
}

// Packages returns the context's loaded packages in load order.
func (c *Context) Packages() []*Package {
	return c.packages
}

// Package looks up a loaded package by name.
func (c *Context) Package(name string) (*Package, bool) {
	for _, p := range c.packages {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// addPackage attaches p to the context root, replacing any previously
// loaded package of the same name (invariant: at most one package per
// name in the root set).
func (c *Context) addPackage(p *Package) {
	for i, existing := range c.packages {
		if existing.Name == p.Name {
			c.packages[i] = p
			return
		}
	}
	c.packages = append(c.packages, p)
}

// Unload detaches a package from the context without touching disk.
func (c *Context) Unload(name string) {
	for i, p := range c.packages {
		if p.Name == name {
			c.packages = append(c.packages[:i], c.packages[i+1:]...)
			return
		}
	}
}

// Load reads a package by name through the default backend, attaches
// it to the context, and replays any pending save-file deltas.
func (c *Context) Load(name string) (*Package, error) {
	pkg, err := c.backend().Load(c, name)
	if err != nil {
		return nil, wrapFunc("load", err)
	}
	c.addPackage(pkg)
	return pkg, nil
}

// Import parses text directly into a new package bound to name, without
// going through a backend (no delta log, no confdir resolution). Useful
// for "-f <file>" style alternate input and for tests.
func (c *Context) Import(name string, text string, lenient bool) (*Package, error) {
	pkg, err := importPackage(c, name, []byte(text), lenient)
	if err != nil {
		return nil, wrapFunc("import", err)
	}
	c.addPackage(pkg)
	return pkg, nil
}

// ImportMerge parses text as a series of Sets against name's existing
// package instead of building a fresh tree (§4.6's single-file merge
// mode, the "-m" CLI flag). The existing package comes from whichever
// is available: already loaded into c, else loaded fresh through the
// backend. With neither available there is nothing to merge into, so
// this falls back to a plain Import.
func (c *Context) ImportMerge(name string, text string, lenient bool) (*Package, error) {
	pkg, ok := c.Package(name)
	if !ok {
		if loaded, err := c.backend().Load(c, name); err == nil {
			pkg, ok = loaded, true
			c.addPackage(pkg)
		} else if !isNotFoundErr(err) {
			return nil, wrapFunc("import", err)
		}
	}
	if !ok {
		return c.Import(name, text, lenient)
	}

	diags, err := importMergeStream(c, pkg, []byte(text), lenient)
	c.diagnostics = diags
	if err != nil {
		return nil, wrapFunc("import", err)
	}
	return pkg, nil
}

// Diagnostics returns the parse diagnostics recovered during the most
// recent Load or Import through this context. Only lenient parsing
// recovers diagnostics instead of aborting; a strict import or a clean
// one leaves this empty.
func (c *Context) Diagnostics() []ParseDiagnostic {
	return c.diagnostics
}

// DiagnosticsErr combines Diagnostics into a single reportable error,
// or nil when there are none.
func (c *Context) DiagnosticsErr() error {
	return diagnosticsErr(c.diagnostics)
}

// Export serializes pkg in the canonical textual form.
func (c *Context) Export(pkg *Package) string {
	return exportPackage(c, pkg)
}

// Save flushes pkg's pending deltas to its save file. A package with no
// delta log — one loaded via a confdir-bypass absolute or explicit
// relative path, per §4.7 — has nowhere to queue a delta, so Save
// commits its current in-memory state straight to its file instead
// (`history.c`'s `uci_save`: `if (!p->confdir) return uci_commit(...)`).
func (c *Context) Save(pkg *Package) error {
	if !pkg.HasDeltaLog {
		return c.Commit(pkg, false)
	}
	return wrapFunc("save", flushPending(c, pkg))
}

// Commit merges the save file with the in-memory package and
// re-serializes the canonical file under an exclusive lock. See
// backend_file.go for the exact, crash-safe ordering.
func (c *Context) Commit(pkg *Package, overwrite bool) error {
	if err := c.backend().Commit(c, pkg, overwrite); err != nil {
		return wrapFunc("commit", err)
	}
	return nil
}

// ListConfigs enumerates the names available through the default
// backend.
func (c *Context) ListConfigs() ([]string, error) {
	names, err := c.backend().ListConfigs(c)
	if err != nil {
		return nil, wrapFunc("list_configs", err)
	}
	return names, nil
}
