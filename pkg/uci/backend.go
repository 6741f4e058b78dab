package uci

// Backend is the storage adapter that turns a package name into a byte
// stream for parsing and back. Modeled as an interface rather than an
// inheritance tree, per the design notes, so a future backend (e.g.
// shared-memory) can be registered without touching callers.
type Backend interface {
	// Load discovers the file for name and parses it into a new Package.
	Load(ctx *Context, name string) (*Package, error)
	// Commit flushes pkg's pending changes to stable storage. When
	// overwrite is true the canonical file is replaced outright with
	// pkg's current in-memory state; otherwise concurrent writers'
	// saved deltas are merged in first.
	Commit(ctx *Context, pkg *Package, overwrite bool) error
	// ListConfigs enumerates the config names this backend can see.
	ListConfigs(ctx *Context) ([]string, error)
}
