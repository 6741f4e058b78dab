package uci

// This file implements the mutation layer: one internal apply
// function per operation (setSectionType, setOption, deleteElement,
// renameElement, listAdd, addSection) that take already-resolved names
// and a log flag, and a set of public Context methods that parse a
// Pointer, resolve it against loaded packages, and dispatch into the
// apply functions with logging enabled. Delta replay (delta.go) calls
// the same apply functions directly with log=false.

// loadOrGet returns an already-loaded package or loads it through the
// default backend.
func (c *Context) loadOrGet(name string) (*Package, error) {
	if pkg, ok := c.Package(name); ok {
		return pkg, nil
	}
	return c.Load(name)
}

// resolveConcreteSection turns ptr's section token into a concrete
// section name. Extended (@type[idx]) pointers always resolve against
// existing sections; name-safe pointers resolve against an existing
// section when present, or — when allowCreate is set — are returned
// verbatim so the caller's apply function can create it.
func resolveConcreteSection(pkg *Package, ptr *Pointer, allowCreate bool) (string, error) {
	if ptr.Extended {
		sec, err := resolveSection(pkg, ptr)
		if err != nil {
			return "", err
		}
		return sec.Name, nil
	}
	if _, ok := pkg.Section(ptr.Section); ok {
		return ptr.Section, nil
	}
	if allowCreate {
		return ptr.Section, nil
	}
	return "", newError(KindNotFound, "section not found: "+ptr.Section)
}

// setSectionType changes section's type, or creates it (with that type)
// if it doesn't exist yet — this is what "uci set pkg.newsection=type"
// does.
func setSectionType(ctx *Context, pkg *Package, section, value string, log bool) error {
	sec, ok := pkg.Section(section)
	if !ok {
		return addSection(ctx, pkg, section, value, false, log)
	}
	sec.Type = value
	if log {
		recordDelta(pkg, &DeltaEntry{Command: CommandChange, Section: section, Value: value})
	}
	return nil
}

// setOption sets a scalar option, overwriting any existing list of the
// same name outright (matching historical uci_set behavior: the last
// set wins regardless of the previous option's kind).
func setOption(ctx *Context, pkg *Package, section, option, value string, log bool) error {
	sec, ok := pkg.Section(section)
	if !ok {
		return newError(KindNotFound, "section not found: "+section)
	}
	if !ValidateName(option) {
		return newError(KindInval, "invalid option name")
	}
	if !ValidateText(value) {
		return newError(KindInval, "invalid character in value")
	}
	if opt, ok := sec.Option(option); ok {
		if opt.Kind == ScalarOption && opt.Value == value {
			return nil
		}
		opt.Kind = ScalarOption
		opt.Value = value
		opt.Items = nil
	} else {
		allocOptionScalar(sec, option, value)
	}
	if log {
		recordDelta(pkg, &DeltaEntry{Command: CommandChange, Section: section, Option: option, Value: value})
	}
	return nil
}

// deleteElement removes a whole section (option == "") or a single
// option from it.
func deleteElement(ctx *Context, pkg *Package, section, option string, log bool) error {
	if _, ok := pkg.Section(section); !ok {
		return newError(KindNotFound, "section not found: "+section)
	}
	if option == "" {
		if !pkg.removeSection(section) {
			return newError(KindNotFound, "section not found: "+section)
		}
	} else {
		sec, _ := pkg.Section(section)
		if !sec.removeOption(option) {
			return newError(KindNotFound, "option not found: "+option)
		}
	}
	if log {
		recordDelta(pkg, &DeltaEntry{Command: CommandRemove, Section: section, Option: option})
	}
	return nil
}

// renameElement renames a section (option == "") or an option within
// one. value holds the new name.
func renameElement(ctx *Context, pkg *Package, section, option, value string, log bool) error {
	if !ValidateName(value) {
		return newError(KindInval, "invalid name")
	}
	sec, ok := pkg.Section(section)
	if !ok {
		return newError(KindNotFound, "section not found: "+section)
	}
	if option == "" {
		if _, exists := pkg.Section(value); exists {
			return newError(KindDuplicate, "section already exists: "+value)
		}
		sec.Name = value
		sec.Anonymous = false
	} else {
		opt, ok := sec.Option(option)
		if !ok {
			return newError(KindNotFound, "option not found: "+option)
		}
		if _, exists := sec.Option(value); exists {
			return newError(KindDuplicate, "option already exists: "+value)
		}
		opt.Name = value
	}
	if log {
		recordDelta(pkg, &DeltaEntry{Command: CommandRename, Section: section, Option: option, Value: value})
	}
	return nil
}

// listAdd appends value to a list option, creating it if absent.
func listAdd(ctx *Context, pkg *Package, section, option, value string, log bool) error {
	sec, ok := pkg.Section(section)
	if !ok {
		return newError(KindNotFound, "section not found: "+section)
	}
	if !ValidateName(option) {
		return newError(KindInval, "invalid option name")
	}
	if !ValidateText(value) {
		return newError(KindInval, "invalid character in value")
	}
	opt, ok := sec.Option(option)
	if !ok {
		opt = allocOptionList(sec, option)
	} else if opt.Kind != ListOption {
		return newError(KindInval, "option is not a list: "+option)
	}
	opt.Items = append(opt.Items, value)
	if log {
		recordDelta(pkg, &DeltaEntry{Command: CommandListAdd, Section: section, Option: option, Value: value})
	}
	return nil
}

// addSection creates a new section of type typ, named section (or
// given a generated name, when anonymous is set). The resolved name —
// generated or explicit — ends up as the last entry of pkg.Sections.
//
// anonymous is threaded explicitly rather than inferred from section
// == "", because delta replay recreates an anonymous section under its
// already-generated name (so sibling deltas that reference it by name
// still resolve) but must still mark it Anonymous, or a reloaded
// package would export its name where the original, never-reloaded
// in-memory package would have suppressed it (§8 save/reload/export).
func addSection(ctx *Context, pkg *Package, section, typ string, anonymous bool, log bool) error {
	if !ValidateType(typ) {
		return newError(KindInval, "invalid section type")
	}
	if section != "" {
		if !ValidateName(section) {
			return newError(KindInval, "invalid section name")
		}
		if _, exists := pkg.Section(section); exists {
			return newError(KindDuplicate, "section already exists: "+section)
		}
	}
	sec := allocSection(pkg, typ, section)
	sec.Anonymous = anonymous
	fixupSection(sec)
	if log {
		recordDelta(pkg, &DeltaEntry{Command: CommandAdd, Section: sec.Name, Value: typ, Anonymous: anonymous})
	}
	return nil
}

// Set implements "uci set pkg.section[.option]=value" and
// "uci set pkg.section=type".
func (c *Context) Set(pointer string) error {
	ptr, err := ParsePointer(pointer)
	if err != nil {
		return wrapFunc("set", err)
	}
	if !ptr.HasValue || ptr.Section == "" {
		return wrapFunc("set", newError(KindInval, "set requires pkg.section[.option]=value"))
	}
	pkg, err := c.loadOrGet(ptr.Package)
	if err != nil {
		return wrapFunc("set", err)
	}
	secName, err := resolveConcreteSection(pkg, ptr, ptr.Option == "")
	if err != nil {
		return wrapFunc("set", err)
	}
	if ptr.Option == "" {
		return wrapFunc("set", setSectionType(c, pkg, secName, ptr.Value, pkg.HasDeltaLog))
	}
	return wrapFunc("set", setOption(c, pkg, secName, ptr.Option, ptr.Value, pkg.HasDeltaLog))
}

// Add creates a new anonymous section of type typ in pkgName and
// returns its generated name.
func (c *Context) Add(pkgName, typ string) (string, error) {
	pkg, err := c.loadOrGet(pkgName)
	if err != nil {
		return "", wrapFunc("add", err)
	}
	if err := addSection(c, pkg, "", typ, true, pkg.HasDeltaLog); err != nil {
		return "", wrapFunc("add", err)
	}
	return pkg.Sections[len(pkg.Sections)-1].Name, nil
}

// Get resolves pointer against loaded (or auto-loaded) state and
// returns the matched package/section/option.
func (c *Context) Get(pointer string) (*ref, error) {
	ptr, err := ParsePointer(pointer)
	if err != nil {
		return nil, wrapFunc("get", err)
	}
	r, err := resolvePointer(c, ptr, true)
	if err != nil {
		return nil, wrapFunc("get", err)
	}
	if ptr.Section != "" && r.Section == nil {
		return nil, wrapFunc("get", newError(KindNotFound, "section not found: "+ptr.Section))
	}
	if ptr.Option != "" && r.Option == nil {
		return nil, wrapFunc("get", newError(KindNotFound, "option not found: "+ptr.Option))
	}
	return r, nil
}

// Delete implements "uci delete pkg.section[.option]".
func (c *Context) Delete(pointer string) error {
	ptr, err := ParsePointer(pointer)
	if err != nil {
		return wrapFunc("delete", err)
	}
	if ptr.Section == "" {
		return wrapFunc("delete", newError(KindInval, "delete requires a section"))
	}
	pkg, err := c.loadOrGet(ptr.Package)
	if err != nil {
		return wrapFunc("delete", err)
	}
	secName, err := resolveConcreteSection(pkg, ptr, false)
	if err != nil {
		return wrapFunc("delete", err)
	}
	return wrapFunc("delete", deleteElement(c, pkg, secName, ptr.Option, pkg.HasDeltaLog))
}

// Rename implements "uci rename pkg.section[.option]=newname".
func (c *Context) Rename(pointer string) error {
	ptr, err := ParsePointer(pointer)
	if err != nil {
		return wrapFunc("rename", err)
	}
	if !ptr.HasValue || ptr.Section == "" {
		return wrapFunc("rename", newError(KindInval, "rename requires pkg.section[.option]=newname"))
	}
	pkg, err := c.loadOrGet(ptr.Package)
	if err != nil {
		return wrapFunc("rename", err)
	}
	secName, err := resolveConcreteSection(pkg, ptr, false)
	if err != nil {
		return wrapFunc("rename", err)
	}
	return wrapFunc("rename", renameElement(c, pkg, secName, ptr.Option, ptr.Value, pkg.HasDeltaLog))
}

// ListAdd implements "uci add_list pkg.section.option=value".
func (c *Context) ListAdd(pointer string) error {
	ptr, err := ParsePointer(pointer)
	if err != nil {
		return wrapFunc("add_list", err)
	}
	if !ptr.HasValue || ptr.Section == "" || ptr.Option == "" {
		return wrapFunc("add_list", newError(KindInval, "add_list requires pkg.section.option=value"))
	}
	pkg, err := c.loadOrGet(ptr.Package)
	if err != nil {
		return wrapFunc("add_list", err)
	}
	secName, err := resolveConcreteSection(pkg, ptr, false)
	if err != nil {
		return wrapFunc("add_list", err)
	}
	return wrapFunc("add_list", listAdd(c, pkg, secName, ptr.Option, ptr.Value, pkg.HasDeltaLog))
}

// Revert implements "uci revert pkg[.section[.option]]": every pending
// and saved delta touching the pointed-at subtree is discarded, its
// save file is rewritten without them, and the package is re-read from
// the canonical file so the in-memory tree matches disk again.
func (c *Context) Revert(pointer string) error {
	ptr, err := ParsePointer(pointer)
	if err != nil {
		return wrapFunc("revert", err)
	}
	pkg, err := c.loadOrGet(ptr.Package)
	if err != nil {
		return wrapFunc("revert", err)
	}
	affected := func(d *DeltaEntry) bool {
		if ptr.Section != "" && d.Section != ptr.Section {
			return false
		}
		if ptr.Option != "" && d.Option != ptr.Option {
			return false
		}
		return true
	}

	pkg.PendingDeltas = dropMatching(pkg.PendingDeltas, affected)
	pkg.SavedDeltas = dropMatching(pkg.SavedDeltas, affected)
	if pkg.HasDeltaLog {
		if err := rewriteSaveFile(c, pkg); err != nil {
			return wrapFunc("revert", err)
		}
	}

	fresh, err := c.backend().Load(c, pkg.Name)
	if err != nil {
		return wrapFunc("revert", err)
	}
	fresh.PendingDeltas = pkg.PendingDeltas
	fresh.SavedDeltas = pkg.SavedDeltas
	c.addPackage(fresh)
	return nil
}

func dropMatching(entries []*DeltaEntry, match func(*DeltaEntry) bool) []*DeltaEntry {
	kept := entries[:0]
	for _, d := range entries {
		if !match(d) {
			kept = append(kept, d)
		}
	}
	return kept
}
