package modules

import "github.com/naab-lang/naab/internal/value"

// childResolver is the ModuleResolver a loaded module file's own
// `use`/`import` statements see. It delegates to the parent Registry but
// resolves tier-3 file paths relative to the importing file's own
// directory rather than the program's entry baseDir, and threads the
// same import-cycle visiting set through nested resolution so
// `a` -> `b` -> `a` is caught regardless of how deep the cycle runs.
type childResolver struct {
	parent   *Registry
	visiting map[string]bool
	fileDir  string
}

func (c *childResolver) Resolve(path string) (*value.Environment, error) {
	// Tiers 1 and 2 (stdlib, block id) are identical regardless of which
	// file is doing the importing; only tier 3's base directory differs
	// per file, so this shares the parent's locks and caches rather than
	// copying the Registry (copying would hand out a second, unsynchronized
	// mutex guarding the very same maps).
	return c.parent.resolve(path, c.visiting, c.fileDir)
}
