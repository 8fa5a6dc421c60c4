// Package blocks implements the Block Registry (spec §4.6): identifier ->
// metadata lookup for polyglot code snippets shared across naab programs.
// Entries are lazily opened from a directory tree (`<lang>/<id>.json`,
// one JSON file per block) and cached in memory after first lookup,
// exactly as spec.md requires ("The Registry lazily opens JSON entries
// on first lookup; entries are cached in memory").
//
// Tree discovery is grounded on the teacher's core/filewalker.go: the
// same `bmatcuk/doublestar/v4` glob-matching idiom, scaled down from
// filewalker's parallel worker-pool directory scan (built for walking
// an entire target codebase) to a lookup that only needs to locate one
// file by id, or enumerate every file once for a Search Index rebuild.
package blocks

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/naab-lang/naab/internal/errtax"
	"github.com/naab-lang/naab/internal/value"
)

// Entry is the on-disk JSON shape of one block file, matching spec §4.6's
// metadata tuple: "{ id, language, code, source_file, source_line,
// validation_status, version, deprecated? }".
type Entry struct {
	ID                string `json:"id"`
	Language          string `json:"language"`
	Code              string `json:"code"`
	Description       string `json:"description"`
	SourceFile        string `json:"source_file"`
	SourceLine        int    `json:"source_line"`
	ValidationStatus  string `json:"validation_status"`
	Version           string `json:"version"`
	Deprecated        bool   `json:"deprecated"`
	DeprecatedMessage string `json:"deprecated_message"`
}

// Registry resolves a block identifier to its metadata, loading and
// caching entries from JSON files under root. The directory layout is
// `<root>/<lang>/<id>.json`; Resolve doesn't assume a specific
// language-directory naming convention (an id's two-letter language code
// needn't match the directory name verbatim), so lookup globs for the
// id's filename anywhere under root rather than constructing an exact
// path from the id.
type Registry struct {
	mu    sync.RWMutex
	root  string
	cache map[string]*Entry
}

// New creates a Registry rooted at a directory of `<lang>/<id>.json`
// files. The directory need not exist yet — Resolve simply reports
// UnknownBlock for any id until files are added.
func New(root string) *Registry {
	return &Registry{root: root, cache: make(map[string]*Entry)}
}

// Resolve implements evaluator.BlockResolver (and, structurally,
// modules.BlockResolver): it loads <root>/*/<id>.json on first lookup,
// memoizes the parsed entry, and returns the *value.Block the evaluator
// binds `use BLOCK-ID as alias` to.
func (r *Registry) Resolve(id string) (*value.Block, error) {
	e, err := r.load(id)
	if err != nil {
		return nil, err
	}
	return &value.Block{
		ID:                e.ID,
		Language:          e.Language,
		Code:              e.Code,
		Deprecated:        e.Deprecated,
		DeprecatedMessage: e.DeprecatedMessage,
	}, nil
}

func (r *Registry) load(id string) (*Entry, error) {
	r.mu.RLock()
	cached, ok := r.cache[id]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	path, err := r.locate(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errtax.Error{Kind: errtax.KindUnknownBlock, Message: "cannot read block file for '" + id + "'", Detail: err.Error()}
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, &errtax.Error{Kind: errtax.KindUnknownBlock, Message: "malformed block JSON for '" + id + "'", Detail: err.Error()}
	}
	if e.ID == "" {
		e.ID = id
	}

	r.mu.Lock()
	r.cache[id] = &e
	r.mu.Unlock()
	return &e, nil
}

// locate finds the on-disk file for id without assuming which
// language-named subdirectory it lives under.
func (r *Registry) locate(id string) (string, error) {
	pattern := filepath.Join(r.root, "*", id+".json")
	matches, err := doublestar.FilepathGlob(pattern)
	if err == nil {
		for _, m := range matches {
			if info, statErr := os.Stat(m); statErr == nil && !info.IsDir() {
				return m, nil
			}
		}
	}
	return "", &errtax.Error{Kind: errtax.KindUnknownBlock, Message: "no block registered for '" + id + "'"}
}

// Entries walks every block file under root and returns its full parsed
// metadata (including fields value.Block doesn't carry, like
// Description/SourceFile/Version), for internal/search to build its
// full-text index from. A malformed individual file is skipped rather
// than failing the whole rebuild — one bad entry shouldn't make every
// other block unsearchable.
func (r *Registry) Entries() []Entry {
	pattern := filepath.Join(r.root, "*", "*.json")
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil
	}
	var out []Entry
	for _, m := range matches {
		id := strippedBase(m)
		if e, err := r.loadFromPath(id, m); err == nil {
			out = append(out, *e)
		}
	}
	return out
}

func (r *Registry) loadFromPath(id, path string) (*Entry, error) {
	r.mu.RLock()
	cached, ok := r.cache[id]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if e.ID == "" {
		e.ID = id
	}
	r.mu.Lock()
	r.cache[id] = &e
	r.mu.Unlock()
	return &e, nil
}

func strippedBase(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
