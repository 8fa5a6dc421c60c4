// Package naab is the embedder-facing facade over the interpreter core
// (SPEC_FULL.md §1): a thin Runtime type that wires the Audit Log, Block
// Registry, Search Index, Module Registry (with every internal/stdlib/*
// module pre-registered), and Polyglot Dispatcher together the way
// cmd/naab's CLI does, so a Go program can embed naab without
// reassembling that wiring itself.
package naab

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/naab-lang/naab/internal/audit"
	"github.com/naab-lang/naab/internal/blocks"
	"github.com/naab-lang/naab/internal/config"
	"github.com/naab-lang/naab/internal/evaluator"
	"github.com/naab-lang/naab/internal/gc"
	"github.com/naab-lang/naab/internal/logx"
	"github.com/naab-lang/naab/internal/modules"
	"github.com/naab-lang/naab/internal/parser"
	"github.com/naab-lang/naab/internal/polyglot"
	"github.com/naab-lang/naab/internal/search"
	"github.com/naab-lang/naab/internal/stdlib"
	"github.com/naab-lang/naab/internal/value"
)

// Runtime bundles one process's worth of interpreter backends: the pieces
// that, per spec §5, are meant to be long-lived and shared across runs
// rather than rebuilt per program (the audit log, block registry, search
// index, module registry, and polyglot dispatcher). Each call to RunSource
// gets a fresh Evaluator and cycle collector so programs don't share
// mutable evaluation state.
type Runtime struct {
	cfg     *config.Config
	audit   *audit.Log
	blocks  *blocks.Registry
	search  *search.Index
	modules *modules.Registry
	poly    *polyglot.Dispatcher
}

// Open builds a Runtime from cfg: opens the audit log, loads the block
// registry, opens (and rebuilds) the search index from it, registers the
// stdlib modules, and constructs the default polyglot dispatcher. Callers
// should Close the returned Runtime when done.
func Open(cfg *config.Config) (*Runtime, error) {
	log, err := audit.Open(cfg.AuditLogPath, cfg.EncryptionMode, cfg.EncryptionAlgo, cfg.MasterKeyHex)
	if err != nil {
		return nil, err
	}

	blockReg := blocks.New(cfg.BlockRoot)

	idx, err := search.Open(cfg.SearchIndexPath, false)
	if err != nil {
		log.Close()
		return nil, err
	}
	if err := idx.Rebuild(blockMetas(blockReg.Entries())); err != nil {
		idx.Close()
		log.Close()
		return nil, err
	}

	modReg := modules.New(".", cfg.ModulePath, blockReg, log)
	if err := stdlib.RegisterAll(modReg); err != nil {
		idx.Close()
		log.Close()
		return nil, err
	}

	dispatcher := polyglot.NewDefaultDispatcher(cfg.TempRoot, time.Duration(cfg.PolyglotTimeout)*time.Second)

	logx.For("naab").WithField("block_root", cfg.BlockRoot).Info("runtime opened")

	return &Runtime{
		cfg:     cfg,
		audit:   log,
		blocks:  blockReg,
		search:  idx,
		modules: modReg,
		poly:    dispatcher,
	}, nil
}

// blockMetas projects blocks.Entry records (the Block Registry's on-disk
// shape) into search.BlockMeta records (the Search Index's shape) — the
// two packages deliberately don't share a type so either can evolve its
// own persisted fields independently.
func blockMetas(entries []blocks.Entry) []search.BlockMeta {
	metas := make([]search.BlockMeta, len(entries))
	for i, e := range entries {
		metas[i] = search.BlockMeta{
			ID:          e.ID,
			Description: e.Description,
			Language:    e.Language,
			Code:        e.Code,
			SourceFile:  e.SourceFile,
			SourceLine:  e.SourceLine,
			Version:     e.Version,
			Deprecated:  e.Deprecated,
		}
	}
	return metas
}

// Close releases the search index and audit log's open file handles.
func (rt *Runtime) Close() error {
	if err := rt.search.Close(); err != nil {
		rt.audit.Close()
		return err
	}
	return rt.audit.Close()
}

// Search runs a full-text query against the Block Registry's Search
// Index, capped at cap, or at the configured default when cap is zero or
// negative.
func (rt *Runtime) Search(query string, cap int) ([]search.Result, error) {
	if cap <= 0 {
		cap = rt.cfg.SearchResultCapDefault
	}
	return rt.search.Query(query, cap)
}

// RunSource parses source as a complete naab program and evaluates its
// main block, wiring a fresh per-run Evaluator and cycle collector to the
// Runtime's shared audit log, block registry, module registry, and
// polyglot dispatcher (spec §5: evaluation state is per-run, backends are
// process-wide). Relative file-path `use`/`import` paths resolve against
// the process's working directory; callers that have an entry file on
// disk should prefer RunFile so relative imports resolve against that
// file's directory instead.
func (rt *Runtime) RunSource(ctx context.Context, source string) (value.Value, error) {
	return rt.run(ctx, source, rt.modules)
}

// RunFile reads path and evaluates it like RunSource, except tier-3
// file-path module resolution (spec §4.7) is rooted at path's directory
// rather than the process's working directory.
func (rt *Runtime) RunFile(ctx context.Context, path string) (value.Value, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	modReg := modules.New(filepath.Dir(path), rt.cfg.ModulePath, rt.blocks, rt.audit)
	if err := stdlib.RegisterAll(modReg); err != nil {
		return nil, err
	}
	return rt.run(ctx, string(src), modReg)
}

func (rt *Runtime) run(ctx context.Context, source string, modReg *modules.Registry) (value.Value, error) {
	p, err := parser.New(source)
	if err != nil {
		return nil, err
	}
	prog, err := p.Parse()
	if err != nil {
		return nil, err
	}

	collector := gc.New(rt.cfg.GCThreshold)
	ev := evaluator.New(
		evaluator.WithPolyglotRunner(rt.poly),
		evaluator.WithBlockResolver(rt.blocks),
		evaluator.WithModuleResolver(modReg),
		evaluator.WithAuditSink(rt.audit),
		evaluator.WithCycleCollector(collector),
		evaluator.WithContext(ctx),
	)
	return ev.Run(prog)
}
