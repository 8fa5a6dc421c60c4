// Package search implements the Block Registry's Search Index (spec
// §4.6): a persisted full-text store over block id/description/
// language/code, backed by SQLite through glebarez/sqlite (pure Go, no
// cgo) + gorm — the same stack and the same FTS5-detect-and-fall-back
// migration strategy as the teacher's internal/db package, adapted from
// a run/patch-provenance schema to a block-metadata one.
package search

import (
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/naab-lang/naab/internal/errtax"
)

// blockRow is the gorm-managed base table. Every row is always kept
// in sync with the FTS virtual table (or, when fts5 is unavailable, IS
// the query target directly) — see Rebuild.
type blockRow struct {
	ID          string `gorm:"primaryKey;type:text"`
	Description string `gorm:"type:text"`
	Language    string `gorm:"type:text;index"`
	Code        string `gorm:"type:text"`
	SourceFile  string `gorm:"type:text"`
	SourceLine  int
	Version     string `gorm:"type:text"`
	Deprecated  bool
}

func (blockRow) TableName() string { return "blocks" }

// BlockMeta is one entry the caller (internal/blocks) hands to Rebuild.
// It mirrors the registry's on-disk JSON schema (spec §4.6: "id,
// language, code, source_file, source_line, validation_status, version,
// deprecated") rather than the runtime value.Block, which only carries
// the subset the evaluator needs to execute a block.
type BlockMeta struct {
	ID          string
	Description string
	Language    string
	Code        string
	SourceFile  string
	SourceLine  int
	Version     string
	Deprecated  bool
}

// Index is the persisted full-text search store. hasFTS5 records which
// migration path Open took, so Query can pick MATCH vs. LIKE without
// re-probing on every call.
type Index struct {
	db      *gorm.DB
	hasFTS5 bool
}

// Open connects to (or creates) the SQLite file at path and applies the
// schema. debug enables gorm's verbose SQL logger, mirroring the
// teacher's db.Connect(dsn, debug) signature.
func Open(path string, debug bool) (*Index, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, &errtax.Error{Kind: errtax.KindIO, Message: "cannot create search index directory", Detail: err.Error()}
		}
	}

	cfg := &gorm.Config{}
	if debug {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, &errtax.Error{Kind: errtax.KindIO, Message: "cannot open search index", Detail: err.Error()}
	}

	idx := &Index{db: db}
	if err := idx.migrate(); err != nil {
		return nil, err
	}
	return idx, nil
}

// migrate is a direct adaptation of the teacher's internal/db/migrate.go
// FTS5-detect-and-fall-back strategy: attempt a throwaway virtual table,
// and if the sqlite build lacks the fts5 module, fall back to the base
// table queried with LIKE instead of MATCH.
func (idx *Index) migrate() error {
	if err := idx.db.AutoMigrate(&blockRow{}); err != nil {
		return &errtax.Error{Kind: errtax.KindIO, Message: "cannot migrate search index schema", Detail: err.Error()}
	}

	err := idx.db.Exec(`CREATE VIRTUAL TABLE IF NOT EXISTS _naab_fts_probe USING fts5(content);`).Error
	if err == nil {
		idx.db.Exec(`DROP TABLE IF EXISTS _naab_fts_probe;`)
		if err := idx.db.Exec(`CREATE VIRTUAL TABLE IF NOT EXISTS blocks_fts USING fts5(id, description, language, code, content='blocks', content_rowid='rowid');`).Error; err != nil {
			return &errtax.Error{Kind: errtax.KindIO, Message: "cannot create blocks_fts table", Detail: err.Error()}
		}
		idx.hasFTS5 = true
		return nil
	}

	// fts5 unavailable (or some other create failure) — plain table plus
	// ordinary indexes is the fallback; Query switches to LIKE matching.
	idx.hasFTS5 = false
	return nil
}

// Close releases the underlying database connection.
func (idx *Index) Close() error {
	sqlDB, err := idx.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
