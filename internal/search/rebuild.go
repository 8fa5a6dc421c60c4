package search

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/naab-lang/naab/internal/errtax"
)

// Rebuild replaces the index's contents with entries in one transaction,
// satisfying spec §4.6's "Build is idempotent and completes within O(N)
// in number of blocks": calling Rebuild twice with the same entries
// leaves the index in the same state, and the whole operation is one
// pass over entries rather than one query per block.
func (idx *Index) Rebuild(entries []BlockMeta) error {
	return idx.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM blocks").Error; err != nil {
			return &errtax.Error{Kind: errtax.KindIO, Message: "cannot clear search index", Detail: err.Error()}
		}
		if idx.hasFTS5 {
			if err := tx.Exec("DELETE FROM blocks_fts").Error; err != nil {
				return &errtax.Error{Kind: errtax.KindIO, Message: "cannot clear search index fts table", Detail: err.Error()}
			}
		}

		rows := make([]blockRow, len(entries))
		for i, e := range entries {
			rows[i] = blockRow{
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
		if len(rows) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error; err != nil {
				return &errtax.Error{Kind: errtax.KindIO, Message: "cannot insert search index rows", Detail: err.Error()}
			}
		}

		if idx.hasFTS5 && len(rows) > 0 {
			if err := tx.Exec(`INSERT INTO blocks_fts(rowid, id, description, language, code)
				SELECT rowid, id, description, language, code FROM blocks`).Error; err != nil {
				return &errtax.Error{Kind: errtax.KindIO, Message: "cannot populate search index fts table", Detail: err.Error()}
			}
		}
		return nil
	})
}
