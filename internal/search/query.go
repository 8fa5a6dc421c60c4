package search

import (
	"github.com/naab-lang/naab/internal/errtax"
)

// Result is one full-text match. FTS5 results come ranked best-first;
// LIKE-fallback results come ordered by id.
type Result struct {
	ID          string
	Description string
	Language    string
	SourceFile  string
	SourceLine  int
	Version     string
	Deprecated  bool
}

// DefaultResultCap is spec §4.6's "configured result cap (default 100)".
const DefaultResultCap = 100

// Query runs a full-text search over id/description/language/code,
// capped at cap results (0 or negative uses DefaultResultCap). It uses
// the blocks_fts MATCH query when fts5 was available at Open, and falls
// back to a LIKE scan across the plain table otherwise — the two paths
// return the same Result shape so callers never need to know which one
// ran, matching spec §4.6's fall-back contract.
func (idx *Index) Query(text string, cap int) ([]Result, error) {
	if cap <= 0 {
		cap = DefaultResultCap
	}

	var rows []blockRow
	var err error
	if idx.hasFTS5 {
		err = idx.db.Raw(`
			SELECT b.id, b.description, b.language, b.source_file, b.source_line, b.version, b.deprecated
			FROM blocks_fts f
			JOIN blocks b ON b.rowid = f.rowid
			WHERE blocks_fts MATCH ?
			ORDER BY f.rank
			LIMIT ?`, text, cap).Scan(&rows).Error
	} else {
		like := "%" + text + "%"
		err = idx.db.Raw(`
			SELECT id, description, language, source_file, source_line, version, deprecated
			FROM blocks
			WHERE id LIKE ? OR description LIKE ? OR language LIKE ? OR code LIKE ?
			ORDER BY id
			LIMIT ?`, like, like, like, like, cap).Scan(&rows).Error
	}
	if err != nil {
		return nil, &errtax.Error{Kind: errtax.KindIO, Message: "search index query failed", Detail: err.Error()}
	}

	out := make([]Result, len(rows))
	for i, r := range rows {
		out[i] = Result{
			ID:          r.ID,
			Description: r.Description,
			Language:    r.Language,
			SourceFile:  r.SourceFile,
			SourceLine:  r.SourceLine,
			Version:     r.Version,
			Deprecated:  r.Deprecated,
		}
	}
	return out, nil
}
