// Package sqlite writes final frequency tables into a SQLite database, an
// optional alternative to the plain-text table files for downstream tools
// that prefer queryable output.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/cognicore/lexfreq/pkg/lexfreq/freq"
)

// Sink owns a database connection for one output run.
type Sink struct {
	db *sql.DB
}

// Open opens (or creates) the database at path with WAL mode enabled and
// initializes the schema.
func Open(ctx context.Context, path string) (*Sink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Sink{db: db}, nil
}

// Close closes the database connection.
func (s *Sink) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS word_freq (
	variant TEXT NOT NULL,
	word TEXT NOT NULL,
	count INTEGER NOT NULL,
	documents INTEGER NOT NULL,
	channels INTEGER,
	PRIMARY KEY (variant, word)
);

CREATE TABLE IF NOT EXISTS totals (
	variant TEXT PRIMARY KEY,
	words INTEGER NOT NULL,
	documents INTEGER NOT NULL,
	channels INTEGER
);

CREATE INDEX IF NOT EXISTS idx_word_freq_count ON word_freq(variant, count DESC);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// WriteGroup stores every variant's rows and totals. channelTotal is stored
// only for groups with channel tracking.
func (s *Sink) WriteGroup(ctx context.Context, g *freq.Group, channelTotal int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insRow, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO word_freq (variant, word, count, documents, channels)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insRow.Close()

	for _, suffix := range g.Suffixes() {
		c := g.Counter(suffix)
		for _, r := range c.Rows() {
			var channels any
			if c.Channels() {
				channels = r.Channels
			}
			if _, err := insRow.ExecContext(ctx, suffix, r.Word, r.Count, r.Docs, channels); err != nil {
				return fmt.Errorf("insert %q/%q: %w", suffix, r.Word, err)
			}
		}

		var channels any
		if c.Channels() {
			channels = channelTotal
		}
		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO totals (variant, words, documents, channels)
			VALUES (?, ?, ?, ?)`,
			suffix, g.NWords, g.NDocs, channels)
		if err != nil {
			return fmt.Errorf("insert totals %q: %w", suffix, err)
		}
	}
	return tx.Commit()
}
