// Package counsel provides the ranked counsellor directory and the
// escalation payload built from it on high-risk turns.
package counsel

// #region imports
import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

// #endregion

// #region directory

// Directory is the upstream counsellor source. Implementations may fail or
// return empty; callers must tolerate both.
type Directory interface {
	FetchRanked(ctx context.Context, criteria Criteria) ([]Record, error)
}

// #endregion

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS counsellors (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	specialization   TEXT NOT NULL,
	affiliation      TEXT NOT NULL DEFAULT '',
	fee              REAL NOT NULL DEFAULT 0,
	experience_years INTEGER NOT NULL DEFAULT 0,
	ranking_score    REAL NOT NULL DEFAULT 0,
	languages        TEXT NOT NULL DEFAULT '[]',
	bio              TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_counsellors_rank
ON counsellors(ranking_score DESC);
`

// #endregion

// #region store

// Store is the SQLite-backed counsellor directory.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the directory database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. the
// turn audit log shares this database).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion

// #region fetch-ranked

const defaultFetchLimit = 3

// FetchRanked implements Directory. Ordering comes from ranking_score; no
// re-ranking happens downstream.
func (s *Store) FetchRanked(ctx context.Context, criteria Criteria) ([]Record, error) {
	limit := criteria.Limit
	if limit <= 0 {
		limit = defaultFetchLimit
	}

	query := `SELECT id, name, specialization, affiliation, fee, experience_years, ranking_score, languages, bio
		FROM counsellors WHERE 1=1`
	args := []any{}
	if criteria.Specialization != "" {
		query += ` AND specialization = ?`
		args = append(args, criteria.Specialization)
	}
	if criteria.Language != "" {
		query += ` AND languages LIKE ?`
		args = append(args, `%"`+criteria.Language+`"%`)
	}
	query += ` ORDER BY ranking_score DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch ranked: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var langJSON string
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Specialization, &rec.Affiliation,
			&rec.Fee, &rec.ExperienceYears, &rec.RankingScore, &langJSON, &rec.Bio); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if err := json.Unmarshal([]byte(langJSON), &rec.Languages); err != nil {
			return nil, fmt.Errorf("unmarshal languages: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion

// #region seed

// Upsert inserts or replaces a single directory entry.
func (s *Store) Upsert(ctx context.Context, rec Record) error {
	langJSON, err := json.Marshal(rec.Languages)
	if err != nil {
		return fmt.Errorf("marshal languages: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO counsellors (id, name, specialization, affiliation, fee, experience_years, ranking_score, languages, bio)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			specialization = excluded.specialization,
			affiliation = excluded.affiliation,
			fee = excluded.fee,
			experience_years = excluded.experience_years,
			ranking_score = excluded.ranking_score,
			languages = excluded.languages,
			bio = excluded.bio`,
		rec.ID, rec.Name, rec.Specialization, rec.Affiliation,
		rec.Fee, rec.ExperienceYears, rec.RankingScore, string(langJSON), rec.Bio,
	)
	if err != nil {
		return fmt.Errorf("upsert counsellor: %w", err)
	}
	return nil
}

// Count returns the number of directory entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM counsellors`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count counsellors: %w", err)
	}
	return n, nil
}

// SeedFromFile loads directory entries from a JSON array when the table is
// empty. A missing seed file is not an error; an empty directory just means
// escalations fall back to plain supportive text.
func (s *Store) SeedFromFile(ctx context.Context, path string) error {
	n, err := s.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read seed file: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}
	for _, rec := range records {
		if err := s.Upsert(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// #endregion
