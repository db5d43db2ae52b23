// Package auditlog persists one row per dialogue turn so that routing
// decisions can be inspected after the fact. It shares the SQLite database
// opened for the counsellor directory.
package auditlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS turn_log (
	turn_id    TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	message    TEXT NOT NULL,
	risk_tier  TEXT NOT NULL,
	intent     TEXT NOT NULL,
	rule       TEXT NOT NULL,
	reply_kind TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_turn_log_session
ON turn_log(session_id, created_at);
`

// Migrate creates the turn_log table on the shared database.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrate turn_log: %w", err)
	}
	return nil
}

// #endregion schema

// #region log-turn
// LogTurn writes one turn entry. A zero TurnID gets a fresh UUID and a zero
// CreatedAt gets the current time, so callers only fill what they know.
func LogTurn(ctx context.Context, db *sql.DB, entry TurnEntry) (string, error) {
	if entry.TurnID == "" {
		entry.TurnID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO turn_log (turn_id, session_id, message, risk_tier, intent, rule, reply_kind, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.TurnID,
		entry.SessionID,
		entry.Message,
		entry.RiskTier,
		entry.Intent,
		entry.Rule,
		entry.ReplyKind,
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("log turn: %w", err)
	}
	return entry.TurnID, nil
}

// #endregion log-turn

// #region recent
// RecentBySession returns the latest entries for one session, newest first.
func RecentBySession(ctx context.Context, db *sql.DB, sessionID string, limit int) ([]TurnEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.QueryContext(ctx,
		`SELECT turn_id, session_id, message, risk_tier, intent, rule, reply_kind, created_at
		 FROM turn_log WHERE session_id = ?
		 ORDER BY created_at DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query turn_log: %w", err)
	}
	defer rows.Close()

	var entries []TurnEntry
	for rows.Next() {
		var e TurnEntry
		var created string
		if err := rows.Scan(&e.TurnID, &e.SessionID, &e.Message, &e.RiskTier,
			&e.Intent, &e.Rule, &e.ReplyKind, &created); err != nil {
			return nil, fmt.Errorf("scan turn_log row: %w", err)
		}
		if t, perr := time.Parse(time.RFC3339Nano, created); perr == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion recent
