package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/pulseai/pulsebot/internal/auditlog"
	"github.com/pulseai/pulsebot/internal/replay"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to the chat database")
	sessionID := flag.String("session", "", "session to export")
	last := flag.Int("last", 20, "number of most recent turns to export")
	outPath := flag.String("out", "", "output fixture JSON path")
	flag.Parse()

	if *dbPath == "" || *sessionID == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/db --session id --out path/to/fixture.json [--last N]")
		os.Exit(2)
	}

	if err := run(*dbPath, *sessionID, *last, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region export

// run extracts the most recent turns for one session from the audit log and
// writes them as a replay fixture, with the recorded rule and reply kind as
// the expected results.
func run(dbPath, sessionID string, last int, outPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	entries, err := auditlog.RecentBySession(context.Background(), db, sessionID, last)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no turns recorded for session %s", sessionID)
	}

	// RecentBySession returns newest first; the fixture needs chronological
	// order so replay threads session state correctly.
	fixture := &replay.Fixture{
		Description: fmt.Sprintf("exported session %s (%d turns)", sessionID, len(entries)),
	}
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		fixture.Interactions = append(fixture.Interactions, replay.Interaction{
			TurnID:    e.TurnID,
			SessionID: e.SessionID,
			Message:   e.Message,
		})
		fixture.Expected = append(fixture.Expected, replay.ExpectedResult{
			TurnID:    e.TurnID,
			Rule:      e.Rule,
			ReplyKind: e.ReplyKind,
		})
	}

	if err := replay.SaveFixture(outPath, fixture); err != nil {
		return err
	}
	fmt.Printf("Exported %d turns to %s\n", len(fixture.Interactions), outPath)
	return nil
}

// #endregion export
