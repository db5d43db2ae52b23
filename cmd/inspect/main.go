package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/pulseai/pulsebot/internal/auditlog"
	"github.com/pulseai/pulsebot/internal/counsel"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to the chat database")
	sessionID := flag.String("session", "", "show turns for this session")
	last := flag.Int("last", 20, "show N most recent turns")
	counsellors := flag.Bool("counsellors", false, "list the counsellor directory instead of turns")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" || (*sessionID == "" && !*counsellors) {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/db (--session id [--last N] | --counsellors) [--json]")
		os.Exit(2)
	}

	var err error
	if *counsellors {
		err = runDirectoryMode(*dbPath, *jsonOut)
	} else {
		err = runTurnMode(*dbPath, *sessionID, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region turn-mode

func runTurnMode(dbPath, sessionID string, last int, jsonOut bool) error {
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
		fmt.Fprintln(os.Stderr, "no turns found")
		return nil
	}

	if jsonOut {
		return printJSON(entries)
	}

	fmt.Printf("%-10s  %-8s  %-14s  %-22s  %-12s  %s\n",
		"Turn", "Risk", "Intent", "Rule", "Reply", "Time")
	// Newest first from the store; print chronologically.
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		fmt.Printf("%-10s  %-8s  %-14s  %-22s  %-12s  %s\n",
			shortID(e.TurnID), e.RiskTier, e.Intent, e.Rule, e.ReplyKind,
			e.CreatedAt.Format("2006-01-02T15:04:05Z"))
	}
	return nil
}

// #endregion turn-mode

// #region directory-mode

func runDirectoryMode(dbPath string, jsonOut bool) error {
	store, err := counsel.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.FetchRanked(context.Background(), counsel.Criteria{Limit: 100})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "directory is empty")
		return nil
	}

	if jsonOut {
		return printJSON(records)
	}

	fmt.Printf("%-10s  %-24s  %-16s  %6s  %5s\n", "ID", "Name", "Specialization", "Score", "Years")
	for _, r := range records {
		fmt.Printf("%-10s  %-24s  %-16s  %6.2f  %5d\n",
			r.ID, r.Name, r.Specialization, r.RankingScore, r.ExperienceYears)
	}
	return nil
}

// #endregion directory-mode

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
