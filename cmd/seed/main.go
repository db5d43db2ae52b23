package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/pulseai/pulsebot/internal/counsel"
)

// #region main

// seed loads counsellor directory entries from a JSON file into the chat
// database. Unlike the server's startup seeding, --force upserts even when
// the table is already populated, so updated seed files can be applied.
func main() {
	dbPath := flag.String("db", "", "path to the chat database")
	seedPath := flag.String("seed", "", "path to counsellor seed JSON")
	force := flag.Bool("force", false, "upsert entries even when the directory is populated")
	flag.Parse()

	if *dbPath == "" || *seedPath == "" {
		fmt.Fprintln(os.Stderr, "usage: seed --db path/to/db --seed path/to/counsellors.json [--force]")
		os.Exit(2)
	}

	if err := run(*dbPath, *seedPath, *force); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region run

func run(dbPath, seedPath string, force bool) error {
	ctx := context.Background()

	store, err := counsel.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if !force {
		if err := store.SeedFromFile(ctx, seedPath); err != nil {
			return err
		}
		n, err := store.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Directory holds %d entries\n", n)
		return nil
	}

	raw, err := os.ReadFile(seedPath)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var records []counsel.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}
	for _, rec := range records {
		if err := store.Upsert(ctx, rec); err != nil {
			return err
		}
	}
	fmt.Printf("Upserted %d entries\n", len(records))
	return nil
}

// #endregion run
