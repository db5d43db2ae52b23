package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pulseai/pulsebot/internal/replay"
	"github.com/pulseai/pulsebot/internal/risk"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to replay fixture JSON")
	lexiconPath := flag.String("lexicon", "", "optional risk lexicon JSON (built-in lists when empty)")
	verbose := flag.Bool("v", false, "print every replayed turn")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json [--lexicon path] [-v]")
		os.Exit(2)
	}

	if err := run(*fixturePath, *lexiconPath, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region run

func run(fixturePath, lexiconPath string, verbose bool) error {
	fixture, err := replay.LoadFixture(fixturePath)
	if err != nil {
		return err
	}

	lex := risk.BuiltinLexicon()
	if lexiconPath != "" {
		if lex, err = risk.LoadLexicon(lexiconPath); err != nil {
			return fmt.Errorf("load lexicon: %w", err)
		}
	}

	fmt.Printf("Replaying %q: %d turns\n", fixture.Description, len(fixture.Interactions))

	results := replay.NewHarness(lex).Replay(fixture.Interactions)
	if verbose {
		fmt.Printf("%-10s  %-10s  %-22s  %-12s  %-8s\n", "Turn", "Session", "Rule", "Reply", "Risk")
		for _, r := range results {
			fmt.Printf("%-10s  %-10s  %-22s  %-12s  %-8s\n",
				r.TurnID, r.SessionID, r.Rule, r.ReplyKind, r.Risk)
		}
	}

	s := replay.Summarize(results, fixture.Expected)
	fmt.Printf("\n%d/%d turns matched expectations\n", s.Matched, s.TotalTurns)
	for rule, n := range s.ByRule {
		fmt.Printf("  %-22s %d\n", rule, n)
	}

	if len(s.Mismatches) > 0 {
		fmt.Printf("\nMismatches:\n")
		for _, m := range s.Mismatches {
			fmt.Printf("  %s: rule %q (want %q), reply %q (want %q)\n",
				m.TurnID, m.GotRule, m.WantRule, m.GotReplyKind, m.WantReplyKind)
		}
		return fmt.Errorf("%d turn(s) diverged", len(s.Mismatches))
	}
	return nil
}

// #endregion run
