package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/pulseai/pulsebot/internal/auditlog"
	"github.com/pulseai/pulsebot/internal/counsel"
	"github.com/pulseai/pulsebot/internal/generate"
	"github.com/pulseai/pulsebot/internal/intent"
	"github.com/pulseai/pulsebot/internal/policy"
	"github.com/pulseai/pulsebot/internal/risk"
	"github.com/pulseai/pulsebot/internal/router"
	"github.com/pulseai/pulsebot/internal/session"
)

// #region main
func main() {
	dbPath := envOr("DB_PATH", "pulsebot.db")
	ollamaURL := envOr("OLLAMA_URL", "http://localhost:11434")
	model := envOr("OLLAMA_MODEL", "llama3.2")
	sessionID := envOr("SESSION_ID", session.DefaultID)

	directory, err := counsel.NewStore(dbPath)
	if err != nil {
		log.Fatalf("failed to open counsellor directory: %v", err)
	}
	defer directory.Close()
	if err := auditlog.Migrate(directory.DB()); err != nil {
		log.Fatalf("failed to migrate audit log: %v", err)
	}
	if err := directory.SeedFromFile(context.Background(), envOr("COUNSELLOR_SEED_PATH", "data/counsellors.json")); err != nil {
		log.Printf("seed skipped: %v", err)
	}

	ollama, err := generate.NewOllamaClient(ollamaURL, model)
	if err != nil {
		log.Fatalf("failed to create ollama client: %v", err)
	}
	gen := generate.NewBounded(ollama, generate.DefaultTimeout)

	store := session.NewMemoryStore(session.DefaultTTL)
	defer store.Close()

	engine := policy.NewEngine(gen, directory, policy.DefaultBudget())
	rt := router.New(
		store,
		risk.FromFile(envOr("RISK_LEXICON_PATH", "data/risk_lexicon.json")),
		intent.NewClassifier(ollama, 0),
		intent.NewDriftDetector(ollama, nil, 0),
		engine,
		directory.DB(),
	)

	fmt.Println("PulseBot chat ready.")
	fmt.Printf("  DB: %s | Ollama: %s (%s) | Session: %s\n", dbPath, ollamaURL, model, sessionID)
	fmt.Println("Type a message (or 'quit' to exit):")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if message == "quit" || message == "exit" {
			break
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		turn, err := rt.ProcessMessage(ctx, sessionID, message)
		cancel()
		if err != nil {
			log.Printf("turn error: %v", err)
			continue
		}

		switch turn.Reply.Kind {
		case policy.ReplyEscalation:
			fmt.Printf("\n%s\n", turn.Reply.Escalation.Message)
			for _, c := range turn.Reply.Escalation.Counsellors {
				fmt.Printf("  - %s (%s), score %.2f\n", c.Name, c.Specialization, c.RankingScore)
			}
			fmt.Println()
		default:
			fmt.Printf("\n%s\n\n", turn.Reply.Text)
		}

		fmt.Printf("[%s] rule=%s risk=%s intent=%s topic=%q\n",
			turn.TurnID, turn.Rule, turn.Risk, turn.Intent, turn.Session.LastTopic)
	}
}

// #endregion main

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
