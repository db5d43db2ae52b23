// Package replay re-runs recorded conversations through the decision
// cascade entirely in-memory. Generation is replaced by a canned stub so a
// replay run is deterministic and needs no model backend; it checks which
// rule fires per turn, not the generated wording.
package replay

import (
	"context"

	"github.com/pulseai/pulsebot/internal/counsel"
	"github.com/pulseai/pulsebot/internal/intent"
	"github.com/pulseai/pulsebot/internal/policy"
	"github.com/pulseai/pulsebot/internal/risk"
	"github.com/pulseai/pulsebot/internal/session"
)

// #region types

// Result captures the outcome of replaying one interaction.
type Result struct {
	TurnID    string
	SessionID string
	Rule      policy.Rule
	ReplyKind policy.ReplyKind
	Intent    intent.Intent
	Risk      risk.Tier
	LastTopic string
}

// Mismatch pairs a replayed result with the expectation it violated.
type Mismatch struct {
	TurnID        string
	WantRule      string
	GotRule       policy.Rule
	WantReplyKind string
	GotReplyKind  policy.ReplyKind
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalTurns int
	Matched    int
	Mismatches []Mismatch
	ByRule     map[policy.Rule]int
}

// #endregion types

// #region harness

// cannedGen stands in for the model backend.
type cannedGen struct{}

func (cannedGen) Generate(_ context.Context, _ string, _ int) (string, error) {
	return "(generated reply)", nil
}

// cannedDir always offers one counsellor so escalation turns produce a
// structured payload instead of the text fallback.
type cannedDir struct{}

func (cannedDir) FetchRanked(_ context.Context, _ counsel.Criteria) ([]counsel.Record, error) {
	return []counsel.Record{{ID: "replay-c1", Name: "Replay Counsellor", RankingScore: 1}}, nil
}

// Harness replays interactions through the cascade with deterministic
// classification (lexicon risk, keyword intent).
type Harness struct {
	riskC   *risk.Classifier
	intentC *intent.Classifier
	engine  *policy.Engine
}

// NewHarness builds a replay harness over the given risk lexicon.
func NewHarness(lex risk.Lexicon) *Harness {
	return &Harness{
		riskC:   risk.NewClassifier(lex),
		intentC: intent.NewClassifier(nil, 0),
		engine:  policy.NewEngine(cannedGen{}, cannedDir{}, policy.DefaultBudget()),
	}
}

// Replay iterates through interactions in order, threading session state
// per session id in-memory.
func (h *Harness) Replay(interactions []Interaction) []Result {
	ctx := context.Background()
	sessions := make(map[string]session.Session)
	results := make([]Result, 0, len(interactions))

	for _, inter := range interactions {
		id := inter.SessionID
		if id == "" {
			id = session.DefaultID
		}
		sess, ok := sessions[id]
		if !ok {
			sess = session.New(id)
		}

		tier := h.riskC.Classify(inter.Message)
		in := h.intentC.Classify(ctx, inter.Message)
		out := h.engine.Decide(ctx, sess, inter.Message, in, tier)
		sessions[id] = out.Session

		results = append(results, Result{
			TurnID:    inter.TurnID,
			SessionID: id,
			Rule:      out.Rule,
			ReplyKind: out.Reply.Kind,
			Intent:    in,
			Risk:      tier,
			LastTopic: out.Session.LastTopic,
		})
	}
	return results
}

// #endregion harness

// #region summary

// Summarize checks results against the fixture expectations and computes
// aggregate stats. Turns without a matching expectation count as matched.
func Summarize(results []Result, expected []ExpectedResult) Summary {
	want := make(map[string]ExpectedResult, len(expected))
	for _, e := range expected {
		want[e.TurnID] = e
	}

	s := Summary{
		TotalTurns: len(results),
		ByRule:     make(map[policy.Rule]int),
	}
	for _, r := range results {
		s.ByRule[r.Rule]++
		e, ok := want[r.TurnID]
		if !ok {
			s.Matched++
			continue
		}
		ruleOK := e.Rule == "" || e.Rule == string(r.Rule)
		kindOK := e.ReplyKind == "" || e.ReplyKind == string(r.ReplyKind)
		if ruleOK && kindOK {
			s.Matched++
			continue
		}
		s.Mismatches = append(s.Mismatches, Mismatch{
			TurnID:        r.TurnID,
			WantRule:      e.Rule,
			GotRule:       r.Rule,
			WantReplyKind: e.ReplyKind,
			GotReplyKind:  r.ReplyKind,
		})
	}
	return s
}

// #endregion summary
