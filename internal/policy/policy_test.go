package policy

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pulseai/pulsebot/internal/counsel"
	"github.com/pulseai/pulsebot/internal/generate"
	"github.com/pulseai/pulsebot/internal/intent"
	"github.com/pulseai/pulsebot/internal/risk"
	"github.com/pulseai/pulsebot/internal/session"
)

// fakeGen records prompts and answers with a fixed reply or error.
type fakeGen struct {
	prompts []string
	reply   string
	err     error
}

func (g *fakeGen) Generate(_ context.Context, prompt string, _ int) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	if g.reply == "" {
		return "ok", nil
	}
	return g.reply, nil
}

// fakeDir serves a scripted candidate list or error.
type fakeDir struct {
	records []counsel.Record
	err     error
}

func (d *fakeDir) FetchRanked(_ context.Context, _ counsel.Criteria) ([]counsel.Record, error) {
	return d.records, d.err
}

func newEngine(gen *fakeGen, dir counsel.Directory) *Engine {
	return NewEngine(gen, dir, DefaultBudget())
}

func TestEmptyInputNeverGenerates(t *testing.T) {
	gen := &fakeGen{}
	e := newEngine(gen, nil)
	sess := session.New("s1")
	sess.LastTopic = "exam stress"

	for _, msg := range []string{"", "   ", "\n\t"} {
		out := e.Decide(context.Background(), sess, msg, intent.IntentNewTopic, risk.TierLow)
		if out.Reply.Kind != ReplyText || out.Reply.Text == "" {
			t.Fatalf("expected clarifying text for %q", msg)
		}
		if out.Session != sess {
			t.Fatalf("empty input must not mutate session: %+v", out.Session)
		}
	}
	if len(gen.prompts) != 0 {
		t.Fatalf("generation backend called %d times for empty input", len(gen.prompts))
	}
}

func TestNewTopicSetsVerbatimTopic(t *testing.T) {
	gen := &fakeGen{reply: "try a short walk"}
	e := newEngine(gen, nil)

	msg := "I'm stressed about exams"
	out := e.Decide(context.Background(), session.New("s1"), msg, intent.IntentNewTopic, risk.TierLow)

	if out.Session.LastTopic != msg {
		t.Errorf("last topic: got %q, want verbatim message", out.Session.LastTopic)
	}
	if out.Session.LastPrompt != session.PromptTriedTechnique {
		t.Errorf("prompt key: got %q, want tried_technique", out.Session.LastPrompt)
	}
	if out.Reply.Kind != ReplyText || out.Reply.Text == "" {
		t.Error("expected non-empty text reply")
	}
	if out.Rule != RuleNewTopic {
		t.Errorf("rule: got %q", out.Rule)
	}
}

func TestExplainMoreReusesTopic(t *testing.T) {
	gen := &fakeGen{reply: "expanded"}
	e := newEngine(gen, nil)
	ctx := context.Background()

	first := e.Decide(ctx, session.New("s2"), "I'm stressed about exams", intent.IntentNewTopic, risk.TierLow)
	second := e.Decide(ctx, first.Session, "explain more", intent.IntentExplainMore, risk.TierLow)

	if second.Session.LastTopic != first.Session.LastTopic {
		t.Errorf("explain more changed topic: %q -> %q", first.Session.LastTopic, second.Session.LastTopic)
	}
	if second.Session.LastPrompt != session.PromptNone {
		t.Errorf("prompt key not cleared: %q", second.Session.LastPrompt)
	}
	last := gen.prompts[len(gen.prompts)-1]
	if !strings.Contains(last, "I'm stressed about exams") || !strings.Contains(last, "SYMPTOMS") {
		t.Errorf("elaboration prompt not scoped to stored topic: %q", last)
	}
	if !strings.Contains(last, "history") {
		t.Errorf("elaboration prompt missing exclusion instructions: %q", last)
	}
}

func TestExplainMoreWithoutTopicAsksForOne(t *testing.T) {
	gen := &fakeGen{}
	e := newEngine(gen, nil)

	out := e.Decide(context.Background(), session.New("s3"), "explain more", intent.IntentExplainMore, risk.TierLow)
	if out.Session.LastPrompt != session.PromptAwaitingTopic {
		t.Errorf("prompt key: got %q, want awaiting_topic", out.Session.LastPrompt)
	}
	if out.Session.LastTopic != "" {
		t.Errorf("topic must stay absent, got %q", out.Session.LastTopic)
	}
	if len(gen.prompts) != 0 {
		t.Error("asking for a topic must not call the generator")
	}
}

func TestAwaitingTopicTreatsMessageAsTopic(t *testing.T) {
	gen := &fakeGen{reply: "about sleep..."}
	e := newEngine(gen, nil)

	sess := session.New("s4")
	sess.LastPrompt = session.PromptAwaitingTopic

	// Even a yes/no-looking message is the topic in this state.
	out := e.Decide(context.Background(), sess, "sleep problems", intent.IntentAffirmation, risk.TierLow)
	if out.Session.LastTopic != "sleep problems" {
		t.Errorf("topic: got %q", out.Session.LastTopic)
	}
	if out.Session.LastPrompt != session.PromptTriedTechnique {
		t.Errorf("prompt key: got %q, want tried_technique", out.Session.LastPrompt)
	}
	if out.Rule != RuleAwaitingTopic {
		t.Errorf("rule: got %q", out.Rule)
	}
}

func TestYesNoFollowUps(t *testing.T) {
	for _, key := range []session.PromptKey{session.PromptTriedTechnique, session.PromptMemoryIssues} {
		sess := session.New("s5")
		sess.LastTopic = "exam stress"
		sess.LastPrompt = key

		t.Run(string(key)+"/affirmation", func(t *testing.T) {
			e := newEngine(&fakeGen{}, nil)
			out := e.Decide(context.Background(), sess, "yes", intent.IntentAffirmation, risk.TierLow)
			if out.Session.LastPrompt != session.PromptNone {
				t.Errorf("prompt key not cleared: %q", out.Session.LastPrompt)
			}
			if out.Session.LastTopic != "exam stress" {
				t.Errorf("topic not preserved: %q", out.Session.LastTopic)
			}
			if !strings.Contains(out.Reply.Text, "grounding") {
				t.Errorf("expected grounding suggestion, got %q", out.Reply.Text)
			}
		})

		t.Run(string(key)+"/deny", func(t *testing.T) {
			e := newEngine(&fakeGen{}, nil)
			out := e.Decide(context.Background(), sess, "no", intent.IntentDeny, risk.TierLow)
			if out.Session.LastPrompt != session.PromptNone {
				t.Errorf("prompt key not cleared: %q", out.Session.LastPrompt)
			}
			if !strings.Contains(out.Reply.Text, "inhale") {
				t.Errorf("expected breathing suggestion, got %q", out.Reply.Text)
			}
		})

		t.Run(string(key)+"/ambiguous", func(t *testing.T) {
			gen := &fakeGen{}
			e := newEngine(gen, nil)
			out := e.Decide(context.Background(), sess, "maybe later", intent.IntentGratitude, risk.TierLow)
			if out.Session != sess {
				t.Errorf("ambiguous answer mutated session: %+v", out.Session)
			}
			if !strings.Contains(out.Reply.Text, "yes or no") {
				t.Errorf("expected clarifying re-ask, got %q", out.Reply.Text)
			}
			if len(gen.prompts) != 0 {
				t.Error("clarifying re-ask must not call the generator")
			}
		})
	}
}

func TestGratitudeClosesAndKeepsTopic(t *testing.T) {
	e := newEngine(&fakeGen{}, nil)
	sess := session.New("s6")
	sess.LastTopic = "sleep"

	out := e.Decide(context.Background(), sess, "thanks", intent.IntentGratitude, risk.TierLow)
	if out.Session.LastTopic != "sleep" {
		t.Errorf("topic not preserved: %q", out.Session.LastTopic)
	}
	if out.Session.LastPrompt != session.PromptNone {
		t.Errorf("prompt key not cleared: %q", out.Session.LastPrompt)
	}
	if out.Reply.Text == "" {
		t.Error("expected warm closing reply")
	}
}

func TestFirstMessageYesFallsThroughToNewTopic(t *testing.T) {
	gen := &fakeGen{reply: "sure, tell me more"}
	e := newEngine(gen, nil)

	// Fresh session, no pending prompt: "yes" must not be treated as an
	// answer to a question that was never asked.
	out := e.Decide(context.Background(), session.New("s7"), "yes", intent.IntentAffirmation, risk.TierLow)
	if out.Rule != RuleNewTopic {
		t.Fatalf("rule: got %q, want new_topic fallthrough", out.Rule)
	}
	if out.Session.LastTopic != "yes" {
		t.Errorf("topic: got %q", out.Session.LastTopic)
	}
}

func TestImplicitExplainMore(t *testing.T) {
	gen := &fakeGen{reply: "more detail"}
	e := newEngine(gen, nil)
	sess := session.New("s8")
	sess.LastTopic = "migraine"

	out := e.Decide(context.Background(), sess, "yes", intent.IntentAffirmation, risk.TierLow)
	if out.Rule != RuleImplicitExplainMore {
		t.Fatalf("rule: got %q", out.Rule)
	}
	if !strings.Contains(gen.prompts[0], "migraine") {
		t.Errorf("elaboration prompt not scoped to topic: %q", gen.prompts[0])
	}
	if out.Session.LastPrompt != session.PromptNone {
		t.Errorf("prompt key not cleared: %q", out.Session.LastPrompt)
	}
}

func TestDenyCatchAll(t *testing.T) {
	e := newEngine(&fakeGen{}, nil)
	sess := session.New("s9")

	out := e.Decide(context.Background(), sess, "no", intent.IntentDeny, risk.TierLow)
	if out.Rule != RuleDenyCatchAll {
		t.Fatalf("rule: got %q", out.Rule)
	}
	if out.Session != sess {
		t.Errorf("deny catch-all mutated session: %+v", out.Session)
	}
}

func TestHighRiskEscalation(t *testing.T) {
	ctx := context.Background()
	msg := "I want to kill myself"

	t.Run("payload-from-directory", func(t *testing.T) {
		gen := &fakeGen{}
		dir := &fakeDir{records: []counsel.Record{
			{ID: "c1", Name: "Dr. Rao", RankingScore: 0.9},
			{ID: "c2", Name: "Dr. Mehta", RankingScore: 0.8},
		}}
		e := newEngine(gen, dir)

		out := e.Decide(ctx, session.New("r1"), msg, intent.IntentNewTopic, risk.TierHigh)
		if out.Reply.Kind != ReplyEscalation {
			t.Fatalf("expected escalation reply, got %q", out.Reply.Kind)
		}
		if out.Reply.Escalation.Kind != counsel.PayloadKind {
			t.Errorf("payload kind: got %q", out.Reply.Escalation.Kind)
		}
		if len(out.Reply.Escalation.Counsellors) != 2 {
			t.Errorf("expected 2 counsellors, got %d", len(out.Reply.Escalation.Counsellors))
		}
		if out.Session.LastTopic != msg {
			t.Errorf("topic: got %q", out.Session.LastTopic)
		}
		if out.Session.LastPrompt != session.PromptCounsellorSuggested {
			t.Errorf("prompt key: got %q", out.Session.LastPrompt)
		}
		if len(gen.prompts) != 0 {
			t.Error("escalation must not call the generator")
		}
	})

	t.Run("directory-error-falls-back-to-text", func(t *testing.T) {
		e := newEngine(&fakeGen{}, &fakeDir{err: errors.New("directory down")})
		out := e.Decide(ctx, session.New("r2"), msg, intent.IntentNewTopic, risk.TierHigh)
		if out.Reply.Kind != ReplyText {
			t.Fatalf("expected text fallback, got %q", out.Reply.Kind)
		}
		lower := strings.ToLower(out.Reply.Text)
		if !strings.Contains(lower, "sorry") && !strings.Contains(lower, "help") {
			t.Errorf("fallback lacks supportive language: %q", out.Reply.Text)
		}
		if out.Session.LastTopic != msg {
			t.Errorf("topic: got %q", out.Session.LastTopic)
		}
	})

	t.Run("empty-directory-falls-back-to-text", func(t *testing.T) {
		e := newEngine(&fakeGen{}, &fakeDir{})
		out := e.Decide(ctx, session.New("r3"), msg, intent.IntentNewTopic, risk.TierHigh)
		if out.Reply.Kind != ReplyText || out.Reply.Text == "" {
			t.Fatal("expected non-empty text fallback for empty directory")
		}
	})

	t.Run("nil-directory-falls-back-to-text", func(t *testing.T) {
		e := newEngine(&fakeGen{}, nil)
		out := e.Decide(ctx, session.New("r4"), msg, intent.IntentNewTopic, risk.TierHigh)
		if out.Reply.Kind != ReplyText || out.Reply.Text == "" {
			t.Fatal("expected non-empty text fallback with nil directory")
		}
	})
}

func TestGenerationFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("hard-error-preserves-session", func(t *testing.T) {
		e := newEngine(&fakeGen{err: errors.New("model crashed")}, nil)
		sess := session.New("g1")
		sess.LastTopic = "old topic"

		out := e.Decide(ctx, sess, "tell me about burnout", intent.IntentNewTopic, risk.TierLow)
		if !strings.HasPrefix(out.Reply.Text, "[Error]") {
			t.Fatalf("expected prefixed error string, got %q", out.Reply.Text)
		}
		if out.Session.LastTopic != "old topic" {
			t.Errorf("prior topic not preserved: %q", out.Session.LastTopic)
		}
		if out.Rule != RuleGenerateError {
			t.Errorf("rule: got %q", out.Rule)
		}
	})

	t.Run("timeout-substitutes-canned-fallback", func(t *testing.T) {
		e := newEngine(&fakeGen{err: generate.ErrTimedOut}, nil)
		out := e.Decide(ctx, session.New("g2"), "tell me about burnout", intent.IntentNewTopic, risk.TierLow)
		if strings.HasPrefix(out.Reply.Text, "[Error]") {
			t.Fatalf("timeout must not surface as error string: %q", out.Reply.Text)
		}
		if out.Reply.Text == "" {
			t.Fatal("expected canned fallback text")
		}
		// The planned session update still applies on a timeout.
		if out.Session.LastTopic != "tell me about burnout" {
			t.Errorf("topic: got %q", out.Session.LastTopic)
		}
	})
}

func TestBudgetFor(t *testing.T) {
	b := DefaultBudget()
	if got := b.For("please explain more about that"); got != b.ExplainMore {
		t.Errorf("explain-more budget: got %d", got)
	}
	if got := b.For("I feel low today"); got != b.Default {
		t.Errorf("default budget: got %d", got)
	}
}
