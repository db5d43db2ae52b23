// Package policy implements the dialogue decision cascade: given session
// state, a message, its intent, and its risk tier, it picks exactly one
// response strategy and returns the next session state.
//
// Decide is evaluated as an ordered cascade; the first matching rule wins
// and order is load-bearing. The function is pure with respect to storage:
// it receives a session value and returns the updated one.
package policy

// #region imports
import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pulseai/pulsebot/internal/counsel"
	"github.com/pulseai/pulsebot/internal/generate"
	"github.com/pulseai/pulsebot/internal/intent"
	"github.com/pulseai/pulsebot/internal/risk"
	"github.com/pulseai/pulsebot/internal/session"
)

// #endregion

// #region canned-text

const (
	askMoreDetailReply = "Could you share a bit more about what's on your mind?"

	askTopicFirstReply = "I didn't explain a condition yet. Could you tell me what topic you'd like to learn about?"

	groundingReply = "Great. Let's build on that. Here are a few grounding techniques you can use right away: " +
		"1) Box breathing (4-4-4-4), 2) 5-4-3-2-1 sensory check, 3) Name-and-release (label thoughts, let them pass). " +
		"Would you like me to suggest more techniques or help you book a counsellor?"

	breathingReply = "No problem. We can try something simple now: inhale 4s, hold 4s, exhale 4s, repeat 4 rounds. " +
		"I can also share sleep/stress tips or help you book a counsellor. What would you prefer?"

	clarifyYesNoReply = "Just to check — was that a yes or no?"

	gratitudeCloseReply = "You're very welcome 💙 I'm here anytime you need support. Take care!"

	denyCatchAllReply = "No worries. Could you share more about your concern?"

	// escalationFallbackReply is used when the counsellor source is down
	// or empty; the high-risk signal must still produce actionable help.
	escalationFallbackReply = "I'm really sorry you're feeling this way. You deserve support, and help is available. " +
		"Please reach out to someone you trust, your campus counselling centre, or local emergency services right now."

	// generateFallbackReply substitutes for a timed-out generation call.
	generateFallbackReply = "I'm having trouble forming a full reply right now. " +
		"Could you say that again in a moment, or tell me a bit more in the meantime?"
)

// elaborationPrompt scopes an explain-more generation strictly to
// symptoms, precautions, and coping techniques of the stored topic.
const elaborationPrompt = "Explain more about the SYMPTOMS and PRECAUTIONS of %s, " +
	"including simple coping techniques where relevant. " +
	"Do not add history, treatment, or statistics."

func containsExplainMore(message string) bool {
	return strings.Contains(strings.ToLower(message), "explain more")
}

// #endregion

// #region engine

// Engine evaluates the cascade. dir may be nil, in which case high-risk
// turns always use the textual fallback.
type Engine struct {
	gen    generate.Generator
	dir    counsel.Directory
	budget Budget
}

// NewEngine wires the policy with its generation backend and counsellor
// source.
func NewEngine(gen generate.Generator, dir counsel.Directory, budget Budget) *Engine {
	if budget.Default <= 0 {
		budget = DefaultBudget()
	}
	return &Engine{gen: gen, dir: dir, budget: budget}
}

// #endregion

// #region decide

// Decide runs the ordered cascade for one turn.
func (e *Engine) Decide(ctx context.Context, sess session.Session, message string, in intent.Intent, tier risk.Tier) Outcome {
	text := strings.TrimSpace(message)

	// 1. Degenerate input: ask for more, touch nothing, call nothing.
	if text == "" {
		return Outcome{Reply: TextReply(askMoreDetailReply), Rule: RuleEmptyInput, Session: sess}
	}

	// 2. High risk preempts everything below; intent is irrelevant here.
	if tier == risk.TierHigh {
		return e.escalate(ctx, sess, text)
	}

	// 3. We previously asked "what topic?", so the message IS the topic.
	if sess.LastPrompt == session.PromptAwaitingTopic {
		next := sess
		next.LastTopic = text
		next.LastPrompt = session.PromptTriedTechnique
		return e.generated(ctx, sess, next, text, e.budget.For(text), RuleAwaitingTopic)
	}

	// 4. Explicit explain-more.
	if in == intent.IntentExplainMore {
		if sess.LastTopic == "" {
			next := sess
			next.LastPrompt = session.PromptAwaitingTopic
			return Outcome{Reply: TextReply(askTopicFirstReply), Rule: RuleExplainMoreNoTopic, Session: next}
		}
		next := sess
		next.LastPrompt = session.PromptNone
		prompt := fmt.Sprintf(elaborationPrompt, sess.LastTopic)
		return e.generated(ctx, sess, next, prompt, e.budget.ExplainMore, RuleExplainMore)
	}

	// 5/6. Answers to a pending yes/no prompt.
	if sess.LastPrompt == session.PromptTriedTechnique || sess.LastPrompt == session.PromptMemoryIssues {
		switch in {
		case intent.IntentAffirmation:
			next := sess
			next.LastPrompt = session.PromptNone
			return Outcome{Reply: TextReply(groundingReply), Rule: RuleYesNoFollowUp, Session: next}
		case intent.IntentDeny:
			next := sess
			next.LastPrompt = session.PromptNone
			return Outcome{Reply: TextReply(breathingReply), Rule: RuleYesNoFollowUp, Session: next}
		default:
			// Ambiguous answer: re-ask, leave the session untouched.
			return Outcome{Reply: TextReply(clarifyYesNoReply), Rule: RuleClarifyYesNo, Session: sess}
		}
	}

	// 7. Gratitude closes the exchange.
	if in == intent.IntentGratitude {
		next := sess
		next.LastPrompt = session.PromptNone
		return Outcome{Reply: TextReply(gratitudeCloseReply), Rule: RuleGratitude, Session: next}
	}

	// 8. Fresh subject.
	if in == intent.IntentNewTopic {
		return e.newTopic(ctx, sess, text)
	}

	// 9. Stray affirmation with an established topic reads as an implicit
	// explain-more request.
	if in == intent.IntentAffirmation && sess.LastTopic != "" {
		next := sess
		next.LastPrompt = session.PromptNone
		prompt := fmt.Sprintf(elaborationPrompt, sess.LastTopic)
		return e.generated(ctx, sess, next, prompt, e.budget.ExplainMore, RuleImplicitExplainMore)
	}

	// 10. Stray deny.
	if in == intent.IntentDeny {
		return Outcome{Reply: TextReply(denyCatchAllReply), Rule: RuleDenyCatchAll, Session: sess}
	}

	// 11. Everything else is a new topic.
	return e.newTopic(ctx, sess, text)
}

// #endregion

// #region branches

// escalate builds the counsellor payload, or the textual fallback when the
// directory fails or is empty. Either way the message becomes the topic.
func (e *Engine) escalate(ctx context.Context, sess session.Session, text string) Outcome {
	next := sess
	next.LastTopic = text

	if e.dir != nil {
		records, err := e.dir.FetchRanked(ctx, counsel.Criteria{})
		if err == nil {
			if payload, ok := counsel.BuildEscalation(records); ok {
				next.LastPrompt = session.PromptCounsellorSuggested
				return Outcome{Reply: EscalationReply(payload), Rule: RuleEscalation, Session: next}
			}
		}
	}

	next.LastPrompt = session.PromptNone
	return Outcome{Reply: TextReply(escalationFallbackReply), Rule: RuleEscalation, Session: next}
}

// newTopic records the verbatim message as the topic and generates a fresh
// reply to it.
func (e *Engine) newTopic(ctx context.Context, sess session.Session, text string) Outcome {
	next := sess
	next.LastTopic = text
	next.LastPrompt = session.PromptTriedTechnique
	return e.generated(ctx, sess, next, text, e.budget.For(text), RuleNewTopic)
}

// generated runs one bounded generation call. A timeout degrades to the
// canned fallback with the planned session update; any other backend error
// surfaces as a prefixed error string and keeps the prior session so the
// conversation can recover next turn.
func (e *Engine) generated(ctx context.Context, prior, next session.Session, prompt string, maxTokens int, rule Rule) Outcome {
	reply, err := e.gen.Generate(ctx, prompt, maxTokens)
	if err != nil {
		if errors.Is(err, generate.ErrTimedOut) {
			return Outcome{Reply: TextReply(generateFallbackReply), Rule: rule, Session: next}
		}
		return Outcome{
			Reply:   TextReply("[Error] " + err.Error()),
			Rule:    RuleGenerateError,
			Session: prior,
		}
	}
	if strings.TrimSpace(reply) == "" {
		return Outcome{Reply: TextReply(generateFallbackReply), Rule: rule, Session: next}
	}
	return Outcome{Reply: TextReply(reply), Rule: rule, Session: next}
}

// #endregion
