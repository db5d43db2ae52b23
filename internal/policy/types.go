package policy

// #region imports
import (
	"github.com/pulseai/pulsebot/internal/counsel"
	"github.com/pulseai/pulsebot/internal/session"
)

// #endregion

// #region reply

// ReplyKind discriminates the policy's tagged reply union.
type ReplyKind string

const (
	ReplyText       ReplyKind = "text"
	ReplyEscalation ReplyKind = "escalation"
)

// Reply is either plain text or a structured escalation payload, never
// both. Modeled as an explicit union so the transport layer does not have
// to sniff dynamic types.
type Reply struct {
	Kind       ReplyKind
	Text       string
	Escalation *counsel.EscalationPayload
}

// TextReply wraps plain text.
func TextReply(text string) Reply {
	return Reply{Kind: ReplyText, Text: text}
}

// EscalationReply wraps a counsellor-suggestion payload.
func EscalationReply(p *counsel.EscalationPayload) Reply {
	return Reply{Kind: ReplyEscalation, Escalation: p}
}

// #endregion

// #region rule

// Rule names which cascade branch produced the reply; it feeds the turn
// audit log.
type Rule string

const (
	RuleEmptyInput          Rule = "empty_input"
	RuleEscalation          Rule = "risk_escalation"
	RuleAwaitingTopic       Rule = "awaiting_topic"
	RuleExplainMoreNoTopic  Rule = "explain_more_no_topic"
	RuleExplainMore         Rule = "explain_more"
	RuleYesNoFollowUp       Rule = "yes_no_follow_up"
	RuleClarifyYesNo        Rule = "clarify_yes_no"
	RuleGratitude           Rule = "gratitude"
	RuleNewTopic            Rule = "new_topic"
	RuleImplicitExplainMore Rule = "implicit_explain_more"
	RuleDenyCatchAll        Rule = "deny_catch_all"
	RuleGenerateError       Rule = "generate_error"
)

// #endregion

// #region outcome

// Outcome bundles the reply, the matched rule, and the next session state
// for one turn. The caller persists Session; Decide never touches a store.
type Outcome struct {
	Reply   Reply
	Rule    Rule
	Session session.Session
}

// #endregion

// #region budget

// Budget holds the per-call token limits. Elaboration turns get the larger
// budget; everything else the default.
type Budget struct {
	ExplainMore int
	Default     int
}

// DefaultBudget mirrors the deployed limits.
func DefaultBudget() Budget {
	return Budget{ExplainMore: 200, Default: 120}
}

// For picks the budget for a raw user message.
func (b Budget) For(message string) int {
	if containsExplainMore(message) {
		return b.ExplainMore
	}
	return b.Default
}

// #endregion
