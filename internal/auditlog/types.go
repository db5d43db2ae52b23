package auditlog

import "time"

// #region turn-entry
// TurnEntry is a single row in the turn_log table: one dialogue turn with
// the classification results and the rule that produced the reply.
type TurnEntry struct {
	TurnID    string
	SessionID string
	Message   string
	RiskTier  string
	Intent    string
	Rule      string
	ReplyKind string // "text" | "escalation"
	CreatedAt time.Time
}

// #endregion turn-entry
