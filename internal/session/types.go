package session

import "time"

// #region prompt-key

// PromptKey marks what kind of follow-up the system expects in the next
// turn. The zero value means no follow-up is pending.
type PromptKey string

const (
	PromptNone                PromptKey = ""
	PromptAwaitingTopic       PromptKey = "awaiting_topic"
	PromptTriedTechnique      PromptKey = "tried_technique"
	PromptMemoryIssues        PromptKey = "memory_issues"
	PromptCounsellorSuggested PromptKey = "counsellor_suggested"
)

// #endregion

// #region session

// DefaultID is used when the caller supplies no session identifier.
const DefaultID = "default"

// Session is the per-conversation memory. LastTopic holds the verbatim
// user utterance that established the current subject; LastPrompt is only
// meaningful alongside it, except for PromptAwaitingTopic, which can stand
// alone.
type Session struct {
	ID         string    `json:"id"`
	LastTopic  string    `json:"last_topic,omitempty"`
	LastPrompt PromptKey `json:"last_prompt_key,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// New returns a fresh session for the given identifier, applying DefaultID
// when it is empty.
func New(id string) Session {
	if id == "" {
		id = DefaultID
	}
	return Session{ID: id}
}

// #endregion
