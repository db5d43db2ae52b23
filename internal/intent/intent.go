// Package intent maps a user utterance to a conversational intent.
//
// The primary path delegates to a zero-shot classification backend and
// accepts its top label only above a confidence threshold; everything else
// falls back to deterministic keyword rules. Both paths are pure with
// respect to session state.
package intent

// #region imports
import (
	"context"
	"strings"
)

// #endregion

// #region zero-shot

// ZeroShot is the external classification capability: best label from a
// fixed set plus a confidence in [0, 1].
type ZeroShot interface {
	Classify(ctx context.Context, text string, labels []string) (label string, confidence float64, err error)
}

// #endregion

// #region heuristic-phrases

var affirmationPhrases = map[string]bool{
	"yes": true, "y": true, "yeah": true, "yep": true, "ok": true,
	"okay": true, "please": true, "pls": true, "plz": true, "s": true,
	"yes please": true, "yes plz": true, "sure": true,
}

var denyPhrases = map[string]bool{
	"no": true, "n": true, "nope": true, "nah": true,
}

var gratitudeWords = []string{"thanks", "thank you", "thx", "ty"}

// #endregion

// #region classifier

// Classifier resolves an utterance to an intent label.
type Classifier struct {
	zs        ZeroShot // nil = heuristics only
	threshold float64
}

// NewClassifier creates a classifier. zs may be nil, in which case only the
// keyword fallback runs.
func NewClassifier(zs ZeroShot, threshold float64) *Classifier {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Classifier{zs: zs, threshold: threshold}
}

// Classify returns the intent for a message. Backend errors and
// low-confidence results both degrade silently to the heuristic rules.
func (c *Classifier) Classify(ctx context.Context, message string) Intent {
	text := strings.TrimSpace(message)

	if c.zs != nil {
		label, confidence, err := c.zs.Classify(ctx, text, Labels())
		if err == nil && confidence >= c.threshold {
			if in, ok := parseLabel(label); ok {
				return in
			}
		}
	}

	return Heuristic(text)
}

// #endregion

// #region heuristic

// Heuristic is the deterministic fallback path: exact membership for
// yes/no, substring match for gratitude and explain-more, new_topic
// otherwise.
func Heuristic(message string) Intent {
	lower := strings.ToLower(strings.TrimSpace(message))

	if strings.Contains(lower, "explain more") {
		return IntentExplainMore
	}
	if affirmationPhrases[lower] {
		return IntentAffirmation
	}
	if denyPhrases[lower] {
		return IntentDeny
	}
	for _, w := range gratitudeWords {
		if strings.Contains(lower, w) {
			return IntentGratitude
		}
	}
	return IntentNewTopic
}

// #endregion

// #region helpers

// parseLabel normalizes a backend label to a known intent.
func parseLabel(label string) (Intent, bool) {
	lower := strings.ToLower(strings.TrimSpace(label))
	for _, l := range Labels() {
		if lower == l || strings.HasPrefix(lower, l) {
			return Intent(l), true
		}
	}
	return "", false
}

// #endregion
