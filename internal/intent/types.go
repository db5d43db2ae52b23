package intent

// #region intent

// Intent is the classified communicative purpose of one message.
type Intent string

const (
	IntentAffirmation Intent = "affirmation"
	IntentDeny        Intent = "deny"
	IntentGratitude   Intent = "gratitude"
	IntentExplainMore Intent = "explain_more"
	IntentNewTopic    Intent = "new_topic"
)

// Labels returns the configurable label set handed to the zero-shot
// backend, in a stable order.
func Labels() []string {
	return []string{
		string(IntentGratitude),
		string(IntentAffirmation),
		string(IntentDeny),
		string(IntentExplainMore),
		string(IntentNewTopic),
	}
}

// #endregion

// #region topics

// DefaultTopics is the coarse topic vocabulary used by the drift detector.
var DefaultTopics = []string{
	"mental_health",
	"study_stress",
	"exam_anxiety",
	"personal_issue",
	"general",
}

// #endregion

// #region thresholds

// Named confidence thresholds. Kept as declared constants so tests can
// exercise the acceptance boundary directly.
const (
	// DefaultThreshold is the minimum zero-shot confidence required to
	// accept the backend's top intent label.
	DefaultThreshold = 0.55

	// DefaultDriftThreshold is the (lower) bar for topic classification
	// used by the drift detector.
	DefaultDriftThreshold = 0.5
)

// #endregion
