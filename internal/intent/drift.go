package intent

// #region imports
import (
	"context"
	"strings"
)

// #endregion

// #region drift-detector

// DriftDetector refines a classified intent by comparing the coarse topic
// of the new message against the stored last topic. A clear subject pivot
// overrides a stale affirmation/deny interpretation.
type DriftDetector struct {
	zs        ZeroShot // nil = refinement disabled
	topics    []string
	threshold float64
}

// NewDriftDetector creates a drift detector over the given topic
// vocabulary. An empty vocabulary falls back to DefaultTopics.
func NewDriftDetector(zs ZeroShot, topics []string, threshold float64) *DriftDetector {
	if len(topics) == 0 {
		topics = DefaultTopics
	}
	if threshold <= 0 {
		threshold = DefaultDriftThreshold
	}
	return &DriftDetector{zs: zs, topics: topics, threshold: threshold}
}

// #endregion

// #region refine

// Refine returns the effective intent for the turn.
//
// Two overrides apply, in order:
//  1. A long message classified as affirmation is demoted to new_topic;
//     only a short bare "yes" is a reliable affirmation signal. The same
//     happens when the message itself classifies to a topic.
//  2. When both the message and lastTopic classify to different topics,
//     the intent is forced to new_topic regardless of what the intent
//     classifier returned.
func (d *DriftDetector) Refine(ctx context.Context, in Intent, message, lastTopic string) Intent {
	if d.zs == nil {
		return in
	}

	msgTopic, msgOK := d.topicOf(ctx, message)

	if in == IntentAffirmation {
		if len(strings.Fields(message)) > 3 || msgOK {
			in = IntentNewTopic
		}
	}

	if lastTopic == "" || !msgOK {
		return in
	}
	lastTopicLabel, lastOK := d.topicOf(ctx, lastTopic)
	if lastOK && lastTopicLabel != msgTopic {
		return IntentNewTopic
	}
	return in
}

// topicOf classifies text into the topic vocabulary. ok is false on
// backend error or low confidence.
func (d *DriftDetector) topicOf(ctx context.Context, text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	label, confidence, err := d.zs.Classify(ctx, text, d.topics)
	if err != nil || confidence < d.threshold {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(label)), true
}

// #endregion
