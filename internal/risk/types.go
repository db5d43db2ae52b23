package risk

// #region tier

// Tier is the heuristic crisis-severity classification of a single message.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// #endregion

// #region lexicon

// Lexicon holds the ordered distress-term lists. High-risk terms are
// evaluated before medium-risk terms; any high match wins.
type Lexicon struct {
	HighRisk   []string `json:"high_risk"`
	MediumRisk []string `json:"medium_risk"`
}

// #endregion
