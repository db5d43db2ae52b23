package counsel

// #region record

// Record is the safe public field subset of a counsellor entry. Anything
// outside these fields never leaves the directory.
type Record struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Specialization  string   `json:"specialization"`
	Affiliation     string   `json:"affiliation"`
	Fee             float64  `json:"fee"`
	ExperienceYears int      `json:"experience_years"`
	RankingScore    float64  `json:"ranking_score"`
	Languages       []string `json:"languages"`
	Bio             string   `json:"bio"`
}

// #endregion

// #region criteria

// Criteria narrows a ranked directory fetch. Zero values mean "any".
type Criteria struct {
	Specialization string
	Language       string
	Limit          int
}

// #endregion

// #region payload

// PayloadKind is the discriminator carried on every escalation payload.
const PayloadKind = "counsellor_suggestion"

// EscalationPayload is the structured counsellor-referral response that
// replaces a normal conversational reply on a high-risk turn.
type EscalationPayload struct {
	Kind        string   `json:"kind"`
	Message     string   `json:"message"`
	Counsellors []Record `json:"counsellors"`
}

// #endregion
