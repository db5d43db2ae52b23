package counsel

// #region message

// EscalationMessage is the fixed, non-clinical preface on every payload.
const EscalationMessage = "It sounds like you're going through a really hard time. " +
	"You don't have to face this alone. Here are counsellors who can help, " +
	"and if you are in immediate danger please contact local emergency services right away."

// #endregion

// #region builder

// BuildEscalation assembles a counsellor-suggestion payload from ranked
// candidates. It copies only the safe public fields and preserves upstream
// ordering. An empty candidate list yields no payload; the caller decides
// the textual fallback.
func BuildEscalation(candidates []Record) (*EscalationPayload, bool) {
	if len(candidates) == 0 {
		return nil, false
	}

	counsellors := make([]Record, 0, len(candidates))
	for _, c := range candidates {
		counsellors = append(counsellors, Record{
			ID:              c.ID,
			Name:            c.Name,
			Specialization:  c.Specialization,
			Affiliation:     c.Affiliation,
			Fee:             c.Fee,
			ExperienceYears: c.ExperienceYears,
			RankingScore:    c.RankingScore,
			Languages:       append([]string(nil), c.Languages...),
			Bio:             c.Bio,
		})
	}

	return &EscalationPayload{
		Kind:        PayloadKind,
		Message:     EscalationMessage,
		Counsellors: counsellors,
	}, true
}

// #endregion
