package replay

import (
	"encoding/json"
	"fmt"
	"os"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: a recorded
// conversation plus the rule and reply kind each turn is expected to hit.
type Fixture struct {
	Description  string           `json:"description"`
	Interactions []Interaction    `json:"interactions"`
	Expected     []ExpectedResult `json:"expected_results"`
}

// Interaction is a single recorded turn for replay.
type Interaction struct {
	TurnID    string `json:"turn_id"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ExpectedResult captures the expected cascade outcome per turn.
type ExpectedResult struct {
	TurnID    string `json:"turn_id"`
	Rule      string `json:"rule"`
	ReplyKind string `json:"reply_kind"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// SaveFixture writes a fixture as indented JSON.
func SaveFixture(path string, f *Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// #endregion fixture-loader
