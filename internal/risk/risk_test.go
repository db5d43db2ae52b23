package risk

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(BuiltinLexicon())

	tests := []struct {
		name string
		text string
		want Tier
	}{
		{"high-kill-myself", "I want to kill myself", TierHigh},
		{"high-cut-myself", "sometimes I want to cut myself", TierHigh},
		{"high-uppercase", "I WANT TO END MY LIFE", TierHigh},
		{"medium-hopeless", "everything feels hopeless lately", TierMedium},
		{"medium-panic", "I had a panic attack before the exam", TierMedium},
		{"low-benign", "I'm stressed about exams", TierLow},
		{"low-empty", "", TierLow},

		// Word-boundary property: fragments of larger words must not match.
		{"boundary-cutting-onions", "I was cutting onions for dinner", TierLow},
		{"boundary-whole-word-still-matches", "the bridge has suicide barriers", TierHigh},
		{"boundary-no-fragment-match", "that movie was overly dramatic", TierLow},

		// High beats medium when both are present.
		{"high-over-medium", "I feel hopeless and I want to die", TierHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid-file", func(t *testing.T) {
		path := filepath.Join(dir, "terms.json")
		data := `{"high_risk": ["crisis phrase"], "medium_risk": ["rough day"]}`
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatalf("write lexicon: %v", err)
		}

		c := FromFile(path)
		if got := c.Classify("this is a crisis phrase right now"); got != TierHigh {
			t.Errorf("expected high from file lexicon, got %q", got)
		}
		if got := c.Classify("had a rough day"); got != TierMedium {
			t.Errorf("expected medium from file lexicon, got %q", got)
		}
		// Built-in terms are replaced, not merged.
		if got := c.Classify("I want to kill myself"); got != TierLow {
			t.Errorf("expected low for term absent from file lexicon, got %q", got)
		}
	})

	t.Run("missing-file-degrades", func(t *testing.T) {
		c := FromFile(filepath.Join(dir, "does-not-exist.json"))
		if got := c.Classify("I want to kill myself"); got != TierHigh {
			t.Errorf("expected built-in fallback to classify high, got %q", got)
		}
	})

	t.Run("corrupt-file-degrades", func(t *testing.T) {
		path := filepath.Join(dir, "corrupt.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatalf("write corrupt lexicon: %v", err)
		}
		c := FromFile(path)
		if got := c.Classify("no reason to live"); got != TierHigh {
			t.Errorf("expected built-in fallback to classify high, got %q", got)
		}
	})
}
