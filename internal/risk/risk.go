// Package risk classifies raw message text into a crisis-severity tier.
//
// Keyword matching is deliberate: the safety gate must stay deterministic
// and auditable, so no model call happens here.
package risk

// #region imports
import (
	"encoding/json"
	"log"
	"os"
	"regexp"
	"strings"
)

// #endregion

// #region builtin-lexicon

// builtinHighRisk and builtinMediumRisk are the in-code fallback lists,
// used whenever the external lexicon file is missing or unparseable.
var builtinHighRisk = []string{
	"kill myself", "suicide", "suicidal", "end my life", "want to die",
	"better off dead", "no reason to live", "cut myself", "hurt myself",
	"self-harm", "self harm", "overdose", "end it all",
}

var builtinMediumRisk = []string{
	"hopeless", "worthless", "can't go on", "cant go on", "give up",
	"no point", "panic attack", "can't cope", "cant cope", "breaking down",
	"so alone", "nobody cares",
}

// BuiltinLexicon returns the in-code fallback term lists.
func BuiltinLexicon() Lexicon {
	return Lexicon{
		HighRisk:   builtinHighRisk,
		MediumRisk: builtinMediumRisk,
	}
}

// #endregion

// #region classifier

// Classifier matches whole words and phrases against the high- and
// medium-risk lists. It is stateless and safe for concurrent use.
type Classifier struct {
	high   []*regexp.Regexp
	medium []*regexp.Regexp
}

// NewClassifier builds a classifier from the given lexicon. Terms that do
// not compile to a valid pattern are skipped rather than failing the whole
// classifier.
func NewClassifier(lex Lexicon) *Classifier {
	return &Classifier{
		high:   compileTerms(lex.HighRisk),
		medium: compileTerms(lex.MediumRisk),
	}
}

// FromFile loads the lexicon from a JSON file and builds a classifier.
// Load failures degrade to the built-in lexicon; this constructor never
// returns an error.
func FromFile(path string) *Classifier {
	lex, err := LoadLexicon(path)
	if err != nil {
		log.Printf("[RISK] lexicon load failed (%v), using built-in lists", err)
		return NewClassifier(BuiltinLexicon())
	}
	return NewClassifier(lex)
}

// #endregion

// #region classify

// Classify returns the severity tier for a message. The high-risk list is
// evaluated first and any match short-circuits to TierHigh.
func (c *Classifier) Classify(text string) Tier {
	lower := strings.ToLower(text)
	for _, re := range c.high {
		if re.MatchString(lower) {
			return TierHigh
		}
	}
	for _, re := range c.medium {
		if re.MatchString(lower) {
			return TierMedium
		}
	}
	return TierLow
}

// #endregion

// #region loader

// LoadLexicon reads high/medium term lists from a JSON file. A file that
// parses but carries no high-risk terms is treated as a load failure so
// that callers fall back to the built-in lists.
func LoadLexicon(path string) (Lexicon, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, err
	}
	var lex Lexicon
	if err := json.Unmarshal(raw, &lex); err != nil {
		return Lexicon{}, err
	}
	if len(lex.HighRisk) == 0 {
		return Lexicon{}, errEmptyLexicon
	}
	return lex, nil
}

var errEmptyLexicon = errEmpty{}

type errEmpty struct{}

func (errEmpty) Error() string { return "lexicon has no high-risk terms" }

// #endregion

// #region helpers

// compileTerms turns each term into a word-boundary pattern so that
// "cut myself" matches inside a sentence but "cut" never matches inside
// "cutting".
func compileTerms(terms []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(term) + `\b`)
		if err != nil {
			log.Printf("[RISK] skipping unmatchable term %q: %v", term, err)
			continue
		}
		patterns = append(patterns, re)
	}
	return patterns
}

// #endregion
