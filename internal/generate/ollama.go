package generate

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// #endregion

// #region client

// OllamaClient talks to a local Ollama server. It serves both capabilities
// the router needs: free-text generation and zero-shot label picking.
type OllamaClient struct {
	client *api.Client
	model  string
}

// NewOllamaClient creates a client for the given base URL (e.g.
// "http://localhost:11434") and model tag.
func NewOllamaClient(baseURL, model string) (*OllamaClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse ollama url %s: %w", baseURL, err)
	}
	return &OllamaClient{
		client: api.NewClient(u, http.DefaultClient),
		model:  model,
	}, nil
}

// #endregion

// #region generate

// Generate implements Generator. The response is requested unstreamed and
// capped at maxTokens via num_predict.
func (c *OllamaClient) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: &stream,
		Options: map[string]any{
			"num_predict": maxTokens,
		},
	}

	var sb strings.Builder
	err := c.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	return sb.String(), nil
}

// #endregion

// #region classify

// classifyBudget caps the label-picking call; the answer is a short JSON
// object, never prose.
const classifyBudget = 40

type labelAnswer struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classify implements the zero-shot classification capability by asking
// the model to pick one label from the set and report its confidence.
func (c *OllamaClient) Classify(ctx context.Context, text string, labels []string) (string, float64, error) {
	prompt := fmt.Sprintf(
		"Classify the following message into exactly one of these labels: %s.\n"+
			"Message: %s\n"+
			`Answer with only a JSON object like {"label": "...", "confidence": 0.0} and nothing else.`,
		strings.Join(labels, ", "), text,
	)

	raw, err := c.Generate(ctx, prompt, classifyBudget)
	if err != nil {
		return "", 0, err
	}

	ans, err := parseLabelAnswer(raw, labels)
	if err != nil {
		return "", 0, fmt.Errorf("ollama classify: %w", err)
	}
	return ans.Label, ans.Confidence, nil
}

// parseLabelAnswer extracts the JSON answer from model output, tolerating
// leading/trailing prose, and validates the label against the set.
func parseLabelAnswer(raw string, labels []string) (labelAnswer, error) {
	var ans labelAnswer

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(raw[start:end+1]), &ans); err == nil {
			ans.Label = strings.ToLower(strings.TrimSpace(ans.Label))
			for _, l := range labels {
				if ans.Label == strings.ToLower(l) {
					return ans, nil
				}
			}
		}
	}

	// Degenerate answer: a bare label with no JSON wrapper.
	lower := strings.ToLower(strings.TrimSpace(raw))
	for _, l := range labels {
		if strings.HasPrefix(lower, strings.ToLower(l)) {
			return labelAnswer{Label: strings.ToLower(l), Confidence: 1.0}, nil
		}
	}

	return labelAnswer{}, fmt.Errorf("unrecognized label answer %q", raw)
}

// #endregion
