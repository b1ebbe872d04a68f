package categorize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini implements the Categorizer interface using a Gemini text model
type Gemini struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	labels  []string
	timeout time.Duration
}

// NewGemini creates a Categorizer that picks one of labels
func NewGemini(apiKey string, modelName string, labels []string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("at least one category label is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)

	return &Gemini{
		client:  client,
		model:   model,
		labels:  labels,
		timeout: 15 * time.Second,
	}, nil
}

// Predict asks the model for a label and checks that it is one of ours
func (g *Gemini) Predict(ctx context.Context, description string, amount float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.model.GenerateContent(ctx, genai.Text(buildPrompt(description, amount, g.labels)))
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from gemini")
	}

	var reply strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			reply.WriteString(string(text))
		}
	}

	return matchLabel(reply.String(), g.labels)
}

// Close closes the Gemini client
func (g *Gemini) Close() error {
	return g.client.Close()
}

func buildPrompt(description string, amount float64, labels []string) string {
	return fmt.Sprintf(`Classify this receipt into exactly one expense category.

Categories: %s

Receipt text:
%s

Amount: %.2f

Reply with the category name only.`, strings.Join(labels, ", "), description, amount)
}

// matchLabel maps a model reply onto one of labels, ignoring case and punctuation around it
func matchLabel(reply string, labels []string) (string, error) {
	reply = strings.Trim(strings.TrimSpace(reply), "\"'`.*")
	for _, label := range labels {
		if strings.EqualFold(reply, label) {
			return label, nil
		}
	}
	return "", fmt.Errorf("%w: unknown label %q", ErrNoMatch, reply)
}
