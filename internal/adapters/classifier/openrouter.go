package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/revrost/go-openrouter"
)

const systemPromptFormat = "You match chat questions to one of these known labels: %s. " +
	"Respond with only a JSON object of the form " +
	`{"label": "<label>", "confidence": <number between 0 and 1>}.`

// OpenRouter predicts a label for free-form chat text via a chat completion.
type OpenRouter struct {
	client *openrouter.Client
	model  string
	labels []string
}

func NewOpenRouter(apiKey, model string, labels []string) *OpenRouter {
	return &OpenRouter{
		model:  model,
		labels: labels,
		client: openrouter.NewClient(
			apiKey,
			openrouter.WithXTitle("glumbot"),
		),
	}
}

func (c *OpenRouter) Predict(ctx context.Context, text string) (string, float64, error) {
	ccr := openrouter.ChatCompletionRequest{
		Model: c.model,
		Messages: []openrouter.ChatCompletionMessage{
			{
				Role: openrouter.ChatMessageRoleSystem,
				Content: openrouter.Content{
					Text: fmt.Sprintf(systemPromptFormat, strings.Join(c.labels, ", ")),
				},
			},
			{
				Role: openrouter.ChatMessageRoleUser,
				Content: openrouter.Content{
					Text: text,
				},
			},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, ccr)
	if err != nil {
		return "", 0, fmt.Errorf("openrouter API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", 0, errors.New("no choices in openrouter response")
	}

	return parsePrediction(resp.Choices[0].Message.Content.Text)
}

func parsePrediction(raw string) (string, float64, error) {
	// Models occasionally wrap the object in fences or prose.
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return "", 0, fmt.Errorf("no prediction object in %q", raw)
	}

	var result struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &result); err != nil {
		return "", 0, fmt.Errorf("could not parse prediction %q: %w", raw, err)
	}

	if result.Label == "" {
		return "", 0, errors.New("empty prediction label")
	}

	return result.Label, result.Confidence, nil
}
