// Package gemini implements the generative-AI collaborators: adaptive
// question generation, profile summarization, and the coach chat. All
// of them speak to Gemini through a shared client and treat the model's
// output as untrusted text that must be cleaned and decoded defensively.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used for all collaborators.
const DefaultModel = "gemini-2.5-flash"

// Service wraps a genai client. The API key is picked up by the SDK
// from the environment (GEMINI_API_KEY); the service itself performs no
// configuration lookups.
type Service struct {
	client *genai.Client
	model  string
}

// NewService creates a Gemini-backed service.
func NewService(ctx context.Context) (*Service, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini.NewService: create genai client: %w", err)
	}
	return &Service{client: client, model: DefaultModel}, nil
}

// NewServiceWithModel creates a service pinned to a specific model.
func NewServiceWithModel(ctx context.Context, model string) (*Service, error) {
	s, err := NewService(ctx)
	if err != nil {
		return nil, err
	}
	s.model = model
	return s, nil
}

// generateText sends a single user prompt and returns the raw text of
// the response.
func (s *Service) generateText(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

// cleanModelJSON strips markdown fences and surrounding junk the model
// sometimes emits despite being told not to. open and close are the
// expected outer JSON delimiters ("{"/"}" or "["/"]").
func cleanModelJSON(raw, open, close string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// Keep only from the first opening delimiter to the last closing one.
	if start := strings.Index(s, open); start != -1 {
		if end := strings.LastIndex(s, close); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
