package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nischint/nischint/internal/domain"
)

// demographic profile keys stripped before summarization; the persona
// prompt works from behavioral answers only.
var demographicKeys = map[string]bool{
	"name":   true,
	"age":    true,
	"gender": true,
}

// Summarize turns an accumulated profile into a markdown persona text.
// It implements assessment.Summarizer. Callers substitute the fixed
// fallback text on error; this method does not.
func (s *Service) Summarize(ctx context.Context, profile domain.Profile) (string, error) {
	answers := domain.Profile{}
	for k, v := range profile {
		if demographicKeys[k] {
			continue
		}
		answers[k] = v
	}

	encoded, err := json.MarshalIndent(answers, "", "  ")
	if err != nil {
		return "", fmt.Errorf("gemini.Summarize: marshal profile: %w", err)
	}

	prompt := "You are an expert financial analyst named 'Nischint'. Your tone is encouraging, insightful, and professional. " +
		"Summarize the following user's financial answers into a 'financial vibe' persona.\n\n" +
		"Follow these rules STRICTLY:\n" +
		"1.  **Format your entire response in Markdown.**\n" +
		"2.  Start with a title for the persona using a level 3 heading (e.g., `### The Cautious Cultivator`).\n" +
		"3.  Write a single paragraph (3-4 sentences) describing their likely behaviors and mindset.\n" +
		"4.  Add a bulleted list with two items: one highlighting a key **Strength** and one suggesting a potential **Area for Growth**.\n" +
		"5.  Do NOT mention the input was JSON or refer to \"your answers\". Speak about the person directly.\n\n" +
		"User's Financial Answers:\n" + string(encoded) + "\n"

	text, err := s.generateText(ctx, prompt, nil)
	if err != nil {
		return "", fmt.Errorf("gemini.Summarize: %w", err)
	}
	return text, nil
}
