package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/nischint/nischint/internal/assessment"
	"github.com/nischint/nischint/internal/domain"
)

// NextBatch generates the next batch of assessment questions from the
// full answer history. It implements assessment.QuestionSource.
//
// The response is constrained by a JSON schema, but the output is still
// decoded defensively: a malformed response yields an empty batch (and
// no error), which the flow interprets as natural completion.
func (s *Service) NextBatch(ctx context.Context, answers []domain.Answer, user domain.UserContext, batchNumber int) ([]domain.Question, error) {
	prompt, err := buildQuestionPrompt(answers, user, batchNumber)
	if err != nil {
		return nil, fmt.Errorf("gemini.NextBatch: build prompt: %w", err)
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   questionBatchSchema(),
	}

	raw, err := s.generateText(ctx, prompt, config)
	if err != nil {
		return nil, fmt.Errorf("gemini.NextBatch: %w", err)
	}

	return decodeQuestions(raw), nil
}

func buildQuestionPrompt(answers []domain.Answer, user domain.UserContext, batchNumber int) (string, error) {
	// The generator only needs question/answer text pairs; the rest of
	// the Answer fields are for persistence.
	type pair struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	pairs := make([]pair, 0, len(answers))
	for _, a := range answers {
		pairs = append(pairs, pair{Question: a.QuestionText, Answer: a.OptionText})
	}

	history, err := json.MarshalIndent(pairs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal answer history: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are Nischint, an empathetic financial co-pilot. Your job is to generate the next ")
	fmt.Fprintf(&b, "%d multiple-choice questions for a financial personality assessment.\n\n", assessment.BatchSize)
	b.WriteString("USER CONTEXT:\n")
	fmt.Fprintf(&b, "- Age: %d\n", user.Age)
	fmt.Fprintf(&b, "- Gender: %s\n", user.Gender)
	fmt.Fprintf(&b, "- Current Batch: %d\n\n", batchNumber)
	b.WriteString("PREVIOUS ANSWERS:\n")
	b.Write(history)
	b.WriteString("\n\nRULES:\n")
	fmt.Fprintf(&b, "1. Generate EXACTLY %d questions.\n", assessment.BatchSize)
	b.WriteString("2. Each question must have EXACTLY 4 options.\n")
	b.WriteString("3. Questions should be a logical drill-down based on the PREVIOUS ANSWERS provided.\n")
	b.WriteString("4. Focus on financial behaviors, habits, and psychology, not just numbers or knowledge.\n")
	b.WriteString("5. Make questions specific and situational to reveal personality.\n")
	b.WriteString("6. Use clear, simple, and encouraging language.\n\n")
	b.WriteString("OUTPUT FORMAT (MUST BE A SINGLE, VALID JSON OBJECT):\n")
	b.WriteString("Your entire output must be a single JSON object. Do not include any text or markdown before or after the JSON.\n")

	return b.String(), nil
}

// questionBatchSchema constrains the model output to
// {"questions": [{id, text, category, options: [{id, text, value}]}]}.
func questionBatchSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"questions": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"id":       {Type: genai.TypeString},
						"text":     {Type: genai.TypeString},
						"category": {Type: genai.TypeString},
						"options": {
							Type: genai.TypeArray,
							Items: &genai.Schema{
								Type: genai.TypeObject,
								Properties: map[string]*genai.Schema{
									"id":    {Type: genai.TypeString},
									"text":  {Type: genai.TypeString},
									"value": {Type: genai.TypeString},
								},
								Required: []string{"id", "text", "value"},
							},
						},
					},
					Required: []string{"id", "text", "category", "options"},
				},
			},
		},
		Required: []string{"questions"},
	}
}

// decodeQuestions parses the model output into questions, patching up
// missing IDs and categories. Anything unusable comes back as an empty
// slice; the quiz completes rather than crashing on bad model output.
// A batch with fewer than BatchSize usable questions is also discarded
// whole: the flow only knows how to complete on an empty batch, and a
// partial batch would desynchronize its answer counting.
func decodeQuestions(raw string) []domain.Question {
	clean := cleanModelJSON(raw, "{", "}")

	var payload struct {
		Questions []struct {
			ID       string `json:"id"`
			Text     string `json:"text"`
			Category string `json:"category"`
			Options  []struct {
				ID    string `json:"id"`
				Text  string `json:"text"`
				Value string `json:"value"`
			} `json:"options"`
		} `json:"questions"`
	}

	if err := json.Unmarshal([]byte(clean), &payload); err != nil {
		return nil
	}

	questions := make([]domain.Question, 0, len(payload.Questions))
	for i, q := range payload.Questions {
		if q.Text == "" || len(q.Options) == 0 {
			continue
		}

		question := domain.Question{
			ID:       q.ID,
			Text:     q.Text,
			Category: q.Category,
		}
		if question.ID == "" {
			question.ID = fmt.Sprintf("q_gen_%d", i)
		}
		if question.Category == "" {
			question.Category = "general"
		}

		for j, opt := range q.Options {
			id := opt.ID
			if id == "" {
				// a, b, c, d by position.
				id = string(rune('a' + j))
			}
			question.Options = append(question.Options, domain.Option{
				ID:    id,
				Text:  opt.Text,
				Value: opt.Value,
			})
		}

		questions = append(questions, question)
	}

	if len(questions) < assessment.BatchSize {
		return nil
	}
	return questions[:assessment.BatchSize]
}
