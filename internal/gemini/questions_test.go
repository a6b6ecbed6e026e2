package gemini

import (
	"fmt"
	"strings"
	"testing"

	"github.com/nischint/nischint/internal/assessment"
	"github.com/nischint/nischint/internal/domain"
)

// modelQuestionJSON renders one well-formed question as the model would
// emit it.
func modelQuestionJSON(i int) string {
	return fmt.Sprintf(`{
      "id": "q%d",
      "text": "Question %d?",
      "category": "cat_%d",
      "options": [
        {"id": "a", "text": "A", "value": "va"},
        {"id": "b", "text": "B", "value": "vb"},
        {"id": "c", "text": "C", "value": "vc"},
        {"id": "d", "text": "D", "value": "vd"}
      ]
    }`, i, i, i)
}

func modelBatchJSON(n int) string {
	qs := make([]string, n)
	for i := range qs {
		qs[i] = modelQuestionJSON(i + 1)
	}
	return `{"questions": [` + strings.Join(qs, ",") + `]}`
}

func TestDecodeQuestions(t *testing.T) {
	got := decodeQuestions(modelBatchJSON(assessment.BatchSize))
	if len(got) != assessment.BatchSize {
		t.Fatalf("decoded %d questions, want %d", len(got), assessment.BatchSize)
	}
	q := got[0]
	if q.ID != "q1" || q.Category != "cat_1" {
		t.Errorf("question = %+v", q)
	}
	if len(q.Options) != 4 {
		t.Fatalf("options = %d, want 4", len(q.Options))
	}
	if q.Options[2].Value != "vc" {
		t.Errorf("option value = %s, want vc", q.Options[2].Value)
	}
}

func TestDecodeQuestions_StripsMarkdownFences(t *testing.T) {
	fenced := "```json\n" + modelBatchJSON(assessment.BatchSize) + "\n```"
	got := decodeQuestions(fenced)
	if len(got) != assessment.BatchSize {
		t.Fatalf("decoded %d questions from fenced output, want %d", len(got), assessment.BatchSize)
	}
}

func TestDecodeQuestions_PatchesMissingIDs(t *testing.T) {
	bare := `{"text": "Q?", "options": [
		{"text": "A", "value": "va"},
		{"text": "B", "value": "vb"}
	]}`
	qs := make([]string, assessment.BatchSize)
	for i := range qs {
		qs[i] = bare
	}
	raw := `{"questions": [` + strings.Join(qs, ",") + `]}`

	got := decodeQuestions(raw)
	if len(got) != assessment.BatchSize {
		t.Fatalf("decoded %d questions, want %d", len(got), assessment.BatchSize)
	}
	if got[0].ID == "" {
		t.Error("expected a synthesized question ID")
	}
	if got[0].ID == got[1].ID {
		t.Errorf("synthesized IDs collide: %s", got[0].ID)
	}
	if got[0].Category != "general" {
		t.Errorf("category = %s, want general", got[0].Category)
	}
	if got[0].Options[0].ID != "a" || got[0].Options[1].ID != "b" {
		t.Errorf("option IDs = %s, %s; want a, b", got[0].Options[0].ID, got[0].Options[1].ID)
	}
}

func TestDecodeQuestions_MalformedYieldsEmpty(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "sorry, I cannot help with that"},
		{"wrong shape", `{"items": []}`},
		{"empty object", `{}`},
		{"question without options", `{"questions": [{"id": "x", "text": "Q?"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeQuestions(tt.raw); len(got) != 0 {
				t.Errorf("decoded %d questions from %s, want 0", len(got), tt.name)
			}
		})
	}
}

func TestDecodeQuestions_ShortBatchDiscarded(t *testing.T) {
	// A batch with fewer usable questions than the quiz expects must be
	// discarded whole so the flow completes instead of stranding the
	// user mid-batch.
	if got := decodeQuestions(modelBatchJSON(assessment.BatchSize - 1)); len(got) != 0 {
		t.Errorf("decoded %d questions from a short batch, want 0", len(got))
	}

	// Same rule when the model emitted five but one is unusable.
	qs := make([]string, assessment.BatchSize)
	for i := range qs {
		qs[i] = modelQuestionJSON(i + 1)
	}
	qs[2] = `{"id": "q3", "text": "Q?"}`
	raw := `{"questions": [` + strings.Join(qs, ",") + `]}`
	if got := decodeQuestions(raw); len(got) != 0 {
		t.Errorf("decoded %d questions from a batch with a dropped question, want 0", len(got))
	}
}

func TestDecodeQuestions_OversizedBatchTruncated(t *testing.T) {
	got := decodeQuestions(modelBatchJSON(assessment.BatchSize + 2))
	if len(got) != assessment.BatchSize {
		t.Fatalf("decoded %d questions from an oversized batch, want %d", len(got), assessment.BatchSize)
	}
}

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"leading prose", "Here you go: {\"a\": 1} hope that helps", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelJSON(tt.raw, "{", "}"); got != tt.want {
				t.Errorf("cleanModelJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildQuestionPrompt(t *testing.T) {
	answers := []domain.Answer{
		{QuestionText: "First question?", OptionText: "First answer."},
		{QuestionText: "Second question?", OptionText: "Second answer."},
	}

	prompt, err := buildQuestionPrompt(answers, domain.UserContext{Age: 24, Gender: "male"}, 2)
	if err != nil {
		t.Fatalf("buildQuestionPrompt failed: %v", err)
	}

	for _, want := range []string{"Age: 24", "Current Batch: 2", "First question?", "Second answer.", "EXACTLY 5 questions"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	// History must keep asked order.
	if strings.Index(prompt, "First question?") > strings.Index(prompt, "Second question?") {
		t.Error("answer history is out of order in the prompt")
	}
}
