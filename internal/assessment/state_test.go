package assessment

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nischint/nischint/internal/domain"
)

// makeBatch builds a batch of n questions with predictable IDs.
func makeBatch(batchNum, n int) []domain.Question {
	qs := make([]domain.Question, n)
	for i := range qs {
		qs[i] = domain.Question{
			ID:       fmt.Sprintf("b%d_q%d", batchNum, i),
			Text:     fmt.Sprintf("question %d of batch %d", i, batchNum),
			Category: fmt.Sprintf("cat_b%d_q%d", batchNum, i),
			Options: []domain.Option{
				{ID: "a", Text: "A", Value: "value_a"},
				{ID: "b", Text: "B", Value: "value_b"},
				{ID: "c", Text: "C", Value: "value_c"},
				{ID: "d", Text: "D", Value: "value_d"},
			},
		}
	}
	return qs
}

func TestState_AdvancesWithinBatch(t *testing.T) {
	s := NewState(makeBatch(1, BatchSize))

	for i := 0; i < BatchSize-1; i++ {
		q, ok := s.Current()
		if !ok {
			t.Fatalf("no current question at index %d", i)
		}
		next, err := s.Answer(q.Options[0])
		if err != nil {
			t.Fatalf("Answer failed: %v", err)
		}
		if next.Phase != Presenting {
			t.Fatalf("after answer %d phase = %s, want presenting", i+1, next.Phase)
		}
		if next.Index != i+1 {
			t.Fatalf("after answer %d index = %d, want %d", i+1, next.Index, i+1)
		}
		s = next
	}
}

func TestState_BatchBoundaryEntersLoading(t *testing.T) {
	s := NewState(makeBatch(1, BatchSize))

	s = answerN(t, s, BatchSize)

	if s.Phase != Loading {
		t.Fatalf("phase = %s after %d answers, want loading", s.Phase, BatchSize)
	}
	if s.BatchNumber != 2 {
		t.Errorf("batchNumber = %d, want 2", s.BatchNumber)
	}
	if len(s.Answers) != BatchSize {
		t.Errorf("answers = %d, want %d", len(s.Answers), BatchSize)
	}
}

func TestState_AnswerWhileLoadingRejected(t *testing.T) {
	s := NewState(makeBatch(1, BatchSize))
	s = answerN(t, s, BatchSize)

	_, err := s.Answer(domain.Option{ID: "a", Value: "v"})
	if !errors.Is(err, ErrNotPresenting) {
		t.Errorf("Answer while loading: error = %v, want ErrNotPresenting", err)
	}
}

func TestState_DeliverResumesPresentation(t *testing.T) {
	s := NewState(makeBatch(1, BatchSize))
	s = answerN(t, s, BatchSize)

	s = s.Deliver(makeBatch(2, BatchSize))

	if s.Phase != Presenting {
		t.Fatalf("phase = %s after deliver, want presenting", s.Phase)
	}
	if s.Index != 0 {
		t.Errorf("index = %d after deliver, want 0", s.Index)
	}
	q, ok := s.Current()
	if !ok || q.ID != "b2_q0" {
		t.Errorf("current = %+v, want first question of batch 2", q)
	}
}

func TestState_EmptyBatchCompletesEarly(t *testing.T) {
	s := NewState(makeBatch(1, BatchSize))
	s = answerN(t, s, BatchSize)

	s = s.Deliver(nil)

	if s.Phase != Complete {
		t.Fatalf("phase = %s after empty batch, want complete", s.Phase)
	}
	if len(s.Answers) != BatchSize {
		t.Errorf("answers = %d, want the %d accumulated so far", len(s.Answers), BatchSize)
	}

	_, err := s.Answer(domain.Option{ID: "a"})
	if !errors.Is(err, ErrNotPresenting) {
		t.Errorf("Answer after complete: error = %v, want ErrNotPresenting", err)
	}
}

func TestState_ShortBatchExhaustionEntersLoading(t *testing.T) {
	// A generator may deliver fewer than BatchSize questions. Exhausting
	// such a batch must enter Loading like any batch boundary; the old
	// modulo-only check left the session presenting an index past the
	// end of the batch, rejecting every answer forever.
	s := NewState(makeBatch(1, BatchSize))
	s = answerN(t, s, BatchSize)
	s = s.Deliver(makeBatch(2, BatchSize-1))

	s = answerN(t, s, BatchSize-1)

	if s.Phase != Loading {
		t.Fatalf("phase = %s after exhausting a short batch, want loading", s.Phase)
	}
	if s.BatchNumber != 3 {
		t.Errorf("batchNumber = %d, want 3", s.BatchNumber)
	}
	if len(s.Answers) != 2*BatchSize-1 {
		t.Errorf("answers = %d, want %d", len(s.Answers), 2*BatchSize-1)
	}

	_, err := s.Answer(domain.Option{ID: "a"})
	if !errors.Is(err, ErrNotPresenting) {
		t.Errorf("Answer while loading: error = %v, want ErrNotPresenting", err)
	}
}

func TestState_TwentiethAnswerCompletes(t *testing.T) {
	// Walk all four batches; the 20th answer must complete without
	// entering Loading, regardless of landing on a batch boundary.
	s := NewState(makeBatch(1, BatchSize))
	for batch := 2; batch <= 4; batch++ {
		s = answerN(t, s, BatchSize)
		if s.Phase != Loading {
			t.Fatalf("phase = %s before batch %d, want loading", s.Phase, batch)
		}
		s = s.Deliver(makeBatch(batch, BatchSize))
	}

	s = answerN(t, s, BatchSize)

	if s.Phase != Complete {
		t.Fatalf("phase = %s after %d answers, want complete", s.Phase, TotalQuestions)
	}
	if s.BatchNumber != 4 {
		t.Errorf("batchNumber = %d, want 4 (no fifth fetch)", s.BatchNumber)
	}
	if len(s.Answers) != TotalQuestions {
		t.Errorf("answers = %d, want %d", len(s.Answers), TotalQuestions)
	}
}

func TestState_AnswersPreserveAskedOrder(t *testing.T) {
	s := NewState(makeBatch(1, BatchSize))
	s = answerN(t, s, BatchSize)
	s = s.Deliver(makeBatch(2, BatchSize))
	s = answerN(t, s, 2)

	want := []string{"b1_q0", "b1_q1", "b1_q2", "b1_q3", "b1_q4", "b2_q0", "b2_q1"}
	if len(s.Answers) != len(want) {
		t.Fatalf("answers = %d, want %d", len(s.Answers), len(want))
	}
	for i, a := range s.Answers {
		if a.QuestionID != want[i] {
			t.Errorf("answer %d question = %s, want %s", i, a.QuestionID, want[i])
		}
	}
}

func TestState_ProfileLastWriteWins(t *testing.T) {
	// Two questions sharing a category: the later answer overwrites.
	batch := makeBatch(1, BatchSize)
	batch[1].Category = batch[0].Category

	s := NewState(batch)
	q, _ := s.Current()
	s, _ = s.Answer(q.Options[0]) // value_a
	q, _ = s.Current()
	s, _ = s.Answer(q.Options[1]) // value_b, same category

	if got := s.Profile[batch[0].Category]; got != "value_b" {
		t.Errorf("profile[%s] = %s, want value_b", batch[0].Category, got)
	}
	if len(s.Answers) != 2 {
		t.Errorf("answers = %d, want 2 (no deduplication)", len(s.Answers))
	}
}

func TestState_TransitionsDoNotMutateOriginal(t *testing.T) {
	s := NewState(makeBatch(1, BatchSize))
	q, _ := s.Current()

	next, err := s.Answer(q.Options[0])
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	if len(s.Answers) != 0 || len(s.Profile) != 0 {
		t.Errorf("original state mutated: %d answers, %d profile keys", len(s.Answers), len(s.Profile))
	}
	if len(next.Answers) != 1 {
		t.Errorf("next state answers = %d, want 1", len(next.Answers))
	}
}

// answerN answers the current question n times with the first option.
func answerN(t *testing.T, s State, n int) State {
	t.Helper()
	for i := 0; i < n; i++ {
		q, ok := s.Current()
		if !ok {
			t.Fatalf("no current question after %d answers (phase %s)", len(s.Answers), s.Phase)
		}
		next, err := s.Answer(q.Options[i%len(q.Options)])
		if err != nil {
			t.Fatalf("Answer failed: %v", err)
		}
		s = next
	}
	return s
}
