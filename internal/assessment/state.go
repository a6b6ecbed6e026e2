// Package assessment implements the adaptive questionnaire that builds
// a user's financial personality profile. The quiz runs in batches of
// five questions; after each batch the full answer history is sent to a
// question generator that produces the next batch, until twenty answers
// have been recorded or the generator runs out of questions.
package assessment

import (
	"errors"

	"github.com/nischint/nischint/internal/domain"
)

const (
	// TotalQuestions is the number of answers after which the flow
	// completes regardless of batch alignment.
	TotalQuestions = 20

	// BatchSize is the number of questions per generated batch. Batch
	// completion is detected as "answers so far is a multiple of 5".
	BatchSize = 5
)

// Phase is the current mode of a quiz session. Modeling it as a tagged
// state makes illegal combinations (answering while a fetch is in
// flight) unrepresentable.
type Phase int

const (
	// Presenting means a question is on screen awaiting an answer.
	Presenting Phase = iota
	// Loading means the next batch has been requested and input is
	// rejected until it arrives.
	Loading
	// Complete is terminal; the profile is finalized.
	Complete
)

func (p Phase) String() string {
	switch p {
	case Presenting:
		return "presenting"
	case Loading:
		return "loading"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// ErrNotPresenting is returned when an answer arrives while the session
// is loading the next batch or already complete.
var ErrNotPresenting = errors.New("assessment: no question is being presented")

// State is an immutable snapshot of one quiz session. Transitions
// return a new State and never mutate the receiver, so every transition
// can be unit tested in isolation.
type State struct {
	Phase       Phase
	Batch       []domain.Question
	Index       int
	BatchNumber int
	Answers     []domain.Answer
	Profile     domain.Profile
}

// NewState starts a session presenting the given seed batch. The seed
// batch is supplied synchronously at flow start, not fetched.
func NewState(seed []domain.Question) State {
	return State{
		Phase:       Presenting,
		Batch:       seed,
		Index:       0,
		BatchNumber: 1,
		Profile:     domain.Profile{},
	}
}

// Current returns the question being presented, if any.
func (s State) Current() (domain.Question, bool) {
	if s.Phase != Presenting || s.Index >= len(s.Batch) {
		return domain.Question{}, false
	}
	return s.Batch[s.Index], true
}

// Answer records the user's choice for the current question and
// advances the session:
//
//   - mid-batch: the index moves to the next question;
//   - on a batch boundary (answers so far a multiple of BatchSize, or
//     the current batch is exhausted): the phase flips to Loading and
//     BatchNumber is incremented; the caller must fetch the next batch
//     and Deliver it;
//   - on the TotalQuestions-th answer: the phase becomes Complete.
//
// Batch exhaustion is a boundary in its own right so that a generator
// returning a short batch can never leave the session presenting an
// index past the end of the batch.
//
// Answers while Loading or Complete are rejected with ErrNotPresenting.
func (s State) Answer(option domain.Option) (State, error) {
	q, ok := s.Current()
	if !ok {
		return s, ErrNotPresenting
	}

	next := s.clone()
	next.Answers = append(next.Answers, domain.Answer{
		QuestionID:       q.ID,
		QuestionText:     q.Text,
		QuestionCategory: q.Category,
		OptionID:         option.ID,
		OptionText:       option.Text,
		OptionValue:      option.Value,
	})
	next.Profile[q.Category] = option.Value

	answered := len(next.Answers)
	switch {
	case answered >= TotalQuestions:
		next.Phase = Complete
	case answered%BatchSize == 0 || next.Index+1 >= len(next.Batch):
		next.Phase = Loading
		next.BatchNumber++
	default:
		next.Index++
	}

	return next, nil
}

// Deliver hands the session the batch fetched while Loading. A
// non-empty batch resumes presentation from its first question; an
// empty batch means the generator has no more meaningful questions and
// the session completes early with whatever profile has accumulated.
func (s State) Deliver(batch []domain.Question) State {
	if s.Phase != Loading {
		return s
	}

	next := s.clone()
	if len(batch) == 0 {
		next.Phase = Complete
		return next
	}

	next.Phase = Presenting
	next.Batch = batch
	next.Index = 0
	return next
}

// clone copies the mutable parts so transitions stay value-semantic.
func (s State) clone() State {
	next := s
	next.Answers = append([]domain.Answer(nil), s.Answers...)
	next.Profile = domain.Profile{}
	for k, v := range s.Profile {
		next.Profile[k] = v
	}
	return next
}
