package assessment

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/nischint/nischint/internal/domain"
)

// QuestionSource generates the next batch of questions from the entire
// ordered answer history, the user's static context, and the batch
// number being requested. An empty batch means "no more meaningful
// questions" and ends the quiz; implementations should prefer an empty
// batch over an error when the upstream service misbehaves.
type QuestionSource interface {
	NextBatch(ctx context.Context, answers []domain.Answer, user domain.UserContext, batchNumber int) ([]domain.Question, error)
}

// Summarizer turns an accumulated profile into a short descriptive
// persona text.
type Summarizer interface {
	Summarize(ctx context.Context, profile domain.Profile) (string, error)
}

// FallbackSummary is substituted whenever the summarizer fails. The
// quiz must always end with a completed profile, never an error screen.
const FallbackSummary = `### The Resilient Planner

Based on your responses, you appear to be someone who is thoughtful about your financial future. You show a tendency to balance immediate needs with long-term goals, which is a fantastic foundation.

*   **Strength:** You are likely good at considering different options before making a financial decision.
*   **Area for Growth:** Continue building on this by creating a more structured plan to turn your goals into actionable steps.

To get a more detailed AI-powered analysis, please ensure your connection is stable and try again.`

// Flow drives one quiz session: it owns the current State and couples
// it to the injected collaborators. Collaborator failures are swallowed
// at this boundary and converted to the nearest benign outcome: an
// empty batch completes the quiz, a failed summary becomes the fallback
// text. A Flow is single-session and not safe for concurrent use;
// each session is independent and needs no locking.
type Flow struct {
	state  State
	source QuestionSource
	user   domain.UserContext
	log    zerolog.Logger
}

// NewFlow starts a session on the seed batch.
func NewFlow(source QuestionSource, user domain.UserContext, log zerolog.Logger) *Flow {
	return &Flow{
		state:  NewState(SeedQuestions()),
		source: source,
		user:   user,
		log:    log,
	}
}

// State returns the current session state.
func (f *Flow) State() State {
	return f.state
}

// Current returns the question being presented, if any.
func (f *Flow) Current() (domain.Question, bool) {
	return f.state.Current()
}

// Done reports whether the session has completed.
func (f *Flow) Done() bool {
	return f.state.Phase == Complete
}

// Answer records a choice for the current question. When the answer
// closes a batch, the next batch is fetched before Answer returns, so
// the session is never left in Loading between calls. A generator
// error or malformed response ends the quiz with the profile gathered
// so far.
func (f *Flow) Answer(ctx context.Context, option domain.Option) error {
	next, err := f.state.Answer(option)
	if err != nil {
		return err
	}
	f.state = next

	if f.state.Phase != Loading {
		return nil
	}

	batch, err := f.source.NextBatch(ctx, f.state.Answers, f.user, f.state.BatchNumber)
	if err != nil {
		f.log.Warn().Err(err).
			Int("batch_number", f.state.BatchNumber).
			Int("answers", len(f.state.Answers)).
			Msg("Question generation failed, completing quiz early")
		batch = nil
	}

	f.state = f.state.Deliver(batch)
	return nil
}

// Profile returns the accumulated profile. Callers normally read it
// after Done reports true, but a partial profile is valid too.
func (f *Flow) Profile() domain.Profile {
	return f.state.Profile
}

// Answers returns the answers recorded so far, in asked order.
func (f *Flow) Answers() []domain.Answer {
	return f.state.Answers
}

// Summarize produces the persona text for the accumulated profile,
// substituting FallbackSummary if the collaborator fails or returns
// nothing. Completion never blocks on summarizer availability.
func Summarize(ctx context.Context, s Summarizer, profile domain.Profile, log zerolog.Logger) string {
	text, err := s.Summarize(ctx, profile)
	if err != nil || text == "" {
		log.Warn().Err(err).Msg("Profile summarization failed, using fallback summary")
		return FallbackSummary
	}
	return text
}
