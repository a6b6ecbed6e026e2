package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	bigquerylib "cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nischint/nischint/internal/api/middleware"
	"github.com/nischint/nischint/internal/assessment"
	"github.com/nischint/nischint/internal/bigquery"
	"github.com/nischint/nischint/internal/domain"
)

// AssessmentHandler drives the adaptive quiz over HTTP: question
// batches, persona summaries, and session persistence.
type AssessmentHandler struct {
	source     assessment.QuestionSource
	summarizer assessment.Summarizer
	repo       bigquery.AssessmentRepository
	log        zerolog.Logger
}

func NewAssessmentHandler(source assessment.QuestionSource, summarizer assessment.Summarizer, repo bigquery.AssessmentRepository, log zerolog.Logger) *AssessmentHandler {
	return &AssessmentHandler{source: source, summarizer: summarizer, repo: repo, log: log}
}

// Questions handles POST /api/assessment/questions. Batch 1 is always
// the fixed seed; later batches go to the generator. An empty batch
// tells the client to finish the quiz early.
func (h *AssessmentHandler) Questions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answers     []domain.Answer    `json:"answers"`
		User        domain.UserContext `json:"user"`
		BatchNumber int                `json:"batch_number"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.BatchNumber <= 1 {
		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"questions":    assessment.SeedQuestions(),
			"batch_number": 1,
		})
		return
	}

	questions, err := h.source.NextBatch(r.Context(), req.Answers, req.User, req.BatchNumber)
	if err != nil {
		// The flow treats generator failure as early completion; serve an
		// empty batch rather than an error.
		h.log.Error().Err(err).Int("batch_number", req.BatchNumber).Msg("Failed to generate questions")
		questions = nil
	}
	if questions == nil {
		questions = []domain.Question{}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"questions":    questions,
		"batch_number": req.BatchNumber,
	})
}

// Summary handles POST /api/assessment/summary. Always 200: on any
// summarizer failure the fixed fallback persona is returned.
func (h *AssessmentHandler) Summary(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Profile domain.Profile `json:"profile"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	summary := assessment.Summarize(r.Context(), h.summarizer, req.Profile, h.log)

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

// Save handles POST /api/assessment/save, persisting a finished (or
// in-progress) session with its ordered answers.
func (h *AssessmentHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string          `json:"session_id"`
		UserID    string          `json:"user_id"`
		Name      string          `json:"name"`
		Age       int             `json:"age"`
		Gender    string          `json:"gender"`
		Answers   []domain.Answer `json:"answers"`
		Summary   string          `json:"summary"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.SessionID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	ctx := r.Context()

	row := &bigquery.AssessmentRow{
		SessionID: req.SessionID,
		UserID:    bigquerylib.NullString{StringVal: req.UserID, Valid: req.UserID != ""},
		Name:      bigquerylib.NullString{StringVal: req.Name, Valid: req.Name != ""},
		Age:       bigquerylib.NullInt64{Int64: int64(req.Age), Valid: req.Age > 0},
		Gender:    bigquerylib.NullString{StringVal: req.Gender, Valid: req.Gender != ""},
		CreatedTS: time.Now().UTC(),
	}

	assessmentID, err := h.repo.UpsertAssessment(ctx, row)
	if err != nil {
		h.log.Error().Err(err).Str("session_id", req.SessionID).Msg("Failed to upsert assessment")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save assessment")
		return
	}

	answerRows := make([]*bigquery.AnswerRow, 0, len(req.Answers))
	for i, a := range req.Answers {
		answerRows = append(answerRows, &bigquery.AnswerRow{
			AnswerID:         uuid.NewString(),
			AssessmentID:     assessmentID,
			QuestionID:       a.QuestionID,
			QuestionText:     a.QuestionText,
			QuestionCategory: a.QuestionCategory,
			OptionID:         a.OptionID,
			OptionText:       a.OptionText,
			OptionValue:      a.OptionValue,
			QuestionOrder:    int64(i + 1),
			CreatedTS:        time.Now().UTC(),
		})
	}

	if err := h.repo.ReplaceAnswers(ctx, assessmentID, answerRows); err != nil {
		h.log.Error().Err(err).Str("assessment_id", assessmentID).Msg("Failed to replace answers")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save answers")
		return
	}

	if req.Summary != "" {
		if err := h.repo.UpdateSummary(ctx, assessmentID, req.Summary); err != nil {
			h.log.Error().Err(err).Str("assessment_id", assessmentID).Msg("Failed to update summary")
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to save summary")
			return
		}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"assessment_id": assessmentID,
		"session_id":    req.SessionID,
	})
}

// Get handles GET /api/assessment?session_id=
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	row, answers, err := h.repo.FindBySessionID(r.Context(), sessionID)
	if err != nil {
		h.log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to load assessment")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load assessment")
		return
	}
	if row == nil {
		middleware.WriteError(w, http.StatusNotFound, "Assessment not found")
		return
	}

	if answers == nil {
		answers = []*bigquery.AnswerRow{}
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"assessment": row,
		"answers":    answers,
	})
}
