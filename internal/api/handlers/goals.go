package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nischint/nischint/internal/api/middleware"
	"github.com/nischint/nischint/internal/bigquery"
)

// GoalsHandler handles savings goal endpoints.
type GoalsHandler struct {
	repo bigquery.GoalRepository
	log  zerolog.Logger
}

func NewGoalsHandler(repo bigquery.GoalRepository, log zerolog.Logger) *GoalsHandler {
	return &GoalsHandler{repo: repo, log: log}
}

// Create handles POST /api/goals
func (h *GoalsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID       string `json:"user_id"`
		Name         string `json:"name"`
		TargetAmount int64  `json:"target_amount"`
		SavedAmount  int64  `json:"saved_amount"`
		Deadline     string `json:"deadline"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserID == "" || req.Name == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id and name are required")
		return
	}
	if req.TargetAmount <= 0 {
		middleware.WriteError(w, http.StatusBadRequest, "target_amount must be positive")
		return
	}
	if req.SavedAmount < 0 {
		middleware.WriteError(w, http.StatusBadRequest, "saved_amount cannot be negative")
		return
	}

	var deadline *time.Time
	if req.Deadline != "" {
		d, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "deadline must be YYYY-MM-DD")
			return
		}
		deadline = &d
	}

	row := &bigquery.GoalRow{
		GoalID:       uuid.NewString(),
		UserID:       req.UserID,
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		SavedAmount:  req.SavedAmount,
		Deadline:     bigquery.NewGoalRowDeadline(deadline),
		IsActive:     true,
		CreatedTS:    time.Now().UTC(),
	}

	if err := h.repo.InsertGoal(r.Context(), row); err != nil {
		h.log.Error().Err(err).Msg("Failed to insert goal")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save goal")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, row)
}

// List handles GET /api/goals?user_id=
func (h *GoalsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	rows, err := h.repo.ListActiveGoals(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to list goals")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list goals")
		return
	}

	if rows == nil {
		rows = []*bigquery.GoalRow{}
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"goals": rows,
		"count": len(rows),
	})
}
