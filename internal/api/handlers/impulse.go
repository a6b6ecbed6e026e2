package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	bigquerylib "cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nischint/nischint/internal/api/middleware"
	"github.com/nischint/nischint/internal/bigquery"
	"github.com/nischint/nischint/internal/budget"
	"github.com/nischint/nischint/internal/domain"
)

// ImpulseStore is the repository slice the impulse endpoint needs.
type ImpulseStore interface {
	SnapshotStore
	bigquery.NudgeRepository
}

// ImpulseHandler runs what-if purchase simulations.
type ImpulseHandler struct {
	store ImpulseStore
	log   zerolog.Logger
}

func NewImpulseHandler(store ImpulseStore, log zerolog.Logger) *ImpulseHandler {
	return &ImpulseHandler{store: store, log: log}
}

// Simulate handles POST /api/impulse
func (h *ImpulseHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
		Item   string `json:"item"`
		Amount int64  `json:"amount"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.Amount <= 0 {
		middleware.WriteError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	snap, err := fetchSnapshot(r.Context(), h.store, req.UserID, h.log)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", req.UserID).Msg("Failed to load snapshot")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to simulate purchase")
		return
	}

	result, err := budget.SimulatePurchase(snap, req.Item, req.Amount)
	if err != nil {
		if errors.Is(err, budget.ErrNoActiveGoal) {
			middleware.WriteError(w, http.StatusUnprocessableEntity, "No active goal to simulate against")
			return
		}
		h.log.Error().Err(err).Str("user_id", req.UserID).Msg("Failed to simulate purchase")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to simulate purchase")
		return
	}

	h.recordNudge(r.Context(), req.UserID, req.Item, req.Amount, result)

	middleware.WriteJSON(w, http.StatusOK, result)
}

// recordNudge stores the warning as an advisory nudge. Best effort:
// failures are logged, never surfaced.
func (h *ImpulseHandler) recordNudge(ctx context.Context, userID, item string, amount int64, result *budget.ImpulseResult) {
	meta, _ := json.Marshal(map[string]interface{}{
		"item":         item,
		"amount":       amount,
		"severity":     result.GoalImpact.Severity,
		"days_delayed": result.GoalImpact.DaysDelayed,
	})
	row := &bigquery.NudgeRow{
		NudgeID: uuid.NewString(),
		UserID:  userID,
		Message: result.Warning,
		Type:    string(domain.NudgeWarning),
		Trigger: "impulse_simulation",
		Metadata: bigquerylib.NullJSON{
			JSONVal: string(meta),
			Valid:   true,
		},
		CreatedTS: time.Now().UTC(),
	}

	if err := h.store.InsertNudge(ctx, row); err != nil {
		h.log.Warn().Err(err).Str("user_id", userID).Msg("inserting impulse nudge")
	}
}
