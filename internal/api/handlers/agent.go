package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	bigquerylib "cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nischint/nischint/internal/api/middleware"
	"github.com/nischint/nischint/internal/bigquery"
	"github.com/nischint/nischint/internal/domain"
	"github.com/nischint/nischint/internal/gemini"
)

// Coach answers one chat message with financial context.
type Coach interface {
	Chat(ctx context.Context, cc gemini.CoachContext, message string) (string, error)
}

// AgentStore is the repository slice the agent chat needs.
type AgentStore interface {
	SnapshotStore
	bigquery.NudgeRepository
}

// AgentHandler serves the Nischint coach chat.
type AgentHandler struct {
	coach Coach
	store AgentStore
	log   zerolog.Logger
}

func NewAgentHandler(coach Coach, store AgentStore, log zerolog.Logger) *AgentHandler {
	return &AgentHandler{coach: coach, store: store, log: log}
}

// Chat handles POST /api/agent/chat
func (h *AgentHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      string `json:"user_id"`
		Message     string `json:"message"`
		Name        string `json:"name"`
		Occupation  string `json:"occupation"`
		IncomeRange string `json:"income_range"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserID == "" || req.Message == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id and message are required")
		return
	}

	snap, err := fetchSnapshot(r.Context(), h.store, req.UserID, h.log)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", req.UserID).Msg("Failed to load snapshot")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to answer chat")
		return
	}

	var totalIncome, totalExpense int64
	for _, tx := range snap.Transactions {
		switch tx.Kind {
		case domain.KindIncome:
			totalIncome += tx.Amount
		case domain.KindExpense:
			totalExpense += tx.Amount
		}
	}

	cc := gemini.CoachContext{
		User:         domain.UserContext{Name: req.Name},
		Occupation:   req.Occupation,
		IncomeRange:  req.IncomeRange,
		Goals:        snap.Goals,
		Transactions: snap.Transactions,
		Balance:      totalIncome - totalExpense,
		TotalIncome:  totalIncome,
		TotalExpense: totalExpense,
	}

	reply, err := h.coach.Chat(r.Context(), cc, req.Message)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", req.UserID).Msg("Failed to generate chat reply")
		middleware.WriteError(w, http.StatusBadGateway, "Coach is unavailable, try again")
		return
	}

	h.recordNudge(r.Context(), req.UserID, req.Message, reply)

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// recordNudge stores the coach reply as an informational nudge, best
// effort.
func (h *AgentHandler) recordNudge(ctx context.Context, userID, message, reply string) {
	meta, _ := json.Marshal(map[string]interface{}{"user_message": message})
	row := &bigquery.NudgeRow{
		NudgeID: uuid.NewString(),
		UserID:  userID,
		Message: reply,
		Type:    string(domain.NudgeInfo),
		Trigger: "agent_chat",
		Metadata: bigquerylib.NullJSON{
			JSONVal: string(meta),
			Valid:   true,
		},
		CreatedTS: time.Now().UTC(),
	}

	if err := h.store.InsertNudge(ctx, row); err != nil {
		h.log.Warn().Err(err).Str("user_id", userID).Msg("inserting chat nudge")
	}
}
