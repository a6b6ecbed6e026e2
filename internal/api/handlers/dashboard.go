package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/nischint/nischint/internal/api/middleware"
	"github.com/nischint/nischint/internal/budget"
	"github.com/nischint/nischint/internal/domain"
)

const recentTransactionCount = 5

// dashboardResponse is the budget summary with the recent-activity
// fields merged in at the top level, one flat object per request.
type dashboardResponse struct {
	*budget.Summary
	RecentTransactions []domain.Transaction `json:"recent_transactions"`
	TransactionCount   int                  `json:"transaction_count"`
	ActiveGoalsCount   int                  `json:"active_goals_count"`
}

// DashboardHandler serves the combined budget dashboard.
type DashboardHandler struct {
	store SnapshotStore
	log   zerolog.Logger
}

func NewDashboardHandler(store SnapshotStore, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{store: store, log: log}
}

// Get handles GET /api/dashboard?user_id=
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	snap, err := fetchSnapshot(r.Context(), h.store, userID, h.log)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to load snapshot")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	summary, err := budget.Compute(snap)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to compute summary")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to compute dashboard")
		return
	}

	recent := snap.Transactions
	if len(recent) > recentTransactionCount {
		recent = recent[:recentTransactionCount]
	}
	if recent == nil {
		recent = []domain.Transaction{}
	}

	middleware.WriteJSON(w, http.StatusOK, dashboardResponse{
		Summary:            summary,
		RecentTransactions: recent,
		TransactionCount:   len(snap.Transactions),
		ActiveGoalsCount:   len(snap.Goals),
	})
}
