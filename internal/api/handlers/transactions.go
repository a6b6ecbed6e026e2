package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	bigquerylib "cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nischint/nischint/internal/api/middleware"
	"github.com/nischint/nischint/internal/bigquery"
	"github.com/nischint/nischint/internal/domain"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// TransactionsHandler handles transaction endpoints.
type TransactionsHandler struct {
	repo bigquery.TransactionRepository
	log  zerolog.Logger
}

func NewTransactionsHandler(repo bigquery.TransactionRepository, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{repo: repo, log: log}
}

// Create handles POST /api/transactions
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID     string `json:"user_id"`
		Amount     int64  `json:"amount"`
		Kind       string `json:"type"`
		Category   string `json:"category"`
		Merchant   string `json:"merchant"`
		Source     string `json:"source"`
		IsBusiness bool   `json:"is_business"`
		RawText    string `json:"raw_text"`
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
		middleware.WriteError(w, http.StatusBadRequest, "amount must be a positive whole rupee value")
		return
	}
	kind := domain.TransactionKind(req.Kind)
	if !kind.Valid() {
		middleware.WriteError(w, http.StatusBadRequest, "type must be income or expense")
		return
	}

	source := req.Source
	if source == "" {
		source = "manual"
	}

	row := &bigquery.TransactionRow{
		TransactionID: uuid.NewString(),
		UserID:        req.UserID,
		Amount:        req.Amount,
		Kind:          string(kind),
		Category:      req.Category,
		Merchant:      bigquerylib.NullString{StringVal: req.Merchant, Valid: req.Merchant != ""},
		Source:        source,
		IsBusiness:    req.IsBusiness,
		RawText:       bigquerylib.NullString{StringVal: req.RawText, Valid: req.RawText != ""},
		CreatedTS:     time.Now().UTC(),
	}

	if err := h.repo.InsertTransaction(r.Context(), row); err != nil {
		h.log.Error().Err(err).Msg("Failed to insert transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save transaction")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, row)
}

// List handles GET /api/transactions?user_id=&days=&limit=
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()

	limit := defaultListLimit
	if limitStr := query.Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n <= 0 {
			middleware.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if n > maxListLimit {
			n = maxListLimit
		}
		limit = n
	}

	var (
		rows []*bigquery.TransactionRow
		err  error
	)
	if daysStr := query.Get("days"); daysStr != "" {
		days, convErr := strconv.Atoi(daysStr)
		if convErr != nil || days <= 0 {
			middleware.WriteError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		since := time.Now().AddDate(0, 0, -days)
		rows, err = h.repo.ListTransactionsSince(r.Context(), userID, since)
		if err == nil && len(rows) > limit {
			rows = rows[:limit]
		}
	} else {
		rows, err = h.repo.ListRecentTransactions(r.Context(), userID, limit)
	}

	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	if rows == nil {
		rows = []*bigquery.TransactionRow{}
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": rows,
		"count":        len(rows),
	})
}
