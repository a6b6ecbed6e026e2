// Package handlers implements the HTTP surface of the API server.
// Handlers validate input, call the domain packages, and shape JSON
// responses; they hold no business rules of their own.
package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nischint/nischint/internal/api/middleware"
	"github.com/nischint/nischint/internal/bigquery"
	"github.com/nischint/nischint/internal/budget"
	"github.com/nischint/nischint/internal/domain"
)

// snapshotLimit is how many of the user's most recent transactions a
// budget snapshot is computed over.
const snapshotLimit = 30

// SnapshotStore is the repository slice needed to assemble a budget
// snapshot.
type SnapshotStore interface {
	bigquery.TransactionRepository
	bigquery.GoalRepository
	bigquery.PredictionRepository
}

// fetchSnapshot loads transactions, goals, and the latest prediction
// concurrently. Transaction and goal failures abort; a prediction
// failure only degrades the snapshot.
func fetchSnapshot(ctx context.Context, store SnapshotStore, userID string, log zerolog.Logger) (budget.Snapshot, error) {
	var (
		wg    sync.WaitGroup
		snap  budget.Snapshot
		txErr error
		glErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		rows, err := store.ListRecentTransactions(ctx, userID, snapshotLimit)
		if err != nil {
			txErr = err
			return
		}
		snap.Transactions = make([]domain.Transaction, 0, len(rows))
		for _, r := range rows {
			snap.Transactions = append(snap.Transactions, r.ToDomain())
		}
	}()
	go func() {
		defer wg.Done()
		rows, err := store.ListActiveGoals(ctx, userID)
		if err != nil {
			glErr = err
			return
		}
		snap.Goals = make([]domain.Goal, 0, len(rows))
		for _, r := range rows {
			snap.Goals = append(snap.Goals, r.ToDomain())
		}
	}()
	go func() {
		defer wg.Done()
		row, err := store.LatestPrediction(ctx, userID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("loading prediction")
			return
		}
		if row != nil {
			p := row.ToDomain()
			snap.Prediction = &p
		}
	}()
	wg.Wait()

	if txErr != nil {
		return budget.Snapshot{}, txErr
	}
	if glErr != nil {
		return budget.Snapshot{}, glErr
	}
	return snap, nil
}

// requireUserID extracts the user_id query parameter or writes a 400.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id is required")
		return "", false
	}
	return userID, true
}

// Health handles GET /health.
func Health(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
