package bigquery

import (
	"context"
	"time"
)

// TransactionRepository provides transaction read/write operations.
type TransactionRepository interface {
	// InsertTransaction inserts a single transaction row.
	InsertTransaction(ctx context.Context, row *TransactionRow) error

	// ListRecentTransactions returns the user's most recent transactions,
	// newest first, up to limit rows.
	ListRecentTransactions(ctx context.Context, userID string, limit int) ([]*TransactionRow, error)

	// ListTransactionsSince returns the user's transactions created at or
	// after the given instant, newest first.
	ListTransactionsSince(ctx context.Context, userID string, since time.Time) ([]*TransactionRow, error)
}

// GoalRepository provides goal read/write operations. ListActiveGoals
// ordering defines the "primary goal" (first returned row), so the
// implementation must order deterministically.
type GoalRepository interface {
	InsertGoal(ctx context.Context, row *GoalRow) error
	ListActiveGoals(ctx context.Context, userID string) ([]*GoalRow, error)
}

// PredictionRepository reads spend forecasts.
type PredictionRepository interface {
	// LatestPrediction returns the user's newest prediction, or nil when
	// none exists.
	LatestPrediction(ctx context.Context, userID string) (*PredictionRow, error)
}

// NudgeRepository writes advisory nudges.
type NudgeRepository interface {
	InsertNudge(ctx context.Context, row *NudgeRow) error
}

// AssessmentRepository persists quiz sessions and their ordered answers.
type AssessmentRepository interface {
	// UpsertAssessment creates the session row if the session_id is new,
	// otherwise leaves the existing row in place. Returns the assessment ID.
	UpsertAssessment(ctx context.Context, row *AssessmentRow) (string, error)

	// ReplaceAnswers replaces the session's answers with the given rows,
	// preserving their question_order.
	ReplaceAnswers(ctx context.Context, assessmentID string, rows []*AnswerRow) error

	// UpdateSummary stores the persona summary and marks the session complete.
	UpdateSummary(ctx context.Context, assessmentID, summary string) error

	// FindBySessionID returns the session and its answers ordered by
	// question_order, or nil when the session does not exist.
	FindBySessionID(ctx context.Context, sessionID string) (*AssessmentRow, []*AnswerRow, error)
}

// ReceiptRepository tracks uploaded receipt images through parsing.
type ReceiptRepository interface {
	InsertReceipt(ctx context.Context, row *ReceiptRow) error
	MarkReceiptParsed(ctx context.Context, receiptID, transactionID string) error
	MarkReceiptFailed(ctx context.Context, receiptID string, parseErr error) error
	GetReceipt(ctx context.Context, receiptID string) (*ReceiptRow, error)
}

// Store is the full repository surface the API server wires up.
type Store interface {
	TransactionRepository
	GoalRepository
	PredictionRepository
	NudgeRepository
	AssessmentRepository
	ReceiptRepository
}
