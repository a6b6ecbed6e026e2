// Package bigquery holds the row types and repository interfaces shared
// by the BigQuery-backed store implementation and its consumers. It maps
// rows to and from the domain types; cloud client code lives in
// internal/infra/bigquery.
package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"github.com/nischint/nischint/internal/domain"
)

// TransactionRow represents a transaction record in the transactions table.
type TransactionRow struct {
	TransactionID string              `bigquery:"transaction_id" json:"transaction_id"`
	UserID        string              `bigquery:"user_id" json:"user_id"`
	Amount        int64               `bigquery:"amount" json:"amount"`
	Kind          string              `bigquery:"kind" json:"type"`
	Category      string              `bigquery:"category" json:"category"`
	Merchant      bigquery.NullString `bigquery:"merchant" json:"merchant,omitempty"`
	Source        string              `bigquery:"source" json:"source"`
	IsBusiness    bool                `bigquery:"is_business" json:"is_business"`
	RawText       bigquery.NullString `bigquery:"raw_text" json:"raw_text,omitempty"`
	CreatedTS     time.Time           `bigquery:"created_ts" json:"created_at"`
}

// ToDomain converts a stored row into the domain transaction.
func (r *TransactionRow) ToDomain() domain.Transaction {
	return domain.Transaction{
		ID:         r.TransactionID,
		UserID:     r.UserID,
		Amount:     r.Amount,
		Kind:       domain.TransactionKind(r.Kind),
		Category:   r.Category,
		Merchant:   r.Merchant.StringVal,
		Source:     r.Source,
		IsBusiness: r.IsBusiness,
		RawText:    r.RawText.StringVal,
		CreatedAt:  r.CreatedTS,
	}
}

// GoalRow represents a savings goal record in the goals table.
type GoalRow struct {
	GoalID       string            `bigquery:"goal_id" json:"id"`
	UserID       string            `bigquery:"user_id" json:"user_id"`
	Name         string            `bigquery:"name" json:"name"`
	TargetAmount int64             `bigquery:"target_amount" json:"target_amount"`
	SavedAmount  int64             `bigquery:"saved_amount" json:"saved_amount"`
	Deadline     bigquery.NullDate `bigquery:"deadline" json:"deadline,omitempty"`
	IsActive     bool              `bigquery:"is_active" json:"is_active"`
	CreatedTS    time.Time         `bigquery:"created_ts" json:"created_at"`
}

// ToDomain converts a stored row into the domain goal.
func (r *GoalRow) ToDomain() domain.Goal {
	g := domain.Goal{
		ID:           r.GoalID,
		UserID:       r.UserID,
		Name:         r.Name,
		TargetAmount: r.TargetAmount,
		SavedAmount:  r.SavedAmount,
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedTS,
	}
	if r.Deadline.Valid {
		d := r.Deadline.Date.In(time.UTC)
		g.Deadline = &d
	}
	return g
}

// NewGoalRowDeadline builds the nullable deadline column from an
// optional domain deadline.
func NewGoalRowDeadline(deadline *time.Time) bigquery.NullDate {
	if deadline == nil {
		return bigquery.NullDate{}
	}
	return bigquery.NullDate{Date: civil.DateOf(*deadline), Valid: true}
}

// PredictionRow represents a spend forecast record in the predictions table.
type PredictionRow struct {
	PredictionID         string    `bigquery:"prediction_id" json:"prediction_id"`
	UserID               string    `bigquery:"user_id" json:"user_id"`
	PredictedExpenseLow  int64     `bigquery:"predicted_expense_low" json:"predicted_expense_low"`
	PredictedExpenseHigh int64     `bigquery:"predicted_expense_high" json:"predicted_expense_high"`
	Confidence           float64   `bigquery:"confidence" json:"confidence"`
	Message              string    `bigquery:"message" json:"message"`
	CreatedTS            time.Time `bigquery:"created_ts" json:"created_at"`
}

// ToDomain converts a stored row into the pass-through prediction.
func (r *PredictionRow) ToDomain() domain.Prediction {
	return domain.Prediction{
		Low:        r.PredictedExpenseLow,
		High:       r.PredictedExpenseHigh,
		Confidence: r.Confidence,
		Message:    r.Message,
	}
}

// NudgeRow represents an advisory nudge record in the nudges table.
type NudgeRow struct {
	NudgeID   string            `bigquery:"nudge_id" json:"id"`
	UserID    string            `bigquery:"user_id" json:"user_id"`
	Message   string            `bigquery:"message" json:"message"`
	Type      string            `bigquery:"type" json:"type"`
	Trigger   string            `bigquery:"trigger" json:"trigger"`
	Metadata  bigquery.NullJSON `bigquery:"metadata" json:"metadata,omitempty"`
	IsRead    bool              `bigquery:"is_read" json:"is_read"`
	CreatedTS time.Time         `bigquery:"created_ts" json:"created_at"`
}

// AssessmentRow represents one quiz session in the assessments table.
type AssessmentRow struct {
	AssessmentID   string                 `bigquery:"assessment_id" json:"id"`
	SessionID      string                 `bigquery:"session_id" json:"session_id"`
	UserID         bigquery.NullString    `bigquery:"user_id" json:"user_id,omitempty"`
	Name           bigquery.NullString    `bigquery:"name" json:"name,omitempty"`
	Age            bigquery.NullInt64     `bigquery:"age" json:"age,omitempty"`
	Gender         bigquery.NullString    `bigquery:"gender" json:"gender,omitempty"`
	ProfileSummary bigquery.NullString    `bigquery:"profile_summary" json:"profile_summary,omitempty"`
	CreatedTS      time.Time              `bigquery:"created_ts" json:"created_at"`
	CompletedTS    bigquery.NullTimestamp `bigquery:"completed_ts" json:"completed_at,omitempty"`
}

// AnswerRow represents one recorded answer in the answers table.
// QuestionOrder preserves asked order; it is 1-based.
type AnswerRow struct {
	AnswerID         string    `bigquery:"answer_id" json:"id"`
	AssessmentID     string    `bigquery:"assessment_id" json:"assessment_id"`
	QuestionID       string    `bigquery:"question_id" json:"question_id"`
	QuestionText     string    `bigquery:"question_text" json:"question_text"`
	QuestionCategory string    `bigquery:"question_category" json:"question_category"`
	OptionID         string    `bigquery:"option_id" json:"option_id"`
	OptionText       string    `bigquery:"option_text" json:"option_text"`
	OptionValue      string    `bigquery:"option_value" json:"option_value"`
	QuestionOrder    int64     `bigquery:"question_order" json:"question_order"`
	CreatedTS        time.Time `bigquery:"created_ts" json:"created_at"`
}

// ToDomain converts a stored answer back into the domain answer.
func (r *AnswerRow) ToDomain() domain.Answer {
	return domain.Answer{
		QuestionID:       r.QuestionID,
		QuestionText:     r.QuestionText,
		QuestionCategory: r.QuestionCategory,
		OptionID:         r.OptionID,
		OptionText:       r.OptionText,
		OptionValue:      r.OptionValue,
	}
}

// Receipt parsing statuses.
const (
	ReceiptStatusPending = "PENDING"
	ReceiptStatusParsed  = "PARSED"
	ReceiptStatusFailed  = "FAILED"
)

// ReceiptRow represents an uploaded receipt image in the receipts table.
type ReceiptRow struct {
	ReceiptID        string                 `bigquery:"receipt_id" json:"id"`
	UserID           string                 `bigquery:"user_id" json:"user_id"`
	GCSURI           string                 `bigquery:"gcs_uri" json:"gcs_uri"`
	OriginalFilename string                 `bigquery:"original_filename" json:"original_filename"`
	FileMimeType     string                 `bigquery:"file_mime_type" json:"file_mime_type"`
	UploadTS         time.Time              `bigquery:"upload_ts" json:"upload_at"`
	ParsingStatus    string                 `bigquery:"parsing_status" json:"parsing_status"`
	ErrorMessage     bigquery.NullString    `bigquery:"error_message" json:"error_message,omitempty"`
	TransactionID    bigquery.NullString    `bigquery:"transaction_id" json:"transaction_id,omitempty"`
	ProcessedTS      bigquery.NullTimestamp `bigquery:"processed_ts" json:"processed_at,omitempty"`
}
