package domain

import (
	"time"
)

// Goal is a savings target owned by the goal CRUD surface; the budget
// engine treats it as read-only input. SavedAmount may exceed
// TargetAmount (overfunded goals are legal upstream).
type Goal struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Name         string     `json:"name"`
	TargetAmount int64      `json:"target_amount"`
	SavedAmount  int64      `json:"saved_amount"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Prediction is an externally computed spend forecast for the coming
// period. It is pass-through display data only.
type Prediction struct {
	Low        int64   `json:"low"`
	High       int64   `json:"high"`
	Confidence float64 `json:"confidence"`
	Message    string  `json:"message"`
}
