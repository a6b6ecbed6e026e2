package domain

import (
	"time"
)

// NudgeType classifies the tone of an advisory nudge.
type NudgeType string

const (
	NudgeInfo    NudgeType = "info"
	NudgeWarning NudgeType = "warning"
)

// Nudge is an advisory record the system writes whenever it classifies
// something on the user's behalf (impulse simulations, coach replies).
// Nudge inserts are best effort and must never block the caller's response.
type Nudge struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Message   string         `json:"message"`
	Type      NudgeType      `json:"type"`
	Trigger   string         `json:"trigger"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	IsRead    bool           `json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
}
