// Package budget computes the safe-to-spend figure and risk tier that
// power the Nischint Meter. Everything here is pure arithmetic over a
// snapshot fetched by the caller; the package performs no I/O.
package budget

import (
	"errors"
	"fmt"
	"math"

	"github.com/nischint/nischint/internal/domain"
)

const (
	// EmergencyBuffer is the non-negotiable floor (in rupees) that must
	// always remain unspent.
	EmergencyBuffer = 1000

	// GoalReservationRate is the fraction of each active goal's remaining
	// target reserved out of spendable funds per reservation period.
	GoalReservationRate = 0.10

	// Risk tier thresholds on safe-to-spend, inclusive on the lower bound:
	// exactly 1500 is green, exactly 500 is yellow.
	greenThreshold  = 1500
	yellowThreshold = 500
)

// RiskLevel is the three-tier classification of the safe-to-spend amount.
type RiskLevel string

const (
	RiskGreen  RiskLevel = "green"
	RiskYellow RiskLevel = "yellow"
	RiskRed    RiskLevel = "red"
)

// ErrInvalidInput is returned when a snapshot carries malformed numbers:
// a negative transaction amount or a negative goal target.
var ErrInvalidInput = errors.New("budget: invalid input")

// Snapshot is the per-request view of a user's finances. It is
// constructed fresh for each computation and never persisted.
type Snapshot struct {
	Transactions []domain.Transaction
	Goals        []domain.Goal
	Prediction   *domain.Prediction
}

// GoalProgress describes the first active goal for display.
type GoalProgress struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Target   int64   `json:"target"`
	Saved    int64   `json:"saved"`
	Progress float64 `json:"progress"`
}

// Summary is the dashboard view model produced from a snapshot.
type Summary struct {
	SafeToSpend     int64              `json:"safe_to_spend"`
	RiskLevel       RiskLevel          `json:"risk_level"`
	TotalBalance    int64              `json:"total_balance"`
	TotalIncome     int64              `json:"total_income"`
	TotalExpense    int64              `json:"total_expense"`
	DhandaTotal     int64              `json:"dhanda_total"`
	GharTotal       int64              `json:"ghar_total"`
	GoalReservation float64            `json:"goal_reservation"`
	PrimaryGoal     *GoalProgress      `json:"goal,omitempty"`
	Prediction      *domain.Prediction `json:"prediction,omitempty"`
}

// Compute derives the full dashboard summary from a snapshot. It is a
// total function over well-formed input: empty transaction and goal
// lists produce a zero balance, a clamped zero safe-to-spend, and tier
// red. Malformed numeric input is the only failure mode.
func Compute(snap Snapshot) (*Summary, error) {
	if err := validate(snap); err != nil {
		return nil, err
	}

	var totalIncome, totalExpense, dhandaTotal, gharTotal int64
	for _, tx := range snap.Transactions {
		switch tx.Kind {
		case domain.KindIncome:
			totalIncome += tx.Amount
		case domain.KindExpense:
			totalExpense += tx.Amount
			if tx.IsBusiness {
				dhandaTotal += tx.Amount
			} else {
				gharTotal += tx.Amount
			}
		}
	}

	// Balance may go negative; it is reported as-is, only the
	// safe-to-spend figure clamps.
	balance := totalIncome - totalExpense

	reservation := goalReservation(snap.Goals)
	safeToSpend := math.Max(0, float64(balance)-reservation-EmergencyBuffer)

	s := &Summary{
		SafeToSpend:     int64(math.Round(safeToSpend)),
		RiskLevel:       Classify(safeToSpend),
		TotalBalance:    balance,
		TotalIncome:     totalIncome,
		TotalExpense:    totalExpense,
		DhandaTotal:     dhandaTotal,
		GharTotal:       gharTotal,
		GoalReservation: reservation,
		Prediction:      snap.Prediction,
	}

	if g := primaryGoal(snap.Goals); g != nil {
		s.PrimaryGoal = &GoalProgress{
			ID:       g.ID,
			Name:     g.Name,
			Target:   g.TargetAmount,
			Saved:    g.SavedAmount,
			Progress: Progress(g.SavedAmount, g.TargetAmount),
		}
	}

	return s, nil
}

// Classify maps a safe-to-spend amount to its risk tier.
func Classify(safeToSpend float64) RiskLevel {
	switch {
	case safeToSpend >= greenThreshold:
		return RiskGreen
	case safeToSpend >= yellowThreshold:
		return RiskYellow
	default:
		return RiskRed
	}
}

// Progress returns saved/target clamped to a defined value. A zero (or
// negative) target would divide by zero; such goals are reported as
// fully funded (1.0) instead of propagating NaN or Inf to the caller.
func Progress(saved, target int64) float64 {
	if target <= 0 {
		return 1.0
	}
	return float64(saved) / float64(target)
}

// goalReservation sums the per-goal reservation. Overfunded goals
// contribute zero: without the floor they would inflate the spendable
// balance, which is the wrong direction.
func goalReservation(goals []domain.Goal) float64 {
	var total float64
	for _, g := range goals {
		remaining := g.TargetAmount - g.SavedAmount
		if remaining < 0 {
			remaining = 0
		}
		total += float64(remaining) * GoalReservationRate
	}
	return total
}

// primaryGoal is the first goal in the collaborator's returned ordering.
// Ordering is the store's responsibility, not recomputed here.
func primaryGoal(goals []domain.Goal) *domain.Goal {
	if len(goals) == 0 {
		return nil
	}
	return &goals[0]
}

func validate(snap Snapshot) error {
	for _, tx := range snap.Transactions {
		if tx.Amount < 0 {
			return fmt.Errorf("%w: transaction %q has negative amount %d", ErrInvalidInput, tx.ID, tx.Amount)
		}
	}
	for _, g := range snap.Goals {
		if g.TargetAmount < 0 {
			return fmt.Errorf("%w: goal %q has negative target %d", ErrInvalidInput, g.Name, g.TargetAmount)
		}
	}
	return nil
}
