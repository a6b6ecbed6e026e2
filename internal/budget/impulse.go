package budget

import (
	"fmt"
	"math"

	"github.com/nischint/nischint/internal/domain"
)

// Severity classifies a hypothetical purchase. Unlike the risk tier,
// severity is keyed off the raw purchase amount (500/1000/2000 rupee
// breakpoints), not off the resulting safe-to-spend value. The two
// bases are intentionally different; see the impulse endpoint docs.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// avgDailySaving is the assumed saving rate used to express a purchase
// as days of delay on the primary goal.
// TODO: derive from the user's actual transaction history instead of a
// flat ₹100/day.
const avgDailySaving = 100

// GoalImpact describes what a hypothetical purchase does to the
// primary goal.
type GoalImpact struct {
	GoalName        string   `json:"goal_name"`
	CurrentProgress float64  `json:"current_progress"`
	AfterPurchase   float64  `json:"after_purchase"`
	ProgressLoss    float64  `json:"progress_loss"`
	DaysDelayed     int      `json:"days_delayed"`
	Severity        Severity `json:"severity"`
}

// FinancialImpact describes what the purchase does to the balance.
type FinancialImpact struct {
	PurchaseAmount int64 `json:"purchase_amount"`
	CurrentBalance int64 `json:"current_balance"`
	BalanceAfter   int64 `json:"balance_after"`
	CanAfford      bool  `json:"can_afford"`
}

// ImpulseResult is the outcome of a what-if purchase simulation.
type ImpulseResult struct {
	GoalImpact      GoalImpact      `json:"goal_impact"`
	FinancialImpact FinancialImpact `json:"financial_impact"`
	Warning         string          `json:"agent_warning"`
	Recommendation  string          `json:"recommendation"`
}

// SimulatePurchase runs the what-if arithmetic for an impulse purchase
// of amount rupees against the primary goal and the snapshot balance.
// It reuses the balance formulas from Compute against the hypothetical
// reduced balance. The snapshot must contain at least one active goal.
func SimulatePurchase(snap Snapshot, item string, amount int64) (*ImpulseResult, error) {
	if err := validate(snap); err != nil {
		return nil, err
	}
	if amount < 0 {
		return nil, fmt.Errorf("%w: purchase amount %d is negative", ErrInvalidInput, amount)
	}

	goal := primaryGoal(snap.Goals)
	if goal == nil {
		return nil, ErrNoActiveGoal
	}

	currentProgress := Progress(goal.SavedAmount, goal.TargetAmount)
	afterSaved := goal.SavedAmount - amount
	if afterSaved < 0 {
		afterSaved = 0
	}
	afterProgress := Progress(afterSaved, goal.TargetAmount)

	daysDelayed := int(math.Ceil(float64(amount) / avgDailySaving))

	var totalIncome, totalExpense int64
	for _, tx := range snap.Transactions {
		switch tx.Kind {
		case domain.KindIncome:
			totalIncome += tx.Amount
		case domain.KindExpense:
			totalExpense += tx.Amount
		}
	}
	balance := totalIncome - totalExpense
	balanceAfter := balance - amount

	severity := ClassifyPurchase(amount)

	return &ImpulseResult{
		GoalImpact: GoalImpact{
			GoalName:        goal.Name,
			CurrentProgress: round4(currentProgress),
			AfterPurchase:   round4(afterProgress),
			ProgressLoss:    round4(currentProgress - afterProgress),
			DaysDelayed:     daysDelayed,
			Severity:        severity,
		},
		FinancialImpact: FinancialImpact{
			PurchaseAmount: amount,
			CurrentBalance: balance,
			BalanceAfter:   balanceAfter,
			CanAfford:      balanceAfter >= EmergencyBuffer,
		},
		Warning:        warningFor(amount, goal.Name, daysDelayed),
		Recommendation: recommendationFor(severity),
	}, nil
}

// ErrNoActiveGoal is returned by SimulatePurchase when the user has no
// active goal to measure the purchase against.
var ErrNoActiveGoal = fmt.Errorf("budget: no active goal")

// ClassifyPurchase maps a raw purchase amount to its severity.
// Amounts of 500-1999 are both medium; the 1000 breakpoint only changes
// the wording of the warning message.
func ClassifyPurchase(amount int64) Severity {
	switch {
	case amount >= 2000:
		return SeverityHigh
	case amount >= 500:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func warningFor(amount int64, goalName string, daysDelayed int) string {
	switch {
	case amount >= 2000:
		return fmt.Sprintf("Bhai, ye ₹%d ka kharcha tere %s ko %d din late kar dega! Soch le ek baar 😰", amount, goalName, daysDelayed)
	case amount >= 1000:
		return fmt.Sprintf("Boss, ₹%d kharch karoge toh %d din ka delay hoga %s mein. Tu sure hai?", amount, daysDelayed, goalName)
	case amount >= 500:
		return fmt.Sprintf("₹%d se %d din ka delay hoga. Zaroorat hai kya?", amount, daysDelayed)
	default:
		return fmt.Sprintf("Chalta hai yaar, ₹%d toh manage ho jayega. Par dhyan rakh!", amount)
	}
}

func recommendationFor(severity Severity) string {
	switch severity {
	case SeverityHigh:
		return "We strongly recommend postponing this purchase"
	case SeverityMedium:
		return "Consider if this purchase is necessary right now"
	default:
		return "This purchase is manageable, but stay mindful of your goal"
	}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
