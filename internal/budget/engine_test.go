package budget

import (
	"errors"
	"reflect"
	"testing"

	"github.com/nischint/nischint/internal/domain"
)

func income(amount int64) domain.Transaction {
	return domain.Transaction{Amount: amount, Kind: domain.KindIncome}
}

func expense(amount int64, business bool) domain.Transaction {
	return domain.Transaction{Amount: amount, Kind: domain.KindExpense, IsBusiness: business}
}

func TestCompute_ScenarioA(t *testing.T) {
	// +5000 income, -1200 and -150 expense, one goal 12250/35000.
	snap := Snapshot{
		Transactions: []domain.Transaction{income(5000), expense(1200, false), expense(150, false)},
		Goals:        []domain.Goal{{Name: "Bike", TargetAmount: 35000, SavedAmount: 12250, IsActive: true}},
	}

	s, err := Compute(snap)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if s.TotalBalance != 3650 {
		t.Errorf("balance = %d, want 3650", s.TotalBalance)
	}
	if s.GoalReservation != 2275 {
		t.Errorf("goalReservation = %v, want 2275", s.GoalReservation)
	}
	if s.SafeToSpend != 375 {
		t.Errorf("safeToSpend = %d, want 375", s.SafeToSpend)
	}
	if s.RiskLevel != RiskRed {
		t.Errorf("riskLevel = %s, want red", s.RiskLevel)
	}
}

func TestCompute_ScenarioB(t *testing.T) {
	// +10000 income, -2000 expense, no goals.
	snap := Snapshot{
		Transactions: []domain.Transaction{income(10000), expense(2000, false)},
	}

	s, err := Compute(snap)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if s.TotalBalance != 8000 {
		t.Errorf("balance = %d, want 8000", s.TotalBalance)
	}
	if s.GoalReservation != 0 {
		t.Errorf("goalReservation = %v, want 0", s.GoalReservation)
	}
	if s.SafeToSpend != 7000 {
		t.Errorf("safeToSpend = %d, want 7000", s.SafeToSpend)
	}
	if s.RiskLevel != RiskGreen {
		t.Errorf("riskLevel = %s, want green", s.RiskLevel)
	}
	if s.PrimaryGoal != nil {
		t.Errorf("expected no primary goal, got %+v", s.PrimaryGoal)
	}
}

func TestCompute_OverfundedGoalReservesZero(t *testing.T) {
	// Scenario C: saved 40000 against a 35000 target contributes 0, not -500.
	snap := Snapshot{
		Transactions: []domain.Transaction{income(10000)},
		Goals: []domain.Goal{
			{Name: "Overfunded", TargetAmount: 35000, SavedAmount: 40000, IsActive: true},
			{Name: "Normal", TargetAmount: 10000, SavedAmount: 5000, IsActive: true},
		},
	}

	s, err := Compute(snap)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	// Only the normal goal reserves: (10000-5000)*0.1 = 500.
	if s.GoalReservation != 500 {
		t.Errorf("goalReservation = %v, want 500", s.GoalReservation)
	}
}

func TestCompute_EmptySnapshot(t *testing.T) {
	s, err := Compute(Snapshot{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if s.TotalBalance != 0 || s.TotalIncome != 0 || s.TotalExpense != 0 {
		t.Errorf("expected zero aggregates, got %+v", s)
	}
	if s.SafeToSpend != 0 {
		t.Errorf("safeToSpend = %d, want 0 (clamped)", s.SafeToSpend)
	}
	if s.RiskLevel != RiskRed {
		t.Errorf("riskLevel = %s, want red", s.RiskLevel)
	}
}

func TestCompute_SafeToSpendNeverNegative(t *testing.T) {
	// Expenses exceed income: balance is reported negative, but the
	// safe figure clamps at zero.
	snap := Snapshot{
		Transactions: []domain.Transaction{income(500), expense(3000, false)},
	}

	s, err := Compute(snap)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if s.TotalBalance != -2500 {
		t.Errorf("balance = %d, want -2500", s.TotalBalance)
	}
	if s.SafeToSpend != 0 {
		t.Errorf("safeToSpend = %d, want 0", s.SafeToSpend)
	}
}

func TestCompute_BusinessSplitSumsToExpenses(t *testing.T) {
	snap := Snapshot{
		Transactions: []domain.Transaction{
			income(20000),
			expense(1200, true),
			expense(800, true),
			expense(450, false),
			expense(50, false),
		},
	}

	s, err := Compute(snap)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if s.DhandaTotal != 2000 {
		t.Errorf("dhandaTotal = %d, want 2000", s.DhandaTotal)
	}
	if s.GharTotal != 500 {
		t.Errorf("gharTotal = %d, want 500", s.GharTotal)
	}
	if s.DhandaTotal+s.GharTotal != s.TotalExpense {
		t.Errorf("split %d+%d does not sum to totalExpense %d", s.DhandaTotal, s.GharTotal, s.TotalExpense)
	}
	if s.TotalIncome-s.TotalExpense != s.TotalBalance {
		t.Errorf("income-expense %d does not equal balance %d", s.TotalIncome-s.TotalExpense, s.TotalBalance)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	snap := Snapshot{
		Transactions: []domain.Transaction{income(5000), expense(1200, true)},
		Goals:        []domain.Goal{{Name: "Phone", TargetAmount: 15000, SavedAmount: 3000, IsActive: true}},
	}

	first, err := Compute(snap)
	if err != nil {
		t.Fatalf("first Compute failed: %v", err)
	}
	second, err := Compute(snap)
	if err != nil {
		t.Fatalf("second Compute failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Compute is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestCompute_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
	}{
		{
			name: "negative transaction amount",
			snap: Snapshot{Transactions: []domain.Transaction{{Amount: -100, Kind: domain.KindExpense}}},
		},
		{
			name: "negative goal target",
			snap: Snapshot{Goals: []domain.Goal{{Name: "Bad", TargetAmount: -1}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.snap)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Compute() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestClassify_TierBoundaries(t *testing.T) {
	tests := []struct {
		safeToSpend float64
		want        RiskLevel
	}{
		{1500, RiskGreen},
		{1501, RiskGreen},
		{1499, RiskYellow},
		{500, RiskYellow},
		{499, RiskRed},
		{0, RiskRed},
	}

	for _, tt := range tests {
		if got := Classify(tt.safeToSpend); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.safeToSpend, got, tt.want)
		}
	}
}

func TestProgress_ZeroTarget(t *testing.T) {
	// A zero target would divide by zero; the policy is to report the
	// goal as fully funded rather than propagate NaN or Inf.
	if got := Progress(0, 0); got != 1.0 {
		t.Errorf("Progress(0, 0) = %v, want 1.0", got)
	}
	if got := Progress(500, 0); got != 1.0 {
		t.Errorf("Progress(500, 0) = %v, want 1.0", got)
	}
	if got := Progress(2500, 10000); got != 0.25 {
		t.Errorf("Progress(2500, 10000) = %v, want 0.25", got)
	}
}

func TestCompute_PrimaryGoalIsFirstActive(t *testing.T) {
	snap := Snapshot{
		Goals: []domain.Goal{
			{ID: "g1", Name: "First", TargetAmount: 10000, SavedAmount: 2500, IsActive: true},
			{ID: "g2", Name: "Second", TargetAmount: 20000, SavedAmount: 100, IsActive: true},
		},
	}

	s, err := Compute(snap)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if s.PrimaryGoal == nil || s.PrimaryGoal.Name != "First" {
		t.Fatalf("primaryGoal = %+v, want First", s.PrimaryGoal)
	}
	if s.PrimaryGoal.Progress != 0.25 {
		t.Errorf("progress = %v, want 0.25", s.PrimaryGoal.Progress)
	}
}
