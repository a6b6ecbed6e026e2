package assessment

import (
	"github.com/nischint/nischint/internal/domain"
)

// SeedQuestions is the fixed first batch every session starts with. It
// is served synchronously so the quiz opens without waiting on the
// generator; batch two onwards is generated from the answers to these.
func SeedQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:       "q1_priority",
			Text:     "If you received an unexpected ₹1,000 today, what's your first instinct?",
			Category: "spending_priority",
			Options: []domain.Option{
				{ID: "opt1_a", Text: "Pay off some debt.", Value: "debt_reduction"},
				{ID: "opt1_b", Text: "Put it straight into savings.", Value: "savings_focused"},
				{ID: "opt1_c", Text: "Invest it for long-term growth.", Value: "investment_focused"},
				{ID: "opt1_d", Text: "Treat myself to something nice.", Value: "discretionary_spending"},
			},
		},
		{
			ID:       "q2_risk_tolerance",
			Text:     "How do you feel about investing in the stock market?",
			Category: "risk_tolerance",
			Options: []domain.Option{
				{ID: "opt2_a", Text: "Excited! High risk, high reward.", Value: "high_risk"},
				{ID: "opt2_b", Text: "Cautiously optimistic, with a balanced portfolio.", Value: "moderate_risk"},
				{ID: "opt2_c", Text: "Nervous. I prefer safer options like savings accounts.", Value: "low_risk"},
				{ID: "opt2_d", Text: "I don't know enough about it to invest.", Value: "uninformed"},
			},
		},
		{
			ID:       "q3_financial_planning",
			Text:     "Which statement best describes your approach to budgeting?",
			Category: "financial_planning",
			Options: []domain.Option{
				{ID: "opt3_a", Text: "I have a detailed budget and track every expense.", Value: "strict_budgeter"},
				{ID: "opt3_b", Text: "I have a general idea of my spending, but don't track closely.", Value: "loose_budgeter"},
				{ID: "opt3_c", Text: "I just try to spend less than I earn.", Value: "intuitive_spender"},
				{ID: "opt3_d", Text: "What's a budget?", Value: "no_budget"},
			},
		},
		{
			ID:       "q4_goal_horizon",
			Text:     "When you think about financial goals, what's your primary focus?",
			Category: "goal_horizon",
			Options: []domain.Option{
				{ID: "opt4_a", Text: "Short-term goals (e.g., vacation, new phone).", Value: "short_term"},
				{ID: "opt4_b", Text: "Mid-term goals (e.g., buying a car, down payment).", Value: "mid_term"},
				{ID: "opt4_c", Text: "Long-term goals (e.g., retirement, buying a home).", Value: "long_term"},
				{ID: "opt4_d", Text: "I'm mostly focused on getting through the current month.", Value: "immediate_needs"},
			},
		},
		{
			ID:       "q5_money_emotion",
			Text:     "What emotion do you most associate with managing your finances?",
			Category: "money_emotion",
			Options: []domain.Option{
				{ID: "opt5_a", Text: "Confidence - I feel in control.", Value: "confidence"},
				{ID: "opt5_b", Text: "Anxiety - It's a constant source of stress.", Value: "anxiety"},
				{ID: "opt5_c", Text: "Apathy - I try not to think about it.", Value: "apathy"},
				{ID: "opt5_d", Text: "Curiosity - I'm eager to learn and improve.", Value: "curiosity"},
			},
		},
	}
}
