package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/nischint/nischint/internal/budget"
	"github.com/nischint/nischint/internal/domain"
)

// CoachContext is the financial situation handed to the coach so its
// replies are grounded in the user's actual numbers.
type CoachContext struct {
	User         domain.UserContext
	Occupation   string
	IncomeRange  string
	Goals        []domain.Goal
	Transactions []domain.Transaction
	Balance      int64
	TotalIncome  int64
	TotalExpense int64
}

// Chat answers one user message in the Nischint coach voice. The reply
// is free text; the caller records it as a nudge.
func (s *Service) Chat(ctx context.Context, cc CoachContext, message string) (string, error) {
	prompt := buildCoachPrompt(cc, message)

	reply, err := s.generateText(ctx, prompt, nil)
	if err != nil {
		return "", fmt.Errorf("gemini.Chat: %w", err)
	}
	return reply, nil
}

func buildCoachPrompt(cc CoachContext, message string) string {
	name := cc.User.Name
	if name == "" {
		name = "Friend"
	}
	occupation := cc.Occupation
	if occupation == "" {
		occupation = "Delivery partner"
	}
	incomeRange := cc.IncomeRange
	if incomeRange == "" {
		incomeRange = "20k-30k/month"
	}

	var b strings.Builder
	b.WriteString("You are Nischint, a friendly and street-smart financial coach for informal sector workers in India.\n\n")
	b.WriteString("## User Context\n")
	fmt.Fprintf(&b, "- Name: %s\n", name)
	if cc.User.Age > 0 {
		fmt.Fprintf(&b, "- Age: %d\n", cc.User.Age)
	} else {
		b.WriteString("- Age: Unknown\n")
	}
	fmt.Fprintf(&b, "- Occupation: %s\n", occupation)
	fmt.Fprintf(&b, "- Income Range: %s\n\n", incomeRange)

	b.WriteString("## Financial Situation\n")
	fmt.Fprintf(&b, "- Current Balance: ₹%d\n", cc.Balance)
	fmt.Fprintf(&b, "- Total Income (recent transactions): ₹%d\n", cc.TotalIncome)
	fmt.Fprintf(&b, "- Total Expenses (recent transactions): ₹%d\n\n", cc.TotalExpense)

	b.WriteString("## Active Goals\n")
	if len(cc.Goals) == 0 {
		b.WriteString("- No active goals\n")
	}
	for _, g := range cc.Goals {
		pct := int(budget.Progress(g.SavedAmount, g.TargetAmount) * 100)
		fmt.Fprintf(&b, "- %s: ₹%d / ₹%d (%d%% complete)\n", g.Name, g.SavedAmount, g.TargetAmount, pct)
	}
	b.WriteString("\n## Recent Transactions\n")
	for i, tx := range cc.Transactions {
		if i >= 5 {
			break
		}
		sign := "-"
		if tx.Kind == domain.KindIncome {
			sign = "+"
		}
		label := tx.Merchant
		if label == "" {
			label = tx.Category
		}
		fmt.Fprintf(&b, "- %s₹%d - %s\n", sign, tx.Amount, label)
	}

	b.WriteString("\n## Your Personality\n")
	b.WriteString("- Speak in friendly Hinglish (mix of Hindi and English)\n")
	b.WriteString("- Use words like \"Bhai\", \"Tu\", \"Yaar\", \"Boss\" naturally\n")
	b.WriteString("- Be encouraging but honest about money\n")
	b.WriteString("- Keep responses brief (2-3 sentences max)\n")
	b.WriteString("- Use rupee symbol (₹) instead of \"Rs\"\n")
	b.WriteString("- Avoid formal language or banking jargon\n\n")

	fmt.Fprintf(&b, "## User's Question\n%q\n\n", message)
	b.WriteString("## Instructions\n")
	b.WriteString("Respond as Nischint would - friendly, street-smart, and genuinely helpful. ")
	b.WriteString("If the question is about spending money, gently remind them about their goals. ")
	b.WriteString("If they're doing well, celebrate with them!\n")

	return b.String()
}
