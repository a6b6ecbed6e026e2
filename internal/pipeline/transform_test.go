package pipeline

import (
	"strings"
	"testing"

	"github.com/nischint/nischint/internal/domain"
)

func TestTransformReceiptOutput(t *testing.T) {
	raw := map[string]interface{}{
		"merchant":    "Sharma Kirana Store",
		"amount":      float64(842.5),
		"kind":        "expense",
		"category":    "food",
		"is_business": false,
		"raw_text":    "groceries and household items",
	}

	tx, err := transformReceiptOutput(raw, "user-1")
	if err != nil {
		t.Fatalf("transformReceiptOutput returned error: %v", err)
	}

	if tx.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", tx.UserID, "user-1")
	}
	if tx.Amount != 843 {
		t.Errorf("Amount = %d, want 843 (rounded)", tx.Amount)
	}
	if tx.Kind != domain.KindExpense {
		t.Errorf("Kind = %q, want expense", tx.Kind)
	}
	if tx.Category != "food" {
		t.Errorf("Category = %q, want food", tx.Category)
	}
	if tx.Merchant != "Sharma Kirana Store" {
		t.Errorf("Merchant = %q", tx.Merchant)
	}
	if tx.IsBusiness {
		t.Error("IsBusiness = true, want false")
	}
}

func TestTransformReceiptOutputDefaults(t *testing.T) {
	// Null merchant, unknown category, missing is_business.
	raw := map[string]interface{}{
		"merchant": nil,
		"amount":   float64(120),
		"category": "groceries-and-stuff",
	}

	tx, err := transformReceiptOutput(raw, "user-1")
	if err != nil {
		t.Fatalf("transformReceiptOutput returned error: %v", err)
	}
	if tx.Merchant != "" {
		t.Errorf("Merchant = %q, want empty", tx.Merchant)
	}
	if tx.Category != "other" {
		t.Errorf("Category = %q, want other fallback", tx.Category)
	}
	if tx.IsBusiness {
		t.Error("IsBusiness = true, want false")
	}
}

func TestTransformReceiptOutputBusinessCategory(t *testing.T) {
	raw := map[string]interface{}{
		"amount":   float64(2500),
		"category": "business",
	}

	tx, err := transformReceiptOutput(raw, "user-1")
	if err != nil {
		t.Fatalf("transformReceiptOutput returned error: %v", err)
	}
	if !tx.IsBusiness {
		t.Error("business category should imply IsBusiness")
	}
}

func TestTransformReceiptOutputErrors(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]interface{}
		wantErr string
	}{
		{
			name:    "missing amount",
			raw:     map[string]interface{}{"merchant": "X"},
			wantErr: "missing required field",
		},
		{
			name:    "zero amount",
			raw:     map[string]interface{}{"amount": float64(0)},
			wantErr: "unusable amount",
		},
		{
			name:    "negative amount",
			raw:     map[string]interface{}{"amount": float64(-50)},
			wantErr: "unusable amount",
		},
		{
			name:    "amount wrong type",
			raw:     map[string]interface{}{"amount": "842"},
			wantErr: "want number",
		},
		{
			name:    "is_business wrong type",
			raw:     map[string]interface{}{"amount": float64(10), "is_business": "yes"},
			wantErr: "want bool",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := transformReceiptOutput(tt.raw, "user-1")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
