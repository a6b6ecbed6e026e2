package pipeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/nischint/nischint/internal/domain"
)

// receipt categories the model is allowed to emit; anything else falls
// back to "other".
var receiptCategories = map[string]bool{
	"food":          true,
	"transport":     true,
	"shopping":      true,
	"bills":         true,
	"health":        true,
	"entertainment": true,
	"business":      true,
	"other":         true,
}

// transformReceiptOutput converts raw model output into a normalized
// domain transaction. Amounts are whole rupees; the model's number is
// rounded.
func transformReceiptOutput(rawOutput map[string]interface{}, userID string) (*domain.Transaction, error) {
	amount, err := getFloat64Field(rawOutput, "amount", true)
	if err != nil {
		return nil, fmt.Errorf("transformReceiptOutput: %w", err)
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, fmt.Errorf("transformReceiptOutput: unusable amount %v", amount)
	}

	merchant, err := getOptionalStringField(rawOutput, "merchant")
	if err != nil {
		return nil, fmt.Errorf("transformReceiptOutput: %w", err)
	}
	rawText, err := getOptionalStringField(rawOutput, "raw_text")
	if err != nil {
		return nil, fmt.Errorf("transformReceiptOutput: %w", err)
	}

	category, err := getOptionalStringField(rawOutput, "category")
	if err != nil {
		return nil, fmt.Errorf("transformReceiptOutput: %w", err)
	}
	cat := "other"
	if category != nil {
		c := strings.ToLower(strings.TrimSpace(*category))
		if receiptCategories[c] {
			cat = c
		}
	}

	isBusiness := false
	if v, ok := rawOutput["is_business"]; ok {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("transformReceiptOutput: field \"is_business\" has type %T, want bool", v)
		}
		isBusiness = b
	}

	tx := &domain.Transaction{
		UserID:     userID,
		Amount:     int64(math.Round(amount)),
		Kind:       domain.KindExpense,
		Category:   cat,
		IsBusiness: isBusiness || cat == "business",
	}
	if merchant != nil {
		tx.Merchant = *merchant
	}
	if rawText != nil {
		tx.RawText = *rawText
	}
	return tx, nil
}

func getOptionalStringField(m map[string]interface{}, key string) (*string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil, nil
		}
		return &s, nil
	default:
		return nil, fmt.Errorf("field %q has type %T, want string or null", key, v)
	}
}

func getFloat64Field(m map[string]interface{}, key string, required bool) (float64, error) {
	v, ok := m[key]
	if !ok {
		if required {
			return 0, fmt.Errorf("missing required field %q", key)
		}
		return 0, nil
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case int: // unlikely from encoding/json, but harmless to support
		return float64(val), nil
	default:
		return 0, fmt.Errorf("field %q has type %T, want number", key, v)
	}
}
