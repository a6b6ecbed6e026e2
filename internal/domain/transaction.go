package domain

import (
	"time"
)

// TransactionKind distinguishes money coming in from money going out.
type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

// Valid reports whether the kind is one of the two accepted values.
func (k TransactionKind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Transaction is one immutable financial event as read from the store.
// Amounts are whole rupees; the ingestion path (manual entry, SMS parse,
// receipt OCR) owns creation and transactions are never mutated afterwards.
type Transaction struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Amount     int64           `json:"amount"`
	Kind       TransactionKind `json:"type"`
	Category   string          `json:"category"`
	Merchant   string          `json:"merchant,omitempty"`
	Source     string          `json:"source,omitempty"`
	IsBusiness bool            `json:"is_business"`
	RawText    string          `json:"raw_text,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
