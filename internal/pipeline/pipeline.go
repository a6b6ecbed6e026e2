// Package pipeline turns uploaded receipt images into transactions.
// A receipt travels: GCS fetch, Gemini vision parse, transform into a
// transaction row, insert, then the receipt is marked PARSED or FAILED.
package pipeline

import (
	"context"
	"fmt"
	"time"

	bigquerylib "cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nischint/nischint/internal/bigquery"
	"github.com/nischint/nischint/internal/gcs"
)

// ReceiptParser provides an interface for AI-powered receipt parsing.
// This interface enables mocking and testing of the parsing step.
type ReceiptParser interface {
	// ParseReceipt sends image bytes to a vision model and returns parsed
	// JSON output.
	ParseReceipt(ctx context.Context, imageBytes []byte, mimeType string) (map[string]interface{}, error)
}

// ReceiptStore is the slice of the repository the pipeline needs.
type ReceiptStore interface {
	GetReceipt(ctx context.Context, receiptID string) (*bigquery.ReceiptRow, error)
	MarkReceiptParsed(ctx context.Context, receiptID, transactionID string) error
	MarkReceiptFailed(ctx context.Context, receiptID string, parseErr error) error
	InsertTransaction(ctx context.Context, row *bigquery.TransactionRow) error
}

// Pipeline processes uploaded receipts end to end.
type Pipeline struct {
	store   ReceiptStore
	storage gcs.Storage
	parser  ReceiptParser
	log     zerolog.Logger
}

func New(store ReceiptStore, storage gcs.Storage, parser ReceiptParser, log zerolog.Logger) *Pipeline {
	return &Pipeline{store: store, storage: storage, parser: parser, log: log}
}

// IngestReceipt processes a single uploaded receipt by ID. The receipt
// row must already exist with status PENDING. Any failure marks the
// receipt FAILED and is returned to the caller so the job layer can
// record it.
func (p *Pipeline) IngestReceipt(ctx context.Context, receiptID string) error {
	receipt, err := p.store.GetReceipt(ctx, receiptID)
	if err != nil {
		return fmt.Errorf("IngestReceipt: loading receipt %s: %w", receiptID, err)
	}
	if receipt == nil {
		return fmt.Errorf("IngestReceipt: receipt %s not found", receiptID)
	}

	imageBytes, err := p.storage.Fetch(ctx, receipt.GCSURI)
	if err != nil {
		p.fail(ctx, receiptID, err)
		return fmt.Errorf("IngestReceipt: fetching %s: %w", receipt.GCSURI, err)
	}

	rawOutput, err := p.parser.ParseReceipt(ctx, imageBytes, receipt.FileMimeType)
	if err != nil {
		p.fail(ctx, receiptID, err)
		return fmt.Errorf("IngestReceipt: parsing receipt %s: %w", receiptID, err)
	}

	tx, err := transformReceiptOutput(rawOutput, receipt.UserID)
	if err != nil {
		p.fail(ctx, receiptID, err)
		return fmt.Errorf("IngestReceipt: transforming output for %s: %w", receiptID, err)
	}

	row := &bigquery.TransactionRow{
		TransactionID: uuid.NewString(),
		UserID:        tx.UserID,
		Amount:        tx.Amount,
		Kind:          string(tx.Kind),
		Category:      tx.Category,
		Merchant:      bigquerylib.NullString{StringVal: tx.Merchant, Valid: tx.Merchant != ""},
		Source:        "receipt",
		IsBusiness:    tx.IsBusiness,
		RawText:       bigquerylib.NullString{StringVal: tx.RawText, Valid: tx.RawText != ""},
		CreatedTS:     time.Now().UTC(),
	}
	if err := p.store.InsertTransaction(ctx, row); err != nil {
		p.fail(ctx, receiptID, err)
		return fmt.Errorf("IngestReceipt: inserting transaction for %s: %w", receiptID, err)
	}

	if err := p.store.MarkReceiptParsed(ctx, receiptID, row.TransactionID); err != nil {
		return fmt.Errorf("IngestReceipt: marking receipt %s parsed: %w", receiptID, err)
	}

	p.log.Info().
		Str("receipt_id", receiptID).
		Str("file", gcs.ExtractFilename(receipt.GCSURI)).
		Str("transaction_id", row.TransactionID).
		Int64("amount", row.Amount).
		Msg("receipt ingested")

	return nil
}

// fail records the failure on the receipt row. The original error wins;
// a failed status update is only logged.
func (p *Pipeline) fail(ctx context.Context, receiptID string, cause error) {
	if err := p.store.MarkReceiptFailed(ctx, receiptID, cause); err != nil {
		p.log.Error().
			Err(err).
			Str("receipt_id", receiptID).
			Msg("marking receipt failed")
	}
}
