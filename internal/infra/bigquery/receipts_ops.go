package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	bq "github.com/nischint/nischint/internal/bigquery"
)

// InsertReceipt inserts a single receipt row.
func (r *Repository) InsertReceipt(ctx context.Context, row *bq.ReceiptRow) error {
	if err := r.inserter(receiptsTable).Put(ctx, row); err != nil {
		return fmt.Errorf("InsertReceipt: inserting row: %w", err)
	}
	return nil
}

// MarkReceiptParsed sets status=PARSED, the created transaction ID, and
// the processing timestamp.
func (r *Repository) MarkReceiptParsed(ctx context.Context, receiptID, transactionID string) error {
	q := r.client.Query(fmt.Sprintf(`
		UPDATE %s
		SET parsing_status = 'PARSED',
		    transaction_id = @transaction_id,
		    error_message = NULL,
		    processed_ts = CURRENT_TIMESTAMP()
		WHERE receipt_id = @receipt_id
	`, r.table(receiptsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "transaction_id", Value: transactionID},
		{Name: "receipt_id", Value: receiptID},
	}
	return r.runDML(ctx, q, "MarkReceiptParsed")
}

// MarkReceiptFailed sets status=FAILED with the error message.
func (r *Repository) MarkReceiptFailed(ctx context.Context, receiptID string, parseErr error) error {
	msg := ""
	if parseErr != nil {
		msg = parseErr.Error()
	}

	q := r.client.Query(fmt.Sprintf(`
		UPDATE %s
		SET parsing_status = 'FAILED',
		    error_message = @error_message,
		    processed_ts = CURRENT_TIMESTAMP()
		WHERE receipt_id = @receipt_id
	`, r.table(receiptsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "error_message", Value: msg},
		{Name: "receipt_id", Value: receiptID},
	}
	return r.runDML(ctx, q, "MarkReceiptFailed")
}

// GetReceipt returns a receipt by ID, or nil when it does not exist.
func (r *Repository) GetReceipt(ctx context.Context, receiptID string) (*bq.ReceiptRow, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT
			receipt_id,
			user_id,
			gcs_uri,
			original_filename,
			file_mime_type,
			upload_ts,
			parsing_status,
			error_message,
			transaction_id,
			processed_ts
		FROM %s
		WHERE receipt_id = @receipt_id
		LIMIT 1
	`, r.table(receiptsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "receipt_id", Value: receiptID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetReceipt: query read: %w", err)
	}

	var row bq.ReceiptRow
	err = it.Next(&row)
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetReceipt: iter next: %w", err)
	}

	return &row, nil
}

func (r *Repository) runDML(ctx context.Context, q *bigquery.Query, op string) error {
	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("%s: run: %w", op, err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("%s: wait: %w", op, err)
	}
	if status.Err() != nil {
		return fmt.Errorf("%s: job: %w", op, status.Err())
	}
	return nil
}
