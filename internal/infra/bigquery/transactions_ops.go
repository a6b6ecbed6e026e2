package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	bq "github.com/nischint/nischint/internal/bigquery"
)

// InsertTransaction inserts a single transaction row.
func (r *Repository) InsertTransaction(ctx context.Context, row *bq.TransactionRow) error {
	if err := r.inserter(transactionsTable).Put(ctx, row); err != nil {
		return fmt.Errorf("InsertTransaction: inserting row: %w", err)
	}
	return nil
}

// ListRecentTransactions returns the user's most recent transactions,
// newest first. The dashboard reads a bounded window (last 30 records);
// no ordering beyond created_ts is guaranteed to callers.
func (r *Repository) ListRecentTransactions(ctx context.Context, userID string, limit int) ([]*bq.TransactionRow, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT
			transaction_id,
			user_id,
			amount,
			kind,
			category,
			merchant,
			source,
			is_business,
			raw_text,
			created_ts
		FROM %s
		WHERE user_id = @user_id
		ORDER BY created_ts DESC
		LIMIT @row_limit
	`, r.table(transactionsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "row_limit", Value: int64(limit)},
	}

	return r.readTransactions(ctx, q, "ListRecentTransactions")
}

// ListTransactionsSince returns the user's transactions created at or
// after the given instant, newest first.
func (r *Repository) ListTransactionsSince(ctx context.Context, userID string, since time.Time) ([]*bq.TransactionRow, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT
			transaction_id,
			user_id,
			amount,
			kind,
			category,
			merchant,
			source,
			is_business,
			raw_text,
			created_ts
		FROM %s
		WHERE user_id = @user_id
		  AND created_ts >= @since
		ORDER BY created_ts DESC
	`, r.table(transactionsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "since", Value: since},
	}

	return r.readTransactions(ctx, q, "ListTransactionsSince")
}

func (r *Repository) readTransactions(ctx context.Context, q *bigquery.Query, op string) ([]*bq.TransactionRow, error) {
	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: query read: %w", op, err)
	}

	var rows []*bq.TransactionRow
	for {
		var row bq.TransactionRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: iter next: %w", op, err)
		}
		rows = append(rows, &row)
	}

	return rows, nil
}
