package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	bq "github.com/nischint/nischint/internal/bigquery"
)

// LatestPrediction returns the user's newest prediction, or nil when
// none exists. A missing prediction is not an error: the dashboard
// treats forecasts as optional display data.
func (r *Repository) LatestPrediction(ctx context.Context, userID string) (*bq.PredictionRow, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT
			prediction_id,
			user_id,
			predicted_expense_low,
			predicted_expense_high,
			confidence,
			message,
			created_ts
		FROM %s
		WHERE user_id = @user_id
		ORDER BY created_ts DESC
		LIMIT 1
	`, r.table(predictionsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("LatestPrediction: query read: %w", err)
	}

	var row bq.PredictionRow
	err = it.Next(&row)
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("LatestPrediction: iter next: %w", err)
	}

	return &row, nil
}
