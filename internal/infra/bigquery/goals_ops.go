package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	bq "github.com/nischint/nischint/internal/bigquery"
)

// InsertGoal inserts a single goal row.
func (r *Repository) InsertGoal(ctx context.Context, row *bq.GoalRow) error {
	if err := r.inserter(goalsTable).Put(ctx, row); err != nil {
		return fmt.Errorf("InsertGoal: inserting row: %w", err)
	}
	return nil
}

// ListActiveGoals returns the user's active goals ordered by creation
// time. The first returned goal is the "primary" goal, so the ordering
// here is part of the contract.
func (r *Repository) ListActiveGoals(ctx context.Context, userID string) ([]*bq.GoalRow, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT
			goal_id,
			user_id,
			name,
			target_amount,
			saved_amount,
			deadline,
			is_active,
			created_ts
		FROM %s
		WHERE user_id = @user_id
		  AND is_active = TRUE
		ORDER BY created_ts
	`, r.table(goalsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListActiveGoals: query read: %w", err)
	}

	var rows []*bq.GoalRow
	for {
		var row bq.GoalRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListActiveGoals: iter next: %w", err)
		}
		rows = append(rows, &row)
	}

	return rows, nil
}
