package bigquery

import (
	"context"
	"fmt"

	bq "github.com/nischint/nischint/internal/bigquery"
)

// InsertNudge inserts a single advisory nudge row.
func (r *Repository) InsertNudge(ctx context.Context, row *bq.NudgeRow) error {
	if err := r.inserter(nudgesTable).Put(ctx, row); err != nil {
		return fmt.Errorf("InsertNudge: inserting row: %w", err)
	}
	return nil
}
