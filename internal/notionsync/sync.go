package notionsync

import (
	"context"
	"fmt"
	"time"

	"github.com/jomei/notionapi"

	"github.com/nischint/nischint/internal/bigquery"
	"github.com/nischint/nischint/internal/logger"
)

// SyncTransactions exports the user's transactions for the last `days`
// days into a Notion database. Pages already present (matched by the
// Transaction ID title) are skipped; stale pages are archived so the
// Notion view mirrors BigQuery. Page-level failures are logged and the
// sync continues.
func SyncTransactions(ctx context.Context, repo bigquery.TransactionRepository, notionClient NotionService, notionDBID, userID string, days int, dryRun bool) error {
	log := logger.FromContext(ctx)

	log.Info().
		Str("user_id", userID).
		Int("days", days).
		Bool("dry_run", dryRun).
		Msg("Starting transaction sync to Notion")

	since := time.Now().AddDate(0, 0, -days)
	transactions, err := repo.ListTransactionsSince(ctx, userID, since)
	if err != nil {
		return fmt.Errorf("SyncTransactions: query transactions: %w", err)
	}

	log.Info().Int("transaction_count", len(transactions)).Msg("Retrieved transactions from BigQuery")

	validIDs := make(map[string]bool, len(transactions))
	for _, tx := range transactions {
		validIDs[tx.TransactionID] = true
	}

	notionPages, err := queryAllNotionPages(ctx, notionClient, notionDBID)
	if err != nil {
		return fmt.Errorf("SyncTransactions: query Notion pages: %w", err)
	}

	existingIDs := make(map[string]bool)
	var deleted int
	for _, page := range notionPages {
		rowID := extractRowID(page, "Transaction ID")
		if rowID != "" && validIDs[rowID] {
			existingIDs[rowID] = true
			continue
		}

		if dryRun {
			log.Info().
				Str("transaction_id", rowID).
				Str("page_id", string(page.ID)).
				Msg("[DRY RUN] Would archive stale Notion page")
			deleted++
			continue
		}
		if err := notionClient.DeletePage(ctx, string(page.ID)); err != nil {
			log.Warn().
				Err(err).
				Str("page_id", string(page.ID)).
				Msg("Failed to archive stale Notion page")
			continue
		}
		deleted++
	}

	var created, skipped int
	for _, tx := range transactions {
		if existingIDs[tx.TransactionID] {
			skipped++
			continue
		}

		if dryRun {
			log.Info().
				Str("transaction_id", tx.TransactionID).
				Msg("[DRY RUN] Would create Notion page")
			created++
			continue
		}

		page, err := notionClient.CreatePage(ctx, notionDBID, TransactionToNotionProperties(tx))
		if err != nil {
			log.Warn().
				Err(err).
				Str("transaction_id", tx.TransactionID).
				Msg("Failed to create Notion page")
			continue
		}
		log.Info().
			Str("transaction_id", tx.TransactionID).
			Str("page_id", string(page.ID)).
			Msg("Created Notion page")
		created++
	}

	log.Info().
		Int("created", created).
		Int("skipped", skipped).
		Int("deleted", deleted).
		Int("total", len(transactions)).
		Msg("Transaction sync completed")

	return nil
}

// SyncGoals exports the user's active goals into a Notion database.
// Existing pages (matched by the Goal ID title) are updated in place so
// saved amounts stay current.
func SyncGoals(ctx context.Context, repo bigquery.GoalRepository, notionClient NotionService, notionDBID, userID string, dryRun bool) error {
	log := logger.FromContext(ctx)

	log.Info().
		Str("user_id", userID).
		Bool("dry_run", dryRun).
		Msg("Starting goals sync to Notion")

	goals, err := repo.ListActiveGoals(ctx, userID)
	if err != nil {
		return fmt.Errorf("SyncGoals: query goals: %w", err)
	}

	notionPages, err := queryAllNotionPages(ctx, notionClient, notionDBID)
	if err != nil {
		return fmt.Errorf("SyncGoals: query Notion pages: %w", err)
	}

	pageByGoalID := make(map[string]notionapi.Page)
	for _, page := range notionPages {
		if rowID := extractRowID(page, "Goal ID"); rowID != "" {
			pageByGoalID[rowID] = page
		}
	}

	var created, updated int
	for _, g := range goals {
		props := GoalToNotionProperties(g)

		if page, ok := pageByGoalID[g.GoalID]; ok {
			if dryRun {
				log.Info().Str("goal_id", g.GoalID).Msg("[DRY RUN] Would update Notion page")
				updated++
				continue
			}
			if _, err := notionClient.UpdatePage(ctx, string(page.ID), props); err != nil {
				log.Warn().Err(err).Str("goal_id", g.GoalID).Msg("Failed to update Notion page")
				continue
			}
			updated++
			continue
		}

		if dryRun {
			log.Info().Str("goal_id", g.GoalID).Msg("[DRY RUN] Would create Notion page")
			created++
			continue
		}
		if _, err := notionClient.CreatePage(ctx, notionDBID, props); err != nil {
			log.Warn().Err(err).Str("goal_id", g.GoalID).Msg("Failed to create Notion page")
			continue
		}
		created++
	}

	log.Info().
		Int("created", created).
		Int("updated", updated).
		Int("total", len(goals)).
		Msg("Goals sync completed")

	return nil
}

// queryAllNotionPages queries all pages from a Notion database,
// handling pagination.
func queryAllNotionPages(ctx context.Context, notionClient NotionService, databaseID string) ([]notionapi.Page, error) {
	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: 100,
		}
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := notionClient.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("queryAllNotionPages: %w", err)
		}

		allPages = append(allPages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return allPages, nil
}
