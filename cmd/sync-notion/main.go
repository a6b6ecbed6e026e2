// Command sync-notion exports a user's transactions and savings goals
// from BigQuery into Notion databases.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	infraBQ "github.com/nischint/nischint/internal/infra/bigquery"
	"github.com/nischint/nischint/internal/logger"
	"github.com/nischint/nischint/internal/notionsync"
)

func main() {
	log := logger.New()

	var (
		project     = flag.String("project", os.Getenv("GCP_PROJECT"), "GCP project ID (required)")
		dataset     = flag.String("dataset", "nischint", "BigQuery dataset ID")
		userID      = flag.String("user-id", "", "User whose data to sync (required)")
		days        = flag.Int("days", 30, "How many days of transactions to sync")
		notionToken = flag.String("notion-token", os.Getenv("NOTION_TOKEN"), "Notion API token (required)")
		txDBID      = flag.String("transactions-db-id", "", "Notion database ID for transactions")
		goalsDBID   = flag.String("goals-db-id", "", "Notion database ID for goals")
		dryRun      = flag.Bool("dry-run", false, "Preview changes without writing to Notion")
	)
	flag.Parse()

	if *project == "" {
		log.Fatal().Msg("Error: --project is required")
	}
	if *userID == "" {
		log.Fatal().Msg("Error: --user-id is required")
	}
	if *notionToken == "" {
		log.Fatal().Msg("Error: --notion-token is required")
	}
	if *txDBID == "" && *goalsDBID == "" {
		log.Fatal().Msg("Error: at least one of --transactions-db-id or --goals-db-id is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	repo, err := infraBQ.NewRepository(ctx, *project, *dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize BigQuery repository")
	}
	defer repo.Close()

	notionClient := notionsync.NewNotionClient(*notionToken)

	if *txDBID != "" {
		if err := notionsync.SyncTransactions(ctx, repo, notionClient, *txDBID, *userID, *days, *dryRun); err != nil {
			log.Fatal().Err(err).Msg("Transaction sync failed")
		}
	}
	if *goalsDBID != "" {
		if err := notionsync.SyncGoals(ctx, repo, notionClient, *goalsDBID, *userID, *dryRun); err != nil {
			log.Fatal().Err(err).Msg("Goals sync failed")
		}
	}

	fmt.Println("Sync completed successfully.")
}
