// Package bigquery implements the repository interfaces from
// internal/bigquery against a BigQuery dataset. One Repository holds a
// shared client so each operation does not open its own connection.
package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"

	bq "github.com/nischint/nischint/internal/bigquery"
)

const (
	transactionsTable = "transactions"
	goalsTable        = "goals"
	predictionsTable  = "predictions"
	nudgesTable       = "nudges"
	assessmentsTable  = "assessments"
	answersTable      = "answers"
	receiptsTable     = "receipts"
)

// Repository is the BigQuery-backed implementation of bq.Store.
type Repository struct {
	client    *bigquery.Client
	projectID string
	datasetID string
}

// NewRepository creates a repository with a shared BigQuery client.
// Credentials come from Application Default Credentials.
func NewRepository(ctx context.Context, projectID, datasetID string) (*Repository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewRepository: creating client: %w", err)
	}
	return &Repository{
		client:    client,
		projectID: projectID,
		datasetID: datasetID,
	}, nil
}

// Close closes the BigQuery client connection.
func (r *Repository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// table returns the fully qualified table identifier for SQL text.
func (r *Repository) table(name string) string {
	return fmt.Sprintf("`%s.%s.%s`", r.projectID, r.datasetID, name)
}

// inserter returns the streaming inserter for a table.
func (r *Repository) inserter(name string) *bigquery.Inserter {
	return r.client.DatasetInProject(r.projectID, r.datasetID).Table(name).Inserter()
}

// Ensure Repository implements the full store surface.
var _ bq.Store = (*Repository)(nil)
