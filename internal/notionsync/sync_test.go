package notionsync

import (
	"context"
	"testing"
	"time"

	"github.com/jomei/notionapi"

	"github.com/nischint/nischint/internal/bigquery"
)

type fakeNotion struct {
	pages    []notionapi.Page
	created  []notionapi.Properties
	updated  []string
	archived []string
}

func (f *fakeNotion) CreatePage(_ context.Context, _ string, properties notionapi.Properties) (*notionapi.Page, error) {
	f.created = append(f.created, properties)
	return &notionapi.Page{ID: notionapi.ObjectID("new-page")}, nil
}

func (f *fakeNotion) UpdatePage(_ context.Context, pageID string, _ notionapi.Properties) (*notionapi.Page, error) {
	f.updated = append(f.updated, pageID)
	return &notionapi.Page{ID: notionapi.ObjectID(pageID)}, nil
}

func (f *fakeNotion) QueryDatabase(_ context.Context, _ string, _ *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	return &notionapi.DatabaseQueryResponse{Results: f.pages, HasMore: false}, nil
}

func (f *fakeNotion) DeletePage(_ context.Context, pageID string) error {
	f.archived = append(f.archived, pageID)
	return nil
}

type fakeTxRepo struct {
	rows []*bigquery.TransactionRow
}

func (f *fakeTxRepo) InsertTransaction(_ context.Context, _ *bigquery.TransactionRow) error {
	return nil
}

func (f *fakeTxRepo) ListRecentTransactions(_ context.Context, _ string, _ int) ([]*bigquery.TransactionRow, error) {
	return f.rows, nil
}

func (f *fakeTxRepo) ListTransactionsSince(_ context.Context, _ string, _ time.Time) ([]*bigquery.TransactionRow, error) {
	return f.rows, nil
}

func pageWithTitle(pageID, titleName, rowID string) notionapi.Page {
	return notionapi.Page{
		ID: notionapi.ObjectID(pageID),
		Properties: notionapi.Properties{
			titleName: &notionapi.TitleProperty{
				Title: []notionapi.RichText{{PlainText: rowID}},
			},
		},
	}
}

func TestSyncTransactionsCreatesSkipsAndArchives(t *testing.T) {
	repo := &fakeTxRepo{rows: []*bigquery.TransactionRow{
		{TransactionID: "t1", UserID: "u1", Amount: 500, Kind: "expense", CreatedTS: time.Now()},
		{TransactionID: "t2", UserID: "u1", Amount: 900, Kind: "income", CreatedTS: time.Now()},
	}}
	notion := &fakeNotion{pages: []notionapi.Page{
		pageWithTitle("p1", "Transaction ID", "t1"),    // current, keep
		pageWithTitle("p2", "Transaction ID", "stale"), // gone from BigQuery
	}}

	err := SyncTransactions(context.Background(), repo, notion, "db1", "u1", 30, false)
	if err != nil {
		t.Fatalf("SyncTransactions returned error: %v", err)
	}

	if len(notion.created) != 1 {
		t.Errorf("created %d pages, want 1 (t2 only)", len(notion.created))
	}
	if len(notion.archived) != 1 || notion.archived[0] != "p2" {
		t.Errorf("archived = %v, want [p2]", notion.archived)
	}
}

func TestSyncTransactionsDryRunTouchesNothing(t *testing.T) {
	repo := &fakeTxRepo{rows: []*bigquery.TransactionRow{
		{TransactionID: "t1", UserID: "u1", Amount: 500, Kind: "expense", CreatedTS: time.Now()},
	}}
	notion := &fakeNotion{pages: []notionapi.Page{
		pageWithTitle("p2", "Transaction ID", "stale"),
	}}

	err := SyncTransactions(context.Background(), repo, notion, "db1", "u1", 30, true)
	if err != nil {
		t.Fatalf("SyncTransactions returned error: %v", err)
	}

	if len(notion.created)+len(notion.archived)+len(notion.updated) != 0 {
		t.Errorf("dry run performed writes: created=%d archived=%d updated=%d",
			len(notion.created), len(notion.archived), len(notion.updated))
	}
}

func TestTransactionToNotionProperties(t *testing.T) {
	tx := &bigquery.TransactionRow{
		TransactionID: "t1",
		Amount:        750,
		Kind:          "expense",
		Category:      "food",
		CreatedTS:     time.Now(),
	}

	props := TransactionToNotionProperties(tx)

	if _, ok := props["Transaction ID"].(notionapi.TitleProperty); !ok {
		t.Error("missing Transaction ID title property")
	}
	amount, ok := props["Amount"].(notionapi.NumberProperty)
	if !ok || amount.Number != 750 {
		t.Errorf("Amount property = %+v", props["Amount"])
	}
	if _, ok := props["Merchant"]; ok {
		t.Error("empty merchant should be omitted")
	}
}
