package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nischint/nischint/internal/bigquery"
)

type fakeStore struct {
	receipt *bigquery.ReceiptRow

	inserted      []*bigquery.TransactionRow
	parsedTxID    string
	failedErr     error
	markParsedErr error
}

func (f *fakeStore) GetReceipt(_ context.Context, receiptID string) (*bigquery.ReceiptRow, error) {
	if f.receipt != nil && f.receipt.ReceiptID == receiptID {
		return f.receipt, nil
	}
	return nil, nil
}

func (f *fakeStore) MarkReceiptParsed(_ context.Context, _, transactionID string) error {
	if f.markParsedErr != nil {
		return f.markParsedErr
	}
	f.parsedTxID = transactionID
	return nil
}

func (f *fakeStore) MarkReceiptFailed(_ context.Context, _ string, parseErr error) error {
	f.failedErr = parseErr
	return nil
}

func (f *fakeStore) InsertTransaction(_ context.Context, row *bigquery.TransactionRow) error {
	f.inserted = append(f.inserted, row)
	return nil
}

type fakeStorage struct {
	data []byte
	err  error
	uri  string
}

func (f *fakeStorage) Upload(_ context.Context, objectName string, _ []byte, _ string) (string, error) {
	return "gs://test-bucket/" + objectName, nil
}

func (f *fakeStorage) Fetch(_ context.Context, uri string) ([]byte, error) {
	f.uri = uri
	return f.data, f.err
}

type fakeParser struct {
	output map[string]interface{}
	err    error
}

func (f *fakeParser) ParseReceipt(_ context.Context, _ []byte, _ string) (map[string]interface{}, error) {
	return f.output, f.err
}

func pendingReceipt() *bigquery.ReceiptRow {
	return &bigquery.ReceiptRow{
		ReceiptID:     "r1",
		UserID:        "user-1",
		GCSURI:        "gs://test-bucket/uploads/r1.jpg",
		FileMimeType:  "image/jpeg",
		UploadTS:      time.Now(),
		ParsingStatus: bigquery.ReceiptStatusPending,
	}
}

func TestIngestReceiptSuccess(t *testing.T) {
	store := &fakeStore{receipt: pendingReceipt()}
	storage := &fakeStorage{data: []byte("jpeg-bytes")}
	parser := &fakeParser{output: map[string]interface{}{
		"merchant": "Petrol Pump",
		"amount":   float64(1500),
		"category": "transport",
	}}

	p := New(store, storage, parser, zerolog.Nop())
	if err := p.IngestReceipt(context.Background(), "r1"); err != nil {
		t.Fatalf("IngestReceipt returned error: %v", err)
	}

	if storage.uri != "gs://test-bucket/uploads/r1.jpg" {
		t.Errorf("fetched URI = %q", storage.uri)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("inserted %d transactions, want 1", len(store.inserted))
	}

	row := store.inserted[0]
	if row.Amount != 1500 || row.Kind != "expense" || row.Source != "receipt" {
		t.Errorf("row = %+v", row)
	}
	if row.UserID != "user-1" {
		t.Errorf("UserID = %q, want the receipt owner", row.UserID)
	}
	if store.parsedTxID != row.TransactionID {
		t.Errorf("parsed transaction ID = %q, want %q", store.parsedTxID, row.TransactionID)
	}
}

func TestIngestReceiptParseFailureMarksFailed(t *testing.T) {
	store := &fakeStore{receipt: pendingReceipt()}
	storage := &fakeStorage{data: []byte("jpeg-bytes")}
	parser := &fakeParser{err: errors.New("model unavailable")}

	p := New(store, storage, parser, zerolog.Nop())
	err := p.IngestReceipt(context.Background(), "r1")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if store.failedErr == nil {
		t.Fatal("receipt was not marked failed")
	}
	if len(store.inserted) != 0 {
		t.Errorf("inserted %d transactions, want 0", len(store.inserted))
	}
}

func TestIngestReceiptBadModelOutputMarksFailed(t *testing.T) {
	store := &fakeStore{receipt: pendingReceipt()}
	storage := &fakeStorage{data: []byte("jpeg-bytes")}
	parser := &fakeParser{output: map[string]interface{}{"amount": float64(0)}}

	p := New(store, storage, parser, zerolog.Nop())
	if err := p.IngestReceipt(context.Background(), "r1"); err == nil {
		t.Fatal("expected error, got nil")
	}
	if store.failedErr == nil {
		t.Fatal("receipt was not marked failed")
	}
}

func TestIngestReceiptUnknownID(t *testing.T) {
	store := &fakeStore{}
	p := New(store, &fakeStorage{}, &fakeParser{}, zerolog.Nop())
	if err := p.IngestReceipt(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown receipt")
	}
}
