package gcs

import "testing"

func TestExtractFilename(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{"nested path", "gs://receipts-bucket/uploads/u1/receipt.jpg", "receipt.jpg"},
		{"top level object", "gs://receipts-bucket/receipt.pdf", "receipt.pdf"},
		{"bucket only", "gs://receipts-bucket", "receipts-bucket"},
		{"no scheme", "uploads/receipt.png", "receipt.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractFilename(tt.uri); got != tt.want {
				t.Errorf("ExtractFilename(%q) = %q, want %q", tt.uri, got, tt.want)
			}
		})
	}
}

func TestParseURI(t *testing.T) {
	bucket, object, err := parseURI("gs://receipts-bucket/uploads/u1/receipt.jpg")
	if err != nil {
		t.Fatalf("parseURI returned error: %v", err)
	}
	if bucket != "receipts-bucket" {
		t.Errorf("bucket = %q, want %q", bucket, "receipts-bucket")
	}
	if object != "uploads/u1/receipt.jpg" {
		t.Errorf("object = %q, want %q", object, "uploads/u1/receipt.jpg")
	}

	for _, uri := range []string{"http://bucket/obj", "gs://bucket-only", ""} {
		if _, _, err := parseURI(uri); err == nil {
			t.Errorf("parseURI(%q) expected error, got nil", uri)
		}
	}
}
