package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nischint/nischint/internal/api/middleware"
	"github.com/nischint/nischint/internal/bigquery"
	"github.com/nischint/nischint/internal/gcs"
	"github.com/nischint/nischint/internal/jobs"
)

// maxReceiptBytes caps the accepted upload size (10 MiB).
const maxReceiptBytes = 10 << 20

// ReceiptsHandler accepts receipt image uploads and enqueues parsing.
type ReceiptsHandler struct {
	repo      bigquery.ReceiptRepository
	storage   gcs.Storage
	publisher jobs.Publisher
	log       zerolog.Logger
}

func NewReceiptsHandler(repo bigquery.ReceiptRepository, storage gcs.Storage, publisher jobs.Publisher, log zerolog.Logger) *ReceiptsHandler {
	return &ReceiptsHandler{repo: repo, storage: storage, publisher: publisher, log: log}
}

// Upload handles POST /api/receipts/upload?user_id=&filename=
// The request body is the raw image; Content-Type carries the MIME type.
func (h *ReceiptsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = "receipt.jpg"
	}
	filename = filepath.Base(filename)

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxReceiptBytes+1))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read upload body")
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read upload")
		return
	}
	if len(data) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Upload body is empty")
		return
	}
	if len(data) > maxReceiptBytes {
		middleware.WriteError(w, http.StatusRequestEntityTooLarge, "Receipt image too large")
		return
	}

	ctx := r.Context()
	receiptID := uuid.NewString()
	objectName := fmt.Sprintf("receipts/%s/%s-%s", time.Now().Format("2006/01/02"), receiptID, filename)

	gcsURI, err := h.storage.Upload(ctx, objectName, data, contentType)
	if err != nil {
		h.log.Error().Err(err).Str("object", objectName).Msg("Failed to upload receipt")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to upload receipt")
		return
	}

	row := &bigquery.ReceiptRow{
		ReceiptID:        receiptID,
		UserID:           userID,
		GCSURI:           gcsURI,
		OriginalFilename: filename,
		FileMimeType:     contentType,
		UploadTS:         time.Now().UTC(),
		ParsingStatus:    bigquery.ReceiptStatusPending,
	}
	if err := h.repo.InsertReceipt(ctx, row); err != nil {
		h.log.Error().Err(err).Str("receipt_id", receiptID).Msg("Failed to insert receipt")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save receipt")
		return
	}

	job := &jobs.ParseReceiptJob{
		ReceiptID: receiptID,
		UserID:    userID,
		GCSURI:    gcsURI,
	}
	if err := h.publisher.PublishParseReceipt(ctx, job); err != nil {
		h.log.Error().Err(err).Str("receipt_id", receiptID).Msg("Failed to enqueue parse job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue parsing")
		return
	}

	h.log.Info().
		Str("receipt_id", receiptID).
		Str("job_id", job.JobID).
		Str("gcs_uri", gcsURI).
		Int("bytes", len(data)).
		Msg("Receipt uploaded")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"receipt_id": receiptID,
		"job_id":     job.JobID,
		"gcs_uri":    gcsURI,
		"status":     string(job.Status),
	})
}

// Get handles GET /api/receipts/{id}
func (h *ReceiptsHandler) Get(w http.ResponseWriter, r *http.Request, receiptID string) {
	row, err := h.repo.GetReceipt(r.Context(), receiptID)
	if err != nil {
		h.log.Error().Err(err).Str("receipt_id", receiptID).Msg("Failed to load receipt")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load receipt")
		return
	}
	if row == nil {
		middleware.WriteError(w, http.StatusNotFound, "Receipt not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, row)
}

// JobsHandler exposes the background job queue state.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{store: store, log: log}
}

// Get handles GET /api/jobs/{id}
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// List handles GET /api/jobs
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := jobs.JobFilter{
		ReceiptID: query.Get("receipt_id"),
		UserID:    query.Get("user_id"),
		Status:    jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
