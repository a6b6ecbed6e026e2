package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nischint/nischint/internal/api/handlers"
	"github.com/nischint/nischint/internal/api/middleware"
	"github.com/nischint/nischint/internal/gcs"
	"github.com/nischint/nischint/internal/gemini"
	infraBQ "github.com/nischint/nischint/internal/infra/bigquery"
	"github.com/nischint/nischint/internal/jobs"
	"github.com/nischint/nischint/internal/jobs/inmemory"
	"github.com/nischint/nischint/internal/logger"
	"github.com/nischint/nischint/internal/pipeline"
)

func main() {
	var (
		port    = flag.String("port", "8080", "HTTP server port")
		project = flag.String("project", os.Getenv("GCP_PROJECT"), "GCP project ID (or set GCP_PROJECT env)")
		dataset = flag.String("dataset", envOr("BQ_DATASET", "nischint"), "BigQuery dataset ID (or set BQ_DATASET env)")
		bucket  = flag.String("bucket", os.Getenv("GCS_BUCKET"), "GCS bucket for receipt uploads (or set GCS_BUCKET env)")
	)
	flag.Parse()

	log := logger.New()

	if *project == "" {
		log.Fatal().Msg("No GCP project configured")
	}

	ctx := context.Background()

	repo, err := infraBQ.NewRepository(ctx, *project, *dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create repository")
	}
	defer repo.Close()

	gem, err := gemini.NewService(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini service")
	}

	var storage gcs.Storage
	if *bucket == "" {
		log.Warn().Msg("No GCS bucket configured - receipt uploads will be disabled")
	} else {
		client, err := gcs.NewClient(ctx, *bucket)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create storage client")
		}
		defer client.Close()
		storage = client
	}

	// Job infrastructure and the receipt pipeline worker.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	receiptPipeline := pipeline.New(repo, storage, gem, log)

	jobHandler := func(ctx context.Context, job jobs.Job) error {
		parseJob, ok := job.(*jobs.ParseReceiptJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", parseJob.JobID).
			Str("receipt_id", parseJob.ReceiptID).
			Str("gcs_uri", parseJob.GCSURI).
			Msg("Processing receipt job")

		if err := receiptPipeline.IngestReceipt(ctx, parseJob.ReceiptID); err != nil {
			log.Error().
				Err(err).
				Str("job_id", parseJob.JobID).
				Str("receipt_id", parseJob.ReceiptID).
				Msg("Receipt pipeline failed")
			return err
		}

		return nil
	}

	go func() {
		log.Info().Msg("Starting job worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Job worker stopped with error")
		}
	}()

	// Handlers
	dashboardHandler := handlers.NewDashboardHandler(repo, log)
	transactionsHandler := handlers.NewTransactionsHandler(repo, log)
	goalsHandler := handlers.NewGoalsHandler(repo, log)
	impulseHandler := handlers.NewImpulseHandler(repo, log)
	assessmentHandler := handlers.NewAssessmentHandler(gem, gem, repo, log)
	agentHandler := handlers.NewAgentHandler(gem, repo, log)
	receiptsHandler := handlers.NewReceiptsHandler(repo, storage, jobQueue, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/dashboard", methodHandler(map[string]http.HandlerFunc{
		http.MethodGet: dashboardHandler.Get,
	}))

	mux.HandleFunc("/api/transactions", methodHandler(map[string]http.HandlerFunc{
		http.MethodGet:  transactionsHandler.List,
		http.MethodPost: transactionsHandler.Create,
	}))

	mux.HandleFunc("/api/goals", methodHandler(map[string]http.HandlerFunc{
		http.MethodGet:  goalsHandler.List,
		http.MethodPost: goalsHandler.Create,
	}))

	mux.HandleFunc("/api/impulse", methodHandler(map[string]http.HandlerFunc{
		http.MethodPost: impulseHandler.Simulate,
	}))

	mux.HandleFunc("/api/assessment", methodHandler(map[string]http.HandlerFunc{
		http.MethodGet: assessmentHandler.Get,
	}))
	mux.HandleFunc("/api/assessment/questions", methodHandler(map[string]http.HandlerFunc{
		http.MethodPost: assessmentHandler.Questions,
	}))
	mux.HandleFunc("/api/assessment/summary", methodHandler(map[string]http.HandlerFunc{
		http.MethodPost: assessmentHandler.Summary,
	}))
	mux.HandleFunc("/api/assessment/save", methodHandler(map[string]http.HandlerFunc{
		http.MethodPost: assessmentHandler.Save,
	}))

	mux.HandleFunc("/api/agent/chat", methodHandler(map[string]http.HandlerFunc{
		http.MethodPost: agentHandler.Chat,
	}))

	mux.HandleFunc("/api/receipts/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		if storage == nil {
			middleware.WriteError(w, http.StatusServiceUnavailable, "Receipt uploads are disabled")
			return
		}
		receiptsHandler.Upload(w, r)
	})

	mux.HandleFunc("/api/receipts/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		receiptID := strings.TrimPrefix(r.URL.Path, "/api/receipts/")
		if receiptID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Receipt ID is required")
			return
		}
		receiptsHandler.Get(w, r, receiptID)
	})

	mux.HandleFunc("/api/jobs", methodHandler(map[string]http.HandlerFunc{
		http.MethodGet: jobsHandler.List,
	}))
	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
		if jobID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
			return
		}
		jobsHandler.Get(w, r, jobID)
	})

	mux.HandleFunc("/health", handlers.Health)

	handler := middleware.Recovery(log)(
		middleware.RequestID(
			middleware.Logger(log)(
				middleware.CORS(
					middleware.Auth(mux),
				),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}

// methodHandler dispatches by HTTP method, answering 405 otherwise.
func methodHandler(routes map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h, ok := routes[r.Method]; ok {
			h(w, r)
			return
		}
		middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
