package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tubebrief/tubebrief/internal/config"
	"github.com/tubebrief/tubebrief/internal/domain"
	"github.com/tubebrief/tubebrief/internal/logger"
	"github.com/tubebrief/tubebrief/internal/repository"
	"github.com/tubebrief/tubebrief/internal/service"
	"github.com/tubebrief/tubebrief/internal/storage"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg := logger.NewFromEnv(nil)
	logger.SetDefaultLogger(logg)
	defer logger.Sync()

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		logg.Fatalf("Failed to initialize database: %v", err)
	}

	blogRepo := repository.NewBlogRepository(db)
	jobRepo := repository.NewJobRepository(db)

	qdrantRepo, err := repository.NewQdrantRepository(&repository.QdrantConnectionConfig{
		Host:            cfg.Qdrant.Host,
		Port:            cfg.Qdrant.Port,
		Collection:      cfg.Qdrant.Collection,
		APIKey:          cfg.Qdrant.APIKey,
		UseTLS:          cfg.Qdrant.UseTLS,
		VectorDimension: cfg.Embedding.Dimensions,
	})
	if err != nil {
		logg.Fatalf("Failed to initialize Qdrant repository: %v", err)
	}
	defer qdrantRepo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := qdrantRepo.EnsureCollection(ctx); err != nil {
		logg.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}

	// Transcript archive is optional; the pipeline runs without it.
	var archive service.TranscriptArchive
	if cfg.Storage.Enabled {
		objectStorage, err := storage.NewS3Storage(&storage.S3Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
		})
		if err != nil {
			logg.Fatalf("Failed to initialize storage: %v", err)
		}
		if err := objectStorage.EnsureBucket(ctx); err != nil {
			logg.Fatalf("Failed to ensure storage bucket: %v", err)
		}
		archive = storage.NewTranscriptStore(objectStorage)
	}

	embeddingService := service.NewEmbeddingService(&service.EmbeddingConfig{
		Model:          cfg.Embedding.Model,
		APIKey:         cfg.Embedding.APIKey,
		BaseURL:        cfg.Embedding.BaseURL,
		Dimensions:     cfg.Embedding.Dimensions,
		RequestTimeout: cfg.Embedding.RequestTimeout,
	})

	summarizerService := service.NewSummarizerService(&service.SummarizerConfig{
		BaseURL:        cfg.Summarizer.BaseURL,
		APIKey:         cfg.Summarizer.APIKey,
		RequestTimeout: cfg.Summarizer.RequestTimeout,
	})

	ingestService := service.NewIngestService(
		blogRepo,
		qdrantRepo,
		embeddingService,
		summarizerService,
		service.NewMetadataService(),
		service.IngestOptions{
			Workers:   cfg.Ingest.Workers,
			ChunkSize: cfg.Ingest.ChunkSize,
			Archive:   archive,
		},
	)

	worker := newWorker(jobRepo, ingestService, cfg.Ingest.PollInterval)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logg.Info("Shutting down worker...")
		cancel()
	}()

	logg.Infof("Ingest worker started, polling every %s", cfg.Ingest.PollInterval)
	worker.run(ctx)
	logg.Info("Worker exited")
}

// worker drains the ingest job queue. Jobs are claimed one at a time; chunk
// level parallelism lives inside the ingest service.
type worker struct {
	jobs         *repository.JobRepository
	ingest       *service.IngestService
	pollInterval time.Duration
}

func newWorker(jobs *repository.JobRepository, ingest *service.IngestService, pollInterval time.Duration) *worker {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &worker{
		jobs:         jobs,
		ingest:       ingest,
		pollInterval: pollInterval,
	}
}

func (w *worker) run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		// Drain all pending jobs before sleeping.
		for {
			if ctx.Err() != nil {
				return
			}
			job, err := w.jobs.ClaimNextPending(ctx)
			if err != nil {
				logger.CtxError(ctx, "claim pending job: %v", err)
				break
			}
			if job == nil {
				break
			}
			w.process(ctx, job)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *worker) process(ctx context.Context, job *domain.IngestJob) {
	jobCtx := logger.WithFields(ctx, logger.Fields{
		logger.FieldJobID:     job.ID,
		logger.FieldComponent: "worker",
	})

	logger.CtxInfo(jobCtx, "processing job for %s", job.YoutubeURL)

	result, err := w.ingest.Ingest(jobCtx, job.UserID, job.YoutubeURL)
	if err != nil {
		logger.CtxError(jobCtx, "ingestion failed: %v", err)
		if markErr := w.jobs.MarkFailed(jobCtx, job, err.Error()); markErr != nil {
			logger.CtxError(jobCtx, "mark job failed: %v", markErr)
		}
		return
	}

	job.BlogID = result.BlogID
	job.ChunkCount = result.ChunkCount
	job.IndexedVectors = result.IndexedVectors
	job.FailedVectors = len(result.FailedVectors)
	if markErr := w.jobs.MarkCompleted(jobCtx, job); markErr != nil {
		logger.CtxError(jobCtx, "mark job completed: %v", markErr)
		return
	}

	logger.CtxInfo(jobCtx, "job completed, blog %s, %d/%d vectors indexed",
		result.BlogID, result.IndexedVectors, result.IndexedVectors+len(result.FailedVectors))
}
