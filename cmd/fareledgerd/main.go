package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fareledger/internal/amqp"
	"fareledger/internal/config"
	apphttp "fareledger/internal/http"
	"fareledger/internal/ledger"
	mem "fareledger/internal/ledger/memory"
	applog "fareledger/internal/log"
	"fareledger/internal/services"
	"fareledger/internal/storage"
	"fareledger/internal/voice"
)

// amqpSpeaker publishes spoken responses back onto the response queue,
// tagged with the session that produced the transcript.
type amqpSpeaker struct {
	client    *amqp.Client
	sessionID string
}

func (s *amqpSpeaker) Speak(ctx context.Context, text string) error {
	return s.client.PublishSpokenResponse(ctx, s.sessionID, text)
}

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Choose data backend (default: memory).
	var store ledger.Store
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}

		// Export is optional: without a reachable broker entries still
		// land in SQLite and the worker sweeps them up later.
		var exportClient *amqp.Client
		if cfg.AMQPURL != "" {
			exportClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.ExportQueue)
			if err != nil {
				logger.Warn("Failed to initialize AMQP export client, continuing without export notifications", "error", err)
				exportClient = nil
			}
		}

		svc := services.NewLedgerService(repo, exportClient)
		defer svc.Close()
		store = svc
		logger.Info("Initialized SQLite backend", "backend", cfg.DataBackend, "path", cfg.SQLiteDBPath)
	default:
		store = mem.New()
		logger.Info("Initialized memory backend", "backend", cfg.DataBackend)
	}

	interp := voice.NewInterpreter(store, cfg.PendingNoteWindow, logger.Logger)

	srv := apphttp.NewServer(":"+cfg.Port, interp, store)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting fareledger server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Transcript consumer: a speech frontend pushes finalized transcripts
	// onto the broker, responses go back on the response queue.
	if cfg.AMQPURL != "" {
		transcriptClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.TranscriptQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP transcript consumer, HTTP only", "error", err)
		} else {
			defer transcriptClient.Close()

			responseClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.ResponseQueue)
			if err != nil {
				logger.Error("Failed to initialize AMQP response publisher", "error", err)
				os.Exit(1)
			}
			defer responseClient.Close()

			g.Go(func() error {
				logger.Info("Starting transcript consumer", "queue", cfg.TranscriptQueue)
				err := transcriptClient.ConsumeTranscripts(gctx, func(ctx context.Context, msg *amqp.TranscriptMessage) error {
					speaker := &amqpSpeaker{client: responseClient, sessionID: msg.SessionID}
					sess := voice.NewSession(interp, speaker, logger.Logger)
					sess.OnResult(ctx, msg.Transcript)
					return nil
				})
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		}
	}

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
