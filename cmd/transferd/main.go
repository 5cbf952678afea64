package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"transfer-lab/download"
	"transfer-lab/domain"
	"transfer-lab/internal"
	"transfer-lab/repositories"
	"transfer-lab/runtime"
	"transfer-lab/runtime/workers"
	"transfer-lab/services"
	"transfer-lab/upload"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the service lifecycle, and
// centralizes error reporting. This pattern is preferred over calling
// os.Exit or panic directly because:
// 1. It ensures all 'defer' statements (like database cleanup) are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for the background workers.
func run() error {
	// One-shot flags: submit a single transfer instead of running as the
	// housekeeping daemon.
	sourceURL := flag.String("url", "", "submit one generic download and exit")
	driveID := flag.String("drive", "", "submit one Google Drive download and exit")
	owner := flag.String("owner", "local", "owner id for one-shot submissions")
	hint := flag.String("name", "", "destination name hint for one-shot submissions")
	cloud := flag.Bool("cloud", false, "also deliver the one-shot download to cloud storage")
	flag.Parse()

	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	if err := os.MkdirAll(config.TempDir, 0o755); err != nil {
		return fmt.Errorf("temp dir: %w", err)
	}

	// 2. Database (BadgerDB), the durable deletion queue
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	// Defer will be executed before run() returns anything to main()
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Pipeline assembly
	// Drive's interstitial dance needs a cookie jar; the generic path
	// shares the client.
	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	httpClient := &http.Client{Jar: jar}

	writer := download.NewStreamWriter(log, domain.TransferChunkSize)
	fetcher := download.NewBackoffFetcher(log, httpClient, config.MaxAttempts, config.BackoffBase, nil)
	downloader := download.NewService(log,
		download.NewGenericDownloader(log, fetcher, writer),
		download.NewDriveResolver(log, fetcher, writer, ""),
	)
	storage := upload.NewClient(log, http.DefaultClient, config.StorageAPIBase, config.StorageAPIKey)
	deletions := repositories.NewDeletionRepository(db, log)
	notifier := services.NewLogNotifier(log)
	registry := runtime.NewRegistry()
	orchestrator := runtime.NewOrchestrator(log, registry, downloader, storage, deletions, notifier, config.TempDir, config.DownloadTimeout)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. One-shot mode
	if *sourceURL != "" || *driveID != "" {
		source := domain.GenericURL(*sourceURL)
		if *driveID != "" {
			source = domain.DriveFileID(*driveID)
		}
		_, err := orchestrator.Submit(ctx, runtime.SubmitRequest{
			OwnerID:         *owner,
			Source:          source,
			DestinationHint: *hint,
			DeliverToCloud:  *cloud,
		})
		if err != nil {
			return err
		}
		orchestrator.Wait()
		return nil
	}

	// 6. Background workers
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		workers.NewRetentionSweeperWorker(log, config.TempDir, config.SweepInterval, config.RetentionAge),
		workers.NewDeletionSchedulerWorker(log, deletions, storage, notifier, config.DeletionPollInterval, config.DeletionBatchSize),
	)

	if config.DebugPort > 0 {
		internal.StartDebugServer(db, config.DebugPort, "/inspect", internal.DeletionMapper, func() map[string]any {
			return map[string]any{"TempDir": config.TempDir}
		})
		log.Info("Debug server started", "port", config.DebugPort)
	}

	// 7. Wait for Stop
	go sup.Run(ctx)
	log.Info("Transfer pipeline ready", "temp_dir", config.TempDir)
	<-ctx.Done()

	// 8. Final Cleanup
	log.Info("Shutting down gracefully...")
	sup.Stop()
	orchestrator.Wait()
	log.Info("Program stopped cleanly")

	return nil
}
