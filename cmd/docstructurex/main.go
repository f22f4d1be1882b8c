package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/godzaryan/DocStructureX/internal/api"
	"github.com/godzaryan/DocStructureX/internal/batch"
	"github.com/godzaryan/DocStructureX/internal/config"
	"github.com/godzaryan/DocStructureX/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	switch cmd := subcommand(); cmd {
	case "serve":
		runServe(log, cfg)
	case "batch":
		runBatch(log, cfg)
	default:
		fmt.Fprintf(os.Stderr, "usage: docstructurex <serve|batch> [flags]\n")
		os.Exit(2)
	}
}

func subcommand() string {
	if len(os.Args) < 2 {
		// Default to batch mode so a bare invocation in a directory of
		// PDFs still does something useful.
		return "batch"
	}
	return os.Args[1]
}

func runServe(log *slog.Logger, cfg config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	orch := pipeline.NewOrchestrator(cfg, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		// Stop accepting requests before draining the workers, so no
		// handler submits into a stopping orchestrator.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
	}()

	log.Info("starting docstructurex", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func runBatch(log *slog.Logger, cfg config.Config) {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	inputDir := fs.String("input", "input", "directory of PDFs to process")
	outputDir := fs.String("output", "output", "directory for outline JSON files")
	args := os.Args[1:]
	if len(args) > 0 && args[0] == "batch" {
		args = args[1:]
	}
	fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sum, err := batch.Run(ctx, log, cfg.OutlineBudget, cfg.WorkerCount, *inputDir, *outputDir)
	if err != nil {
		log.Error("batch run failed", "error", err)
		os.Exit(1)
	}
	if sum.Failed > 0 {
		os.Exit(1)
	}
}
