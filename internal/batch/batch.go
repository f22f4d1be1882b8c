// Package batch processes a directory of PDFs, writing one JSON
// outline per input file. Documents are independent, so they run
// concurrently up to the configured worker count; a failed document is
// logged and skipped without affecting its siblings.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/godzaryan/DocStructureX/internal/outline"
	"github.com/godzaryan/DocStructureX/internal/pdfio"
	"github.com/godzaryan/DocStructureX/internal/pipeline"
)

// Summary reports what a batch run did.
type Summary struct {
	Processed int
	Failed    int
}

// Run extracts outlines for every PDF in inputDir, writing
// <stem>.json files into outputDir. Each document gets a fresh
// extraction budget; concurrency is capped at workers.
func Run(ctx context.Context, log *slog.Logger, budget time.Duration, workers int, inputDir, outputDir string) (Summary, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return Summary{}, fmt.Errorf("read input dir: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create output dir: %w", err)
	}

	var pdfs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			pdfs = append(pdfs, e.Name())
		}
	}

	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sum Summary
	)
	for _, name := range pdfs {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			defer sem.Release(1)

			src := filepath.Join(inputDir, name)
			dst := outputPath(outputDir, name)
			if err := processFile(log, budget, src, dst); err != nil {
				log.Error("document failed", "file", name, "error", err)
				mu.Lock()
				sum.Failed++
				mu.Unlock()
				return
			}
			mu.Lock()
			sum.Processed++
			mu.Unlock()
		}(name)
	}
	wg.Wait()

	log.Info("batch complete", "processed", sum.Processed, "failed", sum.Failed)
	return sum, nil
}

func processFile(log *slog.Logger, budget time.Duration, src, dst string) error {
	doc, err := pdfio.Open(src)
	if err != nil {
		return err
	}
	defer doc.Close()

	start := time.Now()
	res := outline.Extract(doc, budget)
	if res.Title == "" {
		res.Title = pipeline.FileStem(src)
	}
	log.Info("outline extracted",
		"file", filepath.Base(src),
		"tier", res.Tier,
		"headings", len(res.Outline),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return writeResult(dst, res)
}

func outputPath(outputDir, name string) string {
	return filepath.Join(outputDir, pipeline.FileStem(name)+".json")
}

// writeResult serializes the outline in the stable output shape:
// two-space indent, non-ASCII text left unescaped.
func writeResult(path string, res outline.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(res); err != nil {
		f.Close()
		return fmt.Errorf("encode result: %w", err)
	}
	return f.Close()
}
