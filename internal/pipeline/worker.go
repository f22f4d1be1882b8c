package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/godzaryan/DocStructureX/internal/outline"
	"github.com/godzaryan/DocStructureX/internal/pdfio"
)

// Worker processes a single extraction job.
type Worker struct {
	log    *slog.Logger
	budget time.Duration
	stats  *ExtractStats
}

func NewWorker(log *slog.Logger, budget time.Duration, stats *ExtractStats) *Worker {
	return &Worker{log: log, budget: budget, stats: stats}
}

// Process runs the extraction pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	if ctx.Err() != nil {
		job.Fail("shutting down")
		return
	}

	job.SetStatus(StatusExtracting)

	start := time.Now()
	res, err := ExtractBytes(job.FileData(), w.budget)
	elapsed := time.Since(start)
	if err != nil {
		log.Error("extraction failed", "error", err)
		job.Fail(err.Error())
		return
	}

	if res.Title == "" {
		res.Title = FileStem(job.Filename)
	}
	w.stats.Record(elapsed.Milliseconds(), res.Tier)
	job.Complete(res)
	log.Info("outline extracted",
		"tier", res.Tier,
		"headings", len(res.Outline),
		"elapsed_ms", elapsed.Milliseconds(),
	)
}

// ExtractBytes runs the outline cascade over an in-memory PDF.
// ledongthuc/pdf needs a ReadSeeker with a known size, so the bytes go
// through a temp file.
func ExtractBytes(data []byte, budget time.Duration) (*outline.Result, error) {
	tmp, err := os.CreateTemp("", "dsx-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	doc, err := pdfio.Open(tmpPath)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	res := outline.Extract(doc, budget)
	return &res, nil
}

// FileStem strips the directory and extension from a filename; the
// stem doubles as the default document title.
func FileStem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
