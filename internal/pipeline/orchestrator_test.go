package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/godzaryan/DocStructureX/internal/config"
)

func testOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	cfg := config.Config{
		Port:           "0",
		WorkerCount:    1,
		MaxQueueSize:   2,
		MaxUploadBytes: 1 << 20,
		OutlineBudget:  time.Second,
		JobTTL:         time.Minute,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewOrchestrator(cfg, log)
}

func TestOrchestrator_ProcessesSubmittedJob(t *testing.T) {
	orch := testOrchestrator(t)
	orch.Start(context.Background())
	defer orch.Stop()

	job := &Job{ID: "garbage-1", Filename: "garbage.pdf", Status: StatusQueued, UpdatedAt: time.Now()}
	job.SetFileData([]byte("not a pdf"))
	if err := orch.Submit(job); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if snap := orch.GetJob("garbage-1").Snapshot(); snap.Status == StatusFailed {
			if snap.Error == "" {
				t.Error("expected an error message on the failed job")
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job never reached a terminal state")
}

func TestOrchestrator_SubmitAfterStopIsRejected(t *testing.T) {
	orch := testOrchestrator(t)
	orch.Start(context.Background())
	orch.Stop()

	job := &Job{ID: "late-1", Filename: "late.pdf", Status: StatusQueued, UpdatedAt: time.Now()}
	if err := orch.Submit(job); err == nil {
		t.Fatal("expected an error submitting after Stop")
	}
	if job.Snapshot().Status != StatusFailed {
		t.Errorf("expected the late job marked failed, got %q", job.Snapshot().Status)
	}
}

func TestOrchestrator_SubmitRacingStopDoesNotPanic(t *testing.T) {
	orch := testOrchestrator(t)
	orch.Start(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			job := &Job{ID: "race", Filename: "race.pdf", Status: StatusQueued, UpdatedAt: time.Now()}
			orch.Submit(job)
		}
	}()
	orch.Stop()
	<-done
}

func TestOrchestrator_QueueFull(t *testing.T) {
	// Never started: nothing drains the queue.
	orch := testOrchestrator(t)

	for i := 0; i < 2; i++ {
		job := &Job{ID: string(rune('a' + i)), Status: StatusQueued, UpdatedAt: time.Now()}
		if err := orch.Submit(job); err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
	}
	overflow := &Job{ID: "overflow", Status: StatusQueued, UpdatedAt: time.Now()}
	if err := orch.Submit(overflow); err == nil {
		t.Fatal("expected queue-full error")
	}
	if overflow.Snapshot().Status != StatusFailed {
		t.Errorf("expected overflow job marked failed, got %q", overflow.Snapshot().Status)
	}
	if orch.QueueDepth() != 2 {
		t.Errorf("expected queue depth 2, got %d", orch.QueueDepth())
	}
}
