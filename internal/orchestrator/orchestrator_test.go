package orchestrator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"testing"

	"github.com/lamim/poetforge/internal/checkpoint"
	"github.com/lamim/poetforge/internal/config"
	"github.com/lamim/poetforge/internal/counter"
	"github.com/lamim/poetforge/internal/lexicon"
	"github.com/lamim/poetforge/internal/writer"
	"github.com/lamim/poetforge/pkg/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type memorySink struct {
	mu      sync.Mutex
	records []models.PoemRecord
	err     error
}

func (s *memorySink) WriteRecord(record models.PoemRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

func testConfig(count int) *config.Config {
	cfg := config.Default()
	cfg.Generation.Style = string(models.StyleBold)
	cfg.Generation.Stanzas = 2
	cfg.Generation.LinesPerStanza = 4
	cfg.Generation.Count = count
	cfg.Generation.Concurrency = 3
	cfg.Generation.Seed = 17
	return cfg
}

func defaultStore(t *testing.T) lexicon.Store {
	t.Helper()
	store, err := lexicon.Default()
	if err != nil {
		t.Fatalf("Failed to load default lexicon: %v", err)
	}
	return store
}

func TestRunGeneratesNumberedPoems(t *testing.T) {
	cfg := testConfig(12)
	poemCounter, err := counter.NewFileCounter(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	sink := &memorySink{}

	orch := New(cfg, defaultStore(t), poemCounter, sink, nil, nil, false, testLogger())
	orch.SetProgressOutput(io.Discard)

	var seen []int64
	orch.OnPoem(func(r models.PoemRecord) { seen = append(seen, r.Number) })

	if err := orch.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	stats := orch.GetStats()
	if stats.SuccessCount+stats.RejectedCount+stats.FailureCount != 12 {
		t.Errorf("stats do not add up: %+v", stats)
	}
	if stats.FailureCount != 0 {
		t.Errorf("unexpected failures: %d", stats.FailureCount)
	}
	if len(sink.records) != stats.SuccessCount || len(seen) != stats.SuccessCount {
		t.Fatalf("archived %d poems, callback saw %d, stats say %d", len(sink.records), len(seen), stats.SuccessCount)
	}

	for i, r := range sink.records {
		if r.Number != int64(i+1) {
			t.Errorf("record %d has number %d, want %d", i, r.Number, i+1)
		}
		if r.Title != "第"+strconv.Itoa(i+1)+"首" {
			t.Errorf("record %d title = %q", i, r.Title)
		}
		if len(r.Lines) != 8 {
			t.Errorf("record %d has %d lines, want 8", i, len(r.Lines))
		}
		if r.ID == "" || r.Style != models.StyleBold {
			t.Errorf("record %d missing metadata: %+v", i, r)
		}
	}
}

func TestRunWithCheckpointAndResume(t *testing.T) {
	outputDir := t.TempDir()
	cfg := testConfig(6)
	cfg.Output.Dir = outputDir
	cfg.Generation.EnableCheckpointing = true
	cfg.Generation.CheckpointInterval = 1

	sessionMgr, err := writer.NewSessionManager(outputDir, testLogger(), "")
	if err != nil {
		t.Fatal(err)
	}
	poemCounter, err := counter.NewFileCounter(outputDir)
	if err != nil {
		t.Fatal(err)
	}

	// Simulate an interrupted first run that finished jobs 0, 1 and 4
	first := checkpoint.NewManager(sessionMgr.GetSessionDir(), cfg, testLogger())
	for _, id := range []int{0, 1, 4} {
		if err := first.MarkJobComplete(id, &models.SessionStats{SuccessCount: 1}); err != nil {
			t.Fatal(err)
		}
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	cp, err := checkpoint.Load(sessionMgr.GetSessionDir(), testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := checkpoint.ValidateCheckpoint(cp, cfg); err != nil {
		t.Fatal(err)
	}

	resumed, err := writer.NewSessionManager(outputDir, testLogger(), sessionMgr.GetSessionName())
	if err != nil {
		t.Fatal(err)
	}
	poemWriter, err := writer.NewPoemWriter(resumed, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	mgr := checkpoint.NewManagerFromCheckpoint(resumed.GetSessionDir(), cp, cfg, testLogger())
	orch := New(cfg, defaultStore(t), poemCounter, poemWriter, mgr, nil, true, testLogger())
	orch.SetProgressOutput(io.Discard)

	if err := orch.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if err := poemWriter.Close(); err != nil {
		t.Fatal(err)
	}

	records, err := writer.ReadPoems(resumed.GetPoemsPath())
	if err != nil {
		t.Fatal(err)
	}
	stats := orch.GetStats()
	if len(records)+stats.RejectedCount+stats.FailureCount != 3 {
		t.Errorf("expected 3 pending jobs to be processed, got %d records and %+v", len(records), stats)
	}
	// Restored stats carry the success recorded before the interruption
	if stats.SuccessCount != len(records)+1 {
		t.Errorf("SuccessCount = %d, want %d", stats.SuccessCount, len(records)+1)
	}

	final, err := checkpoint.Load(resumed.GetSessionDir(), testLogger())
	if err != nil {
		t.Fatal(err)
	}
	wantPhase := models.PhaseComplete
	if stats.RejectedCount+stats.FailureCount > 0 {
		wantPhase = models.PhasePoems
	}
	if final.CurrentPhase != wantPhase {
		t.Errorf("final phase = %s, want %s", final.CurrentPhase, wantPhase)
	}
	if len(final.CompletedJobIDs) != 3+len(records) {
		t.Errorf("completed jobs = %d, want %d", len(final.CompletedJobIDs), 3+len(records))
	}
}

func TestRunCancelled(t *testing.T) {
	cfg := testConfig(50)
	poemCounter, err := counter.NewFileCounter(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	sink := &memorySink{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orch := New(cfg, defaultStore(t), poemCounter, sink, nil, nil, false, testLogger())
	orch.SetProgressOutput(io.Discard)

	if err := orch.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
	if len(sink.records) != 0 {
		t.Errorf("cancelled run archived %d poems", len(sink.records))
	}
}

func TestRunSinkFailureCountsAsFailure(t *testing.T) {
	cfg := testConfig(4)
	poemCounter, err := counter.NewFileCounter(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	sink := &memorySink{err: errors.New("disk full")}

	orch := New(cfg, defaultStore(t), poemCounter, sink, nil, nil, false, testLogger())
	orch.SetProgressOutput(io.Discard)

	if err := orch.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	stats := orch.GetStats()
	if stats.SuccessCount != 0 || stats.FailureCount+stats.RejectedCount != 4 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRunWithFailuresLeavesCheckpointResumable(t *testing.T) {
	outputDir := t.TempDir()
	cfg := testConfig(4)
	cfg.Output.Dir = outputDir
	cfg.Generation.EnableCheckpointing = true
	cfg.Generation.CheckpointInterval = 1

	sessionMgr, err := writer.NewSessionManager(outputDir, testLogger(), "")
	if err != nil {
		t.Fatal(err)
	}
	poemCounter, err := counter.NewFileCounter(outputDir)
	if err != nil {
		t.Fatal(err)
	}
	sink := &memorySink{err: errors.New("disk full")}

	mgr := checkpoint.NewManager(sessionMgr.GetSessionDir(), cfg, testLogger())
	orch := New(cfg, defaultStore(t), poemCounter, sink, mgr, nil, false, testLogger())
	orch.SetProgressOutput(io.Discard)

	if err := orch.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	cp, err := checkpoint.Load(sessionMgr.GetSessionDir(), testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if cp.CurrentPhase != models.PhasePoems {
		t.Errorf("phase = %s, want %s", cp.CurrentPhase, models.PhasePoems)
	}
	if err := checkpoint.ValidateCheckpoint(cp, cfg); err != nil {
		t.Errorf("checkpoint with failed jobs should be resumable: %v", err)
	}
	if pending := checkpoint.GetPendingJobs(cp); len(pending) != 4 {
		t.Errorf("pending jobs = %d, want 4", len(pending))
	}
	if cp.Stats.FailureCount+cp.Stats.RejectedCount != 4 {
		t.Errorf("saved stats = %+v", cp.Stats)
	}
}
