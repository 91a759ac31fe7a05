package checkpoint

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/lamim/poetforge/internal/config"
	"github.com/lamim/poetforge/pkg/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testConfig(interval int) *config.Config {
	cfg := config.Default()
	cfg.Generation.Count = 5
	cfg.Generation.EnableCheckpointing = true
	cfg.Generation.CheckpointInterval = interval
	return cfg
}

func TestNewManager(t *testing.T) {
	tempDir := t.TempDir()
	mgr := NewManager(tempDir, testConfig(10), testLogger())

	cp := mgr.GetCheckpoint()
	if cp.SessionID == "" {
		t.Error("Expected a session ID")
	}
	if cp.CurrentPhase != models.PhasePoems {
		t.Errorf("Expected phase %s, got %s", models.PhasePoems, cp.CurrentPhase)
	}
	if cp.TotalJobs != 5 {
		t.Errorf("Expected 5 total jobs, got %d", cp.TotalJobs)
	}
	if !mgr.Enabled() {
		t.Error("Expected checkpointing enabled")
	}

	if err := mgr.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	// Second close is a no-op
	if err := mgr.Close(); err != nil {
		t.Errorf("second Close() failed: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	mgr := NewManager(tempDir, testConfig(1), testLogger())

	stats := &models.SessionStats{StartTime: time.Now(), SuccessCount: 1, TotalPoems: 1}
	if err := mgr.MarkJobComplete(3, stats); err != nil {
		t.Fatalf("MarkJobComplete failed: %v", err)
	}
	// Close drains the async write
	if err := mgr.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	loaded, err := Load(tempDir, testLogger())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !loaded.CompletedJobIDs[3] {
		t.Error("Expected job 3 to be completed")
	}
	if loaded.Stats.SuccessCount != 1 {
		t.Errorf("Expected success count 1, got %d", loaded.Stats.SuccessCount)
	}
	if loaded.SessionID != mgr.GetCheckpoint().SessionID {
		t.Error("Session ID not persisted")
	}

	if _, err := os.Stat(filepath.Join(tempDir, CheckpointFilename+".tmp")); !os.IsNotExist(err) {
		t.Error("Temp checkpoint file left behind")
	}
}

func TestMarkJobCompleteInterval(t *testing.T) {
	tempDir := t.TempDir()
	mgr := NewManager(tempDir, testConfig(3), testLogger())
	defer mgr.Close()

	stats := &models.SessionStats{}
	for id := 0; id < 2; id++ {
		if err := mgr.MarkJobComplete(id, stats); err != nil {
			t.Fatal(err)
		}
	}
	// Below the interval nothing is queued
	if _, err := os.Stat(filepath.Join(tempDir, CheckpointFilename)); !os.IsNotExist(err) {
		t.Error("Checkpoint written before interval was reached")
	}

	if got := GetCompletedCount(mgr.GetCheckpoint()); got != 2 {
		t.Errorf("Expected 2 completed jobs in memory, got %d", got)
	}
}

func TestMarkComplete(t *testing.T) {
	tempDir := t.TempDir()
	mgr := NewManager(tempDir, testConfig(10), testLogger())

	if err := mgr.MarkComplete(&models.SessionStats{TotalPoems: 5, SuccessCount: 5}); err != nil {
		t.Fatalf("MarkComplete failed: %v", err)
	}
	if err := mgr.Close(); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(tempDir, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if loaded.CurrentPhase != models.PhaseComplete {
		t.Errorf("Expected phase complete, got %s", loaded.CurrentPhase)
	}
	if loaded.Stats.SuccessCount != 5 {
		t.Errorf("Expected 5 successes, got %d", loaded.Stats.SuccessCount)
	}
}

func TestDisabledManagerWritesNothing(t *testing.T) {
	tempDir := t.TempDir()
	cfg := testConfig(1)
	cfg.Generation.EnableCheckpointing = false

	mgr := NewManager(tempDir, cfg, testLogger())
	if err := mgr.MarkJobComplete(0, &models.SessionStats{}); err != nil {
		t.Fatal(err)
	}
	if err := mgr.SaveSync(); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(tempDir, CheckpointFilename)); !os.IsNotExist(err) {
		t.Error("Disabled manager wrote a checkpoint")
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(t.TempDir(), testLogger()); err == nil {
		t.Error("Expected error for missing checkpoint")
	}
}

func TestResumeFromCheckpoint(t *testing.T) {
	tempDir := t.TempDir()
	cfg := testConfig(1)

	first := NewManager(tempDir, cfg, testLogger())
	for _, id := range []int{0, 2} {
		if err := first.MarkJobComplete(id, &models.SessionStats{}); err != nil {
			t.Fatal(err)
		}
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	cp, err := Load(tempDir, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := ValidateCheckpoint(cp, cfg); err != nil {
		t.Fatalf("ValidateCheckpoint failed: %v", err)
	}

	second := NewManagerFromCheckpoint(tempDir, cp, cfg, testLogger())
	defer second.Close()

	pending := GetPendingJobs(second.GetCheckpoint())
	var ids []int
	for _, job := range pending {
		ids = append(ids, job.ID)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 3 || ids[2] != 4 {
		t.Errorf("Pending jobs = %v, want [1 3 4]", ids)
	}
}
