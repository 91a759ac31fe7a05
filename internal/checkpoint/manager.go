// Package checkpoint persists batch progress so an interrupted session can be resumed.
package checkpoint

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lamim/poetforge/internal/config"
	"github.com/lamim/poetforge/pkg/models"
)

const CheckpointFilename = "checkpoint.json"

// writeBuffer is how many pending async saves may queue before Save blocks on disk
const writeBuffer = 10

// Manager handles checkpoint operations with async write support
type Manager struct {
	sessionDir string
	checkpoint *models.Checkpoint
	mu         sync.RWMutex
	logger     *slog.Logger
	interval   int // Save every N jobs
	jobCounter int // Jobs since last save
	enabled    bool

	// Async write support
	writeChan   chan *models.Checkpoint
	writeWg     sync.WaitGroup
	stopWriter  chan struct{}
	closeOnce   sync.Once
	writerError error
	errorMu     sync.Mutex
	writeMu     sync.Mutex // Serializes disk writes
}

// NewManager creates a manager for a fresh batch of cfg.Generation.Count poems
func NewManager(sessionDir string, cfg *config.Config, logger *slog.Logger) *Manager {
	cp := &models.Checkpoint{
		SessionID:       uuid.New().String(),
		CreatedAt:       time.Now(),
		CurrentPhase:    models.PhasePoems,
		TotalJobs:       cfg.Generation.Count,
		CompletedJobIDs: make(map[int]bool),
		ConfigHash:      computeConfigHash(cfg),
	}
	return newManager(sessionDir, cp, cfg, logger)
}

// NewManagerFromCheckpoint creates a manager continuing an existing checkpoint
func NewManagerFromCheckpoint(sessionDir string, cp *models.Checkpoint, cfg *config.Config, logger *slog.Logger) *Manager {
	if cp.CompletedJobIDs == nil {
		cp.CompletedJobIDs = make(map[int]bool)
	}
	return newManager(sessionDir, cp, cfg, logger)
}

func newManager(sessionDir string, cp *models.Checkpoint, cfg *config.Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		sessionDir: sessionDir,
		checkpoint: cp,
		logger:     logger,
		interval:   cfg.Generation.CheckpointInterval,
		enabled:    cfg.Generation.EnableCheckpointing,
		writeChan:  make(chan *models.Checkpoint, writeBuffer),
		stopWriter: make(chan struct{}),
	}
	if m.interval < 1 {
		m.interval = 1
	}

	if m.enabled {
		m.startAsyncWriter()
	}

	return m
}

// Enabled reports whether checkpoints are written at all
func (m *Manager) Enabled() bool {
	return m.enabled
}

// startAsyncWriter starts the background writer goroutine
func (m *Manager) startAsyncWriter() {
	m.writeWg.Add(1)
	go func() {
		defer m.writeWg.Done()
		for {
			select {
			case cp := <-m.writeChan:
				m.writeAsync(cp)
			case <-m.stopWriter:
				// Drain remaining writes before stopping
				for {
					select {
					case cp := <-m.writeChan:
						m.writeAsync(cp)
					default:
						return
					}
				}
			}
		}
	}()
}

func (m *Manager) writeAsync(cp *models.Checkpoint) {
	if err := m.writeCheckpointToDisk(cp); err != nil {
		m.errorMu.Lock()
		m.writerError = err
		m.errorMu.Unlock()
		m.logger.Error("Failed to write checkpoint", "error", err)
	}
}

// writeCheckpointToDisk writes cp via a temp file and rename
func (m *Manager) writeCheckpointToDisk(cp *models.Checkpoint) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	checkpointPath := filepath.Join(m.sessionDir, CheckpointFilename)
	tempPath := checkpointPath + ".tmp"

	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp checkpoint: %w", err)
	}

	if err := os.Rename(tempPath, checkpointPath); err != nil {
		return fmt.Errorf("failed to rename checkpoint: %w", err)
	}

	m.logger.Debug("Checkpoint saved",
		"path", checkpointPath,
		"phase", cp.CurrentPhase,
		"completed", len(cp.CompletedJobIDs))
	return nil
}

// Save queues checkpoint for async write
func (m *Manager) Save() error {
	if !m.enabled {
		return nil
	}

	m.mu.Lock()
	m.checkpoint.LastSavedAt = time.Now()
	cpCopy := m.copyCheckpoint()
	m.mu.Unlock()

	select {
	case m.writeChan <- cpCopy:
		return nil
	default:
		m.logger.Warn("Checkpoint write buffer full, writing synchronously")
		return m.writeCheckpointToDisk(cpCopy)
	}
}

// SaveSync performs synchronous checkpoint write
func (m *Manager) SaveSync() error {
	if !m.enabled {
		return nil
	}

	m.mu.Lock()
	m.checkpoint.LastSavedAt = time.Now()
	cpCopy := m.copyCheckpoint()
	m.mu.Unlock()

	return m.writeCheckpointToDisk(cpCopy)
}

// copyCheckpoint creates a deep copy of the checkpoint; callers hold mu
func (m *Manager) copyCheckpoint() *models.Checkpoint {
	cp := *m.checkpoint
	cp.CompletedJobIDs = make(map[int]bool, len(m.checkpoint.CompletedJobIDs))
	for k, v := range m.checkpoint.CompletedJobIDs {
		cp.CompletedJobIDs[k] = v
	}
	return &cp
}

// Load reads checkpoint from disk
func Load(sessionDir string, logger *slog.Logger) (*models.Checkpoint, error) {
	if logger == nil {
		logger = slog.Default()
	}
	checkpointPath := filepath.Join(sessionDir, CheckpointFilename)

	data, err := os.ReadFile(checkpointPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	var cp models.Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checkpoint: %w", err)
	}
	if cp.CompletedJobIDs == nil {
		cp.CompletedJobIDs = make(map[int]bool)
	}

	logger.Info("Checkpoint loaded",
		"session_id", cp.SessionID,
		"phase", cp.CurrentPhase,
		"completed_jobs", len(cp.CompletedJobIDs),
		"total_jobs", cp.TotalJobs)

	return &cp, nil
}

// MarkJobComplete marks a single job as done and saves every interval jobs
func (m *Manager) MarkJobComplete(jobID int, stats *models.SessionStats) error {
	if !m.enabled {
		return nil
	}

	m.mu.Lock()
	m.checkpoint.CompletedJobIDs[jobID] = true
	m.checkpoint.Stats = *stats
	m.jobCounter++
	shouldSave := m.jobCounter >= m.interval
	if shouldSave {
		m.jobCounter = 0
	}
	m.mu.Unlock()

	if shouldSave {
		return m.Save()
	}
	return nil
}

// UpdateStats records stats without changing the phase; the next save persists them
func (m *Manager) UpdateStats(stats *models.SessionStats) {
	m.mu.Lock()
	m.checkpoint.Stats = *stats
	m.mu.Unlock()
}

// MarkComplete marks the batch as complete and saves synchronously
func (m *Manager) MarkComplete(stats *models.SessionStats) error {
	m.mu.Lock()
	m.checkpoint.CurrentPhase = models.PhaseComplete
	m.checkpoint.Stats = *stats
	m.mu.Unlock()

	return m.SaveSync()
}

// GetCheckpoint returns a copy of the current checkpoint
func (m *Manager) GetCheckpoint() *models.Checkpoint {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.copyCheckpoint()
}

// Close stops the async writer and waits for pending writes
func (m *Manager) Close() error {
	if !m.enabled {
		return nil
	}

	m.closeOnce.Do(func() {
		close(m.stopWriter)
		m.writeWg.Wait()
	})

	m.errorMu.Lock()
	defer m.errorMu.Unlock()
	return m.writerError
}

// computeConfigHash hashes the settings that decide what a batch produces.
// The seed and concurrency are left out so a resume may change them.
func computeConfigHash(cfg *config.Config) string {
	g := cfg.Generation
	data := fmt.Sprintf("%s:%d:%d:%t:%s:%d",
		g.Style,
		g.Stanzas,
		g.LinesPerStanza,
		g.UseRhyme,
		g.RhymeScheme,
		g.Count)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash[:8])
}
