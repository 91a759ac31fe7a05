package models

import "time"

// CheckpointPhase represents the current phase of generation
type CheckpointPhase string

const (
	PhasePoems    CheckpointPhase = "poems"
	PhaseComplete CheckpointPhase = "complete"
)

// Checkpoint represents the saved state of a generation session
type Checkpoint struct {
	// Session identification
	SessionID   string    `json:"session_id"`    // UUID for this session
	CreatedAt   time.Time `json:"created_at"`    // When session started
	LastSavedAt time.Time `json:"last_saved_at"` // Last checkpoint time

	CurrentPhase CheckpointPhase `json:"current_phase"`

	// Batch tracking
	TotalJobs       int          `json:"total_jobs"`
	CompletedJobIDs map[int]bool `json:"completed_job_ids"` // job_id -> true

	// Statistics (cumulative)
	Stats SessionStats `json:"stats"`

	// Configuration snapshot (for validation)
	ConfigHash string `json:"config_hash"` // SHA256 of generation settings for mismatch detection
}
