package checkpoint

import (
	"fmt"

	"github.com/lamim/poetforge/internal/config"
	"github.com/lamim/poetforge/pkg/models"
)

// ValidateCheckpoint verifies checkpoint is compatible with current config
func ValidateCheckpoint(cp *models.Checkpoint, cfg *config.Config) error {
	expectedHash := computeConfigHash(cfg)
	if cp.ConfigHash != expectedHash {
		return fmt.Errorf("checkpoint config mismatch: checkpoint was created with different poem settings (hash: %s vs %s)", cp.ConfigHash, expectedHash)
	}

	if cp.CurrentPhase == models.PhaseComplete {
		return fmt.Errorf("checkpoint is already complete, nothing to resume")
	}

	return nil
}

// GetPendingJobs returns the jobs that still need processing, in ID order
func GetPendingJobs(cp *models.Checkpoint) []models.GenerationJob {
	var pending []models.GenerationJob
	for id := 0; id < cp.TotalJobs; id++ {
		if !cp.CompletedJobIDs[id] {
			pending = append(pending, models.GenerationJob{ID: id})
		}
	}
	return pending
}

// GetCompletedCount returns the number of completed jobs
func GetCompletedCount(cp *models.Checkpoint) int {
	return len(cp.CompletedJobIDs)
}

// GetTotalCount returns the total number of jobs
func GetTotalCount(cp *models.Checkpoint) int {
	return cp.TotalJobs
}

// GetProgressPercentage returns completion percentage
func GetProgressPercentage(cp *models.Checkpoint) float64 {
	total := GetTotalCount(cp)
	if total == 0 {
		return 0.0
	}
	completed := GetCompletedCount(cp)
	return float64(completed) / float64(total) * 100.0
}
