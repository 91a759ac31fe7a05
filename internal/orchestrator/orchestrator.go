// Package orchestrator runs batches of poem generations across a worker pool.
package orchestrator

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/lamim/poetforge/internal/checkpoint"
	"github.com/lamim/poetforge/internal/config"
	"github.com/lamim/poetforge/internal/counter"
	"github.com/lamim/poetforge/internal/lexicon"
	"github.com/lamim/poetforge/internal/metrics"
	"github.com/lamim/poetforge/pkg/models"
)

// PoemSink receives archived poems
type PoemSink interface {
	WriteRecord(record models.PoemRecord) error
}

// Orchestrator manages a batch generation session
type Orchestrator struct {
	cfg           *config.Config
	store         lexicon.Store
	counter       counter.Counter
	poemWriter    PoemSink
	checkpointMgr *checkpoint.Manager
	metrics       *metrics.Collector
	logger        *slog.Logger
	stats         *models.SessionStats
	resumeMode    bool

	// nil = default progress bar on stdout
	progressOut io.Writer

	// called from the collector goroutine
	onPoem func(models.PoemRecord)
}

// New creates a new orchestrator. checkpointMgr and collector may be nil.
func New(
	cfg *config.Config,
	store lexicon.Store,
	poemCounter counter.Counter,
	poemWriter PoemSink,
	checkpointMgr *checkpoint.Manager,
	collector *metrics.Collector,
	resumeMode bool,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}

	stats := &models.SessionStats{
		StartTime:  time.Now(),
		TotalPoems: cfg.Generation.Count,
	}

	// In resume mode, restore stats from checkpoint
	if resumeMode && checkpointMgr != nil {
		cp := checkpointMgr.GetCheckpoint()
		stats = &cp.Stats
		stats.StartTime = time.Now()
		stats.TotalPoems = cp.TotalJobs
	}

	return &Orchestrator{
		cfg:           cfg,
		store:         store,
		counter:       poemCounter,
		poemWriter:    poemWriter,
		checkpointMgr: checkpointMgr,
		metrics:       collector,
		logger:        logger,
		stats:         stats,
		resumeMode:    resumeMode,
	}
}

// SetProgressOutput redirects the progress bar; io.Discard silences it
func (o *Orchestrator) SetProgressOutput(w io.Writer) {
	o.progressOut = w
}

// OnPoem registers a callback invoked for every archived poem
func (o *Orchestrator) OnPoem(fn func(models.PoemRecord)) {
	o.onPoem = fn
}

// Run generates every pending poem of the batch
func (o *Orchestrator) Run(ctx context.Context) (err error) {
	defer func() {
		if o.checkpointMgr == nil {
			return
		}
		if saveErr := o.checkpointMgr.SaveSync(); saveErr != nil {
			o.logger.Error("Failed to save final checkpoint", "error", saveErr)
			if err == nil {
				err = saveErr
			}
		}
		if closeErr := o.checkpointMgr.Close(); closeErr != nil {
			o.logger.Error("Failed to close checkpoint manager", "error", closeErr)
			if err == nil {
				err = closeErr
			}
		}
	}()

	jobs := o.pendingJobs()

	o.logger.Info("Starting poem generation",
		"style", o.cfg.Generation.Style,
		"stanzas", o.cfg.Generation.Stanzas,
		"lines_per_stanza", o.cfg.Generation.LinesPerStanza,
		"use_rhyme", o.cfg.Generation.UseRhyme,
		"rhyme_scheme", o.cfg.Generation.RhymeScheme,
		"pending", len(jobs),
		"total", o.stats.TotalPoems,
		"resume_mode", o.resumeMode)

	o.generatePoems(ctx, jobs)

	o.stats.EndTime = time.Now()
	if o.stats.SuccessCount > 0 {
		o.stats.AverageDuration = o.stats.TotalDuration / time.Duration(o.stats.SuccessCount)
	}

	if err := ctx.Err(); err != nil {
		o.logger.Warn("Generation interrupted", "completed", o.stats.SuccessCount)
		return err
	}

	if o.checkpointMgr != nil {
		o.finishCheckpoint()
	}

	o.logger.Info("Generation complete",
		"success", o.stats.SuccessCount,
		"failed", o.stats.FailureCount,
		"rejected", o.stats.RejectedCount,
		"duration", o.stats.EndTime.Sub(o.stats.StartTime))
	return nil
}

// finishCheckpoint marks the batch complete only when every job archived a
// poem; failed and rejected jobs stay pending so a resume retries them.
func (o *Orchestrator) finishCheckpoint() {
	if remaining := len(checkpoint.GetPendingJobs(o.checkpointMgr.GetCheckpoint())); remaining > 0 {
		o.checkpointMgr.UpdateStats(o.stats)
		o.logger.Warn("Batch finished with unarchived poems - resume to retry them",
			"pending", remaining,
			"failed", o.stats.FailureCount,
			"rejected", o.stats.RejectedCount)
		return
	}
	if err := o.checkpointMgr.MarkComplete(o.stats); err != nil {
		o.logger.Error("Failed to mark checkpoint complete", "error", err)
	}
}

func (o *Orchestrator) pendingJobs() []models.GenerationJob {
	if o.resumeMode && o.checkpointMgr != nil {
		return checkpoint.GetPendingJobs(o.checkpointMgr.GetCheckpoint())
	}
	jobs := make([]models.GenerationJob, o.cfg.Generation.Count)
	for i := range jobs {
		jobs[i] = models.GenerationJob{ID: i}
	}
	return jobs
}

func (o *Orchestrator) generatePoems(ctx context.Context, jobs []models.GenerationJob) {
	concurrency := min(o.cfg.Generation.Concurrency, max(len(jobs), 1))
	o.logger.Info("Generating poems", "total_jobs", len(jobs), "concurrency", concurrency)

	jobsChan := make(chan models.GenerationJob, len(jobs))
	resultsChan := make(chan models.GenerationResult, len(jobs))

	if o.metrics != nil {
		o.metrics.SetActiveWorkers(concurrency)
		defer o.metrics.SetActiveWorkers(0)
	}

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go o.worker(ctx, i, jobsChan, resultsChan, &wg)
	}

	for _, job := range jobs {
		jobsChan <- job
	}
	close(jobsChan)

	var collectorWg sync.WaitGroup
	collectorWg.Add(1)
	go o.collectResults(ctx, resultsChan, len(jobs), &collectorWg)

	wg.Wait()
	close(resultsChan)

	collectorWg.Wait()
}

func (o *Orchestrator) newProgressBar(total int) *progressbar.ProgressBar {
	if o.progressOut == nil {
		return progressbar.Default(int64(total), "Generating poems")
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(o.progressOut),
		progressbar.OptionSetDescription("Generating poems"))
}

// GetStats returns the session statistics
func (o *Orchestrator) GetStats() *models.SessionStats {
	return o.stats
}
