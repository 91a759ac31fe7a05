package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lamim/poetforge/internal/poet"
	"github.com/lamim/poetforge/internal/util"
	"github.com/lamim/poetforge/pkg/models"
)

func (o *Orchestrator) worker(
	ctx context.Context,
	workerID int,
	jobs <-chan models.GenerationJob,
	results chan<- models.GenerationResult,
	wg *sync.WaitGroup,
) {
	defer wg.Done()

	workerLogger := o.logger.With("worker_id", workerID)
	workerLogger.Debug("Worker started")

	// The engine's random source is not goroutine-safe, so each worker owns one
	engine := poet.New(o.store, poet.NewRand(o.workerSeed(workerID)), workerLogger, o.metrics)

	for job := range jobs {
		select {
		case <-ctx.Done():
			workerLogger.Info("Worker cancelled")
			return
		default:
		}

		startTime := time.Now()
		result := o.processJob(workerLogger, engine, job)
		result.Duration = time.Since(startTime)

		results <- result
	}

	workerLogger.Debug("Worker finished")
}

// workerSeed derives a per-worker seed; zero keeps entropy seeding
func (o *Orchestrator) workerSeed(workerID int) uint64 {
	if o.cfg.Generation.Seed == 0 {
		return 0
	}
	return o.cfg.Generation.Seed + uint64(workerID)
}

func (o *Orchestrator) processJob(
	logger *slog.Logger,
	engine *poet.Engine,
	job models.GenerationJob,
) models.GenerationResult {
	result := models.GenerationResult{Job: job}

	poem, err := engine.Generate(o.cfg.Generation.Options())
	if err != nil {
		result.Error = err
		return result
	}
	if err := validatePoem(poem); err != nil {
		logger.Warn("Generated poem failed validation",
			"job_id", job.ID,
			"reason", err,
			"first_line", util.TruncateString(poem.Lines[0], 30))
		result.Error = err
		return result
	}

	result.Record = &models.PoemRecord{
		ID:             uuid.New().String(),
		Style:          poem.Options.Style,
		Stanzas:        poem.Options.Stanzas,
		LinesPerStanza: poem.Options.LinesPerStanza,
		UseRhyme:       poem.Options.UseRhyme,
		RhymeScheme:    poem.Options.Scheme.String(),
		Lines:          poem.Lines,
		CreatedAt:      time.Now().UTC(),
	}

	logger.Debug("Poem generated", "job_id", job.ID, "lines", len(poem.Lines))
	return result
}

func (o *Orchestrator) collectResults(ctx context.Context, results <-chan models.GenerationResult, total int, wg *sync.WaitGroup) {
	defer wg.Done()

	bar := o.newProgressBar(total)
	style := o.cfg.Generation.Style

	for result := range results {
		o.stats.TotalDuration += result.Duration

		switch {
		case errors.Is(result.Error, ErrRejected):
			o.stats.RejectedCount++
			o.recordMetric(style, result.Duration, "rejected")
		case result.Error != nil:
			o.logger.Error("Job failed",
				"job_id", result.Job.ID,
				"error", result.Error)
			o.stats.FailureCount++
			o.recordMetric(style, result.Duration, "error")
		default:
			if err := o.archive(ctx, result.Record); err != nil {
				o.logger.Error("Failed to archive poem",
					"job_id", result.Job.ID,
					"error", err)
				o.stats.FailureCount++
				o.recordMetric(style, result.Duration, "error")
				break
			}
			o.stats.SuccessCount++
			o.recordMetric(style, result.Duration, "success")

			if o.checkpointMgr != nil {
				if err := o.checkpointMgr.MarkJobComplete(result.Job.ID, o.stats); err != nil {
					o.logger.Warn("Failed to checkpoint job", "job_id", result.Job.ID, "error", err)
				}
			}
			if o.onPoem != nil {
				o.onPoem(*result.Record)
			}
		}

		_ = bar.Add(1)
	}
	_ = bar.Finish()
}

// archive numbers, titles and writes a poem. Numbers are taken here, on the
// single collector goroutine, so the archive is written in counter order.
func (o *Orchestrator) archive(ctx context.Context, record *models.PoemRecord) error {
	number, err := o.counter.Next(ctx)
	if err != nil {
		return err
	}
	record.Number = number

	title, err := util.RenderTemplate(o.cfg.Output.TitleTemplate, map[string]any{
		"Number": number,
		"Style":  string(record.Style),
		"ID":     record.ID,
	})
	if err != nil {
		return err
	}
	record.Title = title

	return o.poemWriter.WriteRecord(*record)
}

func (o *Orchestrator) recordMetric(style string, d time.Duration, status string) {
	if o.metrics != nil {
		o.metrics.RecordPoem(style, d, status)
	}
}
