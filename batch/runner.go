// Package batch plans and executes append jobs against a discovered CTA
// catalog. Jobs run with partial-failure semantics: one failing job is
// recorded and the batch continues; the run always completes with a full
// per-job report.
package batch

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"ctapress/command"
	"ctapress/models"
)

// Item is one unit of batch work. Either Command is set (a runnable job) or
// Err records why no job could be constructed for this video/CTA
// combination; a planning failure is still part of the batch report.
type Item struct {
	ID        string
	MainVideo string
	Output    string
	UseGPU    bool
	Command   command.Command
	Err       error
}

// Runner executes batch items with bounded concurrency.
//
// CPU jobs may run on a small fixed worker pool; GPU jobs additionally hold
// a single hardware slot so only one accelerated encode runs at a time.
type Runner struct {
	workers int
	logger  zerolog.Logger

	// onProgress, when set, is invoked after every recorded result with the
	// running completed count.
	onProgress func(completed, total int, result *models.JobResult)

	// onJobProgress, when set, receives streamed encoder progress for the
	// item currently running.
	onJobProgress func(item Item, progress *models.EncodingProgress)
}

// NewRunner creates a runner with the given CPU worker count (minimum 1).
func NewRunner(workers int, logger zerolog.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{workers: workers, logger: logger}
}

// SetProgressCallback sets a callback for per-job completion updates.
func (r *Runner) SetProgressCallback(callback func(completed, total int, result *models.JobResult)) {
	r.onProgress = callback
}

// SetJobProgressCallback sets a callback for ffmpeg progress updates from
// the job currently encoding. It is installed on every command that
// implements command.ProgressCommand.
func (r *Runner) SetJobProgressCallback(callback func(item Item, progress *models.EncodingProgress)) {
	r.onJobProgress = callback
}

// Run processes all items and returns one result per item, in item order.
//
// Cancelling the context stops new jobs from launching and kills in-flight
// ffmpeg processes; unstarted and interrupted jobs are recorded as failures
// so the report stays complete.
func (r *Runner) Run(ctx context.Context, items []Item) []*models.JobResult {
	results := make([]*models.JobResult, len(items))

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		completed int
	)

	record := func(i int, result *models.JobResult) {
		mu.Lock()
		defer mu.Unlock()
		results[i] = result
		completed++
		if r.onProgress != nil {
			r.onProgress(completed, len(items), result)
		}
	}

	cpuSlots := make(chan struct{}, r.workers)
	gpuSlot := make(chan struct{}, 1)

	for i, item := range items {
		// planning failures are recorded without launching anything
		if item.Err != nil {
			r.logger.Warn().Str("job", item.ID).Str("video", item.MainVideo).
				Err(item.Err).Msg("job skipped")
			result, _ := models.NewJobResultFailure(item.ID, item.MainVideo, item.Err)
			record(i, result)
			continue
		}

		select {
		case <-ctx.Done():
			result, _ := models.NewJobResultFailure(item.ID, item.MainVideo,
				fmt.Errorf("not started: %w", ctx.Err()))
			record(i, result)
			continue
		case cpuSlots <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, item Item) {
			defer wg.Done()
			defer func() { <-cpuSlots }()

			if item.UseGPU {
				select {
				case <-ctx.Done():
					result, _ := models.NewJobResultFailure(item.ID, item.MainVideo,
						fmt.Errorf("not started: %w", ctx.Err()))
					record(i, result)
					return
				case gpuSlot <- struct{}{}:
					defer func() { <-gpuSlot }()
				}
			}

			record(i, r.runOne(ctx, item))
		}(i, item)
	}

	wg.Wait()
	return results
}

// runOne executes a single item's command and converts the outcome into a
// JobResult. Errors never propagate past the job boundary.
func (r *Runner) runOne(ctx context.Context, item Item) *models.JobResult {
	r.logger.Info().Str("job", item.ID).Str("video", item.MainVideo).
		Str("output", item.Output).Bool("gpu", item.UseGPU).Msg("job started")

	if pc, ok := item.Command.(command.ProgressCommand); ok && r.onJobProgress != nil {
		pc.SetProgressCallback(func(progress *models.EncodingProgress) {
			r.onJobProgress(item, progress)
		})
	}

	if err := item.Command.Run(ctx); err != nil {
		r.logger.Error().Str("job", item.ID).Str("video", item.MainVideo).
			Err(err).Msg("job failed")
		result, _ := models.NewJobResultFailure(item.ID, item.MainVideo, err)
		return result
	}

	r.logger.Info().Str("job", item.ID).Str("output", item.Output).Msg("job completed")
	result, _ := models.NewJobResultSuccess(item.ID, item.MainVideo, item.Output)
	return result
}

// Summarize counts successes and failures in a result set.
func Summarize(results []*models.JobResult) (succeeded, failed int) {
	for _, result := range results {
		if result == nil {
			continue
		}
		if result.Success {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
