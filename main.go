package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"ctapress/batch"
	"ctapress/catalog"
	"ctapress/config"
	"ctapress/ffmpeg"
	"ctapress/models"
	"ctapress/tui"
)

func main() {
	// Step 1: Load configuration (CLI flags > env > preferences > defaults)
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Verbose)

	// Step 2: Check that ffmpeg is available at all
	if err := ffmpeg.CheckInstalled(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	// Step 3: GPU is a request, not a promise; fall back to software
	// encoding when the installed ffmpeg has no NVENC support.
	if cfg.UseGPU && !ffmpeg.DetectNVENC() {
		logger.Warn().Msg("NVENC not available in this ffmpeg build, using software encoding")
		cfg.UseGPU = false
	}

	// Step 4: Scan the CTA library and expand the batch plan
	cat, err := catalog.Scan(cfg.CTARoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to scan CTA library: %v\n", err)
		os.Exit(1)
	}
	if cat.Len() == 0 {
		fmt.Fprintf(os.Stderr, "❌ No CTA clips found under %s\n", cfg.CTARoot)
		os.Exit(1)
	}
	logger.Info().
		Int("clips", cat.Len()).
		Strs("languages", cat.Languages()).
		Msg("CTA library scanned")
	for _, asset := range cat.Assets() {
		logger.Debug().
			Str("language", asset.Language).
			Str("type", asset.Type).
			Str("aspect", asset.AspectRatio).
			Str("path", asset.Path).
			Msg("CTA clip")
	}

	items := batch.Plan(cat, batch.PlanOptions{
		MainVideos: cfg.MainVideos,
		OutputRoot: cfg.OutputRoot,
		Overlay:    cfg.Overlay,
		UseGPU:     cfg.UseGPU,
	}, batch.ProbeVideo)

	// Step 5: Handle dry-run mode
	if cfg.DryRun {
		cfg.PrintConfig()
		fmt.Printf("\nPlanned commands (%d):\n", len(items))
		for _, item := range items {
			if item.Err != nil {
				fmt.Printf("  ✗ %v\n", item.Err)
				continue
			}
			cmdLine, err := item.Command.DryRun()
			if err != nil {
				fmt.Printf("  ✗ %s: %v\n", item.MainVideo, err)
				continue
			}
			fmt.Printf("  %s\n", cmdLine)
		}
		return
	}

	runner := batch.NewRunner(cfg.Workers, logger)

	// Step 6: Run, interactively or headless
	var results []*models.JobResult
	canceled := false
	if cfg.NoTUI {
		results, canceled = runHeadless(cfg, items, runner, logger)
	} else {
		final, err := tui.Run(cfg, items, runner)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ TUI error: %v\n", err)
			os.Exit(1)
		}
		results = final.Results()
		canceled = final.Canceled()
	}

	// Step 7: Remember the folders and settings for the next run
	if cfg.PrefsPath != "" {
		if err := config.SavePrefs(cfg.Prefs(), cfg.PrefsPath); err != nil {
			logger.Warn().Err(err).Msg("failed to save preferences")
		}
	}

	// Step 8: Report and pick the exit code
	succeeded, failed := batch.Summarize(results)
	report(results, succeeded, failed)

	if canceled && succeeded == 0 {
		os.Exit(130) // standard exit code for SIGINT
	}
	if succeeded == 0 && failed > 0 {
		os.Exit(1)
	}
}

// runHeadless executes the batch without the TUI; progress goes to the log.
// Ctrl+C cancels in-flight jobs through the context.
func runHeadless(cfg *config.Config, items []batch.Item, runner *batch.Runner, logger zerolog.Logger) ([]*models.JobResult, bool) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		logger.Warn().Msg("interrupt received, canceling remaining jobs")
		cancel()
	}()

	runner.SetProgressCallback(func(completed, total int, result *models.JobResult) {
		logger.Info().
			Int("completed", completed).
			Int("total", total).
			Msg("batch progress")
	})
	runner.SetJobProgressCallback(func(item batch.Item, progress *models.EncodingProgress) {
		logger.Debug().
			Str("video", item.MainVideo).
			Msg(progress.FormatSummary())
	})

	results := runner.Run(ctx, items)
	return results, ctx.Err() != nil
}

// report prints the per-job outcome summary.
func report(results []*models.JobResult, succeeded, failed int) {
	fmt.Printf("\n%d succeeded, %d failed\n", succeeded, failed)
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.Success {
			fmt.Printf("  ✓ %s\n", r.OutputPath)
		} else {
			fmt.Printf("  ✗ %s: %v\n", r.MainVideo, r.Error)
		}
	}
}

// newLogger builds the console logger; verbose enables debug output.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
