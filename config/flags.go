package config

import (
	"flag"
	"fmt"
	"os"
)

// MergeFromFlags parses command-line flags and overrides config values.
// Remaining positional arguments are the main videos to process.
func (c *Config) MergeFromFlags(args []string) error {
	fs := flag.NewFlagSet("ctapress", flag.ContinueOnError)
	fs.Usage = printUsage

	ctaRoot := fs.String("cta-root", "", "CTA library root folder (layout: <root>/<Language>/<CTAType>/)")
	outputRoot := fs.String("output", "", "Output root folder")
	overlay := fs.Float64("overlay", -1, "Seconds of the main video tail replaced by the CTA")
	workers := fs.Int("workers", -1, "Parallel CPU jobs (1 = sequential)")

	gpu := fs.Bool("gpu", false, "Use NVENC acceleration if the installed ffmpeg supports it")
	noGPU := fs.Bool("no-gpu", false, "Force software encoding")

	verbose := fs.Bool("verbose", false, "Enable verbose logging")
	dryRun := fs.Bool("dry-run", false, "Print the batch plan and commands without running ffmpeg")
	noTUI := fs.Bool("no-tui", false, "Run headless with log output only")

	// handled by LoadConfig before flag parsing; declared so it shows in usage
	_ = fs.String("prefs", "", "Preferences file path (default: ~/.ctapress/prefs.yaml)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *ctaRoot != "" {
		c.CTARoot = *ctaRoot
	}
	if *outputRoot != "" {
		c.OutputRoot = *outputRoot
	}
	if *overlay > 0 {
		c.Overlay = *overlay
	}
	if *workers > 0 {
		c.Workers = *workers
	}

	if *gpu {
		c.UseGPU = true
	}
	if *noGPU {
		c.UseGPU = false
	}

	if *verbose {
		c.Verbose = true
	}
	if *dryRun {
		c.DryRun = true
	}
	if *noTUI {
		c.NoTUI = true
	}

	if fs.NArg() > 0 {
		c.MainVideos = fs.Args()
	}

	return nil
}

// printUsage prints help text.
func printUsage() {
	fmt.Fprintf(os.Stderr, `ctapress - batch-append CTA clips onto main videos

USAGE:
  ctapress [OPTIONS] VIDEO [VIDEO...]

The CTA library follows the folder convention
  <root>/<Language>/<CTAType>/<CTAType>_<Aspect>.mp4
(e.g. English/Sign Up/Sign Up_16x9.mp4). Every main video is combined
with every language and CTA type whose clip matches the video's aspect
ratio; outputs land in <output>/<Language>/<CTAType>/.

OPTIONS:
  -cta-root string
        CTA library root folder
  -output string
        Output root folder
  -overlay float
        Seconds of the main video tail replaced by the CTA (default 4)
  -workers int
        Parallel CPU jobs, 1 = sequential (default 1)
  -gpu
        Use NVENC acceleration if the installed ffmpeg supports it
  -no-gpu
        Force software encoding
  -prefs string
        Preferences file path (default: ~/.ctapress/prefs.yaml)
  -verbose
        Enable verbose logging
  -dry-run
        Print the batch plan and commands without running ffmpeg
  -no-tui
        Run headless with log output only

ENVIRONMENT:
  CTAPRESS_CTA_ROOT, CTAPRESS_OUTPUT_ROOT, CTAPRESS_OVERLAY,
  CTAPRESS_USE_GPU, CTAPRESS_WORKERS
  (a .env file in the working directory is loaded automatically)

Priority: CLI flags > environment > preferences file > defaults.
The CTA root, output root, overlay and GPU toggle are remembered in the
preferences file at exit.

EXAMPLES:
  # process two videos against the CTA library
  ctapress -cta-root ~/CTAs -output ~/renders promo_a.mp4 promo_b.mp4

  # GPU run, folders remembered from the previous run
  ctapress -gpu promo.mp4

  # inspect the commands without encoding
  ctapress -dry-run promo.mp4

`)
}
