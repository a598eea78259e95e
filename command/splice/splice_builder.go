// Package splice builds the FFmpeg command that replaces the tail of a main
// video with a CTA clip while keeping the original audio untouched.
package splice

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"ctapress/command"
	"ctapress/ffmpeg"
	"ctapress/ffprobe"
	"ctapress/models"
)

// SpliceBuilder implements command.Command for the tail-replace operation.
//
// The main video is split at duration-overlay: the head passes through, the
// tail is overlaid with the CTA clip (scaled and padded to the main video's
// dimensions), and both are concatenated. Audio is mapped from the main
// input and stream-copied.
type SpliceBuilder struct {
	job  *models.Job
	info ffprobe.VideoInfo

	// CPU encoder settings
	codec  string
	preset string
	crf    int

	// GPU encoder settings
	gpuCodec  string
	gpuPreset string
	qp        int

	progressCallback models.ProgressCallback
}

// NewSpliceBuilder creates a builder for one job. info carries the probed
// dimensions, frame rate and duration of the job's main video.
func NewSpliceBuilder(job *models.Job, info ffprobe.VideoInfo) *SpliceBuilder {
	return &SpliceBuilder{
		job:       job,
		info:      info,
		codec:     "libx264",
		preset:    "medium",
		crf:       23,
		gpuCodec:  "h264_nvenc",
		gpuPreset: "p4",
		qp:        23,
	}
}

// SetProgressCallback sets a callback for progress updates during Run.
func (a *SpliceBuilder) SetProgressCallback(callback models.ProgressCallback) {
	a.progressCallback = callback
}

// TailStart returns the point, in seconds, where the CTA overlay begins.
func (a *SpliceBuilder) TailStart() float64 {
	start := a.info.Duration - a.job.Overlay
	if start < 0 {
		return 0
	}
	return start
}

// BuildArgs constructs the ffmpeg arguments.
//
// Ordering contract: input-scoped flags (-hwaccel, -accurate_seek)
// immediately precede the input they modify; all output-scoped flags
// (-filter_complex, -map, codec selection, -r) follow the last input; the
// output path is always last.
func (a *SpliceBuilder) BuildArgs() []string {
	args := []string{"-y"}

	// input-level options, then inputs
	if a.job.UseGPU {
		args = append(args, "-hwaccel", "cuda")
	}
	args = append(args, "-i", a.job.MainVideo)
	args = append(args, "-accurate_seek", "-i", a.job.CTAVideo)

	// filter graph, stream mapping, audio copy when the main video has any
	args = append(args,
		"-filter_complex", a.buildFilterGraph(),
		"-map", "[outv]",
	)
	if a.info.HasAudio {
		args = append(args, "-map", "0:a", "-c:a", "copy")
	}

	// encoder (output) options
	if a.job.UseGPU {
		args = append(args,
			"-c:v", a.gpuCodec,
			"-preset", a.gpuPreset,
			"-qp", fmt.Sprintf("%d", a.qp),
		)
	} else {
		args = append(args,
			"-c:v", a.codec,
			"-preset", a.preset,
			"-crf", fmt.Sprintf("%d", a.crf),
		)
	}

	if a.info.FrameRate > 0 {
		args = append(args, "-r", fmt.Sprintf("%g", a.info.FrameRate))
	}

	args = append(args, a.job.OutputPath)
	return args
}

// buildFilterGraph constructs the tail-replace filter graph. The main video
// is split into head and tail, the CTA clip is trimmed to the overlay
// duration and fitted to the main dimensions, the tail is overlaid, and the
// head and overlaid tail are concatenated.
func (a *SpliceBuilder) buildFilterGraph() string {
	start := a.TailStart()
	w, h := a.info.Width, a.info.Height

	return strings.Join([]string{
		"[0:v]split=2[v1][v2]",
		fmt.Sprintf("[v1]trim=0:%g,setpts=PTS-STARTPTS[head]", start),
		fmt.Sprintf("[v2]trim=%g,setpts=PTS-STARTPTS[tail]", start),
		fmt.Sprintf("[1:v]trim=0:%g,setpts=PTS-STARTPTS,scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2[cta]",
			a.job.Overlay, w, h, w, h),
		"[tail][cta]overlay=shortest=1[overlaid]",
		"[head][overlaid]concat=n=2:v=1:a=0[outv]",
	}, ";")
}

// Run executes the ffmpeg command. A nonzero exit is returned verbatim with
// the captured stderr; when the context is cancelled the process is killed
// and the partial output file is removed.
func (a *SpliceBuilder) Run(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(a.job.OutputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	args := a.BuildArgs()
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stdin = nil

	var stderrBuf bytes.Buffer

	if a.progressCallback == nil {
		cmd.Stderr = &stderrBuf
		err := cmd.Run()
		return a.finish(ctx, err, &stderrBuf)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to get stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	progress := models.NewEncodingProgress(a.info.Duration)
	progress.State = models.ProgressStateStarting

	parser := ffmpeg.NewProgressParser()
	// Ignore parse errors; the exit code decides success.
	_ = parser.StreamProgress(io.TeeReader(stderr, &stderrBuf), progress, a.progressCallback)

	return a.finish(ctx, cmd.Wait(), &stderrBuf)
}

// finish interprets the process exit, cleaning up partial output on
// cancellation or failure.
func (a *SpliceBuilder) finish(ctx context.Context, runErr error, stderrBuf *bytes.Buffer) error {
	if ctx.Err() != nil {
		os.Remove(a.job.OutputPath)
		return fmt.Errorf("cancelled: %w", ctx.Err())
	}

	if runErr != nil {
		os.Remove(a.job.OutputPath)
		return fmt.Errorf("ffmpeg failed: %w\nstderr: %s", runErr, tail(stderrBuf.String(), 2048))
	}

	if _, err := os.Stat(a.job.OutputPath); err != nil {
		return fmt.Errorf("ffmpeg exited cleanly but produced no output at %s", a.job.OutputPath)
	}

	return nil
}

// DryRun returns the command that would be executed without running it.
func (a *SpliceBuilder) DryRun() (string, error) {
	return "ffmpeg " + strings.Join(a.BuildArgs(), " "), nil
}

// GetInputPath returns the main video path.
func (a *SpliceBuilder) GetInputPath() string {
	return a.job.MainVideo
}

// GetOutputPath returns the output file path.
func (a *SpliceBuilder) GetOutputPath() string {
	return a.job.OutputPath
}

// tail returns at most n trailing bytes of s; ffmpeg banners can be long
// and the useful error is at the end.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}

var _ command.ProgressCommand = (*SpliceBuilder)(nil)
