// Package command provides the core Command interface for building and
// executing FFmpeg invocations.
//
// Builders implement the interface, allowing the batch runner to process
// jobs agnostically. A command is always an ordered argument slice handed to
// exec.Command, never a shell string.
package command

import (
	"context"

	"ctapress/models"
)

// Command represents an FFmpeg invocation that can be built, executed, or
// previewed.
//
// The argument ordering contract is the sole correctness concern:
// input-scoped flags must precede the input they modify, output-scoped
// (encoder) flags must follow all inputs, and the output path comes last.
type Command interface {
	// BuildArgs constructs and returns the FFmpeg command arguments as a
	// slice suitable for exec.Command("ffmpeg", args...).
	BuildArgs() []string

	// Run executes the FFmpeg command and blocks until it completes.
	// Cancelling the context kills the external process and discards any
	// partial output. A nonzero exit is returned with the captured stderr.
	Run(ctx context.Context) error

	// DryRun returns the command as a display string without executing it.
	DryRun() (string, error)

	// GetInputPath returns the primary input file path for this command.
	GetInputPath() string

	// GetOutputPath returns the output file path for this command.
	GetOutputPath() string
}

// ProgressCommand is implemented by commands that can stream encoder
// progress while they run. The runner installs its per-job callback through
// this interface before invoking Run.
type ProgressCommand interface {
	Command

	// SetProgressCallback registers a callback invoked on every parsed
	// progress update during Run.
	SetProgressCallback(callback models.ProgressCallback)
}
