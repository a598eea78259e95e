package models

import (
	"fmt"
	"strings"
)

// JobResult represents the outcome of processing a single job.
//
// This structure tracks both successful and failed append operations. It
// enforces logical consistency: successful results must have an output path
// and no error, while failed results must have an error and no output path.
// A failed job never aborts the batch; its result is recorded and the next
// job runs.
//
// Use NewJobResultSuccess or NewJobResultFailure to create validated instances.
type JobResult struct {
	JobID      string `json:"job_id"`
	MainVideo  string `json:"main_video"`
	OutputPath string `json:"output_path"`
	Success    bool   `json:"success"`
	Error      error  `json:"error"`
}

// NewJobResultSuccess creates a successful JobResult with validation.
//
// Returns an error if outputPath is empty or whitespace-only.
func NewJobResultSuccess(jobID, mainVideo, outputPath string) (*JobResult, error) {
	jr := &JobResult{
		JobID:      jobID,
		MainVideo:  mainVideo,
		OutputPath: outputPath,
		Success:    true,
		Error:      nil,
	}
	if err := jr.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job result: %w", err)
	}
	return jr, nil
}

// NewJobResultFailure creates a failed JobResult with validation.
//
// The error parameter must not be nil: a skipped or failed job always
// carries its reported reason.
func NewJobResultFailure(jobID, mainVideo string, jobError error) (*JobResult, error) {
	if jobError == nil {
		return nil, fmt.Errorf("invalid job result: error cannot be nil for failed result")
	}
	return &JobResult{
		JobID:     jobID,
		MainVideo: mainVideo,
		Success:   false,
		Error:     jobError,
	}, nil
}

// Validate checks if the JobResult has consistent state.
//
// Returns an error if:
//   - Success is true but Error is not nil (inconsistent)
//   - Success is false but Error is nil (must have a reported reason)
//   - Success is true but OutputPath is empty (must have output)
//   - Success is false but OutputPath is set (shouldn't have output)
func (jr *JobResult) Validate() error {
	if jr.Success && jr.Error != nil {
		return fmt.Errorf("inconsistent state: Success is true but Error is not nil")
	}
	if !jr.Success && jr.Error == nil {
		return fmt.Errorf("failed result must have an error")
	}
	if jr.Success && strings.TrimSpace(jr.OutputPath) == "" {
		return fmt.Errorf("output_path cannot be empty for successful result")
	}
	if !jr.Success && strings.TrimSpace(jr.OutputPath) != "" {
		return fmt.Errorf("failed result should not have output_path")
	}
	return nil
}
