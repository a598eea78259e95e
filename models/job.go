package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Job represents one append operation: a main video, the CTA clip resolved
// for it, and the output path to produce.
//
// A Job is only constructed after the catalog has resolved a CTA asset for
// the main video's aspect ratio; an unresolvable combination never becomes
// a Job. Jobs are consumed once by the command builder and then discarded.
//
// Use NewJob to create a validated Job instance.
type Job struct {
	ID         string  `json:"id"`
	MainVideo  string  `json:"main_video"`
	CTAVideo   string  `json:"cta_video"`
	OutputPath string  `json:"output_path"`
	Language   string  `json:"language"`
	CTAType    string  `json:"cta_type"`
	Overlay    float64 `json:"overlay_seconds"` // seconds of tail replaced by the CTA
	UseGPU     bool    `json:"use_gpu"`
}

// NewJob creates a new Job with validation.
//
// Returns an error if the job parameters are invalid:
//   - MainVideo, CTAVideo and OutputPath cannot be empty or whitespace-only
//   - Overlay must be greater than 0
//
// Example:
//
//	job, err := models.NewJob("/in/main.mp4", "/cta/en/signup/signup_16x9.mp4", "/out/main_EN_S_16x9.mp4", "English", "Sign Up", 4, false)
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewJob(mainVideo, ctaVideo, outputPath, language, ctaType string, overlay float64, useGPU bool) (*Job, error) {
	j := &Job{
		ID:         uuid.New().String(),
		MainVideo:  mainVideo,
		CTAVideo:   ctaVideo,
		OutputPath: outputPath,
		Language:   language,
		CTAType:    ctaType,
		Overlay:    overlay,
		UseGPU:     useGPU,
	}
	if err := j.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job: %w", err)
	}
	return j, nil
}

// Validate checks if the Job has valid data.
func (j *Job) Validate() error {
	if strings.TrimSpace(j.MainVideo) == "" {
		return fmt.Errorf("main_video cannot be empty")
	}
	if strings.TrimSpace(j.CTAVideo) == "" {
		return fmt.Errorf("cta_video cannot be empty")
	}
	if strings.TrimSpace(j.OutputPath) == "" {
		return fmt.Errorf("output_path cannot be empty")
	}
	if j.Overlay <= 0 {
		return fmt.Errorf("overlay_seconds must be greater than 0")
	}
	return nil
}
