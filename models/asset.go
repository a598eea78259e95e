// Package models provides core data structures for the CTA batch processor.
package models

// Asset identifies a discovered CTA clip.
//
// Assets are discovered by scanning the CTA root folder, never declared by
// hand, and are immutable once discovered for the duration of a run.
type Asset struct {
	Language    string `json:"language"`
	Type        string `json:"type"`
	AspectRatio string `json:"aspect_ratio"` // filename form, e.g. "16x9"
	Path        string `json:"path"`
}
