package config

import (
	"fmt"
	"os"
	"strings"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errors []string

	if len(c.MainVideos) == 0 {
		errors = append(errors, "at least one main video is required")
	}
	for _, video := range c.MainVideos {
		if _, err := os.Stat(video); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("main video does not exist: %s", video))
		}
	}

	if c.CTARoot == "" {
		errors = append(errors, "CTA root folder is required (-cta-root)")
	} else if info, err := os.Stat(c.CTARoot); os.IsNotExist(err) {
		errors = append(errors, fmt.Sprintf("CTA root does not exist: %s", c.CTARoot))
	} else if err == nil && !info.IsDir() {
		errors = append(errors, fmt.Sprintf("CTA root is not a directory: %s", c.CTARoot))
	}

	if c.OutputRoot == "" {
		errors = append(errors, "output folder is required (-output)")
	}

	if c.Overlay <= 0 {
		errors = append(errors, "overlay duration must be positive")
	}

	if c.Workers < 1 {
		errors = append(errors, "workers must be at least 1")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}
