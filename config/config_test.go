package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Overlay != 4 {
		t.Errorf("Expected default overlay 4, got %v", cfg.Overlay)
	}
	if cfg.Workers != 1 {
		t.Errorf("Expected default workers 1, got %d", cfg.Workers)
	}
	if cfg.UseGPU {
		t.Error("Expected GPU off by default")
	}
}

func TestApplyPrefs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ApplyPrefs(Prefs{
		CTARoot:    "/ctas",
		OutputRoot: "/renders",
		Overlay:    6,
		UseGPU:     true,
	})

	if cfg.CTARoot != "/ctas" || cfg.OutputRoot != "/renders" {
		t.Errorf("Prefs folders not applied: %+v", cfg)
	}
	if cfg.Overlay != 6 {
		t.Errorf("Expected overlay 6, got %v", cfg.Overlay)
	}
	if !cfg.UseGPU {
		t.Error("Expected GPU toggle applied")
	}
}

func TestApplyPrefs_ZeroValuesIgnored(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CTARoot = "/existing"
	cfg.ApplyPrefs(Prefs{})

	if cfg.CTARoot != "/existing" {
		t.Errorf("Empty prefs must not clear settings, got %q", cfg.CTARoot)
	}
	if cfg.Overlay != 4 {
		t.Errorf("Empty prefs must not clear overlay, got %v", cfg.Overlay)
	}
}

func TestMergeFromEnv(t *testing.T) {
	t.Setenv("CTAPRESS_CTA_ROOT", "/env/ctas")
	t.Setenv("CTAPRESS_OUTPUT_ROOT", "/env/out")
	t.Setenv("CTAPRESS_OVERLAY", "2.5")
	t.Setenv("CTAPRESS_USE_GPU", "true")
	t.Setenv("CTAPRESS_WORKERS", "3")

	cfg := DefaultConfig()
	cfg.mergeFromEnv()

	if cfg.CTARoot != "/env/ctas" || cfg.OutputRoot != "/env/out" {
		t.Errorf("Env folders not applied: %+v", cfg)
	}
	if cfg.Overlay != 2.5 {
		t.Errorf("Expected overlay 2.5, got %v", cfg.Overlay)
	}
	if !cfg.UseGPU {
		t.Error("Expected GPU enabled from env")
	}
	if cfg.Workers != 3 {
		t.Errorf("Expected workers 3, got %d", cfg.Workers)
	}
}

func TestMergeFromEnv_BadValuesIgnored(t *testing.T) {
	t.Setenv("CTAPRESS_OVERLAY", "not-a-number")
	t.Setenv("CTAPRESS_WORKERS", "-2")

	cfg := DefaultConfig()
	cfg.mergeFromEnv()

	if cfg.Overlay != 4 {
		t.Errorf("Expected overlay to stay 4, got %v", cfg.Overlay)
	}
	if cfg.Workers != 1 {
		t.Errorf("Expected workers to stay 1, got %d", cfg.Workers)
	}
}

func createTempVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "video.mp4")
	if err := os.WriteFile(path, []byte("stub"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		config      func(t *testing.T) *Config
		expectError bool
		errorText   string
	}{
		{
			name: "valid config",
			config: func(t *testing.T) *Config {
				cfg := DefaultConfig()
				cfg.MainVideos = []string{createTempVideo(t)}
				cfg.CTARoot = t.TempDir()
				cfg.OutputRoot = "/tmp/out"
				return cfg
			},
		},
		{
			name: "no main videos",
			config: func(t *testing.T) *Config {
				cfg := DefaultConfig()
				cfg.CTARoot = t.TempDir()
				cfg.OutputRoot = "/tmp/out"
				return cfg
			},
			expectError: true,
			errorText:   "at least one main video",
		},
		{
			name: "missing main video",
			config: func(t *testing.T) *Config {
				cfg := DefaultConfig()
				cfg.MainVideos = []string{"/nonexistent/video.mp4"}
				cfg.CTARoot = t.TempDir()
				cfg.OutputRoot = "/tmp/out"
				return cfg
			},
			expectError: true,
			errorText:   "does not exist",
		},
		{
			name: "missing cta root",
			config: func(t *testing.T) *Config {
				cfg := DefaultConfig()
				cfg.MainVideos = []string{createTempVideo(t)}
				cfg.OutputRoot = "/tmp/out"
				return cfg
			},
			expectError: true,
			errorText:   "CTA root folder is required",
		},
		{
			name: "cta root is a file",
			config: func(t *testing.T) *Config {
				cfg := DefaultConfig()
				cfg.MainVideos = []string{createTempVideo(t)}
				cfg.CTARoot = createTempVideo(t)
				cfg.OutputRoot = "/tmp/out"
				return cfg
			},
			expectError: true,
			errorText:   "not a directory",
		},
		{
			name: "missing output",
			config: func(t *testing.T) *Config {
				cfg := DefaultConfig()
				cfg.MainVideos = []string{createTempVideo(t)}
				cfg.CTARoot = t.TempDir()
				return cfg
			},
			expectError: true,
			errorText:   "output folder is required",
		},
		{
			name: "zero overlay",
			config: func(t *testing.T) *Config {
				cfg := DefaultConfig()
				cfg.MainVideos = []string{createTempVideo(t)}
				cfg.CTARoot = t.TempDir()
				cfg.OutputRoot = "/tmp/out"
				cfg.Overlay = 0
				return cfg
			},
			expectError: true,
			errorText:   "overlay duration must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config(t).Validate()
			if tt.expectError {
				if err == nil {
					t.Fatal("Expected validation error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errorText) {
					t.Errorf("Expected error containing %q, got %v", tt.errorText, err)
				}
				return
			}
			if err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}
