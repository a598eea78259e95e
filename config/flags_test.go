package config

import "testing"

func TestMergeFromFlags(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.MergeFromFlags([]string{
		"-cta-root", "/ctas",
		"-output", "/renders",
		"-overlay", "6",
		"-workers", "4",
		"-gpu",
		"-verbose",
		"promo_a.mp4", "promo_b.mp4",
	})
	if err != nil {
		t.Fatalf("MergeFromFlags failed: %v", err)
	}

	if cfg.CTARoot != "/ctas" || cfg.OutputRoot != "/renders" {
		t.Errorf("Folders not applied: %+v", cfg)
	}
	if cfg.Overlay != 6 {
		t.Errorf("Expected overlay 6, got %v", cfg.Overlay)
	}
	if cfg.Workers != 4 {
		t.Errorf("Expected workers 4, got %d", cfg.Workers)
	}
	if !cfg.UseGPU {
		t.Error("Expected GPU enabled")
	}
	if !cfg.Verbose {
		t.Error("Expected verbose enabled")
	}
	if len(cfg.MainVideos) != 2 || cfg.MainVideos[0] != "promo_a.mp4" {
		t.Errorf("Expected positional videos, got %v", cfg.MainVideos)
	}
}

func TestMergeFromFlags_NoFlagsKeepsExisting(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CTARoot = "/from/prefs"
	cfg.Overlay = 5

	if err := cfg.MergeFromFlags(nil); err != nil {
		t.Fatalf("MergeFromFlags failed: %v", err)
	}

	if cfg.CTARoot != "/from/prefs" {
		t.Errorf("Unset flags must not clear settings, got %q", cfg.CTARoot)
	}
	if cfg.Overlay != 5 {
		t.Errorf("Unset overlay must keep existing value, got %v", cfg.Overlay)
	}
}

func TestMergeFromFlags_NoGPUWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseGPU = true // e.g. remembered from preferences

	if err := cfg.MergeFromFlags([]string{"-no-gpu", "promo.mp4"}); err != nil {
		t.Fatalf("MergeFromFlags failed: %v", err)
	}

	if cfg.UseGPU {
		t.Error("Expected -no-gpu to force software encoding")
	}
}

func TestMergeFromFlags_UnknownFlag(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.MergeFromFlags([]string{"-bogus"}); err == nil {
		t.Error("Expected error for unknown flag")
	}
}
