package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadConfig assembles the effective configuration with priority:
// CLI flags > environment (.env) > preferences file > defaults.
func LoadConfig() (*Config, error) {
	// 1. Start with defaults
	cfg := DefaultConfig()

	// 2. Preferences file: honor an explicit -prefs flag (quick parse, the
	// real flag parsing happens later), else the standard location.
	cfg.PrefsPath = DefaultPrefsPath()
	for i, arg := range os.Args {
		if arg == "-prefs" && i+1 < len(os.Args) {
			cfg.PrefsPath = os.Args[i+1]
			break
		}
	}
	if cfg.PrefsPath != "" {
		prefs, err := LoadPrefs(cfg.PrefsPath)
		if err != nil {
			return nil, err
		}
		cfg.ApplyPrefs(prefs)
	}

	// 3. Environment overrides; a .env next to the binary is convenient for
	// pinning the CTA library location per machine.
	_ = godotenv.Load()
	cfg.mergeFromEnv()

	// 4. CLI flags (highest priority, overwrites everything)
	if err := cfg.MergeFromFlags(os.Args[1:]); err != nil {
		return nil, err
	}

	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeFromEnv overrides settings from CTAPRESS_* environment variables.
func (c *Config) mergeFromEnv() {
	if v := os.Getenv("CTAPRESS_CTA_ROOT"); v != "" {
		c.CTARoot = v
	}
	if v := os.Getenv("CTAPRESS_OUTPUT_ROOT"); v != "" {
		c.OutputRoot = v
	}
	if v := os.Getenv("CTAPRESS_OVERLAY"); v != "" {
		if overlay, err := strconv.ParseFloat(v, 64); err == nil && overlay > 0 {
			c.Overlay = overlay
		}
	}
	if v := os.Getenv("CTAPRESS_USE_GPU"); v != "" {
		if useGPU, err := strconv.ParseBool(v); err == nil {
			c.UseGPU = useGPU
		}
	}
	if v := os.Getenv("CTAPRESS_WORKERS"); v != "" {
		if workers, err := strconv.Atoi(v); err == nil && workers > 0 {
			c.Workers = workers
		}
	}
}

// PrintConfig prints the effective configuration for dry runs.
func (c *Config) PrintConfig() {
	fmt.Println("Effective configuration:")
	fmt.Printf("  CTA root:    %s\n", c.CTARoot)
	fmt.Printf("  Output root: %s\n", c.OutputRoot)
	fmt.Printf("  Overlay:     %.1fs\n", c.Overlay)
	fmt.Printf("  GPU:         %v\n", c.UseGPU)
	fmt.Printf("  Workers:     %d\n", c.Workers)
	fmt.Printf("  Videos:      %d\n", len(c.MainVideos))
	for _, video := range c.MainVideos {
		fmt.Printf("    %s\n", video)
	}
}
