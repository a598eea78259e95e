package config

// Config holds all settings for a batch run.
//
// Configuration is explicit state assembled once at startup (flags > env >
// preferences file > defaults) and passed down; nothing reads ambient
// globals after that.
type Config struct {
	// User selections
	MainVideos []string `yaml:"-"` // positional arguments, never persisted
	CTARoot    string   `yaml:"cta_root"`
	OutputRoot string   `yaml:"output_root"`

	// Processing settings
	Overlay float64 `yaml:"overlay_seconds"` // seconds of tail replaced by the CTA
	UseGPU  bool    `yaml:"use_gpu"`         // request NVENC acceleration
	Workers int     `yaml:"workers"`         // parallel CPU jobs, 1 = sequential

	// Behavioral flags
	Verbose bool `yaml:"-"` // detailed logging
	DryRun  bool `yaml:"-"` // print the plan without invoking ffmpeg
	NoTUI   bool `yaml:"-"` // headless mode with log output only

	// PrefsPath is where preferences are read at start and written at exit.
	PrefsPath string `yaml:"-"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Overlay: 4, // matches the typical CTA clip length
		Workers: 1, // one external process at a time
	}
}

// Prefs is the subset of settings persisted between runs.
type Prefs struct {
	CTARoot    string  `yaml:"cta_root"`
	OutputRoot string  `yaml:"output_root"`
	Overlay    float64 `yaml:"overlay_seconds"`
	UseGPU     bool    `yaml:"use_gpu"`
}

// Prefs extracts the persistable preferences from the effective config.
func (c *Config) Prefs() Prefs {
	return Prefs{
		CTARoot:    c.CTARoot,
		OutputRoot: c.OutputRoot,
		Overlay:    c.Overlay,
		UseGPU:     c.UseGPU,
	}
}

// ApplyPrefs merges stored preferences into the config. Zero values are
// treated as "not recorded" and leave the current value alone.
func (c *Config) ApplyPrefs(p Prefs) {
	if p.CTARoot != "" {
		c.CTARoot = p.CTARoot
	}
	if p.OutputRoot != "" {
		c.OutputRoot = p.OutputRoot
	}
	if p.Overlay > 0 {
		c.Overlay = p.Overlay
	}
	if p.UseGPU {
		c.UseGPU = true
	}
}
