package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Engine holds the selection and assembly tuning knobs. The defaults come
// from the reference trailer profile; none of the exact values is load-bearing,
// only the bounds they create.
type Engine struct {
	// Share of the target duration reserved for the early/middle/late
	// narrative regions. Must sum to 1.0.
	EarlyShare  float64 `yaml:"early_share"`
	MiddleShare float64 `yaml:"middle_share"`
	LateShare   float64 `yaml:"late_share"`

	// OvershootFactor lets the last admitted scene slightly exceed the
	// budget instead of leaving a ragged gap.
	OvershootFactor float64 `yaml:"overshoot_factor"`
	// MinCoverage is the minimum acceptable selected duration as a share
	// of the target.
	MinCoverage float64 `yaml:"min_coverage"`

	EmotionWeight float64 `yaml:"emotion_weight"`
	LabelWeight   float64 `yaml:"label_weight"`

	// AvgSceneSeconds stands in for the true mean scene length when
	// converting region ratios to scene counts.
	AvgSceneSeconds float64 `yaml:"avg_scene_seconds"`
	FallbackScenes  int     `yaml:"fallback_scenes"`

	PrePadSeconds  float64 `yaml:"pre_pad_seconds"`
	PostPadSeconds float64 `yaml:"post_pad_seconds"`
	// NextGapShare caps the post-pad at this share of the gap to the next
	// scene so padding never bleeds into the upcoming clip.
	NextGapShare   float64 `yaml:"next_gap_share"`
	MinClipSeconds float64 `yaml:"min_clip_seconds"`
}

// Render holds settings for the external encoder step.
type Render struct {
	FPS          int     `yaml:"fps"`
	VideoEncoder string  `yaml:"video_encoder"`
	Quality      int     `yaml:"quality"`
	FadeSeconds  float64 `yaml:"fade_seconds"`
	OutputDir    string  `yaml:"output_dir"`
	// Workers bounds concurrent variant encodes; 0 means size from the
	// machine.
	Workers      int    `yaml:"workers"`
	ShareBaseURL string `yaml:"share_base_url"`
}

type Config struct {
	Engine Engine `yaml:"engine"`
	Render Render `yaml:"render"`
}

// Default returns the built-in trailer profile.
func Default() *Config {
	return &Config{
		Engine: Engine{
			EarlyShare:      0.30,
			MiddleShare:     0.40,
			LateShare:       0.30,
			OvershootFactor: 1.05,
			MinCoverage:     0.70,
			EmotionWeight:   0.15,
			LabelWeight:     0.10,
			AvgSceneSeconds: 10.0,
			FallbackScenes:  5,
			PrePadSeconds:   0.75,
			PostPadSeconds:  0.90,
			NextGapShare:    0.45,
			MinClipSeconds:  1.5,
		},
		Render: Render{
			FPS:          30,
			VideoEncoder: "libx264",
			Quality:      23,
			FadeSeconds:  0.5,
			OutputDir:    "output",
		},
	}
}

// Load reads a YAML preset over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays TRAILCUT_* environment variables. Only deployment-facing
// settings are exposed this way.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("TRAILCUT_OUTPUT_DIR"); v != "" {
		c.Render.OutputDir = v
	}
	if v := os.Getenv("TRAILCUT_ENCODER"); v != "" {
		c.Render.VideoEncoder = v
	}
	if v := os.Getenv("TRAILCUT_SHARE_BASE_URL"); v != "" {
		c.Render.ShareBaseURL = v
	}
	if v := os.Getenv("TRAILCUT_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Render.Workers = n
		}
	}
}

func (c *Config) Validate() error {
	e := c.Engine
	sum := e.EarlyShare + e.MiddleShare + e.LateShare
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("region shares must sum to 1.0, got %.3f", sum)
	}
	if e.OvershootFactor < 1.0 {
		return fmt.Errorf("overshoot_factor must be >= 1.0, got %.3f", e.OvershootFactor)
	}
	if e.MinCoverage < 0 || e.MinCoverage > 1.0 {
		return fmt.Errorf("min_coverage must be in [0,1], got %.3f", e.MinCoverage)
	}
	if e.MinClipSeconds <= 0 {
		return fmt.Errorf("min_clip_seconds must be positive, got %.3f", e.MinClipSeconds)
	}
	if e.AvgSceneSeconds <= 0 {
		return fmt.Errorf("avg_scene_seconds must be positive, got %.3f", e.AvgSceneSeconds)
	}
	return nil
}
