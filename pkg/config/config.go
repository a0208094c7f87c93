// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port int `env:"PORT, default=8080" json:"port"`

	// Video library settings. VideoPaths is a comma-separated list of
	// root directories to index.
	VideoPaths string `env:"VIDEO_PATHS, default=/videos/source1,/videos/source2,/videos/source3" json:"video_paths"`

	// Output settings
	OutputPath string `env:"OUTPUT_PATH, default=/output" json:"output_path"`
	FontsDir   string `env:"FONTS_DIR, default=/fonts" json:"fonts_dir"`

	// Frame cache settings
	CacheDir         string `env:"CACHE_DIR, default=/tmp/poster_cache" json:"cache_dir"`
	MaxCacheSizeMB   int    `env:"MAX_CACHE_SIZE_MB, default=500" json:"max_cache_size_mb"`
	PreviewMaxWidth  int    `env:"PREVIEW_MAX_WIDTH, default=640" json:"preview_max_width"`
	ThumbnailQuality int    `env:"THUMBNAIL_QUALITY, default=85" json:"thumbnail_quality"`

	// Poster dimensions (Plex standard)
	PosterWidth  int `env:"POSTER_WIDTH, default=1000" json:"poster_width"`
	PosterHeight int `env:"POSTER_HEIGHT, default=1500" json:"poster_height"`

	// ffmpeg settings. Empty paths trigger binary discovery.
	FFmpegPath            string `env:"FFMPEG_PATH" json:"ffmpeg_path,omitempty"`
	FFprobePath           string `env:"FFPROBE_PATH" json:"ffprobe_path,omitempty"`
	MaxConcurrentExtracts int    `env:"MAX_CONCURRENT_EXTRACTS, default=4" json:"max_concurrent_extracts"`

	// Logging settings
	LogLevel string `env:"LOG_LEVEL, default=info" json:"log_level"` // "debug", "info", "warn", "error"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(ctx, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges that envconfig cannot express.
func (c *Config) Validate() error {
	if c.PosterWidth <= 0 || c.PosterHeight <= 0 {
		return fmt.Errorf("config: poster dimensions must be positive, got %dx%d", c.PosterWidth, c.PosterHeight)
	}
	if c.MaxCacheSizeMB <= 0 {
		return fmt.Errorf("config: MAX_CACHE_SIZE_MB must be positive, got %d", c.MaxCacheSizeMB)
	}
	if c.ThumbnailQuality < 1 || c.ThumbnailQuality > 100 {
		return fmt.Errorf("config: THUMBNAIL_QUALITY must be 1-100, got %d", c.ThumbnailQuality)
	}
	if c.PreviewMaxWidth <= 0 {
		return fmt.Errorf("config: PREVIEW_MAX_WIDTH must be positive, got %d", c.PreviewMaxWidth)
	}
	return nil
}

// VideoPathsList parses the comma-separated roots, dropping blanks and
// the /dev/null placeholder some deployments use to disable a slot.
func (c *Config) VideoPathsList() []string {
	var roots []string
	for _, p := range strings.Split(c.VideoPaths, ",") {
		p = strings.TrimSpace(p)
		if p == "" || p == "/dev/null" {
			continue
		}
		roots = append(roots, p)
	}
	return roots
}

// MaxCacheBytes returns the cache budget in bytes.
func (c *Config) MaxCacheBytes() int64 {
	return int64(c.MaxCacheSizeMB) * 1024 * 1024
}
