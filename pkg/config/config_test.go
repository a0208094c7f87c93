package config

import (
	"context"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, expected 8080", cfg.Port)
	}
	if cfg.MaxCacheSizeMB != 500 {
		t.Errorf("MaxCacheSizeMB = %d, expected 500", cfg.MaxCacheSizeMB)
	}
	if cfg.PosterWidth != 1000 || cfg.PosterHeight != 1500 {
		t.Errorf("poster dims = %dx%d, expected 1000x1500", cfg.PosterWidth, cfg.PosterHeight)
	}
	if cfg.PreviewMaxWidth != 640 {
		t.Errorf("PreviewMaxWidth = %d, expected 640", cfg.PreviewMaxWidth)
	}
	if cfg.ThumbnailQuality != 85 {
		t.Errorf("ThumbnailQuality = %d, expected 85", cfg.ThumbnailQuality)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %s, expected info", cfg.LogLevel)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("MAX_CACHE_SIZE_MB", "100")
	t.Setenv("VIDEO_PATHS", "/mnt/movies, /mnt/tv")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %d, expected 9000", cfg.Port)
	}
	if cfg.MaxCacheBytes() != 100*1024*1024 {
		t.Errorf("MaxCacheBytes = %d", cfg.MaxCacheBytes())
	}

	roots := cfg.VideoPathsList()
	if len(roots) != 2 || roots[0] != "/mnt/movies" || roots[1] != "/mnt/tv" {
		t.Errorf("roots = %v", roots)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "zero cache", key: "MAX_CACHE_SIZE_MB", value: "0"},
		{name: "quality too high", key: "THUMBNAIL_QUALITY", value: "101"},
		{name: "quality zero", key: "THUMBNAIL_QUALITY", value: "0"},
		{name: "negative poster width", key: "POSTER_WIDTH", value: "-1"},
		{name: "zero preview width", key: "PREVIEW_MAX_WIDTH", value: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(context.Background()); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestVideoPathsList_DropsPlaceholders(t *testing.T) {
	cfg := &Config{VideoPaths: "/a,,/dev/null, /b ,"}
	roots := cfg.VideoPathsList()
	if len(roots) != 2 || roots[0] != "/a" || roots[1] != "/b" {
		t.Errorf("roots = %v", roots)
	}
}
