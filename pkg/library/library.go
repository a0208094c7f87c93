// Package library indexes video files under a set of configured root
// directories and resolves logical (base, path) pairs to real files.
package library

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/user/postergen/pkg/ports"
)

// Entry types.
const (
	TypeVideo     = "video"
	TypeDirectory = "directory"
)

var (
	// ErrNotFound is returned when a (base, path) pair does not resolve
	// to an existing video file.
	ErrNotFound = errors.New("video not found")
	// ErrInvalidPath is returned for paths that escape their base root
	// or reference an unconfigured base.
	ErrInvalidPath = errors.New("invalid video path")
)

// defaultExtensions are the file suffixes treated as video content.
var defaultExtensions = []string{".mp4", ".mkv", ".avi", ".mov", ".webm", ".m4v", ".wmv", ".flv"}

// Entry is one browsable item: a video file or a subdirectory that
// contains at least one video somewhere below it. Path is always
// relative to Base.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
	Base string `json:"base"`
	Size int64  `json:"size,omitempty"`
}

// Details is the probed metadata of a single video, alongside its
// logical location.
type Details struct {
	ports.VideoInfo

	Name     string `json:"name"`
	Path     string `json:"path"`
	Base     string `json:"base"`
	FullPath string `json:"fullPath"`
}

// Library scans one or more root directories for video files. Roots are
// trusted; everything a request supplies is validated against them.
type Library struct {
	roots      []string
	extensions map[string]bool
	source     ports.FrameSource
	logger     ports.Logger
}

// New creates a Library over the given roots. Roots that do not exist
// are kept; they simply yield no entries until they appear.
func New(roots []string, source ports.FrameSource, logger ports.Logger) *Library {
	exts := make(map[string]bool, len(defaultExtensions))
	for _, e := range defaultExtensions {
		exts[e] = true
	}
	return &Library{
		roots:      roots,
		extensions: exts,
		source:     source,
		logger:     logger.WithComponent("library"),
	}
}

// Roots returns the configured base directories.
func (l *Library) Roots() []string {
	return l.roots
}

// List returns the entries directly under sub in every root, merged and
// sorted by case-insensitive name. An empty sub lists the roots
// themselves. Directories appear only when they contain a video at some
// depth; unreadable directories are skipped.
func (l *Library) List(sub string) ([]Entry, error) {
	if sub != "" && !filepath.IsLocal(sub) {
		return nil, ErrInvalidPath
	}

	entries := []Entry{}
	for _, root := range l.roots {
		dir := root
		if sub != "" {
			dir = filepath.Join(root, sub)
		}
		entries = append(entries, l.scanDir(dir, root)...)
	}

	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
	return entries, nil
}

func (l *Library) scanDir(dir, root string) []Entry {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var entries []Entry
	for _, item := range items {
		full := filepath.Join(dir, item.Name())
		rel, err := filepath.Rel(root, full)
		if err != nil {
			continue
		}

		if item.IsDir() {
			if !l.containsVideo(full) {
				continue
			}
			entries = append(entries, Entry{
				Name: item.Name(),
				Path: rel,
				Type: TypeDirectory,
				Base: root,
			})
			continue
		}

		if !l.extensions[strings.ToLower(filepath.Ext(item.Name()))] {
			continue
		}
		info, err := item.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Name: item.Name(),
			Path: rel,
			Type: TypeVideo,
			Base: root,
			Size: info.Size(),
		})
	}
	return entries
}

// containsVideo reports whether any video file exists at any depth
// below dir. The walk stops at the first hit.
func (l *Library) containsVideo(dir string) bool {
	found := false
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && l.extensions[strings.ToLower(filepath.Ext(path))] {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	return found
}

// Resolve maps a (base, path) pair to the absolute path of an existing
// video file. The base must be one of the configured roots and the path
// must stay inside it.
func (l *Library) Resolve(base, path string) (string, error) {
	if !l.knownRoot(base) {
		return "", ErrInvalidPath
	}
	if path == "" || !filepath.IsLocal(path) {
		return "", ErrInvalidPath
	}

	full := filepath.Join(base, path)
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", ErrNotFound
	}
	return full, nil
}

// Info resolves the video and probes its metadata.
func (l *Library) Info(ctx context.Context, base, path string) (*Details, error) {
	full, err := l.Resolve(base, path)
	if err != nil {
		return nil, err
	}

	info, err := l.source.Probe(ctx, full)
	if err != nil {
		l.logger.Warn("Probe failed for %s", full)
		return nil, err
	}

	return &Details{
		VideoInfo: *info,
		Name:      filepath.Base(full),
		Path:      path,
		Base:      base,
		FullPath:  full,
	}, nil
}

func (l *Library) knownRoot(base string) bool {
	for _, root := range l.roots {
		if root == base {
			return true
		}
	}
	return false
}
