// Package ffmpegsource implements the FrameSource port by shelling out to
// ffmpeg and ffprobe.
package ffmpegsource

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Static errors for binary discovery.
var (
	// ErrFFmpegNotFound is returned when no ffmpeg binary could be located.
	ErrFFmpegNotFound = errors.New("ffmpeg not found")
	// ErrFFprobeNotFound is returned when no ffprobe binary could be located.
	ErrFFprobeNotFound = errors.New("ffprobe not found")
)

// FindFFmpeg searches for ffmpeg in PATH and common locations.
// Priority: 1) customPath argument, 2) FFMPEG_PATH env, 3) PATH, 4) common locations.
func FindFFmpeg(customPath string) (string, error) {
	return findBinary("ffmpeg", customPath, os.Getenv("FFMPEG_PATH"), ErrFFmpegNotFound)
}

// FindFFprobe searches for ffprobe in PATH and common locations.
// Priority: 1) customPath argument, 2) FFPROBE_PATH env, 3) PATH, 4) common locations.
func FindFFprobe(customPath string) (string, error) {
	return findBinary("ffprobe", customPath, os.Getenv("FFPROBE_PATH"), ErrFFprobeNotFound)
}

func findBinary(name, customPath, envPath string, notFound error) (string, error) {
	if customPath != "" {
		if _, err := os.Stat(customPath); err == nil {
			return customPath, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", notFound, customPath)
	}

	if envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
		return "", fmt.Errorf("%w: env path %s not found", notFound, envPath)
	}

	execName := name
	if runtime.GOOS == "windows" {
		execName = name + ".exe"
	}
	if path, err := exec.LookPath(execName); err == nil {
		return path, nil
	}

	for _, p := range commonPaths(name) {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", notFound
}

func commonPaths(name string) []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			`C:\ffmpeg\bin\` + name + `.exe`,
			`C:\Program Files\ffmpeg\bin\` + name + `.exe`,
			`C:\Program Files (x86)\ffmpeg\bin\` + name + `.exe`,
		}
	case "darwin":
		return []string{
			"/opt/homebrew/bin/" + name,
			"/usr/local/bin/" + name,
			"/usr/bin/" + name,
		}
	default:
		return []string{
			"/usr/bin/" + name,
			"/usr/local/bin/" + name,
			"/opt/homebrew/bin/" + name,
			"/snap/bin/" + name,
		}
	}
}

// IsAvailable checks whether both ffmpeg and ffprobe can be located.
func IsAvailable() bool {
	_, err := FindFFmpeg("")
	if err != nil {
		return false
	}
	_, err = FindFFprobe("")
	return err == nil
}
