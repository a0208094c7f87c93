package ffmpegsource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/user/postergen/pkg/ports"
)

// Timeouts for external decoder calls. Full-quality extraction reads the
// stream at source resolution and gets a longer budget.
const (
	probeTimeout    = 30 * time.Second
	extractTimeout  = 30 * time.Second
	losslessTimeout = 60 * time.Second
)

// ErrEmptyOutput is returned when ffmpeg exits zero but produces no image data.
var ErrEmptyOutput = errors.New("ffmpeg produced no output")

// Source implements ports.FrameSource using ffmpeg/ffprobe subprocesses.
// Concurrent extractions are bounded by a semaphore so a burst of slow
// decodes cannot exhaust the host.
type Source struct {
	ffmpegPath  string
	ffprobePath string
	sem         chan struct{}
	logger      ports.Logger
}

// Options configures a Source.
type Options struct {
	FFmpegPath    string // Explicit ffmpeg path (empty = discover)
	FFprobePath   string // Explicit ffprobe path (empty = discover)
	MaxConcurrent int    // Max simultaneous subprocesses (<=0 means 4)
}

// New creates a Source, locating the ffmpeg and ffprobe binaries.
func New(opts Options, logger ports.Logger) (*Source, error) {
	ffmpegPath, err := FindFFmpeg(opts.FFmpegPath)
	if err != nil {
		return nil, err
	}
	ffprobePath, err := FindFFprobe(opts.FFprobePath)
	if err != nil {
		return nil, err
	}

	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}

	return &Source{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		sem:         make(chan struct{}, maxConcurrent),
		logger:      logger.WithComponent("ffmpeg"),
	}, nil
}

// probeFormat mirrors the relevant parts of ffprobe's JSON output.
// ffprobe reports numeric format fields as strings.
type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	FrameRate string `json:"r_frame_rate"`
}

type probeFormat struct {
	Duration string `json:"duration"`
	Size     string `json:"size"`
}

// Probe returns metadata for a video file via ffprobe.
func (s *Source) Probe(ctx context.Context, path string) (*ports.VideoInfo, error) {
	s.logger.Debug("Probing %s", path)

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var out probeOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}

	var video *probeStream
	for i := range out.Streams {
		if out.Streams[i].CodecType == "video" {
			video = &out.Streams[i]
			break
		}
	}
	if video == nil {
		return nil, fmt.Errorf("no video stream in %s", path)
	}

	fps := parseFrameRate(video.FrameRate)
	duration, _ := strconv.ParseFloat(out.Format.Duration, 64)
	size, _ := strconv.ParseInt(out.Format.Size, 10, 64)

	return &ports.VideoInfo{
		Duration:    duration,
		Width:       video.Width,
		Height:      video.Height,
		FPS:         fps,
		TotalFrames: int(duration * fps),
		Codec:       video.CodecName,
		Size:        size,
	}, nil
}

// parseFrameRate parses ffprobe's rational frame rate (e.g. "24000/1001").
// Any parse failure falls back to 24.0.
func parseFrameRate(s string) float64 {
	var fps float64
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, errN := strconv.ParseFloat(num, 64)
		d, errD := strconv.ParseFloat(den, 64)
		if errN != nil || errD != nil || d == 0 {
			return 24.0
		}
		fps = n / d
	} else {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 24.0
		}
		fps = f
	}
	return math.Round(fps*1000) / 1000
}

// ExtractFrame extracts a single JPEG frame using a two-phase seek: a coarse
// keyframe seek to one second before the target (before opening the input),
// then a precise seek over the remaining sub-second window. This bounds seek
// cost independent of the absolute timestamp.
func (s *Source) ExtractFrame(ctx context.Context, path string, timestamp float64, width, quality int) ([]byte, error) {
	fastSeek := math.Max(0, timestamp-1.0)
	preciseSeek := timestamp - fastSeek

	args := []string{
		"-ss", formatSeconds(fastSeek),
		"-i", path,
		"-ss", formatSeconds(preciseSeek),
		"-frames:v", "1",
		"-q:v", strconv.Itoa(jpegQScale(quality)),
	}
	if width > 0 {
		args = append(args, "-vf", fmt.Sprintf("scale=%d:-1", width))
	}
	args = append(args, "-f", "image2pipe", "-vcodec", "mjpeg", "-y", "pipe:1")

	return s.runExtract(ctx, extractTimeout, timestamp, args)
}

// ExtractFrameLossless extracts a single PNG frame at full source resolution.
func (s *Source) ExtractFrameLossless(ctx context.Context, path string, timestamp float64) ([]byte, error) {
	fastSeek := math.Max(0, timestamp-1.0)
	preciseSeek := timestamp - fastSeek

	args := []string{
		"-ss", formatSeconds(fastSeek),
		"-i", path,
		"-ss", formatSeconds(preciseSeek),
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-y", "pipe:1",
	}

	return s.runExtract(ctx, losslessTimeout, timestamp, args)
}

func (s *Source) runExtract(ctx context.Context, timeout time.Duration, timestamp float64, args []string) ([]byte, error) {
	s.logger.Debug("Extracting frame at %.3fs", timestamp)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.ffmpegPath, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg extract at %.3fs: %w", timestamp, err)
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("extract at %.3fs: %w", timestamp, ErrEmptyOutput)
	}

	return stdout.Bytes(), nil
}

// jpegQScale maps a 0-100 quality to ffmpeg's -q:v scale (1-31, lower is better).
func jpegQScale(quality int) int {
	q := (100 - quality) / 3
	if q < 1 {
		q = 1
	}
	if q > 31 {
		q = 31
	}
	return q
}

// formatSeconds renders a seek offset without scientific notation.
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// acquire takes a semaphore slot, giving up if the context expires first.
func (s *Source) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Source) release() {
	<-s.sem
}

// Ensure Source implements ports.FrameSource
var _ ports.FrameSource = (*Source)(nil)
