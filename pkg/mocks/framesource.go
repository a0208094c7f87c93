// Package mocks provides mock implementations of the ports interfaces for testing.
package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/user/postergen/pkg/ports"
)

// FrameSource is a mock implementation of ports.FrameSource.
type FrameSource struct {
	mu sync.Mutex

	ProbeFunc                func(ctx context.Context, path string) (*ports.VideoInfo, error)
	ExtractFrameFunc         func(ctx context.Context, path string, timestamp float64, width, quality int) ([]byte, error)
	ExtractFrameLosslessFunc func(ctx context.Context, path string, timestamp float64) ([]byte, error)

	probeCalls    int
	extractCalls  int
	losslessCalls int
}

// NewFrameSource creates a new mock FrameSource.
func NewFrameSource() *FrameSource {
	return &FrameSource{}
}

func (m *FrameSource) Probe(ctx context.Context, path string) (*ports.VideoInfo, error) {
	m.mu.Lock()
	m.probeCalls++
	m.mu.Unlock()
	if m.ProbeFunc != nil {
		return m.ProbeFunc(ctx, path)
	}
	return nil, fmt.Errorf("probe not configured for %s", path)
}

func (m *FrameSource) ExtractFrame(ctx context.Context, path string, timestamp float64, width, quality int) ([]byte, error) {
	m.mu.Lock()
	m.extractCalls++
	m.mu.Unlock()
	if m.ExtractFrameFunc != nil {
		return m.ExtractFrameFunc(ctx, path, timestamp, width, quality)
	}
	return nil, fmt.Errorf("extract not configured for %s", path)
}

func (m *FrameSource) ExtractFrameLossless(ctx context.Context, path string, timestamp float64) ([]byte, error) {
	m.mu.Lock()
	m.losslessCalls++
	m.mu.Unlock()
	if m.ExtractFrameLosslessFunc != nil {
		return m.ExtractFrameLosslessFunc(ctx, path, timestamp)
	}
	return nil, fmt.Errorf("lossless extract not configured for %s", path)
}

// ProbeCalls returns the number of Probe invocations (for test verification).
func (m *FrameSource) ProbeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.probeCalls
}

// ExtractCalls returns the number of ExtractFrame invocations.
func (m *FrameSource) ExtractCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.extractCalls
}

// LosslessCalls returns the number of ExtractFrameLossless invocations.
func (m *FrameSource) LosslessCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.losslessCalls
}

var _ ports.FrameSource = (*FrameSource)(nil)
