package framecache

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/user/postergen/pkg/adapters/logger"
	"github.com/user/postergen/pkg/locking"
	"github.com/user/postergen/pkg/mocks"
)

func newTestCache(t *testing.T, maxBytes int64, source *mocks.FrameSource) (*Cache, *mocks.FileSystem) {
	t.Helper()
	fs := mocks.NewFileSystem()
	cache, err := New(Options{
		Dir:              "/cache",
		MaxBytes:         maxBytes,
		PreviewWidth:     640,
		Quality:          85,
		ThumbnailWorkers: 2,
	}, source, fs, locking.NewMemLock(), logger.NewNoop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return cache, fs
}

func TestPreview_Idempotent(t *testing.T) {
	frame := []byte("jpeg-frame-data")
	source := mocks.NewFrameSource()
	source.ExtractFrameFunc = func(ctx context.Context, path string, timestamp float64, width, quality int) ([]byte, error) {
		return frame, nil
	}
	cache, _ := newTestCache(t, 1<<20, source)

	first, ok := cache.Preview(context.Background(), "/videos/a.mp4", 12.5)
	if !ok {
		t.Fatal("first preview missed")
	}
	second, ok := cache.Preview(context.Background(), "/videos/a.mp4", 12.5)
	if !ok {
		t.Fatal("second preview missed")
	}

	if !bytes.Equal(first, second) {
		t.Error("repeated previews returned different bytes")
	}
	if calls := source.ExtractCalls(); calls != 1 {
		t.Errorf("expected 1 extraction, got %d", calls)
	}
}

func TestPreview_FailureLeavesCacheUntouched(t *testing.T) {
	source := mocks.NewFrameSource()
	source.ExtractFrameFunc = func(ctx context.Context, path string, timestamp float64, width, quality int) ([]byte, error) {
		return nil, fmt.Errorf("decode timeout")
	}
	cache, fs := newTestCache(t, 1<<20, source)

	data, ok := cache.Preview(context.Background(), "/videos/a.mp4", 3.0)
	if ok || data != nil {
		t.Error("expected miss on extraction failure")
	}
	if files := fs.GetAllFiles(); len(files) != 0 {
		t.Errorf("expected empty cache, found %d files", len(files))
	}
}

func TestKey_MillisecondCoalescing(t *testing.T) {
	// Differences beyond the 3rd decimal place collide onto one key.
	a := Key("/v.mp4", 1.2344, 640, 85)
	b := Key("/v.mp4", 1.23441, 640, 85)
	if a != b {
		t.Error("timestamps differing beyond ms precision should share a key")
	}

	// Differences at or before the 3rd decimal place do not.
	c := Key("/v.mp4", 1.234, 640, 85)
	d := Key("/v.mp4", 1.235, 640, 85)
	if c == d {
		t.Error("timestamps differing at ms precision should not share a key")
	}

	// Width and quality are part of the key.
	if Key("/v.mp4", 1.0, 640, 85) == Key("/v.mp4", 1.0, 320, 85) {
		t.Error("width should be part of the key")
	}
	if Key("/v.mp4", 1.0, 640, 85) == Key("/v.mp4", 1.0, 640, 50) {
		t.Error("quality should be part of the key")
	}
}

func TestEviction_BudgetBound(t *testing.T) {
	entry := make([]byte, 100)
	source := mocks.NewFrameSource()
	source.ExtractFrameFunc = func(ctx context.Context, path string, timestamp float64, width, quality int) ([]byte, error) {
		return entry, nil
	}

	const budget = 350
	cache, fs := newTestCache(t, budget, source)

	for i := 0; i < 10; i++ {
		if _, ok := cache.Preview(context.Background(), "/v.mp4", float64(i)); !ok {
			t.Fatalf("preview %d missed", i)
		}
	}

	var total int64
	for _, data := range fs.GetAllFiles() {
		total += int64(len(data))
	}
	// Budget may be exceeded transiently by at most the newest entry.
	if total > budget+int64(len(entry)) {
		t.Errorf("cache size %d exceeds budget %d by more than one entry", total, budget)
	}
}

func TestEviction_OldestWriteFirst(t *testing.T) {
	entry := make([]byte, 100)
	source := mocks.NewFrameSource()
	source.ExtractFrameFunc = func(ctx context.Context, path string, timestamp float64, width, quality int) ([]byte, error) {
		return entry, nil
	}

	// Budget holds exactly three entries.
	cache, fs := newTestCache(t, 300, source)

	cache.Preview(context.Background(), "/v.mp4", 0)
	cache.Preview(context.Background(), "/v.mp4", 1)
	cache.Preview(context.Background(), "/v.mp4", 2)

	// Re-reading the first entry must NOT refresh it: eviction is FIFO
	// by write time, not LRU.
	cache.Preview(context.Background(), "/v.mp4", 0)

	cache.Preview(context.Background(), "/v.mp4", 3)

	firstKey := "/cache/" + Key("/v.mp4", 0, 640, 85) + ".jpg"
	if _, ok := fs.GetFile(firstKey); ok {
		t.Error("oldest-written entry survived eviction despite a recent read")
	}
	newestKey := "/cache/" + Key("/v.mp4", 3, 640, 85) + ".jpg"
	if _, ok := fs.GetFile(newestKey); !ok {
		t.Error("newest entry was evicted")
	}
}

func TestFullQuality_BypassesCache(t *testing.T) {
	frame := []byte("png-frame-data")
	source := mocks.NewFrameSource()
	source.ExtractFrameLosslessFunc = func(ctx context.Context, path string, timestamp float64) ([]byte, error) {
		return frame, nil
	}
	cache, fs := newTestCache(t, 1<<20, source)

	for i := 0; i < 3; i++ {
		data, ok := cache.FullQuality(context.Background(), "/v.mp4", 5.0)
		if !ok || !bytes.Equal(data, frame) {
			t.Fatal("full-quality extraction failed")
		}
	}

	if calls := source.LosslessCalls(); calls != 3 {
		t.Errorf("expected 3 gateway round-trips, got %d", calls)
	}
	if files := fs.GetAllFiles(); len(files) != 0 {
		t.Errorf("full-quality frames must not be cached, found %d files", len(files))
	}
}

func TestThumbnails_OrderAndOmission(t *testing.T) {
	source := mocks.NewFrameSource()
	source.ExtractFrameFunc = func(ctx context.Context, path string, timestamp float64, width, quality int) ([]byte, error) {
		// Fail the sample at 20s.
		if timestamp == 20.0 {
			return nil, fmt.Errorf("decode error")
		}
		return []byte(fmt.Sprintf("frame@%.3f", timestamp)), nil
	}
	cache, _ := newTestCache(t, 1<<20, source)

	// duration 100, count 5 -> timestamps 0, 20, 40, 60, 80; 20 fails.
	thumbs := cache.Thumbnails(context.Background(), "/v.mp4", 100, 5)

	expected := []string{"frame@0.000", "frame@40.000", "frame@60.000", "frame@80.000"}
	if len(thumbs) != len(expected) {
		t.Fatalf("expected %d thumbnails, got %d", len(expected), len(thumbs))
	}
	for i, want := range expected {
		if string(thumbs[i]) != want {
			t.Errorf("thumbnail %d: expected %q, got %q", i, want, thumbs[i])
		}
	}
}

func TestThumbnails_DegenerateInputs(t *testing.T) {
	cache, _ := newTestCache(t, 1<<20, mocks.NewFrameSource())

	if thumbs := cache.Thumbnails(context.Background(), "/v.mp4", 0, 10); len(thumbs) != 0 {
		t.Error("zero duration should yield no thumbnails")
	}
	if thumbs := cache.Thumbnails(context.Background(), "/v.mp4", 10, 0); len(thumbs) != 0 {
		t.Error("zero count should yield no thumbnails")
	}
}

func TestClear(t *testing.T) {
	source := mocks.NewFrameSource()
	source.ExtractFrameFunc = func(ctx context.Context, path string, timestamp float64, width, quality int) ([]byte, error) {
		return []byte("frame"), nil
	}
	cache, fs := newTestCache(t, 1<<20, source)

	cache.Preview(context.Background(), "/v.mp4", 1)
	cache.Preview(context.Background(), "/v.mp4", 2)
	cache.Clear()

	if files := fs.GetAllFiles(); len(files) != 0 {
		t.Errorf("expected empty cache after Clear, found %d files", len(files))
	}
}
