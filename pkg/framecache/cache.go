// Package framecache memoizes decoded preview frames on disk with a
// byte-budget eviction policy.
package framecache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/user/postergen/pkg/locking"
	"github.com/user/postergen/pkg/ports"
)

const entryExt = ".jpg"

// Options configures a Cache.
type Options struct {
	Dir              string // Cache directory
	MaxBytes         int64  // Byte budget enforced after each write
	PreviewWidth     int    // Output width for preview frames
	Quality          int    // JPEG quality (0-100) for preview frames
	ThumbnailWorkers int    // Worker pool size for thumbnail batches (<=0 means NumCPU)
}

// Cache serves preview frames from disk, extracting on miss via the
// FrameSource. Eviction is FIFO by write time: reads never refresh an
// entry's timestamp, so a hot old entry is just as evictable as a cold one.
type Cache struct {
	dir      string
	maxBytes int64
	width    int
	quality  int
	workers  int

	source ports.FrameSource
	fs     ports.FileSystem
	locks  locking.Group
	logger ports.Logger

	// evictMu keeps concurrent budget scans from double-deleting.
	evictMu sync.Mutex
}

// New creates a Cache and ensures its directory exists.
func New(opts Options, source ports.FrameSource, fs ports.FileSystem, locks locking.Group, logger ports.Logger) (*Cache, error) {
	if err := fs.MkdirAll(opts.Dir); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	workers := opts.ThumbnailWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Cache{
		dir:      opts.Dir,
		maxBytes: opts.MaxBytes,
		width:    opts.PreviewWidth,
		quality:  opts.Quality,
		workers:  workers,
		source:   source,
		fs:       fs,
		locks:    locks,
		logger:   logger.WithComponent("cache"),
	}, nil
}

// Key derives the deterministic cache key for a frame request. The
// timestamp is formatted to millisecond precision so near-identical
// requests (slider scrubbing) coalesce onto one entry.
func Key(path string, timestamp float64, width, quality int) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s:%.3f:%d:%d", path, timestamp, width, quality)))
	return hex.EncodeToString(sum[:])
}

// Preview returns a cached preview frame, extracting and storing it on
// miss. The second return is false when extraction failed; the cache is
// left unmodified in that case.
func (c *Cache) Preview(ctx context.Context, path string, timestamp float64) ([]byte, bool) {
	key := Key(path, timestamp, c.width, c.quality)
	entryPath := filepath.Join(c.dir, key+entryExt)

	// Entry files only ever appear via atomic rename, so a successful
	// read is always a complete image.
	if data, err := c.fs.ReadFile(entryPath); err == nil {
		c.logger.Debug("Cache hit for %s at %.3fs", path, timestamp)
		return data, true
	}

	c.logger.Debug("Cache miss for %s at %.3fs", path, timestamp)

	// Extraction runs outside any lock; only the write+evict step is
	// serialized per key. Two racing misses may both decode, and the
	// second write is an idempotent overwrite.
	data, err := c.source.ExtractFrame(ctx, path, timestamp, c.width, c.quality)
	if err != nil {
		c.logger.Warn("Frame extraction failed: %s", err.Error())
		return nil, false
	}

	c.locks.DoWithLock(key, func() (interface{}, error) {
		if err := c.fs.WriteFileAtomic(entryPath, data); err != nil {
			// A failed cache write is not a failed request.
			c.logger.Warn("Cache write failed: %s", err.Error())
			return nil, nil
		}
		c.enforceBudget()
		return nil, nil
	})

	return data, true
}

// FullQuality returns a lossless frame, bypassing the cache entirely.
// Full-quality frames are large and used once per poster, so caching them
// would pressure the byte budget for no amortized benefit.
func (c *Cache) FullQuality(ctx context.Context, path string, timestamp float64) ([]byte, bool) {
	data, err := c.source.ExtractFrameLossless(ctx, path, timestamp)
	if err != nil {
		c.logger.Warn("Frame extraction failed: %s", err.Error())
		return nil, false
	}
	return data, true
}

// Thumbnails returns previews at count evenly spaced timestamps over
// [0, duration), in ascending timestamp order. Samples whose extraction
// failed are silently omitted. Lookups run on a bounded worker pool.
func (c *Cache) Thumbnails(ctx context.Context, path string, duration float64, count int) [][]byte {
	if duration <= 0 || count <= 0 {
		return nil
	}

	interval := duration / float64(count)

	type indexed struct {
		index int
		data  []byte
	}

	jobs := make(chan int, count)
	results := make(chan indexed, count)

	workers := c.workers
	if workers > count {
		workers = count
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				if data, ok := c.Preview(ctx, path, float64(i)*interval); ok {
					results <- indexed{index: i, data: data}
				}
			}
		}()
	}

	for i := 0; i < count; i++ {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]indexed, 0, count)
	for r := range results {
		collected = append(collected, r)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].index < collected[j].index })

	thumbnails := make([][]byte, 0, len(collected))
	for _, r := range collected {
		thumbnails = append(thumbnails, r.data)
	}
	return thumbnails
}

// Clear removes all cache entries. Errors are swallowed; a partially
// cleared cache is still a valid cache.
func (c *Cache) Clear() {
	c.evictMu.Lock()
	defer c.evictMu.Unlock()

	infos, err := c.fs.List(c.dir)
	if err != nil {
		return
	}
	for _, info := range infos {
		if strings.HasSuffix(info.Name, entryExt) {
			c.fs.Remove(filepath.Join(c.dir, info.Name))
		}
	}
}

// enforceBudget deletes entries oldest-write-first until the directory
// fits the byte budget. Disk errors are swallowed: the cache may
// transiently exceed its budget but never fails a request on cleanup.
func (c *Cache) enforceBudget() {
	c.evictMu.Lock()
	defer c.evictMu.Unlock()

	infos, err := c.fs.List(c.dir)
	if err != nil {
		return
	}

	entries := infos[:0]
	var total int64
	for _, info := range infos {
		if !strings.HasSuffix(info.Name, entryExt) {
			continue
		}
		entries = append(entries, info)
		total += info.Size
	}
	if total <= c.maxBytes {
		return
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].ModTime.Before(entries[j].ModTime) })

	evicted := 0
	var freed int64
	for _, entry := range entries {
		if total <= c.maxBytes {
			break
		}
		// A file another eviction or Clear already removed still counts
		// as freed; Remove failing for other reasons is ignored too.
		c.fs.Remove(filepath.Join(c.dir, entry.Name))
		total -= entry.Size
		freed += entry.Size
		evicted++
	}

	if evicted > 0 {
		c.logger.Debug("Evicted %d cache entries (%d bytes)", evicted, freed)
	}
}
