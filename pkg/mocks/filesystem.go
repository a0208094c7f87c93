package mocks

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/user/postergen/pkg/ports"
)

// FileSystem is a mock implementation of ports.FileSystem backed by an
// in-memory map. Write timestamps are a monotonic counter so eviction
// ordering is deterministic in tests.
type FileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	mtime map[string]time.Time
	dirs  map[string]bool
	clock time.Time

	ReadFileFunc        func(path string) ([]byte, error)
	WriteFileFunc       func(path string, data []byte) error
	WriteFileAtomicFunc func(path string, data []byte) error
	CreateNewFunc       func(path string, data []byte) error
	MkdirAllFunc        func(path string) error
	ExistsFunc          func(path string) (bool, error)
	RemoveFunc          func(path string) error
	ListFunc            func(dir string) ([]ports.FileInfo, error)
}

// NewFileSystem creates a new mock FileSystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files: make(map[string][]byte),
		mtime: make(map[string]time.Time),
		dirs:  make(map[string]bool),
		clock: time.Unix(1700000000, 0),
	}
}

func (m *FileSystem) ReadFile(path string) ([]byte, error) {
	if m.ReadFileFunc != nil {
		return m.ReadFileFunc(path)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if data, ok := m.files[path]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("file not found: %s", path)
}

func (m *FileSystem) WriteFile(path string, data []byte) error {
	if m.WriteFileFunc != nil {
		return m.WriteFileFunc(path, data)
	}
	m.store(path, data)
	return nil
}

func (m *FileSystem) WriteFileAtomic(path string, data []byte) error {
	if m.WriteFileAtomicFunc != nil {
		return m.WriteFileAtomicFunc(path, data)
	}
	m.store(path, data)
	return nil
}

func (m *FileSystem) CreateNew(path string, data []byte) error {
	if m.CreateNewFunc != nil {
		return m.CreateNewFunc(path, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[path]; ok {
		return fmt.Errorf("create %s: %w", path, fs.ErrExist)
	}
	m.clock = m.clock.Add(time.Second)
	m.files[path] = data
	m.mtime[path] = m.clock
	return nil
}

func (m *FileSystem) MkdirAll(path string) error {
	if m.MkdirAllFunc != nil {
		return m.MkdirAllFunc(path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[path] = true
	return nil
}

func (m *FileSystem) Exists(path string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(path)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.files[path]; ok {
		return true, nil
	}
	if _, ok := m.dirs[path]; ok {
		return true, nil
	}
	return false, nil
}

func (m *FileSystem) Remove(path string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[path]; !ok {
		if _, ok := m.dirs[path]; !ok {
			return fmt.Errorf("remove %s: %w", path, fs.ErrNotExist)
		}
	}
	delete(m.files, path)
	delete(m.mtime, path)
	delete(m.dirs, path)
	return nil
}

func (m *FileSystem) List(dir string) ([]ports.FileInfo, error) {
	if m.ListFunc != nil {
		return m.ListFunc(dir)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix := strings.TrimSuffix(dir, "/") + "/"
	var infos []ports.FileInfo
	for path, data := range m.files {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		name := strings.TrimPrefix(path, prefix)
		if strings.Contains(name, "/") {
			continue
		}
		infos = append(infos, ports.FileInfo{
			Name:    name,
			Size:    int64(len(data)),
			ModTime: m.mtime[path],
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func (m *FileSystem) store(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Second)
	m.files[path] = data
	m.mtime[path] = m.clock
}

// GetFile returns the contents of a file (for test verification).
func (m *FileSystem) GetFile(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path]
	return data, ok
}

// GetAllFiles returns all files (for test verification).
func (m *FileSystem) GetAllFiles() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string][]byte)
	for k, v := range m.files {
		result[k] = v
	}
	return result
}

var _ ports.FileSystem = (*FileSystem)(nil)
