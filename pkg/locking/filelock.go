package locking

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileLock is a Group implementation backed by advisory file locks. It
// provides mutual exclusion across processes that share the same lock
// directory, at the cost of a syscall per acquisition.
type FileLock struct {
	dir string
}

// NewFileLock creates a FileLock that stores lock files under dir.
func NewFileLock(dir string) (*FileLock, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileLock{dir: dir}, nil
}

func (f *FileLock) DoWithLock(key string, fn func() (interface{}, error)) (v interface{}, err error) {
	// Keys may contain path separators; hash them into safe file names.
	sum := md5.Sum([]byte(key))
	path := filepath.Join(f.dir, hex.EncodeToString(sum[:])+".lock")

	lock := flock.New(path)
	if err := lock.Lock(); err != nil {
		return nil, err
	}
	defer lock.Unlock()

	return fn()
}
