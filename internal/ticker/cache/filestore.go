package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"cryptoticker/internal/ticker"

	"github.com/spf13/afero"
)

// FileStore persists one JSON-encoded Currency per asset under dir.
// Freshness is the file's own modification time.
type FileStore struct {
	fs  afero.Fs
	dir string
	now func() time.Time
}

func NewFileStore(fs afero.Fs, dir string) *FileStore {
	return &FileStore{
		fs:  fs,
		dir: dir,
		now: time.Now,
	}
}

// NewOsFileStore stores entries on the real filesystem.
func NewOsFileStore(dir string) *FileStore {
	return NewFileStore(afero.NewOsFs(), dir)
}

// WithClock replaces the clock used to compute entry ages.
func (s *FileStore) WithClock(now func() time.Time) *FileStore {
	s.now = now
	return s
}

func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns "<dir>/<id>.json".
func (s *FileStore) Path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Read loads the entry at path and reports how long ago it was written.
func (s *FileStore) Read(path string) (*ticker.Currency, time.Duration, error) {
	info, err := s.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, ticker.NewIOError("", path, fmt.Errorf("%w: %w", ticker.ErrMissing, err))
		}
		return nil, 0, ticker.NewIOError("", path, err)
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, ticker.NewIOError("", path, fmt.Errorf("%w: %w", ticker.ErrMissing, err))
		}
		return nil, 0, ticker.NewIOError("", path, err)
	}

	var c ticker.Currency
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, 0, ticker.NewDecodeError("", path, err)
	}

	age := s.now().Sub(info.ModTime())
	if age < 0 {
		return nil, 0, ticker.NewClockAnomalyError(path, -age)
	}

	return &c, age, nil
}

// Write serializes c to path, creating or truncating the file.
func (s *FileStore) Write(path string, c *ticker.Currency) error {
	data, err := json.Marshal(c)
	if err != nil {
		return ticker.NewIOError(c.ID, path, fmt.Errorf("encode entry: %w", err))
	}

	// Create parent directory if it doesn't exist
	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return ticker.NewIOError(c.ID, path, fmt.Errorf("create cache directory: %w", err))
	}

	f, err := s.fs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return ticker.NewIOError(c.ID, path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return ticker.NewIOError(c.ID, path, err)
	}
	if err := f.Close(); err != nil {
		return ticker.NewIOError(c.ID, path, err)
	}

	// Stamp with the store clock so Read ages entries against the same source
	stamp := s.now()
	if err := s.fs.Chtimes(path, stamp, stamp); err != nil {
		return ticker.NewIOError(c.ID, path, err)
	}
	return nil
}
