package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

// fileData is the on-disk layout:
//
//	[records]
//	bestTime = 5230.0
//	"alice.bestTime" = 9000.0
type fileData struct {
	Records map[string]float64 `toml:"records"`
}

// File is a Store backed by a TOML file. Every call reads the file so that
// several processes sharing it see each other's records. Safe for
// concurrent use within a process.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a store that keeps its records at path. The file and its
// directory are created on the first Set.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// Get implements Store.
func (f *File) Get(key string) (float64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return 0, false, err
	}
	v, ok := data.Records[key]
	return v, ok, nil
}

// Set implements Store.
func (f *File) Set(key string, value float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	data.Records[key] = value
	return f.save(data)
}

// load reads the file. A missing file yields an empty record set.
func (f *File) load() (fileData, error) {
	data := fileData{Records: make(map[string]float64)}
	if _, err := toml.DecodeFile(f.path, &data); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return data, nil
		}
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return data, fmt.Errorf("%w: %s: %v", ErrCorrupt, f.path, err)
		}
		return data, fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	if data.Records == nil {
		data.Records = make(map[string]float64)
	}
	return data, nil
}

// save writes data to a temp file and renames it over the target.
func (f *File) save(data fileData) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".records-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode records: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}
	return nil
}
