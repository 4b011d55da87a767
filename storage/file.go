package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/mitchellh/mapstructure"
)

// File is a typed handle on one config file. All access to the held value
// goes through the handle, which serializes readers and writers. Build one
// with [NewFile]; the zero value is not usable.
type File[T any] struct {
	mu       sync.Mutex
	path     string
	codec    Codec
	log      *slog.Logger
	syncSave bool
	value    T
}

// FileOption adjusts a [File] at construction.
type FileOption func(*fileConfig)

type fileConfig struct {
	codec    Codec
	log      *slog.Logger
	syncSave bool
}

// WithCodec overrides the codec chosen from the path's extension.
func WithCodec(c Codec) FileOption {
	return func(cfg *fileConfig) {
		cfg.codec = c
	}
}

// WithSyncSave makes every successful [File.Update] and [File.Merge] write
// the file back immediately.
func WithSyncSave() FileOption {
	return func(cfg *fileConfig) {
		cfg.syncSave = true
	}
}

// WithFileLogger sets the logger used for load and save reporting.
func WithFileLogger(log *slog.Logger) FileOption {
	return func(cfg *fileConfig) {
		cfg.log = log
	}
}

// NewFile builds a handle on path holding initial. initial doubles as the
// default state: fields absent from the file keep their initial values after
// [File.Load].
func NewFile[T any](path string, initial T, opts ...FileOption) *File[T] {
	cfg := fileConfig{
		codec: CodecFor(path),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &File[T]{
		path:     path,
		codec:    cfg.codec,
		log:      cfg.log,
		syncSave: cfg.syncSave,
		value:    initial,
	}
}

// Path returns the file path the handle reads and writes.
func (f *File[T]) Path() string {
	return f.path
}

// Get returns a shallow copy of the held value.
func (f *File[T]) Get() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// View runs fn with read access to the held value. fn must not retain the
// pointer past the call.
func (f *File[T]) View(fn func(*T)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.value)
}

// Update runs fn with write access to the held value, then saves the file
// when sync-save is enabled.
func (f *File[T]) Update(fn func(*T)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.value)
	if f.syncSave {
		return f.save()
	}
	return nil
}

// Merge decodes a loose key-value map into the held value, overwriting only
// the fields the map names, then saves when sync-save is enabled.
func (f *File[T]) Merge(m map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := mapstructure.Decode(m, &f.value); err != nil {
		return fmt.Errorf("failed to merge into %s: %w", f.path, err)
	}
	if f.syncSave {
		return f.save()
	}
	return nil
}

// Save writes the held value to the file, creating parent directories as
// needed.
func (f *File[T]) Save() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.save()
}

func (f *File[T]) save() error {
	data, err := f.codec.Marshal(f.value)
	if err != nil {
		return fmt.Errorf("failed to encode %s as %s: %w", f.path, f.codec.Name(), err)
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to ensure storage directory: %w", err)
		}
	}
	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	return nil
}

// Load reads the file into the held value. A missing file is not an error:
// the current state is written out as the initial file content. A file that
// fails to decode is reported and overwritten with the current state, so a
// mangled edit never takes the program down. Fields absent from the file
// keep their current values.
func (f *File[T]) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read storage file: %w", err)
		}
		f.log.Warn("cannot find storage file, writing defaults", "path", f.path)
		return f.save()
	}
	if err := f.codec.Unmarshal(data, &f.value); err != nil {
		f.log.Warn("cannot decode storage file, rewriting it", "path", f.path, "error", err)
		return f.save()
	}
	f.log.Info("loaded storage file", "path", f.path)
	return nil
}
