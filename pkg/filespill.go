// Package pkg provides utilities for describely.
package pkg

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// FileSpill is a generic append-only disk journal for items of type T.
// describely uses it to record raw runner events so a session can be
// re-rendered later without re-running the suite.
type FileSpill[T any] interface {
	Len() uint64
	Path() string
	Append(item T) error
	AppendBatch(items []T) error
	Get(index uint64) (T, error)
	Range(f func(index uint64, item T) error) error
	Close() error
}

type fileSpillImpl[T any] struct {
	path    string
	file    *os.File
	encoder *gob.Encoder
	mu      sync.Mutex
	length  uint64
}

// Append implements FileSpill.
func (f *fileSpillImpl[T]) Append(item T) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.encoder == nil {
		return errors.New("journal is read-only")
	}

	if err := f.encoder.Encode(item); err != nil {
		slog.Error("failed to encode item", "path", f.path, "index", f.length, "error", err)
		return fmt.Errorf("failed to encode item: %w", err)
	}

	f.length++
	slog.Debug("appended item", "path", f.path, "index", f.length-1)

	return nil
}

// AppendBatch implements FileSpill.
func (f *fileSpillImpl[T]) AppendBatch(items []T) error {
	for _, item := range items {
		if err := f.Append(item); err != nil {
			return err
		}
	}

	return nil
}

// Path implements FileSpill.
func (f *fileSpillImpl[T]) Path() string {
	return f.path
}

// Len implements FileSpill.
func (f *fileSpillImpl[T]) Len() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.length
}

// Close implements FileSpill.
func (f *fileSpillImpl[T]) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file != nil {
		if err := f.file.Close(); err != nil {
			slog.Error("failed to close file", "path", f.path, "error", err)
			return err
		}

		slog.Debug("closed filespill", "path", f.path, "length", f.length)
	}

	return nil
}

// Get implements FileSpill.
func (f *fileSpillImpl[T]) Get(index uint64) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if index >= f.length {
		var zero T

		slog.Warn("get index out of bounds", "path", f.path, "index", index, "length", f.length)

		return zero, fmt.Errorf("index %d out of bounds (length %d)", index, f.length)
	}

	file, err := os.Open(f.path)
	if err != nil {
		var zero T

		slog.Error("failed to open file for get", "path", f.path, "error", err)

		return zero, fmt.Errorf("failed to open file: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close file", "path", f.path, "error", err)
		}
	}()

	decoder := gob.NewDecoder(file)

	// A fresh value per decode: gob leaves fields absent from the wire
	// untouched, so reusing one value bleeds data between items.
	var item T

	for i := uint64(0); i <= index; i++ {
		item = *new(T)
		if err := decoder.Decode(&item); err != nil {
			var zero T

			slog.Error("failed to decode item", "path", f.path, "index", i, "error", err)

			return zero, fmt.Errorf("failed to decode item at index %d: %w", i, err)
		}
	}

	slog.Debug("got item", "path", f.path, "index", index)

	return item, nil
}

// Range implements FileSpill.
func (f *fileSpillImpl[T]) Range(fn func(index uint64, item T) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.Open(f.path)
	if err != nil {
		slog.Error("failed to open file for range", "path", f.path, "error", err)
		return fmt.Errorf("failed to open file: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close file", "path", f.path, "error", err)
		}
	}()

	decoder := gob.NewDecoder(file)

	for i := range f.length {
		// Fresh value per item, see Get.
		var item T
		if err := decoder.Decode(&item); err != nil {
			slog.Error("failed to decode item during range", "path", f.path, "index", i, "error", err)
			return fmt.Errorf("failed to decode item at index %d: %w", i, err)
		}

		if err := fn(i, item); err != nil {
			slog.Warn("range callback error", "path", f.path, "index", i, "error", err)
			return err
		}
	}

	slog.Debug("range completed", "path", f.path, "count", f.length)

	return nil
}

// NewFileSpill creates an anonymous FileSpill backed by a temp file.
func NewFileSpill[T any]() (FileSpill[T], error) {
	file, err := os.CreateTemp("", "spill-*.gob")
	if err != nil {
		slog.Error("failed to create temp file", "error", err)
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	slog.Debug("created filespill", "path", file.Name())

	return &fileSpillImpl[T]{
		path:    file.Name(),
		file:    file,
		encoder: gob.NewEncoder(file),
		length:  0,
	}, nil
}

// NewFileSpillAt creates a journal at an explicit path, truncating any
// existing file. Used by `run --record` to keep the journal after the
// session ends.
func NewFileSpillAt[T any](path string) (FileSpill[T], error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		slog.Error("failed to create journal", "path", path, "error", err)
		return nil, fmt.Errorf("failed to create journal: %w", err)
	}

	slog.Debug("created journal", "path", path)

	return &fileSpillImpl[T]{
		path:    path,
		file:    file,
		encoder: gob.NewEncoder(file),
		length:  0,
	}, nil
}

// OpenFileSpill opens an existing journal read-only. Append fails on
// the returned spill; Get and Range work as usual.
func OpenFileSpill[T any](path string) (FileSpill[T], error) {
	file, err := os.Open(path)
	if err != nil {
		slog.Error("failed to open journal", "path", path, "error", err)
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	// Count the items once so Len and Range bounds are correct.
	decoder := gob.NewDecoder(file)
	length := uint64(0)

	for {
		var item T

		err := decoder.Decode(&item)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			closeQuietly(file, path)
			return nil, fmt.Errorf("failed to scan journal at index %d: %w", length, err)
		}

		length++
	}

	closeQuietly(file, path)

	slog.Debug("opened journal", "path", path, "length", length)

	return &fileSpillImpl[T]{
		path:   path,
		length: length,
	}, nil
}

func closeQuietly(file *os.File, path string) {
	if err := file.Close(); err != nil {
		slog.Error("failed to close file", "path", path, "error", err)
	}
}
