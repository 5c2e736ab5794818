// Package filestore keeps each persisted document in its own file under a
// data directory. Every file is replaced atomically on save.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/skridlevsky/outliner/backend"
)

// Store implements backend.Backend over a directory.
type Store struct {
	dir  string
	ext  string
	perm fs.FileMode
}

// Option configures a Store.
type Option func(*Store)

// WithExtension sets the file extension, including the dot (default ".json").
func WithExtension(ext string) Option {
	return func(s *Store) { s.ext = ext }
}

// WithPerm sets the mode of written files (default 0o600).
func WithPerm(perm fs.FileMode) Option {
	return func(s *Store) { s.perm = perm }
}

// Open creates dir if needed and returns a Store rooted there.
func Open(dir string, opts ...Option) (*Store, error) {
	s := &Store{dir: dir, ext: ".json", perm: 0o600}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return s, nil
}

func (s *Store) Name() string { return "file" }

// Path returns the file that holds key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key+s.ext)
}

func (s *Store) Load(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, backend.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Save writes every key to its own file. Keys are written in sorted order;
// each file is replaced atomically but the set as a whole is not.
func (s *Store) Save(ctx context.Context, values map[string][]byte) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeFileAtomic(s.Path(k), values[k], s.perm); err != nil {
			return fmt.Errorf("write %s: %w", k, err)
		}
	}
	return nil
}

// Ping checks that the data directory is still there.
func (s *Store) Ping(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}

func (s *Store) Close() error { return nil }

// writeFileAtomic writes to a temp file in the same directory, syncs it and
// renames it over path.
func writeFileAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".tmp.%s.%d", filepath.Base(path), os.Getpid()))

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}
