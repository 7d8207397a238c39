package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File keeps every key in one JSON document on local disk, rewritten in full
// through a temp file and rename on each mutation.
type File struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

func OpenFile(path string) (*File, error) {
	f := &File{path: path, data: make(map[string]string)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &f.data); err != nil {
			return nil, fmt.Errorf("decode store file %s: %w", path, err)
		}
	}

	return f, nil
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.data[key]
	return v, ok, nil
}

func (f *File) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return f.apply(func(data map[string]string) {
		data[key] = value
	})
}

func (f *File) Remove(ctx context.Context, key string) error {
	return f.apply(func(data map[string]string) {
		delete(data, key)
	})
}

func (f *File) SetMany(ctx context.Context, entries map[string]string) error {
	for k := range entries {
		if k == "" {
			return ErrEmptyKey
		}
	}
	return f.apply(func(data map[string]string) {
		for k, v := range entries {
			if v == "" {
				delete(data, k)
			} else {
				data[k] = v
			}
		}
	})
}

func (f *File) Close() error { return nil }

// apply mutates a copy and only swaps it in once the file write succeeded.
func (f *File) apply(mutate func(map[string]string)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := make(map[string]string, len(f.data)+1)
	for k, v := range f.data {
		next[k] = v
	}
	mutate(next)

	if err := writeAtomic(f.path, next); err != nil {
		return err
	}

	f.data = next
	return nil
}

func writeAtomic(path string, data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".store-*.json")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp store file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}

	return nil
}
