package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var ErrInvalidDirection = errors.New("direction must be 'up' or 'down'")

// MigrationFiles lists the *.{direction}.sql files in dir in the order they
// must run: ascending for up, descending for down.
func MigrationFiles(dir, direction string) ([]string, error) {
	if direction != "up" && direction != "down" {
		return nil, ErrInvalidDirection
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migration directory: %w", err)
	}

	suffix := fmt.Sprintf(".%s.sql", direction)
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}

	sort.Strings(files)
	if direction == "down" {
		for i, j := 0, len(files)-1; i < j; i, j = i+1, j-1 {
			files[i], files[j] = files[j], files[i]
		}
	}
	return files, nil
}

// Migrate runs every migration file for direction. onApply, if set, is
// called before each file.
func Migrate(ctx context.Context, db *sql.DB, dir, direction string, onApply func(file string)) (int, error) {
	files, err := MigrationFiles(dir, direction)
	if err != nil {
		return 0, err
	}

	for i, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return i, fmt.Errorf("read migration %s: %w", filepath.Base(file), err)
		}

		if onApply != nil {
			onApply(filepath.Base(file))
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return i, fmt.Errorf("execute migration %s: %w", filepath.Base(file), err)
		}
	}
	return len(files), nil
}
