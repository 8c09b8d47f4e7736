// Package fsutil provides small filesystem helpers shared by the develop
// pipeline.
package fsutil

import (
	"fmt"
	"os"
)

// EnsureDir creates dir and any missing parents. It is idempotent: an
// already-existing directory is not an error.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

// WithWorkingDir runs fn with dir as the process working directory and
// restores the previous working directory on every exit path.
func WithWorkingDir(dir string, fn func() error) error {
	prev, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("entering directory %s: %w", dir, err)
	}
	defer func() {
		_ = os.Chdir(prev)
	}()
	return fn()
}
