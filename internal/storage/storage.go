// Package storage persists table files for the editor.
//
// Three backends share one contract: Read returns the stored bytes or an
// error matching fs.ErrNotExist, and Write replaces a file atomically so a
// crash never leaves a half-written table behind.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Backend is a table file store.
type Backend interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
	Close() error
}

// ErrInvalidName is returned for names that are empty or contain path
// elements.
var ErrInvalidName = errors.New("invalid file name")

func validateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case strings.ContainsAny(name, `/\`), name == ".", name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
