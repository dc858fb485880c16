// Package storage provides the blob store for task attachments.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DiskStore persists attachment blobs on the local filesystem. Locators are
// opaque file names relative to the store root, so the root can move without
// rewriting documents.
type DiskStore struct {
	root string
}

// NewDiskStore creates the root directory if needed.
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{root: root}, nil
}

// Save writes the stream to a new file and returns its locator and size.
// The original file name only contributes its extension; the locator itself
// is unguessable.
func (s *DiskStore) Save(_ context.Context, name string, r io.Reader) (string, int64, error) {
	locator := uuid.NewString() + sanitizeExt(name)

	f, err := os.Create(filepath.Join(s.root, locator))
	if err != nil {
		return "", 0, fmt.Errorf("create blob: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		_ = os.Remove(f.Name())
		return "", 0, fmt.Errorf("write blob: %w", err)
	}
	return locator, size, nil
}

// Delete removes the blob. Deleting an absent blob is not an error.
func (s *DiskStore) Delete(_ context.Context, locator string) error {
	// Locators never contain path separators; reject anything that escapes
	// the root.
	if locator == "" || filepath.Base(locator) != locator {
		return fmt.Errorf("invalid locator %q", locator)
	}

	err := os.Remove(filepath.Join(s.root, locator))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

func sanitizeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if len(ext) > 16 {
		return ""
	}
	return ext
}
