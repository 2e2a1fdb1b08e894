// Package filestore persists uploaded files on local disk and hands back
// the URL they are served under.
package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Store saves named blobs and returns a serving URL.
type Store interface {
	Save(ctx context.Context, name string, contentType string, r io.Reader) (string, error)
	Remove(ctx context.Context, name string) error
}

type diskStore struct {
	root    string
	baseURL string
}

// NewDiskStore creates the root directory if needed and returns a store
// rooted there.
func NewDiskStore(root, baseURL string) (Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &diskStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *diskStore) Save(ctx context.Context, name string, contentType string, r io.Reader) (string, error) {
	name = sanitize(name)
	if name == "" {
		return "", fmt.Errorf("invalid file name")
	}

	path := filepath.Join(s.root, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return fmt.Sprintf("%s/%s", s.baseURL, name), nil
}

func (s *diskStore) Remove(ctx context.Context, name string) error {
	name = sanitize(name)
	if name == "" {
		return fmt.Errorf("invalid file name")
	}
	if err := os.Remove(filepath.Join(s.root, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// sanitize strips any path components so stored names cannot escape the root.
func sanitize(name string) string {
	name = filepath.Base(filepath.Clean(name))
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return name
}
