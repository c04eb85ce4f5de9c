// Copyright (c) 2026 Quillshelf. All rights reserved.

/*
Package storage provides the blob store for user-uploaded media.

It handles the three public buckets of the platform (cover images, book
documents, and avatars), writing blobs under a filesystem root with one
directory per bucket and handing back stable public URLs.

Core Responsibilities:

  - Durability: Atomic writes (temp file + rename) so readers never see a
    partially uploaded blob.
  - Addressing: Deterministic public URLs of the form <base>/<bucket>/<name>.
  - Hygiene: Object names are sanitized so a hostile name cannot escape the
    bucket directory.
*/
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/quillshelf/quillshelf/internal/platform/constants"
)

// Store is the blob storage abstraction used by the domain services.
//
// # Why an interface?
//
// Domain services depend on Store rather than the filesystem implementation,
// so tests can inject an in-memory fake and a future S3-backed store can be
// swapped in without touching the services.
type Store interface {

	// Save writes the blob and returns its public URL.
	Save(ctx context.Context, bucket, name string, content io.Reader) (string, error)

	// Remove deletes the blob. Removing a missing blob is not an error.
	Remove(ctx context.Context, bucket, name string) error

	// URL returns the public URL for a stored blob without touching disk.
	URL(bucket, name string) string
}

// FileStore is the filesystem-backed [Store] implementation.
type FileStore struct {
	root    string
	baseURL string
	logger  *slog.Logger
}

// NewFileStore prepares the bucket directories under root and returns a store.
//
// # Parameters
//   - root: Filesystem directory holding one subdirectory per bucket.
//   - baseURL: Public URL prefix under which the root is served.
//   - logger: Structured logger for storage events.
func NewFileStore(root, baseURL string, logger *slog.Logger) (*FileStore, error) {
	buckets := []string{constants.BucketCovers, constants.BucketBooks, constants.BucketAvatars}

	for _, bucket := range buckets {
		if err := os.MkdirAll(filepath.Join(root, bucket), 0o755); err != nil {
			return nil, fmt.Errorf("storage: failed to prepare bucket %q: %w", bucket, err)
		}
	}

	logger.Info("file store ready",
		slog.String("root", root),
		slog.String("base_url", baseURL),
	)

	return &FileStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}, nil
}

// Save writes the blob atomically and returns its public URL.
//
// # Flow
//  1. Sanitize the object name (path traversal defense).
//  2. Stream the content into a temp file in the bucket directory.
//  3. Rename the temp file into place.
func (s *FileStore) Save(ctx context.Context, bucket, name string, content io.Reader) (string, error) {
	cleanName, err := sanitizeName(name)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("storage: save aborted: %w", err)
	}

	bucketDir := filepath.Join(s.root, bucket)
	tempFile, err := os.CreateTemp(bucketDir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("storage: failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	written, err := io.Copy(tempFile, content)
	if closeErr := tempFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("storage: failed to write blob: %w", err)
	}

	finalPath := filepath.Join(bucketDir, cleanName)
	if err := os.Rename(tempPath, finalPath); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("storage: failed to finalize blob: %w", err)
	}

	s.logger.Debug("blob_saved",
		slog.String("bucket", bucket),
		slog.String("name", cleanName),
		slog.Int64("bytes", written),
	)

	return s.URL(bucket, cleanName), nil
}

// Remove deletes the blob. A missing blob is treated as already removed.
func (s *FileStore) Remove(_ context.Context, bucket, name string) error {
	cleanName, err := sanitizeName(name)
	if err != nil {
		return err
	}

	err = os.Remove(filepath.Join(s.root, bucket, cleanName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: failed to remove blob: %w", err)
	}
	return nil
}

// URL returns the public URL for a stored blob.
func (s *FileStore) URL(bucket, name string) string {
	return s.baseURL + "/" + bucket + "/" + name
}

// Root returns the filesystem root, used by the server to mount static serving.
func (s *FileStore) Root() string {
	return s.root
}

// sanitizeName rejects object names that could escape the bucket directory.
func sanitizeName(name string) (string, error) {
	clean := filepath.Base(strings.TrimSpace(name))
	if clean == "" || clean == "." || clean == ".." || strings.ContainsAny(clean, "/\\") {
		return "", fmt.Errorf("storage: invalid object name %q", name)
	}
	return clean, nil
}
