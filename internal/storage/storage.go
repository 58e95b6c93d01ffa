package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Package storage holds the object store abstraction used to archive run
// artifacts (uploaded source files and produced translations). Implementations
// must rely on streaming I/O only and never touch local disk.

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and
// the implementation will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is an S3-compatible object storage client interface.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL that can be used to download the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// SourceKey is the object key for the original file uploaded in a run.
func SourceKey(runID, filename string) string {
	return fmt.Sprintf("runs/%s/source/%s", runID, filename)
}

// TranslationKey is the object key for the translated text produced by a run.
func TranslationKey(runID string) string {
	return fmt.Sprintf("runs/%s/translation.txt", runID)
}
