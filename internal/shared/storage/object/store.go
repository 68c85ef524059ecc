package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for archiving and retrieving binary objects.
type ObjectStore interface {
	// Save stores r under a generated key inside the namespace and sniffs its mime type.
	Save(ctx context.Context, namespace string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	// SaveWithKey stores r at an exact key, typically one derived from a Save result.
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
