package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("object not found")

// ObjectStore holds KYC document blobs. Keys are opaque to callers; the
// database row records the key a document was stored under.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// DocumentKey builds the storage key for an upload:
// {userID}/{documentType}_{unixnano}.{ext}
func DocumentKey(userID uuid.UUID, documentType, ext string) string {
	return fmt.Sprintf("%s/%s_%d.%s", userID, documentType, time.Now().UnixNano(), ext)
}
