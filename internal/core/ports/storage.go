package ports

import (
	"context"
	"io"
)

// BlobStore abstracts attachment byte storage. Save returns an opaque locator
// and the number of bytes written. Delete is idempotent: removing an absent
// object is not an error.
type BlobStore interface {
	Save(ctx context.Context, name string, r io.Reader) (locator string, size int64, err error)
	Delete(ctx context.Context, locator string) error
}
