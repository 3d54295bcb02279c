package ports

import (
	"context"

	"bv-connector/internal/domain"
)

// Uploader pushes a local feed file to the vendor inbox. The store carries
// scope context (credentials and endpoint can differ per store).
type Uploader interface {
	Upload(ctx context.Context, localPath, remotePath string, store *domain.Store) error
}
