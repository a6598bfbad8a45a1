package infrastructure

import (
	"context"
	"errors"
	"io"

	"storecase/catalog-service/internal/app/catalog/entity"
)

var (
	// ErrStoreNotFound: the identity service does not know the seller or has no store for it.
	ErrStoreNotFound = errors.New("seller's store id not found")
	// ErrIdentityServiceUnavailable: the call did not complete or the answer was unusable.
	ErrIdentityServiceUnavailable = errors.New("identity service unavailable")
)

type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

type IdentityServiceClient interface {
	GetStoreID(ctx context.Context, sellerID int64) (int64, error)
}

type ObjectStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// PresignedURL returns "" for an empty key.
	PresignedURL(ctx context.Context, key string) (string, error)
	Remove(ctx context.Context, key string) error
}

// CategoryCache: GetCategories returns nil, nil on a miss. A loader takes
// CategoriesVersion before reading the database and passes it to SetCategories,
// which skips the write when an invalidation happened in between.
type CategoryCache interface {
	CategoriesVersion(ctx context.Context) (int64, error)
	SetCategories(ctx context.Context, categories []entity.Category, version int64) (bool, error)
	GetCategories(ctx context.Context) ([]entity.Category, error)
	DeleteCategories(ctx context.Context) error
}
