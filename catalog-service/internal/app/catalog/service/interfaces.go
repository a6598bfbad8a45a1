package service

import (
	"context"
	"io"

	"storecase/catalog-service/internal/app/catalog/entity"
)

type CategoryServiceInterface interface {
	CreateCategory(ctx context.Context, req *entity.CategoryRequest) (*entity.Category, error)
	GetCategory(ctx context.Context, id int64) (*entity.Category, error)
	GetAllCategories(ctx context.Context) ([]entity.Category, error)
	UpdateCategory(ctx context.Context, id int64, req *entity.CategoryRequest) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type ProductServiceInterface interface {
	ResolveStoreID(ctx context.Context, sellerID int64) (int64, error)
	CreateProduct(ctx context.Context, storeID int64, req *entity.CreateProductRequest) (*entity.Product, error)
}

type ImageServiceInterface interface {
	UploadImage(ctx context.Context, file UploadedFile) (*entity.ImageUploadResponse, error)
}

// UploadedFile is a file received from a client, independent of the transport.
type UploadedFile struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// TxManager runs fn in one database transaction carried by ctx.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
