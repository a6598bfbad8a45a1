package repository

import (
	"context"
	"errors"
	"time"

	"storecase/catalog-service/internal/app/catalog/entity"
)

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category with this name already exists")
	ErrCategoryInUse         = errors.New("category is referenced by products")
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	GetAll(ctx context.Context) ([]entity.Category, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id int64) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
}

type OptionRepository interface {
	CreateBatch(ctx context.Context, options []entity.Option) error
}

type ProductImageRepository interface {
	Create(ctx context.Context, image *entity.ProductImage) error
	// AttachToProduct binds unattached images to productID and returns how many rows changed.
	AttachToProduct(ctx context.Context, productID int64, imageIDs []int64) (int64, error)
	FindUnattachedBefore(ctx context.Context, before time.Time, limit int) ([]entity.ProductImage, error)
	// DeleteUnattached reports false when the image no longer exists or got attached meanwhile.
	DeleteUnattached(ctx context.Context, id int64) (bool, error)
}
