package repository

import (
	"context"
	"fmt"
	"time"

	"storecase/catalog-service/internal/app/catalog/entity"
	"storecase/pkg/metrics"

	"gorm.io/gorm"
)

type productImageRepository struct {
	conn conn
}

func NewProductImageRepository(db *gorm.DB) ProductImageRepository {
	return &productImageRepository{conn: newConn(db)}
}

func (r *productImageRepository) Create(ctx context.Context, image *entity.ProductImage) (err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "product_images")
	defer func() { timer.Observe(err) }()

	if err = r.conn.get(ctx).Create(image).Error; err != nil {
		return fmt.Errorf("failed to create product image: %w", err)
	}
	return nil
}

// AttachToProduct only touches images that are still unattached, so an existing
// binding is never moved to another product. Unknown ids are ignored.
func (r *productImageRepository) AttachToProduct(ctx context.Context, productID int64, imageIDs []int64) (_ int64, err error) {
	if len(imageIDs) == 0 {
		return 0, nil
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "product_images")
	defer func() { timer.Observe(err) }()

	result := r.conn.get(ctx).
		Model(&entity.ProductImage{}).
		Where("id IN ? AND product_id IS NULL", imageIDs).
		Update("product_id", productID)
	if err = result.Error; err != nil {
		return 0, fmt.Errorf("failed to attach product images: %w", err)
	}
	return result.RowsAffected, nil
}

func (r *productImageRepository) FindUnattachedBefore(ctx context.Context, before time.Time, limit int) (_ []entity.ProductImage, err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "product_images")
	defer func() { timer.Observe(err) }()

	images := make([]entity.ProductImage, 0)
	err = r.conn.get(ctx).
		Where("product_id IS NULL AND created_at < ?", before).
		Order("id ASC").
		Limit(limit).
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find unattached product images: %w", err)
	}
	return images, nil
}

func (r *productImageRepository) DeleteUnattached(ctx context.Context, id int64) (_ bool, err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "product_images")
	defer func() { timer.Observe(err) }()

	result := r.conn.get(ctx).Where("product_id IS NULL").Delete(&entity.ProductImage{}, "id = ?", id)
	if err = result.Error; err != nil {
		return false, fmt.Errorf("failed to delete product image: %w", err)
	}
	return result.RowsAffected > 0, nil
}
