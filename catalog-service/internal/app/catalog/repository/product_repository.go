package repository

import (
	"context"
	"fmt"

	"storecase/catalog-service/internal/app/catalog/entity"
	"storecase/pkg/metrics"

	"gorm.io/gorm"
)

type productRepository struct {
	conn conn
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{conn: newConn(db)}
}

// Create fills product.ID on success.
func (r *productRepository) Create(ctx context.Context, product *entity.Product) (err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "products")
	defer func() { timer.Observe(err) }()

	if err = r.conn.get(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

type optionRepository struct {
	conn conn
}

func NewOptionRepository(db *gorm.DB) OptionRepository {
	return &optionRepository{conn: newConn(db)}
}

// CreateBatch inserts all options with a single statement, keeping input order.
func (r *optionRepository) CreateBatch(ctx context.Context, options []entity.Option) (err error) {
	if len(options) == 0 {
		return nil
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "options")
	defer func() { timer.Observe(err) }()

	if err = r.conn.get(ctx).Create(&options).Error; err != nil {
		return fmt.Errorf("failed to create options: %w", err)
	}
	return nil
}
