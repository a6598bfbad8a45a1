package repository

import (
	"context"
	"errors"
	"fmt"

	"storecase/catalog-service/internal/app/catalog/entity"
	"storecase/pkg/metrics"

	"gorm.io/gorm"
)

type categoryRepository struct {
	conn conn
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{conn: newConn(db)}
}

// Create relies on uq_categories_name for uniqueness; a violation maps to ErrCategoryAlreadyExists.
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) (err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "categories")
	defer func() { timer.Observe(err) }()

	if err = r.conn.get(ctx).Create(category).Error; err != nil {
		if isPgError(err, pgUniqueViolation) {
			return ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (_ *entity.Category, err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "categories")
	defer func() { timer.Observe(err) }()

	var category entity.Category
	if err = r.conn.get(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

func (r *categoryRepository) GetAll(ctx context.Context) (_ []entity.Category, err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "categories")
	defer func() { timer.Observe(err) }()

	categories := make([]entity.Category, 0)
	if err = r.conn.get(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) ExistsByName(ctx context.Context, name string) (_ bool, err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "categories")
	defer func() { timer.Observe(err) }()

	var count int64
	if err = r.conn.get(ctx).Model(&entity.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return count > 0, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) (err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "categories")
	defer func() { timer.Observe(err) }()

	result := r.conn.get(ctx).Model(category).Where("id = ?", category.ID).Update("name", category.Name)
	if err = result.Error; err != nil {
		if isPgError(err, pgUniqueViolation) {
			return ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) (err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "categories")
	defer func() { timer.Observe(err) }()

	result := r.conn.get(ctx).Delete(&entity.Category{}, "id = ?", id)
	if err = result.Error; err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return ErrCategoryInUse
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
