package service

import (
	"context"
	"errors"
	"fmt"

	"storecase/catalog-service/internal/app/catalog/entity"
	"storecase/catalog-service/internal/app/catalog/infrastructure"
	"storecase/catalog-service/internal/app/catalog/repository"
	"storecase/pkg/logger"
)

// CategoryService manages categories and keeps the cached category list coherent.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	cache        infrastructure.CategoryCache
}

func NewCategoryService(categoryRepo repository.CategoryRepository, cache infrastructure.CategoryCache) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		cache:        cache,
	}
}

func (s *CategoryService) CreateCategory(ctx context.Context, req *entity.CategoryRequest) (*entity.Category, error) {
	exists, err := s.categoryRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if exists {
		return nil, ErrCategoryAlreadyExists
	}

	category := &entity.Category{Name: req.Name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, mapCategoryError(err, "failed to create category")
	}

	s.invalidateCache(ctx)
	return category, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id int64) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapCategoryError(err, "failed to get category")
	}
	return category, nil
}

// GetAllCategories serves the list from cache when possible. The cache version is
// read before the database so a list loaded across a concurrent write is not cached.
func (s *CategoryService) GetAllCategories(ctx context.Context) ([]entity.Category, error) {
	cached, err := s.cache.GetCategories(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to read categories from cache")
	} else if cached != nil {
		return cached, nil
	}

	version, versionErr := s.cache.CategoriesVersion(ctx)
	if versionErr != nil {
		logger.Warn().Err(versionErr).Msg("failed to read categories cache version")
	}

	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	if versionErr != nil {
		return categories, nil
	}

	stored, err := s.cache.SetCategories(ctx, categories, version)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to cache categories")
	} else if !stored {
		logger.Debug().Msg("categories changed during load, cache left empty")
	}

	return categories, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, req *entity.CategoryRequest) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapCategoryError(err, "failed to get category")
	}

	if category.Name == req.Name {
		return category, nil
	}

	category.Name = req.Name
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, mapCategoryError(err, "failed to update category")
	}

	s.invalidateCache(ctx)
	return category, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return mapCategoryError(err, "failed to delete category")
	}

	s.invalidateCache(ctx)
	return nil
}

func (s *CategoryService) invalidateCache(ctx context.Context) {
	if err := s.cache.DeleteCategories(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to invalidate categories cache")
	}
}

func mapCategoryError(err error, msg string) error {
	switch {
	case errors.Is(err, repository.ErrCategoryNotFound):
		return ErrCategoryNotFound
	case errors.Is(err, repository.ErrCategoryAlreadyExists):
		return ErrCategoryAlreadyExists
	case errors.Is(err, repository.ErrCategoryInUse):
		return ErrCategoryInUse
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}
