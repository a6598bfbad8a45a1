package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"storecase/catalog-service/internal/app/catalog/entity"
	"storecase/catalog-service/internal/app/catalog/infrastructure"
	"storecase/catalog-service/internal/app/catalog/repository"
	"storecase/pkg/logger"
	"storecase/pkg/metrics"
)

// ProductService creates a product together with its options and images as one unit of work.
type ProductService struct {
	txManager      TxManager
	categoryRepo   repository.CategoryRepository
	productRepo    repository.ProductRepository
	optionRepo     repository.OptionRepository
	imageRepo      repository.ProductImageRepository
	identityClient infrastructure.IdentityServiceClient
	publisher      infrastructure.MessagePublisher
}

func NewProductService(
	txManager TxManager,
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	optionRepo repository.OptionRepository,
	imageRepo repository.ProductImageRepository,
	identityClient infrastructure.IdentityServiceClient,
	publisher infrastructure.MessagePublisher,
) *ProductService {
	return &ProductService{
		txManager:      txManager,
		categoryRepo:   categoryRepo,
		productRepo:    productRepo,
		optionRepo:     optionRepo,
		imageRepo:      imageRepo,
		identityClient: identityClient,
		publisher:      publisher,
	}
}

func (s *ProductService) ResolveStoreID(ctx context.Context, sellerID int64) (int64, error) {
	return s.identityClient.GetStoreID(ctx, sellerID)
}

func (s *ProductService) CreateProduct(ctx context.Context, storeID int64, req *entity.CreateProductRequest) (*entity.Product, error) {
	if req.CategoryID == nil {
		return nil, ErrCategoryNotFound
	}

	product := &entity.Product{
		StoreID:     storeID,
		CategoryID:  *req.CategoryID,
		Name:        req.ProductName,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		OptionName:  req.OptionName,
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		if _, err := s.categoryRepo.GetByID(ctx, product.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return ErrCategoryNotFound
			}
			return fmt.Errorf("failed to get category: %w", err)
		}

		if err := s.productRepo.Create(ctx, product); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		if err := s.optionRepo.CreateBatch(ctx, buildOptions(product.ID, req.Options)); err != nil {
			return fmt.Errorf("failed to create options: %w", err)
		}

		attached, err := s.imageRepo.AttachToProduct(ctx, product.ID, req.ImageIDs)
		if err != nil {
			return fmt.Errorf("failed to attach images: %w", err)
		}
		if attached < int64(len(req.ImageIDs)) {
			logger.Debug().
				Int64("product_id", product.ID).
				Int("requested", len(req.ImageIDs)).
				Int64("attached", attached).
				Msg("some images were unknown or already attached")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ProductsCreated.Inc()
	s.publishProductCreated(ctx, product)

	return product, nil
}

func buildOptions(productID int64, reqs []entity.OptionRequest) []entity.Option {
	if len(reqs) == 0 {
		return nil
	}

	options := make([]entity.Option, 0, len(reqs))
	for _, o := range reqs {
		options = append(options, entity.Option{
			ProductID: productID,
			Name:      o.OptionDetail,
			Price:     o.Price,
			Stock:     o.Stock,
		})
	}
	return options
}

// publishProductCreated runs after commit; a failure is logged only.
func (s *ProductService) publishProductCreated(ctx context.Context, product *entity.Product) {
	event := entity.ProductEvent{
		EventType:  entity.EventProductCreated,
		ProductID:  product.ID,
		StoreID:    product.StoreID,
		CategoryID: product.CategoryID,
		Name:       product.Name,
		Timestamp:  time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Warn().Err(err).Int64("product_id", product.ID).Msg("failed to marshal product event")
		return
	}

	if err := s.publisher.PublishMessage(ctx, strconv.FormatInt(product.ID, 10), payload); err != nil {
		logger.Warn().Err(err).Int64("product_id", product.ID).Msg("failed to publish product event")
	}
}
