package service

import (
	"context"
	"fmt"

	"storecase/catalog-service/internal/app/catalog/entity"
	"storecase/catalog-service/internal/app/catalog/infrastructure"
	"storecase/catalog-service/internal/app/catalog/repository"
	"storecase/pkg/logger"
	"storecase/pkg/metrics"

	"github.com/google/uuid"
)

const imageKeyPrefix = "product-images/"

type ImageService struct {
	imageRepo repository.ProductImageRepository
	storage   infrastructure.ObjectStorage
}

func NewImageService(imageRepo repository.ProductImageRepository, storage infrastructure.ObjectStorage) *ImageService {
	return &ImageService{
		imageRepo: imageRepo,
		storage:   storage,
	}
}

// UploadImage stores the bytes first; the metadata row is written only after the object exists.
func (s *ImageService) UploadImage(ctx context.Context, file UploadedFile) (*entity.ImageUploadResponse, error) {
	key := imageKey(file.Name)

	if err := s.storage.Upload(ctx, key, file.Content, file.Size, file.ContentType); err != nil {
		metrics.ImagesUploaded.WithLabelValues("failed").Inc()
		logger.Error().Err(err).Str("key", key).Msg("image upload failed")
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	image := &entity.ProductImage{
		OriginalName: file.Name,
		StorageKey:   key,
	}
	if err := s.imageRepo.Create(ctx, image); err != nil {
		metrics.ImagesUploaded.WithLabelValues("failed").Inc()
		if removeErr := s.storage.Remove(ctx, key); removeErr != nil {
			logger.Warn().Err(removeErr).Str("key", key).Msg("failed to remove orphaned image object")
		}
		return nil, fmt.Errorf("failed to save image metadata: %w", err)
	}

	url, err := s.storage.PresignedURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to presign image url: %w", err)
	}

	metrics.ImagesUploaded.WithLabelValues("success").Inc()
	return &entity.ImageUploadResponse{
		ImageID:  image.ID,
		ImageURL: url,
	}, nil
}

func imageKey(filename string) string {
	return imageKeyPrefix + uuid.NewString() + "_" + filename
}
