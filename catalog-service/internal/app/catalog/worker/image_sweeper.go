package worker

import (
	"context"
	"fmt"
	"time"

	"storecase/catalog-service/internal/app/catalog/infrastructure"
	"storecase/catalog-service/internal/app/catalog/repository"
	"storecase/pkg/logger"
	"storecase/pkg/metrics"

	"github.com/robfig/cron/v3"
)

const sweepBatchSize = 100

// ImageSweeper removes images that were uploaded but never attached to a product.
type ImageSweeper struct {
	cron      *cron.Cron
	imageRepo repository.ProductImageRepository
	storage   infrastructure.ObjectStorage
	maxAge    time.Duration
	now       func() time.Time
}

func NewImageSweeper(imageRepo repository.ProductImageRepository, storage infrastructure.ObjectStorage, maxAge time.Duration) *ImageSweeper {
	return &ImageSweeper{
		cron:      cron.New(cron.WithLogger(cron.PrintfLogger(logger.PrintfLogger{}))),
		imageRepo: imageRepo,
		storage:   storage,
		maxAge:    maxAge,
		now:       time.Now,
	}
}

func (s *ImageSweeper) Start(ctx context.Context, schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		removed, err := s.Sweep(ctx)
		if err != nil {
			logger.Error().Err(err).Int("removed", removed).Msg("orphan image sweep failed")
			return
		}
		logger.Info().Int("removed", removed).Msg("orphan image sweep completed")
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	logger.Info().Str("schedule", schedule).Dur("max_age", s.maxAge).Msg("image sweeper started")
	return nil
}

func (s *ImageSweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("image sweeper stopped")
}

// Sweep deletes one batch of old unattached images. The row is deleted first and
// the object is removed only when the row was still unattached at that moment.
func (s *ImageSweeper) Sweep(ctx context.Context) (int, error) {
	images, err := s.imageRepo.FindUnattachedBefore(ctx, s.now().Add(-s.maxAge), sweepBatchSize)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, image := range images {
		deleted, err := s.imageRepo.DeleteUnattached(ctx, image.ID)
		if err != nil {
			return removed, err
		}
		if !deleted {
			continue
		}

		if err := s.storage.Remove(ctx, image.StorageKey); err != nil {
			logger.Warn().Err(err).Str("key", image.StorageKey).Msg("failed to remove orphan image object")
		}
		removed++
		metrics.OrphanImagesSwept.Inc()
	}

	return removed, nil
}
