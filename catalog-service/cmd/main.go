package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storecase/catalog-service/internal/app/catalog/config"
	"storecase/catalog-service/internal/app/catalog/handler"
	"storecase/catalog-service/internal/app/catalog/infrastructure/cache"
	identityhttp "storecase/catalog-service/internal/app/catalog/infrastructure/http"
	"storecase/catalog-service/internal/app/catalog/infrastructure/messaging"
	"storecase/catalog-service/internal/app/catalog/infrastructure/storage"
	"storecase/catalog-service/internal/app/catalog/repository"
	"storecase/catalog-service/internal/app/catalog/service"
	"storecase/catalog-service/internal/app/catalog/worker"
	"storecase/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const serviceName = "catalog-service"

func main() {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init(serviceName, logLevel)

	if logstashAddr := os.Getenv("LOGSTASH_ADDR"); logstashAddr != "" {
		if err := logger.InitLogstash(logstashAddr, serviceName, logLevel); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", logstashAddr).Msg("Connected to Logstash")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().Str("host", cfg.Database.Host).Str("database", cfg.Database.DBName).Msg("Connected to PostgreSQL")

	if err := repository.RunMigrations(cfg.Database.URL()); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	categoryCache := cache.NewCategoryCache(redisClient, cfg.Redis.TTL)

	kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("Kafka producer initialized")

	minioClient, err := storage.NewMinioClient(
		cfg.Storage.Endpoint,
		cfg.Storage.AccessKeyID,
		cfg.Storage.SecretAccessKey,
		cfg.Storage.UseSSL,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create object storage client")
	}
	objectStorage := storage.NewMinioStorage(minioClient, cfg.Storage.Bucket, cfg.Storage.PresignExpiry)

	bucketCtx, cancelBucket := context.WithTimeout(context.Background(), 10*time.Second)
	err = objectStorage.EnsureBucket(bucketCtx)
	cancelBucket()
	if err != nil {
		logger.Fatal().Err(err).Str("bucket", cfg.Storage.Bucket).Msg("Failed to prepare object storage bucket")
	}

	identityClient := identityhttp.NewIdentityClient(
		cfg.IdentityService.URL,
		cfg.IdentityService.ConnectTimeout,
		cfg.IdentityService.ReadTimeout,
	)

	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	optionRepo := repository.NewOptionRepository(db)
	imageRepo := repository.NewProductImageRepository(db)
	txManager := repository.NewTxManager(db)

	categoryService := service.NewCategoryService(categoryRepo, categoryCache)
	imageService := service.NewImageService(imageRepo, objectStorage)
	productService := service.NewProductService(
		txManager,
		categoryRepo,
		productRepo,
		optionRepo,
		imageRepo,
		identityClient,
		kafkaProducer,
	)

	router := handler.SetupRoutes(
		handler.NewCategoryHandler(categoryService),
		handler.NewProductHandler(productService, imageService),
	)

	rootCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	var sweeper *worker.ImageSweeper
	if cfg.ImageSweep.Enabled {
		sweeper = worker.NewImageSweeper(imageRepo, objectStorage, cfg.ImageSweep.MaxAge)
		if err := sweeper.Start(rootCtx, cfg.ImageSweep.Schedule); err != nil {
			logger.Fatal().Err(err).Msg("Failed to start image sweeper")
		}
	}

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("address", cfg.Server.Address()).Msg("Starting Catalog Service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Catalog Service...")

	stopWorkers()
	if sweeper != nil {
		sweeper.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info().Msg("Catalog Service stopped gracefully")
}

// connectDB retries for a while because postgres may still be starting in docker.
func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Warn),
		SkipDefaultTransaction: true,
	}

	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else if err = sqlDB.Ping(); err == nil {
				sqlDB.SetMaxOpenConns(25)
				sqlDB.SetMaxIdleConns(5)
				sqlDB.SetConnMaxLifetime(5 * time.Minute)
				sqlDB.SetConnMaxIdleTime(1 * time.Minute)
				return db, nil
			}
		}
		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}
