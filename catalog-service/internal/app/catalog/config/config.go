package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting of the catalog service.
type Config struct {
	Server          ServerConfig
	Database        DatabaseConfig
	Redis           RedisConfig
	Kafka           KafkaConfig
	Storage         StorageConfig
	IdentityService IdentityServiceConfig
	ImageSweep      ImageSweepConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig is used for the category list cache.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// KafkaConfig: product events (PRODUCT_CREATED) go to Topic.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// StorageConfig describes the S3-compatible bucket that holds product images.
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	PresignExpiry   time.Duration
}

type IdentityServiceConfig struct {
	URL            string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// ImageSweepConfig controls removal of uploaded images that were never attached to a product.
type ImageSweepConfig struct {
	Enabled  bool
	Schedule string
	MaxAge   time.Duration
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	redisTTL, err := getEnvDuration("REDIS_CATEGORIES_TTL", time.Hour)
	if err != nil {
		return nil, err
	}
	useSSL, err := getEnvBool("STORAGE_USE_SSL", false)
	if err != nil {
		return nil, err
	}
	presignExpiry, err := getEnvDuration("STORAGE_PRESIGN_EXPIRY", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	connectTimeout, err := getEnvDuration("IDENTITY_CONNECT_TIMEOUT", 3*time.Second)
	if err != nil {
		return nil, err
	}
	readTimeout, err := getEnvDuration("IDENTITY_READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	sweepEnabled, err := getEnvBool("IMAGE_SWEEP_ENABLED", false)
	if err != nil {
		return nil, err
	}
	sweepMaxAge, err := getEnvDuration("IMAGE_SWEEP_MAX_AGE", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8082"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "catalog_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			TTL:      redisTTL,
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			Topic:   getEnv("KAFKA_TOPIC", "product_events"),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			Bucket:          getEnv("STORAGE_BUCKET", "storecase-catalog"),
			UseSSL:          useSSL,
			PresignExpiry:   presignExpiry,
		},
		IdentityService: IdentityServiceConfig{
			URL:            strings.TrimRight(getEnv("IDENTITY_SERVICE_URL", "http://localhost:8081/api"), "/"),
			ConnectTimeout: connectTimeout,
			ReadTimeout:    readTimeout,
		},
		ImageSweep: ImageSweepConfig{
			Enabled:  sweepEnabled,
			Schedule: getEnv("IMAGE_SWEEP_SCHEDULE", "@every 1h"),
			MaxAge:   sweepMaxAge,
		},
	}, nil
}

// DSN returns a libpq style connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// URL returns the postgres:// form used by the migration runner.
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
