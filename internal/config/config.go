// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	AWS         AWSConfig
	Upload      UploadConfig
	Sweep       SweepConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	CloudFrontURL   string
}

// UploadConfig bounds what the listing forms may send. Namespace is the
// top-level object-store prefix shared by every listing upload; the admin
// panel has always written house and land media under the same "homes/" tree.
type UploadConfig struct {
	Namespace     string
	MaxImageSize  int64 // in bytes
	MaxVideoSize  int64 // in bytes
	ImageTypes    []string
	VideoTypes    []string
	UploadWorkers int // 1 = strictly sequential
}

// SweepConfig drives the orphaned-asset reconciliation job. Objects that no
// listing references and that are older than GracePeriodMin are deleted.
type SweepConfig struct {
	Enabled        bool
	Schedule       string
	GracePeriodMin int
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "noble_homes"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "ap-south-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "noble-homes-media"),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
		},
		Upload: UploadConfig{
			Namespace:     getEnv("UPLOAD_NAMESPACE", "homes"),
			MaxImageSize:  getEnvAsInt64("UPLOAD_MAX_IMAGE_SIZE", 10*1024*1024),
			MaxVideoSize:  getEnvAsInt64("UPLOAD_MAX_VIDEO_SIZE", 200*1024*1024),
			ImageTypes:    getEnvAsSlice("UPLOAD_IMAGE_TYPES", []string{".jpg", ".jpeg", ".png", ".webp"}),
			VideoTypes:    getEnvAsSlice("UPLOAD_VIDEO_TYPES", []string{".mp4", ".mov", ".webm"}),
			UploadWorkers: getEnvAsInt("UPLOAD_WORKERS", 1),
		},
		Sweep: SweepConfig{
			Enabled:        getEnvAsBool("SWEEP_ENABLED", true),
			Schedule:       getEnv("SWEEP_SCHEDULE", "0 3 * * *"),
			GracePeriodMin: getEnvAsInt("SWEEP_GRACE_PERIOD_MIN", 60),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	if c.AWS.AccessKeyID == "" && c.Environment == "production" {
		return fmt.Errorf("AWS credentials are required in production")
	}

	if c.Upload.UploadWorkers < 1 {
		return fmt.Errorf("UPLOAD_WORKERS must be at least 1")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
