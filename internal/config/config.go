package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"optics-shop/internal/core"
)

// Config is the process configuration read from the environment.
type Config struct {
	ServerPort     string
	AllowedOrigins string

	StorageDriver      string // memory | file | sqlite | postgres
	StorageDir         string
	SQLitePath         string
	DatabaseURL        string
	PersistencePolicy  core.PersistencePolicy
	PersistenceRetries int
	SeedSampleData     bool
	TimeZone           string

	BlobDriver      string // fs | memory | s3
	BlobDir         string
	BlobS3Bucket    string
	BlobS3Region    string
	BlobS3Endpoint  string
	BlobS3PathStyle bool

	ExportTimeout time.Duration
	// Commands that read HTML on stdin and write the image or PDF to stdout,
	// e.g. "wkhtmltoimage --format jpg - -". Empty disables the format.
	ExportJPEGCommand string
	ExportPDFCommand  string

	KafkaBrokers []string
	KafkaTopic   string

	Shop core.Shop
}

// Load reads the configuration from environment variables and validates it.
// Callers load .env files beforehand.
func Load() (*Config, error) {
	retries, err := strconv.Atoi(getEnv("PERSISTENCE_RETRIES", "2"))
	if err != nil {
		return nil, fmt.Errorf("PERSISTENCE_RETRIES: %w", err)
	}
	seed, err := strconv.ParseBool(getEnv("SEED_SAMPLE_DATA", "true"))
	if err != nil {
		return nil, fmt.Errorf("SEED_SAMPLE_DATA: %w", err)
	}
	pathStyle, err := strconv.ParseBool(getEnv("BLOB_S3_PATH_STYLE", "false"))
	if err != nil {
		return nil, fmt.Errorf("BLOB_S3_PATH_STYLE: %w", err)
	}
	timeout, err := time.ParseDuration(getEnv("EXPORT_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("EXPORT_TIMEOUT: %w", err)
	}

	cfg := &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),

		StorageDriver:      strings.ToLower(getEnv("STORAGE_DRIVER", "file")),
		StorageDir:         getEnv("STORAGE_DIR", "data"),
		SQLitePath:         getEnv("SQLITE_PATH", "data/optics.db"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		PersistencePolicy:  core.PersistencePolicy(strings.ToLower(getEnv("PERSISTENCE_POLICY", string(core.PolicyDegrade)))),
		PersistenceRetries: retries,
		SeedSampleData:     seed,
		TimeZone:           getEnv("TIME_ZONE", "Asia/Almaty"),

		BlobDriver:      strings.ToLower(getEnv("BLOB_DRIVER", "fs")),
		BlobDir:         getEnv("BLOB_DIR", "data/exports"),
		BlobS3Bucket:    os.Getenv("BLOB_S3_BUCKET"),
		BlobS3Region:    getEnv("BLOB_S3_REGION", "us-east-1"),
		BlobS3Endpoint:  os.Getenv("BLOB_S3_ENDPOINT"),
		BlobS3PathStyle: pathStyle,

		ExportTimeout:     timeout,
		ExportJPEGCommand: strings.TrimSpace(os.Getenv("EXPORT_JPEG_COMMAND")),
		ExportPDFCommand:  strings.TrimSpace(os.Getenv("EXPORT_PDF_COMMAND")),

		KafkaBrokers: parseKafkaBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "order-events"),

		Shop: core.Shop{
			Name:      getEnv("SHOP_NAME", core.DefaultShop.Name),
			Address:   getEnv("SHOP_ADDRESS", core.DefaultShop.Address),
			WhatsApp:  getEnv("SHOP_WHATSAPP", core.DefaultShop.WhatsApp),
			Instagram: getEnv("SHOP_INSTAGRAM", core.DefaultShop.Instagram),
			Currency:  core.DefaultShop.Currency,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	switch c.StorageDriver {
	case "memory":
	case "file":
		if c.StorageDir == "" {
			return fmt.Errorf("STORAGE_DIR is required for the file driver")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	switch c.PersistencePolicy {
	case core.PolicyDegrade, core.PolicyFail:
	default:
		return fmt.Errorf("unknown PERSISTENCE_POLICY %q", c.PersistencePolicy)
	}
	if c.PersistenceRetries < 0 {
		return fmt.Errorf("PERSISTENCE_RETRIES must not be negative")
	}
	switch c.BlobDriver {
	case "memory":
	case "fs":
		if c.BlobDir == "" {
			return fmt.Errorf("BLOB_DIR is required for the fs driver")
		}
	case "s3":
		if c.BlobS3Bucket == "" {
			return fmt.Errorf("BLOB_S3_BUCKET is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unknown BLOB_DRIVER %q", c.BlobDriver)
	}
	if c.ExportTimeout <= 0 {
		return fmt.Errorf("EXPORT_TIMEOUT must be positive")
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

// Location resolves TIME_ZONE, falling back to the local zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseKafkaBrokers(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
