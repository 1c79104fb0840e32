package config

import (
	"testing"
	"time"

	"optics-shop/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "STORAGE_DRIVER", "PERSISTENCE_POLICY", "BLOB_DRIVER", "KAFKA_BROKERS", "SHOP_NAME", "EXPORT_TIMEOUT"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "file", cfg.StorageDriver)
	assert.Equal(t, core.PolicyDegrade, cfg.PersistencePolicy)
	assert.Equal(t, 2, cfg.PersistenceRetries)
	assert.True(t, cfg.SeedSampleData)
	assert.Equal(t, 30*time.Second, cfg.ExportTimeout)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, core.DefaultShop, cfg.Shop)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("PERSISTENCE_POLICY", "fail")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("SHOP_NAME", "Оптика Плюс")
	t.Setenv("EXPORT_TIMEOUT", "5s")
	t.Setenv("EXPORT_PDF_COMMAND", " wkhtmltopdf - - ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.StorageDriver)
	assert.Equal(t, core.PolicyFail, cfg.PersistencePolicy)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "Оптика Плюс", cfg.Shop.Name)
	assert.Equal(t, core.DefaultShop.Address, cfg.Shop.Address)
	assert.Equal(t, 5*time.Second, cfg.ExportTimeout)
	assert.Equal(t, "wkhtmltopdf - -", cfg.ExportPDFCommand)
	assert.Empty(t, cfg.ExportJPEGCommand)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown storage":      {"STORAGE_DRIVER": "redis"},
		"postgres without dsn": {"STORAGE_DRIVER": "postgres", "DATABASE_URL": ""},
		"unknown policy":       {"PERSISTENCE_POLICY": "ignore"},
		"bad retries":          {"PERSISTENCE_RETRIES": "many"},
		"s3 without bucket":    {"BLOB_DRIVER": "s3", "BLOB_S3_BUCKET": ""},
		"bad timeout":          {"EXPORT_TIMEOUT": "soon"},
		"non-positive timeout": {"EXPORT_TIMEOUT": "0s"},
		"bad seed flag":        {"SEED_SAMPLE_DATA": "maybe"},
		"negative retries":     {"PERSISTENCE_RETRIES": "-1"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestConfig_Location(t *testing.T) {
	cfg := &Config{TimeZone: "Asia/Almaty"}
	loc := cfg.Location()
	require.NotNil(t, loc)

	cfg.TimeZone = "Nowhere/Special"
	assert.Equal(t, time.Local, cfg.Location())
}
