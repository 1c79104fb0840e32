package bootstrap

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"optics-shop/internal/config"
	"optics-shop/internal/core"
	"optics-shop/internal/export"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		ServerPort:         "0",
		StorageDriver:      "sqlite",
		SQLitePath:         filepath.Join(dir, "optics.db"),
		PersistencePolicy:  core.PolicyDegrade,
		PersistenceRetries: 1,
		SeedSampleData:     true,
		TimeZone:           "UTC",
		BlobDriver:         "fs",
		BlobDir:            filepath.Join(dir, "exports"),
		ExportTimeout:      5 * time.Second,
		Shop:               core.DefaultShop,
	}
}

func TestBuild_SeedsAndPersists(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	rt, err := Build(ctx, cfg)
	require.NoError(t, err)

	clients, err := rt.Service.ListClients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, clients.Clients, 3)

	h, err := rt.Service.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", h.StorageDriver)
	assert.Equal(t, "fs", h.BlobDriver)

	require.NoError(t, rt.Service.DeleteInventoryItem(ctx, 1))
	require.NoError(t, rt.Close(ctx))

	// Reopen: the deletion survives and the seed is not reapplied.
	rt, err = Build(ctx, cfg)
	require.NoError(t, err)
	defer rt.Close(ctx)
	inv, err := rt.Service.ListInventory(ctx)
	require.NoError(t, err)
	assert.Len(t, inv.Items, 3)
}

func TestBuild_Rasterizers(t *testing.T) {
	cfg := testConfig(t)
	assert.Empty(t, rasterizers(cfg))

	cfg.ExportPDFCommand = "wkhtmltopdf - -"
	r := rasterizers(cfg)
	require.Contains(t, r, export.FormatPDF)
	assert.NotContains(t, r, export.FormatJPEG)
}

func TestBuild_InvalidStorage(t *testing.T) {
	cfg := testConfig(t)
	cfg.StorageDriver = "redis"
	_, err := Build(context.Background(), cfg)
	assert.Error(t, err)
}
