// Package bootstrap wires configuration, storage and the application service
// for the server and CLI binaries.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"

	"optics-shop/internal/app"
	"optics-shop/internal/blob"
	"optics-shop/internal/config"
	"optics-shop/internal/core"
	"optics-shop/internal/events"
	"optics-shop/internal/export"
	"optics-shop/internal/metrics"
	"optics-shop/internal/seed"
	"optics-shop/internal/storage"
)

// Runtime is a fully wired application plus the resources it owns.
type Runtime struct {
	Config  *config.Config
	Service app.ApplicationService
	Metrics *metrics.Metrics

	backend   storage.Backend
	exporter  *export.Exporter
	publisher events.Publisher
}

// Build opens every backend named by cfg and returns the wired runtime.
// On error, anything already opened is closed.
func Build(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	var sample *core.Snapshot
	if cfg.SeedSampleData {
		if sample, err = seed.Sample(); err != nil {
			backend.Close()
			return nil, fmt.Errorf("failed to load sample data: %w", err)
		}
	}

	m := metrics.New()
	store := core.NewStore(backend, core.StoreOptions{
		Policy:           cfg.PersistencePolicy,
		Retries:          cfg.PersistenceRetries,
		Location:         cfg.Location(),
		Seed:             sample,
		OnPersistFailure: m.PersistFailed,
	})
	if err := store.Load(ctx); err != nil {
		backend.Close()
		return nil, fmt.Errorf("failed to load state from %s: %w", backend.Driver(), err)
	}
	m.SetDegraded(store.Degraded())

	blobs, err := blob.Open(ctx, cfg)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("failed to open blob store: %w", err)
	}

	docService := core.NewDocumentService(cfg.Shop)
	exporter := export.NewExporter(docService, blobs, export.Options{
		Timeout:     cfg.ExportTimeout,
		Rasterizers: rasterizers(cfg),
		OnFinish: func(f export.Format, s export.TaskStatus) {
			m.ExportFinished(string(f), string(s))
		},
	})

	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		log.Printf("events: publishing to kafka topic %s", cfg.KafkaTopic)
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	} else {
		publisher = events.NewLogPublisher()
	}

	svc := app.NewAppService(
		store,
		docService,
		core.NewOrderService(store, docService),
		core.NewClientService(store),
		core.NewInventoryService(store),
		core.NewReportingService(store),
		app.Infra{
			Exporter:      exporter,
			Blobs:         blobs,
			Publisher:     publisher,
			Metrics:       m,
			Shop:          cfg.Shop,
			StorageDriver: backend.Driver(),
		},
	)

	return &Runtime{
		Config:    cfg,
		Service:   svc,
		Metrics:   m,
		backend:   backend,
		exporter:  exporter,
		publisher: publisher,
	}, nil
}

// rasterizers registers the jpeg and pdf converters that are configured.
func rasterizers(cfg *config.Config) map[export.Format]export.Rasterizer {
	out := map[export.Format]export.Rasterizer{}
	if c := export.ParseCommand(cfg.ExportJPEGCommand); c != nil {
		out[export.FormatJPEG] = c
	}
	if c := export.ParseCommand(cfg.ExportPDFCommand); c != nil {
		out[export.FormatPDF] = c
	}
	return out
}

// Close waits for running exports (bounded by ctx) and releases the
// publisher and storage backend.
func (r *Runtime) Close(ctx context.Context) error {
	return errors.Join(
		r.exporter.Shutdown(ctx),
		r.publisher.Close(),
		r.backend.Close(),
	)
}
