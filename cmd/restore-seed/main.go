// restore-seed is a one-shot tool that overwrites the clients and inventory
// buckets with the embedded sample data. Orders are left alone unless
// -orders is given, in which case they are cleared too.
//
// Usage: go run ./cmd/restore-seed [-orders]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"

	"optics-shop/internal/config"
	"optics-shop/internal/core"
	"optics-shop/internal/seed"
	"optics-shop/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	clearOrders := flag.Bool("orders", false, "also clear all orders")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer backend.Close()

	sample, err := seed.Sample()
	if err != nil {
		log.Fatalf("Failed to load sample data: %v", err)
	}

	log.Printf("Restoring %d clients...", len(sample.Clients))
	save(ctx, backend, core.BucketClients, sample.Clients)

	log.Printf("Restoring %d inventory items...", len(sample.Inventory))
	save(ctx, backend, core.BucketInventory, sample.Inventory)

	if *clearOrders {
		log.Println("Clearing orders...")
		save(ctx, backend, core.BucketOrders, []core.Order{})
	}

	log.Printf("Seed data restored to %s storage.", backend.Driver())
}

func save(ctx context.Context, p core.Persister, bucket string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		log.Fatalf("Failed to encode %s: %v", bucket, err)
	}
	if err := p.Save(ctx, bucket, payload); err != nil {
		log.Fatalf("Failed to save %s: %v", bucket, err)
	}
}
