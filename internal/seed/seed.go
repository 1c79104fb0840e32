// Package seed holds the sample clients and inventory a fresh shop starts with.
package seed

import (
	_ "embed"
	"fmt"

	"optics-shop/internal/core"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed sample.yaml
var sampleYAML []byte

type sampleFile struct {
	Clients []struct {
		ID    int    `yaml:"id"`
		Name  string `yaml:"name"`
		Phone string `yaml:"phone"`
		Email string `yaml:"email"`
	} `yaml:"clients"`
	Inventory []struct {
		ID            int    `yaml:"id"`
		Name          string `yaml:"name"`
		Category      string `yaml:"category"`
		Quantity      int    `yaml:"quantity"`
		PurchasePrice string `yaml:"purchase_price"`
		SellingPrice  string `yaml:"selling_price"`
	} `yaml:"inventory"`
}

// Sample returns the embedded sample data.
func Sample() (*core.Snapshot, error) {
	return Parse(sampleYAML)
}

// Parse decodes seed data in the sample.yaml layout.
func Parse(data []byte) (*core.Snapshot, error) {
	var f sampleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}

	snap := &core.Snapshot{}
	for _, c := range f.Clients {
		snap.Clients = append(snap.Clients, core.Client{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email})
	}
	for _, it := range f.Inventory {
		category := core.Category(it.Category)
		if !category.Valid() {
			return nil, fmt.Errorf("seed item %d: unknown category %q", it.ID, it.Category)
		}
		purchase, err := decimal.NewFromString(it.PurchasePrice)
		if err != nil {
			return nil, fmt.Errorf("seed item %d purchase price: %w", it.ID, err)
		}
		selling, err := decimal.NewFromString(it.SellingPrice)
		if err != nil {
			return nil, fmt.Errorf("seed item %d selling price: %w", it.ID, err)
		}
		snap.Inventory = append(snap.Inventory, core.InventoryItem{
			ID:            it.ID,
			Name:          it.Name,
			Category:      category,
			Quantity:      it.Quantity,
			PurchasePrice: purchase,
			SellingPrice:  selling,
		})
	}
	return snap, nil
}
