package core_test

import (
	"encoding/json"
	"strings"
	"testing"

	"optics-shop/internal/core"

	"github.com/shopspring/decimal"
)

func TestOrderCards_TotalFromLines(t *testing.T) {
	o := core.Order{
		ID:          1,
		Status:      core.StatusInProgress,
		TotalAmount: dec("99999"),
		Items: []core.LineItem{
			{Name: "a", Quantity: dec("1"), Price: dec("50")},
			{Name: "b", Quantity: dec("1"), Price: dec("30"), Total: decimal.NewNullDecimal(dec("25"))},
		},
	}
	cards := core.OrderCards([]core.Order{o})
	if cards[0].Total != "75.00" {
		t.Errorf("expected total derived from lines, got %s", cards[0].Total)
	}
	if cards[0].StatusLabel != "В работе" || cards[0].StatusClass != "status-progress" {
		t.Errorf("unexpected status presentation %+v", cards[0])
	}
	if cards[0].AcceptDate != "Не указана" {
		t.Errorf("expected placeholder for empty date, got %q", cards[0].AcceptDate)
	}
}

func TestClientCards_EmailPlaceholder(t *testing.T) {
	cards := core.ClientCards([]core.ClientSummary{
		{Client: core.Client{ID: 1, Name: "Иванов"}, TotalSpent: dec("120.5")},
	})
	if cards[0].Email != "Не указан" || cards[0].TotalSpent != "120.50" {
		t.Errorf("unexpected card %+v", cards[0])
	}
}

func TestInventoryCards(t *testing.T) {
	cards := core.InventoryCards([]core.InventoryItem{
		{ID: 1, Name: "Линзы", Category: core.CategoryLenses, Quantity: 15},
	})
	if cards[0].Stock != core.StockMedium || cards[0].StockClass != "stock-medium" || cards[0].CategoryLabel != "Линзы" {
		t.Errorf("unexpected card %+v", cards[0])
	}
}

func TestSnapshotSchema(t *testing.T) {
	raw, err := core.SnapshotSchema()
	if err != nil {
		t.Fatalf("SnapshotSchema failed: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	if doc["title"] != "optics-shop persisted state" {
		t.Errorf("unexpected title %v", doc["title"])
	}
	for _, field := range []string{"orderNumber", "clientName", "purchasePrice", "prescription"} {
		if !strings.Contains(string(raw), `"`+field+`"`) {
			t.Errorf("schema missing %s", field)
		}
	}
}
