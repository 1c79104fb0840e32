package core

import "github.com/shopspring/decimal"

// InventoryItem is a stocked product. Its stock class is derived from
// Quantity on read and never stored.
type InventoryItem struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Category      Category        `json:"category"`
	Quantity      int             `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
}

// InventoryInput carries the editable fields of an inventory item.
type InventoryInput struct {
	Name          string
	Category      Category
	Quantity      int
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
}

// ClientInput carries the editable fields of a client.
type ClientInput struct {
	Name  string
	Phone string
	Email string
}
