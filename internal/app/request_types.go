package app

import (
	"strings"

	"optics-shop/internal/core"

	"github.com/shopspring/decimal"
)

// OrderRequest is the input for creating or editing an order.
type OrderRequest struct {
	ClientName   string            `json:"clientName"`
	ClientPhone  string            `json:"clientPhone"`
	AcceptDate   string            `json:"acceptDate"` // YYYY-MM-DD, empty means today
	ReadyDate    string            `json:"readyDate"`  // YYYY-MM-DD, empty means accept + 7 days
	Prescription core.Prescription `json:"prescription"`
	Items        []LineItemInput   `json:"items"`
	// TotalAmount and DebtAmount are derived when nil.
	TotalAmount *decimal.Decimal `json:"totalAmount"`
	PaidAmount  decimal.Decimal  `json:"paidAmount"`
	DebtAmount  *decimal.Decimal `json:"debtAmount"`
}

// LineItemInput is a single row of an OrderRequest. Rows without a name or a
// price, or with a non-positive quantity, are dropped.
type LineItemInput struct {
	Name     string              `json:"name"`
	Quantity decimal.Decimal     `json:"quantity"`
	Price    decimal.NullDecimal `json:"price"`
	Discount decimal.Decimal     `json:"discount"`
}

// LineItem converts the row to a core line item. ok is false for a row with
// no price, which is an unfinished draft.
func (it LineItemInput) LineItem() (li core.LineItem, ok bool) {
	if !it.Price.Valid {
		return core.LineItem{}, false
	}
	return core.LineItem{
		Name:     strings.TrimSpace(it.Name),
		Quantity: it.Quantity,
		Price:    it.Price.Decimal,
		Discount: it.Discount,
	}, true
}

// ClientRequest is the input for creating or editing a client.
type ClientRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// InventoryRequest is the input for creating or editing an inventory item.
type InventoryRequest struct {
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Quantity      int             `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
}
