package app

import (
	"optics-shop/internal/core"
	"optics-shop/internal/export"
)

// HealthResult is returned by Health.
type HealthResult struct {
	Status        string `json:"status"`
	StorageDriver string `json:"storage_driver"`
	BlobDriver    string `json:"blob_driver"`
	Degraded      bool   `json:"degraded"`
}

// DashboardResult is returned by GetDashboard.
type DashboardResult struct {
	Dashboard core.Dashboard `json:"dashboard"`
	Degraded  bool           `json:"degraded"`
}

// FinanceResult is returned by GetFinance.
type FinanceResult struct {
	Finance core.Finance `json:"finance"`
}

// OrderResult is returned by order operations.
type OrderResult struct {
	Order          *core.Order          `json:"order"`
	Document       *core.OrderDocument  `json:"document,omitempty"`
	Reconciliation *core.Reconciliation `json:"reconciliation,omitempty"`
}

// OrderListResult is returned by ListOrders and ClientOrders.
type OrderListResult struct {
	Orders []core.Order     `json:"orders"`
	Cards  []core.OrderCard `json:"cards"`
}

// ExportResult is returned by export operations.
type ExportResult struct {
	Task export.TaskView `json:"task"`
}

// ExportContentResult carries a stored export document.
type ExportContentResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ShareResult is returned by ShareOrder.
type ShareResult struct {
	Link    string `json:"link"`
	Message string `json:"message"`
}

// ClientResult is returned by client operations.
type ClientResult struct {
	Client *core.Client `json:"client"`
}

// ClientListResult is returned by ListClients.
type ClientListResult struct {
	Clients []core.ClientSummary `json:"clients"`
	Cards   []core.ClientCard    `json:"cards"`
}

// InventoryResult is returned by inventory operations.
type InventoryResult struct {
	Item *core.InventoryItem `json:"item"`
	Card core.InventoryCard  `json:"card"`
}

// InventoryListResult is returned by ListInventory.
type InventoryListResult struct {
	Items []core.InventoryItem `json:"items"`
	Cards []core.InventoryCard `json:"cards"`
}
