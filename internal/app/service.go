package app

import (
	"context"
)

// ApplicationService is the single interface all UI adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// Health reports which backends are in use and whether persistence is degraded.
	Health(ctx context.Context) (*HealthResult, error)

	// GetDashboard returns the per-status counters and today's revenue.
	GetDashboard(ctx context.Context) (*DashboardResult, error)

	// GetFinance returns the finance summary over all stored orders.
	GetFinance(ctx context.Context) (*FinanceResult, error)

	// ListOrders returns orders, optionally filtered by status.
	ListOrders(ctx context.Context, status *string) (*OrderListResult, error)

	// GetOrder returns one order with its printable document and a
	// reconciliation of its stored amounts.
	GetOrder(ctx context.Context, id int) (*OrderResult, error)

	// CreateOrder creates an order in status new. Omitted total and debt are
	// derived from the line items.
	CreateOrder(ctx context.Context, req OrderRequest) (*OrderResult, error)

	// UpdateOrder replaces the editable fields of an order.
	UpdateOrder(ctx context.Context, id int, req OrderRequest) (*OrderResult, error)

	// DeleteOrder removes an order. Confirmation is the caller's job.
	DeleteOrder(ctx context.Context, id int) error

	// SetOrderStatus moves an order to any of the four statuses.
	SetOrderStatus(ctx context.Context, id int, status string) (*OrderResult, error)

	// ExportOrder starts an asynchronous document export and returns its task.
	ExportOrder(ctx context.Context, id int, format string) (*ExportResult, error)

	// GetExport returns the current state of an export task.
	GetExport(ctx context.Context, taskID string) (*ExportResult, error)

	// WaitExport blocks until the export task finishes or ctx ends.
	WaitExport(ctx context.Context, taskID string) (*ExportResult, error)

	// ExportContent returns the stored document of a finished export task.
	ExportContent(ctx context.Context, taskID string) (*ExportContentResult, error)

	// CancelExport stops a running export task.
	CancelExport(ctx context.Context, taskID string) (*ExportResult, error)

	// ShareOrder returns the WhatsApp link for sending the order to its client.
	ShareOrder(ctx context.Context, id int) (*ShareResult, error)

	// ListClients returns clients matching term (all when empty) with their
	// order counts and totals.
	ListClients(ctx context.Context, term string) (*ClientListResult, error)

	// CreateClient adds a client. Name and phone are required.
	CreateClient(ctx context.Context, req ClientRequest) (*ClientResult, error)

	// UpdateClient edits a client. Past orders keep the name they were filed under.
	UpdateClient(ctx context.Context, id int, req ClientRequest) (*ClientResult, error)

	// ClientOrders returns the orders filed under the client's current name.
	ClientOrders(ctx context.Context, id int) (*OrderListResult, error)

	// ListInventory returns all inventory items with their stock class.
	ListInventory(ctx context.Context) (*InventoryListResult, error)

	// CreateInventoryItem adds an inventory item.
	CreateInventoryItem(ctx context.Context, req InventoryRequest) (*InventoryResult, error)

	// UpdateInventoryItem replaces an inventory item's fields.
	UpdateInventoryItem(ctx context.Context, id int, req InventoryRequest) (*InventoryResult, error)

	// DeleteInventoryItem removes an inventory item.
	DeleteInventoryItem(ctx context.Context, id int) error

	// SetStockQuantity sets the on-hand quantity from raw user input.
	SetStockQuantity(ctx context.Context, id int, raw string) (*InventoryResult, error)

	// SnapshotSchema returns the JSON Schema of the persisted state.
	SnapshotSchema(ctx context.Context) ([]byte, error)
}
