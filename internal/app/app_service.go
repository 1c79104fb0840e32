package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"optics-shop/internal/blob"
	"optics-shop/internal/core"
	"optics-shop/internal/events"
	"optics-shop/internal/export"
	"optics-shop/internal/metrics"
)

// ErrExportNotReady is returned by ExportContent while the task is still running
// or when it ended without producing a document.
var ErrExportNotReady = errors.New("export not ready")

// Infra bundles the outward-facing collaborators of the application service.
type Infra struct {
	Exporter      *export.Exporter
	Blobs         blob.Store
	Publisher     events.Publisher
	Metrics       *metrics.Metrics
	Shop          core.Shop
	StorageDriver string
}

type appService struct {
	store            *core.Store
	orderService     core.OrderService
	clientService    core.ClientService
	inventoryService core.InventoryService
	reportingService core.ReportingService
	docService       core.DocumentService

	exporter      *export.Exporter
	blobs         blob.Store
	publisher     events.Publisher
	metrics       *metrics.Metrics
	shop          core.Shop
	storageDriver string
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	store *core.Store,
	docService core.DocumentService,
	orderService core.OrderService,
	clientService core.ClientService,
	inventoryService core.InventoryService,
	reportingService core.ReportingService,
	infra Infra,
) ApplicationService {
	if infra.Publisher == nil {
		infra.Publisher = events.NewLogPublisher()
	}
	if infra.Metrics == nil {
		infra.Metrics = metrics.New()
	}
	return &appService{
		store:            store,
		orderService:     orderService,
		clientService:    clientService,
		inventoryService: inventoryService,
		reportingService: reportingService,
		docService:       docService,
		exporter:         infra.Exporter,
		blobs:            infra.Blobs,
		publisher:        infra.Publisher,
		metrics:          infra.Metrics,
		shop:             infra.Shop,
		storageDriver:    infra.StorageDriver,
	}
}

// Health reports the configured backends and the persistence state.
func (s *appService) Health(ctx context.Context) (*HealthResult, error) {
	degraded := s.syncDegraded()
	status := "ok"
	if degraded {
		status = "degraded"
	}
	res := &HealthResult{
		Status:        status,
		StorageDriver: s.storageDriver,
		Degraded:      degraded,
	}
	if s.blobs != nil {
		res.BlobDriver = string(s.blobs.Driver())
	}
	return res, nil
}

// GetDashboard returns the per-status counters and today's revenue.
func (s *appService) GetDashboard(ctx context.Context) (*DashboardResult, error) {
	d, err := s.reportingService.GetDashboard(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardResult{Dashboard: *d, Degraded: s.syncDegraded()}, nil
}

// GetFinance returns revenue and the estimated profit over all orders.
func (s *appService) GetFinance(ctx context.Context) (*FinanceResult, error) {
	f, err := s.reportingService.GetFinance(ctx)
	if err != nil {
		return nil, err
	}
	return &FinanceResult{Finance: *f}, nil
}

// ── Orders ────────────────────────────────────────────────────────────────────

func (s *appService) ListOrders(ctx context.Context, status *string) (*OrderListResult, error) {
	orders, err := s.orderService.GetOrders(ctx, status)
	if err != nil {
		return nil, err
	}
	return &OrderListResult{Orders: orders, Cards: core.OrderCards(orders)}, nil
}

func (s *appService) GetOrder(ctx context.Context, id int) (*OrderResult, error) {
	o, err := s.orderService.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.orderResult(o), nil
}

// CreateOrder creates an order. Line totals are always priced here; the order
// total and debt are taken from the request when present, otherwise derived.
func (s *appService) CreateOrder(ctx context.Context, req OrderRequest) (*OrderResult, error) {
	o, err := s.orderService.CreateOrder(ctx, orderInput(req))
	s.syncDegraded()
	if err != nil {
		return nil, err
	}
	s.metrics.OrderCreated()
	s.publish(ctx, events.OrderCreated, o)
	return s.orderResult(o), nil
}

func (s *appService) UpdateOrder(ctx context.Context, id int, req OrderRequest) (*OrderResult, error) {
	o, err := s.orderService.UpdateOrder(ctx, id, orderInput(req))
	s.syncDegraded()
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.OrderUpdated, o)
	return s.orderResult(o), nil
}

func (s *appService) DeleteOrder(ctx context.Context, id int) error {
	o, err := s.orderService.DeleteOrder(ctx, id)
	s.syncDegraded()
	if err != nil {
		return err
	}
	s.publish(ctx, events.OrderDeleted, o)
	return nil
}

func (s *appService) SetOrderStatus(ctx context.Context, id int, status string) (*OrderResult, error) {
	o, err := s.orderService.SetOrderStatus(ctx, id, status)
	s.syncDegraded()
	if err != nil {
		return nil, err
	}
	s.metrics.StatusChanged(string(o.Status))
	s.publish(ctx, events.OrderStatusChanged, o)
	return s.orderResult(o), nil
}

// ── Exports ───────────────────────────────────────────────────────────────────

func (s *appService) ExportOrder(ctx context.Context, id int, format string) (*ExportResult, error) {
	if s.exporter == nil {
		return nil, fmt.Errorf("exports are not configured: %w", export.ErrUnsupportedFormat)
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	o, err := s.orderService.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	task, err := s.exporter.Start(ctx, *o, f)
	if err != nil {
		return nil, err
	}
	return &ExportResult{Task: task.View()}, nil
}

func (s *appService) GetExport(ctx context.Context, taskID string) (*ExportResult, error) {
	task, err := s.task(taskID)
	if err != nil {
		return nil, err
	}
	return &ExportResult{Task: task.View()}, nil
}

// WaitExport blocks until the task ends. A failed or cancelled task is not an
// error here; its view carries the outcome.
func (s *appService) WaitExport(ctx context.Context, taskID string) (*ExportResult, error) {
	task, err := s.task(taskID)
	if err != nil {
		return nil, err
	}
	select {
	case <-task.Done():
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &ExportResult{Task: task.View()}, nil
}

func (s *appService) ExportContent(ctx context.Context, taskID string) (*ExportContentResult, error) {
	task, err := s.task(taskID)
	if err != nil {
		return nil, err
	}
	if task.Status() != export.TaskDone {
		return nil, fmt.Errorf("task %s is %s: %w", taskID, task.Status(), ErrExportNotReady)
	}
	info, rc, err := s.blobs.Get(ctx, task.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to read export %s: %w", task.Key, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read export %s: %w", task.Key, err)
	}
	contentType := info.ContentType
	if contentType == "" {
		contentType = task.Format.ContentType()
	}
	return &ExportContentResult{
		Filename:    path.Base(task.Key),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func (s *appService) CancelExport(ctx context.Context, taskID string) (*ExportResult, error) {
	task, err := s.task(taskID)
	if err != nil {
		return nil, err
	}
	task.Cancel()
	select {
	case <-task.Done():
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &ExportResult{Task: task.View()}, nil
}

func (s *appService) task(id string) (*export.Task, error) {
	if s.exporter == nil {
		return nil, fmt.Errorf("task %s: %w", id, export.ErrTaskNotFound)
	}
	return s.exporter.Task(id)
}

func (s *appService) ShareOrder(ctx context.Context, id int) (*ShareResult, error) {
	o, err := s.orderService.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	link, err := export.ShareLink(*o, s.shop)
	if err != nil {
		return nil, err
	}
	return &ShareResult{Link: link, Message: export.ShareMessage(*o, s.shop)}, nil
}

// ── Clients ───────────────────────────────────────────────────────────────────

func (s *appService) ListClients(ctx context.Context, term string) (*ClientListResult, error) {
	summaries, err := s.reportingService.GetClientSummaries(ctx, term)
	if err != nil {
		return nil, err
	}
	return &ClientListResult{Clients: summaries, Cards: core.ClientCards(summaries)}, nil
}

func (s *appService) CreateClient(ctx context.Context, req ClientRequest) (*ClientResult, error) {
	c, err := s.clientService.CreateClient(ctx, core.ClientInput(req))
	s.syncDegraded()
	if err != nil {
		return nil, err
	}
	return &ClientResult{Client: c}, nil
}

func (s *appService) UpdateClient(ctx context.Context, id int, req ClientRequest) (*ClientResult, error) {
	c, err := s.clientService.UpdateClient(ctx, id, core.ClientInput(req))
	s.syncDegraded()
	if err != nil {
		return nil, err
	}
	return &ClientResult{Client: c}, nil
}

func (s *appService) ClientOrders(ctx context.Context, id int) (*OrderListResult, error) {
	orders, err := s.clientService.ClientOrders(ctx, id)
	if err != nil {
		return nil, err
	}
	return &OrderListResult{Orders: orders, Cards: core.OrderCards(orders)}, nil
}

// ── Inventory ─────────────────────────────────────────────────────────────────

func (s *appService) ListInventory(ctx context.Context) (*InventoryListResult, error) {
	items, err := s.inventoryService.GetItems(ctx)
	if err != nil {
		return nil, err
	}
	return &InventoryListResult{Items: items, Cards: core.InventoryCards(items)}, nil
}

func (s *appService) CreateInventoryItem(ctx context.Context, req InventoryRequest) (*InventoryResult, error) {
	it, err := s.inventoryService.CreateItem(ctx, inventoryInput(req))
	s.syncDegraded()
	if err != nil {
		return nil, err
	}
	return inventoryResult(it), nil
}

func (s *appService) UpdateInventoryItem(ctx context.Context, id int, req InventoryRequest) (*InventoryResult, error) {
	it, err := s.inventoryService.UpdateItem(ctx, id, inventoryInput(req))
	s.syncDegraded()
	if err != nil {
		return nil, err
	}
	return inventoryResult(it), nil
}

func (s *appService) DeleteInventoryItem(ctx context.Context, id int) error {
	err := s.inventoryService.DeleteItem(ctx, id)
	s.syncDegraded()
	return err
}

func (s *appService) SetStockQuantity(ctx context.Context, id int, raw string) (*InventoryResult, error) {
	it, err := s.inventoryService.UpdateQuantity(ctx, id, raw)
	s.syncDegraded()
	if err != nil {
		return nil, err
	}
	return inventoryResult(it), nil
}

func (s *appService) SnapshotSchema(ctx context.Context) ([]byte, error) {
	return core.SnapshotSchema()
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *appService) orderResult(o *core.Order) *OrderResult {
	doc := s.docService.BuildDocument(*o)
	rec := core.Reconcile(*o)
	return &OrderResult{Order: o, Document: &doc, Reconciliation: &rec}
}

// publish sends an order event. Delivery failures are logged and never fail
// the mutation, which is already committed.
func (s *appService) publish(ctx context.Context, t events.EventType, o *core.Order) {
	if err := s.publisher.Publish(ctx, events.NewOrderEvent(t, *o, s.store.Now())); err != nil {
		log.Printf("failed to publish %s for order %d: %v", t, o.ID, err)
	}
}

func (s *appService) syncDegraded() bool {
	d := s.store.Degraded()
	s.metrics.SetDegraded(d)
	return d
}

func orderInput(req OrderRequest) core.OrderInput {
	items := make([]core.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		if li, ok := it.LineItem(); ok {
			items = append(items, li)
		}
	}
	items = core.CleanItems(items)

	total := core.OrderTotal(items)
	if req.TotalAmount != nil {
		total = *req.TotalAmount
	}
	debt := core.Debt(total, req.PaidAmount)
	if req.DebtAmount != nil {
		debt = *req.DebtAmount
	}
	return core.OrderInput{
		ClientName:   strings.TrimSpace(req.ClientName),
		ClientPhone:  strings.TrimSpace(req.ClientPhone),
		AcceptDate:   req.AcceptDate,
		ReadyDate:    req.ReadyDate,
		Prescription: req.Prescription,
		Items:        items,
		TotalAmount:  total,
		PaidAmount:   req.PaidAmount,
		DebtAmount:   debt,
	}
}

func inventoryInput(req InventoryRequest) core.InventoryInput {
	return core.InventoryInput{
		Name:          req.Name,
		Category:      core.Category(strings.TrimSpace(req.Category)),
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
	}
}

func inventoryResult(it *core.InventoryItem) *InventoryResult {
	return &InventoryResult{Item: it, Card: core.InventoryCards([]core.InventoryItem{*it})[0]}
}
