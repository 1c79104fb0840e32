package app

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"optics-shop/internal/blob"
	"optics-shop/internal/core"
	"optics-shop/internal/events"
	"optics-shop/internal/export"
	"optics-shop/internal/metrics"
	"optics-shop/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	svc       ApplicationService
	store     *core.Store
	publisher *recordingPublisher
	blobs     *blob.Memory
	exporter  *export.Exporter
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	store := core.NewStore(storage.NewMemory(), core.StoreOptions{
		Clock:    func() time.Time { return time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC) },
		Location: time.UTC,
	})
	require.NoError(t, store.Load(ctx))

	docs := core.NewDocumentService(core.DefaultShop)
	blobs := blob.NewMemory()
	exporter := export.NewExporter(docs, blobs, export.Options{
		Timeout: 5 * time.Second,
		Rasterizers: map[export.Format]export.Rasterizer{
			export.FormatJPEG: export.RasterizerFunc(func(ctx context.Context, html []byte) ([]byte, error) {
				return []byte("jpeg:" + string(html[:15])), nil
			}),
		},
	})
	t.Cleanup(func() { _ = exporter.Shutdown(context.Background()) })

	pub := &recordingPublisher{}
	svc := NewAppService(
		store,
		docs,
		core.NewOrderService(store, docs),
		core.NewClientService(store),
		core.NewInventoryService(store),
		core.NewReportingService(store),
		Infra{
			Exporter:      exporter,
			Blobs:         blobs,
			Publisher:     pub,
			Metrics:       metrics.New(),
			Shop:          core.DefaultShop,
			StorageDriver: "memory",
		},
	)
	return fixture{svc: svc, store: store, publisher: pub, blobs: blobs, exporter: exporter}
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nd(s string) decimal.NullDecimal { return decimal.NewNullDecimal(d(s)) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func sampleRequest() OrderRequest {
	return OrderRequest{
		ClientName:  "Иванов Иван Иванович",
		ClientPhone: "+7 (701) 234-56-78",
		AcceptDate:  "2024-03-05",
		Prescription: core.Prescription{
			OD: core.EyeRecord{Sph: "-1.25", Cyl: "-0.50", Ax: "180"},
			OS: core.EyeRecord{Sph: "-1.00"},
			PD: "62",
		},
		Items: []LineItemInput{
			{Name: "Оправа Ray-Ban", Quantity: d("1"), Price: nd("15000"), Discount: d("10")},
			{Name: "Линзы Essilor", Quantity: d("2"), Price: nd("8500")},
			{Name: "", Quantity: d("1")},
		},
		PaidAmount: d("20000"),
	}
}

func TestOrderInput_DerivesTotalAndDebt(t *testing.T) {
	in := orderInput(sampleRequest())
	require.Len(t, in.Items, 2)
	assert.True(t, in.TotalAmount.Equal(d("30500")), "total %s", in.TotalAmount)
	assert.True(t, in.DebtAmount.Equal(d("10500")), "debt %s", in.DebtAmount)

	req := sampleRequest()
	req.TotalAmount = dp("31000")
	in = orderInput(req)
	assert.True(t, in.TotalAmount.Equal(d("31000")), "submitted total must win")
	assert.True(t, in.DebtAmount.Equal(d("11000")), "debt follows the submitted total")

	req.DebtAmount = dp("0")
	in = orderInput(req)
	assert.True(t, in.DebtAmount.IsZero(), "submitted debt must win")
}

func TestOrderInput_DropsRowsWithoutPrice(t *testing.T) {
	var req OrderRequest
	require.NoError(t, json.Unmarshal([]byte(`{"clientName":"Петрова","items":[
		{"name":"Оправа","quantity":"1"},
		{"name":"Футляр","quantity":"1","price":null},
		{"name":"Салфетка","quantity":"1","price":"0"}
	]}`), &req))

	in := orderInput(req)
	require.Len(t, in.Items, 1)
	assert.Equal(t, "Салфетка", in.Items[0].Name)
	assert.True(t, in.TotalAmount.IsZero())

	req.Items = req.Items[:2]
	in = orderInput(req)
	assert.Empty(t, in.Items)
	assert.True(t, in.TotalAmount.IsZero())
}

func TestAppService_OrderLifecycle(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.svc.CreateOrder(ctx, sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "240305-001", created.Order.OrderNumber)
	assert.Equal(t, core.StatusNew, created.Order.Status)
	require.NotNil(t, created.Document)
	assert.Equal(t, "30500.00", created.Document.Total)
	require.NotNil(t, created.Reconciliation)
	assert.False(t, created.Reconciliation.TotalDrift)

	res, err := f.svc.SetOrderStatus(ctx, created.Order.ID, "ready")
	require.NoError(t, err)
	assert.Equal(t, core.StatusReady, res.Order.Status)

	req := sampleRequest()
	req.ClientName = "Петрова Анна"
	updated, err := f.svc.UpdateOrder(ctx, created.Order.ID, req)
	require.NoError(t, err)
	assert.Equal(t, core.StatusReady, updated.Order.Status)
	assert.Equal(t, "Петрова Анна", updated.Order.ClientName)

	status := "ready"
	list, err := f.svc.ListOrders(ctx, &status)
	require.NoError(t, err)
	require.Len(t, list.Cards, 1)
	assert.Equal(t, "Готов", list.Cards[0].StatusLabel)

	require.NoError(t, f.svc.DeleteOrder(ctx, created.Order.ID))
	_, err = f.svc.GetOrder(ctx, created.Order.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteOrder(ctx, created.Order.ID), core.ErrNotFound)

	assert.Equal(t, []events.EventType{
		events.OrderCreated, events.OrderStatusChanged, events.OrderUpdated, events.OrderDeleted,
	}, f.publisher.types())

	f.publisher.mu.Lock()
	deleted := f.publisher.events[len(f.publisher.events)-1]
	f.publisher.mu.Unlock()
	assert.Equal(t, created.Order.ID, deleted.OrderID)
	assert.Equal(t, core.StatusReady, deleted.Status)
}

func TestAppService_PublishFailureDoesNotFailMutation(t *testing.T) {
	f := setup(t)
	f.publisher.err = errors.New("broker down")

	res, err := f.svc.CreateOrder(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Order.ID)
	assert.Len(t, f.store.Orders(), 1)
}

func TestAppService_InvalidStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	created, err := f.svc.CreateOrder(ctx, sampleRequest())
	require.NoError(t, err)

	_, err = f.svc.SetOrderStatus(ctx, created.Order.ID, "archived")
	assert.ErrorIs(t, err, core.ErrInvalidStatus)
	assert.Equal(t, []events.EventType{events.OrderCreated}, f.publisher.types())
}

func TestAppService_ExportOrder(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	created, err := f.svc.CreateOrder(ctx, sampleRequest())
	require.NoError(t, err)

	started, err := f.svc.ExportOrder(ctx, created.Order.ID, "html")
	require.NoError(t, err)
	assert.Equal(t, "orders/240305-001_Иванов Иван Иванович.html", started.Task.Key)

	done, err := f.svc.WaitExport(ctx, started.Task.ID)
	require.NoError(t, err)
	assert.Equal(t, export.TaskDone, done.Task.Status)

	content, err := f.svc.ExportContent(ctx, started.Task.ID)
	require.NoError(t, err)
	assert.Equal(t, "240305-001_Иванов Иван Иванович.html", content.Filename)
	assert.True(t, strings.HasPrefix(content.ContentType, "text/html"))
	assert.Contains(t, string(content.Data), "240305-001")

	jpeg, err := f.svc.ExportOrder(ctx, created.Order.ID, "jpg")
	require.NoError(t, err)
	_, err = f.svc.WaitExport(ctx, jpeg.Task.ID)
	require.NoError(t, err)
	got, err := f.svc.GetExport(ctx, jpeg.Task.ID)
	require.NoError(t, err)
	assert.Equal(t, export.TaskDone, got.Task.Status)
	assert.Equal(t, "orders/240305-001_Иванов Иван Иванович.jpg", got.Task.Key)

	_, err = f.svc.ExportOrder(ctx, created.Order.ID, "pdf")
	assert.ErrorIs(t, err, export.ErrUnsupportedFormat)
	_, err = f.svc.ExportOrder(ctx, created.Order.ID, "docx")
	assert.ErrorIs(t, err, export.ErrUnsupportedFormat)
	_, err = f.svc.ExportOrder(ctx, 99, "html")
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = f.svc.GetExport(ctx, "missing")
	assert.ErrorIs(t, err, export.ErrTaskNotFound)
}

func TestAppService_ExportContentNotReady(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	created, err := f.svc.CreateOrder(ctx, sampleRequest())
	require.NoError(t, err)

	release := make(chan struct{})
	slow := export.NewExporter(core.NewDocumentService(core.DefaultShop), f.blobs, export.Options{
		Rasterizers: map[export.Format]export.Rasterizer{
			export.FormatPDF: export.RasterizerFunc(func(ctx context.Context, html []byte) ([]byte, error) {
				select {
				case <-release:
					return html, nil
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}),
		},
	})
	t.Cleanup(func() { close(release) })
	f.svc.(*appService).exporter = slow

	started, err := f.svc.ExportOrder(ctx, created.Order.ID, "pdf")
	require.NoError(t, err)
	_, err = f.svc.ExportContent(ctx, started.Task.ID)
	assert.ErrorIs(t, err, ErrExportNotReady)

	cancelled, err := f.svc.CancelExport(ctx, started.Task.ID)
	require.NoError(t, err)
	assert.Equal(t, export.TaskCancelled, cancelled.Task.Status)
}

func TestAppService_ShareOrder(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	created, err := f.svc.CreateOrder(ctx, sampleRequest())
	require.NoError(t, err)

	share, err := f.svc.ShareOrder(ctx, created.Order.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(share.Link, "https://wa.me/+77012345678?text="))
	assert.Contains(t, share.Message, "Ваш заказ №240305-001 принят.")

	req := sampleRequest()
	req.ClientPhone = " "
	noPhone, err := f.svc.CreateOrder(ctx, req)
	require.NoError(t, err)
	_, err = f.svc.ShareOrder(ctx, noPhone.Order.ID)
	assert.ErrorIs(t, err, core.ErrValidationIncomplete)
}

func TestAppService_ClientsAndInventory(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	c, err := f.svc.CreateClient(ctx, ClientRequest{Name: "Иванов Иван Иванович", Phone: "+7 701 234 56 78"})
	require.NoError(t, err)
	_, err = f.svc.CreateClient(ctx, ClientRequest{Name: "Без телефона"})
	assert.ErrorIs(t, err, core.ErrValidationIncomplete)

	_, err = f.svc.CreateOrder(ctx, sampleRequest())
	require.NoError(t, err)

	clients, err := f.svc.ListClients(ctx, "иван")
	require.NoError(t, err)
	require.Len(t, clients.Cards, 1)
	assert.Equal(t, 1, clients.Cards[0].OrderCount)
	assert.Equal(t, "30500.00", clients.Cards[0].TotalSpent)
	assert.Equal(t, "Не указан", clients.Cards[0].Email)

	orders, err := f.svc.ClientOrders(ctx, c.Client.ID)
	require.NoError(t, err)
	assert.Len(t, orders.Orders, 1)

	_, err = f.svc.UpdateClient(ctx, c.Client.ID, ClientRequest{Name: "Иванов И.", Phone: "1"})
	require.NoError(t, err)
	orders, err = f.svc.ClientOrders(ctx, c.Client.ID)
	require.NoError(t, err)
	assert.Empty(t, orders.Orders, "orders stay filed under the old name")

	item, err := f.svc.CreateInventoryItem(ctx, InventoryRequest{
		Name: "Ray-Ban Aviator", Category: " frames ", Quantity: 3,
		PurchasePrice: d("9000"), SellingPrice: d("15000"),
	})
	require.NoError(t, err)
	assert.Equal(t, core.StockLow, item.Card.Stock)

	item, err = f.svc.SetStockQuantity(ctx, item.Item.ID, "20")
	require.NoError(t, err)
	assert.Equal(t, core.StockGood, item.Card.Stock)
	_, err = f.svc.SetStockQuantity(ctx, item.Item.ID, "-2")
	assert.ErrorIs(t, err, core.ErrInvalidQuantity)

	_, err = f.svc.UpdateInventoryItem(ctx, item.Item.ID, InventoryRequest{Name: "X", Category: "hats"})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	inv, err := f.svc.ListInventory(ctx)
	require.NoError(t, err)
	assert.Len(t, inv.Items, 1)

	require.NoError(t, f.svc.DeleteInventoryItem(ctx, item.Item.ID))
	assert.ErrorIs(t, f.svc.DeleteInventoryItem(ctx, item.Item.ID), core.ErrNotFound)
}

func TestAppService_ReportsAndHealth(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.svc.CreateOrder(ctx, sampleRequest())
	require.NoError(t, err)

	dash, err := f.svc.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, dash.Dashboard.NewCount)
	assert.True(t, dash.Dashboard.TodayRevenue.Equal(d("30500")))
	assert.False(t, dash.Degraded)

	fin, err := f.svc.GetFinance(ctx)
	require.NoError(t, err)
	assert.True(t, fin.Finance.EstimatedProfit.Equal(d("12200")))

	h, err := f.svc.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, "memory", h.StorageDriver)
	assert.Equal(t, "memory", h.BlobDriver)

	schema, err := f.svc.SnapshotSchema(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(schema), "orders")
}
