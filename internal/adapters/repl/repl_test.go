package repl

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"optics-shop/internal/app"
	"optics-shop/internal/blob"
	"optics-shop/internal/core"
	"optics-shop/internal/export"
	"optics-shop/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (app.ApplicationService, *core.Store) {
	t.Helper()
	store := core.NewStore(storage.NewMemory(), core.StoreOptions{
		Clock:    func() time.Time { return time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC) },
		Location: time.UTC,
	})
	require.NoError(t, store.Load(context.Background()))
	docs := core.NewDocumentService(core.DefaultShop)
	blobs := blob.NewMemory()
	exporter := export.NewExporter(docs, blobs, export.Options{})
	t.Cleanup(func() { _ = exporter.Shutdown(context.Background()) })

	svc := app.NewAppService(store, docs,
		core.NewOrderService(store, docs),
		core.NewClientService(store),
		core.NewInventoryService(store),
		core.NewReportingService(store),
		app.Infra{Exporter: exporter, Blobs: blobs, Shop: core.DefaultShop, StorageDriver: "memory"},
	)
	return svc, store
}

func runScript(t *testing.T, svc app.ApplicationService, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	Run(context.Background(), svc, in, &out)
	return out.String()
}

func TestRun_NewOrderWizard(t *testing.T) {
	svc, store := newService(t)

	out := runScript(t, svc,
		"/new-order",
		"Иванов Иван Иванович",
		"+7 701 234 56 78",
		"2024-03-05",
		"",
		"-1.25 -0.50 180",
		"-1.00",
		"62",
		"1 15000 10 Оправа Ray-Ban",
		"two 100 Ошибка",
		"2 8500 Линзы Essilor",
		"done",
		"20000",
		"/exit",
	)
	assert.Contains(t, out, "Total: 30500.00")
	assert.Contains(t, out, `invalid quantity "two"`)
	assert.Contains(t, out, "Order 240305-001 created (ID: 1). Debt: 10500.00")
	assert.Contains(t, out, "Goodbye!")

	orders := store.Orders()
	require.Len(t, orders, 1)
	o := orders[0]
	assert.Equal(t, "2024-03-12", o.ReadyDate)
	assert.Equal(t, "180", o.Prescription.OD.Ax)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "Линзы Essilor", o.Items[1].Name)
	assert.True(t, o.Items[0].Discount.Equal(decimal.NewFromInt(10)))
}

func TestRun_DeleteNeedsConfirmation(t *testing.T) {
	svc, store := newService(t)
	runScript(t, svc, "/new-order", "Петрова", "1", "", "", "", "", "", "1 100 Салфетки", "", "")
	require.Len(t, store.Orders(), 1)

	out := runScript(t, svc, "/delete-order 1", "n")
	assert.Contains(t, out, "Cancelled.")
	require.Len(t, store.Orders(), 1)

	out = runScript(t, svc, "/delete-order 1", "y")
	assert.Contains(t, out, "Order 1 deleted.")
	assert.Empty(t, store.Orders())
}

func TestRun_DispatchesCLICommands(t *testing.T) {
	svc, _ := newService(t)
	out := runScript(t, svc,
		`/add-client "Сидоров Пётр" "+7 703 456 78 90"`,
		"/clients сидор",
		"/status 9 ready",
		"/bogus",
		"/help",
	)
	assert.Contains(t, out, "Client Сидоров Пётр added (id 1).")
	assert.Contains(t, out, "+7 703 456 78 90")
	assert.Contains(t, out, "Error: failed to set status")
	assert.Contains(t, out, "unknown command bogus")
	assert.Contains(t, out, "Statuses:  new, in-progress, ready, delivered")
}

func TestSplitArgs(t *testing.T) {
	got, err := splitArgs(`add-client "Петрова Анна" +77020000000  a@b.kz`)
	require.NoError(t, err)
	assert.Equal(t, []string{"add-client", "Петрова Анна", "+77020000000", "a@b.kz"}, got)

	got, err = splitArgs(`x ""`)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", ""}, got)

	_, err = splitArgs(`x "open`)
	assert.Error(t, err)
}

func TestParseLine(t *testing.T) {
	item, err := parseLine("2 8500,50 Линзы")
	require.NoError(t, err)
	assert.Equal(t, "Линзы", item.Name)
	assert.True(t, item.Price.Decimal.Equal(decimal.RequireFromString("8500.5")))
	assert.True(t, item.Discount.IsZero())

	_, err = parseLine("1 100")
	assert.Error(t, err)
	_, err = parseLine("0 100 Ноль")
	assert.Error(t, err)
}
