package core_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"optics-shop/internal/core"

	"github.com/shopspring/decimal"
)

// memPersister is a map-backed Persister that can be told to fail saves.
type memPersister struct {
	mu        sync.Mutex
	data      map[string][]byte
	saves     int
	failSaves int // number of upcoming Save calls that fail
	failLoad  bool
	// failLoadOf fails Load for the named buckets only.
	failLoadOf map[string]bool
}

func newMemPersister() *memPersister {
	return &memPersister{data: map[string][]byte{}}
}

var errDiskFull = errors.New("quota exceeded")

func (p *memPersister) Load(ctx context.Context, bucket string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failLoad || p.failLoadOf[bucket] {
		return nil, errDiskFull
	}
	return p.data[bucket], nil
}

func (p *memPersister) Save(ctx context.Context, bucket string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failSaves > 0 {
		p.failSaves--
		return errDiskFull
	}
	p.saves++
	p.data[bucket] = append([]byte(nil), payload...)
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// setupStore returns a loaded store over p with a fixed clock in UTC.
func setupStore(t *testing.T, p core.Persister, opts core.StoreOptions) *core.Store {
	t.Helper()
	if opts.Clock == nil {
		opts.Clock = fixedClock(time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC))
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	store := core.NewStore(p, opts)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return store
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleOrderInput() core.OrderInput {
	return core.OrderInput{
		ClientName:  "Иванов Иван Иванович",
		ClientPhone: "+7 (701) 234-56-78",
		AcceptDate:  "2024-03-05",
		Prescription: core.Prescription{
			OD: core.EyeRecord{Sph: "-1.25", Cyl: "-0.50", Ax: "90"},
			OS: core.EyeRecord{Sph: "-1.00", Cyl: "", Ax: ""},
			PD: "62",
		},
		Items: []core.LineItem{
			{Name: "Ray-Ban RB3025 Aviator", Quantity: dec("1"), Price: dec("15000"), Discount: dec("10")},
			{Name: "Линзы 1.5 Transitions", Quantity: dec("2"), Price: dec("8500"), Discount: dec("0")},
		},
		TotalAmount: dec("30500"),
		PaidAmount:  dec("20000"),
		DebtAmount:  dec("10500"),
	}
}
