package core_test

import (
	"context"
	"errors"
	"testing"

	"optics-shop/internal/core"
)

func setupClientService(t *testing.T) (core.ClientService, core.OrderService, context.Context) {
	t.Helper()
	store := setupStore(t, newMemPersister(), core.StoreOptions{})
	return core.NewClientService(store),
		core.NewOrderService(store, core.NewDocumentService(core.DefaultShop)),
		context.Background()
}

func TestClientService_CreateClient(t *testing.T) {
	svc, _, ctx := setupClientService(t)

	c, err := svc.CreateClient(ctx, core.ClientInput{Name: "  Иванов Иван  ", Phone: "+7 701 234 56 78"})
	if err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	if c.ID != 1 || c.Name != "Иванов Иван" {
		t.Errorf("unexpected client %+v", c)
	}

	c2, err := svc.CreateClient(ctx, core.ClientInput{Name: "Петрова", Phone: "2", Email: "anna@mail.kz"})
	if err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	if c2.ID != 2 {
		t.Errorf("expected id 2, got %d", c2.ID)
	}
}

func TestClientService_CreateClient_RequiresNameAndPhone(t *testing.T) {
	svc, _, ctx := setupClientService(t)

	for _, in := range []core.ClientInput{
		{Name: "", Phone: "1"},
		{Name: "   ", Phone: "1"},
		{Name: "Иванов", Phone: ""},
	} {
		if _, err := svc.CreateClient(ctx, in); !errors.Is(err, core.ErrValidationIncomplete) {
			t.Errorf("%+v: expected ErrValidationIncomplete, got %v", in, err)
		}
	}
	all, _ := svc.GetClients(ctx)
	if len(all) != 0 {
		t.Errorf("rejected clients must not be stored, got %d", len(all))
	}
}

func TestClientService_UpdateClient(t *testing.T) {
	svc, _, ctx := setupClientService(t)

	c, _ := svc.CreateClient(ctx, core.ClientInput{Name: "Иванов", Phone: "1"})
	updated, err := svc.UpdateClient(ctx, c.ID, core.ClientInput{Name: "Иванов И.", Phone: "1", Email: "i@mail.kz"})
	if err != nil {
		t.Fatalf("UpdateClient failed: %v", err)
	}
	if updated.ID != c.ID || updated.Email != "i@mail.kz" {
		t.Errorf("unexpected update result %+v", updated)
	}
	if _, err := svc.UpdateClient(ctx, 77, core.ClientInput{Name: "X", Phone: "1"}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClientService_SearchClients(t *testing.T) {
	svc, _, ctx := setupClientService(t)

	svc.CreateClient(ctx, core.ClientInput{Name: "Иванов Иван", Phone: "+7 (701) 234-56-78", Email: "IVANOV@mail.kz"})
	svc.CreateClient(ctx, core.ClientInput{Name: "Петрова Анна", Phone: "+7 (702) 345-67-89"})
	svc.CreateClient(ctx, core.ClientInput{Name: "Сидоров", Phone: "+7 (703) 456-78-90"})

	tests := []struct {
		term string
		want int
	}{
		{"", 3},
		{"иванов", 1},
		{"ПЕТРОВА", 1},
		{"ivanov@", 1},
		{"(70", 3},
		{"345-67", 1},
		{"нет такого", 0},
	}
	for _, tt := range tests {
		got, err := svc.SearchClients(ctx, tt.term)
		if err != nil {
			t.Fatalf("SearchClients(%q) failed: %v", tt.term, err)
		}
		if len(got) != tt.want {
			t.Errorf("SearchClients(%q): want %d, got %d", tt.term, tt.want, len(got))
		}
	}
}

func TestClientService_ClientOrders_MatchByName(t *testing.T) {
	svc, orders, ctx := setupClientService(t)

	c, _ := svc.CreateClient(ctx, core.ClientInput{Name: "Иванов Иван Иванович", Phone: "1"})
	if _, err := orders.CreateOrder(ctx, sampleOrderInput()); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	other := sampleOrderInput()
	other.ClientName = "Иванов"
	orders.CreateOrder(ctx, other)

	got, err := svc.ClientOrders(ctx, c.ID)
	if err != nil {
		t.Fatalf("ClientOrders failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected exact-name match only, got %d", len(got))
	}

	// Renaming the client detaches their history.
	svc.UpdateClient(ctx, c.ID, core.ClientInput{Name: "Иванов И. И.", Phone: "1"})
	got, _ = svc.ClientOrders(ctx, c.ID)
	if len(got) != 0 {
		t.Errorf("expected no orders after rename, got %d", len(got))
	}
}
