package core

import (
	"context"
	"fmt"
	"strings"
)

// OrderService is the order lifecycle controller: create, edit, delete and
// status changes over the store's order collection.
type OrderService interface {
	// CreateOrder assigns the next identifier and order number, sets status
	// to new and stamps the creation time. Draft line rows are dropped.
	CreateOrder(ctx context.Context, in OrderInput) (*Order, error)
	// UpdateOrder replaces every field except id, order number, status and
	// creation time. The collection is left untouched on ErrNotFound.
	UpdateOrder(ctx context.Context, id int, in OrderInput) (*Order, error)
	// DeleteOrder removes the order and returns it as it was when removed.
	// Confirmation is the caller's concern.
	DeleteOrder(ctx context.Context, id int) (*Order, error)
	// SetOrderStatus moves the order to any of the four statuses.
	SetOrderStatus(ctx context.Context, id int, status string) (*Order, error)

	GetOrder(ctx context.Context, id int) (*Order, error)
	// GetOrders returns orders in creation order, optionally filtered by status.
	GetOrders(ctx context.Context, status *string) ([]Order, error)
}

type orderService struct {
	store *Store
	docs  DocumentService
}

func NewOrderService(store *Store, docs DocumentService) OrderService {
	return &orderService{store: store, docs: docs}
}

func (s *orderService) CreateOrder(ctx context.Context, in OrderInput) (*Order, error) {
	now := s.store.Now()
	normalizeDates(&in, now)

	var created Order
	err := s.store.updateOrders(ctx, func(orders []Order) ([]Order, error) {
		id := s.store.nextOrderID
		created = Order{
			ID:          id,
			OrderNumber: s.docs.OrderNumber(now, id),
			Status:      StatusNew,
			CreatedAt:   now,
		}
		applyOrderInput(&created, in)
		return append(orders, created), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return &created, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, id int, in OrderInput) (*Order, error) {
	normalizeDates(&in, s.store.Now())

	var updated Order
	err := s.store.updateOrders(ctx, func(orders []Order) ([]Order, error) {
		i := indexOrder(orders, id)
		if i < 0 {
			return nil, notFound("order", id)
		}
		updated = Order{
			ID:          orders[i].ID,
			OrderNumber: orders[i].OrderNumber,
			Status:      orders[i].Status,
			CreatedAt:   orders[i].CreatedAt,
		}
		applyOrderInput(&updated, in)
		orders[i] = updated
		return orders, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, id int) (*Order, error) {
	var removed Order
	err := s.store.updateOrders(ctx, func(orders []Order) ([]Order, error) {
		i := indexOrder(orders, id)
		if i < 0 {
			return nil, notFound("order", id)
		}
		removed = orders[i]
		return append(orders[:i], orders[i+1:]...), nil
	})
	if err != nil {
		return nil, err
	}
	return &removed, nil
}

func (s *orderService) SetOrderStatus(ctx context.Context, id int, status string) (*Order, error) {
	st, err := ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	var updated Order
	err = s.store.updateOrders(ctx, func(orders []Order) ([]Order, error) {
		i := indexOrder(orders, id)
		if i < 0 {
			return nil, notFound("order", id)
		}
		orders[i].Status = st
		updated = orders[i]
		return orders, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *orderService) GetOrder(ctx context.Context, id int) (*Order, error) {
	orders := s.store.Orders()
	i := indexOrder(orders, id)
	if i < 0 {
		return nil, notFound("order", id)
	}
	return &orders[i], nil
}

func (s *orderService) GetOrders(ctx context.Context, status *string) ([]Order, error) {
	orders := s.store.Orders()
	if status == nil || *status == "" {
		return orders, nil
	}
	st, err := ParseOrderStatus(*status)
	if err != nil {
		return nil, err
	}
	filtered := orders[:0]
	for _, o := range orders {
		if o.Status == st {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

func applyOrderInput(o *Order, in OrderInput) {
	o.ClientName = strings.TrimSpace(in.ClientName)
	o.ClientPhone = strings.TrimSpace(in.ClientPhone)
	o.AcceptDate = in.AcceptDate
	o.ReadyDate = in.ReadyDate
	o.Prescription = in.Prescription
	o.Items = CleanItems(in.Items)
	o.TotalAmount = in.TotalAmount
	o.PaidAmount = in.PaidAmount
	o.DebtAmount = in.DebtAmount
}

func indexOrder(orders []Order, id int) int {
	for i, o := range orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}
