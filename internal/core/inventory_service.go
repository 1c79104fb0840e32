package core

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// InventoryService manages stocked items and their quantities.
type InventoryService interface {
	CreateItem(ctx context.Context, in InventoryInput) (*InventoryItem, error)
	UpdateItem(ctx context.Context, id int, in InventoryInput) (*InventoryItem, error)
	DeleteItem(ctx context.Context, id int) error
	// UpdateQuantity sets the on-hand quantity from raw user input. Negative or
	// non-numeric input fails with ErrInvalidQuantity.
	UpdateQuantity(ctx context.Context, id int, raw string) (*InventoryItem, error)
	GetItem(ctx context.Context, id int) (*InventoryItem, error)
	GetItems(ctx context.Context) ([]InventoryItem, error)
}

type inventoryService struct {
	store *Store
}

func NewInventoryService(store *Store) InventoryService {
	return &inventoryService{store: store}
}

func validateInventory(in InventoryInput) (InventoryInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, fmt.Errorf("item name: %w", ErrValidationIncomplete)
	}
	if !in.Category.Valid() {
		return in, fmt.Errorf("category %q: %w", in.Category, ErrInvalidInput)
	}
	if in.Quantity < 0 {
		return in, fmt.Errorf("quantity %d: %w", in.Quantity, ErrInvalidQuantity)
	}
	if in.PurchasePrice.IsNegative() {
		return in, fmt.Errorf("purchase price %s: %w", in.PurchasePrice, ErrInvalidInput)
	}
	if in.SellingPrice.IsNegative() {
		return in, fmt.Errorf("selling price %s: %w", in.SellingPrice, ErrInvalidInput)
	}
	return in, nil
}

func (s *inventoryService) CreateItem(ctx context.Context, in InventoryInput) (*InventoryItem, error) {
	in, err := validateInventory(in)
	if err != nil {
		return nil, err
	}
	var created InventoryItem
	err = s.store.updateInventory(ctx, func(items []InventoryItem) ([]InventoryItem, error) {
		created = inventoryFromInput(nextItemID(items), in)
		return append(items, created), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}
	return &created, nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, id int, in InventoryInput) (*InventoryItem, error) {
	in, err := validateInventory(in)
	if err != nil {
		return nil, err
	}
	var updated InventoryItem
	err = s.store.updateInventory(ctx, func(items []InventoryItem) ([]InventoryItem, error) {
		i := indexItem(items, id)
		if i < 0 {
			return nil, notFound("inventory item", id)
		}
		updated = inventoryFromInput(id, in)
		items[i] = updated
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, id int) error {
	return s.store.updateInventory(ctx, func(items []InventoryItem) ([]InventoryItem, error) {
		i := indexItem(items, id)
		if i < 0 {
			return nil, notFound("inventory item", id)
		}
		return append(items[:i], items[i+1:]...), nil
	})
}

func (s *inventoryService) UpdateQuantity(ctx context.Context, id int, raw string) (*InventoryItem, error) {
	qty, err := ParseQuantity(raw)
	if err != nil {
		return nil, err
	}
	var updated InventoryItem
	err = s.store.updateInventory(ctx, func(items []InventoryItem) ([]InventoryItem, error) {
		i := indexItem(items, id)
		if i < 0 {
			return nil, notFound("inventory item", id)
		}
		items[i].Quantity = qty
		updated = items[i]
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *inventoryService) GetItem(ctx context.Context, id int) (*InventoryItem, error) {
	items := s.store.Inventory()
	i := indexItem(items, id)
	if i < 0 {
		return nil, notFound("inventory item", id)
	}
	return &items[i], nil
}

func (s *inventoryService) GetItems(ctx context.Context) ([]InventoryItem, error) {
	return s.store.Inventory(), nil
}

// ParseQuantity reads a whole, non-negative stock count.
func ParseQuantity(raw string) (int, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("quantity %q is not a whole number: %w", raw, ErrInvalidQuantity)
	}
	if qty < 0 {
		return 0, fmt.Errorf("quantity %d is negative: %w", qty, ErrInvalidQuantity)
	}
	return qty, nil
}

func inventoryFromInput(id int, in InventoryInput) InventoryItem {
	return InventoryItem{
		ID:            id,
		Name:          in.Name,
		Category:      in.Category,
		Quantity:      in.Quantity,
		PurchasePrice: in.PurchasePrice,
		SellingPrice:  in.SellingPrice,
	}
}

func nextItemID(items []InventoryItem) int {
	max := 0
	for _, it := range items {
		if it.ID > max {
			max = it.ID
		}
	}
	return max + 1
}

func indexItem(items []InventoryItem, id int) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
