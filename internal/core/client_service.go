package core

import (
	"context"
	"fmt"
	"strings"
)

// ClientService manages the client list. Clients are never deleted.
type ClientService interface {
	CreateClient(ctx context.Context, in ClientInput) (*Client, error)
	UpdateClient(ctx context.Context, id int, in ClientInput) (*Client, error)
	GetClient(ctx context.Context, id int) (*Client, error)
	GetClients(ctx context.Context) ([]Client, error)
	// SearchClients matches term against name and email (case-insensitive)
	// and phone (verbatim substring). An empty term returns every client.
	SearchClients(ctx context.Context, term string) ([]Client, error)
	// ClientOrders returns the orders whose client name equals the client's
	// current name.
	ClientOrders(ctx context.Context, id int) ([]Order, error)
}

type clientService struct {
	store *Store
}

func NewClientService(store *Store) ClientService {
	return &clientService{store: store}
}

func validateClient(in ClientInput) (ClientInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" {
		return in, fmt.Errorf("client name: %w", ErrValidationIncomplete)
	}
	if in.Phone == "" {
		return in, fmt.Errorf("client phone: %w", ErrValidationIncomplete)
	}
	return in, nil
}

func (s *clientService) CreateClient(ctx context.Context, in ClientInput) (*Client, error) {
	in, err := validateClient(in)
	if err != nil {
		return nil, err
	}
	var created Client
	err = s.store.updateClients(ctx, func(clients []Client) ([]Client, error) {
		created = Client{ID: nextClientID(clients), Name: in.Name, Phone: in.Phone, Email: in.Email}
		return append(clients, created), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &created, nil
}

func (s *clientService) UpdateClient(ctx context.Context, id int, in ClientInput) (*Client, error) {
	in, err := validateClient(in)
	if err != nil {
		return nil, err
	}
	var updated Client
	err = s.store.updateClients(ctx, func(clients []Client) ([]Client, error) {
		i := indexClient(clients, id)
		if i < 0 {
			return nil, notFound("client", id)
		}
		updated = Client{ID: id, Name: in.Name, Phone: in.Phone, Email: in.Email}
		clients[i] = updated
		return clients, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *clientService) GetClient(ctx context.Context, id int) (*Client, error) {
	clients := s.store.Clients()
	i := indexClient(clients, id)
	if i < 0 {
		return nil, notFound("client", id)
	}
	return &clients[i], nil
}

func (s *clientService) GetClients(ctx context.Context) ([]Client, error) {
	return s.store.Clients(), nil
}

func (s *clientService) SearchClients(ctx context.Context, term string) ([]Client, error) {
	return FilterClients(s.store.Clients(), term), nil
}

func (s *clientService) ClientOrders(ctx context.Context, id int) ([]Order, error) {
	c, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	var matched []Order
	for _, o := range s.store.Orders() {
		if o.ClientName == c.Name {
			matched = append(matched, o)
		}
	}
	return matched, nil
}

// FilterClients keeps clients whose name or email contains term ignoring
// case, or whose phone contains term as typed.
func FilterClients(clients []Client, term string) []Client {
	if term == "" {
		return clients
	}
	lower := strings.ToLower(term)
	var out []Client
	for _, c := range clients {
		if strings.Contains(strings.ToLower(c.Name), lower) ||
			strings.Contains(c.Phone, term) ||
			(c.Email != "" && strings.Contains(strings.ToLower(c.Email), lower)) {
			out = append(out, c)
		}
	}
	return out
}

// nextClientID is max existing id + 1, or 1 for an empty list.
func nextClientID(clients []Client) int {
	max := 0
	for _, c := range clients {
		if c.ID > max {
			max = c.ID
		}
	}
	return max + 1
}

func indexClient(clients []Client, id int) int {
	for i, c := range clients {
		if c.ID == id {
			return i
		}
	}
	return -1
}
