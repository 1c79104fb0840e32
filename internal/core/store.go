package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"
)

// Bucket names of the three persisted snapshots.
const (
	BucketOrders    = "orders"
	BucketClients   = "clients"
	BucketInventory = "inventory"
)

// Buckets lists every snapshot the store reads and writes.
var Buckets = []string{BucketOrders, BucketClients, BucketInventory}

// Persister stores one serialized snapshot per bucket.
// Load returns a nil payload and nil error for a bucket that was never saved.
type Persister interface {
	Load(ctx context.Context, bucket string) ([]byte, error)
	Save(ctx context.Context, bucket string, payload []byte) error
}

// PersistencePolicy decides what happens to a mutation whose flush failed.
type PersistencePolicy string

const (
	// PolicyDegrade keeps the mutation in memory, logs a warning and retries
	// a full flush on the next mutation.
	PolicyDegrade PersistencePolicy = "degrade"
	// PolicyFail discards the mutation and reports ErrPersistenceUnavailable.
	PolicyFail PersistencePolicy = "fail"
)

// StoreOptions configures a Store. Zero values pick sensible defaults.
type StoreOptions struct {
	Policy   PersistencePolicy
	Retries  int            // extra Save attempts after the first failure
	Clock    func() time.Time
	Location *time.Location // calendar-day boundaries for dashboard figures
	// Seed fills the clients and inventory buckets when they were never saved.
	Seed *Snapshot
	// OnPersistFailure is called once per failed flush, after retries.
	OnPersistFailure func(bucket string, err error)
}

// Snapshot is a point-in-time copy of all three collections.
type Snapshot struct {
	Orders    []Order         `json:"orders"`
	Clients   []Client        `json:"clients"`
	Inventory []InventoryItem `json:"inventory"`
}

// Store owns the three in-memory collections and the order counter, and
// mirrors every committed mutation to its Persister. It is created once per
// process and shared by the services.
type Store struct {
	mu        sync.Mutex
	persister Persister
	opts      StoreOptions

	orders      []Order
	clients     []Client
	inventory   []InventoryItem
	nextOrderID int
	degraded    bool
	// unloaded holds buckets whose snapshot could not be read. Their
	// in-memory contents are partial, so they are never written back.
	unloaded map[string]bool
}

// NewStore returns an empty store. Call Load before use.
func NewStore(p Persister, opts StoreOptions) *Store {
	if opts.Policy == "" {
		opts.Policy = PolicyDegrade
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Store{persister: p, opts: opts, nextOrderID: 1}
}

// Load reads all buckets and seeds the order counter from the highest stored
// order id. Buckets that were never saved stay empty, except clients and
// inventory which take the configured seed and are written back immediately.
// Under PolicyDegrade a bucket that fails to load is served from memory and
// not saved again until a later Load reads it successfully.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.unloaded = make(map[string]bool)
	s.degraded = false
	payloads := make(map[string][]byte, len(Buckets))
	for _, bucket := range Buckets {
		data, err := s.persister.Load(ctx, bucket)
		if err != nil {
			if s.opts.Policy == PolicyFail {
				return fmt.Errorf("load %s: %w: %w", bucket, ErrPersistenceUnavailable, err)
			}
			log.Printf("warning: load %s failed, starting in-memory only: %v", bucket, err)
			s.degraded = true
			s.unloaded[bucket] = true
			continue
		}
		payloads[bucket] = data
	}

	if err := decodeBucket(payloads[BucketOrders], &s.orders); err != nil {
		return fmt.Errorf("decode %s: %w", BucketOrders, err)
	}
	if err := decodeBucket(payloads[BucketClients], &s.clients); err != nil {
		return fmt.Errorf("decode %s: %w", BucketClients, err)
	}
	if err := decodeBucket(payloads[BucketInventory], &s.inventory); err != nil {
		return fmt.Errorf("decode %s: %w", BucketInventory, err)
	}
	s.nextOrderID = nextOrderID(s.orders, 1)

	if seed := s.opts.Seed; seed != nil && !s.degraded {
		if payloads[BucketClients] == nil && len(s.clients) == 0 && len(seed.Clients) > 0 {
			s.clients = slices.Clone(seed.Clients)
			if err := s.persist(ctx, BucketClients, s.clients); err != nil {
				log.Printf("warning: seeding clients: %v", err)
			}
		}
		if payloads[BucketInventory] == nil && len(s.inventory) == 0 && len(seed.Inventory) > 0 {
			s.inventory = slices.Clone(seed.Inventory)
			if err := s.persist(ctx, BucketInventory, s.inventory); err != nil {
				log.Printf("warning: seeding inventory: %v", err)
			}
		}
	}
	return nil
}

func decodeBucket[T any](data []byte, dst *[]T) error {
	if len(data) == 0 {
		*dst = nil
		return nil
	}
	return json.Unmarshal(data, dst)
}

func nextOrderID(orders []Order, floor int) int {
	next := floor
	for _, o := range orders {
		if o.ID+1 > next {
			next = o.ID + 1
		}
	}
	return next
}

// Now returns the store clock's current time in the store's location.
func (s *Store) Now() time.Time { return s.opts.Clock().In(s.opts.Location) }

// Location returns the time zone used for calendar-day comparisons.
func (s *Store) Location() *time.Location { return s.opts.Location }

// Degraded reports whether the store is running in-memory only because a
// bucket failed to load, or a flush failed and has not yet been retried
// successfully.
func (s *Store) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// NextOrderID is the identifier the next created order will receive.
func (s *Store) NextOrderID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextOrderID
}

// Snapshot returns deep copies of all three collections.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Orders:    cloneOrders(s.orders),
		Clients:   slices.Clone(s.clients),
		Inventory: slices.Clone(s.inventory),
	}
}

// Orders returns a deep copy of the order collection in insertion order.
func (s *Store) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneOrders(s.orders)
}

// Clients returns a copy of the client collection.
func (s *Store) Clients() []Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.clients)
}

// Inventory returns a copy of the inventory collection.
func (s *Store) Inventory() []InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.inventory)
}

func cloneOrders(orders []Order) []Order {
	if orders == nil {
		return nil
	}
	out := make([]Order, len(orders))
	for i, o := range orders {
		o.Items = slices.Clone(o.Items)
		out[i] = o
	}
	return out
}

// updateOrders applies fn to a working copy of the orders and commits the
// result if it persists (or if the policy tolerates the failure).
func (s *Store) updateOrders(ctx context.Context, fn func([]Order) ([]Order, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(cloneOrders(s.orders))
	if err != nil {
		return err
	}
	if err := s.commit(ctx, BucketOrders, next); err != nil {
		return err
	}
	s.orders = next
	s.nextOrderID = nextOrderID(next, s.nextOrderID)
	return nil
}

func (s *Store) updateClients(ctx context.Context, fn func([]Client) ([]Client, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(slices.Clone(s.clients))
	if err != nil {
		return err
	}
	if err := s.commit(ctx, BucketClients, next); err != nil {
		return err
	}
	s.clients = next
	return nil
}

func (s *Store) updateInventory(ctx context.Context, fn func([]InventoryItem) ([]InventoryItem, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(slices.Clone(s.inventory))
	if err != nil {
		return err
	}
	if err := s.commit(ctx, BucketInventory, next); err != nil {
		return err
	}
	s.inventory = next
	return nil
}

// commit persists value under bucket. Under PolicyDegrade a persistence
// failure is logged and swallowed; under PolicyFail it is returned.
// Buckets that failed to load are kept in memory only. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, bucket string, value any) error {
	if s.unloaded[bucket] {
		log.Printf("warning: %s was not loaded, change kept in memory only", bucket)
		return nil
	}
	wasDegraded := s.degraded
	err := s.persist(ctx, bucket, value)
	if err == nil && wasDegraded {
		// Catch up the buckets whose writes were skipped while degraded.
		err = s.flushOthers(ctx, bucket)
		if err == nil && len(s.unloaded) == 0 {
			log.Printf("persistence recovered, all buckets flushed")
			s.degraded = false
		}
	}
	if err == nil {
		return nil
	}
	if s.opts.OnPersistFailure != nil {
		s.opts.OnPersistFailure(bucket, err)
	}
	if s.opts.Policy == PolicyFail {
		return err
	}
	log.Printf("warning: %v; continuing in-memory only", err)
	s.degraded = true
	return nil
}

func (s *Store) flushOthers(ctx context.Context, skip string) error {
	for _, bucket := range Buckets {
		if bucket == skip || s.unloaded[bucket] {
			continue
		}
		var value any
		switch bucket {
		case BucketOrders:
			value = s.orders
		case BucketClients:
			value = s.clients
		case BucketInventory:
			value = s.inventory
		}
		if err := s.persist(ctx, bucket, value); err != nil {
			return err
		}
	}
	return nil
}

// persist marshals value and saves it, retrying up to opts.Retries times.
func (s *Store) persist(ctx context.Context, bucket string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", bucket, err)
	}
	for attempt := 0; ; attempt++ {
		err = s.persister.Save(ctx, bucket, payload)
		if err == nil {
			return nil
		}
		if attempt >= s.opts.Retries || ctx.Err() != nil {
			break
		}
	}
	return fmt.Errorf("save %s: %w: %w", bucket, ErrPersistenceUnavailable, err)
}
