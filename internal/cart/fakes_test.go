package cart_test

import (
	"context"
	"errors"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/nikolayk812/cartsync/internal/port"
	"github.com/nikolayk812/cartsync/internal/repository"
	"github.com/shopspring/decimal"
)

var errUnavailable = errors.New("inventory unavailable")

type fakeInventory struct {
	mu       sync.Mutex
	stock    map[int64]int
	products map[int64]domain.Product

	stockErr   error
	productErr error

	stockCalls   int
	productCalls int
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{
		stock:    make(map[int64]int),
		products: make(map[int64]domain.Product),
	}
}

// with registers a product and its available stock.
func (f *fakeInventory) with(id int64, stock int) *fakeInventory {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stock[id] = stock
	f.products[id] = randomProduct(id)
	return f
}

func (f *fakeInventory) GetStock(ctx context.Context, productID int64) (domain.Stock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stockCalls++
	if f.stockErr != nil {
		return domain.Stock{}, f.stockErr
	}
	if err := ctx.Err(); err != nil {
		return domain.Stock{}, err
	}

	amount, ok := f.stock[productID]
	if !ok {
		return domain.Stock{}, port.ErrNotFound
	}
	return domain.Stock{ID: productID, Amount: amount}, nil
}

func (f *fakeInventory) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.productCalls++
	if f.productErr != nil {
		return domain.Product{}, f.productErr
	}

	p, ok := f.products[productID]
	if !ok {
		return domain.Product{}, port.ErrNotFound
	}
	return p, nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []domain.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notes = append(r.notes, n)
}

func (r *recordingNotifier) kinds() []domain.NotificationKind {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.NotificationKind
	for _, n := range r.notes {
		out = append(out, n.Kind)
	}
	return out
}

// countingStore wraps the memory store, counting writes and optionally failing them.
type countingStore struct {
	port.SnapshotStore

	mu     sync.Mutex
	sets   int
	setErr error
	getErr error
}

func newCountingStore() *countingStore {
	return &countingStore{SnapshotStore: repository.NewMemorySnapshot()}
}

func (s *countingStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	getErr := s.getErr
	s.mu.Unlock()

	if getErr != nil {
		return nil, getErr
	}
	return s.SnapshotStore.Get(ctx, key)
}

func (s *countingStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.setErr != nil {
		return s.setErr
	}
	s.sets++
	return s.SnapshotStore.Set(ctx, key, value)
}

func (s *countingStore) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sets
}

func randomProduct(id int64) domain.Product {
	return domain.Product{
		ID:    id,
		Title: gofakeit.ProductName(),
		Price: decimal.NewFromFloat(gofakeit.Price(10, 500)).Round(2),
		Image: gofakeit.URL(),
	}
}
