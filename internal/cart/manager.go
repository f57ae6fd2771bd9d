package cart

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/nikolayk812/cartsync/internal/port"
)

const DefaultStorageKey = "@RocketShoes:cart"

var ErrRemoteLookup = errors.New("remote lookup failed")

// Manager owns the cart state. Mutations are serialized for their whole
// read-compute-write cycle, so two overlapping calls never act on a stale cart.
// Cart never waits for a mutation in progress.
type Manager struct {
	store     port.SnapshotStore
	inventory port.Inventory
	notifier  port.Notifier

	logger *slog.Logger
	key    string
	now    func() time.Time

	mu        sync.Mutex
	state     atomic.Pointer[domain.Cart]
	persisted []byte
}

type Option func(*Manager)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func WithStorageKey(key string) Option {
	return func(m *Manager) {
		m.key = key
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager restores the cart persisted under the storage key. A missing,
// unreadable or malformed snapshot yields an empty cart.
func NewManager(ctx context.Context, store port.SnapshotStore, inventory port.Inventory, notifier port.Notifier, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if inventory == nil {
		return nil, fmt.Errorf("inventory is nil")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier is nil")
	}

	m := &Manager{
		store:     store,
		inventory: inventory,
		notifier:  notifier,
		logger:    slog.Default(),
		key:       DefaultStorageKey,
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	if m.key == "" {
		return nil, fmt.Errorf("storage key is empty")
	}

	initial := m.load(ctx)

	persisted, err := domain.EncodeCart(initial)
	if err != nil {
		return nil, fmt.Errorf("domain.EncodeCart: %w", err)
	}
	m.persisted = persisted
	m.state.Store(&initial)

	return m, nil
}

func (m *Manager) load(ctx context.Context) domain.Cart {
	data, err := m.store.Get(ctx, m.key)
	if errors.Is(err, port.ErrNotFound) {
		return domain.Cart{}
	}
	if err != nil {
		m.logger.LogAttrs(ctx, slog.LevelWarn, "cart snapshot unreadable, starting empty",
			slog.String("key", m.key), slog.String("error", err.Error()))
		return domain.Cart{}
	}

	c, err := domain.DecodeCart(data)
	if err != nil {
		m.logger.LogAttrs(ctx, slog.LevelWarn, "cart snapshot malformed, starting empty",
			slog.String("key", m.key), slog.String("error", err.Error()))
		return domain.Cart{}
	}

	return c
}

// Cart returns a copy of the current cart.
func (m *Manager) Cart() domain.Cart {
	return m.current().Clone()
}

func (m *Manager) current() domain.Cart {
	return *m.state.Load()
}

func (m *Manager) AddProduct(ctx context.Context, productID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.addProduct(ctx, productID)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrStockExceeded):
		m.notify(ctx, domain.NotificationAddStockExceeded, productID)
	default:
		m.notify(ctx, domain.NotificationAddFailed, productID)
	}
	return err
}

func (m *Manager) addProduct(ctx context.Context, productID int64) error {
	c := m.current()
	existing, found := c.Find(productID)

	stock, err := m.inventory.GetStock(ctx, productID)
	if err != nil {
		return fmt.Errorf("%w: inventory.GetStock: %w", ErrRemoteLookup, err)
	}

	desired := existing.Amount + 1
	if desired > stock.Amount {
		return fmt.Errorf("%w: product %d wants %d, %d available", domain.ErrStockExceeded, productID, desired, stock.Amount)
	}

	if found {
		next, err := c.WithAmount(productID, desired)
		if err != nil {
			return fmt.Errorf("c.WithAmount: %w", err)
		}
		m.commit(ctx, next)
		return nil
	}

	product, err := m.inventory.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("%w: inventory.GetProduct: %w", ErrRemoteLookup, err)
	}
	// the catalog is keyed by path, trust the requested id over the payload
	product.ID = productID

	next, err := c.Append(domain.NewCartItem(product))
	if err != nil {
		return fmt.Errorf("c.Append: %w", err)
	}
	m.commit(ctx, next)
	return nil
}

// RemoveProduct drops the line item entirely. It makes no remote calls.
func (m *Manager) RemoveProduct(ctx context.Context, productID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := m.current().Without(productID)
	if err != nil {
		m.notify(ctx, domain.NotificationRemoveFailed, productID)
		return fmt.Errorf("product %d: %w", productID, err)
	}

	m.commit(ctx, next)
	return nil
}

// UpdateProductAmount sets an absolute quantity. Non-positive amounts are
// ignored; removal goes through RemoveProduct.
func (m *Manager) UpdateProductAmount(ctx context.Context, update domain.AmountUpdate) error {
	if update.Amount <= 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.updateProductAmount(ctx, update)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrStockExceeded):
		m.notify(ctx, domain.NotificationUpdateStockExceeded, update.ProductID)
	default:
		m.notify(ctx, domain.NotificationUpdateFailed, update.ProductID)
	}
	return err
}

func (m *Manager) updateProductAmount(ctx context.Context, update domain.AmountUpdate) error {
	stock, err := m.inventory.GetStock(ctx, update.ProductID)
	if err != nil {
		return fmt.Errorf("%w: inventory.GetStock: %w", ErrRemoteLookup, err)
	}

	if update.Amount > stock.Amount {
		return fmt.Errorf("%w: product %d wants %d, %d available", domain.ErrStockExceeded, update.ProductID, update.Amount, stock.Amount)
	}

	next, err := m.current().WithAmount(update.ProductID, update.Amount)
	if err != nil {
		return fmt.Errorf("product %d: %w", update.ProductID, err)
	}

	m.commit(ctx, next)
	return nil
}

// commit replaces the state and persists it. Must be called with mu held.
func (m *Manager) commit(ctx context.Context, next domain.Cart) {
	m.state.Store(&next)
	m.persist(context.WithoutCancel(ctx), next)
}

func (m *Manager) persist(ctx context.Context, c domain.Cart) {
	data, err := domain.EncodeCart(c)
	if err != nil {
		m.logger.LogAttrs(ctx, slog.LevelError, "encode cart snapshot", slog.String("error", err.Error()))
		return
	}

	if bytes.Equal(data, m.persisted) {
		return
	}

	if err := m.store.Set(ctx, m.key, data); err != nil {
		// persisted stays stale so the next commit retries the write
		m.logger.LogAttrs(ctx, slog.LevelError, "persist cart snapshot",
			slog.String("key", m.key), slog.String("error", err.Error()))
		return
	}

	m.persisted = data
}

func (m *Manager) notify(ctx context.Context, kind domain.NotificationKind, productID int64) {
	m.notifier.Notify(ctx, domain.NewNotification(kind, productID, m.now()))
}

var _ port.CartService = (*Manager)(nil)
