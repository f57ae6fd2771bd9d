package port

import (
	"context"
	"errors"

	"github.com/nikolayk812/cartsync/internal/domain"
)

var ErrNotFound = errors.New("not found")

// SnapshotStore is the durable key-value medium the cart snapshot lives in.
// Get returns ErrNotFound when nothing is stored under key.
type SnapshotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Inventory is the remote catalog and stock service.
type Inventory interface {
	GetStock(ctx context.Context, productID int64) (domain.Stock, error)
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)
}

type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// CartService is what UI code consumes.
type CartService interface {
	Cart() domain.Cart
	AddProduct(ctx context.Context, productID int64) error
	RemoveProduct(ctx context.Context, productID int64) error
	UpdateProductAmount(ctx context.Context, update domain.AmountUpdate) error
}
