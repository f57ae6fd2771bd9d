package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartsync/internal/db"
	"github.com/nikolayk812/cartsync/internal/port"
)

type cartSnapshotRepository struct {
	q *db.Queries
}

func NewCartSnapshot(pool *pgxpool.Pool) port.SnapshotStore {
	return &cartSnapshotRepository{
		q: db.New(pool),
	}
}

func NewCartSnapshotWithTx(tx pgx.Tx) port.SnapshotStore {
	return &cartSnapshotRepository{
		q: db.New(tx),
	}
}

func (r *cartSnapshotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	value, err := r.q.GetSnapshot(ctx, key)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("q.GetSnapshot: %w", err)
	}

	return value, nil
}

func (r *cartSnapshotRepository) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	err := r.q.UpsertSnapshot(ctx, db.UpsertSnapshotParams{
		Key:   key,
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("q.UpsertSnapshot: %w", err)
	}

	return nil
}
