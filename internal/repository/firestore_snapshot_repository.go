package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/nikolayk812/cartsync/internal/port"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const DefaultFirestoreCollection = "cart_snapshots"

// firestoreSnapshotRepository stores each key as one document, docId = key.
type firestoreSnapshotRepository struct {
	client     *firestore.Client
	collection string
}

type snapshotDoc struct {
	Value     string    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

func NewFirestoreSnapshot(client *firestore.Client, collection string) (port.SnapshotStore, error) {
	if client == nil {
		return nil, fmt.Errorf("firestore client is nil")
	}
	if collection == "" {
		collection = DefaultFirestoreCollection
	}

	return &firestoreSnapshotRepository{
		client:     client,
		collection: collection,
	}, nil
}

func (r *firestoreSnapshotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	snap, err := r.client.Collection(r.collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("doc.Get: %w", err)
	}

	var doc snapshotDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("snap.DataTo: %w", err)
	}

	return []byte(doc.Value), nil
}

func (r *firestoreSnapshotRepository) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	// full overwrite, no merge
	_, err := r.client.Collection(r.collection).Doc(key).Set(ctx, snapshotDoc{
		Value:     string(value),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("doc.Set: %w", err)
	}

	return nil
}
