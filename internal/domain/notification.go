package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationAddStockExceeded    NotificationKind = "add_stock_exceeded"
	NotificationUpdateStockExceeded NotificationKind = "update_stock_exceeded"
	NotificationAddFailed           NotificationKind = "add_failed"
	NotificationRemoveFailed        NotificationKind = "remove_failed"
	NotificationUpdateFailed        NotificationKind = "update_failed"
)

// Notification is an ephemeral user-visible message about an operation that did not apply.
type Notification struct {
	ID        uuid.UUID
	Kind      NotificationKind
	ProductID int64
	CreatedAt time.Time
}

func NewNotification(kind NotificationKind, productID int64, now time.Time) Notification {
	return Notification{
		ID:        uuid.New(),
		Kind:      kind,
		ProductID: productID,
		CreatedAt: now,
	}
}
