package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/nikolayk812/cartsync/internal/port"
)

// Message returns the user-facing text for a notification kind.
func Message(kind domain.NotificationKind) string {
	switch kind {
	case domain.NotificationAddStockExceeded, domain.NotificationUpdateStockExceeded:
		return "Requested amount is out of stock"
	case domain.NotificationAddFailed:
		return "Failed to add product"
	case domain.NotificationRemoveFailed:
		return "Failed to remove product"
	case domain.NotificationUpdateFailed:
		return "Failed to update product amount"
	default:
		return "Cart operation failed"
	}
}

type logNotifier struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) port.Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Notify(ctx context.Context, note domain.Notification) {
	n.logger.LogAttrs(ctx, slog.LevelWarn, Message(note.Kind),
		slog.String("notification.id", note.ID.String()),
		slog.String("notification.kind", string(note.Kind)),
		slog.Int64("product.id", note.ProductID),
	)
}

// writerNotifier prints one line per notification, for terminal UIs.
type writerNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) port.Notifier {
	return &writerNotifier{w: w}
}

func (n *writerNotifier) Notify(_ context.Context, note domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()

	_, _ = fmt.Fprintf(n.w, "%s (product %d)\n", Message(note.Kind), note.ProductID)
}

// Channel delivers notifications to a consumer goroutine. Notify never blocks:
// when the buffer is full the notification is dropped and logged.
type Channel struct {
	ch     chan domain.Notification
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
}

func NewChannel(size int, logger *slog.Logger) *Channel {
	if logger == nil {
		logger = slog.Default()
	}
	return &Channel{
		ch:     make(chan domain.Notification, size),
		logger: logger,
	}
}

func (c *Channel) C() <-chan domain.Notification {
	return c.ch
}

func (c *Channel) Notify(ctx context.Context, note domain.Notification) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return
	}

	select {
	case c.ch <- note:
	default:
		c.logger.LogAttrs(ctx, slog.LevelWarn, "notification dropped",
			slog.String("notification.kind", string(note.Kind)),
			slog.Int64("product.id", note.ProductID),
		)
	}
}

// Close stops delivery and closes the channel. Safe to call more than once.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.ch)
}

type multiNotifier []port.Notifier

func Multi(notifiers ...port.Notifier) port.Notifier {
	out := make(multiNotifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (m multiNotifier) Notify(ctx context.Context, note domain.Notification) {
	for _, n := range m {
		n.Notify(ctx, note)
	}
}

var _ port.Notifier = (*Channel)(nil)
