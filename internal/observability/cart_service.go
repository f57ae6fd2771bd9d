package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/nikolayk812/cartsync/internal/port"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/nikolayk812/cartsync/internal/observability"

// CartService decorates a port.CartService with tracing, logging, and metrics.
type CartService struct {
	inner   port.CartService
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics cartMetrics
}

type Option func(*CartService)

func WithLogger(logger *slog.Logger) Option {
	return func(s *CartService) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *CartService) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *CartService) {
		s.metrics = newCartMetrics(m)
	}
}

func NewCartService(inner port.CartService, opts ...Option) port.CartService {
	s := &CartService{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newCartMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *CartService) Cart() domain.Cart {
	return s.inner.Cart()
}

func (s *CartService) AddProduct(ctx context.Context, productID int64) error {
	ctx, span := s.tracer.Start(ctx, "CartService.AddProduct",
		trace.WithAttributes(attribute.Int64("product.id", productID)))
	defer span.End()

	if err := s.inner.AddProduct(ctx, productID); err != nil {
		return s.handleError(ctx, span, "add", err, "failed to add product", slog.Int64("product.id", productID))
	}

	s.metrics.recordApplied(ctx, "add")
	s.logInfo(ctx, "product added", slog.Int64("product.id", productID), slog.Int("cart.items", s.inner.Cart().Len()))
	return nil
}

func (s *CartService) RemoveProduct(ctx context.Context, productID int64) error {
	ctx, span := s.tracer.Start(ctx, "CartService.RemoveProduct",
		trace.WithAttributes(attribute.Int64("product.id", productID)))
	defer span.End()

	if err := s.inner.RemoveProduct(ctx, productID); err != nil {
		return s.handleError(ctx, span, "remove", err, "failed to remove product", slog.Int64("product.id", productID))
	}

	s.metrics.recordApplied(ctx, "remove")
	s.logInfo(ctx, "product removed", slog.Int64("product.id", productID))
	return nil
}

func (s *CartService) UpdateProductAmount(ctx context.Context, update domain.AmountUpdate) error {
	ctx, span := s.tracer.Start(ctx, "CartService.UpdateProductAmount",
		trace.WithAttributes(
			attribute.Int64("product.id", update.ProductID),
			attribute.Int("product.amount", update.Amount),
		))
	defer span.End()

	if err := s.inner.UpdateProductAmount(ctx, update); err != nil {
		return s.handleError(ctx, span, "update", err, "failed to update product amount",
			slog.Int64("product.id", update.ProductID), slog.Int("product.amount", update.Amount))
	}

	s.metrics.recordApplied(ctx, "update")
	s.logInfo(ctx, "product amount updated",
		slog.Int64("product.id", update.ProductID), slog.Int("product.amount", update.Amount))
	return nil
}

func (s *CartService) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *CartService) handleError(ctx context.Context, span trace.Span, op string, err error, msg string, attrs ...slog.Attr) error {
	reason := rejectReason(err)

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String("cart.reject_reason", reason))

	s.metrics.recordRejected(ctx, op, reason)

	// stock and missing-item rejections are expected user outcomes
	level := slog.LevelWarn
	if reason == "remote_lookup" {
		level = slog.LevelError
	}
	attrs = append(attrs, slog.String("reason", reason), slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, level, msg, attrs...)

	return err
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrStockExceeded):
		return "stock_exceeded"
	case errors.Is(err, domain.ErrItemNotFound):
		return "item_not_found"
	default:
		return "remote_lookup"
	}
}

type cartMetrics struct {
	applied  metric.Int64Counter
	rejected metric.Int64Counter
}

func newCartMetrics(m metric.Meter) cartMetrics {
	if m == nil {
		return cartMetrics{}
	}
	applied, _ := m.Int64Counter("cart.service.mutations_applied", metric.WithDescription("Number of cart mutations applied"))
	rejected, _ := m.Int64Counter("cart.service.mutations_rejected", metric.WithDescription("Number of cart mutations rejected"))
	return cartMetrics{applied: applied, rejected: rejected}
}

func (m cartMetrics) recordApplied(ctx context.Context, op string) {
	if m.applied != nil {
		m.applied.Add(ctx, 1, metric.WithAttributes(attribute.String("cart.op", op)))
	}
}

func (m cartMetrics) recordRejected(ctx context.Context, op, reason string) {
	if m.rejected != nil {
		m.rejected.Add(ctx, 1, metric.WithAttributes(
			attribute.String("cart.op", op),
			attribute.String("cart.reject_reason", reason),
		))
	}
}

var _ port.CartService = (*CartService)(nil)
