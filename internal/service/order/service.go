package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/oakworks/orderhub/internal/cache"
	"github.com/oakworks/orderhub/internal/config"
	"github.com/oakworks/orderhub/internal/dto"
	"github.com/oakworks/orderhub/internal/entity"
	"github.com/oakworks/orderhub/internal/messaging"
	repo "github.com/oakworks/orderhub/internal/repository/order"
	"github.com/oakworks/orderhub/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/oakworks/orderhub/service/order")

// Store is the persistence contract the importer relies on.
type Store interface {
	Exists(ctx context.Context, orderNumber string) (bool, error)
	Insert(ctx context.Context, order *entity.Order) error
}

// DuplicateOrderError reports an import that collides with an existing
// order number, whether caught by the pre-check or by the database
// constraint under a race.
type DuplicateOrderError struct {
	OrderNumber string
}

func (e *DuplicateOrderError) Error() string {
	return fmt.Sprintf("Order with number %s already exists", e.OrderNumber)
}

// Importer owns the order import pipeline: duplicate detection, timestamped
// insert, and the post-import event seam.
type Importer struct {
	store     Store
	cache     cache.Store
	cacheTTL  time.Duration
	logger    *zap.Logger
	publisher messaging.Client
	messaging messagingConfig
}

// messagingConfig contains messaging specific knobs we care about.
type messagingConfig struct {
	enabled bool
	topic   string
}

// Params defines dependencies for constructing Importer.
type Params struct {
	fx.In

	Store     Store
	Cache     cache.Store
	Config    config.Config
	Logger    *zap.Logger
	Publisher messaging.Client
}

// NewImporter wires a new Importer instance.
func NewImporter(p Params) *Importer {
	return &Importer{
		store:     p.Store,
		cache:     p.Cache,
		cacheTTL:  p.Config.Cache.DefaultTTL,
		logger:    p.Logger,
		publisher: p.Publisher,
		messaging: messagingConfig{
			enabled: p.Config.Messaging.Enabled,
			topic:   p.Config.Messaging.Kafka.Topic,
		},
	}
}

// Import creates the order described by cmd. It fails with
// *DuplicateOrderError when the order number is already taken and with an
// errorbank internal error for any store failure. The store's unique
// constraint is the authoritative guard; the Exists pre-check only saves a
// doomed insert.
func (s *Importer) Import(ctx context.Context, cmd dto.ImportOrder) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderImporter.Import", trace.WithAttributes(attribute.String("order.number", cmd.OrderNumber)))
	defer span.End()

	if s.knownFromCache(ctx, cmd.OrderNumber) {
		s.logger.Warn("duplicate order import rejected", zap.String("order_number", cmd.OrderNumber), zap.String("source", "cache"))
		return nil, &DuplicateOrderError{OrderNumber: cmd.OrderNumber}
	}

	exists, err := s.store.Exists(ctx, cmd.OrderNumber)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		s.logger.Error("order existence check failed", zap.String("order_number", cmd.OrderNumber), zap.Error(err))
		return nil, errorbank.Internal("failed to import order", errorbank.WithCause(err))
	}
	if exists {
		s.logger.Warn("duplicate order import rejected", zap.String("order_number", cmd.OrderNumber))
		return nil, &DuplicateOrderError{OrderNumber: cmd.OrderNumber}
	}

	now := time.Now().UTC()
	order := &entity.Order{
		OrderNumber: cmd.OrderNumber,
		TotalPrice:  cmd.TotalPrice,
		CreatedTime: now,
		UpdatedTime: now,
	}

	if err := s.store.Insert(ctx, order); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			// Lost the race to a concurrent import of the same number.
			s.logger.Warn("duplicate order import rejected", zap.String("order_number", cmd.OrderNumber), zap.String("source", "constraint"))
			return nil, &DuplicateOrderError{OrderNumber: cmd.OrderNumber}
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		s.logger.Error("order insert failed", zap.String("order_number", cmd.OrderNumber), zap.Error(err))
		return nil, errorbank.Internal("failed to import order", errorbank.WithCause(err))
	}

	if err := s.storeInCache(ctx, order); err != nil {
		s.logger.Warn("orders cache write failed", zap.String("order_number", order.OrderNumber), zap.Error(err))
	}

	s.publishOrderImported(ctx, order)

	return order, nil
}

func (s *Importer) publishOrderImported(ctx context.Context, order *entity.Order) {
	if !s.messaging.enabled || s.publisher == nil {
		return
	}
	event := OrderImportedEvent{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		TotalPrice:  order.TotalPrice,
		CreatedTime: order.CreatedTime,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal order imported", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, []byte(fmt.Sprintf("order-%d", order.ID)), payload); err != nil {
		s.logger.Error("publish order imported", zap.Error(err))
	}
}

func (s *Importer) cacheKey(orderNumber string) string {
	return "orders:number:" + orderNumber
}

// knownFromCache is a fast-path duplicate probe. Only a positive hit is
// trusted; misses and errors fall back to the store.
func (s *Importer) knownFromCache(ctx context.Context, orderNumber string) bool {
	if s.cache == nil {
		return false
	}
	_, err := s.cache.Get(ctx, s.cacheKey(orderNumber))
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("orders cache read failed", zap.String("order_number", orderNumber), zap.Error(err))
	}
	return false
}

func (s *Importer) storeInCache(ctx context.Context, order *entity.Order) error {
	if s.cache == nil || order == nil {
		return nil
	}
	payload, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, s.cacheKey(order.OrderNumber), payload, s.cacheTTL)
}

// OrderImportedEvent is emitted after a new order is persisted.
type OrderImportedEvent struct {
	ID          int64           `json:"id"`
	OrderNumber string          `json:"order_number"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	CreatedTime time.Time       `json:"created_time"`
}
