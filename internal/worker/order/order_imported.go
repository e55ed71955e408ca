package order

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/oakworks/orderhub/internal/config"
	"github.com/oakworks/orderhub/internal/messaging"
	ordersvc "github.com/oakworks/orderhub/internal/service/order"
	"github.com/oakworks/orderhub/internal/worker"
)

var workerTracer = otel.Tracer("github.com/oakworks/orderhub/worker/order")

// Module registers order-related worker handlers.
var Module = fx.Module("worker_order",
	fx.Provide(
		fx.Annotate(
			NewOrderImportedHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewOrderImportedHandler sets up a worker handler that logs imported
// orders. This is the consumer side of the extension seam; notification or
// enrichment logic slots in here without touching the import path.
func NewOrderImportedHandler(logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.orders.process", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		var event ordersvc.OrderImportedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("failed to decode order imported", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return err
		}
		logger.Info("order imported event processed",
			zap.Int64("id", event.ID),
			zap.String("order_number", event.OrderNumber),
			zap.String("total_price", event.TotalPrice.String()),
		)

		return nil
	}

	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: handler,
	}
}
