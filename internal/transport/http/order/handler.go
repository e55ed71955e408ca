package order

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/oakworks/orderhub/internal/auth"
	"github.com/oakworks/orderhub/internal/dto"
	"github.com/oakworks/orderhub/internal/entity"
	"github.com/oakworks/orderhub/internal/presentation/http/response"
	service "github.com/oakworks/orderhub/internal/service/order"
	"github.com/oakworks/orderhub/internal/validation"
	"github.com/oakworks/orderhub/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/oakworks/orderhub/transport/http/order")

// Handler exposes the order import endpoint over HTTP.
type Handler struct {
	svc       *service.Importer
	validator *validation.Validator
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Importer, v *validation.Validator) *Handler {
	return &Handler{svc: svc, validator: v}
}

// Register mounts the import route behind the API key gate.
func Register(e *echo.Echo, h *Handler, gate *auth.APIKey) {
	g := e.Group("/api", gate.Middleware())
	g.POST("/import-order/", h.importOrder)
}

func (h *Handler) importOrder(c echo.Context) error {
	b := response.New(c)

	var payload dto.ImportOrderRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid request body", errorbank.WithCause(err))).Build()
	}

	cmd, err := h.validator.ImportOrder(payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.import", trace.WithAttributes(
		attribute.String("order.number", cmd.OrderNumber),
	))
	defer span.End()

	order, err := h.svc.Import(ctx, cmd)
	if err != nil {
		var dup *service.DuplicateOrderError
		if errors.As(err, &dup) {
			return b.WithError(errorbank.BadRequest(dup.Error())).Build()
		}
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).
		WithMessage("Order created successfully").
		WithData(toDTO(order)).
		Build()
}

func toDTO(order *entity.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		TotalPrice:  order.TotalPrice,
		CreatedTime: order.CreatedTime,
		UpdatedTime: order.UpdatedTime,
		DeletedTime: order.DeletedTime,
	}
}
