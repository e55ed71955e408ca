package order

import (
	"context"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/oakworks/orderhub/internal/database"
	"github.com/oakworks/orderhub/internal/entity"
)

var repoTracer = otel.Tracer("github.com/oakworks/orderhub/repository/order")

// ErrDuplicate is returned by Insert when the unique index on order_number
// rejects the row. The pre-insert Exists check and a concurrent import can
// race; this sentinel lets the importer fold both paths into one outcome.
var ErrDuplicate = errors.New("order number already exists")

// Repository encapsulates read/write access for orders.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// Exists reports whether any order, active or soft-deleted, carries the
// given order number. Deliberately no deleted_time filter: the uniqueness
// guarantee is global.
func (r *Repository) Exists(ctx context.Context, orderNumber string) (bool, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Exists", trace.WithAttributes(attribute.String("order.number", orderNumber)))
	defer span.End()

	exists, err := r.reader.NewSelect().
		Model((*entity.Order)(nil)).
		Where("order_number = ?", orderNumber).
		Exists(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "exists check failed")
		return false, err
	}
	return exists, nil
}

// Insert persists a new order using the write connection. The assigned id
// is filled into the passed entity. A unique-index violation comes back as
// ErrDuplicate.
func (r *Repository) Insert(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Insert", trace.WithAttributes(attribute.String("order.number", order.OrderNumber)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(order).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			span.SetStatus(codes.Error, "duplicate order number")
			return ErrDuplicate
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return err
	}
	return nil
}

// isUniqueViolation classifies driver errors for the supported dialects:
// postgres 23505, mysql 1062, sqlite's UNIQUE message.
func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) && pgErr.Field('C') == "23505" {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
