package errorbank

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestStatusCodeByKind(t *testing.T) {
	cases := []struct {
		name string
		err  *AppError
		want int
	}{
		{"bad request", BadRequest("nope"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("nope"), http.StatusUnauthorized},
		{"conflict", Conflict("nope"), http.StatusConflict},
		{"not found", NotFound("nope"), http.StatusNotFound},
		{"unprocessable", Unprocessable("nope"), http.StatusUnprocessableEntity},
		{"internal", Internal("nope"), http.StatusInternalServerError},
		{"nil receiver", nil, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.StatusCode())
		})
	}
}

func TestGRPCCodeByKind(t *testing.T) {
	assert.Equal(t, codes.InvalidArgument, BadRequest("nope").GRPCCode())
	assert.Equal(t, codes.Unauthenticated, Unauthorized("nope").GRPCCode())
	assert.Equal(t, codes.AlreadyExists, Conflict("nope").GRPCCode())
	assert.Equal(t, codes.NotFound, NotFound("nope").GRPCCode())
	assert.Equal(t, codes.Internal, Internal("nope").GRPCCode())
}

func TestErrorIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("failed to import order", WithCause(cause))

	assert.Equal(t, "failed to import order: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestDetails(t *testing.T) {
	err := BadRequest("invalid request parameters",
		WithDetail("order_number", "order_number is required"),
		WithDetails(map[string]any{"total_price": "total_price must be a valid number"}),
	)

	details := err.Details()
	assert.Equal(t, "order_number is required", details["order_number"])
	assert.Equal(t, "total_price must be a valid number", details["total_price"])
}

func TestNewDefaultsMessageToKind(t *testing.T) {
	err := New(KindConflict, "")
	assert.Equal(t, string(KindConflict), err.Message())
}

func TestFrom(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, From(nil))
	})

	t.Run("passes through app errors", func(t *testing.T) {
		orig := BadRequest("nope")
		assert.Same(t, orig, From(orig))
	})

	t.Run("unwraps nested app errors", func(t *testing.T) {
		orig := NotFound("gone")
		wrapped := fmt.Errorf("handler: %w", orig)
		assert.Same(t, orig, From(wrapped))
	})

	t.Run("wraps unknown errors as internal", func(t *testing.T) {
		plain := errors.New("boom")
		appErr := From(plain)
		require.NotNil(t, appErr)
		assert.Equal(t, KindInternal, appErr.Kind())
		assert.ErrorIs(t, appErr, plain)
	})
}
