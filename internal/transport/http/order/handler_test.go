package order

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oakworks/orderhub/internal/auth"
	"github.com/oakworks/orderhub/internal/config"
	"github.com/oakworks/orderhub/internal/dto"
	"github.com/oakworks/orderhub/internal/entity"
	service "github.com/oakworks/orderhub/internal/service/order"
	"github.com/oakworks/orderhub/internal/validation"
)

const testToken = "test_token_12345"

type stubStore struct {
	existing  map[string]bool
	insertErr error
	inserted  []*entity.Order
}

func (s *stubStore) Exists(_ context.Context, orderNumber string) (bool, error) {
	return s.existing[orderNumber], nil
}

func (s *stubStore) Insert(_ context.Context, order *entity.Order) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	order.ID = int64(len(s.inserted) + 1)
	s.inserted = append(s.inserted, order)
	if s.existing == nil {
		s.existing = map[string]bool{}
	}
	s.existing[order.OrderNumber] = true
	return nil
}

type errorEnvelope struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

type successEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    dto.OrderResponse `json:"data"`
}

func newServer(t *testing.T, store *stubStore) *echo.Echo {
	t.Helper()

	logger := zap.NewNop()
	v, err := validation.New()
	require.NoError(t, err)

	cfg := config.Config{}
	cfg.Auth.APIToken = testToken

	gate, err := auth.NewAPIKey(cfg, logger)
	require.NoError(t, err)

	imp := service.NewImporter(service.Params{
		Store:  store,
		Config: cfg,
		Logger: logger,
	})

	e := echo.New()
	Register(e, NewHandler(imp, v), gate)
	return e
}

func doImport(e *echo.Echo, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/import-order/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(auth.HeaderAPIKey, token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestImportOrderCreated(t *testing.T) {
	store := &stubStore{}
	e := newServer(t, store)

	rec := doImport(e, `{"order_number":"API001","total_price":"500.00"}`, testToken)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp successEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Order created successfully", resp.Message)
	assert.Equal(t, "API001", resp.Data.OrderNumber)
	assert.Equal(t, "500.00", resp.Data.TotalPrice.StringFixed(2))
	assert.Equal(t, resp.Data.CreatedTime, resp.Data.UpdatedTime)

	// deleted_time must be present and null for a fresh order.
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	var data map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["data"], &data))
	deleted, ok := data["deleted_time"]
	require.True(t, ok)
	assert.Equal(t, "null", string(deleted))
}

func TestImportOrderDuplicateReturns400(t *testing.T) {
	store := &stubStore{}
	e := newServer(t, store)

	first := doImport(e, `{"order_number":"API001","total_price":"500.00"}`, testToken)
	require.Equal(t, http.StatusCreated, first.Code)

	second := doImport(e, `{"order_number":"API001","total_price":"500.00"}`, testToken)
	require.Equal(t, http.StatusBadRequest, second.Code)

	var resp errorEnvelope
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "API001")
	assert.Len(t, store.inserted, 1)
}

func TestImportOrderValidationFailureReturns400(t *testing.T) {
	store := &stubStore{}
	e := newServer(t, store)

	rec := doImport(e, `{"order_number":"API004","total_price":"-100.00"}`, testToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "total_price must be positive", resp.Details["total_price"])
	assert.Empty(t, store.inserted)
}

func TestImportOrderMissingFieldsReturns400(t *testing.T) {
	store := &stubStore{}
	e := newServer(t, store)

	rec := doImport(e, `{"total_price":"100.00"}`, testToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Details, "order_number")
	assert.Empty(t, store.inserted)
}

func TestImportOrderMalformedBodyReturns400(t *testing.T) {
	store := &stubStore{}
	e := newServer(t, store)

	rec := doImport(e, `{"order_number":`, testToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.inserted)
}

func TestImportOrderWrongTokenReturns401(t *testing.T) {
	store := &stubStore{}
	e := newServer(t, store)

	rec := doImport(e, `{"order_number":"API003","total_price":"100.00"}`, "wrong_token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unauthorized", resp.Error)
	assert.Empty(t, store.inserted)
}

func TestImportOrderMissingTokenReturns401(t *testing.T) {
	store := &stubStore{}
	e := newServer(t, store)

	rec := doImport(e, `{"order_number":"API003","total_price":"100.00"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, store.inserted)
}

func TestImportOrderStoreFailureReturns500(t *testing.T) {
	store := &stubStore{insertErr: errors.New("store unreachable")}
	e := newServer(t, store)

	rec := doImport(e, `{"order_number":"API005","total_price":"10.00"}`, testToken)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Internal server error", resp.Error)
	assert.NotContains(t, rec.Body.String(), "unreachable")
}
