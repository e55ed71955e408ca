package validation

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakworks/orderhub/internal/dto"
	"github.com/oakworks/orderhub/pkg/errorbank"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New()
	require.NoError(t, err)
	return v
}

func details(t *testing.T, err error) map[string]any {
	t.Helper()
	require.Error(t, err)
	appErr := errorbank.From(err)
	require.Equal(t, errorbank.KindBadRequest, appErr.Kind())
	return appErr.Details()
}

func TestImportOrderValid(t *testing.T) {
	v := newValidator(t)

	cmd, err := v.ImportOrder(dto.ImportOrderRequest{OrderNumber: "API001", TotalPrice: "500.00"})
	require.NoError(t, err)
	assert.Equal(t, "API001", cmd.OrderNumber)
	assert.True(t, cmd.TotalPrice.Equal(decimal.RequireFromString("500.00")))
}

func TestImportOrderZeroPriceAllowed(t *testing.T) {
	v := newValidator(t)

	cmd, err := v.ImportOrder(dto.ImportOrderRequest{OrderNumber: "ZERO", TotalPrice: "0"})
	require.NoError(t, err)
	assert.True(t, cmd.TotalPrice.IsZero())
}

func TestImportOrderTrimsOrderNumber(t *testing.T) {
	v := newValidator(t)

	cmd, err := v.ImportOrder(dto.ImportOrderRequest{OrderNumber: "  A-1  ", TotalPrice: "1.00"})
	require.NoError(t, err)
	assert.Equal(t, "A-1", cmd.OrderNumber)
}

func TestImportOrderCollectsAllFieldErrors(t *testing.T) {
	v := newValidator(t)

	_, err := v.ImportOrder(dto.ImportOrderRequest{})
	d := details(t, err)
	assert.Equal(t, "order_number is required", d["order_number"])
	assert.Equal(t, "total_price is required", d["total_price"])
}

func TestImportOrderBlankNumberRejected(t *testing.T) {
	v := newValidator(t)

	_, err := v.ImportOrder(dto.ImportOrderRequest{OrderNumber: "   ", TotalPrice: "1.00"})
	d := details(t, err)
	assert.Contains(t, d, "order_number")
	assert.NotContains(t, d, "total_price")
}

func TestImportOrderNumberTooLong(t *testing.T) {
	v := newValidator(t)

	_, err := v.ImportOrder(dto.ImportOrderRequest{OrderNumber: strings.Repeat("A", 101), TotalPrice: "1.00"})
	d := details(t, err)
	assert.Equal(t, "order_number cannot exceed 100 characters", d["order_number"])
}

func TestImportOrderNumberMaxLengthAccepted(t *testing.T) {
	v := newValidator(t)

	_, err := v.ImportOrder(dto.ImportOrderRequest{OrderNumber: strings.Repeat("A", 100), TotalPrice: "1.00"})
	assert.NoError(t, err)
}

func TestImportOrderPriceRules(t *testing.T) {
	cases := []struct {
		name    string
		price   string
		wantMsg string
	}{
		{"unparseable", "abc", "total_price must be a valid number"},
		{"negative", "-100.00", "total_price must be positive"},
		{"too many decimal places", "1.234", "total_price must be a valid number"},
		{"too many integer digits", "123456789.00", "total_price must be a valid number"},
	}

	v := newValidator(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.ImportOrder(dto.ImportOrderRequest{OrderNumber: "N1", TotalPrice: tc.price})
			d := details(t, err)
			assert.Equal(t, tc.wantMsg, d["total_price"])
		})
	}
}

func TestImportOrderPriceBoundary(t *testing.T) {
	v := newValidator(t)

	cmd, err := v.ImportOrder(dto.ImportOrderRequest{OrderNumber: "MAX", TotalPrice: "99999999.99"})
	require.NoError(t, err)
	assert.Equal(t, "99999999.99", cmd.TotalPrice.StringFixed(2))
}
