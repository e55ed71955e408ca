package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"

	"github.com/oakworks/orderhub/internal/dto"
	"github.com/oakworks/orderhub/pkg/errorbank"
)

// Module provides the request validator to Fx.
var Module = fx.Provide(New)

const (
	maxPriceDigits     = 10
	priceDecimalPlaces = 2
)

// Validator performs structural validation of import requests. It is a pure
// checker: no store access, no side effects. Business rules such as
// duplicate detection live in the importer.
type Validator struct {
	validate *validator.Validate
}

type importOrderInput struct {
	OrderNumber string `json:"order_number" validate:"required,max=100"`
	TotalPrice  string `json:"total_price" validate:"required,decimal,nonnegative"`
}

// New builds a Validator with the custom price rules registered.
func New() (*Validator, error) {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("decimal", decimalRule); err != nil {
		return nil, err
	}
	if err := v.RegisterValidation("nonnegative", nonNegativeRule); err != nil {
		return nil, err
	}
	return &Validator{validate: v}, nil
}

// ImportOrder checks an import request and returns the normalized command.
// Every failing field is reported in the error's details, so one response
// names all problems at once.
func (v *Validator) ImportOrder(req dto.ImportOrderRequest) (dto.ImportOrder, error) {
	input := importOrderInput{
		OrderNumber: strings.TrimSpace(req.OrderNumber),
		TotalPrice:  strings.TrimSpace(req.TotalPrice),
	}

	if err := v.validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return dto.ImportOrder{}, errorbank.Internal("validation failed", errorbank.WithCause(err))
		}
		details := make(map[string]any, len(fieldErrs))
		for _, fe := range fieldErrs {
			if _, seen := details[fe.Field()]; !seen {
				details[fe.Field()] = message(fe)
			}
		}
		return dto.ImportOrder{}, errorbank.BadRequest("invalid request parameters", errorbank.WithDetails(details))
	}

	price, err := decimal.NewFromString(input.TotalPrice)
	if err != nil {
		return dto.ImportOrder{}, errorbank.BadRequest("invalid request parameters",
			errorbank.WithDetail("total_price", "total_price must be a valid number"))
	}

	return dto.ImportOrder{OrderNumber: input.OrderNumber, TotalPrice: price}, nil
}

// decimalRule accepts values parseable as a decimal with at most two
// decimal places and eight integer digits (numeric(10,2)).
func decimalRule(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	if d.Exponent() < -priceDecimalPlaces {
		return false
	}
	return d.Abs().LessThan(decimal.New(1, maxPriceDigits-priceDecimalPlaces))
}

// nonNegativeRule rejects negative prices. Unparseable input passes here;
// the decimal rule already covers it.
func nonNegativeRule(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return true
	}
	return !d.IsNegative()
}

func message(fe validator.FieldError) string {
	switch fe.Field() + "." + fe.Tag() {
	case "order_number.required":
		return "order_number is required"
	case "order_number.max":
		return "order_number cannot exceed 100 characters"
	case "total_price.required":
		return "total_price is required"
	case "total_price.decimal":
		return "total_price must be a valid number"
	case "total_price.nonnegative":
		return "total_price must be positive"
	}
	return fe.Field() + " is invalid"
}
