// Package validate wires go-playground/validator for the product wire DTOs
// and turns constraint violations into the aggregated field→message map the
// error envelope carries.
package validate

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/pratama/commerce/internal/apperrors"
	"github.com/pratama/commerce/product/pkg/dto"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func New() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if name := fld.Tag.Get("field"); name != "" {
				return name
			}
			return fld.Name
		})
		validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		if err := validate.RegisterValidation("notblank", notBlank); err != nil {
			panic(err)
		}
	})
	return validate
}

// ProductDto checks every declared constraint and reports all failures at
// once as an apperrors.ValidationError.
func ProductDto(c context.Context, product dto.Product) error {
	err := New().StructCtx(c, product)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.BadRequest("invalid request body: %s", err.Error())
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		key := fieldKey(fieldErr.Namespace())
		fields[key] = messageFor(key, fieldErr.Tag())
	}
	return &apperrors.ValidationError{Fields: fields}
}

// fieldKey strips the root struct segment: "Product.details.weightGrams"
// becomes "details.weightGrams".
func fieldKey(namespace string) string {
	if _, rest, found := strings.Cut(namespace, "."); found {
		return rest
	}
	return namespace
}

var messages = map[string]string{
	"name.required":                "Product name is required",
	"name.notblank":                "Product name is required",
	"name.max":                     "Product name cannot exceed 100 characters",
	"price.required":               "Price is required",
	"price.gte":                    "Price must be greater than zero",
	"sku.required":                 "SKU is required",
	"sku.notblank":                 "SKU is required",
	"sku.max":                      "SKU cannot exceed 50 characters",
	"status.required":              "Product status is required",
	"status.oneof":                 "Product status must be one of AVAILABLE, OUT_OF_STOCK or DISCONTINUED",
	"details.required":             "Product details are required",
	"details.weightGrams.required": "Weight in grams is necessary",
	"details.weightGrams.gte":      "Weight in grams must be greater than zero",
	"quantityInStock.gte":          "Quantity in stock cannot be negative",
}

func messageFor(key, tag string) string {
	if message, ok := messages[key+"."+tag]; ok {
		return message
	}
	return "invalid value"
}

func decimalValue(field reflect.Value) interface{} {
	value, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	f, _ := value.Float64()
	return f
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
