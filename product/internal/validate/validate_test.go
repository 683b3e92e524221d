package validate

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratama/commerce/internal/apperrors"
	"github.com/pratama/commerce/product/pkg/dto"
)

func validProduct() dto.Product {
	quantity := int32(5)
	return dto.Product{
		Name:            "Laptop",
		Price:           decimal.RequireFromString("999.99"),
		Sku:             "SKU-1",
		QuantityInStock: &quantity,
		Status:          "AVAILABLE",
		Details:         &dto.ProductDetails{WeightGrams: decimal.RequireFromString("1250.5")},
	}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	return validationErr.Fields
}

func TestValidProductPasses(t *testing.T) {
	require.NoError(t, ProductDto(context.Background(), validProduct()))
}

func TestMissingRequiredFields(t *testing.T) {
	product := dto.Product{}

	fields := fieldsOf(t, ProductDto(context.Background(), product))

	assert.Equal(t, "Product name is required", fields["name"])
	assert.Equal(t, "Price is required", fields["price"])
	assert.Equal(t, "SKU is required", fields["sku"])
	assert.Equal(t, "Product status is required", fields["status"])
	assert.Equal(t, "Product details are required", fields["details"])
}

func TestBlankNameRejected(t *testing.T) {
	product := validProduct()
	product.Name = "   "

	fields := fieldsOf(t, ProductDto(context.Background(), product))
	assert.Equal(t, "Product name is required", fields["name"])
}

func TestNameTooLong(t *testing.T) {
	product := validProduct()
	product.Name = strings.Repeat("a", 101)

	fields := fieldsOf(t, ProductDto(context.Background(), product))
	assert.Equal(t, "Product name cannot exceed 100 characters", fields["name"])
}

func TestSkuTooLong(t *testing.T) {
	product := validProduct()
	product.Sku = strings.Repeat("x", 51)

	fields := fieldsOf(t, ProductDto(context.Background(), product))
	assert.Equal(t, "SKU cannot exceed 50 characters", fields["sku"])
}

func TestNonPositivePrice(t *testing.T) {
	product := validProduct()
	product.Price = decimal.NewFromInt(-5)

	fields := fieldsOf(t, ProductDto(context.Background(), product))
	assert.Equal(t, "Price must be greater than zero", fields["price"])
}

func TestZeroPriceRejected(t *testing.T) {
	product := validProduct()
	product.Price = decimal.Zero

	fields := fieldsOf(t, ProductDto(context.Background(), product))
	assert.Equal(t, "Price is required", fields["price"])
}

func TestInvalidStatus(t *testing.T) {
	product := validProduct()
	product.Status = "BANANA"

	fields := fieldsOf(t, ProductDto(context.Background(), product))
	assert.Equal(
		t,
		"Product status must be one of AVAILABLE, OUT_OF_STOCK or DISCONTINUED",
		fields["status"],
	)
}

func TestNegativeQuantity(t *testing.T) {
	product := validProduct()
	quantity := int32(-1)
	product.QuantityInStock = &quantity

	fields := fieldsOf(t, ProductDto(context.Background(), product))
	assert.Equal(t, "Quantity in stock cannot be negative", fields["quantityInStock"])
}

func TestMissingWeight(t *testing.T) {
	product := validProduct()
	product.Details = &dto.ProductDetails{}

	fields := fieldsOf(t, ProductDto(context.Background(), product))
	assert.Equal(t, "Weight in grams is necessary", fields["details.weightGrams"])
}

func TestAllViolationsReportedAtOnce(t *testing.T) {
	product := validProduct()
	product.Name = ""
	product.Price = decimal.Zero
	product.Status = "BANANA"

	fields := fieldsOf(t, ProductDto(context.Background(), product))
	assert.Len(t, fields, 3)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "price")
	assert.Contains(t, fields, "status")
}
