package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	StatusAvailable    ProductStatus = "AVAILABLE"
	StatusOutOfStock   ProductStatus = "OUT_OF_STOCK"
	StatusDiscontinued ProductStatus = "DISCONTINUED"
)

func ParseProductStatus(s string) (ProductStatus, error) {
	switch ProductStatus(s) {
	case StatusAvailable, StatusOutOfStock, StatusDiscontinued:
		return ProductStatus(s), nil
	}
	return "", fmt.Errorf("unknown product status %q", s)
}

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateSku    = errors.New("duplicate sku")
	ErrVersionConflict = errors.New("product version conflict")
)

// Product is the persistent entity backing the products table. Manufacturer
// and WeightGrams are the embedded details columns.
type Product struct {
	ID              int64
	Name            string
	Description     *string
	Price           decimal.Decimal
	Sku             string
	QuantityInStock *int32
	Status          ProductStatus
	Manufacturer    *string
	WeightGrams     decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CreatedBy       string
	UpdatedBy       string
	Version         int32
}

// ProductRepository is the typed query surface over the store. Inputs are
// trusted; validation happens at the HTTP boundary.
type ProductRepository interface {
	FindProducts(c context.Context) ([]Product, error)
	FindProductByID(c context.Context, id int64) (Product, error)
	ExistsByID(c context.Context, id int64) (bool, error)
	InsertProduct(c context.Context, product Product) (Product, error)
	// UpdateProduct persists product using product.Version as the optimistic
	// lock predicate and returns the row with the incremented version.
	UpdateProduct(c context.Context, product Product) (Product, error)
	DeleteProduct(c context.Context, id int64) error
	FindProductsByName(c context.Context, keyword string) ([]Product, error)
	FindProductsByStatus(c context.Context, status ProductStatus) ([]Product, error)
	FindProductsByPriceBetween(c context.Context, minPrice, maxPrice decimal.Decimal) ([]Product, error)
	FindProductsPaginated(c context.Context, req PageRequest) (PageResult, error)
	// InTx runs fn against a repository bound to a single transaction,
	// committing on nil and rolling back on error.
	InTx(c context.Context, fn func(r ProductRepository) error) error
}
