// Package dto holds the wire representation of the product API. The json
// names are the public contract and intentionally differ from the internal
// field names (productId vs id, itemWeightGrams vs weightGrams, ...).
package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductDetails struct {
	Manufacturer *string         `json:"manufacturerName,omitempty" field:"manufacturer"`
	WeightGrams  decimal.Decimal `json:"itemWeightGrams"            field:"weightGrams"  validate:"required,gte=0.01"`
}

type Product struct {
	ID              int64           `json:"productId,omitempty"`
	Name            string          `json:"productName"                  field:"name"            validate:"required,notblank,max=100"`
	Description     *string         `json:"productDescription,omitempty" field:"description"`
	Price           decimal.Decimal `json:"price"                        field:"price"           validate:"required,gte=0.01"`
	Sku             string          `json:"sku"                          field:"sku"             validate:"required,notblank,max=50"`
	QuantityInStock *int32          `json:"quantityInStock,omitempty"    field:"quantityInStock" validate:"omitempty,gte=0"`
	Status          string          `json:"status"                       field:"status"          validate:"required,oneof=AVAILABLE OUT_OF_STOCK DISCONTINUED"`
	CreatedAt       *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time      `json:"updatedAt,omitempty"`
	CreatedBy       string          `json:"createdBy,omitempty"`
	UpdatedBy       string          `json:"updatedBy,omitempty"`
	Version         *int32          `json:"version,omitempty"`
	Details         *ProductDetails `json:"details"                      field:"details"         validate:"required"`
}
