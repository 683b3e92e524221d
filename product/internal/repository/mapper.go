package repository

import (
	"github.com/pratama/commerce/product/pkg/dto"
)

// Dto copies every field, audit columns and version included.
func (p Product) Dto() dto.Product {
	createdAt := p.CreatedAt
	updatedAt := p.UpdatedAt
	version := p.Version
	return dto.Product{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		Sku:             p.Sku,
		QuantityInStock: p.QuantityInStock,
		Status:          string(p.Status),
		CreatedAt:       &createdAt,
		UpdatedAt:       &updatedAt,
		CreatedBy:       p.CreatedBy,
		UpdatedBy:       p.UpdatedBy,
		Version:         &version,
		Details: &dto.ProductDetails{
			Manufacturer: p.Manufacturer,
			WeightGrams:  p.WeightGrams,
		},
	}
}

// EntityFromDto builds a fresh entity for insertion. Id, audit columns and
// version are assigned by the store and ignored here.
func EntityFromDto(d dto.Product) Product {
	product := Product{
		Name:            d.Name,
		Description:     d.Description,
		Price:           d.Price,
		Sku:             d.Sku,
		QuantityInStock: d.QuantityInStock,
		Status:          ProductStatus(d.Status),
	}
	if d.Details != nil {
		product.Manufacturer = d.Details.Manufacturer
		product.WeightGrams = d.Details.WeightGrams
	}
	return product
}

// ApplyDto overlays the client-settable fields onto an existing entity. ID,
// createdAt, createdBy and the version token used for the optimistic check
// are preserved.
func (p *Product) ApplyDto(d dto.Product) {
	p.Name = d.Name
	p.Description = d.Description
	p.Price = d.Price
	p.Sku = d.Sku
	p.QuantityInStock = d.QuantityInStock
	p.Status = ProductStatus(d.Status)
	if d.Details != nil {
		p.Manufacturer = d.Details.Manufacturer
		p.WeightGrams = d.Details.WeightGrams
	}
}
