package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pratama/commerce/internal/apperrors"
	"github.com/pratama/commerce/internal/identity"
	"github.com/pratama/commerce/internal/log"
	inOtel "github.com/pratama/commerce/internal/otel"
	"github.com/pratama/commerce/product/internal/otel"
	"github.com/pratama/commerce/product/internal/repository"
	"github.com/pratama/commerce/product/pkg/dto"
)

// ProductService orchestrates the product use-cases. It is stateless; all
// mutable state lives in the store.
type ProductService struct {
	repo     repository.ProductRepository
	identity identity.Provider
}

func NewProductService(
	repo repository.ProductRepository,
	identity identity.Provider,
) ProductService {
	return ProductService{repo: repo, identity: identity}
}

func (svc ProductService) GetProducts(c context.Context) ([]dto.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService GetProducts")
	defer span.End()

	products, err := svc.repo.FindProducts(c)
	if err != nil {
		err = fmt.Errorf("failed finding products with error=%w", err)
		inOtel.RecordError(err, span)
		return nil, err
	}
	return productDtos(products), nil
}

func (svc ProductService) GetProductByID(c context.Context, id int64) (dto.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService GetProductByID")
	defer span.End()

	product, err := svc.repo.FindProductByID(c, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return dto.Product{}, apperrors.NotFound("Product not found with id: %d", id)
	}
	if err != nil {
		err = fmt.Errorf("failed finding product with id=%d with error=%w", id, err)
		inOtel.RecordError(err, span)
		return dto.Product{}, err
	}
	return product.Dto(), nil
}

func (svc ProductService) CreateProduct(c context.Context, param dto.Product) (dto.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService CreateProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(log.KeyTag, "ProductService CreateProduct").
		Logger()

	entity := repository.EntityFromDto(param)
	user := svc.identity.CurrentUser(c)
	entity.CreatedBy = user
	entity.UpdatedBy = user

	inserted, err := svc.repo.InsertProduct(c, entity)
	if errors.Is(err, repository.ErrDuplicateSku) {
		return dto.Product{}, apperrors.Conflict("Product with sku '%s' already exists", param.Sku)
	}
	if err != nil {
		err = fmt.Errorf("failed inserting product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return dto.Product{}, err
	}

	logger.Info().Int64(log.KeyProductID, inserted.ID).Msg("inserted product")
	return inserted.Dto(), nil
}

// UpdateProduct loads the row inside one transaction, overlays the
// client-settable fields and saves with the loaded version as the optimistic
// lock predicate.
func (svc ProductService) UpdateProduct(
	c context.Context,
	id int64,
	param dto.Product,
) (dto.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService UpdateProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(log.KeyTag, "ProductService UpdateProduct").
		Int64(log.KeyProductID, id).
		Logger()

	var updated repository.Product
	err := svc.repo.InTx(c, func(r repository.ProductRepository) error {
		existing, err := r.FindProductByID(c, id)
		if errors.Is(err, repository.ErrProductNotFound) {
			return apperrors.NotFound("Product not found with id: %d", id)
		}
		if err != nil {
			return fmt.Errorf("failed finding product with id=%d with error=%w", id, err)
		}

		existing.ApplyDto(param)
		existing.UpdatedBy = svc.identity.CurrentUser(c)

		updated, err = r.UpdateProduct(c, existing)
		if errors.Is(err, repository.ErrVersionConflict) {
			return apperrors.Conflict("Product with id %d was modified concurrently", id)
		}
		if errors.Is(err, repository.ErrDuplicateSku) {
			return apperrors.Conflict("Product with sku '%s' already exists", param.Sku)
		}
		if err != nil {
			return fmt.Errorf("failed updating product with id=%d with error=%w", id, err)
		}
		return nil
	})
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return dto.Product{}, err
	}

	logger.Info().Msg("updated product")
	return updated.Dto(), nil
}

func (svc ProductService) DeleteProduct(c context.Context, id int64) error {
	c, span := otel.Tracer.Start(c, "ProductService DeleteProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(log.KeyTag, "ProductService DeleteProduct").
		Int64(log.KeyProductID, id).
		Logger()

	err := svc.repo.InTx(c, func(r repository.ProductRepository) error {
		exists, err := r.ExistsByID(c, id)
		if err != nil {
			return fmt.Errorf("failed checking product existence with id=%d with error=%w", id, err)
		}
		if !exists {
			return apperrors.NotFound("Product not found with id: %d", id)
		}
		if err := r.DeleteProduct(c, id); err != nil {
			return fmt.Errorf("failed deleting product with id=%d with error=%w", id, err)
		}
		return nil
	})
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger.Info().Msg("deleted product")
	return nil
}

func (svc ProductService) GetProductsPaginated(
	c context.Context,
	req repository.PageRequest,
) (dto.Page, error) {
	c, span := otel.Tracer.Start(c, "ProductService GetProductsPaginated")
	defer span.End()

	result, err := svc.repo.FindProductsPaginated(c, req)
	if err != nil {
		err = fmt.Errorf("failed finding paginated products with error=%w", err)
		inOtel.RecordError(err, span)
		return dto.Page{}, err
	}
	return pageDto(result), nil
}

func (svc ProductService) SearchProductsByName(
	c context.Context,
	keyword string,
) ([]dto.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService SearchProductsByName")
	defer span.End()

	products, err := svc.repo.FindProductsByName(c, keyword)
	if err != nil {
		err = fmt.Errorf("failed searching products with keyword=%s with error=%w", keyword, err)
		inOtel.RecordError(err, span)
		return nil, err
	}
	return productDtos(products), nil
}

func (svc ProductService) GetProductsByStatus(
	c context.Context,
	status string,
) ([]dto.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService GetProductsByStatus")
	defer span.End()

	parsed, err := repository.ParseProductStatus(strings.ToUpper(strings.TrimSpace(status)))
	if err != nil {
		return nil, apperrors.BadRequest("'%s' is not a valid product status", status)
	}

	products, err := svc.repo.FindProductsByStatus(c, parsed)
	if err != nil {
		err = fmt.Errorf("failed finding products with status=%s with error=%w", parsed, err)
		inOtel.RecordError(err, span)
		return nil, err
	}
	return productDtos(products), nil
}

func (svc ProductService) GetProductsByPriceRange(
	c context.Context,
	minPrice, maxPrice decimal.Decimal,
) ([]dto.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService GetProductsByPriceRange")
	defer span.End()

	if minPrice.IsNegative() || maxPrice.IsNegative() {
		return nil, apperrors.BadRequest(
			"price bounds must not be negative, got minPrice=%s maxPrice=%s",
			minPrice, maxPrice,
		)
	}
	// An inverted range is an empty result, not an error.
	if minPrice.GreaterThan(maxPrice) {
		return []dto.Product{}, nil
	}

	products, err := svc.repo.FindProductsByPriceBetween(c, minPrice, maxPrice)
	if err != nil {
		err = fmt.Errorf("failed finding products in price range with error=%w", err)
		inOtel.RecordError(err, span)
		return nil, err
	}
	return productDtos(products), nil
}

func productDtos(products []repository.Product) []dto.Product {
	dtos := make([]dto.Product, 0, len(products))
	for _, product := range products {
		dtos = append(dtos, product.Dto())
	}
	return dtos
}

func pageDto(result repository.PageResult) dto.Page {
	totalPages := 0
	if result.Size > 0 {
		totalPages = int((result.TotalElements + int64(result.Size) - 1) / int64(result.Size))
	}
	return dto.Page{
		Content:          productDtos(result.Items),
		TotalElements:    result.TotalElements,
		TotalPages:       totalPages,
		Number:           result.Page,
		Size:             result.Size,
		NumberOfElements: len(result.Items),
		First:            result.Page == 0,
		Last:             result.Page >= totalPages-1,
		Empty:            len(result.Items) == 0,
	}
}
