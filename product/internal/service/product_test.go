package service

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratama/commerce/internal/apperrors"
	"github.com/pratama/commerce/internal/identity"
	"github.com/pratama/commerce/product/internal/repository"
	"github.com/pratama/commerce/product/pkg/dto"
)

// stubRepository is an in-memory ProductRepository so the service can be
// exercised without a database.
type stubRepository struct {
	products map[int64]repository.Product
	nextID   int64
}

func newStubRepository() *stubRepository {
	return &stubRepository{products: map[int64]repository.Product{}, nextID: 1}
}

func (s *stubRepository) sorted() []repository.Product {
	products := make([]repository.Product, 0, len(s.products))
	for _, product := range s.products {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products
}

func (s *stubRepository) FindProducts(context.Context) ([]repository.Product, error) {
	return s.sorted(), nil
}

func (s *stubRepository) FindProductByID(_ context.Context, id int64) (repository.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return repository.Product{}, repository.ErrProductNotFound
	}
	return product, nil
}

func (s *stubRepository) ExistsByID(_ context.Context, id int64) (bool, error) {
	_, ok := s.products[id]
	return ok, nil
}

func (s *stubRepository) InsertProduct(
	_ context.Context,
	product repository.Product,
) (repository.Product, error) {
	for _, existing := range s.products {
		if existing.Sku == product.Sku {
			return repository.Product{}, repository.ErrDuplicateSku
		}
	}
	product.ID = s.nextID
	s.nextID++
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	product.Version = 0
	s.products[product.ID] = product
	return product, nil
}

func (s *stubRepository) UpdateProduct(
	_ context.Context,
	product repository.Product,
) (repository.Product, error) {
	existing, ok := s.products[product.ID]
	if !ok || existing.Version != product.Version {
		return repository.Product{}, repository.ErrVersionConflict
	}
	for _, other := range s.products {
		if other.ID != product.ID && other.Sku == product.Sku {
			return repository.Product{}, repository.ErrDuplicateSku
		}
	}
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now()
	product.Version = existing.Version + 1
	s.products[product.ID] = product
	return product, nil
}

func (s *stubRepository) DeleteProduct(_ context.Context, id int64) error {
	if _, ok := s.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *stubRepository) FindProductsByName(
	_ context.Context,
	keyword string,
) ([]repository.Product, error) {
	matches := []repository.Product{}
	for _, product := range s.sorted() {
		if strings.Contains(strings.ToLower(product.Name), strings.ToLower(keyword)) {
			matches = append(matches, product)
		}
	}
	return matches, nil
}

func (s *stubRepository) FindProductsByStatus(
	_ context.Context,
	status repository.ProductStatus,
) ([]repository.Product, error) {
	matches := []repository.Product{}
	for _, product := range s.sorted() {
		if product.Status == status {
			matches = append(matches, product)
		}
	}
	return matches, nil
}

func (s *stubRepository) FindProductsByPriceBetween(
	_ context.Context,
	minPrice, maxPrice decimal.Decimal,
) ([]repository.Product, error) {
	matches := []repository.Product{}
	for _, product := range s.sorted() {
		if product.Price.GreaterThanOrEqual(minPrice) && product.Price.LessThanOrEqual(maxPrice) {
			matches = append(matches, product)
		}
	}
	return matches, nil
}

func (s *stubRepository) FindProductsPaginated(
	_ context.Context,
	req repository.PageRequest,
) (repository.PageResult, error) {
	all := s.sorted()
	result := repository.PageResult{
		TotalElements: int64(len(all)),
		Page:          req.Page,
		Size:          req.Size,
	}
	offset := req.Page * req.Size
	if offset >= len(all) {
		result.Items = []repository.Product{}
		return result, nil
	}
	end := offset + req.Size
	if end > len(all) {
		end = len(all)
	}
	result.Items = all[offset:end]
	return result, nil
}

func (s *stubRepository) InTx(
	c context.Context,
	fn func(r repository.ProductRepository) error,
) error {
	return fn(s)
}

func newTestService() (ProductService, *stubRepository) {
	repo := newStubRepository()
	return NewProductService(repo, identity.SystemProvider{}), repo
}

func productParam(name, sku string, price string) dto.Product {
	quantity := int32(10)
	return dto.Product{
		Name:            name,
		Price:           decimal.RequireFromString(price),
		Sku:             sku,
		QuantityInStock: &quantity,
		Status:          "AVAILABLE",
		Details:         &dto.ProductDetails{WeightGrams: decimal.RequireFromString("250.5")},
	}
}

func TestCreateProduct(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.CreateProduct(context.Background(), productParam("Laptop", "SKU-1", "999.99"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "system", created.CreatedBy)
	assert.Equal(t, "system", created.UpdatedBy)
	require.NotNil(t, created.Version)
	assert.Equal(t, int32(0), *created.Version)
	assert.NotNil(t, created.CreatedAt)
	assert.True(t, decimal.RequireFromString("999.99").Equal(created.Price))
}

func TestCreateProductDuplicateSku(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateProduct(context.Background(), productParam("Laptop", "SKU-1", "999.99"))
	require.NoError(t, err)

	_, err = svc.CreateProduct(context.Background(), productParam("Other Laptop", "SKU-1", "899.99"))
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
	assert.Equal(t, "Product with sku 'SKU-1' already exists", appErr.Message)
}

func TestGetProductByIDNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetProductByID(context.Background(), 42)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
	assert.Equal(t, "Product not found with id: 42", appErr.Message)
}

func TestUpdateProductIncrementsVersion(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.CreateProduct(context.Background(), productParam("Laptop", "SKU-1", "999.99"))
	require.NoError(t, err)

	update := productParam("Laptop Pro", "SKU-1", "1099.99")
	updated, err := svc.UpdateProduct(context.Background(), created.ID, update)
	require.NoError(t, err)
	require.NotNil(t, updated.Version)
	assert.Equal(t, int32(1), *updated.Version)
	assert.Equal(t, "Laptop Pro", updated.Name)

	updated, err = svc.UpdateProduct(context.Background(), created.ID, update)
	require.NoError(t, err)
	require.NotNil(t, updated.Version)
	assert.Equal(t, int32(2), *updated.Version)
}

func TestUpdateProductNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.UpdateProduct(context.Background(), 42, productParam("Laptop", "SKU-1", "999.99"))
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestUpdateProductDuplicateSku(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateProduct(context.Background(), productParam("Laptop", "SKU-1", "999.99"))
	require.NoError(t, err)
	second, err := svc.CreateProduct(context.Background(), productParam("Mouse", "SKU-2", "19.99"))
	require.NoError(t, err)

	_, err = svc.UpdateProduct(context.Background(), second.ID, productParam("Mouse", "SKU-1", "19.99"))
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
}

func TestDeleteProduct(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.CreateProduct(context.Background(), productParam("Laptop", "SKU-1", "999.99"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(context.Background(), created.ID))

	_, err = svc.GetProductByID(context.Background(), created.ID)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestDeleteProductNotFound(t *testing.T) {
	svc, _ := newTestService()

	err := svc.DeleteProduct(context.Background(), 42)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
	assert.Equal(t, "Product not found with id: 42", appErr.Message)
}

func TestGetProductsByStatus(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateProduct(context.Background(), productParam("Laptop", "SKU-1", "999.99"))
	require.NoError(t, err)
	discontinued := productParam("Old Phone", "SKU-2", "99.99")
	discontinued.Status = "DISCONTINUED"
	_, err = svc.CreateProduct(context.Background(), discontinued)
	require.NoError(t, err)

	products, err := svc.GetProductsByStatus(context.Background(), "discontinued")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Old Phone", products[0].Name)
}

func TestGetProductsByStatusInvalid(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetProductsByStatus(context.Background(), "BANANA")
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeBadRequest, appErr.Code)
	assert.Equal(t, "'BANANA' is not a valid product status", appErr.Message)
}

func TestGetProductsByPriceRange(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateProduct(context.Background(), productParam("Mouse", "SKU-1", "19.99"))
	require.NoError(t, err)
	_, err = svc.CreateProduct(context.Background(), productParam("Keyboard", "SKU-2", "49.99"))
	require.NoError(t, err)
	_, err = svc.CreateProduct(context.Background(), productParam("Laptop", "SKU-3", "999.99"))
	require.NoError(t, err)

	products, err := svc.GetProductsByPriceRange(
		context.Background(),
		decimal.RequireFromString("19.99"),
		decimal.RequireFromString("49.99"),
	)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Mouse", products[0].Name)
	assert.Equal(t, "Keyboard", products[1].Name)
}

func TestGetProductsByPriceRangeNegativeBound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetProductsByPriceRange(
		context.Background(),
		decimal.RequireFromString("-1"),
		decimal.RequireFromString("10"),
	)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeBadRequest, appErr.Code)
}

func TestGetProductsByPriceRangeInverted(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateProduct(context.Background(), productParam("Mouse", "SKU-1", "19.99"))
	require.NoError(t, err)

	products, err := svc.GetProductsByPriceRange(
		context.Background(),
		decimal.RequireFromString("100"),
		decimal.RequireFromString("10"),
	)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestSearchProductsByName(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateProduct(context.Background(), productParam("Gaming Laptop", "SKU-1", "999.99"))
	require.NoError(t, err)
	_, err = svc.CreateProduct(context.Background(), productParam("Mouse", "SKU-2", "19.99"))
	require.NoError(t, err)

	products, err := svc.SearchProductsByName(context.Background(), "laptop")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Gaming Laptop", products[0].Name)
}

func TestGetProductsPaginated(t *testing.T) {
	svc, _ := newTestService()

	for _, sku := range []string{"SKU-1", "SKU-2", "SKU-3", "SKU-4", "SKU-5"} {
		_, err := svc.CreateProduct(context.Background(), productParam("Product "+sku, sku, "10.00"))
		require.NoError(t, err)
	}

	page, err := svc.GetProductsPaginated(context.Background(), repository.PageRequest{Page: 1, Size: 2})
	require.NoError(t, err)

	assert.Equal(t, int64(5), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 2, page.Size)
	assert.Equal(t, 2, page.NumberOfElements)
	assert.False(t, page.First)
	assert.False(t, page.Last)
	assert.False(t, page.Empty)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "Product SKU-3", page.Content[0].Name)
}

func TestGetProductsPaginatedLastPage(t *testing.T) {
	svc, _ := newTestService()

	for _, sku := range []string{"SKU-1", "SKU-2", "SKU-3"} {
		_, err := svc.CreateProduct(context.Background(), productParam("Product "+sku, sku, "10.00"))
		require.NoError(t, err)
	}

	page, err := svc.GetProductsPaginated(context.Background(), repository.PageRequest{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.True(t, page.Last)
	assert.False(t, page.First)
	assert.Equal(t, 1, page.NumberOfElements)
}

func TestGetProductsPaginatedEmpty(t *testing.T) {
	svc, _ := newTestService()

	page, err := svc.GetProductsPaginated(context.Background(), repository.PageRequest{Page: 0, Size: 20})
	require.NoError(t, err)
	assert.True(t, page.Empty)
	assert.True(t, page.First)
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, int64(0), page.TotalElements)
}
