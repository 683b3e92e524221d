package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func setupQueries(t *testing.T) *Queries {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	c := context.Background()
	pgContainer, err := postgres.Run(
		c,
		"postgres:16.6-alpine3.21",
		testcontainers.WithEnv(map[string]string{
			"POSTGRES_DB":       "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_USER":     "postgres",
		}),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.WithDatabase("postgres"),
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			filepath.Join("..", "..", "..", "db", "migrations", "000001_create_table_products.up.sql"),
		),
	)
	if err != nil {
		t.Fatalf("failed running postgres container with error: %s", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed terminating postgres container with error: %s", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(c, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed getting postgres connection string with error: %s", err)
	}

	pool, err := pgxpool.New(c, connStr)
	if err != nil {
		t.Fatalf("failed creating postgres pool with error: %s", err)
	}
	t.Cleanup(pool.Close)

	if err := pool.Ping(c); err != nil {
		t.Fatalf("failed pinging postgres pool with error: %s", err)
	}
	return New(pool)
}

func seedProduct(name, sku, price string) Product {
	quantity := int32(10)
	return Product{
		Name:            name,
		Price:           decimal.RequireFromString(price),
		Sku:             sku,
		QuantityInStock: &quantity,
		Status:          StatusAvailable,
		WeightGrams:     decimal.RequireFromString("250.50"),
		CreatedBy:       "system",
		UpdatedBy:       "system",
	}
}

func TestQueriesCrud(t *testing.T) {
	queries := setupQueries(t)
	c := context.Background()

	inserted, err := queries.InsertProduct(c, seedProduct("Laptop", "SKU-1", "999.99"))
	require.NoError(t, err)
	assert.NotZero(t, inserted.ID)
	assert.Equal(t, int32(0), inserted.Version)
	assert.True(t, decimal.RequireFromString("999.99").Equal(inserted.Price))
	assert.True(t, decimal.RequireFromString("250.50").Equal(inserted.WeightGrams))
	assert.False(t, inserted.CreatedAt.IsZero())

	found, err := queries.FindProductByID(c, inserted.ID)
	require.NoError(t, err)
	assert.Equal(t, inserted.ID, found.ID)
	assert.Equal(t, "Laptop", found.Name)

	_, err = queries.FindProductByID(c, inserted.ID+1000)
	assert.ErrorIs(t, err, ErrProductNotFound)

	exists, err := queries.ExistsByID(c, inserted.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, queries.DeleteProduct(c, inserted.ID))
	assert.ErrorIs(t, queries.DeleteProduct(c, inserted.ID), ErrProductNotFound)
}

func TestQueriesDuplicateSku(t *testing.T) {
	queries := setupQueries(t)
	c := context.Background()

	_, err := queries.InsertProduct(c, seedProduct("Laptop", "SKU-1", "999.99"))
	require.NoError(t, err)

	_, err = queries.InsertProduct(c, seedProduct("Other", "SKU-1", "1.00"))
	assert.ErrorIs(t, err, ErrDuplicateSku)
}

func TestQueriesOptimisticLock(t *testing.T) {
	queries := setupQueries(t)
	c := context.Background()

	inserted, err := queries.InsertProduct(c, seedProduct("Laptop", "SKU-1", "999.99"))
	require.NoError(t, err)

	inserted.Name = "Laptop Pro"
	updated, err := queries.UpdateProduct(c, inserted)
	require.NoError(t, err)
	assert.Equal(t, int32(1), updated.Version)
	assert.Equal(t, "Laptop Pro", updated.Name)

	// Stale version token loses the race.
	inserted.Name = "Laptop Max"
	_, err = queries.UpdateProduct(c, inserted)
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestQueriesSearchAndFilters(t *testing.T) {
	queries := setupQueries(t)
	c := context.Background()

	_, err := queries.InsertProduct(c, seedProduct("Gaming Laptop", "SKU-1", "999.99"))
	require.NoError(t, err)
	_, err = queries.InsertProduct(c, seedProduct("Mouse", "SKU-2", "19.99"))
	require.NoError(t, err)
	discontinued := seedProduct("Old Phone", "SKU-3", "49.99")
	discontinued.Status = StatusDiscontinued
	_, err = queries.InsertProduct(c, discontinued)
	require.NoError(t, err)

	byName, err := queries.FindProductsByName(c, "laptop")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Gaming Laptop", byName[0].Name)

	byStatus, err := queries.FindProductsByStatus(c, StatusDiscontinued)
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "Old Phone", byStatus[0].Name)

	byPrice, err := queries.FindProductsByPriceBetween(
		c,
		decimal.RequireFromString("19.99"),
		decimal.RequireFromString("49.99"),
	)
	require.NoError(t, err)
	require.Len(t, byPrice, 2)
	assert.Equal(t, "Mouse", byPrice[0].Name)
	assert.Equal(t, "Old Phone", byPrice[1].Name)
}

func TestQueriesPagination(t *testing.T) {
	queries := setupQueries(t)
	c := context.Background()

	prices := []string{"10.00", "50.00", "30.00", "20.00", "40.00"}
	for i, price := range prices {
		product := seedProduct("Product", "SKU-"+string(rune('A'+i)), price)
		_, err := queries.InsertProduct(c, product)
		require.NoError(t, err)
	}

	result, err := queries.FindProductsPaginated(c, PageRequest{
		Page: 0,
		Size: 2,
		Sort: []SortOrder{{Column: "price", Descending: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.TotalElements)
	require.Len(t, result.Items, 2)
	assert.True(t, decimal.RequireFromString("50.00").Equal(result.Items[0].Price))
	assert.True(t, decimal.RequireFromString("40.00").Equal(result.Items[1].Price))

	result, err = queries.FindProductsPaginated(c, PageRequest{Page: 2, Size: 2})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)

	result, err = queries.FindProductsPaginated(c, PageRequest{Page: 9, Size: 2})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Equal(t, int64(5), result.TotalElements)
}

func TestQueriesInTx(t *testing.T) {
	queries := setupQueries(t)
	c := context.Background()

	err := queries.InTx(c, func(r ProductRepository) error {
		_, err := r.InsertProduct(c, seedProduct("Laptop", "SKU-1", "999.99"))
		return err
	})
	require.NoError(t, err)

	products, err := queries.FindProducts(c)
	require.NoError(t, err)
	require.Len(t, products, 1)

	// A failing callback rolls the whole transaction back.
	err = queries.InTx(c, func(r ProductRepository) error {
		if _, err := r.InsertProduct(c, seedProduct("Mouse", "SKU-2", "19.99")); err != nil {
			return err
		}
		_, err := r.InsertProduct(c, seedProduct("Copy", "SKU-1", "1.00"))
		return err
	})
	assert.ErrorIs(t, err, ErrDuplicateSku)

	products, err = queries.FindProducts(c)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}
