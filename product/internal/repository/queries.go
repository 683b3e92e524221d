package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const pgUniqueViolation = "23505"

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const productColumns = `id, name, description, price, sku, quantity_in_stock, status,
	manufacturer, weight_grams, created_at, updated_at, created_by, updated_by, version`

// Queries is the pgx-backed ProductRepository.
type Queries struct {
	db   DBTX
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Queries {
	return &Queries{db: pool, pool: pool}
}

func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx, pool: q.pool}
}

func (q *Queries) InTx(c context.Context, fn func(r ProductRepository) error) error {
	tx, err := q.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed beginning transaction with error=%w", err)
	}
	defer tx.Rollback(c)

	if err := fn(q.WithTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(c); err != nil {
		return fmt.Errorf("failed committing transaction with error=%w", err)
	}
	return nil
}

func (q *Queries) FindProducts(c context.Context) ([]Product, error) {
	rows, err := q.db.Query(c,
		fmt.Sprintf(`SELECT %s FROM products ORDER BY id`, productColumns),
	)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (q *Queries) FindProductByID(c context.Context, id int64) (Product, error) {
	row := q.db.QueryRow(c,
		fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns),
		id,
	)
	product, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	return product, err
}

func (q *Queries) ExistsByID(c context.Context, id int64) (bool, error) {
	var exists bool
	err := q.db.QueryRow(c, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).
		Scan(&exists)
	return exists, err
}

func (q *Queries) InsertProduct(c context.Context, product Product) (Product, error) {
	row := q.db.QueryRow(c,
		fmt.Sprintf(`INSERT INTO products
			(name, description, price, sku, quantity_in_stock, status,
			 manufacturer, weight_grams, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s`, productColumns),
		product.Name,
		product.Description,
		numericFromDecimal(product.Price),
		product.Sku,
		product.QuantityInStock,
		product.Status,
		product.Manufacturer,
		numericFromDecimal(product.WeightGrams),
		product.CreatedBy,
		product.UpdatedBy,
	)
	inserted, err := scanProduct(row)
	if isUniqueViolation(err) {
		return Product{}, ErrDuplicateSku
	}
	return inserted, err
}

func (q *Queries) UpdateProduct(c context.Context, product Product) (Product, error) {
	row := q.db.QueryRow(c,
		fmt.Sprintf(`UPDATE products
		SET name = $1, description = $2, price = $3, sku = $4,
			quantity_in_stock = $5, status = $6, manufacturer = $7,
			weight_grams = $8, updated_by = $9, updated_at = now(),
			version = version + 1
		WHERE id = $10 AND version = $11
		RETURNING %s`, productColumns),
		product.Name,
		product.Description,
		numericFromDecimal(product.Price),
		product.Sku,
		product.QuantityInStock,
		product.Status,
		product.Manufacturer,
		numericFromDecimal(product.WeightGrams),
		product.UpdatedBy,
		product.ID,
		product.Version,
	)
	updated, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrVersionConflict
	}
	if isUniqueViolation(err) {
		return Product{}, ErrDuplicateSku
	}
	return updated, err
}

func (q *Queries) DeleteProduct(c context.Context, id int64) error {
	tag, err := q.db.Exec(c, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (q *Queries) FindProductsByName(c context.Context, keyword string) ([]Product, error) {
	rows, err := q.db.Query(c,
		fmt.Sprintf(`SELECT %s FROM products
		WHERE name ILIKE '%%' || $1 || '%%'
		ORDER BY id`, productColumns),
		keyword,
	)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (q *Queries) FindProductsByStatus(c context.Context, status ProductStatus) ([]Product, error) {
	rows, err := q.db.Query(c,
		fmt.Sprintf(`SELECT %s FROM products WHERE status = $1 ORDER BY id`, productColumns),
		status,
	)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (q *Queries) FindProductsByPriceBetween(
	c context.Context,
	minPrice, maxPrice decimal.Decimal,
) ([]Product, error) {
	rows, err := q.db.Query(c,
		fmt.Sprintf(`SELECT %s FROM products
		WHERE price BETWEEN $1 AND $2
		ORDER BY id`, productColumns),
		numericFromDecimal(minPrice),
		numericFromDecimal(maxPrice),
	)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (q *Queries) FindProductsPaginated(c context.Context, req PageRequest) (PageResult, error) {
	var total int64
	if err := q.db.QueryRow(c, `SELECT count(*) FROM products`).Scan(&total); err != nil {
		return PageResult{}, err
	}

	// req.Sort columns come from the controller whitelist.
	rows, err := q.db.Query(c,
		fmt.Sprintf(`SELECT %s FROM products ORDER BY %s LIMIT $1 OFFSET $2`,
			productColumns, req.orderByClause()),
		req.Size,
		req.Page*req.Size,
	)
	if err != nil {
		return PageResult{}, err
	}
	items, err := collectProducts(rows)
	if err != nil {
		return PageResult{}, err
	}
	return PageResult{
		Items:         items,
		TotalElements: total,
		Page:          req.Page,
		Size:          req.Size,
	}, nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var product Product
	var price, weight pgtype.Numeric
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&price,
		&product.Sku,
		&product.QuantityInStock,
		&product.Status,
		&product.Manufacturer,
		&weight,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.CreatedBy,
		&product.UpdatedBy,
		&product.Version,
	)
	if err != nil {
		return Product{}, err
	}
	product.Price = decimalFromNumeric(price)
	product.WeightGrams = decimalFromNumeric(weight)
	return product, nil
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()
	products := []Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func numericFromDecimal(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:              d.Coefficient(),
		Exp:              d.Exponent(),
		InfinityModifier: pgtype.Finite,
		NaN:              false,
		Valid:            true,
	}
}

func decimalFromNumeric(n pgtype.Numeric) decimal.Decimal {
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
