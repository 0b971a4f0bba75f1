package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/truckparts/backend/internal/domain"
	"github.com/truckparts/backend/internal/usecase"
)

const productColumns = `id, name, description, sku, price, brand_id, category_id, clover_item_id, qb_item_id, active, created_at, updated_at`

// ProductRepository implements usecase.ProductRepository.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create inserts a product within a transaction. The caller creates the
// stock record in the same transaction.
func (r *ProductRepository) Create(ctx context.Context, tx usecase.Transaction, product *domain.Product) error {
	_, err := txQuerier(tx).Exec(ctx,
		`INSERT INTO products (id, name, description, sku, price, brand_id, category_id, clover_item_id, qb_item_id, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), $10, $11, $12)`,
		product.ID, product.Name, product.Description, product.SKU,
		decimalToNumeric(product.Price), product.BrandID, product.CategoryID,
		product.CloverItemID, product.QBItemID, product.Active,
		timeToPgTimestamptz(product.CreatedAt), timeToPgTimestamptz(product.UpdatedAt),
	)

	return err
}

// GetByID retrieves a product by ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id,
	))
}

// GetByIDs retrieves multiple products by ID.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1) ORDER BY id`, ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProducts(rows)
}

// GetByCloverItemID retrieves the product mirroring a Clover item.
func (r *ProductRepository) GetByCloverItemID(ctx context.Context, cloverItemID string) (*domain.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE clover_item_id = $1`, cloverItemID,
	))
}

// Update updates catalog fields of a product.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products
		 SET name = $2, description = $3, sku = $4, price = $5,
		     brand_id = NULLIF($6, ''), category_id = NULLIF($7, ''),
		     clover_item_id = NULLIF($8, ''), qb_item_id = NULLIF($9, ''),
		     active = $10, updated_at = $11
		 WHERE id = $1`,
		product.ID, product.Name, product.Description, product.SKU,
		decimalToNumeric(product.Price), product.BrandID, product.CategoryID,
		product.CloverItemID, product.QBItemID, product.Active,
		timeToPgTimestamptz(product.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

// List returns products ordered by name.
func (r *ProductRepository) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY name LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProducts(rows)
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	product, err := scanProductFrom(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}

		return nil, err
	}

	return product, nil
}

func scanProductFrom(row pgx.Row) (*domain.Product, error) {
	var (
		p                                           domain.Product
		price                                       pgtype.Numeric
		brandID, categoryID, cloverItemID, qbItemID *string
	)

	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.SKU, &price,
		&brandID, &categoryID, &cloverItemID, &qbItemID,
		&p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.Price = numericToDecimal(price)
	if brandID != nil {
		p.BrandID = *brandID
	}
	if categoryID != nil {
		p.CategoryID = *categoryID
	}
	if cloverItemID != nil {
		p.CloverItemID = *cloverItemID
	}
	if qbItemID != nil {
		p.QBItemID = *qbItemID
	}

	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]*domain.Product, error) {
	var products []*domain.Product
	for rows.Next() {
		product, err := scanProductFrom(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, rows.Err()
}
