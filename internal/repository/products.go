package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const createProduct = `
INSERT INTO products (name, price_in_cents, description, image_path, category_id, quantity, is_available)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, name, price_in_cents, description, image_path, category_id, quantity, is_available, created_at, updated_at
`

type CreateProductParams struct {
	Name         string
	PriceInCents int32
	Description  string
	ImagePath    string
	CategoryID   pgtype.UUID
	Quantity     int32
	IsAvailable  bool
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, createProduct,
		arg.Name, arg.PriceInCents, arg.Description, arg.ImagePath,
		arg.CategoryID, arg.Quantity, arg.IsAvailable)
	return scanProduct(row)
}

const getProductByID = `
SELECT id, name, price_in_cents, description, image_path, category_id, quantity, is_available, created_at, updated_at
FROM products
WHERE id = $1
`

func (q *Queries) GetProductByID(ctx context.Context, id pgtype.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProductByID, id))
}

const listProducts = `
SELECT id, name, price_in_cents, description, image_path, category_id, quantity, is_available, created_at, updated_at
FROM products
ORDER BY name
`

func (q *Queries) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, listProducts)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

const listAvailableProducts = `
SELECT id, name, price_in_cents, description, image_path, category_id, quantity, is_available, created_at, updated_at
FROM products
WHERE is_available
ORDER BY name
`

func (q *Queries) ListAvailableProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, listAvailableProducts)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

const listAvailableProductsByCategory = `
SELECT id, name, price_in_cents, description, image_path, category_id, quantity, is_available, created_at, updated_at
FROM products
WHERE is_available AND category_id = $1
ORDER BY name
`

func (q *Queries) ListAvailableProductsByCategory(ctx context.Context, categoryID pgtype.UUID) ([]Product, error) {
	rows, err := q.db.Query(ctx, listAvailableProductsByCategory, categoryID)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

const updateProduct = `
UPDATE products
SET name = $2, price_in_cents = $3, description = $4, image_path = $5,
    category_id = $6, quantity = $7, is_available = $8, updated_at = now()
WHERE id = $1
RETURNING id, name, price_in_cents, description, image_path, category_id, quantity, is_available, created_at, updated_at
`

type UpdateProductParams struct {
	ID           pgtype.UUID
	Name         string
	PriceInCents int32
	Description  string
	ImagePath    string
	CategoryID   pgtype.UUID
	Quantity     int32
	IsAvailable  bool
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, updateProduct,
		arg.ID, arg.Name, arg.PriceInCents, arg.Description, arg.ImagePath,
		arg.CategoryID, arg.Quantity, arg.IsAvailable)
	return scanProduct(row)
}

const setProductAvailable = `
UPDATE products
SET is_available = $2, updated_at = now()
WHERE id = $1
RETURNING id, name, price_in_cents, description, image_path, category_id, quantity, is_available, created_at, updated_at
`

type SetProductAvailableParams struct {
	ID          pgtype.UUID
	IsAvailable bool
}

func (q *Queries) SetProductAvailable(ctx context.Context, arg SetProductAvailableParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, setProductAvailable, arg.ID, arg.IsAvailable))
}

const deleteProduct = `
DELETE FROM products WHERE id = $1
`

func (q *Queries) DeleteProduct(ctx context.Context, id pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteProduct, id)
	return err
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.PriceInCents, &p.Description, &p.ImagePath,
		&p.CategoryID, &p.Quantity, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func scanProducts(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()
	var items []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceInCents, &p.Description, &p.ImagePath,
			&p.CategoryID, &p.Quantity, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
