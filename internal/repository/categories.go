package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createCategory = `
INSERT INTO categories (name)
VALUES ($1)
RETURNING id, name, is_active, created_at, updated_at
`

func (q *Queries) CreateCategory(ctx context.Context, name string) (Category, error) {
	row := q.db.QueryRow(ctx, createCategory, name)
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const getCategoryByID = `
SELECT id, name, is_active, created_at, updated_at
FROM categories
WHERE id = $1
`

func (q *Queries) GetCategoryByID(ctx context.Context, id pgtype.UUID) (Category, error) {
	row := q.db.QueryRow(ctx, getCategoryByID, id)
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const getCategoryByName = `
SELECT id, name, is_active, created_at, updated_at
FROM categories
WHERE lower(name) = lower($1)
`

func (q *Queries) GetCategoryByName(ctx context.Context, name string) (Category, error) {
	row := q.db.QueryRow(ctx, getCategoryByName, name)
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const listCategories = `
SELECT id, name, is_active, created_at, updated_at
FROM categories
ORDER BY name
`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.Query(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const updateCategoryName = `
UPDATE categories
SET name = $2, updated_at = now()
WHERE id = $1
RETURNING id, name, is_active, created_at, updated_at
`

type UpdateCategoryNameParams struct {
	ID   pgtype.UUID
	Name string
}

func (q *Queries) UpdateCategoryName(ctx context.Context, arg UpdateCategoryNameParams) (Category, error) {
	row := q.db.QueryRow(ctx, updateCategoryName, arg.ID, arg.Name)
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const setCategoryActive = `
UPDATE categories
SET is_active = $2, updated_at = now()
WHERE id = $1
RETURNING id, name, is_active, created_at, updated_at
`

type SetCategoryActiveParams struct {
	ID       pgtype.UUID
	IsActive bool
}

func (q *Queries) SetCategoryActive(ctx context.Context, arg SetCategoryActiveParams) (Category, error) {
	row := q.db.QueryRow(ctx, setCategoryActive, arg.ID, arg.IsActive)
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const deleteCategory = `
DELETE FROM categories WHERE id = $1
`

func (q *Queries) DeleteCategory(ctx context.Context, id pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteCategory, id)
	return err
}
