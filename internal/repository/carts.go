package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createCart = `
INSERT INTO carts (profile_id)
VALUES ($1)
RETURNING id, profile_id, created_at, updated_at
`

func (q *Queries) CreateCart(ctx context.Context, profileID pgtype.UUID) (Cart, error) {
	row := q.db.QueryRow(ctx, createCart, profileID)
	var c Cart
	err := row.Scan(&c.ID, &c.ProfileID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const getCartByProfileID = `
SELECT id, profile_id, created_at, updated_at
FROM carts
WHERE profile_id = $1
`

func (q *Queries) GetCartByProfileID(ctx context.Context, profileID pgtype.UUID) (Cart, error) {
	row := q.db.QueryRow(ctx, getCartByProfileID, profileID)
	var c Cart
	err := row.Scan(&c.ID, &c.ProfileID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const getCartItems = `
SELECT cp.id, cp.cart_id, cp.product_id, cp.quantity, cp.created_at,
       p.name, p.price_in_cents, p.image_path, p.is_available
FROM cart_products cp
JOIN products p ON p.id = cp.product_id
WHERE cp.cart_id = $1
ORDER BY cp.created_at
`

// GetCartItemsRow carries the line item plus the current product fields
// so callers always price carts from live product data.
type GetCartItemsRow struct {
	ID           pgtype.UUID
	CartID       pgtype.UUID
	ProductID    pgtype.UUID
	Quantity     int32
	CreatedAt    pgtype.Timestamptz
	Name         string
	PriceInCents int32
	ImagePath    string
	IsAvailable  bool
}

func (q *Queries) GetCartItems(ctx context.Context, cartID pgtype.UUID) ([]GetCartItemsRow, error) {
	rows, err := q.db.Query(ctx, getCartItems, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetCartItemsRow
	for rows.Next() {
		var r GetCartItemsRow
		if err := rows.Scan(&r.ID, &r.CartID, &r.ProductID, &r.Quantity, &r.CreatedAt,
			&r.Name, &r.PriceInCents, &r.ImagePath, &r.IsAvailable); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const getCartItem = `
SELECT id, cart_id, product_id, quantity, created_at
FROM cart_products
WHERE cart_id = $1 AND product_id = $2
`

type GetCartItemParams struct {
	CartID    pgtype.UUID
	ProductID pgtype.UUID
}

func (q *Queries) GetCartItem(ctx context.Context, arg GetCartItemParams) (CartProduct, error) {
	row := q.db.QueryRow(ctx, getCartItem, arg.CartID, arg.ProductID)
	var cp CartProduct
	err := row.Scan(&cp.ID, &cp.CartID, &cp.ProductID, &cp.Quantity, &cp.CreatedAt)
	return cp, err
}

const addCartItem = `
INSERT INTO cart_products (cart_id, product_id, quantity)
VALUES ($1, $2, $3)
RETURNING id, cart_id, product_id, quantity, created_at
`

type AddCartItemParams struct {
	CartID    pgtype.UUID
	ProductID pgtype.UUID
	Quantity  int32
}

func (q *Queries) AddCartItem(ctx context.Context, arg AddCartItemParams) (CartProduct, error) {
	row := q.db.QueryRow(ctx, addCartItem, arg.CartID, arg.ProductID, arg.Quantity)
	var cp CartProduct
	err := row.Scan(&cp.ID, &cp.CartID, &cp.ProductID, &cp.Quantity, &cp.CreatedAt)
	return cp, err
}

const updateCartItemQuantity = `
UPDATE cart_products
SET quantity = $3
WHERE cart_id = $1 AND product_id = $2
`

type UpdateCartItemQuantityParams struct {
	CartID    pgtype.UUID
	ProductID pgtype.UUID
	Quantity  int32
}

func (q *Queries) UpdateCartItemQuantity(ctx context.Context, arg UpdateCartItemQuantityParams) error {
	_, err := q.db.Exec(ctx, updateCartItemQuantity, arg.CartID, arg.ProductID, arg.Quantity)
	return err
}

const removeCartItem = `
DELETE FROM cart_products
WHERE cart_id = $1 AND product_id = $2
`

type RemoveCartItemParams struct {
	CartID    pgtype.UUID
	ProductID pgtype.UUID
}

func (q *Queries) RemoveCartItem(ctx context.Context, arg RemoveCartItemParams) error {
	_, err := q.db.Exec(ctx, removeCartItem, arg.CartID, arg.ProductID)
	return err
}

const clearCart = `
DELETE FROM cart_products WHERE cart_id = $1
`

func (q *Queries) ClearCart(ctx context.Context, cartID pgtype.UUID) error {
	_, err := q.db.Exec(ctx, clearCart, cartID)
	return err
}
