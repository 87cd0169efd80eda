package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createOrder = `
INSERT INTO orders (profile_id, product_total_in_cents, shipping_total_in_cents, tax_total_in_cents, total_in_cents, payment_intent_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, profile_id, product_total_in_cents, shipping_total_in_cents, tax_total_in_cents, total_in_cents, payment_intent_id, fulfilled, created_at
`

type CreateOrderParams struct {
	ProfileID            pgtype.UUID
	ProductTotalInCents  int32
	ShippingTotalInCents int32
	TaxTotalInCents      int32
	TotalInCents         int32
	PaymentIntentID      string
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.ProfileID, arg.ProductTotalInCents, arg.ShippingTotalInCents,
		arg.TaxTotalInCents, arg.TotalInCents, arg.PaymentIntentID)
	var o Order
	err := row.Scan(&o.ID, &o.ProfileID, &o.ProductTotalInCents, &o.ShippingTotalInCents,
		&o.TaxTotalInCents, &o.TotalInCents, &o.PaymentIntentID, &o.Fulfilled, &o.CreatedAt)
	return o, err
}

const getOrderByID = `
SELECT id, profile_id, product_total_in_cents, shipping_total_in_cents, tax_total_in_cents, total_in_cents, payment_intent_id, fulfilled, created_at
FROM orders
WHERE id = $1
`

func (q *Queries) GetOrderByID(ctx context.Context, id pgtype.UUID) (Order, error) {
	row := q.db.QueryRow(ctx, getOrderByID, id)
	var o Order
	err := row.Scan(&o.ID, &o.ProfileID, &o.ProductTotalInCents, &o.ShippingTotalInCents,
		&o.TaxTotalInCents, &o.TotalInCents, &o.PaymentIntentID, &o.Fulfilled, &o.CreatedAt)
	return o, err
}

const getOrderByPaymentIntentID = `
SELECT id, profile_id, product_total_in_cents, shipping_total_in_cents, tax_total_in_cents, total_in_cents, payment_intent_id, fulfilled, created_at
FROM orders
WHERE payment_intent_id = $1
`

func (q *Queries) GetOrderByPaymentIntentID(ctx context.Context, paymentIntentID string) (Order, error) {
	row := q.db.QueryRow(ctx, getOrderByPaymentIntentID, paymentIntentID)
	var o Order
	err := row.Scan(&o.ID, &o.ProfileID, &o.ProductTotalInCents, &o.ShippingTotalInCents,
		&o.TaxTotalInCents, &o.TotalInCents, &o.PaymentIntentID, &o.Fulfilled, &o.CreatedAt)
	return o, err
}

const listOrdersByProfileID = `
SELECT id, profile_id, product_total_in_cents, shipping_total_in_cents, tax_total_in_cents, total_in_cents, payment_intent_id, fulfilled, created_at
FROM orders
WHERE profile_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListOrdersByProfileID(ctx context.Context, profileID pgtype.UUID) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrdersByProfileID, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.ProfileID, &o.ProductTotalInCents, &o.ShippingTotalInCents,
			&o.TaxTotalInCents, &o.TotalInCents, &o.PaymentIntentID, &o.Fulfilled, &o.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

const listAllOrders = `
SELECT id, profile_id, product_total_in_cents, shipping_total_in_cents, tax_total_in_cents, total_in_cents, payment_intent_id, fulfilled, created_at
FROM orders
ORDER BY created_at DESC
`

func (q *Queries) ListAllOrders(ctx context.Context) ([]Order, error) {
	rows, err := q.db.Query(ctx, listAllOrders)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.ProfileID, &o.ProductTotalInCents, &o.ShippingTotalInCents,
			&o.TaxTotalInCents, &o.TotalInCents, &o.PaymentIntentID, &o.Fulfilled, &o.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

const updateOrderFulfilled = `
UPDATE orders
SET fulfilled = $2
WHERE id = $1
RETURNING id, profile_id, product_total_in_cents, shipping_total_in_cents, tax_total_in_cents, total_in_cents, payment_intent_id, fulfilled, created_at
`

type UpdateOrderFulfilledParams struct {
	ID        pgtype.UUID
	Fulfilled bool
}

func (q *Queries) UpdateOrderFulfilled(ctx context.Context, arg UpdateOrderFulfilledParams) (Order, error) {
	row := q.db.QueryRow(ctx, updateOrderFulfilled, arg.ID, arg.Fulfilled)
	var o Order
	err := row.Scan(&o.ID, &o.ProfileID, &o.ProductTotalInCents, &o.ShippingTotalInCents,
		&o.TaxTotalInCents, &o.TotalInCents, &o.PaymentIntentID, &o.Fulfilled, &o.CreatedAt)
	return o, err
}

const createOrderProduct = `
INSERT INTO order_products (order_id, product_id, quantity, price_in_cents)
VALUES ($1, $2, $3, $4)
RETURNING id, order_id, product_id, quantity, price_in_cents, created_at
`

type CreateOrderProductParams struct {
	OrderID      pgtype.UUID
	ProductID    pgtype.UUID
	Quantity     int32
	PriceInCents int32
}

func (q *Queries) CreateOrderProduct(ctx context.Context, arg CreateOrderProductParams) (OrderProduct, error) {
	row := q.db.QueryRow(ctx, createOrderProduct,
		arg.OrderID, arg.ProductID, arg.Quantity, arg.PriceInCents)
	var op OrderProduct
	err := row.Scan(&op.ID, &op.OrderID, &op.ProductID, &op.Quantity, &op.PriceInCents, &op.CreatedAt)
	return op, err
}

const getOrderProducts = `
SELECT op.id, op.order_id, op.product_id, op.quantity, op.price_in_cents, op.created_at, p.name
FROM order_products op
JOIN products p ON p.id = op.product_id
WHERE op.order_id = $1
ORDER BY op.created_at
`

type GetOrderProductsRow struct {
	ID           pgtype.UUID
	OrderID      pgtype.UUID
	ProductID    pgtype.UUID
	Quantity     int32
	PriceInCents int32
	CreatedAt    pgtype.Timestamptz
	Name         string
}

func (q *Queries) GetOrderProducts(ctx context.Context, orderID pgtype.UUID) ([]GetOrderProductsRow, error) {
	rows, err := q.db.Query(ctx, getOrderProducts, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetOrderProductsRow
	for rows.Next() {
		var r GetOrderProductsRow
		if err := rows.Scan(&r.ID, &r.OrderID, &r.ProductID, &r.Quantity, &r.PriceInCents, &r.CreatedAt, &r.Name); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const deleteAllOrderProducts = `
DELETE FROM order_products
`

func (q *Queries) DeleteAllOrderProducts(ctx context.Context) error {
	_, err := q.db.Exec(ctx, deleteAllOrderProducts)
	return err
}

const deleteAllOrders = `
DELETE FROM orders
`

func (q *Queries) DeleteAllOrders(ctx context.Context) error {
	_, err := q.db.Exec(ctx, deleteAllOrders)
	return err
}
