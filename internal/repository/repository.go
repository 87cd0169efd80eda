// Package repository provides pgx-backed data access for the storefront.
// The Querier interface is what services depend on; Queries is the
// PostgreSQL implementation over a pool or transaction.
package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries implements Querier against a PostgreSQL database.
type Queries struct {
	db DBTX
}

// New creates a Queries instance over the given connection source.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries bound to the given transaction.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

// Querier is the full data-access surface consumed by the service layer.
type Querier interface {
	// Users and profiles
	CreateUser(ctx context.Context, arg CreateUserParams) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id pgtype.UUID) (User, error)
	ListUsers(ctx context.Context) ([]ListUsersRow, error)
	DeleteUser(ctx context.Context, id pgtype.UUID) error
	CreateProfile(ctx context.Context, arg CreateProfileParams) (Profile, error)
	GetProfileByUserID(ctx context.Context, userID pgtype.UUID) (Profile, error)
	UpdateProfileAddress(ctx context.Context, arg UpdateProfileAddressParams) (Profile, error)

	// Carts
	CreateCart(ctx context.Context, profileID pgtype.UUID) (Cart, error)
	GetCartByProfileID(ctx context.Context, profileID pgtype.UUID) (Cart, error)
	GetCartItems(ctx context.Context, cartID pgtype.UUID) ([]GetCartItemsRow, error)
	GetCartItem(ctx context.Context, arg GetCartItemParams) (CartProduct, error)
	AddCartItem(ctx context.Context, arg AddCartItemParams) (CartProduct, error)
	UpdateCartItemQuantity(ctx context.Context, arg UpdateCartItemQuantityParams) error
	RemoveCartItem(ctx context.Context, arg RemoveCartItemParams) error
	ClearCart(ctx context.Context, cartID pgtype.UUID) error

	// Categories
	CreateCategory(ctx context.Context, name string) (Category, error)
	GetCategoryByID(ctx context.Context, id pgtype.UUID) (Category, error)
	GetCategoryByName(ctx context.Context, name string) (Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	UpdateCategoryName(ctx context.Context, arg UpdateCategoryNameParams) (Category, error)
	SetCategoryActive(ctx context.Context, arg SetCategoryActiveParams) (Category, error)
	DeleteCategory(ctx context.Context, id pgtype.UUID) error

	// Products
	CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error)
	GetProductByID(ctx context.Context, id pgtype.UUID) (Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	ListAvailableProducts(ctx context.Context) ([]Product, error)
	ListAvailableProductsByCategory(ctx context.Context, categoryID pgtype.UUID) ([]Product, error)
	UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error)
	SetProductAvailable(ctx context.Context, arg SetProductAvailableParams) (Product, error)
	DeleteProduct(ctx context.Context, id pgtype.UUID) error

	// Orders
	CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error)
	GetOrderByID(ctx context.Context, id pgtype.UUID) (Order, error)
	GetOrderByPaymentIntentID(ctx context.Context, paymentIntentID string) (Order, error)
	ListOrdersByProfileID(ctx context.Context, profileID pgtype.UUID) ([]Order, error)
	ListAllOrders(ctx context.Context) ([]Order, error)
	UpdateOrderFulfilled(ctx context.Context, arg UpdateOrderFulfilledParams) (Order, error)
	CreateOrderProduct(ctx context.Context, arg CreateOrderProductParams) (OrderProduct, error)
	GetOrderProducts(ctx context.Context, orderID pgtype.UUID) ([]GetOrderProductsRow, error)
	DeleteAllOrderProducts(ctx context.Context) error
	DeleteAllOrders(ctx context.Context) error

	// Sessions
	CreateSession(ctx context.Context, arg CreateSessionParams) (Session, error)
	GetSessionByToken(ctx context.Context, token string) (Session, error)
	DeleteSessionByToken(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context) error
}

// Compile-time check that Queries implements Querier.
var _ Querier = (*Queries)(nil)
