package repository

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID           pgtype.UUID
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    pgtype.Timestamptz
}

type Profile struct {
	ID        pgtype.UUID
	UserID    pgtype.UUID
	Name      string
	Address1  string
	Address2  string
	City      string
	State     string
	Zip       string
	CreatedAt pgtype.Timestamptz
}

type Cart struct {
	ID        pgtype.UUID
	ProfileID pgtype.UUID
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type CartProduct struct {
	ID        pgtype.UUID
	CartID    pgtype.UUID
	ProductID pgtype.UUID
	Quantity  int32
	CreatedAt pgtype.Timestamptz
}

type Category struct {
	ID        pgtype.UUID
	Name      string
	IsActive  bool
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type Product struct {
	ID           pgtype.UUID
	Name         string
	PriceInCents int32
	Description  string
	ImagePath    string
	CategoryID   pgtype.UUID
	Quantity     int32
	IsAvailable  bool
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

type Order struct {
	ID                   pgtype.UUID
	ProfileID            pgtype.UUID
	ProductTotalInCents  int32
	ShippingTotalInCents int32
	TaxTotalInCents      int32
	TotalInCents         int32
	PaymentIntentID      string
	Fulfilled            bool
	CreatedAt            pgtype.Timestamptz
}

type OrderProduct struct {
	ID           pgtype.UUID
	OrderID      pgtype.UUID
	ProductID    pgtype.UUID
	Quantity     int32
	PriceInCents int32
	CreatedAt    pgtype.Timestamptz
}

type Session struct {
	ID        pgtype.UUID
	Token     string
	UserID    pgtype.UUID
	ExpiresAt pgtype.Timestamptz
	CreatedAt pgtype.Timestamptz
}
