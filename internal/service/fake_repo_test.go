package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/hallgrim/vanir/internal/repository"
)

// fakeRepo is an in-memory repository.Querier for service tests.
// Failure injection maps simulate per-row write errors.
type fakeRepo struct {
	users      map[string]repository.User
	profiles   map[string]repository.Profile
	carts      map[string]repository.Cart
	cartItems  map[string]map[string]repository.CartProduct // cartID -> productID
	categories map[string]repository.Category
	products   map[string]repository.Product
	orders     map[string]repository.Order
	orderItems map[string][]repository.OrderProduct
	sessions   map[string]repository.Session // by token

	failAddCartItem        map[string]error // productID -> error
	failCreateOrderProduct map[string]error // productID -> error
	failCreateProfile      error
	failCreateCart         error
}

var _ repository.Querier = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:                  map[string]repository.User{},
		profiles:               map[string]repository.Profile{},
		carts:                  map[string]repository.Cart{},
		cartItems:              map[string]map[string]repository.CartProduct{},
		categories:             map[string]repository.Category{},
		products:               map[string]repository.Product{},
		orders:                 map[string]repository.Order{},
		orderItems:             map[string][]repository.OrderProduct{},
		sessions:               map[string]repository.Session{},
		failAddCartItem:        map[string]error{},
		failCreateOrderProduct: map[string]error{},
	}
}

func newUUID() pgtype.UUID {
	var u pgtype.UUID
	_ = u.Scan(uuid.NewString())
	return u
}

func now() pgtype.Timestamptz {
	var t pgtype.Timestamptz
	_ = t.Scan(time.Now())
	return t
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

func getCartItemParams(cartID, productID pgtype.UUID) repository.GetCartItemParams {
	return repository.GetCartItemParams{CartID: cartID, ProductID: productID}
}

// Seeding helpers

func (f *fakeRepo) seedCategory(name string) repository.Category {
	c := repository.Category{ID: newUUID(), Name: name, IsActive: true, CreatedAt: now(), UpdatedAt: now()}
	f.categories[uuidString(c.ID)] = c
	return c
}

func (f *fakeRepo) seedProduct(name string, priceInCents int32) repository.Product {
	var cat repository.Category
	for _, c := range f.categories {
		cat = c
		break
	}
	if !cat.ID.Valid {
		cat = f.seedCategory("default")
	}
	p := repository.Product{
		ID:           newUUID(),
		Name:         name,
		PriceInCents: priceInCents,
		CategoryID:   cat.ID,
		Quantity:     100,
		IsAvailable:  true,
		CreatedAt:    now(),
		UpdatedAt:    now(),
	}
	f.products[uuidString(p.ID)] = p
	return p
}

// seedAccount creates a user, profile and cart and returns them.
func (f *fakeRepo) seedAccount(email string) (repository.User, repository.Profile, repository.Cart) {
	u := repository.User{ID: newUUID(), Email: email, PasswordHash: "x", Role: "user", CreatedAt: now()}
	f.users[uuidString(u.ID)] = u
	p := repository.Profile{ID: newUUID(), UserID: u.ID, Name: "Test", CreatedAt: now()}
	f.profiles[uuidString(p.ID)] = p
	c := repository.Cart{ID: newUUID(), ProfileID: p.ID, CreatedAt: now(), UpdatedAt: now()}
	f.carts[uuidString(c.ID)] = c
	f.cartItems[uuidString(c.ID)] = map[string]repository.CartProduct{}
	return u, p, c
}

func (f *fakeRepo) seedCartItem(cartID, productID pgtype.UUID, quantity int32) {
	key := uuidString(cartID)
	if f.cartItems[key] == nil {
		f.cartItems[key] = map[string]repository.CartProduct{}
	}
	f.cartItems[key][uuidString(productID)] = repository.CartProduct{
		ID: newUUID(), CartID: cartID, ProductID: productID, Quantity: quantity, CreatedAt: now(),
	}
}

// Users and profiles

func (f *fakeRepo) CreateUser(ctx context.Context, arg repository.CreateUserParams) (repository.User, error) {
	for _, u := range f.users {
		if u.Email == arg.Email {
			return repository.User{}, uniqueViolation()
		}
	}
	u := repository.User{ID: newUUID(), Email: arg.Email, PasswordHash: arg.PasswordHash, Role: arg.Role, CreatedAt: now()}
	f.users[uuidString(u.ID)] = u
	return u, nil
}

func (f *fakeRepo) GetUserByEmail(ctx context.Context, email string) (repository.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return repository.User{}, pgx.ErrNoRows
}

func (f *fakeRepo) GetUserByID(ctx context.Context, id pgtype.UUID) (repository.User, error) {
	u, ok := f.users[uuidString(id)]
	if !ok {
		return repository.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeRepo) ListUsers(ctx context.Context) ([]repository.ListUsersRow, error) {
	var rows []repository.ListUsersRow
	for _, u := range f.users {
		name := ""
		for _, p := range f.profiles {
			if uuidString(p.UserID) == uuidString(u.ID) {
				name = p.Name
			}
		}
		rows = append(rows, repository.ListUsersRow{ID: u.ID, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt, Name: name})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Email < rows[j].Email })
	return rows, nil
}

func (f *fakeRepo) DeleteUser(ctx context.Context, id pgtype.UUID) error {
	key := uuidString(id)
	delete(f.users, key)
	for pid, p := range f.profiles {
		if uuidString(p.UserID) == key {
			for cid, c := range f.carts {
				if uuidString(c.ProfileID) == pid {
					delete(f.carts, cid)
					delete(f.cartItems, cid)
				}
			}
			delete(f.profiles, pid)
		}
	}
	return nil
}

func (f *fakeRepo) CreateProfile(ctx context.Context, arg repository.CreateProfileParams) (repository.Profile, error) {
	if f.failCreateProfile != nil {
		return repository.Profile{}, f.failCreateProfile
	}
	p := repository.Profile{ID: newUUID(), UserID: arg.UserID, Name: arg.Name, CreatedAt: now()}
	f.profiles[uuidString(p.ID)] = p
	return p, nil
}

func (f *fakeRepo) GetProfileByUserID(ctx context.Context, userID pgtype.UUID) (repository.Profile, error) {
	for _, p := range f.profiles {
		if uuidString(p.UserID) == uuidString(userID) {
			return p, nil
		}
	}
	return repository.Profile{}, pgx.ErrNoRows
}

func (f *fakeRepo) UpdateProfileAddress(ctx context.Context, arg repository.UpdateProfileAddressParams) (repository.Profile, error) {
	p, ok := f.profiles[uuidString(arg.ID)]
	if !ok {
		return repository.Profile{}, pgx.ErrNoRows
	}
	p.Name, p.Address1, p.Address2 = arg.Name, arg.Address1, arg.Address2
	p.City, p.State, p.Zip = arg.City, arg.State, arg.Zip
	f.profiles[uuidString(arg.ID)] = p
	return p, nil
}

// Carts

func (f *fakeRepo) CreateCart(ctx context.Context, profileID pgtype.UUID) (repository.Cart, error) {
	if f.failCreateCart != nil {
		return repository.Cart{}, f.failCreateCart
	}
	c := repository.Cart{ID: newUUID(), ProfileID: profileID, CreatedAt: now(), UpdatedAt: now()}
	f.carts[uuidString(c.ID)] = c
	f.cartItems[uuidString(c.ID)] = map[string]repository.CartProduct{}
	return c, nil
}

func (f *fakeRepo) GetCartByProfileID(ctx context.Context, profileID pgtype.UUID) (repository.Cart, error) {
	for _, c := range f.carts {
		if uuidString(c.ProfileID) == uuidString(profileID) {
			return c, nil
		}
	}
	return repository.Cart{}, pgx.ErrNoRows
}

func (f *fakeRepo) GetCartItems(ctx context.Context, cartID pgtype.UUID) ([]repository.GetCartItemsRow, error) {
	var rows []repository.GetCartItemsRow
	for _, item := range f.cartItems[uuidString(cartID)] {
		p := f.products[uuidString(item.ProductID)]
		rows = append(rows, repository.GetCartItemsRow{
			ID:           item.ID,
			CartID:       item.CartID,
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			CreatedAt:    item.CreatedAt,
			Name:         p.Name,
			PriceInCents: p.PriceInCents,
			ImagePath:    p.ImagePath,
			IsAvailable:  p.IsAvailable,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return uuidString(rows[i].ProductID) < uuidString(rows[j].ProductID)
	})
	return rows, nil
}

func (f *fakeRepo) GetCartItem(ctx context.Context, arg repository.GetCartItemParams) (repository.CartProduct, error) {
	item, ok := f.cartItems[uuidString(arg.CartID)][uuidString(arg.ProductID)]
	if !ok {
		return repository.CartProduct{}, pgx.ErrNoRows
	}
	return item, nil
}

func (f *fakeRepo) AddCartItem(ctx context.Context, arg repository.AddCartItemParams) (repository.CartProduct, error) {
	if err, ok := f.failAddCartItem[uuidString(arg.ProductID)]; ok {
		return repository.CartProduct{}, err
	}
	cartKey := uuidString(arg.CartID)
	if f.cartItems[cartKey] == nil {
		f.cartItems[cartKey] = map[string]repository.CartProduct{}
	}
	if _, exists := f.cartItems[cartKey][uuidString(arg.ProductID)]; exists {
		return repository.CartProduct{}, uniqueViolation()
	}
	item := repository.CartProduct{
		ID: newUUID(), CartID: arg.CartID, ProductID: arg.ProductID, Quantity: arg.Quantity, CreatedAt: now(),
	}
	f.cartItems[cartKey][uuidString(arg.ProductID)] = item
	return item, nil
}

func (f *fakeRepo) UpdateCartItemQuantity(ctx context.Context, arg repository.UpdateCartItemQuantityParams) error {
	item, ok := f.cartItems[uuidString(arg.CartID)][uuidString(arg.ProductID)]
	if !ok {
		return nil
	}
	item.Quantity = arg.Quantity
	f.cartItems[uuidString(arg.CartID)][uuidString(arg.ProductID)] = item
	return nil
}

func (f *fakeRepo) RemoveCartItem(ctx context.Context, arg repository.RemoveCartItemParams) error {
	delete(f.cartItems[uuidString(arg.CartID)], uuidString(arg.ProductID))
	return nil
}

func (f *fakeRepo) ClearCart(ctx context.Context, cartID pgtype.UUID) error {
	f.cartItems[uuidString(cartID)] = map[string]repository.CartProduct{}
	return nil
}

// Categories

func (f *fakeRepo) CreateCategory(ctx context.Context, name string) (repository.Category, error) {
	c := repository.Category{ID: newUUID(), Name: name, IsActive: true, CreatedAt: now(), UpdatedAt: now()}
	f.categories[uuidString(c.ID)] = c
	return c, nil
}

func (f *fakeRepo) GetCategoryByID(ctx context.Context, id pgtype.UUID) (repository.Category, error) {
	c, ok := f.categories[uuidString(id)]
	if !ok {
		return repository.Category{}, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeRepo) GetCategoryByName(ctx context.Context, name string) (repository.Category, error) {
	for _, c := range f.categories {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return repository.Category{}, pgx.ErrNoRows
}

func (f *fakeRepo) ListCategories(ctx context.Context) ([]repository.Category, error) {
	var out []repository.Category
	for _, c := range f.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRepo) UpdateCategoryName(ctx context.Context, arg repository.UpdateCategoryNameParams) (repository.Category, error) {
	c, ok := f.categories[uuidString(arg.ID)]
	if !ok {
		return repository.Category{}, pgx.ErrNoRows
	}
	c.Name = arg.Name
	f.categories[uuidString(arg.ID)] = c
	return c, nil
}

func (f *fakeRepo) SetCategoryActive(ctx context.Context, arg repository.SetCategoryActiveParams) (repository.Category, error) {
	c, ok := f.categories[uuidString(arg.ID)]
	if !ok {
		return repository.Category{}, pgx.ErrNoRows
	}
	c.IsActive = arg.IsActive
	f.categories[uuidString(arg.ID)] = c
	return c, nil
}

func (f *fakeRepo) DeleteCategory(ctx context.Context, id pgtype.UUID) error {
	for _, p := range f.products {
		if uuidString(p.CategoryID) == uuidString(id) {
			return &pgconn.PgError{Code: "23503"}
		}
	}
	delete(f.categories, uuidString(id))
	return nil
}

// Products

func (f *fakeRepo) CreateProduct(ctx context.Context, arg repository.CreateProductParams) (repository.Product, error) {
	p := repository.Product{
		ID: newUUID(), Name: arg.Name, PriceInCents: arg.PriceInCents, Description: arg.Description,
		ImagePath: arg.ImagePath, CategoryID: arg.CategoryID, Quantity: arg.Quantity,
		IsAvailable: arg.IsAvailable, CreatedAt: now(), UpdatedAt: now(),
	}
	f.products[uuidString(p.ID)] = p
	return p, nil
}

func (f *fakeRepo) GetProductByID(ctx context.Context, id pgtype.UUID) (repository.Product, error) {
	p, ok := f.products[uuidString(id)]
	if !ok {
		return repository.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakeRepo) ListProducts(ctx context.Context) ([]repository.Product, error) {
	var out []repository.Product
	for _, p := range f.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRepo) ListAvailableProducts(ctx context.Context) ([]repository.Product, error) {
	var out []repository.Product
	for _, p := range f.products {
		if p.IsAvailable {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRepo) ListAvailableProductsByCategory(ctx context.Context, categoryID pgtype.UUID) ([]repository.Product, error) {
	var out []repository.Product
	for _, p := range f.products {
		if p.IsAvailable && uuidString(p.CategoryID) == uuidString(categoryID) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRepo) UpdateProduct(ctx context.Context, arg repository.UpdateProductParams) (repository.Product, error) {
	p, ok := f.products[uuidString(arg.ID)]
	if !ok {
		return repository.Product{}, pgx.ErrNoRows
	}
	p.Name, p.PriceInCents, p.Description = arg.Name, arg.PriceInCents, arg.Description
	p.ImagePath, p.CategoryID = arg.ImagePath, arg.CategoryID
	p.Quantity, p.IsAvailable = arg.Quantity, arg.IsAvailable
	f.products[uuidString(arg.ID)] = p
	return p, nil
}

func (f *fakeRepo) SetProductAvailable(ctx context.Context, arg repository.SetProductAvailableParams) (repository.Product, error) {
	p, ok := f.products[uuidString(arg.ID)]
	if !ok {
		return repository.Product{}, pgx.ErrNoRows
	}
	p.IsAvailable = arg.IsAvailable
	f.products[uuidString(arg.ID)] = p
	return p, nil
}

func (f *fakeRepo) DeleteProduct(ctx context.Context, id pgtype.UUID) error {
	delete(f.products, uuidString(id))
	return nil
}

// Orders

func (f *fakeRepo) CreateOrder(ctx context.Context, arg repository.CreateOrderParams) (repository.Order, error) {
	for _, o := range f.orders {
		if o.PaymentIntentID == arg.PaymentIntentID {
			return repository.Order{}, uniqueViolation()
		}
	}
	o := repository.Order{
		ID: newUUID(), ProfileID: arg.ProfileID,
		ProductTotalInCents:  arg.ProductTotalInCents,
		ShippingTotalInCents: arg.ShippingTotalInCents,
		TaxTotalInCents:      arg.TaxTotalInCents,
		TotalInCents:         arg.TotalInCents,
		PaymentIntentID:      arg.PaymentIntentID,
		CreatedAt:            now(),
	}
	f.orders[uuidString(o.ID)] = o
	return o, nil
}

func (f *fakeRepo) GetOrderByID(ctx context.Context, id pgtype.UUID) (repository.Order, error) {
	o, ok := f.orders[uuidString(id)]
	if !ok {
		return repository.Order{}, pgx.ErrNoRows
	}
	return o, nil
}

func (f *fakeRepo) GetOrderByPaymentIntentID(ctx context.Context, paymentIntentID string) (repository.Order, error) {
	for _, o := range f.orders {
		if o.PaymentIntentID == paymentIntentID {
			return o, nil
		}
	}
	return repository.Order{}, pgx.ErrNoRows
}

func (f *fakeRepo) ListOrdersByProfileID(ctx context.Context, profileID pgtype.UUID) ([]repository.Order, error) {
	var out []repository.Order
	for _, o := range f.orders {
		if uuidString(o.ProfileID) == uuidString(profileID) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAllOrders(ctx context.Context) ([]repository.Order, error) {
	var out []repository.Order
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeRepo) UpdateOrderFulfilled(ctx context.Context, arg repository.UpdateOrderFulfilledParams) (repository.Order, error) {
	o, ok := f.orders[uuidString(arg.ID)]
	if !ok {
		return repository.Order{}, pgx.ErrNoRows
	}
	o.Fulfilled = arg.Fulfilled
	f.orders[uuidString(arg.ID)] = o
	return o, nil
}

func (f *fakeRepo) CreateOrderProduct(ctx context.Context, arg repository.CreateOrderProductParams) (repository.OrderProduct, error) {
	if err, ok := f.failCreateOrderProduct[uuidString(arg.ProductID)]; ok {
		return repository.OrderProduct{}, err
	}
	op := repository.OrderProduct{
		ID: newUUID(), OrderID: arg.OrderID, ProductID: arg.ProductID,
		Quantity: arg.Quantity, PriceInCents: arg.PriceInCents, CreatedAt: now(),
	}
	key := uuidString(arg.OrderID)
	f.orderItems[key] = append(f.orderItems[key], op)
	return op, nil
}

func (f *fakeRepo) GetOrderProducts(ctx context.Context, orderID pgtype.UUID) ([]repository.GetOrderProductsRow, error) {
	var rows []repository.GetOrderProductsRow
	for _, op := range f.orderItems[uuidString(orderID)] {
		p := f.products[uuidString(op.ProductID)]
		rows = append(rows, repository.GetOrderProductsRow{
			ID: op.ID, OrderID: op.OrderID, ProductID: op.ProductID,
			Quantity: op.Quantity, PriceInCents: op.PriceInCents, CreatedAt: op.CreatedAt,
			Name: p.Name,
		})
	}
	return rows, nil
}

func (f *fakeRepo) DeleteAllOrderProducts(ctx context.Context) error {
	f.orderItems = map[string][]repository.OrderProduct{}
	return nil
}

func (f *fakeRepo) DeleteAllOrders(ctx context.Context) error {
	f.orders = map[string]repository.Order{}
	return nil
}

// Sessions

func (f *fakeRepo) CreateSession(ctx context.Context, arg repository.CreateSessionParams) (repository.Session, error) {
	s := repository.Session{ID: newUUID(), Token: arg.Token, UserID: arg.UserID, ExpiresAt: arg.ExpiresAt, CreatedAt: now()}
	f.sessions[arg.Token] = s
	return s, nil
}

func (f *fakeRepo) GetSessionByToken(ctx context.Context, token string) (repository.Session, error) {
	s, ok := f.sessions[token]
	if !ok {
		return repository.Session{}, pgx.ErrNoRows
	}
	return s, nil
}

func (f *fakeRepo) DeleteSessionByToken(ctx context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func (f *fakeRepo) DeleteExpiredSessions(ctx context.Context) error {
	for token, s := range f.sessions {
		if s.ExpiresAt.Valid && s.ExpiresAt.Time.Before(time.Now()) {
			delete(f.sessions, token)
		}
	}
	return nil
}
