package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hallgrim/vanir/internal/events"
	"github.com/hallgrim/vanir/internal/repository"
	"github.com/hallgrim/vanir/internal/storage"
)

// ProductService serves the storefront catalog and the admin product CRUD.
type ProductService interface {
	// Storefront
	ListAvailable(ctx context.Context, categoryID string) ([]repository.Product, error)
	GetProduct(ctx context.Context, productID string) (*repository.Product, error)

	// Admin
	ListAll(ctx context.Context) ([]repository.Product, error)
	Create(ctx context.Context, arg ProductParams) (*repository.Product, error)
	Update(ctx context.Context, productID string, arg ProductParams) (*repository.Product, error)
	SetAvailability(ctx context.Context, productID string, available bool) (*repository.Product, error)
	Delete(ctx context.Context, productID string) error
	UploadImage(ctx context.Context, productID, filename, contentType string, content io.Reader) (*repository.Product, error)
}

// ProductParams carries the editable product fields.
type ProductParams struct {
	Name         string
	PriceInCents int32
	Description  string
	CategoryID   string
	Quantity     int32
	IsAvailable  bool
}

type productService struct {
	repo    repository.Querier
	storage storage.Storage
	events  events.Publisher
	logger  *slog.Logger
}

// NewProductService creates a ProductService instance.
func NewProductService(repo repository.Querier, store storage.Storage, publisher events.Publisher, logger *slog.Logger) ProductService {
	return &productService{repo: repo, storage: store, events: publisher, logger: logger}
}

func (s *productService) ListAvailable(ctx context.Context, categoryID string) ([]repository.Product, error) {
	if categoryID == "" {
		products, err := s.repo.ListAvailableProducts(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}
		return products, nil
	}

	categoryUUID, err := parseUUID(categoryID)
	if err != nil {
		return nil, ErrInvalidID
	}
	products, err := s.repo.ListAvailableProductsByCategory(ctx, categoryUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products by category: %w", err)
	}
	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, productID string) (*repository.Product, error) {
	productUUID, err := parseUUID(productID)
	if err != nil {
		return nil, ErrInvalidID
	}
	product, err := s.repo.GetProductByID(ctx, productUUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (s *productService) ListAll(ctx context.Context) ([]repository.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *productService) Create(ctx context.Context, arg ProductParams) (*repository.Product, error) {
	categoryUUID, err := parseUUID(arg.CategoryID)
	if err != nil {
		return nil, ErrInvalidID
	}
	if _, err := s.repo.GetCategoryByID(ctx, categoryUUID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	product, err := s.repo.CreateProduct(ctx, repository.CreateProductParams{
		Name:         arg.Name,
		PriceInCents: arg.PriceInCents,
		Description:  arg.Description,
		CategoryID:   categoryUUID,
		Quantity:     arg.Quantity,
		IsAvailable:  arg.IsAvailable,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.publish(ctx, events.SubjectProductCreated, uuidString(product.ID))
	return &product, nil
}

func (s *productService) Update(ctx context.Context, productID string, arg ProductParams) (*repository.Product, error) {
	productUUID, err := parseUUID(productID)
	if err != nil {
		return nil, ErrInvalidID
	}
	categoryUUID, err := parseUUID(arg.CategoryID)
	if err != nil {
		return nil, ErrInvalidID
	}

	current, err := s.repo.GetProductByID(ctx, productUUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	product, err := s.repo.UpdateProduct(ctx, repository.UpdateProductParams{
		ID:           productUUID,
		Name:         arg.Name,
		PriceInCents: arg.PriceInCents,
		Description:  arg.Description,
		ImagePath:    current.ImagePath,
		CategoryID:   categoryUUID,
		Quantity:     arg.Quantity,
		IsAvailable:  arg.IsAvailable,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.publish(ctx, events.SubjectProductUpdated, productID)
	return &product, nil
}

func (s *productService) SetAvailability(ctx context.Context, productID string, available bool) (*repository.Product, error) {
	productUUID, err := parseUUID(productID)
	if err != nil {
		return nil, ErrInvalidID
	}
	product, err := s.repo.SetProductAvailable(ctx, repository.SetProductAvailableParams{
		ID:          productUUID,
		IsAvailable: available,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to set product availability: %w", err)
	}

	s.publish(ctx, events.SubjectProductUpdated, productID)
	return &product, nil
}

func (s *productService) Delete(ctx context.Context, productID string) error {
	productUUID, err := parseUUID(productID)
	if err != nil {
		return ErrInvalidID
	}

	product, err := s.repo.GetProductByID(ctx, productUUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to get product: %w", err)
	}

	if err := s.repo.DeleteProduct(ctx, productUUID); err != nil {
		if isForeignKeyViolation(err) {
			return ErrProductInUse
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if product.ImagePath != "" {
		if err := s.storage.Delete(ctx, product.ImagePath); err != nil {
			s.logger.Warn("failed to delete product image",
				slog.String("product_id", productID),
				slog.String("image_path", product.ImagePath),
				slog.String("error", err.Error()))
		}
	}

	s.publish(ctx, events.SubjectProductDeleted, productID)
	return nil
}

// UploadImage stores the image under products/<id>/<filename> and
// records the key on the product row.
func (s *productService) UploadImage(ctx context.Context, productID, filename, contentType string, content io.Reader) (*repository.Product, error) {
	productUUID, err := parseUUID(productID)
	if err != nil {
		return nil, ErrInvalidID
	}
	current, err := s.repo.GetProductByID(ctx, productUUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	key := fmt.Sprintf("products/%s/%s-%s", productID, uuid.NewString()[:8], path.Base(filename))
	if _, err := s.storage.Put(ctx, key, content, contentType); err != nil {
		return nil, fmt.Errorf("failed to store product image: %w", err)
	}

	product, err := s.repo.UpdateProduct(ctx, repository.UpdateProductParams{
		ID:           productUUID,
		Name:         current.Name,
		PriceInCents: current.PriceInCents,
		Description:  current.Description,
		ImagePath:    key,
		CategoryID:   current.CategoryID,
		Quantity:     current.Quantity,
		IsAvailable:  current.IsAvailable,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record product image: %w", err)
	}

	if current.ImagePath != "" && current.ImagePath != key {
		if err := s.storage.Delete(ctx, current.ImagePath); err != nil {
			s.logger.Warn("failed to delete replaced product image",
				slog.String("product_id", productID),
				slog.String("image_path", current.ImagePath),
				slog.String("error", err.Error()))
		}
	}

	s.publish(ctx, events.SubjectProductUpdated, productID)
	return &product, nil
}

func (s *productService) publish(ctx context.Context, subject, entityID string) {
	if err := s.events.Publish(ctx, subject, entityID); err != nil {
		s.logger.Warn("failed to publish catalog event",
			slog.String("subject", subject),
			slog.String("entity_id", entityID),
			slog.String("error", err.Error()))
	}
}

// isForeignKeyViolation reports whether err is a PostgreSQL foreign key
// constraint violation (SQLSTATE 23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
