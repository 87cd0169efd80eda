package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/hallgrim/vanir/internal/events"
	"github.com/hallgrim/vanir/internal/repository"
)

// CategoryService covers the admin category CRUD and storefront listing.
type CategoryService interface {
	List(ctx context.Context) ([]repository.Category, error)
	Get(ctx context.Context, categoryID string) (*repository.Category, error)
	Create(ctx context.Context, name string) (*repository.Category, error)
	Rename(ctx context.Context, categoryID, name string) (*repository.Category, error)
	SetActive(ctx context.Context, categoryID string, active bool) (*repository.Category, error)
	Delete(ctx context.Context, categoryID string) error
}

type categoryService struct {
	repo   repository.Querier
	events events.Publisher
	logger *slog.Logger
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(repo repository.Querier, publisher events.Publisher, logger *slog.Logger) CategoryService {
	return &categoryService{repo: repo, events: publisher, logger: logger}
}

func (s *categoryService) List(ctx context.Context) ([]repository.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *categoryService) Get(ctx context.Context, categoryID string) (*repository.Category, error) {
	categoryUUID, err := parseUUID(categoryID)
	if err != nil {
		return nil, ErrInvalidID
	}
	category, err := s.repo.GetCategoryByID(ctx, categoryUUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

func (s *categoryService) Create(ctx context.Context, name string) (*repository.Category, error) {
	name = strings.TrimSpace(name)

	// Case-insensitive duplicate check keeps the catalog tree tidy.
	if _, err := s.repo.GetCategoryByName(ctx, name); err == nil {
		return nil, ErrDuplicateCategory
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}

	category, err := s.repo.CreateCategory(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.publish(ctx, uuidString(category.ID))
	return &category, nil
}

func (s *categoryService) Rename(ctx context.Context, categoryID, name string) (*repository.Category, error) {
	categoryUUID, err := parseUUID(categoryID)
	if err != nil {
		return nil, ErrInvalidID
	}
	category, err := s.repo.UpdateCategoryName(ctx, repository.UpdateCategoryNameParams{
		ID:   categoryUUID,
		Name: strings.TrimSpace(name),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to rename category: %w", err)
	}

	s.publish(ctx, categoryID)
	return &category, nil
}

func (s *categoryService) SetActive(ctx context.Context, categoryID string, active bool) (*repository.Category, error) {
	categoryUUID, err := parseUUID(categoryID)
	if err != nil {
		return nil, ErrInvalidID
	}
	category, err := s.repo.SetCategoryActive(ctx, repository.SetCategoryActiveParams{
		ID:       categoryUUID,
		IsActive: active,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to set category active: %w", err)
	}

	s.publish(ctx, categoryID)
	return &category, nil
}

func (s *categoryService) Delete(ctx context.Context, categoryID string) error {
	categoryUUID, err := parseUUID(categoryID)
	if err != nil {
		return ErrInvalidID
	}
	if err := s.repo.DeleteCategory(ctx, categoryUUID); err != nil {
		if isForeignKeyViolation(err) {
			return ErrCategoryNotEmpty
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.publish(ctx, categoryID)
	return nil
}

func (s *categoryService) publish(ctx context.Context, entityID string) {
	if err := s.events.Publish(ctx, events.SubjectCategoryChanged, entityID); err != nil {
		s.logger.Warn("failed to publish catalog event",
			slog.String("subject", events.SubjectCategoryChanged),
			slog.String("entity_id", entityID),
			slog.String("error", err.Error()))
	}
}
