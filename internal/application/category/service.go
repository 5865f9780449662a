package category

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/restaurant-api-nosql/internal/domain"
	"github.com/restaurant-api-nosql/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName        = "name"
	fieldDescription = "description"
	fieldIsActive    = "is_active"
)

type Service interface {
	Create(ctx context.Context, createdBy string, req domain.CreateCategoryRequest) (*domain.DishCategory, error)
	Update(ctx context.Context, categoryID string, req domain.UpdateCategoryRequest) (*domain.DishCategory, error)
	Delete(ctx context.Context, categoryID string) error // soft delete
	List(ctx context.Context, limit int, cursor string, activeOnly bool) ([]domain.DishCategory, string, error)
	Get(ctx context.Context, categoryID string) (*domain.DishCategory, error)
}

type categoryStore interface {
	Put(ctx context.Context, c *domain.DishCategory) error
	Get(ctx context.Context, categoryID string) (*domain.DishCategory, error)
	GetByName(ctx context.Context, name string) (*domain.DishCategory, error)
	Update(ctx context.Context, categoryID string, updates map[string]interface{}) error
	ScanPage(ctx context.Context, limit int32, cursor string, activeOnly bool) ([]domain.DishCategory, string, error)
}

type service struct {
	repo categoryStore
}

func NewService(repo categoryStore) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, createdBy string, req domain.CreateCategoryRequest) (*domain.DishCategory, error) {
	existing, err := s.repo.GetByName(ctx, req.Name)
	if err == nil {
		state := "already exists"
		if !existing.IsActive {
			state = "exists but is inactive"
		}
		return nil, fmt.Errorf("%s %s: %w", existing.Name, state, domain.ErrConflict)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	c := &domain.DishCategory{
		CategoryID:  id.New(),
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Update(ctx context.Context, categoryID string, req domain.UpdateCategoryRequest) (*domain.DishCategory, error) {
	if _, err := s.repo.Get(ctx, categoryID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.Description != nil {
		updates[fieldDescription] = *req.Description
	}
	if req.IsActive != nil {
		updates[fieldIsActive] = *req.IsActive
	}
	if len(updates) == 0 {
		return s.repo.Get(ctx, categoryID)
	}
	if err := s.repo.Update(ctx, categoryID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, categoryID)
}

// Delete deactivates a category. Dishes referencing it keep their reference.
func (s *service) Delete(ctx context.Context, categoryID string) error {
	if _, err := s.repo.Get(ctx, categoryID); err != nil {
		return err
	}
	return s.repo.Update(ctx, categoryID, map[string]interface{}{fieldIsActive: false})
}

func (s *service) List(ctx context.Context, limit int, cursor string, activeOnly bool) ([]domain.DishCategory, string, error) {
	if limit < 1 {
		limit = 50
	}
	return s.repo.ScanPage(ctx, int32(limit), cursor, activeOnly)
}

func (s *service) Get(ctx context.Context, categoryID string) (*domain.DishCategory, error) {
	return s.repo.Get(ctx, categoryID)
}
