package dish

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/restaurant-api-nosql/internal/domain"
	"github.com/restaurant-api-nosql/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName        = "name"
	fieldDescription = "description"
	fieldPrice       = "price"
	fieldCategoryID  = "category_id"
	fieldImages      = "images"
	fieldIsAvailable = "is_available"
	fieldIsActive    = "is_active"
)

type Service interface {
	Create(ctx context.Context, createdBy string, req domain.CreateDishRequest) (*domain.Dish, error)
	Update(ctx context.Context, dishID string, req domain.UpdateDishRequest) (*domain.Dish, error)
	Delete(ctx context.Context, dishID string) error // soft delete
	List(ctx context.Context, limit int, cursor string, activeOnly bool) ([]domain.Dish, string, error)
	ListByCategory(ctx context.Context, categoryID string) ([]domain.Dish, error)
	Get(ctx context.Context, dishID string) (*domain.Dish, error)
	AttachImage(ctx context.Context, dishID, filename string, r io.Reader) (*domain.Dish, error)
}

type dishStore interface {
	Put(ctx context.Context, d *domain.Dish) error
	Get(ctx context.Context, dishID string) (*domain.Dish, error)
	Update(ctx context.Context, dishID string, updates map[string]interface{}) error
	QueryByCategory(ctx context.Context, categoryID string) ([]domain.Dish, error)
	ScanPage(ctx context.Context, limit int32, cursor string, activeOnly bool) ([]domain.Dish, string, error)
}

type categoryStore interface {
	Get(ctx context.Context, categoryID string) (*domain.DishCategory, error)
}

type imageStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type service struct {
	repo         dishStore
	categoryRepo categoryStore
	images       imageStore
	contentType  func(key string) string
}

type ServiceDeps struct {
	DishRepo     dishStore
	CategoryRepo categoryStore
	ImageStore   imageStore
	ContentType  func(key string) string
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:         deps.DishRepo,
		categoryRepo: deps.CategoryRepo,
		images:       deps.ImageStore,
		contentType:  deps.ContentType,
	}
}

func (s *service) Create(ctx context.Context, createdBy string, req domain.CreateDishRequest) (*domain.Dish, error) {
	if err := s.requireActiveCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	images := req.Images
	if images == nil {
		images = []string{}
	}
	now := time.Now().UTC()
	d := &domain.Dish{
		DishID:      id.New(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		Images:      images,
		IsAvailable: available,
		IsActive:    true,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Put(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) Update(ctx context.Context, dishID string, req domain.UpdateDishRequest) (*domain.Dish, error) {
	if _, err := s.repo.Get(ctx, dishID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.CategoryID != nil {
		if err := s.requireActiveCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		updates[fieldCategoryID] = *req.CategoryID
	}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.Description != nil {
		updates[fieldDescription] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, fmt.Errorf("price must be greater than zero: %w", domain.ErrBadRequest)
		}
		updates[fieldPrice] = *req.Price
	}
	if req.Images != nil {
		updates[fieldImages] = req.Images
	}
	if req.IsAvailable != nil {
		updates[fieldIsAvailable] = *req.IsAvailable
	}
	if req.IsActive != nil {
		updates[fieldIsActive] = *req.IsActive
	}
	if len(updates) == 0 {
		return s.repo.Get(ctx, dishID)
	}
	if err := s.repo.Update(ctx, dishID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, dishID)
}

func (s *service) Delete(ctx context.Context, dishID string) error {
	if _, err := s.repo.Get(ctx, dishID); err != nil {
		return err
	}
	return s.repo.Update(ctx, dishID, map[string]interface{}{fieldIsActive: false})
}

func (s *service) List(ctx context.Context, limit int, cursor string, activeOnly bool) ([]domain.Dish, string, error) {
	if limit < 1 {
		limit = 50
	}
	return s.repo.ScanPage(ctx, int32(limit), cursor, activeOnly)
}

// ListByCategory returns every dish referencing the category, active or not.
func (s *service) ListByCategory(ctx context.Context, categoryID string) ([]domain.Dish, error) {
	if _, err := s.categoryRepo.Get(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.repo.QueryByCategory(ctx, categoryID)
}

func (s *service) Get(ctx context.Context, dishID string) (*domain.Dish, error) {
	return s.repo.Get(ctx, dishID)
}

// AttachImage uploads an image to the object store and appends its URL to
// the dish record.
func (s *service) AttachImage(ctx context.Context, dishID, filename string, r io.Reader) (*domain.Dish, error) {
	d, err := s.repo.Get(ctx, dishID)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("dishes/%s/%s-%s", dishID, id.New(), filename)
	url, err := s.images.Upload(ctx, key, r, s.contentType(filename))
	if err != nil {
		return nil, fmt.Errorf("upload dish image: %w", domain.ErrUpstream)
	}
	images := append(d.Images, url)
	if err := s.repo.Update(ctx, dishID, map[string]interface{}{fieldImages: images}); err != nil {
		return nil, err
	}
	d.Images = images
	return d, nil
}

func (s *service) requireActiveCategory(ctx context.Context, categoryID string) error {
	c, err := s.categoryRepo.Get(ctx, categoryID)
	if err != nil || !c.IsActive {
		return fmt.Errorf("Invalid or inactive category: %w", domain.ErrBadRequest)
	}
	return nil
}
