package role

import (
	"context"
	"errors"
	"log/slog"

	"github.com/restaurant-api-nosql/internal/domain"
	"github.com/restaurant-api-nosql/internal/pkg/id"
)

type Service interface {
	List(ctx context.Context) ([]domain.Role, error)
	EnsureDefaults(ctx context.Context) error
}

type roleStore interface {
	Scan(ctx context.Context) ([]domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	Put(ctx context.Context, role *domain.Role) error
}

type service struct {
	repo roleStore
}

func NewService(repo roleStore) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]domain.Role, error) {
	return s.repo.Scan(ctx)
}

// EnsureDefaults seeds the customer and staff roles on startup so customer
// registration can always resolve its default role.
func (s *service) EnsureDefaults(ctx context.Context) error {
	for _, name := range []string{domain.RoleCustomer, domain.RoleStaff} {
		_, err := s.repo.GetByName(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		r := &domain.Role{RoleID: id.New(), Name: name, Enable: true}
		if err := s.repo.Put(ctx, r); err != nil {
			return err
		}
		slog.Info("seeded default role", "role", name)
	}
	return nil
}
