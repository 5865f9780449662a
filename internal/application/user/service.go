package user

import (
	"context"
	"fmt"
	"time"

	"github.com/restaurant-api-nosql/internal/domain"
	"github.com/restaurant-api-nosql/internal/infrastructure/sns"
	"github.com/restaurant-api-nosql/internal/pkg/emailcheck"
	"github.com/restaurant-api-nosql/internal/pkg/id"
	"github.com/restaurant-api-nosql/internal/pkg/password"
	"golang.org/x/crypto/bcrypt"
	"log/slog"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName              = "name"
	fieldPhoneNumber       = "phone_number"
	fieldProfileImage      = "profile_image"
	fieldAddress           = "address"
	fieldIsActive          = "is_active"
	fieldIsProfileComplete = "is_profile_complete"
)

type Service interface {
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error)
	AddStaffMember(ctx context.Context, req domain.AddStaffRequest) (*domain.User, error)
	List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error)
	ToggleActive(ctx context.Context, userID string) (*domain.User, error)
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
}

type roleStore interface {
	GetByName(ctx context.Context, name string) (*domain.Role, error)
}

type service struct {
	repo          userStore
	roleRepo      roleStore
	smsSender     sns.SMSSender
	opsAlertPhone string
}

type ServiceDeps struct {
	UserRepo      userStore
	RoleRepo      roleStore
	SMSSender     sns.SMSSender
	OpsAlertPhone string
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:          deps.UserRepo,
		roleRepo:      deps.RoleRepo,
		smsSender:     deps.SMSSender,
		opsAlertPhone: deps.OpsAlertPhone,
	}
}

func (s *service) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

// UpdateProfile updates name/phone/image/address. Role, password and email
// are never touched here. A profile with name, phone and a street address is
// marked complete.
func (s *service) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		u.Name = *req.Name
		updates[fieldName] = u.Name
	}
	if req.PhoneNumber != nil {
		u.PhoneNumber = *req.PhoneNumber
		updates[fieldPhoneNumber] = u.PhoneNumber
	}
	if req.ProfileImage != nil {
		u.ProfileImage = *req.ProfileImage
		updates[fieldProfileImage] = u.ProfileImage
	}
	if req.Address != nil {
		u.Address = *req.Address
		updates[fieldAddress] = u.Address
	}
	if len(updates) == 0 {
		return u, nil
	}

	if complete := u.Name != "" && u.PhoneNumber != "" && u.Address.Street != ""; complete != u.IsProfileComplete {
		u.IsProfileComplete = complete
		updates[fieldIsProfileComplete] = complete
	}

	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

// AddStaffMember creates a staff credential. Email and password run through
// the same policy checks as self-registration.
func (s *service) AddStaffMember(ctx context.Context, req domain.AddStaffRequest) (*domain.User, error) {
	emailRes := emailcheck.Validate(req.Email)
	if !emailRes.Valid {
		return nil, domain.NewValidationError("Please enter a valid email address.", emailRes.Errors, emailRes.Warnings)
	}
	if ok, reasons := password.Validate(req.Password, true); !ok {
		return nil, domain.NewValidationError("Password is not strong enough.", reasons, nil)
	}
	if _, err := s.repo.GetByEmail(ctx, emailRes.Normalized); err == nil {
		return nil, fmt.Errorf("User already exists with this email.: %w", domain.ErrConflict)
	}
	role, err := s.roleRepo.GetByName(ctx, domain.RoleStaff)
	if err != nil {
		return nil, fmt.Errorf("Staff role not found.: %w", domain.ErrNotFound)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Name:         req.Name,
		Email:        emailRes.Normalized,
		PasswordHash: string(hash),
		RoleID:       role.RoleID,
		RoleName:     role.Name,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, err
	}

	if s.smsSender != nil && s.opsAlertPhone != "" {
		if err := s.smsSender.SendSMS(ctx, s.opsAlertPhone, "Staff member added: "+u.Email); err != nil {
			slog.Warn("ops alert sms failed", "err", err)
		}
	}
	return u, nil
}

func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error) {
	if limit < 1 {
		limit = 50
	}
	return s.repo.ScanPage(ctx, int32(limit), cursor)
}

// ToggleActive flips the is_active flag on a credential.
func (s *service) ToggleActive(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("User not found.: %w", domain.ErrNotFound)
	}
	u.IsActive = !u.IsActive
	if err := s.repo.Update(ctx, userID, map[string]interface{}{fieldIsActive: u.IsActive}); err != nil {
		return nil, err
	}
	return u, nil
}
