package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/restaurant-api-nosql/internal/domain"
	"github.com/restaurant-api-nosql/internal/infrastructure/smtp"
	"github.com/restaurant-api-nosql/internal/infrastructure/sns"
	"github.com/restaurant-api-nosql/internal/pkg/emailcheck"
	"github.com/restaurant-api-nosql/internal/pkg/id"
	pkgotp "github.com/restaurant-api-nosql/internal/pkg/otp"
	"github.com/restaurant-api-nosql/internal/pkg/password"
	"golang.org/x/crypto/bcrypt"
)

// Uniform client-facing messages. Login and OTP failures deliberately do not
// reveal whether the email exists or the code was ever issued.
const (
	msgInvalidCredentials = "Invalid email or password."
	msgInvalidOTP         = "Invalid or expired OTP. Please request a new one."
	msgOTPNotVerified     = "OTP not verified yet or invalid. Please verify OTP first."
)

const (
	subjectPasswordReset   = "Password Reset OTP - Restaurant Management System"
	subjectCustomerAccount = "Customer Account Request - Restaurant Management System"

	tmplPasswordReset   = "password_reset_otp.html"
	tmplCustomerAccount = "customer_account_request.html"
)

type RegisterAdminRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	UserID string
	Token  string
}

type RequestPasswordResetRequest struct {
	Email string `json:"email" validate:"required"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required"`
	OTP   string `json:"otp" validate:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type RequestCustomerAccountRequest struct {
	Email string `json:"email" validate:"required"`
}

type RegisterCustomerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	OTP      string `json:"otp" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

type Service interface {
	RegisterAdmin(ctx context.Context, req RegisterAdminRequest) error
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	RequestPasswordReset(ctx context.Context, req RequestPasswordResetRequest) error
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	RequestCustomerAccount(ctx context.Context, req RequestCustomerAccountRequest) error
	RegisterCustomer(ctx context.Context, req RegisterCustomerRequest) error
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error
}

type otpStore interface {
	Put(ctx context.Context, c *domain.OneTimeCode) error
	GetActive(ctx context.Context, email, code string) (*domain.OneTimeCode, error)
	GetConsumed(ctx context.Context, email, code string) (*domain.OneTimeCode, error)
	MarkUsed(ctx context.Context, email, code string) error
	Delete(ctx context.Context, email, code string) error
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsSuperAdmin(ctx context.Context) (bool, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type roleStore interface {
	GetByName(ctx context.Context, name string) (*domain.Role, error)
}

type jwtSigner interface {
	Sign(userID, role string, isSuperAdmin bool) (string, error)
}

type service struct {
	otpRepo       otpStore
	userRepo      userStore
	roleRepo      roleStore
	mailer        smtp.Mailer
	smsSender     sns.SMSSender
	jwtProvider   jwtSigner
	otpWindow     time.Duration
	opsAlertPhone string
}

type ServiceDeps struct {
	OtpRepo       otpStore
	UserRepo      userStore
	RoleRepo      roleStore
	Mailer        smtp.Mailer
	SMSSender     sns.SMSSender
	JWTProvider   jwtSigner
	OTPWindow     time.Duration
	OpsAlertPhone string
}

func NewService(deps ServiceDeps) Service {
	window := deps.OTPWindow
	if window <= 0 {
		window = 10 * time.Minute
	}
	return &service{
		otpRepo:       deps.OtpRepo,
		userRepo:      deps.UserRepo,
		roleRepo:      deps.RoleRepo,
		mailer:        deps.Mailer,
		smsSender:     deps.SMSSender,
		jwtProvider:   deps.JWTProvider,
		otpWindow:     window,
		opsAlertPhone: deps.OpsAlertPhone,
	}
}

// RegisterAdmin creates the singleton super-admin account. A second call
// fails with a conflict regardless of the credentials supplied.
func (s *service) RegisterAdmin(ctx context.Context, req RegisterAdminRequest) error {
	email, err := validEmail(req.Email)
	if err != nil {
		return err
	}
	if err := strongPassword(req.Password); err != nil {
		return err
	}

	exists, err := s.userRepo.ExistsSuperAdmin(ctx)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("Super Admin already exists: %w", domain.ErrConflict)
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return fmt.Errorf("User already exists with this email.: %w", domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
		IsSuperAdmin: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Put(ctx, u); err != nil {
		return err
	}

	s.opsAlert(ctx, "Super admin account registered: "+email)
	return nil
}

// Login authenticates by email + password. Unknown email and wrong password
// return byte-identical errors so the response cannot be used to enumerate
// accounts.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	email := emailcheck.Validate(req.Email).Normalized
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", msgInvalidCredentials, domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%s: %w", msgInvalidCredentials, domain.ErrUnauthorized)
	}
	if !u.IsActive {
		return nil, fmt.Errorf("Account is deactivated.: %w", domain.ErrForbidden)
	}
	token, err := s.jwtProvider.Sign(u.UserID, u.RoleName, u.IsSuperAdmin == 1)
	if err != nil {
		return nil, err
	}
	return &LoginResult{UserID: u.UserID, Token: token}, nil
}

// RequestPasswordReset issues a one-time code for an existing account and
// emails it. No code is issued when validation fails or the account is
// missing.
func (s *service) RequestPasswordReset(ctx context.Context, req RequestPasswordResetRequest) error {
	email, err := validEmail(req.Email)
	if err != nil {
		return err
	}
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("No user account found with this email.: %w", domain.ErrNotFound)
	}
	return s.issueAndSend(ctx, email, u.Name, tmplPasswordReset, subjectPasswordReset)
}

// VerifyOTP consumes an outstanding code. Shared by the password-reset and
// customer-registration tracks. Every failure mode (no match, already used,
// expired) yields the same error.
func (s *service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) error {
	email := emailcheck.Validate(req.Email).Normalized
	code := pkgotp.Normalize(req.OTP)

	rec, err := s.otpRepo.GetActive(ctx, email, code)
	if err != nil {
		return fmt.Errorf("%s: %w", msgInvalidOTP, domain.ErrUnauthorized)
	}
	if rec.Expired(s.otpWindow) {
		return fmt.Errorf("%s: %w", msgInvalidOTP, domain.ErrUnauthorized)
	}
	if err := s.otpRepo.MarkUsed(ctx, email, code); err != nil {
		// Lost the consumption race, or the record vanished under us.
		return fmt.Errorf("%s: %w", msgInvalidOTP, domain.ErrUnauthorized)
	}
	return nil
}

// ResetPassword completes the reset track: requires a previously verified
// code, then re-hashes the credential. The consumed code is intentionally
// left in place.
func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	email, err := validEmail(req.Email)
	if err != nil {
		return err
	}
	if err := strongPassword(req.NewPassword); err != nil {
		return err
	}
	code := pkgotp.Normalize(req.OTP)
	if _, err := s.otpRepo.GetConsumed(ctx, email, code); err != nil {
		return fmt.Errorf("%s: %w", msgOTPNotVerified, domain.ErrUnauthorized)
	}
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("User not found with this email.: %w", domain.ErrNotFound)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.Update(ctx, u.UserID, map[string]interface{}{"password_hash": string(hash)})
}

// RequestCustomerAccount issues a one-time code for an email that must NOT
// already have an account.
func (s *service) RequestCustomerAccount(ctx context.Context, req RequestCustomerAccountRequest) error {
	email, err := validEmail(req.Email)
	if err != nil {
		return err
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return fmt.Errorf("User already exists with this email.: %w", domain.ErrConflict)
	}
	return s.issueAndSend(ctx, email, "", tmplCustomerAccount, subjectCustomerAccount)
}

// RegisterCustomer completes the registration track: requires a verified
// code, creates the credential with the customer role, and deletes the
// consumed code.
func (s *service) RegisterCustomer(ctx context.Context, req RegisterCustomerRequest) error {
	email, err := validEmail(req.Email)
	if err != nil {
		return err
	}
	if err := strongPassword(req.Password); err != nil {
		return err
	}
	code := pkgotp.Normalize(req.OTP)
	if _, err := s.otpRepo.GetConsumed(ctx, email, code); err != nil {
		return fmt.Errorf("%s: %w", msgOTPNotVerified, domain.ErrUnauthorized)
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return fmt.Errorf("User already exists with this email.: %w", domain.ErrConflict)
	}
	role, err := s.roleRepo.GetByName(ctx, domain.RoleCustomer)
	if err != nil {
		return fmt.Errorf("Customer role not found.: %w", domain.ErrNotFound)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       role.RoleID,
		RoleName:     role.Name,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Put(ctx, u); err != nil {
		return err
	}

	if err := s.otpRepo.Delete(ctx, email, code); err != nil {
		slog.Warn("failed to delete consumed otp", "email", email, "err", err)
	}
	return nil
}

// ChangePassword verifies the caller's current password before replacing it.
func (s *service) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	if err := strongPassword(req.NewPassword); err != nil {
		return err
	}
	u, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("User not found.: %w", domain.ErrNotFound)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return fmt.Errorf("Current password is incorrect.: %w", domain.ErrUnauthorized)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.Update(ctx, u.UserID, map[string]interface{}{"password_hash": string(hash)})
}

// issueAndSend inserts a fresh one-time code and emails it through the given
// template. A notification failure fails the whole request; the code record
// stays behind but is useless to an attacker who never saw it.
func (s *service) issueAndSend(ctx context.Context, email, name, tmpl, subject string) error {
	code, err := pkgotp.NewCode(pkgotp.CodeLength)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	rec := &domain.OneTimeCode{
		Email:     email,
		Code:      code,
		IsUsed:    false,
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour).Unix(), // TTL retention only, not validity
	}
	if err := s.otpRepo.Put(ctx, rec); err != nil {
		return err
	}

	minutes := int(s.otpWindow / time.Minute)
	body, err := renderTemplate(tmpl, templateData{
		Name:          name,
		Email:         email,
		Code:          code,
		ExpiryMinutes: minutes,
	})
	if err != nil {
		return err
	}
	if err := s.mailer.SendEmail(email, subject, body); err != nil {
		return fmt.Errorf("Failed to send email.: %w", domain.ErrUpstream)
	}
	return nil
}

// opsAlert sends a best-effort SMS to the configured ops number. Failures are
// logged, never surfaced.
func (s *service) opsAlert(ctx context.Context, message string) {
	if s.smsSender == nil || s.opsAlertPhone == "" {
		return
	}
	if err := s.smsSender.SendSMS(ctx, s.opsAlertPhone, message); err != nil {
		slog.Warn("ops alert sms failed", "err", err)
	}
}

func validEmail(raw string) (string, error) {
	res := emailcheck.Validate(raw)
	if !res.Valid {
		return "", domain.NewValidationError("Please enter a valid email address.", res.Errors, res.Warnings)
	}
	return res.Normalized, nil
}

func strongPassword(raw string) error {
	if ok, reasons := password.Validate(raw, true); !ok {
		return domain.NewValidationError("Password is not strong enough.", reasons, nil)
	}
	return nil
}
