package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/restaurant-api-nosql/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockOtpStore struct{ mock.Mock }

func (m *mockOtpStore) Put(ctx context.Context, c *domain.OneTimeCode) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockOtpStore) GetActive(ctx context.Context, email, code string) (*domain.OneTimeCode, error) {
	args := m.Called(ctx, email, code)
	if c, _ := args.Get(0).(*domain.OneTimeCode); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockOtpStore) GetConsumed(ctx context.Context, email, code string) (*domain.OneTimeCode, error) {
	args := m.Called(ctx, email, code)
	if c, _ := args.Get(0).(*domain.OneTimeCode); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockOtpStore) MarkUsed(ctx context.Context, email, code string) error {
	return m.Called(ctx, email, code).Error(0)
}
func (m *mockOtpStore) Delete(ctx context.Context, email, code string) error {
	return m.Called(ctx, email, code).Error(0)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Put(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) ExistsSuperAdmin(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}

type mockRoleStore struct{ mock.Mock }

func (m *mockRoleStore) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	args := m.Called(ctx, name)
	if r, _ := args.Get(0).(*domain.Role); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

type mockSMSSender struct{ mock.Mock }

func (m *mockSMSSender) SendSMS(ctx context.Context, phone, msg string) error {
	return m.Called(ctx, phone, msg).Error(0)
}

type mockJWTSigner struct{ mock.Mock }

func (m *mockJWTSigner) Sign(userID, role string, isSuperAdmin bool) (string, error) {
	args := m.Called(userID, role, isSuperAdmin)
	return args.String(0), args.Error(1)
}

// --- builder ---

func newService(os *mockOtpStore, us *mockUserStore, rs *mockRoleStore, ml *mockMailer, jwt *mockJWTSigner) Service {
	return NewService(ServiceDeps{
		OtpRepo:     os,
		UserRepo:    us,
		RoleRepo:    rs,
		Mailer:      ml,
		JWTProvider: jwt,
		OTPWindow:   10 * time.Minute,
	})
}

func hashOf(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// --- RegisterAdmin ---

func TestRegisterAdmin_CreatesSingleton(t *testing.T) {
	us := &mockUserStore{}
	us.On("ExistsSuperAdmin", mock.Anything).Return(false, nil)
	us.On("GetByEmail", mock.Anything, "owner@bistro-verde.com").Return(nil, domain.ErrNotFound)
	us.On("Put", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "owner@bistro-verde.com" && u.IsSuperAdmin == 1 && u.IsActive
	})).Return(nil)

	svc := newService(nil, us, nil, nil, nil)
	err := svc.RegisterAdmin(context.Background(), RegisterAdminRequest{
		Name:     "Owner",
		Email:    "owner@bistro-verde.com",
		Password: "Str0ng!Pass",
	})

	require.NoError(t, err)
	us.AssertExpectations(t)
}

func TestRegisterAdmin_SecondCallConflicts(t *testing.T) {
	us := &mockUserStore{}
	us.On("ExistsSuperAdmin", mock.Anything).Return(true, nil)

	svc := newService(nil, us, nil, nil, nil)
	err := svc.RegisterAdmin(context.Background(), RegisterAdminRequest{
		Name:     "Second",
		Email:    "second@bistro-verde.com",
		Password: "An0ther!Pass",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	us.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestRegisterAdmin_DuplicateEmailConflicts(t *testing.T) {
	us := &mockUserStore{}
	us.On("ExistsSuperAdmin", mock.Anything).Return(false, nil)
	us.On("GetByEmail", mock.Anything, "owner@bistro-verde.com").Return(&domain.User{
		UserID:   "u1",
		Email:    "owner@bistro-verde.com",
		RoleName: domain.RoleCustomer,
	}, nil)

	svc := newService(nil, us, nil, nil, nil)
	err := svc.RegisterAdmin(context.Background(), RegisterAdminRequest{
		Name:     "Owner",
		Email:    "owner@bistro-verde.com",
		Password: "Str0ng!Pass",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	us.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestRegisterAdmin_WeakPasswordRejected(t *testing.T) {
	svc := newService(nil, nil, nil, nil, nil)
	err := svc.RegisterAdmin(context.Background(), RegisterAdminRequest{
		Name:     "Owner",
		Email:    "owner@bistro-verde.com",
		Password: "short",
	})

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Errors)
}

// --- Login ---

func TestLogin_UnknownEmailAndWrongPassword_SameMessage(t *testing.T) {
	hash := hashOf(t, "Corr3ct!Pass")
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "ghost@bistro-verde.com").Return(nil, domain.ErrNotFound)
	us.On("GetByEmail", mock.Anything, "real@bistro-verde.com").Return(&domain.User{
		UserID:       "u1",
		Email:        "real@bistro-verde.com",
		PasswordHash: hash,
		IsActive:     true,
	}, nil)

	svc := newService(nil, us, nil, nil, nil)

	_, errUnknown := svc.Login(context.Background(), LoginRequest{Email: "ghost@bistro-verde.com", Password: "whatever"})
	_, errWrongPw := svc.Login(context.Background(), LoginRequest{Email: "real@bistro-verde.com", Password: "Wr0ng!Pass"})

	require.Error(t, errUnknown)
	require.Error(t, errWrongPw)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
	assert.True(t, errors.Is(errUnknown, domain.ErrUnauthorized))
	assert.True(t, errors.Is(errWrongPw, domain.ErrUnauthorized))
}

func TestLogin_Success(t *testing.T) {
	hash := hashOf(t, "Corr3ct!Pass")
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "real@bistro-verde.com").Return(&domain.User{
		UserID:       "u1",
		Email:        "real@bistro-verde.com",
		PasswordHash: hash,
		RoleName:     domain.RoleStaff,
		IsActive:     true,
	}, nil)
	jwt := &mockJWTSigner{}
	jwt.On("Sign", "u1", domain.RoleStaff, false).Return("tok", nil)

	svc := newService(nil, us, nil, nil, jwt)
	res, err := svc.Login(context.Background(), LoginRequest{Email: "real@bistro-verde.com", Password: "Corr3ct!Pass"})

	require.NoError(t, err)
	assert.Equal(t, "u1", res.UserID)
	assert.Equal(t, "tok", res.Token)
}

func TestLogin_DeactivatedAccountForbidden(t *testing.T) {
	hash := hashOf(t, "Corr3ct!Pass")
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "off@bistro-verde.com").Return(&domain.User{
		UserID:       "u2",
		Email:        "off@bistro-verde.com",
		PasswordHash: hash,
		IsActive:     false,
	}, nil)

	svc := newService(nil, us, nil, nil, nil)
	_, err := svc.Login(context.Background(), LoginRequest{Email: "off@bistro-verde.com", Password: "Corr3ct!Pass"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

// --- RequestPasswordReset ---

func TestRequestPasswordReset_IssuesAndEmailsCode(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "chef@bistro-verde.com").Return(&domain.User{
		UserID: "u1", Name: "Chef", Email: "chef@bistro-verde.com",
	}, nil)

	var issued string
	os := &mockOtpStore{}
	os.On("Put", mock.Anything, mock.MatchedBy(func(c *domain.OneTimeCode) bool {
		issued = c.Code
		return c.Email == "chef@bistro-verde.com" && !c.IsUsed && len(c.Code) == 6
	})).Return(nil)

	ml := &mockMailer{}
	ml.On("SendEmail", "chef@bistro-verde.com", mock.Anything, mock.Anything).Return(nil)

	svc := newService(os, us, nil, ml, nil)
	err := svc.RequestPasswordReset(context.Background(), RequestPasswordResetRequest{Email: "chef@bistro-verde.com"})

	require.NoError(t, err)
	assert.Len(t, issued, 6)
	ml.AssertExpectations(t)
}

func TestRequestPasswordReset_UnknownEmail_NoCodeIssued(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "ghost@bistro-verde.com").Return(nil, domain.ErrNotFound)

	os := &mockOtpStore{}
	svc := newService(os, us, nil, nil, nil)
	err := svc.RequestPasswordReset(context.Background(), RequestPasswordResetRequest{Email: "ghost@bistro-verde.com"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	os.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestRequestPasswordReset_MailFailureFailsRequest(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "chef@bistro-verde.com").Return(&domain.User{
		UserID: "u1", Name: "Chef", Email: "chef@bistro-verde.com",
	}, nil)
	os := &mockOtpStore{}
	os.On("Put", mock.Anything, mock.Anything).Return(nil)
	ml := &mockMailer{}
	ml.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	svc := newService(os, us, nil, ml, nil)
	err := svc.RequestPasswordReset(context.Background(), RequestPasswordResetRequest{Email: "chef@bistro-verde.com"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstream))
}

// --- VerifyOTP ---

func TestVerifyOTP_ConsumesActiveCode(t *testing.T) {
	os := &mockOtpStore{}
	os.On("GetActive", mock.Anything, "chef@bistro-verde.com", "A1B2C3").Return(&domain.OneTimeCode{
		Email: "chef@bistro-verde.com", Code: "A1B2C3", CreatedAt: time.Now().Add(-2 * time.Minute),
	}, nil)
	os.On("MarkUsed", mock.Anything, "chef@bistro-verde.com", "A1B2C3").Return(nil)

	svc := newService(os, nil, nil, nil, nil)
	err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{Email: "chef@bistro-verde.com", OTP: "A1B2C3"})

	require.NoError(t, err)
	os.AssertExpectations(t)
}

func TestVerifyOTP_LowercaseInputAccepted(t *testing.T) {
	os := &mockOtpStore{}
	os.On("GetActive", mock.Anything, "chef@bistro-verde.com", "A1B2C3").Return(&domain.OneTimeCode{
		Email: "chef@bistro-verde.com", Code: "A1B2C3", CreatedAt: time.Now().Add(-1 * time.Minute),
	}, nil)
	os.On("MarkUsed", mock.Anything, "chef@bistro-verde.com", "A1B2C3").Return(nil)

	svc := newService(os, nil, nil, nil, nil)
	err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{Email: "chef@bistro-verde.com", OTP: "a1b2c3"})

	require.NoError(t, err)
}

func TestVerifyOTP_ExpiredCodeRejected(t *testing.T) {
	os := &mockOtpStore{}
	os.On("GetActive", mock.Anything, "chef@bistro-verde.com", "A1B2C3").Return(&domain.OneTimeCode{
		Email: "chef@bistro-verde.com", Code: "A1B2C3", CreatedAt: time.Now().Add(-11 * time.Minute),
	}, nil)

	svc := newService(os, nil, nil, nil, nil)
	err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{Email: "chef@bistro-verde.com", OTP: "A1B2C3"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	os.AssertNotCalled(t, "MarkUsed", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyOTP_FailureModesIndistinguishable(t *testing.T) {
	missing := &mockOtpStore{}
	missing.On("GetActive", mock.Anything, "chef@bistro-verde.com", "NOPE99").Return(nil, domain.ErrNotFound)

	expired := &mockOtpStore{}
	expired.On("GetActive", mock.Anything, "chef@bistro-verde.com", "NOPE99").Return(&domain.OneTimeCode{
		Email: "chef@bistro-verde.com", Code: "NOPE99", CreatedAt: time.Now().Add(-time.Hour),
	}, nil)

	raceLost := &mockOtpStore{}
	raceLost.On("GetActive", mock.Anything, "chef@bistro-verde.com", "NOPE99").Return(&domain.OneTimeCode{
		Email: "chef@bistro-verde.com", Code: "NOPE99", CreatedAt: time.Now(),
	}, nil)
	raceLost.On("MarkUsed", mock.Anything, "chef@bistro-verde.com", "NOPE99").Return(domain.ErrNotFound)

	req := VerifyOTPRequest{Email: "chef@bistro-verde.com", OTP: "NOPE99"}
	errMissing := newService(missing, nil, nil, nil, nil).VerifyOTP(context.Background(), req)
	errExpired := newService(expired, nil, nil, nil, nil).VerifyOTP(context.Background(), req)
	errRace := newService(raceLost, nil, nil, nil, nil).VerifyOTP(context.Background(), req)

	require.Error(t, errMissing)
	assert.Equal(t, errMissing.Error(), errExpired.Error())
	assert.Equal(t, errMissing.Error(), errRace.Error())
}

// --- ResetPassword ---

func TestResetPassword_RequiresVerifiedCode(t *testing.T) {
	os := &mockOtpStore{}
	os.On("GetConsumed", mock.Anything, "chef@bistro-verde.com", "A1B2C3").Return(nil, domain.ErrNotFound)

	svc := newService(os, nil, nil, nil, nil)
	err := svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Email:       "chef@bistro-verde.com",
		OTP:         "A1B2C3",
		NewPassword: "N3w!Password",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestResetPassword_UpdatesHashAndKeepsCode(t *testing.T) {
	os := &mockOtpStore{}
	os.On("GetConsumed", mock.Anything, "chef@bistro-verde.com", "A1B2C3").Return(&domain.OneTimeCode{
		Email: "chef@bistro-verde.com", Code: "A1B2C3", IsUsed: true, CreatedAt: time.Now(),
	}, nil)
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "chef@bistro-verde.com").Return(&domain.User{
		UserID: "u1", Email: "chef@bistro-verde.com",
	}, nil)
	us.On("Update", mock.Anything, "u1", mock.MatchedBy(func(m map[string]interface{}) bool {
		h, ok := m["password_hash"].(string)
		return ok && bcrypt.CompareHashAndPassword([]byte(h), []byte("N3w!Password")) == nil
	})).Return(nil)

	svc := newService(os, us, nil, nil, nil)
	err := svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Email:       "chef@bistro-verde.com",
		OTP:         "a1b2c3",
		NewPassword: "N3w!Password",
	})

	require.NoError(t, err)
	os.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	us.AssertExpectations(t)
}

// --- RequestCustomerAccount ---

func TestRequestCustomerAccount_ExistingEmailConflicts(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "taken@bistro-verde.com").Return(&domain.User{
		UserID: "u1", Email: "taken@bistro-verde.com",
	}, nil)

	os := &mockOtpStore{}
	svc := newService(os, us, nil, nil, nil)
	err := svc.RequestCustomerAccount(context.Background(), RequestCustomerAccountRequest{Email: "taken@bistro-verde.com"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	os.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestRequestCustomerAccount_PublicProviderRejected(t *testing.T) {
	svc := newService(nil, nil, nil, nil, nil)
	err := svc.RequestCustomerAccount(context.Background(), RequestCustomerAccountRequest{Email: "someone@gmail.com"})

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
}

// --- RegisterCustomer ---

func TestRegisterCustomer_CreatesUserAndDeletesCode(t *testing.T) {
	os := &mockOtpStore{}
	os.On("GetConsumed", mock.Anything, "new@bistro-verde.com", "A1B2C3").Return(&domain.OneTimeCode{
		Email: "new@bistro-verde.com", Code: "A1B2C3", IsUsed: true, CreatedAt: time.Now(),
	}, nil)
	os.On("Delete", mock.Anything, "new@bistro-verde.com", "A1B2C3").Return(nil)

	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "new@bistro-verde.com").Return(nil, domain.ErrNotFound)
	us.On("Put", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "new@bistro-verde.com" && u.RoleName == domain.RoleCustomer && u.IsSuperAdmin == 0
	})).Return(nil)

	rs := &mockRoleStore{}
	rs.On("GetByName", mock.Anything, domain.RoleCustomer).Return(&domain.Role{
		RoleID: "r1", Name: domain.RoleCustomer,
	}, nil)

	svc := newService(os, us, rs, nil, nil)
	err := svc.RegisterCustomer(context.Background(), RegisterCustomerRequest{
		Name:     "New Customer",
		Email:    "new@bistro-verde.com",
		OTP:      "a1b2c3",
		Password: "Cust0mer!Pass",
	})

	require.NoError(t, err)
	os.AssertExpectations(t)
	us.AssertExpectations(t)
}

func TestRegisterCustomer_UnverifiedCodeRejected(t *testing.T) {
	os := &mockOtpStore{}
	os.On("GetConsumed", mock.Anything, "new@bistro-verde.com", "A1B2C3").Return(nil, domain.ErrNotFound)

	us := &mockUserStore{}
	svc := newService(os, us, nil, nil, nil)
	err := svc.RegisterCustomer(context.Background(), RegisterCustomerRequest{
		Name:     "New Customer",
		Email:    "new@bistro-verde.com",
		OTP:      "A1B2C3",
		Password: "Cust0mer!Pass",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	us.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

// --- ChangePassword ---

func TestChangePassword_WrongCurrentRejected(t *testing.T) {
	hash := hashOf(t, "Curr3nt!Pass")
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", PasswordHash: hash}, nil)

	svc := newService(nil, us, nil, nil, nil)
	err := svc.ChangePassword(context.Background(), "u1", ChangePasswordRequest{
		CurrentPassword: "Wr0ng!Pass",
		NewPassword:     "N3w!Password",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestChangePassword_Success(t *testing.T) {
	hash := hashOf(t, "Curr3nt!Pass")
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", PasswordHash: hash}, nil)
	us.On("Update", mock.Anything, "u1", mock.Anything).Return(nil)

	svc := newService(nil, us, nil, nil, nil)
	err := svc.ChangePassword(context.Background(), "u1", ChangePasswordRequest{
		CurrentPassword: "Curr3nt!Pass",
		NewPassword:     "N3w!Password",
	})

	require.NoError(t, err)
	us.AssertExpectations(t)
}
