package domain

import "time"

// Role names resolved from the roles table. Super admin is a flag on the
// user record, not a role.
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
)

// Address holds the optional delivery/contact address on a user profile.
type Address struct {
	Street   string `json:"street,omitempty" dynamodbav:"street"`
	City     string `json:"city,omitempty" dynamodbav:"city"`
	State    string `json:"state,omitempty" dynamodbav:"state"`
	Zip      string `json:"zip,omitempty" dynamodbav:"zip"`
	Country  string `json:"country,omitempty" dynamodbav:"country"`
	Landmark string `json:"landmark,omitempty" dynamodbav:"landmark"`
	Note     string `json:"note,omitempty" dynamodbav:"note"`
}

// User is a credential record: identity, hashed secret, role and status flags.
// Email is stored lowercase and is unique across the table.
// IsSuperAdmin is stored as a number (0/1) so at most one record carries 1.
type User struct {
	UserID            string    `json:"id" dynamodbav:"user_id"`
	Name              string    `json:"name" dynamodbav:"name"`
	Email             string    `json:"email" dynamodbav:"email"`
	PhoneNumber       string    `json:"phone_number,omitempty" dynamodbav:"phone_number"`
	PasswordHash      string    `json:"-" dynamodbav:"password_hash"`
	RoleID            string    `json:"role_id,omitempty" dynamodbav:"role_id"`
	RoleName          string    `json:"role,omitempty" dynamodbav:"role_name"`
	ProfileImage      string    `json:"profile_image,omitempty" dynamodbav:"profile_image"`
	Address           Address   `json:"address" dynamodbav:"address"`
	IsActive          bool      `json:"is_active" dynamodbav:"is_active"`
	IsSuperAdmin      int       `json:"is_super_admin" dynamodbav:"is_super_admin"`
	IsProfileComplete bool      `json:"is_profile_complete" dynamodbav:"is_profile_complete"`
	CreatedAt         time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

type UpdateProfileRequest struct {
	Name         *string  `json:"name"`
	PhoneNumber  *string  `json:"phone_number"`
	ProfileImage *string  `json:"profile_image"`
	Address      *Address `json:"address"`
}

type AddStaffRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}
