package domain

type Role struct {
	RoleID      string   `json:"id" dynamodbav:"role_id"`
	Name        string   `json:"name" dynamodbav:"name"`
	Permissions []string `json:"permissions,omitempty" dynamodbav:"permissions"`
	Enable      bool     `json:"enable" dynamodbav:"enable"`
}
