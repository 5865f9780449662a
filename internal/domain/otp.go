package domain

import "time"

// OneTimeCode proves control of an email address before a sensitive action.
// PK: email, SK: code. Multiple outstanding codes per email may coexist;
// a new request always inserts a new record.
//
// ExpiresAt is only a DynamoDB TTL hint for retention; validity is always
// evaluated from CreatedAt at verification time.
type OneTimeCode struct {
	Email     string    `json:"email" dynamodbav:"email"`
	Code      string    `json:"code" dynamodbav:"code"`
	IsUsed    bool      `json:"is_used" dynamodbav:"is_used"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt int64     `json:"expires_at" dynamodbav:"expires_at"`
}

// Expired reports whether the code is older than the validity window.
func (c *OneTimeCode) Expired(window time.Duration) bool {
	return time.Since(c.CreatedAt) > window
}
