package http

import (
	"github.com/restaurant-api-nosql/internal/infrastructure/dynamo"
	jwtinfra "github.com/restaurant-api-nosql/internal/infrastructure/jwt"
	s3infra "github.com/restaurant-api-nosql/internal/infrastructure/s3"
	"github.com/restaurant-api-nosql/internal/infrastructure/smtp"
	"github.com/restaurant-api-nosql/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo     *dynamo.UserRepo
	OtpRepo      *dynamo.OtpRepo
	RoleRepo     *dynamo.RoleRepo
	CategoryRepo *dynamo.CategoryRepo
	DishRepo     *dynamo.DishRepo
	S3Store      *s3infra.Store
	Mailer       smtp.Mailer
	SMSSender    sns.SMSSender
	JWTProvider  *jwtinfra.Provider
}
