package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/restaurant-api-nosql/internal/application/role"
	"github.com/restaurant-api-nosql/internal/config"
	"github.com/restaurant-api-nosql/internal/infrastructure/dynamo"
	jwtinfra "github.com/restaurant-api-nosql/internal/infrastructure/jwt"
	s3infra "github.com/restaurant-api-nosql/internal/infrastructure/s3"
	"github.com/restaurant-api-nosql/internal/infrastructure/smtp"
	"github.com/restaurant-api-nosql/internal/infrastructure/sns"
	transporthttp "github.com/restaurant-api-nosql/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	roleRepo := dynamo.NewRoleRepo(dynamoClient, cfg.DynamoTables.Roles)

	// Seed the customer and staff roles so onboarding can always resolve them.
	if err := role.NewService(roleRepo).EnsureDefaults(context.Background()); err != nil {
		log.Printf("WARN: could not seed default roles: %v", err)
	}

	// JWT provider (optional, graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// S3 store for dish images.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender (optional, graceful fallback).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:     dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		OtpRepo:      dynamo.NewOtpRepo(dynamoClient, cfg.DynamoTables.Otps),
		RoleRepo:     roleRepo,
		CategoryRepo: dynamo.NewCategoryRepo(dynamoClient, cfg.DynamoTables.DishCategories),
		DishRepo:     dynamo.NewDishRepo(dynamoClient, cfg.DynamoTables.Dishes),
		S3Store:      s3Store,
		Mailer:       mailer,
		SMSSender:    smsSender,
		JWTProvider:  jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
