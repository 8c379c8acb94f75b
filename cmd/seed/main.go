package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/chirper/config"
	"github.com/oksasatya/chirper/internal/domain/entity"
	"github.com/oksasatya/chirper/internal/domain/repository"
	"github.com/oksasatya/chirper/internal/infrastructure/mongodb"
	"github.com/oksasatya/chirper/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	client, db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoConnTimeout)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	users := mongodb.NewUserRepository(db)

	email := "demo@chirper.dev"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	u := &entity.User{
		Username:         "demo_user",
		Email:            email,
		FullName:         "Demo User",
		PasswordHash:     hash,
		ProfilePicture:   entity.DefaultProfilePicture,
		DateOfBirth:      time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		VerifyCode:       "",
		VerifyCodeExpiry: time.Now().UTC(),
		IsVerified:       true,
	}
	err = users.Create(ctx, u)
	switch {
	case err == nil:
		fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID.Hex(), email, password)
	case errors.Is(err, repository.ErrDuplicateEmail), errors.Is(err, repository.ErrDuplicateUsername):
		existing, gerr := users.GetByEmail(ctx, email)
		if gerr != nil {
			log.Fatalf("failed to fetch existing seed user: %v", gerr)
		}
		fmt.Printf("seed user already present: id=%s email=%s\n", existing.ID.Hex(), email)
	default:
		log.Fatalf("failed to seed user: %v", err)
	}
}
