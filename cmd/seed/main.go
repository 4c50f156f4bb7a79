package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/oksasatya/user-accounts-api/config"
	userapp "github.com/oksasatya/user-accounts-api/internal/application"
	"github.com/oksasatya/user-accounts-api/internal/domain/entity"
	pginfra "github.com/oksasatya/user-accounts-api/internal/infrastructure/postgres"
	"github.com/oksasatya/user-accounts-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	email := envOr("SEED_ADMIN_EMAIL", "admin@example.com")
	password := envOr("SEED_ADMIN_PASSWORD", "password123")
	first, last := "Demo", "Admin"

	svc := userapp.NewService(pginfra.NewUserRepository(pool), helpers.BcryptHasher{}, nil, logger)
	u, err := svc.CreateUser(ctx, userapp.CreateUserInput{
		Email:     &email,
		FirstName: &first,
		LastName:  &last,
		Roles:     []string{entity.RoleUser, entity.RoleAdmin},
		Password:  &password,
	})
	var verr *userapp.ValidationError
	switch {
	case errors.As(err, &verr):
		if _, taken := verr.Fields["email"]; taken && len(verr.Fields) == 1 {
			fmt.Printf("seed user %s already exists\n", email)
			return
		}
		log.Fatalf("seed user rejected: %v", verr.Fields)
	case err != nil:
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%d email=%s roles=%v password=%s\n", u.ID, u.Email, u.Roles, password)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
