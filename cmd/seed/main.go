package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-table-reservation/config"
	"github.com/oksasatya/go-table-reservation/internal/application"
	"github.com/oksasatya/go-table-reservation/internal/infrastructure/postgres"
	"github.com/oksasatya/go-table-reservation/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	if err := postgres.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	pool, err := postgres.NewPool(ctx, cfg.PostgresDSN(), postgres.PoolOptionsFrom(cfg))
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	phone := "5550100"
	password := "password123"
	svc := application.NewUserService(postgres.NewUserRepository(pool), logger)

	u, err := svc.Register(ctx, application.RegisterInput{
		PhoneNumber: phone,
		Password:    password,
		Email:       "demo@example.com",
		Name:        "Demo Guest",
	})
	if errors.Is(err, application.ErrDuplicatePhone) {
		existing, gerr := svc.GetByPhone(ctx, phone)
		if gerr != nil {
			log.Fatalf("failed to load existing demo user: %v", gerr)
		}
		fmt.Printf("demo user already present: id=%s telephone=%s\n", existing.ID, phone)
		return
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s telephone=%s password=%s\n", u.ID, phone, password)
}
