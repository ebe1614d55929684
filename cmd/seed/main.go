// Command seed creates the initial admin account so a fresh database is
// usable. Safe to run repeatedly.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/pricecast/backend/internal/config"
	"github.com/pricecast/backend/internal/logging"
)

const defaultAdminEmail = "admin@pricecast.local"

func main() {
	_ = godotenv.Load()
	_ = godotenv.Load("../.env")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}
	defer pool.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logging.Fatal("hash password failed", "error", err)
	}

	tag, err := pool.Exec(ctx, `
		INSERT INTO users (email, name, password_hash, roles)
		VALUES ($1, 'Admin User', $2, '{admin}')
		ON CONFLICT (email) DO NOTHING`,
		defaultAdminEmail, string(hash))
	if err != nil {
		logging.Fatal("seed admin failed", "error", err)
	}
	if tag.RowsAffected() == 0 {
		slog.Info("admin user already exists", "email", defaultAdminEmail)
		return
	}
	slog.Info("seeded admin user", "email", defaultAdminEmail)
}
