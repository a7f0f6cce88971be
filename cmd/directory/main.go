package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/simple-directory/pkg/config"
	"github.com/tendant/simple-directory/pkg/directory"
	"github.com/tendant/simple-directory/pkg/directory/api"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load .env file if it exists (before reading environment variables)
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg := config.Config{}
	cleanenv.ReadEnv(&cfg)

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseConfig.ToDatabaseURL())
	if err != nil {
		slog.Error("Failed creating dbpool", "db", cfg.DatabaseConfig.Database,
			"host", cfg.DatabaseConfig.Host, "port", cfg.DatabaseConfig.Port, "err", err)
		os.Exit(-1)
	}
	defer pool.Close()

	repo := directory.NewPostgresUserRepository(pool)
	hasher := directory.NewBcryptHasher()
	userService := directory.NewUserService(repo, hasher)

	err = directory.EnsureDefaultAdmin(context.Background(), repo, hasher, directory.AdminBootstrapConfig{
		AdminLogin:    cfg.InitialAdminConfig.Login,
		AdminPassword: cfg.InitialAdminConfig.Password,
		AdminName:     cfg.InitialAdminConfig.Name,
	})
	if err != nil {
		slog.Error("Failed bootstrapping initial admin", "err", err)
		os.Exit(-1)
	}

	server := app.DefaultApp()
	app.RegisterHealthzRoutes(server.R)

	handle := api.NewHandle(userService)
	handle.RegisterRoutes(server.R)

	server.Run()
}
