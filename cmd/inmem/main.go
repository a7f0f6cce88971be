// Package main runs the directory service without a database using the
// in-memory repository. Useful for:
// - Quick development and testing
// - Demo/prototype environments
// - Learning the API without database setup
//
// Note: All data is lost when the server stops. For production, use
// cmd/directory with PostgreSQL.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/tendant/chi-demo/app"
	"github.com/tendant/simple-directory/pkg/directory"
	"github.com/tendant/simple-directory/pkg/directory/api"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting in-memory directory service (no database required)")

	repo := directory.NewInMemoryUserRepository()
	hasher := directory.NewBcryptHasher()
	userService := directory.NewUserService(repo, hasher)

	err := directory.EnsureDefaultAdmin(context.Background(), repo, hasher, directory.AdminBootstrapConfig{
		AdminLogin:    "admin",
		AdminPassword: "admin123",
		AdminName:     "DefaultAdmin",
	})
	if err != nil {
		slog.Error("Failed bootstrapping initial admin", "err", err)
		os.Exit(-1)
	}

	server := app.NewApp(
		app.WithPort(4000),
	)

	handle := api.NewHandle(userService)
	handle.RegisterRoutes(server.R)

	slog.Info("Directory service ready")
	slog.Info("Test credentials: admin / admin123")
	slog.Info("Set the X-Acting-User-Login header to act as a user")

	server.Run()
}
