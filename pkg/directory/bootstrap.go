package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// SystemIdentity is the reserved creator identity used when the service
// itself creates a record. It is a sentinel outside the login namespace
// (logins are validated alphanumeric at the boundary) and is never
// persisted as a user, so nobody can authenticate as it.
const SystemIdentity = "SYSTEM"

// AdminBootstrapConfig contains configuration for bootstrapping the initial
// admin user.
type AdminBootstrapConfig struct {
	AdminLogin    string
	AdminPassword string
	AdminName     string
}

// EnsureDefaultAdmin creates the configured admin user on first start if no
// user with that login exists yet. The record is stamped with
// CreatedBy = SystemIdentity. Running it again is a no-op.
func EnsureDefaultAdmin(ctx context.Context, repo UserRepository, hasher PasswordHasher, cfg AdminBootstrapConfig) error {
	if cfg.AdminLogin == "" || cfg.AdminPassword == "" {
		return errors.New("admin login and password are required for bootstrap")
	}

	exists, err := repo.ExistsByLogin(ctx, cfg.AdminLogin)
	if err != nil {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}
	if exists {
		slog.Info("initial admin user already exists", "login", cfg.AdminLogin)
		return nil
	}

	hash, err := hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	_, err = repo.CreateUser(ctx, CreateUserParams{
		Login:        cfg.AdminLogin,
		PasswordHash: hash,
		Name:         cfg.AdminName,
		Gender:       GenderUnknown,
		Admin:        true,
		CreatedBy:    SystemIdentity,
	})
	if err != nil {
		// Lost a race against a concurrent bootstrap; the admin exists.
		if errors.Is(err, ErrLoginTaken) {
			return nil
		}
		return fmt.Errorf("failed to create initial admin: %w", err)
	}

	slog.Info("initial admin user created", "login", cfg.AdminLogin)
	return nil
}
