// Package config holds the environment-driven configuration for the
// directory service.
package config

import "fmt"

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host     string `env:"DIRECTORY_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"DIRECTORY_PG_PORT" env-default:"5432"`
	Database string `env:"DIRECTORY_PG_DATABASE" env-default:"directory_db"`
	User     string `env:"DIRECTORY_PG_USER" env-default:"directory"`
	Password string `env:"DIRECTORY_PG_PASSWORD" env-default:"pwd"`
	Schema   string `env:"DIRECTORY_PG_SCHEMA" env-default:"public"`
}

// ToDatabaseURL converts the config to a PostgreSQL connection URL.
func (d DatabaseConfig) ToDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s,public",
		d.User, d.Password, d.Host, d.Port, d.Database, d.Schema)
}

// InitialAdminConfig holds the bootstrap admin credentials. The user is
// created on first start only.
type InitialAdminConfig struct {
	Login    string `env:"INITIAL_ADMIN_LOGIN" env-default:"admin"`
	Password string `env:"INITIAL_ADMIN_PASSWORD" env-default:"admin123"`
	Name     string `env:"INITIAL_ADMIN_NAME" env-default:"DefaultAdmin"`
}

// Config is the full service configuration.
type Config struct {
	DatabaseConfig     DatabaseConfig
	InitialAdminConfig InitialAdminConfig
}
