package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

const userColumns = `id, login, password_hash, name, gender, birthday, admin,
	created_on, created_by, modified_on, modified_by, revoked_on, revoked_by`

// PostgresUserRepository implements UserRepository backed by PostgreSQL.
// The unique index on users.login is the final arbiter of login uniqueness.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository creates a new PostgreSQL-based user repository.
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{
		pool: pool,
	}
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Login, &u.PasswordHash, &u.Name, &u.Gender, &u.Birthday, &u.Admin,
		&u.CreatedOn, &u.CreatedBy, &u.ModifiedOn, &u.ModifiedBy, &u.RevokedOn, &u.RevokedBy,
	)
	return u, err
}

// GetUserByLogin returns the user with the given login, revoked or not.
func (r *PostgresUserRepository) GetUserByLogin(ctx context.Context, login string) (User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE login = $1`, userColumns)
	u, err := scanUser(r.pool.QueryRow(ctx, query, login))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("failed to get user by login: %w", err)
	}
	return u, nil
}

// ExistsByLogin reports whether any user has the given login.
func (r *PostgresUserRepository) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE login = $1)`, login).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check login existence: %w", err)
	}
	return exists, nil
}

// CreateUser inserts a new user record.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	query := fmt.Sprintf(`
		INSERT INTO users (login, password_hash, name, gender, birthday, admin, created_on, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`, userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, query,
		params.Login, params.PasswordHash, params.Name, params.Gender,
		params.Birthday, params.Admin, time.Now().UTC(), params.CreatedBy,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrLoginTaken
		}
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// UpdateUser persists all mutable fields of the user identified by user.ID.
// CreatedOn and CreatedBy are never written.
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, user User) (User, error) {
	query := fmt.Sprintf(`
		UPDATE users
		SET login = $2, password_hash = $3, name = $4, gender = $5, birthday = $6, admin = $7,
			modified_on = $8, modified_by = $9, revoked_on = $10, revoked_by = $11
		WHERE id = $1
		RETURNING %s`, userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, query,
		user.ID, user.Login, user.PasswordHash, user.Name, user.Gender, user.Birthday, user.Admin,
		user.ModifiedOn, user.ModifiedBy, user.RevokedOn, user.RevokedBy,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return User{}, ErrLoginTaken
		}
		return User{}, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

// DeleteUser removes the record permanently.
func (r *PostgresUserRepository) DeleteUser(ctx context.Context, login string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE login = $1`, login)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListActiveUsers returns all non-revoked users ordered by CreatedOn ascending.
func (r *PostgresUserRepository) ListActiveUsers(ctx context.Context) ([]User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE revoked_on IS NULL ORDER BY created_on ASC`, userColumns)
	return r.listUsers(ctx, query)
}

// ListUsersBornOnOrBefore returns users born on or before the cutoff,
// ordered by birthday ascending.
func (r *PostgresUserRepository) ListUsersBornOnOrBefore(ctx context.Context, cutoff time.Time) ([]User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE birthday IS NOT NULL AND birthday <= $1
		ORDER BY birthday ASC`, userColumns)
	return r.listUsers(ctx, query, cutoff)
}

func (r *PostgresUserRepository) listUsers(ctx context.Context, query string, args ...any) ([]User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read user rows: %w", err)
	}
	return users, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
