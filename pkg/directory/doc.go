// Package directory provides the user-directory service: a single User
// entity with CRUD-style operations gated by an actor-based authorization
// scheme (admin vs. self).
//
// # Overview
//
// The directory package provides:
//   - User lifecycle management (create, update, soft/hard delete, restore)
//   - Actor resolution and admin/self permission checks
//   - Password hashing behind a PasswordHasher interface
//   - Repository pattern for database abstraction (PostgreSQL and in-memory)
//   - A uniform Result envelope classifying every outcome
//
// # Basic Usage
//
//	repo := directory.NewInMemoryUserRepository()
//	svc := directory.NewUserService(repo, directory.NewBcryptHasher())
//
//	res, err := svc.CreateUser(ctx, "admin", directory.CreateUserInput{
//		Login:    "jdoe",
//		Password: "secret1234",
//		Name:     "John",
//		Gender:   directory.GenderMale,
//	})
//	if err != nil {
//		// store failure
//	}
//	if !res.Ok() {
//		// res.Status() tells you why: forbidden, conflict, ...
//	}
//	user := res.Value()
//
// Every operation resolves the acting user by login first. A blank, unknown
// or revoked actor login is rejected before the target is touched; a revoked
// user can never act, including on its own record.
//
// # Custom Backend Implementation
//
// Implement UserRepository for alternative storage. The store must enforce
// login uniqueness as a hard constraint and report violations as
// ErrLoginTaken, since two concurrent creates can both pass the
// application-level existence check.
package directory
