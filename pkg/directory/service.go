package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// UserService provides the directory operations. Every operation resolves
// the acting user first, authorizes it against the target, applies the
// mutation with audit stamps, and returns a Result. Store failures are
// returned as plain errors and left to the boundary layer.
type UserService struct {
	repo   UserRepository
	hasher PasswordHasher
}

// NewUserService creates a new user service.
func NewUserService(repo UserRepository, hasher PasswordHasher) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
	}
}

// CreateUserInput carries the fields for creating a user.
type CreateUserInput struct {
	Login    string
	Password string
	Name     string
	Gender   Gender
	Birthday *time.Time
	Admin    bool
}

// PersonalInfoInput carries the mutable profile fields.
type PersonalInfoInput struct {
	Name     string
	Gender   Gender
	Birthday *time.Time
}

// ErrActorRevoked is returned by actor resolution when the claimed actor
// exists but has been revoked. Revoked users can never act, including on
// their own record.
var ErrActorRevoked = errors.New("acting user is revoked")

// getActor resolves the acting user by login. A blank or unknown login
// resolves to no actor (ErrUserNotFound); a revoked user resolves to
// ErrActorRevoked, which callers classify as forbidden rather than
// unauthenticated.
func (s *UserService) getActor(ctx context.Context, actorLogin string) (User, error) {
	if strings.TrimSpace(actorLogin) == "" {
		return User{}, ErrUserNotFound
	}

	actor, err := s.repo.GetUserByLogin(ctx, actorLogin)
	if err != nil {
		return User{}, err
	}
	if !actor.IsActive() {
		return User{}, ErrActorRevoked
	}
	return actor, nil
}

// actorFailure classifies an actor-resolution error. The third return is
// false for infrastructure errors, which propagate unchanged.
func actorFailure(err error) (string, Status, bool) {
	switch {
	case errors.Is(err, ErrActorRevoked):
		return "inactive user cannot perform operations", StatusForbidden, true
	case errors.Is(err, ErrUserNotFound):
		return "acting user not found", StatusUnauthenticated, true
	}
	return "", 0, false
}

// canModify is the shared permission predicate for the three update
// operations: an admin may change anyone, a user may change itself only
// while active.
func canModify(actor, target User) bool {
	return actor.Admin || (actor.ID == target.ID && target.IsActive())
}

func (s *UserService) stamp(u *User, actor User) {
	now := time.Now().UTC()
	u.ModifiedOn = &now
	login := actor.Login
	u.ModifiedBy = &login
}

// CreateUser creates a new user. Admin only; the login must be unique
// across all users, revoked ones included.
func (s *UserService) CreateUser(ctx context.Context, actorLogin string, input CreateUserInput) (Result[UserView], error) {
	actor, err := s.getActor(ctx, actorLogin)
	if err != nil {
		if msg, st, ok := actorFailure(err); ok {
			return Failure[UserView](msg, st), nil
		}
		return Result[UserView]{}, err
	}
	if !actor.Admin {
		return Failure[UserView]("only an administrator can create users", StatusForbidden), nil
	}

	exists, err := s.repo.ExistsByLogin(ctx, input.Login)
	if err != nil {
		return Result[UserView]{}, err
	}
	if exists {
		return Failure[UserView](fmt.Sprintf("user with login %q already exists", input.Login), StatusConflict), nil
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return Failure[UserView](fmt.Sprintf("invalid password: %v", err), StatusInvalid), nil
	}

	user, err := s.repo.CreateUser(ctx, CreateUserParams{
		Login:        input.Login,
		PasswordHash: hash,
		Name:         input.Name,
		Gender:       input.Gender,
		Birthday:     input.Birthday,
		Admin:        input.Admin,
		CreatedBy:    actor.Login,
	})
	if err != nil {
		// Two concurrent creates can both pass the existence check; the
		// store constraint decides.
		if errors.Is(err, ErrLoginTaken) {
			return Failure[UserView](fmt.Sprintf("user with login %q already exists", input.Login), StatusConflict), nil
		}
		return Result[UserView]{}, err
	}

	slog.Info("user created", "login", user.Login, "actor", actor.Login)
	return Succeed(ViewFromUser(user), StatusCreated), nil
}

// loadTargetForUpdate resolves the actor and the target and applies the
// shared admin-or-active-self permission check.
func (s *UserService) loadTargetForUpdate(ctx context.Context, actorLogin, targetLogin string) (actor, target User, failure *Result[UserView], err error) {
	actor, err = s.getActor(ctx, actorLogin)
	if err != nil {
		if msg, st, ok := actorFailure(err); ok {
			res := Failure[UserView](msg, st)
			return User{}, User{}, &res, nil
		}
		return User{}, User{}, nil, err
	}

	target, err = s.repo.GetUserByLogin(ctx, targetLogin)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			res := Failure[UserView]("user to update not found", StatusNotFound)
			return User{}, User{}, &res, nil
		}
		return User{}, User{}, nil, err
	}

	if !canModify(actor, target) {
		res := Failure[UserView]("not allowed to change this user", StatusForbidden)
		return User{}, User{}, &res, nil
	}
	return actor, target, nil, nil
}

// UpdatePersonalInfo changes the target's name, gender and birthday.
// Allowed for an admin, or for the user itself while active.
func (s *UserService) UpdatePersonalInfo(ctx context.Context, actorLogin, targetLogin string, input PersonalInfoInput) (Result[UserView], error) {
	actor, target, failure, err := s.loadTargetForUpdate(ctx, actorLogin, targetLogin)
	if err != nil {
		return Result[UserView]{}, err
	}
	if failure != nil {
		return *failure, nil
	}

	target.Name = input.Name
	target.Gender = input.Gender
	target.Birthday = input.Birthday
	s.stamp(&target, actor)

	updated, err := s.repo.UpdateUser(ctx, target)
	if err != nil {
		return Result[UserView]{}, err
	}

	slog.Info("user personal info updated", "login", updated.Login, "actor", actor.Login)
	return Succeed(ViewFromUser(updated)), nil
}

// UpdatePassword changes the target's password. Allowed for an admin, or
// for the user itself while active.
func (s *UserService) UpdatePassword(ctx context.Context, actorLogin, targetLogin, newPassword string) (Result[None], error) {
	actor, target, failure, err := s.loadTargetForUpdate(ctx, actorLogin, targetLogin)
	if err != nil {
		return Result[None]{}, err
	}
	if failure != nil {
		return Failure[None](failure.Message(), failure.Status()), nil
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return Failure[None](fmt.Sprintf("invalid password: %v", err), StatusInvalid), nil
	}

	target.PasswordHash = hash
	s.stamp(&target, actor)

	if _, err := s.repo.UpdateUser(ctx, target); err != nil {
		return Result[None]{}, err
	}

	slog.Info("user password updated", "login", target.Login, "actor", actor.Login)
	return Succeed(None{}), nil
}

// UpdateLogin renames the target. The new login must stay unique across all
// users unless it is unchanged.
func (s *UserService) UpdateLogin(ctx context.Context, actorLogin, targetLogin, newLogin string) (Result[UserView], error) {
	actor, target, failure, err := s.loadTargetForUpdate(ctx, actorLogin, targetLogin)
	if err != nil {
		return Result[UserView]{}, err
	}
	if failure != nil {
		return *failure, nil
	}

	if target.Login != newLogin {
		exists, err := s.repo.ExistsByLogin(ctx, newLogin)
		if err != nil {
			return Result[UserView]{}, err
		}
		if exists {
			return Failure[UserView](fmt.Sprintf("login %q already taken", newLogin), StatusConflict), nil
		}
	}

	target.Login = newLogin
	s.stamp(&target, actor)

	updated, err := s.repo.UpdateUser(ctx, target)
	if err != nil {
		if errors.Is(err, ErrLoginTaken) {
			return Failure[UserView](fmt.Sprintf("login %q already taken", newLogin), StatusConflict), nil
		}
		return Result[UserView]{}, err
	}

	slog.Info("user login changed", "old_login", targetLogin, "new_login", updated.Login, "actor", actor.Login)
	return Succeed(ViewFromUser(updated)), nil
}

// ListActiveUsers returns all non-revoked users ordered by creation time.
// Admin only.
func (s *UserService) ListActiveUsers(ctx context.Context, actorLogin string) (Result[[]UserView], error) {
	if failure, err := s.requireAdmin(ctx, actorLogin); err != nil || failure != nil {
		if err != nil {
			return Result[[]UserView]{}, err
		}
		return Failure[[]UserView](failure.Message(), failure.Status()), nil
	}

	users, err := s.repo.ListActiveUsers(ctx)
	if err != nil {
		return Result[[]UserView]{}, err
	}
	return Succeed(viewsFromUsers(users)), nil
}

// GetUserByLogin returns the brief view of a user. Admin only.
func (s *UserService) GetUserByLogin(ctx context.Context, actorLogin, targetLogin string) (Result[UserBriefView], error) {
	if failure, err := s.requireAdmin(ctx, actorLogin); err != nil || failure != nil {
		if err != nil {
			return Result[UserBriefView]{}, err
		}
		return Failure[UserBriefView](failure.Message(), failure.Status()), nil
	}

	user, err := s.repo.GetUserByLogin(ctx, targetLogin)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Failure[UserBriefView]("user not found", StatusNotFound), nil
		}
		return Result[UserBriefView]{}, err
	}
	return Succeed(BriefViewFromUser(user)), nil
}

// AuthenticateSelf validates a login/password pair and returns the full
// profile. It is the one operation taking no actor: the credential pair is
// the authority. A missing or revoked user fails with StatusNotFound, a
// wrong password with StatusUnauthenticated; callers that must not leak
// account existence can collapse the two.
func (s *UserService) AuthenticateSelf(ctx context.Context, login, password string) (Result[UserView], error) {
	user, err := s.repo.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Failure[UserView]("user not found or inactive", StatusNotFound), nil
		}
		return Result[UserView]{}, err
	}
	if !user.IsActive() {
		return Failure[UserView]("user not found or inactive", StatusNotFound), nil
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return Failure[UserView](fmt.Sprintf("invalid credentials: %v", err), StatusInvalid), nil
	}
	if !ok {
		return Failure[UserView]("invalid login or password", StatusUnauthenticated), nil
	}
	return Succeed(ViewFromUser(user)), nil
}

// ListUsersOlderThan returns users older than the given age in years,
// ordered by birthday. Users without a birthday are excluded. Admin only.
func (s *UserService) ListUsersOlderThan(ctx context.Context, actorLogin string, age int) (Result[[]UserView], error) {
	if failure, err := s.requireAdmin(ctx, actorLogin); err != nil || failure != nil {
		if err != nil {
			return Result[[]UserView]{}, err
		}
		return Failure[[]UserView](failure.Message(), failure.Status()), nil
	}

	if age < 0 {
		return Failure[[]UserView]("age cannot be negative", StatusInvalid), nil
	}

	now := time.Now().UTC()
	cutoff := time.Date(now.Year()-age, now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	users, err := s.repo.ListUsersBornOnOrBefore(ctx, cutoff)
	if err != nil {
		return Result[[]UserView]{}, err
	}
	return Succeed(viewsFromUsers(users)), nil
}

// DeleteUser removes a user. Admin only; an admin may not delete itself.
// A soft delete stamps the revocation fields and is an idempotent success
// no-op on an already-revoked user. A hard delete removes the record
// permanently.
func (s *UserService) DeleteUser(ctx context.Context, actorLogin, targetLogin string, hard bool) (Result[None], error) {
	actor, err := s.getActor(ctx, actorLogin)
	if err != nil {
		if msg, st, ok := actorFailure(err); ok {
			return Failure[None](msg, st), nil
		}
		return Result[None]{}, err
	}
	if !actor.Admin {
		return Failure[None]("only an administrator can delete users", StatusForbidden), nil
	}
	if actor.Login == targetLogin {
		return Failure[None]("an administrator cannot delete itself", StatusForbidden), nil
	}

	target, err := s.repo.GetUserByLogin(ctx, targetLogin)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Failure[None]("user to delete not found", StatusNotFound), nil
		}
		return Result[None]{}, err
	}

	if hard {
		if err := s.repo.DeleteUser(ctx, target.Login); err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return Failure[None]("user to delete not found", StatusNotFound), nil
			}
			return Result[None]{}, err
		}
		slog.Info("user hard deleted", "login", target.Login, "actor", actor.Login)
		return Succeed(None{}, StatusNoContent), nil
	}

	if !target.IsActive() {
		slog.Info("user already soft deleted, no action taken", "login", target.Login, "actor", actor.Login)
		return Succeed(None{}), nil
	}

	now := time.Now().UTC()
	login := actor.Login
	target.RevokedOn = &now
	target.RevokedBy = &login
	s.stamp(&target, actor)

	if _, err := s.repo.UpdateUser(ctx, target); err != nil {
		return Result[None]{}, err
	}

	slog.Info("user soft deleted", "login", target.Login, "actor", actor.Login)
	return Succeed(None{}), nil
}

// RestoreUser clears a soft delete. Admin only; restoring an already-active
// user is a success no-op returning the current state.
func (s *UserService) RestoreUser(ctx context.Context, actorLogin, targetLogin string) (Result[UserView], error) {
	actor, err := s.getActor(ctx, actorLogin)
	if err != nil {
		if msg, st, ok := actorFailure(err); ok {
			return Failure[UserView](msg, st), nil
		}
		return Result[UserView]{}, err
	}
	if !actor.Admin {
		return Failure[UserView]("only an administrator can restore users", StatusForbidden), nil
	}

	target, err := s.repo.GetUserByLogin(ctx, targetLogin)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Failure[UserView]("user to restore not found", StatusNotFound), nil
		}
		return Result[UserView]{}, err
	}

	if target.IsActive() {
		slog.Info("user already active, no restoration needed", "login", target.Login, "actor", actor.Login)
		return Succeed(ViewFromUser(target)), nil
	}

	target.RevokedOn = nil
	target.RevokedBy = nil
	s.stamp(&target, actor)

	updated, err := s.repo.UpdateUser(ctx, target)
	if err != nil {
		return Result[UserView]{}, err
	}

	slog.Info("user restored", "login", updated.Login, "actor", actor.Login)
	return Succeed(ViewFromUser(updated)), nil
}

// requireAdmin resolves the actor and rejects non-admins. The returned
// failure uses the UserView payload type; callers with other payloads remap
// message and status.
func (s *UserService) requireAdmin(ctx context.Context, actorLogin string) (*Result[UserView], error) {
	actor, err := s.getActor(ctx, actorLogin)
	if err != nil {
		if msg, st, ok := actorFailure(err); ok {
			res := Failure[UserView](msg, st)
			return &res, nil
		}
		return nil, err
	}
	if !actor.Admin {
		res := Failure[UserView]("only an administrator can perform this operation", StatusForbidden)
		return &res, nil
	}
	return nil, nil
}

func viewsFromUsers(users []User) []UserView {
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, ViewFromUser(u))
	}
	return views
}
