// Package api exposes the directory service over HTTP. The acting user is
// taken from the X-Acting-User-Login header; there is no cryptographic
// verification, the header is trusted as-is.
package api

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jinzhu/copier"
	"github.com/tendant/simple-directory/pkg/directory"
)

// ActorHeader names the HTTP header carrying the acting user's login.
const ActorHeader = "X-Acting-User-Login"

var (
	loginPattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	namePattern  = regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ]+$`)
)

// Handle handles HTTP requests for user management.
type Handle struct {
	userService *directory.UserService
}

// NewHandle creates a new user management handle.
func NewHandle(userService *directory.UserService) *Handle {
	return &Handle{
		userService: userService,
	}
}

// RegisterRoutes registers the user routes.
func (h *Handle) RegisterRoutes(r chi.Router) {
	r.Route("/api/users", func(r chi.Router) {
		r.Post("/", h.CreateUser)
		r.Get("/active", h.ListActiveUsers)
		r.Post("/authenticate", h.AuthenticateSelf)
		r.Get("/older-than/{age}", h.ListUsersOlderThan)
		r.Get("/{login}", h.GetUserByLogin)
		r.Put("/{login}/personal-info", h.UpdatePersonalInfo)
		r.Put("/{login}/password", h.UpdatePassword)
		r.Put("/{login}/login", h.UpdateLogin)
		r.Post("/{login}/restore", h.RestoreUser)
		r.Delete("/{login}", h.DeleteUser)
	})
}

// CreateUserRequest is the payload for creating a user.
type CreateUserRequest struct {
	Login    string           `json:"login"`
	Password string           `json:"password"`
	Name     string           `json:"name"`
	Gender   directory.Gender `json:"gender"`
	Birthday *time.Time       `json:"birthday,omitempty"`
	IsAdmin  bool             `json:"is_admin"`
}

// UpdatePersonalInfoRequest is the payload for updating profile fields.
type UpdatePersonalInfoRequest struct {
	Name     string           `json:"name"`
	Gender   directory.Gender `json:"gender"`
	Birthday *time.Time       `json:"birthday,omitempty"`
}

// UpdatePasswordRequest is the payload for changing a password.
type UpdatePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// UpdateLoginRequest is the payload for renaming a user.
type UpdateLoginRequest struct {
	NewLogin string `json:"new_login"`
}

// AuthenticateRequest is the payload for self-authentication.
type AuthenticateRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// CreateUser handles the request to create a new user.
// (POST /api/users)
func (h *Handle) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateLogin(req.Login); msg != "" {
		writeMessage(w, r, http.StatusBadRequest, msg)
		return
	}
	if msg := validatePassword(req.Password); msg != "" {
		writeMessage(w, r, http.StatusBadRequest, msg)
		return
	}
	if msg := validateName(req.Name); msg != "" {
		writeMessage(w, r, http.StatusBadRequest, msg)
		return
	}
	if !req.Gender.Valid() {
		writeMessage(w, r, http.StatusBadRequest, "gender must be 0 (female), 1 (male) or 2 (unknown)")
		return
	}

	input := directory.CreateUserInput{Admin: req.IsAdmin}
	copier.Copy(&input, &req)

	res, err := h.userService.CreateUser(r.Context(), actor, input)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeResult(w, r, res)
}

// UpdatePersonalInfo handles the request to change name, gender or birthday.
// (PUT /api/users/{login}/personal-info)
func (h *Handle) UpdatePersonalInfo(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req UpdatePersonalInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateName(req.Name); msg != "" {
		writeMessage(w, r, http.StatusBadRequest, msg)
		return
	}
	if !req.Gender.Valid() {
		writeMessage(w, r, http.StatusBadRequest, "gender must be 0 (female), 1 (male) or 2 (unknown)")
		return
	}

	var input directory.PersonalInfoInput
	copier.Copy(&input, &req)

	res, err := h.userService.UpdatePersonalInfo(r.Context(), actor, chi.URLParam(r, "login"), input)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeResult(w, r, res)
}

// UpdatePassword handles the request to change a user's password.
// (PUT /api/users/{login}/password)
func (h *Handle) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validatePassword(req.NewPassword); msg != "" {
		writeMessage(w, r, http.StatusBadRequest, msg)
		return
	}

	res, err := h.userService.UpdatePassword(r.Context(), actor, chi.URLParam(r, "login"), req.NewPassword)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeResult(w, r, res)
}

// UpdateLogin handles the request to rename a user.
// (PUT /api/users/{login}/login)
func (h *Handle) UpdateLogin(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req UpdateLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateLogin(req.NewLogin); msg != "" {
		writeMessage(w, r, http.StatusBadRequest, msg)
		return
	}

	res, err := h.userService.UpdateLogin(r.Context(), actor, chi.URLParam(r, "login"), req.NewLogin)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeResult(w, r, res)
}

// ListActiveUsers handles the request to list all active users.
// (GET /api/users/active)
func (h *Handle) ListActiveUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	res, err := h.userService.ListActiveUsers(r.Context(), actor)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeResult(w, r, res)
}

// GetUserByLogin handles the request for a user's brief view.
// (GET /api/users/{login})
func (h *Handle) GetUserByLogin(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	res, err := h.userService.GetUserByLogin(r.Context(), actor, chi.URLParam(r, "login"))
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeResult(w, r, res)
}

// AuthenticateSelf handles the credential-pair self check. It is the one
// route requiring no actor header. Not-found and wrong-password outcomes
// are collapsed into a single 401 so the route does not leak which logins
// exist.
// (POST /api/users/authenticate)
func (h *Handle) AuthenticateSelf(w http.ResponseWriter, r *http.Request) {
	var req AuthenticateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Login == "" || req.Password == "" {
		writeMessage(w, r, http.StatusBadRequest, "login and password are required")
		return
	}

	res, err := h.userService.AuthenticateSelf(r.Context(), req.Login, req.Password)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if !res.Ok() && (res.Status() == directory.StatusNotFound || res.Status() == directory.StatusUnauthenticated) {
		writeMessage(w, r, http.StatusUnauthorized, "invalid login or password")
		return
	}
	writeResult(w, r, res)
}

// ListUsersOlderThan handles the request to list users older than an age.
// (GET /api/users/older-than/{age})
func (h *Handle) ListUsersOlderThan(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	age, err := strconv.Atoi(chi.URLParam(r, "age"))
	if err != nil {
		writeMessage(w, r, http.StatusBadRequest, "age must be an integer")
		return
	}

	res, err := h.userService.ListUsersOlderThan(r.Context(), actor, age)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeResult(w, r, res)
}

// DeleteUser handles soft and hard deletion. Soft delete is the default;
// pass ?hard=true to remove the record permanently.
// (DELETE /api/users/{login})
func (h *Handle) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	hard := false
	if v := r.URL.Query().Get("hard"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeMessage(w, r, http.StatusBadRequest, "hard must be a boolean")
			return
		}
		hard = parsed
	}

	res, err := h.userService.DeleteUser(r.Context(), actor, chi.URLParam(r, "login"), hard)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeResult(w, r, res)
}

// RestoreUser handles the request to clear a soft delete.
// (POST /api/users/{login}/restore)
func (h *Handle) RestoreUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	res, err := h.userService.RestoreUser(r.Context(), actor, chi.URLParam(r, "login"))
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeResult(w, r, res)
}

func requireActor(w http.ResponseWriter, r *http.Request) (string, bool) {
	actor := r.Header.Get(ActorHeader)
	if actor == "" {
		writeMessage(w, r, http.StatusUnauthorized, ActorHeader+" header is required")
		return "", false
	}
	return actor, true
}

func validateLogin(login string) string {
	if login == "" {
		return "login is required"
	}
	if len(login) > 100 {
		return "login cannot be longer than 100 characters"
	}
	if !loginPattern.MatchString(login) {
		return "login must contain only latin letters and digits"
	}
	return ""
}

func validatePassword(password string) string {
	if len(password) < 8 {
		return "password must be at least 8 characters"
	}
	if len(password) > 100 {
		return "password cannot be longer than 100 characters"
	}
	if !loginPattern.MatchString(password) {
		return "password must contain only latin letters and digits"
	}
	return ""
}

func validateName(name string) string {
	if name == "" {
		return "name is required"
	}
	if len([]rune(name)) > 100 {
		return "name cannot be longer than 100 characters"
	}
	if !namePattern.MatchString(name) {
		return "name must contain only latin or cyrillic letters"
	}
	return ""
}
