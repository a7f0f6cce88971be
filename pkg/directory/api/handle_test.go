package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-directory/pkg/directory"
)

func setupRouter(t *testing.T) *chi.Mux {
	t.Helper()
	repo := directory.NewInMemoryUserRepository()
	hasher := directory.NewBcryptHasher()
	svc := directory.NewUserService(repo, hasher)

	err := directory.EnsureDefaultAdmin(context.Background(), repo, hasher, directory.AdminBootstrapConfig{
		AdminLogin:    "admin",
		AdminPassword: "admin123",
		AdminName:     "DefaultAdmin",
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	NewHandle(svc).RegisterRoutes(r)
	return r
}

func doRequest(t *testing.T, r http.Handler, method, path, actor string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if actor != "" {
		req.Header.Set(ActorHeader, actor)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createUser(t *testing.T, r http.Handler, login string) {
	t.Helper()
	w := doRequest(t, r, http.MethodPost, "/api/users", "admin", CreateUserRequest{
		Login: login, Password: "pass1234", Name: "Name", Gender: directory.GenderUnknown,
	})
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateUserEndpoint(t *testing.T) {
	r := setupRouter(t)

	t.Run("MissingActorHeader", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/api/users", "", CreateUserRequest{
			Login: "bob", Password: "pass1234", Name: "Bob", Gender: directory.GenderMale,
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Created", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/api/users", "admin", CreateUserRequest{
			Login: "bob", Password: "pass1234", Name: "Bob", Gender: directory.GenderMale,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var view directory.UserView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, "bob", view.Login)
		assert.Equal(t, "admin", view.CreatedBy)
		assert.True(t, view.IsActive)
	})

	t.Run("InvalidLoginCharacters", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/api/users", "admin", CreateUserRequest{
			Login: "bad login!", Password: "pass1234", Name: "Bob", Gender: directory.GenderMale,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ShortPassword", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/api/users", "admin", CreateUserRequest{
			Login: "carol", Password: "short1", Name: "Carol", Gender: directory.GenderFemale,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("InvalidGender", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/api/users", "admin", CreateUserRequest{
			Login: "carol", Password: "pass1234", Name: "Carol", Gender: directory.Gender(7),
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("NonAdminForbidden", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/api/users", "bob", CreateUserRequest{
			Login: "carol", Password: "pass1234", Name: "Carol", Gender: directory.GenderFemale,
		})
		assert.Equal(t, http.StatusForbidden, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Message)
	})

	t.Run("DuplicateConflict", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/api/users", "admin", CreateUserRequest{
			Login: "bob", Password: "pass1234", Name: "Bob", Gender: directory.GenderMale,
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestUpdateEndpoints(t *testing.T) {
	r := setupRouter(t)
	createUser(t, r, "bob")

	t.Run("PersonalInfo", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPut, "/api/users/bob/personal-info", "bob", UpdatePersonalInfoRequest{
			Name: "Robert", Gender: directory.GenderMale,
		})
		require.Equal(t, http.StatusOK, w.Code)

		var view directory.UserView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, "Robert", view.Name)
	})

	t.Run("PersonalInfoInvalidName", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPut, "/api/users/bob/personal-info", "bob", UpdatePersonalInfoRequest{
			Name: "Robert 123", Gender: directory.GenderMale,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("CyrillicNameAccepted", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPut, "/api/users/bob/personal-info", "bob", UpdatePersonalInfoRequest{
			Name: "Роберт", Gender: directory.GenderMale,
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Password", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPut, "/api/users/bob/password", "bob", UpdatePasswordRequest{
			NewPassword: "newpass1234",
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Login", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPut, "/api/users/bob/login", "bob", UpdateLoginRequest{
			NewLogin: "bobby",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var view directory.UserView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, "bobby", view.Login)
	})

	t.Run("LoginConflict", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPut, "/api/users/bobby/login", "bobby", UpdateLoginRequest{
			NewLogin: "admin",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("TargetNotFound", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPut, "/api/users/ghost/personal-info", "admin", UpdatePersonalInfoRequest{
			Name: "Ghost", Gender: directory.GenderUnknown,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListAndGetEndpoints(t *testing.T) {
	r := setupRouter(t)
	createUser(t, r, "bob")

	t.Run("ListActive", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, "/api/users/active", "admin", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var views []directory.UserView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
		require.Len(t, views, 2)
		assert.Equal(t, "admin", views[0].Login)
		assert.Equal(t, "bob", views[1].Login)
	})

	t.Run("ListActiveNonAdmin", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, "/api/users/active", "bob", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("BriefView", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, "/api/users/bob", "admin", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Contains(t, body, "name")
		assert.Contains(t, body, "is_active")
		assert.NotContains(t, body, "id")
		assert.NotContains(t, body, "created_by")
	})

	t.Run("OlderThan", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, "/api/users/older-than/18", "admin", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var views []directory.UserView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
		assert.Empty(t, views)
	})

	t.Run("OlderThanNegative", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, "/api/users/older-than/-1", "admin", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("OlderThanNotANumber", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, "/api/users/older-than/abc", "admin", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthenticateEndpoint(t *testing.T) {
	r := setupRouter(t)
	createUser(t, r, "bob")

	t.Run("CorrectCredentials", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/api/users/authenticate", "", AuthenticateRequest{
			Login: "bob", Password: "pass1234",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var view directory.UserView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, "bob", view.Login)
	})

	t.Run("WrongPasswordAndUnknownUserLookAlike", func(t *testing.T) {
		wrong := doRequest(t, r, http.MethodPost, "/api/users/authenticate", "", AuthenticateRequest{
			Login: "bob", Password: "wrongpass",
		})
		unknown := doRequest(t, r, http.MethodPost, "/api/users/authenticate", "", AuthenticateRequest{
			Login: "ghost", Password: "wrongpass",
		})
		assert.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	})

	t.Run("MissingFields", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/api/users/authenticate", "", AuthenticateRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteAndRestoreEndpoints(t *testing.T) {
	r := setupRouter(t)
	createUser(t, r, "bob")

	t.Run("SoftDelete", func(t *testing.T) {
		w := doRequest(t, r, http.MethodDelete, "/api/users/bob", "admin", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("RevokedSelfServiceForbidden", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPut, "/api/users/bob/password", "bob", UpdatePasswordRequest{
			NewPassword: "newpass1234",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Restore", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/api/users/bob/restore", "admin", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var view directory.UserView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.True(t, view.IsActive)
		assert.Nil(t, view.RevokedOn)
	})

	t.Run("SelfDeleteForbidden", func(t *testing.T) {
		w := doRequest(t, r, http.MethodDelete, "/api/users/admin", "admin", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("HardDelete", func(t *testing.T) {
		w := doRequest(t, r, http.MethodDelete, "/api/users/bob?hard=true", "admin", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())

		get := doRequest(t, r, http.MethodGet, "/api/users/bob", "admin", nil)
		assert.Equal(t, http.StatusNotFound, get.Code)
	})

	t.Run("BadHardFlag", func(t *testing.T) {
		w := doRequest(t, r, http.MethodDelete, "/api/users/admin?hard=maybe", "admin", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
