package server

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMyProfile(t *testing.T) {
	env := setupTestServer(t)
	token := env.signup(t, "carol")

	t.Run("get", func(t *testing.T) {
		resp := env.request(t, http.MethodGet, "/api/v1/users/me", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		decodeBody(t, resp, &body)
		assert.Equal(t, "carol", body["username"])
		// The confirmation hash must never leak into responses.
		_, leaked := body["ConfirmationHash"]
		assert.False(t, leaked)
	})

	t.Run("patch bio", func(t *testing.T) {
		resp := env.request(t, http.MethodPatch, "/api/v1/users/me", token, fiber.Map{
			"bio":        "reviews mostly noir",
			"first_name": "Carol",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		decodeBody(t, resp, &body)
		assert.Equal(t, "reviews mostly noir", body["bio"])
		assert.Equal(t, "Carol", body["first_name"])
	})

	t.Run("role change is silently ignored", func(t *testing.T) {
		resp := env.request(t, http.MethodPatch, "/api/v1/users/me", token, fiber.Map{
			"role": "admin",
			"bio":  "still just a user",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		decodeBody(t, resp, &body)
		assert.Equal(t, "user", body["role"])
		assert.Equal(t, "still just a user", body["bio"])
	})
}

func TestUserAdminEndpoints(t *testing.T) {
	env := setupTestServer(t)
	admin := env.signupAs(t, "root", "admin")
	plain := env.signup(t, "pleb")

	t.Run("non-admin is forbidden", func(t *testing.T) {
		resp := env.request(t, http.MethodGet, "/api/v1/users/", plain, nil)
		assertStatus(t, resp, http.StatusForbidden)
	})

	t.Run("moderator is forbidden", func(t *testing.T) {
		mod := env.signupAs(t, "mod", "moderator")
		resp := env.request(t, http.MethodPost, "/api/v1/users/", mod, fiber.Map{
			"username": "x", "email": "x@example.com",
		})
		assertStatus(t, resp, http.StatusForbidden)
	})

	t.Run("admin creates a moderator", func(t *testing.T) {
		resp := env.request(t, http.MethodPost, "/api/v1/users/", admin, fiber.Map{
			"username": "newmod",
			"email":    "newmod@example.com",
			"role":     "moderator",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body map[string]any
		decodeBody(t, resp, &body)
		assert.Equal(t, "moderator", body["role"])

		// The fresh account receives a confirmation code by mail and can
		// exchange it for a token right away.
		code := env.mail.lastCode(t)
		resp = env.request(t, http.MethodPost, "/api/v1/auth/token", "", fiber.Map{
			"username":          "newmod",
			"confirmation_code": code,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		resp := env.request(t, http.MethodPost, "/api/v1/users/", admin, fiber.Map{
			"username": "newmod",
			"email":    "different@example.com",
		})
		assertStatus(t, resp, http.StatusConflict)
	})

	t.Run("get by username", func(t *testing.T) {
		resp := env.request(t, http.MethodGet, "/api/v1/users/newmod", admin, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		decodeBody(t, resp, &body)
		assert.Equal(t, "newmod@example.com", body["email"])
	})

	t.Run("patch promotes role", func(t *testing.T) {
		resp := env.request(t, http.MethodPatch, "/api/v1/users/pleb", admin, fiber.Map{
			"role": "moderator",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		decodeBody(t, resp, &body)
		assert.Equal(t, "moderator", body["role"])
	})

	t.Run("unknown username is 404", func(t *testing.T) {
		resp := env.request(t, http.MethodGet, "/api/v1/users/ghost", admin, nil)
		assertStatus(t, resp, http.StatusNotFound)
	})

	t.Run("list with search", func(t *testing.T) {
		resp := env.request(t, http.MethodGet, "/api/v1/users/?search=newmod", admin, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Users []map[string]any `json:"users"`
		}
		decodeBody(t, resp, &body)
		require.Len(t, body.Users, 1)
		assert.Equal(t, "newmod", body.Users[0]["username"])
	})

	t.Run("delete removes the account", func(t *testing.T) {
		resp := env.request(t, http.MethodDelete, "/api/v1/users/newmod", admin, nil)
		assertStatus(t, resp, http.StatusNoContent)

		resp = env.request(t, http.MethodGet, "/api/v1/users/newmod", admin, nil)
		assertStatus(t, resp, http.StatusNotFound)
	})
}
