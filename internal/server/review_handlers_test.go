package server

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTitle creates a bare title through the API and returns its path.
func buildTitle(t *testing.T, env *testEnv, admin, name string) string {
	t.Helper()
	resp := env.request(t, http.MethodPost, "/api/v1/titles", admin, fiber.Map{
		"name": name,
		"year": 1990,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	return "/api/v1/titles/" + strconv.Itoa(int(body["id"].(float64)))
}

func TestReviewEndpoints(t *testing.T) {
	env := setupTestServer(t)
	admin := env.signupAs(t, "curator", "admin")
	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")
	mod := env.signupAs(t, "mod", "moderator")

	titlePath := buildTitle(t, env, admin, "Twelve Angry Men")

	t.Run("anonymous cannot review", func(t *testing.T) {
		resp := env.request(t, http.MethodPost, titlePath+"/reviews", "", fiber.Map{
			"text": "great", "score": 9,
		})
		assertStatus(t, resp, http.StatusUnauthorized)
	})

	t.Run("score out of range", func(t *testing.T) {
		resp := env.request(t, http.MethodPost, titlePath+"/reviews", alice, fiber.Map{
			"text": "meh", "score": 11,
		})
		assertStatus(t, resp, http.StatusBadRequest)
	})

	t.Run("alice reviews once", func(t *testing.T) {
		resp := env.request(t, http.MethodPost, titlePath+"/reviews", alice, fiber.Map{
			"text": "tense and brilliant", "score": 10,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body map[string]any
		decodeBody(t, resp, &body)
		assert.Equal(t, float64(10), body["score"])
		author, ok := body["author"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "alice", author["username"])
	})

	t.Run("second review by the same author conflicts", func(t *testing.T) {
		resp := env.request(t, http.MethodPost, titlePath+"/reviews", alice, fiber.Map{
			"text": "changed my mind", "score": 5,
		})
		assertStatus(t, resp, http.StatusConflict)
	})

	t.Run("another author may review", func(t *testing.T) {
		resp := env.request(t, http.MethodPost, titlePath+"/reviews", bob, fiber.Map{
			"text": "a bit stagey", "score": 7,
		})
		assertStatus(t, resp, http.StatusCreated)
	})

	t.Run("rating is the mean of scores", func(t *testing.T) {
		resp := env.request(t, http.MethodGet, titlePath, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		decodeBody(t, resp, &body)
		require.NotNil(t, body["rating"])
		assert.InDelta(t, 8.5, body["rating"].(float64), 0.0001)
	})

	t.Run("bob cannot edit alice's review", func(t *testing.T) {
		resp := env.request(t, http.MethodPatch, titlePath+"/reviews/1", bob, fiber.Map{
			"score": 1,
		})
		assertStatus(t, resp, http.StatusForbidden)
	})

	t.Run("alice edits her own review", func(t *testing.T) {
		resp := env.request(t, http.MethodPatch, titlePath+"/reviews/1", alice, fiber.Map{
			"score": 8,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		decodeBody(t, resp, &body)
		assert.Equal(t, float64(8), body["score"])
		assert.Equal(t, "tense and brilliant", body["text"])
	})

	t.Run("review under the wrong title is 404", func(t *testing.T) {
		otherPath := buildTitle(t, env, admin, "Another Picture")
		resp := env.request(t, http.MethodGet, otherPath+"/reviews/1", "", nil)
		assertStatus(t, resp, http.StatusNotFound)
	})

	t.Run("comments on a review", func(t *testing.T) {
		resp := env.request(t, http.MethodPost, titlePath+"/reviews/1/comments", bob, fiber.Map{
			"text": "well put",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var comment map[string]any
		decodeBody(t, resp, &comment)
		author := comment["author"].(map[string]any)
		assert.Equal(t, "bob", author["username"])

		list := env.request(t, http.MethodGet, titlePath+"/reviews/1/comments", "", nil)
		var body struct {
			Comments []map[string]any `json:"comments"`
		}
		decodeBody(t, list, &body)
		assert.Len(t, body.Comments, 1)
	})

	t.Run("alice cannot delete bob's comment", func(t *testing.T) {
		resp := env.request(t, http.MethodDelete, titlePath+"/reviews/1/comments/1", alice, nil)
		assertStatus(t, resp, http.StatusForbidden)
	})

	t.Run("moderator deletes bob's comment", func(t *testing.T) {
		resp := env.request(t, http.MethodDelete, titlePath+"/reviews/1/comments/1", mod, nil)
		assertStatus(t, resp, http.StatusNoContent)
	})

	t.Run("moderator deletes bob's review", func(t *testing.T) {
		resp := env.request(t, http.MethodDelete, titlePath+"/reviews/2", mod, nil)
		assertStatus(t, resp, http.StatusNoContent)

		resp = env.request(t, http.MethodGet, titlePath, "", nil)
		var body map[string]any
		decodeBody(t, resp, &body)
		assert.InDelta(t, 8.0, body["rating"].(float64), 0.0001)
	})

	t.Run("deleting the last review nulls the rating", func(t *testing.T) {
		resp := env.request(t, http.MethodDelete, titlePath+"/reviews/1", alice, nil)
		assertStatus(t, resp, http.StatusNoContent)

		resp = env.request(t, http.MethodGet, titlePath, "", nil)
		var body map[string]any
		decodeBody(t, resp, &body)
		assert.Nil(t, body["rating"])
	})
}
