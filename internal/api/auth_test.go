package api_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLoginHTTP(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "chef")

	w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "chef@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	decodeJSON(t, w, &resp)
	assert.NotEmpty(t, resp.Token)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "chef@example.com",
		"password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	// Malformed email and short password are rejected before the service runs.
	w := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "chef",
		"email":    "not-an-email",
		"password": "s3cret-pass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "chef",
		"email":    "chef@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterDuplicateHTTP(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "chef")

	w := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username":   "chef",
		"email":      "other@example.com",
		"first_name": "Test",
		"last_name":  "User",
		"password":   "s3cret-pass",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	decodeJSON(t, w, &body)
	assert.Contains(t, body, "errors")
}

func TestBadTokenRejected(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/users/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
