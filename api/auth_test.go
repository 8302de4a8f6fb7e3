/*
auth_test.go - Unit tests for registration, login and the JWT middleware
*/
package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup_DuplicateEmailConflicts(t *testing.T) {
	// GIVEN: A registered email
	// WHEN: Signing up with it again
	// THEN: 409, and the original account still logs in

	_, srv := newTestServer(t, testDate(2025, time.June, 30))
	creds := map[string]any{"email": "dup@example.com", "password": "correcthorse"}

	resp := postJSON(t, srv.URL+"/api/signup", creds)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/signup", creds)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/login", creds)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestSignup_RejectsShortPassword(t *testing.T) {
	_, srv := newTestServer(t, testDate(2025, time.June, 30))

	resp := postJSON(t, srv.URL+"/api/signup", map[string]any{
		"email":    "short@example.com",
		"password": "short",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_WrongPasswordUnauthorized(t *testing.T) {
	_, srv := newTestServer(t, testDate(2025, time.June, 30))

	resp := postJSON(t, srv.URL+"/api/signup", map[string]any{
		"email":    "owner@example.com",
		"password": "correcthorse",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/login", map[string]any{
		"email":    "owner@example.com",
		"password": "batterystaple",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_UnknownEmailUnauthorized(t *testing.T) {
	_, srv := newTestServer(t, testDate(2025, time.June, 30))

	resp := postJSON(t, srv.URL+"/api/login", map[string]any{
		"email":    "nobody@example.com",
		"password": "correcthorse",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuth_MissingToken(t *testing.T) {
	_, srv := newTestServer(t, testDate(2025, time.June, 30))

	resp, err := http.Get(srv.URL + "/api/me/subscription-detail")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuth_GarbageToken(t *testing.T) {
	_, srv := newTestServer(t, testDate(2025, time.June, 30))

	resp := authedRequest(t, http.MethodGet, srv.URL+"/api/me/subscription-detail", "not.a.jwt", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	// A token minted under a different secret must not pass.
	h, srv := newTestServer(t, testDate(2025, time.June, 30))
	token := signupAndLogin(t, srv, "owner@example.com")

	h.JWTSecret = "rotated-secret"
	resp := authedRequest(t, http.MethodGet, srv.URL+"/api/me/subscription-detail", token, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
