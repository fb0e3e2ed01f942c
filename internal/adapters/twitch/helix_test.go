package twitch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserByLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users", r.URL.Path)
		assert.Equal(t, "glum", r.URL.Query().Get("login"))
		assert.Equal(t, "test-client", r.Header.Get("Client-Id"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		_, _ = w.Write([]byte(`{"data": [{"id": "100", "login": "glum"}]}`))
	}))
	defer server.Close()

	h := NewHelix(server.URL, "test-client", "test-token")

	user, err := h.UserByLogin(context.Background(), "glum")
	require.NoError(t, err)

	assert.Equal(t, "100", user.ID)
	assert.Equal(t, "glum", user.Name)
}

func TestUserByLoginNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	h := NewHelix(server.URL, "test-client", "test-token")

	_, err := h.UserByLogin(context.Background(), "nobody")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nobody")
}

func TestUserByLoginServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	h := NewHelix(server.URL, "test-client", "test-token")

	_, err := h.UserByLogin(context.Background(), "glum")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestIsFollowing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channels/followers", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("user_id"))
		assert.Equal(t, "100", r.URL.Query().Get("broadcaster_id"))

		_, _ = w.Write([]byte(`{"total": 1, "data": [{"user_id": "7"}]}`))
	}))
	defer server.Close()

	h := NewHelix(server.URL, "test-client", "test-token")

	following, err := h.IsFollowing(context.Background(), "7", "100")
	require.NoError(t, err)
	assert.True(t, following)
}

func TestIsNotFollowing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"total": 0, "data": []}`))
	}))
	defer server.Close()

	h := NewHelix(server.URL, "test-client", "test-token")

	following, err := h.IsFollowing(context.Background(), "7", "100")
	require.NoError(t, err)
	assert.False(t, following)
}
