package api_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/types"
)

func (s *testServer) me(t *testing.T, token string) *types.UserView {
	t.Helper()
	w := s.do(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var view types.UserView
	decodeJSON(t, w, &view)
	return &view
}

func TestMe(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "chef")

	view := s.me(t, token)
	assert.Equal(t, "chef", view.Username)
	assert.Equal(t, "chef@example.com", view.Email)
	assert.False(t, view.IsSubscribed)

	w := s.do(t, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUserAnonymous(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "chef")
	chef := s.me(t, token)

	w := s.do(t, http.MethodGet, "/api/users/"+chef.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view types.UserView
	decodeJSON(t, w, &view)
	assert.Equal(t, chef.Username, view.Username)
}

func TestAvatarLifecycleHTTP(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "chef")

	w := s.do(t, http.MethodPut, "/api/users/me/avatar", token, gin.H{"avatar": testImage})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]string
	decodeJSON(t, w, &resp)
	require.NotEmpty(t, resp["avatar"])

	view := s.me(t, token)
	assert.Equal(t, resp["avatar"], view.Avatar)

	w = s.do(t, http.MethodDelete, "/api/users/me/avatar", token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	view = s.me(t, token)
	assert.Empty(t, view.Avatar)
}

func TestAvatarRequiresBody(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "chef")

	w := s.do(t, http.MethodPut, "/api/users/me/avatar", token, gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string][]string
	decodeJSON(t, w, &body)
	assert.Contains(t, body, "avatar")
}

func TestSubscribeEndpoints(t *testing.T) {
	s := newTestServer(t)
	authorToken := s.register(t, "author")
	readerToken := s.register(t, "reader")
	author := s.me(t, authorToken)
	salt := s.seedIngredient(t, "Salt", "g")

	s.createRecipe(t, authorToken, "Borscht",
		[]gin.H{{"id": salt.ID, "amount": 5}}, nil)

	path := "/api/users/" + author.ID.String() + "/subscribe"

	w := s.do(t, http.MethodPost, path+"?recipes_limit=1", readerToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var sub types.SubscriptionView
	decodeJSON(t, w, &sub)
	assert.True(t, sub.IsSubscribed)
	assert.EqualValues(t, 1, sub.RecipesCount)
	assert.Len(t, sub.Recipes, 1)

	// Duplicate subscription conflicts.
	w = s.do(t, http.MethodPost, path, readerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/users/subscriptions", readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Count   int64                    `json:"count"`
		Results []types.SubscriptionView `json:"results"`
	}
	decodeJSON(t, w, &page)
	assert.EqualValues(t, 1, page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "author", page.Results[0].Username)

	w = s.do(t, http.MethodDelete, path, readerToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodDelete, path, readerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscribeToSelfHTTP(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "loner")
	user := s.me(t, token)

	w := s.do(t, http.MethodPost, "/api/users/"+user.ID.String()+"/subscribe", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListUsersHTTP(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alpha")
	s.register(t, "bravo")

	w := s.do(t, http.MethodGet, "/api/users?limit=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Count   int64            `json:"count"`
		Results []types.UserView `json:"results"`
	}
	decodeJSON(t, w, &page)
	assert.EqualValues(t, 2, page.Count)
	assert.Len(t, page.Results, 1)
}
