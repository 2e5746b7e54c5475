package api_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/types"
)

func TestListIngredients(t *testing.T) {
	s := newTestServer(t)
	s.seedIngredient(t, "Salt", "g")
	s.seedIngredient(t, "Saffron", "g")
	s.seedIngredient(t, "Beet", "pcs")

	w := s.do(t, http.MethodGet, "/api/ingredients", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var ingredients []types.IngredientView
	decodeJSON(t, w, &ingredients)
	require.Len(t, ingredients, 3)
	assert.Equal(t, "Beet", ingredients[0].Name)

	// Prefix filter is case-insensitive and anchored at the start.
	w = s.do(t, http.MethodGet, "/api/ingredients?name=sa", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &ingredients)
	require.Len(t, ingredients, 2)

	w = s.do(t, http.MethodGet, "/api/ingredients?name=alt", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &ingredients)
	assert.Empty(t, ingredients)
}

func TestListIngredientsPrefixIsLiteral(t *testing.T) {
	s := newTestServer(t)
	s.seedIngredient(t, "Salt", "g")
	s.seedIngredient(t, "Sal_t", "g")
	s.seedIngredient(t, "100% rye flour", "g")

	// LIKE metacharacters in the prefix must match themselves, not wildcards.
	w := s.do(t, http.MethodGet, "/api/ingredients?name="+url.QueryEscape("sal_"), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var ingredients []types.IngredientView
	decodeJSON(t, w, &ingredients)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "Sal_t", ingredients[0].Name)

	w = s.do(t, http.MethodGet, "/api/ingredients?name="+url.QueryEscape("100%"), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &ingredients)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "100% rye flour", ingredients[0].Name)

	// A bare wildcard prefix matches nothing rather than everything.
	w = s.do(t, http.MethodGet, "/api/ingredients?name="+url.QueryEscape("%"), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &ingredients)
	assert.Empty(t, ingredients)
}

func TestGetIngredient(t *testing.T) {
	s := newTestServer(t)
	salt := s.seedIngredient(t, "Salt", "g")

	w := s.do(t, http.MethodGet, "/api/ingredients/"+salt.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var ingredient types.IngredientView
	decodeJSON(t, w, &ingredient)
	assert.Equal(t, "Salt", ingredient.Name)
	assert.Equal(t, "g", ingredient.MeasurementUnit)

	w = s.do(t, http.MethodGet, "/api/ingredients/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTags(t *testing.T) {
	s := newTestServer(t)
	dinner := s.seedTag(t, "Dinner", "dinner")
	s.seedTag(t, "Lunch", "lunch")

	w := s.do(t, http.MethodGet, "/api/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tags []types.TagView
	decodeJSON(t, w, &tags)
	assert.Len(t, tags, 2)

	w = s.do(t, http.MethodGet, "/api/tags/"+dinner.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tag types.TagView
	decodeJSON(t, w, &tag)
	assert.Equal(t, "dinner", tag.Slug)

	w = s.do(t, http.MethodGet, "/api/tags/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
