package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/platefeed/backend/internal/service"
)

func TestGenerateEmbeddingDeterministic(t *testing.T) {
	a := service.GenerateEmbedding("Borscht with beets")
	b := service.GenerateEmbedding("Borscht with beets")
	assert.Equal(t, a, b)
	assert.Len(t, a.Slice(), 4)

	c := service.GenerateEmbedding("Pancakes")
	assert.NotEqual(t, a, c)

	// Profile features: 18 runes, 3 words, 4 vowels, 10 distinct letters.
	assert.Equal(t, []float32{18, 3, 4, 10}, a.Slice())
}
