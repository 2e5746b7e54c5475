package service

import (
	"strings"

	pgvector "github.com/pgvector/pgvector-go"
)

// GenerateEmbedding derives a deterministic four-feature profile from recipe
// text (name plus body): rune count, word count, vowel count and distinct
// letter count. It is not a semantic model; it only gives search a stable
// distance ordering that favors recipes with a close textual profile.
func GenerateEmbedding(text string) pgvector.Vector {
	text = strings.ToLower(text)

	letters := make(map[rune]struct{})
	var runes, vowels float32
	for _, r := range text {
		runes++
		if r >= 'a' && r <= 'z' {
			letters[r] = struct{}{}
			if strings.ContainsRune("aeiou", r) {
				vowels++
			}
		}
	}

	return pgvector.NewVector([]float32{
		runes,
		float32(len(strings.Fields(text))),
		vowels,
		float32(len(letters)),
	})
}
