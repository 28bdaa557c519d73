package service

import (
	"hash/fnv"
	"math"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/pageza/tastetrail/backend/internal/models"
)

// GenerateEmbedding hashes terms into a fixed-size, L2-normalized vector.
// Identical term sets always produce identical vectors; an empty set yields
// the zero vector.
func GenerateEmbedding(terms []string) pgvector.Vector {
	vec := make([]float32, models.EmbeddingDimensions)
	for _, term := range terms {
		h := fnv.New32a()
		_, _ = h.Write([]byte(term))
		sum := h.Sum32()

		idx := sum % models.EmbeddingDimensions
		sign := float32(1)
		if sum&(1<<31) != 0 {
			sign = -1
		}
		vec[idx] += sign
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return pgvector.NewVector(vec)
}

// RecipeEmbedding embeds a recipe by its ingredient tags and name.
func RecipeEmbedding(recipe *models.Recipe) pgvector.Vector {
	terms := append([]string{}, recipe.IngredientTags...)
	terms = append(terms, IngredientTokens(recipe.Name)...)
	return GenerateEmbedding(terms)
}
