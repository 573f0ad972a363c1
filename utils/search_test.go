package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankBySimilarityOrdersBestFirst(t *testing.T) {
	candidates := []string{
		"Figma Icon Pack",
		"Notion Template Bundle",
		"Icon Font Generator",
	}

	results := RankBySimilarity("icon pack", candidates, 0.25)
	require.NotEmpty(t, results)
	assert.Equal(t, 0, results[0].Index)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
	}
}

func TestRankBySimilaritySubstringBoost(t *testing.T) {
	candidates := []string{"Stripe Webhook Tester", "Weather Dashboard"}

	results := RankBySimilarity("stripe", candidates, 0.25)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Index)
	// A contained query always clears the half-way mark.
	assert.GreaterOrEqual(t, results[0].Score, 0.5)
}

func TestRankBySimilarityCaseInsensitive(t *testing.T) {
	results := RankBySimilarity("NOTION", []string{"notion template bundle"}, 0.25)
	require.Len(t, results, 1)
}

func TestRankBySimilarityEmptyQuery(t *testing.T) {
	assert.Nil(t, RankBySimilarity("   ", []string{"anything"}, 0.25))
}

func TestRankBySimilarityFiltersLowScores(t *testing.T) {
	results := RankBySimilarity("kubernetes", []string{"Watercolor Brush Set"}, 0.25)
	assert.Empty(t, results)
}
