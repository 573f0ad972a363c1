package utils

import (
	"sort"
	"strings"
)

// SearchResult pairs an item index with its similarity score.
type SearchResult struct {
	Index int
	Score float64
}

// RankBySimilarity scores every candidate against the query using bigram
// Dice similarity over the lowercased text and returns the indexes of
// candidates scoring at or above minScore, best first. Exact substring
// matches are boosted so short queries still surface obvious hits.
func RankBySimilarity(query string, candidates []string, minScore float64) []SearchResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	queryBigrams := bigrams(query)
	results := make([]SearchResult, 0, len(candidates))
	for i, candidate := range candidates {
		text := strings.ToLower(candidate)
		score := diceCoefficient(queryBigrams, bigrams(text))
		if strings.Contains(text, query) {
			score = score*0.5 + 0.5
		}
		if score >= minScore {
			results = append(results, SearchResult{Index: i, Score: score})
		}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})
	return results
}

func bigrams(s string) map[string]int {
	grams := make(map[string]int)
	runes := []rune(s)
	for i := 0; i+1 < len(runes); i++ {
		grams[string(runes[i:i+2])]++
	}
	return grams
}

func diceCoefficient(a, b map[string]int) float64 {
	totalA, totalB, overlap := 0, 0, 0
	for gram, count := range a {
		totalA += count
		if other, ok := b[gram]; ok {
			if other < count {
				overlap += other
			} else {
				overlap += count
			}
		}
	}
	for _, count := range b {
		totalB += count
	}
	if totalA+totalB == 0 {
		return 0
	}
	return 2 * float64(overlap) / float64(totalA+totalB)
}
