package scoring

import (
	"math"
	"sort"
)

// Similarity returns the cosine similarity of the raw term-frequency vectors of two
// normalized texts. Empty documents, zero norms and disjoint vocabularies score 0.
func Similarity(a, b string) float64 {
	countsA := termCounts(Tokens(a))
	countsB := termCounts(Tokens(b))
	if len(countsA) == 0 || len(countsB) == 0 {
		return 0
	}

	vocab := make([]string, 0, len(countsA)+len(countsB))
	for term := range countsA {
		vocab = append(vocab, term)
	}
	for term := range countsB {
		if _, ok := countsA[term]; !ok {
			vocab = append(vocab, term)
		}
	}
	sort.Strings(vocab)

	var dot, normA, normB float64
	for _, term := range vocab {
		x := float64(countsA[term])
		y := float64(countsB[term])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if dot == 0 || normA == 0 || normB == 0 {
		return 0
	}

	score := dot / math.Sqrt(normA*normB)
	switch {
	case score > 1:
		return 1
	case score < 0 || math.IsNaN(score):
		return 0
	default:
		return score
	}
}

func termCounts(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}
	return counts
}
