package summary

import "strings"

// EstimateTokens approximates the token cost of one word as len/4. This is
// a coarse heuristic; it keeps chunk boundaries stable across releases.
func EstimateTokens(word string) float64 {
	return float64(len(word)) / 4
}

// Chunk packs whitespace-separated words greedily into chunks whose
// estimated cost stays within maxTokens. A single word costing more than
// maxTokens becomes its own chunk. Empty text yields no chunks.
func Chunk(text string, maxTokens int) []string {
	var (
		chunks  []string
		current []string
		cost    float64
	)
	budget := float64(maxTokens)

	for _, word := range strings.Fields(text) {
		est := EstimateTokens(word)
		if len(current) > 0 && cost+est > budget {
			chunks = append(chunks, strings.Join(current, " "))
			current, cost = nil, 0
		}
		current = append(current, word)
		cost += est
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}
