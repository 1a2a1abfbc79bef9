package summary

import (
	"strings"
	"testing"
)

func TestChunk(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		maxTokens int
		want      []string
	}{
		{"empty", "", 10, nil},
		{"whitespace only", "  \n\t ", 10, nil},
		{"fits in one", "one two three", 10, []string{"one two three"}},
		// each 4-letter word costs exactly 1 token
		{"exact budget", "aaaa bbbb cccc", 2, []string{"aaaa bbbb", "cccc"}},
		{"oversized word alone", "hi " + strings.Repeat("x", 40) + " there", 5,
			[]string{"hi", strings.Repeat("x", 40), "there"}},
		{"collapses whitespace", "a\n\nb\tc", 10, []string{"a b c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Chunk(tt.text, tt.maxTokens)
			if len(got) != len(tt.want) {
				t.Fatalf("Chunk() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chunk %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func meetingTranscript(words int) string {
	vocab := []string{"we", "should", "ship", "the", "quarterly", "roadmap", "before", "Friday", "agreed", "Luca"}
	out := make([]string, words)
	for i := range out {
		out[i] = vocab[i%len(vocab)]
	}
	return strings.Join(out, " ")
}

func TestChunkReconstructionAndBudget(t *testing.T) {
	text := meetingTranscript(5000)
	chunks := Chunk(text, 2000)

	if len(chunks) < 2 {
		t.Fatalf("Chunk() = %d chunks, want >= 2", len(chunks))
	}
	if got := strings.Join(chunks, " "); got != strings.Join(strings.Fields(text), " ") {
		t.Error("chunks do not reconstruct the word sequence")
	}

	for i, c := range chunks {
		var cost float64
		words := strings.Fields(c)
		for _, w := range words {
			cost += EstimateTokens(w)
		}
		if cost > 2000 && len(words) > 1 {
			t.Errorf("chunk %d costs %.2f tokens, budget 2000", i, cost)
		}
		if c == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens("abcdef"); got != 1.5 {
		t.Errorf("EstimateTokens() = %v, want 1.5", got)
	}
}
