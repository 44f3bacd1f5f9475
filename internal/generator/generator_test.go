package generator

import (
	"testing"

	"github.com/verte-zerg/wordwise/internal/model"
)

func pool(n int) []model.Question {
	out := make([]model.Question, n)
	for i := range out {
		out[i] = model.Question{ID: int64(i + 1)}
	}
	return out
}

func TestSampleDistinct(t *testing.T) {
	g := NewWithSeed(7)
	src := pool(8)
	got := g.Sample(src, 5)
	if len(got) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(got))
	}
	seen := map[int64]bool{}
	for _, q := range got {
		if seen[q.ID] {
			t.Fatalf("duplicate question %d in sample", q.ID)
		}
		seen[q.ID] = true
	}
	for i, q := range src {
		if q.ID != int64(i+1) {
			t.Fatalf("sample mutated the source pool")
		}
	}
}

func TestSampleSmallPool(t *testing.T) {
	g := NewWithSeed(1)
	got := g.Sample(pool(3), 5)
	if len(got) != 3 {
		t.Fatalf("expected all 3 questions, got %d", len(got))
	}
}

func TestShuffleFirstPositionSpread(t *testing.T) {
	g := NewWithSeed(42)
	src := pool(4)
	counts := map[int64]int{}
	const rounds = 4000
	for i := 0; i < rounds; i++ {
		counts[g.Shuffle(src)[0].ID]++
	}
	for id := int64(1); id <= 4; id++ {
		// Expected 1000 each; a biased sort-based shuffle lands far outside this band.
		if counts[id] < 850 || counts[id] > 1150 {
			t.Fatalf("question %d led %d/%d shuffles", id, counts[id], rounds)
		}
	}
}
