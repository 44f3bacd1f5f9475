// Package generator builds randomized question sequences.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/wordwise/internal/model"
)

// Generator produces randomized question orderings.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Generator with a fixed seed.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Shuffle returns a uniformly shuffled copy of pool.
func (g *Generator) Shuffle(pool []model.Question) []model.Question {
	shuffled := make([]model.Question, len(pool))
	copy(shuffled, pool)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := g.rnd.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// Sample picks count distinct questions without replacement. If the pool is
// smaller than count, every question is returned in shuffled order.
func (g *Generator) Sample(pool []model.Question, count int) []model.Question {
	shuffled := g.Shuffle(pool)
	if count <= 0 || count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}
