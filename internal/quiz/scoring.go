package quiz

// Tier buckets a finished game for feedback. It is not persisted.
type Tier string

// Performance tiers.
const (
	TierTop Tier = "top"
	TierMid Tier = "mid"
	TierLow Tier = "low"
)

// Score thresholds in ticks remaining.
const (
	fastThreshold   = 20
	steadyThreshold = 10

	fastPoints   = 100
	steadyPoints = 75
	slowPoints   = 50

	maxPointsPerQuestion = fastPoints
)

// ScoreFor returns the points for a correct answer given with timeLeft ticks remaining.
func ScoreFor(timeLeft int) int {
	switch {
	case timeLeft > fastThreshold:
		return fastPoints
	case timeLeft > steadyThreshold:
		return steadyPoints
	default:
		return slowPoints
	}
}

// Percentage returns score as a share of the maximum for count questions.
func Percentage(score, count int) float64 {
	if count <= 0 {
		return 0
	}
	return float64(score) / float64(count*maxPointsPerQuestion) * 100
}

// Classify maps a final score to a tier: >= 80% top, >= 60% mid, else low.
func Classify(score, count int) Tier {
	pct := Percentage(score, count)
	switch {
	case pct >= 80:
		return TierTop
	case pct >= 60:
		return TierMid
	default:
		return TierLow
	}
}

// Notice returns the feedback shown for the tier.
func (t Tier) Notice() Notice {
	switch t {
	case TierTop:
		return Notice{Level: LevelSuccess, Text: "Excellent performance!"}
	case TierMid:
		return Notice{Level: LevelSuccess, Text: "Good job!"}
	default:
		return Notice{Level: LevelInfo, Text: "Keep practicing!"}
	}
}
