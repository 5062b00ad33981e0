// Package scorer converts raw cosine similarity into the 1-based rank shown
// to players. The curve is piecewise linear over the similarity normalized
// from [-1, 1] into [0, 1]:
//
//	normalized 1.00       -> rank 1    (exact match only)
//	normalized 0.95..1.00 -> rank 1..100
//	normalized 0.85..0.95 -> rank 100..500
//	normalized 0.60..0.85 -> rank 500..3000
//	normalized 0.40..0.60 -> rank 3000..7000
//	normalized 0.00..0.40 -> rank 7000..9999
//
// The breakpoints are policy, not contract; they stay fixed for the lifetime
// of a process so ranks within one match are comparable.
package scorer

// MaxRank is the rank assigned to the least similar words.
const MaxRank = 9999

// Rank maps a cosine similarity to a rank in [1, MaxRank]. The mapping is
// monotone: higher similarity never yields a worse rank. Rank 1 is reserved
// for similarity 1.0; everything below it ranks at least 2.
func Rank(similarity float64) int {
	if similarity >= 1.0 {
		return 1
	}
	if similarity < -1.0 {
		similarity = -1.0
	}

	normalized := (similarity + 1) / 2

	var rank int
	switch {
	case normalized >= 0.95:
		rank = int(1 + (100-1)*(1-normalized)/0.05)
	case normalized >= 0.85:
		rank = int(100 + (500-100)*(0.95-normalized)/0.1)
	case normalized >= 0.6:
		rank = int(500 + (3000-500)*(0.85-normalized)/0.25)
	case normalized >= 0.4:
		rank = int(3000 + (7000-3000)*(0.6-normalized)/0.2)
	default:
		rank = int(7000 + (MaxRank-7000)*(0.4-normalized)/0.4)
	}

	// rank 1 stays exclusive to an exact match
	if rank < 2 {
		rank = 2
	}
	if rank > MaxRank {
		rank = MaxRank
	}

	return rank
}
