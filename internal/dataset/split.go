// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/bic-lab/audiogram-tools/pkg/types"
)

// NewRand returns the generator used for the report shuffle. The same seed
// always yields the same permutation for a given input length.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

// Shuffle returns a permuted copy of ids. The input slice is not modified.
func Shuffle(ids []string, rng *rand.Rand) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Split is a partition of report ids into the two dataset subsets, each in
// permuted order.
type Split struct {
	Train      []string
	Validation []string
}

// Len returns the number of ids across both subsets.
func (s Split) Len() int {
	return len(s.Train) + len(s.Validation)
}

// SubsetFor returns the subset for zero-based position i in a permuted list
// of n ids. Position i trains iff i < frac*n, compared in floating point.
func SubsetFor(i, n int, frac float64) types.SplitName {
	if float64(i) < frac*float64(n) {
		return types.SplitTrain
	}
	return types.SplitValidation
}

// Assign partitions an already permuted id list by position.
func Assign(ids []string, frac float64) Split {
	var s Split
	for i, id := range ids {
		if SubsetFor(i, len(ids), frac) == types.SplitTrain {
			s.Train = append(s.Train, id)
		} else {
			s.Validation = append(s.Validation, id)
		}
	}
	return s
}

// ValidateFraction rejects training fractions outside [0,1].
func ValidateFraction(frac float64) error {
	if math.IsNaN(frac) || frac < 0 || frac > 1 {
		return fmt.Errorf("train fraction %v out of range [0,1]", frac)
	}
	return nil
}
