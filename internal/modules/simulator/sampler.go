package simulator

import (
	"math/rand"
	"sort"
)

// FormatBasisState renders basis index z as a bitstring: character i is the
// state of qubit i. This ordering is shared with the QUBO decoder and the
// Hamiltonian energy evaluation.
func FormatBasisState(z, numQubits int) string {
	bits := make([]byte, numQubits)
	for q := 0; q < numQubits; q++ {
		bits[q] = '0'
		if z&(1<<q) != 0 {
			bits[q] = '1'
		}
	}
	return string(bits)
}

// sampleCounts draws shots independent samples from the categorical
// distribution over basis states via a cumulative-distribution walk in
// basis-index order. The binary search over the prefix sums keeps
// low-probability tails unbiased; each draw lands in exactly one bucket, so
// the counts always sum to shots.
func sampleCounts(probs []float64, shots int, rng *rand.Rand, numQubits int) map[string]int {
	cdf := make([]float64, len(probs))
	total := 0.0
	for i, p := range probs {
		total += p
		cdf[i] = total
	}

	indexCounts := make(map[int]int)
	for s := 0; s < shots; s++ {
		u := rng.Float64() * total
		idx := sort.SearchFloat64s(cdf, u)
		if idx >= len(probs) {
			idx = len(probs) - 1
		}
		// Skip zero-probability buckets the search may land on when u
		// coincides with a prefix sum.
		for idx < len(probs)-1 && probs[idx] == 0 {
			idx++
		}
		indexCounts[idx]++
	}

	counts := make(map[string]int, len(indexCounts))
	for idx, c := range indexCounts {
		counts[FormatBasisState(idx, numQubits)] = c
	}
	return counts
}
