package timeline

import (
	"math"
	"sort"
)

// Resolve maps a beat position to the slot of the greatest indexed time not after
// it. Exact matches are answered from the map; anything before the first time, and
// NaN, resolves to 0. Callers should check Empty first, an empty index also gives 0.
//
// Times are compared with plain equality. Both the index and the positions come out
// of the same ticks/resolution arithmetic, so no tolerance is applied.
func (idx *Index) Resolve(target float64) int {
	if math.IsNaN(target) {
		return 0
	}
	if i, ok := idx.timeToIndex[target]; ok {
		return i
	}

	// first slot strictly after target, the floor is the one before it
	after := sort.Search(len(idx.orderedTimes), func(i int) bool {
		return idx.orderedTimes[i] > target
	})
	if after == 0 {
		return 0
	}
	return after - 1
}
