// Package timeline turns a score's event stream into the ordered set of distinct
// event times the cursor can stop on, and maps beat positions onto it.
package timeline

import (
	"sort"

	"github.com/xyfu66/score-following-app/model"
)

// Index is immutable once built. It is rebuilt wholesale for every loaded score.
type Index struct {
	orderedTimes []float64
	timeToIndex  map[float64]int
}

// Build folds simultaneous entries into one slot per time. The first event seen at
// a time wins; the result is sorted by time even when the traversal was not.
func Build(events []model.ScoreEvent) *Index {
	seen := make(map[float64]int)
	times := make([]float64, 0, len(events))
	for _, evt := range events {
		if _, ok := seen[evt.Time]; !ok {
			times = append(times, evt.Time)
			seen[evt.Time] = len(times) - 1
		}
	}

	if !sort.Float64sAreSorted(times) {
		sort.Float64s(times)
		for i, t := range times {
			seen[t] = i
		}
	}

	return &Index{orderedTimes: times, timeToIndex: seen}
}

func (idx *Index) Len() int {
	return len(idx.orderedTimes)
}

func (idx *Index) Empty() bool {
	return len(idx.orderedTimes) == 0
}

// TimeAt returns the time stored at slot i
func (idx *Index) TimeAt(i int) float64 {
	return idx.orderedTimes[i]
}

// Lookup is the exact path: ok is false when t is not an indexed time
func (idx *Index) Lookup(t float64) (int, bool) {
	i, ok := idx.timeToIndex[t]
	return i, ok
}

// Times returns a copy of the ordered times
func (idx *Index) Times() []float64 {
	res := make([]float64, len(idx.orderedTimes))
	copy(res, idx.orderedTimes)
	return res
}
