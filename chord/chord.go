package chord

import (
	"fmt"
	"sort"

	"github.com/xyfu66/score-following-app/model"
	"github.com/xyfu66/score-following-app/util"
)

// OnNotes is the set of keys currently held down
type OnNotes = map[uint8]bool

// CreateChordKey joins the notes in ascending order, e.g. "60-64-67". The input is
// not modified.
func CreateChordKey(notes []uint8) string {
	sorted := make([]uint8, len(notes))
	copy(sorted, notes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})
	var res string
	for i, note := range sorted {
		res += fmt.Sprintf("%v", note)
		if i < len(sorted)-1 {
			res += "-"
		}
	}
	return res
}

// PitchClassKey is CreateChordKey over octave-free pitch classes, so a chord played
// an octave off, or with doubled notes, still matches.
func PitchClassKey(notes []uint8) string {
	classes := make(OnNotes)
	for _, note := range notes {
		classes[note%12] = true
	}
	return CreateChordKey(util.GetKeys(classes))
}

// Held returns the held keys in ascending order
func Held(on OnNotes) model.Notes {
	return util.GetKeysSorted(on)
}
