package timeline

import (
	"github.com/xyfu66/score-following-app/model"
	"github.com/xyfu66/score-following-app/render"
)

// Extract walks the iterator once and flattens every voice entry, rests included,
// in traversal order. It only reads from the iterator.
func Extract(it render.Iterator) []model.ScoreEvent {
	var res []model.ScoreEvent
	for !it.EndReached() {
		res = append(res, it.CurrentEvents()...)
		it.MoveToNext()
	}
	return res
}
